package user

import (
	"testing"
	"time"

	"github.com/SlpAus/contest-hub-backend/pkg/token"
	"github.com/stretchr/testify/assert"
)

func TestCookieMaxAgeFollowsTokenTTL(t *testing.T) {
	token.InitSecretKey("test-secret-key-for-unit-tests", 48)
	assert.Equal(t, int((48 * time.Hour).Seconds()), cookieMaxAge())

	token.InitSecretKey("test-secret-key-for-unit-tests", 1)
	assert.Equal(t, 3600, cookieMaxAge())
}
