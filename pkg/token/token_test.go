package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	InitSecretKey("test-secret-key-for-unit-tests", 1)

	tokenString, err := GenerateToken("alice@example.com", "user")
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	claims, err := ValidateToken(tokenString)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "user", claims.Role)
}

func TestValidateTokenFailsClosed(t *testing.T) {
	InitSecretKey("test-secret-key-for-unit-tests", 1)

	t.Run("empty token", func(t *testing.T) {
		_, err := ValidateToken("")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := ValidateToken("not.a.jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("tampered token", func(t *testing.T) {
		tokenString, err := GenerateToken("alice@example.com", "user")
		require.NoError(t, err)

		_, err = ValidateToken(tokenString + "x")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("token signed with another key", func(t *testing.T) {
		other := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
			Email: "mallory@example.com",
			Role:  "admin",
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		})
		signed, err := other.SignedString([]byte("a-completely-different-key"))
		require.NoError(t, err)

		_, err = ValidateToken(signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		expired := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
			Email: "alice@example.com",
			Role:  "user",
			RegisteredClaims: jwt.RegisteredClaims{
				IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			},
		})
		signed, err := expired.SignedString(secretKey)
		require.NoError(t, err)

		_, err = ValidateToken(signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestTTLFollowsConfig(t *testing.T) {
	InitSecretKey("test-secret-key-for-unit-tests", 24)
	assert.Equal(t, 24*time.Hour, TTL())

	// ttl不合法时沿用当前值
	InitSecretKey("test-secret-key-for-unit-tests", 0)
	assert.Equal(t, 24*time.Hour, TTL())
}

func TestGeneratedRandomKey(t *testing.T) {
	InitSecretKey("", 1)
	require.Len(t, secretKey, 32)

	tokenString, err := GenerateToken("bob@example.com", "admin")
	require.NoError(t, err)

	claims, err := ValidateToken(tokenString)
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", claims.Email)
	assert.Equal(t, "admin", claims.Role)
}
