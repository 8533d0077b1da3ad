package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCacheStatusTracksRunID(t *testing.T) {
	SetInitialRunID("run-1")
	assert.True(t, IsRedisHealthy())
	assert.Equal(t, "run-1", GetLastKnownRunID())

	// 不健康期间run_id不推进，保留重启前的基准值
	UpdateStatus(false, "ignored")
	assert.False(t, IsRedisHealthy())
	assert.Equal(t, "run-1", GetLastKnownRunID())

	// 恢复健康后才接受新的run_id
	UpdateStatus(true, "run-2")
	assert.True(t, IsRedisHealthy())
	assert.Equal(t, "run-2", GetLastKnownRunID())
}
