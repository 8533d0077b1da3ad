package health

import (
	"net/http"

	"github.com/SlpAus/contest-hub-backend/internal/platform/database"
	"github.com/gin-gonic/gin"
)

// StatusHandler 报告进程的健康状况。
// 数据库不可达时返回503，Redis缓存的状态只作为附加信息。
func StatusHandler(c *gin.Context) {
	dbHealthy := false
	if database.DB != nil {
		if sqlDB, err := database.DB.DB(); err == nil {
			dbHealthy = sqlDB.Ping() == nil
		}
	}

	status := http.StatusOK
	if !dbHealthy {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"database": dbHealthy,
		"cache":    database.IsRedisAvailable(),
	})
}
