package ranking

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// LeaderboardHandler 返回获胜排行榜。
func LeaderboardHandler(c *gin.Context) {
	entries, err := GetLeaderboard()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "获取排行榜数据失败"})
		return
	}
	c.JSON(http.StatusOK, entries)
}

// RecentWinnersHandler 返回最近获胜者，默认6条。
func RecentWinnersHandler(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	winners, err := GetRecentWinners(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "获取最近获胜者失败"})
		return
	}
	c.JSON(http.StatusOK, winners)
}
