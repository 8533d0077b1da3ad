package ranking

import (
	"encoding/json"
	"fmt"

	"github.com/SlpAus/contest-hub-backend/internal/platform/database"
	"github.com/redis/go-redis/v9"
)

// WarmupCache 从数据库重建排行榜和最近获胜者的Redis缓存。
// 在应用启动时和Redis重启恢复后调用。Redis未启用时是空操作。
func WarmupCache() error {
	if database.RDB == nil {
		return nil
	}

	// 排行榜：从用户的获胜集合重建
	entries, err := leaderboardFromDB()
	if err != nil {
		return fmt.Errorf("无法从数据库读取排行榜数据: %w", err)
	}

	// 最近获胜者：从获胜作品重建，最新的在列表头部
	winners, err := recentWinnersFromDB(maxRecentWinners)
	if err != nil {
		return fmt.Errorf("无法从数据库读取最近获胜者: %w", err)
	}

	pipe := database.RDB.Pipeline()
	pipe.Del(database.Ctx, LeaderboardKey, RecentWinnersKey)
	for _, e := range entries {
		pipe.ZAdd(database.Ctx, LeaderboardKey, redis.Z{
			Score:  float64(e.Wins),
			Member: e.Email,
		})
	}
	for _, w := range winners {
		winnerJSON, _ := json.Marshal(w)
		pipe.RPush(database.Ctx, RecentWinnersKey, winnerJSON)
	}
	if _, err := pipe.Exec(database.Ctx); err != nil {
		return fmt.Errorf("预热排行榜缓存到Redis失败: %w", err)
	}

	fmt.Printf("成功预热排行榜缓存：%d 位上榜用户，%d 条获胜记录。\n", len(entries), len(winners))
	return nil
}
