package ranking

import (
	"encoding/json"
	"fmt"

	"github.com/SlpAus/contest-hub-backend/internal/platform/database"
)

// --- Redis 键名常量 ---

const (
	// LeaderboardKey 是一个Redis Sorted Set，Score为获胜次数，Member为用户email。
	LeaderboardKey = "ranking:wins"

	// RecentWinnersKey 是一个Redis List，头部是最新的获胜记录，
	// 元素是RecentWinner的JSON序列化字符串。
	RecentWinnersKey = "ranking:recent_winners"

	// maxRecentWinners 是最近获胜者列表在缓存中保留的最大长度。
	maxRecentWinners = 20
)

// RecentWinner 是最近获胜者视图中的一条记录，
// 字段是宣布获胜时刻的快照，不随后续资料修改变化。
type RecentWinner struct {
	Name        string `json:"name"`
	Photo       string `json:"photo"`
	ContestName string `json:"contestName"`
	Prize       string `json:"prize"`
}

// RecordWin 在宣布获胜后刷新聚合视图缓存。
// 缓存是尽力而为的：Redis不可用或写入失败只打印警告，不影响主流程。
func RecordWin(winnerEmail string, w RecentWinner) {
	if !database.IsRedisAvailable() {
		return
	}

	entryJSON, err := json.Marshal(w)
	if err != nil {
		fmt.Printf("警告: 无法序列化获胜记录: %v\n", err)
		return
	}

	pipe := database.RDB.Pipeline()
	pipe.ZIncrBy(database.Ctx, LeaderboardKey, 1, winnerEmail)
	pipe.LPush(database.Ctx, RecentWinnersKey, entryJSON)
	pipe.LTrim(database.Ctx, RecentWinnersKey, 0, maxRecentWinners-1)
	if _, err := pipe.Exec(database.Ctx); err != nil {
		fmt.Printf("警告: 刷新排行榜缓存失败: %v\n", err)
	}
}
