package ranking

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/SlpAus/contest-hub-backend/internal/contest"
	"github.com/SlpAus/contest-hub-backend/internal/platform/database"
	"github.com/SlpAus/contest-hub-backend/internal/user"
)

// LeaderboardEntry 是排行榜视图中的一行。
type LeaderboardEntry struct {
	Name  string `json:"name"`
	Photo string `json:"photo"`
	Email string `json:"email"`
	Wins  int    `json:"wins"`
}

// GetLeaderboard 返回按获胜次数降序的排行榜，0胜的用户不出现。
// 并列时按用户名升序（见DESIGN.md的开放问题决议）。
// 优先走Redis缓存，缓存不可用或为空时回退到数据库。
func GetLeaderboard() ([]LeaderboardEntry, error) {
	if database.IsRedisAvailable() {
		entries, err := leaderboardFromCache()
		if err == nil && len(entries) > 0 {
			return entries, nil
		}
		if err != nil {
			fmt.Printf("警告: 读取排行榜缓存失败，回退到数据库: %v\n", err)
		}
	}
	return leaderboardFromDB()
}

func leaderboardFromCache() ([]LeaderboardEntry, error) {
	members, err := database.RDB.ZRevRangeWithScores(database.Ctx, LeaderboardKey, 0, -1).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(members))
	for _, m := range members {
		email, ok := m.Member.(string)
		if !ok || m.Score < 1 {
			continue
		}
		u, err := user.GetUserByEmail(email)
		if err != nil {
			return nil, err
		}
		if u == nil {
			// 用户记录丢失时静默跳过该行
			continue
		}
		entries = append(entries, LeaderboardEntry{
			Name:  u.Name,
			Photo: u.Photo,
			Email: u.Email,
			Wins:  int(m.Score),
		})
	}
	sortLeaderboard(entries)
	return entries, nil
}

func leaderboardFromDB() ([]LeaderboardEntry, error) {
	var users []user.User
	if err := database.DB.Find(&users).Error; err != nil {
		return nil, fmt.Errorf("查询用户列表失败: %w", err)
	}

	entries := make([]LeaderboardEntry, 0)
	for _, u := range users {
		if len(u.WonContests) == 0 {
			continue
		}
		entries = append(entries, LeaderboardEntry{
			Name:  u.Name,
			Photo: u.Photo,
			Email: u.Email,
			Wins:  len(u.WonContests),
		})
	}
	sortLeaderboard(entries)
	return entries, nil
}

// sortLeaderboard 统一两条读取路径的排序：获胜数降序，并列按用户名升序。
func sortLeaderboard(entries []LeaderboardEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Wins != entries[j].Wins {
			return entries[i].Wins > entries[j].Wins
		}
		return entries[i].Name < entries[j].Name
	})
}

// GetRecentWinners 返回最近的获胜记录，最新的在前。
// limit不合法时取默认值6，上限20。连接不到User或Contest的记录被静默丢弃。
func GetRecentWinners(limit int) ([]RecentWinner, error) {
	if limit <= 0 {
		limit = 6
	}
	if limit > maxRecentWinners {
		limit = maxRecentWinners
	}

	if database.IsRedisAvailable() {
		winners, err := recentWinnersFromCache(limit)
		if err == nil && len(winners) > 0 {
			return winners, nil
		}
		if err != nil {
			fmt.Printf("警告: 读取最近获胜者缓存失败，回退到数据库: %v\n", err)
		}
	}
	return recentWinnersFromDB(limit)
}

func recentWinnersFromCache(limit int) ([]RecentWinner, error) {
	items, err := database.RDB.LRange(database.Ctx, RecentWinnersKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	winners := make([]RecentWinner, 0, len(items))
	for _, item := range items {
		var w RecentWinner
		if err := json.Unmarshal([]byte(item), &w); err != nil {
			continue
		}
		winners = append(winners, w)
	}
	return winners, nil
}

// winnerRow 是从submissions表直接扫描出来的获胜记录。
// 不引用submission包，避免包间循环依赖。
type winnerRow struct {
	ContestID      string
	SubmitterEmail string
}

func recentWinnersFromDB(limit int) ([]RecentWinner, error) {
	// 按宣布获胜的时刻倒序，而不是作品提交时刻：
	// 视图展示的是"最近产生的获胜者"，和缓存路径的LPush顺序一致
	var rows []winnerRow
	err := database.DB.Table("submissions").
		Select("contest_id", "submitter_email").
		Where("is_winner = ?", true).
		Order("decided_at DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("查询获胜作品失败: %w", err)
	}

	winners := make([]RecentWinner, 0, len(rows))
	for _, row := range rows {
		u, err := user.GetUserByEmail(row.SubmitterEmail)
		if err != nil {
			return nil, err
		}
		c, err := contest.GetContestByID(row.ContestID)
		if err != nil {
			return nil, err
		}
		if u == nil || c == nil {
			// 连接对象已经不存在，静默丢弃
			continue
		}
		winners = append(winners, RecentWinner{
			Name:        u.Name,
			Photo:       u.Photo,
			ContestName: c.Name,
			Prize:       c.Prize,
		})
	}
	return winners, nil
}
