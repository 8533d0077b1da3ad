package contest

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/SlpAus/contest-hub-backend/internal/platform/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Contest{}))
	database.DB = db
	database.RDB = nil
}

func mustCreate(t *testing.T, creator, name string) *Contest {
	t.Helper()
	c, err := CreateContest(creator, ContestContent{
		Name:  name,
		Type:  "design",
		Prize: "1000元",
	})
	require.NoError(t, err)
	return c
}

func TestCreateContestForcesPending(t *testing.T) {
	setupTestDB(t)

	c := mustCreate(t, "creator@example.com", "Logo设计大赛")
	assert.Equal(t, StatusPending, c.Status)
	assert.Equal(t, 0, c.Participants)
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, "creator@example.com", c.CreatorEmail)
}

func TestUpdateContestRules(t *testing.T) {
	setupTestDB(t)
	c := mustCreate(t, "creator@example.com", "Logo设计大赛")

	newContent := ContestContent{
		Name:        "Logo设计大赛（改）",
		Type:        "design",
		Prize:       "2000元",
		Description: "新说明",
		Deadline:    time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
	}

	t.Run("non-creator cannot edit", func(t *testing.T) {
		_, err := UpdateContest(c.ID, "other@example.com", newContent)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("creator can edit while pending", func(t *testing.T) {
		updated, err := UpdateContest(c.ID, "creator@example.com", newContent)
		require.NoError(t, err)
		assert.Equal(t, "Logo设计大赛（改）", updated.Name)
		assert.Equal(t, "2000元", updated.Prize)
	})

	t.Run("edit rejected after confirmation", func(t *testing.T) {
		require.NoError(t, UpdateStatus(c.ID, StatusConfirmed))
		_, err := UpdateContest(c.ID, "creator@example.com", ContestContent{
			Name: "被并发审核抢先的修改", Type: "design", Prize: "0元",
		})
		assert.ErrorIs(t, err, ErrNotEditable)

		// 条件更新没有命中任何行，内容保持确认前的最后一次修改
		stored, err := GetContestByID(c.ID)
		require.NoError(t, err)
		assert.Equal(t, "Logo设计大赛（改）", stored.Name)
		assert.Equal(t, "2000元", stored.Prize)
	})

	t.Run("missing contest", func(t *testing.T) {
		_, err := UpdateContest("no-such-id", "creator@example.com", newContent)
		assert.ErrorIs(t, err, ErrContestNotFound)
	})
}

func TestStatusTransitions(t *testing.T) {
	setupTestDB(t)

	t.Run("pending to confirmed", func(t *testing.T) {
		c := mustCreate(t, "creator@example.com", "A")
		require.NoError(t, UpdateStatus(c.ID, StatusConfirmed))

		stored, err := GetContestByID(c.ID)
		require.NoError(t, err)
		assert.Equal(t, StatusConfirmed, stored.Status)
	})

	t.Run("pending to rejected is terminal", func(t *testing.T) {
		c := mustCreate(t, "creator@example.com", "B")
		require.NoError(t, UpdateStatus(c.ID, StatusRejected))

		// 终态拒绝任何进一步迁移
		assert.ErrorIs(t, UpdateStatus(c.ID, StatusConfirmed), ErrInvalidTransition)
	})

	t.Run("double confirmation rejected", func(t *testing.T) {
		c := mustCreate(t, "creator@example.com", "C")
		require.NoError(t, UpdateStatus(c.ID, StatusConfirmed))
		assert.ErrorIs(t, UpdateStatus(c.ID, StatusConfirmed), ErrInvalidTransition)
	})

	t.Run("cannot request ended directly", func(t *testing.T) {
		c := mustCreate(t, "creator@example.com", "D")
		assert.ErrorIs(t, UpdateStatus(c.ID, StatusEnded), ErrInvalidTransition)
	})

	t.Run("missing contest", func(t *testing.T) {
		assert.ErrorIs(t, UpdateStatus("no-such-id", StatusConfirmed), ErrContestNotFound)
	})
}

func TestEndWithWinner(t *testing.T) {
	setupTestDB(t)

	c := mustCreate(t, "creator@example.com", "摄影大赛")
	snapshot := WinnerSnapshot{Name: "Alice", Email: "alice@example.com", Photo: "a.png"}

	// pending状态不能结束
	applied, err := EndWithWinner(c.ID, snapshot)
	require.NoError(t, err)
	assert.False(t, applied)

	require.NoError(t, UpdateStatus(c.ID, StatusConfirmed))

	applied, err = EndWithWinner(c.ID, snapshot)
	require.NoError(t, err)
	assert.True(t, applied)

	// 第二次结束被条件更新拒绝，第一个获胜者保持不变
	applied, err = EndWithWinner(c.ID, WinnerSnapshot{Name: "Bob", Email: "bob@example.com"})
	require.NoError(t, err)
	assert.False(t, applied)

	stored, err := GetContestByID(c.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusEnded, stored.Status)
	assert.Equal(t, "alice@example.com", stored.Winner.Email)
	assert.Equal(t, "Alice", stored.Winner.Name)
}

func TestDeleteContestRules(t *testing.T) {
	setupTestDB(t)

	t.Run("creator deletes pending contest", func(t *testing.T) {
		c := mustCreate(t, "creator@example.com", "A")
		require.NoError(t, DeleteContest(c.ID, "creator@example.com", false))

		stored, err := GetContestByID(c.ID)
		require.NoError(t, err)
		assert.Nil(t, stored)
	})

	t.Run("creator cannot delete confirmed contest", func(t *testing.T) {
		c := mustCreate(t, "creator@example.com", "B")
		require.NoError(t, UpdateStatus(c.ID, StatusConfirmed))
		assert.ErrorIs(t, DeleteContest(c.ID, "creator@example.com", false), ErrNotEditable)

		// 条件删除没有命中任何行，比赛仍然存在
		stored, err := GetContestByID(c.ID)
		require.NoError(t, err)
		require.NotNil(t, stored)
	})

	t.Run("stranger cannot delete", func(t *testing.T) {
		c := mustCreate(t, "creator@example.com", "C")
		assert.ErrorIs(t, DeleteContest(c.ID, "other@example.com", false), ErrForbidden)
	})

	t.Run("admin deletes at any status", func(t *testing.T) {
		c := mustCreate(t, "creator@example.com", "D")
		require.NoError(t, UpdateStatus(c.ID, StatusConfirmed))
		require.NoError(t, DeleteContest(c.ID, "admin@example.com", true))
	})

	t.Run("missing contest", func(t *testing.T) {
		assert.ErrorIs(t, DeleteContest("no-such-id", "creator@example.com", false), ErrContestNotFound)
	})
}

func TestListVisibility(t *testing.T) {
	setupTestDB(t)

	pending := mustCreate(t, "creator@example.com", "Pending赛")
	confirmed := mustCreate(t, "creator@example.com", "Confirmed赛")
	ended := mustCreate(t, "creator@example.com", "Ended赛")
	rejected := mustCreate(t, "creator@example.com", "Rejected赛")

	require.NoError(t, UpdateStatus(confirmed.ID, StatusConfirmed))
	require.NoError(t, UpdateStatus(rejected.ID, StatusRejected))
	require.NoError(t, UpdateStatus(ended.ID, StatusConfirmed))
	applied, err := EndWithWinner(ended.ID, WinnerSnapshot{Email: "w@example.com"})
	require.NoError(t, err)
	require.True(t, applied)

	t.Run("anonymous sees only confirmed and ended", func(t *testing.T) {
		contests, err := ListContests(ListQuery{})
		require.NoError(t, err)
		ids := idsOf(contests)
		assert.ElementsMatch(t, []string{confirmed.ID, ended.ID}, ids)
	})

	t.Run("creator dashboard sees all own statuses", func(t *testing.T) {
		contests, err := ListContests(ListQuery{
			CreatorEmail: "creator@example.com",
			ViewerEmail:  "creator@example.com",
		})
		require.NoError(t, err)
		assert.Len(t, contests, 4)
	})

	t.Run("stranger filtering by creator still sees public only", func(t *testing.T) {
		contests, err := ListContests(ListQuery{
			CreatorEmail: "creator@example.com",
			ViewerEmail:  "other@example.com",
		})
		require.NoError(t, err)
		ids := idsOf(contests)
		assert.ElementsMatch(t, []string{confirmed.ID, ended.ID}, ids)
	})

	t.Run("search and limit", func(t *testing.T) {
		contests, err := ListContests(ListQuery{Search: "Confirmed", Limit: 10})
		require.NoError(t, err)
		require.Len(t, contests, 1)
		assert.Equal(t, confirmed.ID, contests[0].ID)
	})

	t.Run("admin view with explicit status filter", func(t *testing.T) {
		all, err := ListContestsForAdmin("", 0)
		require.NoError(t, err)
		assert.Len(t, all, 4)

		onlyPending, err := ListContestsForAdmin(StatusPending, 0)
		require.NoError(t, err)
		require.Len(t, onlyPending, 1)
		assert.Equal(t, pending.ID, onlyPending[0].ID)
	})
}

func TestListSortByParticipants(t *testing.T) {
	setupTestDB(t)

	a := mustCreate(t, "creator@example.com", "A")
	b := mustCreate(t, "creator@example.com", "B")
	require.NoError(t, UpdateStatus(a.ID, StatusConfirmed))
	require.NoError(t, UpdateStatus(b.ID, StatusConfirmed))

	require.NoError(t, IncrementParticipants(b.ID))
	require.NoError(t, IncrementParticipants(b.ID))
	require.NoError(t, IncrementParticipants(a.ID))

	contests, err := ListContests(ListQuery{Sort: "popular"})
	require.NoError(t, err)
	require.Len(t, contests, 2)
	assert.Equal(t, b.ID, contests[0].ID)
	assert.Equal(t, 2, contests[0].Participants)
}

func idsOf(contests []Contest) []string {
	ids := make([]string, 0, len(contests))
	for _, c := range contests {
		ids = append(ids, c.ID)
	}
	return ids
}
