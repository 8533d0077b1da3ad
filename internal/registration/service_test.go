package registration

import (
	"fmt"
	"strings"
	"testing"

	"github.com/SlpAus/contest-hub-backend/internal/contest"
	"github.com/SlpAus/contest-hub-backend/internal/platform/database"
	"github.com/SlpAus/contest-hub-backend/internal/user"
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
	require.NoError(t, db.AutoMigrate(&user.User{}, &contest.Contest{}, &Payment{}))
	database.DB = db
	database.RDB = nil
}

func setupContestAndUser(t *testing.T) *contest.Contest {
	t.Helper()
	_, err := user.UpsertUser("payer@example.com", "Payer", "")
	require.NoError(t, err)

	c, err := contest.CreateContest("creator@example.com", contest.ContestContent{
		Name: "摄影大赛", Type: "photo", Prize: "相机",
	})
	require.NoError(t, err)
	require.NoError(t, contest.UpdateStatus(c.ID, contest.StatusConfirmed))
	return c
}

func TestRegisterHappyPath(t *testing.T) {
	setupTestDB(t)
	c := setupContestAndUser(t)

	payment, err := Register(c.ID, "payer@example.com", 50)
	require.NoError(t, err)
	assert.Equal(t, c.ID, payment.ContestID)
	assert.Equal(t, "payer@example.com", payment.PayerEmail)
	assert.Equal(t, 50.0, payment.Amount)

	// 三个写入都已落实：台账、计数器、用户集合
	count, err := CountPaymentsByContest(c.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	stored, err := contest.GetContestByID(c.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Participants)

	u, err := user.GetUserByEmail("payer@example.com")
	require.NoError(t, err)
	assert.Equal(t, []string{c.ID}, u.ParticipatedContests)
}

func TestRegisterDuplicateConflict(t *testing.T) {
	setupTestDB(t)
	c := setupContestAndUser(t)

	_, err := Register(c.ID, "payer@example.com", 50)
	require.NoError(t, err)

	// 第二次报名返回冲突，且不触碰计数器
	_, err = Register(c.ID, "payer@example.com", 50)
	assert.ErrorIs(t, err, ErrDuplicateRegistration)

	stored, err := contest.GetContestByID(c.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Participants)

	count, err := CountPaymentsByContest(c.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRegisterUniqueIndexIsTheArbiter(t *testing.T) {
	setupTestDB(t)
	c := setupContestAndUser(t)

	// 绕过快速路径直接插入，模拟并发请求抢先写入台账的情形
	seeded := Payment{ID: "seeded", ContestID: c.ID, PayerEmail: "payer@example.com", Amount: 50}
	require.NoError(t, database.DB.Create(&seeded).Error)

	another := Payment{ID: "dup", ContestID: c.ID, PayerEmail: "payer@example.com", Amount: 50}
	err := database.DB.Create(&another).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	// 同一用户报其他比赛不受影响
	other := Payment{ID: "other", ContestID: "another-contest", PayerEmail: "payer@example.com", Amount: 10}
	assert.NoError(t, database.DB.Create(&other).Error)
}

func TestRegisterPreconditions(t *testing.T) {
	setupTestDB(t)

	t.Run("missing contest", func(t *testing.T) {
		_, err := Register("no-such-id", "payer@example.com", 50)
		assert.ErrorIs(t, err, contest.ErrContestNotFound)
	})

	t.Run("pending contest is not joinable", func(t *testing.T) {
		c, err := contest.CreateContest("creator@example.com", contest.ContestContent{
			Name: "未审核赛", Type: "misc", Prize: "x",
		})
		require.NoError(t, err)

		_, err = Register(c.ID, "payer@example.com", 50)
		assert.ErrorIs(t, err, ErrContestNotJoinable)
	})

	t.Run("ended contest is not joinable", func(t *testing.T) {
		c, err := contest.CreateContest("creator@example.com", contest.ContestContent{
			Name: "已结束赛", Type: "misc", Prize: "x",
		})
		require.NoError(t, err)
		require.NoError(t, contest.UpdateStatus(c.ID, contest.StatusConfirmed))
		applied, err := contest.EndWithWinner(c.ID, contest.WinnerSnapshot{Email: "w@example.com"})
		require.NoError(t, err)
		require.True(t, applied)

		_, err = Register(c.ID, "payer@example.com", 50)
		assert.ErrorIs(t, err, ErrContestNotJoinable)
	})
}

func TestListPaymentsByUser(t *testing.T) {
	setupTestDB(t)
	c := setupContestAndUser(t)

	_, err := Register(c.ID, "payer@example.com", 50)
	require.NoError(t, err)

	payments, err := ListPaymentsByUser("payer@example.com")
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, c.ID, payments[0].ContestID)

	none, err := ListPaymentsByUser("nobody@example.com")
	require.NoError(t, err)
	assert.Empty(t, none)
}
