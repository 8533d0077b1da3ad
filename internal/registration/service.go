package registration

import (
	"errors"
	"fmt"

	"github.com/SlpAus/contest-hub-backend/internal/contest"
	"github.com/SlpAus/contest-hub-backend/internal/platform/database"
	"github.com/SlpAus/contest-hub-backend/internal/user"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrDuplicateRegistration 表示该用户已经报名过这个比赛。
	ErrDuplicateRegistration = errors.New("已经报名过该比赛")
	// ErrContestNotJoinable 表示比赛不在可报名状态（只有confirmed可报名）。
	ErrContestNotJoinable = errors.New("比赛当前不可报名")
)

// Register 处理一次报名加付款。
// 成功路径上的三次写入按顺序执行：插入Payment、报名计数器加一、
// 把比赛ID记入用户的已参加集合。唯一索引保证重复报名在第一步就被
// 原子地拒绝；后续步骤失败时不回滚，向调用方暴露500（见DESIGN.md）。
func Register(contestID, payerEmail string, amount float64) (*Payment, error) {
	// 报名前置校验：比赛必须存在且已通过审核
	c, err := contest.GetContestByID(contestID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, contest.ErrContestNotFound
	}
	if c.Status != contest.StatusConfirmed {
		return nil, ErrContestNotJoinable
	}

	// 快速路径：先查一次台账，让普通的重复报名不必走到插入冲突
	var count int64
	if err := database.DB.Model(&Payment{}).
		Where("contest_id = ? AND payer_email = ?", contestID, payerEmail).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("查询报名台账失败: %w", err)
	}
	if count > 0 {
		return nil, ErrDuplicateRegistration
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("无法生成UUID v7: %w", err)
	}
	payment := Payment{
		ID:         id.String(),
		ContestID:  contestID,
		PayerEmail: payerEmail,
		Amount:     amount,
	}
	if err := database.DB.Create(&payment).Error; err != nil {
		// 并发的重复报名走到这里：唯一索引是真正的裁决点
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateRegistration
		}
		return nil, fmt.Errorf("无法写入报名记录: %w", err)
	}

	if err := contest.IncrementParticipants(contestID); err != nil {
		return nil, fmt.Errorf("报名记录已写入但计数器更新失败: %w", err)
	}
	if err := user.AddParticipatedContest(payerEmail, contestID); err != nil {
		return nil, fmt.Errorf("报名记录已写入但用户集合更新失败: %w", err)
	}

	return &payment, nil
}

// ListPaymentsByUser 返回某个用户的全部报名记录，按时间倒序。
func ListPaymentsByUser(payerEmail string) ([]Payment, error) {
	var payments []Payment
	err := database.DB.
		Where("payer_email = ?", payerEmail).
		Order("created_at DESC").
		Find(&payments).Error
	if err != nil {
		return nil, fmt.Errorf("查询报名记录失败: %w", err)
	}
	return payments, nil
}

// CountPaymentsByContest 返回某个比赛的报名记录数，用于校验计数器的一致性。
func CountPaymentsByContest(contestID string) (int64, error) {
	var count int64
	err := database.DB.Model(&Payment{}).
		Where("contest_id = ?", contestID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("查询报名台账失败: %w", err)
	}
	return count, nil
}
