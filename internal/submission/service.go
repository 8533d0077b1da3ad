package submission

import (
	"errors"
	"fmt"
	"time"

	"github.com/SlpAus/contest-hub-backend/internal/contest"
	"github.com/SlpAus/contest-hub-backend/internal/platform/database"
	"github.com/SlpAus/contest-hub-backend/internal/ranking"
	"github.com/SlpAus/contest-hub-backend/internal/user"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrSubmissionNotFound 表示指定ID的作品不存在。
	ErrSubmissionNotFound = errors.New("作品不存在")
	// ErrAlreadyDecided 表示该比赛已经宣布过获胜者。
	ErrAlreadyDecided = errors.New("该比赛已经宣布过获胜者")
)

// Submit 为一个比赛记录一份新作品。只要求比赛存在，不限制比赛状态，
// 也不去重：同一用户可以提交多份。
func Submit(contestID, submitterEmail, content string) (*Submission, error) {
	c, err := contest.GetContestByID(contestID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, contest.ErrContestNotFound
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("无法生成UUID v7: %w", err)
	}
	s := Submission{
		ID:             id.String(),
		ContestID:      contestID,
		SubmitterEmail: submitterEmail,
		Content:        content,
		IsWinner:       false,
	}
	if err := database.DB.Create(&s).Error; err != nil {
		return nil, fmt.Errorf("无法写入作品: %w", err)
	}
	return &s, nil
}

// GetSubmissionByID 按ID查找作品。作品不存在时返回 (nil, nil)。
func GetSubmissionByID(id string) (*Submission, error) {
	var s Submission
	err := database.DB.First(&s, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("查询作品失败: %w", err)
	}
	return &s, nil
}

// ListByContest 返回某个比赛收到的全部作品，只有比赛创建者可以查看。
func ListByContest(contestID, callerEmail string) ([]Submission, error) {
	c, err := contest.GetContestByID(contestID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, contest.ErrContestNotFound
	}
	if c.CreatorEmail != callerEmail {
		return nil, contest.ErrForbidden
	}

	var submissions []Submission
	err = database.DB.
		Where("contest_id = ?", contestID).
		Order("created_at ASC").
		Find(&submissions).Error
	if err != nil {
		return nil, fmt.Errorf("查询作品列表失败: %w", err)
	}
	return submissions, nil
}

// DeclareWinner 宣布一份作品为比赛的获胜者。只有比赛创建者可以调用。
//
// 串行化点是contest行上的条件更新（confirmed→ended）：并发的两次宣布
// 只有一次能翻转状态，另一次拿到ErrAlreadyDecided。状态翻转成功后再
// 落实后果：重置并设置作品的获胜标记、把比赛记入获胜者的获胜集合、
// 刷新排行榜缓存。后果写入失败不回滚比赛状态（见DESIGN.md）。
func DeclareWinner(submissionID, callerEmail string) (*Submission, error) {
	s, err := GetSubmissionByID(submissionID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, ErrSubmissionNotFound
	}

	c, err := contest.GetContestByID(s.ContestID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, contest.ErrContestNotFound
	}
	if c.CreatorEmail != callerEmail {
		return nil, contest.ErrForbidden
	}

	// 获胜者快照取宣布时刻的资料，之后改资料不回写
	snapshot := contest.WinnerSnapshot{Email: s.SubmitterEmail}
	winner, err := user.GetUserByEmail(s.SubmitterEmail)
	if err != nil {
		return nil, err
	}
	if winner != nil {
		snapshot.Name = winner.Name
		snapshot.Photo = winner.Photo
	}

	applied, err := contest.EndWithWinner(c.ID, snapshot)
	if err != nil {
		return nil, err
	}
	if !applied {
		// 状态机拒绝：要么已经结束，要么还没通过审核
		current, err := contest.GetContestByID(c.ID)
		if err != nil {
			return nil, err
		}
		if current != nil && current.Status == contest.StatusEnded {
			return nil, ErrAlreadyDecided
		}
		return nil, contest.ErrInvalidTransition
	}

	// 防御性重置：先清掉该比赛下所有获胜标记，再设置本作品
	err = database.DB.Model(&Submission{}).
		Where("contest_id = ? AND is_winner = ?", s.ContestID, true).
		Updates(map[string]interface{}{"is_winner": false, "decided_at": nil}).Error
	if err != nil {
		return nil, fmt.Errorf("比赛已结束但获胜标记重置失败: %w", err)
	}
	decidedAt := time.Now()
	err = database.DB.Model(&Submission{}).
		Where("id = ?", s.ID).
		Updates(map[string]interface{}{"is_winner": true, "decided_at": decidedAt}).Error
	if err != nil {
		return nil, fmt.Errorf("比赛已结束但获胜标记写入失败: %w", err)
	}
	s.IsWinner = true
	s.DecidedAt = &decidedAt

	if err := user.AddWonContest(s.SubmitterEmail, s.ContestID); err != nil {
		return nil, fmt.Errorf("比赛已结束但用户获胜集合更新失败: %w", err)
	}

	// 聚合视图缓存是尽力而为的，失败只影响读取性能
	ranking.RecordWin(s.SubmitterEmail, ranking.RecentWinner{
		Name:        snapshot.Name,
		Photo:       snapshot.Photo,
		ContestName: c.Name,
		Prize:       c.Prize,
	})

	return s, nil
}
