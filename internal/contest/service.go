package contest

import (
	"errors"
	"fmt"
	"time"

	"github.com/SlpAus/contest-hub-backend/internal/platform/database"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- 哨兵错误，由handler映射到HTTP状态码 ---

var (
	// ErrContestNotFound 表示指定ID的比赛不存在。
	ErrContestNotFound = errors.New("比赛不存在")
	// ErrForbidden 表示调用者既不是比赛创建者也没有所需角色。
	ErrForbidden = errors.New("没有操作该比赛的权限")
	// ErrNotEditable 表示比赛已离开pending状态，内容不可再修改。
	ErrNotEditable = errors.New("比赛已进入审核后状态，无法修改")
	// ErrInvalidTransition 表示请求的状态迁移不在状态机允许的范围内。
	ErrInvalidTransition = errors.New("非法的比赛状态迁移")
)

// ContestContent 是创建和编辑比赛时可写的内容字段。
type ContestContent struct {
	Name        string
	Type        string
	Prize       string
	Description string
	Deadline    time.Time
}

// CreateContest 以pending状态创建一个新比赛。状态由服务端强制，不信任请求。
func CreateContest(creatorEmail string, content ContestContent) (*Contest, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("无法生成UUID v7: %w", err)
	}

	c := Contest{
		ID:           id.String(),
		Name:         content.Name,
		Type:         content.Type,
		Prize:        content.Prize,
		Description:  content.Description,
		Deadline:     content.Deadline,
		CreatorEmail: creatorEmail,
		Participants: 0,
		Status:       StatusPending,
	}
	if err := database.DB.Create(&c).Error; err != nil {
		return nil, fmt.Errorf("无法创建比赛: %w", err)
	}
	return &c, nil
}

// GetContestByID 按ID查找比赛。比赛不存在时返回 (nil, nil)。
func GetContestByID(id string) (*Contest, error) {
	var c Contest
	err := database.DB.First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("查询比赛失败: %w", err)
	}
	return &c, nil
}

// ListQuery 描述公开列表的过滤条件。
type ListQuery struct {
	Search       string // 按名称模糊匹配
	Sort         string // "popular" 按报名人数，默认按创建时间倒序
	CreatorEmail string // 只看某个创建者
	Limit        int

	// ViewerEmail 是已登录查看者的email（可为空）。
	// 创建者查看自己的比赛时不做状态过滤，其余请求只返回confirmed和ended。
	ViewerEmail string
}

// ListContests 返回公开可见的比赛列表。
func ListContests(q ListQuery) ([]Contest, error) {
	tx := database.DB.Model(&Contest{})

	ownView := q.CreatorEmail != "" && q.CreatorEmail == q.ViewerEmail
	if !ownView {
		tx = tx.Where("status IN ?", []Status{StatusConfirmed, StatusEnded})
	}
	if q.CreatorEmail != "" {
		tx = tx.Where("creator_email = ?", q.CreatorEmail)
	}
	if q.Search != "" {
		tx = tx.Where("name LIKE ?", "%"+q.Search+"%")
	}

	switch q.Sort {
	case "popular":
		tx = tx.Order("participants DESC")
	default:
		tx = tx.Order("created_at DESC")
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}

	var contests []Contest
	if err := tx.Find(&contests).Error; err != nil {
		return nil, fmt.Errorf("查询比赛列表失败: %w", err)
	}
	return contests, nil
}

// ListContestsForAdmin 返回全部比赛，支持显式的状态过滤。仅限管理员路由调用。
func ListContestsForAdmin(status Status, limit int) ([]Contest, error) {
	tx := database.DB.Model(&Contest{}).Order("created_at DESC")
	if status != "" {
		tx = tx.Where("status = ?", status)
	}
	if limit > 0 {
		tx = tx.Limit(limit)
	}

	var contests []Contest
	if err := tx.Find(&contests).Error; err != nil {
		return nil, fmt.Errorf("查询比赛列表失败: %w", err)
	}
	return contests, nil
}

// UpdateContest 修改比赛的内容字段。
// 只有创建者可以修改，且只能在pending状态下修改。
// WHERE中带上pending作为条件更新：读取和写入之间被并发审核改变状态的比赛不会被改写。
func UpdateContest(id, callerEmail string, content ContestContent) (*Contest, error) {
	c, err := GetContestByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrContestNotFound
	}
	if c.CreatorEmail != callerEmail {
		return nil, ErrForbidden
	}

	res := database.DB.Model(&Contest{}).
		Where("id = ? AND status = ?", id, StatusPending).
		Updates(map[string]interface{}{
			"name":        content.Name,
			"type":        content.Type,
			"prize":       content.Prize,
			"description": content.Description,
			"deadline":    content.Deadline,
		})
	if res.Error != nil {
		return nil, fmt.Errorf("无法更新比赛: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// 区分比赛已被删除和状态已离开pending
		current, err := GetContestByID(id)
		if err != nil {
			return nil, err
		}
		if current == nil {
			return nil, ErrContestNotFound
		}
		return nil, ErrNotEditable
	}

	c.Name, c.Type, c.Prize = content.Name, content.Type, content.Prize
	c.Description, c.Deadline = content.Description, content.Deadline
	return c, nil
}

// DeleteContest 删除一个比赛。
// 创建者只能删除pending状态的比赛，管理员可以删除任何状态的比赛。
// 创建者路径在WHERE中带上pending作为条件删除，和UpdateContest同样防并发审核。
func DeleteContest(id, callerEmail string, isAdmin bool) error {
	c, err := GetContestByID(id)
	if err != nil {
		return err
	}
	if c == nil {
		return ErrContestNotFound
	}

	if isAdmin {
		if err := database.DB.Delete(&Contest{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("无法删除比赛: %w", err)
		}
		return nil
	}

	if c.CreatorEmail != callerEmail {
		return ErrForbidden
	}

	res := database.DB.
		Where("id = ? AND status = ?", id, StatusPending).
		Delete(&Contest{})
	if res.Error != nil {
		return fmt.Errorf("无法删除比赛: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		current, err := GetContestByID(id)
		if err != nil {
			return err
		}
		if current == nil {
			return ErrContestNotFound
		}
		return ErrNotEditable
	}
	return nil
}

// UpdateStatus 执行管理员审核迁移 pending→confirmed 或 pending→rejected。
// WHERE中带上旧状态作为条件更新，并发的两次审核只有一次会生效。
func UpdateStatus(id string, newStatus Status) error {
	if newStatus != StatusConfirmed && newStatus != StatusRejected {
		return ErrInvalidTransition
	}

	res := database.DB.Model(&Contest{}).
		Where("id = ? AND status = ?", id, StatusPending).
		Update("status", newStatus)
	if res.Error != nil {
		return fmt.Errorf("无法更新比赛状态: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// 区分比赛不存在和状态机拒绝
		c, err := GetContestByID(id)
		if err != nil {
			return err
		}
		if c == nil {
			return ErrContestNotFound
		}
		return ErrInvalidTransition
	}
	return nil
}

// EndWithWinner 执行系统迁移 confirmed→ended，并写入获胜者快照。
// 这是单获胜者不变量的串行化点：条件更新保证并发的宣布获胜只有一个能生效。
func EndWithWinner(id string, snapshot WinnerSnapshot) (bool, error) {
	res := database.DB.Model(&Contest{}).
		Where("id = ? AND status = ?", id, StatusConfirmed).
		Updates(map[string]interface{}{
			"status":       StatusEnded,
			"winner_name":  snapshot.Name,
			"winner_email": snapshot.Email,
			"winner_photo": snapshot.Photo,
		})
	if res.Error != nil {
		return false, fmt.Errorf("无法结束比赛: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}

// IncrementParticipants 原子地将报名计数器加一。
func IncrementParticipants(id string) error {
	res := database.DB.Model(&Contest{}).
		Where("id = ?", id).
		Update("participants", gorm.Expr("participants + ?", 1))
	if res.Error != nil {
		return fmt.Errorf("无法更新报名人数: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrContestNotFound
	}
	return nil
}
