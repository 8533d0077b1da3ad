package submission

import (
	"time"
)

// Submission 是用户针对某个比赛提交的一份作品。
// 同一用户可以对同一比赛提交多份作品，提交后除获胜标记外不再修改。
type Submission struct {
	ID             string `gorm:"primarykey;type:varchar(36)" json:"id"`
	ContestID      string `gorm:"index;type:varchar(36)" json:"contestId"`
	SubmitterEmail string `gorm:"index;type:varchar(255)" json:"submitterEmail"`
	Content        string `gorm:"type:text" json:"content"`

	// IsWinner 每个比赛至多有一份作品为true，由宣布获胜流程翻转一次
	IsWinner bool `gorm:"default:false;index" json:"isWinner"`
	// DecidedAt 在宣布获胜时写入，最近获胜者视图按它排序
	DecidedAt *time.Time `gorm:"index" json:"decidedAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}
