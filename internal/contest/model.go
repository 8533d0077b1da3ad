package contest

import (
	"time"
)

// Status 定义了比赛的生命周期状态。
// 合法迁移: pending→confirmed | pending→rejected | confirmed→ended。
// rejected和ended是终态。
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusRejected  Status = "rejected"
	StatusEnded     Status = "ended"
)

// WinnerSnapshot 是获胜者资料在宣布获胜时刻的非实时快照。
// 之后获胜者修改个人资料不会回写到这里，它是历史记录。
type WinnerSnapshot struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Photo string `json:"photo"`
}

// Contest 定义了比赛在数据库中的持久化模型。
type Contest struct {
	// ID 是服务端生成的UUID v7
	ID          string    `gorm:"primarykey;type:varchar(36)" json:"id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Prize       string    `json:"prize"`
	Description string    `json:"description"`
	Deadline    time.Time `json:"deadline"`

	// CreatorEmail 是创建者的弱引用，pending期间的修改权归创建者
	CreatorEmail string `gorm:"index" json:"creatorEmail"`

	// Participants 是报名计数器，与Payment记录数保持最终一致
	Participants int `json:"participants"`

	Status Status `gorm:"type:varchar(16);index;default:pending" json:"status"`

	// Winner 在比赛结束时由宣布获胜流程写入
	Winner WinnerSnapshot `gorm:"embedded;embeddedPrefix:winner_" json:"winner"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
