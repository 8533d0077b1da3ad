package user

import (
	"time"
)

// Role 定义了用户的角色。角色之间没有层级关系：
// 任何登录用户都可以创建比赛，admin只负责审核。
type Role string

const (
	RoleUser    Role = "user"
	RoleCreator Role = "creator"
	RoleAdmin   Role = "admin"
)

// IsValidRole 判断一个字符串是否是合法的角色值。
func IsValidRole(r Role) bool {
	switch r {
	case RoleUser, RoleCreator, RoleAdmin:
		return true
	}
	return false
}

// User 定义了用户在数据库中的持久化模型。
// Email是自然主键，首次登录时自动建档。
type User struct {
	Email string `gorm:"primarykey;type:varchar(255)" json:"email"`
	Name  string `json:"name"`
	Photo string `json:"photo"`
	Bio   string `json:"bio"`
	Role  Role   `gorm:"type:varchar(16);default:user" json:"role"`

	// ParticipatedContests 和 WonContests 是派生的成员集合，
	// 元素是比赛ID的弱引用，不做反向完整性校验。
	ParticipatedContests []string `gorm:"serializer:json" json:"participatedContests"`
	WonContests          []string `gorm:"serializer:json" json:"wonContests"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// addToSet 以集合语义向切片中添加一个元素。
// 已存在时返回原切片和false，调用方可借此跳过无谓的写库。
func addToSet(set []string, id string) ([]string, bool) {
	for _, v := range set {
		if v == id {
			return set, false
		}
	}
	return append(set, id), true
}
