package user

import (
	"errors"
	"fmt"

	"github.com/SlpAus/contest-hub-backend/internal/platform/database"
	"gorm.io/gorm"
)

// ErrUserNotFound 表示指定email的用户不存在。
var ErrUserNotFound = errors.New("用户不存在")

// ErrInvalidRole 表示请求中携带了未知的角色值。
var ErrInvalidRole = errors.New("无效的用户角色")

// UpsertUser 在用户登录时建档或刷新档案。
// 首次见到的email以默认角色user创建；已存在的用户只刷新名字和头像。
func UpsertUser(email, name, photo string) (*User, error) {
	var u User
	err := database.DB.First(&u, "email = ?", email).Error
	if err == nil {
		// 已有用户：登录信息可能比档案新，按需刷新
		updates := map[string]interface{}{}
		if name != "" && name != u.Name {
			updates["name"] = name
		}
		if photo != "" && photo != u.Photo {
			updates["photo"] = photo
		}
		if len(updates) > 0 {
			if err := database.DB.Model(&u).Updates(updates).Error; err != nil {
				return nil, fmt.Errorf("无法刷新用户档案: %w", err)
			}
		}
		return &u, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}

	newUser := User{
		Email:                email,
		Name:                 name,
		Photo:                photo,
		Role:                 RoleUser,
		ParticipatedContests: []string{},
		WonContests:          []string{},
	}
	if err := database.DB.Create(&newUser).Error; err != nil {
		// 并发的首次登录可能抢先建档，此时重读即可
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if err := database.DB.First(&newUser, "email = ?", email).Error; err != nil {
				return nil, fmt.Errorf("查询用户失败: %w", err)
			}
			return &newUser, nil
		}
		return nil, fmt.Errorf("无法创建用户: %w", err)
	}
	return &newUser, nil
}

// GetUserByEmail 按email查找用户。用户不存在时返回 (nil, nil)。
func GetUserByEmail(email string) (*User, error) {
	var u User
	err := database.DB.First(&u, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}
	return &u, nil
}

// UpdateProfile 更新用户的展示资料（名字、头像、简介）。
func UpdateProfile(email, name, photo, bio string) (*User, error) {
	u, err := GetUserByEmail(email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}

	updates := map[string]interface{}{
		"name":  name,
		"photo": photo,
		"bio":   bio,
	}
	if err := database.DB.Model(u).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("无法更新用户档案: %w", err)
	}
	u.Name, u.Photo, u.Bio = name, photo, bio
	return u, nil
}

// UpdateRole 修改用户角色，只能由管理员路由调用。
func UpdateRole(email string, role Role) error {
	if !IsValidRole(role) {
		return ErrInvalidRole
	}

	res := database.DB.Model(&User{}).Where("email = ?", email).Update("role", role)
	if res.Error != nil {
		return fmt.Errorf("无法更新用户角色: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// AddParticipatedContest 将比赛ID记入用户的已参加集合（集合语义，重复添加是空操作）。
func AddParticipatedContest(email, contestID string) error {
	return addContestToSet(email, contestID, false)
}

// AddWonContest 将比赛ID记入用户的获胜集合（集合语义，重复添加是空操作）。
func AddWonContest(email, contestID string) error {
	return addContestToSet(email, contestID, true)
}

func addContestToSet(email, contestID string, won bool) error {
	u, err := GetUserByEmail(email)
	if err != nil {
		return err
	}
	if u == nil {
		return ErrUserNotFound
	}

	var (
		set     []string
		changed bool
		column  string
	)
	if won {
		set, changed = addToSet(u.WonContests, contestID)
		column = "won_contests"
	} else {
		set, changed = addToSet(u.ParticipatedContests, contestID)
		column = "participated_contests"
	}
	if !changed {
		return nil
	}

	if err := database.DB.Model(u).Update(column, set).Error; err != nil {
		return fmt.Errorf("无法更新用户的比赛集合: %w", err)
	}
	return nil
}
