package user

import (
	"errors"
	"net/http"

	"github.com/SlpAus/contest-hub-backend/pkg/token"
	"github.com/gin-gonic/gin"
)

// --- 请求模型 ---

type issueTokenRequest struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name"`
	Photo string `json:"photo"`
}

type updateProfileRequest struct {
	Name  string `json:"name" binding:"required"`
	Photo string `json:"photo"`
	Bio   string `json:"bio"`
}

type updateRoleRequest struct {
	Role Role `json:"role" binding:"required"`
}

// --- 控制器函数 ---

// IssueToken 处理登录：按email建档（首次）并签发会话凭证cookie。
func IssueToken(c *gin.Context) {
	var req issueTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "请求缺少合法的email"})
		return
	}

	u, err := UpsertUser(req.Email, req.Name, req.Photo)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "登录失败"})
		return
	}

	tokenString, err := token.GenerateToken(u.Email, string(u.Role))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "签发凭证失败"})
		return
	}

	c.SetCookie(CookieName, tokenString, cookieMaxAge(), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Logout 清除会话凭证cookie。
func Logout(c *gin.Context) {
	c.SetCookie(CookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetMe 返回当前登录用户的完整档案。
func GetMe(c *gin.Context) {
	u, err := GetUserByEmail(PrincipalEmail(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "查询用户信息失败"})
		return
	}
	if u == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "用户不存在"})
		return
	}
	c.JSON(http.StatusOK, u)
}

// UpdateProfileHandler 更新用户资料，只允许本人操作。
func UpdateProfileHandler(c *gin.Context) {
	email := c.Param("email")
	if email != PrincipalEmail(c) {
		c.JSON(http.StatusForbidden, gin.H{"message": "只能修改自己的资料"})
		return
	}

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "请求参数不完整"})
		return
	}

	u, err := UpdateProfile(email, req.Name, req.Photo, req.Bio)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "用户不存在"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "更新用户资料失败"})
		return
	}
	c.JSON(http.StatusOK, u)
}

// UpdateRoleHandler 修改用户角色，仅限管理员（RequireAdmin已回查过最新角色）。
func UpdateRoleHandler(c *gin.Context) {
	var req updateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "请求缺少角色参数"})
		return
	}

	err := UpdateRole(c.Param("email"), req.Role)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidRole):
			c.JSON(http.StatusBadRequest, gin.H{"message": "无效的用户角色"})
		case errors.Is(err, ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "用户不存在"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": "更新用户角色失败"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
