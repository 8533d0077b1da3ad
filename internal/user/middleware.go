package user

import (
	"net/http"
	"time"

	"github.com/SlpAus/contest-hub-backend/pkg/token"
	"github.com/gin-gonic/gin"
)

const (
	// CookieName 是携带会话凭证的cookie名。
	CookieName = "access-token"

	// PrincipalEmailKey 和 PrincipalRoleKey 是Gin上下文中已认证身份的键。
	PrincipalEmailKey = "principalEmail"
	PrincipalRoleKey  = "principalRole"
)

// cookieMaxAge 使cookie的生存期跟随配置的凭证有效期，避免两者失步。
func cookieMaxAge() int {
	return int(token.TTL() / time.Second)
}

// RequireAuth 验证请求cookie中的会话凭证，并把身份放入Gin上下文。
// 凭证缺失或验证失败一律401，失败关闭。
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := c.Cookie(CookieName)
		if err != nil || tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "未授权访问"})
			return
		}

		claims, err := token.ValidateToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "凭证无效或已过期"})
			return
		}

		c.Set(PrincipalEmailKey, claims.Email)
		c.Set(PrincipalRoleKey, claims.Role)
		c.Next()
	}
}

// OptionalAuth 尝试解析会话凭证，但从不拒绝请求。
// 用于公开列表路由：登录的创建者能看到自己所有状态的比赛。
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := c.Cookie(CookieName)
		if err == nil && tokenString != "" {
			if claims, err := token.ValidateToken(tokenString); err == nil {
				c.Set(PrincipalEmailKey, claims.Email)
				c.Set(PrincipalRoleKey, claims.Role)
			}
		}
		c.Next()
	}
}

// RequireAdmin 在RequireAuth之后使用。
// 它不信任凭证中的角色声明，而是回查数据库确认最新角色，
// 防止降级后的管理员继续使用旧凭证执行管理操作。
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		email := PrincipalEmail(c)
		u, err := GetUserByEmail(email)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "查询用户信息失败"})
			return
		}
		if u == nil || u.Role != RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "需要管理员权限"})
			return
		}
		c.Next()
	}
}

// PrincipalEmail 从Gin上下文中取出已认证用户的email。
func PrincipalEmail(c *gin.Context) string {
	return c.GetString(PrincipalEmailKey)
}

// PrincipalRole 从Gin上下文中取出凭证声明的角色（普通路由的快速路径）。
func PrincipalRole(c *gin.Context) string {
	return c.GetString(PrincipalRoleKey)
}
