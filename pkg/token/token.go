package token

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// secretKey 是一个全局变量，用于存储签发会话凭证的HMAC密钥。
var secretKey []byte

// tokenTTL 是凭证的有效期。
var tokenTTL = 168 * time.Hour

// ErrInvalidToken 表示凭证缺失、过期、被篡改或无法解析。
// 所有验证失败都折叠成这一个错误，保证失败关闭。
var ErrInvalidToken = errors.New("无效的会话凭证")

// Claims 定义了凭证中携带的业务声明。
// 只携带email和role，角色敏感的路由需要自行回查数据库确认。
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// InitSecretKey 设置签发密钥。传入空字符串时生成一个密码学安全的32字节随机密钥
// （此时服务器重启会使所有已签发的凭证失效）。
func InitSecretKey(configured string, ttlHours int) {
	if ttlHours > 0 {
		tokenTTL = time.Duration(ttlHours) * time.Hour
	}

	if configured != "" {
		secretKey = []byte(configured)
		return
	}

	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		panic("无法生成安全的密钥: " + err.Error())
	}
	secretKey = key
	fmt.Println("未配置JWT密钥，已生成随机密钥。")
}

// TTL 返回当前配置的凭证有效期，供cookie生存期等处对齐。
func TTL() time.Duration {
	return tokenTTL
}

// GenerateToken 为给定的身份签发一个带有效期的HS256凭证。
func GenerateToken(email, role string) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(secretKey)
	if err != nil {
		return "", fmt.Errorf("无法签发会话凭证: %w", err)
	}
	return signed, nil
}

// ValidateToken 验证凭证并返回其中的声明。
// 任何验证错误（签名、过期、算法不匹配）都返回ErrInvalidToken。
func ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	t, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secretKey, nil
	})
	if err != nil || !t.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Email == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
