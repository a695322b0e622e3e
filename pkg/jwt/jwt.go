// Package jwt 解析和签发门店收银员的访问令牌
//
// 令牌由身份服务签发，本服务只负责校验并读取其中的user_id、store_id，
// GenerateToken用于测试和本地联调。
package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/xiebiao/retailpos/pkg/errors"
)

const issuer = "retailpos"

// Manager JWT管理器
type Manager struct {
	secret       string
	accessExpire time.Duration
}

// NewManager 创建JWT管理器
func NewManager(secret string, accessExpire time.Duration) *Manager {
	return &Manager{
		secret:       secret,
		accessExpire: accessExpire,
	}
}

// Claims 自定义声明
// StoreID决定调用方能操作哪个门店的数据（租户边界）
type Claims struct {
	UserID  uint   `json:"user_id"`
	StoreID uint   `json:"store_id"`
	Role    string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// GenerateToken 签发访问令牌（HS256）
func (m *Manager) GenerateToken(userID, storeID uint, role string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:  userID,
		StoreID: storeID,
		Role:    role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.accessExpire)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    issuer,
			Subject:   fmt.Sprintf("%d", userID),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(m.secret))
	if err != nil {
		return "", apperrors.Wrap(err, "生成Token失败")
	}
	return signed, nil
}

// ParseToken 校验签名与有效期并返回声明
// 过期返回ErrTokenExpired，其余失败一律ErrInvalidToken
func (m *Manager) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// 防止alg=none攻击
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("非法的签名算法: %v", token.Header["alg"])
		}
		return []byte(m.secret), nil
	}, jwt.WithIssuer(issuer))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, apperrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.StoreID == 0 {
		return nil, apperrors.ErrInvalidToken
	}
	return claims, nil
}

// TTL 返回令牌剩余有效期（用于加入黑名单时设置过期时间）
func (c *Claims) TTL() time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return time.Until(c.ExpiresAt.Time)
}
