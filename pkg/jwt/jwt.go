package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims 令牌声明，subject为用户名
type Claims struct {
	jwt.RegisteredClaims
}

// TokenManager 单类令牌的签发与验证，访问令牌与刷新令牌各持一个实例
type TokenManager struct {
	name     string
	secret   string
	expireIn int // 有效期（秒）
}

func NewTokenManager(name, secret string, expireIn int) *TokenManager {
	return &TokenManager{
		name:     name,
		secret:   secret,
		expireIn: expireIn,
	}
}

// Name 令牌名称，同时作为cookie名
func (m *TokenManager) Name() string {
	return m.name
}

// ExpireIn 有效期（秒）
func (m *TokenManager) ExpireIn() int {
	return m.expireIn
}

// ExpTimestamp 过期时间戳（秒），按毫秒墙钟计算后取整
func (m *TokenManager) ExpTimestamp() int64 {
	return (time.Now().UnixMilli() + int64(m.expireIn)*1000) / 1000
}

// Sign 为指定用户签发令牌
func (m *TokenManager) Sign(username string) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(time.Unix(m.ExpTimestamp(), 0)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.secret))
}

// Verify 验证令牌并返回声明
func (m *TokenManager) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			// 验证签名方法
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("意外的签名方法")
			}
			return []byte(m.secret), nil
		},
	)

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, errors.New("无法解析token声明")
	}

	return claims, nil
}
