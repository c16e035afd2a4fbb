package utils

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt"
)

const tokenIssuer = "todo_bank"

var ErrInvalidToken = errors.New("invalid token")

// Claims 是用戶 token 的內容，Subject 為用戶 ID
type Claims struct {
	jwt.StandardClaims
}

// TokenManager 負責簽發與驗證用戶 token
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager 建立 TokenManager；ttl 為 0 表示 token 不會過期
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// GenerateToken 為指定用戶生成一個新的 token
func (m *TokenManager) GenerateToken(userID string) (string, error) {
	if userID == "" {
		return "", errors.New("user id is required")
	}

	nowTime := m.now()
	claims := Claims{
		StandardClaims: jwt.StandardClaims{
			Subject:  userID,
			Issuer:   tokenIssuer,
			IssuedAt: nowTime.Unix(),
		},
	}
	if m.ttl > 0 {
		claims.ExpiresAt = nowTime.Add(m.ttl).Unix()
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// ParseToken 驗證 token 並回傳其中的用戶 ID
func (m *TokenManager) ParseToken(token string) (string, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims.Issuer != tokenIssuer || claims.Subject == "" {
		return "", ErrInvalidToken
	}

	return claims.Subject, nil
}

// ExtractToken 從 userToken 標頭或 Authorization: Bearer 標頭取出 token
func ExtractToken(userToken, authorization string) string {
	if token := strings.TrimSpace(userToken); token != "" {
		return token
	}

	parts := strings.SplitN(authorization, " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		return strings.TrimSpace(parts[1])
	}
	return ""
}
