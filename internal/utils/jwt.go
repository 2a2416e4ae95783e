package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken — токен не прошёл проверку подписи, срока или типа.
var ErrInvalidToken = errors.New("invalid token")

// AccessClaims — полезная нагрузка access-токена администратора.
type AccessClaims struct {
	Subject string
	Role    string
}

// GenerateToken создаёт access-токен HS256.
func GenerateToken(secret, subject, role string, duration time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":        subject,
		"role":       role,
		"exp":        now.Add(duration).Unix(),
		"iat":        now.Unix(),
		"token_type": "access",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken проверяет подпись и срок, возвращает claims access-токена.
func ParseToken(secret, raw string) (*AccessClaims, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	if tt, _ := claims["token_type"].(string); tt != "access" {
		return nil, fmt.Errorf("%w: wrong token type", ErrInvalidToken)
	}
	sub, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	if sub == "" {
		return nil, fmt.Errorf("%w: empty subject", ErrInvalidToken)
	}
	return &AccessClaims{Subject: sub, Role: role}, nil
}
