package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken возвращается при невалидном или просроченном сессионном токене
var ErrInvalidToken = errors.New("auth: invalid session token")

// SessionClaims полезная нагрузка сессионного токена.
// Токены выпускает внешний сервис аутентификации; здесь они только проверяются.
type SessionClaims struct {
	UserID   int64   `json:"uid"`
	Role     string  `json:"role"`
	StoreIDs []int64 `json:"stores"`
	jwt.RegisteredClaims
}

// ParseSessionToken проверяет подпись HMAC и возвращает вызывающего
func ParseSessionToken(secret, tokenString string) (*Caller, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	role := Role(claims.Role)
	if role != RoleAdmin && role != RoleOwner {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidToken, claims.Role)
	}

	return &Caller{
		Kind:     CallerSession,
		UserID:   claims.UserID,
		Role:     role,
		StoreIDs: claims.StoreIDs,
	}, nil
}
