package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sirajahmedx/task-manager/internal/domain/errors"
)

// SessionCookie задаёт имя cookie с токеном сессии.
const SessionCookie = "session"

// SessionManager выпускает и проверяет JWT-токены сессии.
// В токене хранится только внутренний идентификатор пользователя;
// email и профиль клиенту не передаются.
type SessionManager struct {
	secret []byte
	ttl    time.Duration
	issuer string
}

type SessionClaims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

func NewSessionManager(secret string, ttl time.Duration) *SessionManager {
	return &SessionManager{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: "task-manager",
	}
}

func (m *SessionManager) TTL() time.Duration {
	return m.ttl
}

func (m *SessionManager) Issue(userID string) (string, error) {
	if userID == "" {
		return "", errors.ErrSessionInvalid
	}

	now := time.Now()
	claims := SessionClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify возвращает идентификатор пользователя из действительного токена.
func (m *SessionManager) Verify(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.ErrSessionInvalid
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return "", errors.ErrSessionInvalid
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || claims.UserID == "" {
		return "", errors.ErrSessionInvalid
	}
	return claims.UserID, nil
}
