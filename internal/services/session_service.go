package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

var ErrInvalidSession = errors.New("invalid session token")

type sessionClaims struct {
	UserID uint `json:"user_id"`
	jwt.RegisteredClaims
}

// SessionService issues and validates the signed session tokens carried in
// the portal's cookie.
type SessionService struct {
	secret []byte
	ttl    time.Duration
	logger *zap.Logger
}

func NewSessionService(secret string, ttl time.Duration, logger *zap.Logger) *SessionService {
	return &SessionService{
		secret: []byte(secret),
		ttl:    ttl,
		logger: logger.With(zap.String("service", "session_service")),
	}
}

func (s *SessionService) TTL() time.Duration { return s.ttl }

func (s *SessionService) IssueToken(userID uint) (string, error) {
	claims := sessionClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "saessak-portal",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *SessionService) ValidateToken(tokenString string) (uint, error) {
	token, err := jwt.ParseWithClaims(tokenString, &sessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return 0, ErrInvalidSession
	}
	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid {
		return 0, ErrInvalidSession
	}
	return claims.UserID, nil
}
