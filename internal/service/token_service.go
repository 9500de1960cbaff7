package service

import (
	"errors"
	"time"

	"bigfive/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// TokenService issues and checks the tokens that bind an event channel to
// the page session it was served with
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a token service signing with secret
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Issue creates a page-scoped token
func (s *TokenService) Issue(pageID string) (string, error) {
	now := time.Now()
	claims := &model.PageClaims{
		PageID: pageID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Validate checks a page token and returns its claims
func (s *TokenService) Validate(tokenString string) (*model.PageClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.PageClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.PageClaims)
	if !ok || !token.Valid || claims.PageID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
