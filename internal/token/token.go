// Package token issues and verifies the signed forgot-password tokens used
// by the reset flow. Tokens are stateless: validity is signature + expiry
// only, with no revocation tracking, so a token stays verifiable for its full
// TTL even after the password has already been reset through it.
package token

import (
	"time"

	"github.com/AlePlets/otasoft-auth/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the forgot-password token payload.
type Claims struct {
	UserID    int64  `json:"userId"`
	UserEmail string `json:"userEmail"`
	jwt.RegisteredClaims
}

// Service signs and verifies forgot-password tokens.
type Service struct {
	secret []byte
	ttl    time.Duration
}

// NewService creates a token service signing with secret; issued tokens
// expire after ttl.
func NewService(secret string, ttl time.Duration) *Service {
	return &Service{secret: []byte(secret), ttl: ttl}
}

// Issue produces a signed token carrying the user id and email.
func (s *Service) Issue(userID int64, email string) (string, error) {
	claims := Claims{
		UserID:    userID,
		UserEmail: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", err
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the embedded claims.
// Expired, tampered and claim-less tokens all fail with
// domain.ErrInvalidResetToken; callers never need to tell them apart.
func (s *Service) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, domain.ErrInvalidResetToken
	}
	if claims.UserID == 0 || claims.UserEmail == "" {
		return nil, domain.ErrInvalidResetToken
	}
	return claims, nil
}
