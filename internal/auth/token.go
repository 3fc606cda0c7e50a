package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/blog-platform-api/internal/common"
	"github.com/blog-platform-api/internal/models"
	"github.com/blog-platform-api/internal/policy"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the signed payload of a session token
type Claims struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 session tokens
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService creates a TokenService signing with secret
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// TTL returns the lifetime of issued tokens
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token for id that expires after the configured TTL
func (s *TokenService) Issue(id policy.Identity) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		ID:    id.ID,
		Email: id.Email,
		Role:  string(id.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(id.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify checks the signature and expiry of raw and returns the embedded identity.
// Every failure is reported as common.ErrInvalidToken.
func (s *TokenService) Verify(raw string) (policy.Identity, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return policy.Identity{}, &common.Error{
			Kind:    common.ErrInvalidToken,
			Message: common.ErrInvalidToken.Error(),
			Cause:   err,
		}
	}
	if !token.Valid || claims.ID <= 0 {
		return policy.Identity{}, common.ErrInvalidToken
	}

	return policy.Identity{
		ID:    claims.ID,
		Email: claims.Email,
		Role:  models.Role(claims.Role),
	}, nil
}
