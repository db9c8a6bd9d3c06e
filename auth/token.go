// Package auth issues and verifies the signed session tokens that carry
// a user's identity and role between requests.
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/fleetdeskhq/fleetdesk/authz"
	"github.com/fleetdeskhq/fleetdesk/config"
)

// Claims are the fleetdesk session token claims. Role is flattened into
// a grant set when the session is built; nothing downstream of the
// middleware reads it directly.
type Claims struct {
	jwt.RegisteredClaims
	Email string     `json:"email"`
	Role  authz.Role `json:"role"`
}

// TokenService mints and verifies HS256 session tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	issuer string
	logger *zap.Logger
}

// NewTokenService creates a TokenService from auth configuration.
func NewTokenService(cfg config.AuthConfig, logger *zap.Logger) *TokenService {
	secret := cfg.JWTSecret
	if secret == "" {
		// config.Validate rejects this in production
		secret = "fleetdesk-dev-secret"
		logger.Warn("JWT_SECRET not set, using development secret")
	}
	return &TokenService{
		secret: []byte(secret),
		ttl:    cfg.TokenTTL,
		issuer: cfg.Issuer,
		logger: logger,
	}
}

// Mint creates a signed session token for the subject.
func (s *TokenService) Mint(subject, email string, role authz.Role) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		Email: email,
		Role:  role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a session token, returning its claims.
func (s *TokenService) Verify(_ context.Context, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(s.issuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
