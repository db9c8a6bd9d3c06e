package middleware

import (
	"context"

	"github.com/fleetdeskhq/fleetdesk/auth"
	"github.com/fleetdeskhq/fleetdesk/authz"
)

// Context key type to avoid collisions
type contextKey string

const (
	// claimsKey is the context key for verified token claims
	claimsKey contextKey = "claims"

	// sessionKey is the context key for the authorization session
	sessionKey contextKey = "session"
)

// WithClaims adds verified token claims to the context
func WithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ClaimsFromContext retrieves verified token claims from context
func ClaimsFromContext(ctx context.Context) *auth.Claims {
	if val := ctx.Value(claimsKey); val != nil {
		if claims, ok := val.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

// WithSession adds an authorization session to the context
func WithSession(ctx context.Context, s *authz.Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// SessionFromContext retrieves the authorization session from context.
// Returns nil when the request is unauthenticated; the resolver treats
// a nil session as denied.
func SessionFromContext(ctx context.Context) *authz.Session {
	if val := ctx.Value(sessionKey); val != nil {
		if s, ok := val.(*authz.Session); ok {
			return s
		}
	}
	return nil
}
