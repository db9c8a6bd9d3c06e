package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fleetdeskhq/fleetdesk/authz"
	"github.com/fleetdeskhq/fleetdesk/config"
)

func newTestTokenService(ttl time.Duration) *TokenService {
	return NewTokenService(config.AuthConfig{
		JWTSecret: "test-secret",
		TokenTTL:  ttl,
		Issuer:    "fleetdesk",
	}, zap.NewNop())
}

func TestTokenMintAndVerify(t *testing.T) {
	ctx := context.Background()
	svc := newTestTokenService(time.Hour)

	token, err := svc.Mint("user-42", "ops@example.com", authz.RoleManager)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Verify(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "user-42", claims.Subject)
	assert.Equal(t, "ops@example.com", claims.Email)
	assert.Equal(t, authz.RoleManager, claims.Role)
	assert.Equal(t, "fleetdesk", claims.Issuer)
}

func TestTokenVerifyFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("expired token is rejected", func(t *testing.T) {
		svc := newTestTokenService(-time.Minute)
		token, err := svc.Mint("user-42", "ops@example.com", authz.RoleViewer)
		require.NoError(t, err)

		_, err = svc.Verify(ctx, token)
		assert.Error(t, err)
	})

	t.Run("token signed with another secret is rejected", func(t *testing.T) {
		svc := newTestTokenService(time.Hour)
		other := NewTokenService(config.AuthConfig{
			JWTSecret: "other-secret",
			TokenTTL:  time.Hour,
			Issuer:    "fleetdesk",
		}, zap.NewNop())

		token, err := other.Mint("user-42", "ops@example.com", authz.RoleAdmin)
		require.NoError(t, err)

		_, err = svc.Verify(ctx, token)
		assert.Error(t, err)
	})

	t.Run("token from another issuer is rejected", func(t *testing.T) {
		svc := newTestTokenService(time.Hour)
		other := NewTokenService(config.AuthConfig{
			JWTSecret: "test-secret",
			TokenTTL:  time.Hour,
			Issuer:    "someone-else",
		}, zap.NewNop())

		token, err := other.Mint("user-42", "ops@example.com", authz.RoleAdmin)
		require.NoError(t, err)

		_, err = svc.Verify(ctx, token)
		assert.Error(t, err)
	})

	t.Run("garbage is rejected", func(t *testing.T) {
		svc := newTestTokenService(time.Hour)
		_, err := svc.Verify(ctx, "not-a-token")
		assert.Error(t, err)
	})
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	assert.True(t, CheckPassword(hash, "correct horse battery staple"))
	assert.False(t, CheckPassword(hash, "wrong password"))
	assert.False(t, CheckPassword("", "anything"))
}
