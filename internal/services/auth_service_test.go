package services

import (
	"context"
	"testing"

	"pollpay/internal/config"
	"pollpay/internal/repository"
	pollpay_errors "pollpay/pkg/errors"

	"github.com/stretchr/testify/require"
)

func newTestAuth(t *testing.T) (*AuthService, repository.UserRepository) {
	t.Helper()
	db := newTestDB(t)
	users := repository.NewUserRepository(db)
	auth := NewAuthService(users, config.AuthConfig{
		JWTSecret:      "test-secret",
		AccessTokenTTL: 60,
	})
	return auth, users
}

func TestRegisterAndLogin(t *testing.T) {
	auth, _ := newTestAuth(t)
	ctx := context.Background()

	u, token, err := auth.Register(ctx, "alice", "alice@test.com", "password123", "Alice")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.Equal(t, "alice", u.Username)
	require.True(t, u.WalletBalance.IsZero())

	// The issued token parses back to the same user.
	claims, err := auth.ParseAccessToken(token)
	require.NoError(t, err)
	require.Equal(t, u.ID.String(), claims.UserID)

	_, token, err = auth.Login(ctx, "alice", "password123")
	require.NoError(t, err)
	require.NotEmpty(t, token)
}

func TestRegisterValidation(t *testing.T) {
	auth, _ := newTestAuth(t)
	ctx := context.Background()

	_, _, err := auth.Register(ctx, "", "", "password123", "")
	require.ErrorIs(t, err, pollpay_errors.ErrInvalidInput)

	_, _, err = auth.Register(ctx, "alice", "", "short", "")
	require.ErrorIs(t, err, pollpay_errors.ErrInvalidInput)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	auth, _ := newTestAuth(t)
	ctx := context.Background()

	_, _, err := auth.Register(ctx, "alice", "a1@test.com", "password123", "")
	require.NoError(t, err)

	_, _, err = auth.Register(ctx, "alice", "a2@test.com", "password123", "")
	require.ErrorIs(t, err, pollpay_errors.ErrAlreadyExists)
}

func TestLoginWrongPassword(t *testing.T) {
	auth, _ := newTestAuth(t)
	ctx := context.Background()

	_, _, err := auth.Register(ctx, "alice", "", "password123", "")
	require.NoError(t, err)

	_, _, err = auth.Login(ctx, "alice", "wrongpassword")
	require.ErrorIs(t, err, pollpay_errors.ErrUnauthorized)

	_, _, err = auth.Login(ctx, "nobody", "password123")
	require.ErrorIs(t, err, pollpay_errors.ErrUnauthorized)
}

func TestParseAccessTokenRejectsGarbage(t *testing.T) {
	auth, _ := newTestAuth(t)

	_, err := auth.ParseAccessToken("not-a-token")
	require.ErrorIs(t, err, pollpay_errors.ErrUnauthorized)

	other := NewAuthService(nil, config.AuthConfig{JWTSecret: "other-secret", AccessTokenTTL: 60})
	_, token, err := auth.Register(context.Background(), "alice", "", "password123", "")
	require.NoError(t, err)

	_, err = other.ParseAccessToken(token)
	require.ErrorIs(t, err, pollpay_errors.ErrUnauthorized)
}
