package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahek9015/community-learning-hub/internal/auth"
	"github.com/mahek9015/community-learning-hub/internal/config"
	"github.com/mahek9015/community-learning-hub/internal/mailer"
	"github.com/mahek9015/community-learning-hub/internal/repository/memory"
	"github.com/mahek9015/community-learning-hub/internal/worker"
)

func newUserService(t *testing.T) *UserService {
	t.Helper()
	repos := memory.NewRepositories()
	tm := auth.NewTokenManager("access-secret", "refresh-secret", "test", 15*time.Minute, 7*24*time.Hour)
	wp := worker.NewPool(1)
	t.Cleanup(wp.Stop)
	return NewUserService(repos.Users, tm, mailer.Nop{}, wp, config.Config{FrontendURL: "http://localhost:3000"})
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, "alice", "alice@example.com", "s3cretpass")
	require.NoError(t, err)
	assert.Equal(t, "user", u.Role)
	assert.False(t, u.Verified)

	pair, err := svc.Login(ctx, "alice@example.com", "s3cretpass")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	renewed, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, renewed.AccessToken)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "alice@example.com", "s3cretpass")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "alice2", "alice@example.com", "s3cretpass")
	assert.Error(t, err)
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	svc := newUserService(t)
	_, err := svc.Register(context.Background(), "alice", "alice@example.com", "short")
	assert.Error(t, err)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "alice@example.com", "s3cretpass")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "alice@example.com", "wrongpass")
	assert.Error(t, err)
	_, err = svc.Login(ctx, "nobody@example.com", "s3cretpass")
	assert.Error(t, err)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "alice@example.com", "s3cretpass")
	require.NoError(t, err)
	pair, err := svc.Login(ctx, "alice@example.com", "s3cretpass")
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, pair.AccessToken)
	assert.Error(t, err)
}

func TestVerifyMarksUser(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, "alice", "alice@example.com", "s3cretpass")
	require.NoError(t, err)

	token, err := svc.tm.VerificationToken(u.ID)
	require.NoError(t, err)
	require.NoError(t, svc.Verify(ctx, token))

	got, err := svc.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, got.Verified)
}
