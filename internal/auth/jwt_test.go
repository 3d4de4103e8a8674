package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTM() *TokenManager {
	return NewTokenManager("access-secret", "refresh-secret", "test", 15*time.Minute, time.Hour)
}

func TestGenerateAndParsePair(t *testing.T) {
	tm := newTM()
	access, refresh, exp, err := tm.GeneratePair("u1", "user")
	require.NoError(t, err)
	assert.True(t, exp.After(time.Now()))

	claims, isRefresh, err := tm.ParseAny(access)
	require.NoError(t, err)
	assert.False(t, isRefresh)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "user", claims.Role)

	claims, isRefresh, err = tm.ParseAny(refresh)
	require.NoError(t, err)
	assert.True(t, isRefresh)
	assert.Equal(t, "u1", claims.UserID)

	_, _, err = tm.ParseAny("garbage")
	assert.Error(t, err)
}

func TestVerificationToken(t *testing.T) {
	tm := newTM()
	tok, err := tm.VerificationToken("u1")
	require.NoError(t, err)

	claims, err := tm.ParseVerification(tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)

	// an access token is not a verification token
	access, _, _, err := tm.GeneratePair("u1", "user")
	require.NoError(t, err)
	_, err = tm.ParseVerification(access)
	assert.Error(t, err)
}

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NoError(t, VerifyPassword("s3cret-pass", hash))
	assert.Error(t, VerifyPassword("wrong", hash))
}
