package auth_test

import (
	"testing"
	"time"

	"sohagstore_backend/internal/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("unit_test_secret_key")

func TestGenerateAndParseToken(t *testing.T) {
	t.Parallel()

	token, err := auth.GenerateToken("user-123", testSecret, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := auth.ParseToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
}

func TestParseToken_Expired(t *testing.T) {
	t.Parallel()

	token, err := auth.GenerateToken("user-123", testSecret, -time.Minute)
	require.NoError(t, err)

	_, err = auth.ParseToken(token, testSecret)
	assert.ErrorIs(t, err, auth.ErrTokenExpired)
}

func TestParseToken_WrongSecret(t *testing.T) {
	t.Parallel()

	token, err := auth.GenerateToken("user-123", testSecret, time.Hour)
	require.NoError(t, err)

	_, err = auth.ParseToken(token, []byte("another_secret"))
	assert.ErrorIs(t, err, auth.ErrTokenInvalid)
}

func TestParseToken_Garbage(t *testing.T) {
	t.Parallel()

	_, err := auth.ParseToken("not-a-jwt-at-all", testSecret)
	assert.ErrorIs(t, err, auth.ErrTokenInvalid)
}

func TestGenerateResetToken(t *testing.T) {
	t.Parallel()

	token, err := auth.GenerateResetToken(5 * time.Minute)
	require.NoError(t, err)

	// 32 байта энтропии в hex
	assert.Len(t, token.Raw, 64)
	assert.Equal(t, auth.HashResetToken(token.Raw), token.Hash)
	assert.NotEqual(t, token.Raw, token.Hash)
	assert.True(t, token.ExpiresAt.After(time.Now()))

	second, err := auth.GenerateResetToken(5 * time.Minute)
	require.NoError(t, err)
	assert.NotEqual(t, token.Raw, second.Raw)
}
