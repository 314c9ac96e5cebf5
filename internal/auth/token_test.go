package auth

import (
	"testing"
	"time"

	"github.com/mhoran-dev/relmap/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_GenerateAndValidate(t *testing.T) {
	tm := NewTokenManager("test-secret-for-token-tests", 15*time.Minute, 14*24*time.Hour)

	accessToken, err := tm.GenerateAccessToken(42)
	require.NoError(t, err)
	require.NotEmpty(t, accessToken)

	claims, err := tm.ValidateToken(accessToken)
	require.NoError(t, err)
	assert.Equal(t, models.TokenTypeAccess, claims.Type)
	assert.NotEmpty(t, claims.ID, "every token carries a unique jti")

	userID, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
}

func TestTokenManager_RefreshTokenType(t *testing.T) {
	tm := NewTokenManager("test-secret-for-token-tests", 15*time.Minute, 14*24*time.Hour)

	refreshToken, err := tm.GenerateRefreshToken(42)
	require.NoError(t, err)

	claims, err := tm.ValidateToken(refreshToken)
	require.NoError(t, err)
	assert.Equal(t, models.TokenTypeRefresh, claims.Type)
}

func TestTokenManager_UniqueTokens(t *testing.T) {
	tm := NewTokenManager("test-secret-for-token-tests", 15*time.Minute, 14*24*time.Hour)

	first, err := tm.GenerateRefreshToken(42)
	require.NoError(t, err)
	second, err := tm.GenerateRefreshToken(42)
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "jti makes two tokens for the same user distinct")
}

func TestTokenManager_RejectsExpiredToken(t *testing.T) {
	tm := NewTokenManager("test-secret-for-token-tests", -1*time.Minute, 14*24*time.Hour)

	accessToken, err := tm.GenerateAccessToken(42)
	require.NoError(t, err)

	_, err = tm.ValidateToken(accessToken)
	assert.Error(t, err)
}

func TestTokenManager_RejectsWrongSecret(t *testing.T) {
	tm := NewTokenManager("test-secret-for-token-tests", 15*time.Minute, 14*24*time.Hour)
	other := NewTokenManager("a-completely-different-secret", 15*time.Minute, 14*24*time.Hour)

	accessToken, err := tm.GenerateAccessToken(42)
	require.NoError(t, err)

	_, err = other.ValidateToken(accessToken)
	assert.Error(t, err)
}

func TestTokenManager_RejectsGarbage(t *testing.T) {
	tm := NewTokenManager("test-secret-for-token-tests", 15*time.Minute, 14*24*time.Hour)

	_, err := tm.ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestHashToken(t *testing.T) {
	first := HashToken("some-token")
	second := HashToken("some-token")
	other := HashToken("another-token")

	assert.Equal(t, first, second, "hash must be deterministic for lookups")
	assert.NotEqual(t, first, other)
	assert.Len(t, first, 64, "sha256 hex digest")
	assert.NotContains(t, first, "some-token")
}
