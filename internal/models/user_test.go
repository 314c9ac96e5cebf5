package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUser_IsLocked(t *testing.T) {
	now := time.Now()

	unlocked := &User{}
	assert.False(t, unlocked.IsLocked(now))

	future := now.Add(10 * time.Minute)
	locked := &User{LockedUntil: &future}
	assert.True(t, locked.IsLocked(now))

	past := now.Add(-1 * time.Minute)
	expired := &User{LockedUntil: &past}
	assert.False(t, expired.IsLocked(now), "an elapsed lock no longer holds")
}

func TestRefreshToken_Usable(t *testing.T) {
	now := time.Now()

	live := &RefreshToken{ExpiresAt: now.Add(time.Hour)}
	assert.True(t, live.Usable(now))

	expired := &RefreshToken{ExpiresAt: now.Add(-time.Hour)}
	assert.False(t, expired.Usable(now))

	revokedAt := now.Add(-time.Minute)
	revoked := &RefreshToken{ExpiresAt: now.Add(time.Hour), RevokedAt: &revokedAt}
	assert.False(t, revoked.Usable(now))
}
