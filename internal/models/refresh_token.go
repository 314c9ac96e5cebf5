package models

import "time"

// RefreshToken is the server-side record of an issued refresh credential.
// Only the SHA-256 hash of the token is stored; the plaintext is returned to
// the client once and is unrecoverable afterwards.
type RefreshToken struct {
	ID        int64
	UserID    int64
	TokenHash string // sha256 hex, unique
	ExpiresAt time.Time
	RevokedAt *time.Time
	UserAgent string
	IPAddress string
	CreatedAt time.Time
}

// Usable reports whether the credential can still be exchanged.
func (t *RefreshToken) Usable(now time.Time) bool {
	return t.RevokedAt == nil && now.Before(t.ExpiresAt)
}
