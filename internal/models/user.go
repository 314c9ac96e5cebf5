package models

import (
	"time"
)

type User struct {
	ID               int64
	Email            string // stored lowercased, unique
	Nickname         string
	PasswordHash     string
	IsActive         bool
	FailedLoginCount int
	LockedUntil      *time.Time // temporary login lockout expiration
	LastLoginAt      *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsLocked reports whether the account is currently under login lockout.
func (u *User) IsLocked(now time.Time) bool {
	return u.LockedUntil != nil && now.Before(*u.LockedUntil)
}
