package models

import "time"

const (
	TodoStatusPending    = "Pending"
	TodoStatusInProgress = "In Progress"
	TodoStatusCompleted  = "Completed"
)

// ValidTodoStatus reports whether s is one of the accepted board columns.
func ValidTodoStatus(s string) bool {
	switch s {
	case TodoStatusPending, TodoStatusInProgress, TodoStatusCompleted:
		return true
	}
	return false
}

type Todo struct {
	ID        int64
	Title     string
	Content   string
	Status    string
	Author    string
	Heat      int // never drops below zero
	UserID    *int64
	CreatedAt time.Time
	UpdatedAt time.Time
}
