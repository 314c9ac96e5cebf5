package models

import (
	"errors"
	"net/http"
)

// Sentinel errors for common failure conditions
var (
	ErrNotFound       = errors.New("resource not found")
	ErrConflict       = errors.New("resource already exists")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrBadRequest     = errors.New("bad request")
	ErrInternalServer = errors.New("internal server error")

	// Account state errors
	ErrAccountDisabled = errors.New("account is disabled")
	ErrAccountLocked   = errors.New("account is temporarily locked")
)

// StatusError carries a caller-facing message together with the HTTP status
// it should surface as. Services return these when the generic sentinels are
// not specific enough (validation messages, masked lookups).
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return e.Message
}

func NewValidationError(message string) *StatusError {
	return &StatusError{Code: http.StatusBadRequest, Message: message}
}

func NewConflictError(message string) *StatusError {
	return &StatusError{Code: http.StatusConflict, Message: message}
}

func NewNotFoundError(message string) *StatusError {
	return &StatusError{Code: http.StatusNotFound, Message: message}
}

func NewAuthError(code int, message string) *StatusError {
	return &StatusError{Code: code, Message: message}
}
