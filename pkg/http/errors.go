package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mhoran-dev/relmap/internal/models"
)

// ErrorResponse is the standard API error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// WriteError writes a JSON error response with the given status code.
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, message)
}

func WriteUnauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, message)
}

func WriteForbidden(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusForbidden, message)
}

func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, message)
}

func WriteConflict(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusConflict, message)
}

func WriteTooManyRequests(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusTooManyRequests, message)
}

func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, message)
}

// WriteServiceError maps service-layer failures onto the response. Typed
// StatusErrors keep their message; sentinels get a canned body.
func WriteServiceError(w http.ResponseWriter, err error) {
	var statusErr *models.StatusError
	if errors.As(err, &statusErr) {
		WriteError(w, statusErr.Code, statusErr.Message)
		return
	}

	switch {
	case errors.Is(err, models.ErrNotFound):
		WriteNotFound(w, "not found")
	case errors.Is(err, models.ErrConflict):
		WriteConflict(w, "already exists")
	case errors.Is(err, models.ErrUnauthorized):
		WriteUnauthorized(w, "invalid credentials")
	case errors.Is(err, models.ErrForbidden), errors.Is(err, models.ErrAccountDisabled):
		WriteForbidden(w, "account not available")
	case errors.Is(err, models.ErrAccountLocked):
		WriteTooManyRequests(w, "too many failed attempts, try later")
	case errors.Is(err, models.ErrBadRequest):
		WriteBadRequest(w, "bad request")
	default:
		WriteInternalError(w, "internal server error")
	}
}

// WriteJSON writes a JSON response body with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}
