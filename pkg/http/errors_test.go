package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mhoran-dev/relmap/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body.Error
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, http.StatusTeapot, "short and stout")

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "short and stout", decodeError(t, rec))
}

func TestWriteServiceError_StatusError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteServiceError(rec, models.NewConflictError("email already registered"))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "email already registered", decodeError(t, rec))
}

func TestWriteServiceError_Sentinels(t *testing.T) {
	cases := []struct {
		err        error
		wantStatus int
	}{
		{models.ErrNotFound, http.StatusNotFound},
		{models.ErrConflict, http.StatusConflict},
		{models.ErrUnauthorized, http.StatusUnauthorized},
		{models.ErrForbidden, http.StatusForbidden},
		{models.ErrAccountDisabled, http.StatusForbidden},
		{models.ErrAccountLocked, http.StatusTooManyRequests},
		{models.ErrBadRequest, http.StatusBadRequest},
		{models.ErrInternalServer, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		WriteServiceError(rec, tc.err)
		assert.Equal(t, tc.wantStatus, rec.Code, "error %v", tc.err)
	}
}

func TestWriteServiceError_UnknownError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteServiceError(rec, assert.AnError)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal server error", decodeError(t, rec), "internal detail never leaks")
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusCreated, map[string]any{"ok": true})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
}
