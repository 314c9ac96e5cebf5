package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mhoran-dev/relmap/internal/handlers"
	"github.com/mhoran-dev/relmap/internal/models"
	"github.com/mhoran-dev/relmap/internal/services"
	"github.com/stretchr/testify/assert"
)

func TestRegister_Success(t *testing.T) {
	mockAuth := &handlers.MockAuthService{
		RegisterFunc: func(ctx context.Context, email, password, nickname string, meta services.RequestMeta) (*services.AuthResponse, error) {
			return &services.AuthResponse{
				User:         &services.UserResponse{ID: 1, Email: email, Nickname: nickname},
				AccessToken:  "access_token_123",
				RefreshToken: "refresh_token_123",
				TokenType:    "bearer",
			}, nil
		},
	}

	handler := handlers.NewAuthHandler(mockAuth)
	req := handlers.NewTestRequest(t, "POST", "/auth/register", handlers.RegisterRequest{
		Email:    "user@example.com",
		Password: "password123!",
		Nickname: "Sam",
	})

	w := httptest.NewRecorder()
	handler.Register(w, req)

	var resp services.AuthResponse
	handlers.AssertJSONResponse(t, w, http.StatusCreated, &resp)
	assert.Equal(t, "access_token_123", resp.AccessToken)
	assert.Equal(t, "user@example.com", resp.User.Email)
}

func TestRegister_MissingFields(t *testing.T) {
	handler := handlers.NewAuthHandler(&handlers.MockAuthService{})
	req := handlers.NewTestRequest(t, "POST", "/auth/register", handlers.RegisterRequest{
		Email: "user@example.com",
	})

	w := httptest.NewRecorder()
	handler.Register(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegister_Conflict(t *testing.T) {
	mockAuth := &handlers.MockAuthService{
		RegisterFunc: func(ctx context.Context, email, password, nickname string, meta services.RequestMeta) (*services.AuthResponse, error) {
			return nil, models.NewConflictError("email already registered")
		},
	}

	handler := handlers.NewAuthHandler(mockAuth)
	req := handlers.NewTestRequest(t, "POST", "/auth/register", handlers.RegisterRequest{
		Email:    "taken@example.com",
		Password: "password123!",
		Nickname: "Sam",
	})

	w := httptest.NewRecorder()
	handler.Register(w, req)

	handlers.AssertErrorResponse(t, w, http.StatusConflict, "email already registered")
}

func TestLogin_Success(t *testing.T) {
	mockAuth := &handlers.MockAuthService{
		LoginFunc: func(ctx context.Context, email, password string, meta services.RequestMeta) (*services.AuthResponse, error) {
			return &services.AuthResponse{
				AccessToken:  "access_token_123",
				RefreshToken: "refresh_token_123",
			}, nil
		},
	}

	handler := handlers.NewAuthHandler(mockAuth)
	req := handlers.NewTestRequest(t, "POST", "/auth/login", handlers.LoginRequest{
		Email:    "user@example.com",
		Password: "password123!",
	})

	w := httptest.NewRecorder()
	handler.Login(w, req)

	var resp services.AuthResponse
	handlers.AssertJSONResponse(t, w, http.StatusOK, &resp)
	assert.Equal(t, "access_token_123", resp.AccessToken)
}

func TestLogin_StatusErrorsPassThrough(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{"invalid credentials", models.NewAuthError(http.StatusUnauthorized, "invalid credentials"), http.StatusUnauthorized, "invalid credentials"},
		{"locked", models.NewAuthError(http.StatusTooManyRequests, "too many failed attempts, try later"), http.StatusTooManyRequests, "too many failed attempts, try later"},
		{"disabled", models.NewAuthError(http.StatusForbidden, "account is disabled"), http.StatusForbidden, "account is disabled"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mockAuth := &handlers.MockAuthService{
				LoginFunc: func(ctx context.Context, email, password string, meta services.RequestMeta) (*services.AuthResponse, error) {
					return nil, tc.err
				},
			}

			handler := handlers.NewAuthHandler(mockAuth)
			req := handlers.NewTestRequest(t, "POST", "/auth/login", handlers.LoginRequest{
				Email:    "user@example.com",
				Password: "whatever",
			})

			w := httptest.NewRecorder()
			handler.Login(w, req)

			handlers.AssertErrorResponse(t, w, tc.wantStatus, tc.wantError)
		})
	}
}

func TestLogin_InvalidBody(t *testing.T) {
	handler := handlers.NewAuthHandler(&handlers.MockAuthService{})
	req := httptest.NewRequest("POST", "/auth/login", nil)

	w := httptest.NewRecorder()
	handler.Login(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRefresh_Success(t *testing.T) {
	var presented string
	mockAuth := &handlers.MockAuthService{
		RefreshFunc: func(ctx context.Context, refreshToken string, meta services.RequestMeta) (*services.AuthResponse, error) {
			presented = refreshToken
			return &services.AuthResponse{AccessToken: "new_access", RefreshToken: "new_refresh"}, nil
		},
	}

	handler := handlers.NewAuthHandler(mockAuth)
	req := handlers.NewTestRequest(t, "POST", "/auth/refresh", handlers.RefreshRequest{
		RefreshToken: "old_refresh",
	})

	w := httptest.NewRecorder()
	handler.Refresh(w, req)

	var resp services.AuthResponse
	handlers.AssertJSONResponse(t, w, http.StatusOK, &resp)
	assert.Equal(t, "old_refresh", presented)
	assert.Equal(t, "new_refresh", resp.RefreshToken)
}

func TestLogout_AlwaysOK(t *testing.T) {
	handler := handlers.NewAuthHandler(&handlers.MockAuthService{})
	req := handlers.NewTestRequest(t, "POST", "/auth/logout", handlers.RefreshRequest{
		RefreshToken: "whatever",
	})

	w := httptest.NewRecorder()
	handler.Logout(w, req)

	var resp map[string]bool
	handlers.AssertJSONResponse(t, w, http.StatusOK, &resp)
	assert.True(t, resp["ok"])
}

func TestLogout_RequiresToken(t *testing.T) {
	handler := handlers.NewAuthHandler(&handlers.MockAuthService{})
	req := handlers.NewTestRequest(t, "POST", "/auth/logout", handlers.RefreshRequest{})

	w := httptest.NewRecorder()
	handler.Logout(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMe(t *testing.T) {
	handler := handlers.NewAuthHandler(&handlers.MockAuthService{})

	req := handlers.NewTestRequest(t, "GET", "/auth/me", nil)
	w := httptest.NewRecorder()
	handler.Me(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	user := &models.User{ID: 42, Email: "user@example.com", Nickname: "Sam", IsActive: true}
	req = handlers.WithUserContext(handlers.NewTestRequest(t, "GET", "/auth/me", nil), user)
	w = httptest.NewRecorder()
	handler.Me(w, req)

	var resp map[string]services.UserResponse
	handlers.AssertJSONResponse(t, w, http.StatusOK, &resp)
	assert.Equal(t, int64(42), resp["user"].ID)
	assert.Equal(t, "user@example.com", resp["user"].Email)
}

func TestChangePassword(t *testing.T) {
	var called bool
	mockAuth := &handlers.MockAuthService{
		ChangePasswordFunc: func(ctx context.Context, user *models.User, currentPassword, newPassword string) error {
			called = true
			assert.Equal(t, "old", currentPassword)
			assert.Equal(t, "new-password-1", newPassword)
			return nil
		},
	}

	handler := handlers.NewAuthHandler(mockAuth)
	user := &models.User{ID: 42, IsActive: true}
	req := handlers.WithUserContext(handlers.NewTestRequest(t, "POST", "/auth/password", handlers.ChangePasswordRequest{
		CurrentPassword: "old",
		NewPassword:     "new-password-1",
	}), user)

	w := httptest.NewRecorder()
	handler.ChangePassword(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, called)
}
