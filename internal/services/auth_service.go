package services

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mhoran-dev/relmap/internal/auth"
	"github.com/mhoran-dev/relmap/internal/models"
	pkgauth "github.com/mhoran-dev/relmap/pkg/auth"
	pkglogger "github.com/mhoran-dev/relmap/pkg/logger"
)

// UserRepository defines the user store operations the services need
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
	RecordLoginFailure(ctx context.Context, id int64, failedCount int, lockedUntil *time.Time) error
	RecordLoginSuccess(ctx context.Context, id int64, at time.Time) error
	UpdatePasswordHash(ctx context.Context, id int64, passwordHash string) error
}

// RefreshTokenRepository defines the refresh credential store operations
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) (*models.RefreshToken, error)
	GetByHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, tokenHash string, at time.Time) error
}

// RequestMeta carries per-request provenance stored with refresh credentials.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// AuthService handles registration, login, token rotation, and lockout state
type AuthService struct {
	users             UserRepository
	tokens            RefreshTokenRepository
	tm                *auth.TokenManager
	maxFailedAttempts int
	lockoutDuration   time.Duration
	logger            *slog.Logger
	auditLogger       *pkglogger.AuditLogger
}

func NewAuthService(
	users UserRepository,
	tokens RefreshTokenRepository,
	tm *auth.TokenManager,
	maxFailedAttempts int,
	lockoutDuration time.Duration,
	logger *slog.Logger,
	auditLogger *pkglogger.AuditLogger,
) *AuthService {
	return &AuthService{
		users:             users,
		tokens:            tokens,
		tm:                tm,
		maxFailedAttempts: maxFailedAttempts,
		lockoutDuration:   lockoutDuration,
		logger:            logger,
		auditLogger:       auditLogger,
	}
}

// UserResponse represents a user in the HTTP response
type UserResponse struct {
	ID          int64   `json:"id"`
	Email       string  `json:"email"`
	Nickname    string  `json:"nickname"`
	CreatedAt   string  `json:"created_at"`
	LastLoginAt *string `json:"last_login_at"`
}

// AuthResponse represents the response from auth operations
type AuthResponse struct {
	User         *UserResponse `json:"user"`
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	TokenType    string        `json:"token_type"`
	ExpiresIn    int           `json:"expires_in"`
}

// Register creates a new user account and issues a token pair.
func (s *AuthService) Register(ctx context.Context, email, password, nickname string, meta RequestMeta) (*AuthResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	nickname = strings.TrimSpace(nickname)

	if email == "" || password == "" || nickname == "" {
		return nil, models.NewValidationError("email, password, and nickname are required")
	}
	if !strings.Contains(email, "@") || !strings.Contains(email, ".") {
		return nil, models.NewValidationError("email is invalid")
	}
	if len(password) < pkgauth.MinPasswordLen {
		return nil, models.NewValidationError("password must be at least 8 characters")
	}

	hashedPassword, err := pkgauth.HashPassword(password)
	if err != nil {
		s.logger.Error("failed to hash password", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	user := &models.User{
		Email:        email,
		Nickname:     nickname,
		PasswordHash: hashedPassword,
	}

	// The unique index on email is the single source of truth for duplicate
	// detection, so a pre-check lookup is not needed.
	created, err := s.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			s.logger.Info("registration failed: email already registered")
			return nil, models.NewConflictError("email already registered")
		}
		s.logger.Error("failed to create user", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("user registered", slog.Int64("user_id", created.ID))
	s.auditLogger.LogAccountAction("user_registered", created.ID, meta.IPAddress)

	return s.issueTokenPair(ctx, created, meta)
}

// Login authenticates a user, tracking failed-attempt lockout state.
func (s *AuthService) Login(ctx context.Context, email, password string, meta RequestMeta) (*AuthResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if email == "" || password == "" {
		return nil, models.NewValidationError("email and password are required")
	}

	now := time.Now()

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		s.logger.Error("failed to get user by email", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if user != nil {
		if !user.IsActive {
			s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
				EventType:     "login_failed",
				UserID:        user.ID,
				IPAddress:     meta.IPAddress,
				FailureReason: "account_disabled",
			})
			return nil, models.NewAuthError(http.StatusForbidden, "account is disabled")
		}
		if user.IsLocked(now) {
			s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
				EventType:     "login_failed",
				UserID:        user.ID,
				IPAddress:     meta.IPAddress,
				FailureReason: "account_locked",
			})
			return nil, models.NewAuthError(http.StatusTooManyRequests, "too many failed attempts, try later")
		}
	}

	if user == nil || pkgauth.ComparePassword(user.PasswordHash, password) != nil {
		// A failure against a real account advances the lockout counter; an
		// unknown email has no row to mutate but yields the same response.
		if user != nil {
			failedCount := user.FailedLoginCount + 1
			var lockedUntil *time.Time
			if failedCount >= s.maxFailedAttempts {
				t := now.Add(s.lockoutDuration)
				lockedUntil = &t
			}
			if err := s.users.RecordLoginFailure(ctx, user.ID, failedCount, lockedUntil); err != nil {
				s.logger.Error("failed to record login failure", slog.Int64("user_id", user.ID), slog.Any("error", err))
			}
		}
		s.logger.Info("login failed: invalid credentials")
		s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
			EventType:     "login_failed",
			IPAddress:     meta.IPAddress,
			FailureReason: "invalid_credentials",
		})
		return nil, models.NewAuthError(http.StatusUnauthorized, "invalid credentials")
	}

	if err := s.users.RecordLoginSuccess(ctx, user.ID, now); err != nil {
		s.logger.Error("failed to record login success", slog.Int64("user_id", user.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	user.FailedLoginCount = 0
	user.LockedUntil = nil
	user.LastLoginAt = &now

	s.logger.Info("user logged in", slog.Int64("user_id", user.ID))
	s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
		EventType: "login_success",
		UserID:    user.ID,
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
		Success:   true,
	})

	return s.issueTokenPair(ctx, user, meta)
}

// Refresh exchanges a refresh credential for a new pair, revoking the
// presented credential (strict one-time use).
func (s *AuthService) Refresh(ctx context.Context, refreshToken string, meta RequestMeta) (*AuthResponse, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return nil, models.NewValidationError("refresh_token is required")
	}

	claims, err := s.tm.ValidateToken(refreshToken)
	if err != nil {
		s.logger.Info("refresh token validation failed", slog.Any("error", err))
		return nil, models.NewAuthError(http.StatusUnauthorized, "invalid refresh token")
	}

	if claims.Type != models.TokenTypeRefresh {
		return nil, models.NewAuthError(http.StatusUnauthorized, "invalid token type")
	}

	tokenHash := auth.HashToken(refreshToken)
	stored, err := s.tokens.GetByHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.NewAuthError(http.StatusUnauthorized, "refresh token revoked")
		}
		s.logger.Error("failed to look up refresh token", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	if stored.RevokedAt != nil {
		return nil, models.NewAuthError(http.StatusUnauthorized, "refresh token revoked")
	}
	if !stored.ExpiresAt.After(time.Now()) {
		return nil, models.NewAuthError(http.StatusUnauthorized, "refresh token expired")
	}

	userID, err := claims.UserID()
	if err != nil {
		return nil, models.NewAuthError(http.StatusUnauthorized, "invalid refresh token")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.NewAuthError(http.StatusForbidden, "account not available")
		}
		s.logger.Error("failed to get user for token refresh", slog.Int64("user_id", userID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	if !user.IsActive {
		return nil, models.NewAuthError(http.StatusForbidden, "account not available")
	}

	// Rotation on use: the presented credential dies with this exchange.
	if err := s.tokens.Revoke(ctx, tokenHash, time.Now()); err != nil {
		s.logger.Error("failed to revoke refresh token", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("token refreshed", slog.Int64("user_id", user.ID))

	return s.issueTokenPair(ctx, user, meta)
}

// Logout revokes the matching stored credential if present. It always
// reports success; revoking an unknown or already-revoked token is a no-op.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return models.NewValidationError("refresh_token is required")
	}

	if err := s.tokens.Revoke(ctx, auth.HashToken(refreshToken), time.Now()); err != nil {
		s.logger.Error("failed to revoke refresh token on logout", slog.Any("error", err))
		return models.ErrInternalServer
	}

	return nil
}

// ChangePassword replaces the stored hash after verifying the current one.
func (s *AuthService) ChangePassword(ctx context.Context, user *models.User, currentPassword, newPassword string) error {
	if currentPassword == "" || newPassword == "" {
		return models.NewValidationError("current_password and new_password are required")
	}
	if err := pkgauth.ComparePassword(user.PasswordHash, currentPassword); err != nil {
		return models.NewAuthError(http.StatusUnauthorized, "current password is incorrect")
	}
	if len(newPassword) < pkgauth.MinPasswordLen {
		return models.NewValidationError("password must be at least 8 characters")
	}

	hashedPassword, err := pkgauth.HashPassword(newPassword)
	if err != nil {
		s.logger.Error("failed to hash password", slog.Any("error", err))
		return models.ErrInternalServer
	}

	if err := s.users.UpdatePasswordHash(ctx, user.ID, hashedPassword); err != nil {
		s.logger.Error("failed to update password hash", slog.Int64("user_id", user.ID), slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.auditLogger.LogAccountAction("password_changed", user.ID, "")
	return nil
}

// issueTokenPair mints the access/refresh pair and persists the refresh
// credential's hash with its provenance. The plaintext refresh token leaves
// the server exactly once, in the returned response.
func (s *AuthService) issueTokenPair(ctx context.Context, user *models.User, meta RequestMeta) (*AuthResponse, error) {
	accessToken, err := s.tm.GenerateAccessToken(user.ID)
	if err != nil {
		s.logger.Error("failed to generate access token", slog.Int64("user_id", user.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	refreshToken, err := s.tm.GenerateRefreshToken(user.ID)
	if err != nil {
		s.logger.Error("failed to generate refresh token", slog.Int64("user_id", user.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	entry := &models.RefreshToken{
		UserID:    user.ID,
		TokenHash: auth.HashToken(refreshToken),
		ExpiresAt: time.Now().Add(s.tm.RefreshTokenExpiry()),
		UserAgent: meta.UserAgent,
		IPAddress: meta.IPAddress,
	}
	if _, err := s.tokens.Create(ctx, entry); err != nil {
		s.logger.Error("failed to store refresh token", slog.Int64("user_id", user.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	return &AuthResponse{
		User:         UserModelToResponse(user),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    int(s.tm.AccessTokenExpiry().Seconds()),
	}, nil
}

// UserModelToResponse converts a user model to its response DTO.
func UserModelToResponse(user *models.User) *UserResponse {
	var lastLogin *string
	if user.LastLoginAt != nil {
		formatted := user.LastLoginAt.Format(time.RFC3339)
		lastLogin = &formatted
	}

	return &UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		Nickname:    user.Nickname,
		CreatedAt:   user.CreatedAt.Format(time.RFC3339),
		LastLoginAt: lastLogin,
	}
}
