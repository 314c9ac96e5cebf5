package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mhoran-dev/relmap/internal/database"
	"github.com/mhoran-dev/relmap/internal/models"
)

type RefreshTokenRepository struct {
	pool *pgxpool.Pool
}

func NewRefreshTokenRepository(db *database.DB) *RefreshTokenRepository {
	return &RefreshTokenRepository{pool: db.Pool}
}

func scanRefreshTokenRow(scanner rowScanner) (*models.RefreshToken, error) {
	var token models.RefreshToken
	var revokedAt *time.Time
	var userAgent, ipAddress *string

	err := scanner.Scan(
		&token.ID, &token.UserID, &token.TokenHash,
		&token.ExpiresAt, &revokedAt, &userAgent, &ipAddress,
		&token.CreatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	token.RevokedAt = revokedAt
	if userAgent != nil {
		token.UserAgent = *userAgent
	}
	if ipAddress != nil {
		token.IPAddress = *ipAddress
	}

	return &token, nil
}

func (r *RefreshTokenRepository) Create(ctx context.Context, token *models.RefreshToken) (*models.RefreshToken, error) {
	token.CreatedAt = time.Now()

	query := `
		INSERT INTO refresh_tokens (user_id, token_hash, expires_at, user_agent, ip_address, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, user_id, token_hash, expires_at, revoked_at, user_agent, ip_address, created_at
	`

	return scanRefreshTokenRow(r.pool.QueryRow(ctx, query,
		token.UserID, token.TokenHash, token.ExpiresAt,
		token.UserAgent, token.IPAddress, token.CreatedAt,
	))
}

func (r *RefreshTokenRepository) GetByHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error) {
	query := `
		SELECT id, user_id, token_hash, expires_at, revoked_at, user_agent, ip_address, created_at
		FROM refresh_tokens WHERE token_hash = $1
	`

	return scanRefreshTokenRow(r.pool.QueryRow(ctx, query, tokenHash))
}

// Revoke marks the credential unusable. Revoking an already-revoked token is
// a no-op, which keeps logout idempotent.
func (r *RefreshTokenRepository) Revoke(ctx context.Context, tokenHash string, at time.Time) error {
	query := `
		UPDATE refresh_tokens SET revoked_at = $1
		WHERE token_hash = $2 AND revoked_at IS NULL
	`

	if _, err := r.pool.Exec(ctx, query, at, tokenHash); err != nil {
		return database.MapPostgresError(err)
	}

	return nil
}

// DeleteExpired removes credentials past their expiry; revoked rows are kept
// until they expire so rotation history stays auditable.
func (r *RefreshTokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	query := `DELETE FROM refresh_tokens WHERE expires_at < NOW()`

	result, err := r.pool.Exec(ctx, query)
	if err != nil {
		return 0, database.MapPostgresError(err)
	}

	return result.RowsAffected(), nil
}
