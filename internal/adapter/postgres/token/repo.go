// Package token implements the refresh-token repository using
// PostgreSQL. Tokens are stored hashed; the plaintext never reaches
// this layer.
package token

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/microblog-backend/internal/adapter/postgres"
	"github.com/heartmarshall/microblog-backend/internal/domain"
)

// Repo provides refresh-token persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new token repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// SQL constants
// ---------------------------------------------------------------------------

const tokenColumns = `id, profile_id, token_hash, expires_at, created_at, revoked_at`

const createSQL = `
INSERT INTO refresh_tokens (id, profile_id, token_hash, expires_at, created_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + tokenColumns

const getByHashSQL = `
SELECT ` + tokenColumns + `
FROM refresh_tokens
WHERE token_hash = $1 AND revoked_at IS NULL AND expires_at > now()`

const revokeByIDSQL = `
UPDATE refresh_tokens
SET revoked_at = now()
WHERE id = $1 AND revoked_at IS NULL`

const revokeAllByProfileSQL = `
UPDATE refresh_tokens
SET revoked_at = now()
WHERE profile_id = $1 AND revoked_at IS NULL`

const deleteExpiredSQL = `
DELETE FROM refresh_tokens
WHERE expires_at <= now() OR revoked_at IS NOT NULL`

// ---------------------------------------------------------------------------
// Operations
// ---------------------------------------------------------------------------

// Create inserts a new refresh token and returns the persisted row.
func (r *Repo) Create(ctx context.Context, token *domain.RefreshToken) (*domain.RefreshToken, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	now := time.Now().UTC().Truncate(time.Microsecond)

	row := querier.QueryRow(ctx, createSQL,
		token.ID,
		token.ProfileID,
		token.TokenHash,
		token.ExpiresAt.UTC().Truncate(time.Microsecond),
		now,
	)

	created, err := scanToken(row)
	if err != nil {
		return nil, postgres.MapError(err, "refresh_token", token.ID)
	}

	return created, nil
}

// GetByHash returns an active (non-revoked, non-expired) refresh token
// by its hash. Returns domain.ErrNotFound if the token does not exist,
// is revoked, or is expired.
func (r *Repo) GetByHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, getByHashSQL, tokenHash)

	token, err := scanToken(row)
	if err != nil {
		return nil, postgres.MapError(err, "refresh_token", uuid.Nil)
	}

	return token, nil
}

// RevokeByID revokes a specific refresh token by setting revoked_at.
// Idempotent: revoking an already-revoked token is not an error.
func (r *Repo) RevokeByID(ctx context.Context, id uuid.UUID) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	if _, err := querier.Exec(ctx, revokeByIDSQL, id); err != nil {
		return postgres.MapError(err, "refresh_token", id)
	}

	return nil
}

// RevokeAllByProfile revokes all active refresh tokens for the profile.
func (r *Repo) RevokeAllByProfile(ctx context.Context, profileID uuid.UUID) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	if _, err := querier.Exec(ctx, revokeAllByProfileSQL, profileID); err != nil {
		return postgres.MapError(err, "refresh_token", uuid.Nil)
	}

	return nil
}

// DeleteExpired removes all expired or revoked tokens.
// Returns the count of deleted rows.
func (r *Repo) DeleteExpired(ctx context.Context) (int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	ct, err := querier.Exec(ctx, deleteExpiredSQL)
	if err != nil {
		return 0, postgres.MapError(err, "refresh_token", uuid.Nil)
	}

	return int(ct.RowsAffected()), nil
}

// scanToken scans a single refresh-token row from pgx.Row.
func scanToken(row pgx.Row) (*domain.RefreshToken, error) {
	var t domain.RefreshToken

	err := row.Scan(
		&t.ID,
		&t.ProfileID,
		&t.TokenHash,
		&t.ExpiresAt,
		&t.CreatedAt,
		&t.RevokedAt,
	)
	if err != nil {
		return nil, err
	}

	return &t, nil
}
