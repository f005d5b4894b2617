// Package credential implements the login-credential repository using
// PostgreSQL.
package credential

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/microblog-backend/internal/adapter/postgres"
	"github.com/heartmarshall/microblog-backend/internal/domain"
)

// Repo provides credential persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new credential repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// SQL constants
// ---------------------------------------------------------------------------

const credentialColumns = `profile_id, email, password_hash, created_at, updated_at`

const createSQL = `
INSERT INTO credentials (profile_id, email, password_hash, created_at, updated_at)
VALUES ($1, $2, $3, $4, $4)
RETURNING ` + credentialColumns

const getByEmailSQL = `
SELECT ` + credentialColumns + `
FROM credentials
WHERE email = $1`

const getByProfileIDSQL = `
SELECT ` + credentialColumns + `
FROM credentials
WHERE profile_id = $1`

// ---------------------------------------------------------------------------
// Operations
// ---------------------------------------------------------------------------

// Create inserts a credential for a profile. A taken email maps to
// domain.ErrAlreadyExists via the unique constraint.
func (r *Repo) Create(ctx context.Context, cred *domain.Credential) (*domain.Credential, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	now := time.Now().UTC().Truncate(time.Microsecond)

	row := querier.QueryRow(ctx, createSQL,
		cred.ProfileID,
		cred.Email,
		cred.PasswordHash,
		now,
	)

	created, err := scanCredential(row)
	if err != nil {
		return nil, postgres.MapError(err, "credential", cred.ProfileID)
	}

	return created, nil
}

// GetByEmail returns the credential for a normalized email address.
// Returns domain.ErrNotFound if no account uses the address.
func (r *Repo) GetByEmail(ctx context.Context, email string) (*domain.Credential, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, getByEmailSQL, email)

	cred, err := scanCredential(row)
	if err != nil {
		return nil, postgres.MapError(err, "credential", uuid.Nil)
	}

	return cred, nil
}

// GetByProfileID returns the credential owned by a profile.
func (r *Repo) GetByProfileID(ctx context.Context, profileID uuid.UUID) (*domain.Credential, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, getByProfileIDSQL, profileID)

	cred, err := scanCredential(row)
	if err != nil {
		return nil, postgres.MapError(err, "credential", profileID)
	}

	return cred, nil
}

// scanCredential scans a single credential row from pgx.Row.
func scanCredential(row pgx.Row) (*domain.Credential, error) {
	var c domain.Credential

	err := row.Scan(
		&c.ProfileID,
		&c.Email,
		&c.PasswordHash,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &c, nil
}
