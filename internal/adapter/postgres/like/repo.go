// Package like implements the like repository using PostgreSQL. Writes
// are idempotent so the service layer can key like_count adjustments
// off whether a row actually changed.
package like

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/microblog-backend/internal/adapter/postgres"
)

// Repo provides like persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new like repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// SQL constants
// ---------------------------------------------------------------------------

const insertSQL = `
INSERT INTO likes (profile_id, post_id, created_at)
VALUES ($1, $2, $3)
ON CONFLICT (profile_id, post_id) DO NOTHING`

const deleteSQL = `
DELETE FROM likes
WHERE profile_id = $1 AND post_id = $2`

const existsSQL = `
SELECT EXISTS (
	SELECT 1 FROM likes WHERE profile_id = $1 AND post_id = $2
)`

const likedSetSQL = `
SELECT post_id
FROM likes
WHERE profile_id = $1 AND post_id = ANY($2)`

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Insert creates the like if it does not exist. Returns true if a new
// row was inserted, false if the post was already liked. An unknown
// post or profile id maps to domain.ErrNotFound.
func (r *Repo) Insert(ctx context.Context, profileID, postID uuid.UUID) (bool, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	now := time.Now().UTC().Truncate(time.Microsecond)

	ct, err := querier.Exec(ctx, insertSQL, profileID, postID, now)
	if err != nil {
		return false, postgres.MapError(err, "like", postID)
	}

	return ct.RowsAffected() > 0, nil
}

// Delete removes the like if it exists. Returns true if a row was
// removed, false if there was none.
func (r *Repo) Delete(ctx context.Context, profileID, postID uuid.UUID) (bool, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	ct, err := querier.Exec(ctx, deleteSQL, profileID, postID)
	if err != nil {
		return false, postgres.MapError(err, "like", postID)
	}

	return ct.RowsAffected() > 0, nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// Exists reports whether the profile likes the post.
func (r *Repo) Exists(ctx context.Context, profileID, postID uuid.UUID) (bool, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var exists bool
	if err := querier.QueryRow(ctx, existsSQL, profileID, postID).Scan(&exists); err != nil {
		return false, fmt.Errorf("like exists: %w", err)
	}

	return exists, nil
}

// LikedSet returns, out of the given post ids, the subset the profile
// has liked. One query regardless of the batch size.
func (r *Repo) LikedSet(ctx context.Context, profileID uuid.UUID, postIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	liked := make(map[uuid.UUID]bool, len(postIDs))
	if len(postIDs) == 0 {
		return liked, nil
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, likedSetSQL, profileID, postIDs)
	if err != nil {
		return nil, fmt.Errorf("liked set: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("liked set: %w", err)
		}
		liked[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("liked set: %w", err)
	}

	return liked, nil
}
