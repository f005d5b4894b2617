// Package follow implements the follow-edge repository using PostgreSQL.
// Edge writes are idempotent (ON CONFLICT DO NOTHING / affected-row
// checks) so the service layer can key counter adjustments off whether
// a row actually changed.
package follow

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/microblog-backend/internal/adapter/postgres"
	"github.com/heartmarshall/microblog-backend/internal/domain"
	"github.com/heartmarshall/microblog-backend/internal/pagination"
)

// Repo provides follow-edge persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new follow repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// SQL constants
// ---------------------------------------------------------------------------

const insertSQL = `
INSERT INTO follows (id, follower_id, followee_id, created_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (follower_id, followee_id) DO NOTHING`

const deleteSQL = `
DELETE FROM follows
WHERE follower_id = $1 AND followee_id = $2`

const existsSQL = `
SELECT EXISTS (
	SELECT 1 FROM follows WHERE follower_id = $1 AND followee_id = $2
)`

const followedSetSQL = `
SELECT followee_id
FROM follows
WHERE follower_id = $1 AND followee_id = ANY($2)`

const followeeIDsSQL = `
SELECT followee_id
FROM follows
WHERE follower_id = $1`

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Insert creates the edge follower -> followee if it does not exist.
// Returns true if a new edge was inserted, false if it already existed.
// A self-follow trips the table CHECK and maps to domain.ErrValidation;
// an unknown profile id maps to domain.ErrNotFound.
func (r *Repo) Insert(ctx context.Context, edge *domain.FollowEdge) (bool, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	createdAt := edge.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC().Truncate(time.Microsecond)
	}

	ct, err := querier.Exec(ctx, insertSQL, edge.ID, edge.FollowerID, edge.FolloweeID, createdAt)
	if err != nil {
		return false, postgres.MapError(err, "follow", edge.ID)
	}

	return ct.RowsAffected() > 0, nil
}

// Delete removes the edge follower -> followee if it exists.
// Returns true if an edge was removed, false if there was none.
func (r *Repo) Delete(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	ct, err := querier.Exec(ctx, deleteSQL, followerID, followeeID)
	if err != nil {
		return false, postgres.MapError(err, "follow", uuid.Nil)
	}

	return ct.RowsAffected() > 0, nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// Exists reports whether the edge follower -> followee exists.
func (r *Repo) Exists(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var exists bool
	if err := querier.QueryRow(ctx, existsSQL, followerID, followeeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("follow exists: %w", err)
	}

	return exists, nil
}

// FollowedSet returns, out of the given followee ids, the subset the
// follower actually follows. One query regardless of the batch size.
func (r *Repo) FollowedSet(ctx context.Context, followerID uuid.UUID, followeeIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	followed := make(map[uuid.UUID]bool, len(followeeIDs))
	if len(followeeIDs) == 0 {
		return followed, nil
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, followedSetSQL, followerID, followeeIDs)
	if err != nil {
		return nil, fmt.Errorf("followed set: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("followed set: %w", err)
		}
		followed[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("followed set: %w", err)
	}

	return followed, nil
}

// FolloweeIDs returns every profile the follower follows. Used to
// resolve the author set for the home feed.
func (r *Repo) FolloweeIDs(ctx context.Context, followerID uuid.UUID) ([]uuid.UUID, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, followeeIDsSQL, followerID)
	if err != nil {
		return nil, fmt.Errorf("followee ids: %w", err)
	}
	defer rows.Close()

	ids := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("followee ids: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("followee ids: %w", err)
	}

	return ids, nil
}

// ListFollowers returns profiles following the given profile, newest
// edge first, id ascending as tie-break. The cursor positions within
// the edge ordering; pass nil for the first page.
func (r *Repo) ListFollowers(ctx context.Context, profileID uuid.UUID, after *pagination.Cursor, limit int) ([]*domain.ProfileFollow, error) {
	return r.list(ctx, "f.followee_id", "f.follower_id", profileID, after, limit)
}

// ListFollowing returns profiles the given profile follows, same
// ordering and cursor semantics as ListFollowers.
func (r *Repo) ListFollowing(ctx context.Context, profileID uuid.UUID, after *pagination.Cursor, limit int) ([]*domain.ProfileFollow, error) {
	return r.list(ctx, "f.follower_id", "f.followee_id", profileID, after, limit)
}

// list builds the edge-ordered listing joined to the profile on the far
// side of the edge. anchorCol filters the edges, joinCol selects which
// end joins to profiles.
func (r *Repo) list(ctx context.Context, anchorCol, joinCol string, profileID uuid.UUID, after *pagination.Cursor, limit int) ([]*domain.ProfileFollow, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	builder := squirrel.
		Select(
			"p.id", "p.screen_name", "p.display_name", "p.bio",
			"p.avatar_media_id", "p.header_media_id",
			"p.post_count", "p.follower_count", "p.following_count",
			"p.created_at", "p.updated_at",
			"f.id", "f.follower_id", "f.followee_id", "f.created_at",
		).
		From("follows f").
		Join("profiles p ON p.id = "+joinCol).
		Where(squirrel.Eq{anchorCol: profileID}).
		OrderBy("f.created_at DESC", "f.id ASC").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar)

	if after != nil {
		// keyset: rows strictly past the cursor position in
		// (created_at DESC, id ASC) order
		builder = builder.Where(squirrel.Or{
			squirrel.Lt{"f.created_at": after.SortValue},
			squirrel.And{
				squirrel.Eq{"f.created_at": after.SortValue},
				squirrel.Gt{"f.id": after.ID},
			},
		})
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build follow listing: %w", err)
	}

	rows, err := querier.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list follows: %w", err)
	}
	defer rows.Close()

	entries, err := scanProfileFollows(rows)
	if err != nil {
		return nil, fmt.Errorf("list follows: %w", err)
	}

	return entries, nil
}

// ---------------------------------------------------------------------------
// Row scanning helpers
// ---------------------------------------------------------------------------

// scanProfileFollows scans joined profile+edge rows.
func scanProfileFollows(rows pgx.Rows) ([]*domain.ProfileFollow, error) {
	entries := []*domain.ProfileFollow{}
	for rows.Next() {
		var e domain.ProfileFollow

		err := rows.Scan(
			&e.Profile.ID,
			&e.Profile.ScreenName,
			&e.Profile.DisplayName,
			&e.Profile.Bio,
			&e.Profile.AvatarMediaID,
			&e.Profile.HeaderMediaID,
			&e.Profile.Counters.Posts,
			&e.Profile.Counters.Followers,
			&e.Profile.Counters.Following,
			&e.Profile.CreatedAt,
			&e.Profile.UpdatedAt,
			&e.Edge.ID,
			&e.Edge.FollowerID,
			&e.Edge.FolloweeID,
			&e.Edge.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}
