// Package profile implements the Profile repository using PostgreSQL.
// All queries use raw SQL; counters are denormalized columns adjusted
// in the same transaction as the row mutation they mirror.
package profile

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/microblog-backend/internal/adapter/postgres"
	"github.com/heartmarshall/microblog-backend/internal/domain"
)

// Repo provides profile persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new profile repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// SQL constants
// ---------------------------------------------------------------------------

const profileColumns = `id, screen_name, display_name, bio, avatar_media_id, header_media_id,
	post_count, follower_count, following_count, created_at, updated_at`

const createSQL = `
INSERT INTO profiles (id, screen_name, display_name, created_at, updated_at)
VALUES ($1, $2, $3, $4, $4)
RETURNING ` + profileColumns

const getByIDSQL = `
SELECT ` + profileColumns + `
FROM profiles
WHERE id = $1`

const getByScreenNameSQL = `
SELECT ` + profileColumns + `
FROM profiles
WHERE screen_name = $1`

const getByIDsSQL = `
SELECT ` + profileColumns + `
FROM profiles
WHERE id = ANY($1)`

const updateSQL = `
UPDATE profiles
SET display_name = $2, bio = $3, updated_at = now()
WHERE id = $1
RETURNING ` + profileColumns

const updateAvatarSQL = `
UPDATE profiles
SET avatar_media_id = $2, updated_at = now()
WHERE id = $1
RETURNING ` + profileColumns

const updateHeaderSQL = `
UPDATE profiles
SET header_media_id = $2, updated_at = now()
WHERE id = $1
RETURNING ` + profileColumns

const adjustPostCountSQL = `
UPDATE profiles
SET post_count = post_count + $2
WHERE id = $1`

// Both sides of the edge change together; a single CASE update avoids a
// second round trip inside the transaction.
const adjustFollowPairSQL = `
UPDATE profiles
SET follower_count  = follower_count  + CASE WHEN id = $2 THEN $3 ELSE 0 END,
    following_count = following_count + CASE WHEN id = $1 THEN $3 ELSE 0 END
WHERE id IN ($1, $2)`

const counterDriftSQL = `
SELECT p.id
FROM profiles p
WHERE p.post_count      <> (SELECT count(*) FROM posts   WHERE author_id   = p.id)
   OR p.follower_count  <> (SELECT count(*) FROM follows WHERE followee_id = p.id)
   OR p.following_count <> (SELECT count(*) FROM follows WHERE follower_id = p.id)`

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns a profile by primary key.
// Returns domain.ErrNotFound if no such profile exists.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, getByIDSQL, id)

	profile, err := scanProfile(row)
	if err != nil {
		return nil, postgres.MapError(err, "profile", id)
	}

	return profile, nil
}

// GetByScreenName returns a profile by its unique screen name.
// The caller is expected to normalize the name first.
func (r *Repo) GetByScreenName(ctx context.Context, screenName string) (*domain.Profile, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, getByScreenNameSQL, screenName)

	profile, err := scanProfile(row)
	if err != nil {
		return nil, postgres.MapError(err, "profile", uuid.Nil)
	}

	return profile, nil
}

// GetByIDs returns the profiles for the given ids in one query. Missing
// ids are silently absent from the result; order is unspecified.
func (r *Repo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Profile, error) {
	if len(ids) == 0 {
		return []*domain.Profile{}, nil
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, getByIDsSQL, ids)
	if err != nil {
		return nil, fmt.Errorf("get profiles by ids: %w", err)
	}
	defer rows.Close()

	profiles, err := scanProfiles(rows)
	if err != nil {
		return nil, fmt.Errorf("get profiles by ids: %w", err)
	}

	return profiles, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a new profile and returns the persisted row.
// A taken screen name results in domain.ErrAlreadyExists.
func (r *Repo) Create(ctx context.Context, profile *domain.Profile) (*domain.Profile, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	now := time.Now().UTC().Truncate(time.Microsecond)

	row := querier.QueryRow(ctx, createSQL,
		profile.ID,
		profile.ScreenName,
		profile.DisplayName,
		now,
	)

	created, err := scanProfile(row)
	if err != nil {
		return nil, postgres.MapError(err, "profile", profile.ID)
	}

	return created, nil
}

// Update overwrites the editable profile fields (display name and bio)
// and returns the updated row.
func (r *Repo) Update(ctx context.Context, id uuid.UUID, displayName, bio string) (*domain.Profile, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, updateSQL, id, displayName, bio)

	updated, err := scanProfile(row)
	if err != nil {
		return nil, postgres.MapError(err, "profile", id)
	}

	return updated, nil
}

// UpdateAvatar sets or clears (nil) the avatar media reference.
func (r *Repo) UpdateAvatar(ctx context.Context, id uuid.UUID, mediaID *uuid.UUID) (*domain.Profile, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, updateAvatarSQL, id, mediaID)

	updated, err := scanProfile(row)
	if err != nil {
		return nil, postgres.MapError(err, "profile", id)
	}

	return updated, nil
}

// UpdateHeader sets or clears (nil) the header media reference.
func (r *Repo) UpdateHeader(ctx context.Context, id uuid.UUID, mediaID *uuid.UUID) (*domain.Profile, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, updateHeaderSQL, id, mediaID)

	updated, err := scanProfile(row)
	if err != nil {
		return nil, postgres.MapError(err, "profile", id)
	}

	return updated, nil
}

// AdjustPostCount moves post_count by delta. Must run in the same
// transaction as the post insert/delete it mirrors; the non-negative
// CHECK surfaces drift as domain.ErrValidation.
func (r *Repo) AdjustPostCount(ctx context.Context, id uuid.UUID, delta int) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	ct, err := querier.Exec(ctx, adjustPostCountSQL, id, delta)
	if err != nil {
		return postgres.MapError(err, "profile", id)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("profile %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// AdjustFollowCounts moves the follower's following_count and the
// followee's follower_count by delta in a single statement. Must run in
// the same transaction as the follow edge change it mirrors.
func (r *Repo) AdjustFollowCounts(ctx context.Context, followerID, followeeID uuid.UUID, delta int) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	ct, err := querier.Exec(ctx, adjustFollowPairSQL, followerID, followeeID, delta)
	if err != nil {
		return postgres.MapError(err, "profile", followerID)
	}
	if ct.RowsAffected() != 2 {
		return fmt.Errorf("follow counters %s -> %s: %w", followerID, followeeID, domain.ErrNotFound)
	}

	return nil
}

// CounterDrift compares the denormalized counters against the real row
// counts and returns the ids of profiles whose counters disagree. Meant
// for tests and operational checks; the request path never calls it and
// never auto-corrects.
func (r *Repo) CounterDrift(ctx context.Context) ([]uuid.UUID, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, counterDriftSQL)
	if err != nil {
		return nil, fmt.Errorf("counter drift: %w", err)
	}
	defer rows.Close()

	drifted := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("counter drift: %w", err)
		}
		drifted = append(drifted, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("counter drift: %w", err)
	}

	return drifted, nil
}

// ---------------------------------------------------------------------------
// Row scanning helpers
// ---------------------------------------------------------------------------

// scanProfile scans a single profile row from pgx.Row.
func scanProfile(row pgx.Row) (*domain.Profile, error) {
	var p domain.Profile

	err := row.Scan(
		&p.ID,
		&p.ScreenName,
		&p.DisplayName,
		&p.Bio,
		&p.AvatarMediaID,
		&p.HeaderMediaID,
		&p.Counters.Posts,
		&p.Counters.Followers,
		&p.Counters.Following,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &p, nil
}

// scanProfiles scans multiple profile rows into a slice.
func scanProfiles(rows pgx.Rows) ([]*domain.Profile, error) {
	profiles := []*domain.Profile{}
	for rows.Next() {
		var p domain.Profile

		err := rows.Scan(
			&p.ID,
			&p.ScreenName,
			&p.DisplayName,
			&p.Bio,
			&p.AvatarMediaID,
			&p.HeaderMediaID,
			&p.Counters.Posts,
			&p.Counters.Followers,
			&p.Counters.Following,
			&p.CreatedAt,
			&p.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}

		profiles = append(profiles, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return profiles, nil
}
