// Package media implements the media-attachment repository using
// PostgreSQL. Rows reference uploaded files by opaque URI; the engine
// never reads file bytes.
package media

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

// Repo provides media-attachment persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new media repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// SQL constants
// ---------------------------------------------------------------------------

const mediaColumns = `id, owner_id, post_id, file_uri, created_at, updated_at`

const createSQL = `
INSERT INTO media_attachments (id, owner_id, file_uri, created_at, updated_at)
VALUES ($1, $2, $3, $4, $4)
RETURNING ` + mediaColumns

const getByIDSQL = `
SELECT ` + mediaColumns + `
FROM media_attachments
WHERE id = $1`

const getByIDsSQL = `
SELECT ` + mediaColumns + `
FROM media_attachments
WHERE id = ANY($1)`

const getByPostIDsSQL = `
SELECT ` + mediaColumns + `
FROM media_attachments
WHERE post_id = ANY($1)
ORDER BY created_at, id`

const attachSQL = `
UPDATE media_attachments
SET post_id = $2, updated_at = now()
WHERE id = $1 AND owner_id = $3 AND post_id IS NULL`

const detachByPostSQL = `
UPDATE media_attachments
SET post_id = NULL, updated_at = now()
WHERE post_id = $1`

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns an attachment by primary key.
// Returns domain.ErrNotFound if no such attachment exists.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.MediaAttachment, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, getByIDSQL, id)

	attachment, err := scanAttachment(row)
	if err != nil {
		return nil, postgres.MapError(err, "media", id)
	}

	return attachment, nil
}

// GetByIDs returns the attachments for the given ids in one query.
// Missing ids are silently absent; order is unspecified.
func (r *Repo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.MediaAttachment, error) {
	if len(ids) == 0 {
		return []*domain.MediaAttachment{}, nil
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, getByIDsSQL, ids)
	if err != nil {
		return nil, fmt.Errorf("get media by ids: %w", err)
	}
	defer rows.Close()

	attachments, err := scanAttachments(rows)
	if err != nil {
		return nil, fmt.Errorf("get media by ids: %w", err)
	}

	return attachments, nil
}

// GetByPostIDs returns all attachments of the given posts in one query,
// ordered by attachment creation within each post.
func (r *Repo) GetByPostIDs(ctx context.Context, postIDs []uuid.UUID) ([]*domain.MediaAttachment, error) {
	if len(postIDs) == 0 {
		return []*domain.MediaAttachment{}, nil
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, getByPostIDsSQL, postIDs)
	if err != nil {
		return nil, fmt.Errorf("get media by post ids: %w", err)
	}
	defer rows.Close()

	attachments, err := scanAttachments(rows)
	if err != nil {
		return nil, fmt.Errorf("get media by post ids: %w", err)
	}

	return attachments, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create registers a new unattached media reference and returns the
// persisted row.
func (r *Repo) Create(ctx context.Context, attachment *domain.MediaAttachment) (*domain.MediaAttachment, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	now := time.Now().UTC().Truncate(time.Microsecond)

	row := querier.QueryRow(ctx, createSQL,
		attachment.ID,
		attachment.OwnerID,
		attachment.FileURI,
		now,
	)

	created, err := scanAttachment(row)
	if err != nil {
		return nil, postgres.MapError(err, "media", attachment.ID)
	}

	return created, nil
}

// AttachToPost associates an unattached media row with a post. The
// owner filter enforces that only the uploader's media can be attached;
// an already-attached or foreign row maps to domain.ErrNotFound.
func (r *Repo) AttachToPost(ctx context.Context, mediaID, postID, ownerID uuid.UUID) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	ct, err := querier.Exec(ctx, attachSQL, mediaID, postID, ownerID)
	if err != nil {
		return postgres.MapError(err, "media", mediaID)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("media %s: %w", mediaID, domain.ErrNotFound)
	}

	return nil
}

// DetachByPost clears post_id on all attachments of the post. Used on
// post deletion; the rows themselves survive. Returns the count of
// detached attachments.
func (r *Repo) DetachByPost(ctx context.Context, postID uuid.UUID) (int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	ct, err := querier.Exec(ctx, detachByPostSQL, postID)
	if err != nil {
		return 0, postgres.MapError(err, "media", uuid.Nil)
	}

	return int(ct.RowsAffected()), nil
}

// ---------------------------------------------------------------------------
// Row scanning helpers
// ---------------------------------------------------------------------------

// scanAttachment scans a single attachment row from pgx.Row.
func scanAttachment(row pgx.Row) (*domain.MediaAttachment, error) {
	var m domain.MediaAttachment

	err := row.Scan(
		&m.ID,
		&m.OwnerID,
		&m.PostID,
		&m.FileURI,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &m, nil
}

// scanAttachments scans multiple attachment rows into a slice.
func scanAttachments(rows pgx.Rows) ([]*domain.MediaAttachment, error) {
	attachments := []*domain.MediaAttachment{}
	for rows.Next() {
		var m domain.MediaAttachment

		err := rows.Scan(
			&m.ID,
			&m.OwnerID,
			&m.PostID,
			&m.FileURI,
			&m.CreatedAt,
			&m.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}

		attachments = append(attachments, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return attachments, nil
}
