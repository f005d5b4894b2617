// Package post implements the Post repository using PostgreSQL.
package post

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

// Repo provides post persistence backed by PostgreSQL. Media
// attachments are loaded separately by the media repository; rows
// returned here carry an empty Media slice.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new post repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// SQL constants
// ---------------------------------------------------------------------------

const postColumns = `id, author_id, content, like_count, created_at, updated_at`

const createSQL = `
INSERT INTO posts (id, author_id, content, created_at, updated_at)
VALUES ($1, $2, $3, $4, $4)
RETURNING ` + postColumns

const getByIDSQL = `
SELECT ` + postColumns + `
FROM posts
WHERE id = $1`

const getByIDsSQL = `
SELECT ` + postColumns + `
FROM posts
WHERE id = ANY($1)`

const updateContentSQL = `
UPDATE posts
SET content = $2, updated_at = now()
WHERE id = $1
RETURNING ` + postColumns

const deleteSQL = `
DELETE FROM posts
WHERE id = $1`

const adjustLikeCountSQL = `
UPDATE posts
SET like_count = like_count + $2
WHERE id = $1`

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns a post by primary key.
// Returns domain.ErrNotFound if no such post exists.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, getByIDSQL, id)

	post, err := scanPost(row)
	if err != nil {
		return nil, postgres.MapError(err, "post", id)
	}

	return post, nil
}

// GetByIDs returns the posts for the given ids in one query. Missing
// ids are silently absent; order is unspecified.
func (r *Repo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Post, error) {
	if len(ids) == 0 {
		return []*domain.Post{}, nil
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, getByIDsSQL, ids)
	if err != nil {
		return nil, fmt.Errorf("get posts by ids: %w", err)
	}
	defer rows.Close()

	posts, err := scanPosts(rows)
	if err != nil {
		return nil, fmt.Errorf("get posts by ids: %w", err)
	}

	return posts, nil
}

// FindByAuthors returns posts authored by any of the given profiles,
// newest first, id ascending as tie-break. The cursor positions within
// that ordering; pass nil for the first page. A single author id gives
// a profile timeline, the viewer's followee set gives the home feed.
func (r *Repo) FindByAuthors(ctx context.Context, authorIDs []uuid.UUID, after *pagination.Cursor, limit int) ([]*domain.Post, error) {
	if len(authorIDs) == 0 {
		return []*domain.Post{}, nil
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	builder := squirrel.
		Select("id", "author_id", "content", "like_count", "created_at", "updated_at").
		From("posts").
		Where(squirrel.Eq{"author_id": authorIDs}).
		OrderBy("created_at DESC", "id ASC").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar)

	if after != nil {
		builder = builder.Where(squirrel.Or{
			squirrel.Lt{"created_at": after.SortValue},
			squirrel.And{
				squirrel.Eq{"created_at": after.SortValue},
				squirrel.Gt{"id": after.ID},
			},
		})
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build post listing: %w", err)
	}

	rows, err := querier.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("find posts by authors: %w", err)
	}
	defer rows.Close()

	posts, err := scanPosts(rows)
	if err != nil {
		return nil, fmt.Errorf("find posts by authors: %w", err)
	}

	return posts, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a new post and returns the persisted row. An unknown
// author id maps to domain.ErrNotFound via the foreign key.
func (r *Repo) Create(ctx context.Context, post *domain.Post) (*domain.Post, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	now := time.Now().UTC().Truncate(time.Microsecond)

	row := querier.QueryRow(ctx, createSQL,
		post.ID,
		post.AuthorID,
		post.Content,
		now,
	)

	created, err := scanPost(row)
	if err != nil {
		return nil, postgres.MapError(err, "post", post.ID)
	}

	return created, nil
}

// UpdateContent overwrites the post content and returns the updated row.
// Content is the only author-editable column.
func (r *Repo) UpdateContent(ctx context.Context, id uuid.UUID, content string) (*domain.Post, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, updateContentSQL, id, content)

	updated, err := scanPost(row)
	if err != nil {
		return nil, postgres.MapError(err, "post", id)
	}

	return updated, nil
}

// Delete removes a post. Likes cascade; media attachments are detached
// by the post_id foreign key's ON DELETE SET NULL.
// Returns domain.ErrNotFound if no such post exists.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	ct, err := querier.Exec(ctx, deleteSQL, id)
	if err != nil {
		return postgres.MapError(err, "post", id)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("post %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// AdjustLikeCount moves like_count by delta. Must run in the same
// transaction as the like row change it mirrors.
func (r *Repo) AdjustLikeCount(ctx context.Context, id uuid.UUID, delta int) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	ct, err := querier.Exec(ctx, adjustLikeCountSQL, id, delta)
	if err != nil {
		return postgres.MapError(err, "post", id)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("post %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// ---------------------------------------------------------------------------
// Row scanning helpers
// ---------------------------------------------------------------------------

// scanPost scans a single post row from pgx.Row.
func scanPost(row pgx.Row) (*domain.Post, error) {
	var p domain.Post

	err := row.Scan(
		&p.ID,
		&p.AuthorID,
		&p.Content,
		&p.LikeCount,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Media = []domain.MediaAttachment{}
	return &p, nil
}

// scanPosts scans multiple post rows into a slice.
func scanPosts(rows pgx.Rows) ([]*domain.Post, error) {
	posts := []*domain.Post{}
	for rows.Next() {
		var p domain.Post

		err := rows.Scan(
			&p.ID,
			&p.AuthorID,
			&p.Content,
			&p.LikeCount,
			&p.CreatedAt,
			&p.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}

		p.Media = []domain.MediaAttachment{}
		posts = append(posts, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return posts, nil
}
