// Package post implements the post lifecycle: creation with media
// attachment, ownership-guarded edits, deletion, likes, and the
// author-timeline listing.
package post

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/microblog-backend/internal/config"
	"github.com/heartmarshall/microblog-backend/internal/domain"
	"github.com/heartmarshall/microblog-backend/internal/pagination"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type postRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error)
	FindByAuthors(ctx context.Context, authorIDs []uuid.UUID, after *pagination.Cursor, limit int) ([]*domain.Post, error)
	Create(ctx context.Context, post *domain.Post) (*domain.Post, error)
	UpdateContent(ctx context.Context, id uuid.UUID, content string) (*domain.Post, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AdjustLikeCount(ctx context.Context, id uuid.UUID, delta int) error
}

type profileRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error)
	AdjustPostCount(ctx context.Context, id uuid.UUID, delta int) error
}

type mediaRepo interface {
	Create(ctx context.Context, attachment *domain.MediaAttachment) (*domain.MediaAttachment, error)
	AttachToPost(ctx context.Context, mediaID, postID, ownerID uuid.UUID) error
	DetachByPost(ctx context.Context, postID uuid.UUID) (int, error)
	GetByPostIDs(ctx context.Context, postIDs []uuid.UUID) ([]*domain.MediaAttachment, error)
}

type likeRepo interface {
	Insert(ctx context.Context, profileID, postID uuid.UUID) (bool, error)
	Delete(ctx context.Context, profileID, postID uuid.UUID) (bool, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the post business logic.
type Service struct {
	log      *slog.Logger
	posts    postRepo
	profiles profileRepo
	media    mediaRepo
	likes    likeRepo
	tx       txManager
	limits   pagination.Limits
}

// NewService creates a new Post service.
func NewService(
	logger *slog.Logger,
	posts postRepo,
	profiles profileRepo,
	media mediaRepo,
	likes likeRepo,
	tx txManager,
	cfg config.PaginationConfig,
) *Service {
	return &Service{
		log:      logger.With("service", "post"),
		posts:    posts,
		profiles: profiles,
		media:    media,
		likes:    likes,
		tx:       tx,
		limits:   pagination.Limits{Default: cfg.DefaultLimit, Max: cfg.MaxLimit},
	}
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// hydrateMedia fills the Media slice of each post with one batched
// lookup.
func (s *Service) hydrateMedia(ctx context.Context, posts []*domain.Post) error {
	if len(posts) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(posts))
	byID := make(map[uuid.UUID]*domain.Post, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
		byID[p.ID] = p
	}

	attachments, err := s.media.GetByPostIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("hydrate media: %w", err)
	}

	for _, a := range attachments {
		if a.PostID == nil {
			continue
		}
		if p, ok := byID[*a.PostID]; ok {
			p.Media = append(p.Media, *a)
		}
	}

	return nil
}
