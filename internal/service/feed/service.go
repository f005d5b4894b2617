// Package feed assembles the home timeline: reverse-chronological posts
// from the profiles the viewer follows. No ranking.
package feed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/microblog-backend/internal/domain"
	"github.com/heartmarshall/microblog-backend/internal/pagination"
	"github.com/heartmarshall/microblog-backend/pkg/ctxutil"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type followRepo interface {
	FolloweeIDs(ctx context.Context, followerID uuid.UUID) ([]uuid.UUID, error)
}

type postLister interface {
	FindByAuthors(ctx context.Context, authorIDs []uuid.UUID, req pagination.Request) (*pagination.Page[*domain.Post], error)
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the home feed.
type Service struct {
	log     *slog.Logger
	follows followRepo
	posts   postLister
}

// NewService creates a new Feed service.
func NewService(logger *slog.Logger, follows followRepo, posts postLister) *Service {
	return &Service{
		log:     logger.With("service", "feed"),
		follows: follows,
		posts:   posts,
	}
}

// Home returns one page of the viewer's home feed. Requires an
// authenticated viewer; a viewer following nobody gets an empty page.
func (s *Service) Home(ctx context.Context, req pagination.Request) (*pagination.Page[*domain.Post], error) {
	viewerID, ok := ctxutil.ProfileIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	authorIDs, err := s.follows.FolloweeIDs(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("resolve followees: %w", err)
	}
	if len(authorIDs) == 0 {
		return &pagination.Page[*domain.Post]{Items: []*domain.Post{}}, nil
	}

	page, err := s.posts.FindByAuthors(ctx, authorIDs, req)
	if err != nil {
		return nil, fmt.Errorf("home feed: %w", err)
	}

	return page, nil
}
