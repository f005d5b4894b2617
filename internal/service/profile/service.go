// Package profile implements profile management and the follow
// relationship operations.
package profile

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/microblog-backend/internal/config"
	"github.com/heartmarshall/microblog-backend/internal/domain"
	"github.com/heartmarshall/microblog-backend/internal/pagination"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type profileRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error)
	GetByScreenName(ctx context.Context, screenName string) (*domain.Profile, error)
	Update(ctx context.Context, id uuid.UUID, displayName, bio string) (*domain.Profile, error)
	UpdateAvatar(ctx context.Context, id uuid.UUID, mediaID *uuid.UUID) (*domain.Profile, error)
	UpdateHeader(ctx context.Context, id uuid.UUID, mediaID *uuid.UUID) (*domain.Profile, error)
	AdjustFollowCounts(ctx context.Context, followerID, followeeID uuid.UUID, delta int) error
}

type followRepo interface {
	Insert(ctx context.Context, edge *domain.FollowEdge) (bool, error)
	Delete(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error)
	ListFollowers(ctx context.Context, profileID uuid.UUID, after *pagination.Cursor, limit int) ([]*domain.ProfileFollow, error)
	ListFollowing(ctx context.Context, profileID uuid.UUID, after *pagination.Cursor, limit int) ([]*domain.ProfileFollow, error)
}

type mediaRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.MediaAttachment, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the profile business logic.
type Service struct {
	log      *slog.Logger
	profiles profileRepo
	follows  followRepo
	media    mediaRepo
	tx       txManager
	limits   pagination.Limits
}

// NewService creates a new Profile service.
func NewService(
	logger *slog.Logger,
	profiles profileRepo,
	follows followRepo,
	media mediaRepo,
	tx txManager,
	cfg config.PaginationConfig,
) *Service {
	return &Service{
		log:      logger.With("service", "profile"),
		profiles: profiles,
		follows:  follows,
		media:    media,
		tx:       tx,
		limits:   pagination.Limits{Default: cfg.DefaultLimit, Max: cfg.MaxLimit},
	}
}
