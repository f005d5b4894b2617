// Package dataloader provides per-request DataLoaders for batching
// response-assembly lookups into single SQL calls. A page of posts needs
// the author profile of every item; the loader collapses those lookups
// into one GetByIDs query per request.
package dataloader

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/graph-gophers/dataloader/v7"

	"github.com/heartmarshall/microblog-backend/internal/domain"
)

const (
	maxBatch = 100
	wait     = 2 * time.Millisecond
)

// ---------------------------------------------------------------------------
// Repository interfaces (consumer-defined)
// ---------------------------------------------------------------------------

type profileRepo interface {
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Profile, error)
}

type mediaRepo interface {
	GetByPostIDs(ctx context.Context, postIDs []uuid.UUID) ([]*domain.MediaAttachment, error)
}

// Repos holds all repositories required by DataLoaders.
type Repos struct {
	Profile profileRepo
	Media   mediaRepo
}

// ---------------------------------------------------------------------------
// Loaders holds all per-request DataLoader instances.
// ---------------------------------------------------------------------------

// Loaders contains the per-request DataLoaders. Created per-request via
// NewLoaders: loaders cache results within a single request only.
type Loaders struct {
	ProfileByID   *dataloader.Loader[uuid.UUID, *domain.Profile]
	MediaByPostID *dataloader.Loader[uuid.UUID, []domain.MediaAttachment]
}

// NewLoaders creates a new set of DataLoaders backed by the given repositories.
func NewLoaders(repos *Repos) *Loaders {
	return &Loaders{
		ProfileByID:   newLoader(newProfileBatchFn(repos.Profile)),
		MediaByPostID: newLoader(newMediaBatchFn(repos.Media)),
	}
}

// newLoader creates a dataloader.Loader with standard batch parameters.
func newLoader[V any](batchFn dataloader.BatchFunc[uuid.UUID, V]) *dataloader.Loader[uuid.UUID, V] {
	return dataloader.NewBatchedLoader(
		batchFn,
		dataloader.WithWait[uuid.UUID, V](wait),
		dataloader.WithBatchCapacity[uuid.UUID, V](maxBatch),
	)
}

// ---------------------------------------------------------------------------
// Context helpers
// ---------------------------------------------------------------------------

type contextKey string

const loadersKey contextKey = "dataloaders"

// WithLoaders stores Loaders in the context.
func WithLoaders(ctx context.Context, l *Loaders) context.Context {
	return context.WithValue(ctx, loadersKey, l)
}

// FromContext retrieves Loaders from the context.
// Panics if loaders are not present (indicates middleware misconfiguration).
func FromContext(ctx context.Context) *Loaders {
	l, ok := ctx.Value(loadersKey).(*Loaders)
	if !ok || l == nil {
		panic("dataloader: loaders not found in context: is middleware configured?")
	}
	return l
}
