package profile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/microblog-backend/internal/domain"
	"github.com/heartmarshall/microblog-backend/pkg/ctxutil"
)

// Follow creates the edge viewer -> followee. Idempotent: following an
// already-followed profile is a no-op. Self-follows are rejected with
// ErrInvalidOperation. The edge insert and both counter adjustments
// share one transaction; a conflict under concurrent writes is retried
// once before surfacing.
func (s *Service) Follow(ctx context.Context, followeeID uuid.UUID) error {
	viewerID, ok := ctxutil.ProfileIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}
	if viewerID == followeeID {
		return fmt.Errorf("self-follow: %w", domain.ErrInvalidOperation)
	}

	mutate := func() error {
		return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
			inserted, err := s.follows.Insert(txCtx, &domain.FollowEdge{
				ID:         uuid.New(),
				FollowerID: viewerID,
				FolloweeID: followeeID,
			})
			if err != nil {
				return err
			}
			if !inserted {
				// edge already present, counters already right
				return nil
			}
			return s.profiles.AdjustFollowCounts(txCtx, viewerID, followeeID, 1)
		})
	}

	err := mutate()
	if errors.Is(err, domain.ErrConflict) {
		err = mutate()
	}
	if err != nil {
		return fmt.Errorf("follow: %w", err)
	}

	s.log.InfoContext(ctx, "followed",
		slog.String("follower_id", viewerID.String()),
		slog.String("followee_id", followeeID.String()))
	return nil
}

// Unfollow removes the edge viewer -> followee. Idempotent: removing an
// absent edge is a no-op and leaves counters untouched.
func (s *Service) Unfollow(ctx context.Context, followeeID uuid.UUID) error {
	viewerID, ok := ctxutil.ProfileIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}
	if viewerID == followeeID {
		return fmt.Errorf("self-unfollow: %w", domain.ErrInvalidOperation)
	}

	mutate := func() error {
		return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
			deleted, err := s.follows.Delete(txCtx, viewerID, followeeID)
			if err != nil {
				return err
			}
			if !deleted {
				return nil
			}
			return s.profiles.AdjustFollowCounts(txCtx, viewerID, followeeID, -1)
		})
	}

	err := mutate()
	if errors.Is(err, domain.ErrConflict) {
		err = mutate()
	}
	if err != nil {
		return fmt.Errorf("unfollow: %w", err)
	}

	return nil
}
