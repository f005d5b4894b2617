package post

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/heartmarshall/microblog-backend/internal/domain"
	"github.com/heartmarshall/microblog-backend/pkg/ctxutil"
)

// Like marks a post as liked by the viewer. Idempotent: liking an
// already-liked post is a no-op. The like row and the post's like_count
// move in one transaction; a conflict under concurrent writes is
// retried once before surfacing.
func (s *Service) Like(ctx context.Context, postID uuid.UUID) error {
	viewerID, ok := ctxutil.ProfileIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	mutate := func() error {
		return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
			inserted, err := s.likes.Insert(txCtx, viewerID, postID)
			if err != nil {
				return err
			}
			if !inserted {
				return nil
			}
			return s.posts.AdjustLikeCount(txCtx, postID, 1)
		})
	}

	err := mutate()
	if errors.Is(err, domain.ErrConflict) {
		err = mutate()
	}
	if err != nil {
		return fmt.Errorf("like: %w", err)
	}

	return nil
}

// Unlike removes the viewer's like. Idempotent: removing an absent like
// leaves the counter untouched.
func (s *Service) Unlike(ctx context.Context, postID uuid.UUID) error {
	viewerID, ok := ctxutil.ProfileIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	mutate := func() error {
		return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
			deleted, err := s.likes.Delete(txCtx, viewerID, postID)
			if err != nil {
				return err
			}
			if !deleted {
				return nil
			}
			return s.posts.AdjustLikeCount(txCtx, postID, -1)
		})
	}

	err := mutate()
	if errors.Is(err, domain.ErrConflict) {
		err = mutate()
	}
	if err != nil {
		return fmt.Errorf("unlike: %w", err)
	}

	return nil
}
