package post

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/microblog-backend/internal/domain"
	"github.com/heartmarshall/microblog-backend/pkg/ctxutil"
)

// Update rewrites a post's content. Content is the whole allow-list:
// author, timestamps, counters and media stay untouched. Only the
// author may edit.
func (s *Service) Update(ctx context.Context, postID uuid.UUID, content string) (*domain.Post, error) {
	viewerID, _ := ctxutil.ProfileIDFromCtx(ctx)

	current, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("load post: %w", err)
	}
	if err := domain.Authorize(viewerID, current.AuthorID); err != nil {
		return nil, err
	}

	trimmed, err := domain.ValidatePostContent(content)
	if err != nil {
		return nil, err
	}

	updated, err := s.posts.UpdateContent(ctx, postID, trimmed)
	if err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}

	if err := s.hydrateMedia(ctx, []*domain.Post{updated}); err != nil {
		return nil, err
	}

	return updated, nil
}

// Delete removes a post, detaches (never deletes) its media, and
// decrements the author's post_count, all in one transaction. Only the
// author may delete.
func (s *Service) Delete(ctx context.Context, postID uuid.UUID) error {
	viewerID, _ := ctxutil.ProfileIDFromCtx(ctx)

	current, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return fmt.Errorf("load post: %w", err)
	}
	if err := domain.Authorize(viewerID, current.AuthorID); err != nil {
		return err
	}

	txErr := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.media.DetachByPost(txCtx, postID); err != nil {
			return err
		}
		if err := s.posts.Delete(txCtx, postID); err != nil {
			return err
		}
		return s.profiles.AdjustPostCount(txCtx, current.AuthorID, -1)
	})
	if txErr != nil {
		return fmt.Errorf("delete post: %w", txErr)
	}

	s.log.InfoContext(ctx, "post deleted",
		slog.String("post_id", postID.String()),
		slog.String("author_id", current.AuthorID.String()))
	return nil
}
