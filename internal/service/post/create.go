package post

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/microblog-backend/internal/domain"
	"github.com/heartmarshall/microblog-backend/pkg/ctxutil"
)

// CreateInput carries a new post's content and the ids of pre-uploaded
// media to attach.
type CreateInput struct {
	Content  string
	MediaIDs []uuid.UUID
}

// Create publishes a new post by the viewer. The post insert, the
// author's post_count increment, and all media attachments share one
// transaction.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.Post, error) {
	viewerID, ok := ctxutil.ProfileIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	content, err := domain.ValidatePostContent(input.Content)
	if err != nil {
		return nil, err
	}
	if len(input.MediaIDs) > domain.MaxMediaPerPost {
		return nil, domain.NewValidationError("media_ids", "too many attachments")
	}

	var created *domain.Post
	txErr := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		created, err = s.posts.Create(txCtx, &domain.Post{
			ID:       uuid.New(),
			AuthorID: viewerID,
			Content:  content,
		})
		if err != nil {
			return err
		}

		if err := s.profiles.AdjustPostCount(txCtx, viewerID, 1); err != nil {
			return err
		}

		for _, mediaID := range input.MediaIDs {
			if err := s.media.AttachToPost(txCtx, mediaID, created.ID, viewerID); err != nil {
				return fmt.Errorf("attach media %s: %w", mediaID, err)
			}
		}

		return nil
	})
	if txErr != nil {
		return nil, fmt.Errorf("create post: %w", txErr)
	}

	if err := s.hydrateMedia(ctx, []*domain.Post{created}); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "post created",
		slog.String("post_id", created.ID.String()),
		slog.String("author_id", viewerID.String()))
	return created, nil
}

// RegisterMedia records an uploaded file's opaque URI as an attachment
// owned by the viewer. Attachment to a post happens later, at Create.
func (s *Service) RegisterMedia(ctx context.Context, fileURI string) (*domain.MediaAttachment, error) {
	viewerID, ok := ctxutil.ProfileIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if fileURI == "" {
		return nil, domain.NewValidationError("file_uri", "required")
	}

	created, err := s.media.Create(ctx, &domain.MediaAttachment{
		ID:      uuid.New(),
		OwnerID: viewerID,
		FileURI: fileURI,
	})
	if err != nil {
		return nil, fmt.Errorf("register media: %w", err)
	}

	return created, nil
}
