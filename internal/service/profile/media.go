package profile

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/microblog-backend/internal/domain"
	"github.com/heartmarshall/microblog-backend/pkg/ctxutil"
)

// SetAvatar points the profile's avatar at a previously registered
// media attachment. Only the profile owner may change it, and only to
// media they uploaded themselves.
func (s *Service) SetAvatar(ctx context.Context, profileID, mediaID uuid.UUID) (*domain.Profile, error) {
	return s.setMediaRef(ctx, profileID, mediaID, s.profiles.UpdateAvatar)
}

// ClearAvatar removes the avatar reference. The attachment itself is
// not deleted.
func (s *Service) ClearAvatar(ctx context.Context, profileID uuid.UUID) (*domain.Profile, error) {
	return s.clearMediaRef(ctx, profileID, s.profiles.UpdateAvatar)
}

// SetHeader points the profile's header image at a previously
// registered media attachment, same rules as SetAvatar.
func (s *Service) SetHeader(ctx context.Context, profileID, mediaID uuid.UUID) (*domain.Profile, error) {
	return s.setMediaRef(ctx, profileID, mediaID, s.profiles.UpdateHeader)
}

// ClearHeader removes the header reference.
func (s *Service) ClearHeader(ctx context.Context, profileID uuid.UUID) (*domain.Profile, error) {
	return s.clearMediaRef(ctx, profileID, s.profiles.UpdateHeader)
}

func (s *Service) setMediaRef(
	ctx context.Context,
	profileID, mediaID uuid.UUID,
	update func(ctx context.Context, id uuid.UUID, mediaID *uuid.UUID) (*domain.Profile, error),
) (*domain.Profile, error) {
	viewerID, _ := ctxutil.ProfileIDFromCtx(ctx)
	if err := domain.Authorize(viewerID, profileID); err != nil {
		return nil, err
	}

	attachment, err := s.media.GetByID(ctx, mediaID)
	if err != nil {
		return nil, fmt.Errorf("load media: %w", err)
	}
	// Foreign uploads look missing, same as the attach path.
	if attachment.OwnerID != viewerID {
		return nil, fmt.Errorf("media %s: %w", mediaID, domain.ErrNotFound)
	}

	updated, err := update(ctx, profileID, &mediaID)
	if err != nil {
		return nil, fmt.Errorf("set profile media: %w", err)
	}

	s.log.InfoContext(ctx, "profile media set",
		slog.String("profile_id", profileID.String()),
		slog.String("media_id", mediaID.String()))
	return updated, nil
}

func (s *Service) clearMediaRef(
	ctx context.Context,
	profileID uuid.UUID,
	update func(ctx context.Context, id uuid.UUID, mediaID *uuid.UUID) (*domain.Profile, error),
) (*domain.Profile, error) {
	viewerID, _ := ctxutil.ProfileIDFromCtx(ctx)
	if err := domain.Authorize(viewerID, profileID); err != nil {
		return nil, err
	}

	updated, err := update(ctx, profileID, nil)
	if err != nil {
		return nil, fmt.Errorf("clear profile media: %w", err)
	}

	return updated, nil
}
