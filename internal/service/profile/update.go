package profile

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/microblog-backend/internal/domain"
	"github.com/heartmarshall/microblog-backend/pkg/ctxutil"
)

// UpdateInput carries the editable profile fields. Nil means "leave
// unchanged". Screen name is deliberately absent: the public handle is
// immutable.
type UpdateInput struct {
	DisplayName *string
	Bio         *string
}

// Validate checks the provided fields against the domain bounds.
func (in UpdateInput) Validate() error {
	if in.DisplayName != nil && len([]rune(strings.TrimSpace(*in.DisplayName))) > domain.MaxDisplayNameLength {
		return domain.NewValidationError("display_name", "too long")
	}
	if in.Bio != nil && len([]rune(strings.TrimSpace(*in.Bio))) > domain.MaxBioLength {
		return domain.NewValidationError("bio", "too long")
	}
	return nil
}

// Update applies the allow-listed field changes to a profile. Only the
// profile owner may update it.
func (s *Service) Update(ctx context.Context, profileID uuid.UUID, input UpdateInput) (*domain.Profile, error) {
	viewerID, _ := ctxutil.ProfileIDFromCtx(ctx)
	if err := domain.Authorize(viewerID, profileID); err != nil {
		return nil, err
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	current, err := s.profiles.GetByID(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	displayName := current.DisplayName
	if input.DisplayName != nil {
		displayName = strings.TrimSpace(*input.DisplayName)
	}
	bio := current.Bio
	if input.Bio != nil {
		bio = strings.TrimSpace(*input.Bio)
	}

	updated, err := s.profiles.Update(ctx, profileID, displayName, bio)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	s.log.InfoContext(ctx, "profile updated", slog.String("profile_id", profileID.String()))
	return updated, nil
}
