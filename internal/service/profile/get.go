package profile

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/heartmarshall/microblog-backend/internal/domain"
)

// GetByID returns a profile by id. Readable by anyone, including
// anonymous viewers.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	profile, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return profile, nil
}

// GetByScreenName returns a profile by its screen name, normalized
// before lookup so the public handle is case-insensitive.
func (s *Service) GetByScreenName(ctx context.Context, screenName string) (*domain.Profile, error) {
	normalized := domain.NormalizeScreenName(screenName)
	if err := domain.ValidateScreenName(normalized); err != nil {
		return nil, err
	}

	profile, err := s.profiles.GetByScreenName(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("get profile by screen name: %w", err)
	}
	return profile, nil
}
