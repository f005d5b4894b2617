package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/heartmarshall/microblog-backend/internal/domain"
)

// Register creates a new profile with email + password credentials.
// Returns ErrAlreadyExists if the email or screen name is already taken.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	input.Email = domain.NormalizeEmail(input.Email)
	input.ScreenName = domain.NormalizeScreenName(input.ScreenName)

	if err := input.Validate(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("auth.Register hash password: %w", err)
	}

	// Profile and credential are created together. Email and screen name
	// uniqueness are enforced by DB constraints.
	var createdProfile *domain.Profile

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		now := time.Now()
		newProfile := &domain.Profile{
			ID:          uuid.New(),
			ScreenName:  input.ScreenName,
			DisplayName: input.ScreenName,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		profile, err := s.profiles.Create(txCtx, newProfile)
		if err != nil {
			return fmt.Errorf("create profile: %w", err)
		}

		cred := &domain.Credential{
			ProfileID:    profile.ID,
			Email:        input.Email,
			PasswordHash: string(hash),
		}
		if _, err := s.credentials.Create(txCtx, cred); err != nil {
			return fmt.Errorf("create credential: %w", err)
		}

		createdProfile = profile
		return nil
	})

	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, fmt.Errorf("auth.Register: %w", domain.ErrAlreadyExists)
		}
		return nil, fmt.Errorf("auth.Register: %w", err)
	}

	result, err := s.issueTokens(ctx, createdProfile)
	if err != nil {
		return nil, fmt.Errorf("auth.Register issue tokens: %w", err)
	}

	s.log.InfoContext(ctx, "profile registered",
		slog.String("profile_id", createdProfile.ID.String()))

	return result, nil
}
