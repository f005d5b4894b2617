package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/heartmarshall/microblog-backend/internal/config"
	"github.com/heartmarshall/microblog-backend/internal/domain"
)

// profileRepo defines the profile repository interface needed by auth service.
type profileRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error)
	Create(ctx context.Context, profile *domain.Profile) (*domain.Profile, error)
}

// credentialRepo defines the credential repository interface needed by auth service.
type credentialRepo interface {
	Create(ctx context.Context, cred *domain.Credential) (*domain.Credential, error)
	GetByEmail(ctx context.Context, email string) (*domain.Credential, error)
}

// tokenRepo defines the refresh token repository interface needed by auth service.
type tokenRepo interface {
	Create(ctx context.Context, token *domain.RefreshToken) (*domain.RefreshToken, error)
	GetByHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error)
	RevokeByID(ctx context.Context, id uuid.UUID) error
	RevokeAllByProfile(ctx context.Context, profileID uuid.UUID) error
	DeleteExpired(ctx context.Context) (int, error)
}

// txManager defines the transaction manager interface needed by auth service.
type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// jwtManager defines the JWT token management interface needed by auth service.
type jwtManager interface {
	GenerateAccessToken(profileID uuid.UUID) (string, error)
	ValidateAccessToken(token string) (uuid.UUID, error)
	GenerateRefreshToken() (raw string, hash string, err error)
}

// Service implements auth operations.
type Service struct {
	log         *slog.Logger
	profiles    profileRepo
	credentials credentialRepo
	tokens      tokenRepo
	tx          txManager
	jwt         jwtManager
	cfg         config.AuthConfig
}

// NewService creates a new auth service instance.
func NewService(
	logger *slog.Logger,
	profiles profileRepo,
	credentials credentialRepo,
	tokens tokenRepo,
	tx txManager,
	jwt jwtManager,
	cfg config.AuthConfig,
) *Service {
	return &Service{
		log:         logger.With("service", "auth"),
		profiles:    profiles,
		credentials: credentials,
		tokens:      tokens,
		tx:          tx,
		jwt:         jwt,
		cfg:         cfg,
	}
}

// issueTokens generates access and refresh tokens for the given profile,
// stores the refresh token hash in DB, and returns an AuthResult.
func (s *Service) issueTokens(ctx context.Context, profile *domain.Profile) (*AuthResult, error) {
	accessToken, err := s.jwt.GenerateAccessToken(profile.ID)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	rawRefresh, hashRefresh, err := s.jwt.GenerateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	refreshToken := &domain.RefreshToken{
		ProfileID: profile.ID,
		TokenHash: hashRefresh,
		ExpiresAt: time.Now().Add(s.cfg.RefreshTokenTTL),
	}
	if _, err := s.tokens.Create(ctx, refreshToken); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &AuthResult{
		AccessToken:  accessToken,
		RefreshToken: rawRefresh,
		Profile:      profile,
	}, nil
}
