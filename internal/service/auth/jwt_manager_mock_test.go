package auth

import (
	"github.com/google/uuid"

	"github.com/heartmarshall/microblog-backend/internal/auth"
)

// mockJWTManager is a func-field mock for the jwtManager interface.
type mockJWTManager struct {
	GenerateAccessTokenFunc  func(profileID uuid.UUID) (string, error)
	ValidateAccessTokenFunc  func(token string) (uuid.UUID, error)
	GenerateRefreshTokenFunc func() (string, string, error)
}

func (m *mockJWTManager) GenerateAccessToken(profileID uuid.UUID) (string, error) {
	if m.GenerateAccessTokenFunc != nil {
		return m.GenerateAccessTokenFunc(profileID)
	}
	return "access-" + profileID.String(), nil
}

func (m *mockJWTManager) ValidateAccessToken(token string) (uuid.UUID, error) {
	if m.ValidateAccessTokenFunc != nil {
		return m.ValidateAccessTokenFunc(token)
	}
	return uuid.Nil, nil
}

func (m *mockJWTManager) GenerateRefreshToken() (string, string, error) {
	if m.GenerateRefreshTokenFunc != nil {
		return m.GenerateRefreshTokenFunc()
	}
	raw := uuid.NewString()
	return raw, auth.HashToken(raw), nil
}
