package domain

import (
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MinPasswordLength bounds the plaintext password before hashing.
const MinPasswordLength = 8

// Credential holds the email/password login data for a profile. Exactly
// one credential row exists per registered profile; the password is
// stored only as a bcrypt hash.
type Credential struct {
	ProfileID    uuid.UUID
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RefreshToken represents a long-lived refresh token stored as a hash.
// A token is usable only while RevokedAt is nil and ExpiresAt is in the
// future.
type RefreshToken struct {
	ID        uuid.UUID
	ProfileID uuid.UUID
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
	RevokedAt *time.Time
}

// IsActive reports whether the token is neither revoked nor expired.
func (t *RefreshToken) IsActive(now time.Time) bool {
	return t.RevokedAt == nil && now.Before(t.ExpiresAt)
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks that the address parses per RFC 5322.
func ValidateEmail(email string) error {
	if email == "" {
		return NewValidationError("email", "required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return NewValidationError("email", "invalid format")
	}
	return nil
}

// ValidatePassword checks the plaintext password against the engine's
// minimal policy. Hashing happens in the auth service.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return NewValidationError("password", "too short")
	}
	return nil
}
