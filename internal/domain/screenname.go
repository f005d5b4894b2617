package domain

import "strings"

const (
	minScreenNameLength = 3
	maxScreenNameLength = 30
)

// NormalizeScreenName prepares a screen name for storage and lookup:
// trims whitespace and converts to lowercase. Screen names are matched
// case-insensitively everywhere.
func NormalizeScreenName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// ValidateScreenName checks the screen name rules: 3–30 characters,
// lowercase latin letters, digits, and underscore, after normalization.
func ValidateScreenName(name string) error {
	name = NormalizeScreenName(name)
	if len(name) < minScreenNameLength {
		return NewValidationError("screenName", "too short (min 3)")
	}
	if len(name) > maxScreenNameLength {
		return NewValidationError("screenName", "too long (max 30)")
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == '_':
		default:
			return NewValidationError("screenName", "allowed characters: a-z, 0-9, _")
		}
	}
	return nil
}
