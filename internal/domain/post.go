package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxPostContentLength bounds post content after trimming.
const MaxPostContentLength = 500

// Post represents a single post authored by a profile.
type Post struct {
	ID        uuid.UUID
	AuthorID  uuid.UUID
	Content   string
	LikeCount int
	Media     []MediaAttachment
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PostView is a Post together with viewer-relative fields. Liked is nil
// for an anonymous viewer.
type PostView struct {
	Post
	Liked *bool
}

// ValidatePostContent trims the content and checks the engine's content
// rules. Returns the trimmed content or a ValidationError.
func ValidatePostContent(content string) (string, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "", NewValidationError("content", "required")
	}
	if len([]rune(trimmed)) > MaxPostContentLength {
		return "", NewValidationError("content", "too long")
	}
	return trimmed, nil
}
