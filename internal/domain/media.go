package domain

import (
	"time"

	"github.com/google/uuid"
)

// MaxMediaPerPost bounds the number of attachments per post.
const MaxMediaPerPost = 4

// MediaAttachment is an uploaded media reference owned by a profile and
// optionally associated with at most one post. The engine stores only
// the opaque file URI handed over by the media subsystem; it never
// interprets file bytes. Deleting a post detaches its attachments
// (PostID set to nil), it does not delete them.
type MediaAttachment struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	PostID    *uuid.UUID
	FileURI   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsAttached reports whether the attachment is associated with a post.
func (m *MediaAttachment) IsAttached() bool {
	return m.PostID != nil
}
