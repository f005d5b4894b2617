package domain

import (
	"time"

	"github.com/google/uuid"
)

// Editable field bounds, enforced after trimming.
const (
	MaxDisplayNameLength = 50
	MaxBioLength         = 300
)

// Profile represents a public user profile.
type Profile struct {
	ID            uuid.UUID
	ScreenName    string
	DisplayName   string
	Bio           string
	AvatarMediaID *uuid.UUID
	HeaderMediaID *uuid.UUID
	Counters      ProfileCounters
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ProfileCounters holds the denormalized per-profile counts. They are
// maintained in the same transaction as the row mutation they mirror:
// Posts tracks posts authored, Followers and Following track follow edges.
type ProfileCounters struct {
	Posts     int
	Followers int
	Following int
}

// ProfileView is a Profile together with viewer-relative fields. The
// underlying Profile is never mutated by enrichment; Followed is nil for
// an anonymous viewer and for the profile owner viewing themselves.
type ProfileView struct {
	Profile
	Followed *bool
}
