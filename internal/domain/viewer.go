package domain

import "github.com/google/uuid"

// Viewer identifies who is looking at a resource. It is transient
// request state, never persisted. The zero value is the anonymous viewer.
type Viewer struct {
	ProfileID uuid.UUID
}

// Anonymous returns the anonymous viewer.
func Anonymous() Viewer {
	return Viewer{}
}

// NewViewer returns a viewer for the given profile.
func NewViewer(profileID uuid.UUID) Viewer {
	return Viewer{ProfileID: profileID}
}

// IsAnonymous reports whether the viewer is unauthenticated.
func (v Viewer) IsAnonymous() bool {
	return v.ProfileID == uuid.Nil
}

// Is reports whether the viewer is the given profile.
func (v Viewer) Is(profileID uuid.UUID) bool {
	return !v.IsAnonymous() && v.ProfileID == profileID
}
