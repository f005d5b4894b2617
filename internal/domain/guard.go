package domain

import "github.com/google/uuid"

// Authorize decides whether actorID may mutate a resource owned by
// ownerID. Pure function, no I/O. Returns ErrForbidden when denied;
// callers must surface it, never downgrade it. Every mutating operation
// on a Profile, Post, or MediaAttachment goes through this check.
func Authorize(actorID, ownerID uuid.UUID) error {
	if actorID == uuid.Nil {
		return ErrUnauthorized
	}
	if actorID != ownerID {
		return ErrForbidden
	}
	return nil
}
