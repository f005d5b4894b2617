package domain

import (
	"time"

	"github.com/google/uuid"
)

// FollowEdge is a directed follow relationship between two profiles.
// At most one edge exists per (FollowerID, FolloweeID) pair, and
// FollowerID never equals FolloweeID. Direction matters: an edge A→B
// implies nothing about B→A.
type FollowEdge struct {
	ID         uuid.UUID
	FollowerID uuid.UUID
	FolloweeID uuid.UUID
	CreatedAt  time.Time
}

// ProfileFollow pairs a profile with the follow edge that put it into a
// follower/following listing. Listings order by edge recency, so the
// edge carries the pagination position, not the profile.
type ProfileFollow struct {
	Profile Profile
	Edge    FollowEdge
}
