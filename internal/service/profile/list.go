package profile

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/heartmarshall/microblog-backend/internal/domain"
	"github.com/heartmarshall/microblog-backend/internal/pagination"
)

// followOrderKey names the edge-recency ordering both follow listings
// use. Cursors minted here are rejected by listings with another key.
const followOrderKey = "followed_at"

// FindFollowers pages through the profiles following profileID, newest
// edge first.
func (s *Service) FindFollowers(ctx context.Context, profileID uuid.UUID, req pagination.Request) (*pagination.Page[*domain.ProfileFollow], error) {
	return s.listFollows(ctx, profileID, req, s.follows.ListFollowers)
}

// FindFollowing pages through the profiles profileID follows.
func (s *Service) FindFollowing(ctx context.Context, profileID uuid.UUID, req pagination.Request) (*pagination.Page[*domain.ProfileFollow], error) {
	return s.listFollows(ctx, profileID, req, s.follows.ListFollowing)
}

func (s *Service) listFollows(
	ctx context.Context,
	profileID uuid.UUID,
	req pagination.Request,
	list func(ctx context.Context, profileID uuid.UUID, after *pagination.Cursor, limit int) ([]*domain.ProfileFollow, error),
) (*pagination.Page[*domain.ProfileFollow], error) {
	// The listing is anchored to a real profile; a dangling id must be
	// 404, not an empty page.
	if _, err := s.profiles.GetByID(ctx, profileID); err != nil {
		return nil, fmt.Errorf("anchor profile: %w", err)
	}

	var after *pagination.Cursor
	if req.Cursor != nil {
		cursor, err := pagination.Decode(*req.Cursor, followOrderKey)
		if err != nil {
			return nil, err
		}
		after = &cursor
	}

	limit := s.limits.Clamp(req.Limit)

	// one extra row decides whether a next page exists
	entries, err := list(ctx, profileID, after, limit+1)
	if err != nil {
		return nil, fmt.Errorf("list follows: %w", err)
	}

	page := &pagination.Page[*domain.ProfileFollow]{Items: entries}
	if len(entries) > limit {
		page.Items = entries[:limit]
		last := page.Items[limit-1]
		next := pagination.Encode(followOrderKey, last.Edge.CreatedAt, last.Edge.ID)
		page.NextCursor = &next
	}

	return page, nil
}
