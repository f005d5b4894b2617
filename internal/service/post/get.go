package post

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/heartmarshall/microblog-backend/internal/domain"
	"github.com/heartmarshall/microblog-backend/internal/pagination"
)

// postOrderKey names the reverse-chronological post ordering shared by
// the author timeline and the home feed.
const postOrderKey = "posted_at"

// GetByID returns a post with its media hydrated. Readable by anyone.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}

	if err := s.hydrateMedia(ctx, []*domain.Post{post}); err != nil {
		return nil, err
	}

	return post, nil
}

// FindByProfile pages through a profile's posts, newest first.
func (s *Service) FindByProfile(ctx context.Context, profileID uuid.UUID, req pagination.Request) (*pagination.Page[*domain.Post], error) {
	if _, err := s.profiles.GetByID(ctx, profileID); err != nil {
		return nil, fmt.Errorf("author profile: %w", err)
	}

	return s.listByAuthors(ctx, []uuid.UUID{profileID}, req)
}

// FindByAuthors pages through posts from a set of authors in one merged
// reverse-chronological listing. The home feed resolves the viewer's
// followee set and calls this.
func (s *Service) FindByAuthors(ctx context.Context, authorIDs []uuid.UUID, req pagination.Request) (*pagination.Page[*domain.Post], error) {
	return s.listByAuthors(ctx, authorIDs, req)
}

// listByAuthors runs the shared keyset listing over an author set.
func (s *Service) listByAuthors(ctx context.Context, authorIDs []uuid.UUID, req pagination.Request) (*pagination.Page[*domain.Post], error) {
	var after *pagination.Cursor
	if req.Cursor != nil {
		cursor, err := pagination.Decode(*req.Cursor, postOrderKey)
		if err != nil {
			return nil, err
		}
		after = &cursor
	}

	limit := s.limits.Clamp(req.Limit)

	posts, err := s.posts.FindByAuthors(ctx, authorIDs, after, limit+1)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	page := &pagination.Page[*domain.Post]{Items: posts}
	if len(posts) > limit {
		page.Items = posts[:limit]
		last := page.Items[limit-1]
		next := pagination.Encode(postOrderKey, last.CreatedAt, last.ID)
		page.NextCursor = &next
	}

	if err := s.hydrateMedia(ctx, page.Items); err != nil {
		return nil, err
	}

	return page, nil
}
