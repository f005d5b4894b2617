package feed

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/microblog-backend/internal/domain"
	"github.com/heartmarshall/microblog-backend/internal/pagination"
	"github.com/heartmarshall/microblog-backend/pkg/ctxutil"
)

// ===========================================================================
// Manual mocks (moq-style with func fields)
// ===========================================================================

type mockFollowRepo struct {
	FolloweeIDsFunc func(ctx context.Context, followerID uuid.UUID) ([]uuid.UUID, error)
}

func (m *mockFollowRepo) FolloweeIDs(ctx context.Context, followerID uuid.UUID) ([]uuid.UUID, error) {
	if m.FolloweeIDsFunc != nil {
		return m.FolloweeIDsFunc(ctx, followerID)
	}
	return nil, nil
}

type mockPostLister struct {
	FindByAuthorsFunc func(ctx context.Context, authorIDs []uuid.UUID, req pagination.Request) (*pagination.Page[*domain.Post], error)

	calls int
}

func (m *mockPostLister) FindByAuthors(ctx context.Context, authorIDs []uuid.UUID, req pagination.Request) (*pagination.Page[*domain.Post], error) {
	m.calls++
	if m.FindByAuthorsFunc != nil {
		return m.FindByAuthorsFunc(ctx, authorIDs, req)
	}
	return &pagination.Page[*domain.Post]{Items: []*domain.Post{}}, nil
}

func newService(follows *mockFollowRepo, posts *mockPostLister) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewService(logger, follows, posts)
}

// ===========================================================================
// Home
// ===========================================================================

func TestHome_Anonymous(t *testing.T) {
	t.Parallel()

	svc := newService(&mockFollowRepo{}, &mockPostLister{})

	_, err := svc.Home(context.Background(), pagination.Request{})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestHome_NoFollowees(t *testing.T) {
	t.Parallel()

	posts := &mockPostLister{}
	svc := newService(&mockFollowRepo{}, posts)

	ctx := ctxutil.WithProfileID(context.Background(), uuid.New())
	page, err := svc.Home(ctx, pagination.Request{})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Nil(t, page.NextCursor)
	assert.Zero(t, posts.calls, "no author set means no listing query")
}

func TestHome_ListsFolloweePosts(t *testing.T) {
	t.Parallel()

	viewerID := uuid.New()
	followees := []uuid.UUID{uuid.New(), uuid.New()}

	follows := &mockFollowRepo{
		FolloweeIDsFunc: func(_ context.Context, followerID uuid.UUID) ([]uuid.UUID, error) {
			assert.Equal(t, viewerID, followerID)
			return followees, nil
		},
	}
	posts := &mockPostLister{
		FindByAuthorsFunc: func(_ context.Context, authorIDs []uuid.UUID, req pagination.Request) (*pagination.Page[*domain.Post], error) {
			assert.Equal(t, followees, authorIDs)
			assert.Equal(t, 5, req.Limit)
			return &pagination.Page[*domain.Post]{
				Items: []*domain.Post{{ID: uuid.New(), AuthorID: followees[0]}},
			}, nil
		},
	}
	svc := newService(follows, posts)

	ctx := ctxutil.WithProfileID(context.Background(), viewerID)
	page, err := svc.Home(ctx, pagination.Request{Limit: 5})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
}
