package enrich

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/microblog-backend/internal/domain"
	"github.com/heartmarshall/microblog-backend/pkg/ctxutil"
)

// ===========================================================================
// Manual mocks (moq-style with func fields)
// ===========================================================================

type mockFollowRepo struct {
	ExistsFunc      func(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error)
	FollowedSetFunc func(ctx context.Context, followerID uuid.UUID, followeeIDs []uuid.UUID) (map[uuid.UUID]bool, error)

	existsCalls      int
	followedSetCalls int
}

func (m *mockFollowRepo) Exists(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error) {
	m.existsCalls++
	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx, followerID, followeeID)
	}
	return false, nil
}

func (m *mockFollowRepo) FollowedSet(ctx context.Context, followerID uuid.UUID, followeeIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	m.followedSetCalls++
	if m.FollowedSetFunc != nil {
		return m.FollowedSetFunc(ctx, followerID, followeeIDs)
	}
	return map[uuid.UUID]bool{}, nil
}

type mockLikeRepo struct {
	LikedSetFunc func(ctx context.Context, profileID uuid.UUID, postIDs []uuid.UUID) (map[uuid.UUID]bool, error)

	likedSetCalls int
}

func (m *mockLikeRepo) LikedSet(ctx context.Context, profileID uuid.UUID, postIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	m.likedSetCalls++
	if m.LikedSetFunc != nil {
		return m.LikedSetFunc(ctx, profileID, postIDs)
	}
	return map[uuid.UUID]bool{}, nil
}

// ===========================================================================
// Test helpers
// ===========================================================================

func newService(follows *mockFollowRepo, likes *mockLikeRepo) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewService(logger, follows, likes)
}

func viewerCtx(id uuid.UUID) context.Context {
	return ctxutil.WithProfileID(context.Background(), id)
}

// ===========================================================================
// PopulateProfile
// ===========================================================================

func TestPopulateProfile_Anonymous(t *testing.T) {
	t.Parallel()

	follows := &mockFollowRepo{}
	svc := newService(follows, &mockLikeRepo{})

	view, err := svc.PopulateProfile(context.Background(), &domain.Profile{ID: uuid.New()})
	require.NoError(t, err)
	assert.Nil(t, view.Followed)
	assert.Zero(t, follows.existsCalls, "anonymous viewers cost no lookups")
}

func TestPopulateProfile_Self(t *testing.T) {
	t.Parallel()

	viewerID := uuid.New()
	follows := &mockFollowRepo{}
	svc := newService(follows, &mockLikeRepo{})

	view, err := svc.PopulateProfile(viewerCtx(viewerID), &domain.Profile{ID: viewerID})
	require.NoError(t, err)
	assert.Nil(t, view.Followed, "own profile carries no followed flag")
	assert.Zero(t, follows.existsCalls)
}

func TestPopulateProfile_Followed(t *testing.T) {
	t.Parallel()

	viewerID := uuid.New()
	targetID := uuid.New()
	follows := &mockFollowRepo{
		ExistsFunc: func(_ context.Context, followerID, followeeID uuid.UUID) (bool, error) {
			assert.Equal(t, viewerID, followerID)
			assert.Equal(t, targetID, followeeID)
			return true, nil
		},
	}
	svc := newService(follows, &mockLikeRepo{})

	target := &domain.Profile{ID: targetID, ScreenName: "target"}
	view, err := svc.PopulateProfile(viewerCtx(viewerID), target)
	require.NoError(t, err)
	require.NotNil(t, view.Followed)
	assert.True(t, *view.Followed)

	// source entity untouched
	assert.Equal(t, "target", target.ScreenName)
}

// ===========================================================================
// PopulateProfiles
// ===========================================================================

func TestPopulateProfiles_OneBatchedQuery(t *testing.T) {
	t.Parallel()

	viewerID := uuid.New()
	followedID := uuid.New()
	profiles := []*domain.Profile{
		{ID: followedID},
		{ID: uuid.New()},
		{ID: uuid.New()},
		{ID: viewerID}, // the viewer themselves mid-slice
	}

	follows := &mockFollowRepo{
		FollowedSetFunc: func(_ context.Context, _ uuid.UUID, followeeIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
			assert.Len(t, followeeIDs, 3, "viewer excluded from the batch")
			return map[uuid.UUID]bool{followedID: true}, nil
		},
	}
	svc := newService(follows, &mockLikeRepo{})

	views, err := svc.PopulateProfiles(viewerCtx(viewerID), profiles)
	require.NoError(t, err)
	require.Len(t, views, 4)

	assert.Equal(t, 1, follows.followedSetCalls, "one query for the whole slice")
	assert.Zero(t, follows.existsCalls)

	require.NotNil(t, views[0].Followed)
	assert.True(t, *views[0].Followed)
	require.NotNil(t, views[1].Followed)
	assert.False(t, *views[1].Followed)
	assert.Nil(t, views[3].Followed, "no flag on the viewer's own profile")
}

func TestPopulateProfiles_Anonymous(t *testing.T) {
	t.Parallel()

	follows := &mockFollowRepo{}
	svc := newService(follows, &mockLikeRepo{})

	views, err := svc.PopulateProfiles(context.Background(), []*domain.Profile{
		{ID: uuid.New()}, {ID: uuid.New()},
	})
	require.NoError(t, err)
	require.Len(t, views, 2)
	for _, v := range views {
		assert.Nil(t, v.Followed)
	}
	assert.Zero(t, follows.followedSetCalls)
}

func TestPopulateProfiles_EmptySlice(t *testing.T) {
	t.Parallel()

	follows := &mockFollowRepo{}
	svc := newService(follows, &mockLikeRepo{})

	views, err := svc.PopulateProfiles(viewerCtx(uuid.New()), nil)
	require.NoError(t, err)
	assert.Empty(t, views)
	assert.Zero(t, follows.followedSetCalls)
}

// ===========================================================================
// PopulatePosts
// ===========================================================================

func TestPopulatePosts_OneBatchedQuery(t *testing.T) {
	t.Parallel()

	viewerID := uuid.New()
	likedID := uuid.New()
	posts := []*domain.Post{
		{ID: likedID},
		{ID: uuid.New()},
		{ID: uuid.New()},
	}

	likes := &mockLikeRepo{
		LikedSetFunc: func(_ context.Context, profileID uuid.UUID, postIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
			assert.Equal(t, viewerID, profileID)
			assert.Len(t, postIDs, 3)
			return map[uuid.UUID]bool{likedID: true}, nil
		},
	}
	svc := newService(&mockFollowRepo{}, likes)

	views, err := svc.PopulatePosts(viewerCtx(viewerID), posts)
	require.NoError(t, err)
	require.Len(t, views, 3)

	assert.Equal(t, 1, likes.likedSetCalls, "one query for the whole slice")

	require.NotNil(t, views[0].Liked)
	assert.True(t, *views[0].Liked)
	require.NotNil(t, views[1].Liked)
	assert.False(t, *views[1].Liked)
}

func TestPopulatePosts_Anonymous(t *testing.T) {
	t.Parallel()

	likes := &mockLikeRepo{}
	svc := newService(&mockFollowRepo{}, likes)

	views, err := svc.PopulatePosts(context.Background(), []*domain.Post{{ID: uuid.New()}})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Nil(t, views[0].Liked)
	assert.Zero(t, likes.likedSetCalls)
}
