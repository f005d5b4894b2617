package dataloader_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/microblog-backend/internal/domain"
	dl "github.com/heartmarshall/microblog-backend/internal/transport/dataloader"
)

// ---------------------------------------------------------------------------
// Mock repos
// ---------------------------------------------------------------------------

type mockProfileRepo struct {
	result []*domain.Profile
	err    error
	calls  atomic.Int32
}

func (m *mockProfileRepo) GetByIDs(_ context.Context, _ []uuid.UUID) ([]*domain.Profile, error) {
	m.calls.Add(1)
	return m.result, m.err
}

type mockMediaRepo struct {
	result []*domain.MediaAttachment
	err    error
}

func (m *mockMediaRepo) GetByPostIDs(_ context.Context, _ []uuid.UUID) ([]*domain.MediaAttachment, error) {
	return m.result, m.err
}

func newRepos(profiles *mockProfileRepo, media *mockMediaRepo) *dl.Repos {
	if profiles == nil {
		profiles = &mockProfileRepo{}
	}
	if media == nil {
		media = &mockMediaRepo{}
	}
	return &dl.Repos{Profile: profiles, Media: media}
}

// ---------------------------------------------------------------------------
// ProfileByID
// ---------------------------------------------------------------------------

func TestProfileByID_BatchesIntoSingleCall(t *testing.T) {
	t.Parallel()

	p1 := &domain.Profile{ID: uuid.New(), ScreenName: "alice"}
	p2 := &domain.Profile{ID: uuid.New(), ScreenName: "bob"}
	profiles := &mockProfileRepo{result: []*domain.Profile{p1, p2}}

	loaders := dl.NewLoaders(newRepos(profiles, nil))
	ctx := context.Background()

	thunk1 := loaders.ProfileByID.Load(ctx, p1.ID)
	thunk2 := loaders.ProfileByID.Load(ctx, p2.ID)

	got1, err := thunk1()
	require.NoError(t, err)
	got2, err := thunk2()
	require.NoError(t, err)

	assert.Equal(t, "alice", got1.ScreenName)
	assert.Equal(t, "bob", got2.ScreenName)
	assert.Equal(t, int32(1), profiles.calls.Load(), "both loads must share one repo call")
}

func TestProfileByID_MissingKey(t *testing.T) {
	t.Parallel()

	known := &domain.Profile{ID: uuid.New()}
	profiles := &mockProfileRepo{result: []*domain.Profile{known}}

	loaders := dl.NewLoaders(newRepos(profiles, nil))
	ctx := context.Background()

	thunkKnown := loaders.ProfileByID.Load(ctx, known.ID)
	thunkMissing := loaders.ProfileByID.Load(ctx, uuid.New())

	_, err := thunkKnown()
	require.NoError(t, err)

	_, err = thunkMissing()
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProfileByID_RepoError(t *testing.T) {
	t.Parallel()

	profiles := &mockProfileRepo{err: assert.AnError}
	loaders := dl.NewLoaders(newRepos(profiles, nil))

	_, err := loaders.ProfileByID.Load(context.Background(), uuid.New())()
	assert.ErrorIs(t, err, assert.AnError)
}

// ---------------------------------------------------------------------------
// MediaByPostID
// ---------------------------------------------------------------------------

func TestMediaByPostID_GroupsByPost(t *testing.T) {
	t.Parallel()

	postA := uuid.New()
	postB := uuid.New()
	media := &mockMediaRepo{result: []*domain.MediaAttachment{
		{ID: uuid.New(), PostID: &postA},
		{ID: uuid.New(), PostID: &postA},
		{ID: uuid.New(), PostID: &postB},
	}}

	loaders := dl.NewLoaders(newRepos(nil, media))
	ctx := context.Background()

	thunkA := loaders.MediaByPostID.Load(ctx, postA)
	thunkB := loaders.MediaByPostID.Load(ctx, postB)
	thunkEmpty := loaders.MediaByPostID.Load(ctx, uuid.New())

	gotA, err := thunkA()
	require.NoError(t, err)
	assert.Len(t, gotA, 2)

	gotB, err := thunkB()
	require.NoError(t, err)
	assert.Len(t, gotB, 1)

	gotEmpty, err := thunkEmpty()
	require.NoError(t, err)
	assert.NotNil(t, gotEmpty)
	assert.Empty(t, gotEmpty, "posts without attachments resolve to an empty slice")
}

// ---------------------------------------------------------------------------
// Middleware
// ---------------------------------------------------------------------------

func TestMiddleware_InjectsLoaders(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		loaders := dl.FromContext(r.Context())
		assert.NotNil(t, loaders.ProfileByID)
		assert.NotNil(t, loaders.MediaByPostID)
		w.WriteHeader(http.StatusOK)
	})

	wrapped := dl.Middleware(newRepos(nil, nil))(handler)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestFromContext_PanicsWithoutMiddleware(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		dl.FromContext(context.Background())
	})
}
