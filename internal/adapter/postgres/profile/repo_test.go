package profile_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/microblog-backend/internal/adapter/postgres/profile"
	"github.com/heartmarshall/microblog-backend/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/microblog-backend/internal/domain"
)

// newRepo is a test helper that sets up the DB and returns a ready Repo.
func newRepo(t *testing.T) (*profile.Repo, *pgxpool.Pool) {
	t.Helper()
	pool := testhelper.SetupTestDB(t)
	return profile.New(pool), pool
}

// ---------------------------------------------------------------------------
// Create / lookups
// ---------------------------------------------------------------------------

func TestRepo_Create_HappyPath(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	screenName := "fresh_" + uuid.New().String()[:8]
	created, err := repo.Create(ctx, &domain.Profile{
		ID:          uuid.New(),
		ScreenName:  screenName,
		DisplayName: "Fresh User",
	})
	if err != nil {
		t.Fatalf("Create: unexpected error: %v", err)
	}

	if created.ScreenName != screenName {
		t.Errorf("ScreenName: got %q, want %q", created.ScreenName, screenName)
	}
	if created.Counters != (domain.ProfileCounters{}) {
		t.Errorf("Counters should start at zero, got %+v", created.Counters)
	}
	if created.AvatarMediaID != nil || created.HeaderMediaID != nil {
		t.Error("media references should start nil")
	}
}

func TestRepo_Create_ScreenNameTaken(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	existing := testhelper.SeedProfile(t, pool)

	_, err := repo.Create(ctx, &domain.Profile{
		ID:         uuid.New(),
		ScreenName: existing.ScreenName,
	})
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("taken screen name: expected ErrAlreadyExists, got %v", err)
	}
}

func TestRepo_GetByScreenName(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	seeded := testhelper.SeedProfile(t, pool)

	got, err := repo.GetByScreenName(ctx, seeded.ScreenName)
	if err != nil {
		t.Fatalf("GetByScreenName: unexpected error: %v", err)
	}
	if got.ID != seeded.ID {
		t.Errorf("ID mismatch: got %s, want %s", got.ID, seeded.ID)
	}

	_, err = repo.GetByScreenName(ctx, "no_such_name_"+uuid.New().String()[:8])
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("missing name: expected ErrNotFound, got %v", err)
	}
}

func TestRepo_GetByIDs(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	first := testhelper.SeedProfile(t, pool)
	second := testhelper.SeedProfile(t, pool)

	got, err := repo.GetByIDs(ctx, []uuid.UUID{first.ID, second.ID, uuid.New()})
	if err != nil {
		t.Fatalf("GetByIDs: unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("GetByIDs: got %d profiles, want 2", len(got))
	}
}

// ---------------------------------------------------------------------------
// Updates
// ---------------------------------------------------------------------------

func TestRepo_Update(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	seeded := testhelper.SeedProfile(t, pool)

	updated, err := repo.Update(ctx, seeded.ID, "New Name", "new bio")
	if err != nil {
		t.Fatalf("Update: unexpected error: %v", err)
	}
	if updated.DisplayName != "New Name" || updated.Bio != "new bio" {
		t.Errorf("Update: got (%q, %q)", updated.DisplayName, updated.Bio)
	}
	// Screen name is not editable here.
	if updated.ScreenName != seeded.ScreenName {
		t.Errorf("ScreenName changed: got %q, want %q", updated.ScreenName, seeded.ScreenName)
	}
}

func TestRepo_UpdateAvatar_SetAndClear(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	seeded := testhelper.SeedProfile(t, pool)
	media := testhelper.SeedMedia(t, pool, seeded.ID)

	updated, err := repo.UpdateAvatar(ctx, seeded.ID, &media.ID)
	if err != nil {
		t.Fatalf("UpdateAvatar: unexpected error: %v", err)
	}
	if updated.AvatarMediaID == nil || *updated.AvatarMediaID != media.ID {
		t.Errorf("AvatarMediaID: got %v, want %s", updated.AvatarMediaID, media.ID)
	}

	cleared, err := repo.UpdateAvatar(ctx, seeded.ID, nil)
	if err != nil {
		t.Fatalf("UpdateAvatar (clear): unexpected error: %v", err)
	}
	if cleared.AvatarMediaID != nil {
		t.Errorf("AvatarMediaID should be nil, got %v", cleared.AvatarMediaID)
	}
}

// ---------------------------------------------------------------------------
// Counters
// ---------------------------------------------------------------------------

func TestRepo_AdjustPostCount(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	seeded := testhelper.SeedProfile(t, pool)

	if err := repo.AdjustPostCount(ctx, seeded.ID, 1); err != nil {
		t.Fatalf("AdjustPostCount(+1): unexpected error: %v", err)
	}

	got, err := repo.GetByID(ctx, seeded.ID)
	if err != nil {
		t.Fatalf("GetByID: unexpected error: %v", err)
	}
	if got.Counters.Posts != 1 {
		t.Errorf("Posts counter: got %d, want 1", got.Counters.Posts)
	}

	// Counters never go negative; the CHECK surfaces drift.
	err = repo.AdjustPostCount(ctx, seeded.ID, -2)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("negative counter: expected ErrValidation, got %v", err)
	}
}

func TestRepo_AdjustFollowCounts(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	follower := testhelper.SeedProfile(t, pool)
	followee := testhelper.SeedProfile(t, pool)

	if err := repo.AdjustFollowCounts(ctx, follower.ID, followee.ID, 1); err != nil {
		t.Fatalf("AdjustFollowCounts(+1): unexpected error: %v", err)
	}

	gotFollower, err := repo.GetByID(ctx, follower.ID)
	if err != nil {
		t.Fatalf("GetByID follower: %v", err)
	}
	gotFollowee, err := repo.GetByID(ctx, followee.ID)
	if err != nil {
		t.Fatalf("GetByID followee: %v", err)
	}

	if gotFollower.Counters.Following != 1 || gotFollower.Counters.Followers != 0 {
		t.Errorf("follower counters: %+v", gotFollower.Counters)
	}
	if gotFollowee.Counters.Followers != 1 || gotFollowee.Counters.Following != 0 {
		t.Errorf("followee counters: %+v", gotFollowee.Counters)
	}

	if err := repo.AdjustFollowCounts(ctx, follower.ID, followee.ID, -1); err != nil {
		t.Fatalf("AdjustFollowCounts(-1): unexpected error: %v", err)
	}

	gotFollowee, err = repo.GetByID(ctx, followee.ID)
	if err != nil {
		t.Fatalf("GetByID followee: %v", err)
	}
	if gotFollowee.Counters.Followers != 0 {
		t.Errorf("followee Followers after undo: got %d, want 0", gotFollowee.Counters.Followers)
	}
}

func TestRepo_CounterDrift(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	consistent := testhelper.SeedProfile(t, pool)
	drifted := testhelper.SeedProfile(t, pool)

	// A counter bump with no matching post row is exactly the drift the
	// check exists to catch.
	if err := repo.AdjustPostCount(ctx, drifted.ID, 1); err != nil {
		t.Fatalf("AdjustPostCount: unexpected error: %v", err)
	}

	ids, err := repo.CounterDrift(ctx)
	if err != nil {
		t.Fatalf("CounterDrift: unexpected error: %v", err)
	}

	found := map[uuid.UUID]bool{}
	for _, id := range ids {
		found[id] = true
	}
	if !found[drifted.ID] {
		t.Errorf("drifted profile %s should be reported", drifted.ID)
	}
	if found[consistent.ID] {
		t.Errorf("consistent profile %s should not be reported", consistent.ID)
	}
}

func TestRepo_AdjustFollowCounts_UnknownProfile(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	follower := testhelper.SeedProfile(t, pool)

	err := repo.AdjustFollowCounts(ctx, follower.ID, uuid.New(), 1)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
