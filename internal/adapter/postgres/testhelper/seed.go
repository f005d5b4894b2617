package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/microblog-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedProfile creates a profile with zero counters.
// Returns a filled domain.Profile.
func SeedProfile(t *testing.T, pool *pgxpool.Pool) domain.Profile {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	profile := domain.Profile{
		ID:          uuid.New(),
		ScreenName:  "user_" + suffix,
		DisplayName: "Test User " + suffix,
		Bio:         "bio " + suffix,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO profiles (id, screen_name, display_name, bio, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		profile.ID, profile.ScreenName, profile.DisplayName, profile.Bio, profile.CreatedAt, profile.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedProfile insert profile: %v", err)
	}

	return profile
}

// SeedPost creates a post authored by the given profile and increments the
// author's post_count, mirroring what the post repository does.
// createdAt lets tests control ordering; zero value means now.
func SeedPost(t *testing.T, pool *pgxpool.Pool, authorID uuid.UUID, content string, createdAt time.Time) domain.Post {
	t.Helper()
	ctx := context.Background()

	if createdAt.IsZero() {
		createdAt = time.Now().UTC().Truncate(time.Microsecond)
	}
	post := domain.Post{
		ID:        uuid.New(),
		AuthorID:  authorID,
		Content:   content,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO posts (id, author_id, content, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		post.ID, post.AuthorID, post.Content, post.CreatedAt, post.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedPost insert post: %v", err)
	}

	_, err = pool.Exec(ctx,
		`UPDATE profiles SET post_count = post_count + 1 WHERE id = $1`, authorID)
	if err != nil {
		t.Fatalf("testhelper: SeedPost bump post_count: %v", err)
	}

	return post
}

// SeedFollow creates a follow edge and updates both counters, mirroring
// what the follow repository does in one transaction.
func SeedFollow(t *testing.T, pool *pgxpool.Pool, followerID, followeeID uuid.UUID) domain.FollowEdge {
	t.Helper()
	ctx := context.Background()

	edge := domain.FollowEdge{
		ID:         uuid.New(),
		FollowerID: followerID,
		FolloweeID: followeeID,
		CreatedAt:  time.Now().UTC().Truncate(time.Microsecond),
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO follows (id, follower_id, followee_id, created_at)
		 VALUES ($1, $2, $3, $4)`,
		edge.ID, edge.FollowerID, edge.FolloweeID, edge.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedFollow insert edge: %v", err)
	}

	if _, err = pool.Exec(ctx,
		`UPDATE profiles SET follower_count = follower_count + 1 WHERE id = $1`, followeeID); err != nil {
		t.Fatalf("testhelper: SeedFollow bump follower_count: %v", err)
	}
	if _, err = pool.Exec(ctx,
		`UPDATE profiles SET following_count = following_count + 1 WHERE id = $1`, followerID); err != nil {
		t.Fatalf("testhelper: SeedFollow bump following_count: %v", err)
	}

	return edge
}

// SeedLike creates a like edge and bumps the post's like_count.
func SeedLike(t *testing.T, pool *pgxpool.Pool, profileID, postID uuid.UUID) {
	t.Helper()
	ctx := context.Background()

	_, err := pool.Exec(ctx,
		`INSERT INTO likes (profile_id, post_id, created_at) VALUES ($1, $2, $3)`,
		profileID, postID, time.Now().UTC().Truncate(time.Microsecond),
	)
	if err != nil {
		t.Fatalf("testhelper: SeedLike insert like: %v", err)
	}

	if _, err = pool.Exec(ctx,
		`UPDATE posts SET like_count = like_count + 1 WHERE id = $1`, postID); err != nil {
		t.Fatalf("testhelper: SeedLike bump like_count: %v", err)
	}
}

// SeedMedia creates an unattached media attachment owned by the given profile.
func SeedMedia(t *testing.T, pool *pgxpool.Pool, ownerID uuid.UUID) domain.MediaAttachment {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	media := domain.MediaAttachment{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		FileURI:   "media/" + suffix + ".jpg",
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO media_attachments (id, owner_id, file_uri, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		media.ID, media.OwnerID, media.FileURI, media.CreatedAt, media.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedMedia insert media: %v", err)
	}

	return media
}
