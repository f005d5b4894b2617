// Package enrich decorates profiles and posts with viewer-relative
// fields (followed, liked). Entities are never mutated; callers get
// view copies. The per-slice operations issue exactly one batched
// lookup regardless of slice size.
package enrich

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/microblog-backend/internal/domain"
	"github.com/heartmarshall/microblog-backend/pkg/ctxutil"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type followRepo interface {
	Exists(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error)
	FollowedSet(ctx context.Context, followerID uuid.UUID, followeeIDs []uuid.UUID) (map[uuid.UUID]bool, error)
}

type likeRepo interface {
	LikedSet(ctx context.Context, profileID uuid.UUID, postIDs []uuid.UUID) (map[uuid.UUID]bool, error)
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements viewer enrichment.
type Service struct {
	log     *slog.Logger
	follows followRepo
	likes   likeRepo
}

// NewService creates a new Enrich service.
func NewService(logger *slog.Logger, follows followRepo, likes likeRepo) *Service {
	return &Service{
		log:     logger.With("service", "enrich"),
		follows: follows,
		likes:   likes,
	}
}

// viewerFromCtx resolves the request's viewer identity. A missing
// profile id means the anonymous viewer.
func viewerFromCtx(ctx context.Context) domain.Viewer {
	if id, ok := ctxutil.ProfileIDFromCtx(ctx); ok {
		return domain.NewViewer(id)
	}
	return domain.Anonymous()
}

// ---------------------------------------------------------------------------
// Profiles
// ---------------------------------------------------------------------------

// PopulateProfile returns a view of one profile. Followed stays unset
// for an anonymous viewer and for the owner viewing themselves;
// otherwise it costs one Exists lookup.
func (s *Service) PopulateProfile(ctx context.Context, profile *domain.Profile) (domain.ProfileView, error) {
	view := domain.ProfileView{Profile: *profile}

	viewer := viewerFromCtx(ctx)
	if viewer.IsAnonymous() || viewer.Is(profile.ID) {
		return view, nil
	}

	followed, err := s.follows.Exists(ctx, viewer.ProfileID, profile.ID)
	if err != nil {
		return domain.ProfileView{}, fmt.Errorf("followed flag: %w", err)
	}

	view.Followed = &followed
	return view, nil
}

// PopulateProfiles returns views of a profile slice using a single
// batched followed lookup.
func (s *Service) PopulateProfiles(ctx context.Context, profiles []*domain.Profile) ([]domain.ProfileView, error) {
	views := make([]domain.ProfileView, len(profiles))
	for i, p := range profiles {
		views[i] = domain.ProfileView{Profile: *p}
	}

	viewer := viewerFromCtx(ctx)
	if viewer.IsAnonymous() || len(profiles) == 0 {
		return views, nil
	}

	ids := make([]uuid.UUID, 0, len(profiles))
	for _, p := range profiles {
		if !viewer.Is(p.ID) {
			ids = append(ids, p.ID)
		}
	}

	followedSet, err := s.follows.FollowedSet(ctx, viewer.ProfileID, ids)
	if err != nil {
		return nil, fmt.Errorf("followed set: %w", err)
	}

	for i := range views {
		if viewer.Is(views[i].ID) {
			continue
		}
		followed := followedSet[views[i].ID]
		views[i].Followed = &followed
	}

	return views, nil
}

// ---------------------------------------------------------------------------
// Posts
// ---------------------------------------------------------------------------

// PopulatePosts returns views of a post slice using a single batched
// liked lookup.
func (s *Service) PopulatePosts(ctx context.Context, posts []*domain.Post) ([]domain.PostView, error) {
	views := make([]domain.PostView, len(posts))
	for i, p := range posts {
		views[i] = domain.PostView{Post: *p}
	}

	viewer := viewerFromCtx(ctx)
	if viewer.IsAnonymous() || len(posts) == 0 {
		return views, nil
	}

	ids := make([]uuid.UUID, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}

	likedSet, err := s.likes.LikedSet(ctx, viewer.ProfileID, ids)
	if err != nil {
		return nil, fmt.Errorf("liked set: %w", err)
	}

	for i := range views {
		liked := likedSet[views[i].ID]
		views[i].Liked = &liked
	}

	return views, nil
}
