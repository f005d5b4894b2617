package dataloader

import (
	"context"

	"github.com/google/uuid"
	"github.com/graph-gophers/dataloader/v7"

	"github.com/heartmarshall/microblog-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Profiles by ID
// ---------------------------------------------------------------------------

func newProfileBatchFn(repo profileRepo) dataloader.BatchFunc[uuid.UUID, *domain.Profile] {
	return func(ctx context.Context, keys []uuid.UUID) []*dataloader.Result[*domain.Profile] {
		profiles, err := repo.GetByIDs(ctx, keys)
		if err != nil {
			return errorResults[*domain.Profile](len(keys), err)
		}

		byID := make(map[uuid.UUID]*domain.Profile, len(profiles))
		for _, p := range profiles {
			byID[p.ID] = p
		}

		results := make([]*dataloader.Result[*domain.Profile], len(keys))
		for i, key := range keys {
			if p, ok := byID[key]; ok {
				results[i] = &dataloader.Result[*domain.Profile]{Data: p}
			} else {
				results[i] = &dataloader.Result[*domain.Profile]{Error: domain.ErrNotFound}
			}
		}
		return results
	}
}

// ---------------------------------------------------------------------------
// Media attachments by post ID
// ---------------------------------------------------------------------------

func newMediaBatchFn(repo mediaRepo) dataloader.BatchFunc[uuid.UUID, []domain.MediaAttachment] {
	return func(ctx context.Context, keys []uuid.UUID) []*dataloader.Result[[]domain.MediaAttachment] {
		attachments, err := repo.GetByPostIDs(ctx, keys)
		if err != nil {
			return errorResults[[]domain.MediaAttachment](len(keys), err)
		}

		grouped := make(map[uuid.UUID][]domain.MediaAttachment, len(keys))
		for _, a := range attachments {
			if a.PostID == nil {
				continue
			}
			grouped[*a.PostID] = append(grouped[*a.PostID], *a)
		}

		return mapResults(keys, grouped, emptySlice[domain.MediaAttachment])
	}
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// errorResults returns n results all carrying the same error.
func errorResults[V any](n int, err error) []*dataloader.Result[V] {
	results := make([]*dataloader.Result[V], n)
	for i := range results {
		results[i] = &dataloader.Result[V]{Error: err}
	}
	return results
}

// mapResults maps grouped results back to key order, using defaultFn for missing keys.
func mapResults[V any](keys []uuid.UUID, grouped map[uuid.UUID]V, defaultFn func() V) []*dataloader.Result[V] {
	results := make([]*dataloader.Result[V], len(keys))
	for i, key := range keys {
		if v, ok := grouped[key]; ok {
			results[i] = &dataloader.Result[V]{Data: v}
		} else {
			results[i] = &dataloader.Result[V]{Data: defaultFn()}
		}
	}
	return results
}

// emptySlice returns a non-nil empty slice.
func emptySlice[T any]() []T {
	return []T{}
}
