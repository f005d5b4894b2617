package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/heartmarshall/microblog-backend/internal/domain"
	"github.com/heartmarshall/microblog-backend/internal/pagination"
	"github.com/heartmarshall/microblog-backend/internal/service/post"
	"github.com/heartmarshall/microblog-backend/internal/transport/dataloader"
)

// postService defines the minimal interface needed by PostHandler.
type postService interface {
	Create(ctx context.Context, input post.CreateInput) (*domain.Post, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error)
	Update(ctx context.Context, postID uuid.UUID, content string) (*domain.Post, error)
	Delete(ctx context.Context, postID uuid.UUID) error
	Like(ctx context.Context, postID uuid.UUID) error
	Unlike(ctx context.Context, postID uuid.UUID) error
	FindByProfile(ctx context.Context, profileID uuid.UUID, req pagination.Request) (*pagination.Page[*domain.Post], error)
}

// postEnricher adds viewer-relative flags to posts.
type postEnricher interface {
	PopulatePosts(ctx context.Context, posts []*domain.Post) ([]domain.PostView, error)
}

// profileResolver resolves a screen name to a profile for post listings.
type profileResolver interface {
	GetByScreenName(ctx context.Context, screenName string) (*domain.Profile, error)
}

// PostHandler serves post REST endpoints.
type PostHandler struct {
	svc      postService
	enrich   postEnricher
	profiles profileResolver
	log      *slog.Logger
}

// NewPostHandler creates a PostHandler.
func NewPostHandler(svc postService, enrich postEnricher, profiles profileResolver, logger *slog.Logger) *PostHandler {
	return &PostHandler{
		svc:      svc,
		enrich:   enrich,
		profiles: profiles,
		log:      logger.With("handler", "post"),
	}
}

type createPostRequest struct {
	Content  string   `json:"content"`
	MediaIDs []string `json:"mediaIds"`
}

type updatePostRequest struct {
	Content string `json:"content"`
}

// Create handles POST /posts.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	mediaIDs := make([]uuid.UUID, 0, len(req.MediaIDs))
	for _, raw := range req.MediaIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid media id")
			return
		}
		mediaIDs = append(mediaIDs, id)
	}

	created, err := h.svc.Create(r.Context(), post.CreateInput{
		Content:  req.Content,
		MediaIDs: mediaIDs,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	items, err := h.assemble(r.Context(), []*domain.Post{created})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, items[0])
}

// Get handles GET /posts/{id}.
func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid post id")
		return
	}

	p, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	items, err := h.assemble(r.Context(), []*domain.Post{p})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, items[0])
}

// Update handles PATCH /posts/{id}.
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid post id")
		return
	}

	var req updatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.svc.Update(r.Context(), id, req.Content)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	items, err := h.assemble(r.Context(), []*domain.Post{updated})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, items[0])
}

// Delete handles DELETE /posts/{id}.
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid post id")
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Like handles PUT /posts/{id}/like.
func (h *PostHandler) Like(w http.ResponseWriter, r *http.Request) {
	h.mutateLike(w, r, h.svc.Like)
}

// Unlike handles DELETE /posts/{id}/like.
func (h *PostHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	h.mutateLike(w, r, h.svc.Unlike)
}

func (h *PostHandler) mutateLike(
	w http.ResponseWriter,
	r *http.Request,
	mutate func(ctx context.Context, postID uuid.UUID) error,
) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid post id")
		return
	}

	if err := mutate(r.Context(), id); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListByProfile handles GET /profiles/{screenName}/posts.
func (h *PostHandler) ListByProfile(w http.ResponseWriter, r *http.Request) {
	author, err := h.profiles.GetByScreenName(r.Context(), r.PathValue("screenName"))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	page, err := h.svc.FindByProfile(r.Context(), author.ID, pageRequest(r))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	h.writePostPage(w, r, page)
}

// writePostPage enriches and assembles a page of posts into the response.
func (h *PostHandler) writePostPage(w http.ResponseWriter, r *http.Request, page *pagination.Page[*domain.Post]) {
	items, err := h.assemble(r.Context(), page.Items)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, pageResponse[postResponse]{
		Items:      items,
		NextCursor: page.NextCursor,
	})
}

// assemble attaches viewer flags and author profiles to posts. Author
// lookups go through the per-request dataloader so a full page costs one
// profile query.
func (h *PostHandler) assemble(ctx context.Context, posts []*domain.Post) ([]postResponse, error) {
	views, err := h.enrich.PopulatePosts(ctx, posts)
	if err != nil {
		return nil, err
	}

	loaders := dataloader.FromContext(ctx)
	thunks := make([]func() (*domain.Profile, error), len(views))
	for i := range views {
		thunks[i] = loaders.ProfileByID.Load(ctx, views[i].AuthorID)
	}

	items := make([]postResponse, 0, len(views))
	for i := range views {
		author, err := thunks[i]()
		if err != nil {
			return nil, err
		}
		authorResp := toProfileResponse(author, nil)
		items = append(items, toPostResponse(&views[i].Post, views[i].Liked, &authorResp))
	}
	return items, nil
}
