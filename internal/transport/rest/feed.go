package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/microblog-backend/internal/domain"
	"github.com/heartmarshall/microblog-backend/internal/pagination"
)

// feedService defines the minimal interface needed by FeedHandler.
type feedService interface {
	Home(ctx context.Context, req pagination.Request) (*pagination.Page[*domain.Post], error)
}

// FeedHandler serves the home feed endpoint.
type FeedHandler struct {
	svc   feedService
	posts *PostHandler
	log   *slog.Logger
}

// NewFeedHandler creates a FeedHandler. It reuses the PostHandler's
// response assembly so feed items look identical to post listings.
func NewFeedHandler(svc feedService, posts *PostHandler, logger *slog.Logger) *FeedHandler {
	return &FeedHandler{svc: svc, posts: posts, log: logger.With("handler", "feed")}
}

// Home handles GET /feed.
func (h *FeedHandler) Home(w http.ResponseWriter, r *http.Request) {
	page, err := h.svc.Home(r.Context(), pageRequest(r))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	h.posts.writePostPage(w, r, page)
}
