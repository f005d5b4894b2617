package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/microblog-backend/internal/domain"
)

// mediaService defines the minimal interface needed by MediaHandler.
type mediaService interface {
	RegisterMedia(ctx context.Context, fileURI string) (*domain.MediaAttachment, error)
}

// MediaHandler serves media registration endpoints. Uploads themselves
// happen out of band; this endpoint registers an already stored file URI
// so it can be attached to a post or profile.
type MediaHandler struct {
	svc mediaService
	log *slog.Logger
}

// NewMediaHandler creates a MediaHandler.
func NewMediaHandler(svc mediaService, logger *slog.Logger) *MediaHandler {
	return &MediaHandler{svc: svc, log: logger.With("handler", "media")}
}

type registerMediaRequest struct {
	FileURI string `json:"fileUri"`
}

// Register handles POST /media.
func (h *MediaHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerMediaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	m, err := h.svc.RegisterMedia(r.Context(), req.FileURI)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, toMediaResponse(*m))
}
