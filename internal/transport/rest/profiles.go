package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/heartmarshall/microblog-backend/internal/domain"
	"github.com/heartmarshall/microblog-backend/internal/pagination"
	"github.com/heartmarshall/microblog-backend/internal/service/profile"
	"github.com/heartmarshall/microblog-backend/pkg/ctxutil"
)

// profileService defines the minimal interface needed by ProfileHandler.
type profileService interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error)
	GetByScreenName(ctx context.Context, screenName string) (*domain.Profile, error)
	Update(ctx context.Context, profileID uuid.UUID, input profile.UpdateInput) (*domain.Profile, error)
	SetAvatar(ctx context.Context, profileID, mediaID uuid.UUID) (*domain.Profile, error)
	ClearAvatar(ctx context.Context, profileID uuid.UUID) (*domain.Profile, error)
	SetHeader(ctx context.Context, profileID, mediaID uuid.UUID) (*domain.Profile, error)
	ClearHeader(ctx context.Context, profileID uuid.UUID) (*domain.Profile, error)
	Follow(ctx context.Context, followeeID uuid.UUID) error
	Unfollow(ctx context.Context, followeeID uuid.UUID) error
	FindFollowers(ctx context.Context, profileID uuid.UUID, req pagination.Request) (*pagination.Page[*domain.ProfileFollow], error)
	FindFollowing(ctx context.Context, profileID uuid.UUID, req pagination.Request) (*pagination.Page[*domain.ProfileFollow], error)
}

// profileEnricher adds viewer-relative flags to profiles.
type profileEnricher interface {
	PopulateProfile(ctx context.Context, p *domain.Profile) (domain.ProfileView, error)
	PopulateProfiles(ctx context.Context, profiles []*domain.Profile) ([]domain.ProfileView, error)
}

// ProfileHandler serves profile REST endpoints.
type ProfileHandler struct {
	svc    profileService
	enrich profileEnricher
	log    *slog.Logger
}

// NewProfileHandler creates a ProfileHandler.
func NewProfileHandler(svc profileService, enrich profileEnricher, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{svc: svc, enrich: enrich, log: logger.With("handler", "profile")}
}

type updateProfileRequest struct {
	DisplayName *string `json:"displayName"`
	Bio         *string `json:"bio"`
}

type setMediaRequest struct {
	MediaID string `json:"mediaId"`
}

// Get handles GET /profiles/{screenName}.
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.GetByScreenName(r.Context(), r.PathValue("screenName"))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	view, err := h.enrich.PopulateProfile(r.Context(), p)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toProfileViewResponse(view))
}

// Me handles GET /me.
func (h *ProfileHandler) Me(w http.ResponseWriter, r *http.Request) {
	viewerID, ok := ctxutil.ProfileIDFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	p, err := h.svc.GetByID(r.Context(), viewerID)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toProfileResponse(p, nil))
}

// Update handles PATCH /me.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	viewerID, ok := ctxutil.ProfileIDFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.svc.Update(r.Context(), viewerID, profile.UpdateInput{
		DisplayName: req.DisplayName,
		Bio:         req.Bio,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toProfileResponse(p, nil))
}

// SetAvatar handles PUT /me/avatar.
func (h *ProfileHandler) SetAvatar(w http.ResponseWriter, r *http.Request) {
	h.setMedia(w, r, h.svc.SetAvatar)
}

// ClearAvatar handles DELETE /me/avatar.
func (h *ProfileHandler) ClearAvatar(w http.ResponseWriter, r *http.Request) {
	h.clearMedia(w, r, h.svc.ClearAvatar)
}

// SetHeader handles PUT /me/header.
func (h *ProfileHandler) SetHeader(w http.ResponseWriter, r *http.Request) {
	h.setMedia(w, r, h.svc.SetHeader)
}

// ClearHeader handles DELETE /me/header.
func (h *ProfileHandler) ClearHeader(w http.ResponseWriter, r *http.Request) {
	h.clearMedia(w, r, h.svc.ClearHeader)
}

func (h *ProfileHandler) setMedia(
	w http.ResponseWriter,
	r *http.Request,
	set func(ctx context.Context, profileID, mediaID uuid.UUID) (*domain.Profile, error),
) {
	viewerID, ok := ctxutil.ProfileIDFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req setMediaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	mediaID, err := uuid.Parse(req.MediaID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid media id")
		return
	}

	p, err := set(r.Context(), viewerID, mediaID)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toProfileResponse(p, nil))
}

func (h *ProfileHandler) clearMedia(
	w http.ResponseWriter,
	r *http.Request,
	clear func(ctx context.Context, profileID uuid.UUID) (*domain.Profile, error),
) {
	viewerID, ok := ctxutil.ProfileIDFromCtx(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	p, err := clear(r.Context(), viewerID)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toProfileResponse(p, nil))
}

// Follow handles PUT /profiles/{screenName}/follow.
func (h *ProfileHandler) Follow(w http.ResponseWriter, r *http.Request) {
	target, err := h.svc.GetByScreenName(r.Context(), r.PathValue("screenName"))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	if err := h.svc.Follow(r.Context(), target.ID); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Unfollow handles DELETE /profiles/{screenName}/follow.
func (h *ProfileHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	target, err := h.svc.GetByScreenName(r.Context(), r.PathValue("screenName"))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	if err := h.svc.Unfollow(r.Context(), target.ID); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Followers handles GET /profiles/{screenName}/followers.
func (h *ProfileHandler) Followers(w http.ResponseWriter, r *http.Request) {
	h.listFollows(w, r, h.svc.FindFollowers)
}

// Following handles GET /profiles/{screenName}/following.
func (h *ProfileHandler) Following(w http.ResponseWriter, r *http.Request) {
	h.listFollows(w, r, h.svc.FindFollowing)
}

func (h *ProfileHandler) listFollows(
	w http.ResponseWriter,
	r *http.Request,
	list func(ctx context.Context, profileID uuid.UUID, req pagination.Request) (*pagination.Page[*domain.ProfileFollow], error),
) {
	anchor, err := h.svc.GetByScreenName(r.Context(), r.PathValue("screenName"))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	page, err := list(r.Context(), anchor.ID, pageRequest(r))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	profiles := make([]*domain.Profile, 0, len(page.Items))
	for _, pf := range page.Items {
		profiles = append(profiles, &pf.Profile)
	}
	views, err := h.enrich.PopulateProfiles(r.Context(), profiles)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	items := make([]profileResponse, 0, len(views))
	for _, v := range views {
		items = append(items, toProfileViewResponse(v))
	}
	writeJSON(w, http.StatusOK, pageResponse[profileResponse]{
		Items:      items,
		NextCursor: page.NextCursor,
	})
}
