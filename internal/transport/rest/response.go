package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/heartmarshall/microblog-backend/internal/domain"
	"github.com/heartmarshall/microblog-backend/internal/pagination"
)

// ---------------------------------------------------------------------------
// Shared DTOs
// ---------------------------------------------------------------------------

type profileResponse struct {
	ID             string    `json:"id"`
	ScreenName     string    `json:"screenName"`
	DisplayName    string    `json:"displayName"`
	Bio            string    `json:"bio,omitempty"`
	AvatarMediaID  *string   `json:"avatarMediaId,omitempty"`
	HeaderMediaID  *string   `json:"headerMediaId,omitempty"`
	PostCount      int       `json:"postCount"`
	FollowerCount  int       `json:"followerCount"`
	FollowingCount int       `json:"followingCount"`
	Followed       *bool     `json:"followed,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

type postResponse struct {
	ID        string           `json:"id"`
	Author    *profileResponse `json:"author,omitempty"`
	AuthorID  string           `json:"authorId"`
	Content   string           `json:"content"`
	LikeCount int              `json:"likeCount"`
	Liked     *bool            `json:"liked,omitempty"`
	Media     []mediaResponse  `json:"media"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

type mediaResponse struct {
	ID        string    `json:"id"`
	FileURI   string    `json:"fileUri"`
	CreatedAt time.Time `json:"createdAt"`
}

type pageResponse[T any] struct {
	Items      []T     `json:"items"`
	NextCursor *string `json:"nextCursor,omitempty"`
}

func toProfileResponse(p *domain.Profile, followed *bool) profileResponse {
	resp := profileResponse{
		ID:             p.ID.String(),
		ScreenName:     p.ScreenName,
		DisplayName:    p.DisplayName,
		Bio:            p.Bio,
		PostCount:      p.Counters.Posts,
		FollowerCount:  p.Counters.Followers,
		FollowingCount: p.Counters.Following,
		Followed:       followed,
		CreatedAt:      p.CreatedAt,
	}
	if p.AvatarMediaID != nil {
		s := p.AvatarMediaID.String()
		resp.AvatarMediaID = &s
	}
	if p.HeaderMediaID != nil {
		s := p.HeaderMediaID.String()
		resp.HeaderMediaID = &s
	}
	return resp
}

func toProfileViewResponse(v domain.ProfileView) profileResponse {
	return toProfileResponse(&v.Profile, v.Followed)
}

func toMediaResponse(m domain.MediaAttachment) mediaResponse {
	return mediaResponse{
		ID:        m.ID.String(),
		FileURI:   m.FileURI,
		CreatedAt: m.CreatedAt,
	}
}

func toPostResponse(p *domain.Post, liked *bool, author *profileResponse) postResponse {
	media := make([]mediaResponse, 0, len(p.Media))
	for _, m := range p.Media {
		media = append(media, toMediaResponse(m))
	}
	return postResponse{
		ID:        p.ID.String(),
		Author:    author,
		AuthorID:  p.AuthorID.String(),
		Content:   p.Content,
		LikeCount: p.LikeCount,
		Liked:     liked,
		Media:     media,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toPageResponse[T any, R any](page *pagination.Page[T], convert func(T) R) pageResponse[R] {
	items := make([]R, 0, len(page.Items))
	for _, item := range page.Items {
		items = append(items, convert(item))
	}
	return pageResponse[R]{Items: items, NextCursor: page.NextCursor}
}

// ---------------------------------------------------------------------------
// JSON and error helpers
// ---------------------------------------------------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// handleError maps domain errors to HTTP status codes. Unknown errors
// are logged and returned as 500 without leaking detail.
func handleError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrInvalidCursor):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrAlreadyExists), errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, "conflict")
	case errors.Is(err, domain.ErrInvalidOperation):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		log.ErrorContext(r.Context(), "internal error", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// pageRequest reads the cursor and limit query parameters.
func pageRequest(r *http.Request) pagination.Request {
	req := pagination.Request{}
	if c := r.URL.Query().Get("cursor"); c != "" {
		req.Cursor = &c
	}
	if l := r.URL.Query().Get("limit"); l != "" {
		if limit, err := strconv.Atoi(l); err == nil {
			req.Limit = limit
		}
	}
	return req
}
