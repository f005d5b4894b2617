package rest

import "net/http"

// Handlers aggregates the REST handlers wired into the router.
type Handlers struct {
	Auth    *AuthHandler
	Profile *ProfileHandler
	Post    *PostHandler
	Feed    *FeedHandler
	Media   *MediaHandler
	Health  *HealthHandler
}

// NewRouter builds the HTTP route table. Authentication is optional on
// every route (the auth middleware leaves anonymous requests through);
// handlers and services decide what an anonymous viewer may do.
func NewRouter(h Handlers) *http.ServeMux {
	mux := http.NewServeMux()

	// Probes.
	mux.HandleFunc("GET /livez", h.Health.Live)
	mux.HandleFunc("GET /readyz", h.Health.Ready)
	mux.HandleFunc("GET /healthz", h.Health.Health)

	// Auth.
	mux.HandleFunc("POST /api/v1/auth/register", h.Auth.Register)
	mux.HandleFunc("POST /api/v1/auth/login", h.Auth.Login)
	mux.HandleFunc("POST /api/v1/auth/refresh", h.Auth.Refresh)
	mux.HandleFunc("POST /api/v1/auth/logout", h.Auth.Logout)

	// Own profile.
	mux.HandleFunc("GET /api/v1/me", h.Profile.Me)
	mux.HandleFunc("PATCH /api/v1/me", h.Profile.Update)
	mux.HandleFunc("PUT /api/v1/me/avatar", h.Profile.SetAvatar)
	mux.HandleFunc("DELETE /api/v1/me/avatar", h.Profile.ClearAvatar)
	mux.HandleFunc("PUT /api/v1/me/header", h.Profile.SetHeader)
	mux.HandleFunc("DELETE /api/v1/me/header", h.Profile.ClearHeader)

	// Public profiles and the social graph.
	mux.HandleFunc("GET /api/v1/profiles/{screenName}", h.Profile.Get)
	mux.HandleFunc("GET /api/v1/profiles/{screenName}/followers", h.Profile.Followers)
	mux.HandleFunc("GET /api/v1/profiles/{screenName}/following", h.Profile.Following)
	mux.HandleFunc("PUT /api/v1/profiles/{screenName}/follow", h.Profile.Follow)
	mux.HandleFunc("DELETE /api/v1/profiles/{screenName}/follow", h.Profile.Unfollow)
	mux.HandleFunc("GET /api/v1/profiles/{screenName}/posts", h.Post.ListByProfile)

	// Posts and likes.
	mux.HandleFunc("POST /api/v1/posts", h.Post.Create)
	mux.HandleFunc("GET /api/v1/posts/{id}", h.Post.Get)
	mux.HandleFunc("PATCH /api/v1/posts/{id}", h.Post.Update)
	mux.HandleFunc("DELETE /api/v1/posts/{id}", h.Post.Delete)
	mux.HandleFunc("PUT /api/v1/posts/{id}/like", h.Post.Like)
	mux.HandleFunc("DELETE /api/v1/posts/{id}/like", h.Post.Unlike)

	// Feed.
	mux.HandleFunc("GET /api/v1/feed", h.Feed.Home)

	// Media registration.
	mux.HandleFunc("POST /api/v1/media", h.Media.Register)

	return mux
}
