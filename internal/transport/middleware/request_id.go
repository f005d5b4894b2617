package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/heartmarshall/microblog-backend/pkg/ctxutil"
)

// RequestIDHeader carries the request id on both the request and the
// response.
const RequestIDHeader = "X-Request-Id"

func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		ctx := ctxutil.WithRequestID(r.Context(), id)
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
