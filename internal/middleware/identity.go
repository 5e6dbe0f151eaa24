package middleware

import (
	"net/http"

	"datadocs/internal/httputil"
)

// Identity extracts the caller's user id from the X-User-ID header into
// the request context. Session handling and role derivation live in the
// fronting web layer; by the time a request reaches this API the caller
// is just an author id. Requests without one proceed as anonymous and
// are refused by write handlers that require an author.
func Identity() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if userID := r.Header.Get("X-User-ID"); userID != "" {
				r = httputil.WithUserID(r, userID)
			}
			next.ServeHTTP(w, r)
		})
	}
}
