package http

import (
	"net/http"
	"strings"

	"github.com/oakmart/shopcore/pkg/httputil"
)

// ContentTypeJSON enforces that requests with a body have Content-Type:
// application/json. Body-less requests pass through regardless of method, so
// the redeem, helpful, and cancel POSTs work without a payload.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength != 0 {
			ct := r.Header.Get("Content-Type")
			if !strings.HasPrefix(ct, "application/json") {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnsupportedMediaType)
				_, _ = w.Write([]byte(`{"error":{"code":"UNSUPPORTED_MEDIA_TYPE","message":"Content-Type must be application/json"}}`))
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects requests whose X-User-Role header (injected by the API
// gateway after JWT validation) is not "admin".
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-User-Role") != "admin" {
			httputil.WriteJSON(w, http.StatusForbidden, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "FORBIDDEN", Message: "admin role required"},
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// userID extracts the authenticated user ID from the X-User-ID header.
func userID(r *http.Request) string {
	return r.Header.Get("X-User-ID")
}

// isAdmin reports whether the request carries the admin role.
func isAdmin(r *http.Request) bool {
	return r.Header.Get("X-User-Role") == "admin"
}

// writeMissingUserID rejects requests that reached a user-scoped endpoint
// without gateway-injected identity.
func writeMissingUserID(w http.ResponseWriter) {
	httputil.WriteJSON(w, http.StatusUnauthorized, httputil.Response{
		Error: &httputil.ErrorResponse{Code: "UNAUTHORIZED", Message: "X-User-ID header is required"},
	})
}
