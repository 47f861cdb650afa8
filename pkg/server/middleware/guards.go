package middleware

import (
	"net/http"

	"github.com/storyhub-org/storyhub/pkg/identity"
)

// RequireAdmin rejects callers that are not administrators.
func RequireAdmin(next http.Handler) http.Handler {
	return guard(func(id *identity.Identity) bool { return id.IsAdmin() }, next)
}

// RequireEditor rejects callers that are neither editors nor administrators.
func RequireEditor(next http.Handler) http.Handler {
	return guard(func(id *identity.Identity) bool { return id.CanEdit() }, next)
}

// RequirePermission rejects callers without the given permission flag.
func RequirePermission(p identity.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return guard(func(id *identity.Identity) bool { return id.Can(p) }, next)
	}
}

func guard(allowed func(*identity.Identity) bool, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity.Get(r.Context())
		if !ok {
			unauthorized(w, "Authorization missing")
			return
		}
		if !allowed(id) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error":"forbidden"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}
