package auth

import (
	"net/http"
	"strings"

	"cardconjurer/internal/httpx"
)

// Middleware authenticates bearer tokens and stores the uid and role in
// the request context.
func Middleware(secret string, policies *Policies) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required", nil)
				return
			}
			token := strings.TrimPrefix(authHeader, "Bearer ")

			claims, err := ParseToken(secret, token)
			if err != nil {
				httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired token", nil)
				return
			}

			role, err := policies.Authorize(claims.Provider, claims.Sub)
			if err != nil {
				httpx.JSONError(w, r, http.StatusForbidden, "FORBIDDEN", "Sorry, you cannot access this site", nil)
				return
			}

			ctx := httpx.ContextWithUser(r.Context(), claims.Sub, string(role))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireStaff rejects requests whose role is not STAFF or SUPERUSER.
// It must run after Middleware.
func RequireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !IsStaff(httpx.RoleFrom(r)) {
			httpx.JSONError(w, r, http.StatusForbidden, "FORBIDDEN", "Staff access required", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}
