package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/artbucket-io/artbucket/internal/store"
)

type contextKey string

const creatorContextKey contextKey = "creatorID"

// CreatorIDFromContext retrieves the authenticated creator id.
func CreatorIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(creatorContextKey).(int64)
	return id, ok
}

// WithCreatorID returns a context carrying the authenticated creator id.
func WithCreatorID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, creatorContextKey, id)
}

// RequireAuth gates a route behind either the session cookie or a Bearer
// API token. Requests that carry neither, or an invalid one, are rejected
// before any handler logic runs.
func RequireAuth(sessions *Sessions, tokens *TokenManager, st *store.Store, onError func(w http.ResponseWriter, r *http.Request, status int, msg string)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cookie, err := r.Cookie(sessions.CookieName()); err == nil && cookie.Value != "" {
				creatorID, err := sessions.Validate(r.Context(), cookie.Value)
				if err != nil {
					onError(w, r, http.StatusUnauthorized, "invalid or expired session")
					return
				}
				next.ServeHTTP(w, r.WithContext(WithCreatorID(r.Context(), creatorID)))
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader != "" {
				parts := strings.Split(authHeader, " ")
				if len(parts) != 2 || parts[0] != "Bearer" {
					onError(w, r, http.StatusUnauthorized, "invalid authorization header")
					return
				}

				claims, err := tokens.ValidateToken(parts[1])
				if err != nil {
					onError(w, r, http.StatusUnauthorized, "invalid token")
					return
				}
				// The token must not have been revoked.
				if _, err := st.GetAPIToken(r.Context(), parts[1]); err != nil {
					onError(w, r, http.StatusUnauthorized, "invalid token")
					return
				}
				next.ServeHTTP(w, r.WithContext(WithCreatorID(r.Context(), claims.CreatorID)))
				return
			}

			onError(w, r, http.StatusUnauthorized, "authentication required")
		})
	}
}
