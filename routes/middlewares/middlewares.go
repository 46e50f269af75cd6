package middlewares

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/oauth"
)

type contextKey int

const ownerKey contextKey = iota

// Owner authorizes the bearer token and stores the owner id claim in the
// request context for owner-scoped handlers.
func Owner(tokenSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return chi.Chain(oauth.Authorize(tokenSecret, nil), ownerFromClaims).Handler(next)
	}
}

func ownerFromClaims(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, _ := r.Context().Value(oauth.ClaimsContext).(map[string]string)

		owner := claims["owner"]
		if owner == "" {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), ownerKey, owner)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OwnerID returns the owner id stored by Owner, or "" outside of it.
func OwnerID(r *http.Request) string {
	id, _ := r.Context().Value(ownerKey).(string)
	return id
}
