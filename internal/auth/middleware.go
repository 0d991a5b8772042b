package auth

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/Thonzy/Inventory-App/internal/models"
)

type contextKey string

// userContextKey is the context key for the authenticated user.
const userContextKey = contextKey("currentUser")

// UserResolver looks up the acting user for a verified token subject.
// The returned user must not carry the password hash.
type UserResolver interface {
	GetUserByID(id string) (models.User, error)
}

// CurrentUser returns the authenticated user attached by RequireAuth.
func CurrentUser(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(userContextKey).(models.User)
	return user, ok
}

// RequireAuth gates protected routes: it extracts the session token,
// verifies it, resolves the user and attaches them to the request context.
// Every failure branch collapses to the same 401 body so callers cannot
// distinguish a bad signature from a deleted account.
func RequireAuth(issuer *TokenIssuer, resolver UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := ExtractSession(r)
			if tokenStr == "" {
				unauthorized(w)
				return
			}

			userID, err := issuer.Verify(tokenStr)
			if err != nil {
				unauthorized(w)
				return
			}

			user, err := resolver.GetUserByID(userID)
			if err != nil {
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"message": "Not authorized, please login"})
}
