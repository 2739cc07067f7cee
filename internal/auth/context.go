// Package auth carries the request identity the import pipeline stamps onto
// audit columns. Token verification happens upstream; this package only reads
// the identity the edge already established.
package auth

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const userIDKey contextKey = "userID"

// AnonymousUser is recorded when no identity reached the request.
const AnonymousUser = "anonymous"

// ContextWithUser returns a new context carrying the authenticated user id.
func ContextWithUser(ctx context.Context, userID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, userIDKey, userID)
}

// UserFromContext retrieves the authenticated user id, or AnonymousUser.
func UserFromContext(ctx context.Context) string {
	if ctx == nil {
		return AnonymousUser
	}
	if id, ok := ctx.Value(userIDKey).(string); ok && id != "" {
		return id
	}
	return AnonymousUser
}

// Middleware copies the upstream-verified identity header into the request
// context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if userID := strings.TrimSpace(r.Header.Get("X-User-Id")); userID != "" {
			r = r.WithContext(ContextWithUser(r.Context(), userID))
		}
		next.ServeHTTP(w, r)
	})
}
