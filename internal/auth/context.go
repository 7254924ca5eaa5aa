// Package auth carries the acting user's identity through the request
// context. Capture attribution falls back to it when a request does not name
// the capturing user explicitly.
package auth

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const userKey contextKey = "user"

// UserHeader names the HTTP header that identifies the acting user.
const UserHeader = "X-User"

// ContextWithUser returns a new context that carries the acting user.
func ContextWithUser(ctx context.Context, user string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext retrieves the acting user from the context, if any.
func UserFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	value := ctx.Value(userKey)
	if value == nil {
		return "", false
	}
	user, ok := value.(string)
	if !ok || user == "" {
		return "", false
	}
	return user, true
}

// Middleware copies the user header into the request context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user := strings.TrimSpace(r.Header.Get(UserHeader)); user != "" {
			r = r.WithContext(ContextWithUser(r.Context(), user))
		}
		next.ServeHTTP(w, r)
	})
}
