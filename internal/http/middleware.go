package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/Drij77/ecommerce-graphql-api/internal/domain"
)

// UserResolver turns a bearer token into the account it belongs to, or nil.
type UserResolver interface {
	ResolveUser(ctx context.Context, token string) *domain.User
}

type callerKey struct{}

// AuthMiddleware resolves the Authorization header into a caller identity.
// A missing, malformed or expired token makes the request anonymous rather
// than rejecting it; each operation enforces its own authorization.
func AuthMiddleware(resolver UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			if token != "" {
				if user := resolver.ResolveUser(r.Context(), token); user != nil {
					ctx := context.WithValue(r.Context(), callerKey{}, user)
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// CallerFromContext returns the authenticated caller, or nil for anonymous
// requests.
func CallerFromContext(ctx context.Context) *domain.User {
	caller, _ := ctx.Value(callerKey{}).(*domain.User)
	return caller
}
