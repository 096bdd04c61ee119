package auth

import (
	"context"
	"net/http"
	"strings"
)

// Identity is the per-request resolved caller. The zero value is anonymous.
type Identity struct {
	UserID    int64
	Username  string
	IsAdmin   bool
	Connected bool
}

// Anonymous returns the identity of an unauthenticated caller.
func Anonymous() Identity { return Identity{} }

type ctxIdentityKey struct{}

// Resolve maps a raw bearer token to an identity. Empty, expired,
// malformed, or wrongly signed tokens all demote the caller to anonymous;
// resolution itself never fails. Handlers decide whether anonymous access
// is acceptable.
func (c *Codec) Resolve(raw string) Identity {
	if raw == "" {
		return Anonymous()
	}
	claims, err := c.Verify(raw)
	if err != nil {
		return Anonymous()
	}
	id, err := claims.UserID()
	if err != nil {
		return Anonymous()
	}
	return Identity{
		UserID:    id,
		Username:  claims.Username,
		IsAdmin:   claims.IsAdmin,
		Connected: true,
	}
}

// Middleware resolves the request's bearer token and attaches the identity
// to the request context. It never writes a response.
func (c *Codec) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ident := c.Resolve(BearerToken(r))
		ctx := context.WithValue(r.Context(), ctxIdentityKey{}, ident)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// BearerToken extracts the Authorization bearer credential, if any.
func BearerToken(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	return ""
}

// FromContext returns the identity attached by Middleware, or anonymous
// when the middleware did not run.
func FromContext(ctx context.Context) Identity {
	ident, _ := ctx.Value(ctxIdentityKey{}).(Identity)
	return ident
}
