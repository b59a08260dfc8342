package auth

import (
	"context"
	"net/http"
)

// User is the signed-in person owning saved stacks.
type User struct {
	ID    string
	Email string
	Name  string
}

// UserResolver finds the signed-in user of a request.
type UserResolver interface {
	ResolveUser(r *http.Request) (*User, bool)
}

// StaticUser signs every request in as the same user. It is used for local
// development when OIDC is disabled.
type StaticUser string

// ResolveUser implements UserResolver.
func (u StaticUser) ResolveUser(r *http.Request) (*User, bool) {
	if u == "" {
		return nil, false
	}
	return &User{ID: string(u), Name: string(u)}, true
}

// Anonymous never resolves a user.
type Anonymous struct{}

// ResolveUser implements UserResolver.
func (Anonymous) ResolveUser(r *http.Request) (*User, bool) { return nil, false }

type contextKey string

const (
	userContextKey    contextKey = "user"
	sessionContextKey contextKey = "browse_session"
)

// WithUser returns a context carrying u.
func WithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, userContextKey, u)
}

// UserFromContext returns the user stored by Middleware, if any.
func UserFromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(userContextKey).(*User)
	return u, ok && u != nil
}

// Middleware resolves the user of each request and stores it in the context.
// Anonymous requests pass through unchanged.
func Middleware(resolver UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if u, ok := resolver.ResolveUser(r); ok {
				r = r.WithContext(WithUser(r.Context(), u))
			}
			next.ServeHTTP(w, r)
		})
	}
}
