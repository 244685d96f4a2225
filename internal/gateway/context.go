package gateway

import (
	"context"
	"net/http"
)

type userIDKey struct{}

type sessionCookieKey struct{}

// WithUserID attaches the authenticated user's ID for resolvers.
func WithUserID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, userIDKey{}, id)
}

// UserIDFrom returns the authenticated user's ID, or "" for anonymous.
func UserIDFrom(ctx context.Context) string {
	if v, ok := ctx.Value(userIDKey{}).(string); ok {
		return v
	}
	return ""
}

// WithSessionCookie attaches the request's session cookie so the remote
// executor can forward it.
func WithSessionCookie(ctx context.Context, c *http.Cookie) context.Context {
	if c == nil {
		return ctx
	}
	return context.WithValue(ctx, sessionCookieKey{}, c)
}

// SessionCookieFrom returns the attached session cookie, if any.
func SessionCookieFrom(ctx context.Context) *http.Cookie {
	if v, ok := ctx.Value(sessionCookieKey{}).(*http.Cookie); ok {
		return v
	}
	return nil
}
