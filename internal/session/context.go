// Package session scopes pending decision calls to one browser tab.
package session

import (
	"context"
	"net/http"
	"strings"
)

type ctxKey string

const sessionKey ctxKey = "decision.session_id"

const (
	// Header carries the session id set by the demo page.
	Header = "X-Session-Id"
	// Anonymous is used when the caller sends no session id.
	Anonymous = "anonymous"

	maxIDLen = 64
)

// WithID stores the session id in context.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionKey, id)
}

// IDFromContext extracts the session id, falling back to Anonymous.
func IDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(sessionKey).(string); ok && id != "" {
		return id
	}
	return Anonymous
}

// Middleware resolves the session id from the header or the "session" query
// parameter (browsers cannot set headers on websocket upgrades).
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := Normalize(r.Header.Get(Header))
		if id == "" {
			id = Normalize(r.URL.Query().Get("session"))
		}
		if id == "" {
			id = Anonymous
		}
		next.ServeHTTP(w, r.WithContext(WithID(r.Context(), id)))
	})
}

// Normalize trims the id and rejects characters that would break a Redis key
// or a log line. Invalid ids become empty.
func Normalize(id string) string {
	id = strings.TrimSpace(id)
	if id == "" || len(id) > maxIDLen {
		return ""
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return ""
		}
	}
	return id
}
