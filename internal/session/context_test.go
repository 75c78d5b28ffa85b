package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWithIDAndIDFromContext(t *testing.T) {
	ctx := WithID(context.Background(), "tab-123")
	if got := IDFromContext(ctx); got != "tab-123" {
		t.Fatalf("expected tab-123, got %s", got)
	}
}

func TestIDFromContext_EmptyOrMissing(t *testing.T) {
	if got := IDFromContext(context.Background()); got != Anonymous {
		t.Fatalf("expected anonymous for missing id, got %s", got)
	}
	ctx := context.WithValue(context.Background(), sessionKey, 42)
	if got := IDFromContext(ctx); got != Anonymous {
		t.Fatalf("expected anonymous for non-string id, got %s", got)
	}
	if got := IDFromContext(WithID(context.Background(), "")); got != Anonymous {
		t.Fatalf("expected anonymous for empty id, got %s", got)
	}
}

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"  abc-123_X ":            "abc-123_X",
		"":                        "",
		"has space":               "",
		"key:injection":           "",
		strings.Repeat("a", 65):   "",
		strings.Repeat("b", 64):   strings.Repeat("b", 64),
	}
	for in, want := range tests {
		if got := Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMiddlewareResolvesSession(t *testing.T) {
	tests := []struct {
		name   string
		header string
		query  string
		want   string
	}{
		{"header wins", "tab-1", "tab-2", "tab-1"},
		{"query fallback", "", "tab-2", "tab-2"},
		{"invalid header falls back", "bad id", "tab-3", "tab-3"},
		{"anonymous", "", "", Anonymous},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = IDFromContext(r.Context())
			}))
			target := "/api/reminders/feed"
			if tt.query != "" {
				target += "?session=" + tt.query
			}
			req := httptest.NewRequest(http.MethodGet, target, nil)
			if tt.header != "" {
				req.Header.Set(Header, tt.header)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)
			if got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
