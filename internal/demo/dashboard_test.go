package demo

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestDashboardServesPage(t *testing.T) {
	h := NewDashboardHandler()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	h.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("expected html content type, got %s", ct)
	}
	body := rec.Body.String()
	for _, want := range []string{"/api/reminders/decide", "/api/reminders/feed", "/api/overbooking/recommendation", "X-Session-Id"} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected page to reference %s", want)
		}
	}
}
