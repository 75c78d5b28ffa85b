package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolfman30/noshow-decision-demo/internal/session"
	"github.com/wolfman30/noshow-decision-demo/pkg/logging"
)

func TestRequestLoggerRecordsStatusAndSession(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter("info", &buf)

	handler := chimw.RequestID(session.Middleware(RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))))

	req := httptest.NewRequest(http.MethodPost, "/api/reminders/decide", nil)
	req.Header.Set(session.Header, "sess-42")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var completed map[string]any
	require.NoError(t, json.Unmarshal(lines[1], &completed))
	assert.Equal(t, "request completed", completed["msg"])
	assert.Equal(t, "sess-42", completed["session_id"])
	assert.Equal(t, float64(http.StatusConflict), completed["status"])
	assert.NotEmpty(t, completed["request_id"])
}
