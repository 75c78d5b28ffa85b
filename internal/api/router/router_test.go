package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/noshow-decision-demo/internal/decision"
	"github.com/wolfman30/noshow-decision-demo/internal/demo"
	httpmiddleware "github.com/wolfman30/noshow-decision-demo/internal/http/middleware"
	"github.com/wolfman30/noshow-decision-demo/internal/observability/metrics"
	"github.com/wolfman30/noshow-decision-demo/internal/overbooking"
	"github.com/wolfman30/noshow-decision-demo/internal/pending"
	"github.com/wolfman30/noshow-decision-demo/internal/reminder"
	"github.com/wolfman30/noshow-decision-demo/pkg/logging"
)

func newTestRouter(t *testing.T, limiter *httpmiddleware.RateLimiter) http.Handler {
	t.Helper()

	logger := logging.Default()
	reg := prometheus.NewRegistry()
	m := metrics.NewDecisionMetrics(reg)
	src := decision.NewSource(42)
	tracker := pending.NewMemoryTracker()

	reminders := reminder.NewService(reminder.DefaultPolicy(), decision.NoDelay, m, logger)
	feed := reminder.NewFeed(reminders, reminder.NewPatientGenerator(src), reminder.FeedConfig{
		Size:       2,
		StartDelay: decision.NoDelay,
		Interval:   decision.NoDelay,
	}, m, logger)
	overbook := overbooking.NewService(overbooking.NewRandomPolicy(src), decision.NoDelay, m, logger)

	return New(&Config{
		Logger:             logger,
		ReminderHandler:    reminder.NewHandler(reminders, feed, tracker, logger),
		OverbookingHandler: overbooking.NewHandler(overbook, tracker, logger),
		StatusHandler:      pending.NewHandler(tracker, logger),
		Dashboard:          demo.NewDashboardHandler(),
		MetricsHandler:     promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		CORSAllowedOrigins: []string{"https://demo.example"},
		RateLimiter:        limiter,
	})
}

func TestRouterHealthEndpoint(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp map[string]string
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "ok", resp["status"])
}

func TestRouterServesDashboard(t *testing.T) {
	router := newTestRouter(t, nil)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/html")
}

func TestRouterReminderDecide(t *testing.T) {
	router := newTestRouter(t, nil)

	body := `{"patient_id":"P12345","historical_no_show_rate":0.5,"lead_time_days":10}`
	req := httptest.NewRequest(http.MethodPost, "/api/reminders/decide", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Session-Id", "router-test")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var res reminder.Result
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
	assert.Equal(t, reminder.ActionCall, res.BestAction)
	assert.Equal(t, "P12345", res.PatientID)
}

func TestRouterReminderValidation(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/reminders/decide", bytes.NewBufferString(`{"historical_no_show_rate":1.5,"lead_time_days":3}`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRouterOverbookingRecommendation(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/overbooking/recommendation", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var res overbooking.Result
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
	assert.Equal(t, overbooking.AvailableSlots, res.AvailableSlots)
	assert.Equal(t, overbooking.AppointmentsFor(res.Multiplier), res.AppointmentsToBook)
}

func TestRouterSessionStatus(t *testing.T) {
	router := newTestRouter(t, nil)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/sessions/router-test/status", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var resp pending.StatusResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "router-test", resp.SessionID)
	assert.Equal(t, pending.StateIdle, resp.Components[pending.ComponentOverbooking])
}

func TestRouterMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t, nil)

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/overbooking/recommendation", nil))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "medspa_decision_requests_total")
}

func TestRouterCORSPreflight(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/reminders/decide", nil)
	req.Header.Set("Origin", "https://demo.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "https://demo.example", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouterRateLimitsAPI(t *testing.T) {
	router := newTestRouter(t, httpmiddleware.NewRateLimiter(0.001, 1))

	first := httptest.NewRecorder()
	router.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/api/overbooking/recommendation", nil))
	require.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	router.ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/api/overbooking/recommendation", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)

	// health stays outside the limiter
	health := httptest.NewRecorder()
	router.ServeHTTP(health, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, health.Code)
}
