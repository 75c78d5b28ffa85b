package main

import (
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/wolfman30/noshow-decision-demo/internal/api/router"
	appconfig "github.com/wolfman30/noshow-decision-demo/internal/config"
	httpmiddleware "github.com/wolfman30/noshow-decision-demo/internal/http/middleware"
	"github.com/wolfman30/noshow-decision-demo/internal/overbooking"
	"github.com/wolfman30/noshow-decision-demo/internal/pending"
	"github.com/wolfman30/noshow-decision-demo/pkg/logging"
)

func TestSetupDecisionMetricsExposesMetrics(t *testing.T) {
	handler, m := setupDecisionMetrics()
	if handler == nil || m == nil {
		t.Fatalf("expected non-nil handler and metrics")
	}

	m.ObserveOverbookingLevel(overbooking.LevelMid.Label)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "medspa_decision_overbooking_levels_total") {
		t.Fatalf("expected overbooking level counter to be exported")
	}
	if !strings.Contains(body, "go_goroutines") {
		t.Fatalf("expected runtime collectors to be registered")
	}
}

func TestListenCapsConnections(t *testing.T) {
	ln, err := listen("127.0.0.1:0", 1)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	first, err := net.Dial("tcp", ln.Addr().String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer first.Close()

	accepted, err := ln.Accept()
	if err != nil {
		t.Fatalf("accept: %v", err)
	}

	// the second Accept blocks until the first connection is released
	second, err := net.Dial("tcp", ln.Addr().String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer second.Close()

	next := make(chan net.Conn, 1)
	go func() {
		c, err := ln.Accept()
		if err == nil {
			next <- c
		}
	}()
	select {
	case <-next:
		t.Fatalf("expected second accept to wait for a free slot")
	case <-time.After(50 * time.Millisecond):
	}

	accepted.Close()
	select {
	case c := <-next:
		c.Close()
	case <-time.After(time.Second):
		t.Fatalf("expected second accept after releasing the first connection")
	}
}

func TestBuildRouterConfigFixedMode(t *testing.T) {
	cfg := &appconfig.Config{
		OverbookingMode:       appconfig.OverbookingModeFixed,
		ReminderCallThreshold: 0.45,
		RandomSeed:            7,
		FeedSize:              1,
		FeedStartDelay:        time.Millisecond,
		FeedInterval:          time.Millisecond,
	}
	metricsHandler, m := setupDecisionMetrics()
	rc := buildRouterConfig(cfg, logging.New("error"), pending.NewMemoryTracker(), m, metricsHandler, httpmiddleware.NewRateLimiter(0, 1))
	if rc.ReminderHandler == nil || rc.OverbookingHandler == nil || rc.StatusHandler == nil || rc.Dashboard == nil {
		t.Fatalf("expected all handlers to be wired")
	}

	h := router.New(rc)
	req := httptest.NewRequest(http.MethodPost, "/api/overbooking/recommendation", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), `"appointments_to_book":48`) {
		t.Fatalf("expected fixed recommendation, got %s", rr.Body.String())
	}
}
