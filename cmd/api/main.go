package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/netutil"

	"github.com/wolfman30/noshow-decision-demo/internal/api/router"
	"github.com/wolfman30/noshow-decision-demo/internal/app/bootstrap"
	appconfig "github.com/wolfman30/noshow-decision-demo/internal/config"
	"github.com/wolfman30/noshow-decision-demo/internal/decision"
	"github.com/wolfman30/noshow-decision-demo/internal/demo"
	httpmiddleware "github.com/wolfman30/noshow-decision-demo/internal/http/middleware"
	"github.com/wolfman30/noshow-decision-demo/internal/observability/metrics"
	"github.com/wolfman30/noshow-decision-demo/internal/overbooking"
	"github.com/wolfman30/noshow-decision-demo/internal/pending"
	"github.com/wolfman30/noshow-decision-demo/internal/reminder"
	"github.com/wolfman30/noshow-decision-demo/pkg/logging"
)

func main() {
	// .env is optional outside local development
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger.Info("starting no-show decision demo",
		"env", cfg.Env,
		"port", cfg.Port,
		"overbooking_mode", cfg.OverbookingMode,
		"decision_latency", cfg.DecisionLatency.String(),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	redisClient := bootstrap.BuildRedisClient(ctx, cfg, logger, true)
	if redisClient != nil {
		defer redisClient.Close()
	}
	tracker := bootstrap.BuildPendingTracker(redisClient, cfg, logger)

	metricsHandler, decisionMetrics := setupDecisionMetrics()
	limiter := httpmiddleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go limiter.Run(ctx)

	r := router.New(buildRouterConfig(cfg, logger, tracker, decisionMetrics, metricsHandler, limiter))

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ln, err := listen(srv.Addr, cfg.MaxConnections)
	if err != nil {
		logger.Error("failed to listen", "error", err, "addr", srv.Addr)
		os.Exit(1)
	}

	go func() {
		logger.Info("server listening", "addr", ln.Addr().String(), "max_connections", cfg.MaxConnections)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

// listen opens addr and caps concurrent connections at maxConns (0 means no cap).
// Feed websockets hold their connection for a whole run.
func listen(addr string, maxConns int) (net.Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}
	if maxConns > 0 {
		ln = netutil.LimitListener(ln, maxConns)
	}
	return ln, nil
}

// setupDecisionMetrics registers the decision collectors on a dedicated
// registry and returns the /metrics handler for it.
func setupDecisionMetrics() (http.Handler, *metrics.DecisionMetrics) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewDecisionMetrics(reg)
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}), m
}

func buildRouterConfig(
	cfg *appconfig.Config,
	logger *logging.Logger,
	tracker pending.Tracker,
	m *metrics.DecisionMetrics,
	metricsHandler http.Handler,
	limiter *httpmiddleware.RateLimiter,
) *router.Config {
	src := decision.NewSource(cfg.RandomSeed)
	latency := decision.FixedDelay(cfg.DecisionLatency)

	reminders := reminder.NewService(bootstrap.BuildReminderPolicy(cfg), latency, m, logger.Component("reminder"))
	feed := reminder.NewFeed(reminders, reminder.NewPatientGenerator(src), bootstrap.BuildFeedConfig(cfg), m, logger.Component("reminder_feed"))
	overbook := overbooking.NewService(bootstrap.BuildOverbookingPolicy(cfg, src), latency, m, logger.Component("overbooking"))

	return &router.Config{
		Logger:             logger,
		ReminderHandler:    reminder.NewHandler(reminders, feed, tracker, logger),
		OverbookingHandler: overbooking.NewHandler(overbook, tracker, logger),
		StatusHandler:      pending.NewHandler(tracker, logger),
		Dashboard:          demo.NewDashboardHandler(),
		MetricsHandler:     metricsHandler,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		CORSMaxAge:         cfg.CORSMaxAge,
		RateLimiter:        limiter,
	}
}
