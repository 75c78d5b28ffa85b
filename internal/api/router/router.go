package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/wolfman30/noshow-decision-demo/internal/demo"
	httpmiddleware "github.com/wolfman30/noshow-decision-demo/internal/http/middleware"
	"github.com/wolfman30/noshow-decision-demo/internal/http/respond"
	"github.com/wolfman30/noshow-decision-demo/internal/overbooking"
	"github.com/wolfman30/noshow-decision-demo/internal/pending"
	"github.com/wolfman30/noshow-decision-demo/internal/reminder"
	"github.com/wolfman30/noshow-decision-demo/internal/session"
	"github.com/wolfman30/noshow-decision-demo/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	ReminderHandler    *reminder.Handler
	OverbookingHandler *overbooking.Handler
	StatusHandler      *pending.Handler
	Dashboard          *demo.DashboardHandler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
	CORSMaxAge         time.Duration

	// RateLimiter guards the /api routes. Nil disables limiting.
	RateLimiter *httpmiddleware.RateLimiter
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(session.Middleware)
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(httpmiddleware.CORSOptions{
			AllowedOrigins: cfg.CORSAllowedOrigins,
			MaxAge:         cfg.CORSMaxAge,
		}))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", healthCheck)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}
	if cfg.Dashboard != nil {
		r.Mount("/", cfg.Dashboard.Routes())
	}

	r.Route("/api", func(api chi.Router) {
		if cfg.RateLimiter != nil {
			api.Use(cfg.RateLimiter.Middleware)
		}
		if cfg.ReminderHandler != nil {
			api.Route("/reminders", func(r chi.Router) {
				r.Post("/decide", cfg.ReminderHandler.Decide)
				r.Get("/feed", cfg.ReminderHandler.StreamFeed)
			})
		}
		if cfg.OverbookingHandler != nil {
			api.Post("/overbooking/recommendation", cfg.OverbookingHandler.Recommend)
		}
		if cfg.StatusHandler != nil {
			api.Get("/sessions/{sessionID}/status", cfg.StatusHandler.GetStatus)
		}
	})

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
