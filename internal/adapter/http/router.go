package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/daybook/internal/adapter/http/handler"
	"github.com/iho/daybook/internal/adapter/http/middleware"
	"github.com/iho/daybook/internal/domain"
	"github.com/iho/daybook/internal/infrastructure/auth"
	"github.com/iho/daybook/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	LedgerHandler *handler.LedgerHandler
	ReportHandler *handler.ReportHandler
	EventsHandler *handler.EventsHandler
	HealthHandler *handler.HealthHandler

	// optional
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	RateLimiter      *middleware.RateLimiter
	JWTManager       *auth.JWTManager
	AuthFailures     middleware.FailureRecorder
	MetricsHandler   http.Handler
	Logger           *zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	if cfg.Logger != nil {
		r.Use(middleware.NewLoggingMiddleware(*cfg.Logger).Wrap)
	}
	r.Use(middleware.Recovery)
	r.Use(middleware.Metrics)
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)

	metricsHandler := cfg.MetricsHandler
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	r.Handle("/metrics", metricsHandler)

	// role guards are no-ops when auth is disabled
	require := func(domain.Role) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler { return next }
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.JWTManager != nil {
			r.Use(middleware.AuthMiddleware(cfg.JWTManager, cfg.AuthFailures))
			require = middleware.RequireRole
		}

		// Idempotency middleware for POST requests
		if cfg.IdempotencyStore != nil {
			r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL).Wrap)
		}

		// Ledger
		r.Route("/ledger", func(r chi.Router) {
			r.With(require(domain.RoleViewer)).Get("/", cfg.LedgerHandler.List)
			r.With(require(domain.RoleViewer)).Get("/summary", cfg.LedgerHandler.Summary)
			r.With(require(domain.RoleViewer)).Get("/balance", cfg.LedgerHandler.Balance)
			r.With(require(domain.RoleViewer)).Get("/consistency", cfg.LedgerHandler.CheckConsistency)
			r.With(require(domain.RoleOperator)).Post("/", cfg.LedgerHandler.Create)
			r.With(require(domain.RoleAdmin)).Delete("/{id}", cfg.LedgerHandler.Delete)
		})

		// Reports
		r.With(require(domain.RoleViewer)).Get("/daybook", cfg.ReportHandler.DayBook)
		r.With(require(domain.RoleViewer)).Get("/reports/summary", cfg.ReportHandler.Summary)

		// Live ledger events
		if cfg.EventsHandler != nil {
			r.With(require(domain.RoleViewer)).Get("/events", cfg.EventsHandler.Stream)
		}
	})

	return r
}
