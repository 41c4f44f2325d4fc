package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/iho/gowallet/internal/adapter/http/handler"
	"github.com/iho/gowallet/internal/adapter/http/middleware"
	"github.com/iho/gowallet/internal/usecase"
)

// RouterConfig holds dependencies for the router. Logging, Metrics,
// RateLimiter, IdempotencyStore and MetricsHandler are optional; nil
// disables the corresponding layer.
type RouterConfig struct {
	WalletHandler    *handler.WalletHandler
	HealthHandler    *handler.HealthHandler
	Logging          *middleware.LoggingMiddleware
	Metrics          *middleware.MetricsMiddleware
	RateLimiter      *middleware.RateLimiter
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	MetricsHandler   http.Handler
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	if cfg.Logging != nil {
		r.Use(cfg.Logging.Wrap)
	}
	r.Use(middleware.Recovery)
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Wrap)
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Operational endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL)
			r.Use(idempotencyMiddleware.Wrap)
		}

		r.Route("/wallet", func(r chi.Router) {
			r.Get("/balance", cfg.WalletHandler.Balance)
			r.Get("/transactions", cfg.WalletHandler.History)
			r.Post("/credit", cfg.WalletHandler.Credit)
			r.Post("/debit", cfg.WalletHandler.Debit)
		})
	})

	return r
}
