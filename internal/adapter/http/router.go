package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/iho/assetsync/internal/adapter/http/handler"
	"github.com/iho/assetsync/internal/adapter/http/middleware"
	"github.com/iho/assetsync/internal/infrastructure/metrics"
	"github.com/iho/assetsync/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	ReceiptHandler   *handler.ReceiptHandler
	AssetHandler     *handler.AssetHandler
	HealthHandler    *handler.HealthHandler
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	RateLimiter      *middleware.RateLimiter
	Metrics          *metrics.Metrics
	// MetricsHandler serves /metrics when set.
	MetricsHandler http.Handler
	Logger         zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	if cfg.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(cfg.Metrics).Wrap)
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.IdempotencyStore != nil {
			r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL, cfg.Logger).Wrap)
		}

		r.Route("/receipts/{id}", func(r chi.Router) {
			r.Post("/created", cfg.ReceiptHandler.Created)
			r.Post("/updated", cfg.ReceiptHandler.Updated)
			r.Get("/assets", cfg.AssetHandler.ListByReceipt)
		})

		r.Get("/assets/{id}", cfg.AssetHandler.Get)
	})

	return r
}
