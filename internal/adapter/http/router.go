package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/iho/adbilling/internal/adapter/http/handler"
	"github.com/iho/adbilling/internal/adapter/http/middleware"
	"github.com/iho/adbilling/internal/infrastructure/auth"
)

// RouterConfig holds dependencies for the router. A nil billing or account
// handler leaves that side of the API unmounted, so one binary can serve
// either role or both.
type RouterConfig struct {
	Logger             zerolog.Logger
	HealthHandler      *handler.HealthHandler
	BillingHandler     *handler.BillingHandler
	TransactionHandler *handler.TransactionHandler
	AccountHandler     *handler.AccountHandler
	MetricsHandler     http.Handler
	HTTPMetrics        *middleware.HTTPMetrics
	JWTManager         *auth.JWTManager
	RateLimiter        *middleware.RateLimiter
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery(cfg.Logger))
	if cfg.HTTPMetrics != nil {
		r.Use(cfg.HTTPMetrics.Wrap)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	requireRole := func(role auth.Role) func(http.Handler) http.Handler {
		if cfg.JWTManager == nil {
			return passthrough
		}
		return middleware.RequireRole(role)
	}

	throttle := passthrough
	if cfg.RateLimiter != nil {
		throttle = cfg.RateLimiter.Limit
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.JWTManager != nil {
			r.Use(middleware.ServiceAuth(cfg.JWTManager))
		}

		// Billing side
		if cfg.BillingHandler != nil {
			r.With(throttle, requireRole(auth.RoleBiller)).Post("/billing", cfg.BillingHandler.Bill)
		}
		if cfg.TransactionHandler != nil {
			r.With(requireRole(auth.RoleBiller)).Get("/transactions/{id}", cfg.TransactionHandler.Get)
			r.With(requireRole(auth.RoleBiller)).Get("/advertisers/{id}/transactions", cfg.TransactionHandler.ListByAdvertiser)
			r.With(requireRole(auth.RoleAdmin)).Post("/transactions/{id}/reconcile", cfg.TransactionHandler.Reconcile)
			r.With(requireRole(auth.RoleAdmin)).Post("/reconciliation/sweep", cfg.TransactionHandler.Sweep)
		}

		// Advertiser side
		if cfg.AccountHandler != nil {
			r.With(requireRole(auth.RoleAdmin)).Post("/accounts", cfg.AccountHandler.Open)
			r.Route("/accounts/{id}", func(r chi.Router) {
				r.Use(requireRole(auth.RoleBalanceClient))
				r.Get("/", cfg.AccountHandler.Get)
				r.Post("/charges", cfg.AccountHandler.Charge)
				r.Post("/deductions", cfg.AccountHandler.Deduct)
				r.Get("/mutations/{key}", cfg.AccountHandler.GetMutation)
			})
			r.With(requireRole(auth.RoleBalanceClient)).Get("/advertisers/{id}", cfg.AccountHandler.Exists)
		}
	})

	return r
}

func passthrough(next http.Handler) http.Handler {
	return next
}
