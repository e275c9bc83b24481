// ABOUTME: HTTP router assembly for the backend service
// ABOUTME: Registers every API route behind logging, CORS, rate limiting and metrics

package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/asman100/BMS-SELECTION-KING/backend/config"
	"github.com/asman100/BMS-SELECTION-KING/backend/handlers"
	"github.com/asman100/BMS-SELECTION-KING/backend/metrics"
	"github.com/asman100/BMS-SELECTION-KING/backend/middleware"
)

// newRouter registers the route table on a Go 1.22+ pattern mux, so wrong
// methods get 405 and unknown paths 404 without handler code.
func newRouter(cfg *config.Config, h *handlers.Handler, m *metrics.Metrics) http.Handler {
	var writeLimiter, defaultLimiter *middleware.RateLimiter
	if cfg.RateLimitEnabled {
		writeLimiter = middleware.NewRateLimiter("write", cfg.RateLimitWrite, time.Minute)
		defaultLimiter = middleware.NewRateLimiter("default", cfg.RateLimitDefault, time.Minute)
		writeLimiter.OnReject(m.RateLimited)
		defaultLimiter.OnReject(m.RateLimited)
		slog.Info("Rate limiting enabled", "write_per_min", cfg.RateLimitWrite, "default_per_min", cfg.RateLimitDefault)
	} else {
		slog.Warn("Rate limiting disabled")
	}
	cors := middleware.CORSWithConfig(cfg.CORSAllowedOrigins)

	mux := http.NewServeMux()
	for _, route := range h.Routes() {
		limiter := defaultLimiter
		if route.IsWrite() {
			limiter = writeLimiter
		}
		handler := middleware.Chain(
			m.WrapHandler(route.Path, route.Handler),
			middleware.LogRequest,
			cors,
			middleware.RateLimit(limiter, middleware.ClientIP),
		)
		mux.HandleFunc(route.Method+" "+route.Path, handler)
	}

	// Preflight requests carry no body and must reach the CORS middleware
	// for every API path.
	mux.HandleFunc("OPTIONS /api/v1/", middleware.Chain(
		func(w http.ResponseWriter, r *http.Request) {},
		middleware.LogRequest,
		cors,
	))

	if m != nil {
		mux.Handle("GET /metrics", m.Handler())
	}
	return mux
}
