package http

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"bookshelf/internal/book"
	"bookshelf/internal/category"
	"bookshelf/internal/httpx"
)

const readyTimeout = 500 * time.Millisecond

// RouterConfig carries everything NewRouter mounts.
type RouterConfig struct {
	Categories *category.Service
	Books      *book.Service
	Logger     *zap.Logger

	// Ready reports whether the backing store is reachable. Nil means
	// always ready.
	Ready func(context.Context) error
	// Registry receives the HTTP metrics. Nil disables /metrics.
	Registry *prometheus.Registry
	// RateLimiter is optional.
	RateLimiter *httpx.RateLimitMiddleware

	AllowedOrigins []string
	MaxBodyBytes   int64
}

// NewRouter builds the application handler with its middleware chain.
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if cfg.Ready != nil {
			ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
			defer cancel()
			if err := cfg.Ready(ctx); err != nil {
				logger.Warn("readiness check failed", zap.Error(err))
				http.Error(w, "store not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	category.NewHTTPHandler(cfg.Categories, logger).Register(mux, "/api/categories")
	book.NewHTTPHandler(cfg.Books, logger).Register(mux, "/api/books")

	var handler http.Handler = mux
	if cfg.Registry != nil {
		metrics := httpx.NewMetrics(cfg.Registry)
		mux.Handle("GET /metrics", metrics.Handler())
		handler = metrics.Middleware(mux)
	}

	middlewares := []httpx.Middleware{
		httpx.RequestIDMiddleware,
		httpx.RecoveryMiddleware(logger),
		httpx.AccessLogMiddleware(logger),
		httpx.SecurityHeadersMiddleware,
		httpx.CORSMiddleware(cfg.AllowedOrigins),
		httpx.RequestSizeLimitMiddleware(cfg.MaxBodyBytes),
	}
	if cfg.RateLimiter != nil {
		middlewares = append(middlewares, cfg.RateLimiter.Middleware)
	}

	return httpx.Chain(handler, middlewares...)
}
