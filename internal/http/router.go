// Package httpapi assembles the process-wide chi router.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"adonix/internal/platform/metrics"
	"adonix/internal/platform/middleware"
	"adonix/pkg/platform/httputil"
	"adonix/pkg/platform/middleware/metadata"
)

// Registrar is implemented by every module handler.
type Registrar interface {
	Register(r chi.Router)
}

// Pinger reports storage reachability for /healthz.
type Pinger interface {
	Name() string
	Ping(ctx context.Context) error
}

// Config carries the shared dependencies of the router.
type Config struct {
	Logger  *slog.Logger
	Metrics *metrics.Metrics
	Storage Pinger
	Timeout time.Duration
	// TrustProxyHeaders takes the client address from X-Forwarded-For.
	TrustProxyHeaders bool
}

// NewRouter wires the platform middleware chain, the health probe and every
// module's routes.
func NewRouter(cfg Config, modules ...Registrar) http.Handler {
	r := chi.NewRouter()
	r.Use(metadata.ClientMetadata(cfg.TrustProxyHeaders))
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Latency(cfg.Metrics))
	if cfg.Timeout > 0 {
		r.Use(chimw.Timeout(cfg.Timeout))
	}

	r.Get("/healthz", healthHandler(cfg.Storage, cfg.Logger))
	for _, m := range modules {
		m.Register(r)
	}
	return r
}

func healthHandler(storage Pinger, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if err := storage.Ping(ctx); err != nil {
			logger.WarnContext(ctx, "storage ping failed",
				"engine", storage.Name(),
				"request_id", middleware.GetRequestID(ctx),
				"error", err.Error(),
			)
			httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "engine": storage.Name()})
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok", "engine": storage.Name()})
	}
}
