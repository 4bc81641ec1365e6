package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	httpapi "adonix/internal/http"
	"adonix/internal/models"
	"adonix/internal/newsletter"
	newslettermetrics "adonix/internal/newsletter/metrics"
	"adonix/internal/platform/config"
	"adonix/internal/platform/httpserver"
	"adonix/internal/platform/logger"
	"adonix/internal/platform/metrics"
	"adonix/internal/platform/middleware/cors"
	ratelimitmetrics "adonix/internal/ratelimit/metrics"
	ratelimit "adonix/internal/ratelimit/middleware"
	ratelimitmodels "adonix/internal/ratelimit/models"
	"adonix/internal/ratelimit/store/bucket"
)

const shutdownTimeout = 10 * time.Second

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	origins, err := cors.Compile(cfg.CORS.Patterns())
	if err != nil {
		return fmt.Errorf("compile origin rules: %w", err)
	}

	storage, err := openStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := storage.Close(); err != nil {
			log.Warn("close storage", "error", err)
		}
	}()

	m, err := models.New(ctx, storage.Engine)
	if err != nil {
		return fmt.Errorf("register collections: %w", err)
	}
	log.Info("collections registered",
		"engine", storage.Engine.Name(),
		"count", len(m.Identifiers()),
	)

	httpMetrics := metrics.New()
	limiter := ratelimit.New(newLimiterStore(storage), log,
		ratelimit.WithDisabled(!cfg.RateLimit.Enabled),
		ratelimit.WithMetrics(ratelimitmetrics.New()),
	)
	subscribeLimit := ratelimitmodels.Limit{
		Requests: cfg.RateLimit.SubscribeRequests,
		Window:   cfg.RateLimit.Window,
	}

	newsletterService := newsletter.NewService(m.Newsletter.Subscriptions, log, newslettermetrics.New())
	router := httpapi.NewRouter(httpapi.Config{
		Logger:            log,
		Metrics:           httpMetrics,
		Storage:           storage.Engine,
		Timeout:           cfg.Timeout,
		TrustProxyHeaders: cfg.TrustProxy,
	},
		newsletter.NewHandler(newsletterService, log, origins, httpMetrics, cfg.AdminToken,
			newsletter.WithSubscribeLimiter(limiter.RateLimitIP("subscribe", subscribeLimit)),
		),
	)

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())

	servers := []*http.Server{
		httpserver.New(cfg.Addr, router, httpserver.WithHandlerTimeout(cfg.Timeout)),
		httpserver.New(cfg.MetricsAddr, metricsMux),
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, srv := range servers {
		g.Go(func() error {
			log.Info("listening", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("serve %s: %w", srv.Addr, err)
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		var errs []error
		for _, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, fmt.Errorf("shutdown %s: %w", srv.Addr, err))
			}
		}
		return errors.Join(errs...)
	})
	return g.Wait()
}

// newLimiterStore shares limits between replicas when a Redis pool is open
// and falls back to per-process counting otherwise.
func newLimiterStore(s storage) ratelimit.BucketStore {
	if s.Redis != nil {
		return bucket.NewRedisBucketStore(s.Redis.Client)
	}
	return bucket.NewInMemoryBucketStore()
}
