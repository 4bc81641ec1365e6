package newsletter

import (
	"log/slog"

	"adonix/internal/newsletter/handler"
	"adonix/internal/newsletter/metrics"
	"adonix/internal/newsletter/service"
	platformmetrics "adonix/internal/platform/metrics"
	"adonix/internal/platform/middleware/cors"
)

// Service exposes mailing list subscription.
type Service = service.Service

// Handler wires HTTP endpoints to the newsletter service.
type Handler = handler.Handler

// NewService constructs the newsletter service over the subscriptions collection.
func NewService(store service.SubscriptionStore, logger *slog.Logger, m *metrics.Metrics) *Service {
	return service.New(store, service.WithLogger(logger), service.WithMetrics(m))
}

// NewHandler constructs the HTTP handler for the public subscribe route and
// the staff list route.
func NewHandler(s *Service, logger *slog.Logger, origins cors.RuleSet, m *platformmetrics.Metrics, adminToken string, opts ...handler.Option) *Handler {
	return handler.New(s, logger, origins, m, adminToken, opts...)
}

// WithSubscribeLimiter rate limits the public subscribe route.
var WithSubscribeLimiter = handler.WithSubscribeLimiter
