package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"adonix/internal/models"
	"adonix/internal/newsletter/metrics"
	"adonix/internal/platform/logger"
	dErrors "adonix/pkg/domain-errors"
	"adonix/pkg/platform/sentinel"
	"adonix/pkg/requestcontext"
)

// SubscriptionStore is the slice of the newsletter subscriptions handle the
// service needs. *database.Model[models.NewsletterSubscription] satisfies it.
type SubscriptionStore interface {
	Find(ctx context.Context, key string) (*models.NewsletterSubscription, error)
	AddToSet(ctx context.Context, key, field, value string) error
}

// Service manages newsletter mailing lists.
type Service struct {
	store   SubscriptionStore
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// New constructs a Service.
func New(store SubscriptionStore, opts ...Option) *Service {
	s := &Service{
		store:  store,
		logger: slog.Default(),
		tracer: otel.Tracer("adonix/newsletter"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe adds emailAddress to the list named listName, creating the list
// on first use. Subscribing an address already on the list is a no-op.
func (s *Service) Subscribe(ctx context.Context, listName, emailAddress string) error {
	ctx, span := s.tracer.Start(ctx, "newsletter.Subscribe",
		trace.WithAttributes(attribute.String("newsletter.list_id", listName)))
	defer span.End()

	if listName == "" || emailAddress == "" {
		s.metrics.IncrementSubscriptions(metrics.OutcomeInvalidParams)
		span.SetStatus(codes.Error, string(dErrors.CodeInvalidParams))
		return dErrors.New(dErrors.CodeInvalidParams, "listName and emailAddress are required")
	}

	start := time.Now()
	err := s.store.AddToSet(ctx, listName, models.NewsletterSubscribersField, emailAddress)
	s.metrics.ObserveSubscribe(start)
	if err != nil {
		s.metrics.IncrementSubscriptions(metrics.OutcomeError)
		span.RecordError(err)
		span.SetStatus(codes.Error, "subscribe failed")
		s.logger.ErrorContext(ctx, "failed to add newsletter subscriber",
			"request_id", requestcontext.RequestID(ctx),
			"list_id", listName,
			"email", logger.RedactEmail(emailAddress),
			"error", err.Error(),
		)
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to subscribe")
	}

	s.metrics.IncrementSubscriptions(metrics.OutcomeSuccess)
	s.logger.InfoContext(ctx, "newsletter subscriber added",
		"request_id", requestcontext.RequestID(ctx),
		"list_id", listName,
	)
	return nil
}

// GetList returns the list with its current subscribers.
func (s *Service) GetList(ctx context.Context, listID string) (*models.NewsletterSubscription, error) {
	if listID == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "listId is required")
	}

	list, err := s.store.Find(ctx, listID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "newsletter list not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load newsletter list")
	}
	if list.Subscribers == nil {
		list.Subscribers = []string{}
	}
	return list, nil
}
