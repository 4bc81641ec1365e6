package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Subscribe outcomes used as the "outcome" label.
const (
	OutcomeSuccess       = "success"
	OutcomeInvalidParams = "invalid_params"
	OutcomeError         = "error"
)

// Metrics provides observability for the newsletter module.
// Tracks subscription outcomes and the duration of the storage upsert.
type Metrics struct {
	Subscriptions     *prometheus.CounterVec
	SubscribeDuration prometheus.Histogram
}

// New creates a new Metrics instance registered on the default registry.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers the newsletter metrics on reg.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Subscriptions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "adonix_newsletter_subscriptions_total",
			Help: "Newsletter subscribe attempts by outcome",
		}, []string{"outcome"}),
		SubscribeDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "adonix_newsletter_subscribe_duration_seconds",
			Help:    "Duration of the subscribe upsert against the storage engine",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// IncrementSubscriptions records one subscribe attempt with its outcome.
func (m *Metrics) IncrementSubscriptions(outcome string) {
	if m == nil {
		return
	}
	m.Subscriptions.WithLabelValues(outcome).Inc()
}

// ObserveSubscribe records the duration of a subscribe upsert.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveSubscribe(start time.Time) {
	if m == nil {
		return
	}
	m.SubscribeDuration.Observe(time.Since(start).Seconds())
}
