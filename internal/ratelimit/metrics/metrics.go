package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	RateLimited     *prometheus.CounterVec
	LimiterFailures prometheus.Counter
}

func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RateLimited: f.NewCounterVec(prometheus.CounterOpts{
			Name: "adonix_ratelimit_rejected_total",
			Help: "Requests rejected for exceeding the per-IP limit",
		}, []string{"class"}),
		LimiterFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "adonix_ratelimit_store_failures_total",
			Help: "Limiter store errors; requests are let through when this happens",
		}),
	}
}

func (m *Metrics) IncrementRateLimited(class string) {
	if m == nil {
		return
	}
	m.RateLimited.WithLabelValues(class).Inc()
}

func (m *Metrics) IncrementLimiterFailures() {
	if m == nil {
		return
	}
	m.LimiterFailures.Inc()
}
