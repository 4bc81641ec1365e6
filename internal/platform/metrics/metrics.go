package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the HTTP-level Prometheus metrics shared by every router.
type Metrics struct {
	RequestDuration *prometheus.HistogramVec
	CORSRejected    prometheus.Counter
}

// New registers the metrics on the default registry.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers the metrics on reg. Tests pass a fresh
// prometheus.NewRegistry() to avoid duplicate registration panics.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "adonix_http_request_duration_seconds",
			Help:    "Duration of HTTP requests by route pattern and status code",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"route", "status"}),
		CORSRejected: f.NewCounter(prometheus.CounterOpts{
			Name: "adonix_cors_rejected_total",
			Help: "Requests rejected by the CORS origin gate",
		}),
	}
}

// ObserveRequest records one request's duration.
func (m *Metrics) ObserveRequest(route, status string, start time.Time) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(route, status).Observe(time.Since(start).Seconds())
}

// IncrementCORSRejected records an origin refused by the gate.
func (m *Metrics) IncrementCORSRejected() {
	if m == nil {
		return
	}
	m.CORSRejected.Inc()
}
