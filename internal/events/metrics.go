package events

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks notification delivery.
type Metrics struct {
	Published       *prometheus.CounterVec
	PublishFailures *prometheus.CounterVec
	PublishLatency  prometheus.Histogram
}

// NewMetrics registers notification metrics with reg. A nil reg uses the default registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		Published: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rwagate_events_published_total",
			Help: "Total change notifications delivered by type",
		}, []string{"type"}),
		PublishFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rwagate_events_publish_failures_total",
			Help: "Total change notifications that could not be delivered by type",
		}, []string{"type"}),
		PublishLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "rwagate_events_publish_duration_seconds",
			Help:    "Duration of synchronous notification delivery",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
	}
}

func (m *Metrics) IncPublished(t Type) {
	if m != nil {
		m.Published.WithLabelValues(string(t)).Inc()
	}
}

func (m *Metrics) IncFailure(t Type) {
	if m != nil {
		m.PublishFailures.WithLabelValues(string(t)).Inc()
	}
}

func (m *Metrics) ObserveLatency(d time.Duration) {
	if m != nil {
		m.PublishLatency.Observe(d.Seconds())
	}
}
