package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the transfer gate.
type Metrics struct {
	// Gate outcomes: "allowed", "denied", or the error code of a failed check
	Checks *prometheus.CounterVec

	// Duration of one check including the record read
	CheckLatency prometheus.Histogram

	// Token units allowed through the gate
	AllowedAmount prometheus.Counter
}

// New registers gate metrics with reg. A nil reg uses the default registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		Checks: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rwagate_gate_checks_total",
			Help: "Total transfer gate checks by outcome",
		}, []string{"outcome"}),

		CheckLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "rwagate_gate_check_duration_seconds",
			Help:    "Duration of transfer gate checks",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1},
		}),

		AllowedAmount: factory.NewCounter(prometheus.CounterOpts{
			Name: "rwagate_gate_allowed_amount_total",
			Help: "Token units in transfers the gate allowed",
		}),
	}
}

// IncrementOutcome records one check outcome.
func (m *Metrics) IncrementOutcome(outcome string) {
	if m != nil {
		m.Checks.WithLabelValues(outcome).Inc()
	}
}

// ObserveCheckLatency records the duration of one check.
func (m *Metrics) ObserveCheckLatency(d time.Duration) {
	if m != nil {
		m.CheckLatency.Observe(d.Seconds())
	}
}

func (m *Metrics) AddAllowedAmount(amount uint64) {
	if m != nil {
		m.AllowedAmount.Add(float64(amount))
	}
}
