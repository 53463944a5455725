package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the ledger runtime.
type Metrics struct {
	// Instruction outcomes by instruction name and error code ("ok" on success)
	Invocations *prometheus.CounterVec

	// End-to-end latency of one instruction including store commit
	InvokeLatency *prometheus.HistogramVec

	// Lamports moved into accounts by allocations and the faucet
	LamportsFunded *prometheus.CounterVec
}

// New registers ledger runtime metrics with reg. A nil reg uses the default registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		Invocations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rwagate_ledger_invocations_total",
			Help: "Total instructions processed by instruction and outcome",
		}, []string{"instruction", "outcome"}),

		InvokeLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "rwagate_ledger_invoke_duration_seconds",
			Help:    "Duration of instruction processing including the store transaction",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"instruction"}),

		LamportsFunded: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rwagate_ledger_lamports_funded_total",
			Help: "Lamports credited to accounts by source",
		}, []string{"source"}), // source: "allocation", "faucet"
	}
}

// IncrementInvocation records one instruction outcome.
func (m *Metrics) IncrementInvocation(instruction, outcome string) {
	if m != nil {
		m.Invocations.WithLabelValues(instruction, outcome).Inc()
	}
}

// ObserveInvokeLatency records the duration of one instruction.
func (m *Metrics) ObserveInvokeLatency(instruction string, d time.Duration) {
	if m != nil {
		m.InvokeLatency.WithLabelValues(instruction).Observe(d.Seconds())
	}
}

// AddLamportsFunded records lamports credited from source.
func (m *Metrics) AddLamportsFunded(source string, lamports uint64) {
	if m != nil {
		m.LamportsFunded.WithLabelValues(source).Add(float64(lamports))
	}
}
