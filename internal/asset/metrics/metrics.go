package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the asset record module.
type Metrics struct {
	RecordsCreated prometheus.Counter
	// Updated fields by name: valuation, compliance_status, metadata_uri
	FieldsUpdated *prometheus.CounterVec
	// Compliance flips by resulting status
	ComplianceChanges *prometheus.CounterVec
	// Rejected mutations by error code
	Rejections *prometheus.CounterVec
}

// New registers asset metrics with reg. A nil reg uses the default registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		RecordsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "rwagate_asset_records_created_total",
			Help: "Total number of asset compliance records created",
		}),
		FieldsUpdated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rwagate_asset_fields_updated_total",
			Help: "Total record field updates by field",
		}, []string{"field"}),
		ComplianceChanges: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rwagate_asset_compliance_changes_total",
			Help: "Total compliance status changes by resulting status",
		}, []string{"status"}),
		Rejections: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rwagate_asset_mutations_rejected_total",
			Help: "Total rejected create/update calls by operation and code",
		}, []string{"operation", "code"}),
	}
}

func (m *Metrics) IncrementRecordsCreated() {
	if m != nil {
		m.RecordsCreated.Inc()
	}
}

func (m *Metrics) IncrementFieldUpdated(field string) {
	if m != nil {
		m.FieldsUpdated.WithLabelValues(field).Inc()
	}
}

func (m *Metrics) IncrementComplianceChange(compliant bool) {
	if m != nil {
		status := "non_compliant"
		if compliant {
			status = "compliant"
		}
		m.ComplianceChanges.WithLabelValues(status).Inc()
	}
}

func (m *Metrics) IncrementRejection(operation, code string) {
	if m != nil {
		m.Rejections.WithLabelValues(operation, code).Inc()
	}
}
