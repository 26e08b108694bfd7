// Package metrics holds the domain counters exported on /metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics groups the document counters. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	Downloads     *prometheus.CounterVec
	AuditFailures prometheus.Counter
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Downloads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "document_downloads_total",
				Help: "Documents streamed to clients, by document type.",
			},
			[]string{"type"},
		),
		AuditFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "audit_record_failures_total",
			Help: "Download audit records that could not be written.",
		}),
	}
	for _, c := range []prometheus.Collector{m.Downloads, m.AuditFailures} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) Download(docType string) {
	if m == nil {
		return
	}
	m.Downloads.WithLabelValues(docType).Inc()
}

func (m *Metrics) AuditFailure() {
	if m == nil {
		return
	}
	m.AuditFailures.Inc()
}
