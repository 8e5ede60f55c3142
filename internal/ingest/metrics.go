package ingest

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds prometheus collectors for ingestion outcomes.
type Metrics struct {
	records  *prometheus.CounterVec
	failures *prometheus.CounterVec
}

// NewMetrics creates and registers the ingestion collectors on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		records: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ingest_records_total",
				Help: "Total number of records produced by file ingestion.",
			},
			[]string{"format"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ingest_failures_total",
				Help: "Total number of uploaded files rejected by ingestion.",
			},
			[]string{"kind"},
		),
	}
	if err := reg.Register(m.records); err != nil {
		return nil, err
	}
	if err := reg.Register(m.failures); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Metrics) observeRecords(f Format, n int) {
	if m == nil {
		return
	}
	m.records.WithLabelValues(string(f)).Add(float64(n))
}

func (m *Metrics) observeFailure(err error) {
	if m == nil {
		return
	}
	kind := "Unknown"
	var ie *Error
	if errors.As(err, &ie) {
		kind = ie.Kind.String()
	}
	m.failures.WithLabelValues(kind).Inc()
}
