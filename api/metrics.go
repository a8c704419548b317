package api

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/seenimoa/envirorank/internal/dashboard"
	"github.com/seenimoa/envirorank/internal/dataset"
)

// Metrics provides Prometheus metrics for the dashboard server.
type Metrics struct {
	dash *dashboard.Context

	// Dataset metrics
	districts prometheus.Gauge
	metrics   prometheus.Gauge

	// Request metrics
	viewsTotal    *prometheus.CounterVec
	rejectedTotal *prometheus.CounterVec
}

// NewMetrics creates the collector for one dashboard context.
func NewMetrics(dc *dashboard.Context) *Metrics {
	return &Metrics{
		dash: dc,
		districts: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "envirorank_dataset_districts",
			Help: "Number of districts in the loaded table",
		}),
		metrics: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "envirorank_dataset_metrics",
			Help: "Number of metric columns in the loaded table",
		}),
		viewsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "envirorank_views_total",
				Help: "Total number of served views by kind",
			},
			[]string{"view"},
		),
		rejectedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "envirorank_rejected_requests_total",
				Help: "Total number of rejected requests by error kind",
			},
			[]string{"kind"},
		),
	}
}

// Describe implements prometheus.Collector.
func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	m.districts.Describe(ch)
	m.metrics.Describe(ch)
	m.viewsTotal.Describe(ch)
	m.rejectedTotal.Describe(ch)
}

// Collect implements prometheus.Collector and refreshes the dataset gauges.
func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	if m.dash != nil {
		t := m.dash.Table()
		m.districts.Set(float64(t.Len()))
		m.metrics.Set(float64(len(t.Metrics())))
	}
	m.districts.Collect(ch)
	m.metrics.Collect(ch)
	m.viewsTotal.Collect(ch)
	m.rejectedTotal.Collect(ch)
}

// RecordView increments the served-view counter.
func (m *Metrics) RecordView(view string) {
	m.viewsTotal.WithLabelValues(view).Inc()
}

// RecordRejected increments the rejection counter for err's kind.
func (m *Metrics) RecordRejected(err error) {
	m.rejectedTotal.WithLabelValues(errorKind(err)).Inc()
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, dataset.ErrSelectionOutOfRange):
		return "selection_out_of_range"
	case errors.Is(err, dataset.ErrInvalidInput):
		return "invalid_input"
	default:
		return "internal"
	}
}
