package metrics

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the counters of a single reader run
type Metrics struct {
	// Pipeline counters
	RecordsRead       atomic.Uint64
	DetectionsDecoded atomic.Uint64
	BoxesDrawn        atomic.Uint64
	LabelsDrawn       atomic.Uint64
	ImagesWritten     atomic.Uint64

	// Timing
	RunDurationMs   atomic.Uint64
	LastSuccessUnix atomic.Int64

	errors   *prometheus.CounterVec
	registry *prometheus.Registry
}

// New creates a new Metrics instance with Prometheus collectors
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ipcdog_errors_total",
				Help: "Fatal errors by kind",
			},
			[]string{"kind"},
		),
	}

	m.registerPrometheusMetrics()

	return m
}

func (m *Metrics) registerPrometheusMetrics() {
	m.registry.MustRegister(m.errors)

	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "ipcdog_records_read",
			Help: "Shared records copied out of shared memory",
		},
		func() float64 { return float64(m.RecordsRead.Load()) },
	))

	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "ipcdog_detections_decoded",
			Help: "Valid detections in the decoded record",
		},
		func() float64 { return float64(m.DetectionsDecoded.Load()) },
	))

	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "ipcdog_boxes_drawn",
			Help: "Bounding boxes drawn on the output image",
		},
		func() float64 { return float64(m.BoxesDrawn.Load()) },
	))

	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "ipcdog_labels_drawn",
			Help: "Confidence labels drawn on the output image",
		},
		func() float64 { return float64(m.LabelsDrawn.Load()) },
	))

	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "ipcdog_images_written",
			Help: "Annotated images written to disk",
		},
		func() float64 { return float64(m.ImagesWritten.Load()) },
	))

	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "ipcdog_run_duration_ms",
			Help: "Wall time of the last run in milliseconds",
		},
		func() float64 { return float64(m.RunDurationMs.Load()) },
	))

	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "ipcdog_last_success_timestamp_seconds",
			Help: "Unix time of the last successful run (0 if it failed)",
		},
		func() float64 { return float64(m.LastSuccessUnix.Load()) },
	))
}

// RecordError counts a fatal error of the given kind.
func (m *Metrics) RecordError(kind string) {
	m.errors.WithLabelValues(kind).Inc()
}

// UpdateRunDuration stores the elapsed time since start.
func (m *Metrics) UpdateRunDuration(start time.Time) {
	m.RunDurationMs.Store(uint64(time.Since(start).Milliseconds()))
}

// MarkSuccess stamps the last success time.
func (m *Metrics) MarkSuccess(now time.Time) {
	m.LastSuccessUnix.Store(now.Unix())
}

// Registry exposes the underlying registry (used by tests and WriteTextfile).
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes the metrics in text exposition format to path,
// atomically, for the node_exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
