// Package metrics collects scan statistics in a dedicated prometheus
// registry that can be dumped to a node-exporter textfile.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Scan outcome label values.
const (
	OutcomeDirect   = "direct"
	OutcomeRotated  = "rotated"
	OutcomeNotFound = "not_found"
)

// Recorder owns the scan collectors. A nil *Recorder is valid and records
// nothing.
type Recorder struct {
	registry *prometheus.Registry

	scansTotal     *prometheus.CounterVec
	decodeAttempts prometheus.Counter
	foundAngle     prometheus.Histogram
	scanDuration   prometheus.Histogram
	loadFailures   prometheus.Counter
}

// NewRecorder registers all collectors in a fresh registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		scansTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dmscan_scans_total",
				Help: "Total number of scanned images by outcome",
			},
			[]string{"outcome"}, // outcome: direct, rotated, not_found
		),
		decodeAttempts: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "dmscan_decode_attempts_total",
				Help: "Total number of decoder invocations",
			},
		),
		foundAngle: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "dmscan_found_angle_degrees",
				Help:    "Rotation angle at which a symbol was decoded",
				Buckets: prometheus.LinearBuckets(0, 30, 13),
			},
		),
		scanDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "dmscan_scan_duration_seconds",
				Help:    "Time spent preprocessing and decoding one image",
				Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
		),
		loadFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "dmscan_load_failures_total",
				Help: "Total number of inputs that could not be loaded",
			},
		),
	}
}

// Registry exposes the underlying registry for gathering.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// ObserveScan records one processed image.
func (r *Recorder) ObserveScan(outcome string, attempts int, angle int, d time.Duration) {
	if r == nil {
		return
	}
	r.scansTotal.WithLabelValues(outcome).Inc()
	r.decodeAttempts.Add(float64(attempts))
	if outcome == OutcomeRotated {
		r.foundAngle.Observe(float64(angle))
	}
	r.scanDuration.Observe(d.Seconds())
}

// ObserveLoadFailure records an input that could not be loaded.
func (r *Recorder) ObserveLoadFailure() {
	if r == nil {
		return
	}
	r.loadFailures.Inc()
}

// WriteTextfile writes the current values in text exposition format,
// replacing path atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
