// Package metrics counts batch outcomes in a private Prometheus registry and
// exports them as a node_exporter textfile after each run.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"teasers/internal/segment"
)

// Entry outcome labels.
const (
	OutcomeDone   = "done"
	OutcomeFailed = "failed"
)

// Metrics holds the batch collectors.
type Metrics struct {
	registry *prometheus.Registry

	Entries          *prometheus.CounterVec
	IsolationSkipped prometheus.Counter
	SegmentsWritten  prometheus.Counter
	CuesRejected     *prometheus.CounterVec
	StageDuration    *prometheus.HistogramVec
	LastRun          prometheus.Gauge
}

// New creates and registers all collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		Entries: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "teasers_entries_total",
			Help: "Catalog entries processed, by outcome",
		}, []string{"outcome"}),
		IsolationSkipped: factory.NewCounter(prometheus.CounterOpts{
			Name: "teasers_isolation_skipped_total",
			Help: "Entries whose vocals file already existed",
		}),
		SegmentsWritten: factory.NewCounter(prometheus.CounterOpts{
			Name: "teasers_segments_written_total",
			Help: "Segment clips written",
		}),
		CuesRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "teasers_cues_rejected_total",
			Help: "Subtitle cues rejected by the segment filter, by reason",
		}, []string{"reason"}),
		StageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "teasers_stage_duration_seconds",
			Help:    "Wall time spent per stage per entry",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 14), // 100ms to ~27 minutes
		}, []string{"stage"}),
		LastRun: factory.NewGauge(prometheus.GaugeOpts{
			Name: "teasers_last_run_timestamp_seconds",
			Help: "Unix time the last batch finished",
		}),
	}
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// CueRejected implements segment.Observer.
func (m *Metrics) CueRejected(reason segment.Reason) {
	m.CuesRejected.WithLabelValues(string(reason)).Inc()
}

// SegmentWritten implements segment.Observer.
func (m *Metrics) SegmentWritten() {
	m.SegmentsWritten.Inc()
}

// ObserveStage records the duration of one stage execution.
func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	m.StageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// EntryFinished counts one entry outcome.
func (m *Metrics) EntryFinished(outcome string) {
	m.Entries.WithLabelValues(outcome).Inc()
}

// WriteTextfile stamps the run time and writes every collector to path in
// the text exposition format. The parent directory is created if needed.
func (m *Metrics) WriteTextfile(path string, now time.Time) error {
	m.LastRun.Set(float64(now.Unix()))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure metrics dir: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
