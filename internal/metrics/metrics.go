// Package metrics collects per-export counters and writes them in the
// Prometheus text format for node_exporter's textfile collector.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Run holds the metrics of a single export. The zero value is not usable;
// call NewRun. A nil *Run ignores every observation.
type Run struct {
	registry   *prometheus.Registry
	entities   *prometheus.CounterVec
	files      prometheus.Counter
	bytes      prometheus.Counter
	duration   *prometheus.HistogramVec
	validation *prometheus.CounterVec
	format     string
}

// NewRun builds a fresh registry labelled with the export format.
func NewRun(format string) *Run {
	constLabels := prometheus.Labels{"format": format}
	r := &Run{
		registry: prometheus.NewRegistry(),
		format:   format,
		entities: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "lameta_export_entities_total",
			Help:        "Entities written by the export, by kind.",
			ConstLabels: constLabels,
		}, []string{"kind"}),
		files: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "lameta_export_files_copied_total",
			Help:        "Files copied into the export destination.",
			ConstLabels: constLabels,
		}),
		bytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "lameta_export_bytes_copied_total",
			Help:        "Bytes copied into the export destination.",
			ConstLabels: constLabels,
		}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "lameta_export_duration_seconds",
			Help:        "Wall time of the export, by outcome status.",
			ConstLabels: constLabels,
			Buckets:     []float64{0.1, 0.5, 1, 5, 15, 60, 300, 900, 3600},
		}, []string{"status"}),
		validation: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "lameta_validation_records_total",
			Help:        "Validation records produced for the export, by type.",
			ConstLabels: constLabels,
		}, []string{"type"}),
	}
	r.registry.MustRegister(r.entities, r.files, r.bytes, r.duration, r.validation)
	return r
}

// Registry exposes the underlying registry.
func (r *Run) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// AddEntities counts n written entities of kind (session, person, file, ...).
func (r *Run) AddEntities(kind string, n int) {
	if r == nil || n <= 0 {
		return
	}
	r.entities.WithLabelValues(kind).Add(float64(n))
}

// AddCopied counts copied files and their total size.
func (r *Run) AddCopied(files int, bytes int64) {
	if r == nil {
		return
	}
	if files > 0 {
		r.files.Add(float64(files))
	}
	if bytes > 0 {
		r.bytes.Add(float64(bytes))
	}
}

// AddValidation counts validation records of the given type.
func (r *Run) AddValidation(recordType string, n int) {
	if r == nil || n <= 0 {
		return
	}
	r.validation.WithLabelValues(recordType).Add(float64(n))
}

// ObserveDuration records the run's wall time under its final status.
func (r *Run) ObserveDuration(status string, d time.Duration) {
	if r == nil {
		return
	}
	r.duration.WithLabelValues(status).Observe(d.Seconds())
}

// WriteTextfile writes the registry to path atomically. An empty path is a
// no-op.
func (r *Run) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
