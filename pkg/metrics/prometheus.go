// Package metrics provides Prometheus metrics for framerank analysis runs.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns the collectors for one registry.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Input metrics
	recordsLoaded *prometheus.CounterVec
	sourcesFailed prometheus.Counter

	// Core computation metrics
	histogramsBuilt     prometheus.Counter
	histogramThresholds *prometheus.GaugeVec
	selections          *prometheus.CounterVec

	// Materialization metrics
	framesCopied  *prometheus.CounterVec
	framesMissing *prometheus.CounterVec

	// Errors and timings
	errorsByComponent *prometheus.CounterVec
	stageDuration     *prometheus.HistogramVec
	lastRunUnix       prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// Configure replaces the global manager and its registry with one built from
// opts. Call it once at startup, before anything is recorded.
func Configure(opts ...Option) {
	customRegistry = prometheus.NewRegistry()
	globalManager = NewManager(append(opts, WithPrometheusRegistry(customRegistry))...)
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "framerank",
		subsystem:        "analysis",
		histogramBuckets: []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000, 5000},
		enabled:          true,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)
	constLabels := prometheus.Labels(m.customLabels)

	m.recordsLoaded = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "records_loaded_total",
		Help:        "Total number of score records loaded per source",
		ConstLabels: constLabels,
	}, []string{"source"})

	m.sourcesFailed = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "sources_failed_total",
		Help:        "Total number of score sources skipped because they could not be loaded",
		ConstLabels: constLabels,
	})

	m.histogramsBuilt = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "histograms_built_total",
		Help:        "Total number of threshold histograms built",
		ConstLabels: constLabels,
	})

	m.histogramThresholds = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "histogram_max_threshold",
		Help:        "Largest threshold (max score + 1) of the last histogram built per source",
		ConstLabels: constLabels,
	}, []string{"source"})

	m.selections = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "frames_selected_total",
		Help:        "Total number of frames selected by category",
		ConstLabels: constLabels,
	}, []string{"category"})

	m.framesCopied = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "frames_copied_total",
		Help:        "Total number of frame images copied by category",
		ConstLabels: constLabels,
	}, []string{"category"})

	m.framesMissing = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "frames_missing_total",
		Help:        "Total number of selected frames whose image could not be found",
		ConstLabels: constLabels,
	}, []string{"category"})

	m.errorsByComponent = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "errors_total",
		Help:        "Total number of errors by component and kind",
		ConstLabels: constLabels,
	}, []string{"component", "kind"})

	m.stageDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "stage_duration_milliseconds",
		Help:        "Duration of analysis stages in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: constLabels,
	}, []string{"stage"})

	m.lastRunUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "last_run_timestamp_seconds",
		Help:        "Unix time the last analysis run finished",
		ConstLabels: constLabels,
	})
}

// RecordRecordsLoaded adds n loaded records for source.
func (m *Manager) RecordRecordsLoaded(source string, n int) {
	if m.enabled {
		m.recordsLoaded.WithLabelValues(source).Add(float64(n))
	}
}

// RecordSourceFailed counts a source that was skipped.
func (m *Manager) RecordSourceFailed() {
	if m.enabled {
		m.sourcesFailed.Inc()
	}
}

// RecordHistogramBuilt counts a histogram and remembers its domain size.
func (m *Manager) RecordHistogramBuilt(source string, maxThreshold int) {
	if m.enabled {
		m.histogramsBuilt.Inc()
		m.histogramThresholds.WithLabelValues(source).Set(float64(maxThreshold))
	}
}

// RecordSelection adds n selected frames for category.
func (m *Manager) RecordSelection(category string, n int) {
	if m.enabled {
		m.selections.WithLabelValues(category).Add(float64(n))
	}
}

// RecordFrameCopied counts one copied image.
func (m *Manager) RecordFrameCopied(category string) {
	if m.enabled {
		m.framesCopied.WithLabelValues(category).Inc()
	}
}

// RecordFrameMissing counts one image that could not be found.
func (m *Manager) RecordFrameMissing(category string) {
	if m.enabled {
		m.framesMissing.WithLabelValues(category).Inc()
	}
}

// RecordError counts an error for component.
func (m *Manager) RecordError(component, kind string) {
	if m.enabled {
		m.errorsByComponent.WithLabelValues(component, kind).Inc()
	}
}

// ObserveStage records how long stage took since start.
func (m *Manager) ObserveStage(stage string, start time.Time) {
	if m.enabled {
		m.stageDuration.WithLabelValues(stage).Observe(float64(time.Since(start).Microseconds()) / 1000)
	}
}

// MarkRunFinished stamps the last run gauge with now.
func (m *Manager) MarkRunFinished() {
	if m.enabled {
		m.lastRunUnix.SetToCurrentTime()
	}
}

// Package-level helpers delegate to the global manager.

// RecordRecordsLoaded adds n loaded records for source.
func RecordRecordsLoaded(source string, n int) { globalManager.RecordRecordsLoaded(source, n) }

// RecordSourceFailed counts a source that was skipped.
func RecordSourceFailed() { globalManager.RecordSourceFailed() }

// RecordHistogramBuilt counts a histogram and remembers its domain size.
func RecordHistogramBuilt(source string, maxThreshold int) {
	globalManager.RecordHistogramBuilt(source, maxThreshold)
}

// RecordSelection adds n selected frames for category.
func RecordSelection(category string, n int) { globalManager.RecordSelection(category, n) }

// RecordFrameCopied counts one copied image.
func RecordFrameCopied(category string) { globalManager.RecordFrameCopied(category) }

// RecordFrameMissing counts one image that could not be found.
func RecordFrameMissing(category string) { globalManager.RecordFrameMissing(category) }

// RecordError counts an error for component.
func RecordError(component, kind string) { globalManager.RecordError(component, kind) }

// ObserveStage records how long stage took since start.
func ObserveStage(stage string, start time.Time) { globalManager.ObserveStage(stage, start) }

// MarkRunFinished stamps the last run gauge with now.
func MarkRunFinished() { globalManager.MarkRunFinished() }

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// WriteTextfile dumps g in the node exporter textfile format. The file is
// written atomically so a scraper never reads a partial file.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWriteTextfile, path, err)
	}
	return nil
}
