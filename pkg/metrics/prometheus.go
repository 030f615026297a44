// Package metrics provides Prometheus metrics for pipeline runs.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns the pipeline metrics.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer
	gatherer         prometheus.Gatherer

	// Input and filtering
	recordsLoaded   *prometheus.CounterVec
	recordsExcluded *prometheus.CounterVec

	// Procurement
	entities           prometheus.Counter
	locationsRecovered prometheus.Counter
	concentrationRows  *prometheus.CounterVec

	// Electoral
	electionRows prometheus.Counter

	// Merge
	mergedRows    prometheus.Counter
	unmatchedKeys prometheus.Counter
	ambiguousKeys prometheus.Counter

	stageDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager. Without WithPrometheusRegistry it
// registers on a fresh private registry.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "secopvotes",
		subsystem:        "pipeline",
		histogramBuckets: prometheus.ExponentialBuckets(0.01, 4, 8),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		reg := prometheus.NewRegistry()
		m.registry, m.gatherer = reg, reg
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)
	counter := func(name, help string) prometheus.Counter {
		return auto.NewCounter(prometheus.CounterOpts{
			Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
		})
	}
	counterVec := func(name, help string, labels ...string) *prometheus.CounterVec {
		return auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
		}, labels)
	}

	m.recordsLoaded = counterVec("records_loaded_total", "Contract records read per source", "source")
	m.recordsExcluded = counterVec("records_excluded_total", "Records dropped per stage and reason", "stage", "reason")
	m.entities = counter("entities_total", "Entities retained by the contract threshold")
	m.locationsRecovered = counter("locations_recovered_total", "Entity locations recovered from the gazetteer")
	m.concentrationRows = counterVec("concentration_rows_total", "Concentration results per window", "window")
	m.electionRows = counter("election_rows_total", "Contested municipalities written")
	m.mergedRows = counter("merged_rows_total", "Rows written to the merged table")
	m.unmatchedKeys = counter("unmatched_keys_total", "Distinct procurement locations without an electoral match")
	m.ambiguousKeys = counter("ambiguous_keys_total", "Electoral locations repeated within one year")

	m.stageDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "stage_duration_seconds",
		Help:        "Wall time per pipeline stage",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"stage"})
}

// RecordLoaded counts n records read from source.
func (m *Manager) RecordLoaded(source string, n int) {
	m.recordsLoaded.WithLabelValues(source).Add(float64(n))
}

// RecordExcluded counts n records dropped by stage for reason.
func (m *Manager) RecordExcluded(stage, reason string, n int) {
	if n > 0 {
		m.recordsExcluded.WithLabelValues(stage, reason).Add(float64(n))
	}
}

// RecordEntities counts retained entities.
func (m *Manager) RecordEntities(n int) { m.entities.Add(float64(n)) }

// RecordRecovered counts recovered locations.
func (m *Manager) RecordRecovered(n int) { m.locationsRecovered.Add(float64(n)) }

// RecordConcentrationRows counts results computed for window.
func (m *Manager) RecordConcentrationRows(window string, n int) {
	m.concentrationRows.WithLabelValues(window).Add(float64(n))
}

// RecordElectionRows counts contested municipalities.
func (m *Manager) RecordElectionRows(n int) { m.electionRows.Add(float64(n)) }

// RecordMerge counts the outcome of the merge stage.
func (m *Manager) RecordMerge(merged, unmatched, ambiguous int) {
	m.mergedRows.Add(float64(merged))
	m.unmatchedKeys.Add(float64(unmatched))
	m.ambiguousKeys.Add(float64(ambiguous))
}

// ObserveStage records how long stage took.
func (m *Manager) ObserveStage(stage string, d time.Duration) {
	m.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// Gatherer returns the registry the manager exposes, or nil when the
// configured registerer cannot be gathered.
func (m *Manager) Gatherer() prometheus.Gatherer { return m.gatherer }

// WriteTextfile writes every metric to path in the node-exporter textfile format.
func (m *Manager) WriteTextfile(path string) error {
	if m.gatherer == nil {
		return fmt.Errorf("%w: registry cannot be gathered", ErrTextfile)
	}
	if err := prometheus.WriteToTextfile(path, m.gatherer); err != nil {
		return fmt.Errorf("%w: %v", ErrTextfile, err)
	}
	return nil
}

// Default returns the process-wide manager.
func Default() *Manager { return globalManager }

// GetRegistry returns the custom Prometheus registry used by the default manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
