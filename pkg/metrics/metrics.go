// Package metrics provides Prometheus metrics for the gridelo rating engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the rating engine.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Replay throughput
	resultsRead    prometheus.Counter
	pairsExtracted *prometheus.CounterVec
	pairsSkipped   *prometheus.CounterVec
	pairsNoContest prometheus.Counter
	ratingUpdates  prometheus.Counter

	// History
	snapshotsWritten      prometheus.Counter
	seasonCommitDuration  prometheus.Histogram
	seasonsCommitted      prometheus.Counter
	replayDuration        prometheus.Histogram

	// State
	entitiesTracked  *prometheus.GaugeVec
	duplicateResults prometheus.Counter

	// Errors
	errorsByComponent *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "gridelo",
		subsystem:        "rating",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	// Ensure metrics are registered on the configured registry (custom by default)
	factory := promauto.With(m.registry)

	m.resultsRead = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "results_read_total",
		Help:      "Session results read from the result repository.",
	})
	m.pairsExtracted = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "pairs_extracted_total",
		Help:      "Teammate pairs extracted, by session type.",
	}, []string{"session"})
	m.pairsSkipped = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "pairs_skipped_total",
		Help:      "Affiliation groupings skipped without a pairing, by reason.",
	}, []string{"reason"})
	m.pairsNoContest = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "pairs_no_contest_total",
		Help:      "Pairs compared with no informative signal (both unclassified).",
	})
	m.ratingUpdates = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "updates_total",
		Help:      "Pairwise rating updates applied to the rating store.",
	})
	m.snapshotsWritten = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshots_written_total",
		Help:      "Season snapshots appended to the history store.",
	})
	m.seasonCommitDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "season_commit_duration_ms",
		Help:      "Time to commit one season's snapshot batch in milliseconds.",
		Buckets:   m.histogramBuckets,
	})
	m.seasonsCommitted = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "seasons_committed_total",
		Help:      "Fully committed season snapshot batches.",
	})
	m.replayDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "replay_duration_ms",
		Help:      "Full baseline-to-present replay duration in milliseconds.",
		Buckets:   []float64{100, 500, 1000, 5000, 10000, 30000, 60000, 120000},
	})
	m.entitiesTracked = factory.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "entities_tracked",
		Help:      "Entities with live rating state, by kind.",
	}, []string{"kind"})
	m.duplicateResults = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "duplicate_results_total",
		Help:      "Duplicate session result rows dropped before pairing.",
	})
	m.errorsByComponent = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "errors_total",
		Help:      "Errors by component and kind.",
	}, []string{"component", "kind"})
}

// Registry returns the registry metrics are collected into. Exposed so a
// consuming process can mount an exporter if it wants one.
func Registry() *prometheus.Registry {
	return customRegistry
}

// Package-level helpers against the global manager.

// RecordResultsRead counts session results read from the source.
func RecordResultsRead(n int) {
	if globalManager.enabled {
		globalManager.resultsRead.Add(float64(n))
	}
}

// RecordPairExtracted counts one extracted teammate pair.
func RecordPairExtracted(session string) {
	if globalManager.enabled {
		globalManager.pairsExtracted.WithLabelValues(session).Inc()
	}
}

// RecordPairSkipped counts a grouping skipped without a pairing.
func RecordPairSkipped(reason string) {
	if globalManager.enabled {
		globalManager.pairsSkipped.WithLabelValues(reason).Inc()
	}
}

// RecordNoContest counts a pair with no informative signal.
func RecordNoContest() {
	if globalManager.enabled {
		globalManager.pairsNoContest.Inc()
	}
}

// RecordRatingUpdate counts one applied pairwise update.
func RecordRatingUpdate() {
	if globalManager.enabled {
		globalManager.ratingUpdates.Inc()
	}
}

// RecordSnapshotsWritten counts snapshots appended to the history.
func RecordSnapshotsWritten(n int) {
	if globalManager.enabled {
		globalManager.snapshotsWritten.Add(float64(n))
	}
}

// RecordSeasonCommit records one committed season batch and its duration.
func RecordSeasonCommit(durationMs float64) {
	if globalManager.enabled {
		globalManager.seasonsCommitted.Inc()
		globalManager.seasonCommitDuration.Observe(durationMs)
	}
}

// RecordReplayDuration records a full replay duration.
func RecordReplayDuration(durationMs float64) {
	if globalManager.enabled {
		globalManager.replayDuration.Observe(durationMs)
	}
}

// UpdateEntitiesTracked sets the live entity count for a kind.
func UpdateEntitiesTracked(kind string, n int) {
	if globalManager.enabled {
		globalManager.entitiesTracked.WithLabelValues(kind).Set(float64(n))
	}
}

// RecordDuplicateResult counts a dropped duplicate result row.
func RecordDuplicateResult() {
	if globalManager.enabled {
		globalManager.duplicateResults.Inc()
	}
}

// RecordErrorByComponent counts an error for a component.
func RecordErrorByComponent(component, kind string) {
	if globalManager.enabled {
		globalManager.errorsByComponent.WithLabelValues(component, kind).Inc()
	}
}
