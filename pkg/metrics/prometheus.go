// Package metrics exposes Prometheus metrics for the pick'em engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every metric the service records.
type Manager struct {
	namespace string
	subsystem string
	buckets   []float64
	registry  prometheus.Registerer

	// Ingestion pipeline
	picksIngested     prometheus.Counter
	picksDuplicate    prometheus.Counter
	picksRejected     prometheus.Counter
	outcomesResolved  prometheus.Counter
	queueSize         prometheus.Gauge
	queueCapacity     prometheus.Gauge
	queueEnqueueError prometheus.Counter
	workerCount       prometheus.Gauge
	workerErrors      prometheus.Counter
	ingestLatency     prometheus.Histogram

	// Engine operations
	ratingsComputed     prometheus.Counter
	consensusComputed   prometheus.Counter
	consensusEmpty      prometheus.Counter
	leaderboardsBuilt   *prometheus.CounterVec
	leaderboardSkipped  prometheus.Counter
	leaderboardDuration prometheus.Histogram

	// HTTP surface
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithRegistry sets the registerer metrics are attached to.
func WithRegistry(r prometheus.Registerer) Option {
	return func(m *Manager) {
		if r != nil {
			m.registry = r
		}
	}
}

// WithHistogramBuckets overrides the default latency buckets.
func WithHistogramBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.buckets = buckets
		}
	}
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry so the default Go collectors do not leak in.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // singleton registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers all metrics.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "pickem",
		subsystem: "engine",
		buckets:   prometheus.DefBuckets,
		registry:  prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.picksIngested = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "picks_ingested_total",
		Help: "Total number of picks accepted into the store",
	})
	m.picksDuplicate = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "picks_duplicate_total",
		Help: "Total number of duplicate pick submissions detected",
	})
	m.picksRejected = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "picks_rejected_total",
		Help: "Total number of pick submissions rejected (validation or backpressure)",
	})
	m.outcomesResolved = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "outcomes_resolved_total",
		Help: "Total number of pick outcomes resolved",
	})
	m.queueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_size",
		Help: "Current number of queued pick submissions",
	})
	m.queueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_capacity",
		Help: "Configured capacity of the pick submission queue",
	})
	m.queueEnqueueError = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_enqueue_errors_total",
		Help: "Total number of failed enqueue attempts",
	})
	m.workerCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "worker_count",
		Help: "Number of ingestion workers",
	})
	m.workerErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "worker_errors_total",
		Help: "Total number of worker processing errors",
	})
	m.ingestLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "ingest_latency_milliseconds",
		Help:    "Histogram of queue-to-store ingestion latency in milliseconds",
		Buckets: m.buckets,
	})

	m.ratingsComputed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "ratings_computed_total",
		Help: "Total number of rating computations",
	})
	m.consensusComputed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "consensus_computed_total",
		Help: "Total number of consensus computations",
	})
	m.consensusEmpty = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "consensus_empty_total",
		Help: "Total number of consensus requests with no decided weight",
	})
	m.leaderboardsBuilt = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "leaderboards_built_total",
		Help: "Total number of leaderboard builds by scope",
	}, []string{"scope"})
	m.leaderboardSkipped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "leaderboard_entries_skipped_total",
		Help: "Total number of leaderboard candidates skipped for missing profiles",
	})
	m.leaderboardDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "leaderboard_build_milliseconds",
		Help:    "Histogram of leaderboard build duration in milliseconds",
		Buckets: m.buckets,
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"endpoint", "method", "status"})
	m.httpDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "http_request_milliseconds",
		Help:    "Histogram of HTTP request duration in milliseconds",
		Buckets: m.buckets,
	}, []string{"endpoint", "method"})
}

// Package-level recording helpers against the global manager.

func RecordPickIngested()    { globalManager.picksIngested.Inc() }
func RecordPickDuplicate()   { globalManager.picksDuplicate.Inc() }
func RecordPickRejected()    { globalManager.picksRejected.Inc() }
func RecordOutcomeResolved() { globalManager.outcomesResolved.Inc() }

func UpdateQueueSize(n int)     { globalManager.queueSize.Set(float64(n)) }
func UpdateQueueCapacity(n int) { globalManager.queueCapacity.Set(float64(n)) }
func RecordQueueEnqueueError()  { globalManager.queueEnqueueError.Inc() }

func UpdateWorkerCount(n int) { globalManager.workerCount.Set(float64(n)) }
func RecordWorkerError()      { globalManager.workerErrors.Inc() }
func RecordIngestLatency(ms float64) {
	globalManager.ingestLatency.Observe(ms)
}

func RecordRatingComputed()    { globalManager.ratingsComputed.Inc() }
func RecordConsensusComputed() { globalManager.consensusComputed.Inc() }
func RecordConsensusEmpty()    { globalManager.consensusEmpty.Inc() }

func RecordLeaderboardBuilt(scope string) {
	globalManager.leaderboardsBuilt.WithLabelValues(scope).Inc()
}
func RecordLeaderboardEntrySkipped() { globalManager.leaderboardSkipped.Inc() }
func RecordLeaderboardDuration(ms float64) {
	globalManager.leaderboardDuration.Observe(ms)
}

func RecordHTTPRequest(endpoint, method, status string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}
func RecordHTTPRequestDuration(endpoint, method string, ms float64) {
	globalManager.httpDuration.WithLabelValues(endpoint, method).Observe(ms)
}

// GetRegistry returns the registry backing the global manager, for serving
// via promhttp.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
