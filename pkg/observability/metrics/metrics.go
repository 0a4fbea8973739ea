// Package metrics records observability hook events as Prometheus metrics.
//
// A [Metrics] value owns a private registry, so several can coexist in one
// process (tests, multiple sessions) without colliding on the default
// registerer. Install it with [Metrics.Register] and flush it with
// [Metrics.WriteFile], which writes the text exposition format suitable for
// the node_exporter textfile collector.
//
//	m := metrics.New()
//	m.Register()
//	defer observability.Reset()
//	// ... apply commands ...
//	err := m.WriteFile("/var/lib/node_exporter/nodecanvas.prom")
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/nodecanvas/pkg/observability"
)

const namespace = "nodecanvas"

// Batch results.
const (
	resultCommitted = "committed"
	resultNoop      = "noop"
	resultError     = "error"
)

// Metrics implements every hook interface in package observability.
type Metrics struct {
	registry *prometheus.Registry

	batches       *prometheus.CounterVec
	commands      prometheus.Counter
	batchDuration prometheus.Histogram
	history       *prometheus.CounterVec

	stageRuns     *prometheus.CounterVec
	stageChanged  *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec

	cacheEvents *prometheus.CounterVec
	cacheBytes  *prometheus.CounterVec
}

var (
	_ observability.EngineHooks   = (*Metrics)(nil)
	_ observability.PipelineHooks = (*Metrics)(nil)
	_ observability.CacheHooks    = (*Metrics)(nil)
)

// New creates a Metrics with all collectors registered on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		batches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches_total",
			Help:      "Command batches applied, by result.",
		}, []string{"result"}),
		commands: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Commands submitted across all batches.",
		}),
		batchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_duration_seconds",
			Help:      "Time to apply a command batch including layout.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		history: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "history_total",
			Help:      "Undo and redo requests, by operation and whether history had an entry.",
		}, []string{"op", "result"}),
		stageRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "stage_runs_total",
			Help:      "Pipeline stage executions.",
		}, []string{"stage"}),
		stageChanged: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "stage_changed_nodes_total",
			Help:      "Nodes moved or changed by each pipeline stage.",
		}, []string{"stage"}),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "stage_duration_seconds",
			Help:      "Pipeline stage duration.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 8),
		}, []string{"stage"}),
		cacheEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "events_total",
			Help:      "Cache lookups and writes, by key type and event.",
		}, []string{"key_type", "event"}),
		cacheBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "written_bytes_total",
			Help:      "Bytes written to the cache, by key type.",
		}, []string{"key_type"}),
	}

	m.registry.MustRegister(
		m.batches, m.commands, m.batchDuration, m.history,
		m.stageRuns, m.stageChanged, m.stageDuration,
		m.cacheEvents, m.cacheBytes,
	)
	return m
}

// Register installs m as the engine, pipeline and cache hooks.
func (m *Metrics) Register() {
	observability.SetEngineHooks(m)
	observability.SetPipelineHooks(m)
	observability.SetCacheHooks(m)
}

// Gatherer exposes the registry for callers that serve or inspect it.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// WriteFile atomically writes the current metrics to path in the text
// exposition format.
func (m *Metrics) WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}

// =============================================================================
// Engine Hooks
// =============================================================================

func (m *Metrics) OnApply(_ context.Context, commands int, committed bool, duration time.Duration, err error) {
	result := resultNoop
	switch {
	case err != nil:
		result = resultError
	case committed:
		result = resultCommitted
	}
	m.batches.WithLabelValues(result).Inc()
	m.commands.Add(float64(commands))
	m.batchDuration.Observe(duration.Seconds())
}

func (m *Metrics) OnUndo(_ context.Context, ok bool) {
	m.history.WithLabelValues("undo", historyResult(ok)).Inc()
}

func (m *Metrics) OnRedo(_ context.Context, ok bool) {
	m.history.WithLabelValues("redo", historyResult(ok)).Inc()
}

func historyResult(ok bool) string {
	if ok {
		return "ok"
	}
	return "empty"
}

// =============================================================================
// Pipeline Hooks
// =============================================================================

func (m *Metrics) OnStageStart(_ context.Context, stage string, _ int) {
	m.stageRuns.WithLabelValues(stage).Inc()
}

func (m *Metrics) OnStageComplete(_ context.Context, stage string, changed int, duration time.Duration) {
	m.stageChanged.WithLabelValues(stage).Add(float64(changed))
	m.stageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// =============================================================================
// Cache Hooks
// =============================================================================

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheEvents.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheEvents.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheEvents.WithLabelValues(keyType, "set").Inc()
	m.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}
