package server

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/conceptmap/pkg/observability"
)

// Metrics records pipeline, oracle, cache and HTTP events in a private
// Prometheus registry. It implements every observability hook interface.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	builds        *prometheus.CounterVec
	buildDuration *prometheus.HistogramVec
	graphNodes    prometheus.Histogram
	graphEdges    prometheus.Histogram
	renders       *prometheus.CounterVec
	lookups       *prometheus.CounterVec
	queries       *prometheus.CounterVec
	cacheEvents   *prometheus.CounterVec
}

// NewMetrics creates metrics under namespace in a fresh registry.
func NewMetrics(namespace string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		builds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "graph_builds_total",
			Help:      "Graph builds by layout strategy and outcome",
		}, []string{"strategy", "outcome"}),
		buildDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "graph_build_duration_seconds",
			Help:      "Time to tokenize, link and lay out a graph",
			Buckets:   prometheus.DefBuckets,
		}, []string{"strategy"}),
		graphNodes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "graph_nodes",
			Help:      "Nodes per built graph",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
		graphEdges: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "graph_edges",
			Help:      "Edges per built graph",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}),
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "renders_total",
			Help:      "Rendered artifacts by format and outcome",
		}, []string{"format", "outcome"}),
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lexicon_lookups_total",
			Help:      "Sense lookups against the lexicon",
		}, []string{"outcome"}),
		queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "similarity_queries_total",
			Help:      "Similarity queries by whether a path existed",
		}, []string{"known"}),
		cacheEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_events_total",
			Help:      "Cache hits, misses and writes by key type",
		}, []string{"type", "event"}),
	}
	m.registry.MustRegister(
		m.httpRequests, m.httpDuration,
		m.builds, m.buildDuration, m.graphNodes, m.graphEdges,
		m.renders, m.lookups, m.queries, m.cacheEvents,
	)
	return m
}

// Registry exposes the registry for the /metrics handler.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Install registers m as the process-wide observability hooks.
func (m *Metrics) Install() {
	observability.SetPipelineHooks(m)
	observability.SetOracleHooks(m)
	observability.SetCacheHooks(m)
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (m *Metrics) observeHTTP(method, route string, status int, d time.Duration) {
	m.httpRequests.WithLabelValues(method, route, statusLabel(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// OnBuildStart implements observability.PipelineHooks.
func (m *Metrics) OnBuildStart(context.Context, string, int) {}

// OnBuildComplete implements observability.PipelineHooks.
func (m *Metrics) OnBuildComplete(_ context.Context, strategy string, nodes, edges int, d time.Duration, err error) {
	m.builds.WithLabelValues(strategy, outcome(err)).Inc()
	if err != nil {
		return
	}
	m.buildDuration.WithLabelValues(strategy).Observe(d.Seconds())
	m.graphNodes.Observe(float64(nodes))
	m.graphEdges.Observe(float64(edges))
}

func (m *Metrics) OnLayoutStart(context.Context, string, int)                     {}
func (m *Metrics) OnLayoutComplete(context.Context, string, time.Duration, error) {}
func (m *Metrics) OnRenderStart(context.Context, string)                          {}

// OnRenderComplete implements observability.PipelineHooks.
func (m *Metrics) OnRenderComplete(_ context.Context, format string, _ time.Duration, err error) {
	m.renders.WithLabelValues(format, outcome(err)).Inc()
}

func (m *Metrics) OnFrame(context.Context, int, time.Duration, error) {}

// OnLookup implements observability.OracleHooks.
func (m *Metrics) OnLookup(_ context.Context, _ string, _ int, _ time.Duration, err error) {
	m.lookups.WithLabelValues(outcome(err)).Inc()
}

// OnQuery implements observability.OracleHooks.
func (m *Metrics) OnQuery(_ context.Context, _ float64, known bool) {
	if known {
		m.queries.WithLabelValues("true").Inc()
	} else {
		m.queries.WithLabelValues("false").Inc()
	}
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheEvents.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheEvents.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, _ int) {
	m.cacheEvents.WithLabelValues(keyType, "set").Inc()
}

var (
	_ observability.PipelineHooks = (*Metrics)(nil)
	_ observability.OracleHooks   = (*Metrics)(nil)
	_ observability.CacheHooks    = (*Metrics)(nil)
)
