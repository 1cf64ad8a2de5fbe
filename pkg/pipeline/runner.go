package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/conceptmap/pkg/cache"
	"github.com/matzehuels/conceptmap/pkg/concept"
	cerrors "github.com/matzehuels/conceptmap/pkg/errors"
	"github.com/matzehuels/conceptmap/pkg/layout"
	"github.com/matzehuels/conceptmap/pkg/linker"
	"github.com/matzehuels/conceptmap/pkg/observability"
	"github.com/matzehuels/conceptmap/pkg/similarity"
	"github.com/matzehuels/conceptmap/pkg/text"
)

// Runner encapsulates pipeline execution with caching.
// The CLI, the TUI and the API all build through a Runner.
//
// The Runner is stateless except for its collaborators; it doesn't store
// results. Multiple goroutines can safely use the same Runner with
// different options as long as the oracle is concurrency-safe.
type Runner struct {
	Oracle similarity.Oracle
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(oracle similarity.Oracle, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Oracle: oracle,
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// cachedGraph is the cache envelope for a built graph.
type cachedGraph struct {
	Graph     concept.Snapshot `json:"graph"`
	LinkStats linker.Stats     `json:"link_stats"`
}

// Build runs tokenize → register → link → layout on input.
//
// An input with no surviving tokens yields an empty graph without
// querying the oracle. Oracle failures are returned with their code intact.
func (r *Runner) Build(ctx context.Context, input string, opts Options) (result *Result, err error) {
	if err := cerrors.ValidateText(input); err != nil {
		return nil, err
	}
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if r.Oracle == nil {
		return nil, cerrors.New(cerrors.ErrCodeInternal, "pipeline runner has no similarity oracle")
	}

	strategy := string(opts.Layout.Strategy)
	start := time.Now()
	observability.Pipeline().OnBuildStart(ctx, strategy, len(input))
	defer func() {
		nodes, edges := 0, 0
		if result != nil {
			nodes, edges = result.Stats.NodeCount, result.Stats.EdgeCount
		}
		observability.Pipeline().OnBuildComplete(ctx, strategy, nodes, edges, time.Since(start), err)
	}()

	result = &Result{TextHash: cache.Hash([]byte(input))}

	// Stage 1: Tokenize
	tokStart := time.Now()
	result.Tokens = text.NewFilter(opts.Filter).Tokens(input)
	result.Stats.TokenizeTime = time.Since(tokStart)
	result.Stats.TokenCount = len(result.Tokens)

	cacheKey := r.Keyer.GraphKey(result.TextHash, opts.GraphKeyOpts())
	if opts.Cacheable() && !opts.Refresh {
		if g, stats, ok := r.cached(ctx, cacheKey); ok {
			result.Graph = g
			result.LinkStats = stats
			result.CacheHit = true
			r.finish(result)
			r.Logger.Debug("graph cache hit", "nodes", result.Stats.NodeCount, "edges", result.Stats.EdgeCount)
			return result, nil
		}
	}

	// Stage 2: Register
	reg, err := concept.NewRegistry(opts.EffectivePolicy())
	if err != nil {
		return nil, cerrors.Wrap(cerrors.ErrCodeInvalidPolicy, err, "registry")
	}
	g := concept.Collect(reg, result.Tokens)

	// Stage 3: Link
	linkStart := time.Now()
	result.LinkStats, err = linker.Link(ctx, g, r.Oracle, opts.Link)
	result.Stats.LinkTime = time.Since(linkStart)
	if err != nil {
		return nil, fmt.Errorf("link: %w", err)
	}

	// Stage 4: Layout
	layoutStart := time.Now()
	if err := r.place(ctx, g, opts.Layout); err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Stats.LayoutTime = time.Since(layoutStart)

	result.Graph = g
	r.finish(result)

	if opts.Cacheable() {
		r.store(ctx, cacheKey, result)
	}

	r.Logger.Debug("built graph",
		"tokens", result.Stats.TokenCount,
		"nodes", result.Stats.NodeCount,
		"edges", result.Stats.EdgeCount,
		"queries", result.LinkStats.Queries,
		"duration", result.Stats.Total())
	return result, nil
}

func (r *Runner) place(ctx context.Context, g *concept.Graph, opts layout.Options) (err error) {
	start := time.Now()
	observability.Pipeline().OnLayoutStart(ctx, string(opts.Strategy), g.NodeCount())
	defer func() {
		observability.Pipeline().OnLayoutComplete(ctx, string(opts.Strategy), time.Since(start), err)
	}()

	l, err := layout.New(opts)
	if err != nil {
		return err
	}
	if grid, ok := l.(*layout.Grid); ok {
		if n := grid.Overflow(g.NodeCount()); n > 0 {
			r.Logger.Warn("grid overflows canvas", "nodes", g.NodeCount(), "overflow", n)
		}
	}
	return l.Place(g)
}

func (r *Runner) finish(result *Result) {
	result.Stats.NodeCount = result.Graph.NodeCount()
	result.Stats.EdgeCount = result.Graph.EdgeCount()
}

func (r *Runner) cached(ctx context.Context, key string) (*concept.Graph, linker.Stats, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Debug("graph cache read failed", "err", err)
		return nil, linker.Stats{}, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, "graph")
		return nil, linker.Stats{}, false
	}
	var env cachedGraph
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, linker.Stats{}, false
	}
	g, err := concept.FromSnapshot(env.Graph)
	if err != nil {
		// Corrupt entry: fall through and rebuild.
		return nil, linker.Stats{}, false
	}
	observability.Cache().OnCacheHit(ctx, "graph")
	return g, env.LinkStats, true
}

func (r *Runner) store(ctx context.Context, key string, result *Result) {
	data, err := json.Marshal(cachedGraph{Graph: result.Graph.Snapshot(), LinkStats: result.LinkStats})
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, data, cache.TTLGraph); err != nil {
		r.Logger.Debug("graph cache write failed", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, "graph", len(data))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
