// Package pipeline provides the text → graph → scene pipeline for conceptmap.
//
// This package implements the complete tokenize → register → link → layout
// sequence that the CLI frame loop, the TUI and the HTTP API share. By
// centralizing it, every entry point builds identical graphs from identical
// input.
//
// # Architecture
//
// A build runs four stages:
//
//  1. Tokenize: split the text and drop stopwords, short words and gerunds
//  2. Register: turn tokens into nodes (deduplicating or per occurrence)
//  3. Link: query the similarity oracle for every unordered pair of nodes
//  4. Layout: place every node on the logical canvas
//
// [Scene] then maps the laid-out graph through a viewport into drawable
// circles and lines, and [Render] encodes a scene in one or more formats.
//
// # Usage
//
//	runner := pipeline.NewRunner(oracle, cache, nil, logger)
//	result, err := runner.Build(ctx, "el perro y el gato", pipeline.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	s := pipeline.Scene(result, viewport.New(canvas, display), style)
//
// Grid layouts and seeded scatter layouts are deterministic, so their
// linked, placed graphs are cached under [cache.Keyer.GraphKey].
package pipeline

import (
	"time"

	"github.com/matzehuels/conceptmap/pkg/cache"
	"github.com/matzehuels/conceptmap/pkg/concept"
	cerrors "github.com/matzehuels/conceptmap/pkg/errors"
	"github.com/matzehuels/conceptmap/pkg/layout"
	"github.com/matzehuels/conceptmap/pkg/linker"
	"github.com/matzehuels/conceptmap/pkg/text"
)

// DefaultLexicon names the lexicon namespace in cache keys when none is set.
const DefaultLexicon = "embedded"

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one build.
// This struct supports JSON serialization for API requests.
type Options struct {
	Filter text.Options   `json:"filter"`
	Policy concept.Policy `json:"policy,omitempty"` // empty: derived from the layout strategy
	Layout layout.Options `json:"layout"`
	Link   linker.Options `json:"link"`

	// Lexicon namespaces cache entries so graphs built against different
	// lexicons never collide.
	Lexicon string `json:"lexicon,omitempty"`
	Refresh bool   `json:"refresh,omitempty"`
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Filter:  text.DefaultOptions(),
		Layout:  layout.DefaultOptions(),
		Link:    linker.DefaultOptions(),
		Lexicon: DefaultLexicon,
	}
}

// SetDefaults fills zero-valued layout fields and the lexicon name.
// Threshold and filter options are left as given: zero is meaningful there.
func (o *Options) SetDefaults() {
	d := layout.DefaultOptions()
	if o.Layout.Strategy == "" {
		o.Layout.Strategy = d.Strategy
	}
	if o.Layout.Width == 0 {
		o.Layout.Width = d.Width
	}
	if o.Layout.Height == 0 {
		o.Layout.Height = d.Height
	}
	if o.Layout.MaxRadius == 0 {
		o.Layout.MaxRadius = d.MaxRadius
	}
	if o.Lexicon == "" {
		o.Lexicon = DefaultLexicon
	}
}

// Validate checks every sub-option.
func (o Options) Validate() error {
	if o.Filter.MinLength < 0 {
		return cerrors.New(cerrors.ErrCodeInvalidConfig, "filter min_length must be >= 0, got %d", o.Filter.MinLength)
	}
	if o.Policy != "" {
		if _, err := concept.ParsePolicy(string(o.Policy)); err != nil {
			return cerrors.Wrap(cerrors.ErrCodeInvalidPolicy, err, "graph policy")
		}
	}
	if err := o.Layout.Validate(); err != nil {
		return err
	}
	return o.Link.Validate()
}

// EffectivePolicy returns Policy, or the strategy's default when unset.
func (o Options) EffectivePolicy() concept.Policy {
	if o.Policy != "" {
		return o.Policy
	}
	return o.Layout.Strategy.DefaultPolicy()
}

// Cacheable reports whether builds with these options may be cached.
func (o Options) Cacheable() bool {
	return o.Layout.Deterministic()
}

// GraphKeyOpts returns cache key options for the built graph.
func (o Options) GraphKeyOpts() cache.GraphKeyOpts {
	return cache.GraphKeyOpts{
		Lexicon:   o.Lexicon,
		Policy:    string(o.EffectivePolicy()),
		Strategy:  string(o.Layout.Strategy),
		Seed:      o.Layout.Seed,
		Width:     o.Layout.Width,
		Height:    o.Layout.Height,
		Threshold: o.Link.Threshold,
		Filter:    cache.HashJSON(o.Filter),

		Margin:         o.Layout.Margin,
		Padding:        o.Layout.Padding,
		MaxRadius:      o.Layout.MaxRadius,
		ScatterPadding: o.Layout.ScatterPadding,
	}
}

// =============================================================================
// Results
// =============================================================================

// Result contains the outputs of a build.
type Result struct {
	// Graph is the linked, laid-out concept graph.
	Graph *concept.Graph

	// Tokens are the filtered tokens in input order.
	Tokens []text.Token

	// TextHash is the content hash of the input text.
	TextHash string

	// LinkStats reports what the graph builder did. Zero on a cache hit.
	LinkStats linker.Stats

	// Stats contains timing and size information.
	Stats Stats

	// CacheHit is true when the graph came from the cache.
	CacheHit bool
}

// Stats contains build statistics.
type Stats struct {
	TokenCount   int
	NodeCount    int
	EdgeCount    int
	TokenizeTime time.Duration
	LinkTime     time.Duration
	LayoutTime   time.Duration
}

// Total returns the summed stage durations.
func (s Stats) Total() time.Duration {
	return s.TokenizeTime + s.LinkTime + s.LayoutTime
}
