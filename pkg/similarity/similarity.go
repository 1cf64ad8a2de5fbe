package similarity

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/conceptmap/pkg/cache"
	cerrors "github.com/matzehuels/conceptmap/pkg/errors"
	"github.com/matzehuels/conceptmap/pkg/lexicon"
	"github.com/matzehuels/conceptmap/pkg/observability"
	"github.com/matzehuels/conceptmap/pkg/text"
)

// Score is a similarity answer. Known is false when either term has no
// senses; Value is then 0 and meaningless.
type Score struct {
	Value float64 `json:"value"`
	Known bool    `json:"known"`
}

// Unknown is the answer for terms the lexicon does not know.
var Unknown = Score{}

// Oracle scores the relatedness of two terms.
type Oracle interface {
	Similarity(ctx context.Context, a, b string) (Score, error)
}

// Func adapts a plain function to the Oracle interface.
type Func func(ctx context.Context, a, b string) (Score, error)

// Similarity calls f(ctx, a, b).
func (f Func) Similarity(ctx context.Context, a, b string) (Score, error) {
	return f(ctx, a, b)
}

// Options configures an Adapter. The zero value is valid.
type Options struct {
	// Lexicon names the source in cache keys, e.g. "embedded" or
	// "sqlite:/var/lib/wn.db". Entries from different lexicons never mix.
	Lexicon string
	Cache   cache.Cache
	Keyer   cache.Keyer
	TTL     time.Duration
	Logger  *log.Logger
}

// Stats counts where sense sets came from.
type Stats struct {
	Lookups   int // resolved by the lexicon
	MemoHits  int // served from the in-process memo
	CacheHits int // served from the cache
}

// Adapter implements Oracle over a lexicon.Source. It is safe for
// concurrent use.
type Adapter struct {
	src    lexicon.Source
	opts   Options
	logger *log.Logger

	mu    sync.Mutex
	memo  map[string][]lexicon.Sense
	stats Stats
	group singleflight.Group
}

// NewAdapter creates an adapter over src.
func NewAdapter(src lexicon.Source, opts Options) *Adapter {
	if opts.Cache == nil {
		opts.Cache = cache.NewNullCache()
	}
	if opts.Keyer == nil {
		opts.Keyer = cache.NewDefaultKeyer()
	}
	if opts.TTL == 0 {
		opts.TTL = cache.TTLSense
	}
	if opts.Lexicon == "" {
		opts.Lexicon = "default"
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Adapter{
		src:    src,
		opts:   opts,
		logger: logger,
		memo:   make(map[string][]lexicon.Sense),
	}
}

// Similarity returns the best path similarity over all sense pairs of a
// and b, or Unknown if either term has no senses. A pair without a common
// ancestor contributes 0.
func (a *Adapter) Similarity(ctx context.Context, x, y string) (Score, error) {
	sx, err := a.Senses(ctx, x)
	if err != nil {
		return Unknown, err
	}
	sy, err := a.Senses(ctx, y)
	if err != nil {
		return Unknown, err
	}
	score := Best(a.src, sx, sy)
	observability.Oracle().OnQuery(ctx, score.Value, score.Known)
	return score, nil
}

// Best computes the maximum similarity across the cross product of two
// sense sets.
func Best(src lexicon.Source, sx, sy []lexicon.Sense) Score {
	if len(sx) == 0 || len(sy) == 0 {
		return Unknown
	}
	best := 0.0
	for _, s1 := range sx {
		for _, s2 := range sy {
			if v, ok := src.PathSimilarity(s1, s2); ok && v > best {
				best = v
			}
		}
	}
	return Score{Value: best, Known: true}
}

// Senses resolves term through memo, cache and lexicon, in that order.
// A malformed term has no senses; callers taking terms from users should
// check it with [cerrors.ValidateTerm] first.
func (a *Adapter) Senses(ctx context.Context, term string) ([]lexicon.Sense, error) {
	if err := cerrors.ValidateTerm(term); err != nil {
		a.logger.Debug("skipping malformed term", "err", err)
		return nil, nil
	}
	key := text.Normalize(term)

	if senses, ok := a.memoized(key); ok {
		return senses, nil
	}
	v, err, _ := a.group.Do(key, func() (any, error) {
		if senses, ok := a.memoized(key); ok {
			return senses, nil
		}
		senses, err := a.load(ctx, key)
		if err != nil {
			return nil, err
		}
		a.mu.Lock()
		a.memo[key] = senses
		a.mu.Unlock()
		return senses, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]lexicon.Sense), nil
}

func (a *Adapter) memoized(key string) ([]lexicon.Sense, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	senses, ok := a.memo[key]
	if ok {
		a.stats.MemoHits++
	}
	return senses, ok
}

func (a *Adapter) load(ctx context.Context, key string) ([]lexicon.Sense, error) {
	cacheKey := a.opts.Keyer.SenseKey(a.opts.Lexicon, key)
	if data, hit, err := a.opts.Cache.Get(ctx, cacheKey); err != nil {
		a.logger.Warn("sense cache read failed", "term", key, "err", err)
	} else if hit {
		var senses []lexicon.Sense
		if err := json.Unmarshal(data, &senses); err == nil {
			observability.Cache().OnCacheHit(ctx, "sense")
			a.count(func(s *Stats) { s.CacheHits++ })
			return senses, nil
		}
		a.logger.Warn("discarding corrupt sense cache entry", "term", key)
	} else {
		observability.Cache().OnCacheMiss(ctx, "sense")
	}

	start := time.Now()
	senses, err := a.src.Senses(ctx, key)
	observability.Oracle().OnLookup(ctx, key, len(senses), time.Since(start), err)
	if err != nil {
		return nil, cerrors.Wrap(cerrors.ErrCodeOracleFailure, err, "senses of %q", key)
	}
	a.count(func(s *Stats) { s.Lookups++ })
	a.logger.Debug("resolved senses", "term", key, "senses", len(senses), "duration", time.Since(start))

	if data, err := json.Marshal(senses); err == nil {
		if err := a.opts.Cache.Set(ctx, cacheKey, data, a.opts.TTL); err != nil {
			a.logger.Warn("sense cache write failed", "term", key, "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "sense", len(data))
		}
	}
	return senses, nil
}

func (a *Adapter) count(f func(*Stats)) {
	a.mu.Lock()
	f(&a.stats)
	a.mu.Unlock()
}

// Stats returns a snapshot of lookup counters.
func (a *Adapter) Stats() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stats
}

// Reset clears the in-process memo. Cached entries are kept.
func (a *Adapter) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	clear(a.memo)
	a.stats = Stats{}
}

var (
	_ Oracle = (*Adapter)(nil)
	_ Oracle = Func(nil)
)
