package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/conceptmap/pkg/cache"
	"github.com/matzehuels/conceptmap/pkg/config"
	cerrors "github.com/matzehuels/conceptmap/pkg/errors"
	"github.com/matzehuels/conceptmap/pkg/lexicon"
	"github.com/matzehuels/conceptmap/pkg/lexicon/mongo"
	"github.com/matzehuels/conceptmap/pkg/lexicon/sqlite"
	"github.com/matzehuels/conceptmap/pkg/pipeline"
	"github.com/matzehuels/conceptmap/pkg/similarity"
)

// =============================================================================
// Engine - Lexicon, Oracle, Cache and Runner
// =============================================================================

// cacheSchema scopes every cache key. Bump it when cached senses or graphs
// change shape.
const cacheSchema = "v1:"

// engine bundles the collaborators every building command needs.
type engine struct {
	store    lexicon.Store
	taxonomy *lexicon.Taxonomy
	oracle   *similarity.Adapter
	cache    cache.Cache
	runner   *pipeline.Runner
}

// openEngine opens the configured lexicon and cache and probes the lexicon
// once so an unreachable backend fails before any text is read.
func openEngine(ctx context.Context, cfg config.Config) (*engine, error) {
	logger := loggerFromContext(ctx)

	store, err := openLexicon(ctx, cfg.Lexicon)
	if err != nil {
		return nil, err
	}
	c, err := openCache(ctx, cfg.Cache, logger)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	tx := lexicon.NewTaxonomy(store)
	if err := lexicon.Probe(ctx, tx); err != nil {
		_ = store.Close()
		_ = c.Close()
		return nil, err
	}
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), cacheSchema)
	oracle := similarity.NewAdapter(tx, similarity.Options{
		Lexicon: cfg.LexiconName(),
		Cache:   c,
		Keyer:   keyer,
		TTL:     cfg.Cache.TTL.Duration,
		Logger:  logger,
	})
	logger.Debug("engine ready", "lexicon", cfg.LexiconName(), "cache", cfg.Cache.Backend)

	return &engine{
		store:    store,
		taxonomy: tx,
		oracle:   oracle,
		cache:    c,
		runner:   pipeline.NewRunner(oracle, c, keyer, logger),
	}, nil
}

// Close releases the lexicon and the cache.
func (e *engine) Close() error {
	return errors.Join(e.store.Close(), e.runner.Close())
}

// openLexicon opens the configured lexicon store.
func openLexicon(ctx context.Context, lc config.LexiconConfig) (lexicon.Store, error) {
	switch lc.Backend {
	case config.LexiconEmbedded, "":
		return lexicon.Default(), nil
	case config.LexiconFile:
		s, err := lexicon.LoadFile(lc.Path)
		if err != nil {
			return nil, lexicon.Unavailable("file", err)
		}
		return s, nil
	case config.LexiconSQLite:
		return sqlite.Open(ctx, lc.DSN)
	case config.LexiconMongo:
		return mongo.Open(ctx, mongo.Options{
			URI:        lc.URI,
			Database:   lc.Database,
			Collection: lc.Collection,
		})
	default:
		return nil, cerrors.New(cerrors.ErrCodeInvalidConfig, "unknown lexicon backend %q", lc.Backend)
	}
}

// openCache opens the configured cache. An unreachable Redis degrades to
// no caching with a warning; a broken file cache directory is an error.
func openCache(ctx context.Context, cc config.CacheConfig, logger *log.Logger) (cache.Cache, error) {
	switch cc.Backend {
	case config.CacheNone, "":
		return cache.NewNullCache(), nil
	case config.CacheMemory:
		return cache.NewMemoryCache(), nil
	case config.CacheFile:
		dir, err := cacheDir(cc)
		if err != nil {
			return nil, err
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, cerrors.Wrap(cerrors.ErrCodeCache, err, "open cache %s", dir)
		}
		return fc, nil
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:   cc.RedisAddr,
			DB:     cc.RedisDB,
			Prefix: redisPrefix,
		})
		if err != nil {
			logger.Warn("redis unavailable, caching disabled", "addr", cc.RedisAddr, "err", err)
			return cache.NewNullCache(), nil
		}
		return rc, nil
	default:
		return nil, cerrors.New(cerrors.ErrCodeInvalidConfig, "unknown cache backend %q", cc.Backend)
	}
}

// cacheDir returns the file cache directory: the configured one, or the
// XDG user cache directory (~/.cache/conceptmap/).
func cacheDir(cc config.CacheConfig) (string, error) {
	if cc.Dir != "" {
		return cc.Dir, nil
	}
	dir, err := cache.DefaultDir()
	if err != nil {
		return "", fmt.Errorf("get cache dir: %w", err)
	}
	return dir, nil
}
