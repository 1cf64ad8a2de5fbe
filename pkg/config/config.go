// Package config loads and saves the conceptmap TOML configuration.
//
// The file lives at $XDG_CONFIG_HOME/conceptmap/config.toml (or
// ~/.config/conceptmap/config.toml). Missing keys keep their defaults, a
// missing file means all defaults, and unknown keys are rejected so typos
// surface early.
//
// Components never see the Config itself: callers derive the sub-options
// they need with [Config.PipelineOptions], [Config.CanvasSize] and friends.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/conceptmap/pkg/concept"
	cerrors "github.com/matzehuels/conceptmap/pkg/errors"
	"github.com/matzehuels/conceptmap/pkg/layout"
	"github.com/matzehuels/conceptmap/pkg/linker"
	"github.com/matzehuels/conceptmap/pkg/pipeline"
	"github.com/matzehuels/conceptmap/pkg/text"
	"github.com/matzehuels/conceptmap/pkg/viewport"
)

// Lexicon backends.
const (
	LexiconEmbedded = "embedded"
	LexiconFile     = "file"
	LexiconSQLite   = "sqlite"
	LexiconMongo    = "mongo"
)

// Cache backends.
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheFile   = "file"
	CacheRedis  = "redis"
)

// Config holds conceptmap configuration.
type Config struct {
	Canvas  SizeConfig     `toml:"canvas"`
	Display SizeConfig     `toml:"display"`
	Filter  text.Options   `toml:"filter"`
	Graph   GraphConfig    `toml:"graph"`
	Layout  layout.Options `toml:"layout"`
	Style   viewport.Style `toml:"style"`
	Lexicon LexiconConfig  `toml:"lexicon"`
	Cache   CacheConfig    `toml:"cache"`
	Frame   FrameConfig    `toml:"frame"`
	Server  ServerConfig   `toml:"server"`
}

// SizeConfig is a width/height pair in pixels.
type SizeConfig struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// GraphConfig controls node registration and linking.
type GraphConfig struct {
	Threshold float64 `toml:"threshold"`
	Policy    string  `toml:"policy"` // empty: derived from layout strategy
}

// LexiconConfig selects where word senses come from.
type LexiconConfig struct {
	Backend    string `toml:"backend"` // "embedded", "file", "sqlite", "mongo"
	Path       string `toml:"path"`    // TOML lexicon for "file"
	DSN        string `toml:"dsn"`     // database file for "sqlite"
	URI        string `toml:"uri"`     // connection string for "mongo"
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// CacheConfig controls result caching.
type CacheConfig struct {
	Backend   string   `toml:"backend"` // "none", "memory", "file", "redis"
	Dir       string   `toml:"dir"`
	RedisAddr string   `toml:"redis_addr"`
	RedisDB   int      `toml:"redis_db"`
	TTL       Duration `toml:"ttl"`
}

// FrameConfig controls the interactive loop.
type FrameConfig struct {
	FPS    float64 `toml:"fps"`
	Prompt string  `toml:"prompt"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Addr    string `toml:"addr"`
	MaxBody int64  `toml:"max_body"`
}

// Duration is a time.Duration written as a string ("24h") in TOML.
type Duration struct {
	time.Duration
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Canvas:  SizeConfig{Width: layout.DefaultWidth, Height: layout.DefaultHeight},
		Filter:  text.DefaultOptions(),
		Graph:   GraphConfig{Threshold: linker.DefaultThreshold},
		Layout:  layout.DefaultOptions(),
		Style:   viewport.DefaultStyle(),
		Lexicon: LexiconConfig{Backend: LexiconEmbedded, Database: "lexicon", Collection: "synsets"},
		Cache: CacheConfig{
			Backend:   CacheNone,
			RedisAddr: "localhost:6379",
			TTL:       Duration{24 * time.Hour},
		},
		Frame:  FrameConfig{FPS: 60, Prompt: "Ingrese el texto: "},
		Server: ServerConfig{Addr: ":8080", MaxBody: cerrors.MaxTextBytes},
	}
}

// Dir returns the conceptmap config directory path.
func Dir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "conceptmap")
}

// Path returns the default config file path.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads the config at path on top of the defaults. A missing file
// yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, cerrors.Wrap(cerrors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, cerrors.Wrap(cerrors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, cerrors.New(cerrors.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path, creating parent directories.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}

// Encode returns cfg as TOML.
func Encode(cfg Config) (string, error) {
	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(cfg); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Validate checks every section.
func (c Config) Validate() error {
	if c.Display.Width < 0 || c.Display.Height < 0 {
		return cerrors.New(cerrors.ErrCodeInvalidConfig, "display size must not be negative")
	}
	if err := c.PipelineOptions().Validate(); err != nil {
		return err
	}
	if err := c.Style.Validate(); err != nil {
		return cerrors.Wrap(cerrors.ErrCodeInvalidConfig, err, "style")
	}
	if !slices.Contains([]string{LexiconEmbedded, LexiconFile, LexiconSQLite, LexiconMongo}, c.Lexicon.Backend) {
		return cerrors.New(cerrors.ErrCodeInvalidConfig, "unknown lexicon backend %q", c.Lexicon.Backend)
	}
	if c.Lexicon.Backend == LexiconFile && c.Lexicon.Path == "" {
		return cerrors.New(cerrors.ErrCodeInvalidConfig, "lexicon backend %q needs a path", LexiconFile)
	}
	if !slices.Contains([]string{CacheNone, CacheMemory, CacheFile, CacheRedis}, c.Cache.Backend) {
		return cerrors.New(cerrors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 {
		return cerrors.New(cerrors.ErrCodeInvalidConfig, "cache ttl must not be negative")
	}
	if c.Frame.FPS < 0 {
		return cerrors.New(cerrors.ErrCodeInvalidConfig, "frame fps must not be negative")
	}
	if c.Server.MaxBody <= 0 {
		return cerrors.New(cerrors.ErrCodeInvalidConfig, "server max_body must be positive")
	}
	return nil
}

// CanvasSize returns the logical canvas.
func (c Config) CanvasSize() viewport.Size {
	return viewport.Size{Width: c.Canvas.Width, Height: c.Canvas.Height}
}

// DisplaySize returns the device viewport, defaulting to the canvas.
func (c Config) DisplaySize() viewport.Size {
	if c.Display.Width <= 0 || c.Display.Height <= 0 {
		return c.CanvasSize()
	}
	return viewport.Size{Width: c.Display.Width, Height: c.Display.Height}
}

// LexiconName identifies the lexicon in cache keys.
func (c Config) LexiconName() string {
	switch c.Lexicon.Backend {
	case LexiconFile:
		return LexiconFile + ":" + c.Lexicon.Path
	case LexiconSQLite:
		return LexiconSQLite + ":" + c.Lexicon.DSN
	case LexiconMongo:
		return LexiconMongo + ":" + c.Lexicon.Database + "/" + c.Lexicon.Collection
	default:
		return LexiconEmbedded
	}
}

// PipelineOptions derives build options. The layout canvas follows
// [canvas] and the grid cell follows the style's max radius.
func (c Config) PipelineOptions() pipeline.Options {
	lo := c.Layout
	lo.Width = c.Canvas.Width
	lo.Height = c.Canvas.Height
	lo.MaxRadius = c.Style.MaxRadius
	return pipeline.Options{
		Filter:  c.Filter,
		Policy:  concept.Policy(c.Graph.Policy),
		Layout:  lo,
		Link:    linker.Options{Threshold: c.Graph.Threshold},
		Lexicon: c.LexiconName(),
	}
}

// ClampPad returns the padding kept around the graph when panning.
func (c Config) ClampPad() float64 {
	return float64(c.Layout.Margin + c.Style.MaxRadius)
}
