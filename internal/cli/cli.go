// Package cli implements the conceptmap command-line interface.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/conceptmap/pkg/buildinfo"
	"github.com/matzehuels/conceptmap/pkg/config"
	"github.com/matzehuels/conceptmap/pkg/layout"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "conceptmap"

	// redisPrefix namespaces conceptmap keys in a shared Redis.
	redisPrefix = appName + ":"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	overrides  overrides
}

// overrides are the persistent flags that take precedence over the config
// file. Only flags the user actually set are applied.
type overrides struct {
	layout  string
	seed    uint64
	width   int
	height  int
	lexicon string
	cache   string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level. Debug level also reports callers.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	c.Logger.SetReportCaller(level <= log.DebugLevel)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Conceptmap draws a concept graph of the words you type",
		Long: `Conceptmap turns free text into a graph of concepts: every significant word
becomes a circle sized by how often it occurs, and words whose meanings are
close in the lexicon's hypernym hierarchy are joined by a line.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.StringVar(&c.configPath, "config", config.Path(), "config file")
	pf.StringVar(&c.overrides.layout, "layout", "", "layout strategy: scatter or grid")
	pf.Uint64Var(&c.overrides.seed, "seed", 0, "scatter seed (0 = random every frame)")
	pf.IntVar(&c.overrides.width, "width", 0, "logical canvas width")
	pf.IntVar(&c.overrides.height, "height", 0, "logical canvas height")
	pf.StringVar(&c.overrides.lexicon, "lexicon", "", "lexicon backend: embedded, file, sqlite or mongo")
	pf.StringVar(&c.overrides.cache, "cache", "", "cache backend: none, memory, file or redis")

	root.AddCommand(c.runCommand())
	root.AddCommand(c.tuiCommand())
	root.AddCommand(c.buildCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.lexiconCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration
// =============================================================================

// loadConfig reads the config file and applies the flags set on cmd.
func (c *CLI) loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return config.Config{}, err
	}
	c.applyOverrides(cmd, &cfg)
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func (c *CLI) applyOverrides(cmd *cobra.Command, cfg *config.Config) {
	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}
	o := c.overrides
	if changed("layout") {
		cfg.Layout.Strategy = layout.Strategy(o.layout)
	}
	if changed("seed") {
		cfg.Layout.Seed = o.seed
	}
	if changed("width") {
		cfg.Canvas.Width = o.width
	}
	if changed("height") {
		cfg.Canvas.Height = o.height
	}
	if changed("lexicon") {
		cfg.Lexicon.Backend = o.lexicon
	}
	if changed("cache") {
		cfg.Cache.Backend = o.cache
	}
}

// setup loads the config and opens an engine for a command. The context
// carries the CLI logger.
func (c *CLI) setup(cmd *cobra.Command) (context.Context, config.Config, *engine, error) {
	ctx := c.context(cmd)
	cfg, err := c.loadConfig(cmd)
	if err != nil {
		return ctx, cfg, nil, err
	}
	eng, err := openEngine(ctx, cfg)
	if err != nil {
		return ctx, cfg, nil, err
	}
	return ctx, cfg, eng, nil
}

// context returns the command context carrying the CLI logger.
func (c *CLI) context(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return withLogger(ctx, commandLogger(c.Logger, cmd))
}
