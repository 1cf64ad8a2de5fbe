// Package cli implements the conceptmap command-line interface.
//
// The commands read text, build a concept graph through the shared
// pipeline and draw it. The CLI is built using cobra; status output uses
// lipgloss and logging uses charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - run: Interactive frame loop reading one text per line from stdin
//   - tui: Full-screen terminal UI with text entry and panning
//   - build: One-shot text to PNG, SVG, DOT, JSON or PDF
//   - serve: HTTP API with Prometheus metrics
//   - lexicon: Look up senses, score word pairs, import TOML lexicons
//   - cache, config: Manage the result cache and the config file
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context so library code logs frame and build
// details with the same settings.
//
// # Example
//
//	c := cli.New(os.Stderr, cli.LogInfo)
//	if err := c.RootCommand().ExecuteContext(ctx); err != nil {
//	    os.Exit(1)
//	}
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// newLogger creates the CLI logger. At debug level it also reports the
// caller, so frame, oracle and cache messages can be traced to their source.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		ReportCaller:    level <= log.DebugLevel,
		Level:           level,
	})
}

// commandLogger prefixes l with the subcommand path without the binary
// name, e.g. "lexicon import". The root command keeps l unchanged.
func commandLogger(l *log.Logger, cmd *cobra.Command) *log.Logger {
	if cmd == nil || !cmd.HasParent() {
		return l
	}
	path := cmd.CommandPath()
	if root := cmd.Root().Name(); len(path) > len(root) {
		path = path[len(root)+1:]
	}
	return l.WithPrefix(path)
}

// progress times one long-running step, such as a frame loop or a lexicon
// import, and logs its outcome with the elapsed time as a field.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with keyvals and the elapsed time rounded to the
// millisecond, e.g. "Imported synsets count=58 elapsed=1.234s".
func (p *progress) done(msg string, keyvals ...any) {
	keyvals = append(keyvals, "elapsed", time.Since(p.start).Round(time.Millisecond))
	p.logger.Info(msg, keyvals...)
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger attaches l to ctx for loggerFromContext.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached to ctx, or log.Default()
// for contexts built outside a command (tests, library callers).
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
