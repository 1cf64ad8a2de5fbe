package frame

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	cerrors "github.com/matzehuels/conceptmap/pkg/errors"
	"github.com/matzehuels/conceptmap/pkg/observability"
	"github.com/matzehuels/conceptmap/pkg/pipeline"
	"github.com/matzehuels/conceptmap/pkg/render"
	"github.com/matzehuels/conceptmap/pkg/scene"
	"github.com/matzehuels/conceptmap/pkg/viewport"
)

// DefaultFPS caps the frame rate.
const DefaultFPS = 60

// Loop drives frames until a Quit event, context cancellation, MaxFrames,
// or a build error.
type Loop struct {
	Source   TextSource
	Events   EventSource // optional
	Renderer render.Renderer
	Runner   *pipeline.Runner
	Options  pipeline.Options
	Style    viewport.Style
	Session  *Session

	// FPS caps frames per second; <= 0 disables the cap.
	FPS float64
	// MaxFrames stops after that many frames; 0 is unbounded.
	MaxFrames int

	// OnFrame, if set, receives every rendered scene and build result.
	OnFrame func(s *scene.Scene, res *pipeline.Result)

	Logger *log.Logger
}

// Run executes the loop and returns the number of frames drawn. A build
// or render error ends the loop before anything is drawn for that frame.
func (l *Loop) Run(ctx context.Context) (int, error) {
	if l.Source == nil || l.Renderer == nil || l.Runner == nil {
		return 0, cerrors.New(cerrors.ErrCodeInternal, "frame loop needs a source, a renderer and a runner")
	}
	logger := l.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	l.Options.SetDefaults()
	if l.Session == nil {
		pad := float64(l.Options.Layout.Margin + l.Options.Layout.MaxRadius)
		canvas := viewport.Size{Width: l.Options.Layout.Width, Height: l.Options.Layout.Height}
		l.Session = NewSession(canvas, viewport.Size{}, pad)
	}

	limit := rate.Inf
	if l.FPS > 0 {
		limit = rate.Limit(l.FPS)
	}
	limiter := rate.NewLimiter(limit, 1)

	drawn := 0
	for l.MaxFrames == 0 || drawn < l.MaxFrames {
		if err := limiter.Wait(ctx); err != nil {
			return drawn, nil
		}
		if l.poll() {
			logger.Debug("quit requested", "frame", drawn)
			return drawn, nil
		}

		input, err := l.Source.Next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return drawn, nil
			}
			return drawn, err
		}
		if ex, ok := l.Source.(Exhaustible); ok && input == "" && ex.Exhausted() {
			logger.Debug("input exhausted", "frame", drawn)
			return drawn, nil
		}
		// Events queued while waiting apply to this frame.
		if l.poll() {
			logger.Debug("quit requested", "frame", drawn)
			return drawn, nil
		}

		if err := l.frame(ctx, input, logger); err != nil {
			return drawn, err
		}
		drawn++
	}
	return drawn, nil
}

func (l *Loop) poll() bool {
	if l.Events == nil {
		return false
	}
	for _, ev := range l.Events.Poll() {
		if l.Session.Apply(ev) {
			return true
		}
	}
	return false
}

func (l *Loop) frame(ctx context.Context, input string, logger *log.Logger) (err error) {
	start := time.Now()
	defer func() {
		observability.Pipeline().OnFrame(ctx, l.Session.Frame, time.Since(start), err)
	}()

	res, err := l.Runner.Build(ctx, input, l.Options)
	if err != nil {
		return err
	}
	l.Session.Update(res.Graph)

	s := pipeline.Scene(res, l.Session.Viewport, l.Style)
	if err := l.Renderer.Render(ctx, s); err != nil {
		return err
	}
	if l.OnFrame != nil {
		l.OnFrame(s, res)
	}
	logger.Info("frame",
		"frame", l.Session.Frame,
		"tokens", res.Stats.TokenCount,
		"nodes", res.Stats.NodeCount,
		"edges", res.Stats.EdgeCount,
		"duration", time.Since(start).Round(time.Microsecond))
	return nil
}
