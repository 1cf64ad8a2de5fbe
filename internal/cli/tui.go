package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	cerrors "github.com/matzehuels/conceptmap/pkg/errors"
	"github.com/matzehuels/conceptmap/pkg/frame"
	"github.com/matzehuels/conceptmap/pkg/pipeline"
	"github.com/matzehuels/conceptmap/pkg/render"
	"github.com/matzehuels/conceptmap/pkg/scene"
	"github.com/matzehuels/conceptmap/pkg/viewport"
)

// TUI styles
var (
	tuiInputStyle = lipgloss.NewStyle().Foreground(colorWhite)
	tuiHelpStyle  = lipgloss.NewStyle().Foreground(colorDim)
	tuiFrameStyle = lipgloss.NewStyle().Foreground(colorGray)
)

const (
	// panStep is the logical distance one arrow key press pans.
	panStep = 20

	// cellWidth and cellHeight approximate one terminal cell in pixels
	// when converting mouse drags into pan distances.
	cellWidth  = 8
	cellHeight = 16
)

// =============================================================================
// Messages
// =============================================================================

// builtMsg carries a finished build back to the model.
type builtMsg struct {
	text   string
	result *pipeline.Result
	err    error
}

// renderedMsg reports that a frame file was written.
type renderedMsg struct {
	frame int
	err   error
}

// tickMsg paces redraws after panning.
type tickMsg time.Time

// =============================================================================
// MapModel - Interactive concept map
// =============================================================================

// MapConfig holds what the TUI needs to build and draw frames.
type MapConfig struct {
	Runner   *pipeline.Runner
	Options  pipeline.Options
	Style    viewport.Style
	Session  *frame.Session
	Renderer render.Renderer
	FPS      float64
}

// MapModel is the bubbletea model for the interactive concept map.
// Typing edits the input line, Enter builds a new frame from it, arrow
// keys and middle-button drags pan the drawing.
type MapModel struct {
	ctx context.Context
	cfg MapConfig

	Input    string
	Last     string
	Result   *pipeline.Result
	Err      error
	Building bool
	Rendered int
	Height   int

	dirty     bool
	rendering bool
	dragging  bool
	dragX     int
	dragY     int
}

// NewMapModel creates a map model. Builds run under ctx.
func NewMapModel(ctx context.Context, cfg MapConfig) MapModel {
	if cfg.FPS <= 0 {
		cfg.FPS = frame.DefaultFPS
	}
	return MapModel{ctx: ctx, cfg: cfg, Height: 24}
}

func (m MapModel) Init() tea.Cmd {
	return m.tick()
}

func (m MapModel) tick() tea.Cmd {
	interval := time.Duration(float64(time.Second) / m.cfg.FPS)
	return tea.Tick(interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m MapModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.key(msg)

	case tea.MouseMsg:
		return m.mouse(msg), nil

	case tea.WindowSizeMsg:
		m.Height = msg.Height

	case builtMsg:
		m.Building = false
		if msg.err != nil {
			m.Err = msg.err
			if cerrors.IsFatal(msg.err) {
				return m, tea.Quit
			}
			return m, nil
		}
		m.Err = nil
		m.Last = msg.text
		m.Result = msg.result
		m.cfg.Session.Update(msg.result.Graph)
		m.dirty = true

	case renderedMsg:
		m.rendering = false
		if msg.err != nil {
			m.Err = msg.err
		} else {
			m.Rendered = msg.frame
		}

	case tickMsg:
		cmds := []tea.Cmd{m.tick()}
		if m.dirty && !m.rendering {
			m.dirty = false
			m.rendering = true
			cmds = append(cmds, m.render())
		}
		return m, tea.Batch(cmds...)
	}
	return m, nil
}

func (m MapModel) key(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyEnter:
		if m.Building {
			return m, nil
		}
		m.Building = true
		return m, m.build(m.Input)
	case tea.KeyBackspace:
		if r := []rune(m.Input); len(r) > 0 {
			m.Input = string(r[:len(r)-1])
		}
	case tea.KeyCtrlU:
		m.Input = ""
	case tea.KeyCtrlR:
		m.pan(frame.ResetPan{})
	case tea.KeyUp:
		m.pan(frame.Pan{DY: -panStep})
	case tea.KeyDown:
		m.pan(frame.Pan{DY: panStep})
	case tea.KeyLeft:
		m.pan(frame.Pan{DX: -panStep})
	case tea.KeyRight:
		m.pan(frame.Pan{DX: panStep})
	case tea.KeySpace:
		m.Input += " "
	case tea.KeyRunes:
		m.Input += string(msg.Runes)
	}
	return m, nil
}

// mouse pans while the middle button is held, following the pointer.
func (m MapModel) mouse(msg tea.MouseMsg) MapModel {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonMiddle {
			m.dragging = true
			m.dragX, m.dragY = msg.X, msg.Y
		}
	case tea.MouseActionMotion:
		if m.dragging {
			dx, dy := msg.X-m.dragX, msg.Y-m.dragY
			m.dragX, m.dragY = msg.X, msg.Y
			m.pan(frame.Pan{DX: float64(dx * cellWidth), DY: float64(dy * cellHeight)})
		}
	case tea.MouseActionRelease:
		m.dragging = false
	}
	return m
}

func (m *MapModel) pan(ev frame.Event) {
	m.cfg.Session.Apply(ev)
	m.dirty = true
}

// build runs the pipeline off the UI goroutine.
func (m MapModel) build(input string) tea.Cmd {
	ctx, runner, opts := m.ctx, m.cfg.Runner, m.cfg.Options
	return func() tea.Msg {
		res, err := runner.Build(ctx, input, opts)
		return builtMsg{text: input, result: res, err: err}
	}
}

// render snapshots the session into a scene now and writes it off the UI
// goroutine, so later pans never race with the encoder.
func (m MapModel) render() tea.Cmd {
	sess := m.cfg.Session
	s := scene.Build(sess.Graph, sess.Viewport, m.cfg.Style)
	ctx, r, n := m.ctx, m.cfg.Renderer, sess.Frame
	return func() tea.Msg {
		return renderedMsg{frame: n, err: r.Render(ctx, s)}
	}
}

func (m MapModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Conceptmap"))
	b.WriteString("\n\n")
	b.WriteString(styleIconPrompt.Render(iconPrompt) + " " + tuiInputStyle.Render(m.Input) + StyleDim.Render("█"))
	b.WriteString("\n\n")

	switch {
	case m.Building:
		b.WriteString(StyleDim.Render("building…"))
	case m.Err != nil:
		b.WriteString(styleIconError.Render(iconError) + " " + StyleError.Render(cerrors.UserMessage(m.Err)))
	case m.Result != nil:
		st := m.Result.Stats
		vp := m.cfg.Session.Viewport
		b.WriteString(tuiFrameStyle.Render(fmt.Sprintf(
			"frame %d · %d tokens · %d nodes · %d edges · pan %.0f,%.0f",
			m.cfg.Session.Frame, st.TokenCount, st.NodeCount, st.EdgeCount, vp.Offset.X, vp.Offset.Y)))
	default:
		b.WriteString(StyleDim.Render("type some text and press enter"))
	}
	b.WriteString("\n")

	if m.Result != nil && !m.cfg.Session.Graph.Empty() {
		b.WriteString("\n")
		b.WriteString(nodeTable(m.cfg.Session.Graph, max(m.Height-12, 3)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(tuiHelpStyle.Render("⏎ draw  ←↑↓→/middle-drag pan  ctrl+r reset pan  ctrl+u clear  esc quit"))
	return b.String()
}

// =============================================================================
// Command
// =============================================================================

// tuiCommand creates the tui command.
func (c *CLI) tuiCommand() *cobra.Command {
	var output, format string

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Interactive terminal UI: type text, watch the concept map update",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cfg, eng, err := c.setup(cmd)
			if err != nil {
				return err
			}
			defer eng.Close()

			renderer, err := newFrameRenderer(output, format)
			if err != nil {
				return err
			}

			model := NewMapModel(ctx, MapConfig{
				Runner:   eng.runner,
				Options:  cfg.PipelineOptions(),
				Style:    cfg.Style,
				Session:  frame.NewSession(cfg.CanvasSize(), cfg.DisplaySize(), cfg.ClampPad()),
				Renderer: renderer,
				FPS:      cfg.Frame.FPS,
			})

			final, err := tea.NewProgram(model,
				tea.WithContext(ctx),
				tea.WithAltScreen(),
				tea.WithMouseCellMotion(),
			).Run()
			if err != nil {
				return err
			}
			if m, ok := final.(MapModel); ok {
				if m.Err != nil && cerrors.IsFatal(m.Err) {
					return m.Err
				}
				if m.Rendered > 0 {
					printSuccess("Wrote frame %d", m.Rendered)
					printFile(renderer.Path)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "conceptmap.png", "frame output file (format from extension)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "frame format (overrides extension)")

	return cmd
}
