package cli

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	cerrors "github.com/matzehuels/conceptmap/pkg/errors"
	"github.com/matzehuels/conceptmap/pkg/frame"
	"github.com/matzehuels/conceptmap/pkg/layout"
	"github.com/matzehuels/conceptmap/pkg/pipeline"
	"github.com/matzehuels/conceptmap/pkg/render"
	"github.com/matzehuels/conceptmap/pkg/scene"
	"github.com/matzehuels/conceptmap/pkg/similarity"
	"github.com/matzehuels/conceptmap/pkg/viewport"
)

type sceneRecorder struct {
	scenes []*scene.Scene
}

func (r *sceneRecorder) Render(_ context.Context, s *scene.Scene) error {
	r.scenes = append(r.scenes, s)
	return nil
}

func newTestModel(oracle similarity.Oracle, rec render.Renderer) MapModel {
	opts := pipeline.DefaultOptions()
	opts.Layout.Strategy = layout.StrategyGrid
	opts.SetDefaults()
	canvas := viewport.Size{Width: opts.Layout.Width, Height: opts.Layout.Height}
	return NewMapModel(context.Background(), MapConfig{
		Runner:   pipeline.NewRunner(oracle, nil, nil, nil),
		Options:  opts,
		Style:    viewport.DefaultStyle(),
		Session:  frame.NewSession(canvas, viewport.Size{}, float64(opts.Layout.Margin+opts.Layout.MaxRadius)),
		Renderer: rec,
	})
}

func related(context.Context, string, string) (similarity.Score, error) {
	return similarity.Score{Value: 0.9, Known: true}, nil
}

// send feeds msg to m and runs any returned command that is not a timer,
// feeding its messages back in until the model settles.
func send(t *testing.T, m MapModel, msg tea.Msg) MapModel {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(MapModel)
	for _, out := range run(cmd) {
		m = send(t, m, out)
	}
	return m
}

func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	switch msg := cmd().(type) {
	case tickMsg:
		return nil
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range msg {
			out = append(out, run(c)...)
		}
		return out
	case nil:
		return nil
	default:
		if msg == tea.Quit() {
			return nil
		}
		return []tea.Msg{msg}
	}
}

func typeText(t *testing.T, m MapModel, s string) MapModel {
	for i, word := range strings.Split(s, " ") {
		if i > 0 {
			m = send(t, m, tea.KeyMsg{Type: tea.KeySpace})
		}
		m = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(word)})
	}
	return m
}

func TestMapModelTyping(t *testing.T) {
	m := newTestModel(similarity.Func(related), &sceneRecorder{})
	m = typeText(t, m, "perro gatos")
	m = send(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	if m.Input != "perro gato" {
		t.Errorf("Input = %q, want %q", m.Input, "perro gato")
	}
	m = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlU})
	if m.Input != "" {
		t.Errorf("Input after ctrl+u = %q, want empty", m.Input)
	}
}

func TestMapModelEnterBuildsAndRenders(t *testing.T) {
	rec := &sceneRecorder{}
	m := newTestModel(similarity.Func(related), rec)
	m = typeText(t, m, "perro gato casa")
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.Building {
		t.Fatal("model still building after the build message")
	}
	if m.Err != nil {
		t.Fatalf("Err = %v", m.Err)
	}
	if m.Last != "perro gato casa" {
		t.Errorf("Last = %q", m.Last)
	}
	if got := m.cfg.Session.Graph.NodeCount(); got != 3 {
		t.Errorf("nodes = %d, want 3", got)
	}
	if got := m.cfg.Session.Graph.EdgeCount(); got != 3 {
		t.Errorf("edges = %d, want 3", got)
	}

	m = send(t, m, tickMsg{})
	if len(rec.scenes) != 1 {
		t.Fatalf("rendered %d scenes, want 1", len(rec.scenes))
	}
	if m.Rendered != 1 {
		t.Errorf("Rendered = %d, want frame 1", m.Rendered)
	}

	// Nothing changed, so the next tick draws nothing.
	m = send(t, m, tickMsg{})
	if len(rec.scenes) != 1 {
		t.Errorf("idle tick rendered again (%d scenes)", len(rec.scenes))
	}
	if !strings.Contains(m.View(), "perro") {
		t.Errorf("view does not list the nodes:\n%s", m.View())
	}
}

func TestMapModelPanning(t *testing.T) {
	rec := &sceneRecorder{}
	m := newTestModel(similarity.Func(related), rec)
	m = typeText(t, m, "perro gato")
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = send(t, m, tickMsg{})

	m = send(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m = send(t, m, tea.KeyMsg{Type: tea.KeyDown})
	vp := m.cfg.Session.Viewport
	if vp.Offset.X != panStep || vp.Offset.Y != panStep {
		t.Errorf("offset after arrows = %v, want (%d,%d)", vp.Offset, panStep, panStep)
	}

	m = send(t, m, tea.MouseMsg{X: 10, Y: 5, Button: tea.MouseButtonMiddle, Action: tea.MouseActionPress})
	m = send(t, m, tea.MouseMsg{X: 12, Y: 6, Button: tea.MouseButtonMiddle, Action: tea.MouseActionMotion})
	m = send(t, m, tea.MouseMsg{X: 12, Y: 6, Button: tea.MouseButtonMiddle, Action: tea.MouseActionRelease})
	wantX, wantY := float64(panStep+2*cellWidth), float64(panStep+cellHeight)
	if vp.Offset.X != wantX || vp.Offset.Y != wantY {
		t.Errorf("offset after drag = %v, want (%v,%v)", vp.Offset, wantX, wantY)
	}

	// Motion without a held middle button does not pan.
	m = send(t, m, tea.MouseMsg{X: 40, Y: 20, Action: tea.MouseActionMotion})
	if vp.Offset.X != wantX {
		t.Errorf("offset moved without drag: %v", vp.Offset)
	}

	m = send(t, m, tickMsg{})
	last := rec.scenes[len(rec.scenes)-1]
	if last.Offset != vp.Offset {
		t.Errorf("rendered offset = %v, want %v", last.Offset, vp.Offset)
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	if vp.Offset.X != 0 || vp.Offset.Y != 0 {
		t.Errorf("offset after reset = %v, want origin", vp.Offset)
	}
	// Nodes keep their logical positions.
	if n, _ := m.cfg.Session.Graph.Node(0); n.Pos.X != 70 || n.Pos.Y != 70 {
		t.Errorf("node moved to %v", n.Pos)
	}
}

func TestMapModelBuildErrors(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		quits bool
	}{
		{"fatal oracle failure", cerrors.New(cerrors.ErrCodeLexiconUnavailable, "down"), true},
		{"input error", cerrors.New(cerrors.ErrCodeInvalidInput, "bad"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel(similarity.Func(related), &sceneRecorder{})
			next, cmd := m.Update(builtMsg{text: "x", err: tt.err})
			m = next.(MapModel)
			if m.Err == nil {
				t.Fatal("Err not recorded")
			}
			quits := cmd != nil && cmd() == tea.Quit()
			if quits != tt.quits {
				t.Errorf("quits = %v, want %v", quits, tt.quits)
			}
		})
	}
}

func TestMapModelQuitKeys(t *testing.T) {
	for _, k := range []tea.KeyType{tea.KeyEsc, tea.KeyCtrlC} {
		m := newTestModel(similarity.Func(related), &sceneRecorder{})
		_, cmd := m.Update(tea.KeyMsg{Type: k})
		if cmd == nil || cmd() != tea.Quit() {
			t.Errorf("key %v does not quit", k)
		}
	}
}
