package frame

import (
	"github.com/matzehuels/conceptmap/pkg/concept"
	"github.com/matzehuels/conceptmap/pkg/viewport"
)

// Session is the state carried across frames.
type Session struct {
	Viewport *viewport.Viewport
	Graph    *concept.Graph
	Frame    int

	// Pad is the clamp padding around the graph bounds, in logical units.
	Pad float64
}

// NewSession starts a session on a logical canvas shown on a device
// viewport. A zero device size shows the canvas unscaled.
func NewSession(canvas, device viewport.Size, pad float64) *Session {
	return &Session{
		Viewport: viewport.New(canvas, device),
		Graph:    concept.New(),
		Pad:      pad,
	}
}

// Apply handles one event and reports whether it asks the loop to quit.
func (s *Session) Apply(ev Event) (quit bool) {
	switch ev := ev.(type) {
	case Quit:
		return true
	case Pan:
		s.Viewport.Pan(ev.DX, ev.DY)
		s.Viewport.ClampGraph(s.Graph, s.Pad)
	case ResetPan:
		s.Viewport.ResetPan()
	case Resize:
		s.Viewport.Resize(viewport.Size{Width: ev.Width, Height: ev.Height})
	}
	return false
}

// Update replaces the graph and clamps the pan offset to its bounds.
func (s *Session) Update(g *concept.Graph) {
	s.Graph = g
	s.Viewport.ClampGraph(g, s.Pad)
	s.Frame++
}
