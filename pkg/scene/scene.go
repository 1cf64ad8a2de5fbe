// Package scene holds render-ready draw commands in device coordinates.
//
// A [Scene] is what the core hands to a renderer: a list of circles (one
// per node) and a list of lines (one per edge), with every visual
// attribute already resolved. Renderers draw lines first, then circles,
// then labels, so labels are never hidden by edges.
//
// Scenes serialize to JSON, which is both the HTTP API response format and
// the "json" output format of the CLI.
package scene

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/google/uuid"

	"github.com/matzehuels/conceptmap/pkg/concept"
	"github.com/matzehuels/conceptmap/pkg/viewport"
)

// Scene is one frame's worth of draw commands.
type Scene struct {
	ID         string        `json:"id"`
	Width      int           `json:"width"`
	Height     int           `json:"height"`
	Background viewport.RGB  `json:"background"`
	Offset     concept.Point `json:"offset"`
	Circles    []Circle      `json:"circles"`
	Lines      []Line        `json:"lines"`
	Stats      Stats         `json:"stats"`
}

// Circle is a filled node disc with a centred label.
type Circle struct {
	NodeID    concept.ID    `json:"node_id"`
	Center    concept.Point `json:"center"`
	Radius    int           `json:"radius"`
	Fill      viewport.RGB  `json:"fill"`
	Label     string        `json:"label"`
	FontSize  int           `json:"font_size"`
	TextColor viewport.RGB  `json:"text_color"`
}

// Line is an edge between two node centres.
type Line struct {
	A     concept.ID    `json:"a"`
	B     concept.ID    `json:"b"`
	From  concept.Point `json:"from"`
	To    concept.Point `json:"to"`
	Color viewport.RGB  `json:"color"`
	Width float64       `json:"width"`
}

// Stats describes the graph a scene was built from.
type Stats struct {
	Nodes    int `json:"nodes"`
	Edges    int `json:"edges"`
	MaxCount int `json:"max_count"`
}

// Label formats a node label as "text (count)".
func Label(text string, count int) string {
	return text + " (" + strconv.Itoa(count) + ")"
}

// Build resolves every node and edge of g into draw commands for vp. The
// graph is not modified. An empty graph produces a scene with no circles
// and no lines.
func Build(g *concept.Graph, vp *viewport.Viewport, style viewport.Style) *Scene {
	s := &Scene{
		ID:         uuid.NewString(),
		Width:      vp.Device.Width,
		Height:     vp.Device.Height,
		Background: style.Background,
		Offset:     vp.Offset,
		Circles:    []Circle{},
		Lines:      []Line{},
		Stats: Stats{
			Nodes:    g.NodeCount(),
			Edges:    g.EdgeCount(),
			MaxCount: g.MaxCount(),
		},
	}
	if g.Empty() {
		return s
	}

	ratio := vp.Ratio()
	centers := make(map[concept.ID]concept.Point, g.NodeCount())
	for _, n := range g.Nodes() {
		center := vp.ToDevice(n.Pos)
		centers[n.ID] = center
		radius := style.Radius(n.Count, s.Stats.MaxCount, ratio)
		s.Circles = append(s.Circles, Circle{
			NodeID:    n.ID,
			Center:    center,
			Radius:    radius,
			Fill:      style.Color(n.Count, s.Stats.MaxCount),
			Label:     Label(n.Text, n.Count),
			FontSize:  style.FontSize(radius),
			TextColor: style.Text,
		})
	}

	width := max(style.EdgeWidth*ratio, 1)
	for _, e := range g.Edges() {
		s.Lines = append(s.Lines, Line{
			A:     e.A,
			B:     e.B,
			From:  centers[e.A],
			To:    centers[e.B],
			Color: style.Edge,
			Width: width,
		})
	}
	return s
}

// Empty reports whether the scene has nothing to draw.
func (s *Scene) Empty() bool { return len(s.Circles) == 0 }

// Marshal encodes the scene as indented JSON.
func (s *Scene) Marshal() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// Unmarshal decodes a scene produced by Marshal.
func Unmarshal(data []byte) (*Scene, error) {
	var s Scene
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	return &s, nil
}

// WriteFile saves the scene as JSON.
func (s *Scene) WriteFile(path string) error {
	data, err := s.Marshal()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadFile loads a scene saved with WriteFile.
func ReadFile(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Unmarshal(data)
}
