package svg

import (
	"encoding/xml"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/matzehuels/conceptmap/pkg/concept"
	"github.com/matzehuels/conceptmap/pkg/scene"
	"github.com/matzehuels/conceptmap/pkg/viewport"
)

func testScene() *scene.Scene {
	return &scene.Scene{
		Width:      800,
		Height:     600,
		Background: viewport.RGB{R: 255, G: 255, B: 255},
		Circles: []scene.Circle{
			{NodeID: 0, Center: concept.Point{X: 100, Y: 120}, Radius: 50, Fill: viewport.RGB{G: 255}, Label: "<gato> (2)", FontSize: 30},
			{NodeID: 1, Center: concept.Point{X: 300, Y: 120}, Radius: 35, Fill: viewport.RGB{R: 128, G: 127}, Label: "perro (1)", FontSize: 21},
		},
		Lines: []scene.Line{{A: 0, B: 1, From: concept.Point{X: 100, Y: 120}, To: concept.Point{X: 300, Y: 120}, Color: viewport.RGB{R: 100, G: 100, B: 100}, Width: 2}},
	}
}

func TestRenderSVG(t *testing.T) {
	out := string(RenderSVG(testScene(), WithNodeIDs()))

	for _, want := range []string{
		`viewBox="0 0 800 600"`,
		`<line x1="100" y1="120" x2="300" y2="120" stroke="#646464" stroke-width="2"/>`,
		`<circle id="node-0" cx="100" cy="120" r="50" fill="#00ff00"`,
		`font-size="30"`,
		`&lt;gato&gt; (2)`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("SVG missing %q", want)
		}
	}
	// Lines are drawn before circles.
	if strings.Index(out, "<line") > strings.Index(out, "<circle") {
		t.Error("edges should precede nodes")
	}
}

func TestRenderSVGWellFormed(t *testing.T) {
	for _, opts := range [][]Option{nil, {WithEmbeddedFont()}} {
		dec := xml.NewDecoder(strings.NewReader(string(RenderSVG(testScene(), opts...))))
		for {
			_, err := dec.Token()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				t.Fatalf("malformed SVG: %v", err)
			}
		}
	}
}

func TestRenderSVGDeterministic(t *testing.T) {
	a := RenderSVG(testScene())
	b := RenderSVG(testScene())
	if string(a) != string(b) {
		t.Error("RenderSVG should be deterministic")
	}
}
