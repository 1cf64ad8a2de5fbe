package nodelink

import (
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
			{NodeID: 0, Center: concept.Point{X: 100, Y: 100}, Radius: 36, Fill: viewport.RGB{G: 255}, Label: "gato (2)", FontSize: 21},
			{NodeID: 1, Center: concept.Point{X: 400, Y: 500}, Radius: 20, Fill: viewport.RGB{R: 255}, Label: "perro (1)", FontSize: 12},
		},
		Lines: []scene.Line{{A: 0, B: 1, Color: viewport.RGB{R: 100, G: 100, B: 100}, Width: 2}},
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(testScene(), Options{})

	for _, want := range []string{
		"graph G {",
		`n0 [label="gato", pos="100,500!", width=1,`,
		`fillcolor="#00ff00"`,
		`n1 [label="perro", pos="400,100!"`,
		`n0 -- n1 [color="#646464", penwidth=2];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOTCounts(t *testing.T) {
	dot := ToDOT(testScene(), Options{Counts: true})
	if !strings.Contains(dot, `label="gato (2)"`) {
		t.Errorf("DOT should keep counts:\n%s", dot)
	}
}

func TestToDOTEmpty(t *testing.T) {
	dot := ToDOT(&scene.Scene{Width: 800, Height: 600}, Options{})
	if strings.Contains(dot, "--") || !strings.HasSuffix(dot, "}\n") {
		t.Errorf("empty scene DOT:\n%s", dot)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="800pt" height="600pt" viewBox="0.00 0.00 800.00 600.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `width="800" height="600"`) {
		t.Errorf("normalizeViewBox = %s", out)
	}
}
