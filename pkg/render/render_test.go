package render

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/conceptmap/pkg/concept"
	cerrors "github.com/matzehuels/conceptmap/pkg/errors"
	"github.com/matzehuels/conceptmap/pkg/scene"
	"github.com/matzehuels/conceptmap/pkg/viewport"
)

func testScene() *scene.Scene {
	g := concept.New()
	a := g.AddNode("gato", "gato")
	b := g.AddNode("minino", "minino")
	g.SetPos(a, concept.Point{X: 100, Y: 100})
	g.SetPos(b, concept.Point{X: 300, Y: 200})
	_ = g.AddEdge(a, b)
	return scene.Build(g, viewport.New(viewport.Size{Width: 400, Height: 300}, viewport.Size{}), viewport.DefaultStyle())
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"png", FormatPNG, false},
		{" SVG ", FormatSVG, false},
		{"json", FormatJSON, false},
		{"gif", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v", tt.in, got, err)
		}
		if err != nil && !cerrors.Is(err, cerrors.ErrCodeInvalidFormat) {
			t.Errorf("ParseFormat(%q) error code = %s", tt.in, cerrors.GetCode(err))
		}
	}
}

func TestParseFormats(t *testing.T) {
	got, err := ParseFormats("png, svg,png,")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != FormatPNG || got[1] != FormatSVG {
		t.Errorf("ParseFormats = %v", got)
	}
	if _, err := ParseFormats(""); err == nil {
		t.Error("empty list should fail")
	}
}

func TestFormatFromPath(t *testing.T) {
	if f, err := FormatFromPath("out/map.svg"); err != nil || f != FormatSVG {
		t.Errorf("FormatFromPath = %q, %v", f, err)
	}
	if _, err := FormatFromPath("map"); err == nil {
		t.Error("missing extension should fail")
	}
}

func TestEncode(t *testing.T) {
	ctx := context.Background()
	s := testScene()

	tests := []struct {
		format Format
		prefix string
	}{
		{FormatPNG, "\x89PNG"},
		{FormatSVG, "<svg"},
		{FormatDOT, "graph G {"},
		{FormatJSON, "{"},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			data, err := Encode(ctx, s, tt.format)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			if !bytes.HasPrefix(data, []byte(tt.prefix)) {
				t.Errorf("output starts with %q, want %q", data[:min(len(data), 10)], tt.prefix)
			}
		})
	}
}

func TestFileRenderer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.json")
	r, err := NewFileRenderer(path, "")
	if err != nil {
		t.Fatal(err)
	}
	s := testScene()
	if err := r.Render(context.Background(), s); err != nil {
		t.Fatal(err)
	}
	got, err := scene.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != s.ID {
		t.Errorf("ID = %s, want %s", got.ID, s.ID)
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want only the frame", len(entries))
	}
}

func TestMulti(t *testing.T) {
	var a, b bytes.Buffer
	m := Multi{&WriterRenderer{W: &a, Format: FormatDOT}, &WriterRenderer{W: &b, Format: FormatSVG}}
	if err := m.Render(context.Background(), testScene()); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(a.String(), "graph") || !strings.HasPrefix(b.String(), "<svg") {
		t.Error("Multi should feed every renderer")
	}
}
