package viewport

import (
	"testing"

	"github.com/matzehuels/conceptmap/pkg/concept"
)

func TestScaleEndpoints(t *testing.T) {
	tests := []struct {
		name          string
		v, a, b, c, d float64
		want          int
	}{
		{"domain min", 0, 0, 10, 20, 50, 20},
		{"domain max", 10, 0, 10, 20, 50, 50},
		{"middle", 5, 0, 10, 20, 50, 35},
		{"truncates", 1, 0, 4, 0, 255, 63},
		{"descending range", 10, 0, 10, 255, 0, 0},
		{"degenerate domain", 4, 4, 4, 20, 50, 35},
		{"degenerate odd", 1, 1, 1, 0, 255, 127},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Scale(tt.v, tt.a, tt.b, tt.c, tt.d); got != tt.want {
				t.Errorf("Scale(%v, %v, %v, %v, %v) = %d, want %d", tt.v, tt.a, tt.b, tt.c, tt.d, got, tt.want)
			}
		})
	}
}

func TestScaleMonotonic(t *testing.T) {
	prev := Scale(0, 0, 7, 20, 50)
	for v := 1; v <= 7; v++ {
		got := Scale(float64(v), 0, 7, 20, 50)
		if got < prev {
			t.Fatalf("Scale not monotonic at %d: %d < %d", v, got, prev)
		}
		prev = got
	}
}

func TestToDevice(t *testing.T) {
	v := New(Size{800, 600}, Size{1600, 900})
	got := v.ToDevice(concept.Point{X: 400, Y: 300})
	if got != (concept.Point{X: 800, Y: 450}) {
		t.Errorf("ToDevice = %v, want (800,450)", got)
	}
	if r := v.Ratio(); r != 1.5 {
		t.Errorf("Ratio = %v, want 1.5", r)
	}

	same := New(Size{800, 600}, Size{})
	if same.Device != same.Logical {
		t.Errorf("zero device size should default to logical, got %v", same.Device)
	}
	if p := same.ToDevice(concept.Point{X: 123.7, Y: 45.2}); p != (concept.Point{X: 123, Y: 45}) {
		t.Errorf("identity ToDevice = %v, want truncated (123,45)", p)
	}
}

func TestPanDoesNotMutateNodes(t *testing.T) {
	g := concept.New()
	id := g.AddNode("gato", "gato")
	g.SetPos(id, concept.Point{X: 300, Y: 300})

	v := New(Size{800, 600}, Size{})
	for range 10 {
		v.Pan(10, 0)
		v.ClampGraph(g, 70)
	}
	n, _ := g.Node(id)
	if n.Pos != (concept.Point{X: 300, Y: 300}) {
		t.Errorf("node moved to %v", n.Pos)
	}
	if v.Offset.X != 100 {
		t.Errorf("Offset.X = %v, want 100", v.Offset.X)
	}
	// The offset never compounds: one Apply adds it exactly once.
	if p := v.Apply(n.Pos); p.X != 400 {
		t.Errorf("Apply = %v, want x=400", p)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		name   string
		offset concept.Point
		minPt  concept.Point
		maxPt  concept.Point
		want   concept.Point
	}{
		{
			name:   "within range",
			offset: concept.Point{X: 10, Y: -10},
			minPt:  concept.Point{X: 100, Y: 100}, maxPt: concept.Point{X: 200, Y: 200},
			want:   concept.Point{X: 10, Y: -10},
		},
		{
			name:   "too far right",
			offset: concept.Point{X: 1000},
			minPt:  concept.Point{X: 100, Y: 100}, maxPt: concept.Point{X: 200, Y: 200},
			want:   concept.Point{X: 530},
		},
		{
			name:   "too far left",
			offset: concept.Point{X: -1000},
			minPt:  concept.Point{X: 100, Y: 100}, maxPt: concept.Point{X: 200, Y: 200},
			want:   concept.Point{X: -30},
		},
		{
			name:   "content taller than canvas scrolls",
			offset: concept.Point{Y: -200},
			minPt:  concept.Point{X: 70, Y: 70}, maxPt: concept.Point{X: 620, Y: 840},
			want:   concept.Point{Y: -200},
		},
		{
			name:   "scroll stops at content end",
			offset: concept.Point{Y: -1000},
			minPt:  concept.Point{X: 70, Y: 70}, maxPt: concept.Point{X: 620, Y: 840},
			want:   concept.Point{Y: -310},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New(Size{800, 600}, Size{})
			v.Offset = tt.offset
			v.Clamp(tt.minPt, tt.maxPt, 70)
			if v.Offset != tt.want {
				t.Errorf("Offset = %v, want %v", v.Offset, tt.want)
			}
		})
	}
}

func TestClampEmptyGraphResets(t *testing.T) {
	v := New(Size{800, 600}, Size{})
	v.Pan(50, 50)
	v.ClampGraph(concept.New(), 70)
	if v.Offset != (concept.Point{}) {
		t.Errorf("Offset = %v, want zero", v.Offset)
	}
}

func TestStyle(t *testing.T) {
	s := DefaultStyle()

	if got := s.Radius(4, 4, 1); got != 50 {
		t.Errorf("Radius(max) = %d, want 50", got)
	}
	if got := s.Radius(2, 4, 1); got != 35 {
		t.Errorf("Radius(half) = %d, want 35", got)
	}
	if got := s.Radius(4, 4, 2); got != 100 {
		t.Errorf("Radius(max, ratio 2) = %d, want 100", got)
	}
	if got := s.Radius(1, 0, 1); got != 35 {
		t.Errorf("Radius(degenerate) = %d, want midpoint 35", got)
	}

	if got := s.Color(4, 4); got != (RGB{0, 255, 0}) {
		t.Errorf("Color(max) = %v, want green", got)
	}
	if got := s.Color(1, 4); got != (RGB{192, 63, 0}) {
		t.Errorf("Color(1/4) = %v, want (192,63,0)", got)
	}

	if got := s.FontSize(50); got != 30 {
		t.Errorf("FontSize(50) = %d, want 30", got)
	}
	if got := s.FontSize(0); got != 1 {
		t.Errorf("FontSize(0) = %d, want 1", got)
	}
}

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#646464")
	if err != nil || c != (RGB{100, 100, 100}) {
		t.Errorf("ParseHex = %v, %v", c, err)
	}
	if c.Hex() != "#646464" {
		t.Errorf("Hex = %s", c.Hex())
	}
	for _, bad := range []string{"646464", "#64646", "#gggggg"} {
		if _, err := ParseHex(bad); err == nil {
			t.Errorf("ParseHex(%q) should fail", bad)
		}
	}
}
