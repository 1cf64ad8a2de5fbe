package viewport

import (
	"fmt"

	"github.com/matzehuels/conceptmap/pkg/concept"
)

// Size is a width/height pair in pixels.
type Size struct {
	Width  int `toml:"width" json:"width"`
	Height int `toml:"height" json:"height"`
}

// Valid reports whether both dimensions are positive.
func (s Size) Valid() bool { return s.Width > 0 && s.Height > 0 }

func (s Size) String() string { return fmt.Sprintf("%dx%d", s.Width, s.Height) }

// Viewport maps logical canvas coordinates to device coordinates.
type Viewport struct {
	Logical Size          `json:"logical"`
	Device  Size          `json:"device"`
	Offset  concept.Point `json:"offset"`
}

// New creates a viewport. A device size with a zero dimension falls back
// to the logical size.
func New(logical, device Size) *Viewport {
	if !device.Valid() {
		device = logical
	}
	return &Viewport{Logical: logical, Device: device}
}

// Resize changes the device size. The pan offset is kept since it is in
// logical units.
func (v *Viewport) Resize(device Size) {
	if device.Valid() {
		v.Device = device
	}
}

// Ratio is the uniform scale factor used for sizes (radius, stroke):
// min(deviceW/logicalW, deviceH/logicalH).
func (v *Viewport) Ratio() float64 {
	if !v.Logical.Valid() {
		return 1
	}
	rx := float64(v.Device.Width) / float64(v.Logical.Width)
	ry := float64(v.Device.Height) / float64(v.Logical.Height)
	return min(rx, ry)
}

// Apply adds the pan offset to a logical position.
func (v *Viewport) Apply(p concept.Point) concept.Point {
	return concept.Point{X: p.X + v.Offset.X, Y: p.Y + v.Offset.Y}
}

// ToDevice maps a logical position, after panning, to integer device
// coordinates. Each axis scales independently.
func (v *Viewport) ToDevice(p concept.Point) concept.Point {
	q := v.Apply(p)
	return concept.Point{
		X: float64(Scale(q.X, 0, float64(v.Logical.Width), 0, float64(v.Device.Width))),
		Y: float64(Scale(q.Y, 0, float64(v.Logical.Height), 0, float64(v.Device.Height))),
	}
}

// Pan adds a logical displacement to the offset. Call Clamp afterwards to
// keep content reachable.
func (v *Viewport) Pan(dx, dy float64) {
	v.Offset.X += dx
	v.Offset.Y += dy
}

// ResetPan sets the offset back to zero.
func (v *Viewport) ResetPan() { v.Offset = concept.Point{} }

// Clamp limits the offset so the content box [minPt, maxPt], grown by pad
// on every side, stays on the logical canvas after panning.
func (v *Viewport) Clamp(minPt, maxPt concept.Point, pad float64) {
	v.Offset.X = clampAxis(v.Offset.X, minPt.X, maxPt.X, pad, float64(v.Logical.Width))
	v.Offset.Y = clampAxis(v.Offset.Y, minPt.Y, maxPt.Y, pad, float64(v.Logical.Height))
}

// ClampGraph clamps against the bounding box of g's node positions. An
// empty graph resets the offset.
func (v *Viewport) ClampGraph(g *concept.Graph, pad float64) {
	minPt, maxPt, ok := g.Bounds()
	if !ok {
		v.ResetPan()
		return
	}
	v.Clamp(minPt, maxPt, pad)
}

func clampAxis(offset, lo, hi, pad, dim float64) float64 {
	low := pad - lo
	high := dim - pad - hi
	if low > high {
		low, high = high, low
	}
	return min(max(offset, low), high)
}
