package viewport

import (
	"fmt"
	"image/color"
	"strconv"
)

// RGB is an opaque colour.
type RGB struct {
	R, G, B uint8
}

// ParseHex parses "#rrggbb".
func ParseHex(s string) (RGB, error) {
	if len(s) != 7 || s[0] != '#' {
		return RGB{}, fmt.Errorf("invalid colour %q: want #rrggbb", s)
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// MustParseHex is ParseHex for constants.
func MustParseHex(s string) RGB {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex formats the colour as "#rrggbb".
func (c RGB) Hex() string { return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B) }

// RGBA converts to the image/color type.
func (c RGB) RGBA() color.RGBA { return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff} }

func (c RGB) String() string { return c.Hex() }

// MarshalText encodes the colour as hex for JSON and TOML.
func (c RGB) MarshalText() ([]byte, error) { return []byte(c.Hex()), nil }

// UnmarshalText decodes a hex colour.
func (c *RGB) UnmarshalText(b []byte) error {
	v, err := ParseHex(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Style defaults.
const (
	DefaultMinRadius = 20
	DefaultMaxRadius = 50
	DefaultFontRatio = 0.6
	DefaultEdgeWidth = 2
)

// Style holds the visual constants applied when building a scene.
type Style struct {
	MinRadius  int     `toml:"min_radius" json:"min_radius"`
	MaxRadius  int     `toml:"max_radius" json:"max_radius"`
	FontRatio  float64 `toml:"font_ratio" json:"font_ratio"`
	EdgeWidth  float64 `toml:"edge_width" json:"edge_width"`
	Background RGB     `toml:"background" json:"background"`
	Text       RGB     `toml:"text" json:"text"`
	Edge       RGB     `toml:"edge" json:"edge"`
}

// DefaultStyle returns white background, black labels, grey edges.
func DefaultStyle() Style {
	return Style{
		MinRadius:  DefaultMinRadius,
		MaxRadius:  DefaultMaxRadius,
		FontRatio:  DefaultFontRatio,
		EdgeWidth:  DefaultEdgeWidth,
		Background: RGB{255, 255, 255},
		Text:       RGB{0, 0, 0},
		Edge:       RGB{100, 100, 100},
	}
}

// Validate checks radius ordering and positive sizes.
func (s Style) Validate() error {
	if s.MinRadius <= 0 || s.MaxRadius < s.MinRadius {
		return fmt.Errorf("radius range [%d,%d] invalid", s.MinRadius, s.MaxRadius)
	}
	if s.FontRatio <= 0 {
		return fmt.Errorf("font ratio must be positive")
	}
	if s.EdgeWidth <= 0 {
		return fmt.Errorf("edge width must be positive")
	}
	return nil
}

// Radius scales count within [0, maxCount] to the radius range, with both
// bounds multiplied by ratio.
func (s Style) Radius(count, maxCount int, ratio float64) int {
	return Scale(float64(count), 0, float64(maxCount),
		float64(s.MinRadius)*ratio, float64(s.MaxRadius)*ratio)
}

// Color returns the red→green gradient colour for count.
func (s Style) Color(count, maxCount int) RGB {
	g := Scale(float64(count), 0, float64(maxCount), 0, 255)
	g = min(max(g, 0), 255)
	return RGB{R: uint8(255 - g), G: uint8(g), B: 0}
}

// FontSize is FontRatio·radius, at least 1.
func (s Style) FontSize(radius int) int {
	return max(int(s.FontRatio*float64(radius)), 1)
}
