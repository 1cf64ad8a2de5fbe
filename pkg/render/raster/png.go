// Package raster draws scenes into PNG images with fogleman/gg.
//
// Drawing order is background, lines, filled circles with an outline in
// the same colour, then labels centred on their circles. Label faces come
// from the embedded font in pkg/fonts, one face per distinct font size.
package raster

import (
	"bytes"
	"fmt"
	"image"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"github.com/matzehuels/conceptmap/pkg/fonts"
	"github.com/matzehuels/conceptmap/pkg/scene"
)

// Option configures PNG rendering.
type Option func(*renderer)

type renderer struct {
	scale   float64
	outline bool
	labels  bool
}

// WithScale multiplies the output resolution (2.0 for high-DPI displays).
func WithScale(s float64) Option {
	return func(r *renderer) {
		if s > 0 {
			r.scale = s
		}
	}
}

// WithoutOutline skips the anti-aliased outline around each disc.
func WithoutOutline() Option { return func(r *renderer) { r.outline = false } }

// WithoutLabels skips label text.
func WithoutLabels() Option { return func(r *renderer) { r.labels = false } }

// Draw renders the scene into an image.
func Draw(s *scene.Scene, opts ...Option) (image.Image, error) {
	dc, err := draw(s, opts)
	if err != nil {
		return nil, err
	}
	return dc.Image(), nil
}

// RenderPNG renders the scene as PNG bytes.
func RenderPNG(s *scene.Scene, opts ...Option) ([]byte, error) {
	dc, err := draw(s, opts)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func draw(s *scene.Scene, opts []Option) (*gg.Context, error) {
	r := renderer{scale: 1, outline: true, labels: true}
	for _, opt := range opts {
		opt(&r)
	}

	w := max(int(float64(s.Width)*r.scale), 1)
	h := max(int(float64(s.Height)*r.scale), 1)
	dc := gg.NewContext(w, h)
	dc.Scale(r.scale, r.scale)

	dc.SetColor(s.Background.RGBA())
	dc.Clear()

	for _, l := range s.Lines {
		dc.SetColor(l.Color.RGBA())
		dc.SetLineWidth(l.Width)
		dc.DrawLine(l.From.X, l.From.Y, l.To.X, l.To.Y)
		dc.Stroke()
	}

	for _, c := range s.Circles {
		dc.SetColor(c.Fill.RGBA())
		dc.DrawCircle(c.Center.X, c.Center.Y, float64(c.Radius))
		if r.outline {
			dc.FillPreserve()
			dc.SetLineWidth(1)
			dc.Stroke()
		} else {
			dc.Fill()
		}
	}

	if !r.labels {
		return dc, nil
	}
	faces := map[int]font.Face{}
	defer func() {
		for _, f := range faces {
			f.Close()
		}
	}()
	for _, c := range s.Circles {
		face, ok := faces[c.FontSize]
		if !ok {
			var err error
			// Glyphs go through the context transform, so the face is
			// created at scene size.
			face, err = fonts.Face(float64(c.FontSize))
			if err != nil {
				return nil, err
			}
			faces[c.FontSize] = face
		}
		dc.SetFontFace(face)
		dc.SetColor(c.TextColor.RGBA())
		dc.DrawStringAnchored(c.Label, c.Center.X, c.Center.Y, 0.5, 0.5)
	}
	return dc, nil
}
