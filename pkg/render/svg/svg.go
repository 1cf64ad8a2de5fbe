// Package svg writes scenes as standalone SVG documents.
//
// Circles and lines map one to one onto <circle> and <line> elements; each
// label is a <text> centred with text-anchor and dominant-baseline. With
// [WithEmbeddedFont] the label font is inlined as a data URI so the file
// renders identically everywhere, at the cost of a larger document.
package svg

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/matzehuels/conceptmap/pkg/fonts"
	"github.com/matzehuels/conceptmap/pkg/scene"
)

// Option configures SVG rendering.
type Option func(*renderer)

type renderer struct {
	embedFont bool
	nodeIDs   bool
}

// WithEmbeddedFont inlines the label font.
func WithEmbeddedFont() Option { return func(r *renderer) { r.embedFont = true } }

// WithNodeIDs adds id="node-N" attributes so scripts can address nodes.
func WithNodeIDs() Option { return func(r *renderer) { r.nodeIDs = true } }

// RenderSVG renders the scene. Output is deterministic for a given scene.
func RenderSVG(s *scene.Scene, opts ...Option) []byte {
	var r renderer
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`+"\n",
		s.Width, s.Height, s.Width, s.Height)

	if r.embedFont {
		fmt.Fprintf(&buf, "  <defs><style>@font-face { font-family: '%s'; src: url(data:font/ttf;base64,%s) format('truetype'); }</style></defs>\n",
			fonts.FontFamily, fonts.TTFBase64())
	}

	fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", s.Background.Hex())

	if len(s.Lines) > 0 {
		buf.WriteString(`  <g class="edges">` + "\n")
		for _, l := range s.Lines {
			fmt.Fprintf(&buf, `    <line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="%s"/>`+"\n",
				num(l.From.X), num(l.From.Y), num(l.To.X), num(l.To.Y), l.Color.Hex(), num(l.Width))
		}
		buf.WriteString("  </g>\n")
	}

	if len(s.Circles) > 0 {
		buf.WriteString(`  <g class="nodes">` + "\n")
		for _, c := range s.Circles {
			id := ""
			if r.nodeIDs {
				id = fmt.Sprintf(` id="node-%d"`, c.NodeID)
			}
			fmt.Fprintf(&buf, `    <circle%s cx="%s" cy="%s" r="%d" fill="%s" stroke="%s"/>`+"\n",
				id, num(c.Center.X), num(c.Center.Y), c.Radius, c.Fill.Hex(), c.Fill.Hex())
		}
		buf.WriteString("  </g>\n")

		fmt.Fprintf(&buf, `  <g class="labels" font-family="%s" text-anchor="middle" dominant-baseline="central">`+"\n", escape(fonts.FallbackFontFamily))
		for _, c := range s.Circles {
			fmt.Fprintf(&buf, `    <text x="%s" y="%s" font-size="%d" fill="%s">%s</text>`+"\n",
				num(c.Center.X), num(c.Center.Y), c.FontSize, c.TextColor.Hex(), escape(c.Label))
		}
		buf.WriteString("  </g>\n")
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func escape(s string) string {
	var b bytes.Buffer
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
