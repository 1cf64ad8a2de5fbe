package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/conceptmap/pkg/scene"
)

// Options configures DOT generation.
type Options struct {
	// Counts keeps the "(n)" occurrence suffix in labels. When false only
	// the word is shown.
	Counts bool
}

// ToDOT converts a scene to Graphviz DOT with pinned node positions.
func ToDOT(s *scene.Scene, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  notranslate=true;\n")
	buf.WriteString("  splines=false;\n")
	fmt.Fprintf(&buf, "  bb=\"0,0,%d,%d\";\n", s.Width, s.Height)
	fmt.Fprintf(&buf, "  bgcolor=%q;\n", s.Background.Hex())
	buf.WriteString("  node [shape=circle, style=filled, fixedsize=true, fontname=\"Helvetica\"];\n")
	buf.WriteString("\n")

	for _, c := range s.Circles {
		label := c.Label
		if !opts.Counts {
			label = stripCount(label)
		}
		diameter := float64(2*c.Radius) / 72
		fmt.Fprintf(&buf, "  n%d [label=%q, pos=\"%s,%s!\", width=%s, fillcolor=%q, color=%q, fontcolor=%q, fontsize=%d];\n",
			c.NodeID, label,
			num(c.Center.X), num(float64(s.Height)-c.Center.Y),
			num(diameter),
			c.Fill.Hex(), c.Fill.Hex(), c.TextColor.Hex(), c.FontSize)
	}

	if len(s.Lines) > 0 {
		buf.WriteString("\n")
	}
	for _, l := range s.Lines {
		fmt.Fprintf(&buf, "  n%d -- n%d [color=%q, penwidth=%s];\n", l.A, l.B, l.Color.Hex(), num(l.Width))
	}

	buf.WriteString("}\n")
	return buf.String()
}

var countSuffix = regexp.MustCompile(` \(\d+\)$`)

func stripCount(label string) string {
	return countSuffix.ReplaceAllString(label, "")
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// RenderSVG lays out DOT with neato and returns SVG bytes.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with a
// unitless one so the SVG scales like the other renderers' output.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
