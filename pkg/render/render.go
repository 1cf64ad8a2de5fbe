package render

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	cerrors "github.com/matzehuels/conceptmap/pkg/errors"
	"github.com/matzehuels/conceptmap/pkg/observability"
	"github.com/matzehuels/conceptmap/pkg/render/nodelink"
	"github.com/matzehuels/conceptmap/pkg/render/raster"
	"github.com/matzehuels/conceptmap/pkg/render/svg"
	"github.com/matzehuels/conceptmap/pkg/scene"
)

// Format is an output encoding.
type Format string

const (
	FormatPNG  Format = "png"
	FormatSVG  Format = "svg"
	FormatDOT  Format = "dot"
	FormatJSON Format = "json"
	FormatPDF  Format = "pdf"
)

// Formats lists every supported format.
var Formats = []Format{FormatPNG, FormatSVG, FormatDOT, FormatJSON, FormatPDF}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(Formats, f) {
		return "", cerrors.New(cerrors.ErrCodeInvalidFormat, "unsupported format %q (want one of png, svg, dot, json, pdf)", s)
	}
	return f, nil
}

// ParseFormats parses a comma-separated list, dropping duplicates.
func ParseFormats(s string) ([]Format, error) {
	var out []Format
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		f, err := ParseFormat(part)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return nil, cerrors.New(cerrors.ErrCodeInvalidFormat, "no output format given")
	}
	return out, nil
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", cerrors.New(cerrors.ErrCodeInvalidFormat, "cannot infer format of %q: no extension", path)
	}
	return ParseFormat(ext)
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatPNG:
		return "image/png"
	case FormatSVG:
		return "image/svg+xml"
	case FormatJSON:
		return "application/json"
	case FormatPDF:
		return "application/pdf"
	default:
		return "text/vnd.graphviz"
	}
}

// Encode renders s in format f.
func Encode(ctx context.Context, s *scene.Scene, f Format) (data []byte, err error) {
	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, string(f))
	defer func() { observability.Pipeline().OnRenderComplete(ctx, string(f), time.Since(start), err) }()

	switch f {
	case FormatPNG:
		return raster.RenderPNG(s)
	case FormatSVG:
		return svg.RenderSVG(s), nil
	case FormatDOT:
		return []byte(nodelink.ToDOT(s, nodelink.Options{Counts: true})), nil
	case FormatJSON:
		return s.Marshal()
	case FormatPDF:
		return ToPDF(svg.RenderSVG(s, svg.WithEmbeddedFont()))
	default:
		return nil, cerrors.New(cerrors.ErrCodeInvalidFormat, "unsupported format %q", f)
	}
}

// Renderer consumes one scene per frame.
type Renderer interface {
	Render(ctx context.Context, s *scene.Scene) error
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(ctx context.Context, s *scene.Scene) error

// Render calls f.
func (f RendererFunc) Render(ctx context.Context, s *scene.Scene) error { return f(ctx, s) }

// FileRenderer writes each frame to Path in Format.
type FileRenderer struct {
	Path   string
	Format Format
}

// NewFileRenderer creates a FileRenderer, inferring the format from the
// extension when format is empty.
func NewFileRenderer(path string, format Format) (*FileRenderer, error) {
	if format == "" {
		var err error
		if format, err = FormatFromPath(path); err != nil {
			return nil, err
		}
	} else if _, err := ParseFormat(string(format)); err != nil {
		return nil, err
	}
	return &FileRenderer{Path: path, Format: format}, nil
}

// Render encodes s and replaces the file contents.
func (r *FileRenderer) Render(ctx context.Context, s *scene.Scene) error {
	data, err := Encode(ctx, s, r.Format)
	if err != nil {
		return err
	}
	return WriteFileAtomic(r.Path, data)
}

// WriterRenderer writes each frame to W, one after another.
type WriterRenderer struct {
	W      io.Writer
	Format Format
}

// Render encodes s and writes it to W.
func (r *WriterRenderer) Render(ctx context.Context, s *scene.Scene) error {
	data, err := Encode(ctx, s, r.Format)
	if err != nil {
		return err
	}
	_, err = r.W.Write(data)
	return err
}

// Multi fans a frame out to several renderers, stopping at the first error.
type Multi []Renderer

// Render calls every renderer in order.
func (m Multi) Render(ctx context.Context, s *scene.Scene) error {
	for _, r := range m {
		if err := r.Render(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

// WriteFileAtomic writes data to a temp file next to path and renames it,
// so viewers watching path never read a half-written frame.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

var (
	_ Renderer = (*FileRenderer)(nil)
	_ Renderer = (*WriterRenderer)(nil)
	_ Renderer = Multi(nil)
	_ Renderer = RendererFunc(nil)
)
