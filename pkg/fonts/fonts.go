// Package fonts provides the embedded label font for raster and SVG output.
//
// The font is Go Regular from golang.org/x/image/font/gofont, compiled into
// the binary, so rendering never depends on fonts installed on the host.
package fonts

import (
	"encoding/base64"
	"fmt"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

// FontFamily is the CSS font-family name of the embedded font.
const FontFamily = "Go"

// FallbackFontFamily lists CSS fallbacks for viewers that ignore the
// embedded @font-face.
const FallbackFontFamily = `'Go', 'Helvetica Neue', Arial, sans-serif`

// DPI used for all faces. At 72 DPI a face's size equals its pixel height.
const DPI = 72

var (
	parsed    *truetype.Font
	parseErr  error
	parseOnce sync.Once

	ttfBase64     string
	ttfBase64Once sync.Once
)

// TTF returns the raw TrueType data.
func TTF() []byte {
	return goregular.TTF
}

// TTFBase64 returns the TrueType data base64-encoded, for embedding in SVG.
// The result is cached after first computation.
func TTFBase64() string {
	ttfBase64Once.Do(func() {
		ttfBase64 = base64.StdEncoding.EncodeToString(goregular.TTF)
	})
	return ttfBase64
}

// Regular returns the parsed font. Parsing happens once.
func Regular() (*truetype.Font, error) {
	parseOnce.Do(func() {
		parsed, parseErr = truetype.Parse(goregular.TTF)
		if parseErr != nil {
			parseErr = fmt.Errorf("parse embedded font: %w", parseErr)
		}
	})
	return parsed, parseErr
}

// Face returns a face of the given pixel size. Faces hold a glyph cache
// and are not safe for concurrent use, so each caller gets its own.
func Face(size float64) (font.Face, error) {
	f, err := Regular()
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     DPI,
		Hinting: font.HintingNone,
	}), nil
}
