// Package render turns scenes into output artifacts.
//
// # Formats
//
//   - png: raster image drawn with fogleman/gg ([raster])
//   - svg: vector document ([svg])
//   - dot: Graphviz source with pinned positions ([nodelink])
//   - json: the scene itself
//   - pdf: the SVG converted with rsvg-convert (requires librsvg)
//
// [Encode] dispatches on [Format]. A [Renderer] consumes one scene per
// frame; [FileRenderer] writes every frame to the same path, replacing the
// previous frame atomically.
//
//	data, err := render.Encode(ctx, s, render.FormatPNG)
//
// [raster]: github.com/matzehuels/conceptmap/pkg/render/raster
// [svg]: github.com/matzehuels/conceptmap/pkg/render/svg
// [nodelink]: github.com/matzehuels/conceptmap/pkg/render/nodelink
package render
