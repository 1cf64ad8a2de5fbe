// Package nodelink exports a scene as a Graphviz graph.
//
// # Overview
//
// [ToDOT] writes an undirected DOT graph in which every node is pinned to
// its scene position (pos="x,y!"), sized to its radius and filled with its
// colour. [RenderSVG] runs neato in-process through go-graphviz; with all
// positions pinned neato only routes the straight edges, so the output
// matches the scene geometry.
//
//	dot := nodelink.ToDOT(s, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// The DOT text is also useful on its own: it can be edited and fed to any
// Graphviz tool, e.g. "neato -n2 -Tpdf".
//
// # Coordinates
//
// Scene coordinates grow downwards, Graphviz coordinates grow upwards, so
// y is flipped against the scene height. inputscale=72 makes positions
// points rather than inches.
package nodelink
