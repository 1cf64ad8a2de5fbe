// Package pkg provides the core libraries for conceptmap.
//
// # Overview
//
// Conceptmap turns free text into a concept graph: every significant word
// becomes a node weighted by how often it occurs, and two nodes are joined
// when a lexicon says their meanings are close. The pkg directory is
// organized into four areas:
//
//  1. Text and graph: [text], [concept], [linker]
//  2. Meaning: [lexicon] (with sqlite and mongo stores), [similarity]
//  3. Drawing: [layout], [viewport], [scene], [render]
//  4. Orchestration: [pipeline], [frame], [config], [cache], [observability]
//
// # Architecture
//
// The data flow of one frame:
//
//	Text
//	  ↓
//	[text] tokenize and filter
//	  ↓
//	[concept] register nodes (deduplicating or per occurrence)
//	  ↓
//	[linker] + [similarity] link related pairs
//	  ↓
//	[layout] place on the logical canvas
//	  ↓
//	[viewport] + [scene] scale, pan and resolve draw commands
//	  ↓
//	[render] PNG/SVG/DOT/JSON/PDF
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/conceptmap/pkg/lexicon"
//	    "github.com/matzehuels/conceptmap/pkg/pipeline"
//	    "github.com/matzehuels/conceptmap/pkg/render"
//	    "github.com/matzehuels/conceptmap/pkg/similarity"
//	    "github.com/matzehuels/conceptmap/pkg/viewport"
//	)
//
//	oracle := similarity.NewAdapter(lexicon.NewTaxonomy(lexicon.Default()), similarity.Options{})
//	runner := pipeline.NewRunner(oracle, nil, nil, nil)
//	res, err := runner.Build(ctx, "el perro persigue al gato", pipeline.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	canvas := viewport.Size{Width: 800, Height: 600}
//	s := pipeline.Scene(res, viewport.New(canvas, canvas), viewport.DefaultStyle())
//	svg, err := render.Encode(ctx, s, render.FormatSVG)
//
// [text]: https://pkg.go.dev/github.com/matzehuels/conceptmap/pkg/text
// [concept]: https://pkg.go.dev/github.com/matzehuels/conceptmap/pkg/concept
// [linker]: https://pkg.go.dev/github.com/matzehuels/conceptmap/pkg/linker
// [lexicon]: https://pkg.go.dev/github.com/matzehuels/conceptmap/pkg/lexicon
// [similarity]: https://pkg.go.dev/github.com/matzehuels/conceptmap/pkg/similarity
// [layout]: https://pkg.go.dev/github.com/matzehuels/conceptmap/pkg/layout
// [viewport]: https://pkg.go.dev/github.com/matzehuels/conceptmap/pkg/viewport
// [scene]: https://pkg.go.dev/github.com/matzehuels/conceptmap/pkg/scene
// [render]: https://pkg.go.dev/github.com/matzehuels/conceptmap/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/conceptmap/pkg/pipeline
// [frame]: https://pkg.go.dev/github.com/matzehuels/conceptmap/pkg/frame
// [config]: https://pkg.go.dev/github.com/matzehuels/conceptmap/pkg/config
// [cache]: https://pkg.go.dev/github.com/matzehuels/conceptmap/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/conceptmap/pkg/observability
package pkg
