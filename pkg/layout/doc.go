// Package layout assigns logical canvas positions to concept nodes.
//
// Two strategies are available:
//
//   - [Scatter] draws independent uniform integer coordinates inside the
//     canvas shrunk by a fixed padding. Overlaps are accepted.
//   - [Grid] packs nodes row by row in creation order into cells of
//     2·MaxRadius+Padding, starting at Margin+MaxRadius.
//
// Grid placement is deterministic. It never limits the number of rows: a
// graph with more nodes than [Grid.Capacity] allows grows past the bottom
// edge of the canvas, and [Grid.Overflow] reports by how much. Viewport
// panning is the way to reach those nodes.
//
// Scatter is deterministic only with a non-zero seed. A zero seed draws
// from the clock, matching an interactive session where each submission
// gets a fresh arrangement.
package layout
