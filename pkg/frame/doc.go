// Package frame runs the interactive frame loop.
//
// Each frame polls pending events without blocking, waits on the
// [TextSource] for the next block of text, then polls again so events that
// arrived during the wait apply to the frame drawn from it. That wait is the
// loop's only suspension point. The text is rebuilt into a graph from scratch, the
// pan offset is clamped to the new graph's bounds, and the resulting scene
// is handed to a [render.Renderer].
//
// The [Session] carries the only state that survives between frames: the
// last graph and the viewport (canvas, device size and pan offset). Node
// coordinates are never shifted by the pan; the offset is applied when the
// scene is built.
//
// A [ConsoleSource] never signals termination through Next: when input is
// exhausted it keeps returning "". [QuitOnExhausted] turns exhaustion into
// a [Quit] event so the loop can stop cleanly.
//
// A [CommandSource] lets a line-based console steer the view: lines such as
// ":pan 40 0", ":reset" or ":quit" become events on a [Queue] and redraw the
// last text instead of building a new one.
//
// [render.Renderer]: github.com/matzehuels/conceptmap/pkg/render.Renderer
package frame
