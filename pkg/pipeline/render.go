package pipeline

import (
	"github.com/matzehuels/conceptmap/pkg/scene"
	"github.com/matzehuels/conceptmap/pkg/viewport"
)

// Scene maps a build result through vp into drawable primitives.
// An empty result yields an empty scene.
func Scene(result *Result, vp *viewport.Viewport, style viewport.Style) *scene.Scene {
	return scene.Build(result.Graph, vp, style)
}
