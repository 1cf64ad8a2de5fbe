// Package viewport maps logical layout results to device pixels and visual
// attributes.
//
// # Scale
//
// [Scale] is the single interpolation primitive: linear, truncated toward
// zero. When the domain is degenerate (min == max) it returns the midpoint
// of the range instead of dividing by zero.
//
// # Viewport
//
// A [Viewport] holds the logical canvas size, the device size and a pan
// offset. The offset lives only in the viewport: node positions computed by
// the layout are never modified, so repeated pans and frames cannot drift.
// [Viewport.Clamp] keeps the offset inside the range where the padded
// content bounding box stays on the canvas. When the content is larger than
// the canvas (an overflowing grid), the range is inverted, which lets the
// user scroll across the content instead of pinning it.
//
// # Style
//
// [Style] turns occurrence counts into radius, colour and font size:
//
//	radius = Scale(count, 0, maxCount, MinRadius·r, MaxRadius·r)
//	green  = Scale(count, 0, maxCount, 0, 255)
//	colour = (255-green, green, 0)
//	font   = FontRatio · radius
//
// where r = min(deviceW/logicalW, deviceH/logicalH).
package viewport
