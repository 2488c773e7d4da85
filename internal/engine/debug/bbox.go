// Package debug provides debug overlays and screenshot capture.
package debug

import (
	"github.com/Faultbox/objview/internal/engine/model"
	"github.com/Faultbox/objview/pkg/math"
)

// BBoxWireframeVertexCount is the number of vertices for a bbox wireframe (12 edges × 2).
const BBoxWireframeVertexCount = 24

// DefaultBBoxPadding expands the box by this fraction of its largest extent
// so the lines do not z-fight with faces lying on the box.
const DefaultBBoxPadding = 0.01

// GenerateBBoxWireframeVertices creates line vertices for a wireframe box.
// Returns 24 vertices (12 edges × 2 endpoints), format: [x, y, z] per vertex.
func GenerateBBoxWireframeVertices(lo, hi math.Vec3) []float32 {
	return []float32{
		// Bottom face (4 edges)
		lo.X, lo.Y, lo.Z, hi.X, lo.Y, lo.Z,
		hi.X, lo.Y, lo.Z, hi.X, lo.Y, hi.Z,
		hi.X, lo.Y, hi.Z, lo.X, lo.Y, hi.Z,
		lo.X, lo.Y, hi.Z, lo.X, lo.Y, lo.Z,
		// Top face (4 edges)
		lo.X, hi.Y, lo.Z, hi.X, hi.Y, lo.Z,
		hi.X, hi.Y, lo.Z, hi.X, hi.Y, hi.Z,
		hi.X, hi.Y, hi.Z, lo.X, hi.Y, hi.Z,
		lo.X, hi.Y, hi.Z, lo.X, hi.Y, lo.Z,
		// Vertical edges (4 edges)
		lo.X, lo.Y, lo.Z, lo.X, hi.Y, lo.Z,
		hi.X, lo.Y, lo.Z, hi.X, hi.Y, lo.Z,
		hi.X, lo.Y, hi.Z, hi.X, hi.Y, hi.Z,
		lo.X, lo.Y, hi.Z, lo.X, hi.Y, hi.Z,
	}
}

// BBoxWireframe creates wireframe vertices for a mesh bounding box in
// model space, grown on every side by padding times the largest extent.
func BBoxWireframe(b model.BBox, padding float32) []float32 {
	pad := padding * b.MaxExtent()
	grow := math.Vec3{X: pad, Y: pad, Z: pad}
	return GenerateBBoxWireframeVertices(b.Min.Sub(grow), b.Max.Add(grow))
}
