package model

import "github.com/Faultbox/objview/pkg/math"

// ComputeBBox returns the axis-aligned bounding box of the vertices.
// Returns ErrEmptyVertices if there are none.
func ComputeBBox(vertices [][3]float32) (BBox, error) {
	if len(vertices) == 0 {
		return BBox{}, ErrEmptyVertices
	}

	lo := vertices[0]
	hi := vertices[0]
	for _, v := range vertices[1:] {
		for axis := 0; axis < 3; axis++ {
			if v[axis] < lo[axis] {
				lo[axis] = v[axis]
			}
			if v[axis] > hi[axis] {
				hi[axis] = v[axis]
			}
		}
	}

	min := vec3(lo)
	max := vec3(hi)
	return BBox{
		Min:     min,
		Max:     max,
		Center:  min.Add(max).Scale(0.5),
		Extents: max.Sub(min),
	}, nil
}

// Reposition returns the translation that moves the box centre to the origin.
func (b BBox) Reposition() math.Vec3 {
	return b.Center.Neg()
}

// MaxExtent returns the largest of the three extents.
func (b BBox) MaxExtent() float32 {
	m := b.Extents.X
	if b.Extents.Y > m {
		m = b.Extents.Y
	}
	if b.Extents.Z > m {
		m = b.Extents.Z
	}
	return m
}
