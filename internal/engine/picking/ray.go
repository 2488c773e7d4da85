// Package picking provides ray casting and face picking utilities.
package picking

import (
	gomath "math"

	"github.com/Faultbox/objview/internal/engine/model"
	"github.com/Faultbox/objview/pkg/math"
)

// epsilon rejects rays nearly parallel to a triangle.
const epsilon = 1e-7

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3 // Normalized direction
}

// Hit is the nearest face a ray crosses.
type Hit struct {
	Face     int
	Distance float32
	Point    math.Vec3
}

// ScreenToRay converts screen coordinates to a ray in the space that
// invMVP maps clip space back into. screenX, screenY are pixel coordinates
// from the top-left corner of a viewport of size viewportW x viewportH.
// Passing the inverse of projection*view*model yields a model-space ray.
func ScreenToRay(screenX, screenY, viewportW, viewportH float32, invMVP math.Mat4) Ray {
	// Convert screen coords to normalized device coords (-1 to 1)
	ndcX := 2.0*screenX/viewportW - 1.0
	ndcY := 1.0 - 2.0*screenY/viewportH // Flip Y

	near := unproject(invMVP, math.Vec4{ndcX, ndcY, -1.0, 1.0})
	far := unproject(invMVP, math.Vec4{ndcX, ndcY, 1.0, 1.0})

	return Ray{Origin: near, Direction: far.Sub(near).Normalize()}
}

func unproject(inv math.Mat4, ndc math.Vec4) math.Vec3 {
	p := inv.MulVec4(ndc)
	if p[3] != 0 {
		p[0] /= p[3]
		p[1] /= p[3]
		p[2] /= p[3]
	}
	return math.Vec3{X: p[0], Y: p[1], Z: p[2]}
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// IntersectTriangle tests the ray against triangle abc from both sides.
// Returns the distance to the hit and whether it lies in front of the origin.
func (r Ray) IntersectTriangle(a, b, c math.Vec3) (t float32, hit bool) {
	edge1 := b.Sub(a)
	edge2 := c.Sub(a)

	p := r.Direction.Cross(edge2)
	det := edge1.Dot(p)
	if gomath.Abs(float64(det)) < epsilon {
		return 0, false // Ray parallel to triangle
	}
	invDet := 1 / det

	s := r.Origin.Sub(a)
	u := s.Dot(p) * invDet
	if u < 0 || u > 1 {
		return 0, false
	}

	q := s.Cross(edge1)
	v := r.Direction.Dot(q) * invDet
	if v < 0 || u+v > 1 {
		return 0, false
	}

	t = edge2.Dot(q) * invDet
	if t < 0 {
		return 0, false // Triangle behind ray origin
	}
	return t, true
}

// IntersectAABB tests ray intersection with a bounding box.
// Returns the distance to intersection (t) and whether intersection occurred.
// If the ray starts inside the box, returns the exit distance.
func (r Ray) IntersectAABB(box model.BBox) (t float32, hit bool) {
	tmin := float32(-gomath.MaxFloat32)
	tmax := float32(gomath.MaxFloat32)

	origin := r.Origin.Array()
	dir := r.Direction.Array()
	lo := box.Min.Array()
	hi := box.Max.Array()

	for axis := 0; axis < 3; axis++ {
		if dir[axis] == 0 {
			if origin[axis] < lo[axis] || origin[axis] > hi[axis] {
				return 0, false
			}
			continue
		}
		t1 := (lo[axis] - origin[axis]) / dir[axis]
		t2 := (hi[axis] - origin[axis]) / dir[axis]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}

	// Return entry point, or exit point if starting inside
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// PickFace returns the nearest face of the mesh crossed by a model-space ray.
func PickFace(r Ray, m *model.Mesh) (Hit, bool) {
	if m == nil || m.FaceCount == 0 {
		return Hit{}, false
	}
	if _, ok := r.IntersectAABB(m.BBox); !ok {
		return Hit{}, false
	}

	best := Hit{Face: -1, Distance: float32(gomath.MaxFloat32)}
	const stride = model.CornersPerFace * model.ComponentsPerCorner
	for f := 0; f < m.FaceCount; f++ {
		p := m.Positions[f*stride : (f+1)*stride]
		a := math.Vec3{X: p[0], Y: p[1], Z: p[2]}
		b := math.Vec3{X: p[3], Y: p[4], Z: p[5]}
		c := math.Vec3{X: p[6], Y: p[7], Z: p[8]}

		if t, ok := r.IntersectTriangle(a, b, c); ok && t < best.Distance {
			best = Hit{Face: f, Distance: t}
		}
	}

	if best.Face < 0 {
		return Hit{}, false
	}
	best.Point = r.At(best.Distance)
	return best, true
}
