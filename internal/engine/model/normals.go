package model

import (
	"github.com/Faultbox/objview/pkg/formats"
	"github.com/Faultbox/objview/pkg/math"
)

// HasUsableNormals reports whether the file's normals may be used as-is.
// This only compares list sizes; per-face normal indices are not checked.
func HasUsableNormals(obj *formats.OBJ) bool {
	return len(obj.Normals) > 0 && len(obj.Normals) == len(obj.Vertices)
}

// ComputeNormals returns one normal triple per face corner, aligned with
// FlattenPositions.
//
// With preferStored set and usable stored normals, each corner gets the
// normal it references. A corner without a normal reference gets its
// face's flat normal. Otherwise every corner gets the flat normal of its
// face: the unnormalized cross product (B-A) x (C-A), which points outward
// for counter-clockwise winding.
func ComputeNormals(obj *formats.OBJ, preferStored bool) []float32 {
	stored := preferStored && HasUsableNormals(obj)
	data := make([]float32, 0, len(obj.Faces)*CornersPerFace*ComponentsPerCorner)

	for _, face := range obj.Faces {
		flat := FaceNormal(obj, face)

		for _, ref := range face.Normals {
			n := flat
			if idx, ok := ref.Get(); stored && ok {
				v := obj.Normals[idx]
				n = math.Vec3{X: v[0], Y: v[1], Z: v[2]}
			}
			data = append(data, n.X, n.Y, n.Z)
		}
	}

	return data
}

// FaceNormal returns the unnormalized flat normal of a face.
func FaceNormal(obj *formats.OBJ, face formats.OBJFace) math.Vec3 {
	a := vec3(obj.Vertices[face.Vertices[0]])
	b := vec3(obj.Vertices[face.Vertices[1]])
	c := vec3(obj.Vertices[face.Vertices[2]])

	e1 := b.Sub(a)
	e2 := c.Sub(a)
	return e1.Cross(e2)
}

func vec3(v [3]float32) math.Vec3 {
	return math.Vec3{X: v[0], Y: v[1], Z: v[2]}
}
