// Package model turns parsed OBJ meshes into GPU-ready vertex streams.
package model

import (
	"errors"

	"github.com/Faultbox/objview/pkg/math"
)

// Mesh build errors.
var (
	ErrEmptyVertices = errors.New("mesh has no vertices")
	ErrNoFaces       = errors.New("mesh has no faces")
)

// Components per corner in every stream.
const ComponentsPerCorner = 3

// CornersPerFace is fixed: every face is a triangle.
const CornersPerFace = 3

// Streams holds the non-indexed per-corner buffers uploaded to the GPU.
// Each slice has 9 scalars per face (3 corners x 3 components), in face
// order and in each face's corner order.
type Streams struct {
	Positions []float32
	Normals   []float32
	Colors    []uint8
}

// VertexCount returns the number of corners to draw with a non-indexed
// triangle call.
func (s *Streams) VertexCount() int {
	return len(s.Positions) / ComponentsPerCorner
}

// BBox is an axis-aligned bounding box.
type BBox struct {
	Min     math.Vec3
	Max     math.Vec3
	Center  math.Vec3
	Extents math.Vec3
}

// Mesh is an OBJ model prepared for rendering.
type Mesh struct {
	Streams
	BBox      BBox
	FaceCount int

	// UsedStoredNormals is true when normals came from the file rather
	// than being synthesized per face.
	UsedStoredNormals bool
}

// BuildOptions contains options for mesh building.
type BuildOptions struct {
	// PreferStoredNormals uses the file's vn data when it is usable.
	PreferStoredNormals bool
	// RNG drives the colour bands. Nil means a non-deterministic source.
	RNG RNG
}
