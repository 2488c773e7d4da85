package model

import "github.com/Faultbox/objview/pkg/formats"

// FlattenPositions expands indexed faces into one position triple per
// face corner. No index buffer is produced: the stream is drawn with
// DrawArrays(TRIANGLES, 0, 3*len(obj.Faces)).
func FlattenPositions(obj *formats.OBJ) []float32 {
	data := make([]float32, 0, len(obj.Faces)*CornersPerFace*ComponentsPerCorner)

	for _, face := range obj.Faces {
		for _, vi := range face.Vertices {
			v := obj.Vertices[vi]
			data = append(data, v[0], v[1], v[2])
		}
	}

	return data
}

// DrawVertexCount returns the corner count for a non-indexed triangle draw.
func DrawVertexCount(obj *formats.OBJ) int32 {
	return int32(len(obj.Faces) * CornersPerFace)
}
