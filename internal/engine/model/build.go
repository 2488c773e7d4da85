package model

import "github.com/Faultbox/objview/pkg/formats"

// Build prepares a parsed OBJ for rendering: flattened positions, normals,
// colour bands and the bounding box.
func Build(obj *formats.OBJ, opts BuildOptions) (*Mesh, error) {
	bbox, err := ComputeBBox(obj.Vertices)
	if err != nil {
		return nil, err
	}
	if len(obj.Faces) == 0 {
		return nil, ErrNoFaces
	}

	rng := opts.RNG
	if rng == nil {
		rng = NewDefaultRNG()
	}

	return &Mesh{
		Streams: Streams{
			Positions: FlattenPositions(obj),
			Normals:   ComputeNormals(obj, opts.PreferStoredNormals),
			Colors:    AssignColors(len(obj.Faces), obj.GroupFaceCounts, rng),
		},
		BBox:              bbox,
		FaceCount:         len(obj.Faces),
		UsedStoredNormals: opts.PreferStoredNormals && HasUsableNormals(obj),
	}, nil
}

// Recolor redraws the colour bands of an existing mesh.
func (m *Mesh) Recolor(obj *formats.OBJ, rng RNG) {
	m.Colors = AssignColors(len(obj.Faces), obj.GroupFaceCounts, rng)
}
