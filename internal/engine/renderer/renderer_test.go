package renderer

import (
	"testing"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/objview/internal/engine/model"
	"github.com/Faultbox/objview/pkg/formats"
)

func TestDrawCount(t *testing.T) {
	obj, _ := formats.ParseOBJ("v 0 0 0\nv 1 0 0\nv 0 1 0\nv 1 1 0\nf 1 2 3\nf 2 4 3\n")
	mesh, err := model.Build(obj, model.BuildOptions{RNG: model.NewSineRNG(1)})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	// Three corners per face, independent of the vertex count
	if got := DrawCount(mesh); got != 6 {
		t.Errorf("expected 6, got %d", got)
	}
	if got := DrawCount(mesh); int(got) != mesh.VertexCount() {
		t.Errorf("draw count %d does not match stream length %d", got, mesh.VertexCount())
	}
	if got := DrawCount(nil); got != 0 {
		t.Errorf("expected 0 for nil mesh, got %d", got)
	}
}

func TestMeshAttributes(t *testing.T) {
	seen := map[uint32]bool{}
	for _, a := range meshAttributes {
		if seen[a.location] {
			t.Errorf("location %d used twice", a.location)
		}
		seen[a.location] = true
		if a.size != 3 {
			t.Errorf("location %d: expected 3 components, got %d", a.location, a.size)
		}
	}

	color := meshAttributes[2]
	if color.location != locColor || color.glType != gl.UNSIGNED_BYTE || !color.normalized {
		t.Errorf("expected normalized unsigned byte colours, got %+v", color)
	}
	for _, a := range meshAttributes[:2] {
		if a.glType != gl.FLOAT || a.normalized {
			t.Errorf("expected raw float stream at location %d, got %+v", a.location, a)
		}
	}
}
