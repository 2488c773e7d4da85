package picking

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/objview/internal/engine/model"
	"github.com/Faultbox/objview/pkg/formats"
	"github.com/Faultbox/objview/pkg/math"
)

func approx(a, b float32) bool {
	return gomath.Abs(float64(a-b)) < 1e-4
}

// twoQuadsMesh builds two parallel unit triangles at z=0 and z=-2.
func twoQuadsMesh(t *testing.T) *model.Mesh {
	t.Helper()
	obj, diags := formats.ParseOBJ(`v 0 0 0
v 1 0 0
v 0 1 0
v 0 0 -2
v 1 0 -2
v 0 1 -2
f 4 5 6
f 1 2 3
`)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	m, err := model.Build(obj, model.BuildOptions{RNG: model.NewSineRNG(1)})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return m
}

func TestIntersectTriangle(t *testing.T) {
	a := math.Vec3{X: 0, Y: 0, Z: 0}
	b := math.Vec3{X: 1, Y: 0, Z: 0}
	c := math.Vec3{X: 0, Y: 1, Z: 0}

	tests := []struct {
		name  string
		ray   Ray
		hit   bool
		distT float32
	}{
		{"front", Ray{math.Vec3{X: 0.25, Y: 0.25, Z: 5}, math.Vec3{Z: -1}}, true, 5},
		{"back side", Ray{math.Vec3{X: 0.25, Y: 0.25, Z: -3}, math.Vec3{Z: 1}}, true, 3},
		{"outside", Ray{math.Vec3{X: 0.9, Y: 0.9, Z: 5}, math.Vec3{Z: -1}}, false, 0},
		{"behind origin", Ray{math.Vec3{X: 0.25, Y: 0.25, Z: 5}, math.Vec3{Z: 1}}, false, 0},
		{"parallel", Ray{math.Vec3{X: -1, Y: 0.25, Z: 0}, math.Vec3{X: 1}}, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dist, hit := tt.ray.IntersectTriangle(a, b, c)
			if hit != tt.hit {
				t.Fatalf("expected hit=%v, got %v", tt.hit, hit)
			}
			if hit && !approx(dist, tt.distT) {
				t.Errorf("expected distance %v, got %v", tt.distT, dist)
			}
		})
	}
}

func TestIntersectAABB(t *testing.T) {
	box := model.BBox{
		Min: math.Vec3{X: -1, Y: -1, Z: -1},
		Max: math.Vec3{X: 1, Y: 1, Z: 1},
	}

	dist, hit := Ray{math.Vec3{Z: 5}, math.Vec3{Z: -1}}.IntersectAABB(box)
	if !hit || !approx(dist, 4) {
		t.Errorf("expected hit at 4, got %v (hit=%v)", dist, hit)
	}

	// Starting inside returns the exit distance
	dist, hit = Ray{math.Vec3{}, math.Vec3{X: 1}}.IntersectAABB(box)
	if !hit || !approx(dist, 1) {
		t.Errorf("expected exit at 1, got %v (hit=%v)", dist, hit)
	}

	if _, hit := (Ray{math.Vec3{X: 3, Z: 5}, math.Vec3{Z: -1}}).IntersectAABB(box); hit {
		t.Error("expected miss for ray outside the X slab")
	}
}

func TestPickFaceNearest(t *testing.T) {
	m := twoQuadsMesh(t)

	hit, ok := PickFace(Ray{math.Vec3{X: 0.2, Y: 0.2, Z: 10}, math.Vec3{Z: -1}}, m)
	if !ok {
		t.Fatal("expected a hit")
	}
	if hit.Face != 1 {
		t.Errorf("expected nearest face 1, got %d", hit.Face)
	}
	if !approx(hit.Distance, 10) {
		t.Errorf("expected distance 10, got %v", hit.Distance)
	}
	if !approx(hit.Point.X, 0.2) || !approx(hit.Point.Z, 0) {
		t.Errorf("expected point (0.2, 0.2, 0), got %v", hit.Point)
	}

	// From behind, the far triangle is nearest
	hit, ok = PickFace(Ray{math.Vec3{X: 0.2, Y: 0.2, Z: -10}, math.Vec3{Z: 1}}, m)
	if !ok || hit.Face != 0 {
		t.Errorf("expected face 0 from behind, got %d (ok=%v)", hit.Face, ok)
	}
}

func TestPickFaceMiss(t *testing.T) {
	m := twoQuadsMesh(t)

	if _, ok := PickFace(Ray{math.Vec3{X: 5, Y: 5, Z: 10}, math.Vec3{Z: -1}}, m); ok {
		t.Error("expected miss")
	}
	if _, ok := PickFace(Ray{math.Vec3{Z: 10}, math.Vec3{Z: -1}}, nil); ok {
		t.Error("expected miss for nil mesh")
	}
}

func TestScreenToRayCenter(t *testing.T) {
	proj := math.Perspective(math.Radians(60), 1, 1, 100)
	inv, ok := proj.Inverse()
	if !ok {
		t.Fatal("expected invertible projection")
	}

	r := ScreenToRay(50, 50, 100, 100, inv)
	if !approx(r.Direction.X, 0) || !approx(r.Direction.Y, 0) || !approx(r.Direction.Z, -1) {
		t.Errorf("expected direction (0, 0, -1), got %v", r.Direction)
	}
	if !approx(r.Origin.Z, -1) {
		t.Errorf("expected origin on the near plane, got %v", r.Origin)
	}
}

func TestScreenToRayPicksThroughMVP(t *testing.T) {
	m := twoQuadsMesh(t)

	// Object pushed 5 units in front of the viewer
	mvp := math.Perspective(math.Radians(60), 1, 1, 100).Mul(math.Translate(0, 0, -5))
	inv, ok := mvp.Inverse()
	if !ok {
		t.Fatal("expected invertible MVP")
	}

	// Screen centre looks down -Z through the model origin, a corner shared
	// by both triangles. Nudge right and up into their interior.
	r := ScreenToRay(52, 48, 100, 100, inv)
	hit, ok := PickFace(r, m)
	if !ok {
		t.Fatalf("expected a hit, ray %+v", r)
	}
	if hit.Face != 1 {
		t.Errorf("expected front face 1, got %d", hit.Face)
	}
}
