package lighting

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/objview/pkg/math"
)

func approx(a, b float32) bool {
	return gomath.Abs(float64(a-b)) < 1e-5
}

func TestDirectionFromAngles(t *testing.T) {
	tests := []struct {
		name               string
		azimuth, elevation float32
		want               math.Vec3
	}{
		{"front", 0, 0, math.Vec3{Z: 1}},
		{"right", 90, 0, math.Vec3{X: 1}},
		{"overhead", 0, 90, math.Vec3{Y: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DirectionFromAngles(tt.azimuth, tt.elevation)
			if !approx(got.X, tt.want.X) || !approx(got.Y, tt.want.Y) || !approx(got.Z, tt.want.Z) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
			if !approx(got.Length(), 1) {
				t.Errorf("expected unit vector, got length %f", got.Length())
			}
		})
	}
}

func TestAngles(t *testing.T) {
	tests := []struct {
		name               string
		azimuth, elevation float32
	}{
		{"front", 0, 0},
		{"right", 90, 0},
		{"behind left", 225, 30},
		{"below", 45, -60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := DirectionFromAngles(tt.azimuth, tt.elevation)
			light := NewDirectional(d.Scale(3).Array(), 0.3, 0.7, true)

			az, el := light.Angles()
			if gomath.Abs(float64(az-tt.azimuth)) > 1e-3 || gomath.Abs(float64(el-tt.elevation)) > 1e-3 {
				t.Errorf("expected (%v, %v), got (%v, %v)", tt.azimuth, tt.elevation, az, el)
			}
		})
	}
}

func TestIntensity(t *testing.T) {
	light := NewDirectional([3]float32{0, 0, 2}, 0.4, 0.6, true)

	tests := []struct {
		name   string
		normal math.Vec3
		want   float32
	}{
		{"facing light", math.Vec3{Z: 1}, 1.0},
		{"unnormalized", math.Vec3{Z: 5}, 1.0},
		{"perpendicular", math.Vec3{X: 1}, 0.4},
		{"facing away", math.Vec3{Z: -1}, 0.4},
		{"degenerate", math.Vec3{}, 0.4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := light.Intensity(tt.normal); !approx(got, tt.want) {
				t.Errorf("expected %f, got %f", tt.want, got)
			}
		})
	}
}

func TestIntensityClamped(t *testing.T) {
	light := NewDirectional([3]float32{0, 1, 0}, 0.8, 0.8, true)
	if got := light.Intensity(math.Vec3{Y: 1}); got != 1 {
		t.Errorf("expected intensity clamped to 1, got %f", got)
	}
}

func TestDisabledLight(t *testing.T) {
	light := NewDirectional([3]float32{1, 0, 0}, 0.1, 0.9, false)

	dir, ambient, diffuse := light.Uniforms()
	if ambient != 1 || diffuse != 0 {
		t.Errorf("expected full ambient when disabled, got ambient=%f diffuse=%f", ambient, diffuse)
	}
	if dir != [3]float32{0, 0, 1} {
		t.Errorf("expected default direction, got %v", dir)
	}
	if got := light.Intensity(math.Vec3{Z: -1}); got != 1 {
		t.Errorf("expected unlit intensity 1, got %f", got)
	}
}

func TestUnitDirectionZero(t *testing.T) {
	light := Directional{Enabled: true}
	if got := light.UnitDirection(); got != (math.Vec3{Z: 1}) {
		t.Errorf("expected +Z fallback, got %v", got)
	}
}
