// Package lighting provides the directional light used to shade meshes.
package lighting

import (
	gomath "math"

	"github.com/Faultbox/objview/pkg/math"
)

// Directional is a light infinitely far away, shining along -Direction.
type Directional struct {
	Enabled bool

	// Direction points from the surface towards the light.
	Direction math.Vec3

	Ambient float32
	Diffuse float32
}

// NewDirectional creates a directional light.
func NewDirectional(direction [3]float32, ambient, diffuse float32, enabled bool) Directional {
	return Directional{
		Enabled:   enabled,
		Direction: math.Vec3{X: direction[0], Y: direction[1], Z: direction[2]},
		Ambient:   ambient,
		Diffuse:   diffuse,
	}
}

// DirectionFromAngles converts azimuth/elevation angles to a light direction.
// Azimuth is rotation around Y (0-360), elevation is the angle above the
// horizon (0-90). Both are in degrees. Returns a unit vector towards the light.
func DirectionFromAngles(azimuth, elevation float32) math.Vec3 {
	az := float64(math.Radians(azimuth))
	el := float64(math.Radians(elevation))

	return math.Vec3{
		X: float32(gomath.Cos(el) * gomath.Sin(az)),
		Y: float32(gomath.Sin(el)),
		Z: float32(gomath.Cos(el) * gomath.Cos(az)),
	}
}

// Angles is the inverse of DirectionFromAngles: azimuth in [0, 360) and
// elevation in [-90, 90], both in degrees.
func (l Directional) Angles() (azimuth, elevation float32) {
	d := l.UnitDirection()
	azimuth = math.Degrees(float32(gomath.Atan2(float64(d.X), float64(d.Z))))
	if azimuth < 0 {
		azimuth += 360
	}
	y := gomath.Max(-1, gomath.Min(1, float64(d.Y)))
	elevation = math.Degrees(float32(gomath.Asin(y)))
	return azimuth, elevation
}

// UnitDirection returns the normalized direction. A zero vector falls back
// to light coming from the viewer (+Z).
func (l Directional) UnitDirection() math.Vec3 {
	if l.Direction.Length() == 0 {
		return math.Vec3{Z: 1}
	}
	return l.Direction.Normalize()
}

// Uniforms returns the values uploaded to the mesh shader. A disabled
// light is expressed as full ambient so the shader needs no branch.
func (l Directional) Uniforms() (dir [3]float32, ambient, diffuse float32) {
	if !l.Enabled {
		return [3]float32{0, 0, 1}, 1, 0
	}
	return l.UnitDirection().Array(), l.Ambient, l.Diffuse
}

// Intensity returns the brightness factor applied to a surface with the
// given normal. It mirrors the mesh fragment shader and is clamped to [0, 1].
// Normals do not need to be unit length.
func (l Directional) Intensity(normal math.Vec3) float32 {
	dir, ambient, diffuse := l.Uniforms()
	n := normal.Normalize()
	d := n.Dot(math.Vec3{X: dir[0], Y: dir[1], Z: dir[2]})
	if d < 0 {
		d = 0
	}
	i := ambient + diffuse*d
	if i > 1 {
		i = 1
	}
	return i
}
