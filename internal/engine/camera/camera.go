// Package camera provides the orbit camera used by the viewers.
package camera

import (
	gomath "math"

	"github.com/Faultbox/objview/internal/engine/model"
	"github.com/Faultbox/objview/pkg/math"
)

// fitMargin leaves some space around an auto-fitted object.
const fitMargin = 1.1

// OrbitCamera rotates the view around a target point. The viewer sits at
// the origin looking down -Z; with zero angles and zoom the view matrix is
// the identity, so object transforms alone decide placement.
type OrbitCamera struct {
	// Point the view rotates around, usually the object position
	Target math.Vec3

	Pitch float32 // around X, radians
	Yaw   float32 // around Y, radians
	Zoom  float32 // movement towards Target

	// Constraints
	MinDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32
}

// NewOrbitCamera creates a new orbit camera with default settings.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		MinDistance:     1.0,
		MinPitch:        -1.5,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
	}
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	t := c.Target
	return math.Translate(t.X, t.Y, t.Z+c.Zoom).
		Mul(math.RotateX(c.Pitch)).
		Mul(math.RotateY(c.Yaw)).
		Mul(math.Translate(-t.X, -t.Y, -t.Z))
}

// Distance returns the current distance between viewer and target.
func (c *OrbitCamera) Distance() float32 {
	return math.Vec3{X: c.Target.X, Y: c.Target.Y, Z: c.Target.Z + c.Zoom}.Length()
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.Yaw += deltaX * c.DragSensitivity
	c.Pitch += deltaY * c.DragSensitivity

	// Clamp pitch
	if c.Pitch < c.MinPitch {
		c.Pitch = c.MinPitch
	}
	if c.Pitch > c.MaxPitch {
		c.Pitch = c.MaxPitch
	}
}

// HandleZoom moves towards (positive delta) or away from the target.
// The viewer never gets closer than MinDistance.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Zoom += delta * c.Distance() * c.ZoomSensitivity

	// Only targets in front of the viewer can be approached
	if c.Target.Z < 0 {
		if limit := -c.Target.Z - c.MinDistance; c.Zoom > limit {
			c.Zoom = limit
		}
	}
}

// SetTarget sets the point the camera orbits around.
func (c *OrbitCamera) SetTarget(v math.Vec3) {
	c.Target = v
}

// Reset clears rotation and zoom.
func (c *OrbitCamera) Reset() {
	c.Pitch = 0
	c.Yaw = 0
	c.Zoom = 0
}

// FitDistance returns how far in front of the viewer a sphere of the given
// radius must sit to fill a perspective view with vertical FOV fovY (radians).
func FitDistance(radius, fovY float32) float32 {
	half := gomath.Sin(float64(fovY) / 2)
	if half <= 0 {
		return radius
	}
	return radius / float32(half)
}

// FitToBBox returns the object translation that centres a repositioned
// bounding box in front of the viewer, with a small margin.
func FitToBBox(bbox model.BBox, fovY float32) math.Vec3 {
	radius := bbox.Extents.Length() / 2
	if radius == 0 {
		radius = 1
	}
	return math.Vec3{Z: -FitDistance(radius, fovY) * fitMargin}
}
