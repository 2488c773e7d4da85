// Package scene holds the state of the viewed object: its transform, the
// projection, the camera and the light. Renderers read it; UIs edit it.
package scene

import (
	"github.com/Faultbox/objview/internal/config"
	"github.com/Faultbox/objview/internal/engine/camera"
	"github.com/Faultbox/objview/internal/engine/lighting"
	"github.com/Faultbox/objview/internal/engine/model"
	"github.com/Faultbox/objview/pkg/math"
)

// orthoMargin leaves some space around the object in orthographic mode.
const orthoMargin = 1.1

// Transform is the object placement edited by the sliders.
type Transform struct {
	Translation math.Vec3
	Rotation    math.Vec3 // degrees, applied X then Y then Z
	Scale       math.Vec3
}

// TransformFromConfig builds the initial transform from view settings.
func TransformFromConfig(v config.ViewConfig) Transform {
	return Transform{
		Translation: vec3(v.Translation),
		Rotation:    vec3(v.Rotation),
		Scale:       vec3(v.Scale),
	}
}

// Matrix returns T * Rx * Ry * Rz * S * P, where P translates by pivot.
// Passing the negated bbox centre as pivot rotates the object about its middle.
func (t Transform) Matrix(pivot math.Vec3) math.Mat4 {
	return math.Translate(t.Translation.X, t.Translation.Y, t.Translation.Z).
		Mul(math.RotateX(math.Radians(t.Rotation.X))).
		Mul(math.RotateY(math.Radians(t.Rotation.Y))).
		Mul(math.RotateZ(math.Radians(t.Rotation.Z))).
		Mul(math.Scale(t.Scale.X, t.Scale.Y, t.Scale.Z)).
		Mul(math.Translate(pivot.X, pivot.Y, pivot.Z))
}

// Range is an inclusive slider range.
type Range struct {
	Min, Max float32
}

// Clamp limits v to the range.
func (r Range) Clamp(v float32) float32 {
	if v < r.Min {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}

// Include widens the range so that it contains v.
func (r *Range) Include(v float32) {
	if v < r.Min {
		r.Min = v
	}
	if v > r.Max {
		r.Max = v
	}
}

// Limits are the slider ranges for each transform component.
type Limits struct {
	Translation [3]Range
	Rotation    Range
	Scale       Range
}

// DefaultLimits returns the slider ranges for a viewport of the given size.
func DefaultLimits(width, height int) Limits {
	return Limits{
		Translation: [3]Range{
			{Min: -100, Max: float32(width)},
			{Min: -100, Max: float32(height)},
			{Min: -1000, Max: 0},
		},
		Rotation: Range{Min: -180, Max: 180},
		Scale:    Range{Min: -1, Max: 1},
	}
}

// Clamp returns t with every component inside the limits.
func (l Limits) Clamp(t Transform) Transform {
	return Transform{
		Translation: math.Vec3{
			X: l.Translation[0].Clamp(t.Translation.X),
			Y: l.Translation[1].Clamp(t.Translation.Y),
			Z: l.Translation[2].Clamp(t.Translation.Z),
		},
		Rotation: math.Vec3{
			X: l.Rotation.Clamp(t.Rotation.X),
			Y: l.Rotation.Clamp(t.Rotation.Y),
			Z: l.Rotation.Clamp(t.Rotation.Z),
		},
		Scale: math.Vec3{
			X: l.Scale.Clamp(t.Scale.X),
			Y: l.Scale.Clamp(t.Scale.Y),
			Z: l.Scale.Clamp(t.Scale.Z),
		},
	}
}

// Extend widens the translation ranges so they contain t.
func (l *Limits) Extend(t Transform) {
	l.Translation[0].Include(t.Translation.X)
	l.Translation[1].Include(t.Translation.Y)
	l.Translation[2].Include(t.Translation.Z)
}

// Projection describes the camera lens.
type Projection struct {
	Mode string  // config.ProjectionPerspective or config.ProjectionOrthographic
	FOV  float32 // vertical, degrees
	Near float32
	Far  float32

	// OrthoHeight is the visible height in orthographic mode.
	OrthoHeight float32
}

// Matrix returns the projection matrix for the given aspect ratio.
func (p Projection) Matrix(aspect float32) math.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	if p.Mode == config.ProjectionOrthographic {
		h := p.OrthoHeight / 2
		w := h * aspect
		return math.Ortho(-w, w, -h, h, p.Near, p.Far)
	}
	return math.Perspective(math.Radians(p.FOV), aspect, p.Near, p.Far)
}

// Scene is everything needed to draw one frame of the viewer.
type Scene struct {
	Object     Transform
	Pivot      math.Vec3
	Projection Projection
	Camera     *camera.OrbitCamera
	Light      lighting.Directional
	Limits     Limits
	Mesh       *model.Mesh

	ShowBBox   bool
	CullFaces  bool
	Background [4]float32

	initial  Transform
	recenter bool
	autoFit  bool
}

// New creates a scene from the viewer configuration.
func New(cfg *config.Config) *Scene {
	obj := TransformFromConfig(cfg.View)
	s := &Scene{
		Object: obj,
		Projection: Projection{
			Mode:        cfg.View.Projection,
			FOV:         cfg.View.FOV,
			Near:        cfg.View.Near,
			Far:         cfg.View.Far,
			OrthoHeight: 2,
		},
		Camera: camera.NewOrbitCamera(),
		Light: lighting.NewDirectional(
			cfg.Lighting.Direction,
			cfg.Lighting.Ambient,
			cfg.Lighting.Diffuse,
			cfg.Lighting.Enabled,
		),
		Limits:     DefaultLimits(cfg.Window.Width, cfg.Window.Height),
		ShowBBox:   cfg.View.ShowBBox,
		CullFaces:  cfg.View.CullFaces,
		Background: cfg.View.Background,
		initial:    obj,
		recenter:   cfg.Model.Recenter,
		autoFit:    cfg.View.AutoFit,
	}
	s.Limits.Extend(obj)
	s.Camera.SetTarget(obj.Translation)
	return s
}

// SetMesh replaces the displayed mesh and places it in view.
func (s *Scene) SetMesh(m *model.Mesh) {
	s.Mesh = m
	if m == nil {
		return
	}

	s.Pivot = math.Vec3{}
	if s.recenter {
		s.Pivot = m.BBox.Reposition()
	}

	obj := s.Object
	if s.autoFit {
		obj.Translation = camera.FitToBBox(m.BBox, math.Radians(s.Projection.FOV))
		if !s.recenter {
			obj.Translation = obj.Translation.Sub(m.BBox.Center)
		}
	}

	diameter := m.BBox.Extents.Length()
	if diameter > 0 {
		s.Projection.OrthoHeight = diameter * orthoMargin
	}

	s.initial = obj
	s.Object = obj
	s.Limits.Extend(obj)
	s.Camera.Reset()
	s.Camera.SetTarget(obj.Translation)
}

// Reset restores the transform the current mesh was first shown with.
func (s *Scene) Reset() {
	s.Object = s.initial
	s.Camera.Reset()
	s.Camera.SetTarget(s.Object.Translation)
}

// ClampObject keeps the transform inside the slider limits.
func (s *Scene) ClampObject() {
	s.Object = s.Limits.Clamp(s.Object)
}

// ModelMatrix returns the object's model matrix.
func (s *Scene) ModelMatrix() math.Mat4 {
	return s.Object.Matrix(s.Pivot)
}

// Matrices returns the model, view and projection matrices. The camera
// orbits around the object's current position.
func (s *Scene) Matrices(aspect float32) (mdl, view, proj math.Mat4) {
	s.Camera.SetTarget(s.Object.Translation)
	return s.ModelMatrix(), s.Camera.ViewMatrix(), s.Projection.Matrix(aspect)
}

// MVP returns projection * view * model.
func (s *Scene) MVP(aspect float32) math.Mat4 {
	mdl, view, proj := s.Matrices(aspect)
	return proj.Mul(view).Mul(mdl)
}

func vec3(a [3]float32) math.Vec3 {
	return math.Vec3{X: a[0], Y: a[1], Z: a[2]}
}

// Store writes the current view and light back into cfg so it can be saved.
func (s *Scene) Store(cfg *config.Config) {
	cfg.View.Projection = s.Projection.Mode
	cfg.View.FOV = s.Projection.FOV
	cfg.View.Near = s.Projection.Near
	cfg.View.Far = s.Projection.Far
	cfg.View.Translation = s.Object.Translation.Array()
	cfg.View.Rotation = s.Object.Rotation.Array()
	cfg.View.Scale = s.Object.Scale.Array()
	cfg.View.CullFaces = s.CullFaces
	cfg.View.ShowBBox = s.ShowBBox
	cfg.View.Background = s.Background

	cfg.Lighting.Enabled = s.Light.Enabled
	cfg.Lighting.Direction = s.Light.Direction.Array()
	cfg.Lighting.Ambient = s.Light.Ambient
	cfg.Lighting.Diffuse = s.Light.Diffuse
}
