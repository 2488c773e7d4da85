package viewer

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/objview/internal/config"
	"github.com/Faultbox/objview/internal/engine/input"
	"github.com/Faultbox/objview/internal/engine/scene"
	"github.com/Faultbox/objview/pkg/math"
)

// Mode selects which transform component the movement keys edit.
type Mode int

// Edit modes.
const (
	ModeTranslate Mode = iota
	ModeRotate
	ModeScale
)

// String returns the mode name shown in the window title.
func (m Mode) String() string {
	switch m {
	case ModeTranslate:
		return "translate"
	case ModeRotate:
		return "rotate"
	case ModeScale:
		return "scale"
	default:
		return "unknown"
	}
}

// Command is a one-shot action bound to a key press.
type Command int

// Commands.
const (
	CmdNone Command = iota
	CmdQuit
	CmdReset
	CmdModeTranslate
	CmdModeRotate
	CmdModeScale
	CmdToggleBBox
	CmdToggleProjection
	CmdToggleLighting
	CmdToggleCulling
	CmdToggleNormals
	CmdRecolor
	CmdToggleFullscreen
	CmdScreenshot
	CmdReload
)

// keyCommands binds key presses to commands.
var keyCommands = map[sdl.Scancode]Command{
	sdl.SCANCODE_ESCAPE: CmdQuit,
	sdl.SCANCODE_R:      CmdReset,
	sdl.SCANCODE_1:      CmdModeTranslate,
	sdl.SCANCODE_2:      CmdModeRotate,
	sdl.SCANCODE_3:      CmdModeScale,
	sdl.SCANCODE_B:      CmdToggleBBox,
	sdl.SCANCODE_P:      CmdToggleProjection,
	sdl.SCANCODE_L:      CmdToggleLighting,
	sdl.SCANCODE_K:      CmdToggleCulling,
	sdl.SCANCODE_N:      CmdToggleNormals,
	sdl.SCANCODE_C:      CmdRecolor,
	sdl.SCANCODE_F:      CmdToggleFullscreen,
	sdl.SCANCODE_F12:    CmdScreenshot,
	sdl.SCANCODE_F5:     CmdReload,
}

// CommandForKey returns the command bound to a key, or CmdNone.
func CommandForKey(key sdl.Scancode) Command {
	return keyCommands[key]
}

// axisKey binds a held key to one direction along one axis.
type axisKey struct {
	key  sdl.Scancode
	axis int
	sign float32
}

// axisKeys: arrows and WASD move in X/Y, Q/E along Z.
var axisKeys = []axisKey{
	{sdl.SCANCODE_LEFT, 0, -1},
	{sdl.SCANCODE_A, 0, -1},
	{sdl.SCANCODE_RIGHT, 0, 1},
	{sdl.SCANCODE_D, 0, 1},
	{sdl.SCANCODE_DOWN, 1, -1},
	{sdl.SCANCODE_S, 1, -1},
	{sdl.SCANCODE_UP, 1, 1},
	{sdl.SCANCODE_W, 1, 1},
	{sdl.SCANCODE_Q, 2, -1},
	{sdl.SCANCODE_E, 2, 1},
}

// KeyState reports held keys. *input.Input implements it.
type KeyState interface {
	IsKeyHeld(scancode sdl.Scancode) bool
}

// Controls turns keyboard and mouse input into scene edits.
type Controls struct {
	Mode Mode

	// Speeds per second of held key
	TranslateSpeed float32
	RotateSpeed    float32 // degrees
	ScaleSpeed     float32

	dragging bool
}

// NewControls creates controls with default speeds.
func NewControls() *Controls {
	return &Controls{
		Mode:           ModeTranslate,
		TranslateSpeed: 200,
		RotateSpeed:    90,
		ScaleSpeed:     0.5,
	}
}

// Apply performs the commands that only touch the scene. It returns false
// for commands the caller must handle (quit, recolor, fullscreen,
// screenshot, normals, reload).
func (c *Controls) Apply(cmd Command, s *scene.Scene) bool {
	switch cmd {
	case CmdReset:
		s.Reset()
	case CmdModeTranslate:
		c.Mode = ModeTranslate
	case CmdModeRotate:
		c.Mode = ModeRotate
	case CmdModeScale:
		c.Mode = ModeScale
	case CmdToggleBBox:
		s.ShowBBox = !s.ShowBBox
	case CmdToggleProjection:
		if s.Projection.Mode == config.ProjectionOrthographic {
			s.Projection.Mode = config.ProjectionPerspective
		} else {
			s.Projection.Mode = config.ProjectionOrthographic
		}
	case CmdToggleLighting:
		s.Light.Enabled = !s.Light.Enabled
	case CmdToggleCulling:
		s.CullFaces = !s.CullFaces
	default:
		return false
	}
	return true
}

// Update applies held movement keys for a frame of dt seconds and keeps
// the transform inside the scene limits.
func (c *Controls) Update(keys KeyState, s *scene.Scene, dt float32) {
	var delta [3]float32
	moved := false
	for _, k := range axisKeys {
		if keys.IsKeyHeld(k.key) {
			delta[k.axis] += k.sign
			moved = true
		}
	}
	if !moved {
		return
	}

	d := math.Vec3{X: delta[0], Y: delta[1], Z: delta[2]}
	switch c.Mode {
	case ModeTranslate:
		s.Object.Translation = s.Object.Translation.Add(d.Scale(c.TranslateSpeed * dt))
	case ModeRotate:
		// Up/Down tilt around X, Left/Right turn around Y
		r := math.Vec3{X: -d.Y, Y: d.X, Z: d.Z}
		s.Object.Rotation = s.Object.Rotation.Add(r.Scale(c.RotateSpeed * dt))
	case ModeScale:
		step := c.ScaleSpeed * dt
		if d.Z != 0 {
			// Q/E scale uniformly
			d = math.Vec3{X: d.Z, Y: d.Z, Z: d.Z}
		}
		s.Object.Scale = s.Object.Scale.Add(d.Scale(step))
	}
	s.ClampObject()
}

// HandleMouse orbits the camera while the left button is dragged and
// zooms with the wheel.
func (c *Controls) HandleMouse(ev input.Event, s *scene.Scene) {
	switch ev.Type {
	case input.EventMouseDown:
		if ev.Button == sdl.BUTTON_LEFT {
			c.dragging = true
		}
	case input.EventMouseUp:
		if ev.Button == sdl.BUTTON_LEFT {
			c.dragging = false
		}
	case input.EventMouseMove:
		if c.dragging {
			s.Camera.HandleDrag(float32(ev.DeltaX), float32(ev.DeltaY))
		}
	case input.EventMouseWheel:
		if ev.WheelY != 0 {
			s.Camera.HandleZoom(float32(ev.WheelY))
		}
	}
}
