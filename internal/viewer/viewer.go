// Package viewer implements the SDL model viewer: window, input loop and
// keyboard controls around one OBJ mesh.
package viewer

import (
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/objview/internal/assets"
	"github.com/Faultbox/objview/internal/config"
	"github.com/Faultbox/objview/internal/engine/debug"
	"github.com/Faultbox/objview/internal/engine/input"
	"github.com/Faultbox/objview/internal/engine/model"
	"github.com/Faultbox/objview/internal/engine/renderer"
	"github.com/Faultbox/objview/internal/engine/scene"
	"github.com/Faultbox/objview/internal/engine/window"
	"github.com/Faultbox/objview/internal/logger"
)

// Viewer is the main viewer instance.
type Viewer struct {
	cfg      *config.Config
	running  bool
	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	controls *Controls
	scene    *scene.Scene
	assets   *assets.Manager
	model    *assets.Model
	rng      model.RNG

	preferStored bool

	screenshots       *debug.ScreenshotCapture
	screenshotPending bool

	log *zap.Logger
}

// New creates the window and GPU resources.
func New(cfg *config.Config) (*Viewer, error) {
	v := &Viewer{
		cfg:          cfg,
		controls:     NewControls(),
		scene:        scene.New(cfg),
		assets:       assets.NewManager(logger.Named("assets")),
		rng:          NewRNG(cfg.Model),
		preferStored: cfg.Model.PreferStoredNormals,
		log:          logger.Named("viewer"),
	}

	v.log.Info("initializing viewer",
		zap.String("title", cfg.Window.Title),
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
	)

	v.screenshots = debug.NewScreenshotCapture(cfg.Screenshot.Dir, "objview")
	if err := v.screenshots.SetFormat(cfg.Screenshot.Format); err != nil {
		return nil, err
	}
	v.screenshots.SetScale(cfg.Screenshot.Scale)

	// Create window (this also creates OpenGL context)
	var err error
	v.window, err = window.New(cfg.Window)
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Create renderer (AFTER window, since OpenGL context must exist)
	v.renderer, err = renderer.New()
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	w, h := v.window.GetSize()
	v.renderer.Resize(w, h)

	v.input = input.New()

	v.log.Info("viewer initialized")
	return v, nil
}

// NewRNG returns the colour source selected by the model settings.
func NewRNG(cfg config.ModelConfig) model.RNG {
	if cfg.Deterministic {
		return model.NewSineRNG(cfg.Seed)
	}
	return model.NewDefaultRNG()
}

// Load reads an OBJ file, builds its mesh and puts it on screen.
func (v *Viewer) Load(path string) error {
	m, err := v.assets.Load(path, assets.Options{
		Charset: v.cfg.Model.Charset,
		Build: model.BuildOptions{
			PreferStoredNormals: v.preferStored,
			RNG:                 v.rng,
		},
	})
	if err != nil {
		return fmt.Errorf("loading model: %w", err)
	}

	v.model = m
	v.scene.SetMesh(m.Mesh)
	v.renderer.Upload(m.Mesh)
	v.updateTitle()

	v.log.Info("model loaded",
		zap.String("path", m.Path),
		zap.Int("faces", m.Mesh.FaceCount),
		zap.Bool("storedNormals", m.Mesh.UsedStoredNormals),
		zap.Int("diagnostics", len(m.Diagnostics)),
	)
	return nil
}

// Run starts the main loop.
func (v *Viewer) Run() error {
	v.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	v.log.Info("starting main loop")

	for v.running {
		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now

		// 1. Process input
		if v.input.Update() {
			v.running = false
			break
		}
		for _, event := range v.input.Events() {
			v.handleEvent(event)
		}

		// 2. Update scene
		v.controls.Update(v.input, v.scene, float32(dt))

		// 3. Render
		v.render()

		// Capture before the swap so the back buffer holds this frame
		if v.screenshotPending {
			v.screenshotPending = false
			v.captureScreenshot()
		}

		// 4. Present
		v.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			v.log.Debug("fps", zap.Int("count", frameCount), zap.String("dt", fmt.Sprintf("%.2fms", dt*1000)))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (v *Viewer) handleEvent(event input.Event) {
	switch event.Type {
	case input.EventWindowResize:
		v.renderer.Resize(event.Width, event.Height)
	case input.EventKeyDown:
		v.handleCommand(CommandForKey(event.Key))
	default:
		v.controls.HandleMouse(event, v.scene)
	}
}

func (v *Viewer) handleCommand(cmd Command) {
	if v.controls.Apply(cmd, v.scene) {
		v.updateTitle()
		return
	}

	switch cmd {
	case CmdQuit:
		v.running = false
	case CmdRecolor:
		if v.model != nil {
			v.model.Mesh.Recolor(v.model.OBJ, v.rng)
			v.renderer.UploadColors(v.model.Mesh)
		}
	case CmdToggleNormals:
		v.preferStored = !v.preferStored
		v.reload()
	case CmdReload:
		if v.model != nil {
			v.assets.Invalidate(v.model.Path)
		}
		v.reload()
	case CmdToggleFullscreen:
		v.window.ToggleFullscreen()
	case CmdScreenshot:
		v.screenshotPending = true
	}
}

// reload rebuilds the current model, keeping the transform.
func (v *Viewer) reload() {
	if v.model == nil {
		return
	}
	obj := v.scene.Object
	if err := v.Load(v.model.Path); err != nil {
		v.log.Error("reload failed", zap.Error(err))
		return
	}
	v.scene.Object = obj
}

func (v *Viewer) render() {
	v.renderer.Clear(v.scene.Background)
	v.renderer.Draw(v.scene, v.window.Aspect())
}

func (v *Viewer) captureScreenshot() {
	w, h := v.window.GetSize()
	path, err := v.screenshots.CaptureFromPixels(v.renderer.ReadPixels(w, h), w, h)
	if err != nil {
		v.log.Error("screenshot failed", zap.Error(err))
		return
	}
	v.log.Info("screenshot saved", zap.String("path", path))
}

func (v *Viewer) updateTitle() {
	v.window.SetTitle(Title(v.cfg.Window.Title, v.model, v.controls.Mode))
}

// Title builds the window title from the loaded model and edit mode.
func Title(base string, m *assets.Model, mode Mode) string {
	if m == nil {
		return base
	}
	return fmt.Sprintf("%s - %s (%d faces) [%s]", base, filepath.Base(m.Path), m.Mesh.FaceCount, mode)
}

// Close cleans up viewer resources.
func (v *Viewer) Close() {
	v.log.Info("closing viewer")

	v.assets.Close()
	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}
