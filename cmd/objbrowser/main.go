// objbrowser is an ImGui viewer for Wavefront OBJ meshes with sliders
// for the object transform, projection and lighting.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"github.com/Faultbox/objview/internal/assets"
	"github.com/Faultbox/objview/internal/config"
	"github.com/Faultbox/objview/internal/engine/debug"
	"github.com/Faultbox/objview/internal/engine/framebuffer"
	"github.com/Faultbox/objview/internal/engine/model"
	"github.com/Faultbox/objview/internal/engine/picking"
	"github.com/Faultbox/objview/internal/engine/renderer"
	"github.com/Faultbox/objview/internal/engine/scene"
	"github.com/Faultbox/objview/internal/engine/ui"
	"github.com/Faultbox/objview/internal/logger"
)

func main() {
	runtime.LockOSThread()

	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	app, err := NewApp(cfg)
	if err != nil {
		logger.Error("failed to start browser", zap.Error(err))
		os.Exit(1)
	}
	defer app.Close()

	if cfg.Model.Path != "" {
		if err := app.OpenModel(cfg.Model.Path); err != nil {
			logger.Error("failed to open model", zap.Error(err))
		}
	}

	app.Run()
}

// App represents the OBJ browser application state.
type App struct {
	cfg      *config.Config
	backend  *ui.Backend
	renderer *renderer.Renderer
	fb       *framebuffer.Framebuffer
	assets   *assets.Manager
	scene    *scene.Scene
	model    *assets.Model
	log      *zap.Logger

	// Model options
	preferStored  bool
	deterministic bool
	seed          int32
	rng           model.RNG

	// Light angles in degrees, edited by sliders
	lightAzimuth   float32
	lightElevation float32

	pending pendingPath

	// Screenshot state
	screenshots         *debug.ScreenshotCapture
	screenshotRequested bool
	notify              notification

	lastMousePos imgui.Vec2

	// Face under the last click, if any
	picked    picking.Hit
	hasPicked bool
	dragged   bool

	mouseWasDown bool
}

// NewApp creates the window, GL resources and an empty scene.
func NewApp(cfg *config.Config) (*App, error) {
	app := &App{
		cfg:           cfg,
		assets:        assets.NewManager(logger.Named("assets")),
		scene:         scene.New(cfg),
		log:           logger.Named("objbrowser"),
		preferStored:  cfg.Model.PreferStoredNormals,
		deterministic: cfg.Model.Deterministic,
		seed:          int32(cfg.Model.Seed),
	}
	app.lightAzimuth, app.lightElevation = app.scene.Light.Angles()
	app.resetRNG()

	app.screenshots = debug.NewScreenshotCapture(cfg.Screenshot.Dir, "objbrowser")
	if err := app.screenshots.SetFormat(cfg.Screenshot.Format); err != nil {
		return nil, err
	}
	app.screenshots.SetScale(cfg.Screenshot.Scale)

	var err error
	app.backend, err = ui.NewBackend(cfg.Window, cfg.View.Background)
	if err != nil {
		return nil, err
	}

	app.renderer, err = renderer.New()
	if err != nil {
		return nil, err
	}

	app.fb, err = framebuffer.New(int32(cfg.Window.Width), int32(cfg.Window.Height))
	if err != nil {
		app.renderer.Close()
		return nil, fmt.Errorf("viewport framebuffer: %w", err)
	}

	return app, nil
}

// resetRNG restarts the colour source from the current settings.
func (app *App) resetRNG() {
	if app.deterministic {
		app.rng = model.NewSineRNG(float64(app.seed))
	} else {
		app.rng = model.NewDefaultRNG()
	}
}

// Close cleans up resources.
func (app *App) Close() {
	if app.fb != nil {
		app.fb.Destroy()
		app.fb = nil
	}
	if app.renderer != nil {
		app.renderer.Close()
		app.renderer = nil
	}
	app.assets.Close()
}

// Run starts the main application loop.
func (app *App) Run() {
	app.backend.Run(app.render)
}

// openFileDialog shows a native file dialog to select an OBJ file.
func (app *App) openFileDialog() {
	// The dialog blocks, so it runs aside; the result is opened in render()
	go func() {
		filename, err := dialog.File().
			Filter("Wavefront OBJ", "obj").
			Filter("All Files", "*").
			Title("Open OBJ Model").
			Load()

		if err != nil {
			if err != dialog.ErrCancelled {
				app.log.Warn("file dialog error", zap.Error(err))
			}
			return
		}

		app.pending.Set(filename)
	}()
}

// OpenModel loads an OBJ file and shows it.
func (app *App) OpenModel(path string) error {
	app.resetRNG()
	if err := app.load(path); err != nil {
		return err
	}
	app.scene.SetMesh(app.model.Mesh)
	app.backend.SetWindowTitle(fmt.Sprintf("OBJ Browser - %s", filepath.Base(app.model.Path)))
	return nil
}

// load builds the mesh with the current options and uploads it.
func (app *App) load(path string) error {
	m, err := app.assets.Load(path, assets.Options{
		Charset: app.cfg.Model.Charset,
		Build: model.BuildOptions{
			PreferStoredNormals: app.preferStored,
			RNG:                 app.rng,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to open model: %w", err)
	}

	app.model = m
	app.hasPicked = false
	app.renderer.Upload(m.Mesh)
	return nil
}

// rebuild reapplies model options without moving the object.
func (app *App) rebuild() {
	if app.model == nil {
		return
	}
	app.resetRNG()
	if err := app.load(app.model.Path); err != nil {
		app.notify.Show(err.Error(), time.Now())
		return
	}
	app.scene.Mesh = app.model.Mesh
	app.log.Debug("mesh rebuilt",
		zap.Bool("storedNormals", app.model.Mesh.UsedStoredNormals),
		zap.Bool("deterministic", app.deterministic),
	)
}

// recolor draws new colour bands from the running generator.
func (app *App) recolor() {
	if app.model == nil {
		return
	}
	app.model.Mesh.Recolor(app.model.OBJ, app.rng)
	app.renderer.UploadColors(app.model.Mesh)
}

// reload re-reads the file from disk.
func (app *App) reload() {
	if app.model == nil {
		return
	}
	app.assets.Invalidate(app.model.Path)
	app.rebuild()
	app.notify.Show("Reloaded "+filepath.Base(app.model.Path), time.Now())
}

func (app *App) saveSettings() {
	app.scene.Store(app.cfg)
	if err := app.cfg.Save(); err != nil {
		app.notify.Show(fmt.Sprintf("Save failed: %v", err), time.Now())
		return
	}
	app.notify.Show("Settings saved to "+config.ConfigDir(), time.Now())
}

func (app *App) captureScreenshot() {
	w, h := app.fb.Size()
	path, err := app.screenshots.CaptureFromPixels(app.fb.ReadPixels(), int(w), int(h))
	if err != nil {
		app.notify.Show(fmt.Sprintf("Screenshot failed: %v", err), time.Now())
		return
	}
	app.log.Info("screenshot saved", zap.String("path", path))
	app.notify.Show("Saved: "+filepath.Base(path), time.Now())
}

// render is called each frame to draw the UI.
func (app *App) render() {
	// Captured from the viewport framebuffer drawn last frame
	if app.screenshotRequested {
		app.screenshotRequested = false
		app.captureScreenshot()
	}

	// Dialog results are opened here, on the main thread
	if path := app.pending.Take(); path != "" {
		if err := app.OpenModel(path); err != nil {
			app.log.Error("open failed", zap.Error(err))
			app.notify.Show(err.Error(), time.Now())
		}
	}

	app.handleShortcuts()

	if imgui.BeginMainMenuBar() {
		if imgui.BeginMenu("File") {
			if imgui.MenuItemBool("Open OBJ...") {
				app.openFileDialog()
			}
			if imgui.MenuItemBool("Reload") {
				app.reload()
			}
			if imgui.MenuItemBool("Screenshot") {
				app.screenshotRequested = true
			}
			imgui.Separator()
			if imgui.MenuItemBool("Save Settings") {
				app.saveSettings()
			}
			imgui.Separator()
			if imgui.MenuItemBool("Exit") {
				os.Exit(0)
			}
			imgui.EndMenu()
		}
		if imgui.BeginMenu("View") {
			if imgui.MenuItemBool("Reset View") {
				app.scene.Reset()
			}
			if imgui.MenuItemBool("Recolor") {
				app.recolor()
			}
			imgui.EndMenu()
		}
		imgui.EndMainMenuBar()
	}

	posX, posY, width, height := ui.GetViewport()

	// Layout dimensions
	leftPanelWidth := float32(340)
	statusBarHeight := float32(30)
	contentHeight := height - statusBarHeight

	flags := imgui.WindowFlagsNoMove | imgui.WindowFlagsNoResize | imgui.WindowFlagsNoCollapse

	// Left panel - Controls
	imgui.SetNextWindowPos(imgui.NewVec2(posX, posY))
	imgui.SetNextWindowSize(imgui.NewVec2(leftPanelWidth, contentHeight))
	if imgui.BeginV("Controls", nil, flags) {
		app.renderControls()
	}
	imgui.End()

	// Center panel - Viewport
	imgui.SetNextWindowPos(imgui.NewVec2(posX+leftPanelWidth, posY))
	imgui.SetNextWindowSize(imgui.NewVec2(width-leftPanelWidth, contentHeight))
	if imgui.BeginV("Viewport", nil, flags) {
		app.renderViewport()
	}
	imgui.End()

	// Status bar at bottom
	imgui.SetNextWindowPos(imgui.NewVec2(posX, posY+contentHeight))
	imgui.SetNextWindowSize(imgui.NewVec2(width, statusBarHeight))
	statusFlags := flags | imgui.WindowFlagsNoTitleBar | imgui.WindowFlagsNoScrollbar
	if imgui.BeginV("##StatusBar", nil, statusFlags) {
		imgui.Text(statusText(app.model))
	}
	imgui.End()

	// Notification overlay
	if app.notify.Visible(time.Now()) {
		notifyFlags := imgui.WindowFlagsNoTitleBar | imgui.WindowFlagsNoResize |
			imgui.WindowFlagsNoMove | imgui.WindowFlagsNoScrollbar |
			imgui.WindowFlagsAlwaysAutoResize | imgui.WindowFlagsNoFocusOnAppearing
		imgui.SetNextWindowPos(imgui.NewVec2(posX+leftPanelWidth+10, posY+10))
		imgui.SetNextWindowBgAlpha(0.85)
		if imgui.BeginV("##Notify", nil, notifyFlags) {
			imgui.Text(app.notify.msg)
		}
		imgui.End()
	}
}

func (app *App) handleShortcuts() {
	// F12 = request screenshot (captured next frame)
	if ui.IsKeyPressed(imgui.KeyF12) {
		app.screenshotRequested = true
	}

	ctrlO := imgui.KeyChord(imgui.ModCtrl) | imgui.KeyChord(imgui.KeyO)
	if imgui.IsKeyChordPressed(ctrlO) {
		app.openFileDialog()
	}

	// Single-key shortcuts must not fire while typing into a widget
	if imgui.IsAnyItemActive() {
		return
	}
	if ui.IsKeyPressed(imgui.KeyR) {
		app.scene.Reset()
	}
	if ui.IsKeyPressed(imgui.KeyB) {
		app.scene.ShowBBox = !app.scene.ShowBBox
	}
	if ui.IsKeyPressed(imgui.KeyC) {
		app.recolor()
	}
	if ui.IsKeyPressed(imgui.KeyF5) {
		app.reload()
	}
}
