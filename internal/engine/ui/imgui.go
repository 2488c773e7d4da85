// Package ui provides ImGui-based user interface components.
package ui

import (
	"fmt"
	"os"

	"github.com/AllenDang/cimgui-go/backend"
	"github.com/AllenDang/cimgui-go/backend/sdlbackend"
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/objview/internal/config"
	"github.com/Faultbox/objview/internal/engine/scene"
	"github.com/Faultbox/objview/pkg/math"
)

// glyphRanges covers Latin plus Hangul so EUC-KR file names render.
// Format: pairs of [start, end] values terminated by 0.
var glyphRanges = []imgui.Wchar{
	0x0020, 0x00FF, // Basic Latin + Latin Supplement
	0x3000, 0x30FF, // CJK Symbols and Punctuation, Hiragana, Katakana
	0x3130, 0x318F, // Hangul Compatibility Jamo
	0xAC00, 0xD7AF, // Hangul Syllables
	0,
}

// fontPaths are tried in order; the ImGui default font is used if none exist.
var fontPaths = []string{
	"/Library/Fonts/Arial Unicode.ttf",
	"/System/Library/Fonts/Supplemental/Arial Unicode.ttf",
	"C:\\Windows\\Fonts\\malgun.ttf",
	"C:\\Windows\\Fonts\\gulim.ttc",
	"/usr/share/fonts/truetype/noto/NotoSansCJK-Regular.ttc",
	"/usr/share/fonts/opentype/noto/NotoSansCJK-Regular.ttc",
}

// Backend wraps the ImGui SDL backend.
type Backend struct {
	backend backend.Backend[sdlbackend.SDLWindowFlags]
	width   int32
	height  int32
}

// NewBackend creates the ImGui window and OpenGL context.
func NewBackend(cfg config.WindowConfig, bg [4]float32) (*Backend, error) {
	b := &Backend{
		width:  int32(cfg.Width),
		height: int32(cfg.Height),
	}

	var err error
	b.backend, err = backend.CreateBackend(sdlbackend.NewSDLBackend())
	if err != nil {
		return nil, fmt.Errorf("create backend: %w", err)
	}

	// Fonts must be registered before the first frame
	b.backend.SetAfterCreateContextHook(loadFont)

	b.backend.SetBgColor(imgui.NewVec4(bg[0], bg[1], bg[2], bg[3]))
	b.backend.CreateWindow(cfg.Title, cfg.Width, cfg.Height)

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("init opengl: %w", err)
	}

	return b, nil
}

// FindFont returns the first existing path, or "" when none exists.
func FindFont(paths []string) string {
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

func loadFont() {
	fontPath := FindFont(fontPaths)
	if fontPath == "" {
		return
	}

	fontCfg := imgui.NewFontConfig()
	defer fontCfg.Destroy()

	imgui.CurrentIO().Fonts().AddFontFromFileTTFV(fontPath, 16.0, fontCfg, &glyphRanges[0])
}

// Run starts the main render loop.
func (b *Backend) Run(renderFunc func()) {
	b.backend.Run(renderFunc)
}

// SetWindowTitle updates the window title.
func (b *Backend) SetWindowTitle(title string) {
	b.backend.SetWindowTitle(title)
}

// SetBgColor changes the clear colour behind the ImGui windows.
func (b *Backend) SetBgColor(rgba [4]float32) {
	b.backend.SetBgColor(imgui.NewVec4(rgba[0], rgba[1], rgba[2], rgba[3]))
}

// GetWindowSize returns the initial window size.
func (b *Backend) GetWindowSize() (int32, int32) {
	return b.width, b.height
}

// GetViewport returns the main viewport work area.
func GetViewport() (posX, posY, width, height float32) {
	viewport := imgui.MainViewport()
	workPos := viewport.WorkPos()
	workSize := viewport.WorkSize()
	return workPos.X, workPos.Y, workSize.X, workSize.Y
}

// Image draws an OpenGL texture. flipV swaps the V axis for render targets.
func Image(texID uint32, width, height float32, flipV bool, bg [4]float32) {
	uv0, uv1 := imgui.NewVec2(0, 0), imgui.NewVec2(1, 1)
	if flipV {
		uv0, uv1 = imgui.NewVec2(0, 1), imgui.NewVec2(1, 0)
	}
	texRef := imgui.NewTextureRefTextureID(imgui.TextureID(texID))
	imgui.ImageWithBgV(
		*texRef,
		imgui.NewVec2(width, height),
		uv0,
		uv1,
		imgui.NewVec4(bg[0], bg[1], bg[2], bg[3]),
		imgui.NewVec4(1, 1, 1, 1),
	)
}

// SliderRange is a float slider bound to a scene.Range. It reports
// whether the value changed.
func SliderRange(label string, v *float32, r scene.Range, format string) bool {
	return imgui.SliderFloatV(label, v, r.Min, r.Max, format, imgui.SliderFlagsNone)
}

// SliderAxes draws one slider per axis, labelled label X, label Y and
// label Z. It reports whether any of them changed.
func SliderAxes(label string, v *math.Vec3, ranges [3]scene.Range, format string) bool {
	changed := false
	axes := [3]*float32{&v.X, &v.Y, &v.Z}
	for i, axis := range [3]string{"X", "Y", "Z"} {
		if SliderRange(fmt.Sprintf("%s %s", label, axis), axes[i], ranges[i], format) {
			changed = true
		}
	}
	return changed
}

// FitImage returns the largest size with the given aspect ratio that fits
// inside availW x availH.
func FitImage(aspect, availW, availH float32) (float32, float32) {
	if aspect <= 0 || availW <= 0 || availH <= 0 {
		return 0, 0
	}
	w, h := availH*aspect, availH
	if w > availW {
		w = availW
		h = w / aspect
	}
	return w, h
}

// IsKeyPressed checks if a key was pressed this frame.
func IsKeyPressed(key imgui.Key) bool {
	return imgui.IsKeyChordPressed(imgui.KeyChord(key))
}

// IsKeyDown checks if a key is currently held down.
func IsKeyDown(key imgui.Key) bool {
	return imgui.IsKeyDown(key)
}
