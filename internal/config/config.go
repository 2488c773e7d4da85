// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"github.com/Faultbox/objview/pkg/encoding"
)

// Config validation errors.
var (
	ErrInvalidProjection = errors.New("invalid projection")
	ErrInvalidFormat     = errors.New("invalid screenshot format")
	ErrInvalidClipRange  = errors.New("invalid clip range")
)

// Projection modes.
const (
	ProjectionPerspective  = "perspective"
	ProjectionOrthographic = "orthographic"
)

// Screenshot formats.
const (
	FormatPNG  = "png"
	FormatBMP  = "bmp"
	FormatWebP = "webp"
	FormatTGA  = "tga"
)

// Config holds all viewer settings.
type Config struct {
	Window     WindowConfig     `yaml:"window"`
	Model      ModelConfig      `yaml:"model"`
	View       ViewConfig       `yaml:"view"`
	Lighting   LightingConfig   `yaml:"lighting"`
	Screenshot ScreenshotConfig `yaml:"screenshot"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
}

// ModelConfig controls how the OBJ file is loaded and prepared.
type ModelConfig struct {
	Path                string  `yaml:"path"`
	Charset             string  `yaml:"charset"`               // utf-8, utf-16, euc-kr
	PreferStoredNormals bool    `yaml:"prefer_stored_normals"` // use vn data when usable
	Deterministic       bool    `yaml:"deterministic"`         // seeded colour bands
	Seed                float64 `yaml:"seed"`
	Recenter            bool    `yaml:"recenter"` // move bbox centre to the origin
}

// ViewConfig holds projection and initial object transform.
// Angles are in degrees.
type ViewConfig struct {
	Projection  string     `yaml:"projection"`
	FOV         float32    `yaml:"fov"`
	Near        float32    `yaml:"near"`
	Far         float32    `yaml:"far"`
	Translation [3]float32 `yaml:"translation"`
	Rotation    [3]float32 `yaml:"rotation"`
	Scale       [3]float32 `yaml:"scale"`
	AutoFit     bool       `yaml:"auto_fit"` // place the object from its bbox
	CullFaces   bool       `yaml:"cull_faces"`
	ShowBBox    bool       `yaml:"show_bbox"`
	Background  [4]float32 `yaml:"background"`
}

// LightingConfig holds directional light settings.
type LightingConfig struct {
	Enabled   bool       `yaml:"enabled"`
	Direction [3]float32 `yaml:"direction"`
	Ambient   float32    `yaml:"ambient"`
	Diffuse   float32    `yaml:"diffuse"`
}

// ScreenshotConfig holds screenshot output settings.
type ScreenshotConfig struct {
	Dir    string  `yaml:"dir"`
	Format string  `yaml:"format"` // png, bmp, webp, tga
	Scale  float32 `yaml:"scale"`  // 1 keeps the framebuffer size
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:      "OBJ Viewer",
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
		},
		Model: ModelConfig{
			Charset:             encoding.CharsetUTF8,
			PreferStoredNormals: true,
			Deterministic:       false,
			Seed:                1,
			Recenter:            true,
		},
		View: ViewConfig{
			Projection:  ProjectionPerspective,
			FOV:         60,
			Near:        1,
			Far:         2000,
			Translation: [3]float32{0, 0, -800},
			Rotation:    [3]float32{30, 0, 0},
			Scale:       [3]float32{1, 1, 1},
			AutoFit:     true,
			CullFaces:   true,
			ShowBBox:    false,
			Background:  [4]float32{1, 1, 1, 1},
		},
		Lighting: LightingConfig{
			Enabled:   true,
			Direction: [3]float32{0.5, 0.7, 1},
			Ambient:   0.4,
			Diffuse:   0.6,
		},
		Screenshot: ScreenshotConfig{
			Dir:    "screenshots",
			Format: FormatPNG,
			Scale:  1,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks settings that would otherwise fail later at render time.
func (c *Config) Validate() error {
	switch c.View.Projection {
	case ProjectionPerspective, ProjectionOrthographic:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidProjection, c.View.Projection)
	}

	if c.View.Near <= 0 || c.View.Far <= c.View.Near {
		return fmt.Errorf("%w: near=%g far=%g", ErrInvalidClipRange, c.View.Near, c.View.Far)
	}

	switch c.Screenshot.Format {
	case FormatPNG, FormatBMP, FormatWebP, FormatTGA:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidFormat, c.Screenshot.Format)
	}

	if _, err := encoding.DecodeText(nil, c.Model.Charset); err != nil {
		return fmt.Errorf("model charset: %w", err)
	}

	return nil
}
