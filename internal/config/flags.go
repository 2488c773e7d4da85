package config

import (
	"flag"
	"fmt"
	"strconv"
)

var (
	flagConfig      = flag.String("config", "", "Path to config file")
	flagDebug       = flag.Bool("debug", false, "Enable debug logging")
	flagModel       = flag.String("model", "", "Path to OBJ file to open")
	flagCharset     = flag.String("charset", "", "OBJ text encoding (utf-8, utf-16, euc-kr)")
	flagSeed        = flag.String("seed", "", "Seed for deterministic colour bands")
	flagFlatNormals = flag.Bool("flat-normals", false, "Ignore normals stored in the file")
	flagBBox        = flag.Bool("bbox", false, "Show the bounding box")
	flagWindowed    = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen  = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth       = flag.Int("width", 0, "Window width")
	flagHeight      = flag.Int("height", 0, "Window height")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// ModelArg returns the OBJ path given as the first positional argument.
func ModelArg() string {
	return flag.Arg(0)
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) error {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagModel != "" {
		cfg.Model.Path = *flagModel
	} else if arg := ModelArg(); arg != "" {
		cfg.Model.Path = arg
	}
	if *flagCharset != "" {
		cfg.Model.Charset = *flagCharset
	}
	if *flagSeed != "" {
		seed, err := strconv.ParseFloat(*flagSeed, 64)
		if err != nil {
			return fmt.Errorf("invalid -seed %q: %w", *flagSeed, err)
		}
		cfg.Model.Seed = seed
		cfg.Model.Deterministic = true
	}
	if *flagFlatNormals {
		cfg.Model.PreferStoredNormals = false
	}
	if *flagBBox {
		cfg.View.ShowBBox = true
	}
	if *flagWindowed {
		cfg.Window.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Window.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Window.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Window.Height = *flagHeight
	}
	return nil
}
