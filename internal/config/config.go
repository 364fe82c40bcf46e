// Package config loads the runtime configuration from YAML or TOML, applies
// FRAMEKIT_* environment overrides and watches the file for rate changes.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/rook-computer/framekit/internal/render"
	"github.com/rook-computer/framekit/internal/window"
)

const (
	EnvConfigPath    = "FRAMEKIT_CONFIG"
	EnvListenAddr    = "FRAMEKIT_LISTEN"
	EnvDevMode       = "FRAMEKIT_DEV"
	EnvDebug         = "FRAMEKIT_DEBUG"
	EnvSurface       = "FRAMEKIT_SURFACE"
	EnvScripts       = "FRAMEKIT_SCRIPTS"
	EnvUpdateHz      = "FRAMEKIT_UPDATE_HZ"
	EnvDrawHz        = "FRAMEKIT_DRAW_HZ"
	EnvFixedHz       = "FRAMEKIT_FIXED_HZ"
	EnvFixedFrameCap = "FRAMEKIT_FIXED_FRAME_CAP"
	EnvStdioLog      = "FRAMEKIT_STDIO_LOG"
)

const (
	SurfaceFramebuffer = "fb"
	SurfaceTerminal    = "terminal"
	SurfaceImage       = "image"
)

var ErrUnsupportedFormat = errors.New("unsupported config format")

// File is the on-disk configuration. Rates are in calls per second.
type File struct {
	Window  WindowSection  `yaml:"window" toml:"window"`
	Server  ServerSection  `yaml:"server" toml:"server"`
	Log     LogSection     `yaml:"log" toml:"log"`
	Script  ScriptSection  `yaml:"script" toml:"script"`
	Surface SurfaceSection `yaml:"surface" toml:"surface"`
}

type WindowSection struct {
	Title         string  `yaml:"title" toml:"title"`
	Width         int     `yaml:"width" toml:"width"`
	Height        int     `yaml:"height" toml:"height"`
	UpdateHz      float64 `yaml:"update_hz" toml:"update_hz"`
	DrawHz        float64 `yaml:"draw_hz" toml:"draw_hz"`
	FixedHz       float64 `yaml:"fixed_hz" toml:"fixed_hz"`
	FixedFrameCap int     `yaml:"fixed_frame_cap" toml:"fixed_frame_cap"`
	Background    string  `yaml:"background" toml:"background"`
}

type ServerSection struct {
	Enabled bool   `yaml:"enabled" toml:"enabled"`
	Listen  string `yaml:"listen" toml:"listen"`
	Dev     bool   `yaml:"dev" toml:"dev"`
	// StaticDir, when set, replaces the embedded web UI.
	StaticDir string `yaml:"static_dir" toml:"static_dir"`
}

type LogSection struct {
	Debug bool   `yaml:"debug" toml:"debug"`
	Path  string `yaml:"path" toml:"path"`
	// Stdio redirects the process stdout/stderr to this file.
	Stdio string `yaml:"stdio" toml:"stdio"`
}

type ScriptSection struct {
	Paths []string `yaml:"paths" toml:"paths"`
	// Start names the view shown first; empty means the title screen.
	Start string `yaml:"start" toml:"start"`
}

type SurfaceSection struct {
	Kind          string `yaml:"kind" toml:"kind"`
	Device        string `yaml:"device" toml:"device"`
	SnapshotDir   string `yaml:"snapshot_dir" toml:"snapshot_dir"`
	SnapshotEvery int    `yaml:"snapshot_every" toml:"snapshot_every"`
}

func Default() File {
	return File{
		Window: WindowSection{
			Title:      "framekit",
			Width:      render.CanvasWidth,
			Height:     render.CanvasHeight,
			UpdateHz:   60,
			DrawHz:     60,
			FixedHz:    60,
			Background: "#ffdc00",
		},
		Server:  ServerSection{Enabled: true, Listen: ":8080"},
		Log:     LogSection{Path: "/tmp/framekit.log"},
		Surface: SurfaceSection{Kind: SurfaceFramebuffer, Device: "/dev/fb0"},
	}
}

// Load reads path over the defaults. The format follows the extension.
func Load(path string) (File, error) {
	f := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return f, fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err := f.decode(path, data); err != nil {
		return f, err
	}
	return f, nil
}

func (f *File) decode(path string, data []byte) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, f); err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, f); err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
	default:
		return fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}
	return nil
}

// ApplyEnv overrides fields from FRAMEKIT_* variables that are set.
func (f *File) ApplyEnv() error {
	var errs []error
	if v := os.Getenv(EnvListenAddr); v != "" {
		f.Server.Listen = v
	}
	envBool(EnvDevMode, &f.Server.Dev, &errs)
	envBool(EnvDebug, &f.Log.Debug, &errs)
	if v := os.Getenv(EnvStdioLog); v != "" {
		f.Log.Stdio = v
	}
	if v := os.Getenv(EnvSurface); v != "" {
		f.Surface.Kind = v
	}
	if v := os.Getenv(EnvScripts); v != "" {
		f.Script.Paths = nil
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				f.Script.Paths = append(f.Script.Paths, p)
			}
		}
	}
	envFloat(EnvUpdateHz, &f.Window.UpdateHz, &errs)
	envFloat(EnvDrawHz, &f.Window.DrawHz, &errs)
	envFloat(EnvFixedHz, &f.Window.FixedHz, &errs)
	if raw := os.Getenv(EnvFixedFrameCap); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s must be an integer (got %q): %w", EnvFixedFrameCap, raw, err))
		} else {
			f.Window.FixedFrameCap = n
		}
	}
	return errors.Join(errs...)
}

func envBool(name string, dst *bool, errs *[]error) {
	raw := os.Getenv(name)
	if raw == "" {
		return
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s must be a boolean (got %q): %w", name, raw, err))
		return
	}
	*dst = v
}

func envFloat(name string, dst *float64, errs *[]error) {
	raw := os.Getenv(name)
	if raw == "" {
		return
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s must be a number (got %q): %w", name, raw, err))
		return
	}
	*dst = v
}

// Validate reports every invalid field at once.
func (f File) Validate() error {
	var errs []error
	w := f.Window
	for _, hz := range []struct {
		name  string
		value float64
	}{{"window.update_hz", w.UpdateHz}, {"window.draw_hz", w.DrawHz}, {"window.fixed_hz", w.FixedHz}} {
		if hz.value <= 0 {
			errs = append(errs, fmt.Errorf("%s must be greater than zero (got %v)", hz.name, hz.value))
		}
	}
	if w.FixedFrameCap < 0 {
		errs = append(errs, fmt.Errorf("window.fixed_frame_cap must not be negative (got %d)", w.FixedFrameCap))
	}
	if w.Width < 0 || w.Height < 0 {
		errs = append(errs, fmt.Errorf("window size must not be negative (got %dx%d)", w.Width, w.Height))
	}
	if w.Background != "" {
		if _, err := render.ParseHex(w.Background); err != nil {
			errs = append(errs, fmt.Errorf("window.background: %w", err))
		}
	}
	switch f.Surface.Kind {
	case SurfaceFramebuffer, SurfaceTerminal, SurfaceImage:
	default:
		errs = append(errs, fmt.Errorf("surface.kind must be %s, %s or %s (got %q)",
			SurfaceFramebuffer, SurfaceTerminal, SurfaceImage, f.Surface.Kind))
	}
	if f.Surface.SnapshotEvery < 0 {
		errs = append(errs, fmt.Errorf("surface.snapshot_every must not be negative (got %d)", f.Surface.SnapshotEvery))
	}
	return errors.Join(errs...)
}

// WindowConfig converts the window section to window.Config.
func (f File) WindowConfig() (window.Config, error) {
	if err := f.Validate(); err != nil {
		return window.Config{}, err
	}
	cfg := window.DefaultConfig()
	w := f.Window
	cfg.Title = w.Title
	cfg.Width, cfg.Height = w.Width, w.Height
	cfg.UpdateRate = 1 / w.UpdateHz
	cfg.DrawRate = 1 / w.DrawHz
	cfg.FixedRate = 1 / w.FixedHz
	cfg.FixedFrameCap = w.FixedFrameCap
	if w.Background != "" {
		bg, _ := render.ParseHex(w.Background)
		cfg.Background = bg
	}
	return cfg, nil
}
