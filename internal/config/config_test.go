package config

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rook-computer/framekit/internal/window"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "framekit.yaml", `
window:
  title: demo
  fixed_hz: 120
  fixed_frame_cap: 4
surface:
  kind: terminal
script:
  paths: [a.lua, b.lua]
`)
	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if f.Window.Title != "demo" || f.Window.FixedHz != 120 || f.Window.FixedFrameCap != 4 {
		t.Errorf("window = %+v", f.Window)
	}
	if f.Window.UpdateHz != 60 {
		t.Errorf("default update_hz lost: %v", f.Window.UpdateHz)
	}
	if f.Surface.Kind != SurfaceTerminal || len(f.Script.Paths) != 2 {
		t.Errorf("surface=%+v script=%+v", f.Surface, f.Script)
	}
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "framekit.toml", `
[window]
draw_hz = 30.0
background = "#000000"

[server]
listen = ":9000"
dev = true
`)
	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if f.Window.DrawHz != 30 || f.Window.Background != "#000000" {
		t.Errorf("window = %+v", f.Window)
	}
	if f.Server.Listen != ":9000" || !f.Server.Dev || !f.Server.Enabled {
		t.Errorf("server = %+v", f.Server)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(writeFile(t, "framekit.ini", "x=1")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("ini = %v", err)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing = %v", err)
	}
	if _, err := Load(writeFile(t, "bad.yaml", "window: [")); err == nil {
		t.Error("bad yaml accepted")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvListenAddr, ":7000")
	t.Setenv(EnvDevMode, "true")
	t.Setenv(EnvFixedHz, "30")
	t.Setenv(EnvFixedFrameCap, "2")
	t.Setenv(EnvScripts, "a.lua, b.lua,")
	t.Setenv(EnvSurface, SurfaceImage)

	f := Default()
	if err := f.ApplyEnv(); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	if f.Server.Listen != ":7000" || !f.Server.Dev {
		t.Errorf("server = %+v", f.Server)
	}
	if f.Window.FixedHz != 30 || f.Window.FixedFrameCap != 2 {
		t.Errorf("window = %+v", f.Window)
	}
	if len(f.Script.Paths) != 2 || f.Script.Paths[1] != "b.lua" {
		t.Errorf("scripts = %v", f.Script.Paths)
	}
	if f.Surface.Kind != SurfaceImage {
		t.Errorf("surface = %q", f.Surface.Kind)
	}
}

func TestApplyEnvRejectsGarbage(t *testing.T) {
	t.Setenv(EnvDevMode, "maybe")
	t.Setenv(EnvUpdateHz, "fast")
	f := Default()
	err := f.ApplyEnv()
	if err == nil || !strings.Contains(err.Error(), EnvDevMode) || !strings.Contains(err.Error(), EnvUpdateHz) {
		t.Errorf("err = %v", err)
	}
}

func TestValidate(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	f := Default()
	f.Window.FixedHz = 0
	f.Window.FixedFrameCap = -1
	f.Surface.Kind = "crt"
	err := f.Validate()
	for _, want := range []string{"fixed_hz", "fixed_frame_cap", "surface.kind"} {
		if err == nil || !strings.Contains(err.Error(), want) {
			t.Errorf("err = %v, missing %s", err, want)
		}
	}
}

func TestWindowConfig(t *testing.T) {
	f := Default()
	f.Window.FixedHz = 50
	f.Window.FixedFrameCap = 3
	cfg, err := f.WindowConfig()
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(cfg.FixedRate-0.02) > 1e-12 || cfg.FixedFrameCap != 3 {
		t.Errorf("cfg = %+v", cfg)
	}
	if _, err := window.New(nil, nil, cfg); err != nil {
		t.Errorf("window rejects converted config: %v", err)
	}

	f.Window.DrawHz = -1
	if _, err := f.WindowConfig(); err == nil {
		t.Error("invalid config converted")
	}
}

func TestWatchReloads(t *testing.T) {
	path := writeFile(t, "framekit.yaml", "window:\n  update_hz: 60\n")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	got := make(chan File, 4)
	done := make(chan error, 1)
	go func() { done <- Watch(ctx, path, func(f File) { got <- f }, nil) }()

	// Give the watcher time to register before writing.
	time.Sleep(200 * time.Millisecond)
	if err := os.WriteFile(path, []byte("window:\n  update_hz: 30\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case f := <-got:
		if f.Window.UpdateHz != 30 {
			t.Errorf("reloaded update_hz = %v", f.Window.UpdateHz)
		}
	case <-ctx.Done():
		t.Fatal("no reload before timeout")
	}
	cancel()
	if err := <-done; err != nil {
		t.Errorf("Watch returned %v", err)
	}
}
