package app

import (
	"fmt"

	"github.com/rook-computer/framekit/internal/config"
	"github.com/rook-computer/framekit/internal/input"
	"github.com/rook-computer/framekit/internal/render"
	"github.com/rook-computer/framekit/internal/render/terminal"
	"github.com/rook-computer/framekit/internal/system"
)

// Host is what a surface kind brings along: where frames go, where input
// comes from and, for the framebuffer, the console to switch.
type Host struct {
	Surface render.Surface
	Inputs  []input.Source
	Console *system.Console
}

// NewHost builds the surface named by cfg.Surface.Kind.
func NewHost(cfg config.File, logger Logger) (Host, error) {
	if logger == nil {
		logger = NoopLogger{}
	}
	width, height := cfg.Window.Width, cfg.Window.Height
	if width <= 0 || height <= 0 {
		width, height = render.CanvasWidth, render.CanvasHeight
	}

	switch cfg.Surface.Kind {
	case config.SurfaceFramebuffer:
		fb := render.NewFBRenderer(logger)
		fb.Resize(width, height)
		if cfg.Surface.Device != "" {
			fb.Device = cfg.Surface.Device
		}
		fb.Debug = cfg.Log.Debug
		return Host{
			Surface: fb,
			Inputs:  []input.Source{input.NewEvdevSource(logger)},
			Console: system.NewConsole(logger),
		}, nil
	case config.SurfaceTerminal:
		term, err := terminal.New(width, height, logger)
		if err != nil {
			return Host{}, fmt.Errorf("terminal surface: %w", err)
		}
		return Host{Surface: term, Inputs: []input.Source{term}}, nil
	case config.SurfaceImage:
		img := render.NewImageSurface(width, height, logger)
		img.SnapshotDir = cfg.Surface.SnapshotDir
		img.SnapshotEvery = cfg.Surface.SnapshotEvery
		return Host{Surface: img}, nil
	default:
		return Host{}, fmt.Errorf("unknown surface kind %q", cfg.Surface.Kind)
	}
}

// Attach installs h on the app.
func (app *App) Attach(h Host) {
	app.Inputs = append(app.Inputs, h.Inputs...)
	if h.Console != nil {
		app.Console = h.Console
	}
}
