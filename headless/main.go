// Command headless runs framekit on an offscreen canvas. With -frames it
// steps the window deterministically and writes the last frame; otherwise it
// runs in real time and serves the status API and the live frame.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rook-computer/framekit/internal/app"
	"github.com/rook-computer/framekit/internal/config"
	"github.com/rook-computer/framekit/internal/render"
	"github.com/rook-computer/framekit/internal/web"
)

func main() {
	configPath := flag.String("config", os.Getenv(config.EnvConfigPath), "YAML or TOML config file")
	listen := flag.String("listen", "", "http listen address; also configurable via "+config.EnvListenAddr)
	devMode := flag.Bool("dev", false, "enable dev CORS; also configurable via "+config.EnvDevMode)
	staticDir := flag.String("static-dir", "", "serve static UI from this directory (optional); when empty, embedded web UI assets are served")
	snapshotDir := flag.String("snapshot-dir", "", "write PNG snapshots here")
	snapshotEvery := flag.Int("snapshot-every", 0, "write every Nth frame when -snapshot-dir is set")
	frames := flag.Int("frames", 0, "step this many frames without a clock, write -out and exit")
	out := flag.String("out", "frame.png", "final frame for -frames")
	startView := flag.String("view", "", "view to show first")
	debug := flag.Bool("debug", false, "log to stderr")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Println("config error:", err)
			os.Exit(2)
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(); err != nil {
		fmt.Println("config env error:", err)
		os.Exit(2)
	}
	cfg.Surface.Kind = config.SurfaceImage
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "listen":
			cfg.Server.Listen = *listen
		case "dev":
			cfg.Server.Dev = *devMode
		case "static-dir":
			cfg.Server.StaticDir = *staticDir
		case "snapshot-dir":
			cfg.Surface.SnapshotDir = *snapshotDir
		case "snapshot-every":
			cfg.Surface.SnapshotEvery = *snapshotEvery
		}
	})

	var logger app.Logger = app.NoopLogger{}
	if *debug || cfg.Log.Debug {
		logger = app.NewFileLogger(os.Stderr)
	}

	host, err := app.NewHost(cfg, logger)
	if err != nil {
		fmt.Println("surface error:", err)
		os.Exit(1)
	}
	a, err := app.New(cfg, host.Surface, logger)
	if err != nil {
		fmt.Println("app error:", err)
		os.Exit(1)
	}
	a.ConfigPath = *configPath
	a.StartView = *startView
	if err := a.RegisterBuiltins(); err != nil {
		fmt.Println("views error:", err)
		os.Exit(1)
	}

	if *frames > 0 {
		if err := step(a, host.Surface.(*render.ImageSurface), *frames, *out); err != nil {
			fmt.Println("step error:", err)
			os.Exit(1)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Server.Enabled {
		serverCfg := web.ServerConfigFrom(cfg.Server, ":8080")
		server := web.NewHTTPServer(serverCfg, a.APIDeps())
		server.Logger = logger
		a.Web = server
		fmt.Println("framekit headless, API:", a.AnnounceURL(serverCfg.ListenAddr)+"api/v1/")
	}

	if err := a.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Println("app error:", err)
		os.Exit(1)
	}
}

// step drives the window on this goroutine with Window.Test, so every run
// with the same flags produces the same frames.
func step(a *app.App, surface *render.ImageSurface, frames int, out string) error {
	if err := surface.Start(context.Background()); err != nil {
		return err
	}
	if err := a.Switch(a.StartView); err != nil {
		return err
	}
	w := a.Window()
	if err := w.Test(frames); err != nil {
		return err
	}
	if err := surface.SavePNG(out); err != nil {
		return err
	}
	stats := w.Stats()
	fmt.Printf("%d frames: %d updates, %d fixed updates, fixed t=%.4f, wrote %s\n",
		frames, stats.Updates, stats.FixedUpdates, w.FixedTime(), out)
	return w.Close()
}
