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
	"github.com/rook-computer/framekit/internal/web"
)

func main() {
	fmt.Println("framekit starting")

	configPath := flag.String("config", os.Getenv(config.EnvConfigPath), "YAML or TOML config file; also configurable via "+config.EnvConfigPath)
	debug := flag.Bool("debug", false, "enable debug logging to the configured log path")
	stdioLog := flag.String("stdio-log", "", "redirect stdout+stderr (including panics) to this file; also configurable via "+config.EnvStdioLog)
	surface := flag.String("surface", "", "surface kind: fb | terminal | image")
	listen := flag.String("listen", "", "http listen address; also configurable via "+config.EnvListenAddr)
	noWeb := flag.Bool("no-web", false, "disable the status API")
	startView := flag.String("view", "", "view to show first")
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
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "debug":
			cfg.Log.Debug = *debug
		case "stdio-log":
			cfg.Log.Stdio = *stdioLog
		case "surface":
			cfg.Surface.Kind = *surface
		case "listen":
			cfg.Server.Listen = *listen
		case "no-web":
			cfg.Server.Enabled = !*noWeb
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Println("config error:", err)
		os.Exit(2)
	}

	// Best-effort: redirect all stdout/stderr output (including panic stack traces)
	// to a file so crashes are diagnosable even when the console is left in graphics mode.
	if cfg.Log.Stdio != "" {
		if err := redirectStdIO(cfg.Log.Stdio); err != nil {
			fmt.Println("stdio log redirect error:", err)
		}
	}

	var logger app.Logger = app.NoopLogger{}
	if cfg.Log.Debug {
		f, err := os.OpenFile(cfg.Log.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err == nil {
			defer f.Close()
			logger = app.NewFileLogger(f)
			logger.Infof("main", "debug logging enabled")
		} else {
			fmt.Println("debug log open error:", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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
	a.Attach(host)
	a.ConfigPath = *configPath
	a.StartView = *startView
	if err := a.RegisterBuiltins(); err != nil {
		fmt.Println("views error:", err)
		os.Exit(1)
	}

	if cfg.Server.Enabled {
		serverCfg := web.ServerConfigFrom(cfg.Server, ":80")
		server := web.NewHTTPServer(serverCfg, a.APIDeps())
		server.Logger = logger
		a.Web = server
		a.AnnounceURL(serverCfg.ListenAddr)
	}

	if err := a.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Println("app error:", err)
		os.Exit(1)
	}
	fmt.Println("framekit stopped")
}
