// Package app wires a window, its surface and input sources, the status API
// and the config watcher around one host loop.
package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"sync"
	"sync/atomic"

	"github.com/rook-computer/framekit/internal/config"
	"github.com/rook-computer/framekit/internal/event"
	"github.com/rook-computer/framekit/internal/input"
	"github.com/rook-computer/framekit/internal/loop"
	"github.com/rook-computer/framekit/internal/render"
	"github.com/rook-computer/framekit/internal/script"
	"github.com/rook-computer/framekit/internal/state"
	"github.com/rook-computer/framekit/internal/system"
	"github.com/rook-computer/framekit/internal/web"
	"github.com/rook-computer/framekit/internal/window"
)

// heartbeatSeconds is how often the status snapshot is refreshed and pending
// rate requests are applied.
const heartbeatSeconds = 1.0

var (
	ErrDuplicateView = errors.New("view already registered")
	ErrUnknownView   = errors.New("view not registered")
	ErrNoFrame       = errors.New("surface does not keep frames")
)

type App struct {
	Config config.File
	// ConfigPath, when set, is watched for rate changes while running.
	ConfigPath string

	Store *state.Store
	Views *state.ViewCatalog
	Rates *state.RateRequest

	Surface render.Surface
	Inputs  []input.Source
	Web     web.Server
	Console *system.Console
	Logger  Logger

	// StartView is shown once the window is running. Empty means the first
	// registered view.
	StartView string

	loop   *loop.Loop
	window *window.Window

	registry map[string]window.View
	order    []string
	scripts  []*script.LuaView

	lastDraws uint64
	heartbeat loop.Handle

	exitOnce atomic.Bool
	exitCh   chan error
}

// New builds the loop and the window from cfg. The surface is started by Run.
func New(cfg config.File, surface render.Surface, logger Logger) (*App, error) {
	if logger == nil {
		logger = NoopLogger{}
	}
	wcfg, err := cfg.WindowConfig()
	if err != nil {
		return nil, err
	}
	app := &App{
		Config:   cfg,
		Store:    state.NewStore(),
		Views:    state.NewViewCatalog(),
		Rates:    state.NewRateRequest(),
		Surface:  surface,
		Logger:   logger,
		loop:     loop.New(),
		registry: make(map[string]window.View),
		exitCh:   make(chan error, 1),
	}
	app.window, err = window.New(app.loop, surface, wcfg, window.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	if app.Surface == nil {
		app.Surface = app.window.Surface()
	}
	app.Rates.Set(cfg.Window.UpdateHz, cfg.Window.DrawHz)
	app.Rates.MarkApplied()
	if err := app.installDefaults(); err != nil {
		return nil, err
	}
	return app, nil
}

func (app *App) Window() *window.Window { return app.window }
func (app *App) Loop() *loop.Loop       { return app.loop }

// installDefaults binds the window-level fallbacks: escape and F4 quit, and a
// close event (the terminal's Ctrl-C) ends the run.
func (app *App) installDefaults() error {
	quit := func(ev event.Event) error {
		ke, ok := ev.Payload.(input.KeyEvent)
		if !ok {
			return nil
		}
		if ke.Key == input.KeyEscape || ke.Key == input.KeyF4 {
			app.Logger.Infof("app", "exit requested by %s", ke.Name())
			app.Exit(nil)
			return event.Stop
		}
		return nil
	}
	if err := app.window.SetDefault(event.KeyPress, quit); err != nil {
		return err
	}
	return app.window.SetDefault(event.Close, func(event.Event) error {
		app.Exit(nil)
		return nil
	})
}

// Register attaches v to the window and makes it reachable by name from
// Switch, scripts and the web API. Must run before Run or on the loop.
func (app *App) Register(v window.View) error {
	name := window.ViewName(v)
	if _, ok := app.registry[name]; ok {
		return fmt.Errorf("%s: %w", name, ErrDuplicateView)
	}
	if err := app.window.Attach(v); err != nil {
		return err
	}
	app.registry[name] = v
	app.order = append(app.order, name)
	app.Views.Add(name)
	return nil
}

// Switch shows the named view. It must run on the loop goroutine; views and
// scripts call it from their handlers.
func (app *App) Switch(name string) error {
	v, ok := app.registry[name]
	if !ok {
		return fmt.Errorf("%s: %w", name, ErrUnknownView)
	}
	if err := app.window.ShowView(v); err != nil {
		return err
	}
	app.Views.SetCurrent(name)
	return nil
}

// SwitchView is Switch from another goroutine.
func (app *App) SwitchView(ctx context.Context, name string) error {
	return app.loop.Call(ctx, func() error { return app.Switch(name) })
}

// FramePNG encodes the current canvas on the loop goroutine.
func (app *App) FramePNG(ctx context.Context) ([]byte, error) {
	src, ok := app.Surface.(interface{ Image() *image.RGBA })
	if !ok {
		return nil, ErrNoFrame
	}
	var buf bytes.Buffer
	err := app.loop.Call(ctx, func() error {
		return png.Encode(&buf, src.Image())
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// APIDeps exposes the app to the web package.
func (app *App) APIDeps() web.APIV1Deps {
	return web.APIV1Deps{
		Status:   app.Store,
		Views:    app.Views,
		Switcher: app,
		Rates:    app.Rates,
		Frames:   app,
	}
}

// AnnounceURL publishes the web UI address for the title view's QR code.
func (app *App) AnnounceURL(listenAddr string) string {
	ip, err := system.LANIPv4()
	if err != nil {
		app.Logger.Errorf("app", "lan address: %v", err)
	}
	url := system.StatusURL(ip, listenAddr)
	app.Store.UpdateNetwork(state.NetworkInfo{URL: url})
	app.Logger.Infof("app", "web ui at %s", url)
	return url
}

// Exit requests the app to stop running.
// Any view can call this to terminate the process via the generic codepath.
func (app *App) Exit(err error) {
	if app.exitCh == nil {
		return
	}
	if !app.exitOnce.CompareAndSwap(false, true) {
		return
	}
	select {
	case app.exitCh <- err:
	default:
	}
}

// Run starts every subsystem, shows the start view and blocks until ctx is
// done, Exit is called or a scheduled callback fails.
func (app *App) Run(ctx context.Context) error {
	app.Store.SetPhase(state.BOOTING)

	if app.Console != nil {
		_ = app.Console.Enter()
		defer func() { _ = app.Console.Restore() }()
	}

	if err := app.Surface.Start(ctx); err != nil {
		app.Logger.Errorf("app", "surface start error: %v", err)
		app.Store.Fail(err)
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	var wg sync.WaitGroup

	for _, src := range app.Inputs {
		// The terminal surface is its own input and is already started.
		if !app.isSurface(src) {
			if err := src.Start(runCtx); err != nil {
				// Input is best-effort.
				app.Logger.Errorf("app", "input start error: %v", err)
				continue
			}
		}
		wg.Add(1)
		go func(src input.Source) {
			defer wg.Done()
			app.forward(runCtx, src)
		}(src)
	}

	if app.Web != nil {
		if err := app.Web.Start(runCtx); err != nil {
			app.Logger.Errorf("app", "web start error: %v", err)
		}
	}

	if app.ConfigPath != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := config.Watch(runCtx, app.ConfigPath, app.reload, app.Logger); err != nil {
				app.Logger.Errorf("app", "config watch error: %v", err)
			}
		}()
	}

	if err := app.start(); err != nil {
		app.Store.Fail(err)
		app.shutdown(cancel, &wg)
		return err
	}

	loopErr := make(chan error, 1)
	go func() { loopErr <- app.loop.Run(runCtx) }()
	app.Store.SetPhase(state.RUNNING)

	var err error
	loopDone := false
	select {
	case <-ctx.Done():
		err = ctx.Err()
	case err = <-app.exitCh:
	case err = <-loopErr:
		loopDone = true
	}

	app.Store.SetPhase(state.STOPPING)
	app.loop.Stop()
	if !loopDone {
		<-loopErr
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		app.Logger.Errorf("app", "stopped with error: %v", err)
		app.Store.Fail(err)
	}
	if cerr := app.shutdown(cancel, &wg); cerr != nil && err == nil {
		err = cerr
	}
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	return err
}

// start runs on the calling goroutine before the loop does, so it may touch
// the window directly.
func (app *App) start() error {
	app.heartbeat = app.loop.ScheduleInterval(app.beat, heartbeatSeconds)
	if err := app.window.Start(); err != nil {
		return err
	}
	name := app.StartView
	if name == "" && len(app.order) > 0 {
		name = app.order[0]
	}
	if name != "" {
		if err := app.Switch(name); err != nil {
			return err
		}
	}
	app.snapshot(0)
	return nil
}

func (app *App) shutdown(cancel context.CancelFunc, wg *sync.WaitGroup) error {
	app.loop.Unschedule(app.heartbeat)
	err := app.window.Close()
	app.closeScripts()
	cancel()
	for _, src := range app.Inputs {
		if app.isSurface(src) {
			continue
		}
		if serr := src.Stop(); serr != nil {
			app.Logger.Errorf("app", "input stop error: %v", serr)
		}
	}
	if app.Web != nil {
		if werr := app.Web.Stop(); werr != nil {
			app.Logger.Errorf("app", "web stop error: %v", werr)
		}
	}
	wg.Wait()
	app.Store.SetPhase(state.STOPPED)
	return err
}

func (app *App) isSurface(src input.Source) bool {
	return any(src) == any(app.Surface)
}

// forward hands events from src to the loop goroutine.
func (app *App) forward(ctx context.Context, src input.Source) {
	events := src.Events()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := app.loop.Post(func() { app.dispatch(ev) }); err != nil {
				return
			}
		}
	}
}

// dispatch delivers a host event. Handler failures end the run.
func (app *App) dispatch(ev event.Event) {
	if _, err := app.window.Dispatch(ev); err != nil {
		if errors.Is(err, window.ErrClosed) {
			return
		}
		app.Logger.Errorf("app", "%s handler error: %v", ev.Name, err)
		app.Exit(err)
	}
}

// beat runs on the loop once per heartbeat.
func (app *App) beat(dt float64) error {
	app.applyRates()
	app.snapshot(dt)
	return nil
}

func (app *App) applyRates() {
	req := app.Rates.Snapshot()
	if !req.NeedsApply {
		return
	}
	defer app.Rates.MarkApplied()
	if req.UpdateHz > 0 {
		if err := app.window.SetUpdateRate(1 / req.UpdateHz); err != nil {
			app.Logger.Errorf("app", "update rate %v: %v", req.UpdateHz, err)
		}
	}
	if req.DrawHz > 0 {
		if err := app.window.SetDrawRate(1 / req.DrawHz); err != nil {
			app.Logger.Errorf("app", "draw rate %v: %v", req.DrawHz, err)
		}
	}
	app.Logger.Infof("app", "rates now update=%.4fs draw=%.4fs", app.window.UpdateRate(), app.window.DrawRate())
}

func (app *App) snapshot(dt float64) {
	w := app.window
	stats := w.Stats()
	fps := 0.0
	if dt > 0 {
		fps = float64(stats.Draws-app.lastDraws) / dt
	}
	app.lastDraws = stats.Draws

	width, height := w.Size()
	view := ""
	if v := w.CurrentView(); v != nil {
		view = window.ViewName(v)
	}
	app.Store.UpdateWindow(state.WindowInfo{
		ID:            w.ID().String(),
		Title:         w.Title(),
		View:          view,
		Width:         width,
		Height:        height,
		Time:          w.Time(),
		FixedTime:     w.FixedTime(),
		Accumulated:   w.Accumulated(),
		Fraction:      w.Fraction(),
		UpdateRate:    w.UpdateRate(),
		DrawRate:      w.DrawRate(),
		FixedRate:     w.FixedDeltaTime(),
		FixedFrameCap: w.FixedFrameCap(),
		Updates:       stats.Updates,
		FixedUpdates:  stats.FixedUpdates,
		Draws:         stats.Draws,
		FPS:           fps,
	})
}

// reload runs on the watcher goroutine. Only the update and draw rates can
// change on a running window.
func (app *App) reload(f config.File) {
	cur := app.Config.Window
	if f.Window.FixedHz != cur.FixedHz || f.Window.FixedFrameCap != cur.FixedFrameCap {
		app.Logger.Errorf("config", "fixed_hz and fixed_frame_cap need a restart; ignoring the change")
	}
	app.Rates.Set(f.Window.UpdateHz, f.Window.DrawHz)
}
