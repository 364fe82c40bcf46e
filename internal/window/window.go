// Package window runs the fixed-step scheduler and binds one active view at a
// time into a layered event dispatcher.
package window

import (
	"errors"
	"image/color"

	"github.com/google/uuid"

	"github.com/rook-computer/framekit/internal/clock"
	"github.com/rook-computer/framekit/internal/event"
	"github.com/rook-computer/framekit/internal/input"
	"github.com/rook-computer/framekit/internal/loop"
	"github.com/rook-computer/framekit/internal/render"
)

// Host schedules the window's periodic triggers. *loop.Loop satisfies it.
type Host interface {
	ScheduleInterval(fn func(dt float64) error, seconds float64) loop.Handle
	Unschedule(h loop.Handle)
}

type logger interface {
	Infof(string, string, ...interface{})
	Errorf(string, string, ...interface{})
}

type noopLogger struct{}

func (noopLogger) Infof(string, string, ...interface{})  {}
func (noopLogger) Errorf(string, string, ...interface{}) {}

// Config holds construction options. Rates are in seconds per call.
type Config struct {
	Width  int
	Height int
	Title  string

	UpdateRate float64
	DrawRate   float64
	FixedRate  float64
	// FixedFrameCap limits fixed steps per update; 0 means no limit.
	FixedFrameCap int

	Background color.RGBA
}

func DefaultConfig() Config {
	return Config{
		Width:      render.CanvasWidth,
		Height:     render.CanvasHeight,
		Title:      "framekit",
		UpdateRate: 1.0 / 60,
		DrawRate:   1.0 / 60,
		FixedRate:  1.0 / 60,
		Background: render.Background,
	}
}

func (c Config) validate() error {
	if c.FixedRate <= 0 {
		return &ConfigError{Field: "fixed_rate", Value: c.FixedRate, Err: clock.ErrInvalidRate}
	}
	if c.UpdateRate <= 0 {
		return &ConfigError{Field: "update_rate", Value: c.UpdateRate, Err: errNotPositive}
	}
	if c.DrawRate <= 0 {
		return &ConfigError{Field: "draw_rate", Value: c.DrawRate, Err: errNotPositive}
	}
	if c.FixedFrameCap < 0 {
		return &ConfigError{Field: "fixed_frame_cap", Value: c.FixedFrameCap, Err: errNegative}
	}
	return nil
}

type Option func(*Window)

func WithLogger(l logger) Option {
	return func(w *Window) {
		if l != nil {
			w.logger = l
		}
	}
}

// Stats counts dispatched triggers.
type Stats struct {
	Updates      uint64
	FixedUpdates uint64
	Draws        uint64
}

// Window owns the clocks, the scheduler triggers and the active view.
// Every method must be called on the host loop goroutine.
type Window struct {
	id      uuid.UUID
	cfg     Config
	host    Host
	surface render.Surface
	logger  logger

	dispatcher *event.Dispatcher
	defaults   event.LayerID

	global *clock.Clock
	fixed  *clock.FixedClock

	updateRate   float64
	drawRate     float64
	updateHandle loop.Handle
	drawHandle   loop.Handle
	started      bool
	closed       bool

	width  int
	height int

	current      View
	viewLayer    event.LayerID
	sectionLayer event.LayerID

	stats Stats
}

// New validates cfg and builds a window. A nil surface draws nowhere.
func New(host Host, surface render.Surface, cfg Config, opts ...Option) (*Window, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	global := clock.New()
	fixed, err := clock.NewFixedClock(global, cfg.FixedRate)
	if err != nil {
		return nil, &ConfigError{Field: "fixed_rate", Value: cfg.FixedRate, Err: err}
	}
	if surface == nil {
		surface = &render.NoopSurface{Width: cfg.Width, Height: cfg.Height}
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = surface.Size()
	}

	w := &Window{
		id:         uuid.New(),
		cfg:        cfg,
		host:       host,
		surface:    surface,
		logger:     noopLogger{},
		dispatcher: event.NewDispatcher(event.DefaultNames()...),
		global:     global,
		fixed:      fixed,
		updateRate: cfg.UpdateRate,
		drawRate:   cfg.DrawRate,
		width:      cfg.Width,
		height:     cfg.Height,
	}
	for _, opt := range opts {
		opt(w)
	}
	w.defaults, err = w.dispatcher.Push(event.Handlers{event.Resize: w.onResize})
	if err != nil {
		return nil, err
	}
	return w, nil
}

func (w *Window) onResize(ev event.Event) error {
	re, ok := ev.Payload.(input.ResizeEvent)
	if !ok || re.Width <= 0 || re.Height <= 0 {
		return nil
	}
	w.width, w.height = re.Width, re.Height
	w.surface.Resize(re.Width, re.Height)
	return nil
}

// Start schedules the update and draw triggers on the host.
func (w *Window) Start() error {
	if w.closed {
		return ErrClosed
	}
	if w.started {
		return nil
	}
	if w.host == nil {
		return errors.New("window has no host to schedule on")
	}
	w.updateHandle = w.host.ScheduleInterval(w.DispatchUpdates, w.updateRate)
	w.drawHandle = w.host.ScheduleInterval(w.Draw, w.drawRate)
	w.started = true
	w.logger.Infof("window", "%s started, update=%.4fs draw=%.4fs fixed=%.4fs cap=%d",
		w.id, w.updateRate, w.drawRate, w.cfg.FixedRate, w.cfg.FixedFrameCap)
	return nil
}

// Close unschedules both triggers, dispatches close, hides the active view
// and stops the surface. Calling it again does nothing.
func (w *Window) Close() error {
	if w.closed {
		return nil
	}
	if w.started {
		w.host.Unschedule(w.updateHandle)
		w.host.Unschedule(w.drawHandle)
		w.started = false
	}
	_, closeErr := w.dispatcher.Dispatch(event.Event{Name: event.Close})
	w.HideView()
	w.closed = true
	stopErr := w.surface.Stop()
	w.logger.Infof("window", "%s closed after %d updates, %d draws", w.id, w.stats.Updates, w.stats.Draws)
	return errors.Join(closeErr, stopErr)
}

func (w *Window) Closed() bool { return w.closed }

// DispatchUpdates is the update trigger. It advances the global clock, drains
// whole fixed steps from the accumulator (at most FixedFrameCap when set) and
// then dispatches a single update carrying dt. Time left in the accumulator
// carries over to the next call.
func (w *Window) DispatchUpdates(dt float64) error {
	if w.closed {
		return ErrClosed
	}
	w.global.Tick(dt)
	w.fixed.Accumulate(w.global.DeltaTime())

	rate := w.fixed.Rate()
	steps := 0
	for w.fixed.Ready() && (w.cfg.FixedFrameCap == 0 || steps < w.cfg.FixedFrameCap) {
		w.fixed.Tick(rate)
		steps++
		w.stats.FixedUpdates++
		if _, err := w.dispatcher.Dispatch(event.Event{Name: event.FixedUpdate, Delta: rate}); err != nil {
			return err
		}
	}

	w.stats.Updates++
	_, err := w.dispatcher.Dispatch(event.Event{Name: event.Update, Delta: w.global.DeltaTime()})
	return err
}

// Draw is the draw trigger: dispatch draw, then present the surface.
func (w *Window) Draw(dt float64) error {
	if w.closed {
		return ErrClosed
	}
	w.stats.Draws++
	if _, err := w.dispatcher.Dispatch(event.Event{Name: event.Draw, Delta: dt}); err != nil {
		return err
	}
	return w.surface.Flip()
}

// Test steps the window without a host: each frame draws, then updates by 1/60s.
func (w *Window) Test(frames int) error {
	const step = 1.0 / 60
	for i := 0; i < frames; i++ {
		if err := w.Draw(step); err != nil {
			return err
		}
		if err := w.DispatchUpdates(step); err != nil {
			return err
		}
	}
	return nil
}

// Dispatch delivers a host event (input, resize, action) through the stack.
func (w *Window) Dispatch(ev event.Event) (bool, error) {
	if w.closed {
		return false, ErrClosed
	}
	return w.dispatcher.Dispatch(ev)
}

// SetDefault installs or, with a nil handler, removes a window-level default.
func (w *Window) SetDefault(name event.Name, h event.Handler) error {
	return w.dispatcher.Set(w.defaults, name, h)
}

// Clear fills the surface with c, or the configured background when c is nil.
func (w *Window) Clear(c color.Color) {
	if c == nil {
		c = w.cfg.Background
	}
	w.surface.Clear(c)
}

func (w *Window) SetUpdateRate(seconds float64) error {
	if seconds <= 0 {
		return &ConfigError{Field: "update_rate", Value: seconds, Err: errNotPositive}
	}
	w.updateRate = seconds
	if w.started {
		w.host.Unschedule(w.updateHandle)
		w.updateHandle = w.host.ScheduleInterval(w.DispatchUpdates, seconds)
	}
	return nil
}

func (w *Window) SetDrawRate(seconds float64) error {
	if seconds <= 0 {
		return &ConfigError{Field: "draw_rate", Value: seconds, Err: errNotPositive}
	}
	w.drawRate = seconds
	if w.started {
		w.host.Unschedule(w.drawHandle)
		w.drawHandle = w.host.ScheduleInterval(w.Draw, seconds)
	}
	return nil
}

func (w *Window) ID() uuid.UUID       { return w.id }
func (w *Window) Title() string       { return w.cfg.Title }
func (w *Window) Config() Config      { return w.cfg }
func (w *Window) Size() (int, int)    { return w.width, w.height }
func (w *Window) Stats() Stats        { return w.stats }
func (w *Window) UpdateRate() float64 { return w.updateRate }
func (w *Window) DrawRate() float64   { return w.drawRate }
func (w *Window) FixedFrameCap() int  { return w.cfg.FixedFrameCap }

func (w *Window) Surface() render.Surface       { return w.surface }
func (w *Window) Dispatcher() *event.Dispatcher { return w.dispatcher }
func (w *Window) GlobalClock() *clock.Clock     { return w.global }
func (w *Window) FixedClock() *clock.FixedClock { return w.fixed }

// Clock passthroughs for views.
func (w *Window) Time() float64           { return w.global.Time() }
func (w *Window) DeltaTime() float64      { return w.global.DeltaTime() }
func (w *Window) FixedTime() float64      { return w.fixed.Time() }
func (w *Window) FixedDeltaTime() float64 { return w.fixed.Rate() }
func (w *Window) Accumulated() float64    { return w.fixed.Accumulated() }
func (w *Window) Fraction() float64       { return w.fixed.Fraction() }
