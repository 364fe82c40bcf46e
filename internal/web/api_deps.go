package web

import (
	"context"
	"errors"

	"github.com/rook-computer/framekit/internal/state"
)

// StatusSource is typically a *state.Store.
type StatusSource interface {
	Snapshot() state.State
}

// ViewCatalog is typically a *state.ViewCatalog.
type ViewCatalog interface {
	Snapshot() state.ViewsSnapshot
	Has(name string) bool
}

// ViewSwitcher shows a registered view. Implementations must marshal the call
// onto the loop goroutine; the handler runs on an HTTP goroutine.
type ViewSwitcher interface {
	SwitchView(ctx context.Context, name string) error
}

// RateSetter records requested rates in Hz. A zero keeps the current rate.
type RateSetter interface {
	Set(updateHz, drawHz float64)
}

// FrameSource encodes the last presented frame as PNG.
type FrameSource interface {
	FramePNG(ctx context.Context) ([]byte, error)
}

type APIV1Deps struct {
	Status   StatusSource
	Views    ViewCatalog
	Switcher ViewSwitcher
	Rates    RateSetter
	Frames   FrameSource
}

func (d APIV1Deps) withDefaults() APIV1Deps {
	out := d
	if out.Status == nil {
		out.Status = state.NewStore()
	}
	if out.Views == nil {
		out.Views = state.NewViewCatalog()
	}
	if out.Switcher == nil {
		out.Switcher = NoopViewSwitcher{Err: errors.New("view switching not configured")}
	}
	if out.Rates == nil {
		out.Rates = NoopRateSetter{}
	}
	if out.Frames == nil {
		out.Frames = NoopFrameSource{Err: errors.New("frame capture not configured")}
	}
	return out
}

type NoopViewSwitcher struct{ Err error }

func (n NoopViewSwitcher) SwitchView(context.Context, string) error { return n.Err }

type NoopRateSetter struct{}

func (NoopRateSetter) Set(float64, float64) {}

type NoopFrameSource struct{ Err error }

func (n NoopFrameSource) FramePNG(context.Context) ([]byte, error) { return nil, n.Err }

// SwitcherFunc adapts a function to ViewSwitcher.
type SwitcherFunc func(ctx context.Context, name string) error

func (f SwitcherFunc) SwitchView(ctx context.Context, name string) error { return f(ctx, name) }

// FrameFunc adapts a function to FrameSource.
type FrameFunc func(ctx context.Context) ([]byte, error)

func (f FrameFunc) FramePNG(ctx context.Context) ([]byte, error) { return f(ctx) }
