package input

import (
	"context"

	"github.com/rook-computer/framekit/internal/event"
)

type Key int

const (
	KeyNone Key = iota
	KeyRune
	KeyEscape
	KeyEnter
	KeySpace
	KeyTab
	KeyBackspace
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
)

var keyNames = map[Key]string{
	KeyNone:      "none",
	KeyRune:      "rune",
	KeyEscape:    "escape",
	KeyEnter:     "enter",
	KeySpace:     "space",
	KeyTab:       "tab",
	KeyBackspace: "backspace",
	KeyUp:        "up",
	KeyDown:      "down",
	KeyLeft:      "left",
	KeyRight:     "right",
	KeyF1:        "f1",
	KeyF2:        "f2",
	KeyF3:        "f3",
	KeyF4:        "f4",
	KeyF5:        "f5",
}

func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return "unknown"
}

type Mod uint8

const (
	ModShift Mod = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

func (m Mod) Has(other Mod) bool { return m&other != 0 }

type Button uint8

const (
	ButtonNone Button = iota
	ButtonLeft
	ButtonMiddle
	ButtonRight
)

// KeyEvent is the payload of key_press and key_release.
type KeyEvent struct {
	Key  Key
	Rune rune
	Mods Mod
}

// Name is the key's printable name: the rune itself for KeyRune.
func (k KeyEvent) Name() string {
	if k.Key == KeyRune {
		return string(k.Rune)
	}
	return k.Key.String()
}

// MouseEvent is the payload of every mouse_* event. Coordinates use a
// bottom-left origin in window pixels.
type MouseEvent struct {
	X, Y    int
	DX, DY  int
	Button  Button
	Mods    Mod
	ScrollX float64
	ScrollY float64
}

// ResizeEvent is the payload of resize.
type ResizeEvent struct {
	Width  int
	Height int
}

// ActionEvent is the payload of action: a named input binding changing state.
type ActionEvent struct {
	Name    string
	Pressed bool
}

// Source produces input events on its own goroutine. Consumers must hand the
// events to the loop goroutine before dispatching them.
type Source interface {
	Start(ctx context.Context) error
	Stop() error
	Events() <-chan event.Event
}

type NoopSource struct{ ch chan event.Event }

func NewNoopSource() *NoopSource { return &NoopSource{ch: make(chan event.Event)} }

func (n *NoopSource) Start(ctx context.Context) error { return nil }
func (n *NoopSource) Stop() error                     { return nil }
func (n *NoopSource) Events() <-chan event.Event      { return n.ch }

// Press wraps ke as a key_press event.
func Press(ke KeyEvent) event.Event { return event.Event{Name: event.KeyPress, Payload: ke} }

// Release wraps ke as a key_release event.
func Release(ke KeyEvent) event.Event { return event.Event{Name: event.KeyRelease, Payload: ke} }
