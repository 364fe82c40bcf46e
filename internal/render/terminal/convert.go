package terminal

import (
	"image"
	"image/color"

	"github.com/gdamore/tcell/v2"

	"github.com/rook-computer/framekit/internal/event"
	"github.com/rook-computer/framekit/internal/input"
)

var tcellKeys = map[tcell.Key]input.Key{
	tcell.KeyEscape:     input.KeyEscape,
	tcell.KeyEnter:      input.KeyEnter,
	tcell.KeyTab:        input.KeyTab,
	tcell.KeyBackspace:  input.KeyBackspace,
	tcell.KeyBackspace2: input.KeyBackspace,
	tcell.KeyUp:         input.KeyUp,
	tcell.KeyDown:       input.KeyDown,
	tcell.KeyLeft:       input.KeyLeft,
	tcell.KeyRight:      input.KeyRight,
	tcell.KeyF1:         input.KeyF1,
	tcell.KeyF2:         input.KeyF2,
	tcell.KeyF3:         input.KeyF3,
	tcell.KeyF4:         input.KeyF4,
	tcell.KeyF5:         input.KeyF5,
}

func convertKey(e *tcell.EventKey) (input.KeyEvent, bool) {
	mods := convertMods(e.Modifiers())
	if e.Key() == tcell.KeyRune {
		if e.Rune() == ' ' {
			return input.KeyEvent{Key: input.KeySpace, Rune: ' ', Mods: mods}, true
		}
		return input.KeyEvent{Key: input.KeyRune, Rune: e.Rune(), Mods: mods}, true
	}
	key, ok := tcellKeys[e.Key()]
	if !ok {
		return input.KeyEvent{}, false
	}
	return input.KeyEvent{Key: key, Mods: mods}, true
}

func convertMods(m tcell.ModMask) input.Mod {
	var out input.Mod
	if m&tcell.ModShift != 0 {
		out |= input.ModShift
	}
	if m&tcell.ModCtrl != 0 {
		out |= input.ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		out |= input.ModAlt
	}
	if m&tcell.ModMeta != 0 {
		out |= input.ModMeta
	}
	return out
}

const buttonMask = tcell.Button1 | tcell.Button2 | tcell.Button3

func convertButton(b tcell.ButtonMask) input.Button {
	switch {
	case b&tcell.Button1 != 0:
		return input.ButtonLeft
	case b&tcell.Button3 != 0:
		return input.ButtonMiddle
	case b&tcell.Button2 != 0:
		return input.ButtonRight
	}
	return input.ButtonNone
}

// mouseTracker turns tcell's level-triggered button state into press,
// release, drag and motion events.
type mouseTracker struct {
	buttons tcell.ButtonMask
	x, y    int
	seen    bool
}

func (m *mouseTracker) update(x, y int, btn tcell.ButtonMask, mods input.Mod) []event.Event {
	dx, dy := 0, 0
	if m.seen {
		dx, dy = x-m.x, y-m.y
	}
	moved := !m.seen || dx != 0 || dy != 0
	m.x, m.y, m.seen = x, y, true

	var out []event.Event
	base := input.MouseEvent{X: x, Y: y, DX: dx, DY: dy, Mods: mods}

	if wheel := scroll(btn); wheel != (input.MouseEvent{}) {
		me := base
		me.ScrollX, me.ScrollY = wheel.ScrollX, wheel.ScrollY
		out = append(out, event.Event{Name: event.MouseScroll, Payload: me})
	}

	held := btn & buttonMask
	prev := m.buttons
	m.buttons = held

	if pressed := held &^ prev; pressed != 0 {
		me := base
		me.Button = convertButton(pressed)
		return append(out, event.Event{Name: event.MousePress, Payload: me})
	}
	if released := prev &^ held; released != 0 {
		me := base
		me.Button = convertButton(released)
		return append(out, event.Event{Name: event.MouseRelease, Payload: me})
	}
	if !moved {
		return out
	}
	if held != 0 {
		me := base
		me.Button = convertButton(held)
		return append(out, event.Event{Name: event.MouseDrag, Payload: me})
	}
	return append(out, event.Event{Name: event.MouseMotion, Payload: base})
}

func scroll(btn tcell.ButtonMask) input.MouseEvent {
	var me input.MouseEvent
	switch {
	case btn&tcell.WheelUp != 0:
		me.ScrollY = 1
	case btn&tcell.WheelDown != 0:
		me.ScrollY = -1
	}
	switch {
	case btn&tcell.WheelLeft != 0:
		me.ScrollX = -1
	case btn&tcell.WheelRight != 0:
		me.ScrollX = 1
	}
	return me
}

// sampleCell picks the two canvas pixels a half-block cell shows.
func sampleCell(img *image.RGBA, cx, cy, cols, rows int) (top, bottom color.RGBA) {
	b := img.Bounds()
	if cols <= 0 || rows <= 0 || b.Empty() {
		return color.RGBA{}, color.RGBA{}
	}
	x := b.Min.X + (2*cx+1)*b.Dx()/(2*cols)
	yTop := b.Min.Y + (4*cy+1)*b.Dy()/(4*rows)
	yBottom := b.Min.Y + (4*cy+3)*b.Dy()/(4*rows)
	return img.RGBAAt(x, yTop), img.RGBAAt(x, yBottom)
}
