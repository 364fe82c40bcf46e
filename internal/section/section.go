// Package section splits a view into rectangular overlays that own a reserved
// set of events. The window never binds those events to the view directly;
// the manager receives them and forwards to the view itself.
package section

import (
	"image"

	"github.com/rook-computer/framekit/internal/event"
	"github.com/rook-computer/framekit/internal/render/layout"
)

// All in a prevent set matches every event name.
const All event.Name = "*"

// Section is one overlay. Bounds use window coordinates with a bottom-left
// origin: Min is (left, bottom), Max is (right, top).
type Section struct {
	Name    string
	Bounds  image.Rectangle
	Enabled bool

	AcceptKeyboard bool
	AcceptMouse    bool

	// PreventDispatch stops the walk to lower sections after this one handled
	// the event. PreventDispatchView keeps the view from seeing it.
	PreventDispatch     map[event.Name]bool
	PreventDispatchView map[event.Name]bool

	// DrawOrder sorts draw calls ascending; ties keep insertion order.
	DrawOrder int

	Handlers event.Handlers

	OnShow func()
	OnHide func()
}

// NewSection returns an enabled section accepting keyboard and mouse that
// stops propagation of everything it handles.
func NewSection(name string, left, bottom, width, height int) *Section {
	return &Section{
		Name:                name,
		Bounds:              image.Rect(left, bottom, left+width, bottom+height),
		Enabled:             true,
		AcceptKeyboard:      true,
		AcceptMouse:         true,
		PreventDispatch:     map[event.Name]bool{All: true},
		PreventDispatchView: map[event.Name]bool{All: true},
		Handlers:            event.Handlers{},
	}
}

func (s *Section) Left() int   { return s.Bounds.Min.X }
func (s *Section) Bottom() int { return s.Bounds.Min.Y }
func (s *Section) Width() int  { return s.Bounds.Dx() }
func (s *Section) Height() int { return s.Bounds.Dy() }

// Contains reports whether the window point (x, y) is inside the section, edges included.
func (s *Section) Contains(x, y int) bool {
	return layout.Contains(s.Left(), s.Bottom(), s.Width(), s.Height(), x, y)
}

// CanvasRect converts the bounds to a top-left canvas rectangle.
func (s *Section) CanvasRect(canvasHeight int) image.Rectangle {
	return layout.FromLBWH(s.Left(), s.Bottom(), s.Width(), s.Height(), canvasHeight)
}

// On sets the handler for name.
func (s *Section) On(name event.Name, h event.Handler) *Section {
	if s.Handlers == nil {
		s.Handlers = event.Handlers{}
	}
	s.Handlers[name] = h
	return s
}

func (s *Section) prevents(set map[event.Name]bool, name event.Name) bool {
	return set[All] || set[name]
}

func (s *Section) accepts(name event.Name) bool {
	if !s.Enabled {
		return false
	}
	switch {
	case isMouse(name):
		return s.AcceptMouse
	case isKey(name):
		return s.AcceptKeyboard
	}
	return true
}

func isMouse(name event.Name) bool {
	for _, n := range event.MouseNames() {
		if n == name {
			return true
		}
	}
	return false
}

func isKey(name event.Name) bool {
	for _, n := range event.KeyNames() {
		if n == name {
			return true
		}
	}
	return false
}
