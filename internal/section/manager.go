package section

import (
	"errors"
	"fmt"
	"sort"

	"github.com/rook-computer/framekit/internal/event"
	"github.com/rook-computer/framekit/internal/input"
)

var (
	ErrDuplicateName = errors.New("duplicate section name")
	ErrNotFound      = errors.New("section not found")
)

// Manager owns the sections of one view.
type Manager struct {
	sections []*Section
	hovered  map[*Section]bool
}

func NewManager() *Manager {
	return &Manager{hovered: make(map[*Section]bool)}
}

// Add inserts s at atIndex, or appends it when atIndex is out of range.
// Earlier sections see events first.
func (m *Manager) Add(s *Section, atIndex int) error {
	if s == nil {
		return errors.New("nil section")
	}
	if s.Name != "" && m.Get(s.Name) != nil {
		return fmt.Errorf("add %q: %w", s.Name, ErrDuplicateName)
	}
	if atIndex < 0 || atIndex >= len(m.sections) {
		m.sections = append(m.sections, s)
		return nil
	}
	m.sections = append(m.sections, nil)
	copy(m.sections[atIndex+1:], m.sections[atIndex:])
	m.sections[atIndex] = s
	return nil
}

func (m *Manager) Remove(name string) error {
	for i, s := range m.sections {
		if s.Name == name {
			m.sections = append(m.sections[:i], m.sections[i+1:]...)
			delete(m.hovered, s)
			return nil
		}
	}
	return fmt.Errorf("remove %q: %w", name, ErrNotFound)
}

func (m *Manager) Get(name string) *Section {
	for _, s := range m.sections {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// Sections returns the sections in event order.
func (m *Manager) Sections() []*Section {
	out := make([]*Section, len(m.sections))
	copy(out, m.sections)
	return out
}

func (m *Manager) HasSections() bool { return len(m.sections) > 0 }

// Clear removes every section.
func (m *Manager) Clear() {
	m.sections = nil
	m.hovered = make(map[*Section]bool)
}

// ManagedEvents is the set of names the manager claims. It is empty without sections.
func (m *Manager) ManagedEvents() map[event.Name]bool {
	out := make(map[event.Name]bool)
	if !m.HasSections() {
		return out
	}
	for _, name := range []event.Name{event.Update, event.FixedUpdate, event.Draw, event.Resize} {
		out[name] = true
	}
	var mouse, keys bool
	for _, s := range m.sections {
		mouse = mouse || s.AcceptMouse
		keys = keys || s.AcceptKeyboard
	}
	if mouse {
		for _, name := range event.MouseNames() {
			out[name] = true
		}
	}
	if keys {
		for _, name := range event.KeyNames() {
			out[name] = true
		}
	}
	return out
}

// Handlers builds the manager's handler table for every managed event. Each
// handler runs the sections and then view[name], if present and not prevented.
func (m *Manager) Handlers(view event.Handlers) event.Handlers {
	out := make(event.Handlers)
	for name := range m.ManagedEvents() {
		name := name
		next := view[name]
		switch {
		case name == event.Draw:
			out[name] = func(ev event.Event) error { return m.draw(ev, next) }
		case isMouse(name):
			out[name] = func(ev event.Event) error { return m.mouse(ev, next) }
		case isKey(name):
			out[name] = func(ev event.Event) error { return m.walk(ev, m.sections, next) }
		default:
			out[name] = func(ev event.Event) error { return m.broadcast(ev, next) }
		}
	}
	return out
}

// broadcast runs update-like events on every enabled section, then the view.
func (m *Manager) broadcast(ev event.Event, view event.Handler) error {
	for _, s := range m.Sections() {
		if !s.Enabled {
			continue
		}
		if h := s.Handlers[ev.Name]; h != nil {
			if err := h(ev); err != nil && !errors.Is(err, event.Stop) {
				return err
			}
		}
	}
	if view != nil {
		return view(ev)
	}
	return nil
}

// draw lets the view paint first and the sections on top, in draw order.
func (m *Manager) draw(ev event.Event, view event.Handler) error {
	if view != nil {
		if err := view(ev); err != nil && !errors.Is(err, event.Stop) {
			return err
		}
	}
	ordered := m.Sections()
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].DrawOrder < ordered[j].DrawOrder })
	for _, s := range ordered {
		if !s.Enabled {
			continue
		}
		if h := s.Handlers[event.Draw]; h != nil {
			if err := h(ev); err != nil && !errors.Is(err, event.Stop) {
				return err
			}
		}
	}
	return nil
}

// walk offers ev to candidates in order, honouring the prevent sets. A
// section returning event.Stop consumes the event; the view never sees it.
func (m *Manager) walk(ev event.Event, candidates []*Section, view event.Handler) error {
	blockView := false
	for _, s := range candidates {
		if !s.accepts(ev.Name) {
			continue
		}
		h := s.Handlers[ev.Name]
		if h == nil {
			continue
		}
		if err := h(ev); err != nil {
			return err
		}
		if s.prevents(s.PreventDispatchView, ev.Name) {
			blockView = true
		}
		if s.prevents(s.PreventDispatch, ev.Name) {
			break
		}
	}
	if blockView || view == nil {
		return nil
	}
	return view(ev)
}

func (m *Manager) mouse(ev event.Event, view event.Handler) error {
	me, ok := ev.Payload.(input.MouseEvent)
	if !ok {
		return m.walk(ev, m.sections, view)
	}
	switch ev.Name {
	case event.MouseLeave:
		if err := m.leaveAll(me); err != nil {
			return err
		}
		if view != nil {
			return view(ev)
		}
		return nil
	case event.MouseMotion, event.MouseDrag, event.MouseEnter:
		if err := m.track(me); err != nil {
			return err
		}
		if ev.Name == event.MouseEnter {
			if view != nil {
				return view(ev)
			}
			return nil
		}
	}
	return m.walk(ev, m.At(me.X, me.Y), view)
}

// At returns the enabled mouse sections containing (x, y), in event order.
func (m *Manager) At(x, y int) []*Section {
	var out []*Section
	for _, s := range m.sections {
		if s.Enabled && s.AcceptMouse && s.Contains(x, y) {
			out = append(out, s)
		}
	}
	return out
}

// track fires mouse_leave and mouse_enter on sections the pointer left or entered.
func (m *Manager) track(me input.MouseEvent) error {
	now := make(map[*Section]bool)
	for _, s := range m.At(me.X, me.Y) {
		now[s] = true
	}
	for _, s := range m.sections {
		was := m.hovered[s]
		if was && !now[s] {
			delete(m.hovered, s)
			if err := fire(s, event.MouseLeave, me); err != nil {
				return err
			}
		}
		if !was && now[s] {
			m.hovered[s] = true
			if err := fire(s, event.MouseEnter, me); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *Manager) leaveAll(me input.MouseEvent) error {
	for _, s := range m.sections {
		if !m.hovered[s] {
			continue
		}
		delete(m.hovered, s)
		if err := fire(s, event.MouseLeave, me); err != nil {
			return err
		}
	}
	return nil
}

func fire(s *Section, name event.Name, me input.MouseEvent) error {
	h := s.Handlers[name]
	if h == nil {
		return nil
	}
	if err := h(event.Event{Name: name, Payload: me}); err != nil && !errors.Is(err, event.Stop) {
		return err
	}
	return nil
}

// OnShowView runs every section's OnShow hook.
func (m *Manager) OnShowView() {
	for _, s := range m.Sections() {
		if s.OnShow != nil {
			s.OnShow()
		}
	}
}

// OnHideView runs every section's OnHide hook and forgets hover state.
func (m *Manager) OnHideView() {
	for _, s := range m.Sections() {
		if s.OnHide != nil {
			s.OnHide()
		}
	}
	m.hovered = make(map[*Section]bool)
}
