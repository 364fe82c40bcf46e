package window

import (
	"fmt"
	"image/color"
	"reflect"

	"github.com/rook-computer/framekit/internal/event"
	"github.com/rook-computer/framekit/internal/section"
)

// View is the capability set a window can show. Events lists the event
// slots the view takes part in; everything else falls through to the window
// defaults. Implementations embed BaseView and are used by pointer.
type View interface {
	Events() event.Handlers
	OnShow()
	OnShowView()
	OnHideView()

	base() *BaseView
}

// Namer lets a view choose the name used in logs and the status API.
type Namer interface {
	Name() string
}

// BaseView carries the window back-reference and the optional sections.
type BaseView struct {
	window   *Window
	sections *section.Manager
}

func (b *BaseView) base() *BaseView { return b }

// Window returns the window the view is bound to, or nil.
func (b *BaseView) Window() *Window { return b.window }

func (b *BaseView) Events() event.Handlers { return nil }
func (b *BaseView) OnShow()                {}
func (b *BaseView) OnShowView()            {}
func (b *BaseView) OnHideView()            {}

// Sections returns the section manager, creating it on first use.
func (b *BaseView) Sections() *section.Manager {
	if b.sections == nil {
		b.sections = section.NewManager()
	}
	return b.sections
}

func (b *BaseView) HasSections() bool {
	return b.sections != nil && b.sections.HasSections()
}

// AddSection adds s to the view. Sections added while the view is active
// take effect the next time it is shown.
func (b *BaseView) AddSection(s *section.Section, atIndex int) error {
	return b.Sections().Add(s, atIndex)
}

// Clear fills the bound window's surface. Unbound views draw nothing.
func (b *BaseView) Clear(c color.Color) {
	if b.window == nil {
		return
	}
	b.window.Clear(c)
}

// ViewName is the view's Name if it has one, otherwise its type.
func ViewName(v View) string {
	if isNil(v) {
		return ""
	}
	if n, ok := v.(Namer); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", v)
}

func isNil(v View) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
