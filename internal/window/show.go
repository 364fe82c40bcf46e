package window

import (
	"github.com/rook-computer/framekit/internal/event"
)

// CurrentView returns the active view or nil.
func (w *Window) CurrentView() View { return w.current }

// Attach binds v to the window without showing it, so it can read clocks and
// build sections first. A view is bound to one window for life.
func (w *Window) Attach(v View) error {
	if isNil(v) {
		return ErrNotAView
	}
	b := v.base()
	if b.window != nil && b.window != w {
		return &PolicyError{View: ViewName(v), Bound: b.window.id, Requested: w.id}
	}
	b.window = w
	return nil
}

// ShowView makes v the active view. The previous view, if different, gets
// OnHideView; its sections' hide hooks only run from HideView. Both views' layers are removed and v's are pushed again,
// so showing the active view twice leaves the same bindings. Events v's
// sections manage are bound only through the section layer.
func (w *Window) ShowView(v View) error {
	if isNil(v) {
		return ErrNotAView
	}
	if w.closed {
		return ErrClosed
	}
	if err := w.Attach(v); err != nil {
		return err
	}

	if prev := w.current; prev != nil {
		if prev != v {
			prev.OnHideView()
		}
		w.unbind()
	}

	b := v.base()
	handlers := v.Events()
	managed := map[event.Name]bool{}
	if b.HasSections() {
		managed = b.sections.ManagedEvents()
		layer, err := w.dispatcher.Push(w.known(b.sections.Handlers(handlers)))
		if err != nil {
			return err
		}
		w.sectionLayer = layer
	}

	own := make(event.Handlers)
	for _, name := range w.dispatcher.Names() {
		if name == event.Show || managed[name] {
			continue
		}
		if h := handlers[name]; h != nil {
			own[name] = h
		}
	}
	layer, err := w.dispatcher.Push(own)
	if err != nil {
		w.unbind()
		w.current = nil
		return err
	}
	w.viewLayer = layer
	w.current = v

	w.logger.Infof("window", "%s show view %s (layers=%d)", w.id, ViewName(v), w.dispatcher.Depth())
	v.OnShow()
	v.OnShowView()
	if b.HasSections() {
		b.sections.OnShowView()
	}
	return nil
}

// HideView deactivates the current view; afterwards only window defaults
// receive events. It does nothing when no view is active.
func (w *Window) HideView() {
	prev := w.current
	if prev == nil {
		return
	}
	w.hideHooks(prev)
	w.unbind()
	w.current = nil
	w.logger.Infof("window", "%s hide view %s", w.id, ViewName(prev))
}

func (w *Window) hideHooks(v View) {
	v.OnHideView()
	if b := v.base(); b.HasSections() {
		b.sections.OnHideView()
	}
}

func (w *Window) unbind() {
	w.dispatcher.Remove(w.sectionLayer)
	w.dispatcher.Remove(w.viewLayer)
	w.sectionLayer, w.viewLayer = 0, 0
}

// known drops names the dispatcher does not recognise.
func (w *Window) known(h event.Handlers) event.Handlers {
	out := make(event.Handlers, len(h))
	for name, fn := range h {
		if w.dispatcher.Registered(name) {
			out[name] = fn
		}
	}
	return out
}
