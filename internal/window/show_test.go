package window

import (
	"errors"
	"testing"

	"github.com/rook-computer/framekit/internal/event"
	"github.com/rook-computer/framekit/internal/input"
	"github.com/rook-computer/framekit/internal/section"
)

// recordingView records everything the window does to it.
type recordingView struct {
	BaseView
	name    string
	log     *[]string
	handled map[event.Name]int
	consume bool
}

func newRecorder(name string, log *[]string) *recordingView {
	return &recordingView{name: name, log: log, handled: make(map[event.Name]int)}
}

func (p *recordingView) Name() string { return p.name }

func (p *recordingView) Events() event.Handlers {
	on := func(ev event.Event) error {
		p.handled[ev.Name]++
		if p.consume {
			return event.Stop
		}
		return nil
	}
	return event.Handlers{
		event.Update:   on,
		event.Draw:     on,
		event.KeyPress: on,
		event.Show:     on,
	}
}

func (p *recordingView) OnShow()     { *p.log = append(*p.log, p.name+".show") }
func (p *recordingView) OnShowView() { *p.log = append(*p.log, p.name+".show_view") }
func (p *recordingView) OnHideView() { *p.log = append(*p.log, p.name+".hide_view") }

func dispatchAll(t *testing.T, w *Window) {
	t.Helper()
	if err := w.DispatchUpdates(0.01); err != nil {
		t.Fatalf("DispatchUpdates: %v", err)
	}
	if err := w.Draw(0.01); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if _, err := w.Dispatch(input.Press(input.KeyEvent{Key: input.KeyEnter})); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
}

func total(p *recordingView) int {
	n := 0
	for _, c := range p.handled {
		n += c
	}
	return n
}

func TestShowSequenceOrder(t *testing.T) {
	w, _ := newWindow(t, DefaultConfig())
	var log []string
	a := newRecorder("a", &log)
	b := newRecorder("b", &log)

	if err := w.ShowView(a); err != nil {
		t.Fatalf("ShowView(a): %v", err)
	}
	if err := w.ShowView(b); err != nil {
		t.Fatalf("ShowView(b): %v", err)
	}
	want := []string{"a.show", "a.show_view", "a.hide_view", "b.show", "b.show_view"}
	if len(log) != len(want) {
		t.Fatalf("log = %v, want %v", log, want)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Fatalf("log = %v, want %v", log, want)
		}
	}
	if a.Window() != w || b.Window() != w {
		t.Error("views not bound to window")
	}
}

func TestSwitchRoutesOnlyToNewView(t *testing.T) {
	w, _ := newWindow(t, DefaultConfig())
	var log []string
	a := newRecorder("a", &log)
	b := newRecorder("b", &log)
	w.ShowView(a)
	w.ShowView(b)

	dispatchAll(t, w)
	if total(a) != 0 {
		t.Errorf("old view received %v", a.handled)
	}
	if b.handled[event.Update] != 1 || b.handled[event.Draw] != 1 || b.handled[event.KeyPress] != 1 {
		t.Errorf("new view received %v", b.handled)
	}
	if w.CurrentView() != View(b) {
		t.Error("CurrentView is not b")
	}
}

func TestShowIsNeverBound(t *testing.T) {
	w, _ := newWindow(t, DefaultConfig())
	var log []string
	a := newRecorder("a", &log)
	w.ShowView(a)
	if n := w.Dispatcher().Bound(event.Show); n != 0 {
		t.Errorf("show bound on %d layers", n)
	}
	if _, err := w.Dispatch(event.Event{Name: event.Show}); err != nil {
		t.Fatal(err)
	}
	if a.handled[event.Show] != 0 {
		t.Error("view handled show through the dispatcher")
	}
}

func TestHideViewLeavesDefaultsOnly(t *testing.T) {
	w, _ := newWindow(t, DefaultConfig())
	var log []string
	a := newRecorder("a", &log)
	defaults := 0
	w.SetDefault(event.Update, func(event.Event) error { defaults++; return nil })
	depth := w.Dispatcher().Depth()

	w.ShowView(a)
	w.HideView()
	dispatchAll(t, w)
	if total(a) != 0 {
		t.Errorf("hidden view received %v", a.handled)
	}
	if defaults != 1 {
		t.Errorf("default update ran %d times", defaults)
	}
	if w.CurrentView() != nil {
		t.Error("CurrentView not cleared")
	}

	w.HideView()
	if got := w.Dispatcher().Depth(); got != depth {
		t.Errorf("depth = %d, want %d", got, depth)
	}
	hides := 0
	for _, entry := range log {
		if entry == "a.hide_view" {
			hides++
		}
	}
	if hides != 1 {
		t.Errorf("hide hook ran %d times", hides)
	}
}

func TestShowNonView(t *testing.T) {
	w, _ := newWindow(t, DefaultConfig())
	var log []string
	a := newRecorder("a", &log)
	w.ShowView(a)

	if err := w.ShowView(nil); !errors.Is(err, ErrNotAView) {
		t.Errorf("ShowView(nil) = %v", err)
	}
	var typedNil *recordingView
	if err := w.ShowView(typedNil); !errors.Is(err, ErrNotAView) {
		t.Errorf("ShowView(typed nil) = %v", err)
	}
	if w.CurrentView() != View(a) {
		t.Error("current view changed after a rejected show")
	}
	if len(log) != 2 {
		t.Errorf("hooks ran on rejected show: %v", log)
	}
}

func TestReshowIsIdempotent(t *testing.T) {
	w, _ := newWindow(t, DefaultConfig())
	var log []string
	a := newRecorder("a", &log)
	w.ShowView(a)
	depth := w.Dispatcher().Depth()
	bound := w.Dispatcher().Bound(event.Update)

	if err := w.ShowView(a); err != nil {
		t.Fatalf("second ShowView: %v", err)
	}
	if w.Dispatcher().Depth() != depth || w.Dispatcher().Bound(event.Update) != bound {
		t.Errorf("depth %d->%d bound %d->%d", depth, w.Dispatcher().Depth(), bound, w.Dispatcher().Bound(event.Update))
	}
	dispatchAll(t, w)
	if a.handled[event.Update] != 1 {
		t.Errorf("update delivered %d times", a.handled[event.Update])
	}
	for _, entry := range log {
		if entry == "a.hide_view" {
			t.Error("re-showing the active view ran its hide hook")
		}
	}
}

func TestViewOnSecondWindowIsPolicyError(t *testing.T) {
	w1, _ := newWindow(t, DefaultConfig())
	w2, _ := newWindow(t, DefaultConfig())
	var log []string
	a := newRecorder("a", &log)
	w1.ShowView(a)

	err := w2.ShowView(a)
	var pe *PolicyError
	if !errors.As(err, &pe) || !errors.Is(err, ErrPolicyConflict) {
		t.Fatalf("err = %v, want PolicyError", err)
	}
	if pe.Bound != w1.ID() || pe.Requested != w2.ID() || pe.View != "a" {
		t.Errorf("PolicyError = %+v", pe)
	}
	if w2.CurrentView() != nil || a.Window() != w1 {
		t.Error("rejected show mutated state")
	}
}

func TestConsumedEventSkipsDefaults(t *testing.T) {
	w, _ := newWindow(t, DefaultConfig())
	var log []string
	a := newRecorder("a", &log)
	a.consume = true
	defaults := 0
	w.SetDefault(event.KeyPress, func(event.Event) error { defaults++; return nil })
	w.ShowView(a)

	handled, err := w.Dispatch(input.Press(input.KeyEvent{Key: input.KeySpace}))
	if err != nil || !handled {
		t.Fatalf("Dispatch = %v, %v", handled, err)
	}
	if defaults != 0 {
		t.Error("consumed event reached window default")
	}
}

func TestHandlerErrorPropagates(t *testing.T) {
	w, _ := newWindow(t, DefaultConfig())
	boom := errors.New("boom")
	v := &funcView{events: event.Handlers{event.FixedUpdate: func(event.Event) error { return boom }}}
	w.ShowView(v)
	if err := w.DispatchUpdates(1.0 / 60); !errors.Is(err, boom) {
		t.Errorf("err = %v, want boom", err)
	}
}

type funcView struct {
	BaseView
	events event.Handlers
}

func (f *funcView) Events() event.Handlers { return f.events }

func TestUnknownNamesAreIgnored(t *testing.T) {
	w, _ := newWindow(t, DefaultConfig())
	v := &funcView{events: event.Handlers{
		"on_teleport": func(event.Event) error { return nil },
		event.Update:  func(event.Event) error { return nil },
	}}
	if err := w.ShowView(v); err != nil {
		t.Fatalf("ShowView: %v", err)
	}
	if w.Dispatcher().Bound(event.Update) != 1 {
		t.Error("update not bound")
	}
}

func TestSectionsOwnManagedEvents(t *testing.T) {
	w, _ := newWindow(t, DefaultConfig())
	viewUpdates, viewKeys, sectionUpdates := 0, 0, 0
	v := &funcView{events: event.Handlers{
		event.Update:   func(event.Event) error { viewUpdates++; return nil },
		event.KeyPress: func(event.Event) error { viewKeys++; return nil },
	}}
	s := section.NewSection("hud", 0, 0, 100, 20)
	s.AcceptKeyboard = false
	s.On(event.Update, func(event.Event) error { sectionUpdates++; return nil })
	if err := v.AddSection(s, -1); err != nil {
		t.Fatal(err)
	}
	shown, hidden := 0, 0
	s.OnShow = func() { shown++ }
	s.OnHide = func() { hidden++ }

	w.ShowView(v)
	// update is managed, so only the section layer binds it.
	if got := w.Dispatcher().Bound(event.Update); got != 1 {
		t.Errorf("update bound on %d layers, want 1", got)
	}
	if got := w.Dispatcher().Bound(event.KeyPress); got != 1 {
		t.Errorf("key_press bound on %d layers, want 1", got)
	}
	w.DispatchUpdates(0.001)
	w.Dispatch(input.Press(input.KeyEvent{Key: input.KeyEnter}))
	if viewUpdates != 1 || sectionUpdates != 1 || viewKeys != 1 {
		t.Errorf("view updates=%d section updates=%d view keys=%d", viewUpdates, sectionUpdates, viewKeys)
	}
	if shown != 1 {
		t.Errorf("section show hook ran %d times", shown)
	}

	w.HideView()
	if hidden != 1 {
		t.Errorf("section hide hook ran %d times", hidden)
	}
	if got := w.Dispatcher().Bound(event.Update); got != 0 {
		t.Errorf("update still bound on %d layers after hide", got)
	}
}

func TestSwitchLeavesSectionHideHookToHideView(t *testing.T) {
	w, _ := newWindow(t, DefaultConfig())
	var log []string
	a := &funcView{}
	s := section.NewSection("hud", 0, 0, 100, 20)
	s.OnHide = func() { log = append(log, "hud.hide") }
	if err := a.AddSection(s, -1); err != nil {
		t.Fatal(err)
	}
	b := newRecorder("b", &log)

	if err := w.ShowView(a); err != nil {
		t.Fatal(err)
	}
	if err := w.ShowView(b); err != nil {
		t.Fatal(err)
	}
	for _, entry := range log {
		if entry == "hud.hide" {
			t.Fatalf("switching views ran the section hide hook: %v", log)
		}
	}

	if err := w.ShowView(a); err != nil {
		t.Fatal(err)
	}
	w.HideView()
	if got := log[len(log)-1]; got != "hud.hide" {
		t.Errorf("last hook = %q, want hud.hide", got)
	}
}

func TestAttachWithoutShow(t *testing.T) {
	w, _ := newWindow(t, DefaultConfig())
	v := &funcView{}
	if err := w.Attach(v); err != nil {
		t.Fatal(err)
	}
	if v.Window() != w || w.CurrentView() != nil {
		t.Error("Attach should bind without showing")
	}
	if err := w.Attach(nil); !errors.Is(err, ErrNotAView) {
		t.Errorf("Attach(nil) = %v", err)
	}
}

func TestBaseViewClearUsesWindowSurface(t *testing.T) {
	w, _ := newWindow(t, DefaultConfig())
	v := &funcView{}
	v.Clear(nil)
	w.ShowView(v)
	v.Clear(nil)
	if ViewName(v) != "*window.funcView" {
		t.Errorf("ViewName = %q", ViewName(v))
	}
}
