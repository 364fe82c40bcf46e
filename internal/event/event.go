package event

// Name identifies an event type.
type Name string

const (
	// Show fires once per activation. The window fires it by hand, so it is
	// never bound through a view's handler table.
	Show Name = "show"

	Update      Name = "update"
	FixedUpdate Name = "fixed_update"
	Draw        Name = "draw"
	Resize      Name = "resize"
	Close       Name = "close"
	Action      Name = "action"

	KeyPress   Name = "key_press"
	KeyRelease Name = "key_release"

	MouseMotion  Name = "mouse_motion"
	MousePress   Name = "mouse_press"
	MouseRelease Name = "mouse_release"
	MouseDrag    Name = "mouse_drag"
	MouseScroll  Name = "mouse_scroll"
	MouseEnter   Name = "mouse_enter"
	MouseLeave   Name = "mouse_leave"
)

// DefaultNames returns every event name a window registers, in registration order.
func DefaultNames() []Name {
	return []Name{
		Show,
		Update, FixedUpdate, Draw, Resize, Close, Action,
		KeyPress, KeyRelease,
		MouseMotion, MousePress, MouseRelease, MouseDrag, MouseScroll, MouseEnter, MouseLeave,
	}
}

// MouseNames are the pointer events.
func MouseNames() []Name {
	return []Name{MouseMotion, MousePress, MouseRelease, MouseDrag, MouseScroll, MouseEnter, MouseLeave}
}

// KeyNames are the keyboard events.
func KeyNames() []Name {
	return []Name{KeyPress, KeyRelease}
}

// Event is one dispatched occurrence.
// Delta carries the step for update events; Payload is owned by whoever produced the event.
type Event struct {
	Name    Name
	Delta   float64
	Payload any
}

// Handler reacts to an event. Returning Stop consumes the event; any other
// error aborts the dispatch and is returned to the caller.
type Handler func(ev Event) error

// Handlers is a capability table: the events an owner participates in.
type Handlers map[Name]Handler

// Names returns the names in h that have a non-nil handler.
func (h Handlers) Names() []Name {
	out := make([]Name, 0, len(h))
	for name, fn := range h {
		if fn != nil {
			out = append(out, name)
		}
	}
	return out
}
