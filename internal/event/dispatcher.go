package event

import (
	"errors"
	"fmt"
)

var (
	// Stop is returned by a handler to consume the event. It is a control-flow
	// signal, not a failure: Dispatch reports the event as handled with a nil
	// error.
	Stop = errors.New("event consumed")

	ErrUnknownEvent = errors.New("unknown event")
)

// LayerID identifies a pushed handler layer. The zero value never names a layer.
type LayerID uint64

type layer struct {
	id       LayerID
	handlers Handlers
}

// Dispatcher is a stack of handler layers consulted top-down.
// It is not safe for concurrent use; all calls happen on the loop goroutine.
type Dispatcher struct {
	names  []Name
	known  map[Name]bool
	layers []layer
	nextID LayerID
}

func NewDispatcher(names ...Name) *Dispatcher {
	d := &Dispatcher{known: make(map[Name]bool)}
	d.Register(names...)
	return d
}

// Register adds event names. Registering a name twice is harmless.
func (d *Dispatcher) Register(names ...Name) {
	for _, name := range names {
		if d.known[name] {
			continue
		}
		d.known[name] = true
		d.names = append(d.names, name)
	}
}

func (d *Dispatcher) Registered(name Name) bool { return d.known[name] }

// Names returns the registered names in registration order.
func (d *Dispatcher) Names() []Name {
	out := make([]Name, len(d.names))
	copy(out, d.names)
	return out
}

// Push places a new layer on top of the stack. Nil handlers are dropped; a
// table with nothing left pushes no layer and returns 0.
func (d *Dispatcher) Push(h Handlers) (LayerID, error) {
	table := make(Handlers, len(h))
	for name, fn := range h {
		if fn == nil {
			continue
		}
		if !d.known[name] {
			return 0, fmt.Errorf("push %q: %w", name, ErrUnknownEvent)
		}
		table[name] = fn
	}
	if len(table) == 0 {
		return 0, nil
	}
	d.nextID++
	d.layers = append(d.layers, layer{id: d.nextID, handlers: table})
	return d.nextID, nil
}

// Set replaces a single handler inside an existing layer. A nil handler removes it.
func (d *Dispatcher) Set(id LayerID, name Name, h Handler) error {
	if !d.known[name] {
		return fmt.Errorf("set %q: %w", name, ErrUnknownEvent)
	}
	for i := range d.layers {
		if d.layers[i].id != id {
			continue
		}
		if h == nil {
			delete(d.layers[i].handlers, name)
		} else {
			d.layers[i].handlers[name] = h
		}
		return nil
	}
	return fmt.Errorf("set %q: no layer %d", name, id)
}

// Remove drops the layer with the given id. It reports whether a layer was removed.
func (d *Dispatcher) Remove(id LayerID) bool {
	if id == 0 {
		return false
	}
	for i := len(d.layers) - 1; i >= 0; i-- {
		if d.layers[i].id == id {
			d.layers = append(d.layers[:i], d.layers[i+1:]...)
			return true
		}
	}
	return false
}

// Dispatch walks the layers from the top. It returns true when a handler
// consumed the event. A handler error stops the walk and is returned as is.
func (d *Dispatcher) Dispatch(ev Event) (bool, error) {
	if !d.known[ev.Name] {
		return false, fmt.Errorf("dispatch %q: %w", ev.Name, ErrUnknownEvent)
	}
	// Handlers may push or remove layers; walk a snapshot.
	snapshot := make([]layer, len(d.layers))
	copy(snapshot, d.layers)
	for i := len(snapshot) - 1; i >= 0; i-- {
		fn := snapshot[i].handlers[ev.Name]
		if fn == nil {
			continue
		}
		err := fn(ev)
		if err == nil {
			continue
		}
		if errors.Is(err, Stop) {
			return true, nil
		}
		return false, err
	}
	return false, nil
}

// Depth is the number of layers on the stack.
func (d *Dispatcher) Depth() int { return len(d.layers) }

// Has reports whether layer id handles name.
func (d *Dispatcher) Has(id LayerID, name Name) bool {
	for _, l := range d.layers {
		if l.id == id {
			return l.handlers[name] != nil
		}
	}
	return false
}

// Bound returns how many layers currently handle name.
func (d *Dispatcher) Bound(name Name) int {
	n := 0
	for _, l := range d.layers {
		if l.handlers[name] != nil {
			n++
		}
	}
	return n
}
