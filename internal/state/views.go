package state

import "sync"

type ViewsSnapshot struct {
	Names   []string `json:"names"`
	Current string   `json:"current"`
}

// ViewCatalog mirrors the app's view registry for readers off the loop.
type ViewCatalog struct {
	mu sync.RWMutex

	names   []string
	current string
}

func NewViewCatalog() *ViewCatalog { return &ViewCatalog{} }

func (catalog *ViewCatalog) Snapshot() ViewsSnapshot {
	catalog.mu.RLock()
	defer catalog.mu.RUnlock()

	return ViewsSnapshot{
		Names:   cloneStrings(catalog.names),
		Current: catalog.current,
	}
}

func (catalog *ViewCatalog) Has(name string) bool {
	catalog.mu.RLock()
	defer catalog.mu.RUnlock()
	for _, n := range catalog.names {
		if n == name {
			return true
		}
	}
	return false
}

func (catalog *ViewCatalog) Add(name string) {
	catalog.mu.Lock()
	defer catalog.mu.Unlock()
	for _, n := range catalog.names {
		if n == name {
			return
		}
	}
	catalog.names = append(catalog.names, name)
}

func (catalog *ViewCatalog) SetCurrent(name string) {
	catalog.mu.Lock()
	catalog.current = name
	catalog.mu.Unlock()
}

func cloneStrings(input []string) []string {
	if len(input) == 0 {
		return nil
	}
	out := make([]string, len(input))
	copy(out, input)
	return out
}
