package state

import (
	"fmt"
	"sync"
)

type Phase int

const (
	BOOTING Phase = iota
	RUNNING
	STOPPING
	STOPPED
	ERROR
)

var phaseNames = [...]string{"booting", "running", "stopping", "stopped", "error"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return fmt.Sprintf("phase(%d)", int(p))
	}
	return phaseNames[p]
}

func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// WindowInfo is a copy of the window's clocks and counters taken on the loop goroutine.
type WindowInfo struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	View   string `json:"view"`
	Width  int    `json:"width"`
	Height int    `json:"height"`

	Time        float64 `json:"time"`
	FixedTime   float64 `json:"fixed_time"`
	Accumulated float64 `json:"accumulated"`
	Fraction    float64 `json:"fraction"`

	UpdateRate    float64 `json:"update_rate"`
	DrawRate      float64 `json:"draw_rate"`
	FixedRate     float64 `json:"fixed_rate"`
	FixedFrameCap int     `json:"fixed_frame_cap"`

	Updates      uint64  `json:"updates"`
	FixedUpdates uint64  `json:"fixed_updates"`
	Draws        uint64  `json:"draws"`
	FPS          float64 `json:"fps"`
}

type NetworkInfo struct {
	URL string `json:"url"`
}

type State struct {
	Phase   Phase       `json:"phase"`
	Window  WindowInfo  `json:"window"`
	Network NetworkInfo `json:"network"`
	Err     string      `json:"error,omitempty"`
}

// Store is read by the HTTP goroutines and written by the loop.
type Store struct {
	mu    sync.RWMutex
	state State
}

func NewStore() *Store {
	return &Store{state: State{Phase: BOOTING}}
}

func (store *Store) Snapshot() State {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.state
}

func (store *Store) SetPhase(phase Phase) {
	store.mu.Lock()
	store.state.Phase = phase
	store.mu.Unlock()
}

func (store *Store) UpdateWindow(info WindowInfo) {
	store.mu.Lock()
	store.state.Window = info
	store.mu.Unlock()
}

func (store *Store) UpdateNetwork(network NetworkInfo) {
	store.mu.Lock()
	store.state.Network = network
	store.mu.Unlock()
}

// Fail moves the store to ERROR and records err.
func (store *Store) Fail(err error) {
	store.mu.Lock()
	store.state.Phase = ERROR
	if err != nil {
		store.state.Err = err.Error()
	}
	store.mu.Unlock()
}
