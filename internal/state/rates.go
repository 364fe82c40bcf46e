package state

import "sync"

type RatesSnapshot struct {
	Initialized bool
	NeedsApply  bool
	UpdateHz    float64
	DrawHz      float64
}

// RateRequest holds update/draw rates requested from outside the loop (HTTP,
// config reload). The loop applies them and calls MarkApplied.
type RateRequest struct {
	mu sync.RWMutex

	initialized bool
	needsApply  bool
	updateHz    float64
	drawHz      float64
}

func NewRateRequest() *RateRequest { return &RateRequest{} }

func (rates *RateRequest) Snapshot() RatesSnapshot {
	rates.mu.RLock()
	defer rates.mu.RUnlock()

	return RatesSnapshot{
		Initialized: rates.initialized,
		NeedsApply:  rates.needsApply,
		UpdateHz:    rates.updateHz,
		DrawHz:      rates.drawHz,
	}
}

func (rates *RateRequest) Reset() {
	rates.mu.Lock()
	rates.initialized = false
	rates.needsApply = false
	rates.updateHz = 0
	rates.drawHz = 0
	rates.mu.Unlock()
}

// Set requests new rates. A zero value keeps the current one.
func (rates *RateRequest) Set(updateHz, drawHz float64) {
	rates.mu.Lock()
	if updateHz > 0 && updateHz != rates.updateHz {
		rates.updateHz = updateHz
		rates.needsApply = true
	}
	if drawHz > 0 && drawHz != rates.drawHz {
		rates.drawHz = drawHz
		rates.needsApply = true
	}
	rates.initialized = true
	rates.mu.Unlock()
}

// MarkApplied records that the loop has applied the current request.
func (rates *RateRequest) MarkApplied() {
	rates.mu.Lock()
	rates.needsApply = false
	rates.mu.Unlock()
}
