package clock

import "errors"

// ErrInvalidRate is returned when a fixed clock is built with a non-positive step.
var ErrInvalidRate = errors.New("fixed rate must be greater than zero")

// readyTolerance absorbs float drift when comparing the accumulator against the step.
const readyTolerance = 1e-9

// Clock is the global, monotonic frame clock.
// Tick is its only mutator.
type Clock struct {
	time  float64
	delta float64
}

func New() *Clock { return &Clock{} }

// Tick advances the clock by dt seconds. Negative deltas count as zero.
func (c *Clock) Tick(dt float64) {
	if dt < 0 {
		dt = 0
	}
	c.time += dt
	c.delta = dt
}

func (c *Clock) Time() float64      { return c.time }
func (c *Clock) DeltaTime() float64 { return c.delta }

// FixedClock tracks simulation time that only advances in constant steps.
// It never ticks on its own: the owner feeds it with Accumulate and drains it with Tick.
type FixedClock struct {
	clock       *Clock
	rate        float64
	time        float64
	accumulated float64
	ticks       uint64
}

func NewFixedClock(c *Clock, rate float64) (*FixedClock, error) {
	if rate <= 0 {
		return nil, ErrInvalidRate
	}
	if c == nil {
		c = New()
	}
	return &FixedClock{clock: c, rate: rate}, nil
}

// Accumulate adds one frame's raw delta to the pending simulation time.
func (f *FixedClock) Accumulate(dt float64) {
	if dt <= 0 {
		return
	}
	f.accumulated += dt
}

// Ready reports whether at least one full step is pending.
func (f *FixedClock) Ready() bool {
	return f.accumulated >= f.rate-f.rate*readyTolerance
}

// Tick consumes one step of the given size.
func (f *FixedClock) Tick(rate float64) {
	f.accumulated -= rate
	if f.accumulated < 0 {
		f.accumulated = 0
	}
	f.time += rate
	f.ticks++
}

func (f *FixedClock) Clock() *Clock        { return f.clock }
func (f *FixedClock) Rate() float64        { return f.rate }
func (f *FixedClock) Time() float64        { return f.time }
func (f *FixedClock) Accumulated() float64 { return f.accumulated }
func (f *FixedClock) Ticks() uint64        { return f.ticks }

// Fraction is the pending time expressed in steps, used to interpolate rendering
// between two simulation states.
func (f *FixedClock) Fraction() float64 {
	return f.accumulated / f.rate
}
