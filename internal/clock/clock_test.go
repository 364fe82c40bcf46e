package clock

import (
	"errors"
	"math"
	"testing"
)

const epsilon = 1e-12

func TestClockTick(t *testing.T) {
	c := New()
	c.Tick(0.5)
	c.Tick(0.25)
	if math.Abs(c.Time()-0.75) > epsilon {
		t.Errorf("Time() = %v, want 0.75", c.Time())
	}
	if c.DeltaTime() != 0.25 {
		t.Errorf("DeltaTime() = %v, want 0.25", c.DeltaTime())
	}

	c.Tick(-1)
	if math.Abs(c.Time()-0.75) > epsilon {
		t.Errorf("Time() after negative tick = %v, want 0.75", c.Time())
	}
	if c.DeltaTime() != 0 {
		t.Errorf("DeltaTime() after negative tick = %v, want 0", c.DeltaTime())
	}
}

func TestNewFixedClockRejectsNonPositiveRate(t *testing.T) {
	for _, rate := range []float64{0, -1.0 / 60} {
		if _, err := NewFixedClock(New(), rate); !errors.Is(err, ErrInvalidRate) {
			t.Errorf("NewFixedClock(%v) error = %v, want ErrInvalidRate", rate, err)
		}
	}
}

func TestFixedClockDrain(t *testing.T) {
	rate := 1.0 / 60
	f, err := NewFixedClock(New(), rate)
	if err != nil {
		t.Fatalf("NewFixedClock: %v", err)
	}

	f.Accumulate(3.0 / 60)
	steps := 0
	for f.Ready() {
		f.Tick(rate)
		steps++
		if steps > 10 {
			t.Fatal("fixed clock never drained")
		}
	}

	if steps != 3 {
		t.Errorf("steps = %d, want 3", steps)
	}
	if f.Ticks() != 3 {
		t.Errorf("Ticks() = %d, want 3", f.Ticks())
	}
	if f.Accumulated() < 0 || f.Accumulated() > 1e-9 {
		t.Errorf("Accumulated() = %v, want ~0", f.Accumulated())
	}
	if math.Abs(f.Time()-3.0/60) > 1e-9 {
		t.Errorf("Time() = %v, want %v", f.Time(), 3.0/60)
	}
}

func TestFixedClockFraction(t *testing.T) {
	f, _ := NewFixedClock(nil, 0.1)
	f.Accumulate(0.05)
	if f.Ready() {
		t.Error("Ready() = true with half a step pending")
	}
	if math.Abs(f.Fraction()-0.5) > 1e-9 {
		t.Errorf("Fraction() = %v, want 0.5", f.Fraction())
	}
	f.Accumulate(-3)
	if math.Abs(f.Accumulated()-0.05) > 1e-12 {
		t.Errorf("negative Accumulate changed the accumulator: %v", f.Accumulated())
	}
}
