package loop

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrStopped = errors.New("loop stopped")

// Handle identifies a scheduled interval. The zero value is never issued.
type Handle uint64

type interval struct {
	handle Handle
	period time.Duration
	fn     func(dt float64) error
	last   time.Time
	next   time.Time
}

// Loop is the host's periodic-callback facility. Scheduled callbacks and
// posted functions all run on the goroutine that calls Run (or Tick), so the
// code they drive never needs its own locking.
type Loop struct {
	now func() time.Time

	mu        sync.Mutex
	intervals []*interval
	nextID    Handle

	posted chan func()
	wake   chan struct{}
	stop   chan struct{}
	once   sync.Once
}

func New() *Loop { return NewWithClock(time.Now) }

// NewWithClock builds a loop that reads time from now, so tests can drive it.
func NewWithClock(now func() time.Time) *Loop {
	if now == nil {
		now = time.Now
	}
	return &Loop{
		now:    now,
		posted: make(chan func(), 64),
		wake:   make(chan struct{}, 1),
		stop:   make(chan struct{}),
	}
}

// ScheduleInterval calls fn every seconds, passing the real time elapsed since
// the previous call. A late interval fires once with a larger delta and then
// realigns; missed periods are not replayed.
func (l *Loop) ScheduleInterval(fn func(dt float64) error, seconds float64) Handle {
	period := time.Duration(seconds * float64(time.Second))
	if period <= 0 {
		period = time.Nanosecond
	}
	now := l.now()

	l.mu.Lock()
	l.nextID++
	iv := &interval{handle: l.nextID, period: period, fn: fn, last: now, next: now.Add(period)}
	l.intervals = append(l.intervals, iv)
	l.mu.Unlock()

	l.poke()
	return iv.handle
}

// Unschedule cancels an interval. Unknown handles are ignored.
func (l *Loop) Unschedule(h Handle) {
	l.mu.Lock()
	for i, iv := range l.intervals {
		if iv.handle == h {
			l.intervals = append(l.intervals[:i], l.intervals[i+1:]...)
			break
		}
	}
	l.mu.Unlock()
	l.poke()
}

// Scheduled reports whether h is still active.
func (l *Loop) Scheduled(h Handle) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, iv := range l.intervals {
		if iv.handle == h {
			return true
		}
	}
	return false
}

// Post queues fn to run on the loop goroutine. Safe from any goroutine.
func (l *Loop) Post(fn func()) error {
	select {
	case <-l.stop:
		return ErrStopped
	default:
	}
	select {
	case l.posted <- fn:
		return nil
	case <-l.stop:
		return ErrStopped
	}
}

// Call runs fn on the loop goroutine and waits for its result.
// It must not be called from the loop goroutine itself.
func (l *Loop) Call(ctx context.Context, fn func() error) error {
	done := make(chan error, 1)
	if err := l.Post(func() { done <- fn() }); err != nil {
		return err
	}
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-l.stop:
		return ErrStopped
	}
}

// RunPending runs every queued function without blocking.
func (l *Loop) RunPending() {
	for {
		select {
		case fn := <-l.posted:
			fn()
		default:
			return
		}
	}
}

// Tick fires every interval due at now, once each, in scheduling order.
// The first callback error stops the tick and is returned.
func (l *Loop) Tick(now time.Time) error {
	l.mu.Lock()
	due := make([]*interval, 0, len(l.intervals))
	for _, iv := range l.intervals {
		if !now.Before(iv.next) {
			due = append(due, iv)
		}
	}
	l.mu.Unlock()

	for _, iv := range due {
		// An earlier callback may have unscheduled this one.
		if !l.Scheduled(iv.handle) {
			continue
		}
		dt := now.Sub(iv.last).Seconds()
		l.mu.Lock()
		iv.last = now
		iv.next = iv.next.Add(iv.period)
		if !iv.next.After(now) {
			iv.next = now.Add(iv.period)
		}
		l.mu.Unlock()
		if err := iv.fn(dt); err != nil {
			return err
		}
	}
	return nil
}

// NextDeadline returns the earliest pending deadline.
func (l *Loop) NextDeadline() (time.Time, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var next time.Time
	for i, iv := range l.intervals {
		if i == 0 || iv.next.Before(next) {
			next = iv.next
		}
	}
	return next, len(l.intervals) > 0
}

// Run drives the loop until ctx is done, Stop is called, or a callback fails.
// It returns nil after Stop and the callback error on failure.
func (l *Loop) Run(ctx context.Context) error {
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		var timerC <-chan time.Time
		if next, ok := l.NextDeadline(); ok {
			wait := next.Sub(l.now())
			if wait < 0 {
				wait = 0
			}
			timer.Reset(wait)
			timerC = timer.C
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.stop:
			return nil
		case fn := <-l.posted:
			fn()
		case <-l.wake:
		case <-timerC:
			if err := l.Tick(l.now()); err != nil {
				return err
			}
		}
		timer.Stop()
	}
}

// Stop ends Run. Further Post calls fail with ErrStopped.
func (l *Loop) Stop() {
	l.once.Do(func() { close(l.stop) })
}

func (l *Loop) poke() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}
