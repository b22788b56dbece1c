// Package debounce coalesces bursts of triggers into a single trailing call.
package debounce

import (
	"sync"
	"time"
)

// Timer is a pending scheduled call.
type Timer interface {
	Stop() bool
}

// Clock schedules delayed calls.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// SystemClock schedules calls on the runtime timer.
var SystemClock Clock = realClock{}

// Debouncer runs fn once the window has elapsed without a new trigger.
// Every trigger restarts the window, so fn observes the state of the last one.
type Debouncer struct {
	mu      sync.Mutex
	window  time.Duration
	clock   Clock
	fn      func()
	timer   Timer
	gen     uint64
	stopped bool
}

type Option func(*Debouncer)

func WithClock(clock Clock) Option {
	return func(d *Debouncer) {
		d.clock = clock
	}
}

func New(window time.Duration, fn func(), opts ...Option) *Debouncer {
	d := &Debouncer{
		window: window,
		clock:  SystemClock,
		fn:     fn,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Trigger (re)starts the window. It reports whether a pending call was
// superseded.
func (d *Debouncer) Trigger() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return false
	}

	superseded := false
	if d.timer != nil {
		superseded = d.timer.Stop()
	}

	d.gen++
	gen := d.gen
	d.timer = d.clock.AfterFunc(d.window, func() { d.fire(gen) })
	return superseded
}

// Flush runs a pending call immediately. It reports whether one was pending.
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	if d.timer == nil || d.stopped {
		d.mu.Unlock()
		return false
	}
	d.timer.Stop()
	d.timer = nil
	d.gen++
	d.mu.Unlock()

	d.fn()
	return true
}

// Pending reports whether a call is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Stop cancels any pending call; later triggers are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	// A timer that already fired cannot be stopped, so a trigger racing with
	// the firing bumps gen and the stale callback bails out here.
	if gen != d.gen || d.stopped {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.mu.Unlock()

	d.fn()
}
