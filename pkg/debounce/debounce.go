// Package debounce provides a cancellable delayed-execution primitive with
// cancel-on-supersede semantics: each trigger cancels any pending callback
// and restarts the quiet-period timer, so only the trigger that survives a
// full quiet period fires.
package debounce

import (
	"sync"
	"time"
)

// DefaultDuration is the quiet period used when none is given.
const DefaultDuration = 250 * time.Millisecond

// Debouncer coalesces rapid triggers into a single callback invocation.
// At most one callback is ever pending; Trigger and Cancel are safe for
// concurrent use.
type Debouncer struct {
	mu       sync.Mutex
	duration time.Duration
	timer    *time.Timer
}

// New creates a Debouncer with the given quiet period.
// A non-positive duration falls back to DefaultDuration.
func New(d time.Duration) *Debouncer {
	if d <= 0 {
		d = DefaultDuration
	}
	return &Debouncer{duration: d}
}

// Trigger schedules fn to run after the quiet period, cancelling any
// previously pending callback first. The callback runs on its own goroutine.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.duration, fn)
}

// Cancel stops any pending callback before it can fire.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Duration returns the configured quiet period.
func (d *Debouncer) Duration() time.Duration {
	return d.duration
}
