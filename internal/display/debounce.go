package display

import (
	"sync"
	"time"
)

// DefaultDebounceWindow bounds how often bursty layout events (continuous
// resize, orientation flips) can force a viewport recomputation.
const DefaultDebounceWindow = 100 * time.Millisecond

// Debouncer coalesces a burst of triggers into a single callback at the
// end of the window opened by the burst's first trigger. Triggers landing
// inside an open window are absorbed, so ten resize events 5ms apart cost
// exactly one recomputation.
type Debouncer struct {
	mu     sync.Mutex
	window time.Duration
	fn     func()
	timer  *time.Timer
	open   bool
}

// NewDebouncer creates a debouncer invoking fn after each settled burst.
// Non-positive windows use DefaultDebounceWindow.
func NewDebouncer(window time.Duration, fn func()) *Debouncer {
	if window <= 0 {
		window = DefaultDebounceWindow
	}
	return &Debouncer{window: window, fn: fn}
}

// Trigger registers an event. The first trigger of a burst opens the
// window and schedules the callback; subsequent triggers inside the window
// are coalesced into that one invocation.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.open {
		return
	}
	d.open = true
	d.timer = time.AfterFunc(d.window, func() {
		d.mu.Lock()
		d.open = false
		d.mu.Unlock()
		d.fn()
	})
}

// Flush fires a pending callback immediately, e.g. when visibility is
// restored and the layout must be correct right away. No-op when no
// trigger is pending.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	pending := d.open
	if pending {
		d.timer.Stop()
		d.open = false
	}
	d.mu.Unlock()

	if pending {
		d.fn()
	}
}

// Stop cancels any pending callback.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	if d.open {
		d.timer.Stop()
		d.open = false
	}
	d.mu.Unlock()
}
