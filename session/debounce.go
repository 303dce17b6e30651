package session

import (
	"sync"
	"time"
)

// Debouncer runs at most one deferred function at a time. Each Trigger cancels
// whatever was pending and schedules the new function Delay from now, so a burst
// of triggers runs only the last one, once the burst has been quiet for Delay.
type Debouncer struct {
	Delay time.Duration

	mu    sync.Mutex
	timer *time.Timer
	// bumped on every Trigger and Stop; a timer whose generation is stale
	// does nothing even if it fired before Stop could catch it
	generation uint64
}

func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}

	d.generation++
	generation := d.generation
	d.timer = time.AfterFunc(d.Delay, func() {
		d.mu.Lock()
		if generation != d.generation {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()

		fn()
	})
}

// Stop cancels the pending function, reporting whether there was one.
func (d *Debouncer) Stop() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer == nil {
		return false
	}
	d.timer.Stop()
	d.timer = nil
	d.generation++
	return true
}

func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}
