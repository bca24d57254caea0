package watcher

import (
	"sync"
	"time"
)

// Debouncer runs fn once per key after calls for that key stop arriving for
// the configured duration.
type Debouncer struct {
	duration time.Duration
	timers   map[string]*time.Timer
	running  sync.WaitGroup
	stopped  bool
	mu       sync.Mutex
}

func NewDebouncer(duration time.Duration) *Debouncer {
	return &Debouncer{
		duration: duration,
		timers:   make(map[string]*time.Timer),
	}
}

// Debounce is a no-op after Stop.
func (d *Debouncer) Debounce(key string, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	if timer, exists := d.timers[key]; exists {
		timer.Stop()
	}

	var timer *time.Timer
	timer = time.AfterFunc(d.duration, func() {
		d.mu.Lock()
		if d.stopped || d.timers[key] != timer {
			d.mu.Unlock()
			return
		}
		delete(d.timers, key)
		d.running.Add(1)
		d.mu.Unlock()

		defer d.running.Done()
		fn()
	})
	d.timers[key] = timer
}

// Stop cancels every pending call and waits for calls already running.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	d.stopped = true
	for key, timer := range d.timers {
		timer.Stop()
		delete(d.timers, key)
	}
	d.mu.Unlock()

	d.running.Wait()
}

func (d *Debouncer) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.timers)
}
