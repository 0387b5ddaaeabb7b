package services

import (
	"sync"
	"time"
)

// DefaultSlowThreshold is how long a session or profile fetch may run before
// its slow flag is raised. The flag is advisory only; the underlying call is
// never cancelled and a late result is still applied unless superseded.
const DefaultSlowThreshold = 6 * time.Second

// watchdog raises a flag when an operation outlives a threshold. Start is
// idempotent: restarting while a timer is pending replaces it, so at most
// one callback is ever armed.
type watchdog struct {
	mu        sync.Mutex
	timer     *time.Timer
	threshold time.Duration
	onSlow    func()
}

func newWatchdog(threshold time.Duration, onSlow func()) *watchdog {
	if threshold <= 0 {
		threshold = DefaultSlowThreshold
	}
	return &watchdog{threshold: threshold, onSlow: onSlow}
}

// Start arms the timer, replacing any pending one.
func (w *watchdog) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.threshold, w.onSlow)
}

// Stop disarms the timer. Safe to call when nothing is pending.
func (w *watchdog) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}
