// internal/hal/watchdog.go
package hal

import (
	"errors"
	"sync"
	"time"
)

// SoftwareWatchdog stands in for the hardware watchdog on host builds.
// If Feed is not called within the timeout, the reset function fires.
// The reset function is expected to restart the process; a supervisor
// restart counts as a warm boot.
type SoftwareWatchdog struct {
	mu      sync.Mutex
	timeout time.Duration
	reset   func()
	timer   *time.Timer
	stopped bool
}

func NewSoftwareWatchdog(timeout time.Duration, reset func()) (*SoftwareWatchdog, error) {
	if timeout <= 0 {
		return nil, errors.New("hal: watchdog timeout must be > 0")
	}
	if reset == nil {
		return nil, errors.New("hal: watchdog reset function required")
	}
	w := &SoftwareWatchdog{
		timeout: timeout,
		reset:   reset,
	}
	w.timer = time.AfterFunc(timeout, reset)
	return w, nil
}

// Feed re-arms the watchdog for one more timeout interval.
func (w *SoftwareWatchdog) Feed() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	w.timer.Reset(w.timeout)
}

// ForceReset fires the reset function immediately.
func (w *SoftwareWatchdog) ForceReset() {
	w.reset()
}

// Stop disarms the watchdog. Test use only.
func (w *SoftwareWatchdog) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stopped = true
	w.timer.Stop()
}
