// internal/safety/runner.go
package safety

import (
	"context"
	"time"
)

// Run drives the monitor at the given tick until the context ends.
// Cancellation exists for tests and bench tooling; on the vehicle the
// context never ends.
func (m *Monitor) Run(ctx context.Context, tick time.Duration) {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			m.Tick(now)
		}
	}
}
