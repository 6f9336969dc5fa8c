// internal/control/runner.go
package control

import (
	"context"
	"time"
)

// Run drives the loop at the given tick until the context ends.
// Cancellation exists for tests and bench tooling; on the vehicle the
// context never ends.
func (l *Loop) Run(ctx context.Context, tick time.Duration) {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			l.Step(now)
		}
	}
}
