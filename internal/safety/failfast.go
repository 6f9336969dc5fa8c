// internal/safety/failfast.go
package safety

import (
	"log"
	"time"

	"github.com/tamzrod/subsea-controller/internal/eventlog"
)

const (
	failFastCycles = 500
	failFastPeriod = 10 * time.Millisecond
)

// FailFast is the terminal path for precondition violations discovered at
// runtime. It latches the emergency configuration, re-asserts it for a
// bounded interval so the blow has time to take effect, then forces a
// hardware reset. It never returns control to the caller's logic.
func FailFast(e *Emergency, dog Watchdog, reason string) {
	log.Printf("FATAL: %s", reason)

	e.Trigger(eventlog.CodeAssertFail, time.Now(), 0, 0)

	for i := 0; i < failFastCycles; i++ {
		e.Maintain()
		time.Sleep(failFastPeriod)
	}

	dog.ForceReset()
}
