// internal/safety/emergency.go
package safety

import (
	"errors"
	"sync/atomic"
	"time"

	"github.com/tamzrod/subsea-controller/internal/eventlog"
	"github.com/tamzrod/subsea-controller/internal/hal"
)

// Emergency drives the vehicle into its fail-safe surface configuration:
// vent valve open, pump full reverse, planes full up, rudder neutral.
// Trigger is one-way; only a power cycle or reset ends it.
type Emergency struct {
	acts hal.Actuators
	log  *eventlog.Log

	active atomic.Bool
	reason atomic.Uint32
}

func NewEmergency(acts hal.Actuators, log *eventlog.Log) (*Emergency, error) {
	if acts == nil {
		return nil, errors.New("safety: actuators required")
	}
	if log == nil {
		return nil, errors.New("safety: event log required")
	}
	return &Emergency{acts: acts, log: log}, nil
}

// Trigger latches the emergency state and commands the safe configuration.
// Idempotent: only the first call records the reason and logs.
func (e *Emergency) Trigger(reason eventlog.Code, now time.Time, p1, p2 byte) {
	if !e.active.CompareAndSwap(false, true) {
		return
	}
	e.reason.Store(uint32(reason))
	e.assertSafe()
	e.log.Append(eventlog.Entry{
		TimestampMs: timestampMs(now),
		Code:        reason,
		P1:          p1,
		P2:          p2,
	})
}

// Maintain re-issues the safe commands. Called every safety tick while
// active so a late write from the control loop can never stick. Does not
// log.
func (e *Emergency) Maintain() {
	if !e.active.Load() {
		return
	}
	e.assertSafe()
}

func (e *Emergency) Active() bool {
	return e.active.Load()
}

func (e *Emergency) Reason() eventlog.Code {
	return eventlog.Code(e.reason.Load())
}

func (e *Emergency) assertSafe() {
	e.acts.SetValve(true)
	e.acts.SetPump(-100)
	e.acts.SetServo(hal.ServoRudder, 0)
	e.acts.SetServo(hal.ServoBowplane, 100)
	e.acts.SetServo(hal.ServoSternplane, 100)
}

// timestampMs folds a wall time into the 32-bit millisecond log stamp.
func timestampMs(t time.Time) uint32 {
	return uint32(t.UnixMilli())
}
