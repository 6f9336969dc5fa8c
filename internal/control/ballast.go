// internal/control/ballast.go
package control

import (
	"errors"
	"time"
)

// BallastState enumerates the fill sequencer states.
type BallastState int

const (
	BallastIdle BallastState = iota
	BallastFilling
	BallastDraining
	BallastHolding
)

func (s BallastState) String() string {
	switch s {
	case BallastIdle:
		return "idle"
	case BallastFilling:
		return "filling"
	case BallastDraining:
		return "draining"
	case BallastHolding:
		return "holding"
	default:
		return "unknown"
	}
}

const (
	ballastLevelMin  = -100
	ballastLevelMax  = 100
	ballastFullRange = 200 // -100..+100
	ballastScale     = 1000

	// BallastTolerance is the dead-zone around the target within which no
	// pump or valve action is commanded. Leaving Idle requires the error to
	// strictly exceed it; Holding tolerates twice as much drift.
	BallastTolerance = 5
)

// BallastCommand is the actuator decision for one update.
type BallastCommand struct {
	PumpSpeed int // -100..100
	ValveOpen bool
}

// Ballast sequences the pump and vent valve toward a target fill level in
// -100 (empty) .. +100 (full). There is no level sensor: the level is
// estimated by integrating pump-on time in a x1000 fixed-point accumulator,
// so irregular tick intervals cannot drift the estimate.
type Ballast struct {
	state      BallastState
	target     int
	levelX1000 int32
	fillTime   time.Duration
	lastUpdate time.Time // zero while not integrating
}

func NewBallast(fillTime time.Duration) (*Ballast, error) {
	if fillTime < time.Millisecond {
		return nil, errors.New("control: ballast fill time must be at least 1ms")
	}
	return &Ballast{fillTime: fillTime}, nil
}

// SetTarget clamps the requested level into the legal range.
func (b *Ballast) SetTarget(level int) {
	if level < ballastLevelMin {
		level = ballastLevelMin
	}
	if level > ballastLevelMax {
		level = ballastLevelMax
	}
	b.target = level
}

func (b *Ballast) Target() int {
	return b.target
}

// Level reports the current fill estimate in whole units.
func (b *Ballast) Level() int {
	return int(b.levelX1000 / ballastScale)
}

func (b *Ballast) State() BallastState {
	return b.state
}

// Update advances the sequencer to now and returns the pump and valve
// command for this tick.
func (b *Ballast) Update(now time.Time) BallastCommand {
	err := b.target - b.Level()
	abs := err
	if abs < 0 {
		abs = -abs
	}

	switch b.state {
	case BallastIdle:
		if abs > BallastTolerance {
			if err > 0 {
				b.state = BallastFilling
			} else {
				b.state = BallastDraining
			}
			b.lastUpdate = time.Time{}
			return b.moveCommand()
		}
		return BallastCommand{}

	case BallastFilling:
		b.integrate(now, 1)
		if b.Level() >= b.target {
			b.snapToTarget()
		}
		return BallastCommand{PumpSpeed: 100, ValveOpen: false}

	case BallastDraining:
		b.integrate(now, -1)
		if b.Level() <= b.target {
			b.snapToTarget()
		}
		return BallastCommand{PumpSpeed: -100, ValveOpen: true}

	case BallastHolding:
		if abs > 2*BallastTolerance {
			b.state = BallastIdle
		}
		return BallastCommand{}

	default:
		b.state = BallastIdle
		return BallastCommand{}
	}
}

func (b *Ballast) moveCommand() BallastCommand {
	if b.state == BallastFilling {
		return BallastCommand{PumpSpeed: 100, ValveOpen: false}
	}
	return BallastCommand{PumpSpeed: -100, ValveOpen: true}
}

// integrate advances the level estimate by the elapsed interval. The first
// call after entering a moving state only arms the timestamp. Elapsed time
// is clamped to the full fill time, so one huge interval cannot push the
// estimate past the physical range faster than the pump could.
func (b *Ballast) integrate(now time.Time, direction int32) {
	if b.lastUpdate.IsZero() {
		b.lastUpdate = now
		return
	}
	dt := now.Sub(b.lastUpdate)
	b.lastUpdate = now
	if dt <= 0 {
		return
	}
	if dt > b.fillTime {
		dt = b.fillTime
	}

	delta := dt.Milliseconds() * ballastFullRange * ballastScale / b.fillTime.Milliseconds()
	b.levelX1000 += direction * int32(delta)

	const minX1000 = ballastLevelMin * ballastScale
	const maxX1000 = ballastLevelMax * ballastScale
	if b.levelX1000 < minX1000 {
		b.levelX1000 = minX1000
	} else if b.levelX1000 > maxX1000 {
		b.levelX1000 = maxX1000
	}
}

// snapToTarget pins the estimate exactly on the target and holds. The snap
// removes sub-unit residue from the fixed-point accumulator.
func (b *Ballast) snapToTarget() {
	b.levelX1000 = int32(b.target) * ballastScale
	b.state = BallastHolding
}
