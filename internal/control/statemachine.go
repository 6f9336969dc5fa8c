// internal/control/statemachine.go
package control

import (
	"errors"
	"time"
)

// VehicleState is the top-level behavior state.
type VehicleState int

const (
	StateInit VehicleState = iota
	StateSurface
	StateDiving
	StateSubmergedManual
	StateSubmergedDepthHold
	StateSurfacing
	StateEmergency
)

func (s VehicleState) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateSurface:
		return "surface"
	case StateDiving:
		return "diving"
	case StateSubmergedManual:
		return "submerged_manual"
	case StateSubmergedDepthHold:
		return "submerged_depth_hold"
	case StateSurfacing:
		return "surfacing"
	case StateEmergency:
		return "emergency"
	default:
		return "unknown"
	}
}

// Command is one operator intent per control tick.
type Command int

const (
	CmdNone Command = iota
	CmdDive
	CmdSurface
	CmdDepthHold
	CmdManual
	CmdEmergency
)

const (
	// surfaceDepthCm is the depth below which the vehicle counts as surfaced.
	surfaceDepthCm = 10
	// diveCompleteCm is the depth past which a dive counts as complete.
	diveCompleteCm = 50
	// divingBallastLevel is the partial fill commanded while descending.
	divingBallastLevel = 50
)

// StateMachine decides the ballast target and whether depth hold is active.
// Emergency is absorbing: once entered nothing but a restart leaves it, and
// the ballast target stays fully empty.
type StateMachine struct {
	state         VehicleState
	targetDepthCm int32
	maxDepthCm    int32
	stateStart    time.Time

	ballastTarget int
	depthHold     bool
}

func NewStateMachine(maxDepthCm int32) (*StateMachine, error) {
	if maxDepthCm <= 0 {
		return nil, errors.New("control: max depth must be > 0")
	}
	sm := &StateMachine{state: StateInit, maxDepthCm: maxDepthCm}
	sm.setOutputs(-100, false)
	return sm, nil
}

// SetTargetDepth stores the dive target. Out-of-range values are dropped
// and the previous target kept.
func (sm *StateMachine) SetTargetDepth(depthCm int32) {
	if depthCm < 0 || depthCm > sm.maxDepthCm {
		return
	}
	sm.targetDepthCm = depthCm
}

func (sm *StateMachine) TargetDepth() int32 {
	return sm.targetDepthCm
}

// TriggerEmergency forces the absorbing emergency state and empties the
// ballast target. Idempotent.
func (sm *StateMachine) TriggerEmergency() {
	sm.state = StateEmergency
	sm.setOutputs(-100, false)
}

// Process runs one transition evaluation. An emergency command pre-empts
// everything else this cycle.
func (sm *StateMachine) Process(cmd Command, depthCm int32, now time.Time) {
	if cmd == CmdEmergency {
		sm.TriggerEmergency()
		return
	}
	if sm.state == StateEmergency {
		return
	}

	switch sm.state {
	case StateInit:
		sm.enter(StateSurface, now)
		sm.setOutputs(-100, false)

	case StateSurface:
		sm.setOutputs(-100, false)
		if cmd == CmdDive && sm.targetDepthCm > 0 {
			sm.enter(StateDiving, now)
			sm.setOutputs(divingBallastLevel, false)
		}

	case StateDiving:
		sm.setOutputs(divingBallastLevel, false)
		if cmd == CmdSurface {
			sm.enter(StateSurfacing, now)
			sm.setOutputs(-100, false)
		} else if depthCm >= diveCompleteCm {
			sm.enter(StateSubmergedManual, now)
			sm.setOutputs(0, false)
		}

	case StateSubmergedManual:
		sm.setOutputs(0, false)
		if cmd == CmdSurface {
			sm.enter(StateSurfacing, now)
			sm.setOutputs(-100, false)
		} else if cmd == CmdDepthHold {
			sm.enter(StateSubmergedDepthHold, now)
			// Hold at where the vehicle is, not at a stale prior target.
			sm.SetTargetDepth(depthCm)
			sm.setOutputs(0, true)
		}

	case StateSubmergedDepthHold:
		sm.setOutputs(0, true)
		if cmd == CmdSurface {
			sm.enter(StateSurfacing, now)
			sm.setOutputs(-100, false)
		} else if cmd == CmdManual {
			sm.enter(StateSubmergedManual, now)
			sm.setOutputs(0, false)
		}

	case StateSurfacing:
		sm.setOutputs(-100, false)
		if depthCm <= surfaceDepthCm {
			sm.enter(StateSurface, now)
		}

	default:
		// Unknown state: recover to the surface configuration.
		sm.enter(StateSurface, now)
		sm.setOutputs(-100, false)
	}
}

func (sm *StateMachine) State() VehicleState {
	return sm.state
}

// BallastTarget is the level decided by the last Process call.
func (sm *StateMachine) BallastTarget() int {
	return sm.ballastTarget
}

// DepthHoldEnabled reports whether closed-loop depth hold is active.
func (sm *StateMachine) DepthHoldEnabled() bool {
	return sm.depthHold
}

func (sm *StateMachine) enter(s VehicleState, now time.Time) {
	sm.state = s
	sm.stateStart = now
}

func (sm *StateMachine) setOutputs(ballastLevel int, depthHold bool) {
	sm.ballastTarget = ballastLevel
	sm.depthHold = depthHold
}
