// internal/control/loop.go
package control

import (
	"errors"
	"time"

	"github.com/tamzrod/subsea-controller/internal/hal"
	"github.com/tamzrod/subsea-controller/internal/telemetry"
)

// Sensors is the loop's view of the vehicle instruments. Reads never
// block; ok=false means no fresh sample this tick.
type Sensors interface {
	ReadDepthCm() (int32, bool)
	ReadPitchX10() (int16, bool)
	ReadFrame() (hal.RCFrame, bool)
}

// EmergencyGuard reports whether the emergency override has latched. The
// loop stops commanding actuators once it has: the safety loop owns them.
type EmergencyGuard interface {
	Active() bool
}

// LoopConfig carries the control-side constants.
type LoopConfig struct {
	MaxDepthCm         int32
	MaxPitchDeg        int
	DefaultDiveDepthCm int32
	BallastFillTime    time.Duration
	DepthPID           PIDConfig
	PitchPID           PIDConfig
}

// Loop is the 50 Hz behavior loop: sensor intake, state machine, depth and
// pitch control, ballast sequencing, actuator output. One Step per tick,
// no allocation on the steady path.
type Loop struct {
	cfg LoopConfig

	sm      *StateMachine
	depth   *DepthController
	pitch   *PitchController
	ballast *Ballast

	sensors Sensors
	acts    hal.Actuators
	shared  *telemetry.Shared
	guard   EmergencyGuard

	lastDepthCm  int32
	lastPitchX10 int16
	depthSeen    bool
	pitchSeen    bool
	lastStep     time.Time
}

func NewLoop(cfg LoopConfig, sensors Sensors, acts hal.Actuators, shared *telemetry.Shared, guard EmergencyGuard) (*Loop, error) {
	if sensors == nil || acts == nil || shared == nil || guard == nil {
		return nil, errors.New("control: loop dependencies required")
	}

	sm, err := NewStateMachine(cfg.MaxDepthCm)
	if err != nil {
		return nil, err
	}
	depth, err := NewDepthController(cfg.DepthPID, cfg.MaxDepthCm)
	if err != nil {
		return nil, err
	}
	pitch, err := NewPitchController(cfg.PitchPID, cfg.MaxPitchDeg)
	if err != nil {
		return nil, err
	}
	ballast, err := NewBallast(cfg.BallastFillTime)
	if err != nil {
		return nil, err
	}

	// The dive target is fixed at build time. Leaving it at zero disables
	// the dive command entirely.
	sm.SetTargetDepth(cfg.DefaultDiveDepthCm)

	return &Loop{
		cfg:     cfg,
		sm:      sm,
		depth:   depth,
		pitch:   pitch,
		ballast: ballast,
		sensors: sensors,
		acts:    acts,
		shared:  shared,
		guard:   guard,
	}, nil
}

// Step runs one control cycle at the given instant.
func (l *Loop) Step(now time.Time) {
	// Heartbeat first: the safety loop must see progress even on a tick
	// where every sensor read fails.
	l.shared.Beat()

	dt := l.tickSeconds(now)

	depthCm, ok := l.sensors.ReadDepthCm()
	if ok {
		l.depthSeen = true
		l.lastDepthCm = depthCm
		l.shared.SetDepthCm(depthCm)
	} else {
		// Fall back to the last valid reading. Losing a source that was
		// alive before is worth a sensor-fault report; silence before the
		// first sample is just boot.
		depthCm = l.lastDepthCm
		if l.depthSeen {
			l.shared.ReportSensorFault()
		}
	}

	pitchX10, ok := l.sensors.ReadPitchX10()
	if ok {
		l.pitchSeen = true
		l.lastPitchX10 = pitchX10
		l.shared.SetPitchX10(pitchX10)
	} else {
		pitchX10 = l.lastPitchX10
		if l.pitchSeen {
			l.shared.ReportSensorFault()
		}
	}

	cmd := CmdNone
	var in Inputs
	if frame, ok := l.sensors.ReadFrame(); ok {
		l.shared.TouchCommand(now)
		cmd = DecodeCommand(frame)
		in = DecodeInputs(frame)
	}

	if l.guard.Active() {
		// Emergency override: mirror the state and stop writing actuators.
		l.sm.TriggerEmergency()
		l.shared.SetStateCode(uint32(l.sm.State()))
		return
	}

	l.sm.Process(cmd, depthCm, now)
	l.shared.SetStateCode(uint32(l.sm.State()))

	l.runBallast(depthCm, in, dt, now)
	l.runPlanes(pitchX10, in, dt)
}

// State exposes the machine state for tests and bench tooling.
func (l *Loop) State() VehicleState {
	return l.sm.State()
}

func (l *Loop) tickSeconds(now time.Time) float64 {
	if l.lastStep.IsZero() {
		l.lastStep = now
		return 0
	}
	dt := now.Sub(l.lastStep).Seconds()
	l.lastStep = now
	if dt < 0 {
		return 0
	}
	return dt
}

func (l *Loop) runBallast(depthCm int32, in Inputs, dt float64, now time.Time) {
	hold := l.sm.DepthHoldEnabled()
	l.depth.Enable(hold)

	switch {
	case hold:
		l.depth.SetTarget(l.sm.TargetDepth())
		if dt > 0 {
			l.ballast.SetTarget(l.depth.Update(depthCm, dt))
		}
	case l.sm.State() == StateSubmergedManual:
		// Manual trim straight from the stick.
		l.ballast.SetTarget(in.Ballast)
	default:
		l.ballast.SetTarget(l.sm.BallastTarget())
	}

	cmd := l.ballast.Update(now)
	l.acts.SetPump(cmd.PumpSpeed)
	l.acts.SetValve(cmd.ValveOpen)
}

func (l *Loop) runPlanes(pitchX10 int16, in Inputs, dt float64) {
	submerged := l.sm.State() == StateSubmergedManual || l.sm.State() == StateSubmergedDepthHold

	l.pitch.Enable(submerged)
	if submerged && dt > 0 {
		p := l.pitch.Update(pitchX10, dt)
		l.acts.SetServo(hal.ServoBowplane, p)
		l.acts.SetServo(hal.ServoSternplane, p)
	} else {
		l.acts.SetServo(hal.ServoBowplane, 0)
		l.acts.SetServo(hal.ServoSternplane, 0)
	}

	l.acts.SetServo(hal.ServoRudder, in.Rudder)
}
