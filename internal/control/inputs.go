// internal/control/inputs.go
package control

import "github.com/tamzrod/subsea-controller/internal/hal"

// RC calibration, pulse widths in microseconds.
const (
	rcPulseCenter = 1500
	rcDeadband    = 50

	// Three-position mode switch thresholds.
	rcSwitchLow  = 1300
	rcSwitchHigh = 1700

	// Full forward on the ballast stick is the dive detent.
	rcDiveDetent = 1850
)

// Receiver channel assignments.
const (
	chThrottle  = 0
	chRudder    = 1
	chElevator  = 2
	chBallast   = 3
	chMode      = 4
	chEmergency = 5
)

// Inputs are stick positions scaled to -100..100.
type Inputs struct {
	Throttle int
	Rudder   int
	Elevator int
	Ballast  int
}

// DecodeInputs converts pulse widths into stick positions with a deadband
// around center.
func DecodeInputs(f hal.RCFrame) Inputs {
	return Inputs{
		Throttle: scalePulse(f.Pulses[chThrottle]),
		Rudder:   scalePulse(f.Pulses[chRudder]),
		Elevator: scalePulse(f.Pulses[chElevator]),
		Ballast:  scalePulse(f.Pulses[chBallast]),
	}
}

// DecodeCommand maps the switch channels to one operator command.
// Emergency wins over everything; the mode switch low position is the
// surface command, high is depth hold, center is manual; the ballast stick
// pushed past its detent commands a dive.
func DecodeCommand(f hal.RCFrame) Command {
	if f.Pulses[chEmergency] > rcSwitchHigh {
		return CmdEmergency
	}
	if f.Pulses[chMode] < rcSwitchLow {
		return CmdSurface
	}
	if f.Pulses[chBallast] > rcDiveDetent {
		return CmdDive
	}
	if f.Pulses[chMode] > rcSwitchHigh {
		return CmdDepthHold
	}
	return CmdManual
}

func scalePulse(p uint16) int {
	d := int(p) - rcPulseCenter
	if d > -rcDeadband && d < rcDeadband {
		return 0
	}
	v := d / 5
	if v < -100 {
		v = -100
	} else if v > 100 {
		v = 100
	}
	return v
}
