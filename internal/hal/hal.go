// internal/hal/hal.go
package hal

import "time"

// ServoChannel selects one of the control surfaces.
type ServoChannel int

const (
	ServoRudder ServoChannel = iota
	ServoBowplane
	ServoSternplane
)

// RCChannelCount is the number of channels in one receiver frame.
const RCChannelCount = 6

// RCFrame is one raw command frame from the receiver.
// Pulse widths are in microseconds per channel.
type RCFrame struct {
	Pulses [RCChannelCount]uint16
	At     time.Time
}

// Actuators is the write side of the vehicle hardware.
// Setters clamp to their legal range and never block.
type Actuators interface {
	SetPump(speed int) // -100..100, negative expels water
	SetValve(open bool)
	SetServo(ch ServoChannel, pos int) // -100..100
}

// Sensor reads are non-blocking. ok=false means no valid sample was
// available; callers fall back to their last valid value.

type DepthSensor interface {
	ReadDepthCm() (int32, bool)
}

type AttitudeSensor interface {
	ReadPitchX10() (int16, bool)
}

type RCReceiver interface {
	ReadFrame() (RCFrame, bool)
}

type BatteryMonitor interface {
	ReadMillivolts() (uint16, bool)
}

type LeakSensor interface {
	Detected() bool
}
