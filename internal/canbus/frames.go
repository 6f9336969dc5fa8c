// internal/canbus/frames.go
package canbus

import (
	"encoding/binary"
	"errors"

	"go.einride.tech/can"

	"github.com/tamzrod/subsea-controller/internal/hal"
)

// Frame IDs on the vehicle bus. 0x1xx are sensor broadcasts, 0x2xx are
// actuator commands.
const (
	IDDepth       uint32 = 0x100
	IDAttitude    uint32 = 0x101
	IDRCLow       uint32 = 0x102 // channels 0..3
	IDRCHigh      uint32 = 0x103 // channels 4..5
	IDBatteryLeak uint32 = 0x104

	IDPumpCmd   uint32 = 0x200
	IDValveCmd  uint32 = 0x201
	IDServoCmd  uint32 = 0x202
	IDStatusLED uint32 = 0x203
)

var errFrameShape = errors.New("canbus: unexpected frame shape")

// ---- sensor frames (decode) ----

func decodeDepth(f can.Frame) (int32, error) {
	if f.ID != IDDepth || f.Length < 4 {
		return 0, errFrameShape
	}
	return int32(binary.BigEndian.Uint32(f.Data[0:4])), nil
}

func decodeAttitude(f can.Frame) (pitchX10, rollX10 int16, err error) {
	if f.ID != IDAttitude || f.Length < 4 {
		return 0, 0, errFrameShape
	}
	pitchX10 = int16(binary.BigEndian.Uint16(f.Data[0:2]))
	rollX10 = int16(binary.BigEndian.Uint16(f.Data[2:4]))
	return pitchX10, rollX10, nil
}

// An RC frame spans two CAN frames: four channels in the low half, two in
// the high half.
func decodeRCLow(f can.Frame, pulses *[hal.RCChannelCount]uint16) error {
	if f.ID != IDRCLow || f.Length < 8 {
		return errFrameShape
	}
	for i := 0; i < 4; i++ {
		pulses[i] = binary.BigEndian.Uint16(f.Data[2*i : 2*i+2])
	}
	return nil
}

func decodeRCHigh(f can.Frame, pulses *[hal.RCChannelCount]uint16) error {
	if f.ID != IDRCHigh || f.Length < 4 {
		return errFrameShape
	}
	pulses[4] = binary.BigEndian.Uint16(f.Data[0:2])
	pulses[5] = binary.BigEndian.Uint16(f.Data[2:4])
	return nil
}

func decodeBatteryLeak(f can.Frame) (mv uint16, leak bool, err error) {
	if f.ID != IDBatteryLeak || f.Length < 3 {
		return 0, false, errFrameShape
	}
	return binary.BigEndian.Uint16(f.Data[0:2]), f.Data[2] != 0, nil
}

// ---- actuator frames (encode) ----

func encodePump(speed int) can.Frame {
	return can.Frame{ID: IDPumpCmd, Length: 1, Data: can.Data{byte(int8(clampPct(speed)))}}
}

func encodeValve(open bool) can.Frame {
	var b byte
	if open {
		b = 1
	}
	return can.Frame{ID: IDValveCmd, Length: 1, Data: can.Data{b}}
}

func encodeServo(ch hal.ServoChannel, pos int) can.Frame {
	return can.Frame{
		ID:     IDServoCmd,
		Length: 2,
		Data:   can.Data{byte(ch), byte(int8(clampPct(pos)))},
	}
}

func encodeStatusLED(on bool) can.Frame {
	var b byte
	if on {
		b = 1
	}
	return can.Frame{ID: IDStatusLED, Length: 1, Data: can.Data{b}}
}

func clampPct(v int) int {
	if v < -100 {
		return -100
	}
	if v > 100 {
		return 100
	}
	return v
}
