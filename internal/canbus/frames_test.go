// internal/canbus/frames_test.go
package canbus

import (
	"testing"

	"go.einride.tech/can"

	"github.com/tamzrod/subsea-controller/internal/hal"
)

func TestDecodeDepth(t *testing.T) {
	f := can.Frame{ID: IDDepth, Length: 4, Data: can.Data{0x00, 0x00, 0x01, 0x2C}}
	depth, err := decodeDepth(f)
	if err != nil {
		t.Fatalf("decodeDepth() err=%v", err)
	}
	if depth != 300 {
		t.Errorf("depth = %d, want 300", depth)
	}

	if _, err := decodeDepth(can.Frame{ID: IDDepth, Length: 2}); err == nil {
		t.Error("short frame accepted")
	}
	if _, err := decodeDepth(can.Frame{ID: IDAttitude, Length: 4}); err == nil {
		t.Error("wrong ID accepted")
	}
}

func TestDecodeAttitude(t *testing.T) {
	// pitch -123 (0xFF85), roll 42 (0x002A)
	f := can.Frame{ID: IDAttitude, Length: 4, Data: can.Data{0xFF, 0x85, 0x00, 0x2A}}
	pitch, roll, err := decodeAttitude(f)
	if err != nil {
		t.Fatalf("decodeAttitude() err=%v", err)
	}
	if pitch != -123 {
		t.Errorf("pitch = %d, want -123", pitch)
	}
	if roll != 42 {
		t.Errorf("roll = %d, want 42", roll)
	}
}

func TestDecodeRCHalves(t *testing.T) {
	var pulses [hal.RCChannelCount]uint16

	lo := can.Frame{ID: IDRCLow, Length: 8, Data: can.Data{
		0x03, 0xE8, // 1000
		0x05, 0xDC, // 1500
		0x07, 0xD0, // 2000
		0x06, 0x72, // 1650
	}}
	if err := decodeRCLow(lo, &pulses); err != nil {
		t.Fatalf("decodeRCLow() err=%v", err)
	}

	hi := can.Frame{ID: IDRCHigh, Length: 4, Data: can.Data{
		0x05, 0x14, // 1300
		0x07, 0x6C, // 1900
	}}
	if err := decodeRCHigh(hi, &pulses); err != nil {
		t.Fatalf("decodeRCHigh() err=%v", err)
	}

	want := [hal.RCChannelCount]uint16{1000, 1500, 2000, 1650, 1300, 1900}
	if pulses != want {
		t.Errorf("pulses = %v, want %v", pulses, want)
	}

	if err := decodeRCLow(can.Frame{ID: IDRCLow, Length: 6}, &pulses); err == nil {
		t.Error("short low half accepted")
	}
}

func TestDecodeBatteryLeak(t *testing.T) {
	f := can.Frame{ID: IDBatteryLeak, Length: 3, Data: can.Data{0x1C, 0x20, 0x01}}
	mv, leak, err := decodeBatteryLeak(f)
	if err != nil {
		t.Fatalf("decodeBatteryLeak() err=%v", err)
	}
	if mv != 7200 {
		t.Errorf("mv = %d, want 7200", mv)
	}
	if !leak {
		t.Error("leak bit not decoded")
	}
}

func TestEncodePumpClampsAndSigns(t *testing.T) {
	f := encodePump(-100)
	if f.ID != IDPumpCmd || f.Length != 1 {
		t.Fatalf("frame = %+v", f)
	}
	if int8(f.Data[0]) != -100 {
		t.Errorf("pump byte = %d, want -100", int8(f.Data[0]))
	}

	if got := int8(encodePump(250).Data[0]); got != 100 {
		t.Errorf("pump byte = %d for 250, want clamped 100", got)
	}
	if got := int8(encodePump(-250).Data[0]); got != -100 {
		t.Errorf("pump byte = %d for -250, want clamped -100", got)
	}
}

func TestEncodeServo(t *testing.T) {
	f := encodeServo(hal.ServoSternplane, -40)
	if f.ID != IDServoCmd || f.Length != 2 {
		t.Fatalf("frame = %+v", f)
	}
	if f.Data[0] != byte(hal.ServoSternplane) {
		t.Errorf("channel byte = %d, want %d", f.Data[0], hal.ServoSternplane)
	}
	if int8(f.Data[1]) != -40 {
		t.Errorf("position byte = %d, want -40", int8(f.Data[1]))
	}
}

func TestEncodeValveAndLED(t *testing.T) {
	if f := encodeValve(true); f.ID != IDValveCmd || f.Data[0] != 1 {
		t.Errorf("valve frame = %+v", f)
	}
	if f := encodeValve(false); f.Data[0] != 0 {
		t.Errorf("valve frame = %+v", f)
	}
	if f := encodeStatusLED(true); f.ID != IDStatusLED || f.Data[0] != 1 {
		t.Errorf("LED frame = %+v", f)
	}
}
