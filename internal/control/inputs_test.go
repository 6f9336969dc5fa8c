// internal/control/inputs_test.go
package control

import (
	"testing"

	"github.com/tamzrod/subsea-controller/internal/hal"
)

func frame(pulses ...uint16) hal.RCFrame {
	var f hal.RCFrame
	for i := range f.Pulses {
		f.Pulses[i] = 1500
	}
	copy(f.Pulses[:], pulses)
	return f
}

func TestScalePulse(t *testing.T) {
	cases := []struct {
		pulse uint16
		want  int
	}{
		{1500, 0},
		{1549, 0}, // inside the deadband
		{1451, 0},
		{1550, 10},
		{1450, -10},
		{2000, 100},
		{1000, -100},
		{2400, 100}, // clamped
		{900, -100},
	}
	for _, c := range cases {
		if got := scalePulse(c.pulse); got != c.want {
			t.Errorf("scalePulse(%d) = %d, want %d", c.pulse, got, c.want)
		}
	}
}

func TestDecodeInputs(t *testing.T) {
	f := frame(2000, 1000, 1600, 1400)
	in := DecodeInputs(f)
	want := Inputs{Throttle: 100, Rudder: -100, Elevator: 20, Ballast: -20}
	if in != want {
		t.Errorf("DecodeInputs = %+v, want %+v", in, want)
	}
}

func TestDecodeCommand(t *testing.T) {
	cases := []struct {
		name string
		f    hal.RCFrame
		want Command
	}{
		{"all centered is manual", frame(), CmdManual},
		{"mode high is depth hold", frame(1500, 1500, 1500, 1500, 1900, 1500), CmdDepthHold},
		{"mode low is surface", frame(1500, 1500, 1500, 1500, 1100, 1500), CmdSurface},
		{"ballast detent is dive", frame(1500, 1500, 1500, 1900, 1500, 1500), CmdDive},
		{"emergency switch wins", frame(1500, 1500, 1500, 1900, 1100, 1900), CmdEmergency},
		{"surface wins over dive", frame(1500, 1500, 1500, 1900, 1100, 1500), CmdSurface},
		{"dive wins over depth hold", frame(1500, 1500, 1500, 1900, 1900, 1500), CmdDive},
		{"detent exactly is not a dive", frame(1500, 1500, 1500, 1850, 1500, 1500), CmdManual},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := DecodeCommand(c.f); got != c.want {
				t.Errorf("DecodeCommand = %v, want %v", got, c.want)
			}
		})
	}
}
