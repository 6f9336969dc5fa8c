// internal/control/pid.go
package control

import "errors"

// PIDConfig holds gains and limits for one PID controller.
type PIDConfig struct {
	Kp float64
	Ki float64
	Kd float64

	IntegralLimit float64
	OutputMin     float64
	OutputMax     float64

	// DerivativeOnMeasurement differentiates the measurement instead of the
	// error, which avoids derivative kick on setpoint changes.
	DerivativeOnMeasurement bool
}

// PID is a discrete PID step with clamped anti-windup. It holds no clock:
// the caller supplies dt.
type PID struct {
	cfg PIDConfig

	integral        float64
	prevError       float64
	prevMeasurement float64
}

func NewPID(cfg PIDConfig) (*PID, error) {
	if cfg.OutputMin >= cfg.OutputMax {
		return nil, errors.New("control: pid output min must be < output max")
	}
	if cfg.IntegralLimit < 0 {
		return nil, errors.New("control: pid integral limit must be >= 0")
	}
	return &PID{cfg: cfg}, nil
}

// Update advances the controller by dt seconds and returns the output
// clamped to the configured range. dt must be positive; a non-positive dt
// is a caller bug and yields 0 without touching state.
func (p *PID) Update(setpoint, measurement, dt float64) float64 {
	if dt <= 0 {
		return 0
	}

	err := setpoint - measurement

	pTerm := p.cfg.Kp * err

	p.integral += err * dt
	if p.integral > p.cfg.IntegralLimit {
		p.integral = p.cfg.IntegralLimit
	} else if p.integral < -p.cfg.IntegralLimit {
		p.integral = -p.cfg.IntegralLimit
	}
	iTerm := p.cfg.Ki * p.integral

	var dTerm float64
	if p.cfg.DerivativeOnMeasurement {
		dTerm = -p.cfg.Kd * (measurement - p.prevMeasurement) / dt
	} else {
		dTerm = p.cfg.Kd * (err - p.prevError) / dt
	}

	p.prevError = err
	p.prevMeasurement = measurement

	out := pTerm + iTerm + dTerm
	if out > p.cfg.OutputMax {
		out = p.cfg.OutputMax
	} else if out < p.cfg.OutputMin {
		out = p.cfg.OutputMin
	}
	return out
}

// Reset zeroes the integral and both previous-value trackers. Gains and
// limits are untouched.
func (p *PID) Reset() {
	p.integral = 0
	p.prevError = 0
	p.prevMeasurement = 0
}

// Integral reports the accumulated integral state.
func (p *PID) Integral() float64 {
	return p.integral
}
