// internal/control/pitch.go
package control

import "errors"

// PitchController levels the vehicle with the dive planes. Pitch is in
// tenths of a degree, positive nose up; the output is a plane command
// where positive raises the nose.
type PitchController struct {
	pid       *PID
	limitX10  int16
	targetX10 int16
	enabled   bool
}

func NewPitchController(cfg PIDConfig, maxPitchDeg int) (*PitchController, error) {
	if maxPitchDeg <= 0 || maxPitchDeg > 90 {
		return nil, errors.New("control: max pitch must be in (0, 90] degrees")
	}
	pid, err := NewPID(cfg)
	if err != nil {
		return nil, err
	}
	return &PitchController{
		pid:      pid,
		limitX10: int16(maxPitchDeg * 10),
		enabled:  true,
	}, nil
}

// SetTarget accepts a new pitch target. Requests past the physical limit
// are dropped and the previous target kept.
func (c *PitchController) SetTarget(pitchX10 int16) {
	if pitchX10 < -c.limitX10 || pitchX10 > c.limitX10 {
		return
	}
	c.targetX10 = pitchX10
}

func (c *PitchController) Target() int16 {
	return c.targetX10
}

// Enable works like DepthController.Enable: the PID resets only on the
// disabled-to-enabled edge.
func (c *PitchController) Enable(enable bool) {
	if enable && !c.enabled {
		c.pid.Reset()
	}
	c.enabled = enable
}

func (c *PitchController) Enabled() bool {
	return c.enabled
}

// Update returns the plane command for the measured pitch, or 0 while
// disabled.
func (c *PitchController) Update(currentPitchX10 int16, dt float64) int {
	if !c.enabled {
		return 0
	}
	return int(c.pid.Update(float64(c.targetX10), float64(currentPitchX10), dt))
}
