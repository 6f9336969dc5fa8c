// internal/control/depth.go
package control

import "errors"

// DepthController holds the vehicle at a target depth by trimming ballast.
// Depths are centimeters, positive down; the output is a ballast command
// where positive fills (dive) and negative drains (surface).
type DepthController struct {
	pid        *PID
	maxDepthCm int32
	targetCm   int32
	enabled    bool
}

func NewDepthController(cfg PIDConfig, maxDepthCm int32) (*DepthController, error) {
	if maxDepthCm <= 0 {
		return nil, errors.New("control: max depth must be > 0")
	}
	pid, err := NewPID(cfg)
	if err != nil {
		return nil, err
	}
	return &DepthController{pid: pid, maxDepthCm: maxDepthCm}, nil
}

// SetTarget accepts a new hold depth. Out-of-range requests are dropped and
// the previous target kept: a corrupt command must not move the setpoint.
func (c *DepthController) SetTarget(depthCm int32) {
	if depthCm < 0 || depthCm > c.maxDepthCm {
		return
	}
	c.targetCm = depthCm
}

func (c *DepthController) Target() int32 {
	return c.targetCm
}

// Enable switches closed-loop depth hold on or off. PID state is reset on
// the disabled-to-enabled edge only, so a stale integral never carries into
// a fresh hold.
func (c *DepthController) Enable(enable bool) {
	if enable && !c.enabled {
		c.pid.Reset()
	}
	c.enabled = enable
}

func (c *DepthController) Enabled() bool {
	return c.enabled
}

// Update returns the ballast command for the measured depth, or 0 while
// disabled.
func (c *DepthController) Update(currentDepthCm int32, dt float64) int {
	if !c.enabled {
		return 0
	}
	return int(c.pid.Update(float64(c.targetCm), float64(currentDepthCm), dt))
}
