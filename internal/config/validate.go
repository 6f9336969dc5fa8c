// internal/config/validate.go
package config

import "fmt"

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	c := &cfg.Controller

	// ------------------------------------------------------------
	// LOOP TIMING
	// ------------------------------------------------------------

	if c.SafetyTickMs <= 0 {
		return fmt.Errorf("safety_tick_ms must be > 0 (got %d)", c.SafetyTickMs)
	}
	if c.ControlTickMs <= 0 {
		return fmt.Errorf("control_tick_ms must be > 0 (got %d)", c.ControlTickMs)
	}
	if c.WatchdogTimeoutMs <= c.SafetyTickMs {
		return fmt.Errorf(
			"watchdog_timeout_ms (%d) must exceed safety_tick_ms (%d)",
			c.WatchdogTimeoutMs, c.SafetyTickMs,
		)
	}

	// ------------------------------------------------------------
	// SAFETY ENVELOPE
	// ------------------------------------------------------------

	if c.SignalTimeoutMs <= 0 {
		return fmt.Errorf("signal_timeout_ms must be > 0 (got %d)", c.SignalTimeoutMs)
	}
	if c.MaxDepthCm <= 0 {
		return fmt.Errorf("max_depth_cm must be > 0 (got %d)", c.MaxDepthCm)
	}
	if c.MaxPitchDeg <= 0 || c.MaxPitchDeg > 90 {
		return fmt.Errorf("max_pitch_deg must be in (0, 90] (got %d)", c.MaxPitchDeg)
	}
	if c.MinBatteryMv <= 0 || c.MinBatteryMv > 65535 {
		return fmt.Errorf("min_battery_mv out of range (got %d)", c.MinBatteryMv)
	}
	if c.StallTicks <= 0 {
		return fmt.Errorf("stall_ticks must be > 0 (got %d)", c.StallTicks)
	}

	// ------------------------------------------------------------
	// CONTROLLERS
	// ------------------------------------------------------------

	if c.DefaultDiveDepthCm < 0 || c.DefaultDiveDepthCm > c.MaxDepthCm {
		return fmt.Errorf(
			"default_dive_depth_cm (%d) must be within [0, max_depth_cm]",
			c.DefaultDiveDepthCm,
		)
	}
	if c.Ballast.FillTimeMs <= 0 {
		return fmt.Errorf("ballast fill_time_ms must be > 0 (got %d)", c.Ballast.FillTimeMs)
	}
	for _, p := range []struct {
		name string
		pid  PIDConfig
	}{
		{"depth_pid", c.DepthPID},
		{"pitch_pid", c.PitchPID},
	} {
		if p.pid.IntegralLimit < 0 {
			return fmt.Errorf("%s integral_limit must be >= 0", p.name)
		}
	}

	// ------------------------------------------------------------
	// RETENTION + BUS
	// ------------------------------------------------------------

	if c.EventLogPath == "" {
		return fmt.Errorf("event_log_path is required")
	}
	if c.CAN.Interface == "" {
		return fmt.Errorf("can interface is required")
	}

	// ------------------------------------------------------------
	// TOPSIDE STATUS BLOCK (OPT-IN)
	// ------------------------------------------------------------

	if c.Diag != nil {
		if c.Diag.Endpoint == "" {
			return fmt.Errorf("diag: endpoint is required when diag is set")
		}
		// vehicle_name sanity (ASCII only)
		for i := 0; i < len(c.Diag.VehicleName); i++ {
			if c.Diag.VehicleName[i] > 0x7F {
				return fmt.Errorf("diag: vehicle_name must contain ASCII characters only")
			}
		}
	}

	return nil
}
