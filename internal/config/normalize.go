// internal/config/normalize.go
package config

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	c := &cfg.Controller

	// ------------------------------------------------------------
	// TOPSIDE STATUS BLOCK NORMALIZATION (OPT-IN)
	// ------------------------------------------------------------

	if c.Diag == nil {
		return
	}

	// Normalize vehicle_name:
	// - ASCII already validated
	// - Truncate to max 16 characters
	if len(c.Diag.VehicleName) > 16 {
		c.Diag.VehicleName = c.Diag.VehicleName[:16]
	}

	// Default the tether write timeout.
	if c.Diag.TimeoutMs <= 0 {
		c.Diag.TimeoutMs = 1000
	}
}
