// internal/config/config.go
package config

type Config struct {
	Controller ControllerConfig `yaml:"controller"`
}

// ---- CONTROLLER ----

// ControllerConfig holds the build-time constants of the vehicle. The
// shipped defaults ARE the product configuration; the yaml override exists
// for the bench only.
type ControllerConfig struct {
	SafetyTickMs  int `yaml:"safety_tick_ms"`
	ControlTickMs int `yaml:"control_tick_ms"`

	SignalTimeoutMs   int   `yaml:"signal_timeout_ms"`
	MaxDepthCm        int32 `yaml:"max_depth_cm"`
	MaxPitchDeg       int   `yaml:"max_pitch_deg"`
	MinBatteryMv      int   `yaml:"min_battery_mv"`
	WatchdogTimeoutMs int   `yaml:"watchdog_timeout_ms"`
	StallTicks        int   `yaml:"stall_ticks"`

	DefaultDiveDepthCm int32 `yaml:"default_dive_depth_cm"`

	Ballast  BallastConfig `yaml:"ballast"`
	DepthPID PIDConfig     `yaml:"depth_pid"`
	PitchPID PIDConfig     `yaml:"pitch_pid"`

	CAN CANConfig `yaml:"can"`

	// EventLogPath is the retained region backing the event log. On tmpfs
	// it survives a warm restart, never a power cycle.
	EventLogPath string `yaml:"event_log_path"`

	// Diag is the topside status block (optional, opt-in).
	Diag *DiagConfig `yaml:"diag"`
}

// ---- BALLAST ----

type BallastConfig struct {
	FillTimeMs int `yaml:"fill_time_ms"`
}

// ---- PID ----

type PIDConfig struct {
	Kp            float64 `yaml:"kp"`
	Ki            float64 `yaml:"ki"`
	Kd            float64 `yaml:"kd"`
	IntegralLimit float64 `yaml:"integral_limit"`
}

// ---- CAN ----

type CANConfig struct {
	Interface string `yaml:"interface"`
}

// ---- DIAG ----

type DiagConfig struct {
	Endpoint    string `yaml:"endpoint"`
	UnitID      uint8  `yaml:"unit_id"`
	BaseSlot    uint16 `yaml:"base_slot"`
	VehicleName string `yaml:"vehicle_name"`
	TimeoutMs   int    `yaml:"timeout_ms"`
}

// Default returns the shipped vehicle constants.
func Default() *Config {
	return &Config{
		Controller: ControllerConfig{
			SafetyTickMs:  10, // 100 Hz
			ControlTickMs: 20, // 50 Hz

			SignalTimeoutMs:   3000,
			MaxDepthCm:        300,
			MaxPitchDeg:       45,
			MinBatteryMv:      6400, // 2S LiPo floor
			WatchdogTimeoutMs: 1000,
			StallTicks:        10,

			DefaultDiveDepthCm: 150,

			Ballast: BallastConfig{FillTimeMs: 10000},
			DepthPID: PIDConfig{
				Kp: 2.0, Ki: 0.1, Kd: 0.5, IntegralLimit: 500,
			},
			PitchPID: PIDConfig{
				Kp: 1.5, Ki: 0.05, Kd: 0.3, IntegralLimit: 200,
			},

			CAN: CANConfig{Interface: "can0"},

			EventLogPath: "/run/subctl/eventlog.bin",
		},
	}
}
