// internal/safety/monitor.go
package safety

import (
	"errors"
	"sync/atomic"
	"time"

	"github.com/tamzrod/subsea-controller/internal/eventlog"
	"github.com/tamzrod/subsea-controller/internal/hal"
)

// Telemetry is the monitor's read-only view of the control loop.
type Telemetry interface {
	DepthCm() int32
	PitchX10() int16
	LastCommand() time.Time
	Heartbeat() uint32
	SensorFaultReported() bool
}

// Watchdog is the hardware watchdog surface. Feed re-arms it; ForceReset
// fires it immediately.
type Watchdog interface {
	Feed()
	ForceReset()
}

// Indicator drives the external status lamp.
type Indicator interface {
	SetStatusLED(on bool)
}

// MonitorConfig carries the safety thresholds.
type MonitorConfig struct {
	SignalTimeout  time.Duration
	MaxDepthCm     int32
	MaxPitchDeg    int
	MinBatteryMv   uint16
	StallThreshold int
}

// Lamp blink periods.
const (
	lampPeriodNormal    = 500 * time.Millisecond
	lampPeriodEmergency = 100 * time.Millisecond
)

// Monitor is the fixed-rate fault evaluator. Each Tick it disciplines the
// watchdog, evaluates every fault condition against the shared telemetry,
// and escalates to the emergency procedure when a critical fault stands.
//
// Watchdog policy: the dog is fed only while the aggregated fault set is
// empty. Any standing fault starves it, so if the escalation path itself
// fails the hardware still resets the vehicle.
type Monitor struct {
	cfg MonitorConfig

	tel  Telemetry
	batt hal.BatteryMonitor
	leak hal.LeakSensor
	dog  Watchdog
	emy  *Emergency
	log  *eventlog.Log
	lamp Indicator

	faults atomic.Uint32

	started       time.Time
	lastHeartbeat uint32
	stallTicks    int
	battSeen      bool

	lampOn     bool
	lampToggle time.Time
}

func NewMonitor(cfg MonitorConfig, tel Telemetry, batt hal.BatteryMonitor, leak hal.LeakSensor,
	dog Watchdog, emy *Emergency, log *eventlog.Log, lamp Indicator) (*Monitor, error) {

	if cfg.SignalTimeout <= 0 {
		return nil, errors.New("safety: signal timeout must be > 0")
	}
	if cfg.MaxDepthCm <= 0 {
		return nil, errors.New("safety: max depth must be > 0")
	}
	if cfg.MaxPitchDeg <= 0 {
		return nil, errors.New("safety: max pitch must be > 0")
	}
	if cfg.StallThreshold <= 0 {
		return nil, errors.New("safety: stall threshold must be > 0")
	}
	if tel == nil || batt == nil || leak == nil || dog == nil || emy == nil || log == nil {
		return nil, errors.New("safety: monitor dependencies required")
	}

	return &Monitor{
		cfg:  cfg,
		tel:  tel,
		batt: batt,
		leak: leak,
		dog:  dog,
		emy:  emy,
		log:  log,
		lamp: lamp,
	}, nil
}

// Faults returns the aggregated fault set. Safe from any goroutine.
func (m *Monitor) Faults() Faults {
	return Faults(m.faults.Load())
}

// Tick runs one safety evaluation. The order is deliberate: the watchdog is
// disciplined first so fault evaluation can never delay starvation, then
// every condition is checked, then the critical set escalates exactly once.
func (m *Monitor) Tick(now time.Time) {
	if m.started.IsZero() {
		m.started = now
	}

	// The warn bit is derived, never carried: it reflects this tick's
	// feeding decision only.
	f := m.Faults().clear(FaultWatchdogWarn)

	if !f.Any() {
		m.dog.Feed()
	} else {
		// Starving: the dog is now running down toward a hardware reset.
		f = f.set(FaultWatchdogWarn)
	}

	f = m.checkSignal(f, now)
	f = m.checkBattery(f, now)
	f = m.checkLeak(f, now)
	f = m.checkLimits(f, now)
	f = m.checkLiveness(f, now)

	if m.tel.SensorFaultReported() {
		f = f.set(FaultSensor)
	}

	m.faults.Store(uint32(f))

	if f.AnyCritical() {
		// Idempotent: Trigger no-ops after the first latch.
		m.emy.Trigger(eventlog.CodeEmergency, now, byte(f>>8), byte(f))
	}
	if m.emy.Active() {
		m.emy.Maintain()
	}

	m.updateLamp(now)
}

// checkSignal is the only fault that auto-clears: a fresh valid command
// frame restores it immediately, no hysteresis.
func (m *Monitor) checkSignal(f Faults, now time.Time) Faults {
	last := m.tel.LastCommand()
	if last.IsZero() {
		last = m.started
	}

	if now.Sub(last) > m.cfg.SignalTimeout {
		if !f.Has(FaultSignalLost) {
			f = f.set(FaultSignalLost)
			m.logEvent(now, eventlog.CodeSignalLost, 0, 0)
		}
	} else if f.Has(FaultSignalLost) {
		f = f.clear(FaultSignalLost)
		m.logEvent(now, eventlog.CodeSignalRestored, 0, 0)
	}
	return f
}

func (m *Monitor) checkBattery(f Faults, now time.Time) Faults {
	mv, ok := m.batt.ReadMillivolts()
	if !ok {
		// Silence before the first reading is just boot; a monitor that
		// goes quiet afterwards is a sensor fault.
		if m.battSeen {
			return f.set(FaultSensor)
		}
		return f
	}
	m.battSeen = true
	// Latched: no documented recovery path for low battery.
	if mv < m.cfg.MinBatteryMv && !f.Has(FaultLowBattery) {
		f = f.set(FaultLowBattery)
		m.logEvent(now, eventlog.CodeLowBattery, byte(mv>>8), byte(mv))
	}
	return f
}

func (m *Monitor) checkLeak(f Faults, now time.Time) Faults {
	if m.leak.Detected() && !f.Has(FaultLeak) {
		f = f.set(FaultLeak)
		m.logEvent(now, eventlog.CodeLeakDetected, 0, 0)
	}
	return f
}

// checkLimits latches depth and pitch excursions. Latched faults never
// clear within a run even if the vehicle comes back inside the envelope.
func (m *Monitor) checkLimits(f Faults, now time.Time) Faults {
	depth := m.tel.DepthCm()
	if depth > m.cfg.MaxDepthCm && !f.Has(FaultDepthExceeded) {
		f = f.set(FaultDepthExceeded)
		m.logEvent(now, eventlog.CodeDepthExceeded, byte(depth>>8), byte(depth))
	}

	pitchDeg := int(m.tel.PitchX10()) / 10
	if pitchDeg < 0 {
		pitchDeg = -pitchDeg
	}
	if pitchDeg > m.cfg.MaxPitchDeg && !f.Has(FaultPitchExceeded) {
		f = f.set(FaultPitchExceeded)
		m.logEvent(now, eventlog.CodePitchExceeded, byte(pitchDeg), 0)
	}
	return f
}

// checkLiveness watches the control loop heartbeat. A stalled loop's
// telemetry cannot be trusted, so past the threshold the monitor escalates
// straight to the emergency procedure instead of waiting on the aggregate
// check. A resumed heartbeat clears the counter and the flag.
func (m *Monitor) checkLiveness(f Faults, now time.Time) Faults {
	hb := m.tel.Heartbeat()
	if hb == m.lastHeartbeat {
		m.stallTicks++
		if m.stallTicks > m.cfg.StallThreshold && !f.Has(FaultCoreStall) {
			f = f.set(FaultCoreStall)
			m.logEvent(now, eventlog.CodeCoreStall, 0, 0)
			m.emy.Trigger(eventlog.CodeCoreStall, now, 0, 0)
		}
	} else {
		m.stallTicks = 0
		f = f.clear(FaultCoreStall)
	}
	m.lastHeartbeat = hb
	return f
}

// updateLamp blinks the status lamp, fast while the emergency is active.
func (m *Monitor) updateLamp(now time.Time) {
	if m.lamp == nil {
		return
	}
	period := lampPeriodNormal
	if m.emy.Active() {
		period = lampPeriodEmergency
	}
	if now.Sub(m.lampToggle) >= period {
		m.lampOn = !m.lampOn
		m.lamp.SetStatusLED(m.lampOn)
		m.lampToggle = now
	}
}

func (m *Monitor) logEvent(now time.Time, code eventlog.Code, p1, p2 byte) {
	m.log.Append(eventlog.Entry{
		TimestampMs: timestampMs(now),
		Code:        code,
		P1:          p1,
		P2:          p2,
	})
}
