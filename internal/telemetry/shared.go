// internal/telemetry/shared.go
package telemetry

import (
	"sync/atomic"
	"time"
)

// Shared is the telemetry snapshot exchanged between the control loop and
// the safety loop. Every field has exactly one writer goroutine (the
// control loop) and one reader (the safety loop); atomic-width fields make
// the sharing lock-free, so neither loop can block the other.
type Shared struct {
	depthCm       atomic.Int32
	pitchX10      atomic.Int32
	lastCommandMs atomic.Int64 // unix ms of last valid RC frame; 0 = never
	heartbeat     atomic.Uint32
	stateCode     atomic.Uint32
	sensorFault   atomic.Bool
}

func NewShared() *Shared {
	return &Shared{}
}

// ---- producer side (control loop, one call each per tick) ----

func (s *Shared) SetDepthCm(v int32) {
	s.depthCm.Store(v)
}

func (s *Shared) SetPitchX10(v int16) {
	s.pitchX10.Store(int32(v))
}

// TouchCommand records the arrival time of a valid RC frame.
func (s *Shared) TouchCommand(now time.Time) {
	s.lastCommandMs.Store(now.UnixMilli())
}

// Beat advances the liveness counter. The safety loop declares a stall if
// it stops advancing.
func (s *Shared) Beat() {
	s.heartbeat.Add(1)
}

func (s *Shared) SetStateCode(v uint32) {
	s.stateCode.Store(v)
}

// ReportSensorFault latches a sensor-fault indication. It never clears
// within a run.
func (s *Shared) ReportSensorFault() {
	s.sensorFault.Store(true)
}

// ---- consumer side (safety loop, display) ----

func (s *Shared) DepthCm() int32 {
	return s.depthCm.Load()
}

func (s *Shared) PitchX10() int16 {
	return int16(s.pitchX10.Load())
}

// LastCommand returns the arrival time of the last valid RC frame, or the
// zero time if none has ever arrived.
func (s *Shared) LastCommand() time.Time {
	ms := s.lastCommandMs.Load()
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}

func (s *Shared) Heartbeat() uint32 {
	return s.heartbeat.Load()
}

func (s *Shared) StateCode() uint32 {
	return s.stateCode.Load()
}

func (s *Shared) SensorFaultReported() bool {
	return s.sensorFault.Load()
}
