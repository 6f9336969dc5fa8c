// internal/safety/faults.go
package safety

import "strings"

// Fault is a single fault bit.
type Fault uint16

const (
	FaultSignalLost Fault = 1 << iota
	FaultLowBattery
	FaultLeak
	FaultDepthExceeded
	FaultPitchExceeded
	FaultCoreStall
	FaultWatchdogWarn
	FaultSensor
)

// criticalMask lists the faults that escalate to the emergency procedure.
// FaultWatchdogWarn and FaultSensor are informational: they are reported
// but do not blow ballast on their own.
const criticalMask = FaultSignalLost |
	FaultLowBattery |
	FaultLeak |
	FaultDepthExceeded |
	FaultPitchExceeded |
	FaultCoreStall

var faultNames = []struct {
	bit  Fault
	name string
}{
	{FaultSignalLost, "signal_lost"},
	{FaultLowBattery, "low_battery"},
	{FaultLeak, "leak"},
	{FaultDepthExceeded, "depth_exceeded"},
	{FaultPitchExceeded, "pitch_exceeded"},
	{FaultCoreStall, "core_stall"},
	{FaultWatchdogWarn, "watchdog_warn"},
	{FaultSensor, "sensor_fault"},
}

// Faults is the aggregated fault bitset.
type Faults uint16

func (f Faults) Has(bit Fault) bool {
	return f&Faults(bit) != 0
}

func (f Faults) Any() bool {
	return f != 0
}

// AnyCritical reports whether any escalating fault is standing.
func (f Faults) AnyCritical() bool {
	return f&Faults(criticalMask) != 0
}

func (f Faults) set(bit Fault) Faults {
	return f | Faults(bit)
}

func (f Faults) clear(bit Fault) Faults {
	return f &^ Faults(bit)
}

func (f Faults) String() string {
	if f == 0 {
		return "none"
	}
	var names []string
	for _, fn := range faultNames {
		if f.Has(fn.bit) {
			names = append(names, fn.name)
		}
	}
	return strings.Join(names, ",")
}
