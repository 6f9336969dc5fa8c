// internal/diag/snapshot.go
package diag

// Snapshot represents exactly what the publisher is allowed to deliver
// topside. It contains no logic and no memory of the past beyond current
// state.
type Snapshot struct {
	StateCode uint16
	FaultBits uint16
	DepthCm   uint16
	PitchX10  int16
	BatteryMv uint16
	Emergency bool
	Heartbeat uint16
}
