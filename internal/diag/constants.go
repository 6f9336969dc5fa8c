// internal/diag/constants.go
package diag

// Topside status block layout.
// These values define the console protocol and MUST NOT be configurable.

// ---- BLOCK GEOMETRY ----

// SlotsPerBlock is the fixed number of register slots in one status block.
const SlotsPerBlock = 20

// ---- SLOT INDICES ----

// SlotVehicleState holds the state machine state code.
const SlotVehicleState = 0

// SlotFaultBits holds the raw fault bitset.
const SlotFaultBits = 1

// SlotDepthCm holds the current depth in centimeters.
const SlotDepthCm = 2

// SlotPitchX10 holds the current pitch in tenths of a degree (two's
// complement in the register).
const SlotPitchX10 = 3

// SlotBatteryMv holds the battery voltage in millivolts.
const SlotBatteryMv = 4

// SlotEmergency is 1 while the emergency procedure is active.
const SlotEmergency = 5

// SlotHeartbeat holds the low 16 bits of the control loop liveness counter.
const SlotHeartbeat = 6

// ---- RESERVED RANGE ----

// Slots 7-10 are reserved for future use.
const SlotReservedStart = 7
const SlotReservedEnd = 10

// ---- VEHICLE NAME ----

// SlotNameStart is the first slot used for the vehicle name.
// The name is always placed at the END of the status block.
const SlotNameStart = 11

// SlotNameSlots is the number of slots reserved for the vehicle name.
const SlotNameSlots = 8

// NameMaxChars is the maximum number of ASCII characters stored for the
// vehicle name (two characters per slot).
const NameMaxChars = 16
