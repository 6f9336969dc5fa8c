// internal/diag/publisher.go
package diag

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// registerWriter is the exact contract the publisher uses; satisfied by
// github.com/goburrow/modbus.Client.
type registerWriter interface {
	WriteMultipleRegisters(address, quantity uint16, value []byte) ([]byte, error)
}

// Publisher writes the status block onto the topside console's register
// memory. Best effort: a detached tether just drops writes.
type Publisher struct {
	cli      registerWriter
	baseSlot uint16
	name     string
}

func NewPublisher(cli registerWriter, baseSlot uint16, vehicleName string) (*Publisher, error) {
	if cli == nil {
		return nil, errors.New("diag: register writer required")
	}
	for i := 0; i < len(vehicleName); i++ {
		if vehicleName[i] > 0x7F {
			return nil, errors.New("diag: vehicle name must contain ASCII characters only")
		}
	}
	if len(vehicleName) > NameMaxChars {
		vehicleName = vehicleName[:NameMaxChars]
	}
	return &Publisher{cli: cli, baseSlot: baseSlot, name: vehicleName}, nil
}

// Publish delivers one snapshot as a full block write.
func (p *Publisher) Publish(s Snapshot) error {
	regs := make([]uint16, SlotsPerBlock)
	regs[SlotVehicleState] = s.StateCode
	regs[SlotFaultBits] = s.FaultBits
	regs[SlotDepthCm] = s.DepthCm
	regs[SlotPitchX10] = uint16(s.PitchX10)
	regs[SlotBatteryMv] = s.BatteryMv
	if s.Emergency {
		regs[SlotEmergency] = 1
	}
	regs[SlotHeartbeat] = s.Heartbeat

	packName(regs, p.name)

	buf := make([]byte, 2*SlotsPerBlock)
	for i, r := range regs {
		binary.BigEndian.PutUint16(buf[2*i:], r)
	}

	if _, err := p.cli.WriteMultipleRegisters(p.baseSlot, SlotsPerBlock, buf); err != nil {
		return fmt.Errorf("diag: status write at slot %d: %w", p.baseSlot, err)
	}
	return nil
}

// packName stores two ASCII characters per slot, high byte first, zero
// padded.
func packName(regs []uint16, name string) {
	for i := 0; i < SlotNameSlots; i++ {
		var hi, lo byte
		if 2*i < len(name) {
			hi = name[2*i]
		}
		if 2*i+1 < len(name) {
			lo = name[2*i+1]
		}
		regs[SlotNameStart+i] = uint16(hi)<<8 | uint16(lo)
	}
}
