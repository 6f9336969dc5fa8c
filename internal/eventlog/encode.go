// internal/eventlog/encode.go
package eventlog

import "encoding/binary"

// Retained snapshot layout, little-endian:
//
//	0..3   sentinel magic
//	4      head
//	5      count
//	6..7   reserved
//	8..    Capacity entries, 8 bytes each: ts u32, code, p1, p2, pad
//
// The sentinel distinguishes a warm restart (magic present) from a cold
// boot (region empty or from a previous firmware).

const (
	sentinelMagic = 0x53554231 // "SUB1"
	headerSize    = 8
	entrySize     = 8
	snapshotSize  = headerSize + Capacity*entrySize
)

func (l *Log) encode() []byte {
	buf := make([]byte, snapshotSize)
	binary.LittleEndian.PutUint32(buf[0:4], sentinelMagic)
	buf[4] = byte(l.head)
	buf[5] = byte(l.count)
	for i, e := range l.entries {
		off := headerSize + i*entrySize
		binary.LittleEndian.PutUint32(buf[off:off+4], e.TimestampMs)
		buf[off+4] = byte(e.Code)
		buf[off+5] = e.P1
		buf[off+6] = e.P2
	}
	return buf
}

// decode restores the ring from a retained snapshot. Returns false if the
// snapshot is absent, truncated, or carries the wrong sentinel.
func (l *Log) decode(raw []byte) bool {
	if len(raw) < snapshotSize {
		return false
	}
	if binary.LittleEndian.Uint32(raw[0:4]) != sentinelMagic {
		return false
	}
	head := int(raw[4])
	count := int(raw[5])
	if head >= Capacity || count > Capacity {
		return false
	}
	l.head = head
	l.count = count
	for i := range l.entries {
		off := headerSize + i*entrySize
		l.entries[i] = Entry{
			TimestampMs: binary.LittleEndian.Uint32(raw[off : off+4]),
			Code:        Code(raw[off+4]),
			P1:          raw[off+5],
			P2:          raw[off+6],
		}
	}
	return true
}
