// internal/eventlog/eventlog.go
package eventlog

import (
	"errors"
	"sync"
)

// Code identifies a logged event.
type Code uint8

const (
	CodeNone Code = iota
	CodeBoot
	CodeInitComplete
	CodeSignalLost
	CodeSignalRestored
	CodeLowBattery
	CodeLeakDetected
	CodeDepthExceeded
	CodePitchExceeded
	CodeCoreStall
	CodeEmergency
	CodeAssertFail
	CodeStateChange
)

func (c Code) String() string {
	switch c {
	case CodeNone:
		return "none"
	case CodeBoot:
		return "boot"
	case CodeInitComplete:
		return "init_complete"
	case CodeSignalLost:
		return "signal_lost"
	case CodeSignalRestored:
		return "signal_restored"
	case CodeLowBattery:
		return "low_battery"
	case CodeLeakDetected:
		return "leak_detected"
	case CodeDepthExceeded:
		return "depth_exceeded"
	case CodePitchExceeded:
		return "pitch_exceeded"
	case CodeCoreStall:
		return "core_stall"
	case CodeEmergency:
		return "emergency"
	case CodeAssertFail:
		return "assert_fail"
	case CodeStateChange:
		return "state_change"
	default:
		return "unknown"
	}
}

// Entry is one fixed-size log record. P1 and P2 carry event-specific
// detail, typically the high and low byte of a measurement.
type Entry struct {
	TimestampMs uint32
	Code        Code
	P1          byte
	P2          byte
}

// Capacity is the fixed ring size.
const Capacity = 32

// ErrNotFound is returned by Get when the index addresses past the oldest
// retained entry.
var ErrNotFound = errors.New("eventlog: no entry at index")

// Region is retained memory that survives a warm restart but not a power
// cycle.
type Region interface {
	Load() ([]byte, error)
	Store([]byte) error
}

// Log is a fixed-capacity ring of entries. Append is O(1) and overwrites
// the oldest entry once full; retrieval is newest-first. A Log opened over
// a Region re-encodes itself after every append so a watchdog restart
// finds the entries again.
type Log struct {
	mu      sync.Mutex
	entries [Capacity]Entry
	head    int
	count   int
	region  Region
}

// New returns a volatile log with no retention.
func New() *Log {
	return &Log{}
}

// Open attaches a log to retained memory. The second return value is true
// when the region held a valid snapshot from a previous run (a warm
// restart); on a cold boot the region is initialized empty.
func Open(region Region) (*Log, bool, error) {
	if region == nil {
		return nil, false, errors.New("eventlog: region required")
	}
	l := &Log{region: region}

	raw, err := region.Load()
	if err != nil {
		return nil, false, err
	}
	if l.decode(raw) {
		return l, true, nil
	}

	// Cold boot: write an empty snapshot so the sentinel exists.
	if err := region.Store(l.encode()); err != nil {
		return nil, false, err
	}
	return l, false, nil
}

// Append records one entry, evicting the oldest if the ring is full. It
// never blocks and never fails; retention write errors are dropped, the
// in-memory ring stays authoritative.
func (l *Log) Append(e Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries[l.head] = e
	l.head = (l.head + 1) % Capacity
	if l.count < Capacity {
		l.count++
	}

	if l.region != nil {
		_ = l.region.Store(l.encode())
	}
}

// Get returns the nth most recent entry. Get(0) is the newest.
func (l *Log) Get(nFromNewest int) (Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if nFromNewest < 0 || nFromNewest >= l.count {
		return Entry{}, ErrNotFound
	}
	idx := l.head - 1 - nFromNewest
	for idx < 0 {
		idx += Capacity
	}
	return l.entries[idx], nil
}

// Count reports the number of retained entries, saturating at Capacity.
func (l *Log) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.count
}
