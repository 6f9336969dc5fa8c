// internal/canbus/bus.go
package canbus

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"go.einride.tech/can"
	"go.einride.tech/can/pkg/socketcan"

	"github.com/tamzrod/subsea-controller/internal/hal"
)

// transmitTimeout bounds every actuator write. The control and safety
// loops must never block on the bus.
const transmitTimeout = 5 * time.Millisecond

// rcPairWindow is how far apart the two halves of an RC frame may arrive
// and still be assembled into one frame.
const rcPairWindow = 50 * time.Millisecond

// Staleness windows for periodic sensor broadcasts. A sample older than
// its window reads as invalid and the caller falls back to last-known.
const (
	attitudeStale = 250 * time.Millisecond
	depthStale    = 250 * time.Millisecond
	batteryStale  = time.Second
)

// Bus adapts a SocketCAN interface to the hal sensor and actuator
// contracts. A single receive goroutine (Run) keeps the latest frame per
// ID. Periodic broadcasts are read in place with a staleness window; RC
// frames are consumed so each frame is delivered at most once.
type Bus struct {
	conn net.Conn
	tx   *socketcan.Transmitter
	rx   *socketcan.Receiver

	mu     sync.Mutex
	latest map[uint32]sample

	leakLatched bool
}

type sample struct {
	frame can.Frame
	at    time.Time
	fresh bool
}

// Dial opens the named CAN interface ("can0", "vcan0", ...).
func Dial(ctx context.Context, iface string) (*Bus, error) {
	conn, err := socketcan.DialContext(ctx, "can", iface)
	if err != nil {
		return nil, fmt.Errorf("canbus: dial %s: %w", iface, err)
	}
	return &Bus{
		conn:   conn,
		tx:     socketcan.NewTransmitter(conn),
		rx:     socketcan.NewReceiver(conn),
		latest: make(map[uint32]sample),
	}, nil
}

// Run receives frames until the socket closes or the context ends.
// Start exactly one Run goroutine per Bus.
func (b *Bus) Run(ctx context.Context) {
	for b.rx.Receive() {
		if ctx.Err() != nil {
			return
		}
		f := b.rx.Frame()
		b.mu.Lock()
		b.latest[f.ID] = sample{frame: f, at: time.Now(), fresh: true}
		b.mu.Unlock()
	}
}

func (b *Bus) Close() error {
	return b.conn.Close()
}

// take returns the latest frame for id and marks it consumed. Used for
// event-like frames (RC) where each sample must be delivered at most once.
func (b *Bus) take(id uint32) (can.Frame, time.Time, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.latest[id]
	if !ok || !s.fresh {
		return can.Frame{}, time.Time{}, false
	}
	s.fresh = false
	b.latest[id] = s
	return s.frame, s.at, true
}

// peek returns the latest frame for id if it is younger than maxAge. Used
// for level-like periodic broadcasts (depth, attitude, battery) that both
// loops may read.
func (b *Bus) peek(id uint32, maxAge time.Duration) (can.Frame, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.latest[id]
	if !ok || time.Since(s.at) > maxAge {
		return can.Frame{}, false
	}
	return s.frame, true
}

// ---- hal sensor side ----

func (b *Bus) ReadDepthCm() (int32, bool) {
	f, ok := b.peek(IDDepth, depthStale)
	if !ok {
		return 0, false
	}
	depth, err := decodeDepth(f)
	if err != nil {
		return 0, false
	}
	return depth, true
}

func (b *Bus) ReadPitchX10() (int16, bool) {
	f, ok := b.peek(IDAttitude, attitudeStale)
	if !ok {
		return 0, false
	}
	pitch, _, err := decodeAttitude(f)
	if err != nil {
		return 0, false
	}
	return pitch, true
}

// ReadFrame assembles a full RC frame from its two halves. Both must have
// arrived within the pairing window; otherwise the frame is not valid yet.
func (b *Bus) ReadFrame() (hal.RCFrame, bool) {
	lo, loAt, okLo := b.take(IDRCLow)
	hi, hiAt, okHi := b.take(IDRCHigh)
	if !okLo || !okHi {
		return hal.RCFrame{}, false
	}
	gap := loAt.Sub(hiAt)
	if gap < 0 {
		gap = -gap
	}
	if gap > rcPairWindow {
		return hal.RCFrame{}, false
	}

	var rc hal.RCFrame
	if err := decodeRCLow(lo, &rc.Pulses); err != nil {
		return hal.RCFrame{}, false
	}
	if err := decodeRCHigh(hi, &rc.Pulses); err != nil {
		return hal.RCFrame{}, false
	}
	rc.At = hiAt
	if loAt.After(hiAt) {
		rc.At = loAt
	}
	return rc, true
}

func (b *Bus) ReadMillivolts() (uint16, bool) {
	f, ok := b.peek(IDBatteryLeak, batteryStale)
	if !ok {
		return 0, false
	}
	mv, leak, err := decodeBatteryLeak(f)
	if err != nil {
		return 0, false
	}
	if leak {
		b.mu.Lock()
		b.leakLatched = true
		b.mu.Unlock()
	}
	return mv, true
}

// Detected reports whether a leak bit has ever been seen on the bus. The
// latch matches the fault model: a wet sensor is never trusted dry again.
func (b *Bus) Detected() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.leakLatched {
		return true
	}
	s, ok := b.latest[IDBatteryLeak]
	if !ok {
		return false
	}
	_, leak, err := decodeBatteryLeak(s.frame)
	if err != nil {
		return false
	}
	if leak {
		b.leakLatched = true
	}
	return leak
}

// ---- hal actuator side ----

func (b *Bus) SetPump(speed int) {
	b.transmit(encodePump(speed))
}

func (b *Bus) SetValve(open bool) {
	b.transmit(encodeValve(open))
}

func (b *Bus) SetServo(ch hal.ServoChannel, pos int) {
	b.transmit(encodeServo(ch, pos))
}

func (b *Bus) SetStatusLED(on bool) {
	b.transmit(encodeStatusLED(on))
}

// transmit is fire-and-forget with a hard deadline. A dropped actuator
// frame is retransmitted on the next tick anyway; blocking a loop is the
// one thing this must never do.
func (b *Bus) transmit(f can.Frame) {
	ctx, cancel := context.WithTimeout(context.Background(), transmitTimeout)
	defer cancel()
	_ = b.tx.TransmitFrame(ctx, f)
}
