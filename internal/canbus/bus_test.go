// internal/canbus/bus_test.go
package canbus

import (
	"testing"
	"time"

	"go.einride.tech/can"
)

// testBus builds a Bus around an injected frame store, no socket.
func testBus() *Bus {
	return &Bus{latest: make(map[uint32]sample)}
}

func (b *Bus) inject(f can.Frame, at time.Time) {
	b.mu.Lock()
	b.latest[f.ID] = sample{frame: f, at: at, fresh: true}
	b.mu.Unlock()
}

func depthFrame(cm uint32) can.Frame {
	return can.Frame{ID: IDDepth, Length: 4, Data: can.Data{
		byte(cm >> 24), byte(cm >> 16), byte(cm >> 8), byte(cm),
	}}
}

func rcLowFrame() can.Frame {
	return can.Frame{ID: IDRCLow, Length: 8, Data: can.Data{
		0x05, 0xDC, 0x05, 0xDC, 0x05, 0xDC, 0x05, 0xDC,
	}}
}

func rcHighFrame() can.Frame {
	return can.Frame{ID: IDRCHigh, Length: 4, Data: can.Data{
		0x05, 0xDC, 0x05, 0xDC,
	}}
}

func TestBus_PeekIsRepeatable(t *testing.T) {
	b := testBus()
	b.inject(depthFrame(120), time.Now())

	for i := 0; i < 3; i++ {
		depth, ok := b.ReadDepthCm()
		if !ok {
			t.Fatalf("read %d invalid, periodic broadcasts must not be consumed", i)
		}
		if depth != 120 {
			t.Fatalf("depth = %d, want 120", depth)
		}
	}
}

func TestBus_StaleBroadcastReadsInvalid(t *testing.T) {
	b := testBus()
	b.inject(depthFrame(120), time.Now().Add(-time.Second))

	if _, ok := b.ReadDepthCm(); ok {
		t.Error("second-old depth sample read as valid")
	}
}

func TestBus_RCFrameDeliveredOnce(t *testing.T) {
	b := testBus()
	now := time.Now()
	b.inject(rcLowFrame(), now)
	b.inject(rcHighFrame(), now)

	if _, ok := b.ReadFrame(); !ok {
		t.Fatal("paired halves did not assemble")
	}
	if _, ok := b.ReadFrame(); ok {
		t.Error("same RC frame delivered twice")
	}
}

func TestBus_RCHalvesOutsidePairWindowRejected(t *testing.T) {
	b := testBus()
	now := time.Now()
	b.inject(rcLowFrame(), now.Add(-100*time.Millisecond))
	b.inject(rcHighFrame(), now)

	if _, ok := b.ReadFrame(); ok {
		t.Error("halves 100ms apart assembled into a frame")
	}
}

func TestBus_RCMissingHalfIsInvalid(t *testing.T) {
	b := testBus()
	b.inject(rcLowFrame(), time.Now())

	if _, ok := b.ReadFrame(); ok {
		t.Error("frame assembled from the low half alone")
	}
}

func TestBus_LeakLatches(t *testing.T) {
	b := testBus()
	now := time.Now()

	wet := can.Frame{ID: IDBatteryLeak, Length: 3, Data: can.Data{0x1C, 0x20, 0x01}}
	b.inject(wet, now)
	if !b.Detected() {
		t.Fatal("leak bit not detected")
	}

	// The sensor drying out does not clear the latch.
	dry := can.Frame{ID: IDBatteryLeak, Length: 3, Data: can.Data{0x1C, 0x20, 0x00}}
	b.inject(dry, now)
	if !b.Detected() {
		t.Error("leak latch cleared by a dry frame")
	}
}

func TestBus_BatteryReadAlsoLatchesLeak(t *testing.T) {
	b := testBus()
	wet := can.Frame{ID: IDBatteryLeak, Length: 3, Data: can.Data{0x19, 0x00, 0x01}}
	b.inject(wet, time.Now())

	mv, ok := b.ReadMillivolts()
	if !ok || mv != 6400 {
		t.Fatalf("mv = %d ok=%v, want 6400", mv, ok)
	}

	b.inject(can.Frame{ID: IDBatteryLeak, Length: 3, Data: can.Data{0x19, 0x00, 0x00}}, time.Now())
	if !b.Detected() {
		t.Error("leak seen during a battery read did not latch")
	}
}
