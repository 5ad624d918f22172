package mlsp

import (
	"bytes"
	"errors"
	"testing"
)

type recordingObserver struct {
	malformed  int
	stale      int
	duplicate  int
	bounds     int
	switches   int
	discarded  []uint8
}

func (r *recordingObserver) MalformedPacket(error)     { r.malformed++ }
func (r *recordingObserver) StalePacket(uint16, uint16) { r.stale++ }
func (r *recordingObserver) DuplicatePacket(uint16, uint8, uint16) { r.duplicate++ }
func (r *recordingObserver) BoundsViolation(uint16, uint8, uint16) { r.bounds++ }
func (r *recordingObserver) FrameSwitch(_, _ uint16, discarded []uint8) {
	r.switches++
	r.discarded = append(r.discarded, discarded...)
}

func mkSubframe(n int, seed int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte((i + seed) & 0xff)
	}
	return b
}

// S1 — single small frame.
func TestScenarioSingleSmallFrame(t *testing.T) {
	sender, sc, receiver, rc := newTestPair(0, 1)

	if err := sender.Send(Frame{FrameNumber: 7, Subframes: [MaxSubframes][]byte{[]byte("HELLO")}}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	rc.deliver(sc.drain()...)

	f, err := receiver.Receive()
	if err != nil {
		t.Fatalf("Receive: %v", err)
	}
	if f.FrameNumber != 7 {
		t.Fatalf("FrameNumber = %d, want 7", f.FrameNumber)
	}
	if !bytes.Equal(f.Subframes[0], []byte("HELLO")) {
		t.Fatalf("Subframes[0] = %q, want HELLO", f.Subframes[0])
	}
}

// S2 — multi-packet subframe.
func TestScenarioMultiPacketSubframe(t *testing.T) {
	sender, sc, receiver, rc := newTestPair(0, 1)
	data := mkSubframe(3500, 0)

	if err := sender.Send(Frame{FrameNumber: 1, Subframes: [MaxSubframes][]byte{data}}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	pkts := sc.drain()
	if len(pkts) != 3 {
		t.Fatalf("got %d packets, want 3", len(pkts))
	}
	rc.deliver(pkts...)

	f, err := receiver.Receive()
	if err != nil {
		t.Fatalf("Receive: %v", err)
	}
	if len(f.Subframes[0]) != 3500 || !bytes.Equal(f.Subframes[0], data) {
		t.Fatalf("subframe mismatch: len=%d", len(f.Subframes[0]))
	}
}

// S3 — intra-frame reorder.
func TestScenarioReorder(t *testing.T) {
	sender, sc, receiver, rc := newTestPair(0, 1)
	data := mkSubframe(3500, 0)

	if err := sender.Send(Frame{FrameNumber: 1, Subframes: [MaxSubframes][]byte{data}}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	pkts := sc.drain()
	if len(pkts) != 3 {
		t.Fatalf("got %d packets, want 3", len(pkts))
	}
	rc.deliver(pkts[2], pkts[0], pkts[1])

	f, err := receiver.Receive()
	if err != nil {
		t.Fatalf("Receive: %v", err)
	}
	if !bytes.Equal(f.Subframes[0], data) {
		t.Fatalf("reordered reassembly mismatch")
	}
}

// S4 — duplicate suppression.
func TestScenarioDuplicateSuppression(t *testing.T) {
	sender, sc, receiver, rc := newTestPair(0, 1)
	data := mkSubframe(2000, 1) // 2 packets

	if err := sender.Send(Frame{FrameNumber: 3, Subframes: [MaxSubframes][]byte{data}}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	pkts := sc.drain()
	if len(pkts) != 2 {
		t.Fatalf("got %d packets, want 2", len(pkts))
	}
	obs := &recordingObserver{}
	receiver.opts.observer = obs
	// packet 0 repeated before the frame completes on packet 1.
	rc.deliver(pkts[0], pkts[0], pkts[1])

	f, err := receiver.Receive()
	if err != nil {
		t.Fatalf("Receive: %v", err)
	}
	if !bytes.Equal(f.Subframes[0], data) {
		t.Fatalf("mismatch after duplicate")
	}
	if obs.duplicate != 1 {
		t.Fatalf("duplicate = %d, want 1", obs.duplicate)
	}
}

// S5 — frame switch discard.
func TestScenarioFrameSwitchDiscard(t *testing.T) {
	sender, sc, receiver, rc := newTestPair(0, 1)

	data10 := mkSubframe(2000, 2) // 2 packets, only packet 0 delivered
	if err := sender.Send(Frame{FrameNumber: 10, Subframes: [MaxSubframes][]byte{data10}}); err != nil {
		t.Fatalf("Send frame 10: %v", err)
	}
	pkts10 := sc.drain()
	if len(pkts10) != 2 {
		t.Fatalf("got %d packets for frame 10, want 2", len(pkts10))
	}

	data11 := []byte("ELEVEN")
	if err := sender.Send(Frame{FrameNumber: 11, Subframes: [MaxSubframes][]byte{data11}}); err != nil {
		t.Fatalf("Send frame 11: %v", err)
	}
	pkts11 := sc.drain()

	obs := &recordingObserver{}
	receiver.opts.observer = obs
	rc.deliver(pkts10[0]) // only packet 0 of frame 10
	rc.deliver(pkts11...)

	f, err := receiver.Receive()
	if err != nil {
		t.Fatalf("Receive: %v", err)
	}
	if f.FrameNumber != 11 {
		t.Fatalf("FrameNumber = %d, want 11", f.FrameNumber)
	}
	if !bytes.Equal(f.Subframes[0], data11) {
		t.Fatalf("frame 11 payload mismatch")
	}
	if obs.switches != 1 {
		t.Fatalf("switches = %d, want 1", obs.switches)
	}
}

// S6 — stale packet drop.
func TestScenarioStalePacketDrop(t *testing.T) {
	sender, sc, receiver, rc := newTestPair(0, 1)

	if err := sender.Send(Frame{FrameNumber: 5, Subframes: [MaxSubframes][]byte{[]byte("five")}}); err != nil {
		t.Fatalf("Send 5: %v", err)
	}
	pkts5 := sc.drain()
	rc.deliver(pkts5...)
	if _, err := receiver.Receive(); err != nil {
		t.Fatalf("Receive 5: %v", err)
	}

	// Late packet belonging to frame 4 arrives after 5 was emitted.
	if err := sender.Send(Frame{FrameNumber: 4, Subframes: [MaxSubframes][]byte{[]byte("late")}}); err != nil {
		t.Fatalf("Send 4: %v", err)
	}
	latePkts := sc.drain()

	if err := sender.Send(Frame{FrameNumber: 6, Subframes: [MaxSubframes][]byte{[]byte("six")}}); err != nil {
		t.Fatalf("Send 6: %v", err)
	}
	pkts6 := sc.drain()

	obs := &recordingObserver{}
	receiver.opts.observer = obs
	rc.deliver(latePkts...)
	rc.deliver(pkts6...)

	f, err := receiver.Receive()
	if err != nil {
		t.Fatalf("Receive 6: %v", err)
	}
	if f.FrameNumber != 6 {
		t.Fatalf("FrameNumber = %d, want 6", f.FrameNumber)
	}
	if obs.stale != 1 {
		t.Fatalf("stale = %d, want 1", obs.stale)
	}
}

// S7 — multi-subframe.
func TestScenarioMultiSubframe(t *testing.T) {
	sender, sc, receiver, rc := newTestPair(0, 3)

	s0 := mkSubframe(100, 0)
	s1 := mkSubframe(2000, 1)
	s2 := mkSubframe(50, 2)

	if err := sender.Send(Frame{FrameNumber: 20, Subframes: [MaxSubframes][]byte{s0, s1, s2}}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	pkts := sc.drain()
	// interleave: reverse order across the whole set to mix subframes
	for i, j := 0, len(pkts)-1; i < j; i, j = i+1, j-1 {
		pkts[i], pkts[j] = pkts[j], pkts[i]
	}
	rc.deliver(pkts...)

	f, err := receiver.Receive()
	if err != nil {
		t.Fatalf("Receive: %v", err)
	}
	if !bytes.Equal(f.Subframes[0], s0) || !bytes.Equal(f.Subframes[1], s1) || !bytes.Equal(f.Subframes[2], s2) {
		t.Fatalf("multi-subframe mismatch")
	}
}

// S8 — timeout then reset.
func TestScenarioTimeoutThenReset(t *testing.T) {
	sender, sc, receiver, rc := newTestPair(20, 1)
	_ = rc

	_, err := receiver.Receive()
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("err = %v, want ErrTimeout", err)
	}

	if err := receiver.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}

	if err := sender.Send(Frame{FrameNumber: 0, Subframes: [MaxSubframes][]byte{[]byte("fresh")}}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	rc.deliver(sc.drain()...)

	f, err := receiver.Receive()
	if err != nil {
		t.Fatalf("Receive after reset: %v", err)
	}
	if f.FrameNumber != 0 || !bytes.Equal(f.Subframes[0], []byte("fresh")) {
		t.Fatalf("got %+v", f)
	}
}

// Boundary: subframe of size 0 fragments into exactly one zero-length packet.
func TestBoundaryZeroLengthSubframe(t *testing.T) {
	sender, sc, receiver, rc := newTestPair(0, 1)

	if err := sender.Send(Frame{FrameNumber: 1, Subframes: [MaxSubframes][]byte{{}}}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	pkts := sc.drain()
	if len(pkts) != 1 {
		t.Fatalf("got %d packets, want 1", len(pkts))
	}
	rc.deliver(pkts...)

	f, err := receiver.Receive()
	if err != nil {
		t.Fatalf("Receive: %v", err)
	}
	if len(f.Subframes[0]) != 0 {
		t.Fatalf("len = %d, want 0", len(f.Subframes[0]))
	}
}

// Invariant: a datagram shorter than the header is silently dropped.
func TestInvariantShortDatagramDropped(t *testing.T) {
	sender, sc, receiver, rc := newTestPair(0, 1)

	rc.deliver(make([]byte, 4)) // too short

	if err := sender.Send(Frame{FrameNumber: 9, Subframes: [MaxSubframes][]byte{[]byte("ok")}}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	rc.deliver(sc.drain()...)

	obs := &recordingObserver{}
	receiver.opts.observer = obs

	f, err := receiver.Receive()
	if err != nil {
		t.Fatalf("Receive: %v", err)
	}
	if f.FrameNumber != 9 {
		t.Fatalf("FrameNumber = %d, want 9", f.FrameNumber)
	}
	if obs.malformed != 1 {
		t.Fatalf("malformed = %d, want 1", obs.malformed)
	}
}

func TestNumSubframesOnlyCountsConfigured(t *testing.T) {
	f := Frame{Subframes: [MaxSubframes][]byte{[]byte("a"), nil, nil}}
	if f.NumSubframes() != 1 {
		t.Fatalf("NumSubframes = %d, want 1", f.NumSubframes())
	}
}

func TestSendWrongRole(t *testing.T) {
	_, _, receiver, _ := newTestPair(0, 1)
	if err := receiver.Send(Frame{}); !errors.Is(err, ErrWrongRole) {
		t.Fatalf("err = %v, want ErrWrongRole", err)
	}
}

func TestReceiveWrongRole(t *testing.T) {
	sender, _, _, _ := newTestPair(0, 1)
	if _, err := sender.Receive(); !errors.Is(err, ErrWrongRole) {
		t.Fatalf("err = %v, want ErrWrongRole", err)
	}
}

func TestResetIdempotentAcrossCalls(t *testing.T) {
	_, _, receiver, _ := newTestPair(0, 1)
	if err := receiver.Reset(); err != nil {
		t.Fatalf("Reset 1: %v", err)
	}
	if err := receiver.Reset(); err != nil {
		t.Fatalf("Reset 2: %v", err)
	}
}
