package mlsp

import (
	"io"
	"net"
	"time"
)

// fakeSendConn and fakeRecvConn are in-memory stand-ins for *net.UDPConn,
// used to drive the endpoint's state machine deterministically without a
// real socket — the same role hayabusa-cloud-framer/examples/pipe_test.go
// plays for framer's io.Pipe-backed tests.

type fakeSendConn struct {
	out    chan []byte
	closed bool
}

func newFakeSendConn() *fakeSendConn {
	return &fakeSendConn{out: make(chan []byte, 256)}
}

func (f *fakeSendConn) Write(b []byte) (int, error) {
	if f.closed {
		return 0, io.ErrClosedPipe
	}
	cp := make([]byte, len(b))
	copy(cp, b)
	f.out <- cp
	return len(b), nil
}

func (f *fakeSendConn) Close() error {
	if !f.closed {
		f.closed = true
		close(f.out)
	}
	return nil
}

// drain collects every datagram currently queued in out without blocking.
func (f *fakeSendConn) drain() [][]byte {
	var pkts [][]byte
	for {
		select {
		case b := <-f.out:
			pkts = append(pkts, b)
		default:
			return pkts
		}
	}
}

type fakeAddr struct{}

func (fakeAddr) Network() string { return "udp" }
func (fakeAddr) String() string  { return "fake:0" }

type fakeTimeoutError struct{}

func (fakeTimeoutError) Error() string   { return "fake: i/o timeout" }
func (fakeTimeoutError) Timeout() bool   { return true }
func (fakeTimeoutError) Temporary() bool { return true }

var _ net.Error = fakeTimeoutError{}

type fakeRecvConn struct {
	inbox    chan []byte
	deadline time.Time
	closed   bool
}

func newFakeRecvConn() *fakeRecvConn {
	return &fakeRecvConn{inbox: make(chan []byte, 256)}
}

// deliver enqueues datagrams to be read, in the given order.
func (f *fakeRecvConn) deliver(pkts ...[]byte) {
	for _, p := range pkts {
		f.inbox <- p
	}
}

func (f *fakeRecvConn) ReadFrom(p []byte) (int, net.Addr, error) {
	if f.closed {
		return 0, nil, io.EOF
	}
	var after <-chan time.Time
	if !f.deadline.IsZero() {
		d := time.Until(f.deadline)
		if d <= 0 {
			return 0, nil, fakeTimeoutError{}
		}
		after = time.After(d)
	}
	select {
	case b, ok := <-f.inbox:
		if !ok {
			return 0, nil, io.EOF
		}
		n := copy(p, b)
		return n, fakeAddr{}, nil
	case <-after:
		return 0, nil, fakeTimeoutError{}
	}
}

func (f *fakeRecvConn) SetReadDeadline(t time.Time) error {
	f.deadline = t
	return nil
}

func (f *fakeRecvConn) Close() error {
	if !f.closed {
		f.closed = true
		close(f.inbox)
	}
	return nil
}

// newTestPair builds a sender and a receiver Endpoint wired to the same
// in-memory fake "wire", bypassing real sockets.
func newTestPair(timeoutMs, subframes int) (*Endpoint, *fakeSendConn, *Endpoint, *fakeRecvConn) {
	sc := newFakeSendConn()
	sender := &Endpoint{role: roleSender, opts: defaultEndpointOptions(), sconn: sc}

	rc := newFakeRecvConn()
	if subframes == 0 {
		subframes = 1
	}
	receiver := &Endpoint{role: roleReceiver, opts: defaultEndpointOptions(), rconn: rc, subframes: subframes}
	if timeoutMs > 0 {
		receiver.timeout = time.Duration(timeoutMs) * time.Millisecond
	}
	return sender, sc, receiver, rc
}
