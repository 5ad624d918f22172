package mlsp

import (
	"context"
	"net"
	"strconv"
	"time"

	"mlsp/internal/netutil"
	"mlsp/internal/reassembly"
	"mlsp/internal/wire"
)

// role selects an Endpoint's behavior at construction; it is never
// changed afterwards.
type role uint8

const (
	roleSender role = iota
	roleReceiver
)

// sendConn is the subset of *net.UDPConn a sender needs. It exists so
// tests can substitute an in-memory fake (see fake_conn_test.go).
type sendConn interface {
	Write(b []byte) (int, error)
	Close() error
}

// recvConn is the subset of *net.UDPConn a receiver needs.
type recvConn interface {
	ReadFrom(p []byte) (n int, addr net.Addr, err error)
	SetReadDeadline(t time.Time) error
	Close() error
}

// Endpoint is a symmetric protocol participant: a sender fragments and
// transmits logical frames, a receiver reassembles them. The role is
// fixed at construction. An Endpoint is not safe for concurrent use; all
// operations are synchronous and run on the caller's goroutine (spec.md
// §5).
type Endpoint struct {
	role role
	opts endpointOptions

	// sender state
	sconn sendConn
	sbuf  [wire.HeaderLen + wire.MaxPayload]byte

	// receiver state
	rconn     recvConn
	rbuf      [wire.HeaderLen + wire.MaxPayload]byte
	timeout   time.Duration
	state     reassembly.State
	subframes int // expected subframe count, from Config

	closed bool
}

// NewSender constructs a sender Endpoint. cfg.IP and cfg.Port identify
// the remote address; a missing address is a configuration error.
func NewSender(cfg Config, opts ...Option) (*Endpoint, error) {
	if cfg.IP == "" {
		return nil, ErrMissingAddress
	}
	o := defaultEndpointOptions()
	for _, fn := range opts {
		fn(&o)
	}

	addr, err := net.ResolveUDPAddr("udp4", net.JoinHostPort(cfg.IP, strconv.Itoa(cfg.Port)))
	if err != nil {
		return nil, err
	}
	conn, err := net.DialUDP("udp4", nil, addr)
	if err != nil {
		return nil, err
	}
	netutil.ConfigureLowLatency(conn)

	return &Endpoint{role: roleSender, opts: o, sconn: conn}, nil
}

// NewReceiver constructs a receiver Endpoint. cfg.IP is the local bind
// address (empty binds to any local address). If cfg.TimeoutMs > 0, a
// receive timeout is installed that surfaces as ErrTimeout from Receive.
func NewReceiver(cfg Config, opts ...Option) (*Endpoint, error) {
	subframes := cfg.Subframes
	if subframes == 0 {
		subframes = 1
	}
	if subframes > MaxSubframes {
		return nil, ErrTooManySubframes
	}
	o := defaultEndpointOptions()
	for _, fn := range opts {
		fn(&o)
	}

	lc := netutil.ListenConfig()
	pc, err := lc.ListenPacket(context.Background(), "udp4", net.JoinHostPort(cfg.IP, strconv.Itoa(cfg.Port)))
	if err != nil {
		return nil, err
	}
	conn, ok := pc.(*net.UDPConn)
	if !ok {
		pc.Close()
		return nil, ErrWrongRole
	}
	netutil.ConfigureLowLatency(conn)

	e := &Endpoint{role: roleReceiver, opts: o, rconn: conn, subframes: subframes}
	if cfg.TimeoutMs > 0 {
		e.timeout = time.Duration(cfg.TimeoutMs) * time.Millisecond
	}
	return e, nil
}

// Close releases the endpoint's socket. Further Send/Receive calls
// return ErrClosed.
func (e *Endpoint) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	switch e.role {
	case roleSender:
		return e.sconn.Close()
	default:
		return e.rconn.Close()
	}
}

// Reset returns a receiver to its pre-first-packet state: any
// in-progress frame assembly is discarded (buffers retained), so the
// next packet is accepted as the start of a new stream regardless of its
// frame number. It returns ErrWrongRole on a sender. Reset is idempotent.
func (e *Endpoint) Reset() error {
	if e.role != roleReceiver {
		return ErrWrongRole
	}
	e.state.Reset()
	return nil
}
