package mlsp

import (
	"errors"
	"net"
	"os"
	"time"

	"mlsp/internal/metrics"
	"mlsp/internal/wire"
)

// Receive blocks until a complete logical frame has been reassembled, the
// configured receive timeout elapses (ErrTimeout), or a fatal socket
// error occurs. It implements the ordered per-packet accept logic of
// spec.md §4.4: each received datagram is decoded, gated for staleness,
// used to detect a frame switch, deposited into its subframe's
// reassembly buffer, and checked for subframe/frame completion; packets
// rejected at any step are dropped and the loop reads the next datagram
// without returning to the caller.
//
// The returned Frame borrows its Subframes slices from the endpoint's
// internal buffers: they are valid only until the next call to Receive
// or Reset on this endpoint.
func (e *Endpoint) Receive() (Frame, error) {
	if e.closed {
		return Frame{}, ErrClosed
	}
	if e.role != roleReceiver {
		return Frame{}, ErrWrongRole
	}

	for {
		if e.timeout > 0 {
			if err := e.rconn.SetReadDeadline(time.Now().Add(e.timeout)); err != nil {
				return Frame{}, err
			}
		}
		n, _, err := e.rconn.ReadFrom(e.rbuf[:])
		if err != nil {
			if isTimeout(err) {
				return Frame{}, ErrTimeout
			}
			return Frame{}, err
		}

		h, payload, err := wire.Decode(e.rbuf[:n])
		if err != nil {
			e.opts.observer.MalformedPacket(err)
			continue
		}

		if h.FrameNumber < e.state.FrameNumber {
			e.opts.observer.StalePacket(h.FrameNumber, e.state.FrameNumber)
			continue
		}
		if h.FrameNumber > e.state.FrameNumber {
			prev := e.state.FrameNumber
			var discarded []uint8
			e.state.AdvanceTo(h.FrameNumber, func(idx uint8, collected, total uint16) {
				discarded = append(discarded, idx)
			})
			if prev != 0 || len(discarded) > 0 {
				e.opts.observer.FrameSwitch(prev, h.FrameNumber, discarded)
			}
		}

		sf := &e.state.Subframes[h.Subframe]
		if !sf.Ready(h.Packets) {
			sf.Prepare(h.Packets)
		}

		duplicate := sf.IsDuplicate(h.Packet)
		if !sf.Deposit(h.Packet, payload) {
			if duplicate {
				e.opts.observer.DuplicatePacket(h.FrameNumber, h.Subframe, h.Packet)
			} else {
				e.opts.observer.BoundsViolation(h.FrameNumber, h.Subframe, h.Packet)
			}
			continue
		}

		metrics.BytesReceived.Add(float64(len(payload)))

		if sf.Complete() {
			e.state.MarkSubframeComplete(h.Subframe)
		}

		if uint8(e.state.CompletedCount()) == h.Subframes {
			metrics.FramesCompleted.Inc()
			return e.emit(h.Subframes), nil
		}
	}
}

// emit builds the Frame to return to the caller from the endpoint's
// current reassembly state.
func (e *Endpoint) emit(subframes uint8) Frame {
	f := Frame{FrameNumber: e.state.FrameNumber}
	for i := 0; i < MaxSubframes; i++ {
		if i < int(subframes) {
			f.Subframes[i] = e.state.Subframes[i].Payload()
		} else {
			f.Subframes[i] = nil
		}
	}
	return f
}

func isTimeout(err error) bool {
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	return errors.Is(err, os.ErrDeadlineExceeded)
}
