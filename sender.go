package mlsp

import (
	"mlsp/internal/metrics"
	"mlsp/internal/wire"
)

// Send fragments frame and transmits it: for each subframe in order, the
// fragmented datagram sequence of that subframe carrying the shared
// frame number. It returns success only if every underlying write for
// every packet succeeds; a write failure is fatal to the call and
// returns immediately; packets already sent are not rolled back (the
// receiver silently discards the incomplete frame once a later frame
// begins).
//
// Send copies each subframe's payload bytes into a single reused scratch
// datagram buffer once per packet; it never requires the caller to
// preassemble subframes into one contiguous buffer.
func (e *Endpoint) Send(f Frame) error {
	if e.closed {
		return ErrClosed
	}
	if e.role != roleSender {
		return ErrWrongRole
	}

	// The subframe count runs up to the last populated index; a nil
	// entry before it is sent as an empty subframe.
	numSubframes := 0
	for i, s := range f.Subframes {
		if s != nil {
			numSubframes = i + 1
		}
	}
	if numSubframes == 0 {
		numSubframes = 1
	}
	if numSubframes > MaxSubframes {
		return ErrTooManySubframes
	}

	for i := 0; i < numSubframes; i++ {
		data := f.Subframes[i]
		size := uint32(len(data))
		packets := wire.PacketsFor(size)

		for p := uint16(0); p < packets; p++ {
			n := wire.PayloadLen(size, packets, p)
			off := int(p) * wire.MaxPayload

			wire.Encode(e.sbuf[:wire.HeaderLen], wire.Header{
				FrameNumber: f.FrameNumber,
				Subframes:   uint8(numSubframes),
				Subframe:    uint8(i),
				Packets:     packets,
				Packet:      p,
			})
			copy(e.sbuf[wire.HeaderLen:], data[off:off+n])

			if err := e.writeAll(e.sbuf[:wire.HeaderLen+n]); err != nil {
				return err
			}
			metrics.BytesSent.Add(float64(n))
		}
	}
	return nil
}

// writeAll loops write calls until the whole datagram is drained,
// tolerating (in theory unnecessary, but spec-mandated) partial UDP
// writes.
func (e *Endpoint) writeAll(b []byte) error {
	for len(b) > 0 {
		n, err := e.sconn.Write(b)
		if err != nil {
			return err
		}
		b = b[n:]
	}
	return nil
}
