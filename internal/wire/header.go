// Package wire implements the 8-byte packet header codec and the
// fragmentation arithmetic shared by the sender and receiver.
package wire

import (
	"encoding/binary"
	"errors"

	"mlsp/internal/byteorder"
)

const (
	// HeaderLen is the fixed size, in bytes, of a packet header.
	HeaderLen = 8

	// MaxSubframes is the largest number of subframes a logical frame
	// may carry.
	MaxSubframes = 3

	// MaxPayload is the largest payload, in bytes, a single packet may
	// carry. Chosen to stay inside a typical IPv4 MTU without IP
	// fragmentation.
	MaxPayload = 1400

	// Padding is extra, unspecified byte count appended to every
	// reassembly buffer so a downstream decoder may overread by a
	// bounded amount without copying.
	Padding = 32
)

// ErrMalformedPacket is returned by Decode when a datagram does not carry
// a well-formed header, or when the header disagrees with the datagram's
// actual length.
var ErrMalformedPacket = errors.New("wire: malformed packet")

// Header is the decoded 8-byte packet header.
type Header struct {
	FrameNumber uint16
	Subframes   uint8
	Subframe    uint8
	Packets     uint16
	Packet      uint16
}

// ByteOrder is the order packet headers are encoded/decoded in: the
// sender's native order. No network-byte-order swap is performed.
var ByteOrder binary.ByteOrder = byteorder.Native()

// Encode writes h's header into dst[:HeaderLen]. dst must be at least
// HeaderLen bytes long.
func Encode(dst []byte, h Header) {
	_ = dst[HeaderLen-1] // bounds check hint
	ByteOrder.PutUint16(dst[0:2], h.FrameNumber)
	dst[2] = h.Subframes
	dst[3] = h.Subframe
	ByteOrder.PutUint16(dst[4:6], h.Packets)
	ByteOrder.PutUint16(dst[6:8], h.Packet)
}

// Decode parses the header from a received datagram and validates it
// against the datagram's total length. It never allocates.
//
// Decoding fails with ErrMalformedPacket when: the datagram is shorter
// than HeaderLen; the header's subframes count exceeds MaxSubframes;
// subframe >= subframes; packet >= packets; or the implied payload
// length exceeds MaxPayload.
func Decode(datagram []byte) (h Header, payload []byte, err error) {
	if len(datagram) < HeaderLen {
		return Header{}, nil, ErrMalformedPacket
	}
	h = Header{
		FrameNumber: ByteOrder.Uint16(datagram[0:2]),
		Subframes:   datagram[2],
		Subframe:    datagram[3],
		Packets:     ByteOrder.Uint16(datagram[4:6]),
		Packet:      ByteOrder.Uint16(datagram[6:8]),
	}
	if h.Subframes == 0 || h.Subframes > MaxSubframes {
		return Header{}, nil, ErrMalformedPacket
	}
	if h.Subframe >= h.Subframes {
		return Header{}, nil, ErrMalformedPacket
	}
	if h.Packets == 0 || h.Packet >= h.Packets {
		return Header{}, nil, ErrMalformedPacket
	}
	payloadLen := len(datagram) - HeaderLen
	if payloadLen > MaxPayload {
		return Header{}, nil, ErrMalformedPacket
	}
	return h, datagram[HeaderLen:], nil
}

// PacketsFor returns the number of packets a subframe of size bytes
// fragments into. A zero-length subframe still fragments into exactly
// one (empty) packet, so its existence registers at the receiver.
func PacketsFor(size uint32) uint16 {
	if size == 0 {
		return 1
	}
	n := (uint64(size) + MaxPayload - 1) / MaxPayload
	return uint16(n)
}

// PayloadLen returns the payload length of packet index idx out of
// packets total packets fragmenting a subframe of size bytes. Every
// non-terminal packet carries exactly MaxPayload bytes; the terminal
// packet carries the remainder.
func PayloadLen(size uint32, packets uint16, idx uint16) int {
	if idx < packets-1 {
		return MaxPayload
	}
	return int(size) - int(packets-1)*MaxPayload
}
