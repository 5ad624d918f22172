// Package netutil applies low-latency socket tuning to the UDP
// connections an Endpoint owns: DSCP marking for expedited forwarding,
// and receiver bind options (SO_REUSEPORT, a larger receive buffer) so
// several receiver processes can share a port and the kernel is less
// likely to drop bursts before the application reads them.
package netutil

import (
	"net"

	"golang.org/x/net/ipv4"
)

// dscpExpeditedForwarding is the DSCP codepoint (EF, RFC 3246) shifted
// into the high 6 bits of the IPv4 TOS byte.
const dscpExpeditedForwarding = 0x2e << 2

// recvBufferBytes is the requested SO_RCVBUF size on a receiver socket,
// generous enough to absorb a short burst of MTU-sized packets between
// reads.
const recvBufferBytes = 4 * 1024 * 1024

// ConfigureLowLatency marks outgoing packets on conn with the expedited
// forwarding DSCP codepoint. Failures are best-effort: a kernel or
// platform that rejects the option does not prevent the protocol from
// working, only its QoS treatment in transit.
func ConfigureLowLatency(conn *net.UDPConn) {
	pc := ipv4.NewConn(conn)
	_ = pc.SetTOS(dscpExpeditedForwarding)
}

// ListenConfig returns a net.ListenConfig whose Control hook applies
// platform socket options (see socket_unix.go / socket_other.go) before
// the receiver socket is bound.
func ListenConfig() net.ListenConfig {
	return net.ListenConfig{Control: controlSocket}
}
