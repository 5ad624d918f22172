//go:build unix

package netutil

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// controlSocket sets SO_REUSEPORT (so multiple receiver processes can
// bind the same port) and a larger SO_RCVBUF before the socket is bound.
// Both are best-effort: a kernel that rejects an option does not prevent
// the protocol from working, only degrades burst tolerance or process
// sharing.
func controlSocket(_, _ string, c syscall.RawConn) error {
	return c.Control(func(fd uintptr) {
		_ = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_RCVBUF, recvBufferBytes)
		_ = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEPORT, 1)
	})
}
