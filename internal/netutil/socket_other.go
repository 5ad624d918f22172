//go:build !unix

package netutil

import "syscall"

// controlSocket is a no-op on platforms without SO_REUSEPORT
// (golang.org/x/sys/unix is unix-only); the socket binds with default
// options.
func controlSocket(_, _ string, _ syscall.RawConn) error { return nil }
