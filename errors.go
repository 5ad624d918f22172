package mlsp

import "errors"

var (
	// ErrTimeout is returned by Receive when no datagram arrived within
	// the configured receive timeout. It is not a failure: spec.md §7
	// treats it as the normal signal that the remote is quiet, and the
	// expected response is to call Reset.
	ErrTimeout = errors.New("mlsp: receive timeout")

	// ErrMissingAddress is returned by NewSender when no remote address
	// is configured.
	ErrMissingAddress = errors.New("mlsp: sender requires a remote address")

	// ErrTooManySubframes is returned by NewReceiver when Config.Subframes
	// exceeds MaxSubframes.
	ErrTooManySubframes = errors.New("mlsp: subframes exceeds MaxSubframes")

	// ErrWrongRole is returned when Send is called on a receiver
	// endpoint, or Receive/Reset on a sender endpoint.
	ErrWrongRole = errors.New("mlsp: operation not valid for this endpoint's role")

	// ErrClosed is returned by Send/Receive after the endpoint has been
	// closed.
	ErrClosed = errors.New("mlsp: endpoint closed")
)
