package mlsp

// Config configures an Endpoint at construction.
type Config struct {
	// IP is the remote address for a sender (required) or the local
	// bind address for a receiver (optional; empty binds to any local
	// address).
	IP string

	// Port is the UDP port, required for both roles.
	Port int

	// TimeoutMs is the receiver's read timeout in milliseconds. Zero
	// (the default) blocks indefinitely. Ignored by senders.
	TimeoutMs int

	// Subframes is the number of subframes a receiver expects per
	// frame. Zero defaults to 1. Must not exceed MaxSubframes. Ignored
	// by senders, which take their subframe count from each Frame
	// passed to Send.
	Subframes int
}
