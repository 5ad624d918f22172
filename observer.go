package mlsp

// Observer receives structured events for transient per-packet faults and
// other non-functional occurrences. None of these alter control flow or
// are surfaced as errors from Receive; they exist purely so a caller can
// log or count them (spec.md §9, "Logging side channel").
//
// Methods must not block or retain the byte slices passed to them; they
// are called synchronously from within Receive on the caller's
// goroutine.
type Observer interface {
	// MalformedPacket is called when a received datagram fails header
	// validation (too short, bad subframe/packet index, oversized
	// payload) and is dropped.
	MalformedPacket(reason error)

	// StalePacket is called when a received packet's frame number is
	// behind the frame currently under assembly.
	StalePacket(frameNumber, assembling uint16)

	// DuplicatePacket is called when a packet's index was already
	// deposited for the current (frame, subframe).
	DuplicatePacket(frameNumber uint16, subframe uint8, packet uint16)

	// BoundsViolation is called when a packet disagrees with the
	// reserved capacity of its subframe slot.
	BoundsViolation(frameNumber uint16, subframe uint8, packet uint16)

	// FrameSwitch is called when assembly advances to a new, greater
	// frame number, except when the previous frame number was 0 and no
	// progress was discarded (the first frame after construction or
	// Reset). subframesDiscarded lists the subframe indices that had
	// partial, unfinished progress at the time of the switch; it is
	// empty when the previous frame had none.
	FrameSwitch(previous, next uint16, subframesDiscarded []uint8)
}

// NopObserver discards every event. It is the default Observer.
type NopObserver struct{}

func (NopObserver) MalformedPacket(error)                 {}
func (NopObserver) StalePacket(uint16, uint16)             {}
func (NopObserver) DuplicatePacket(uint16, uint8, uint16) {}
func (NopObserver) BoundsViolation(uint16, uint8, uint16) {}
func (NopObserver) FrameSwitch(uint16, uint16, []uint8)   {}

// Option configures an Endpoint at construction time.
type Option func(*endpointOptions)

type endpointOptions struct {
	observer Observer
}

func defaultEndpointOptions() endpointOptions {
	return endpointOptions{observer: NopObserver{}}
}

// WithObserver installs an Observer to receive structured diagnostic
// events. The default is NopObserver.
func WithObserver(o Observer) Option {
	return func(eo *endpointOptions) {
		if o != nil {
			eo.observer = o
		}
	}
}
