package mlsp

import "mlsp/internal/metrics"

// MetricsObserver adapts Observer events onto the package-level
// Prometheus counters in internal/metrics. It wraps another Observer
// (commonly a logging Observer) and forwards every event to it after
// recording.
type MetricsObserver struct {
	Next Observer
}

func (m MetricsObserver) next() Observer {
	if m.Next != nil {
		return m.Next
	}
	return NopObserver{}
}

func (m MetricsObserver) MalformedPacket(reason error) {
	metrics.PacketsDropped.WithLabelValues(metrics.ReasonMalformed).Inc()
	m.next().MalformedPacket(reason)
}

func (m MetricsObserver) StalePacket(frameNumber, assembling uint16) {
	metrics.PacketsDropped.WithLabelValues(metrics.ReasonStale).Inc()
	m.next().StalePacket(frameNumber, assembling)
}

func (m MetricsObserver) DuplicatePacket(frameNumber uint16, subframe uint8, packet uint16) {
	metrics.PacketsDropped.WithLabelValues(metrics.ReasonDuplicate).Inc()
	m.next().DuplicatePacket(frameNumber, subframe, packet)
}

func (m MetricsObserver) BoundsViolation(frameNumber uint16, subframe uint8, packet uint16) {
	metrics.PacketsDropped.WithLabelValues(metrics.ReasonBounds).Inc()
	m.next().BoundsViolation(frameNumber, subframe, packet)
}

func (m MetricsObserver) FrameSwitch(previous, next uint16, subframesDiscarded []uint8) {
	metrics.FrameSwitches.Inc()
	if len(subframesDiscarded) > 0 {
		metrics.FramesDiscardedIncomplete.Inc()
	}
	m.next().FrameSwitch(previous, next, subframesDiscarded)
}
