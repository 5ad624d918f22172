package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"mlsp"
	"mlsp/internal/metrics"
)

// slogObserver forwards mlsp.Observer events to a structured logger. It
// is wrapped in mlsp.MetricsObserver so every event is also counted.
type slogObserver struct {
	log *slog.Logger
}

func (o slogObserver) MalformedPacket(reason error) {
	o.log.Warn("malformed packet", "reason", reason)
}

func (o slogObserver) StalePacket(frameNumber, assembling uint16) {
	o.log.Debug("stale packet dropped", "frame_number", frameNumber, "assembling", assembling)
}

func (o slogObserver) DuplicatePacket(frameNumber uint16, subframe uint8, packet uint16) {
	o.log.Debug("duplicate packet dropped", "frame_number", frameNumber, "subframe", subframe, "packet", packet)
}

func (o slogObserver) BoundsViolation(frameNumber uint16, subframe uint8, packet uint16) {
	o.log.Warn("bounds violation", "frame_number", frameNumber, "subframe", subframe, "packet", packet)
}

func (o slogObserver) FrameSwitch(previous, next uint16, subframesDiscarded []uint8) {
	if len(subframesDiscarded) > 0 {
		o.log.Info("frame switch with incomplete progress", "previous", previous, "next", next, "discarded_subframes", subframesDiscarded)
	}
}

func main() {
	bindAddr := flag.String("addr", "", "local bind address (empty binds to any)")
	port := flag.Int("port", 5000, "UDP port to listen on")
	timeoutMs := flag.Int("timeout-ms", 2000, "receive timeout in milliseconds before the stream is considered idle")
	subframes := flag.Int("subframes", 2, "expected subframe count per frame (2 to match cmd/sender's image+metadata frames)")
	outDir := flag.String("out", "", "directory to write received subframe 0 as JPEG files (disabled if empty)")
	metricsAddr := flag.String("metrics-addr", "", "address to serve Prometheus metrics on, e.g. :9090 (disabled if empty)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if *outDir != "" {
		if err := os.MkdirAll(*outDir, 0o755); err != nil {
			logger.Error("create output directory", "error", err)
			os.Exit(1)
		}
	}

	if *metricsAddr != "" {
		srv := metrics.StartHTTP(*metricsAddr)
		defer metrics.Shutdown(context.Background(), srv)
	}

	receiver, err := mlsp.NewReceiver(
		mlsp.Config{IP: *bindAddr, Port: *port, TimeoutMs: *timeoutMs, Subframes: *subframes},
		mlsp.WithObserver(mlsp.MetricsObserver{Next: slogObserver{log: logger}}),
	)
	if err != nil {
		logger.Error("new receiver", "error", err)
		os.Exit(1)
	}
	defer receiver.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	received := 0
	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down", "frames_received", received)
			return
		default:
		}

		f, err := receiver.Receive()
		if err != nil {
			if errors.Is(err, mlsp.ErrTimeout) {
				logger.Debug("idle, resetting assembly state")
				receiver.Reset()
				continue
			}
			logger.Error("receive", "error", err)
			return
		}

		received++
		logger.Info("frame received", "frame_number", f.FrameNumber, "subframes", f.NumSubframes())

		if *outDir != "" && len(f.Subframes[0]) > 0 {
			path := filepath.Join(*outDir, fmt.Sprintf("frame-%05d.jpg", f.FrameNumber))
			if err := os.WriteFile(path, f.Subframes[0], 0o644); err != nil {
				logger.Warn("write frame", "path", path, "error", err)
			}
		}
	}
}
