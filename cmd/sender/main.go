package main

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"mlsp"
	"mlsp/internal/metrics"
	"mlsp/internal/slideshow"
)

// captureMetadata packs the frame sequence number and the wall-clock
// capture time into subframe 1, alongside the JPEG image in subframe 0,
// to demonstrate multi-subframe frames end to end.
func captureMetadata(frameNumber uint16, capturedAt time.Time) []byte {
	b := make([]byte, 10)
	binary.NativeEndian.PutUint16(b[0:2], frameNumber)
	binary.NativeEndian.PutUint64(b[2:10], uint64(capturedAt.UnixNano()))
	return b
}

func main() {
	addr := flag.String("addr", "127.0.0.1", "receiver IP address")
	port := flag.Int("port", 5000, "receiver UDP port")
	slides := flag.String("slides", "", "directory of images to stream as a slideshow (required)")
	slideInterval := flag.Int("slide-interval", 5, "slideshow interval in seconds")
	quality := flag.Int("quality", 80, "JPEG encoding quality (1-100)")
	geometry := flag.String("geometry", "1280x720", "output frame geometry WIDTHxHEIGHT")
	fps := flag.Int("fps", 5, "frames per second to attempt to send")
	metricsAddr := flag.String("metrics-addr", "", "address to serve Prometheus metrics on, e.g. :9090 (disabled if empty)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if *slides == "" {
		logger.Error("missing -slides directory")
		os.Exit(1)
	}

	var gw, gh int
	if _, err := fmt.Sscanf(*geometry, "%dx%d", &gw, &gh); err != nil || gw <= 0 || gh <= 0 {
		gw, gh = 1280, 720
	}

	show, err := slideshow.Open(*slides,
		slideshow.WithGeometry(gw, gh),
		slideshow.WithInterval(time.Duration(*slideInterval)*time.Second),
		slideshow.WithQuality(*quality),
		slideshow.WithTimestampOverlay(true),
	)
	if err != nil {
		logger.Error("open slideshow", "error", err)
		os.Exit(1)
	}

	if *metricsAddr != "" {
		srv := metrics.StartHTTP(*metricsAddr)
		defer metrics.Shutdown(context.Background(), srv)
	}

	sender, err := mlsp.NewSender(mlsp.Config{IP: *addr, Port: *port})
	if err != nil {
		logger.Error("new sender", "error", err)
		os.Exit(1)
	}
	defer sender.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	ticker := time.NewTicker(time.Second / time.Duration(*fps))
	defer ticker.Stop()

	var frameNumber uint16
	var lastHash [32]byte
	sent := 0
	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down", "frames_sent", sent)
			return
		case <-ticker.C:
			img, err := show.Next()
			if err != nil {
				logger.Warn("generate frame", "error", err)
				continue
			}
			h := sha256.Sum256(img)
			if h == lastHash {
				continue
			}
			lastHash = h

			f := mlsp.Frame{FrameNumber: frameNumber}
			f.Subframes[0] = img
			f.Subframes[1] = captureMetadata(frameNumber, time.Now())
			if err := sender.Send(f); err != nil {
				logger.Warn("send frame", "frame_number", frameNumber, "error", err)
				continue
			}
			frameNumber++
			sent++
			if sent%50 == 0 {
				logger.Info("sent frames", "count", sent, "last_size", len(img))
			}
		}
	}
}
