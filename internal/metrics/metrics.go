// Package metrics exposes Prometheus counters for the receiver's
// packet-drop reasons and frame lifecycle events, plus an optional HTTP
// server to scrape them from.
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	PacketsDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mlsp_packets_dropped_total",
		Help: "Total packets dropped by the receiver, by reason.",
	}, []string{"reason"})

	FramesCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mlsp_frames_completed_total",
		Help: "Total logical frames fully reassembled and emitted.",
	})

	FrameSwitches = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mlsp_frame_switches_total",
		Help: "Total times assembly advanced to a new frame number.",
	})

	FramesDiscardedIncomplete = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mlsp_frames_discarded_incomplete_total",
		Help: "Total frames whose partial progress was discarded by a frame switch.",
	})

	BytesReceived = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mlsp_bytes_received_total",
		Help: "Total payload bytes successfully deposited into reassembly buffers.",
	})

	BytesSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mlsp_bytes_sent_total",
		Help: "Total payload bytes written to the sender's socket.",
	})
)

// Drop reason label values (stable, to bound cardinality).
const (
	ReasonMalformed = "malformed"
	ReasonStale     = "stale"
	ReasonDuplicate = "duplicate"
	ReasonBounds    = "bounds"
)

// StartHTTP serves Prometheus metrics at /metrics on addr. Call Shutdown
// on the returned server during graceful shutdown.
func StartHTTP(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		slog.Info("metrics_listen", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics_http_error", "error", err)
		}
	}()
	return srv
}

// Shutdown gracefully stops an HTTP server started by StartHTTP.
func Shutdown(ctx context.Context, srv *http.Server) error {
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}
