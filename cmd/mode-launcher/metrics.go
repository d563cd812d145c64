package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/heptiolabs/healthcheck"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxGoroutines fails the liveness probe when exit watchers pile up far
// beyond any realistic mode size
const maxGoroutines = 10000

// metricsServer exposes the launcher registry on /metrics while a run lasts,
// with /live and /ready probes alongside it
type metricsServer struct {
	server   *http.Server
	listener net.Listener
	logger   *slog.Logger
}

// startMetricsServer listens on addr and serves in the background. ready
// backs the /ready probe.
func startMetricsServer(addr string, registry *prometheus.Registry, ready healthcheck.Check, logger *slog.Logger) (*metricsServer, error) {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	health := healthcheck.NewHandler()
	health.AddLivenessCheck("goroutine-threshold", healthcheck.GoroutineCountCheck(maxGoroutines))
	if ready != nil {
		health.AddReadinessCheck("launched", ready)
	}
	mux.HandleFunc("/live", health.LiveEndpoint)
	mux.HandleFunc("/ready", health.ReadyEndpoint)

	ms := &metricsServer{
		server: &http.Server{
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		listener: lis,
		logger:   logger,
	}

	go func() {
		if err := ms.server.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server error", "error", err)
		}
	}()

	logger.Debug("metrics endpoint listening", "url", "http://"+ms.Addr()+"/metrics")

	return ms, nil
}

// Addr returns the address actually bound
func (ms *metricsServer) Addr() string {
	return ms.listener.Addr().String()
}

// Close shuts the server down
func (ms *metricsServer) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := ms.server.Shutdown(ctx); err != nil {
		ms.logger.Warn("metrics server shutdown", "error", err)
	}
}
