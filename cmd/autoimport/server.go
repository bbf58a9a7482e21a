package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type healthStatus struct {
	Status  string `json:"status"`
	Version uint64 `json:"registry_version"`
	Symbols int    `json:"symbols"`
}

// ObservabilityServer exposes Prometheus metrics and a registry health check.
type ObservabilityServer struct {
	addr   string
	status func() healthStatus
	server *http.Server
}

func NewObservabilityServer(addr string, status func() healthStatus) *ObservabilityServer {
	return &ObservabilityServer{addr: addr, status: status}
}

func (s *ObservabilityServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(s.status()); err != nil {
			slog.Warn("failed to encode health status", "error", err)
		}
	})
	return mux
}

// Start binds the listener synchronously so address errors surface here,
// then serves in the background.
func (s *ObservabilityServer) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.server = &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	slog.Info("observability server starting", "addr", ln.Addr().String())

	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("observability server failed", "error", err)
		}
	}()
	return nil
}

func (s *ObservabilityServer) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
