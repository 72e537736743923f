// Package server exposes the calculator tools over HTTP.
//
//	POST /tool     run a tool call
//	GET  /schema   tool schema for agent registration
//	GET  /health   liveness check
//	GET  /metrics  Prometheus metrics
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/njchilds90/ccalc"
	"github.com/njchilds90/ccalc/internal/logging"
)

const maxBodyBytes = 1 << 20 // 1 MiB

// Metrics are the collectors the server records tool calls in.
type Metrics struct {
	Calls    *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

// NewMetrics creates the tool metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Calls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ccalc_tool_calls_total",
				Help: "Tool calls by tool and status (ok or error).",
			},
			[]string{"tool", "status"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ccalc_tool_duration_seconds",
				Help:    "Tool call latency.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"tool"},
		),
	}
	reg.MustRegister(m.Calls, m.Duration)
	return m
}

// Server serves a Calculator over HTTP.
type Server struct {
	calc     *ccalc.Calculator
	log      *slog.Logger
	registry *prometheus.Registry
	metrics  *Metrics
}

// New returns a Server with its own metrics registry. logger may be nil.
func New(calc *ccalc.Calculator, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	reg := prometheus.NewRegistry()
	return &Server{
		calc:     calc,
		log:      logger,
		registry: reg,
		metrics:  NewMetrics(reg),
	}
}

// Metrics returns the server's collectors.
func (s *Server) Metrics() *Metrics { return s.metrics }

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Post("/tool", s.handleTool)
	r.Get("/schema", s.handleSchema)
	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) handleTool(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req ccalc.ToolRequest
	if err := dec.Decode(&req); err != nil {
		s.log.Warn("tool: invalid request body", "error", err)
		writeJSON(w, http.StatusBadRequest, ccalc.ToolResponse{Error: fmt.Sprintf("invalid JSON: %v", err)})
		return
	}
	if dec.More() {
		writeJSON(w, http.StatusBadRequest, ccalc.ToolResponse{Error: "invalid JSON: trailing data"})
		return
	}

	start := time.Now()
	resp := s.calc.HandleToolCall(r.Context(), req)
	elapsed := time.Since(start)

	status := "ok"
	if resp.Error != "" {
		status = "error"
	}
	s.metrics.Calls.WithLabelValues(req.Tool, status).Inc()
	s.metrics.Duration.WithLabelValues(req.Tool).Observe(elapsed.Seconds())
	s.log.Info("tool call", "tool", req.Tool, "status", status, "duration", elapsed)

	// Tool failures are results, not transport errors.
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSchema(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"tools": ccalc.ToolSpecs()})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// Run listens on addr until ctx is cancelled, then shuts down and waits
// up to shutdownTimeout for in-flight requests.
func (s *Server) Run(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln, shutdownTimeout)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("server listening", "addr", ln.Addr().String())
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
