// Package httpapi serves scenario results to dashboard clients over HTTP.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/example/ncirc/internal/adapters/render"
	"github.com/example/ncirc/internal/core/nitrogen"
	"github.com/example/ncirc/internal/ctxutil"
	"github.com/example/ncirc/internal/ports/primary"
)

// Options configures a Server.
type Options struct {
	Addr             string
	DefaultReduction float64 // Used when a request omits ?reduction=
	ChartWidth       int
	ChartHeight      int
}

// Server is a lightweight HTTP API over the scenario service.
type Server struct {
	httpServer *http.Server
	service    primary.ScenarioService
	logger     *zap.Logger
	opts       Options
}

// NewServer creates a new API server bound to opts.Addr.
func NewServer(service primary.ScenarioService, logger *zap.Logger, opts Options) *Server {
	s := &Server{
		service: service,
		logger:  logger.Named("http"),
		opts:    opts,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /api/baseline", s.handleBaseline)
	mux.HandleFunc("GET /api/graph", s.handleGraph)
	mux.HandleFunc("GET /api/scenario", s.handleScenario)
	mux.HandleFunc("GET /api/sankey", s.handleSankey)
	mux.HandleFunc("GET /api/chart.png", s.handleChart)

	s.httpServer = &http.Server{
		Addr:              opts.Addr,
		Handler:           s.withRunID(mux),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler returns the server's root handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins serving HTTP requests. It returns once the listener is bound.
func (s *Server) Start(_ context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	s.logger.Info("api server listening", zap.String("addr", ln.Addr().String()))
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server stopped", zap.Error(err))
		}
	}()
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// withRunID tags each request with a run ID and logs it.
func (s *Server) withRunID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx, runID := ctxutil.EnsureRunID(r.Context())
		w.Header().Set("X-Run-ID", runID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))

		s.logger.Debug("request",
			zap.String("run_id", runID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// GET /healthz
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GET /api/baseline: unperturbed flows and metrics.
func (s *Server) handleBaseline(w http.ResponseWriter, r *http.Request) {
	scenario, err := s.service.Baseline(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, scenario)
}

// GET /api/graph: compartments, links and partitions.
func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	graph, err := s.service.Graph(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, graph)
}

// GET /api/scenario?reduction=5: cascaded flows and metrics.
func (s *Server) handleScenario(w http.ResponseWriter, r *http.Request) {
	scenario, err := s.scenarioFor(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, scenario)
}

// GET /api/sankey?reduction=5: diagram payload.
func (s *Server) handleSankey(w http.ResponseWriter, r *http.Request) {
	scenario, err := s.scenarioFor(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	graph, err := s.service.Graph(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, render.NewSankey(graph.Compartments, scenario))
}

// GET /api/chart.png?reduction=5: circularity bar chart.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	scenario, err := s.scenarioFor(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := render.CircularityChart(&buf, scenario.Breakdown, s.opts.ChartWidth, s.opts.ChartHeight); err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) scenarioFor(r *http.Request) (*primary.Scenario, error) {
	reduction := s.opts.DefaultReduction
	if v := r.URL.Query().Get("reduction"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: reduction %q is not a number", nitrogen.ErrInvalidParameter, v)
		}
		reduction = f
	}
	return s.service.ApplyHousingReduction(r.Context(), primary.ScenarioRequest{Reduction: reduction})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, nitrogen.ErrInvalidParameter) {
		status = http.StatusBadRequest
	} else {
		s.logger.Error("request failed", zap.Error(err))
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}
