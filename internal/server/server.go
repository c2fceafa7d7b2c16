// Package server exposes the solver over HTTP: a JSON solve endpoint, the
// algorithm selection surface, a health check, and the Prometheus metrics
// endpoint. It is the remote counterpart of the CLI's solve command.
package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jobshop-dev/jobshop/internal/export"
	"github.com/jobshop-dev/jobshop/internal/metrics"
	"github.com/jobshop-dev/jobshop/internal/parser"
	"github.com/jobshop-dev/jobshop/internal/solver"
)

// Server handles solve requests over HTTP.
type Server struct {
	collector *metrics.Collector
	mux       *http.ServeMux
}

// SolveRequest is the body of POST /api/v1/solve. Problem carries an
// instance in the plain-text exchange format; Algorithm is a rule
// identifier (fifo, spt, lpt) and defaults to fifo.
type SolveRequest struct {
	Problem   string `json:"problem"`
	Algorithm string `json:"algorithm"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type algorithmInfo struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

// NewServer creates the HTTP server. The collector may be nil, in which
// case solves are not measured.
func NewServer(collector *metrics.Collector) *Server {
	s := &Server{collector: collector, mux: http.NewServeMux()}
	s.mux.HandleFunc("/api/v1/solve", s.handleSolve)
	s.mux.HandleFunc("/api/v1/algorithms", s.handleAlgorithms)
	s.mux.HandleFunc("/healthz", s.handleHealth)
	s.mux.Handle("/metrics", promhttp.Handler())
	return s
}

// Handler returns the server's routing handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ListenAndServe serves on the given port and blocks.
func (s *Server) ListenAndServe(port int) error {
	addr := fmt.Sprintf(":%d", port)
	log.Printf("server: listening on %s", addr)
	return http.ListenAndServe(addr, s.mux)
}

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "solve requires POST")
		return
	}

	var req SolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	rule := solver.FIFO
	if req.Algorithm != "" {
		var err error
		if rule, err = solver.ParseRule(req.Algorithm); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	in, err := parser.ParseString(req.Problem)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid problem: "+err.Error())
		return
	}

	started := time.Now()
	result, err := solver.New(rule).Solve(in)
	if err != nil {
		if s.collector != nil {
			s.collector.RecordError()
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if s.collector != nil {
		scheduled := result.Problem.TotalOperations() - result.Unplaced
		s.collector.RecordSolve(rule.String(), time.Since(started).Seconds(),
			result.Metrics.Makespan, scheduled, result.Unplaced)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := export.ExportJSON(w, result); err != nil {
		log.Printf("server: writing solve response: %v", err)
	}
}

func (s *Server) handleAlgorithms(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "algorithms requires GET")
		return
	}

	infos := make([]algorithmInfo, 0, len(solver.Rules()))
	for _, rule := range solver.Rules() {
		infos = append(infos, algorithmInfo{ID: rule.String(), DisplayName: rule.DisplayName()})
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(infos); err != nil {
		log.Printf("server: writing algorithms response: %v", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "ok")
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: msg})
}
