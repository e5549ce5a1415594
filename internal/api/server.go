// Package api exposes the HTTP interface for the analysis service.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Luigi-p-git/sitelens/internal/analysis"
	"github.com/Luigi-p-git/sitelens/internal/config"
	"github.com/Luigi-p-git/sitelens/internal/metrics"
	"github.com/Luigi-p-git/sitelens/internal/orchestrator"
)

// Analyzer runs one analysis. Implemented by orchestrator.Pipeline.
type Analyzer interface {
	Analyze(ctx context.Context, rawURL string, onProgress orchestrator.ProgressFunc) (*analysis.Result, error)
}

// Server wires HTTP handlers to the analysis pipeline.
type Server struct {
	router   chi.Router
	analyzer Analyzer
	logger   *zap.Logger
	cfg      config.Config
}

// NewServer constructs a Server with middleware and routes.
func NewServer(analyzer Analyzer, cfg config.Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{analyzer: analyzer, logger: logger, cfg: cfg}

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(logger))
	r.Use(recoverMiddleware(logger))
	r.Use(metrics.Middleware)

	r.Get("/healthz", s.healthz)
	r.Get("/readyz", s.readyz)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/analyze", s.analyze)
	})

	s.router = r
	return s
}

// Handler returns the router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) readyz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

type analyzeRequest struct {
	URL string `json:"url"`
}

type errorResponse struct {
	Kind        analysis.Kind           `json:"kind"`
	Message     string                  `json:"message"`
	Suggestions []string                `json:"suggestions"`
	Relays      []analysis.RelayFailure `json:"relay_failures,omitempty"`
}

func (s *Server) analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	if _, err := analysis.NewTarget(req.URL); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid url: " + err.Error()})
		return
	}

	timeout := time.Duration(s.cfg.Server.RequestTimeout) * time.Second
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	result, err := s.analyzer.Analyze(ctx, req.URL, nil)
	if err != nil {
		s.writeAnalysisError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) writeAnalysisError(w http.ResponseWriter, err error) {
	classified := analysis.Classify(err)
	writeJSON(w, statusForKind(classified.Kind), errorResponse{
		Kind:        classified.Kind,
		Message:     classified.UserMessage(),
		Suggestions: classified.Suggestions(),
		Relays:      classified.Failures,
	})
}

func statusForKind(kind analysis.Kind) int {
	switch kind {
	case analysis.KindNetworkUnreachable,
		analysis.KindAllRelaysExhausted,
		analysis.KindUpstreamDenied,
		analysis.KindUpstreamServerError:
		return http.StatusBadGateway
	case analysis.KindUpstreamTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Encode failures mean the response is already partially written;
	// nothing sensible remains to be done.
	_ = json.NewEncoder(w).Encode(payload)
}
