// Package server exposes the answer-and-share pipeline over HTTP.
//
// The routes mirror the product's test harness API: one endpoint that runs
// the full pipeline, and two diagnostic endpoints for the duplicate table and
// the generator/validator pair.
package server

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/edvocate/memshare-go/pkg/core"
)

// Server wires the pipeline client to the HTTP API.
type Server struct {
	client *core.Client
	logger *log.Logger
	mux    *http.ServeMux
}

// New creates a Server around an initialized pipeline client.
func New(client *core.Client, logger *log.Logger) *Server {
	s := &Server{
		client: client,
		logger: logger,
		mux:    http.NewServeMux(),
	}

	s.mux.HandleFunc("/api/test-memory-query", s.handleMemoryQuery)
	s.mux.HandleFunc("/api/test-shared-memories", s.handleSharedMemories)
	s.mux.HandleFunc("/api/test-validation", s.handleValidation)
	s.mux.HandleFunc("/healthz", s.handleHealth)

	return s
}

// Handler returns the root handler with request-ID and logging middleware
// applied.
func (s *Server) Handler() http.Handler {
	return s.withRequestLog(s.mux)
}

// withRequestLog assigns a request ID and logs each request on completion.
func (s *Server) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		w.Header().Set("X-Request-ID", requestID)

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		s.logger.Info("request",
			"id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start).String(),
		)
	})
}

// statusRecorder captures the response status for the request log.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
