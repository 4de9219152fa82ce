// Package http serves the engine over plain HTTP for non-MCP callers:
// a command endpoint, health and info probes, and Prometheus metrics.
package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	codemaster "github.com/codemaster-ai/codemaster"
)

// Server bridges HTTP requests onto the engine.
type Server struct {
	Engine *codemaster.Engine
}

// NewHandler creates the HTTP handler for the engine.
func NewHandler(engine *codemaster.Engine) http.Handler {
	s := &Server{Engine: engine}
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Post("/codemaster", s.Execute)
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// Execute handles the POST /codemaster request. The body is the same
// loosely-typed payload the MCP tool accepts.
func (s *Server) Execute(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := s.Engine.ExecuteRaw(r.Context(), body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"app":         "codemaster-http",
		"version":     codemaster.Version,
		"api_version": "0.1.0",
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
