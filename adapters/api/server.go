// Package api exposes enrichment over HTTP as a small JSON API.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"goterm/app"
	"goterm/domain/core"
	"goterm/domain/enrich"
)

// Server wraps the enrichment service behind a chi router
type Server struct {
	router *chi.Mux
	svc    *app.EnrichmentService
	alpha  float64
}

// NewServer creates the API server around a configured service
func NewServer(svc *app.EnrichmentService, alpha float64) *Server {
	s := &Server{
		router: chi.NewRouter(),
		svc:    svc,
		alpha:  alpha,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// Handler returns the root http handler
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)
	s.router.Post("/api/enrich", s.handleEnrich)
	s.router.Get("/api/runs", s.handleListRuns)
	s.router.Get("/api/runs/{id}", s.handleGetRun)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// enrichRequest is the POST /api/enrich payload. Mode and correction are
// optional and fall back to the server defaults.
type enrichRequest struct {
	Items      []core.ItemID `json:"items"`
	Mode       string        `json:"mode,omitempty"`
	Correction string        `json:"correction,omitempty"`
}

type enrichResponse struct {
	Result      *enrich.Result      `json:"result"`
	Summary     enrich.Summary      `json:"summary"`
	Significant []enrich.Hypothesis `json:"significant,omitempty"`
}

func (s *Server) handleEnrich(w http.ResponseWriter, r *http.Request) {
	var req enrichRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Items) == 0 {
		respondError(w, http.StatusBadRequest, "items must not be empty")
		return
	}

	result, err := s.svc.RunWith(r.Context(), req.Items, enrich.Mode(req.Mode), enrich.Correction(req.Correction))
	if err != nil {
		if core.IsConfigurationError(err) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, enrichResponse{
		Result:      result,
		Summary:     enrich.Summarize(result),
		Significant: result.Significant(s.alpha),
	})
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.svc.ListRuns(r.Context(), 50)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if runs == nil {
		runs = []*enrich.Result{}
	}
	respondJSON(w, http.StatusOK, runs)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id := core.RunID(chi.URLParam(r, "id"))
	result, err := s.svc.GetRun(r.Context(), id)
	if err != nil {
		if errors.Is(err, core.ErrRunNotFound) {
			respondError(w, http.StatusNotFound, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already written; an encode failure here is unrecoverable.
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
