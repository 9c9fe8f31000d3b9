// Package health serves reload status and lookups over HTTP.
package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.trai.ch/thesaurus/internal/core/domain"
	"go.trai.ch/thesaurus/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// Status values reported by /healthz.
const (
	StatusOK       = "ok"
	StatusDegraded = "degraded"
)

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status  string `json:"status"`
	Sources int    `json:"sources"`
}

// SynonymsResponse is the body of a synonym lookup.
type SynonymsResponse struct {
	Source   string   `json:"source"`
	Term     string   `json:"term"`
	Synonyms []string `json:"synonyms"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Server exposes a DictionaryRegistry over HTTP.
type Server struct {
	registry ports.DictionaryRegistry
	logger   ports.Logger
	router   *chi.Mux
}

// NewServer builds the router for registry.
func NewServer(registry ports.DictionaryRegistry, logger ports.Logger) *Server {
	s := &Server{
		registry: registry,
		logger:   logger,
		router:   chi.NewRouter(),
	}
	s.setupRoutes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.logger.Info("health: listening on " + addr)

	select {
	case err := <-errCh:
		return zerr.With(zerr.Wrap(err, "health server failed"), "addr", addr)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return zerr.Wrap(err, "health server shutdown")
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return zerr.Wrap(err, "health server failed")
	}
	return nil
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.Recoverer)

	s.router.Get("/healthz", s.handleHealth)
	s.router.Route("/v1/dictionaries", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Get("/{name}", s.handleState)
		r.Get("/{name}/synonyms", s.handleSynonyms)
		r.Post("/{name}/reload", s.handleReload)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	states := s.registry.States()
	resp := HealthResponse{Status: StatusOK, Sources: len(states)}
	for _, st := range states {
		if !st.Healthy() {
			resp.Status = StatusDegraded
			break
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleList(w http.ResponseWriter, _ *http.Request) {
	states := s.registry.States()
	if states == nil {
		states = []domain.ReloadState{}
	}
	writeJSON(w, http.StatusOK, states)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	state, err := s.registry.State(chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleSynonyms(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	term := r.URL.Query().Get("term")
	if term == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing term parameter"})
		return
	}

	synonyms, err := s.registry.Lookup(name, term)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if synonyms == nil {
		synonyms = []string{}
	}
	writeJSON(w, http.StatusOK, SynonymsResponse{Source: name, Term: term, Synonyms: synonyms})
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	force := false
	if v := r.URL.Query().Get("force"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid force parameter"})
			return
		}
		force = parsed
	}

	outcome, err := s.registry.Reload(r.Context(), chi.URLParam(r, "name"), force)
	if errors.Is(err, domain.ErrUnknownSource) {
		s.writeError(w, err)
		return
	}
	// Cycle failures are part of the outcome.
	writeJSON(w, http.StatusOK, outcome)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrUnknownSource) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
		return
	}
	s.logger.Error(err)
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
