// Package server hosts the dashboard over HTTP. The browser page renders
// the plotly figure built by the chart package; every request re-derives
// the controls and the chart from the query string.
package server

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"ipedsviz/internal/chart"
	"ipedsviz/internal/controls"
	"ipedsviz/internal/dataset"
)

//go:embed index.html
var indexHTML []byte

// Server serves the dashboard page and its JSON API.
type Server struct {
	loader   *dataset.Loader
	defaults controls.Defaults
	router   chi.Router
}

// New builds the router. Nothing is fetched until the first request.
func New(loader *dataset.Loader, defaults controls.Defaults) *Server {
	s := &Server{loader: loader, defaults: defaults}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/controls", s.handleControls)
		r.Get("/chart", s.handleChart)
		r.Get("/spec", s.handleSpec)
	})
	s.router = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Printf("server.ListenAndServe: listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		log.Printf("server.ListenAndServe: shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"loaded": s.loader.Loaded(),
	})
}

// controlsResponse is the body of GET /api/controls.
type controlsResponse struct {
	Modes     []string            `json:"modes"`
	Mode      controls.Mode       `json:"mode"`
	Selectors []controls.Selector `json:"selectors"`
	Selection controls.Selection  `json:"selection"`
}

func (s *Server) handleControls(w http.ResponseWriter, r *http.Request) {
	_, panel, ok := s.resolve(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, controlsResponse{
		Modes:     controls.ModeOptions(),
		Mode:      panel.Mode,
		Selectors: panel.Selectors,
		Selection: panel.Selection(),
	})
}

// chartResponse is the body of GET /api/chart.
type chartResponse struct {
	Figure chart.Figure `json:"figure"`
	Empty  bool         `json:"empty"`
	Rows   int          `json:"rows"`
	Notice string       `json:"notice,omitempty"`
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	spec, ok := s.render(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, chartResponse{
		Figure: spec.Figure(),
		Empty:  spec.Empty(),
		Rows:   spec.Rows,
		Notice: spec.Notice,
	})
}

func (s *Server) handleSpec(w http.ResponseWriter, r *http.Request) {
	spec, ok := s.render(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, spec)
}

func (s *Server) render(w http.ResponseWriter, r *http.Request) (*chart.Spec, bool) {
	ds, panel, ok := s.resolve(w, r)
	if !ok {
		return nil, false
	}
	spec, err := chart.Render(r.Context(), ds, panel.Selection())
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	return spec, true
}

// resolve loads the dataset and builds the Control Panel from the query.
func (s *Server) resolve(w http.ResponseWriter, r *http.Request) (*dataset.Dataset, *controls.Panel, bool) {
	q := r.URL.Query()
	mode, err := controls.ParseMode(q.Get("mode"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return nil, nil, false
	}
	ds, err := s.loader.Load(r.Context())
	if err != nil {
		writeError(w, err)
		return nil, nil, false
	}
	req := controls.Request(q)
	delete(req, "mode")
	panel, err := controls.Build(ds, mode, req, s.defaults)
	if err != nil {
		writeError(w, err)
		return nil, nil, false
	}
	return ds, panel, true
}

type errorBody struct {
	Error string `json:"error"`
}

// writeError maps pipeline errors to status codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, dataset.ErrColumnNotFound):
		status = http.StatusBadRequest
	case errors.Is(err, dataset.ErrDataUnavailable):
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError {
		log.Printf("server: %v", err)
	}
	writeJSON(w, status, errorBody{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("server: encode response: %v", err)
	}
}
