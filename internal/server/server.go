// Package server exposes the job spec and job run views over HTTP.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"jobdash/internal/format"
	"jobdash/internal/selector"
	"jobdash/internal/store"
	"jobdash/internal/view"
	"jobdash/pkg/utils"
)

// Server serves HTML pages and JSON view-models from a Store
type Server struct {
	store      *store.Store
	view       view.Options
	latestRuns int
	logger     *zap.Logger
	router     chi.Router
}

// New wires the routes
func New(st *store.Store, opts view.Options, latestRuns int, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		store:      st,
		view:       opts,
		latestRuns: latestRuns,
		logger:     logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Get("/job_specs/{jobSpecID}", s.handleJobSpecPage)
	r.Get("/job_runs/{jobRunID}", s.handleJobRunPage)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/job_specs/{jobSpecID}", s.handleJobSpec)
		r.Get("/job_runs/{jobRunID}", s.handleJobRun)
	})

	s.router = r
	return s
}

// Handler returns the root handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

//=============================== pages ===============================//

// GET /job_specs/{jobSpecID}
// Fires a fetch and renders whatever the snapshot holds right now; the
// fetching placeholder reloads itself until the spec shows up.
func (s *Server) handleJobSpecPage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "jobSpecID")
	s.store.Dispatch(id)

	vm := selector.Select(s.store.Snapshot(), id, s.latestRuns)
	page, err := view.JobSpecPage(vm, s.view)
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := view.RenderHTML(&buf, page); err != nil {
		s.serverError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

// GET /job_runs/{jobRunID}
func (s *Server) handleJobRunPage(w http.ResponseWriter, r *http.Request) {
	vm, ok := s.jobRun(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := view.RenderDetailsHTML(&buf, s.details(vm)); err != nil {
		s.serverError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

//=============================== api ===============================//

type jobSpecResponse struct {
	selector.JobSpecViewModel
	Initiator  string            `json:"initiator"`
	Definition format.Definition `json:"definition"`
}

// GET /api/v1/job_specs/{jobSpecID}
func (s *Server) handleJobSpec(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "jobSpecID")
	if err := s.store.Fetch(r.Context(), id); err != nil {
		s.fetchError(w, r, err)
		return
	}

	vm := selector.Select(s.store.Snapshot(), id, s.latestRuns)
	if vm.Fetching() {
		s.writeError(w, http.StatusNotFound, "job spec not found")
		return
	}
	s.writeJSON(w, r, jobSpecResponse{
		JobSpecViewModel: vm,
		Initiator:        format.Initiators(vm.JobSpec.Initiators),
		Definition:       format.JobSpecDefinition(*vm.JobSpec),
	})
}

// GET /api/v1/job_runs/{jobRunID}
func (s *Server) handleJobRun(w http.ResponseWriter, r *http.Request) {
	vm, ok := s.jobRun(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, r, s.details(vm))
}

//=============================== helpers ===============================//

func (s *Server) jobRun(w http.ResponseWriter, r *http.Request) (selector.JobRunViewModel, bool) {
	id := chi.URLParam(r, "jobRunID")
	if err := s.store.FetchJobRun(r.Context(), id); err != nil {
		s.fetchError(w, r, err)
		return selector.JobRunViewModel{}, false
	}
	vm := selector.SelectJobRun(s.store.Snapshot(), id)
	if vm.JobRun == nil {
		s.writeError(w, http.StatusNotFound, "job run not found")
		return vm, false
	}
	return vm, true
}

func (s *Server) details(vm selector.JobRunViewModel) view.Details {
	nodeName := ""
	if vm.Node != nil {
		nodeName = vm.Node.Name
	}
	return view.JobRunDetails(*vm.JobRun, nodeName, s.view)
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	etag := utils.ETag(body)
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func (s *Server) fetchError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, store.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, err.Error())
		return
	}
	s.serverError(w, r, err)
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("request failed",
		zap.String("path", r.URL.Path),
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.Error(err))
	s.writeError(w, http.StatusInternalServerError, "internal error")
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("took", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}
