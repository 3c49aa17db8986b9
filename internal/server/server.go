// Package server implements the figtree HTTP API.
//
// Routes:
//
//	GET  /healthz          liveness and build information
//	POST /v1/builds        build the document in the request body
//	GET  /v1/builds/{id}   reassemble a persisted build from the store
//
// Builds run through the same pipeline.Runner as the CLI, so caching and
// persistence behave identically.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/figtree/pkg/behavior"
	"github.com/matzehuels/figtree/pkg/buildinfo"
	"github.com/matzehuels/figtree/pkg/config"
	ferrors "github.com/matzehuels/figtree/pkg/errors"
	"github.com/matzehuels/figtree/pkg/pipeline"
)

// Header names set on build responses.
const (
	HeaderBuildID = "X-Figtree-Build"
	HeaderCache   = "X-Figtree-Cache"
)

// Server serves the HTTP API.
type Server struct {
	runner    *pipeline.Runner
	settings  *config.Settings
	behaviors *behavior.Registry
	logger    *log.Logger
	router    chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithSettings sets the build settings used for every request.
func WithSettings(s *config.Settings) Option {
	return func(srv *Server) { srv.settings = s }
}

// WithBehaviors binds behaviors from r into every build.
func WithBehaviors(r *behavior.Registry) Option {
	return func(srv *Server) { srv.behaviors = r }
}

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(srv *Server) { srv.logger = l }
}

// New creates a server building with runner.
func New(runner *pipeline.Runner, opts ...Option) *Server {
	s := &Server{
		runner:   runner,
		settings: config.Default(),
		logger:   log.New(io.Discard),
	}
	for _, o := range opts {
		o(s)
	}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.health)
	r.Post("/v1/builds", s.createBuild)
	r.Get("/v1/builds/{id}", s.getBuild)
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully within the timeout.
func (s *Server) ListenAndServe(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	hs := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- hs.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := hs.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// health handles GET /healthz.
func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Get(),
	})
}

// createBuild handles POST /v1/builds. The body is the document JSON; the
// optional query parameter refresh=true bypasses the bundle cache.
func (s *Server) createBuild(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, pipeline.MaxDocumentSize)
	data, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, ferrors.New(ferrors.ErrCodeInvalidInput, "document exceeds %d bytes", tooLarge.Limit))
			return
		}
		writeError(w, ferrors.Wrap(ferrors.ErrCodeInvalidInput, err, "read body"))
		return
	}
	if len(data) == 0 {
		writeError(w, ferrors.New(ferrors.ErrCodeInvalidInput, "request body must contain a document"))
		return
	}
	refresh, _ := strconv.ParseBool(r.URL.Query().Get("refresh"))

	result, err := s.runner.Execute(r.Context(), pipeline.Options{
		Source:    "request " + middleware.GetReqID(r.Context()),
		Data:      data,
		Settings:  s.settings,
		Refresh:   refresh,
		Behaviors: s.behaviors,
		Logger:    s.logger,
	})
	if err != nil {
		s.logger.Warn("build failed", "request", middleware.GetReqID(r.Context()), "err", err)
		writeError(w, err)
		return
	}

	cacheState := "miss"
	if result.CacheInfo.BundleHit {
		cacheState = "hit"
	}
	w.Header().Set(HeaderBuildID, result.BuildID)
	w.Header().Set(HeaderCache, cacheState)
	if result.Stats.Persisted > 0 {
		w.Header().Set("Location", "/v1/builds/"+result.BuildID)
	}
	writeJSON(w, http.StatusCreated, result.Bundle)
}

// getBuild handles GET /v1/builds/{id}.
func (s *Server) getBuild(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	b, err := s.runner.Bundle(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}
