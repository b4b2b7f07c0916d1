// Package server exposes a live plot session over HTTP.
//
// Routes:
//
//	GET    /healthz
//	GET    /api/frame                   frame snapshot as JSON
//	GET    /api/frame.svg               rendered frame (?width, ?height, ?title)
//	GET    /api/frame.png
//	POST   /api/data                    append one batch ([][]float64)
//	GET    /api/mode, PUT /api/mode
//	PUT    /api/delta, PUT /api/channels
//	POST   /api/reset
//	PUT    /api/view/{side}             set axis bounds
//	POST   /api/view/reset              restore default zoom
//	GET    /api/cursors, POST /api/cursors
//	GET    /api/cursors/graph           DOT or SVG (?format=svg)
//	PATCH  /api/cursors/{key}
//	DELETE /api/cursors/{key}
//	GET    /api/cursors/{key}/candidates
//	GET    /api/layouts, GET|PUT|DELETE /api/layouts/{name}
//	POST   /api/layouts/{name}/restore
//	GET    /metrics                     when a metrics handler is configured
//
// Errors are reported as {"code": ..., "error": ...} with the status given
// by errors.HTTPStatus.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/scopeplot/pkg/errors"
	"github.com/matzehuels/scopeplot/pkg/observability"
	"github.com/matzehuels/scopeplot/pkg/plot"
	"github.com/matzehuels/scopeplot/pkg/store"
)

const (
	// DefaultAddr is the listen address used when Options.Addr is empty.
	DefaultAddr = ":8080"

	shutdownTimeout = 5 * time.Second
	maxBodyBytes    = 1 << 20
)

// Options configures a Server.
type Options struct {
	Addr    string
	Session *plot.Session
	// Store is optional; without it the layout routes answer 501.
	Store   store.Store
	Logger  *log.Logger
	Metrics http.Handler
}

// Server serves one plot session.
type Server struct {
	session *plot.Session
	store   store.Store
	logger  *log.Logger
	router  chi.Router
	http    *http.Server
}

// New builds the router for opts.Session.
func New(opts Options) (*Server, error) {
	if opts.Session == nil {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "server needs a session")
	}
	if opts.Addr == "" {
		opts.Addr = DefaultAddr
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		session: opts.Session,
		store:   opts.Store,
		logger:  logger,
	}
	s.router = s.routes(opts.Metrics)
	s.http = &http.Server{
		Addr:              opts.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// Handler returns the router.
func (s *Server) Handler() http.Handler { return s.router }

// Addr returns the listen address.
func (s *Server) Addr() string { return s.http.Addr }

// Run listens until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.http.Addr)
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(errors.ErrCodeNetwork, err, "listen on %s", s.http.Addr)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("graceful shutdown failed", "error", err)
		_ = s.http.Close()
	}
	<-errCh
	s.logger.Debug("server stopped")
	return nil
}

func (s *Server) routes(metrics http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if metrics != nil {
		r.Method(http.MethodGet, "/metrics", metrics)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/frame", s.handleFrame)
		r.Get("/frame.svg", s.handleFrameSVG)
		r.Get("/frame.png", s.handleFramePNG)
		r.Post("/data", s.handleData)
		r.Get("/mode", s.handleGetMode)
		r.Put("/mode", s.handleSetMode)
		r.Put("/delta", s.handleSetDelta)
		r.Put("/channels", s.handleSetChannels)
		r.Post("/reset", s.handleReset)
		r.Put("/view/{side}", s.handleSetView)
		r.Post("/view/reset", s.handleResetView)

		r.Route("/cursors", func(r chi.Router) {
			r.Get("/", s.handleListCursors)
			r.Post("/", s.handleAddCursor)
			r.Get("/graph", s.handleCursorGraph)
			r.Patch("/{key}", s.handleUpdateCursor)
			r.Delete("/{key}", s.handleRemoveCursor)
			r.Get("/{key}/candidates", s.handleCandidates)
		})

		r.Route("/layouts", func(r chi.Router) {
			r.Use(s.requireStore)
			r.Get("/", s.handleListLayouts)
			r.Get("/{name}", s.handleLoadLayout)
			r.Put("/{name}", s.handleSaveLayout)
			r.Delete("/{name}", s.handleDeleteLayout)
			r.Post("/{name}/restore", s.handleRestoreLayout)
		})
	})
	return r
}

// =============================================================================
// Middleware
// =============================================================================

// instrument reports every request to the HTTP hooks, labelled with the
// matched route pattern rather than the raw path.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		d := time.Since(start)
		observability.HTTP().OnRequest(r.Context(), r.Method, route, status, d)
		s.logger.Debug("request", "method", r.Method, "route", route, "status", status, "duration", d)
	})
}

func (s *Server) requireStore(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.store == nil {
			writeError(w, errors.New(errors.ErrCodeUnsupported, "no layout store configured"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// =============================================================================
// Responses
// =============================================================================

type errorBody struct {
	Code  errors.Code `json:"code,omitempty"`
	Error string      `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, errors.HTTPStatus(err), errorBody{Code: errors.GetCode(err), Error: errors.UserMessage(err)})
}

// decode reads a JSON request body into v, rejecting unknown fields.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}
