// Package api serves the solver over HTTP.
//
// Routes:
//
//	GET  /healthz          liveness and build information
//	POST /v1/solve         solve one graph with one strategy
//	POST /v1/compare       solve one graph with several strategies
//	GET  /v1/runs          recent runs, newest first (?limit=N)
//	GET  /v1/runs/{id}     one run by id
//
// Graphs are posted either as a JSON graph document under "graph" or as .in
// text under "instance". Every solve is recorded in the run store and can be
// fetched again by its run_id. Errors are returned as
// {"error": {"code": "...", "message": "..."}} with the status derived from
// the error code.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/mewc/pkg/mewc"
	"github.com/matzehuels/mewc/pkg/observability"
	"github.com/matzehuels/mewc/pkg/pipeline"
	"github.com/matzehuels/mewc/pkg/store"
)

const (
	DefaultMaxVertices    = 5000
	DefaultRequestTimeout = 30 * time.Second
	DefaultConcurrency    = 4
	DefaultMaxBodyBytes   = 32 << 20
)

// Config bounds what a single request may ask for.
type Config struct {
	// MaxVertices rejects larger graphs with 400.
	MaxVertices int

	// RequestTimeout caps the solver timeout of every request.
	RequestTimeout time.Duration

	// Concurrency is the number of solves running at once; further requests
	// wait for a slot.
	Concurrency int

	MaxBodyBytes int64

	// Strategy and Solver are the defaults for fields a request leaves out.
	Strategy mewc.Strategy
	Solver   mewc.Options
}

func (c *Config) setDefaults() {
	if c.MaxVertices <= 0 {
		c.MaxVertices = DefaultMaxVertices
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
	if c.Concurrency <= 0 {
		c.Concurrency = DefaultConcurrency
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if c.Strategy == "" {
		c.Strategy = mewc.Exact
	}
}

// Server is the HTTP front end.
type Server struct {
	runner *pipeline.Runner
	store  store.Store
	cfg    Config
	logger *log.Logger
	slots  chan struct{}
	now    func() time.Time
}

// New creates a server. The runner's cache is shared by all requests.
func New(runner *pipeline.Runner, st store.Store, cfg Config, logger *log.Logger) *Server {
	cfg.setDefaults()
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		runner: runner,
		store:  st,
		cfg:    cfg,
		logger: logger,
		slots:  make(chan struct{}, cfg.Concurrency),
		now:    time.Now,
	}
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(hooksMiddleware)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/solve", s.handleSolve)
		r.Post("/compare", s.handleCompare)
		r.Get("/runs", s.handleListRuns)
		r.Get("/runs/{id}", s.handleGetRun)
	})
	return r
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.RequestTimeout+5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// acquire takes a solver slot, waiting until one frees up or ctx is done.
func (s *Server) acquire(ctx context.Context) (func(), error) {
	select {
	case s.slots <- struct{}{}:
		return func() { <-s.slots }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func hooksMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		hooks.OnResponse(r.Context(), r.Method, route, ww.Status(), time.Since(start))
	})
}
