package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/matzehuels/mewc/pkg/buildinfo"
	"github.com/matzehuels/mewc/pkg/cache"
	errs "github.com/matzehuels/mewc/pkg/errors"
	"github.com/matzehuels/mewc/pkg/graph"
	"github.com/matzehuels/mewc/pkg/mewc"
	"github.com/matzehuels/mewc/pkg/pipeline"
	"github.com/matzehuels/mewc/pkg/store"
)

// solverOptions are the per-request overrides of the server defaults.
type solverOptions struct {
	TimeoutMS     int64    `json:"timeout_ms,omitempty"`
	MaxIterations int64    `json:"max_iterations,omitempty"`
	Ranking       string   `json:"ranking,omitempty"`
	MaxSwapSize   int      `json:"max_swap_size,omitempty"`
	GraspTrials   int      `json:"grasp_trials,omitempty"`
	GraspAlpha    *float64 `json:"grasp_alpha,omitempty"`
	GraspSwapSize int      `json:"grasp_swap_size,omitempty"`
	Seed          uint64   `json:"seed,omitempty"`
}

type graphInput struct {
	Graph    json.RawMessage `json:"graph,omitempty"`
	Instance string          `json:"instance,omitempty"`
}

type solveRequest struct {
	graphInput
	Strategy string        `json:"strategy,omitempty"`
	Options  solverOptions `json:"options"`

	// Formats lists artifacts to return inline: out, json, dot, svg.
	Formats []string `json:"formats,omitempty"`
	Refresh bool     `json:"refresh,omitempty"`
}

type compareRequest struct {
	graphInput
	Strategies []string      `json:"strategies"`
	Options    solverOptions `json:"options"`
}

type runResponse struct {
	store.Run
	Artifacts map[string]string `json:"artifacts,omitempty"`
}

type errorBody struct {
	Error struct {
		Code    errs.Code `json:"code"`
		Message string    `json:"message"`
	} `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Get(),
	})
}

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	var req solveRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	g, err := s.graph(req.graphInput)
	if err != nil {
		s.writeError(w, err)
		return
	}
	strategy := s.cfg.Strategy
	if req.Strategy != "" {
		strategy = mewc.Strategy(req.Strategy)
	}
	opts := pipeline.Options{
		Strategy: strategy,
		Formats:  req.Formats,
		Refresh:  req.Refresh,
		Solver:   s.solverOptions(req.Options),
		Logger:   s.logger,
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		s.writeError(w, err)
		return
	}

	release, err := s.acquire(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	res, err := s.runner.Execute(r.Context(), g, opts)
	release()
	if err != nil {
		s.writeError(w, err)
		return
	}

	run := res.Run()
	if err := s.store.Save(r.Context(), run); err != nil {
		s.writeError(w, errs.Wrap(errs.ErrCodeInternal, err, "record run"))
		return
	}
	resp := runResponse{Run: run}
	if len(req.Formats) > 0 {
		resp.Artifacts = make(map[string]string, len(req.Formats))
		for _, f := range req.Formats {
			resp.Artifacts[f] = string(res.Artifacts[f])
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	g, err := s.graph(req.graphInput)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if len(req.Strategies) == 0 {
		req.Strategies = make([]string, 0, len(mewc.Strategies()))
		for _, st := range mewc.Strategies() {
			req.Strategies = append(req.Strategies, string(st))
		}
	}
	strategies := make([]mewc.Strategy, len(req.Strategies))
	for i, name := range req.Strategies {
		st, err := mewc.ParseStrategy(name)
		if err != nil {
			s.writeError(w, err)
			return
		}
		strategies[i] = st
	}

	release, err := s.acquire(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	opts := pipeline.Options{Solver: s.solverOptions(req.Options), Logger: s.logger}
	results, err := s.runner.Compare(r.Context(), g, strategies, opts, s.cfg.Concurrency)
	release()
	if err != nil {
		s.writeError(w, err)
		return
	}

	hash := cache.GraphHash(g)
	runs := make([]store.Run, len(results))
	for i, c := range results {
		res := pipeline.Result{
			RunID:     uuid.NewString(),
			CreatedAt: s.now().UTC(),
			GraphHash: hash,
			Solve:     c.Result,
			Stats:     pipeline.Stats{Vertices: g.VertexCount(), Edges: g.EdgeCount()},
			CacheInfo: pipeline.CacheInfo{SolveHit: c.Cached},
		}
		runs[i] = res.Run()
		if err := s.store.Save(r.Context(), runs[i]); err != nil {
			s.writeError(w, errs.Wrap(errs.ErrCodeInternal, err, "record run"))
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, errs.New(errs.ErrCodeInvalidInput, "limit must be a non-negative integer"))
			return
		}
		limit = n
	}
	runs, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := errs.ValidateRunID(id); err != nil {
		s.writeError(w, err)
		return
	}
	run, err := s.store.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		s.writeError(w, errs.Wrap(errs.ErrCodeNotFound, err, "run %s", id))
		return
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "decode request")
	}
	return nil
}

func (s *Server) graph(in graphInput) (*graph.Graph, error) {
	var (
		g   *graph.Graph
		err error
	)
	switch {
	case len(in.Graph) > 0 && in.Instance != "":
		return nil, errs.New(errs.ErrCodeInvalidInput, "send either graph or instance, not both")
	case len(in.Graph) > 0:
		g, err = pipeline.DecodeGraph(bytes.NewReader(in.Graph), pipeline.InputJSON)
	case in.Instance != "":
		g, err = pipeline.DecodeGraph(strings.NewReader(in.Instance), pipeline.InputInstance)
	default:
		return nil, errs.New(errs.ErrCodeInvalidInput, "graph or instance is required")
	}
	if err != nil {
		return nil, err
	}
	if g.VertexCount() > s.cfg.MaxVertices {
		return nil, errs.New(errs.ErrCodeInvalidInput, "graph has %d vertices, the server accepts at most %d", g.VertexCount(), s.cfg.MaxVertices)
	}
	return g, nil
}

// solverOptions layers request overrides on the server defaults. The timeout
// never exceeds the server's request timeout.
func (s *Server) solverOptions(o solverOptions) mewc.Options {
	opts := s.cfg.Solver
	opts.Rand = nil
	opts.Progress = nil

	timeout := time.Duration(o.TimeoutMS) * time.Millisecond
	if timeout <= 0 || timeout > s.cfg.RequestTimeout {
		timeout = s.cfg.RequestTimeout
	}
	opts.Timeout = timeout
	if o.MaxIterations > 0 {
		opts.MaxIterations = o.MaxIterations
	}
	if o.Ranking != "" {
		opts.Ranking = mewc.Ranking(o.Ranking)
	}
	if o.MaxSwapSize > 0 {
		opts.MaxSwapSize = o.MaxSwapSize
	}
	if o.GraspTrials > 0 {
		opts.GraspTrials = o.GraspTrials
	}
	if o.GraspAlpha != nil {
		opts.GraspAlpha = *o.GraspAlpha
	}
	if o.GraspSwapSize > 0 {
		opts.GraspSwapSize = o.GraspSwapSize
	}
	if o.Seed > 0 {
		opts.Seed = o.Seed
	}
	return opts
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := errs.HTTPStatus(err)
	var body errorBody
	body.Error.Code = errs.GetCode(err)
	if body.Error.Code == "" {
		body.Error.Code = errs.ErrCodeInternal
	}
	body.Error.Message = errs.UserMessage(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
