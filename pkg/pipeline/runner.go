package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/mewc/pkg/cache"
	errs "github.com/matzehuels/mewc/pkg/errors"
	"github.com/matzehuels/mewc/pkg/graph"
	"github.com/matzehuels/mewc/pkg/mewc"
	"github.com/matzehuels/mewc/pkg/observability"
)

// Runner executes the pipeline with caching. It holds no per-run state, so
// one Runner may serve concurrent requests.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// uses cache.DefaultKeyer, and a nil logger uses log.Default().
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute solves g and renders the requested formats.
func (r *Runner) Execute(ctx context.Context, g *graph.Graph, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{
		RunID:     uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Graph:     g,
		GraphHash: cache.GraphHash(g),
		Stats:     Stats{Vertices: g.VertexCount(), Edges: g.EdgeCount()},
	}

	solveStart := time.Now()
	res, hit, err := r.solve(ctx, g, result.GraphHash, opts)
	if err != nil {
		return nil, fmt.Errorf("solve: %w", err)
	}
	result.Solve = res
	result.Stats.SolveTime = time.Since(solveStart)
	result.CacheInfo.SolveHit = hit

	r.Logger.Info("solved",
		"strategy", res.Strategy,
		"graph", describe(g),
		"weight", res.Clique.Weight(),
		"size", res.Clique.Size(),
		"complete", res.Complete,
		"cached", hit,
		"duration", result.Stats.SolveTime)

	renderStart := time.Now()
	artifacts, err := Render(ctx, result, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Debug("rendered outputs", "formats", opts.Formats, "duration", result.Stats.RenderTime)
	return result, nil
}

// SolveWithCacheInfo solves g, consulting the cache first, and reports whether
// the result was a cache hit.
//
// Only complete results are cached: a run cut short by its timeout depends on
// machine speed and would not be reproducible.
func (r *Runner) SolveWithCacheInfo(ctx context.Context, g *graph.Graph, opts Options) (mewc.Result, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return mewc.Result{}, false, err
	}
	return r.solve(ctx, g, cache.GraphHash(g), opts)
}

// Solve is SolveWithCacheInfo without the cache hit flag.
func (r *Runner) Solve(ctx context.Context, g *graph.Graph, opts Options) (mewc.Result, error) {
	res, _, err := r.SolveWithCacheInfo(ctx, g, opts)
	return res, err
}

func (r *Runner) solve(ctx context.Context, g *graph.Graph, graphHash string, opts Options) (mewc.Result, bool, error) {
	hooks := observability.Solve()
	key := r.Keyer.SolveKey(graphHash, opts.KeyOpts())

	if !opts.Refresh {
		if res, ok := r.lookup(ctx, g, key, opts.Strategy); ok {
			hooks.OnSolveComplete(ctx, string(opts.Strategy), summarize(res, true), nil)
			return res, true, nil
		}
	}

	hooks.OnSolveStart(ctx, string(opts.Strategy), g.VertexCount(), g.EdgeCount())
	res, err := mewc.Solve(ctx, g, opts.Strategy, opts.Solver)
	hooks.OnSolveComplete(ctx, string(opts.Strategy), summarize(res, false), err)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return res, false, errs.Wrap(errs.ErrCodeTimeout, err, "%s", opts.Strategy)
		}
		return res, false, err
	}

	if res.Complete {
		r.store(ctx, key, res, opts.TTL)
	}
	return res, false, nil
}

// cachedSolve is the msgpack form of a cached mewc.Result.
type cachedSolve struct {
	Members    []int   `msgpack:"m"`
	Complete   bool    `msgpack:"c"`
	Iterations int64   `msgpack:"i"`
	Elapsed    int64   `msgpack:"e"`
	Trace      []int64 `msgpack:"t"`
}

func (r *Runner) lookup(ctx context.Context, g *graph.Graph, key string, s mewc.Strategy) (mewc.Result, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "err", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, "solve")
		return mewc.Result{}, false
	}

	var entry cachedSolve
	if err := msgpack.Unmarshal(data, &entry); err != nil {
		observability.Cache().OnCacheMiss(ctx, "solve")
		return mewc.Result{}, false
	}
	// a cached entry must still be a clique of g
	c, err := graph.NewClique(g, entry.Members)
	if err != nil {
		observability.Cache().OnCacheMiss(ctx, "solve")
		return mewc.Result{}, false
	}
	observability.Cache().OnCacheHit(ctx, "solve")
	return mewc.Result{
		Clique:     c,
		Strategy:   s,
		Complete:   entry.Complete,
		Iterations: entry.Iterations,
		Elapsed:    time.Duration(entry.Elapsed),
		Trace:      entry.Trace,
	}, true
}

func (r *Runner) store(ctx context.Context, key string, res mewc.Result, ttl time.Duration) {
	data, err := msgpack.Marshal(&cachedSolve{
		Members:    res.Clique.Members(),
		Complete:   res.Complete,
		Iterations: res.Iterations,
		Elapsed:    int64(res.Elapsed),
		Trace:      res.Trace,
	})
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, "solve", len(data))
}

func summarize(res mewc.Result, cached bool) observability.SolveSummary {
	return observability.SolveSummary{
		Weight:     res.Clique.Weight(),
		Size:       res.Clique.Size(),
		Complete:   res.Complete,
		Iterations: res.Iterations,
		Duration:   res.Elapsed,
		Cached:     cached,
	}
}

// Comparison is one strategy's outcome in [Runner.Compare].
type Comparison struct {
	Strategy mewc.Strategy
	Result   mewc.Result
	Cached   bool
}

// Compare solves g with every strategy, running up to limit solvers at once
// (DefaultConcurrency when limit <= 0). Results are returned in the order of
// strategies. Solvers share g read-only. opts.Solver.Rand is ignored because a
// generator cannot be shared between goroutines; each GRASP run seeds its own
// from opts.Solver.Seed. The first error cancels the remaining solvers.
func (r *Runner) Compare(ctx context.Context, g *graph.Graph, strategies []mewc.Strategy, opts Options, limit int) ([]Comparison, error) {
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	graphHash := cache.GraphHash(g)
	out := make([]Comparison, len(strategies))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(limit)
	for i, s := range strategies {
		o := opts
		o.Strategy = s
		o.Solver.Rand = nil
		o.validated = false
		eg.Go(func() error {
			if err := o.ValidateAndSetDefaults(); err != nil {
				return err
			}
			res, hit, err := r.solve(ctx, g, graphHash, o)
			if err != nil {
				return fmt.Errorf("%s: %w", o.Strategy, err)
			}
			out[i] = Comparison{Strategy: o.Strategy, Result: res, Cached: hit}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
