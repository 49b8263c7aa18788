package mewc

import (
	"context"
	"time"

	errs "github.com/matzehuels/mewc/pkg/errors"
	"github.com/matzehuels/mewc/pkg/graph"
)

// Solver finds a heavy clique in a graph. Implementations only read g, so a
// graph may be shared by concurrent solvers.
type Solver interface {
	Solve(ctx context.Context, g *graph.Graph) (Result, error)
}

// New returns the solver for s configured with opts.
func New(s Strategy, opts Options) (Solver, error) {
	switch s {
	case Exact:
		return ExactSolver{Options: opts}, nil
	case Constructive:
		return ConstructiveSolver{Options: opts}, nil
	case LocalSearch:
		return LocalSearchSolver{Options: opts}, nil
	case Grasp:
		return GraspSolver{Options: opts}, nil
	}
	return nil, errs.Wrap(errs.ErrCodeInvalidStrategy, ErrUnknownStrategy, "%q", string(s))
}

// Solve dispatches g to the solver selected by s.
//
// When the timeout or iteration budget runs out, Solve returns the best
// clique found so far with Result.Complete set to false and a nil error.
// When ctx is done, it returns the best clique found so far together with
// ctx.Err().
func Solve(ctx context.Context, g *graph.Graph, s Strategy, opts Options) (Result, error) {
	solver, err := New(s, opts)
	if err != nil {
		return Result{}, err
	}
	return solver.Solve(ctx, g)
}

type searchFunc func(v *view, b *budget, opts *Options) ([]int, error)

func run(ctx context.Context, g *graph.Graph, s Strategy, opts Options, search searchFunc) (Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return Result{}, errs.Wrap(errs.ErrCodeInvalidConfig, err, "invalid %s options", s)
	}
	start := time.Now()
	v := newView(g)
	b := newBudget(ctx, s, &opts)

	members, searchErr := search(v, b, &opts)
	complete, err := outcome(searchErr)

	c, cerr := v.clique(g, members)
	if cerr != nil {
		return Result{}, errs.Wrap(errs.ErrCodeInternal, cerr, "%s produced an invalid clique", s)
	}
	return Result{
		Clique:     c,
		Strategy:   s,
		Complete:   complete,
		Iterations: b.n,
		Elapsed:    time.Since(start),
		Trace:      b.trace,
	}, err
}
