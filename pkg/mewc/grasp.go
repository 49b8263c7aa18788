package mewc

import (
	"context"
	"math/rand/v2"

	"github.com/matzehuels/mewc/pkg/graph"
)

// GraspSolver runs Options.GraspTrials independent trials of randomized
// greedy construction followed by local-search refinement restricted to
// removals of at most Options.GraspSwapSize members, and keeps the heaviest
// clique (the earliest on ties).
//
// Construction keeps a candidate set, initially every vertex. Each step takes
// γ, the largest incident-weight sum among candidates, and picks uniformly
// from the candidates scoring at least γ/(1+α). The candidate set then shrinks
// to the picked vertex's neighbors.
//
// Results are reproducible for a fixed Options.Seed or Options.Rand.
type GraspSolver struct {
	Options Options
}

// Solve implements Solver.
func (s GraspSolver) Solve(ctx context.Context, g *graph.Graph) (Result, error) {
	return run(ctx, g, Grasp, s.Options, searchGrasp)
}

func searchGrasp(v *view, b *budget, opts *Options) ([]int, error) {
	if v.n() == 0 {
		return nil, nil
	}
	rng := opts.rng()
	ls := newSearcher(v, b, opts)

	var best []int
	bestWeight := int64(-1)
	for trial := 1; trial <= opts.GraspTrials; trial++ {
		b.trial = trial
		st := newState(v)
		err := ls.construct(st, rng, opts.GraspAlpha)
		if err == nil {
			err = ls.descend(st, opts.GraspSwapSize, nil)
		}
		if st.weight > bestWeight {
			best, bestWeight = st.snapshot(), st.weight
			b.improved(st.weight, st.size())
		}
		if err != nil {
			return best, err
		}
	}
	return best, nil
}

// construct builds a clique with restricted candidate lists.
func (ls *searcher) construct(st *state, rng *rand.Rand, alpha float64) error {
	v := ls.v
	cand := make([]int, v.n())
	for i := range cand {
		cand[i] = i
	}
	var rcl []int
	for len(cand) > 0 {
		if err := ls.b.step(); err != nil {
			return err
		}
		top := cand[0]
		for _, c := range cand[1:] {
			if v.incident[c] > v.incident[top] {
				top = c
			}
		}
		limit := float64(v.incident[top]) / (1 + alpha)
		rcl = rcl[:0]
		for _, c := range cand {
			if float64(v.incident[c]) >= limit {
				rcl = append(rcl, c)
			}
		}
		u := top
		if len(rcl) > 0 {
			u = rcl[rng.IntN(len(rcl))]
		}
		st.add(u)

		next := cand[:0]
		for _, c := range cand {
			if c != u && v.connected(u, c) {
				next = append(next, c)
			}
		}
		cand = next
	}
	return nil
}
