package mewc

import (
	"cmp"
	"context"
	"slices"

	"github.com/matzehuels/mewc/pkg/graph"
)

// ConstructiveSolver builds a single clique greedily. Vertices are ranked by
// Options.Ranking (highest first, smallest id on ties); the top vertex seeds
// the clique and each following step adds the best-ranked vertex adjacent to
// every member, until no such vertex remains.
type ConstructiveSolver struct {
	Options Options
}

// Solve implements Solver.
func (s ConstructiveSolver) Solve(ctx context.Context, g *graph.Graph) (Result, error) {
	return run(ctx, g, Constructive, s.Options, searchConstructive)
}

func searchConstructive(v *view, b *budget, opts *Options) ([]int, error) {
	if v.n() == 0 {
		return nil, nil
	}
	order := v.ranking(opts.Ranking)

	seed := order[0]
	members := []int{seed}
	inP := make([]bool, v.n())
	pending := 0
	for _, a := range v.adj[seed] {
		inP[a.to] = true
		pending++
	}

	// Vertices skipped by the cursor were outside P when scanned, and P only
	// shrinks, so every remaining candidate lies after the cursor.
	cursor := 1
	for pending > 0 {
		if err := b.step(); err != nil {
			return members, err
		}
		for !inP[order[cursor]] {
			cursor++
		}
		u := order[cursor]
		cursor++
		members = append(members, u)
		inP[u] = false
		pending--
		for _, q := range order[cursor:] {
			if inP[q] && !v.connected(u, q) {
				inP[q] = false
				pending--
			}
		}
	}

	w, _ := cliqueWeight(v, members)
	b.improved(w, len(members))
	return members, nil
}

// ranking returns all vertices sorted by score descending, index ascending.
func (v *view) ranking(r Ranking) []int {
	score := func(u int) int64 {
		if r == RankWeight {
			return v.incident[u]
		}
		return int64(v.degree[u])
	}
	order := make([]int, v.n())
	for i := range order {
		order[i] = i
	}
	slices.SortFunc(order, func(a, b int) int {
		if c := cmp.Compare(score(b), score(a)); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	return order
}

// cliqueWeight sums the edge weights among dense members, reporting false
// when some pair is not connected.
func cliqueWeight(v *view, members []int) (int64, bool) {
	var total int64
	for i := range members {
		for j := i + 1; j < len(members); j++ {
			w, ok := v.wt[members[i]][members[j]]
			if !ok {
				return 0, false
			}
			total += w
		}
	}
	return total, true
}
