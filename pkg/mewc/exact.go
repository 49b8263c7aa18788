package mewc

import (
	"context"
	"slices"

	errs "github.com/matzehuels/mewc/pkg/errors"
	"github.com/matzehuels/mewc/pkg/graph"
)

// ExactSolver enumerates all maximal cliques with Bron–Kerbosch and returns
// the heaviest. The pivot is the vertex of P ∪ X with the most neighbors in P
// (smallest id on ties) and branches are taken in ascending id order. Among
// maximal cliques of equal weight the first one enumerated wins.
type ExactSolver struct {
	Options Options
}

// Solve implements Solver.
func (s ExactSolver) Solve(ctx context.Context, g *graph.Graph) (Result, error) {
	return run(ctx, g, Exact, s.Options, searchExact)
}

func searchExact(v *view, b *budget, _ *Options) ([]int, error) {
	var best []int
	bestWeight := int64(-1)
	err := enumerate(v, b, func(r []int, w int64) bool {
		if w > bestWeight {
			best, bestWeight = slices.Clone(r), w
			b.improved(w, len(r))
		}
		return true
	})
	return best, err
}

// EnumerateMaximalCliques calls fn for every maximal clique of g in the
// canonical enumeration order used by ExactSolver. Enumeration stops early
// when fn returns false.
func EnumerateMaximalCliques(ctx context.Context, g *graph.Graph, fn func(graph.Clique) bool) error {
	v := newView(g)
	b := newBudget(ctx, Exact, &Options{})
	var convErr error
	err := enumerate(v, b, func(r []int, _ int64) bool {
		c, err := v.clique(g, r)
		if err != nil {
			convErr = err
			return false
		}
		return fn(c)
	})
	if convErr != nil {
		return errs.Wrap(errs.ErrCodeInternal, convErr, "enumeration produced an invalid clique")
	}
	return err
}

// bkFrame is one level of the Bron–Kerbosch search: the clique r built so far
// with its weight, the candidate set p, the excluded set x and the branch
// vertices still to expand.
type bkFrame struct {
	r      []int
	weight int64
	p, x   []int
	branch []int
	next   int
}

// enumerate runs Bron–Kerbosch with pivoting on an explicit stack and
// reports every maximal clique to fn. Sets are sorted dense index slices.
func enumerate(v *view, b *budget, fn func(r []int, weight int64) bool) error {
	if v.n() == 0 {
		return nil
	}
	all := make([]int, v.n())
	for i := range all {
		all[i] = i
	}
	stack := []bkFrame{{p: all, branch: v.branchSet(all, nil)}}

	for len(stack) > 0 {
		f := &stack[len(stack)-1]
		if f.next == len(f.branch) {
			stack = stack[:len(stack)-1]
			continue
		}
		u := f.branch[f.next]
		f.next++
		if err := b.step(); err != nil {
			return err
		}

		r := append(slices.Clone(f.r), u)
		w := f.weight
		for _, m := range f.r {
			w += v.wt[u][m]
		}
		p := v.restrict(f.p, u)
		x := v.restrict(f.x, u)
		f.p = removeSorted(f.p, u)
		f.x = insertSorted(f.x, u)

		if len(p) == 0 {
			if len(x) == 0 && !fn(r, w) {
				return nil
			}
			continue
		}
		stack = append(stack, bkFrame{r: r, weight: w, p: p, x: x, branch: v.branchSet(p, x)})
	}
	return nil
}

// branchSet picks the pivot and returns P \ N(pivot).
func (v *view) branchSet(p, x []int) []int {
	pivot, most := -1, -1
	consider := func(u int) {
		n := 0
		for _, q := range p {
			if v.connected(u, q) {
				n++
			}
		}
		if n > most || (n == most && u < pivot) {
			pivot, most = u, n
		}
	}
	for _, u := range p {
		consider(u)
	}
	for _, u := range x {
		consider(u)
	}

	out := make([]int, 0, len(p)-most)
	for _, q := range p {
		if !v.connected(pivot, q) {
			out = append(out, q)
		}
	}
	return out
}

// restrict returns the members of set adjacent to u, preserving order.
func (v *view) restrict(set []int, u int) []int {
	var out []int
	for _, q := range set {
		if v.connected(u, q) {
			out = append(out, q)
		}
	}
	return out
}

func removeSorted(set []int, u int) []int {
	if i, ok := slices.BinarySearch(set, u); ok {
		return slices.Delete(set, i, i+1)
	}
	return set
}

func insertSorted(set []int, u int) []int {
	i, ok := slices.BinarySearch(set, u)
	if ok {
		return set
	}
	return slices.Insert(set, i, u)
}
