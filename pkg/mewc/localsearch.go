package mewc

import (
	"cmp"
	"context"
	"slices"

	"github.com/matzehuels/mewc/pkg/graph"
)

// LocalSearchSolver seeds a clique from the highest-degree vertex and its
// highest-degree neighbor, extends it greedily, and then repeatedly removes
// low-contribution members and re-extends the remainder. A move is accepted
// only when the re-extension gains more than the removal lost, so the clique
// weight never decreases.
//
// Single-member removals are tried first, least contribution first. Once
// every member has failed, subsets of k = 2, 3, ... members are removed in
// lexicographic order up to Options.MaxSwapSize (half the clique size when
// zero). Any accepted move restarts from single removals.
type LocalSearchSolver struct {
	Options Options
}

// Solve implements Solver.
func (s LocalSearchSolver) Solve(ctx context.Context, g *graph.Graph) (Result, error) {
	return run(ctx, g, LocalSearch, s.Options, searchLocal)
}

func searchLocal(v *view, b *budget, opts *Options) ([]int, error) {
	st := newState(v)
	ls := newSearcher(v, b, opts)
	if err := ls.seed(st); err != nil {
		return st.snapshot(), err
	}
	if st.size() == 0 {
		return nil, nil
	}
	b.improved(st.weight, st.size())

	err := ls.descend(st, opts.MaxSwapSize, func(st *state) {
		b.improved(st.weight, st.size())
	})
	return st.snapshot(), err
}

// searcher holds the scratch space shared by the extension searches of one
// solver run.
type searcher struct {
	v          *view
	b          *budget
	probeLimit int
	banned     []bool
	mark       []int
	stamp      int
}

func newSearcher(v *view, b *budget, opts *Options) *searcher {
	return &searcher{
		v:          v,
		b:          b,
		probeLimit: opts.ProbeLimit,
		banned:     make([]bool, v.n()),
		mark:       make([]int, v.n()),
	}
}

// seed forms the 2-clique of the highest-degree vertex and its
// highest-degree neighbor, then extends it greedily. Graphs without edges
// leave st empty.
func (ls *searcher) seed(st *state) error {
	v := ls.v
	if v.n() < 2 {
		return nil
	}
	u := 0
	for i := 1; i < v.n(); i++ {
		if v.degree[i] > v.degree[u] {
			u = i
		}
	}
	if v.degree[u] == 0 {
		return nil
	}
	w := -1
	for _, a := range v.adj[u] {
		if w < 0 || v.degree[a.to] > v.degree[w] {
			w = a.to
		}
	}
	st.add(u)
	st.add(w)
	_, _, err := ls.improve(st, -1)
	return err
}

// descend runs the swap neighborhood until no move is accepted. onAccept is
// called after every accepted move.
func (ls *searcher) descend(st *state, maxSwap int, onAccept func(*state)) error {
	tried := make([]bool, ls.v.n())
	accept := func() {
		clear(tried)
		if onAccept != nil {
			onAccept(st)
		}
	}

	k := 1
	for {
		if k == 1 {
			m := ls.leastContributing(st, tried)
			if m < 0 {
				k = 2
				continue
			}
			ok, err := ls.trySwap(st, []int{m})
			if err != nil {
				return err
			}
			if ok {
				accept()
			} else {
				tried[m] = true
			}
			continue
		}

		limit := st.size() / 2
		if maxSwap > 0 && maxSwap < limit {
			limit = maxSwap
		}
		if k > limit {
			return nil
		}
		ok, err := ls.trySubsets(st, k)
		if err != nil {
			return err
		}
		if ok {
			accept()
			k = 1
			continue
		}
		k++
	}
}

// leastContributing returns the untried member with the smallest
// contribution to the clique weight, or -1 when every member was tried.
func (ls *searcher) leastContributing(st *state, tried []bool) int {
	best := -1
	for _, m := range st.members {
		if tried[m] {
			continue
		}
		if best < 0 || st.link[m] < st.link[best] || (st.link[m] == st.link[best] && m < best) {
			best = m
		}
	}
	return best
}

// trySubsets tries removing every k-subset of the members in lexicographic
// order and stops at the first accepted move.
func (ls *searcher) trySubsets(st *state, k int) (bool, error) {
	members := st.snapshot()
	if k > len(members) {
		return false, nil
	}
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	subset := make([]int, k)
	for {
		for i, j := range idx {
			subset[i] = members[j]
		}
		ok, err := ls.trySwap(st, subset)
		if err != nil || ok {
			return ok, err
		}

		// Advance to the next combination.
		i := k - 1
		for i >= 0 && idx[i] == len(members)-k+i {
			i--
		}
		if i < 0 {
			return false, nil
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

// trySwap removes subset, bans it, and searches for a re-extension that gains
// more than the removal lost. On failure the clique is restored exactly.
func (ls *searcher) trySwap(st *state, subset []int) (bool, error) {
	before := st.weight
	for _, m := range subset {
		st.remove(m)
		ls.banned[m] = true
	}
	lost := before - st.weight

	var (
		accepted bool
		err      error
	)
	if st.size() > 0 {
		_, accepted, err = ls.improve(st, lost)
	}

	for _, m := range subset {
		ls.banned[m] = false
	}
	if !accepted {
		for _, m := range subset {
			st.add(m)
		}
	}
	return accepted, err
}

// probe is one node of the extension search.
type probe struct {
	cands []int // ordered by gain, then id
	next  int
	added int   // child currently applied to the state, -1 if none
	gain  int64 // cumulative gain at this node
	bans  []int // siblings banned at this node
}

// improve searches depth-first for a maximal extension of st whose total
// gain exceeds threshold. Candidates are tried in order of gain (largest
// first, smallest id on ties); a fully explored candidate is banned for its
// later siblings so no vertex set is visited twice. Branches whose upper
// bound cannot beat threshold are pruned.
//
// On success the extension is left applied and its gain returned. Otherwise
// st is rolled back to its input state. A search that exceeds the probe
// limit counts as unsuccessful.
func (ls *searcher) improve(st *state, threshold int64) (int64, bool, error) {
	if st.size() == 0 {
		return 0, false, nil
	}
	root := ls.candidates(st)
	if len(root) == 0 {
		return 0, threshold < 0, nil
	}

	stack := []probe{{cands: root, added: -1}}
	unwind := func(keep bool) {
		for i := len(stack) - 1; i >= 0; i-- {
			f := &stack[i]
			if !keep && f.added >= 0 {
				st.remove(f.added)
			}
			for _, u := range f.bans {
				ls.banned[u] = false
			}
		}
	}

	probes := 0
	for len(stack) > 0 {
		f := &stack[len(stack)-1]
		if f.added >= 0 {
			st.remove(f.added)
			ls.banned[f.added] = true
			f.bans = append(f.bans, f.added)
			f.added = -1
		}
		if f.next == len(f.cands) || (threshold >= 0 && f.gain+ls.bound(st, f.cands[f.next:]) <= threshold) {
			for _, u := range f.bans {
				ls.banned[u] = false
			}
			stack = stack[:len(stack)-1]
			continue
		}

		u := f.cands[f.next]
		f.next++
		if err := ls.b.step(); err != nil {
			unwind(false)
			return 0, false, err
		}
		if probes++; probes > ls.probeLimit {
			unwind(false)
			return 0, false, nil
		}

		gain := f.gain + st.link[u]
		st.add(u)
		f.added = u
		next := ls.candidates(st)
		if len(next) == 0 {
			if gain > threshold {
				unwind(true)
				return gain, true, nil
			}
			continue
		}
		stack = append(stack, probe{cands: next, added: -1, gain: gain})
	}
	return 0, false, nil
}

// candidates lists the unbanned vertices adjacent to every member.
func (ls *searcher) candidates(st *state) []int {
	v := ls.v
	narrow := st.members[0]
	for _, m := range st.members[1:] {
		if v.degree[m] < v.degree[narrow] {
			narrow = m
		}
	}
	var out []int
	for _, a := range v.adj[narrow] {
		if st.candidate(a.to) && !ls.banned[a.to] {
			out = append(out, a.to)
		}
	}
	slices.SortFunc(out, func(a, b int) int {
		if c := cmp.Compare(st.link[b], st.link[a]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	return out
}

// bound is an upper bound on the gain of adding any subset of cands: every
// candidate's link to the clique plus every edge among the candidates.
func (ls *searcher) bound(st *state, cands []int) int64 {
	ls.stamp++
	for _, c := range cands {
		ls.mark[c] = ls.stamp
	}
	var total int64
	for _, c := range cands {
		total += st.link[c]
		for _, a := range ls.v.adj[c] {
			if a.to > c && ls.mark[a.to] == ls.stamp {
				total += a.w
			}
		}
	}
	return total
}
