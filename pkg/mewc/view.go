package mewc

import (
	"slices"

	"github.com/matzehuels/mewc/pkg/graph"
)

type arc struct {
	to int
	w  int64
}

// view is a dense, read-only snapshot of a graph. Vertex ids are mapped to
// indexes 0..n-1 in ascending id order, so comparing indexes is the same as
// comparing ids and every "smallest id" tie-break is a plain integer compare.
type view struct {
	ids      []int
	adj      [][]arc         // sorted by neighbor index
	wt       []map[int]int64 // neighbor index -> weight
	degree   []int
	incident []int64
}

func newView(g *graph.Graph) *view {
	ids := g.Vertices()
	pos := make(map[int]int, len(ids))
	for i, id := range ids {
		pos[id] = i
	}
	v := &view{
		ids:      ids,
		adj:      make([][]arc, len(ids)),
		wt:       make([]map[int]int64, len(ids)),
		degree:   make([]int, len(ids)),
		incident: make([]int64, len(ids)),
	}
	for i, id := range ids {
		nbrs := g.Neighbors(id)
		v.adj[i] = make([]arc, len(nbrs))
		v.wt[i] = make(map[int]int64, len(nbrs))
		for j, nb := range nbrs {
			to := pos[nb.ID]
			v.adj[i][j] = arc{to: to, w: nb.Weight}
			v.wt[i][to] = nb.Weight
			v.incident[i] += nb.Weight
		}
		v.degree[i] = len(nbrs)
	}
	return v
}

func (v *view) n() int { return len(v.ids) }

func (v *view) connected(a, b int) bool {
	_, ok := v.wt[a][b]
	return ok
}

// clique converts dense members into a validated graph.Clique.
func (v *view) clique(g *graph.Graph, members []int) (graph.Clique, error) {
	ids := make([]int, len(members))
	for i, m := range members {
		ids[i] = v.ids[m]
	}
	slices.Sort(ids)
	return graph.NewClique(g, ids)
}

// state is a working clique with incremental bookkeeping. For every vertex u,
// link[u] is the total weight of edges from u to members and hits[u] the
// number of members adjacent to u. A non-member u is a candidate exactly when
// hits[u] equals the clique size, and adding it gains link[u]. For a member,
// link[u] is its contribution to the clique weight.
type state struct {
	v       *view
	in      []bool
	members []int
	weight  int64
	link    []int64
	hits    []int
}

func newState(v *view) *state {
	return &state{
		v:    v,
		in:   make([]bool, v.n()),
		link: make([]int64, v.n()),
		hits: make([]int, v.n()),
	}
}

func (s *state) size() int { return len(s.members) }

func (s *state) add(u int) {
	s.in[u] = true
	s.members = append(s.members, u)
	s.weight += s.link[u]
	for _, a := range s.v.adj[u] {
		s.link[a.to] += a.w
		s.hits[a.to]++
	}
}

func (s *state) remove(u int) {
	s.in[u] = false
	if i := slices.Index(s.members, u); i >= 0 {
		s.members = slices.Delete(s.members, i, i+1)
	}
	for _, a := range s.v.adj[u] {
		s.link[a.to] -= a.w
		s.hits[a.to]--
	}
	s.weight -= s.link[u]
}

func (s *state) candidate(u int) bool {
	return !s.in[u] && s.hits[u] == len(s.members)
}

// snapshot returns the members in ascending order.
func (s *state) snapshot() []int {
	out := slices.Clone(s.members)
	slices.Sort(out)
	return out
}

// reset replaces the working clique with members.
func (s *state) reset(members []int) {
	for _, m := range slices.Clone(s.members) {
		s.remove(m)
	}
	for _, m := range members {
		s.add(m)
	}
}
