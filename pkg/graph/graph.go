package graph

import (
	"cmp"
	"errors"
	"maps"
	"slices"
)

var (
	// ErrInvalidVertexID is returned by [Graph.AddVertex] when the id is not
	// a positive integer.
	ErrInvalidVertexID = errors.New("vertex ID must be positive")

	// ErrUnknownVertex is returned by [Graph.AddEdge] when either endpoint has
	// not been added to the graph.
	ErrUnknownVertex = errors.New("unknown vertex")

	// ErrSelfLoop is returned by [Graph.AddEdge] when both endpoints are the
	// same vertex. Graphs are simple.
	ErrSelfLoop = errors.New("self-loops are not allowed")

	// ErrDuplicateEdge is returned by [Graph.AddEdge] when an edge between the
	// two endpoints already exists, in either direction. The graph is left
	// unchanged.
	ErrDuplicateEdge = errors.New("duplicate edge")

	// ErrNegativeWeight is returned by [Graph.AddEdge] for weights below zero.
	ErrNegativeWeight = errors.New("edge weight must be non-negative")

	// ErrIndexOutOfSync is returned by [Graph.Validate] when the adjacency
	// index disagrees with the edge arena. It indicates a programming defect.
	ErrIndexOutOfSync = errors.New("adjacency index out of sync with edge set")
)

// Edge is an undirected weighted edge. U is always the smaller endpoint for
// edges returned by the graph, so two edges with the same endpoints compare
// equal regardless of insertion order.
type Edge struct {
	U      int   `json:"u"`
	V      int   `json:"v"`
	Weight int64 `json:"weight"`
}

// Other returns the endpoint of e opposite to id.
// The result is undefined if id is not an endpoint of e.
func (e Edge) Other(id int) int {
	if e.U == id {
		return e.V
	}
	return e.U
}

// Neighbor is one entry of a vertex's adjacency list: the neighboring vertex
// and the weight of the connecting edge.
type Neighbor struct {
	ID     int
	Weight int64
}

// Graph is a simple undirected graph with non-negative integer edge weights.
//
// Edges live in a dense arena; the adjacency index maps each vertex to its
// neighbors and the arena slot of the connecting edge. Every mutation goes
// through AddEdge/RemoveEdge, which update both sides of the index together,
// so the index is always symmetric and consistent with the arena.
//
// The zero value is not usable - use New to create a graph.
// Graph is not safe for concurrent mutation. Concurrent reads are safe.
type Graph struct {
	vertices map[int]struct{}
	edges    []Edge
	adj      map[int]map[int]int // vertex -> neighbor -> arena index
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		vertices: make(map[int]struct{}),
		adj:      make(map[int]map[int]int),
	}
}

// AddVertex adds a vertex. Adding an existing vertex is a no-op.
// Returns ErrInvalidVertexID for ids <= 0.
func (g *Graph) AddVertex(id int) error {
	if id <= 0 {
		return ErrInvalidVertexID
	}
	if _, ok := g.vertices[id]; ok {
		return nil
	}
	g.vertices[id] = struct{}{}
	g.adj[id] = make(map[int]int)
	return nil
}

// RemoveVertex removes a vertex together with all incident edges.
// Removing an absent vertex is a no-op.
func (g *Graph) RemoveVertex(id int) {
	nbrs, ok := g.adj[id]
	if !ok {
		return
	}
	for _, n := range slices.Sorted(maps.Keys(nbrs)) {
		g.RemoveEdge(id, n)
	}
	delete(g.adj, id)
	delete(g.vertices, id)
}

// AddEdge connects two existing vertices with an edge of weight w.
//
// Returns ErrSelfLoop if u == v, ErrUnknownVertex if an endpoint is missing,
// ErrNegativeWeight if w < 0, or ErrDuplicateEdge if the vertices are already
// connected. On error the graph is not modified.
func (g *Graph) AddEdge(u, v int, w int64) error {
	if u == v {
		return ErrSelfLoop
	}
	if !g.HasVertex(u) || !g.HasVertex(v) {
		return ErrUnknownVertex
	}
	if w < 0 {
		return ErrNegativeWeight
	}
	if g.HasEdge(u, v) {
		return ErrDuplicateEdge
	}
	if u > v {
		u, v = v, u
	}
	idx := len(g.edges)
	g.edges = append(g.edges, Edge{U: u, V: v, Weight: w})
	g.adj[u][v] = idx
	g.adj[v][u] = idx
	return nil
}

// RemoveEdge removes the edge between u and v and reports whether it existed.
//
// The arena stays dense: the last edge is moved into the freed slot and its
// index entries are rewritten, so removal is O(1).
func (g *Graph) RemoveEdge(u, v int) bool {
	idx, ok := g.adj[u][v]
	if !ok {
		return false
	}
	last := len(g.edges) - 1
	if idx != last {
		moved := g.edges[last]
		g.edges[idx] = moved
		g.adj[moved.U][moved.V] = idx
		g.adj[moved.V][moved.U] = idx
	}
	g.edges = g.edges[:last]
	delete(g.adj[u], v)
	delete(g.adj[v], u)
	return true
}

// HasVertex reports whether id is a vertex of the graph.
func (g *Graph) HasVertex(id int) bool {
	_, ok := g.vertices[id]
	return ok
}

// HasEdge reports whether u and v are connected.
func (g *Graph) HasEdge(u, v int) bool {
	_, ok := g.adj[u][v]
	return ok
}

// EdgeWeight returns the weight of the edge between u and v.
// The boolean is false when no such edge exists; absent edges are a value,
// not an error.
func (g *Graph) EdgeWeight(u, v int) (int64, bool) {
	idx, ok := g.adj[u][v]
	if !ok {
		return 0, false
	}
	return g.edges[idx].Weight, true
}

// Edge returns the edge between u and v, normalized so that U < V.
func (g *Graph) Edge(u, v int) (Edge, bool) {
	idx, ok := g.adj[u][v]
	if !ok {
		return Edge{}, false
	}
	return g.edges[idx], true
}

// Vertices returns all vertex ids in ascending order.
func (g *Graph) Vertices() []int {
	return slices.Sorted(maps.Keys(g.vertices))
}

// Edges returns a copy of all edges sorted by (U, V).
func (g *Graph) Edges() []Edge {
	out := slices.Clone(g.edges)
	slices.SortFunc(out, func(a, b Edge) int {
		if c := cmp.Compare(a.U, b.U); c != 0 {
			return c
		}
		return cmp.Compare(a.V, b.V)
	})
	return out
}

// Neighbors returns the neighbors of id with the connecting edge weights,
// sorted by neighbor id. Returns nil for unknown or isolated vertices.
func (g *Graph) Neighbors(id int) []Neighbor {
	nbrs := g.adj[id]
	if len(nbrs) == 0 {
		return nil
	}
	out := make([]Neighbor, 0, len(nbrs))
	for n, idx := range nbrs {
		out = append(out, Neighbor{ID: n, Weight: g.edges[idx].Weight})
	}
	slices.SortFunc(out, func(a, b Neighbor) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

// Degree returns the number of neighbors of id, or 0 if id is unknown.
func (g *Graph) Degree(id int) int { return len(g.adj[id]) }

// IncidentWeight returns the sum of the weights of all edges incident to id.
func (g *Graph) IncidentWeight(id int) int64 {
	var sum int64
	for _, idx := range g.adj[id] {
		sum += g.edges[idx].Weight
	}
	return sum
}

// VertexCount returns the number of vertices.
func (g *Graph) VertexCount() int { return len(g.vertices) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// TotalWeight returns the sum of all edge weights.
func (g *Graph) TotalWeight() int64 {
	var sum int64
	for _, e := range g.edges {
		sum += e.Weight
	}
	return sum
}

// Clone returns a deep copy of the graph. Mutating the copy never affects g.
func (g *Graph) Clone() *Graph {
	c := &Graph{
		vertices: maps.Clone(g.vertices),
		edges:    slices.Clone(g.edges),
		adj:      make(map[int]map[int]int, len(g.adj)),
	}
	for id, nbrs := range g.adj {
		c.adj[id] = maps.Clone(nbrs)
	}
	return c
}

// Subgraph returns a copy of g induced by the given vertex ids.
// Ids that are not vertices of g are ignored.
func (g *Graph) Subgraph(ids []int) *Graph {
	s := New()
	for _, id := range ids {
		if g.HasVertex(id) {
			_ = s.AddVertex(id)
		}
	}
	for _, e := range g.Edges() {
		if s.HasVertex(e.U) && s.HasVertex(e.V) {
			_ = s.AddEdge(e.U, e.V, e.Weight)
		}
	}
	return s
}

// Validate checks that the adjacency index is symmetric and in sync with the
// edge arena. A non-nil result means the graph has been corrupted.
func (g *Graph) Validate() error {
	seen := 0
	for u, nbrs := range g.adj {
		if !g.HasVertex(u) {
			return ErrIndexOutOfSync
		}
		for v, idx := range nbrs {
			if idx < 0 || idx >= len(g.edges) {
				return ErrIndexOutOfSync
			}
			if back, ok := g.adj[v][u]; !ok || back != idx {
				return ErrIndexOutOfSync
			}
			e := g.edges[idx]
			if min(u, v) != e.U || max(u, v) != e.V {
				return ErrIndexOutOfSync
			}
			seen++
		}
	}
	if seen != 2*len(g.edges) || len(g.adj) != len(g.vertices) {
		return ErrIndexOutOfSync
	}
	return nil
}
