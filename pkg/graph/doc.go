// Package graph provides the weighted undirected graph and clique model used by
// the MEWC solvers.
//
// # Overview
//
// A [Graph] stores positive integer vertex ids and undirected edges with
// non-negative integer weights. Edges live in a dense arena, and an adjacency
// index maps every vertex to its neighbors and the arena slot of the
// connecting edge. Queries are O(1) amortized:
//
//	g := graph.New()
//	_ = g.AddVertex(1)
//	_ = g.AddVertex(2)
//	_ = g.AddEdge(1, 2, 6)
//
//	w, ok := g.EdgeWeight(2, 1) // 6, true
//
// Graphs are simple: [Graph.AddEdge] rejects self-loops, duplicate edges and
// negative weights, and leaves the graph untouched on error. Missing edges and
// vertices are reported through boolean results rather than errors, so
// callers can treat "no edge" uniformly with "edge of weight w".
//
// # Cliques
//
// [CliqueWeight] evaluates a candidate vertex set in O(k²). A set with an
// unconnected pair is not a clique and yields an explicit invalid result:
//
//	w, ok := graph.CliqueWeight(g, []int{1, 2, 4})
//	if !ok {
//	    // not a clique; w carries no meaning
//	}
//
// [Clique] is the immutable value returned by solvers: sorted member ids plus
// the weight of the internal edges. Build one with [NewClique], which
// validates the set against the graph.
//
// # Concurrency
//
// Solvers treat a Graph as read-only and may share it across goroutines.
// Mutation is not synchronized; use [Graph.Clone] to obtain an independent
// copy before modifying a shared instance.
package graph
