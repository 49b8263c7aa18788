// Package generate produces random MEWC instances.
//
// An instance has n vertices and exactly round(n(n-1)/2 · c/100) edges for a
// connectivity percentage c. Edges are chosen by selection sampling over all
// vertex pairs in lexicographic order, so every edge set of that size is
// equally likely, and weights are drawn uniformly from 1..MaxWeight.
package generate

import (
	"math/rand/v2"
	"strconv"

	errs "github.com/matzehuels/mewc/pkg/errors"
	"github.com/matzehuels/mewc/pkg/graph"
)

const (
	// DefaultSeed is used when Options.Seed is zero.
	DefaultSeed = uint64(42)

	// MaxWeight is the largest generated edge weight.
	MaxWeight = 100
)

// Options configures a generated instance.
type Options struct {
	Vertices     int
	Connectivity int // percentage of all vertex pairs connected, 0..100
	Seed         uint64
}

// EdgeCount returns the number of edges an instance with n vertices and
// connectivity c receives, rounded to the nearest integer.
func EdgeCount(n, c int) int64 {
	if n < 2 {
		return 0
	}
	pairs := int64(n) * int64(n-1) / 2
	return (pairs*int64(c) + 50) / 100
}

// Random builds an instance with vertices 1..n.
func Random(opts Options) (*graph.Graph, error) {
	if err := errs.ValidateVertexCount(opts.Vertices); err != nil {
		return nil, err
	}
	if err := errs.ValidateConnectivity(opts.Connectivity); err != nil {
		return nil, err
	}
	seed := opts.Seed
	if seed == 0 {
		seed = DefaultSeed
	}
	rng := rand.New(rand.NewPCG(seed, seed^0xdeadbeef))

	n := opts.Vertices
	g := graph.New()
	for id := 1; id <= n; id++ {
		if err := g.AddVertex(id); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInternal, err, "vertex %d", id)
		}
	}

	remaining := int64(n) * int64(max(n-1, 0)) / 2
	want := EdgeCount(n, opts.Connectivity)
	for u := 1; u <= n; u++ {
		for v := u + 1; v <= n; v++ {
			if rng.Int64N(remaining) < want {
				if err := g.AddEdge(u, v, 1+rng.Int64N(MaxWeight)); err != nil {
					return nil, errs.Wrap(errs.ErrCodeInternal, err, "edge %d-%d", u, v)
				}
				want--
			}
			remaining--
		}
	}
	return g, nil
}

// Filename returns the conventional instance file name "<n>_<c>.in".
func Filename(n, c int) string {
	return strconv.Itoa(n) + "_" + strconv.Itoa(c) + ".in"
}
