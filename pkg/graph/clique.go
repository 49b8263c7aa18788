package graph

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// ErrNotClique is returned by [NewClique] when two members are not connected.
var ErrNotClique = errors.New("vertex set is not a clique")

// CliqueWeight returns the total weight of the edges between the given
// vertices. The boolean is false when some pair is not connected (or a vertex
// is unknown), in which case the set is not a clique and the weight is
// meaningless - callers must not treat it as zero.
//
// Duplicate ids are ignored, so no pair is ever counted twice. The empty set
// and singletons are cliques of weight 0. Runs in O(k²).
func CliqueWeight(g *Graph, ids []int) (int64, bool) {
	members := normalize(ids)
	if len(members) == 1 && !g.HasVertex(members[0]) {
		return 0, false
	}
	var total int64
	for i := 0; i < len(members); i++ {
		for j := i + 1; j < len(members); j++ {
			w, ok := g.EdgeWeight(members[i], members[j])
			if !ok {
				return 0, false
			}
			total += w
		}
	}
	return total, true
}

// IsClique reports whether every pair of ids is connected in g.
func IsClique(g *Graph, ids []int) bool {
	_, ok := CliqueWeight(g, ids)
	return ok
}

// Clique is a set of pairwise connected vertices together with the weight of
// its internal edges. The zero value is the empty clique of weight 0.
//
// Clique is an immutable value; members are kept sorted ascending.
type Clique struct {
	members []int
	weight  int64
}

// NewClique builds a clique from ids, validating it against g.
// Returns an error wrapping ErrNotClique naming the first unconnected pair.
func NewClique(g *Graph, ids []int) (Clique, error) {
	members := normalize(ids)
	for _, id := range members {
		if !g.HasVertex(id) {
			return Clique{}, fmt.Errorf("%w: vertex %d: %w", ErrNotClique, id, ErrUnknownVertex)
		}
	}
	var total int64
	for i := 0; i < len(members); i++ {
		for j := i + 1; j < len(members); j++ {
			w, ok := g.EdgeWeight(members[i], members[j])
			if !ok {
				return Clique{}, fmt.Errorf("%w: no edge %d-%d", ErrNotClique, members[i], members[j])
			}
			total += w
		}
	}
	return Clique{members: members, weight: total}, nil
}

// Members returns a copy of the member ids in ascending order.
func (c Clique) Members() []int { return slices.Clone(c.members) }

// Weight returns the sum of the internal edge weights.
func (c Clique) Weight() int64 { return c.weight }

// Size returns the number of members.
func (c Clique) Size() int { return len(c.members) }

// IsEmpty reports whether the clique has no members.
func (c Clique) IsEmpty() bool { return len(c.members) == 0 }

// Contains reports whether id is a member.
func (c Clique) Contains(id int) bool {
	_, ok := slices.BinarySearch(c.members, id)
	return ok
}

// Equal reports whether both cliques have the same members and weight.
func (c Clique) Equal(o Clique) bool {
	return c.weight == o.weight && slices.Equal(c.members, o.members)
}

// String formats the clique as "{1 2 4} w=15".
func (c Clique) String() string {
	parts := make([]string, len(c.members))
	for i, m := range c.members {
		parts[i] = strconv.Itoa(m)
	}
	return "{" + strings.Join(parts, " ") + "} w=" + strconv.FormatInt(c.weight, 10)
}

func normalize(ids []int) []int {
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}
