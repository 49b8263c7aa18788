package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/matzehuels/mewc/pkg/graph"
)

// hashKey returns prefix:sha256(json(parts)).
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(sum[:]))
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// GraphHash returns a content hash of g that ignores insertion order: vertex
// ids ascending, then edges sorted by endpoints with their weights.
func GraphHash(g *graph.Graph) string {
	h := sha256.New()
	var buf [8]byte
	put := func(v uint64) {
		binary.BigEndian.PutUint64(buf[:], v)
		h.Write(buf[:])
	}

	vs := g.Vertices()
	put(uint64(len(vs)))
	for _, id := range vs {
		put(uint64(id))
	}
	es := g.Edges()
	put(uint64(len(es)))
	for _, e := range es {
		put(uint64(e.U))
		put(uint64(e.V))
		put(uint64(e.Weight))
	}
	return hex.EncodeToString(h.Sum(nil))
}
