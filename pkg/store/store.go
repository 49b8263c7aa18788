// Package store keeps a history of solve runs.
//
// Two implementations of [Store] are provided: [MemoryStore] for the CLI and
// tests, and [MongoStore] for the HTTP API, which persists runs in a MongoDB
// collection indexed by creation time.
package store

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"
)

// ErrNotFound is returned when a run id is unknown.
var ErrNotFound = errors.New("run not found")

// DefaultListLimit bounds List when the caller passes zero.
const DefaultListLimit = 50

// Run is one recorded solve.
type Run struct {
	ID         string        `bson:"_id" json:"run_id"`
	CreatedAt  time.Time     `bson:"created_at" json:"created_at"`
	Strategy   string        `bson:"strategy" json:"strategy"`
	GraphHash  string        `bson:"graph_hash" json:"graph_hash"`
	Vertices   int           `bson:"vertices" json:"vertices_in_graph"`
	Edges      int           `bson:"edges" json:"edges_in_graph"`
	Clique     []int         `bson:"clique" json:"vertices"`
	Size       int           `bson:"size" json:"size"`
	Weight     int64         `bson:"weight" json:"weight"`
	Complete   bool          `bson:"complete" json:"complete"`
	Iterations int64         `bson:"iterations" json:"iterations"`
	Elapsed    time.Duration `bson:"elapsed" json:"elapsed_ns"`
	Cached     bool          `bson:"cached" json:"cached"`
	Trace      []int64       `bson:"trace,omitempty" json:"trace,omitempty"`
}

// Store persists runs.
type Store interface {
	Save(ctx context.Context, run Run) error
	Get(ctx context.Context, id string) (Run, error)
	// List returns the most recent runs first.
	List(ctx context.Context, limit int) ([]Run, error)
	Close(ctx context.Context) error
}

// MemoryStore is a Store backed by a map. It is safe for concurrent use.
type MemoryStore struct {
	mu   sync.RWMutex
	runs map[string]Run
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{runs: make(map[string]Run)}
}

func (s *MemoryStore) Save(_ context.Context, run Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	run.Clique = slices.Clone(run.Clique)
	run.Trace = slices.Clone(run.Trace)
	s.runs[run.ID] = run
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[id]
	if !ok {
		return Run{}, ErrNotFound
	}
	return run, nil
}

func (s *MemoryStore) List(_ context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	s.mu.RLock()
	out := make([]Run, 0, len(s.runs))
	for _, r := range s.runs {
		out = append(out, r)
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b Run) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) Close(context.Context) error { return nil }

var _ Store = (*MemoryStore)(nil)
