package mewc

import (
	"time"

	"github.com/matzehuels/mewc/pkg/graph"
)

// Result is the outcome of a solver run.
type Result struct {
	// Clique is the best clique found. It is always a valid clique of the
	// input graph, possibly empty.
	Clique graph.Clique

	Strategy Strategy

	// Complete is false when the run stopped on its timeout or iteration
	// budget. Clique is then the best found so far.
	Complete bool

	// Iterations counts work units performed.
	Iterations int64

	Elapsed time.Duration

	// Trace lists the best weight each time it improved, in order. For local
	// search it is strictly increasing.
	Trace []int64
}

// ProgressEvent reports search state to Options.Progress.
type ProgressEvent struct {
	Strategy   Strategy
	Iterations int64
	Weight     int64 // best weight so far, -1 before the first solution
	Size       int
	Improved   bool // false for periodic heartbeats
	Trial      int  // GRASP trial (1-based), 0 for other strategies
}
