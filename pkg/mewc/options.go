package mewc

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// Ranking selects the vertex score used by the constructive solver.
type Ranking string

const (
	// RankDegree orders vertices by number of neighbors.
	RankDegree Ranking = "degree"
	// RankWeight orders vertices by the sum of incident edge weights.
	RankWeight Ranking = "weight"
)

const (
	// DefaultSeed seeds the GRASP generator when no Rand is supplied.
	DefaultSeed = uint64(42)

	// DefaultGraspTrials is the number of GRASP trials when none is set.
	DefaultGraspTrials = 10
	// DefaultGraspAlpha is the greediness suggested in configuration files.
	DefaultGraspAlpha = 0.2
	// DefaultGraspSwapSize caps the subsets GRASP refinement removes at once.
	DefaultGraspSwapSize = 2
	// DefaultProbeLimit caps the nodes of one clique extension search.
	DefaultProbeLimit = 100_000
)

// Options tunes the solvers. The zero value is valid: every field falls back
// to its default in ValidateAndSetDefaults.
type Options struct {
	// Timeout bounds wall-clock time. Zero means no limit beyond ctx.
	Timeout time.Duration

	// MaxIterations bounds the number of work units (Bron–Kerbosch nodes,
	// improvement probes, construction steps). Zero means unlimited.
	MaxIterations int64

	// Ranking is the constructive vertex score. Defaults to RankDegree.
	Ranking Ranking

	// MaxSwapSize caps the size of member subsets removed at once by local
	// search. Zero means half the current clique size.
	MaxSwapSize int

	// ProbeLimit caps the nodes explored by a single clique extension search.
	// An extension that hits the limit is treated as unproductive.
	ProbeLimit int

	// GraspTrials is the number of independent GRASP trials.
	GraspTrials int

	// GraspAlpha is the greediness parameter in [0,1]. Zero is purely greedy.
	GraspAlpha float64

	// GraspSwapSize caps the refinement subset size for GRASP.
	GraspSwapSize int

	// Seed seeds the PCG generator used when Rand is nil.
	Seed uint64

	// Rand overrides the random source for GRASP.
	Rand *rand.Rand `json:"-"`

	// Progress, if set, is called when the best clique improves and
	// periodically while the search runs.
	Progress func(ProgressEvent) `json:"-"`
}

// DefaultOptions returns options with every default filled in.
func DefaultOptions() Options {
	o := Options{}
	_ = o.ValidateAndSetDefaults()
	return o
}

// ValidateAndSetDefaults checks field ranges and applies defaults.
// Calling it more than once has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative: %v", o.Timeout)
	}
	if o.MaxIterations < 0 {
		return fmt.Errorf("max iterations must be non-negative: %d", o.MaxIterations)
	}
	if o.MaxSwapSize < 0 || o.GraspSwapSize < 0 || o.ProbeLimit < 0 || o.GraspTrials < 0 {
		return fmt.Errorf("sizes and limits must be non-negative")
	}
	if !(o.GraspAlpha >= 0 && o.GraspAlpha <= 1) {
		return fmt.Errorf("grasp alpha must be in [0,1]: %v", o.GraspAlpha)
	}

	switch o.Ranking {
	case "":
		o.Ranking = RankDegree
	case RankDegree, RankWeight:
	default:
		return fmt.Errorf("unknown ranking %q", o.Ranking)
	}
	if o.ProbeLimit == 0 {
		o.ProbeLimit = DefaultProbeLimit
	}
	if o.GraspTrials == 0 {
		o.GraspTrials = DefaultGraspTrials
	}
	if o.GraspSwapSize == 0 {
		o.GraspSwapSize = DefaultGraspSwapSize
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	return nil
}

func (o *Options) rng() *rand.Rand {
	if o.Rand != nil {
		return o.Rand
	}
	return rand.New(rand.NewPCG(o.Seed, o.Seed^0xdeadbeef))
}
