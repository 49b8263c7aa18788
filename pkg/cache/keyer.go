package cache

import (
	"time"

	"github.com/matzehuels/mewc/pkg/mewc"
)

// SolveKeyOpts are the inputs besides the graph that determine a solve result.
type SolveKeyOpts struct {
	Strategy      mewc.Strategy `json:"strategy"`
	Timeout       time.Duration `json:"timeout"`
	MaxIterations int64         `json:"max_iterations"`
	Ranking       mewc.Ranking  `json:"ranking"`
	MaxSwapSize   int           `json:"max_swap_size"`
	ProbeLimit    int           `json:"probe_limit"`
	GraspTrials   int           `json:"grasp_trials"`
	GraspAlpha    float64       `json:"grasp_alpha"`
	GraspSwapSize int           `json:"grasp_swap_size"`
	Seed          uint64        `json:"seed"`
}

// SolveKeyOptsFrom extracts the key-relevant fields of opts. Options that
// only affect reporting, such as the progress callback, are left out.
func SolveKeyOptsFrom(s mewc.Strategy, opts mewc.Options) SolveKeyOpts {
	return SolveKeyOpts{
		Strategy:      s,
		Timeout:       opts.Timeout,
		MaxIterations: opts.MaxIterations,
		Ranking:       opts.Ranking,
		MaxSwapSize:   opts.MaxSwapSize,
		ProbeLimit:    opts.ProbeLimit,
		GraspTrials:   opts.GraspTrials,
		GraspAlpha:    opts.GraspAlpha,
		GraspSwapSize: opts.GraspSwapSize,
		Seed:          opts.Seed,
	}
}

// Keyer builds cache keys.
type Keyer interface {
	// SolveKey returns the key for a solve of the graph with the given hash.
	SolveKey(graphHash string, opts SolveKeyOpts) string
}

// DefaultKeyer produces unprefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) SolveKey(graphHash string, opts SolveKeyOpts) string {
	return hashKey("solve", graphHash, opts)
}

// ScopedKeyer prefixes the keys of another keyer, so that the CLI and the
// API can share one backend without colliding.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner (DefaultKeyer when nil) with prefix.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) SolveKey(graphHash string, opts SolveKeyOpts) string {
	return k.prefix + k.inner.SolveKey(graphHash, opts)
}
