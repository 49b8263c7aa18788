// Package pipeline runs the load → solve → render flow shared by the CLI and
// the HTTP API.
//
// A [Runner] wraps [mewc.Solve] with a result cache keyed by the graph's
// content hash and the solver options, assigns every run a UUID, reports to
// the observability hooks, and renders the requested artifacts.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	g, err := pipeline.LoadGraph("10_50.in")
//	res, err := runner.Execute(ctx, g, pipeline.Options{
//	    Strategy: mewc.LocalSearch,
//	    Formats:  []string{pipeline.FormatOut, pipeline.FormatSVG},
//	})
//	os.WriteFile("out.svg", res.Artifacts[pipeline.FormatSVG], 0o644)
//
// [Runner.Compare] solves one graph with several strategies concurrently.
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mewc/pkg/cache"
	errs "github.com/matzehuels/mewc/pkg/errors"
	"github.com/matzehuels/mewc/pkg/graph"
	"github.com/matzehuels/mewc/pkg/mewc"
	"github.com/matzehuels/mewc/pkg/store"
)

const (
	// DefaultTTL is how long solve results stay cached.
	DefaultTTL = 7 * 24 * time.Hour

	// DefaultConcurrency bounds the strategies Compare runs at once.
	DefaultConcurrency = 4
)

// Output formats.
const (
	FormatOut  = "out"
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatOut:  true,
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
}

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errs.New(errs.ErrCodeInvalidFormat, "invalid format: %q (must be one of: out, json, dot, svg)", format)
	}
	return nil
}

// ValidateFormats checks every format in formats.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// Options configures one pipeline run.
type Options struct {
	Strategy mewc.Strategy `json:"strategy"`
	Formats  []string      `json:"formats,omitempty"`

	// Weights labels every edge in rendered diagrams.
	Weights bool `json:"weights,omitempty"`

	// Refresh bypasses cached results; the new result is still stored.
	Refresh bool `json:"refresh,omitempty"`

	// Solver tunes the search. Rand and Progress are never part of the
	// cache key.
	Solver mewc.Options  `json:"-"`
	TTL    time.Duration `json:"-"`
	Logger *log.Logger   `json:"-"`

	validated bool
}

// ValidateAndSetDefaults checks the options and fills defaults. Calling it more
// than once has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Strategy == "" {
		o.Strategy = mewc.Exact
	}
	s, err := mewc.ParseStrategy(string(o.Strategy))
	if err != nil {
		return err
	}
	o.Strategy = s

	if len(o.Formats) == 0 {
		o.Formats = []string{FormatOut}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := o.Solver.ValidateAndSetDefaults(); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidConfig, err, "solver options")
	}
	if o.TTL == 0 {
		o.TTL = DefaultTTL
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// KeyOpts returns the cache key inputs for these options.
func (o *Options) KeyOpts() cache.SolveKeyOpts {
	return cache.SolveKeyOptsFrom(o.Strategy, o.Solver)
}

// Result is the outcome of [Runner.Execute].
type Result struct {
	RunID     string
	CreatedAt time.Time
	Graph     *graph.Graph
	GraphHash string
	Solve     mewc.Result

	// Artifacts holds rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats holds sizes and timings of a run.
type Stats struct {
	Vertices   int
	Edges      int
	SolveTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo records whether the solve result came from the cache.
type CacheInfo struct {
	SolveHit bool
}

// Run converts the result into a history record.
func (r *Result) Run() store.Run {
	return store.Run{
		ID:         r.RunID,
		CreatedAt:  r.CreatedAt,
		Strategy:   string(r.Solve.Strategy),
		GraphHash:  r.GraphHash,
		Vertices:   r.Stats.Vertices,
		Edges:      r.Stats.Edges,
		Clique:     nonNil(r.Solve.Clique.Members()),
		Size:       r.Solve.Clique.Size(),
		Weight:     r.Solve.Clique.Weight(),
		Complete:   r.Solve.Complete,
		Iterations: r.Solve.Iterations,
		Elapsed:    r.Solve.Elapsed,
		Cached:     r.CacheInfo.SolveHit,
		Trace:      r.Solve.Trace,
	}
}

func nonNil(ids []int) []int {
	if ids == nil {
		return []int{}
	}
	return ids
}

func (r *Result) String() string {
	return fmt.Sprintf("%s %s %s", r.RunID, r.Solve.Strategy, r.Solve.Clique)
}
