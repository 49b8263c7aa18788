package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/matzehuels/mewc/pkg/cache"
	errs "github.com/matzehuels/mewc/pkg/errors"
	"github.com/matzehuels/mewc/pkg/graph"
	"github.com/matzehuels/mewc/pkg/mewc"
	"github.com/matzehuels/mewc/pkg/store"
)

const paperInstance = "4 4\n1 2 6\n1 3 3\n1 4 4\n2 4 5\n"

func paperGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g, err := DecodeGraph(strings.NewReader(paperInstance), InputInstance)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func newTestRunner(t *testing.T) *Runner {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return NewRunner(c, nil, nil)
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"out", false},
		{"json", false},
		{"dot", false},
		{"svg", false},
		{"png", true},
		{"SVG", true},
		{"", true},
	}
	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("empty formats should pass: %v", err)
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.Strategy != mewc.Exact {
		t.Errorf("Strategy = %s, want exact", opts.Strategy)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatOut {
		t.Errorf("Formats = %v, want [out]", opts.Formats)
	}
	if opts.TTL != DefaultTTL {
		t.Errorf("TTL = %v, want %v", opts.TTL, DefaultTTL)
	}
	if opts.Solver.ProbeLimit != mewc.DefaultProbeLimit {
		t.Errorf("Solver.ProbeLimit = %d, want default", opts.Solver.ProbeLimit)
	}

	opts.Strategy = "bogus"
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("second call should be a no-op, got %v", err)
	}
}

func TestOptionsErrors(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errs.Code
	}{
		{"strategy", Options{Strategy: "annealing"}, errs.ErrCodeInvalidStrategy},
		{"format", Options{Formats: []string{"png"}}, errs.ErrCodeInvalidFormat},
		{"solver", Options{Solver: mewc.Options{GraspAlpha: 2}}, errs.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if got := errs.GetCode(err); got != tt.code {
				t.Errorf("code = %v, want %v (%v)", got, tt.code, err)
			}
		})
	}
}

func TestExecute(t *testing.T) {
	r := newTestRunner(t)
	res, err := r.Execute(context.Background(), paperGraph(t), Options{
		Strategy: mewc.Exact,
		Formats:  []string{FormatOut, FormatJSON, FormatDOT},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if _, err := uuid.Parse(res.RunID); err != nil {
		t.Errorf("RunID %q is not a UUID: %v", res.RunID, err)
	}
	if got := res.Solve.Clique.Weight(); got != 15 {
		t.Errorf("weight = %d, want 15", got)
	}
	if got := string(res.Artifacts[FormatOut]); got != "3 15\n1 2 4\n" {
		t.Errorf("out = %q", got)
	}
	if !strings.HasPrefix(string(res.Artifacts[FormatDOT]), "graph G {") {
		t.Errorf("dot = %.40q", res.Artifacts[FormatDOT])
	}

	var run store.Run
	if err := json.Unmarshal(res.Artifacts[FormatJSON], &run); err != nil {
		t.Fatalf("json artifact: %v", err)
	}
	if run.ID != res.RunID || run.Weight != 15 || run.Strategy != "exact" || !run.Complete {
		t.Errorf("json artifact = %+v", run)
	}
	if res.Stats.Vertices != 4 || res.Stats.Edges != 4 {
		t.Errorf("Stats = %+v", res.Stats)
	}
}

func TestExecuteCache(t *testing.T) {
	ctx := context.Background()
	r := newTestRunner(t)
	g := paperGraph(t)
	opts := Options{Strategy: mewc.LocalSearch}

	first, err := r.Execute(ctx, g, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheInfo.SolveHit {
		t.Error("first run should miss")
	}

	second, err := r.Execute(ctx, g.Clone(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.SolveHit {
		t.Error("second run should hit")
	}
	if !second.Solve.Clique.Equal(first.Solve.Clique) {
		t.Errorf("cached clique %v, want %v", second.Solve.Clique, first.Solve.Clique)
	}
	if second.RunID == first.RunID {
		t.Error("each run needs its own id")
	}

	opts.Refresh = true
	third, err := r.Execute(ctx, g, opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheInfo.SolveHit {
		t.Error("refresh should bypass the cache")
	}
}

func TestIncompleteResultsNotCached(t *testing.T) {
	ctx := context.Background()
	r := newTestRunner(t)
	g := paperGraph(t)
	opts := Options{Strategy: mewc.Exact, Solver: mewc.Options{MaxIterations: 1}}

	res, hit, err := r.SolveWithCacheInfo(ctx, g, opts)
	if err != nil {
		t.Fatal(err)
	}
	if res.Complete || hit {
		t.Fatalf("Complete=%v hit=%v, want false,false", res.Complete, hit)
	}
	if _, hit, _ := r.SolveWithCacheInfo(ctx, g, opts); hit {
		t.Error("incomplete result should not be cached")
	}
}

func TestCorruptCacheEntryIsMiss(t *testing.T) {
	ctx := context.Background()
	r := newTestRunner(t)
	g := paperGraph(t)
	opts := Options{Strategy: mewc.Exact}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	key := r.Keyer.SolveKey(cache.GraphHash(g), opts.KeyOpts())
	if err := r.Cache.Set(ctx, key, []byte("not msgpack"), 0); err != nil {
		t.Fatal(err)
	}

	res, hit, err := r.SolveWithCacheInfo(ctx, g, opts)
	if err != nil {
		t.Fatal(err)
	}
	if hit {
		t.Error("corrupt entry should be a miss")
	}
	if res.Clique.Weight() != 15 {
		t.Errorf("weight = %d, want 15", res.Clique.Weight())
	}
}

func TestCompare(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	g := paperGraph(t)
	strategies := mewc.Strategies()

	got, err := r.Compare(context.Background(), g, strategies, Options{}, 2)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if len(got) != len(strategies) {
		t.Fatalf("len = %d, want %d", len(got), len(strategies))
	}
	for i, c := range got {
		if c.Strategy != strategies[i] {
			t.Errorf("got[%d].Strategy = %s, want %s", i, c.Strategy, strategies[i])
		}
		if !graph.IsClique(g, c.Result.Clique.Members()) {
			t.Errorf("%s returned a non-clique %v", c.Strategy, c.Result.Clique)
		}
		if c.Result.Clique.Weight() > got[0].Result.Clique.Weight() {
			t.Errorf("%s beat exact: %d > %d", c.Strategy, c.Result.Clique.Weight(), got[0].Result.Clique.Weight())
		}
	}
}

func TestCompareUnknownStrategy(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	_, err := r.Compare(context.Background(), paperGraph(t), []mewc.Strategy{mewc.Exact, "nope"}, Options{}, 0)
	if !errs.Is(err, errs.ErrCodeInvalidStrategy) {
		t.Errorf("err = %v, want INVALID_STRATEGY", err)
	}
}

func TestLoadGraph(t *testing.T) {
	if _, err := LoadGraph(filepath.Join(t.TempDir(), "missing.in")); !errs.Is(err, errs.ErrCodeFileNotFound) {
		t.Errorf("missing file err = %v, want FILE_NOT_FOUND", err)
	}
	if _, err := LoadGraph(""); !errs.Is(err, errs.ErrCodeInvalidPath) {
		t.Errorf("empty path err = %v, want INVALID_PATH", err)
	}
}

func TestDecodeGraph(t *testing.T) {
	g, err := DecodeGraph(strings.NewReader(`{"vertices":[1,2],"edges":[{"u":1,"v":2,"weight":3}]}`), "JSON")
	if err != nil {
		t.Fatalf("json: %v", err)
	}
	if g.EdgeCount() != 1 {
		t.Errorf("edges = %d, want 1", g.EdgeCount())
	}
	if _, err := DecodeGraph(bytes.NewReader(nil), "xml"); !errs.Is(err, errs.ErrCodeInvalidFormat) {
		t.Errorf("xml err = %v, want INVALID_FORMAT", err)
	}
}

func TestResultRunEmptyClique(t *testing.T) {
	res := &Result{RunID: "x"}
	run := res.Run()
	if run.Clique == nil || len(run.Clique) != 0 {
		t.Errorf("Clique = %#v, want empty non-nil", run.Clique)
	}
}
