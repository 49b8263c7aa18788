package cli

import (
	"context"
	"io"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/mewc/pkg/cache"
	"github.com/matzehuels/mewc/pkg/config"
	errs "github.com/matzehuels/mewc/pkg/errors"
	"github.com/matzehuels/mewc/pkg/graph"
	"github.com/matzehuels/mewc/pkg/mewc"
	"github.com/matzehuels/mewc/pkg/pipeline"
)

func TestCacheDir(t *testing.T) {
	t.Run("xdg", func(t *testing.T) {
		base := t.TempDir()
		t.Setenv("XDG_CACHE_HOME", base)
		dir, err := cacheDir()
		if err != nil {
			t.Fatal(err)
		}
		if want := filepath.Join(base, appName); dir != want {
			t.Errorf("cacheDir() = %q, want %q", dir, want)
		}
	})

	t.Run("home", func(t *testing.T) {
		t.Setenv("XDG_CACHE_HOME", "")
		dir, err := cacheDir()
		if err != nil {
			t.Skip("no home directory")
		}
		if !strings.HasSuffix(dir, filepath.Join(".cache", appName)) {
			t.Errorf("cacheDir() = %q, want it under ~/.cache", dir)
		}
	})
}

func TestParseFormats(t *testing.T) {
	if got := parseFormats(""); !slices.Equal(got, []string{pipeline.FormatOut}) {
		t.Errorf("parseFormats(\"\") = %v", got)
	}
	if got := parseFormats("out, json,,dot "); !slices.Equal(got, []string{"out", "json", "dot"}) {
		t.Errorf("parseFormats = %v", got)
	}
}

func TestParseStrategies(t *testing.T) {
	all, err := parseStrategies("")
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(all, mewc.Strategies()) {
		t.Errorf("empty list = %v, want all strategies", all)
	}

	got, err := parseStrategies("grasp, local_search")
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(got, []mewc.Strategy{mewc.Grasp, mewc.LocalSearch}) {
		t.Errorf("parseStrategies = %v", got)
	}

	if _, err := parseStrategies("exact,tabu"); !errs.Is(err, errs.ErrCodeInvalidStrategy) {
		t.Errorf("unknown strategy error = %v, want INVALID_STRATEGY", err)
	}
}

func TestNewCache(t *testing.T) {
	ctx := context.Background()

	c, err := newCache(ctx, config.Cache{Backend: config.CacheFile, Dir: t.TempDir()}, false)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.(*cache.FileCache); !ok {
		t.Errorf("file backend gave %T", c)
	}

	for name, tc := range map[string]struct {
		cfg     config.Cache
		noCache bool
	}{
		"none backend":  {config.Cache{Backend: config.CacheNone}, false},
		"no-cache flag": {config.Cache{Backend: config.CacheFile, Dir: t.TempDir()}, true},
	} {
		c, err := newCache(ctx, tc.cfg, tc.noCache)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if _, ok := c.(cache.NullCache); !ok {
			t.Errorf("%s: got %T, want NullCache", name, c)
		}
	}
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	var names []string
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	for _, want := range []string{"solve", "compare", "generate", "render", "serve", "cache", "completion"} {
		if !slices.Contains(names, want) {
			t.Errorf("missing subcommand %q in %v", want, names)
		}
	}
	if root.PersistentFlags().Lookup("config") == nil {
		t.Error("missing --config flag")
	}
}

func TestSolverFlagsApply(t *testing.T) {
	c := New(io.Discard, LogInfo)
	cmd := c.solveCommand()
	if err := cmd.ParseFlags([]string{"-s", "grasp", "--grasp-trials", "7"}); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.Solver.Timeout = 5 * time.Second

	var opts solveOpts
	opts.strategy = "grasp"
	opts.graspTrials = 7
	if err := opts.apply(cmd, &cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Strategy() != mewc.Grasp || cfg.Solver.GraspTrials != 7 {
		t.Errorf("changed flags not applied: %+v", cfg.Solver)
	}
	if cfg.Solver.Timeout != 5*time.Second {
		t.Errorf("unset --timeout overrode config: %v", cfg.Solver.Timeout)
	}
}

func TestSolverFlagsApplyInvalid(t *testing.T) {
	cmd := New(io.Discard, LogInfo).solveCommand()
	if err := cmd.ParseFlags([]string{"-s", "tabu"}); err != nil {
		t.Fatal(err)
	}
	cfg := config.Default()
	opts := solveOpts{solverFlags: solverFlags{strategy: "tabu"}}
	if err := opts.apply(cmd, &cfg); !errs.Is(err, errs.ErrCodeInvalidConfig) {
		t.Errorf("apply() error = %v, want INVALID_CONFIG", err)
	}
}

func TestListenHost(t *testing.T) {
	tests := map[string]string{
		":8080":          "localhost:8080",
		"127.0.0.1:9000": "127.0.0.1:9000",
	}
	for in, want := range tests {
		if got := listenHost(in); got != want {
			t.Errorf("listenHost(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatMembers(t *testing.T) {
	tests := []struct {
		ids   []int
		limit int
		want  string
	}{
		{nil, 5, "(empty)"},
		{[]int{1, 2, 3}, 5, "1 2 3"},
		{[]int{1, 2, 3}, 0, "1 2 3"},
		{[]int{1, 2, 3, 4, 5, 6}, 4, "1 2 3 … +3"},
	}
	for _, tt := range tests {
		if got := formatMembers(tt.ids, tt.limit); got != tt.want {
			t.Errorf("formatMembers(%v, %d) = %q, want %q", tt.ids, tt.limit, got, tt.want)
		}
	}
}

func TestCompareTable(t *testing.T) {
	g := graph.New()
	for _, v := range []int{1, 2} {
		_ = g.AddVertex(v)
	}
	_ = g.AddEdge(1, 2, 6)
	pair, err := graph.NewClique(g, []int{1, 2})
	if err != nil {
		t.Fatal(err)
	}
	single, err := graph.NewClique(g, []int{1})
	if err != nil {
		t.Fatal(err)
	}

	out := compareTable([]pipeline.Comparison{
		{Strategy: mewc.Exact, Result: mewc.Result{Clique: pair, Complete: true}},
		{Strategy: mewc.Constructive, Result: mewc.Result{Clique: single}, Cached: true},
	})
	for _, want := range []string{"Strategy", "exact", "constructive", "budget", "6"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestAPIRunnerScopesCacheKeys(t *testing.T) {
	ctx := context.Background()
	c := New(io.Discard, LogInfo)
	cfg := config.Cache{Backend: config.CacheFile, Dir: t.TempDir()}

	cliRunner, err := c.newRunner(ctx, cfg, false)
	if err != nil {
		t.Fatal(err)
	}
	defer cliRunner.Close()
	apiRunner, err := c.newAPIRunner(ctx, cfg, false)
	if err != nil {
		t.Fatal(err)
	}
	defer apiRunner.Close()

	opts := cache.SolveKeyOpts{Strategy: mewc.Exact}
	cliKey := cliRunner.Keyer.SolveKey("abc", opts)
	apiKey := apiRunner.Keyer.SolveKey("abc", opts)
	if apiKey != apiKeyScope+cliKey {
		t.Errorf("api key = %q, want %q", apiKey, apiKeyScope+cliKey)
	}
}
