package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/mewc/pkg/config"
	errs "github.com/matzehuels/mewc/pkg/errors"
	"github.com/matzehuels/mewc/pkg/pipeline"
)

// paperInstance has the unique optimum {1, 2, 4} of weight 15.
const paperInstance = "4 4\n1 2 6\n1 3 3\n1 4 4\n2 4 5\n"

// isolate points configuration and cache lookups at fresh temporary
// directories and returns the cache root.
func isolate(t *testing.T) string {
	t.Helper()
	cacheHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", cacheHome)
	t.Setenv(config.EnvConfig, "")
	return cacheHome
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := New(&out, LogInfo).RootCommand()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&out)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeInstance(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestSolveWritesSolutionNextToInput(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	input := writeInstance(t, dir, "4_4.in", paperInstance)

	if _, err := run(t, "solve", input); err != nil {
		t.Fatal(err)
	}
	if got := readFile(t, filepath.Join(dir, "4_4_exact.out")); got != "3 15\n1 2 4\n" {
		t.Errorf("solution = %q", got)
	}
}

func TestSolveFormatsAndOutputDir(t *testing.T) {
	isolate(t)
	input := writeInstance(t, t.TempDir(), "4_4.in", paperInstance)
	out := t.TempDir()

	_, err := run(t, "solve", input, "-s", "local-search", "-f", "out,json,dot", "-o", out)
	if err != nil {
		t.Fatal(err)
	}
	for _, ext := range []string{".out", ".json", ".dot"} {
		path := filepath.Join(out, "4_4_local_search"+ext)
		if _, err := os.Stat(path); err != nil {
			t.Errorf("missing %s: %v", path, err)
		}
	}
	if !strings.HasPrefix(readFile(t, filepath.Join(out, "4_4_local_search.out")), "3 15\n") {
		t.Error("local search should find the optimum of the paper instance")
	}
}

func TestSolveErrors(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	input := writeInstance(t, dir, "4_4.in", paperInstance)

	tests := []struct {
		name string
		args []string
		code errs.Code
	}{
		{"missing output dir", []string{"solve", input, "-o", filepath.Join(dir, "nope")}, errs.ErrCodeInvalidPath},
		{"output dir is a file", []string{"solve", input, "-o", input}, errs.ErrCodeInvalidPath},
		{"unknown strategy", []string{"solve", input, "-s", "tabu"}, errs.ErrCodeInvalidConfig},
		{"nan alpha", []string{"solve", input, "-s", "grasp", "--grasp-alpha", "NaN"}, errs.ErrCodeInvalidConfig},
		{"unknown format", []string{"solve", input, "-f", "pdf"}, errs.ErrCodeInvalidFormat},
		{"missing instance", []string{"solve", filepath.Join(dir, "missing.in")}, errs.ErrCodeFileNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			if !errs.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestSolvePopulatesCache(t *testing.T) {
	cacheHome := isolate(t)
	input := writeInstance(t, t.TempDir(), "4_4.in", paperInstance)

	if _, err := run(t, "solve", input); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(filepath.Join(cacheHome, appName))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) == 0 {
		t.Error("cache directory is empty after a complete solve")
	}

	// second run is served from the cache and writes the same answer
	if _, err := run(t, "solve", input); err != nil {
		t.Fatal(err)
	}
	if got := readFile(t, strings.TrimSuffix(input, ".in")+"_exact.out"); got != "3 15\n1 2 4\n" {
		t.Errorf("cached solution = %q", got)
	}

	if _, err := run(t, "cache", "clear"); err != nil {
		t.Fatal(err)
	}
}

func TestSolveWithConfigFile(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	input := writeInstance(t, dir, "4_4.in", paperInstance)
	cfg := writeInstance(t, dir, "mewc.toml", "[solver]\nstrategy = \"constructive\"\n\n[cache]\nbackend = \"none\"\n")

	if _, err := run(t, "--config", cfg, "solve", input); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "4_4_constructive.out")); err != nil {
		t.Errorf("config strategy not used: %v", err)
	}
}

func TestGenerate(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	if _, err := run(t, "generate", "10", "50", "-o", dir); err != nil {
		t.Fatal(err)
	}
	g, err := pipeline.LoadGraph(filepath.Join(dir, "10_50.in"))
	if err != nil {
		t.Fatal(err)
	}
	if g.VertexCount() != 10 || g.EdgeCount() != 23 {
		t.Errorf("generated %d vertices, %d edges; want 10, 23", g.VertexCount(), g.EdgeCount())
	}

	if _, err := run(t, "generate", "6", "100", "-o", dir, "-f", "json"); err != nil {
		t.Fatal(err)
	}
	g, err = pipeline.LoadGraph(filepath.Join(dir, "6_100.json"))
	if err != nil {
		t.Fatal(err)
	}
	if g.EdgeCount() != 15 {
		t.Errorf("complete graph on 6 vertices has %d edges", g.EdgeCount())
	}
}

func TestGenerateRejectsBadArguments(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	for _, args := range [][]string{{"x5", "50"}, {"10", "101"}, {"10", "5.5"}} {
		_, err := run(t, append([]string{"generate", "-o", dir}, args...)...)
		if !errs.Is(err, errs.ErrCodeInvalidInput) {
			t.Errorf("generate %v: error = %v, want INVALID_INPUT", args, err)
		}
	}
	if _, err := run(t, "generate", "5", "50", "-o", dir, "-f", "csv"); !errs.Is(err, errs.ErrCodeInvalidFormat) {
		t.Errorf("unknown format: error = %v", err)
	}
}

func TestCompare(t *testing.T) {
	isolate(t)
	input := writeInstance(t, t.TempDir(), "4_4.in", paperInstance)

	if _, err := run(t, "compare", input, "--no-cache", "-j", "2"); err != nil {
		t.Fatal(err)
	}
	_, err := run(t, "compare", input, "--strategies", "exact,tabu")
	if !errs.Is(err, errs.ErrCodeInvalidStrategy) {
		t.Errorf("error = %v, want INVALID_STRATEGY", err)
	}
}

func TestRenderWithSolution(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	input := writeInstance(t, dir, "4_4.in", paperInstance)
	good := writeInstance(t, dir, "good.out", "3 15\n1 2 4\n")
	target := filepath.Join(dir, "clique.dot")

	if _, err := run(t, "render", input, good, "-f", "dot", "-o", target); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(readFile(t, target), "graph G {") {
		t.Error("render did not write a dot graph")
	}

	bad := writeInstance(t, dir, "bad.out", "3 99\n1 2 4\n")
	if _, err := run(t, "render", input, bad, "-f", "dot", "-o", target); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("weight mismatch: error = %v, want INVALID_INPUT", err)
	}

	notClique := writeInstance(t, dir, "nc.out", "3 12\n1 3 4\n")
	if _, err := run(t, "render", input, notClique, "-f", "dot", "-o", target); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("non-clique: error = %v, want INVALID_INPUT", err)
	}

	missing := filepath.Join(dir, "missing.out")
	if _, err := run(t, "render", input, missing, "-f", "dot"); !errs.Is(err, errs.ErrCodeFileNotFound) {
		t.Errorf("missing solution: error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestRenderSolvesWithoutSolution(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	input := writeInstance(t, dir, "4_4.in", paperInstance)

	if _, err := run(t, "render", input, "-s", "constructive", "--no-cache", "-f", "dot"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(readFile(t, filepath.Join(dir, "4_4.dot")), "graph G {") {
		t.Error("render did not write next to the instance")
	}
	if _, err := run(t, "render", input, "-f", "png"); !errs.Is(err, errs.ErrCodeInvalidFormat) {
		t.Errorf("png: error = %v, want INVALID_FORMAT", err)
	}
}

func TestCachePathAndClear(t *testing.T) {
	cacheHome := isolate(t)

	out, err := run(t, "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(cacheHome, appName); strings.TrimSpace(out) != want {
		t.Errorf("cache path = %q, want %q", out, want)
	}

	// clearing a cache that was never written is not an error
	if _, err := run(t, "cache", "clear"); err != nil {
		t.Fatal(err)
	}
}

func TestCompletion(t *testing.T) {
	isolate(t)
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		out, err := run(t, "completion", shell)
		if err != nil {
			t.Fatalf("%s: %v", shell, err)
		}
		if len(out) == 0 {
			t.Errorf("%s: empty completion script", shell)
		}
	}
}
