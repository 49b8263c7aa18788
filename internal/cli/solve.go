package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mewc/pkg/config"
	errs "github.com/matzehuels/mewc/pkg/errors"
	mewcio "github.com/matzehuels/mewc/pkg/io"
	"github.com/matzehuels/mewc/pkg/mewc"
	"github.com/matzehuels/mewc/pkg/pipeline"
)

// solverFlags are the search settings shared by solve and compare. Only
// flags the user set override the configuration file.
type solverFlags struct {
	strategy      string
	timeout       time.Duration
	maxIterations int64
	ranking       string
	maxSwapSize   int
	probeLimit    int
	graspTrials   int
	graspAlpha    float64
	seed          uint64
	noCache       bool
}

func (f *solverFlags) register(cmd *cobra.Command, withStrategy bool) {
	if withStrategy {
		cmd.Flags().StringVarP(&f.strategy, "strategy", "s", "", "solver: exact (default), constructive, local-search, grasp")
		_ = cmd.RegisterFlagCompletionFunc("strategy", completeStrategy)
	}
	cmd.Flags().DurationVarP(&f.timeout, "timeout", "t", 0, "wall-clock budget per solve, e.g. 30s (0 = no limit)")
	cmd.Flags().Int64Var(&f.maxIterations, "max-iterations", 0, "work-unit budget per solve (0 = no limit)")
	cmd.Flags().StringVar(&f.ranking, "ranking", "", "constructive vertex score: degree (default), weight")
	cmd.Flags().IntVar(&f.maxSwapSize, "max-swap", 0, "largest member subset local search removes at once (0 = half the clique)")
	cmd.Flags().IntVar(&f.probeLimit, "probe-limit", 0, "node cap for a single clique extension search")
	cmd.Flags().IntVar(&f.graspTrials, "grasp-trials", 0, "number of GRASP trials")
	cmd.Flags().Float64Var(&f.graspAlpha, "grasp-alpha", 0, "GRASP greediness in [0,1] (0 = purely greedy)")
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "seed for the GRASP generator")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the result cache")
}

// apply overlays the flags the user set onto cfg and validates the result.
func (f *solverFlags) apply(cmd *cobra.Command, cfg *config.File) error {
	changed := cmd.Flags().Changed
	s := &cfg.Solver
	if changed("strategy") {
		s.Strategy = f.strategy
	}
	if changed("timeout") {
		s.Timeout = f.timeout
	}
	if changed("max-iterations") {
		s.MaxIterations = f.maxIterations
	}
	if changed("ranking") {
		s.Ranking = f.ranking
	}
	if changed("max-swap") {
		s.MaxSwapSize = f.maxSwapSize
	}
	if changed("probe-limit") {
		s.ProbeLimit = f.probeLimit
	}
	if changed("grasp-trials") {
		s.GraspTrials = f.graspTrials
	}
	if changed("grasp-alpha") {
		s.GraspAlpha = f.graspAlpha
	}
	if changed("seed") {
		s.Seed = f.seed
	}
	return cfg.Validate()
}

// solveOpts holds the command-line flags for the solve command.
type solveOpts struct {
	solverFlags
	outputDir   string // directory for result files; defaults to the input's
	formats     []string
	weights     bool // label every edge in dot/svg output
	refresh     bool // ignore cached results
	interactive bool // pick the strategy in a terminal UI
}

// solveCommand creates the solve command.
func (c *CLI) solveCommand() *cobra.Command {
	var opts solveOpts
	var formatsStr string

	cmd := &cobra.Command{
		Use:   "solve [instance]",
		Short: "Find a maximum edge-weighted clique",
		Long: `Solve reads an instance (.in or .json), runs one strategy, and writes
<name>_<strategy>.out next to the input (or into --output-dir).

Additional formats (json, dot, svg) are written with the same base name.`,
		Example: `  mewc solve graphs/10_50.in
  mewc solve graphs/100_25.in -s local-search -f out,svg
  mewc solve graphs/200_80.in -s exact --timeout 30s`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeInstance,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if err := opts.apply(cmd, &cfg); err != nil {
				return err
			}
			return c.runSolve(cmd.Context(), args[0], cfg, opts)
		},
	}

	opts.register(cmd, true)
	cmd.Flags().StringVarP(&opts.outputDir, "output-dir", "o", "", "directory for result files (default: next to the input)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): out (default), json, dot, svg (comma-separated)")
	cmd.Flags().BoolVar(&opts.weights, "weights", false, "label every edge in dot/svg output")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached results")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "choose the strategy interactively")
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormat)

	return cmd
}

// runSolve loads the instance, solves it, and writes the requested artifacts.
func (c *CLI) runSolve(ctx context.Context, input string, cfg config.File, opts solveOpts) error {
	ctx = withLogger(ctx, c.Logger)

	dir := outputDir(opts.outputDir, input)
	if err := checkOutputDir(dir); err != nil {
		return err
	}

	g, err := pipeline.LoadGraph(input)
	if err != nil {
		return err
	}
	c.Logger.Infof("Loaded %s: %d vertices, %d edges", input, g.VertexCount(), g.EdgeCount())

	strategy := cfg.Strategy()
	if opts.interactive {
		picked, ok, err := pickStrategy(strategy, g.VertexCount(), g.EdgeCount())
		if err != nil {
			return err
		}
		if !ok {
			printDetail("No selection made")
			return nil
		}
		strategy = picked
	}

	runner, err := c.newRunner(ctx, cfg.Cache, opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	reporter := newSolveReporter(ctx, strategy, cfg.Solver.Timeout)
	solver := cfg.SolverOptions()
	solver.Progress = reporter.onProgress

	spinner := newSpinner(ctx, os.Stderr, fmt.Sprintf("Solving with %s...", strategy))
	spinner.Start()

	res, err := runner.Execute(ctx, g, pipeline.Options{
		Strategy: strategy,
		Formats:  opts.formats,
		Weights:  opts.weights,
		Refresh:  opts.refresh,
		Solver:   solver,
		TTL:      cfg.Cache.TTL,
		Logger:   c.Logger,
	})
	if err != nil {
		spinner.StopWithError("Solve failed")
		return err
	}
	spinner.Stop()
	reporter.finish(res.Solve, res.CacheInfo.SolveHit)

	paths, err := writeArtifacts(dir, input, strategy, opts.formats, res.Artifacts)
	if err != nil {
		return err
	}

	clique := res.Solve.Clique
	printSuccess("Maximum clique weight %s", StyleNumber.Render(strconv.FormatInt(clique.Weight(), 10)))
	printKeyValue("Strategy", strategy.String())
	printKeyValue("Size", strconv.Itoa(clique.Size()))
	printKeyValue("Vertices", formatMembers(clique.Members(), 24))
	printKeyValue("Run", res.RunID)
	printStats(res.Stats.Vertices, res.Stats.Edges, res.Stats.SolveTime, res.CacheInfo.SolveHit)
	for _, p := range paths {
		printFile(p)
	}
	if !res.Solve.Complete {
		printWarning("Search stopped on its budget; the clique may not be optimal")
	}
	if slices.Contains(opts.formats, pipeline.FormatOut) {
		printNewline()
		printNextStep("Render", "mewc render "+input+" "+artifactPath(dir, input, strategy, pipeline.FormatOut))
	}

	return nil
}

// outputDir returns dir, or the directory of input when dir is empty.
func outputDir(dir, input string) string {
	if dir != "" {
		return dir
	}
	return filepath.Dir(input)
}

// artifactPath names the file for one format: the .out name from
// [mewcio.OutputFilename] with its extension swapped for other formats.
func artifactPath(dir, input string, s mewc.Strategy, format string) string {
	name := mewcio.OutputFilename(input, s.String())
	if format != pipeline.FormatOut {
		name = strings.TrimSuffix(name, ".out") + "." + format
	}
	return filepath.Join(dir, name)
}

// checkOutputDir verifies that dir exists and is a directory.
func checkOutputDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return errs.Wrap(errs.ErrCodeInvalidPath, err, "output directory")
	}
	if !info.IsDir() {
		return errs.New(errs.ErrCodeInvalidPath, "output directory %s is not a directory", dir)
	}
	return nil
}

// writeArtifacts writes every format in order and returns the paths.
func writeArtifacts(dir, input string, s mewc.Strategy, formats []string, artifacts map[string][]byte) ([]string, error) {
	paths := make([]string, 0, len(formats))
	for _, f := range formats {
		data, ok := artifacts[f]
		if !ok {
			continue
		}
		p := artifactPath(dir, input, s, f)
		if err := os.WriteFile(p, data, 0o644); err != nil {
			return nil, fmt.Errorf("write output %s: %w", p, err)
		}
		paths = append(paths, p)
	}
	return paths, nil
}
