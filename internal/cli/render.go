package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mewc/pkg/config"
	errs "github.com/matzehuels/mewc/pkg/errors"
	"github.com/matzehuels/mewc/pkg/graph"
	mewcio "github.com/matzehuels/mewc/pkg/io"
	"github.com/matzehuels/mewc/pkg/pipeline"
	"github.com/matzehuels/mewc/pkg/render/nodelink"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	solverFlags
	output      string // output file; defaults to the instance name with the format extension
	format      string // dot or svg
	weights     bool   // label every edge, not only clique edges
	layout      string // Graphviz engine
	maxVertices int    // refuse larger graphs; negative disables the limit
}

// renderCommand creates the render command. With a solution file the clique
// is read from it; otherwise the instance is solved first.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{format: pipeline.FormatSVG, layout: "neato"}

	cmd := &cobra.Command{
		Use:   "render <instance> [solution.out]",
		Short: "Draw an instance with its clique highlighted",
		Example: `  mewc render graphs/10_50.in graphs/10_50_exact.out
  mewc render graphs/10_50.in -s grasp -f dot -o clique.dot`,
		Args:              cobra.RangeArgs(1, 2),
		ValidArgsFunction: completeInstance,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.format != pipeline.FormatDOT && opts.format != pipeline.FormatSVG {
				return errs.New(errs.ErrCodeInvalidFormat, "invalid format: %q (must be dot or svg)", opts.format)
			}
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if err := opts.apply(cmd, &cfg); err != nil {
				return err
			}
			solution := ""
			if len(args) == 2 {
				solution = args[1]
			}
			return c.runRender(cmd.Context(), args[0], solution, cfg, opts)
		},
	}

	opts.register(cmd, true)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg (default), dot")
	cmd.Flags().BoolVar(&opts.weights, "weights", false, "label every edge with its weight")
	cmd.Flags().StringVar(&opts.layout, "layout", opts.layout, "Graphviz layout engine: neato, circo, dot, fdp")
	cmd.Flags().IntVar(&opts.maxVertices, "max-vertices", nodelink.DefaultMaxVertices, "largest graph to draw (-1 = no limit)")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input, solution string, cfg config.File, opts renderOpts) error {
	g, err := pipeline.LoadGraph(input)
	if err != nil {
		return err
	}
	c.Logger.Infof("Loaded %s: %d vertices, %d edges", input, g.VertexCount(), g.EdgeCount())

	var clique graph.Clique
	if solution != "" {
		clique, err = loadSolution(g, solution)
	} else {
		clique, err = c.solveForRender(ctx, g, cfg, opts)
	}
	if err != nil {
		return err
	}

	dot, err := nodelink.ToDOT(g, clique, nodelink.Options{
		Weights:     opts.weights,
		Layout:      opts.layout,
		MaxVertices: opts.maxVertices,
	})
	if err != nil {
		return err
	}

	data := []byte(dot)
	if opts.format == pipeline.FormatSVG {
		spinner := newSpinner(ctx, os.Stderr, "Rendering svg...")
		spinner.Start()
		data, err = nodelink.RenderSVG(ctx, dot)
		if err != nil {
			spinner.StopWithError("Render failed")
			return fmt.Errorf("render svg: %w", err)
		}
		spinner.Stop()
	}

	path := opts.output
	if path == "" {
		path = strings.TrimSuffix(input, filepath.Ext(input)) + "." + opts.format
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", path, err)
	}

	printSuccess("Rendered clique of weight %d", clique.Weight())
	printFile(path)
	return nil
}

// loadSolution reads a .out file and checks it against g: the members must
// form a clique whose weight matches the recorded one.
func loadSolution(g *graph.Graph, path string) (graph.Clique, error) {
	f, err := os.Open(path)
	if err != nil {
		return graph.Clique{}, errs.Wrap(errs.ErrCodeFileNotFound, err, "solution %s", path)
	}
	defer f.Close()

	sol, err := mewcio.ReadSolution(f)
	if err != nil {
		return graph.Clique{}, fmt.Errorf("%s: %w", path, err)
	}
	clique, err := graph.NewClique(g, sol.Vertices)
	if err != nil {
		return graph.Clique{}, errs.Wrap(errs.ErrCodeInvalidInput, err, "solution %s", path)
	}
	if clique.Weight() != sol.Weight {
		return graph.Clique{}, errs.New(errs.ErrCodeInvalidInput, "solution %s records weight %d, the clique weighs %d", path, sol.Weight, clique.Weight())
	}
	return clique, nil
}

func (c *CLI) solveForRender(ctx context.Context, g *graph.Graph, cfg config.File, opts renderOpts) (graph.Clique, error) {
	runner, err := c.newRunner(ctx, cfg.Cache, opts.noCache)
	if err != nil {
		return graph.Clique{}, fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	strategy := cfg.Strategy()
	ctx = withLogger(ctx, c.Logger)
	reporter := newSolveReporter(ctx, strategy, cfg.Solver.Timeout)
	solver := cfg.SolverOptions()
	solver.Progress = reporter.onProgress

	res, hit, err := runner.SolveWithCacheInfo(ctx, g, pipeline.Options{
		Strategy: strategy,
		Solver:   solver,
		TTL:      cfg.Cache.TTL,
		Logger:   c.Logger,
	})
	if err != nil {
		return graph.Clique{}, err
	}
	reporter.finish(res, hit)
	return res.Clique, nil
}
