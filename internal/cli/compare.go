package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mewc/pkg/config"
	"github.com/matzehuels/mewc/pkg/mewc"
	"github.com/matzehuels/mewc/pkg/pipeline"
)

// compareOpts holds the command-line flags for the compare command.
type compareOpts struct {
	solverFlags
	strategies  []mewc.Strategy
	concurrency int
}

// compareCommand creates the compare command, which runs several strategies
// on one instance at the same time.
func (c *CLI) compareCommand() *cobra.Command {
	var opts compareOpts
	var strategiesStr string

	cmd := &cobra.Command{
		Use:   "compare [instance]",
		Short: "Run several strategies on one instance and compare them",
		Example: `  mewc compare graphs/50_50.in
  mewc compare graphs/200_80.in --strategies constructive,local-search,grasp -t 10s`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeInstance,
		RunE: func(cmd *cobra.Command, args []string) error {
			strategies, err := parseStrategies(strategiesStr)
			if err != nil {
				return err
			}
			opts.strategies = strategies
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if err := opts.apply(cmd, &cfg); err != nil {
				return err
			}
			return c.runCompare(cmd.Context(), args[0], cfg, opts)
		},
	}

	opts.register(cmd, false)
	cmd.Flags().StringVar(&strategiesStr, "strategies", "", "comma-separated strategies (default: all)")
	cmd.Flags().IntVarP(&opts.concurrency, "concurrency", "j", pipeline.DefaultConcurrency, "strategies solved at once")
	_ = cmd.RegisterFlagCompletionFunc("strategies", completeStrategy)

	return cmd
}

func (c *CLI) runCompare(ctx context.Context, input string, cfg config.File, opts compareOpts) error {
	g, err := pipeline.LoadGraph(input)
	if err != nil {
		return err
	}
	c.Logger.Infof("Loaded %s: %d vertices, %d edges", input, g.VertexCount(), g.EdgeCount())

	runner, err := c.newRunner(ctx, cfg.Cache, opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spinner := newSpinner(ctx, os.Stderr, fmt.Sprintf("Solving with %d strategies...", len(opts.strategies)))
	spinner.Start()

	rows, err := runner.Compare(ctx, g, opts.strategies, pipeline.Options{
		Solver: cfg.SolverOptions(),
		TTL:    cfg.Cache.TTL,
		Logger: c.Logger,
	}, opts.concurrency)
	if err != nil {
		spinner.StopWithError("Compare failed")
		return err
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Compared %d strategies", len(rows)))

	fmt.Println(compareTable(rows))
	for _, r := range rows {
		if !r.Result.Complete {
			printWarning("%s stopped on its budget", r.Strategy)
		}
	}
	return nil
}
