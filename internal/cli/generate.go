package cli

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/mewc/pkg/errors"
	"github.com/matzehuels/mewc/pkg/generate"
	mewcio "github.com/matzehuels/mewc/pkg/io"
	"github.com/matzehuels/mewc/pkg/pipeline"
)

// generateOpts holds the command-line flags for the generate command.
type generateOpts struct {
	outputDir string
	seed      uint64
	format    string // pipeline.InputInstance or pipeline.InputJSON
}

// generateCommand creates the generate command for random instances.
func (c *CLI) generateCommand() *cobra.Command {
	opts := generateOpts{outputDir: ".", format: pipeline.InputInstance}

	cmd := &cobra.Command{
		Use:   "generate <vertices> <connectivity>",
		Short: "Generate a random instance",
		Long: `Generate writes a random instance with the given number of vertices. The
connectivity is the percentage (0-100) of all vertex pairs joined by an edge;
edge weights are uniform in 1..100. The file is named <vertices>_<connectivity>.in.`,
		Example: `  mewc generate 100 50
  mewc generate 500 10 --seed 7 -o graphs/`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parseCount("vertices", args[0])
			if err != nil {
				return err
			}
			conn, err := parseCount("connectivity", args[1])
			if err != nil {
				return err
			}
			return c.runGenerate(n, conn, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.outputDir, "output-dir", "o", opts.outputDir, "directory for the instance file")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "generator seed (default 42)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "file format: in, json")

	return cmd
}

// parseCount parses a non-negative decimal argument. Signs are rejected.
func parseCount(name, s string) (int, error) {
	if s == "" || strings.TrimLeft(s, "0123456789") != "" {
		return 0, errs.New(errs.ErrCodeInvalidInput, "invalid %s: %q", name, s)
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid %s", name)
	}
	return n, nil
}

func (c *CLI) runGenerate(n, conn int, opts generateOpts) error {
	if err := checkOutputDir(opts.outputDir); err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	g, err := generate.Random(generate.Options{Vertices: n, Connectivity: conn, Seed: opts.seed})
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Generated %d vertices, %d edges", g.VertexCount(), g.EdgeCount()))

	name := generate.Filename(n, conn)
	path := filepath.Join(opts.outputDir, name)
	switch opts.format {
	case pipeline.InputInstance:
		err = mewcio.ExportInstance(g, path)
	case pipeline.InputJSON:
		path = strings.TrimSuffix(path, filepath.Ext(path)) + ".json"
		err = mewcio.ExportJSON(g, path)
	default:
		return errs.New(errs.ErrCodeInvalidFormat, "invalid format: %q (must be in or json)", opts.format)
	}
	if err != nil {
		return fmt.Errorf("write instance: %w", err)
	}

	printSuccess("Generated instance")
	printFile(path)
	printDetail("%d vertices · %d edges · %d%% connectivity", g.VertexCount(), g.EdgeCount(), conn)
	printNewline()
	printNextStep("Solve", "mewc solve "+path)
	return nil
}
