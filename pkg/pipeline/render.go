package pipeline

import (
	"bytes"
	"context"
	"encoding/json"

	mewcio "github.com/matzehuels/mewc/pkg/io"
	"github.com/matzehuels/mewc/pkg/render/nodelink"
)

// Render produces the artifacts named by opts.Formats for a solved result.
func Render(ctx context.Context, res *Result, opts Options) (map[string][]byte, error) {
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, err
	}
	artifacts := make(map[string][]byte, len(opts.Formats))

	var dot string
	needDOT := func() error {
		if dot != "" {
			return nil
		}
		var err error
		dot, err = nodelink.ToDOT(res.Graph, res.Solve.Clique, nodelink.Options{Weights: opts.Weights})
		return err
	}

	for _, format := range opts.Formats {
		switch format {
		case FormatOut:
			var buf bytes.Buffer
			if err := mewcio.WriteSolution(res.Solve.Clique, &buf); err != nil {
				return nil, err
			}
			artifacts[format] = buf.Bytes()
		case FormatJSON:
			data, err := json.MarshalIndent(res.Run(), "", "  ")
			if err != nil {
				return nil, err
			}
			artifacts[format] = append(data, '\n')
		case FormatDOT:
			if err := needDOT(); err != nil {
				return nil, err
			}
			artifacts[format] = []byte(dot)
		case FormatSVG:
			if err := needDOT(); err != nil {
				return nil, err
			}
			svg, err := nodelink.RenderSVG(ctx, dot)
			if err != nil {
				return nil, err
			}
			artifacts[format] = svg
		}
	}
	return artifacts, nil
}
