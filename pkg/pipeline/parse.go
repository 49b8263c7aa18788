package pipeline

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	errs "github.com/matzehuels/mewc/pkg/errors"
	"github.com/matzehuels/mewc/pkg/graph"
	mewcio "github.com/matzehuels/mewc/pkg/io"
)

// Input formats accepted by DecodeGraph.
const (
	InputInstance = "in"
	InputJSON     = "json"
)

// LoadGraph reads an instance file, choosing the format by extension.
// A missing file is reported with the FILE_NOT_FOUND code.
func LoadGraph(path string) (*graph.Graph, error) {
	if err := errs.ValidatePath(path); err != nil {
		return nil, err
	}
	g, err := mewcio.Import(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "instance %s", path)
	}
	if err != nil {
		return nil, err
	}
	return g, nil
}

// DecodeGraph reads a graph in the named format ("in" or "json").
func DecodeGraph(r io.Reader, format string) (*graph.Graph, error) {
	switch strings.ToLower(format) {
	case InputInstance, "":
		return mewcio.ReadInstance(r)
	case InputJSON:
		g, err := mewcio.ReadJSON(r)
		if err != nil {
			return nil, err
		}
		if err := errs.ValidateVertexCount(g.VertexCount()); err != nil {
			return nil, err
		}
		return g, nil
	}
	return nil, errs.New(errs.ErrCodeInvalidFormat, "unknown input format %q", format)
}

// describe summarizes g for log lines.
func describe(g *graph.Graph) string {
	return fmt.Sprintf("%d vertices, %d edges", g.VertexCount(), g.EdgeCount())
}
