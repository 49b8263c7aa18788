package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	errs "github.com/matzehuels/mewc/pkg/errors"
	"github.com/matzehuels/mewc/pkg/graph"
)

type graphDoc struct {
	Vertices []int        `json:"vertices"`
	Edges    []graph.Edge `json:"edges"`
}

// ReadJSON decodes a JSON graph from r.
//
// Each edge must reference listed vertices. Errors are wrapped with the
// offending vertex or edge and carry the INVALID_INSTANCE code; use
// errors.Is with the graph sentinel errors for the specific cause.
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*graph.Graph, error) {
	var data graphDoc
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode")
	}

	g := graph.New()
	for _, id := range data.Vertices {
		if err := g.AddVertex(id); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidInstance, err, "vertex %d", id)
		}
	}
	for _, e := range data.Edges {
		if err := g.AddEdge(e.U, e.V, e.Weight); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidInstance, err, "edge %d-%d", e.U, e.V)
		}
	}
	return g, nil
}

// ImportJSON reads a JSON graph file at path.
func ImportJSON(path string) (*graph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

// WriteJSON encodes g as indented JSON. The output can be re-imported with
// [ReadJSON].
func WriteJSON(g *graph.Graph, w io.Writer) error {
	out := graphDoc{Vertices: g.Vertices(), Edges: g.Edges()}
	if out.Vertices == nil {
		out.Vertices = []int{}
	}
	if out.Edges == nil {
		out.Edges = []graph.Edge{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes g to path as JSON.
func ExportJSON(g *graph.Graph, path string) error {
	return writeFile(path, func(w io.Writer) error { return WriteJSON(g, w) })
}
