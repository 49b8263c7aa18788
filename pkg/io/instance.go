package io

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	errs "github.com/matzehuels/mewc/pkg/errors"
	"github.com/matzehuels/mewc/pkg/graph"
)

// ReadInstance decodes a .in instance from r.
//
// ReadInstance returns an INVALID_INSTANCE error if:
//   - A line contains anything but digits and spaces
//   - The header does not have exactly two fields
//   - An edge line does not have exactly three fields
//   - An edge references a vertex outside 1..n
//   - An edge is a self-loop or duplicates an earlier edge
//   - The number of edges differs from the header
//
// ReadInstance does not close r.
func ReadInstance(r io.Reader) (*graph.Graph, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	next := func() ([]int64, bool, error) {
		for sc.Scan() {
			lineNo++
			line := strings.TrimRight(sc.Text(), "\r")
			if strings.TrimSpace(line) == "" {
				continue
			}
			fields, err := parseFields(line)
			if err != nil {
				return nil, false, errs.Wrap(errs.ErrCodeInvalidInstance, err, "line %d", lineNo)
			}
			return fields, true, nil
		}
		if err := sc.Err(); err != nil {
			return nil, false, fmt.Errorf("read: %w", err)
		}
		return nil, false, nil
	}

	header, ok, err := next()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errs.New(errs.ErrCodeInvalidInstance, "missing header line")
	}
	if len(header) != 2 {
		return nil, errs.New(errs.ErrCodeInvalidInstance, "line %d: header must have 2 fields, got %d", lineNo, len(header))
	}
	n, m := header[0], header[1]
	if err := errs.ValidateVertexCount(int(n)); err != nil {
		return nil, err
	}

	g := graph.New()
	for id := 1; id <= int(n); id++ {
		if err := g.AddVertex(id); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInternal, err, "vertex %d", id)
		}
	}

	for {
		fields, ok, err := next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		if len(fields) != 3 {
			return nil, errs.New(errs.ErrCodeInvalidInstance, "line %d: edge must have 3 fields, got %d", lineNo, len(fields))
		}
		u, v, w := fields[0], fields[1], fields[2]
		if u < 1 || u > n || v < 1 || v > n {
			return nil, errs.New(errs.ErrCodeInvalidInstance, "line %d: vertex out of range 1..%d", lineNo, n)
		}
		if err := g.AddEdge(int(u), int(v), w); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidInstance, err, "line %d: edge %d-%d", lineNo, u, v)
		}
	}

	if int64(g.EdgeCount()) != m {
		return nil, errs.New(errs.ErrCodeInvalidInstance, "header declares %d edges, found %d", m, g.EdgeCount())
	}
	return g, nil
}

func parseFields(line string) ([]int64, error) {
	if i := strings.IndexFunc(line, func(r rune) bool { return r != ' ' && (r < '0' || r > '9') }); i >= 0 {
		return nil, fmt.Errorf("invalid character %q", line[i])
	}
	parts := strings.Fields(line)
	out := make([]int64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("field %d: %w", i+1, err)
		}
		out[i] = v
	}
	return out, nil
}

// ImportInstance reads the .in file at path.
func ImportInstance(path string) (*graph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	g, err := ReadInstance(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// WriteInstance encodes g in .in format. The vertex ids of g must be exactly
// 1..n; use the JSON format for sparse ids.
func WriteInstance(g *graph.Graph, w io.Writer) error {
	for i, id := range g.Vertices() {
		if id != i+1 {
			return errs.New(errs.ErrCodeInvalidFormat, "instance format needs vertices 1..%d, found id %d", g.VertexCount(), id)
		}
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d %d\n", g.VertexCount(), g.EdgeCount())
	for _, e := range g.Edges() {
		fmt.Fprintf(bw, "%d %d %d\n", e.U, e.V, e.Weight)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// ExportInstance writes g to path in .in format.
func ExportInstance(g *graph.Graph, path string) error {
	return writeFile(path, func(w io.Writer) error { return WriteInstance(g, w) })
}

// Import loads a graph, choosing the format by extension: ".json" is read
// as JSON, anything else as a .in instance.
func Import(path string) (*graph.Graph, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return ImportJSON(path)
	}
	return ImportInstance(path)
}

func writeFile(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
