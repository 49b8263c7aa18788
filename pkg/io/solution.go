package io

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	errs "github.com/matzehuels/mewc/pkg/errors"
	"github.com/matzehuels/mewc/pkg/graph"
)

// Solution is a decoded .out file.
type Solution struct {
	Size     int   `json:"size"`
	Weight   int64 `json:"weight"`
	Vertices []int `json:"vertices"`
}

// WriteSolution encodes c in .out format.
func WriteSolution(c graph.Clique, w io.Writer) error {
	ids := c.Members()
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	if _, err := fmt.Fprintf(w, "%d %d\n%s\n", c.Size(), c.Weight(), strings.Join(parts, " ")); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// ExportSolution writes c to path in .out format.
func ExportSolution(c graph.Clique, path string) error {
	return writeFile(path, func(w io.Writer) error { return WriteSolution(c, w) })
}

// ReadSolution decodes a .out file. The member count must match the declared
// size; the weight is not checked against any graph.
func ReadSolution(r io.Reader) (Solution, error) {
	sc := bufio.NewScanner(r)
	var lines []string
	for sc.Scan() {
		lines = append(lines, strings.TrimSpace(sc.Text()))
	}
	if err := sc.Err(); err != nil {
		return Solution{}, fmt.Errorf("read: %w", err)
	}
	if len(lines) == 0 {
		return Solution{}, errs.New(errs.ErrCodeInvalidFormat, "empty solution")
	}

	head := strings.Fields(lines[0])
	if len(head) != 2 {
		return Solution{}, errs.New(errs.ErrCodeInvalidFormat, "header must have 2 fields, got %d", len(head))
	}
	size, err := strconv.Atoi(head[0])
	if err != nil {
		return Solution{}, errs.Wrap(errs.ErrCodeInvalidFormat, err, "size")
	}
	weight, err := strconv.ParseInt(head[1], 10, 64)
	if err != nil {
		return Solution{}, errs.Wrap(errs.ErrCodeInvalidFormat, err, "weight")
	}

	sol := Solution{Size: size, Weight: weight, Vertices: []int{}}
	if len(lines) > 1 {
		for _, f := range strings.Fields(lines[1]) {
			id, err := strconv.Atoi(f)
			if err != nil {
				return Solution{}, errs.Wrap(errs.ErrCodeInvalidFormat, err, "vertex %q", f)
			}
			sol.Vertices = append(sol.Vertices, id)
		}
	}
	if len(sol.Vertices) != size {
		return Solution{}, errs.New(errs.ErrCodeInvalidFormat, "declared size %d, listed %d vertices", size, len(sol.Vertices))
	}
	return sol, nil
}

// OutputFilename returns the solution file name for an instance path and a
// strategy name: the instance base name without extension, an underscore, the
// strategy with dashes replaced by underscores, and ".out".
func OutputFilename(inputPath, strategy string) string {
	base := filepath.Base(inputPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return base + "_" + strings.ReplaceAll(strategy, "-", "_") + ".out"
}
