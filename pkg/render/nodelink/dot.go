package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	errs "github.com/matzehuels/mewc/pkg/errors"
	"github.com/matzehuels/mewc/pkg/graph"
)

// DefaultMaxVertices is the largest graph rendered unless overridden.
const DefaultMaxVertices = 500

// Options configures diagram generation.
type Options struct {
	// Weights labels every edge with its weight. Clique edges are always
	// labeled.
	Weights bool

	// Layout is the Graphviz engine: "neato" (default), "circo", "dot".
	Layout string

	// MaxVertices rejects larger graphs. Zero means DefaultMaxVertices,
	// negative disables the check.
	MaxVertices int
}

// ToDOT converts g to DOT, highlighting the members of c.
func ToDOT(g *graph.Graph, c graph.Clique, opts Options) (string, error) {
	limit := opts.MaxVertices
	if limit == 0 {
		limit = DefaultMaxVertices
	}
	if limit > 0 && g.VertexCount() > limit {
		return "", errs.New(errs.ErrCodeInvalidInput, "graph has %d vertices, rendering is limited to %d", g.VertexCount(), limit)
	}
	layout := opts.Layout
	if layout == "" {
		layout = "neato"
	}

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	fmt.Fprintf(&buf, "  layout=%s;\n", layout)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  overlap=false;\n")
	buf.WriteString("  splines=true;\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=14];\n")
	buf.WriteString("  edge [color=\"#b0b0b0\", fontsize=10];\n")
	fmt.Fprintf(&buf, "  label=%q;\n", fmt.Sprintf("clique %v  weight %d", c.Members(), c.Weight()))
	buf.WriteString("\n")

	for _, id := range g.Vertices() {
		if c.Contains(id) {
			fmt.Fprintf(&buf, "  %d [fillcolor=\"#f4a259\", penwidth=2];\n", id)
		} else {
			fmt.Fprintf(&buf, "  %d;\n", id)
		}
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		inside := c.Contains(e.U) && c.Contains(e.V)
		switch {
		case inside:
			fmt.Fprintf(&buf, "  %d -- %d [color=\"#bc4b51\", penwidth=3, label=\"%d\"];\n", e.U, e.V, e.Weight)
		case opts.Weights:
			fmt.Fprintf(&buf, "  %d -- %d [label=\"%d\"];\n", e.U, e.V, e.Weight)
		default:
			fmt.Fprintf(&buf, "  %d -- %d;\n", e.U, e.V)
		}
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}

// RenderSVG lays out and renders DOT source as SVG.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root tag so the drawing scales with its
// container instead of using Graphviz's point sizes.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
