// Package render draws MEWC instances and their solutions.
//
// The [nodelink] subpackage produces Graphviz node-link diagrams with the
// clique highlighted: member vertices are filled and the edges between them
// are drawn bold, so the weight that makes up the solution is visible at a
// glance.
//
//	dot := nodelink.ToDOT(g, res.Clique, nodelink.Options{Weights: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [nodelink]: github.com/matzehuels/mewc/pkg/render/nodelink
package render
