// Package nodelink renders weighted graphs as Graphviz node-link diagrams.
//
// [ToDOT] emits an undirected DOT graph. Vertices of the highlighted clique
// are filled, and edges inside the clique are drawn bold with their weight,
// while all other edges are thin and grey. [RenderSVG] lays the DOT out
// in-process with [github.com/goccy/go-graphviz], so no Graphviz install is
// needed.
//
// Large instances produce unreadable diagrams; [Options.MaxVertices] guards
// against accidentally rendering them.
package nodelink
