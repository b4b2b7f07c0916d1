// Package render groups the output formats for scope frames and cursor
// graphs.
//
// # Scope Frames
//
// The [scope] subpackage draws a [plot.Frame] snapshot. SVG output is
// written directly and carries the sweep line, buffer fill bar and cursor
// markers; PNG output goes through gonum/plot.
//
//	f := sess.Snapshot()
//	svg := scope.RenderSVG(f, scope.WithSize(800, 400))
//	png, err := scope.RenderPNG(f, 800, 400, "scope")
//
// # Cursor Graphs
//
// The [cursorgraph] subpackage renders the cursor reference forest as a
// Graphviz node-link diagram.
//
//	dot := cursorgraph.ToDOT(sess.Cursors(), cursorgraph.Options{})
//	svg, err := cursorgraph.RenderSVG(ctx, dot)
//
// [plot.Frame]: github.com/matzehuels/scopeplot/pkg/plot.Frame
package render
