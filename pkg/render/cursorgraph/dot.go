// Package cursorgraph draws the cursor reference graph as a node-link
// diagram: one node per cursor, one edge from each cursor to the cursor it
// follows, labelled with the offset.
package cursorgraph

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/scopeplot/pkg/cursor"
	"github.com/matzehuels/scopeplot/pkg/errors"
)

// Options configures node-link rendering.
type Options struct {
	// Detailed adds position and delta to node labels.
	Detailed bool
}

// ToDOT converts cursor records to Graphviz DOT. References point from a
// cursor to the cursor it follows; edges to unknown ids are skipped.
func ToDOT(records []cursor.Record, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph cursors {\n")
	buf.WriteString("  rankdir=RL;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontname=monospace, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontname=monospace, fontsize=11];\n")
	buf.WriteString("\n")

	known := make(map[string]bool, len(records))
	for _, r := range records {
		known[r.ID] = true
		fmt.Fprintf(&buf, "  %q [%s];\n", r.ID, strings.Join(fmtAttrs(r, opts.Detailed), ", "))
	}

	buf.WriteString("\n")
	for _, r := range records {
		if r.Reference == "" || !known[r.Reference] {
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", r.ID, r.Reference, "Δ "+strconv.FormatFloat(r.Delta, 'g', 6, 64))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtAttrs(r cursor.Record, detailed bool) []string {
	label := r.Name
	if detailed {
		label = fmt.Sprintf("%s\nx: %g\nΔ: %g", r.Name, r.Position, r.Delta)
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if r.Color != "" {
		attrs = append(attrs, fmt.Sprintf("color=%q", r.Color), fmt.Sprintf("fillcolor=%q", fill(r.Color)))
	}
	return attrs
}

// fill returns a translucent version of a #rrggbb colour for the node body.
func fill(hex string) string {
	c, err := cursor.ParseColor(hex)
	if err != nil {
		return "white"
	}
	c.A = 0x33
	return c.String()
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with one
// sized from its viewBox so the SVG scales in a browser.
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

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
