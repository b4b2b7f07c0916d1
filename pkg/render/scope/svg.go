// Package scope renders plot frames as SVG or PNG images.
package scope

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/scopeplot/pkg/axis"
	"github.com/matzehuels/scopeplot/pkg/cursor"
	"github.com/matzehuels/scopeplot/pkg/plot"
	"github.com/matzehuels/scopeplot/pkg/series"
	"github.com/matzehuels/scopeplot/pkg/window"
)

const (
	defaultWidth  = 800
	defaultHeight = 400
	margin        = 40
)

const scopeCSS = `
    .frame { fill: #111; stroke: #555; }
    .grid { stroke: #333; stroke-width: 1; }
    .tick { fill: #aaa; font: 11px monospace; }
    .trace { fill: none; stroke-width: 1.5; }
    .sweep { stroke: #fff; stroke-dasharray: 4 3; }
    .cursor { stroke-width: 1.5; stroke-dasharray: 6 2; }
    .cursor-label { font: bold 12px monospace; }
    .fill-track { fill: #333; }
    .fill-bar { fill: #3498db; }`

// SVGOption configures RenderSVG.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	width, height float64
	title         string
	grid          bool
	palette       []cursor.Color
}

// WithSize sets the image size in pixels.
func WithSize(w, h float64) SVGOption {
	return func(r *svgRenderer) {
		if w > 2*margin && h > 2*margin {
			r.width, r.height = w, h
		}
	}
}

func WithTitle(s string) SVGOption           { return func(r *svgRenderer) { r.title = s } }
func WithoutGrid() SVGOption                 { return func(r *svgRenderer) { r.grid = false } }
func WithPalette(p []cursor.Color) SVGOption { return func(r *svgRenderer) { r.palette = p } }

// RenderSVG draws f: grid and tick labels, one trace per channel, the
// sweep line in cursor mode, the buffer fill bar in buffer mode and every
// cursor with its name.
func RenderSVG(f plot.Frame, opts ...SVGOption) []byte {
	r := svgRenderer{width: defaultWidth, height: defaultHeight, grid: true, palette: DefaultPalette}
	for _, opt := range opts {
		opt(&r)
	}
	pw, ph := r.width-2*margin, r.height-2*margin
	quiet := axis.WithLogger(log.New(io.Discard))
	xr := axis.New(axis.Horizontal, axis.WithBounds(f.X.Lower, f.X.Upper), axis.WithExtent(pw), quiet)
	yr := axis.New(axis.Vertical, axis.WithBounds(f.Y.Lower, f.Y.Upper), axis.WithExtent(ph), quiet)
	px := func(v float64) float64 {
		p, _ := xr.DisplayPosition(v)
		return margin + p
	}
	py := func(v float64) float64 {
		p, _ := yr.DisplayPosition(v)
		return margin + p
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		r.width, r.height, r.width, r.height)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", scopeCSS)
	fmt.Fprintf(&buf, "  <defs><clipPath id=\"plot-area\"><rect x=\"%d\" y=\"%d\" width=\"%.1f\" height=\"%.1f\"/></clipPath></defs>\n",
		margin, margin, pw, ph)
	fmt.Fprintf(&buf, "  <rect class=\"frame\" x=\"%d\" y=\"%d\" width=\"%.1f\" height=\"%.1f\"/>\n", margin, margin, pw, ph)
	if r.title != "" {
		fmt.Fprintf(&buf, "  <text class=\"tick\" x=\"%d\" y=\"%d\">%s</text>\n", margin, margin/2, html.EscapeString(r.title))
	}

	if r.grid {
		renderGrid(&buf, f, px, py)
	}

	buf.WriteString("  <g clip-path=\"url(#plot-area)\">\n")
	for ch, pts := range f.Series {
		col := channelColor(r.palette, ch)
		for _, seg := range segments(pts) {
			renderTrace(&buf, ch, col, seg, px, py)
		}
	}
	if f.ShowSweep {
		x := px(f.Sweep)
		fmt.Fprintf(&buf, "    <line class=\"sweep\" x1=\"%.2f\" y1=\"%d\" x2=\"%.2f\" y2=\"%.1f\"/>\n", x, margin, x, margin+ph)
	}
	for _, c := range f.Cursors {
		renderCursor(&buf, c, px(c.Position), ph)
	}
	buf.WriteString("  </g>\n")

	if f.Mode == window.ModeBuffer {
		fmt.Fprintf(&buf, "  <rect class=\"fill-track\" x=\"%d\" y=\"%.1f\" width=\"%.1f\" height=\"4\"/>\n", margin, r.height-margin/2, pw)
		fmt.Fprintf(&buf, "  <rect class=\"fill-bar\" x=\"%d\" y=\"%.1f\" width=\"%.1f\" height=\"4\"/>\n", margin, r.height-margin/2, f.BufferFill*pw)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderGrid(buf *bytes.Buffer, f plot.Frame, px, py func(float64) float64) {
	top, bottom := py(f.Y.Upper), py(f.Y.Lower)
	left, right := px(f.X.Lower), px(f.X.Upper)
	for _, v := range f.XTicks {
		x := px(v)
		fmt.Fprintf(buf, "  <line class=\"grid\" x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\"/>\n", x, top, x, bottom)
		fmt.Fprintf(buf, "  <text class=\"tick\" x=\"%.2f\" y=\"%.2f\" text-anchor=\"middle\">%s</text>\n", x, bottom+14, f.XLabel(v))
	}
	for _, v := range f.YTicks {
		y := py(v)
		fmt.Fprintf(buf, "  <line class=\"grid\" x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\"/>\n", left, y, right, y)
		fmt.Fprintf(buf, "  <text class=\"tick\" x=\"%.2f\" y=\"%.2f\" text-anchor=\"end\">%s</text>\n", left-4, y+4, f.YLabel(v))
	}
}

func renderTrace(buf *bytes.Buffer, ch int, col cursor.Color, pts []series.Point, px, py func(float64) float64) {
	coords := make([]string, len(pts))
	for i, p := range pts {
		coords[i] = fmt.Sprintf("%.2f,%.2f", px(p.X), py(p.Y))
	}
	fmt.Fprintf(buf, "    <polyline class=\"trace\" data-channel=\"%d\" stroke=\"%s\" points=\"%s\"/>\n",
		ch, col, strings.Join(coords, " "))
}

func renderCursor(buf *bytes.Buffer, c cursor.Record, x, ph float64) {
	fmt.Fprintf(buf, "    <line class=\"cursor\" id=\"cursor-%s\" stroke=\"%s\" x1=\"%.2f\" y1=\"%d\" x2=\"%.2f\" y2=\"%.1f\"/>\n",
		html.EscapeString(c.ID), c.Color, x, margin, x, margin+ph)
	fmt.Fprintf(buf, "    <text class=\"cursor-label\" fill=\"%s\" x=\"%.2f\" y=\"%d\">%s</text>\n",
		c.Color, x+3, margin+12, html.EscapeString(c.Name))
}
