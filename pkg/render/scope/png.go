package scope

import (
	"bytes"
	"fmt"

	gplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/matzehuels/scopeplot/pkg/cursor"
	"github.com/matzehuels/scopeplot/pkg/errors"
	"github.com/matzehuels/scopeplot/pkg/plot"
)

// pxPerInch is the resolution gonum's raster canvas uses.
const pxPerInch = 96

// RenderPNG draws f as a PNG of the given pixel size. Cursor positions are
// drawn as dashed vertical lines and listed in the legend.
func RenderPNG(f plot.Frame, width, height float64, title string) ([]byte, error) {
	if width <= 0 || height <= 0 {
		width, height = defaultWidth, defaultHeight
	}

	p := gplot.New()
	p.Title.Text = title
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"
	p.X.Min, p.X.Max = f.X.Lower, f.X.Upper
	p.Y.Min, p.Y.Max = f.Y.Lower, f.Y.Upper
	p.X.Tick.Marker = constantTicks(f.XTicks, f.XLabel)
	p.Y.Tick.Marker = constantTicks(f.YTicks, f.YLabel)
	p.Add(plotter.NewGrid())

	for ch, pts := range f.Series {
		col := channelColor(DefaultPalette, ch)
		for i, seg := range segments(pts) {
			xys := make(plotter.XYs, len(seg))
			for k, pt := range seg {
				xys[k].X, xys[k].Y = pt.X, pt.Y
			}
			line, err := plotter.NewLine(xys)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "channel %d", ch)
			}
			line.LineStyle.Color = col
			line.LineStyle.Width = vg.Points(1)
			p.Add(line)
			if i == 0 {
				p.Legend.Add(fmt.Sprintf("ch%d", ch), line)
			}
		}
	}

	for _, c := range f.Cursors {
		line, err := plotter.NewLine(plotter.XYs{{X: c.Position, Y: f.Y.Lower}, {X: c.Position, Y: f.Y.Upper}})
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "cursor %q", c.Name)
		}
		if col, err := cursor.ParseColor(c.Color); err == nil {
			line.LineStyle.Color = col
		}
		line.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		p.Add(line)
		p.Legend.Add(c.Name, line)
	}

	w := vg.Length(width) * vg.Inch / pxPerInch
	h := vg.Length(height) * vg.Inch / pxPerInch
	wt, err := p.WriterTo(w, h, "png")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create png canvas")
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	return buf.Bytes(), nil
}

func constantTicks(values []float64, label func(float64) string) gplot.ConstantTicks {
	ticks := make(gplot.ConstantTicks, len(values))
	for i, v := range values {
		ticks[i] = gplot.Tick{Value: v, Label: label(v)}
	}
	return ticks
}
