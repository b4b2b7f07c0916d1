package scope

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"github.com/matzehuels/scopeplot/pkg/axis"
	"github.com/matzehuels/scopeplot/pkg/cursor"
	"github.com/matzehuels/scopeplot/pkg/plot"
	"github.com/matzehuels/scopeplot/pkg/series"
	"github.com/matzehuels/scopeplot/pkg/window"
)

func sampleFrame(mode window.Mode) plot.Frame {
	return plot.Frame{
		Mode: mode,
		Series: [][]series.Point{
			{{X: 3, Y: 1}, {X: 4, Y: 2}, {X: 0, Y: -1}, {X: 1, Y: 0}},
			{{X: 3, Y: 0}, {X: 4, Y: 0}, {X: 0, Y: 0}, {X: 1, Y: 0}},
		},
		X:          axis.Bounds{Lower: 0, Upper: 5},
		Y:          axis.Bounds{Lower: -5, Upper: 5},
		XTicks:     []float64{0, 2.5, 5},
		YTicks:     []float64{-5, 0, 5},
		Sweep:      2,
		ShowSweep:  mode == window.ModeCursor,
		BufferFill: 0.25,
		Cursors: []cursor.Record{
			{ID: "c1", Name: "trig<1>", Position: 2.5, Color: "#ff0000"},
		},
	}
}

func TestSegmentsSplitOnWrap(t *testing.T) {
	segs := segments(sampleFrame(window.ModeCursor).Series[0])
	if len(segs) != 2 || len(segs[0]) != 2 || segs[1][0].X != 0 {
		t.Errorf("segments = %v", segs)
	}
	if segments(nil) != nil {
		t.Error("no points should give no segments")
	}
}

func TestRenderSVG(t *testing.T) {
	tests := []struct {
		name     string
		mode     window.Mode
		contains []string
		absent   []string
	}{
		{
			name:     "cursor mode",
			mode:     window.ModeCursor,
			contains: []string{`class="sweep"`, `id="cursor-c1"`, "trig&lt;1&gt;", `data-channel="1"`},
			absent:   []string{`class="fill-bar"`},
		},
		{
			name:     "buffer mode",
			mode:     window.ModeBuffer,
			contains: []string{`class="fill-bar"`, `width="180.0"`},
			absent:   []string{`class="sweep"`},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svg := string(RenderSVG(sampleFrame(tt.mode), WithSize(800, 400)))
			if !strings.HasPrefix(svg, "<svg") || !strings.HasSuffix(svg, "</svg>\n") {
				t.Fatalf("not an svg document")
			}
			for _, s := range tt.contains {
				if !strings.Contains(svg, s) {
					t.Errorf("missing %q", s)
				}
			}
			for _, s := range tt.absent {
				if strings.Contains(svg, s) {
					t.Errorf("unexpected %q", s)
				}
			}
			// two channels, each split into two segments
			if n := strings.Count(svg, `class="trace"`); n != 4 {
				t.Errorf("traces = %d, want 4", n)
			}
		})
	}
}

func TestRenderSVGWithoutGrid(t *testing.T) {
	svg := string(RenderSVG(sampleFrame(window.ModeFree), WithoutGrid(), WithTitle("bench")))
	if strings.Contains(svg, `class="grid"`) {
		t.Error("grid drawn")
	}
	if !strings.Contains(svg, ">bench</text>") {
		t.Error("title missing")
	}
}

func TestRenderPNG(t *testing.T) {
	data, err := RenderPNG(sampleFrame(window.ModeCursor), 320, 200, "scope")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		t.Fatalf("output is not a png: %v", err)
	}
}
