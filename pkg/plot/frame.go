package plot

import (
	"github.com/matzehuels/scopeplot/pkg/axis"
	"github.com/matzehuels/scopeplot/pkg/cursor"
	"github.com/matzehuels/scopeplot/pkg/series"
	"github.com/matzehuels/scopeplot/pkg/window"
)

// Frame is an immutable snapshot of a session for renderers.
type Frame struct {
	Mode      window.Mode      `json:"mode"`
	Delta     float64          `json:"delta"`
	Series    [][]series.Point `json:"series"`
	X         axis.Bounds      `json:"x"`
	Y         axis.Bounds      `json:"y"`
	XTicks    []float64        `json:"x_ticks"`
	YTicks    []float64        `json:"y_ticks"`
	WriteHead float64          `json:"write_head"`
	// Sweep is the sweep line position; only meaningful when ShowSweep.
	Sweep             float64         `json:"sweep"`
	ShowSweep         bool            `json:"show_sweep"`
	BufferFill        float64         `json:"buffer_fill"`
	FirstScreenFilled bool            `json:"first_screen_filled"`
	Cursors           []cursor.Record `json:"cursors"`
	Version           uint64          `json:"version"`
}

// Channels returns the number of channels in the frame.
func (f Frame) Channels() int { return len(f.Series) }

// Points returns the total number of points across channels.
func (f Frame) Points() int {
	n := 0
	for _, ch := range f.Series {
		n += len(ch)
	}
	return n
}

// XLabel formats an x value the way the axis labels it.
func (f Frame) XLabel(v float64) string { return axis.FormatTick(v, f.X.Span()) }

// YLabel formats a y value the way the axis labels it.
func (f Frame) YLabel(v float64) string { return axis.FormatTick(v, f.Y.Span()) }

// Snapshot copies the current state into a Frame.
func (s *Session) Snapshot() Frame {
	s.mu.Lock()
	defer s.mu.Unlock()

	f := Frame{
		Mode:              s.policy.Mode(),
		Delta:             s.delta,
		Series:            s.data.Snapshot(),
		X:                 s.x.Bounds(),
		Y:                 s.y.Bounds(),
		XTicks:            s.x.Ticks(),
		YTicks:            s.y.Ticks(),
		WriteHead:         s.policy.WriteHead(),
		FirstScreenFilled: s.policy.FirstScreenFilled(),
		Cursors:           s.cursorRecords(),
		Version:           s.data.Version(),
	}
	switch p := s.policy.(type) {
	case *window.Buffer:
		f.BufferFill = p.Fill()
	case *window.Cursor:
		f.Sweep = p.SweepPosition()
		f.ShowSweep = true
	}
	return f
}
