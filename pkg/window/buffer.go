package window

import (
	"github.com/matzehuels/scopeplot/pkg/axis"
	"github.com/matzehuels/scopeplot/pkg/series"
)

// Buffer paints the first screen directly, then collects samples in a
// hidden buffer that replaces the visible series once it spans the axis.
type Buffer struct {
	head
	firstScreen
	buffer *series.Set
	fill   float64
	swaps  uint64
}

// NewBuffer builds a Buffer policy and resets it.
func NewBuffer(t Target, delta float64) (*Buffer, error) {
	h, err := newHead(t, delta)
	if err != nil {
		return nil, err
	}
	p := &Buffer{head: h}
	p.Reset()
	return p, nil
}

func (*Buffer) policy()    {}
func (*Buffer) Mode() Mode { return ModeBuffer }

// Fill is the buffered fraction of the axis, in [0, 1].
func (p *Buffer) Fill() float64 { return p.fill }

// Swaps counts buffer swaps since construction.
func (p *Buffer) Swaps() uint64 { return p.swaps }

// Buffered returns a read view of the hidden buffer.
func (p *Buffer) Buffered() series.View { return p.buffer }

func (p *Buffer) AddData(batch [][]float64, b axis.Bounds) error {
	queue, err := p.accept(batch, b, true)
	if err != nil {
		return err
	}
	if !p.filled {
		queue = p.paint(&p.head, queue, b.Upper)
		if !p.filled {
			return nil
		}
	}
	for {
		queue, p.writeHead, _ = Pack(queue, p.buffer, p.writeHead, p.delta, b.Upper)
		p.fill = clamp01(p.writeHead / b.Upper)
		if p.fill < 1 {
			return nil
		}
		p.swap()
		if remaining(queue) == 0 {
			return nil
		}
	}
}

func (p *Buffer) swap() {
	p.target.Series.ReplaceWith(p.buffer)
	p.writeHead = 0
	p.fill = 0
	p.swaps++
	p.target.Logger.Debug("buffer swapped", "points", p.target.Series.Len(), "swaps", p.swaps)
}

// Reset clears both series and disables panning.
func (p *Buffer) Reset() {
	p.target.Series.Clear()
	p.buffer = series.New(p.target.Series.Channels())
	p.writeHead = 0
	p.fill = 0
	p.filled = false
	p.target.X.SetPanEnabled(false)
}

func clamp01(v float64) float64 {
	switch {
	case v < 0 || v != v:
		return 0
	case v > 1:
		return 1
	}
	return v
}
