package window

import "github.com/matzehuels/scopeplot/pkg/axis"

// Cursor sweeps a write head across the axis. Once the first screen is
// painted, every new sample replaces the oldest one, and the head wraps to
// zero at the upper bound.
type Cursor struct {
	head
	firstScreen
	wraps uint64
}

// NewCursor builds a Cursor policy and resets it.
func NewCursor(t Target, delta float64) (*Cursor, error) {
	h, err := newHead(t, delta)
	if err != nil {
		return nil, err
	}
	p := &Cursor{head: h}
	p.Reset()
	return p, nil
}

func (*Cursor) policy()    {}
func (*Cursor) Mode() Mode { return ModeCursor }

// SweepPosition is the x of the sweep line.
func (p *Cursor) SweepPosition() float64 { return p.writeHead }

// Wraps counts how often the head returned to zero.
func (p *Cursor) Wraps() uint64 { return p.wraps }

func (p *Cursor) AddData(batch [][]float64, b axis.Bounds) error {
	queue, err := p.accept(batch, b, true)
	if err != nil {
		return err
	}
	if !p.filled {
		queue = p.paint(&p.head, queue, b.Upper)
		if !p.filled {
			return nil
		}
		p.wraps++
	}
	for {
		var placed int
		queue, p.writeHead, placed = Pack(queue, p.target.Series, p.writeHead, p.delta, b.Upper)
		p.target.Series.DropFront(placed)
		if p.writeHead < b.Upper {
			return nil
		}
		p.writeHead = 0
		p.wraps++
		if remaining(queue) == 0 {
			return nil
		}
	}
}

// Reset clears the series and disables panning.
func (p *Cursor) Reset() {
	p.target.Series.Clear()
	p.writeHead = 0
	p.filled = false
	p.target.X.SetPanEnabled(false)
}
