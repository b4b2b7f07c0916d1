package window

import "github.com/matzehuels/scopeplot/pkg/axis"

// Screen keeps a fixed-width window of the most recent samples. When a
// batch does not fit, the oldest points are dropped and the rest slide left.
type Screen struct {
	head
	shifted uint64
}

// NewScreen builds a Screen policy and resets it.
func NewScreen(t Target, delta float64) (*Screen, error) {
	h, err := newHead(t, delta)
	if err != nil {
		return nil, err
	}
	p := &Screen{head: h}
	p.Reset()
	return p, nil
}

func (*Screen) policy()                 {}
func (*Screen) Mode() Mode              { return ModeScreen }
func (*Screen) FirstScreenFilled() bool { return false }

// Shifted counts points dropped off the left edge since construction.
func (p *Screen) Shifted() uint64 { return p.shifted }

func (p *Screen) AddData(batch [][]float64, b axis.Bounds) error {
	queue, err := p.accept(batch, b, true)
	if err != nil {
		return err
	}
	for remaining(queue) > 0 {
		n := remaining(queue)
		if fit := slots(p.writeHead, p.delta, b.Upper, n); fit < n {
			p.shift(n - fit)
		}
		var placed int
		queue, p.writeHead, placed = Pack(queue, p.target.Series, p.writeHead, p.delta, b.Upper)
		if placed == 0 {
			// Rounding left no room after the shift; start from an empty screen.
			p.shift(p.target.Series.Len())
		}
	}
	return nil
}

// shift drops up to n of the oldest points and renumbers the rest from zero.
func (p *Screen) shift(n int) {
	dropped := p.target.Series.DropFront(n)
	p.shifted += uint64(dropped)
	p.target.Series.Renumber(p.delta)
	p.writeHead = float64(p.target.Series.Len()) * p.delta
}

// Reset clears the series and anchors the x-axis at zero, keeping its span.
func (p *Screen) Reset() {
	p.target.Series.Clear()
	p.writeHead = 0
	if span := p.target.X.Span(); span > 0 {
		p.target.X.SetBounds(0, span)
	}
	p.target.X.SetPanEnabled(false)
}
