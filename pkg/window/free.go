package window

import (
	"math"

	"github.com/matzehuels/scopeplot/pkg/axis"
)

// Free appends every sample and never drops data. Pan and zoom stay enabled.
type Free struct {
	head
}

// NewFree builds a Free policy. With keep set, the current series is
// inherited and new samples continue after its largest x.
func NewFree(t Target, delta float64, keep bool) (*Free, error) {
	h, err := newHead(t, delta)
	if err != nil {
		return nil, err
	}
	p := &Free{head: h}
	p.ResetKeep(keep)
	return p, nil
}

func (*Free) policy()                 {}
func (*Free) Mode() Mode              { return ModeFree }
func (*Free) FirstScreenFilled() bool { return false }

// AddData packs the whole batch; the axis bounds are ignored.
func (p *Free) AddData(batch [][]float64, _ axis.Bounds) error {
	queue, err := p.accept(batch, axis.Bounds{}, false)
	if err != nil {
		return err
	}
	_, p.writeHead, _ = Pack(queue, p.target.Series, p.writeHead, p.delta, Unbounded)
	return nil
}

// Reset clears the series.
func (p *Free) Reset() { p.ResetKeep(false) }

// ResetKeep resets the policy, optionally keeping the visible data.
func (p *Free) ResetKeep(keep bool) {
	p.writeHead = 0
	if keep {
		if last, ok := maxX(p.target); ok {
			p.writeHead = last + p.delta
		}
	} else {
		p.target.Series.Clear()
	}
	p.target.X.SetPanEnabled(true)
	p.target.X.SetZoomEnabled(true)
}

func maxX(t Target) (float64, bool) {
	if t.Series.Len() == 0 {
		return 0, false
	}
	best := math.Inf(-1)
	for _, pt := range t.Series.Points(0) {
		best = math.Max(best, pt.X)
	}
	return best, true
}
