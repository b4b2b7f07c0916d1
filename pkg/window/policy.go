package window

import (
	"math"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/scopeplot/pkg/axis"
	"github.com/matzehuels/scopeplot/pkg/errors"
	"github.com/matzehuels/scopeplot/pkg/series"
)

// DefaultDelta is the x-spacing between consecutive samples.
const DefaultDelta = 0.005

// Policy lays batches out on the visible series. The set of implementations
// is closed: *Free, *Buffer, *Cursor and *Screen.
type Policy interface {
	// Mode reports which variant this is.
	Mode() Mode
	// AddData validates batch and lays it out against b, the axis bounds
	// captured once for the whole call.
	AddData(batch [][]float64, b axis.Bounds) error
	// Reset clears the visible series and the policy's own state.
	Reset()
	// Delta is the current sample spacing.
	Delta() float64
	// SetDelta changes the spacing. Negative or non-finite values are
	// logged and ignored. Callers reset afterwards.
	SetDelta(d float64) bool
	// WriteHead is the x at which the next sample would be placed.
	WriteHead() float64
	// FirstScreenFilled reports whether the first screen has been painted.
	FirstScreenFilled() bool

	policy()
}

// Target is what a policy writes to.
type Target struct {
	Series *series.Set
	X      *axis.Range
	Logger *log.Logger
}

func (t Target) validate() error {
	if t.Series == nil {
		return errors.New(errors.ErrCodeInvalidInput, "window target has no series")
	}
	if t.X == nil {
		return errors.New(errors.ErrCodeInvalidInput, "window target has no x-axis")
	}
	return nil
}

// New builds the policy for mode and resets it. A fresh Free policy starts
// empty; use NewFree to inherit the current data.
func New(mode Mode, t Target, delta float64) (Policy, error) {
	switch mode {
	case ModeFree:
		return NewFree(t, delta, false)
	case ModeBuffer:
		return NewBuffer(t, delta)
	case ModeCursor:
		return NewCursor(t, delta)
	case ModeScreen:
		return NewScreen(t, delta)
	}
	return nil, errors.New(errors.ErrCodeInvalidMode, "unknown mode %d", int(mode))
}

// ValidateBatch checks that batch has one row per channel and that every row
// carries the same number of samples.
func ValidateBatch(batch [][]float64, channels int) error {
	if len(batch) != channels {
		return errors.New(errors.ErrCodeInvalidBatch, "batch has %d channels, series has %d", len(batch), channels)
	}
	for ch := 1; ch < len(batch); ch++ {
		if len(batch[ch]) != len(batch[0]) {
			return errors.New(errors.ErrCodeInvalidBatch,
				"channel %d has %d samples, channel 0 has %d", ch, len(batch[ch]), len(batch[0]))
		}
	}
	return nil
}

// head is the spacing and write position shared by every variant.
type head struct {
	target    Target
	delta     float64
	writeHead float64
}

func newHead(t Target, delta float64) (head, error) {
	if err := t.validate(); err != nil {
		return head{}, err
	}
	if t.Logger == nil {
		t.Logger = log.Default()
	}
	h := head{target: t, delta: DefaultDelta}
	h.SetDelta(delta)
	return h, nil
}

func (h *head) Delta() float64     { return h.delta }
func (h *head) WriteHead() float64 { return h.writeHead }

func (h *head) SetDelta(d float64) bool {
	if d < 0 || math.IsNaN(d) || math.IsInf(d, 0) {
		h.target.Logger.Warn("rejected sample spacing", "delta", d, "keeping", h.delta)
		return false
	}
	h.delta = d
	return true
}

// accept validates and copies a batch for a bounded variant.
func (h *head) accept(batch [][]float64, b axis.Bounds, bounded bool) ([][]float64, error) {
	if err := ValidateBatch(batch, h.target.Series.Channels()); err != nil {
		return nil, err
	}
	if bounded && !(b.Upper > 0) {
		return nil, errors.New(errors.ErrCodeInvalidAxis, "axis upper bound %g leaves no room for samples", b.Upper)
	}
	return copyBatch(batch), nil
}

// firstScreen is the phase shared by Buffer and Cursor: samples go straight
// to the visible series until the write head reaches upper, at which point
// the head rewinds and the remainder is handed back.
type firstScreen struct {
	filled bool
}

func (f *firstScreen) FirstScreenFilled() bool { return f.filled }

func (f *firstScreen) paint(h *head, queue [][]float64, upper float64) [][]float64 {
	queue, h.writeHead, _ = Pack(queue, h.target.Series, h.writeHead, h.delta, upper)
	if h.writeHead >= upper {
		f.filled = true
		h.writeHead = 0
		h.target.Logger.Debug("first screen filled", "upper", upper, "remaining", remaining(queue))
	}
	return queue
}
