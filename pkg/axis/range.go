package axis

import (
	"math"

	"github.com/charmbracelet/log"
)

const (
	// DefaultZoomScale is the factor applied by a single ZoomIn step.
	DefaultZoomScale = 0.9

	// MinZoomScale and MaxZoomScale are the values out-of-range zoom
	// scales are clamped to.
	MinZoomScale = 0.0001
	MaxZoomScale = 0.9999

	// PanDeadZone is the minimum pan distance in pixels.
	PanDeadZone = 3.0
)

// Side selects the orientation of an axis.
type Side int

const (
	// Horizontal axes map pixel 0 to the lower bound.
	Horizontal Side = iota
	// Vertical axes map pixel 0 (top edge) to the upper bound.
	Vertical
)

func (s Side) String() string {
	if s == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// Bounds is an immutable [lower, upper] pair.
type Bounds struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// Span returns Upper - Lower.
func (b Bounds) Span() float64 { return b.Upper - b.Lower }

// Contains reports whether v lies within the closed interval.
func (b Bounds) Contains(v float64) bool { return v >= b.Lower && v <= b.Upper }

// DefaultBounds returns the range ResetZoom restores for the given side.
func DefaultBounds(side Side) Bounds {
	if side == Vertical {
		return Bounds{Lower: -5, Upper: 5}
	}
	return Bounds{Lower: 0, Upper: 5}
}

// Range is a pannable, zoomable axis interval.
//
// The zero value is not usable - use New.
type Range struct {
	side        Side
	lower       float64
	upper       float64
	extent      float64
	zoomScale   float64
	panEnabled  bool
	zoomEnabled bool
	panning     bool
	panAnchor   float64
	logger      *log.Logger
}

// Option configures a Range.
type Option func(*Range)

// WithBounds sets the initial bounds. Invalid bounds are ignored with a warning.
func WithBounds(lower, upper float64) Option {
	return func(r *Range) { r.SetBounds(lower, upper) }
}

// WithExtent sets the viewport length in pixels.
func WithExtent(px float64) Option {
	return func(r *Range) { r.SetExtent(px) }
}

// WithZoomScale sets the zoom step factor.
func WithZoomScale(s float64) Option {
	return func(r *Range) { r.SetZoomScale(s) }
}

// WithLogger sets the logger used for configuration warnings.
func WithLogger(l *log.Logger) Option {
	return func(r *Range) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates a Range for the given side with default bounds, pan and zoom
// enabled and no known extent.
func New(side Side, opts ...Option) *Range {
	def := DefaultBounds(side)
	r := &Range{
		side:        side,
		lower:       def.Lower,
		upper:       def.Upper,
		zoomScale:   DefaultZoomScale,
		panEnabled:  true,
		zoomEnabled: true,
		logger:      log.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Range) Side() Side         { return r.side }
func (r *Range) Lower() float64     { return r.lower }
func (r *Range) Upper() float64     { return r.upper }
func (r *Range) Span() float64      { return r.upper - r.lower }
func (r *Range) Extent() float64    { return r.extent }
func (r *Range) ZoomScale() float64 { return r.zoomScale }
func (r *Range) PanEnabled() bool   { return r.panEnabled }
func (r *Range) ZoomEnabled() bool  { return r.zoomEnabled }
func (r *Range) Panning() bool      { return r.panning }

// Bounds returns an immutable copy of the current interval.
func (r *Range) Bounds() Bounds { return Bounds{Lower: r.lower, Upper: r.upper} }

// SetPanEnabled toggles panning. Disabling it also ends a gesture in progress.
func (r *Range) SetPanEnabled(b bool) {
	r.panEnabled = b
	if !b {
		r.panning = false
	}
}

// SetZoomEnabled toggles zooming.
func (r *Range) SetZoomEnabled(b bool) { r.zoomEnabled = b }

// SetBounds replaces both bounds. It reports false and keeps the previous
// bounds when upper <= lower or either value is not finite.
func (r *Range) SetBounds(lower, upper float64) bool {
	if !finite(lower) || !finite(upper) || upper <= lower {
		r.logger.Warn("rejected axis bounds", "side", r.side, "lower", lower, "upper", upper)
		return false
	}
	r.lower, r.upper = lower, upper
	return true
}

// SetExtent sets the viewport length in pixels. Non-positive values are
// rejected with a warning.
func (r *Range) SetExtent(px float64) bool {
	if !finite(px) || px <= 0 {
		r.logger.Warn("rejected axis extent", "side", r.side, "extent", px)
		return false
	}
	r.extent = px
	return true
}

// SetZoomScale sets the zoom step factor. Values outside (0,1) are clamped
// to MinZoomScale or MaxZoomScale with a warning.
func (r *Range) SetZoomScale(s float64) {
	switch {
	case math.IsNaN(s) || s <= 0:
		r.logger.Warn("zoom scale must be > 0, clamping", "value", s, "used", MinZoomScale)
		s = MinZoomScale
	case s >= 1:
		r.logger.Warn("zoom scale must be < 1, clamping", "value", s, "used", MaxZoomScale)
		s = MaxZoomScale
	}
	r.zoomScale = s
}

// Ready reports whether the pixel geometry is known.
func (r *Range) Ready() bool { return r.extent > 0 }

// ValueForDisplay converts a pixel position to a value. It returns false
// while the viewport extent is unknown.
func (r *Range) ValueForDisplay(px float64) (float64, bool) {
	if !r.Ready() {
		return 0, false
	}
	if r.side == Vertical {
		return r.upper + px*(r.lower-r.upper)/r.extent, true
	}
	return r.lower + px*(r.upper-r.lower)/r.extent, true
}

// DisplayPosition converts a value to a pixel position. It returns false
// while the viewport extent is unknown.
func (r *Range) DisplayPosition(v float64) (float64, bool) {
	if !r.Ready() {
		return 0, false
	}
	if r.side == Vertical {
		return r.extent * (v - r.upper) / (r.lower - r.upper), true
	}
	return r.extent * (v - r.lower) / (r.upper - r.lower), true
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
