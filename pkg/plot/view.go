package plot

import "github.com/matzehuels/scopeplot/pkg/axis"

func (s *Session) rangeFor(side axis.Side) *axis.Range {
	if side == axis.Vertical {
		return s.y
	}
	return s.x
}

// SetViewport sets the plot area size in pixels. Non-positive values keep
// the previous size.
func (s *Session) SetViewport(width, height float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.x.SetExtent(width)
	s.y.SetExtent(height)
}

// SetBounds sets one axis' bounds and reports whether they were accepted.
func (s *Session) SetBounds(side axis.Side, lower, upper float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rangeFor(side).SetBounds(lower, upper)
}

// Bounds returns one axis' current bounds.
func (s *Session) Bounds(side axis.Side) axis.Bounds {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rangeFor(side).Bounds()
}

// SetZoomScale sets the zoom step of both axes.
func (s *Session) SetZoomScale(f float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.x.SetZoomScale(f)
	s.y.SetZoomScale(f)
}

// Pan drags one axis from startPx to endPx.
func (s *Session) Pan(side axis.Side, startPx, endPx float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rangeFor(side).Pan(startPx, endPx)
}

// PanBy pans one axis by a fraction of its span, positive towards larger
// values. It ignores the drag dead zone and is meant for keyboard control.
func (s *Session) PanBy(side axis.Side, fraction float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.rangeFor(side)
	if !r.PanEnabled() {
		return false
	}
	shift := fraction * r.Span()
	return r.SetBounds(r.Lower()+shift, r.Upper()+shift)
}

// Zoom sets one axis to the values under two pixel positions.
func (s *Session) Zoom(side axis.Side, lowerPx, upperPx float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rangeFor(side).Zoom(lowerPx, upperPx)
}

// ZoomIn zooms one axis in around atPx.
func (s *Session) ZoomIn(side axis.Side, atPx float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rangeFor(side).ZoomIn(atPx)
}

// ZoomOut zooms one axis out around atPx.
func (s *Session) ZoomOut(side axis.Side, atPx float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rangeFor(side).ZoomOut(atPx)
}

// ResetZoom restores both axes to their default ranges.
func (s *Session) ResetZoom() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.x.ResetZoom()
	s.y.ResetZoom()
}
