package axis

import "math"

// Pan translates the range by the value distance between startPx and endPx.
// The span is unchanged. It reports whether a pan happened: it is a no-op
// when panning is disabled, the geometry is unknown, or the drag is shorter
// than PanDeadZone pixels.
func (r *Range) Pan(startPx, endPx float64) bool {
	if !r.panEnabled {
		r.logger.Debug("pan is disabled", "side", r.side)
		return false
	}
	deltaPx := startPx - endPx
	if math.Abs(deltaPx) < PanDeadZone {
		return false
	}
	start, ok := r.ValueForDisplay(startPx)
	if !ok {
		return false
	}
	end, _ := r.ValueForDisplay(endPx)
	delta := start - end
	r.lower += delta
	r.upper += delta
	return true
}

// BeginPan starts a pan gesture anchored at px.
func (r *Range) BeginPan(px float64) bool {
	if !r.panEnabled {
		r.logger.Debug("pan is disabled", "side", r.side)
		return false
	}
	r.panning = true
	r.panAnchor = px
	return true
}

// DragPan pans from the current anchor to px. The anchor only moves when
// the pan was applied, so small drags accumulate until they clear the dead
// zone.
func (r *Range) DragPan(px float64) bool {
	if !r.panning {
		return false
	}
	if r.Pan(r.panAnchor, px) {
		r.panAnchor = px
		return true
	}
	return false
}

// EndPan applies the last drag step and ends the gesture.
func (r *Range) EndPan(px float64) bool {
	if !r.panning {
		return false
	}
	moved := r.Pan(r.panAnchor, px)
	r.panning = false
	r.panAnchor = 0
	return moved
}

// Zoom sets the range to the values currently under lowerPx and upperPx.
// Either edge may lie outside the viewport. It is a no-op while zooming is
// disabled, a pan is in progress, or the geometry is unknown.
func (r *Range) Zoom(lowerPx, upperPx float64) bool {
	if !r.zoomEnabled || r.panning {
		r.logger.Debug("zoom is disabled", "side", r.side, "panning", r.panning)
		return false
	}
	v1, ok := r.ValueForDisplay(lowerPx)
	if !ok {
		return false
	}
	v2, _ := r.ValueForDisplay(upperPx)
	return r.SetBounds(math.Min(v1, v2), math.Max(v1, v2))
}

// ZoomIn narrows the range by the zoom scale, keeping the value under atPx
// at the same pixel.
func (r *Range) ZoomIn(atPx float64) bool {
	return r.zoomAt(atPx, r.zoomScale)
}

// ZoomOut widens the range by the inverse zoom scale, keeping the value
// under atPx at the same pixel. ZoomOut undoes a ZoomIn at the same pixel.
func (r *Range) ZoomOut(atPx float64) bool {
	return r.zoomAt(atPx, 1.0/r.zoomScale)
}

func (r *Range) zoomAt(atPx, s float64) bool {
	lowerPx := atPx - atPx*s
	upperPx := lowerPx + s*r.extent
	return r.Zoom(lowerPx, upperPx)
}

// ResetZoom restores DefaultBounds for the axis side.
func (r *Range) ResetZoom() {
	def := DefaultBounds(r.side)
	r.lower, r.upper = def.Lower, def.Upper
}
