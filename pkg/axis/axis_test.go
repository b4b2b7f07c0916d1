package axis

import (
	"io"
	"math"
	"testing"

	"github.com/charmbracelet/log"
)

const tolerance = 1e-9

func quietLogger() *log.Logger { return log.New(io.Discard) }

func newRange(side Side, lower, upper, extent float64) *Range {
	return New(side, WithLogger(quietLogger()), WithBounds(lower, upper), WithExtent(extent))
}

func approx(a, b float64) bool { return math.Abs(a-b) <= tolerance*math.Max(1, math.Abs(b)) }

func TestRoundTrip(t *testing.T) {
	for _, side := range []Side{Horizontal, Vertical} {
		t.Run(side.String(), func(t *testing.T) {
			r := newRange(side, -3.5, 12.25, 640)
			for _, v := range []float64{-3.5, -1, 0, 0.001, 7.7, 12.25} {
				px, ok := r.DisplayPosition(v)
				if !ok {
					t.Fatal("DisplayPosition not ready")
				}
				got, _ := r.ValueForDisplay(px)
				if !approx(got, v) {
					t.Errorf("ValueForDisplay(DisplayPosition(%v)) = %v", v, got)
				}
			}
		})
	}
}

func TestMappingOrientation(t *testing.T) {
	h := newRange(Horizontal, 0, 10, 100)
	if v, _ := h.ValueForDisplay(0); v != 0 {
		t.Errorf("horizontal px 0 = %v, want 0", v)
	}
	if v, _ := h.ValueForDisplay(100); v != 10 {
		t.Errorf("horizontal px 100 = %v, want 10", v)
	}

	v := newRange(Vertical, -5, 5, 200)
	if got, _ := v.ValueForDisplay(0); got != 5 {
		t.Errorf("vertical px 0 = %v, want upper bound 5", got)
	}
	if got, _ := v.ValueForDisplay(200); got != -5 {
		t.Errorf("vertical px 200 = %v, want lower bound -5", got)
	}
}

func TestNotReadyWithoutExtent(t *testing.T) {
	r := New(Horizontal, WithLogger(quietLogger()))
	if _, ok := r.ValueForDisplay(10); ok {
		t.Error("ValueForDisplay should not be available before extent is known")
	}
	if r.Pan(0, 100) {
		t.Error("Pan should be a no-op before extent is known")
	}
	if r.ZoomIn(50) {
		t.Error("ZoomIn should be a no-op before extent is known")
	}
}

func TestPan(t *testing.T) {
	tests := []struct {
		name       string
		start, end float64
		enabled    bool
		wantMoved  bool
		wantLower  float64
	}{
		{"dead zone", 100, 98, true, false, 0},
		{"dead zone negative", 100, 102.5, true, false, 0},
		{"drag left", 100, 90, true, true, 1},
		{"drag right", 100, 120, true, true, -2},
		{"disabled", 100, 50, false, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRange(Horizontal, 0, 10, 100)
			r.SetPanEnabled(tt.enabled)
			moved := r.Pan(tt.start, tt.end)
			if moved != tt.wantMoved {
				t.Fatalf("Pan() = %v, want %v", moved, tt.wantMoved)
			}
			if !approx(r.Lower(), tt.wantLower) {
				t.Errorf("Lower = %v, want %v", r.Lower(), tt.wantLower)
			}
			if !approx(r.Span(), 10) {
				t.Errorf("Span = %v, want 10", r.Span())
			}
		})
	}
}

func TestPanGesture(t *testing.T) {
	r := newRange(Horizontal, 0, 10, 100)
	if !r.BeginPan(50) {
		t.Fatal("BeginPan failed")
	}
	// Below the dead zone: anchor stays, nothing moves.
	if r.DragPan(52) {
		t.Error("DragPan within dead zone should not move")
	}
	// Accumulated drag now clears the dead zone relative to the anchor.
	if !r.DragPan(54) {
		t.Error("DragPan beyond dead zone should move")
	}
	if !approx(r.Lower(), -0.4) {
		t.Errorf("Lower = %v, want -0.4", r.Lower())
	}
	if r.ZoomIn(50) {
		t.Error("zoom must be ignored while panning")
	}
	r.EndPan(54)
	if r.Panning() {
		t.Error("Panning should be false after EndPan")
	}
}

func TestZoom(t *testing.T) {
	r := newRange(Horizontal, 0, 10, 100)
	if !r.Zoom(80, 20) {
		t.Fatal("Zoom failed")
	}
	if !approx(r.Lower(), 2) || !approx(r.Upper(), 8) {
		t.Errorf("bounds = [%v, %v], want [2, 8]", r.Lower(), r.Upper())
	}

	r.SetZoomEnabled(false)
	if r.Zoom(0, 10) {
		t.Error("Zoom should be a no-op when disabled")
	}
}

func TestZoomInOutRestores(t *testing.T) {
	for _, side := range []Side{Horizontal, Vertical} {
		for _, at := range []float64{0, 37, 250, 400} {
			r := newRange(side, -2, 6, 400)
			before, _ := r.ValueForDisplay(at)

			if !r.ZoomIn(at) {
				t.Fatal("ZoomIn failed")
			}
			after, _ := r.ValueForDisplay(at)
			if !approx(after, before) {
				t.Errorf("%v: value under %vpx moved from %v to %v", side, at, before, after)
			}
			if !approx(r.Span(), 8*DefaultZoomScale) {
				t.Errorf("%v: span after ZoomIn = %v", side, r.Span())
			}

			r.ZoomOut(at)
			if !approx(r.Lower(), -2) || !approx(r.Upper(), 6) {
				t.Errorf("%v at %v: bounds = [%v, %v], want [-2, 6]", side, at, r.Lower(), r.Upper())
			}
		}
	}
}

func TestResetZoom(t *testing.T) {
	h := newRange(Horizontal, 3, 4, 100)
	h.ResetZoom()
	if h.Bounds() != (Bounds{0, 5}) {
		t.Errorf("horizontal reset = %+v", h.Bounds())
	}
	v := newRange(Vertical, 3, 4, 100)
	v.ResetZoom()
	if v.Bounds() != (Bounds{-5, 5}) {
		t.Errorf("vertical reset = %+v", v.Bounds())
	}
}

func TestSetZoomScaleClamps(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0.5, 0.5},
		{0, MinZoomScale},
		{-3, MinZoomScale},
		{1, MaxZoomScale},
		{7, MaxZoomScale},
	}
	for _, tt := range tests {
		r := New(Horizontal, WithLogger(quietLogger()))
		r.SetZoomScale(tt.in)
		if r.ZoomScale() != tt.want {
			t.Errorf("SetZoomScale(%v) -> %v, want %v", tt.in, r.ZoomScale(), tt.want)
		}
	}
}

func TestSetBoundsRejects(t *testing.T) {
	r := newRange(Horizontal, 0, 10, 100)
	for _, b := range [][2]float64{{5, 5}, {6, 1}, {math.NaN(), 1}, {0, math.Inf(1)}} {
		if r.SetBounds(b[0], b[1]) {
			t.Errorf("SetBounds(%v, %v) accepted", b[0], b[1])
		}
	}
	if r.Bounds() != (Bounds{0, 10}) {
		t.Errorf("bounds changed to %+v", r.Bounds())
	}
	if r.SetExtent(0) || r.Extent() != 100 {
		t.Error("SetExtent(0) should be rejected")
	}
}

func TestTicks(t *testing.T) {
	r := newRange(Horizontal, -1, 1, 100)
	ticks := r.Ticks()
	if len(ticks) != TickCount {
		t.Fatalf("len(Ticks) = %d, want %d", len(ticks), TickCount)
	}
	if ticks[0] != -1 || ticks[TickCount-1] != 1 {
		t.Errorf("ticks span [%v, %v], want [-1, 1]", ticks[0], ticks[TickCount-1])
	}
	for i := 1; i < len(ticks); i++ {
		if !approx(ticks[i]-ticks[i-1], 0.2) {
			t.Errorf("tick step %d = %v, want 0.2", i, ticks[i]-ticks[i-1])
		}
	}
}

func TestFormatTick(t *testing.T) {
	tests := []struct {
		v, span float64
		want    string
	}{
		{12.346, 100, "12"},
		{12.346, 20, "12.3"},
		{12.346, 5, "12.35"},
		{0.12345, 0.5, "0.123"},
		{2.5, 5, "2.5"},
		{-0.0001, 5, "0"},
	}
	for _, tt := range tests {
		if got := FormatTick(tt.v, tt.span); got != tt.want {
			t.Errorf("FormatTick(%v, %v) = %q, want %q", tt.v, tt.span, got, tt.want)
		}
	}
}
