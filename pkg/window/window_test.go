package window

import (
	"io"
	"math"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/scopeplot/pkg/axis"
	"github.com/matzehuels/scopeplot/pkg/errors"
	"github.com/matzehuels/scopeplot/pkg/series"
)

func newTarget(channels int, upper float64) Target {
	quiet := log.New(io.Discard)
	return Target{
		Series: series.New(channels),
		X:      axis.New(axis.Horizontal, axis.WithBounds(0, upper), axis.WithLogger(quiet)),
		Logger: quiet,
	}
}

// ramp returns n samples per channel counting up from start; channel ch is
// offset by 100*ch so channels stay distinguishable.
func ramp(channels, n int, start float64) [][]float64 {
	out := make([][]float64, channels)
	for ch := range out {
		out[ch] = make([]float64, n)
		for i := range out[ch] {
			out[ch][i] = start + float64(i) + 100*float64(ch)
		}
	}
	return out
}

func xs(pts []series.Point) []float64 {
	out := make([]float64, len(pts))
	for i, p := range pts {
		out[i] = p.X
	}
	return out
}

func ys(pts []series.Point) []float64 {
	out := make([]float64, len(pts))
	for i, p := range pts {
		out[i] = p.Y
	}
	return out
}

func seq(from, to float64) []float64 {
	var out []float64
	for v := from; v <= to; v++ {
		out = append(out, v)
	}
	return out
}

func equal(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"free", ModeFree, false},
		{"Buffer", ModeBuffer, false},
		{" cursor ", ModeCursor, false},
		{"SCREEN", ModeScreen, false},
		{"sweep", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				if !errors.Is(err, errors.ErrCodeInvalidMode) {
					t.Fatalf("ParseMode(%q) error = %v, want INVALID_MODE", tt.in, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseMode(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
			}
		})
	}
}

func TestModeNextWraps(t *testing.T) {
	m := ModeFree
	for range Modes() {
		m = m.Next()
	}
	if m != ModeFree {
		t.Errorf("cycling through all modes ended at %v", m)
	}
}

func TestPack(t *testing.T) {
	tests := []struct {
		name       string
		n          int
		head       float64
		delta      float64
		upper      float64
		wantPlaced int
		wantHead   float64
		wantRest   int
	}{
		{"unbounded", 7, 0, 1, Unbounded, 7, 7, 0},
		{"stops before upper", 15, 0, 1, 10, 10, 10, 5},
		{"starts mid screen", 5, 8, 1, 10, 2, 10, 3},
		{"head at upper", 4, 10, 1, 10, 0, 10, 4},
		{"fractional spacing", 10, 0, 0.25, 1, 4, 1, 6},
		{"zero spacing", 3, 0, 0, 10, 3, 0, 0},
		{"empty queue", 0, 0, 1, 10, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := series.New(2)
			rest, head, placed := Pack(ramp(2, tt.n, 0), dst, tt.head, tt.delta, tt.upper)
			if placed != tt.wantPlaced {
				t.Errorf("placed = %d, want %d", placed, tt.wantPlaced)
			}
			if head != tt.wantHead {
				t.Errorf("head = %g, want %g", head, tt.wantHead)
			}
			if remaining(rest) != tt.wantRest {
				t.Errorf("rest = %d, want %d", remaining(rest), tt.wantRest)
			}
			if dst.Len() != placed {
				t.Errorf("dst.Len() = %d, want %d", dst.Len(), placed)
			}
			for k, p := range dst.Points(1) {
				if p.X != tt.head+float64(k)*tt.delta || p.Y != 100+float64(k) {
					t.Errorf("point %d = %+v", k, p)
				}
			}
		})
	}
}

func TestPackContinuesWithRemainder(t *testing.T) {
	dst := series.New(1)
	rest, _, _ := Pack([][]float64{{1, 2, 3, 4}}, dst, 0, 1, 2)
	if got := rest[0]; !equal(got, []float64{3, 4}) {
		t.Fatalf("rest = %v, want [3 4]", got)
	}
}

func TestValidateBatch(t *testing.T) {
	tests := []struct {
		name     string
		batch    [][]float64
		channels int
		ok       bool
	}{
		{"matching", [][]float64{{1, 2}, {3, 4}}, 2, true},
		{"empty rows", [][]float64{{}, {}}, 2, true},
		{"no channels", nil, 0, true},
		{"too few channels", [][]float64{{1}}, 2, false},
		{"too many channels", [][]float64{{1}, {2}, {3}}, 2, false},
		{"ragged", [][]float64{{1, 2}, {3}}, 2, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBatch(tt.batch, tt.channels)
			if tt.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, errors.ErrCodeInvalidBatch) {
				t.Fatalf("error = %v, want INVALID_BATCH", err)
			}
		})
	}
}

func TestMalformedBatchLeavesStateUntouched(t *testing.T) {
	for _, mode := range Modes() {
		t.Run(mode.String(), func(t *testing.T) {
			target := newTarget(2, 10)
			p, err := New(mode, target, 1)
			if err != nil {
				t.Fatal(err)
			}
			if err := p.AddData(ramp(2, 3, 0), target.X.Bounds()); err != nil {
				t.Fatal(err)
			}
			version, head := target.Series.Version(), p.WriteHead()

			bad := [][]float64{{1, 2, 3}, {4}}
			if err := p.AddData(bad, target.X.Bounds()); !errors.Is(err, errors.ErrCodeInvalidBatch) {
				t.Fatalf("error = %v, want INVALID_BATCH", err)
			}
			if target.Series.Version() != version || p.WriteHead() != head {
				t.Errorf("malformed batch mutated state")
			}
		})
	}
}

func TestBoundedPoliciesRequirePositiveUpper(t *testing.T) {
	for _, mode := range []Mode{ModeBuffer, ModeCursor, ModeScreen} {
		t.Run(mode.String(), func(t *testing.T) {
			target := newTarget(1, 10)
			p, err := New(mode, target, 1)
			if err != nil {
				t.Fatal(err)
			}
			err = p.AddData(ramp(1, 3, 0), axis.Bounds{Lower: -5, Upper: 0})
			if !errors.Is(err, errors.ErrCodeInvalidAxis) {
				t.Fatalf("error = %v, want INVALID_AXIS", err)
			}
			if target.Series.Len() != 0 {
				t.Errorf("series grew to %d", target.Series.Len())
			}
		})
	}
}

func TestCallerBatchIsNotAliased(t *testing.T) {
	target := newTarget(1, 10)
	p, _ := NewFree(target, 1, false)
	batch := [][]float64{{1, 2, 3}}
	if err := p.AddData(batch, target.X.Bounds()); err != nil {
		t.Fatal(err)
	}
	batch[0][0] = 99
	if got := target.Series.Points(0)[0].Y; got != 1 {
		t.Errorf("stored sample changed with caller slice: %g", got)
	}
}

func TestSetDeltaRejectsNegative(t *testing.T) {
	target := newTarget(1, 10)
	p, _ := New(ModeScreen, target, 0.5)
	for _, d := range []float64{-1, math.NaN(), math.Inf(1)} {
		if p.SetDelta(d) {
			t.Errorf("SetDelta(%g) accepted", d)
		}
		if p.Delta() != 0.5 {
			t.Errorf("delta changed to %g", p.Delta())
		}
	}
	if !p.SetDelta(0) || p.Delta() != 0 {
		t.Errorf("SetDelta(0) rejected")
	}
}

func TestNewRejectsIncompleteTarget(t *testing.T) {
	if _, err := New(ModeFree, Target{}, 1); err == nil {
		t.Fatal("expected error for empty target")
	}
	if _, err := New(Mode(42), newTarget(1, 10), 1); !errors.Is(err, errors.ErrCodeInvalidMode) {
		t.Fatalf("error = %v, want INVALID_MODE", err)
	}
}
