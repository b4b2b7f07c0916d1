package axis

import (
	"strconv"
	"strings"
)

// TickCount is the number of major ticks; the span is always divided into
// ten equal segments. Minor ticks are not supported.
const TickCount = 11

// Ticks returns TickCount evenly spaced values from lower to upper inclusive.
func (r *Range) Ticks() []float64 {
	ticks := make([]float64, TickCount)
	step := r.Span() / float64(TickCount-1)
	for i := range ticks {
		ticks[i] = r.lower + float64(i)*step
	}
	ticks[TickCount-1] = r.upper
	return ticks
}

// TickLabel formats v with a precision chosen from the current span: wide
// ranges drop decimals, narrow ones keep up to three. Trailing zeros are
// trimmed.
func (r *Range) TickLabel(v float64) string {
	return FormatTick(v, r.Span())
}

// FormatTick formats v for an axis of the given span.
func FormatTick(v, span float64) string {
	prec := 3
	switch {
	case span > 50:
		prec = 0
	case span > 10:
		prec = 1
	case span > 1:
		prec = 2
	}
	s := strconv.FormatFloat(v, 'f', prec, 64)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	}
	if s == "-0" {
		s = "0"
	}
	return s
}
