package scope

import (
	"github.com/matzehuels/scopeplot/pkg/cursor"
	"github.com/matzehuels/scopeplot/pkg/series"
)

// DefaultPalette colours channels in order, wrapping around.
var DefaultPalette = []cursor.Color{
	{R: 0xf5, G: 0xc2, B: 0x11, A: 0xff},
	{R: 0x2e, G: 0xcc, B: 0x71, A: 0xff},
	{R: 0x34, G: 0x98, B: 0xdb, A: 0xff},
	{R: 0xe7, G: 0x4c, B: 0x3c, A: 0xff},
	{R: 0x9b, G: 0x59, B: 0xb6, A: 0xff},
	{R: 0x1a, G: 0xbc, B: 0x9c, A: 0xff},
}

func channelColor(palette []cursor.Color, ch int) cursor.Color {
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	return palette[ch%len(palette)]
}

// segments splits a channel wherever x steps backwards, so a wrapped sweep
// is not drawn as a line across the screen.
func segments(pts []series.Point) [][]series.Point {
	var out [][]series.Point
	start := 0
	for i := 1; i < len(pts); i++ {
		if pts[i].X < pts[i-1].X {
			out = append(out, pts[start:i])
			start = i
		}
	}
	if start < len(pts) {
		out = append(out, pts[start:])
	}
	return out
}
