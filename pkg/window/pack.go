package window

import (
	"math"

	"github.com/matzehuels/scopeplot/pkg/series"
)

// Unbounded is the upper bound used for packing without a capacity limit.
var Unbounded = math.Inf(1)

// Pack moves values from the front of queue into dst. Sample k of every
// channel lands at x = writeHead + k*delta; packing stops when the queue is
// exhausted or x would reach upper. It returns the unconsumed remainder of
// each channel, the next write head and the number of points placed per
// channel.
//
// queue must be rectangular (see ValidateBatch) with one row per channel
// of dst.
func Pack(queue [][]float64, dst *series.Set, writeHead, delta, upper float64) (rest [][]float64, head float64, placed int) {
	placed = slots(writeHead, delta, upper, remaining(queue))
	if placed == 0 {
		return queue, writeHead, 0
	}

	xs := make([]float64, placed)
	for k := range xs {
		xs[k] = writeHead + float64(k)*delta
	}
	ys := make([][]float64, len(queue))
	rest = make([][]float64, len(queue))
	for ch, row := range queue {
		ys[ch] = row[:placed]
		rest[ch] = row[placed:]
	}
	dst.Append(xs, ys)
	return rest, writeHead + float64(placed)*delta, placed
}

// slots counts how many of n samples fit from head before reaching upper.
func slots(head, delta, upper float64, n int) int {
	k := 0
	for k < n && head+float64(k)*delta < upper {
		k++
	}
	return k
}

// remaining returns the number of samples left per channel.
func remaining(queue [][]float64) int {
	if len(queue) == 0 {
		return 0
	}
	return len(queue[0])
}

// copyBatch deep-copies a batch so packing never aliases caller memory.
func copyBatch(batch [][]float64) [][]float64 {
	out := make([][]float64, len(batch))
	for i, row := range batch {
		out[i] = append([]float64(nil), row...)
	}
	return out
}
