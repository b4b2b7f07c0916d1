// Package plot owns one live oscilloscope view: the x and y axes, the
// per-channel series, the active window policy and the cursor graph.
//
// A [Session] is the single writer for all of that state. Every exported
// method takes the session lock, so producers, HTTP handlers and the
// terminal UI may call into the same session from different goroutines.
// Renderers read immutable [Frame] snapshots instead of the live series.
//
// Producers usually run on their own goroutine and hand batches over a
// channel:
//
//	batches := make(chan [][]float64, 16)
//	go gen.Run(ctx, batches)
//	err := sess.Feed(ctx, batches)
package plot
