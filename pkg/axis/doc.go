// Package axis maps between pixel space and value space for one plot axis
// and implements pan and zoom on top of that mapping.
//
// A [Range] is a bounded interval [lower, upper] drawn across a viewport of
// a known pixel extent. Horizontal axes grow left to right; vertical axes
// grow bottom to top, so their pixel origin (the top edge) maps to the
// upper bound.
//
// # Pan and Zoom
//
// Gestures are described in pixel coordinates relative to the viewport:
//
//	r := axis.New(axis.Horizontal, axis.WithBounds(0, 10), axis.WithExtent(800))
//	r.Pan(400, 380)       // drag 20px to the left: view moves right
//	r.ZoomIn(200)         // value under pixel 200 stays under pixel 200
//	r.ZoomOut(200)        // exact inverse of the ZoomIn above
//
// Pans shorter than [PanDeadZone] pixels are ignored to suppress jitter.
// Zooming is ignored while a pan gesture is in progress.
//
// # Configuration Rejection
//
// Invalid configuration (empty or inverted bounds, non-positive extent, zoom
// scale outside (0,1)) is never returned as an error: the setter logs a
// warning and either clamps the value or keeps the previous one.
//
// # Concurrency
//
// Range is not safe for concurrent use. The plot session serializes all
// access and hands window policies an immutable [Bounds] snapshot.
package axis
