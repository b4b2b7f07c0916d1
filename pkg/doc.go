// Package pkg provides the core libraries for scopeplot, a windowing engine
// for live oscilloscope-style plots.
//
// # Overview
//
// Samples arrive in batches, one slice per channel. A window policy decides
// which of them stay visible and where they sit on the x-axis; axis ranges
// map the result onto the viewport; cursors mark positions on the x-axis and
// may follow each other at a fixed delta. The pkg directory is organized
// into these areas:
//
//  1. [window] - Window policies (free, buffer, cursor, screen)
//  2. [axis] - Bounds, pan and zoom for each side of the plot
//  3. [cursor] - Cursors and the reference graph that couples them
//  4. [plot] - A concurrent session tying the above together
//  5. [render] - SVG, PNG and Graphviz output
//
// # Architecture
//
// The typical data flow:
//
//	producer ([signal] or HTTP)
//	         ↓
//	    [plot.Session] (validate batch, hand to the active policy)
//	         ↓
//	    [window] package (buffer, sweep or page the samples)
//	         ↓
//	    [plot.Frame] snapshot (series, bounds, cursors)
//	         ↓
//	    [render/scope] SVG/PNG, or the terminal canvas
//
// # Quick Start
//
//	opts := plot.DefaultOptions()
//	opts.Mode = window.ModeBuffer
//	opts.Channels = 2
//	sess, err := plot.New(opts)
//	if err != nil {
//	    return err
//	}
//	if err := sess.AddData([][]float64{{0, 1, 2}, {2, 1, 0}}); err != nil {
//	    return err
//	}
//	a, _ := sess.AddCursor("trigger", 1)
//	b, _ := sess.AddCursor("marker", 3)
//	_ = sess.SetCursorReference(b.ID, a.ID)
//	svg := scope.RenderSVG(sess.Snapshot())
//
// # Main Packages
//
// [series] - Per-channel point storage with bounded capacity and the pack
// operation used by the buffer policy.
//
// [config] - TOML session files under the XDG config directory.
//
// [store] - Named cursor layouts on disk, in Redis or in MongoDB.
//
// [observability] - Hook interfaces for session, store and HTTP events.
//
// [errors] - Coded errors shared by the session, store and HTTP layer.
//
// [buildinfo] - Version information stamped at link time.
package pkg
