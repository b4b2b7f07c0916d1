// Package window decides how incoming per-channel sample batches are laid
// out on a bounded, evenly spaced x-axis.
//
// A [Policy] is one of four closed variants:
//
//   - [Free]: every sample is appended; the series grows without bound.
//   - [Buffer]: after the first screen is painted, samples fill a hidden
//     buffer that replaces the visible series in one step when full.
//   - [Cursor]: a write head sweeps left to right, new samples replace the
//     oldest ones and the head wraps at the axis upper bound.
//   - [Screen]: a fixed-width window that slides left as samples arrive.
//
// All variants lay samples out with [Pack], the single place where spacing
// and bounds arithmetic lives: sample k of a batch lands at
// x = writeHead + k*delta, and only while x stays below the axis upper bound.
//
// # Validation
//
// AddData validates the batch before touching any state: the number of
// channels must match the series and every channel must carry the same
// number of samples. A malformed batch returns an INVALID_BATCH error and
// nothing changes. Bounded variants also require a positive axis upper
// bound (INVALID_AXIS).
//
// # Concurrency
//
// Policies are not safe for concurrent use. The owning plot session
// serializes AddData, Reset and policy switches, and every AddData call
// reads the axis bounds exactly once.
package window
