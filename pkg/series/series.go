// Package series holds the per-channel point sequences a plot displays.
//
// A [Set] is owned by the windowing engine: only the active window policy
// mutates it. Everything else (renderers, HTTP handlers, the terminal view)
// sees it through the read-only [View] interface and learns about changes
// through [Set.OnChange] or by polling [View.Version].
//
// All channels of a Set always have the same length. Every mutating method
// operates on all channels at once to keep it that way.
//
// Set is not safe for concurrent use; the plot session serializes access.
package series

// Point is a single (x, y) sample position.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// View is the read-only face of a Set.
type View interface {
	// Channels returns the number of channels.
	Channels() int
	// Len returns the number of points in each channel.
	Len() int
	// Points returns a copy of one channel's points.
	Points(ch int) []Point
	// Version increases by one on every mutation.
	Version() uint64
}

// Set is an ordered sequence of points per channel.
type Set struct {
	channels  [][]Point
	version   uint64
	listeners map[int]func()
	nextID    int
}

// New creates an empty Set with the given number of channels.
func New(channels int) *Set {
	if channels < 0 {
		channels = 0
	}
	return &Set{
		channels:  make([][]Point, channels),
		listeners: make(map[int]func()),
	}
}

var _ View = (*Set)(nil)

// Channels returns the number of channels.
func (s *Set) Channels() int { return len(s.channels) }

// Len returns the number of points in each channel.
func (s *Set) Len() int {
	if len(s.channels) == 0 {
		return 0
	}
	return len(s.channels[0])
}

// Points returns a copy of channel ch. Out-of-range channels yield nil.
func (s *Set) Points(ch int) []Point {
	if ch < 0 || ch >= len(s.channels) {
		return nil
	}
	out := make([]Point, len(s.channels[ch]))
	copy(out, s.channels[ch])
	return out
}

// Snapshot returns a deep copy of all channels.
func (s *Set) Snapshot() [][]Point {
	out := make([][]Point, len(s.channels))
	for i := range s.channels {
		out[i] = s.Points(i)
	}
	return out
}

// Version increases by one on every mutation.
func (s *Set) Version() uint64 { return s.version }

// OnChange registers fn to be called after every mutation and returns a
// function that removes it. Listeners run synchronously on the mutating
// goroutine and must not mutate the Set.
func (s *Set) OnChange(fn func()) (cancel func()) {
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() { delete(s.listeners, id) }
}

// Append adds the point (xs[k], ys[ch][k]) to the end of every channel ch.
// It panics if ys does not have one row per channel of len(xs) values,
// which callers validate beforehand.
func (s *Set) Append(xs []float64, ys [][]float64) {
	if len(ys) != len(s.channels) {
		panic("series: append row count does not match channel count")
	}
	if len(xs) == 0 {
		return
	}
	for ch, row := range ys {
		if len(row) != len(xs) {
			panic("series: append row length does not match x count")
		}
		for k, x := range xs {
			s.channels[ch] = append(s.channels[ch], Point{X: x, Y: row[k]})
		}
	}
	s.changed()
}

// DropFront removes the n oldest points from every channel and returns
// how many were removed per channel.
func (s *Set) DropFront(n int) int {
	n = min(max(n, 0), s.Len())
	if n == 0 {
		return 0
	}
	for ch := range s.channels {
		s.channels[ch] = append(s.channels[ch][:0], s.channels[ch][n:]...)
	}
	s.changed()
	return n
}

// Renumber rewrites every x-coordinate as index*delta.
func (s *Set) Renumber(delta float64) {
	if s.Len() == 0 {
		return
	}
	for ch := range s.channels {
		for i := range s.channels[ch] {
			s.channels[ch][i].X = float64(i) * delta
		}
	}
	s.changed()
}

// ReplaceWith replaces every channel with the contents of src and clears
// src. Both sets must have the same channel count.
func (s *Set) ReplaceWith(src *Set) {
	if src.Channels() != s.Channels() {
		panic("series: replace with mismatched channel count")
	}
	for ch := range s.channels {
		s.channels[ch] = append(s.channels[ch][:0], src.channels[ch]...)
	}
	src.Clear()
	s.changed()
}

// Clear removes all points but keeps the channel count.
func (s *Set) Clear() {
	for ch := range s.channels {
		s.channels[ch] = s.channels[ch][:0]
	}
	s.changed()
}

// Resize clears the set and changes its channel count.
func (s *Set) Resize(channels int) {
	s.channels = make([][]Point, max(channels, 0))
	s.changed()
}

func (s *Set) changed() {
	s.version++
	for _, fn := range s.listeners {
		fn()
	}
}
