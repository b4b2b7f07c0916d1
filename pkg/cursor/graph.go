package cursor

import (
	"slices"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/scopeplot/pkg/errors"
)

// EventKind classifies graph notifications.
type EventKind int

const (
	Registered EventKind = iota
	Unregistered
	Moved
	Referenced
	Restyled
	Restored
)

var eventNames = [...]string{"registered", "unregistered", "moved", "referenced", "restyled", "restored"}

func (k EventKind) String() string {
	if k < 0 || int(k) >= len(eventNames) {
		return "unknown"
	}
	return eventNames[k]
}

// Event reports a change to one cursor. Restored events carry a nil cursor.
type Event struct {
	Kind   EventKind
	Cursor *Cursor
}

// Graph is the registry of cursors and their references.
type Graph struct {
	cursors    []*Cursor
	candidates map[*Cursor][]*Cursor
	nextName   int
	updating   bool
	subs       map[int]func(Event)
	nextSub    int
	logger     *log.Logger
}

// Option configures a Graph.
type Option func(*Graph)

// WithLogger sets the graph's logger.
func WithLogger(l *log.Logger) Option {
	return func(g *Graph) { g.logger = l }
}

// NewGraph returns an empty graph.
func NewGraph(opts ...Option) *Graph {
	g := &Graph{
		candidates: make(map[*Cursor][]*Cursor),
		subs:       make(map[int]func(Event)),
		logger:     log.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// NewCursor returns an unregistered cursor with default position, delta and
// colour. An empty name is replaced by the next free counter value.
func (g *Graph) NewCursor(name string) *Cursor {
	if name == "" {
		name = g.autoName()
	}
	return &Cursor{
		id:       uuid.NewString(),
		name:     name,
		position: DefaultPosition,
		color:    Blue,
	}
}

func (g *Graph) autoName() string {
	for {
		name := strconv.Itoa(g.nextName)
		g.nextName++
		if g.ByName(name) == nil {
			return name
		}
	}
}

// Len returns the number of registered cursors.
func (g *Graph) Len() int { return len(g.cursors) }

// Cursors returns the registered cursors in registration order.
func (g *Graph) Cursors() []*Cursor { return slices.Clone(g.cursors) }

// Contains reports whether c is registered.
func (g *Graph) Contains(c *Cursor) bool { return c != nil && slices.Contains(g.cursors, c) }

// ByName returns the registered cursor called name, or nil.
func (g *Graph) ByName(name string) *Cursor {
	for _, c := range g.cursors {
		if c.name == name {
			return c
		}
	}
	return nil
}

// ByID returns the registered cursor with the given id, or nil.
func (g *Graph) ByID(id string) *Cursor {
	for _, c := range g.cursors {
		if c.id == id {
			return c
		}
	}
	return nil
}

// Lookup resolves key as an id first, then as a name.
func (g *Graph) Lookup(key string) (*Cursor, error) {
	if c := g.ByID(key); c != nil {
		return c, nil
	}
	if c := g.ByName(key); c != nil {
		return c, nil
	}
	return nil, errors.New(errors.ErrCodeCursorNotFound, "no cursor %q", key)
}

// Register adds c to the graph.
func (g *Graph) Register(c *Cursor) error {
	if err := g.begin(); err != nil {
		return err
	}
	defer g.end()

	if c == nil {
		return errors.New(errors.ErrCodeInvalidCursor, "cannot register a nil cursor")
	}
	if g.Contains(c) {
		return errors.New(errors.ErrCodeDuplicateCursor, "cursor %q is already registered", c.name)
	}
	if g.ByName(c.name) != nil {
		return errors.New(errors.ErrCodeDuplicateCursor, "a cursor named %q already exists", c.name)
	}
	if err := errors.ValidateCursorName(c.name); err != nil {
		return err
	}
	if c.ref != nil && !g.Contains(c.ref) {
		c.ref = nil
	}
	g.cursors = append(g.cursors, c)
	g.recompute()
	g.logger.Debug("cursor registered", "name", c.name, "position", c.position)
	g.emit(Event{Kind: Registered, Cursor: c})
	return nil
}

// Unregister removes c. Cursors referencing c are disconnected and keep
// their position.
func (g *Graph) Unregister(c *Cursor) error {
	if err := g.begin(); err != nil {
		return err
	}
	defer g.end()

	if !g.Contains(c) {
		return errors.New(errors.ErrCodeCursorNotFound, "cursor %v is not registered", c)
	}
	var orphans []*Cursor
	for _, d := range g.cursors {
		if d.ref == c {
			d.ref = nil
			orphans = append(orphans, d)
		}
	}
	g.cursors = slices.DeleteFunc(g.cursors, func(x *Cursor) bool { return x == c })
	c.ref = nil
	g.recompute()
	g.logger.Debug("cursor unregistered", "name", c.name, "orphans", len(orphans))
	g.emit(Event{Kind: Unregistered, Cursor: c})
	for _, d := range orphans {
		g.emit(Event{Kind: Referenced, Cursor: d})
	}
	return nil
}

// Candidates returns every other registered cursor that does not reference
// c, directly or transitively. Any of them may become c's reference.
func (g *Graph) Candidates(c *Cursor) []*Cursor {
	return slices.Clone(g.candidates[c])
}

// Dependents returns the cursors that reference c directly.
func (g *Graph) Dependents(c *Cursor) []*Cursor {
	var out []*Cursor
	for _, d := range g.cursors {
		if d.ref == c {
			out = append(out, d)
		}
	}
	return out
}

// SetReference makes c follow r, keeping c where it is; r == nil
// disconnects c. An assignment that would close a cycle is rejected.
func (g *Graph) SetReference(c, r *Cursor) error {
	if err := g.begin(); err != nil {
		return err
	}
	defer g.end()

	if !g.Contains(c) {
		return errors.New(errors.ErrCodeCursorNotFound, "cursor %v is not registered", c)
	}
	if r == nil {
		if c.ref != nil {
			c.ref = nil
			g.recompute()
			g.emit(Event{Kind: Referenced, Cursor: c})
		}
		return nil
	}
	if !g.Contains(r) {
		return errors.New(errors.ErrCodeCursorNotFound, "reference %v is not registered", r)
	}
	if follows(r, c) {
		return errors.New(errors.ErrCodeReferenceCycle, "%q cannot reference %q: it would form a cycle", c.name, r.name)
	}
	c.ref = r
	c.delta = r.position - c.position
	g.recompute()
	g.logger.Debug("cursor referenced", "name", c.name, "reference", r.name, "delta", c.delta)
	g.emit(Event{Kind: Referenced, Cursor: c})
	return nil
}

// SetPosition moves c. A referencing cursor keeps its reference and takes
// a new delta instead. Dependents follow.
func (g *Graph) SetPosition(c *Cursor, pos float64) error {
	if err := g.begin(); err != nil {
		return err
	}
	defer g.end()

	if !g.Contains(c) {
		return errors.New(errors.ErrCodeCursorNotFound, "cursor %v is not registered", c)
	}
	c.position = pos
	if c.ref != nil {
		c.delta = c.ref.position - pos
	}
	g.propagate(c)
	return nil
}

// SetDelta changes c's offset to its reference. For a referencing cursor
// this moves it, and its dependents follow.
func (g *Graph) SetDelta(c *Cursor, delta float64) error {
	if err := g.begin(); err != nil {
		return err
	}
	defer g.end()

	if !g.Contains(c) {
		return errors.New(errors.ErrCodeCursorNotFound, "cursor %v is not registered", c)
	}
	c.delta = delta
	if c.ref == nil {
		g.emit(Event{Kind: Moved, Cursor: c})
		return nil
	}
	c.position = c.ref.position - delta
	g.propagate(c)
	return nil
}

// SetColor changes c's colour.
func (g *Graph) SetColor(c *Cursor, col Color) error {
	if err := g.begin(); err != nil {
		return err
	}
	defer g.end()

	if !g.Contains(c) {
		return errors.New(errors.ErrCodeCursorNotFound, "cursor %v is not registered", c)
	}
	c.color = col
	g.emit(Event{Kind: Restyled, Cursor: c})
	return nil
}

// Rename changes c's name. Names stay unique.
func (g *Graph) Rename(c *Cursor, name string) error {
	if err := g.begin(); err != nil {
		return err
	}
	defer g.end()

	if !g.Contains(c) {
		return errors.New(errors.ErrCodeCursorNotFound, "cursor %v is not registered", c)
	}
	if err := errors.ValidateCursorName(name); err != nil {
		return err
	}
	if other := g.ByName(name); other != nil && other != c {
		return errors.New(errors.ErrCodeDuplicateCursor, "a cursor named %q already exists", name)
	}
	c.name = name
	g.emit(Event{Kind: Restyled, Cursor: c})
	return nil
}

// Subscribe registers fn for every change. Callbacks run synchronously
// while the update is still in progress; mutating the graph from a callback
// fails.
func (g *Graph) Subscribe(fn func(Event)) (cancel func()) {
	id := g.nextSub
	g.nextSub++
	g.subs[id] = fn
	return func() { delete(g.subs, id) }
}

// propagate moves every cursor that transitively follows c so the offset
// invariant holds again.
func (g *Graph) propagate(c *Cursor) {
	g.emit(Event{Kind: Moved, Cursor: c})
	queue := []*Cursor{c}
	for len(queue) > 0 {
		head := queue[0]
		queue = queue[1:]
		for _, d := range g.cursors {
			if d.ref != head {
				continue
			}
			d.position = head.position - d.delta
			g.emit(Event{Kind: Moved, Cursor: d})
			queue = append(queue, d)
		}
	}
}

// recompute rebuilds every candidate set.
func (g *Graph) recompute() {
	clear(g.candidates)
	for _, c := range g.cursors {
		var set []*Cursor
		for _, other := range g.cursors {
			if other != c && !follows(other, c) {
				set = append(set, other)
			}
		}
		g.candidates[c] = set
	}
}

// follows reports whether x references target, directly or through a chain.
// A cursor follows itself.
func follows(x, target *Cursor) bool {
	for p := x; p != nil; p = p.ref {
		if p == target {
			return true
		}
	}
	return false
}

func (g *Graph) begin() error {
	if g.updating {
		return errors.New(errors.ErrCodeNotReady, "cursor graph is mid-update")
	}
	g.updating = true
	return nil
}

func (g *Graph) end() { g.updating = false }

func (g *Graph) emit(e Event) {
	for _, fn := range g.subs {
		fn(e)
	}
}
