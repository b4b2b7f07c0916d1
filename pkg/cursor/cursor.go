// Package cursor maintains a pool of measurement cursors on the x-axis and
// the reference relation between them.
//
// A cursor may reference another cursor. While it does, the graph keeps
//
//	position(c) == position(c.Reference()) - c.Delta()
//
// after every mutation: moving the reference drags its dependents along,
// moving a referencing cursor recomputes its delta, and changing the delta
// moves the cursor. References always form a forest; an assignment that
// would close a cycle is rejected with REFERENCE_CYCLE.
//
// All mutation goes through [Graph]; a [Cursor] only exposes getters. A
// Graph is not safe for concurrent use and is normally owned by a plot
// session that serializes access.
package cursor

// Cursor is a named vertical marker at an x position.
type Cursor struct {
	id       string
	name     string
	position float64
	delta    float64
	color    Color
	ref      *Cursor
}

// DefaultPosition is where new cursors are placed.
const DefaultPosition = 3

func (c *Cursor) ID() string        { return c.id }
func (c *Cursor) Name() string      { return c.name }
func (c *Cursor) Position() float64 { return c.position }
func (c *Cursor) Delta() float64    { return c.delta }
func (c *Cursor) Color() Color      { return c.color }

// Reference returns the cursor c follows, or nil.
func (c *Cursor) Reference() *Cursor { return c.ref }

func (c *Cursor) String() string { return c.name }
