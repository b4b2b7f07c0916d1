package cursor

import (
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/scopeplot/pkg/errors"
)

// Record is the persisted form of one cursor.
type Record struct {
	ID        string  `json:"id" bson:"id" toml:"id"`
	Name      string  `json:"name" bson:"name" toml:"name"`
	Position  float64 `json:"position" bson:"position" toml:"position"`
	Delta     float64 `json:"delta" bson:"delta" toml:"delta"`
	Color     string  `json:"color" bson:"color" toml:"color"`
	Reference string  `json:"reference,omitempty" bson:"reference,omitempty" toml:"reference"`
}

// Layout is a saved set of cursors.
type Layout struct {
	Name    string    `json:"name" bson:"_id"`
	SavedAt time.Time `json:"saved_at" bson:"saved_at"`
	Cursors []Record  `json:"cursors" bson:"cursors"`
}

// Layout captures the registered cursors in registration order.
func (g *Graph) Layout(name string) Layout {
	l := Layout{Name: name, SavedAt: time.Now().UTC(), Cursors: make([]Record, 0, len(g.cursors))}
	for _, c := range g.cursors {
		r := Record{
			ID:       c.id,
			Name:     c.name,
			Position: c.position,
			Delta:    c.delta,
			Color:    c.color.String(),
		}
		if c.ref != nil {
			r.Reference = c.ref.id
		}
		l.Cursors = append(l.Cursors, r)
	}
	return l
}

// Restore replaces every cursor with those in l. References resolve by id,
// then by name. Positions of referencing cursors are derived from their
// reference and delta. On error the graph is left unchanged.
func (g *Graph) Restore(l Layout) error {
	if g.updating {
		return errors.New(errors.ErrCodeNotReady, "cursor graph is mid-update")
	}

	built := make([]*Cursor, 0, len(l.Cursors))
	byKey := make(map[string]*Cursor, 2*len(l.Cursors))
	names := make(map[string]bool, len(l.Cursors))
	for i, r := range l.Cursors {
		if err := errors.ValidateCursorName(r.Name); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidCursor, err, "cursor %d", i)
		}
		if names[r.Name] {
			return errors.New(errors.ErrCodeDuplicateCursor, "layout repeats cursor name %q", r.Name)
		}
		names[r.Name] = true

		col := Blue
		if r.Color != "" {
			parsed, err := ParseColor(r.Color)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidCursor, err, "cursor %q", r.Name)
			}
			col = parsed
		}
		id := r.ID
		if id == "" {
			id = uuid.NewString()
		}
		if _, dup := byKey[id]; dup {
			return errors.New(errors.ErrCodeDuplicateCursor, "layout repeats cursor id %q", id)
		}
		c := &Cursor{id: id, name: r.Name, position: r.Position, delta: r.Delta, color: col}
		built = append(built, c)
		byKey[id] = c
	}
	for _, c := range built {
		if _, taken := byKey[c.name]; !taken {
			byKey[c.name] = c
		}
	}

	for i, r := range l.Cursors {
		if r.Reference == "" {
			continue
		}
		ref, ok := byKey[r.Reference]
		if !ok {
			return errors.New(errors.ErrCodeCursorNotFound, "cursor %q references unknown cursor %q", r.Name, r.Reference)
		}
		if follows(ref, built[i]) {
			return errors.New(errors.ErrCodeReferenceCycle, "cursor %q closes a reference cycle", r.Name)
		}
		built[i].ref = ref
	}

	settled := make(map[*Cursor]bool, len(built))
	var settle func(c *Cursor)
	settle = func(c *Cursor) {
		if settled[c] {
			return
		}
		if c.ref != nil {
			settle(c.ref)
			c.position = c.ref.position - c.delta
		}
		settled[c] = true
	}
	for _, c := range built {
		settle(c)
	}

	g.updating = true
	defer g.end()
	g.cursors = built
	g.recompute()
	g.logger.Debug("cursor layout restored", "name", l.Name, "cursors", len(built))
	g.emit(Event{Kind: Restored})
	return nil
}
