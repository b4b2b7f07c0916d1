package plot

import (
	"github.com/matzehuels/scopeplot/pkg/cursor"
)

// Cursors are addressed by id or name. Results are copies; the live
// cursor objects never leave the session.

// AddCursor registers a new cursor at pos. An empty name is generated.
func (s *Session) AddCursor(name string, pos float64) (cursor.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.cursors.NewCursor(name)
	if err := s.cursors.Register(c); err != nil {
		return cursor.Record{}, err
	}
	if err := s.cursors.SetPosition(c, pos); err != nil {
		return cursor.Record{}, err
	}
	return record(c), nil
}

// RemoveCursor unregisters a cursor; cursors following it are disconnected.
func (s *Session) RemoveCursor(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, err := s.cursors.Lookup(key)
	if err != nil {
		return err
	}
	return s.cursors.Unregister(c)
}

// MoveCursor sets a cursor's position.
func (s *Session) MoveCursor(key string, pos float64) error {
	return s.withCursor(key, func(c *cursor.Cursor) error { return s.cursors.SetPosition(c, pos) })
}

// SetCursorDelta sets a cursor's offset to its reference.
func (s *Session) SetCursorDelta(key string, delta float64) error {
	return s.withCursor(key, func(c *cursor.Cursor) error { return s.cursors.SetDelta(c, delta) })
}

// SetCursorColor sets a cursor's colour.
func (s *Session) SetCursorColor(key string, col cursor.Color) error {
	return s.withCursor(key, func(c *cursor.Cursor) error { return s.cursors.SetColor(c, col) })
}

// RenameCursor renames a cursor.
func (s *Session) RenameCursor(key, name string) error {
	return s.withCursor(key, func(c *cursor.Cursor) error { return s.cursors.Rename(c, name) })
}

// SetCursorReference makes one cursor follow another; an empty refKey
// disconnects it.
func (s *Session) SetCursorReference(key, refKey string) error {
	return s.withCursor(key, func(c *cursor.Cursor) error {
		if refKey == "" {
			return s.cursors.SetReference(c, nil)
		}
		r, err := s.cursors.Lookup(refKey)
		if err != nil {
			return err
		}
		return s.cursors.SetReference(c, r)
	})
}

// CursorCandidates returns the names of the cursors key may reference.
func (s *Session) CursorCandidates(key string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, err := s.cursors.Lookup(key)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, r := range s.cursors.Candidates(c) {
		names = append(names, r.Name())
	}
	return names, nil
}

// Cursors returns every cursor in registration order.
func (s *Session) Cursors() []cursor.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursorRecords()
}

// CursorLayout captures the cursors for persistence.
func (s *Session) CursorLayout(name string) cursor.Layout {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursors.Layout(name)
}

// RestoreCursors replaces every cursor with those in l.
func (s *Session) RestoreCursors(l cursor.Layout) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursors.Restore(l)
}

// SubscribeCursors registers fn for cursor changes. fn runs with the session
// lock held.
func (s *Session) SubscribeCursors(fn func(cursor.Event)) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursors.Subscribe(fn)
}

func (s *Session) withCursor(key string, fn func(*cursor.Cursor) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, err := s.cursors.Lookup(key)
	if err != nil {
		return err
	}
	return fn(c)
}

func (s *Session) cursorRecords() []cursor.Record {
	cs := s.cursors.Cursors()
	out := make([]cursor.Record, len(cs))
	for i, c := range cs {
		out[i] = record(c)
	}
	return out
}

func record(c *cursor.Cursor) cursor.Record {
	r := cursor.Record{
		ID:       c.ID(),
		Name:     c.Name(),
		Position: c.Position(),
		Delta:    c.Delta(),
		Color:    c.Color().String(),
	}
	if ref := c.Reference(); ref != nil {
		r.Reference = ref.ID()
	}
	return r
}
