package server

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/scopeplot/pkg/cursor"
	"github.com/matzehuels/scopeplot/pkg/errors"
	"github.com/matzehuels/scopeplot/pkg/render/cursorgraph"
)

// =============================================================================
// Cursors
// =============================================================================

func (s *Server) handleListCursors(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.session.Cursors())
}

func (s *Server) handleAddCursor(w http.ResponseWriter, r *http.Request) {
	body := struct {
		Name     string   `json:"name"`
		Position *float64 `json:"position"`
	}{}
	if err := decode(w, r, &body); err != nil {
		writeError(w, err)
		return
	}
	var pos float64 = cursor.DefaultPosition
	if body.Position != nil {
		pos = *body.Position
	}
	rec, err := s.session.AddCursor(body.Name, pos)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

// cursorPatch holds the fields a PATCH may change. Reference "" disconnects
// the cursor; a nil field is left alone.
type cursorPatch struct {
	Name      *string       `json:"name"`
	Reference *string       `json:"reference"`
	Delta     *float64      `json:"delta"`
	Position  *float64      `json:"position"`
	Color     *cursor.Color `json:"color"`
}

func (s *Server) handleUpdateCursor(w http.ResponseWriter, r *http.Request) {
	key, err := pathParam(r, "key")
	if err != nil {
		writeError(w, err)
		return
	}
	var p cursorPatch
	if err := decode(w, r, &p); err != nil {
		writeError(w, err)
		return
	}

	// Reference before delta: connecting derives the delta, an explicit
	// delta then overrides it.
	if p.Reference != nil {
		if err := s.session.SetCursorReference(key, *p.Reference); err != nil {
			writeError(w, err)
			return
		}
	}
	if p.Delta != nil {
		if err := s.session.SetCursorDelta(key, *p.Delta); err != nil {
			writeError(w, err)
			return
		}
	}
	if p.Position != nil {
		if err := s.session.MoveCursor(key, *p.Position); err != nil {
			writeError(w, err)
			return
		}
	}
	if p.Color != nil {
		if err := s.session.SetCursorColor(key, *p.Color); err != nil {
			writeError(w, err)
			return
		}
	}
	if p.Name != nil {
		if err := s.session.RenameCursor(key, *p.Name); err != nil {
			writeError(w, err)
			return
		}
		key = *p.Name
	}

	rec, ok := findCursor(s.session.Cursors(), key)
	if !ok {
		writeError(w, errors.New(errors.ErrCodeCursorNotFound, "no cursor %q", key))
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func findCursor(records []cursor.Record, key string) (cursor.Record, bool) {
	for _, r := range records {
		if r.ID == key {
			return r, true
		}
	}
	for _, r := range records {
		if r.Name == key {
			return r, true
		}
	}
	return cursor.Record{}, false
}

func (s *Server) handleRemoveCursor(w http.ResponseWriter, r *http.Request) {
	key, err := pathParam(r, "key")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.session.RemoveCursor(key); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCandidates(w http.ResponseWriter, r *http.Request) {
	key, err := pathParam(r, "key")
	if err != nil {
		writeError(w, err)
		return
	}
	names, err := s.session.CursorCandidates(key)
	if err != nil {
		writeError(w, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, names)
}

func (s *Server) handleCursorGraph(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	detailed, _ := strconv.ParseBool(q.Get("detailed"))
	dot := cursorgraph.ToDOT(s.session.Cursors(), cursorgraph.Options{Detailed: detailed})

	switch q.Get("format") {
	case "", "dot":
		w.Header().Set("Content-Type", "text/vnd.graphviz")
		_, _ = w.Write([]byte(dot))
	case "svg":
		svg, err := cursorgraph.RenderSVG(r.Context(), dot)
		if err != nil {
			writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		_, _ = w.Write(svg)
	default:
		writeError(w, errors.New(errors.ErrCodeInvalidFormat, "unknown graph format %q", q.Get("format")))
	}
}

// =============================================================================
// Layouts
// =============================================================================

func (s *Server) handleListLayouts(w http.ResponseWriter, r *http.Request) {
	names, err := s.store.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, names)
}

func (s *Server) handleLoadLayout(w http.ResponseWriter, r *http.Request) {
	l, err := s.loadLayout(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) handleSaveLayout(w http.ResponseWriter, r *http.Request) {
	name, err := pathParam(r, "name")
	if err != nil {
		writeError(w, err)
		return
	}
	l := s.session.CursorLayout(name)
	if err := s.store.Save(r.Context(), l); err != nil {
		writeError(w, err)
		return
	}
	s.logger.Info("saved cursor layout", "name", name, "cursors", len(l.Cursors))
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) handleDeleteLayout(w http.ResponseWriter, r *http.Request) {
	name, err := pathParam(r, "name")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.store.Delete(r.Context(), name); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRestoreLayout(w http.ResponseWriter, r *http.Request) {
	l, err := s.loadLayout(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.session.RestoreCursors(l); err != nil {
		writeError(w, err)
		return
	}
	s.logger.Info("restored cursor layout", "name", l.Name, "cursors", len(l.Cursors))
	writeJSON(w, http.StatusOK, s.session.Cursors())
}

func (s *Server) loadLayout(r *http.Request) (cursor.Layout, error) {
	name, err := pathParam(r, "name")
	if err != nil {
		return cursor.Layout{}, err
	}
	return s.store.Load(r.Context(), name)
}

func pathParam(r *http.Request, name string) (string, error) {
	v, err := url.PathUnescape(chi.URLParam(r, name))
	if err != nil || v == "" {
		return "", errors.New(errors.ErrCodeInvalidInput, "invalid %s in path", name)
	}
	return v, nil
}
