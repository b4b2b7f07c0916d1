package server

import (
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/scopeplot/pkg/axis"
	"github.com/matzehuels/scopeplot/pkg/errors"
	"github.com/matzehuels/scopeplot/pkg/render/scope"
	"github.com/matzehuels/scopeplot/pkg/window"
)

const (
	defaultImageWidth  = 800
	defaultImageHeight = 400
)

func (s *Server) handleFrame(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.session.Snapshot())
}

func (s *Server) handleFrameSVG(w http.ResponseWriter, r *http.Request) {
	width, height, err := imageSize(r)
	if err != nil {
		writeError(w, err)
		return
	}
	svg := scope.RenderSVG(s.session.Snapshot(),
		scope.WithSize(width, height),
		scope.WithTitle(r.URL.Query().Get("title")))
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(svg)
}

func (s *Server) handleFramePNG(w http.ResponseWriter, r *http.Request) {
	width, height, err := imageSize(r)
	if err != nil {
		writeError(w, err)
		return
	}
	png, err := scope.RenderPNG(s.session.Snapshot(), width, height, r.URL.Query().Get("title"))
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}

func imageSize(r *http.Request) (width, height float64, err error) {
	q := r.URL.Query()
	if width, err = positiveParam(q.Get("width"), defaultImageWidth); err != nil {
		return 0, 0, err
	}
	if height, err = positiveParam(q.Get("height"), defaultImageHeight); err != nil {
		return 0, 0, err
	}
	return width, height, nil
}

func positiveParam(raw string, def float64) (float64, error) {
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v <= 0 || math.IsInf(v, 0) {
		return 0, errors.New(errors.ErrCodeInvalidInput, "invalid image size %q", raw)
	}
	return v, nil
}

func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	var batch [][]float64
	if err := decode(w, r, &batch); err != nil {
		writeError(w, err)
		return
	}
	if err := s.session.AddData(batch); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type modeBody struct {
	Mode  window.Mode   `json:"mode"`
	Modes []window.Mode `json:"modes,omitempty"`
}

func (s *Server) handleGetMode(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, modeBody{Mode: s.session.Mode(), Modes: window.Modes()})
}

func (s *Server) handleSetMode(w http.ResponseWriter, r *http.Request) {
	var body modeBody
	if err := decode(w, r, &body); err != nil {
		writeError(w, err)
		return
	}
	if err := s.session.SetMode(body.Mode); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, modeBody{Mode: s.session.Mode()})
}

func (s *Server) handleSetDelta(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Delta float64 `json:"delta"`
	}
	if err := decode(w, r, &body); err != nil {
		writeError(w, err)
		return
	}
	if !s.session.SetDelta(body.Delta) {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "delta must be finite and non-negative"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{"delta": s.session.Delta()})
}

func (s *Server) handleSetChannels(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Channels int `json:"channels"`
	}
	if err := decode(w, r, &body); err != nil {
		writeError(w, err)
		return
	}
	if err := s.session.SetChannels(body.Channels); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"channels": s.session.Channels()})
}

func (s *Server) handleReset(w http.ResponseWriter, _ *http.Request) {
	s.session.Reset()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetView(w http.ResponseWriter, r *http.Request) {
	var side axis.Side
	switch chi.URLParam(r, "side") {
	case "x":
		side = axis.Horizontal
	case "y":
		side = axis.Vertical
	default:
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "axis must be x or y"))
		return
	}
	var b axis.Bounds
	if err := decode(w, r, &b); err != nil {
		writeError(w, err)
		return
	}
	if !s.session.SetBounds(side, b.Lower, b.Upper) {
		writeError(w, errors.New(errors.ErrCodeInvalidAxis, "invalid bounds [%g, %g]", b.Lower, b.Upper))
		return
	}
	writeJSON(w, http.StatusOK, s.session.Bounds(side))
}

func (s *Server) handleResetView(w http.ResponseWriter, _ *http.Request) {
	s.session.ResetZoom()
	w.WriteHeader(http.StatusNoContent)
}
