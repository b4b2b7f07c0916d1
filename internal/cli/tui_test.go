package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/scopeplot/pkg/axis"
	"github.com/matzehuels/scopeplot/pkg/plot"
	"github.com/matzehuels/scopeplot/pkg/window"
)

func newTestSession(t *testing.T, mode window.Mode) *plot.Session {
	t.Helper()
	opts := plot.DefaultOptions()
	opts.Mode = mode
	opts.Channels = 2
	opts.Logger = log.New(io.Discard)
	sess, err := plot.New(opts)
	if err != nil {
		t.Fatal(err)
	}
	return sess
}

func key(s string) tea.KeyMsg {
	switch s {
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestScopeModelBatches(t *testing.T) {
	sess := newTestSession(t, window.ModeScreen)
	ch := make(chan [][]float64, 1)
	m := newScopeModel(sess, ch)

	next, cmd := m.Update(batchMsg{{1, 2, 3}, {3, 2, 1}})
	if cmd == nil {
		t.Error("batch should re-arm the batch listener")
	}
	if got := sess.Snapshot().Points(); got != 6 {
		t.Errorf("points = %d, want 6", got)
	}
	if next.(scopeModel).status != "" {
		t.Errorf("status = %q after an accepted batch", next.(scopeModel).status)
	}
}

func TestScopeModelRejectedBatchSetsStatus(t *testing.T) {
	m := newScopeModel(newTestSession(t, window.ModeScreen), nil)
	next, _ := m.Update(batchMsg{{1}})
	if next.(scopeModel).status == "" {
		t.Error("rejected batch should be reported")
	}
}

func TestScopeModelKeys(t *testing.T) {
	sess := newTestSession(t, window.ModeFree)
	var model tea.Model = newScopeModel(sess, nil)

	model, _ = model.Update(key("m"))
	if sess.Mode() != window.ModeBuffer {
		t.Errorf("mode after m = %v, want buffer", sess.Mode())
	}

	model, _ = model.Update(key("c"))
	if n := len(sess.Cursors()); n != 1 {
		t.Errorf("cursors after c = %d, want 1", n)
	}

	before := sess.Bounds(axis.Horizontal)
	model, _ = model.Update(key("right"))
	if sess.Bounds(axis.Horizontal) != before {
		t.Error("buffer mode x-axis should not pan")
	}
	if !strings.Contains(model.(scopeModel).status, "free mode") {
		t.Errorf("status = %q", model.(scopeModel).status)
	}

	_, cmd := model.Update(key("q"))
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should return tea.Quit")
	}
}

func TestScopeModelResize(t *testing.T) {
	m := newScopeModel(newTestSession(t, window.ModeScreen), nil)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	sm := next.(scopeModel)
	if sm.width != 98 || sm.height != 32 {
		t.Errorf("canvas = %dx%d, want 98x32", sm.width, sm.height)
	}
	if lines := strings.Count(renderCanvas(sm.sess.Snapshot(), sm.width, sm.height), "\n"); lines != sm.height-1 {
		t.Errorf("canvas rows = %d, want %d", lines+1, sm.height)
	}
}

func TestRenderCanvasPlacesPoints(t *testing.T) {
	sess := newTestSession(t, window.ModeScreen)
	if err := sess.AddData([][]float64{{5}, {-5}}); err != nil {
		t.Fatal(err)
	}
	out := renderCanvas(sess.Snapshot(), 10, 5)
	rows := strings.Split(out, "\n")
	if len(rows) != 5 {
		t.Fatalf("rows = %d", len(rows))
	}
	if !strings.Contains(rows[0], "•") || !strings.Contains(rows[4], "•") {
		t.Errorf("expected points on the top and bottom rows:\n%s", out)
	}
	if strings.Contains(rows[2], "•") {
		t.Errorf("unexpected point on the middle row:\n%s", out)
	}
}

func TestScopeModelView(t *testing.T) {
	sess := newTestSession(t, window.ModeBuffer)
	view := newScopeModel(sess, nil).View()
	for _, want := range []string{appName, "buffer", "q quit"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestSpinnerShowsLiveStatus(t *testing.T) {
	var buf bytes.Buffer
	n := 0
	s := newSpinner(context.Background(), &buf, func() string {
		n++
		return "capturing"
	})
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Stop()
	s.Stop()

	if !strings.Contains(buf.String(), "capturing") {
		t.Errorf("spinner output = %q", buf.String())
	}
	if n == 0 {
		t.Error("status func never called")
	}
}
