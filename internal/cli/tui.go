package cli

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/scopeplot/pkg/axis"
	"github.com/matzehuels/scopeplot/pkg/buildinfo"
	"github.com/matzehuels/scopeplot/pkg/plot"
	"github.com/matzehuels/scopeplot/pkg/window"
)

func (c *CLI) watchCommand() *cobra.Command {
	var flags sessionFlags

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Live terminal scope",
		Long: `Plot the sine producer live in the terminal.

Keys:
  m          next window mode
  r          reset
  + / -      zoom the y-axis in / out
  ← / →      pan the x-axis (free mode)
  ↑ / ↓      pan the y-axis
  z          reset zoom
  c          add a cursor at the centre
  q          quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(&flags)
			if err != nil {
				return err
			}
			// The alternate screen owns the terminal; log lines would tear it.
			c.Logger.SetOutput(io.Discard)
			sess, gen, err := c.newSession(cfg)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			batches := make(chan [][]float64)
			go func() { _ = gen.Run(ctx, batches) }()

			_, err = tea.NewProgram(newScopeModel(sess, batches), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
			return err
		},
	}
	flags.register(cmd)
	return cmd
}

// =============================================================================
// ScopeModel - Live plot
// =============================================================================

type batchMsg [][]float64

func waitForBatch(ch <-chan [][]float64) tea.Cmd {
	return func() tea.Msg {
		b, ok := <-ch
		if !ok {
			return nil
		}
		return batchMsg(b)
	}
}

// scopeModel is the bubbletea model for the live scope.
type scopeModel struct {
	sess    *plot.Session
	batches <-chan [][]float64
	width   int
	height  int
	status  string
}

func newScopeModel(sess *plot.Session, batches <-chan [][]float64) scopeModel {
	m := scopeModel{sess: sess, batches: batches}
	return m.resize(80, 24)
}

// resize keeps the session viewport in character cells so zoom positions
// map to the canvas.
func (m scopeModel) resize(w, h int) scopeModel {
	m.width = max(w-2, 20)
	m.height = max(h-8, 5)
	m.sess.SetViewport(float64(m.width), float64(m.height))
	return m
}

func (m scopeModel) Init() tea.Cmd {
	return waitForBatch(m.batches)
}

func (m scopeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case batchMsg:
		if err := m.sess.AddData(msg); err != nil {
			m.status = err.Error()
		}
		return m, waitForBatch(m.batches)
	case tea.WindowSizeMsg:
		return m.resize(msg.Width, msg.Height), nil
	case tea.KeyMsg:
		return m.handleKey(msg.String())
	}
	return m, nil
}

func (m scopeModel) handleKey(key string) (tea.Model, tea.Cmd) {
	midY := float64(m.height) / 2
	switch key {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "m":
		next := m.sess.Mode().Next()
		if err := m.sess.SetMode(next); err != nil {
			m.status = err.Error()
		} else {
			m.status = "mode " + next.String()
		}
	case "r":
		m.sess.Reset()
		m.status = "reset"
	case "+", "=":
		m.sess.ZoomIn(axis.Vertical, midY)
	case "-":
		m.sess.ZoomOut(axis.Vertical, midY)
	case "left", "h":
		if !m.sess.PanBy(axis.Horizontal, -0.1) {
			m.status = "x-axis pans in free mode only"
		}
	case "right", "l":
		if !m.sess.PanBy(axis.Horizontal, 0.1) {
			m.status = "x-axis pans in free mode only"
		}
	case "up", "k":
		m.sess.PanBy(axis.Vertical, 0.1)
	case "down", "j":
		m.sess.PanBy(axis.Vertical, -0.1)
	case "z":
		m.sess.ResetZoom()
	case "c":
		b := m.sess.Bounds(axis.Horizontal)
		rec, err := m.sess.AddCursor("", b.Lower+b.Span()/2)
		if err != nil {
			m.status = err.Error()
		} else {
			m.status = "added cursor " + rec.Name
		}
	}
	return m, nil
}

func (m scopeModel) View() string {
	f := m.sess.Snapshot()
	var b strings.Builder

	b.WriteString(StyleTitle.Render(appName))
	b.WriteString(StyleDim.Render(" " + buildinfo.Short()))
	b.WriteString("  ")
	b.WriteString(StyleValue.Render(f.Mode.String()))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  Δ %g  x [%s, %s]  y [%s, %s]",
		f.Delta, f.XLabel(f.X.Lower), f.XLabel(f.X.Upper), f.YLabel(f.Y.Lower), f.YLabel(f.Y.Upper))))
	b.WriteString("\n")

	canvas := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorDim).
		Render(renderCanvas(f, m.width, m.height))
	b.WriteString(canvas)
	b.WriteString("\n")

	if f.Mode == window.ModeBuffer {
		b.WriteString(StyleDim.Render("buffer ") + fillBar(f.BufferFill, 30) + "\n")
	} else {
		b.WriteString(StyleDim.Render(fmt.Sprintf("%d points", f.Points())) + "\n")
	}
	for _, c := range f.Cursors {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(c.Color)).Render("│ "+c.Name) +
			StyleDim.Render(fmt.Sprintf(" %s  ", f.XLabel(c.Position))))
	}
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("m mode  r reset  +/- zoom  ←/→ ↑/↓ pan  z unzoom  c cursor  q quit"))
	if m.status != "" {
		b.WriteString("  " + StyleWarning.Render(m.status))
	}
	return b.String()
}

// =============================================================================
// Canvas
// =============================================================================

type cell struct {
	r     rune
	style *lipgloss.Style
}

// renderCanvas rasterises f onto a w×h character grid. Traces are drawn
// over cursors, cursors over the sweep line.
func renderCanvas(f plot.Frame, w, h int) string {
	grid := make([][]cell, h)
	for i := range grid {
		grid[i] = make([]cell, w)
	}
	col := func(x float64) int {
		return int(math.Round((x - f.X.Lower) / f.X.Span() * float64(w-1)))
	}
	row := func(y float64) int {
		return int(math.Round((f.Y.Upper - y) / f.Y.Span() * float64(h-1)))
	}
	vline := func(c int, r rune, st lipgloss.Style) {
		if c < 0 || c >= w {
			return
		}
		for i := range grid {
			grid[i][c] = cell{r: r, style: &st}
		}
	}

	if f.ShowSweep {
		vline(col(f.Sweep), '┆', StyleDim)
	}
	for _, c := range f.Cursors {
		vline(col(c.Position), '│', lipgloss.NewStyle().Foreground(lipgloss.Color(c.Color)))
	}
	for ch, pts := range f.Series {
		st := lipgloss.NewStyle().Foreground(channelColors[ch%len(channelColors)])
		for _, p := range pts {
			c, r := col(p.X), row(p.Y)
			if c < 0 || c >= w || r < 0 || r >= h {
				continue
			}
			grid[r][c] = cell{r: '•', style: &st}
		}
	}

	var b strings.Builder
	for i, line := range grid {
		for _, c := range line {
			if c.style == nil {
				b.WriteByte(' ')
				continue
			}
			b.WriteString(c.style.Render(string(c.r)))
		}
		if i < len(grid)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
