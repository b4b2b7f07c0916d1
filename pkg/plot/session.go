package plot

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/scopeplot/pkg/axis"
	"github.com/matzehuels/scopeplot/pkg/cursor"
	"github.com/matzehuels/scopeplot/pkg/errors"
	"github.com/matzehuels/scopeplot/pkg/observability"
	"github.com/matzehuels/scopeplot/pkg/series"
	"github.com/matzehuels/scopeplot/pkg/window"
)

// DefaultChannels is the channel count of a new session.
const DefaultChannels = 5

// Options configures a Session.
type Options struct {
	Mode      window.Mode
	Channels  int
	Delta     float64
	X         axis.Bounds
	Y         axis.Bounds
	ZoomScale float64
	// Width and Height are the viewport size in pixels; zero means unknown.
	Width, Height float64

	Logger *log.Logger
	// Hooks defaults to observability.Session().
	Hooks observability.SessionHooks
}

// DefaultOptions returns the settings of a fresh scope: screen mode, five
// channels and the default axis ranges.
func DefaultOptions() Options {
	return Options{
		Mode:      window.ModeScreen,
		Channels:  DefaultChannels,
		Delta:     window.DefaultDelta,
		X:         axis.DefaultBounds(axis.Horizontal),
		Y:         axis.DefaultBounds(axis.Vertical),
		ZoomScale: axis.DefaultZoomScale,
	}
}

// Session is a live plot. The zero value is not usable - use New.
type Session struct {
	mu      sync.Mutex
	x, y    *axis.Range
	data    *series.Set
	policy  window.Policy
	delta   float64
	cursors *cursor.Graph
	hooks   observability.SessionHooks
	logger  *log.Logger
}

// New builds a session from opts.
func New(opts Options) (*Session, error) {
	if opts.Channels < 1 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "channel count must be positive, got %d", opts.Channels)
	}
	if opts.X.Upper <= opts.X.Lower || opts.Y.Upper <= opts.Y.Lower {
		return nil, errors.New(errors.ErrCodeInvalidAxis, "axis bounds must satisfy lower < upper (x %v, y %v)", opts.X, opts.Y)
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	hooks := opts.Hooks
	if hooks == nil {
		hooks = observability.Session()
	}
	if opts.ZoomScale == 0 {
		opts.ZoomScale = axis.DefaultZoomScale
	}

	s := &Session{
		x: axis.New(axis.Horizontal,
			axis.WithBounds(opts.X.Lower, opts.X.Upper),
			axis.WithZoomScale(opts.ZoomScale),
			axis.WithLogger(logger)),
		y: axis.New(axis.Vertical,
			axis.WithBounds(opts.Y.Lower, opts.Y.Upper),
			axis.WithZoomScale(opts.ZoomScale),
			axis.WithLogger(logger)),
		data:    series.New(opts.Channels),
		cursors: cursor.NewGraph(cursor.WithLogger(logger)),
		hooks:   hooks,
		logger:  logger,
	}
	if opts.Width > 0 {
		s.x.SetExtent(opts.Width)
	}
	if opts.Height > 0 {
		s.y.SetExtent(opts.Height)
	}
	p, err := window.New(opts.Mode, s.target(), opts.Delta)
	if err != nil {
		return nil, err
	}
	s.policy = p
	s.delta = p.Delta()
	return s, nil
}

func (s *Session) target() window.Target {
	return window.Target{Series: s.data, X: s.x, Logger: s.logger}
}

// AddData hands one batch to the active policy. A rejected batch leaves the
// session unchanged.
func (s *Session) AddData(batch [][]float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	before := swapCount(s.policy)
	err := s.policy.AddData(batch, s.x.Bounds())
	mode := s.policy.Mode().String()
	for n := swapCount(s.policy) - before; n > 0; n-- {
		s.hooks.OnSwap(mode)
	}
	samples := 0
	if len(batch) > 0 {
		samples = len(batch[0])
	}
	s.hooks.OnBatch(mode, samples, time.Since(start), err)
	return err
}

func swapCount(p window.Policy) uint64 {
	switch p := p.(type) {
	case *window.Buffer:
		return p.Swaps()
	case *window.Cursor:
		return p.Wraps()
	}
	return 0
}

// Reset clears the plotted data and restarts the active policy.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset("manual")
}

func (s *Session) reset(reason string) {
	s.policy.Reset()
	s.logger.Debug("session reset", "mode", s.policy.Mode(), "reason", reason)
	s.hooks.OnReset(s.policy.Mode().String(), reason)
}

// Mode returns the active policy's mode.
func (s *Session) Mode() window.Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.policy.Mode()
}

// SetMode switches policies. The new policy starts from a reset state.
func (s *Session) SetMode(m window.Mode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := window.New(m, s.target(), s.delta)
	if err != nil {
		return err
	}
	from := s.policy.Mode()
	s.policy = p
	s.logger.Info("mode changed", "from", from, "to", m)
	s.hooks.OnModeChange(from.String(), m.String())
	s.hooks.OnReset(m.String(), "mode")
	return nil
}

// Delta returns the sample spacing.
func (s *Session) Delta() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.delta
}

// SetDelta changes the sample spacing and resets. Negative values are
// logged and ignored.
func (s *Session) SetDelta(d float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.policy.SetDelta(d) {
		return false
	}
	s.delta = d
	s.reset("delta")
	return true
}

// Channels returns the channel count.
func (s *Session) Channels() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Channels()
}

// SetChannels changes the channel count and rebuilds the active policy.
func (s *Session) SetChannels(n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "channel count must be positive, got %d", n)
	}
	s.data.Resize(n)
	p, err := window.New(s.policy.Mode(), s.target(), s.delta)
	if err != nil {
		return err
	}
	s.policy = p
	s.hooks.OnReset(p.Mode().String(), "channels")
	return nil
}

// OnChange registers fn to run after every change to the plotted series.
// fn runs with the session lock held and must not call back into s.
func (s *Session) OnChange(fn func()) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.OnChange(fn)
}
