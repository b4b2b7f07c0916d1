// Package signal produces synthetic multi-channel test signals.
//
// A [Generator] computes one sample per channel on a fixed sample cadence
// and hands the accumulated samples over on a slower update cadence, the
// way an acquisition front end would. Channel i of n is a sine wave phase
// shifted by i*2π/(n+1), so the channels never line up symmetrically.
package signal

import (
	"context"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/scopeplot/pkg/errors"
)

// Defaults for a new Generator.
const (
	DefaultChannels       = 5
	DefaultAmplitude      = 3.0
	DefaultPeriod         = 1337 * time.Millisecond
	DefaultSampleInterval = 21 * time.Millisecond
	DefaultUpdateInterval = 37 * time.Millisecond
)

// Generator is a multi-channel sine source. It is not safe for concurrent
// use; Run owns it while running.
type Generator struct {
	channels       int
	amplitude      float64
	period         time.Duration
	sampleInterval time.Duration
	updateInterval time.Duration
	logger         *log.Logger

	index   int64
	pending [][]float64
}

// Option configures a Generator.
type Option func(*Generator)

// WithChannels sets the number of channels.
func WithChannels(n int) Option { return func(g *Generator) { g.channels = n } }

// WithAmplitude sets the peak value.
func WithAmplitude(a float64) Option { return func(g *Generator) { g.amplitude = a } }

// WithPeriod sets the sine period.
func WithPeriod(d time.Duration) Option { return func(g *Generator) { g.period = d } }

// WithSampleInterval sets the time between two samples.
func WithSampleInterval(d time.Duration) Option {
	return func(g *Generator) { g.sampleInterval = d }
}

// WithUpdateInterval sets how often accumulated samples are delivered.
func WithUpdateInterval(d time.Duration) Option {
	return func(g *Generator) { g.updateInterval = d }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option { return func(g *Generator) { g.logger = l } }

// New builds a generator. Invalid settings are rejected with INVALID_CONFIG.
func New(opts ...Option) (*Generator, error) {
	g := &Generator{
		channels:       DefaultChannels,
		amplitude:      DefaultAmplitude,
		period:         DefaultPeriod,
		sampleInterval: DefaultSampleInterval,
		updateInterval: DefaultUpdateInterval,
		logger:         log.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	switch {
	case g.channels < 1:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "generator needs at least one channel, got %d", g.channels)
	case g.period <= 0:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "generator period must be positive, got %s", g.period)
	case g.sampleInterval <= 0:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "sample interval must be positive, got %s", g.sampleInterval)
	case g.updateInterval <= 0:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "update interval must be positive, got %s", g.updateInterval)
	}
	g.pending = make([][]float64, g.channels)
	return g, nil
}

// Channels returns the number of channels.
func (g *Generator) Channels() int { return g.channels }

// Value returns channel ch's value at sample index k.
func (g *Generator) Value(ch int, k int64) float64 {
	t := 2 * math.Pi * float64(k) * float64(g.sampleInterval) / float64(g.period)
	offset := float64(ch) * 2 * math.Pi / float64(g.channels+1)
	return g.amplitude * math.Sin(t+offset)
}

// Next returns the next n samples of every channel and advances the
// generator. It is the offline counterpart of Run.
func (g *Generator) Next(n int) [][]float64 {
	out := make([][]float64, g.channels)
	for ch := range out {
		out[ch] = make([]float64, n)
		for i := range out[ch] {
			out[ch][i] = g.Value(ch, g.index+int64(i))
		}
	}
	g.index += int64(n)
	return out
}

// Run samples on the sample cadence and sends what accumulated on every
// update tick. It blocks until ctx is done and returns ctx.Err(). out is
// not closed.
func (g *Generator) Run(ctx context.Context, out chan<- [][]float64) error {
	sample := time.NewTicker(g.sampleInterval)
	defer sample.Stop()
	update := time.NewTicker(g.updateInterval)
	defer update.Stop()

	g.logger.Info("signal generator started",
		"channels", g.channels, "sample", g.sampleInterval, "update", g.updateInterval, "period", g.period)
	defer g.logger.Info("signal generator stopped", "samples", g.index)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-sample.C:
			for ch := range g.pending {
				g.pending[ch] = append(g.pending[ch], g.Value(ch, g.index))
			}
			g.index++
		case <-update.C:
			if len(g.pending[0]) == 0 {
				continue
			}
			batch := g.pending
			g.pending = make([][]float64, g.channels)
			select {
			case out <- batch:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}
