// Package config loads scopeplot session settings from TOML.
//
// A missing default file is not an error: Load falls back to Default. An
// explicitly named file must exist. Unknown keys are rejected so typos do
// not silently fall back to defaults.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/scopeplot/pkg/axis"
	"github.com/matzehuels/scopeplot/pkg/cursor"
	"github.com/matzehuels/scopeplot/pkg/errors"
	"github.com/matzehuels/scopeplot/pkg/plot"
	"github.com/matzehuels/scopeplot/pkg/signal"
	"github.com/matzehuels/scopeplot/pkg/window"
)

const (
	appName  = "scopeplot"
	fileName = "scopeplot.toml"
)

// Config is the contents of a session file.
type Config struct {
	Mode      window.Mode     `toml:"mode"`
	Delta     float64         `toml:"delta"`
	Channels  int             `toml:"channels"`
	XAxis     Axis            `toml:"x_axis"`
	YAxis     Axis            `toml:"y_axis"`
	Generator Generator       `toml:"generator"`
	Store     Store           `toml:"store"`
	Server    Server          `toml:"server"`
	Cursors   []cursor.Record `toml:"cursors"`
}

// Axis configures one axis. Extent is the viewport length in pixels.
type Axis struct {
	Lower     float64 `toml:"lower"`
	Upper     float64 `toml:"upper"`
	ZoomScale float64 `toml:"zoom_scale"`
	Extent    float64 `toml:"extent"`
}

// Generator configures the sine producer. Durations are in milliseconds.
type Generator struct {
	PeriodMS  int64   `toml:"period_ms"`
	SampleMS  int64   `toml:"sample_ms"`
	UpdateMS  int64   `toml:"update_ms"`
	Amplitude float64 `toml:"amplitude"`
}

// Store selects where cursor layouts are saved.
type Store struct {
	Backend  string `toml:"backend"`
	Dir      string `toml:"dir"`
	RedisURL string `toml:"redis_url"`
	MongoURI string `toml:"mongo_uri"`
	Database string `toml:"database"`
}

// Server configures the HTTP surface.
type Server struct {
	Addr string `toml:"addr"`
}

// Default returns the built-in settings.
func Default() Config {
	x, y := axis.DefaultBounds(axis.Horizontal), axis.DefaultBounds(axis.Vertical)
	return Config{
		Mode:     window.ModeScreen,
		Delta:    float64(signal.DefaultSampleInterval) / float64(time.Second),
		Channels: signal.DefaultChannels,
		XAxis:    Axis{Lower: x.Lower, Upper: x.Upper, ZoomScale: axis.DefaultZoomScale, Extent: 800},
		YAxis:    Axis{Lower: y.Lower, Upper: y.Upper, ZoomScale: axis.DefaultZoomScale, Extent: 400},
		Generator: Generator{
			PeriodMS:  signal.DefaultPeriod.Milliseconds(),
			SampleMS:  signal.DefaultSampleInterval.Milliseconds(),
			UpdateMS:  signal.DefaultUpdateInterval.Milliseconds(),
			Amplitude: signal.DefaultAmplitude,
		},
		Store:  Store{Backend: "file", Database: appName},
		Server: Server{Addr: ":8080"},
	}
}

// Dir returns the configuration directory using the XDG standard
// (~/.config/scopeplot/).
func Dir() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// DataDir returns the data directory using the XDG standard
// (~/.local/share/scopeplot/).
func DataDir() (string, error) {
	if home := os.Getenv("XDG_DATA_HOME"); home != "" {
		return filepath.Join(home, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", appName), nil
}

// Load reads path on top of Default. With an empty path the default file
// in Dir is used if it exists.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return cfg, nil
		}
		path = filepath.Join(dir, fileName)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return cfg, nil
		}
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every setting that would otherwise only be logged and
// ignored further down.
func (c Config) Validate() error {
	switch {
	case c.Channels < 1:
		return invalid("channels must be at least 1, got %d", c.Channels)
	case c.Delta < 0:
		return invalid("delta must not be negative, got %g", c.Delta)
	case c.XAxis.Upper <= c.XAxis.Lower:
		return invalid("x_axis: upper %g must exceed lower %g", c.XAxis.Upper, c.XAxis.Lower)
	case c.YAxis.Upper <= c.YAxis.Lower:
		return invalid("y_axis: upper %g must exceed lower %g", c.YAxis.Upper, c.YAxis.Lower)
	case c.XAxis.Extent < 0 || c.YAxis.Extent < 0:
		return invalid("axis extent must not be negative")
	case c.Generator.PeriodMS < 1:
		return invalid("generator.period_ms must be at least 1, got %d", c.Generator.PeriodMS)
	case c.Generator.SampleMS < 1:
		return invalid("generator.sample_ms must be at least 1, got %d", c.Generator.SampleMS)
	case c.Generator.UpdateMS < 1:
		return invalid("generator.update_ms must be at least 1, got %d", c.Generator.UpdateMS)
	}
	switch c.Store.Backend {
	case "file", "redis", "mongo":
	default:
		return invalid("store.backend must be file, redis or mongo, got %q", c.Store.Backend)
	}
	return c.checkCursors()
}

func (c Config) checkCursors() error {
	g := cursor.NewGraph()
	if err := g.Restore(c.Layout()); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "cursors")
	}
	return nil
}

func invalid(format string, args ...any) error {
	return errors.New(errors.ErrCodeInvalidConfig, format, args...)
}

// SessionOptions converts the plot settings.
func (c Config) SessionOptions() plot.Options {
	zoom := c.XAxis.ZoomScale
	if zoom == 0 {
		zoom = axis.DefaultZoomScale
	}
	return plot.Options{
		Mode:      c.Mode,
		Channels:  c.Channels,
		Delta:     c.Delta,
		X:         axis.Bounds{Lower: c.XAxis.Lower, Upper: c.XAxis.Upper},
		Y:         axis.Bounds{Lower: c.YAxis.Lower, Upper: c.YAxis.Upper},
		ZoomScale: zoom,
		Width:     c.XAxis.Extent,
		Height:    c.YAxis.Extent,
	}
}

// GeneratorOptions converts the producer settings.
func (c Config) GeneratorOptions() []signal.Option {
	ms := func(n int64) time.Duration { return time.Duration(n) * time.Millisecond }
	return []signal.Option{
		signal.WithChannels(c.Channels),
		signal.WithAmplitude(c.Generator.Amplitude),
		signal.WithPeriod(ms(c.Generator.PeriodMS)),
		signal.WithSampleInterval(ms(c.Generator.SampleMS)),
		signal.WithUpdateInterval(ms(c.Generator.UpdateMS)),
	}
}

// Layout returns the configured cursors as a layout.
func (c Config) Layout() cursor.Layout {
	return cursor.Layout{Name: "config", Cursors: c.Cursors}
}
