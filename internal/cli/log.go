// Package cli implements the scopeplot command-line interface.
//
// The CLI is built with cobra and logs through charmbracelet/log. Every
// command reads the same TOML session file (see pkg/config); flags override
// individual settings.
//
// # Commands
//
//   - run: capture the sine producer for a fixed time and write SVG, PNG or JSON
//   - watch: live terminal scope
//   - serve: HTTP API, live producer and Prometheus metrics
//   - cursors: inspect, draw and persist cursor layouts
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time appended to keyvals.
func (p *progress) done(msg string, keyvals ...any) {
	p.logger.Info(msg, append(keyvals, "elapsed", time.Since(p.start).Round(time.Millisecond))...)
}
