package window

import (
	"strings"

	"github.com/matzehuels/scopeplot/pkg/errors"
)

// Mode selects a window policy.
type Mode int

const (
	// ModeFree appends everything, with pan and zoom enabled.
	ModeFree Mode = iota
	// ModeBuffer double-buffers screens to avoid tearing.
	ModeBuffer
	// ModeCursor sweeps a write head across the screen.
	ModeCursor
	// ModeScreen slides a fixed-width window with the data.
	ModeScreen
)

var modeNames = [...]string{"free", "buffer", "cursor", "screen"}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return "unknown"
	}
	return modeNames[m]
}

// Modes returns every mode in selection order.
func Modes() []Mode { return []Mode{ModeFree, ModeBuffer, ModeCursor, ModeScreen} }

// Next returns the mode after m, wrapping around.
func (m Mode) Next() Mode { return Mode((int(m) + 1) % len(modeNames)) }

// ParseMode parses a case-insensitive mode name.
func ParseMode(s string) (Mode, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range modeNames {
		if n == name {
			return Mode(i), nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidMode, "unknown mode %q (must be free, buffer, cursor or screen)", s)
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(b []byte) error {
	parsed, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
