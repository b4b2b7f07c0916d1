package errors

import (
	"strings"
	"unicode"
)

// maxNameLength bounds cursor and layout names.
const maxNameLength = 64

// ValidateCursorName validates a cursor label.
// Names are shown in selection controls and used as reference keys in
// persisted layouts, so they must be non-empty, printable and short.
func ValidateCursorName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidName, "cursor name cannot be empty")
	}
	if len(name) > maxNameLength {
		return New(ErrCodeInvalidName, "cursor name too long (max %d characters)", maxNameLength)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "cursor name contains invalid control characters")
		}
	}
	return nil
}

// ValidateLayoutName validates the name a cursor layout is stored under.
// Layout names become file names and store keys, so in addition to the
// cursor name rules they may not contain path separators or traversal
// sequences.
//
// Validation rules:
//   - Non-empty, at most 64 characters
//   - No control characters or null bytes
//   - No "..", "/" or "\"
//   - No leading "." (hidden files)
func ValidateLayoutName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "layout name cannot be empty")
	}
	if len(name) > maxNameLength {
		return New(ErrCodeInvalidName, "layout name too long (max %d characters)", maxNameLength)
	}
	for _, r := range name {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "layout name contains invalid characters")
		}
	}

	dangerousPatterns := []string{
		"..", // Parent directory
		"/",  // Path separator
		"\\", // Backslash (Windows path)
	}
	for _, pattern := range dangerousPatterns {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidName, "layout name contains invalid characters: %q", pattern)
		}
	}

	if strings.HasPrefix(name, ".") {
		return New(ErrCodeInvalidName, "layout name cannot start with a dot")
	}
	return nil
}
