// Package security provides validation, sanitization, and limits for the reminders package.
package security

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/jdziat/simple-reminders/pkg/core"
)

// Security limits and configuration
const (
	// MaxLineLength is the maximum length in bytes of a single reminder line
	MaxLineLength = 4096

	// MaxDescriptionLength is the maximum length in runes for stored descriptions
	MaxDescriptionLength = 1024

	// MaxSourceLength is the maximum length for source names
	MaxSourceLength = 255

	// MaxConcurrency is the hard limit for scanner concurrency
	MaxConcurrency = 256
)

// ValidateSource validates a source name (usually a file path)
func ValidateSource(name string) error {
	if strings.TrimSpace(name) == "" {
		return core.ErrInvalidSource
	}
	if len(name) > MaxSourceLength {
		return core.ErrSourceTooLong
	}
	if !utf8.ValidString(name) {
		return core.ErrInvalidSource
	}
	for _, r := range name {
		if r < 32 || r == 127 {
			return core.ErrInvalidSource
		}
	}
	return nil
}

// SanitizeDescription normalizes, strips, and truncates a description for storage
func SanitizeDescription(desc string) string {
	if desc == "" {
		return ""
	}

	// Compose to NFC so equal-looking descriptions compare equal
	desc = norm.NFC.String(desc)

	// Descriptions are single-line; drop control characters except tabs
	var sanitized strings.Builder
	sanitized.Grow(len(desc))

	for _, r := range desc {
		if r == '\t' || (r >= 32 && r != 127 && r != utf8.RuneError) {
			sanitized.WriteRune(r)
		}
	}

	result := strings.TrimSpace(sanitized.String())

	// Truncate if too long
	if utf8.RuneCountInString(result) > MaxDescriptionLength {
		runes := []rune(result)
		result = string(runes[:MaxDescriptionLength-3]) + "..."
	}

	return result
}

// ClampConcurrency ensures concurrency is within limits
func ClampConcurrency(n int) int {
	if n < 1 {
		return 1
	}
	if n > MaxConcurrency {
		return MaxConcurrency
	}
	return n
}

// ClampLineLength ensures a line length limit is within (0, MaxLineLength]
func ClampLineLength(n int) int {
	if n < 1 || n > MaxLineLength {
		return MaxLineLength
	}
	return n
}
