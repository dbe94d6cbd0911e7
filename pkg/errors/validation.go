package errors

import (
	"math"
	"strings"
	"unicode"
)

const (
	maxConceptIDLength = 256
	maxPathLength      = 4096
)

// ValidateConceptID checks that a concept ID is usable as a map key, a DOT
// node name and a cache key component.
//
// Rules:
//   - not empty or all whitespace
//   - at most 256 bytes
//   - no control characters
func ValidateConceptID(id string) error {
	if strings.TrimSpace(id) == "" {
		return New(ErrCodeInvalidConcept, "concept id cannot be empty")
	}
	if len(id) > maxConceptIDLength {
		return New(ErrCodeInvalidConcept, "concept id too long (max %d characters)", maxConceptIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidConcept, "concept id %q contains control characters", id)
		}
	}
	return nil
}

// ValidateThreshold checks that a mastery threshold lies in [0, 1].
func ValidateThreshold(v float64) error {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return New(ErrCodeInvalidConfig, "mastery threshold must be between 0 and 1, got %v", v)
	}
	return nil
}

// ValidatePath validates a local file path given on the command line or in
// configuration. Absolute and relative paths are both accepted; "-" is not a
// path and must be handled by the caller.
//
// Rules:
//   - not empty
//   - at most 4096 bytes
//   - no null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}
	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}
	return nil
}

// ValidateFormat checks that format is one of allowed, case-sensitively.
func ValidateFormat(format string, allowed ...string) error {
	for _, a := range allowed {
		if format == a {
			return nil
		}
	}
	return New(ErrCodeInvalidFormat, "unsupported format %q (want one of: %s)", format, strings.Join(allowed, ", "))
}
