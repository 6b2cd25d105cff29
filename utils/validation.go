package utils

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// MaxNameLength caps usernames and material names
	MaxNameLength = 50
	// MaxTextLength caps free-form text such as special instructions
	MaxTextLength = 500
)

// ValidationError represents an input validation failure
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ValidateName checks a natural-key name (username, material name): it must
// be non-blank after trimming and within the length cap. Returns the
// trimmed name.
func ValidateName(field, value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", &ValidationError{
			Code:    "BLANK_" + strings.ToUpper(field),
			Message: fmt.Sprintf("%s must not be blank", field),
		}
	}
	if len(trimmed) > MaxNameLength {
		return "", &ValidationError{
			Code:    "VALUE_TOO_LONG",
			Message: fmt.Sprintf("%s exceeds %d characters", field, MaxNameLength),
		}
	}
	return trimmed, nil
}

// SanitizeText trims free-form text, strips control characters and caps the
// length. The persistence codec escapes its own separators, so this only
// guards against unprintable input reaching the data files.
func SanitizeText(value string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(value) {
		if unicode.IsControl(r) {
			continue
		}
		b.WriteRune(r)
	}
	s := b.String()
	if len(s) > MaxTextLength {
		// Back up to a rune boundary so the cut never leaves a broken
		// multi-byte sequence behind.
		cut := MaxTextLength
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut]
	}
	return s
}
