package errors

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxTextBytes is the largest text block accepted by ValidateText.
const MaxTextBytes = 1 << 20

// MaxTermRunes is the longest term accepted by ValidateTerm.
const MaxTermRunes = 128

// ValidateText validates a raw text submission before tokenization.
//
// The validation rules are intentionally conservative:
//   - Maximum size of MaxTextBytes
//   - Must be valid UTF-8
//   - No null bytes
//
// Empty text is valid: it produces an empty graph.
func ValidateText(text string) error {
	if len(text) > MaxTextBytes {
		return New(ErrCodeInvalidInput, "text too long (max %d bytes)", MaxTextBytes)
	}
	if !utf8.ValidString(text) {
		return New(ErrCodeInvalidInput, "text is not valid UTF-8")
	}
	if strings.Contains(text, "\x00") {
		return New(ErrCodeInvalidInput, "text contains null bytes")
	}
	return nil
}

// ValidateTerm validates a single term before it is sent to the lexicon.
// A term that fails validation is malformed: lookups must not be attempted.
//
// Validation rules:
//   - Term cannot be empty
//   - Maximum length of MaxTermRunes characters
//   - No control characters
//   - No whitespace (terms are single tokens)
func ValidateTerm(term string) error {
	if term == "" {
		return New(ErrCodeInvalidTerm, "term cannot be empty")
	}
	if utf8.RuneCountInString(term) > MaxTermRunes {
		return New(ErrCodeInvalidTerm, "term too long (max %d characters)", MaxTermRunes)
	}
	for _, r := range term {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidTerm, "term contains control characters: %q", term)
		}
		if unicode.IsSpace(r) {
			return New(ErrCodeInvalidTerm, "term contains whitespace: %q", term)
		}
	}
	return nil
}

// ValidateHexColor validates a "#rrggbb" colour string used in configuration.
func ValidateHexColor(s string) error {
	if len(s) != 7 || s[0] != '#' {
		return New(ErrCodeInvalidConfig, "invalid colour %q (want #rrggbb)", s)
	}
	for _, r := range s[1:] {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return New(ErrCodeInvalidConfig, "invalid colour %q (want #rrggbb)", s)
		}
	}
	return nil
}
