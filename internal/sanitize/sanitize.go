// Package sanitize checks words submitted by visitors before they reach the engine.
package sanitize

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// DefaultMaxInputSize bounds a submitted word, in bytes.
	DefaultMaxInputSize = 256
	// EnvMaxInputSize is the environment variable to override the default
	EnvMaxInputSize = "STANZA_MAX_INPUT_SIZE"
)

var (
	ErrInputTooLarge = errors.New("input exceeds maximum allowed size")
	ErrInvalidUTF8   = errors.New("input contains invalid UTF-8 sequences")
	ErrControlChar   = errors.New("input contains control characters")
)

// Word enforces the size limit, validates UTF-8 and rejects control
// characters. The word is returned unchanged: chain keys may carry
// whitespace, and a rewritten word would no longer match the offer.
func Word(input string) (string, error) {
	limit := maxInputSize()
	if len(input) > limit {
		// Rejected rather than truncated so a word never silently changes.
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrInputTooLarge, len(input), limit)
	}

	if !utf8.ValidString(input) {
		return "", ErrInvalidUTF8
	}

	// Whitespace controls are legal inside keys; anything else (ANSI escapes, NUL) is refused.
	if i := strings.IndexFunc(input, forbidden); i >= 0 {
		return "", fmt.Errorf("%w: %q at byte %d", ErrControlChar, input[i], i)
	}
	return input, nil
}

func forbidden(r rune) bool {
	switch r {
	case '\t', '\n', '\f', '\r':
		return false
	}
	return unicode.IsControl(r)
}

func maxInputSize() int {
	if val := os.Getenv(EnvMaxInputSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxInputSize
}
