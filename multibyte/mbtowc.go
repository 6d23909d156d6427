// Package multibyte converts single UTF-8 encoded characters into the 16-bit
// code units used by wide strings.
//
// Only characters in the Basic Multilingual Plane are produced. A character
// that would need a surrogate pair is rejected rather than truncated.
package multibyte

import (
	"unicode/utf16"
	"unicode/utf8"

	"github.com/wippyai/wasm-libc/errors"
)

var (
	ErrEmptyInput      = errors.Sentinel(errors.PhaseDecode, errors.KindEmptyInput, "no bytes to decode")
	ErrInvalidEncoding = errors.Sentinel(errors.PhaseDecode, errors.KindInvalidEncoding, "malformed utf-8")
	ErrNonBMP          = errors.Sentinel(errors.PhaseDecode, errors.KindNonBMP, "character needs a surrogate pair")
)

// DecodeOne decodes the first character of b and returns its code unit and
// the number of bytes it occupies.
//
// The whole of b must be well-formed UTF-8, not just the leading character:
// a valid character followed by garbage fails with ErrInvalidEncoding. Use
// DecodePrefix to look at the leading character only.
func DecodeOne(b []byte) (uint16, int, error) {
	if len(b) == 0 {
		return 0, 0, ErrEmptyInput
	}
	if !utf8.Valid(b) {
		return 0, 0, ErrInvalidEncoding
	}
	r, size := utf8.DecodeRune(b)
	return toUnit(r, size)
}

// DecodePrefix decodes the first character of b, ignoring whatever follows
// it. A truncated or malformed leading sequence fails with ErrInvalidEncoding.
func DecodePrefix(b []byte) (uint16, int, error) {
	if len(b) == 0 {
		return 0, 0, ErrEmptyInput
	}
	r, size := utf8.DecodeRune(b)
	if r == utf8.RuneError && size <= 1 {
		return 0, 0, ErrInvalidEncoding
	}
	return toUnit(r, size)
}

func toUnit(r rune, size int) (uint16, int, error) {
	if utf16.RuneLen(r) != 1 {
		return 0, 0, ErrNonBMP
	}
	return uint16(r), size, nil
}
