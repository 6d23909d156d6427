package wide

import (
	"github.com/wippyai/wasm-libc/errors"
)

var (
	ErrFoundNullPtr  = errors.Sentinel(errors.PhaseParse, errors.KindFoundNullPtr, "empty string")
	ErrEndOfStr      = errors.Sentinel(errors.PhaseParse, errors.KindEndOfStr, "string starts with a terminator")
	ErrInvalidStart  = errors.Sentinel(errors.PhaseParse, errors.KindInvalidStart, "no digit where the number starts")
	ErrInvalidInput  = errors.Sentinel(errors.PhaseParse, errors.KindInvalidInput, "non-digit inside number")
	ErrLargerThanI32 = errors.Sentinel(errors.PhaseParse, errors.KindLargerThanI32, "value outside int32 range")
	ErrOverflow      = errors.Sentinel(errors.PhaseParse, errors.KindOverflow, "value outside int64 range")
	ErrInvalidBase   = errors.Sentinel(errors.PhaseParse, errors.KindInvalidBase, "base must be in 2..36")
)

const (
	MinBase = 2
	MaxBase = 36
)

// CheckNull rejects input that cannot hold a number at all.
func CheckNull(s []uint16) error {
	if len(s) == 0 {
		return ErrFoundNullPtr
	}
	if s[0] == 0 {
		return ErrEndOfStr
	}
	return nil
}

// IsEndOfNumber reports whether no digit of the given base can start at i.
// Bases below 10 never admit letters. For larger bases any of 0-9, A-F, a-f
// passes here; whether a letter is a digit is decided by the Is* predicates.
func IsEndOfNumber(s []uint16, i int, base int) bool {
	if i >= len(s) {
		return true
	}
	c := int(s[i])
	if c < '0' {
		return true
	}
	if base < 10 {
		return c >= '0'+base
	}
	return (c > '9' && c < 'A') ||
		(c > 'F' && c < 'a') ||
		c > 'f'
}

// IsDigit reports whether s[i] is a decimal digit valid in base.
// Bases of 10 and above accept all of '0'..'9'.
func IsDigit(s []uint16, i int, base int) bool {
	c := int(s[i])
	return c >= '0' && c < '0'+min(base, 10)
}

// IsHexUpper reports whether s[i] is one of 'A'..'F' and base is 16.
func IsHexUpper(s []uint16, i int, base int) bool {
	return base == 16 && s[i] >= 'A' && s[i] <= 'F'
}

// IsHexLower reports whether s[i] is one of 'a'..'f' and base is 16.
func IsHexLower(s []uint16, i int, base int) bool {
	return base == 16 && s[i] >= 'a' && s[i] <= 'f'
}

// CheckSign looks at s[0] only. offset is 1 when a '-' was consumed.
// There is no '+' form. s must not be empty.
func CheckSign(s []uint16) (negative bool, offset int) {
	if s[0] == '-' {
		return true, 1
	}
	return false, 0
}

// digitValue classifies s[i] in priority order: decimal, upper hex, lower hex.
func digitValue(s []uint16, i int, base int) (uint64, bool) {
	switch {
	case IsDigit(s, i, base):
		return uint64(s[i] - '0'), true
	case IsHexUpper(s, i, base):
		return uint64(s[i]-'A') + 10, true
	case IsHexLower(s, i, base):
		return uint64(s[i]-'a') + 10, true
	}
	return 0, false
}
