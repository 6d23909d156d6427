package wide

import "math"

// Strtol parses s as a signed integer in base.
//
// An optional '-' comes first. Parsing stops at the first NUL or at the end of
// s, and every unit before that must be a digit of base: trailing garbage is an
// error, not a stopping point. Values outside int64 fail with ErrOverflow.
func Strtol(s []uint16, base int) (int64, error) {
	if err := CheckNull(s); err != nil {
		return 0, err
	}
	if base < MinBase || base > MaxBase {
		return 0, ErrInvalidBase
	}

	negative, offset := CheckSign(s)
	return accumulate(s[offset:], base, negative)
}

// accumulate parses an unsigned digit run and applies the sign.
// s starts where the first digit must be; any sign has been consumed.
func accumulate(s []uint16, base int, negative bool) (int64, error) {
	if IsEndOfNumber(s, 0, base) {
		return 0, ErrInvalidStart
	}

	limit := uint64(math.MaxInt64)
	if negative {
		limit++
	}
	b := uint64(base)

	var total uint64
	for i := range s {
		if s[i] == 0 {
			break
		}
		d, ok := digitValue(s, i, base)
		if !ok {
			return 0, ErrInvalidInput
		}
		if total > limit/b {
			return 0, ErrOverflow
		}
		total *= b
		if total > limit-d {
			return 0, ErrOverflow
		}
		total += d
	}

	if negative {
		if total > math.MaxInt64 {
			return math.MinInt64, nil
		}
		return -int64(total), nil
	}
	return int64(total), nil
}
