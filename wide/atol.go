package wide

import "math"

// Atol parses s with the base implied by its prefix.
//
// After an optional '-', "0x" selects base 16 and parsing resumes after the
// 'x'; a '0' followed by an octal digit selects base 8 and the leading zero is
// parsed as part of the number; anything else is decimal. The prefix must sit
// directly after the sign.
func Atol(s []uint16) (int64, error) {
	if err := CheckNull(s); err != nil {
		return 0, err
	}

	negative, offset := CheckSign(s)
	digits, base := detectAnchored(s, offset)
	return accumulate(digits, base, negative)
}

// AtolScan is Atol with the prefix search run over the whole string: the first
// "0x" or "0<octal digit>" at or after the sign decides the base, even when
// ordinary digits precede it. Guests written against that behavior
// ("10x5" parses as 5, "1007" as octal 519) select it through the host options.
func AtolScan(s []uint16) (int64, error) {
	if err := CheckNull(s); err != nil {
		return 0, err
	}

	negative, offset := CheckSign(s)
	digits, base := detectScan(s, offset)
	return accumulate(digits, base, negative)
}

// Atoi is Atol narrowed to int32. Values outside the int32 range in either
// direction fail with ErrLargerThanI32.
func Atoi(s []uint16) (int32, error) {
	return narrow(Atol(s))
}

// AtoiScan is AtolScan narrowed to int32.
func AtoiScan(s []uint16) (int32, error) {
	return narrow(AtolScan(s))
}

func narrow(v int64, err error) (int32, error) {
	if err != nil {
		return 0, err
	}
	if v < math.MinInt32 || v > math.MaxInt32 {
		return 0, ErrLargerThanI32
	}
	return int32(v), nil
}

func detectAnchored(s []uint16, offset int) ([]uint16, int) {
	if offset+1 < len(s) && s[offset] == '0' {
		next := s[offset+1]
		if next == 'x' {
			return s[offset+2:], 16
		}
		if next >= '0' && next <= '7' {
			return s[offset:], 8
		}
	}
	return s[offset:], 10
}

func detectScan(s []uint16, offset int) ([]uint16, int) {
	for i := offset; i+1 < len(s); i++ {
		if s[i] != '0' {
			continue
		}
		next := s[i+1]
		if next == 'x' {
			return s[i+2:], 16
		}
		if next >= '0' && next <= '7' {
			return s[offset:], 8
		}
	}
	return s[offset:], 10
}
