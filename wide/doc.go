// Package wide parses signed integers out of wide (UTF-16 code unit) strings.
//
// Inputs are bounded []uint16 slices. A trailing NUL is optional; an embedded
// NUL ends the number early. Nothing here scans memory for a terminator, so
// callers holding raw guest pointers build the slice first (see package memory).
//
// Three entry points mirror the C library functions a freestanding program
// carries:
//
//	Strtol(s, base)  explicit base, optional leading '-'
//	Atol(s)          base from a "0x" or leading-zero prefix, int64 result
//	Atoi(s)          Atol narrowed to int32
//
// All failures are package-level sentinels from the errors package, so a
// failing parse allocates nothing. Compare them with errors.Is.
package wide
