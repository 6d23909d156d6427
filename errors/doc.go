// Package errors provides structured error types for wasm-libc.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries optional context: failing function, target type, field path,
// offending value and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseHost, errors.KindOutOfBounds).
//		Func("strtol").
//		Path("out").
//		Detail("result pointer 0x%x outside memory", ptr).
//		Build()
//
// Packages that must not allocate on failure declare sentinels once:
//
//	var ErrInvalidStart = errors.Sentinel(errors.PhaseParse, errors.KindInvalidStart, "no digit after sign")
//
// Is compares Phase and Kind only, so a sentinel matches any error of the same
// category, including ones built later with more context.
package errors
