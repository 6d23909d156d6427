package host

import (
	wasmlibc "github.com/wippyai/wasm-libc"
	"github.com/wippyai/wasm-libc/errors"
	"github.com/wippyai/wasm-libc/memory"
	"github.com/wippyai/wasm-libc/multibyte"
	"github.com/wippyai/wasm-libc/wide"
)

// The methods below serve guest requests against an arbitrary Memory. They
// turn guest pointers into bounded slices once and hand those to the pure
// parsers. A null string pointer reports KindNilPointer, which guests see as
// StatusFoundNullPtr.

// Strtol parses the wide string at s in the given base.
func (e *Env) Strtol(mem wasmlibc.Memory, s uint32, base int32) (int64, error) {
	units, err := e.wideArg(mem, s)
	if err != nil {
		return 0, err
	}
	return wide.Strtol(units, int(base))
}

// Atol parses the wide string at s, detecting its base from the prefix.
func (e *Env) Atol(mem wasmlibc.Memory, s uint32) (int64, error) {
	units, err := e.wideArg(mem, s)
	if err != nil {
		return 0, err
	}
	if e.opts.LegacyPrefixScan {
		return wide.AtolScan(units)
	}
	return wide.Atol(units)
}

// Atoi is Atol narrowed to int32.
func (e *Env) Atoi(mem wasmlibc.Memory, s uint32) (int32, error) {
	units, err := e.wideArg(mem, s)
	if err != nil {
		return 0, err
	}
	if e.opts.LegacyPrefixScan {
		return wide.AtoiScan(units)
	}
	return wide.Atoi(units)
}

// Mbtowc decodes one UTF-8 character from the n bytes at s.
func (e *Env) Mbtowc(mem wasmlibc.Memory, s uint32, n uint32) (uint16, int, error) {
	if n == 0 {
		return 0, 0, multibyte.ErrEmptyInput
	}
	window, err := memory.Window(mem, s, n)
	if err != nil {
		return 0, 0, err
	}
	if e.opts.StrictDecodeWindow {
		return multibyte.DecodeOne(window)
	}
	return multibyte.DecodePrefix(window)
}

// Wcslen returns the number of code units before the terminator at s.
func (e *Env) Wcslen(mem wasmlibc.Memory, s uint32) (uint32, error) {
	return memory.WideCStringLen(mem, s, e.opts.MaxStringUnits)
}

// OutputString writes the wide string at s to the console.
func (e *Env) OutputString(mem wasmlibc.Memory, s uint32) error {
	units, err := memory.WideCString(mem, s, e.opts.MaxStringUnits)
	if err != nil {
		return err
	}
	return e.console.OutputString(units)
}

// TestString reports whether the console can display the wide string at s.
func (e *Env) TestString(mem wasmlibc.Memory, s uint32) (bool, error) {
	units, err := memory.WideCString(mem, s, e.opts.MaxStringUnits)
	if err != nil {
		return false, err
	}
	return e.console.TestString(units), nil
}

// wideArg reads a guest wide string and keeps its terminator, so an empty
// guest string reaches the parser as a leading NUL.
func (e *Env) wideArg(mem wasmlibc.Memory, s uint32) ([]uint16, error) {
	units, err := memory.WideCString(mem, s, e.opts.MaxStringUnits)
	if err != nil {
		if errors.KindOf(err) == errors.KindNilPointer {
			return nil, wide.ErrFoundNullPtr
		}
		return nil, err
	}
	return append(units, 0), nil
}
