package memory

import (
	"encoding/binary"

	wasmlibc "github.com/wippyai/wasm-libc"
	"github.com/wippyai/wasm-libc/errors"
)

// WideCString returns the NUL-terminated UTF-16LE string at ptr, without its
// terminator. The terminator must appear within maxUnits code units and
// before the end of memory.
func WideCString(mem wasmlibc.Memory, ptr uint32, maxUnits uint32) ([]uint16, error) {
	if ptr == 0 {
		return nil, errors.NilPointer(errors.PhaseMemory, nil, "wide string")
	}

	raw, err := span(mem, ptr, uint64(maxUnits)*2)
	if err != nil {
		return nil, err
	}
	if raw != nil {
		for i := 0; i+1 < len(raw); i += 2 {
			if raw[i] == 0 && raw[i+1] == 0 {
				units := make([]uint16, i/2)
				for j := range units {
					units[j] = binary.LittleEndian.Uint16(raw[2*j:])
				}
				return units, nil
			}
		}
		return nil, unterminated(ptr, maxUnits, "units")
	}

	// no size information: walk unit by unit
	var units []uint16
	for n := uint32(0); n < maxUnits; n++ {
		u, err := mem.ReadU16(ptr + 2*n)
		if err != nil {
			return nil, errors.New(errors.PhaseMemory, errors.KindOutOfBounds).
				Value(ptr).
				Detail("wide string at 0x%x runs off memory", ptr).
				Cause(err).
				Build()
		}
		if u == 0 {
			return units, nil
		}
		units = append(units, u)
	}
	return nil, unterminated(ptr, maxUnits, "units")
}

// WideCStringLen is WideCString without the copy: it reports how many code
// units precede the terminator.
func WideCStringLen(mem wasmlibc.Memory, ptr uint32, maxUnits uint32) (uint32, error) {
	units, err := WideCString(mem, ptr, maxUnits)
	if err != nil {
		return 0, err
	}
	return uint32(len(units)), nil
}

// CString returns the NUL-terminated byte string at ptr, without its
// terminator. The terminator must appear within maxBytes bytes.
// The result aliases memory and is only valid until the guest runs again.
func CString(mem wasmlibc.Memory, ptr uint32, maxBytes uint32) ([]byte, error) {
	if ptr == 0 {
		return nil, errors.NilPointer(errors.PhaseMemory, nil, "string")
	}

	raw, err := span(mem, ptr, uint64(maxBytes))
	if err != nil {
		return nil, err
	}
	if raw != nil {
		for i, c := range raw {
			if c == 0 {
				return raw[:i], nil
			}
		}
		return nil, unterminated(ptr, maxBytes, "bytes")
	}

	for n := uint32(0); n < maxBytes; n++ {
		c, err := mem.ReadU8(ptr + n)
		if err != nil {
			return nil, errors.New(errors.PhaseMemory, errors.KindOutOfBounds).
				Value(ptr).
				Detail("string at 0x%x runs off memory", ptr).
				Cause(err).
				Build()
		}
		if c == 0 {
			return mem.Read(ptr, n)
		}
	}
	return nil, unterminated(ptr, maxBytes, "bytes")
}

// Window returns exactly n bytes at ptr. Unlike CString it does not look for
// a terminator.
func Window(mem wasmlibc.Memory, ptr uint32, n uint32) ([]byte, error) {
	if ptr == 0 {
		return nil, errors.NilPointer(errors.PhaseMemory, nil, "byte window")
	}
	data, err := mem.Read(ptr, n)
	if err != nil {
		return nil, errors.New(errors.PhaseMemory, errors.KindOutOfBounds).
			Value(ptr).
			Detail("window 0x%x+%d outside memory", ptr, n).
			Cause(err).
			Build()
	}
	return data, nil
}

// span reads up to limit bytes from ptr, clipped to the end of memory.
// It returns nil, nil when mem cannot report its size.
func span(mem wasmlibc.Memory, ptr uint32, limit uint64) ([]byte, error) {
	sizer, ok := mem.(wasmlibc.MemorySizer)
	if !ok {
		return nil, nil
	}
	size := sizer.Size()
	if ptr >= size {
		return nil, errors.OutOfBounds(errors.PhaseMemory, nil, int(ptr), int(size))
	}
	n := min(uint64(size-ptr), limit)
	return mem.Read(ptr, uint32(n))
}

func unterminated(ptr, limit uint32, unit string) *errors.Error {
	return errors.New(errors.PhaseMemory, errors.KindOutOfBounds).
		Value(ptr).
		Detail("no terminator at 0x%x within %d %s", ptr, limit, unit).
		Build()
}
