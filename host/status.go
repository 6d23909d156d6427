package host

import (
	"fmt"

	"github.com/wippyai/wasm-libc/errors"
)

// Status is the i32 result code host functions return to the guest.
type Status int32

const (
	StatusOK Status = iota
	StatusFoundNullPtr
	StatusEndOfStr
	StatusInvalidStart
	StatusInvalidInput
	StatusLargerThanI32
	StatusOverflow
	StatusInvalidBase
	StatusEmptyInput
	StatusInvalidEncoding
	StatusNonBMP
	StatusFault
	StatusUnsupported
)

var statusNames = [...]string{
	StatusOK:              "ok",
	StatusFoundNullPtr:    "found_null_ptr",
	StatusEndOfStr:        "end_of_str",
	StatusInvalidStart:    "invalid_start",
	StatusInvalidInput:    "invalid_input",
	StatusLargerThanI32:   "larger_than_i32",
	StatusOverflow:        "overflow",
	StatusInvalidBase:     "invalid_base",
	StatusEmptyInput:      "empty_input",
	StatusInvalidEncoding: "invalid_encoding",
	StatusNonBMP:          "non_bmp",
	StatusFault:           "fault",
	StatusUnsupported:     "unsupported",
}

func (s Status) String() string {
	if s >= 0 && int(s) < len(statusNames) {
		return statusNames[s]
	}
	return fmt.Sprintf("status(%d)", int32(s))
}

var kindStatus = map[errors.Kind]Status{
	errors.KindFoundNullPtr:    StatusFoundNullPtr,
	errors.KindEndOfStr:        StatusEndOfStr,
	errors.KindInvalidStart:    StatusInvalidStart,
	errors.KindInvalidInput:    StatusInvalidInput,
	errors.KindLargerThanI32:   StatusLargerThanI32,
	errors.KindOverflow:        StatusOverflow,
	errors.KindInvalidBase:     StatusInvalidBase,
	errors.KindEmptyInput:      StatusEmptyInput,
	errors.KindInvalidEncoding: StatusInvalidEncoding,
	errors.KindNonBMP:          StatusNonBMP,
	errors.KindNilPointer:      StatusFoundNullPtr,
	errors.KindUnsupported:     StatusUnsupported,
}

// StatusOf maps an error from this module to the code reported to guests.
// Errors it does not recognize are reported as StatusFault.
func StatusOf(err error) Status {
	if err == nil {
		return StatusOK
	}
	if s, ok := kindStatus[errors.KindOf(err)]; ok {
		return s
	}
	return StatusFault
}
