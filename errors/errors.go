package errors

import (
	"fmt"
	"strconv"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseParse   Phase = "parse"   // wide-string numeric parsing
	PhaseDecode  Phase = "decode"  // multibyte scalar decoding
	PhaseMemory  Phase = "memory"  // guest memory access and bounds discovery
	PhaseHost    Phase = "host"    // host function registration and calls
	PhaseLoad    Phase = "load"    // module loading
	PhaseRuntime Phase = "runtime" // instance lifecycle
	PhaseConfig  Phase = "config"  // configuration loading
)

// Kind categorizes the error
type Kind string

const (
	// numeric parsing
	KindFoundNullPtr  Kind = "found_null_ptr"
	KindEndOfStr      Kind = "end_of_str"
	KindInvalidStart  Kind = "invalid_start"
	KindInvalidInput  Kind = "invalid_input"
	KindLargerThanI32 Kind = "larger_than_i32"
	KindOverflow      Kind = "overflow"
	KindInvalidBase   Kind = "invalid_base"

	// scalar decoding
	KindEmptyInput      Kind = "empty_input"
	KindInvalidEncoding Kind = "invalid_encoding"
	KindNonBMP          Kind = "non_bmp"

	// platform
	KindOutOfBounds     Kind = "out_of_bounds"
	KindNilPointer      Kind = "nil_pointer"
	KindTypeMismatch    Kind = "type_mismatch"
	KindInvalidData     Kind = "invalid_data"
	KindInvalidArgument Kind = "invalid_argument"
	KindUnsupported     Kind = "unsupported"
	KindNotFound        Kind = "not_found"
	KindMissingImport   Kind = "missing_import"
	KindRegistration    Kind = "registration"
	KindInstantiation   Kind = "instantiation"
)

// Error is the structured error type used throughout the module
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Func   string // host function or entry point that failed
	Type   string // target type or encoding, e.g. "int32", "utf-16"
	Detail string
	Path   []string
}

// Error renders as "phase[ func]: kind[ at path][ (type)][: detail][: cause]".
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Phase))
	if e.Func != "" {
		b.WriteByte(' ')
		b.WriteString(e.Func)
	}
	b.WriteString(": ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}
	if e.Type != "" {
		fmt.Fprintf(&b, " (%s)", e.Type)
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error.
// Only Phase and Kind take part, so package-level sentinels match
// errors that carry extra context.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && e.Phase == t.Phase && e.Kind == t.Kind
}

// Builder accumulates context for an Error. Each setter returns the
// builder so calls chain; Build hands out the result.
type Builder struct {
	err Error
}

func New(phase Phase, kind Kind) *Builder {
	return &Builder{err: Error{Phase: phase, Kind: kind}}
}

func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

func (b *Builder) Func(name string) *Builder {
	b.err.Func = name
	return b
}

func (b *Builder) Type(t string) *Builder {
	b.err.Type = t
	return b
}

func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the message, formatting it when args are given.
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	b.err.Detail = msg
	return b
}

func (b *Builder) Build() *Error {
	return &b.err
}

// Sentinel returns an error carrying only phase, kind and detail.
// Packages declare their failure values with it once, so returning
// them never allocates.
func Sentinel(phase Phase, kind Kind, detail string) *Error {
	return &Error{Phase: phase, Kind: kind, Detail: detail}
}

// KindOf returns the Kind of the first *Error in err's chain, or "".
func KindOf(err error) Kind {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Kind
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return ""
		}
		err = u.Unwrap()
	}
	return ""
}

// TypeMismatch reports a value of the wrong type or signature at path.
func TypeMismatch(phase Phase, path []string, want, got string) *Error {
	return &Error{Phase: phase, Kind: KindTypeMismatch, Path: path, Type: want, Detail: "got " + got}
}

func Unsupported(phase Phase, what string) *Error {
	return &Error{Phase: phase, Kind: KindUnsupported, Detail: what}
}

// OutOfBounds reports an access at index into something length long.
func OutOfBounds(phase Phase, path []string, index, length int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Path:   path,
		Value:  index,
		Detail: fmt.Sprintf("offset %d beyond %d", index, length),
	}
}

// NilPointer reports a zero guest pointer where what was expected.
func NilPointer(phase Phase, path []string, what string) *Error {
	return &Error{Phase: phase, Kind: KindNilPointer, Path: path, Type: what, Detail: "null pointer"}
}

func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{Phase: phase, Kind: kind, Detail: detail, Cause: cause}
}

func NotFound(phase Phase, what, name string) *Error {
	return &Error{Phase: phase, Kind: KindNotFound, Detail: fmt.Sprintf("no %s named %q", what, name)}
}

func InvalidArgument(phase Phase, detail string) *Error {
	return &Error{Phase: phase, Kind: KindInvalidArgument, Detail: detail}
}

// Registration reports a host function that could not be defined.
// name may be "*" when the whole namespace failed.
func Registration(phase Phase, namespace, name string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindRegistration,
		Detail: "define " + namespace + "." + name,
		Cause:  cause,
	}
}

func Instantiation(cause error) *Error {
	return &Error{Phase: PhaseRuntime, Kind: KindInstantiation, Detail: "instantiate guest", Cause: cause}
}

// Load reports a guest binary that failed to compile or link.
func Load(detail string, cause error) *Error {
	return &Error{Phase: PhaseLoad, Kind: KindInvalidData, Detail: detail, Cause: cause}
}

// ParseFailed reports an unreadable configuration source.
func ParseFailed(what string, cause error) *Error {
	return &Error{Phase: PhaseConfig, Kind: KindInvalidData, Detail: "parse " + what, Cause: cause}
}

// MissingImport is one guest import no provider serves.
type MissingImport struct {
	Namespace string
	Function  string
}

// MissingImportsError lists every unresolved import of a guest so the
// whole set can be reported at once.
type MissingImportsError struct {
	Imports []MissingImport
}

// NewMissingImportsError builds the error from "namespace#function" keys.
// A key without '#' is taken as a bare namespace.
func NewMissingImportsError(keys []string) *MissingImportsError {
	imports := make([]MissingImport, len(keys))
	for i, key := range keys {
		ns, fn, _ := strings.Cut(key, "#")
		imports[i] = MissingImport{Namespace: ns, Function: fn}
	}
	return &MissingImportsError{Imports: imports}
}

// Error lists imports one per line, grouped by namespace in first-seen
// order, with Rust symbols shortened to their path.
func (e *MissingImportsError) Error() string {
	if len(e.Imports) == 0 {
		return "load: missing_import: empty import list"
	}

	var order []string
	grouped := make(map[string][]string)
	for _, imp := range e.Imports {
		if _, seen := grouped[imp.Namespace]; !seen {
			order = append(order, imp.Namespace)
		}
		grouped[imp.Namespace] = append(grouped[imp.Namespace], demangleRust(imp.Function))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "load: missing_import: %d unresolved", len(e.Imports))
	for _, ns := range order {
		fmt.Fprintf(&b, "\n  %s: %s", ns, strings.Join(grouped[ns], ", "))
	}
	return b.String()
}

func (e *MissingImportsError) Is(target error) bool {
	_, ok := target.(*MissingImportsError)
	return ok
}

// demangleRust turns a legacy Rust symbol (_ZN<len><ident>...E) into its
// "::"-joined path, dropping the trailing hash segment. Anything it cannot
// read comes back unchanged.
func demangleRust(sym string) string {
	rest, ok := strings.CutPrefix(sym, "_ZN")
	if !ok {
		return sym
	}

	var path []string
	for rest != "" && rest[0] != 'E' {
		digits := len(rest) - len(strings.TrimLeft(rest, "0123456789"))
		n, err := strconv.Atoi(rest[:digits])
		if err != nil || n > len(rest)-digits {
			break
		}
		ident := rest[digits : digits+n]
		rest = rest[digits+n:]
		if !isHashSegment(ident) {
			path = append(path, ident)
		}
	}
	if len(path) == 0 {
		return sym
	}
	return strings.Join(path, "::")
}

// isHashSegment matches the 'h' plus 16 lowercase hex digits rustc appends.
func isHashSegment(ident string) bool {
	if len(ident) != 17 || ident[0] != 'h' {
		return false
	}
	return strings.Trim(ident[1:], "0123456789abcdef") == ""
}
