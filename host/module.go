package host

import (
	"context"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.bytecodealliance.org/wit"
	"go.uber.org/zap"

	"github.com/wippyai/wasm-libc/errors"
	"github.com/wippyai/wasm-libc/memory"
)

// ModuleName is the import module guests use for these functions.
const ModuleName = "env"

var (
	i32 = api.ValueTypeI32

	witPtr    = wit.U32{}
	witStatus = wit.S32{}
)

// Export describes one host function: its core signature as wazero sees it
// and the WIT view used for listings.
type Export struct {
	Name       string
	Doc        string
	ParamNames []string
	Params     []api.ValueType
	Results    []api.ValueType
	WitParams  []wit.Type
	WitResults []wit.Type

	fn func(e *Env) api.GoModuleFunc
}

var exports = []Export{
	{
		Name:       "strtol",
		Doc:        "parse wide string s in base, store i64 at out",
		ParamNames: []string{"s", "base", "out"},
		Params:     []api.ValueType{i32, i32, i32},
		Results:    []api.ValueType{i32},
		WitParams:  []wit.Type{witPtr, wit.S32{}, witPtr},
		WitResults: []wit.Type{witStatus},
		fn:         (*Env).strtolFunc,
	},
	{
		Name:       "atol",
		Doc:        "parse wide string s with prefix-detected base, store i64 at out",
		ParamNames: []string{"s", "out"},
		Params:     []api.ValueType{i32, i32},
		Results:    []api.ValueType{i32},
		WitParams:  []wit.Type{witPtr, witPtr},
		WitResults: []wit.Type{witStatus},
		fn:         (*Env).atolFunc,
	},
	{
		Name:       "atoi",
		Doc:        "parse wide string s with prefix-detected base, store i32 at out",
		ParamNames: []string{"s", "out"},
		Params:     []api.ValueType{i32, i32},
		Results:    []api.ValueType{i32},
		WitParams:  []wit.Type{witPtr, witPtr},
		WitResults: []wit.Type{witStatus},
		fn:         (*Env).atoiFunc,
	},
	{
		Name:       "mbtowc",
		Doc:        "decode one utf-8 character from n bytes at s into pwc; bytes consumed or -status",
		ParamNames: []string{"pwc", "s", "n"},
		Params:     []api.ValueType{i32, i32, i32},
		Results:    []api.ValueType{i32},
		WitParams:  []wit.Type{witPtr, witPtr, wit.U32{}},
		WitResults: []wit.Type{wit.S32{}},
		fn:         (*Env).mbtowcFunc,
	},
	{
		Name:       "wcslen",
		Doc:        "length of wide string s in code units, or -status",
		ParamNames: []string{"s"},
		Params:     []api.ValueType{i32},
		Results:    []api.ValueType{i32},
		WitParams:  []wit.Type{witPtr},
		WitResults: []wit.Type{wit.S32{}},
		fn:         (*Env).wcslenFunc,
	},
	{
		Name:       "output_string",
		Doc:        "write wide string s to the console",
		ParamNames: []string{"s"},
		Params:     []api.ValueType{i32},
		Results:    []api.ValueType{i32},
		WitParams:  []wit.Type{witPtr},
		WitResults: []wit.Type{witStatus},
		fn:         (*Env).outputStringFunc,
	},
	{
		Name:       "test_string",
		Doc:        "check that the console can display wide string s",
		ParamNames: []string{"s"},
		Params:     []api.ValueType{i32},
		Results:    []api.ValueType{i32},
		WitParams:  []wit.Type{witPtr},
		WitResults: []wit.Type{witStatus},
		fn:         (*Env).testStringFunc,
	},
}

// Exports lists the functions Instantiate registers, in a stable order.
func Exports() []Export {
	out := make([]Export, len(exports))
	copy(out, exports)
	return out
}

// Lookup returns the export named name.
func Lookup(name string) (Export, bool) {
	for _, ex := range exports {
		if ex.Name == name {
			return ex, true
		}
	}
	return Export{}, false
}

// Instantiate registers the env module in r, serving calls from env.
func Instantiate(ctx context.Context, r wazero.Runtime, env *Env) (api.Module, error) {
	if env == nil {
		return nil, errors.InvalidArgument(errors.PhaseHost, "env cannot be nil")
	}

	builder := r.NewHostModuleBuilder(ModuleName)
	for _, ex := range exports {
		builder.NewFunctionBuilder().
			WithGoModuleFunction(ex.fn(env), ex.Params, ex.Results).
			WithParameterNames(ex.ParamNames...).
			Export(ex.Name)
	}

	mod, err := builder.Instantiate(ctx)
	if err != nil {
		return nil, errors.Registration(errors.PhaseHost, ModuleName, "*", err)
	}
	env.logger.Debug("host module instantiated",
		zap.String("module", ModuleName),
		zap.Int("functions", len(exports)))
	return mod, nil
}

func (e *Env) strtolFunc() api.GoModuleFunc {
	return func(_ context.Context, mod api.Module, stack []uint64) {
		s, base, out := api.DecodeU32(stack[0]), api.DecodeI32(stack[1]), api.DecodeU32(stack[2])
		mem, st := callerMemory(mod)
		if st == StatusOK {
			st = outPointer(out)
		}
		if st == StatusOK {
			v, err := e.Strtol(mem, s, base)
			st = e.store64(mem, out, v, err)
		}
		e.trace("strtol", st, s)
		stack[0] = api.EncodeI32(int32(st))
	}
}

func (e *Env) atolFunc() api.GoModuleFunc {
	return func(_ context.Context, mod api.Module, stack []uint64) {
		s, out := api.DecodeU32(stack[0]), api.DecodeU32(stack[1])
		mem, st := callerMemory(mod)
		if st == StatusOK {
			st = outPointer(out)
		}
		if st == StatusOK {
			v, err := e.Atol(mem, s)
			st = e.store64(mem, out, v, err)
		}
		e.trace("atol", st, s)
		stack[0] = api.EncodeI32(int32(st))
	}
}

func (e *Env) atoiFunc() api.GoModuleFunc {
	return func(_ context.Context, mod api.Module, stack []uint64) {
		s, out := api.DecodeU32(stack[0]), api.DecodeU32(stack[1])
		mem, st := callerMemory(mod)
		if st == StatusOK {
			st = outPointer(out)
		}
		if st == StatusOK {
			v, err := e.Atoi(mem, s)
			st = StatusOf(err)
			if st == StatusOK && mem.WriteU32(out, uint32(v)) != nil {
				st = StatusFault
			}
		}
		e.trace("atoi", st, s)
		stack[0] = api.EncodeI32(int32(st))
	}
}

func (e *Env) mbtowcFunc() api.GoModuleFunc {
	return func(_ context.Context, mod api.Module, stack []uint64) {
		pwc, s, n := api.DecodeU32(stack[0]), api.DecodeU32(stack[1]), api.DecodeU32(stack[2])
		// a null s asks whether the encoding is stateful; it is not
		if s == 0 {
			stack[0] = api.EncodeI32(0)
			return
		}

		var unit uint16
		var consumed int
		mem, st := callerMemory(mod)
		if st == StatusOK {
			var err error
			unit, consumed, err = e.Mbtowc(mem, s, n)
			st = StatusOf(err)
		}
		if st == StatusOK && pwc != 0 && mem.WriteU16(pwc, unit) != nil {
			st = StatusFault
		}
		e.trace("mbtowc", st, s)
		if st != StatusOK {
			stack[0] = api.EncodeI32(-int32(st))
			return
		}
		stack[0] = api.EncodeI32(int32(consumed))
	}
}

func (e *Env) wcslenFunc() api.GoModuleFunc {
	return func(_ context.Context, mod api.Module, stack []uint64) {
		s := api.DecodeU32(stack[0])
		var n uint32
		mem, st := callerMemory(mod)
		if st == StatusOK {
			var err error
			n, err = e.Wcslen(mem, s)
			st = StatusOf(err)
		}
		e.trace("wcslen", st, s)
		if st != StatusOK {
			stack[0] = api.EncodeI32(-int32(st))
			return
		}
		stack[0] = api.EncodeI32(int32(n))
	}
}

func (e *Env) outputStringFunc() api.GoModuleFunc {
	return func(_ context.Context, mod api.Module, stack []uint64) {
		s := api.DecodeU32(stack[0])
		mem, st := callerMemory(mod)
		if st == StatusOK {
			st = StatusOf(e.OutputString(mem, s))
		}
		e.trace("output_string", st, s)
		stack[0] = api.EncodeI32(int32(st))
	}
}

func (e *Env) testStringFunc() api.GoModuleFunc {
	return func(_ context.Context, mod api.Module, stack []uint64) {
		s := api.DecodeU32(stack[0])
		mem, st := callerMemory(mod)
		if st == StatusOK {
			ok, err := e.TestString(mem, s)
			st = StatusOf(err)
			if st == StatusOK && !ok {
				st = StatusUnsupported
			}
		}
		e.trace("test_string", st, s)
		stack[0] = api.EncodeI32(int32(st))
	}
}

// callerMemory returns the calling module's memory. A guest without one
// faults.
func callerMemory(mod api.Module) (*memory.WazeroMemory, Status) {
	mem := mod.Memory()
	if mem == nil {
		return nil, StatusFault
	}
	return memory.Wazero(mem), StatusOK
}

// outPointer rejects a null result pointer.
func outPointer(out uint32) Status {
	if out == 0 {
		return StatusFault
	}
	return StatusOK
}

func (e *Env) store64(mem *memory.WazeroMemory, out uint32, v int64, err error) Status {
	if st := StatusOf(err); st != StatusOK {
		return st
	}
	if mem.WriteU64(out, uint64(v)) != nil {
		return StatusFault
	}
	return StatusOK
}

func (e *Env) trace(fn string, st Status, s uint32) {
	if st == StatusOK {
		return
	}
	e.logger.Debug("host call failed",
		zap.String("func", fn),
		zap.Stringer("status", st),
		zap.Uint32("ptr", s))
}
