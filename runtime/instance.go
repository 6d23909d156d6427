package runtime

import (
	"context"
	stderrors "errors"
	"slices"
	"strings"

	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/sys"
	"go.uber.org/zap"

	"github.com/wippyai/wasm-libc/errors"
	"github.com/wippyai/wasm-libc/memory"
)

// EntryPoints are tried in order by Run.
var EntryPoints = []string{"efi_main", "_start", "main"}

// Instance is a running guest. It is not safe for concurrent use.
type Instance struct {
	module *Module
	mod    api.Module
	name   string
}

// Name returns the unique module name the instance was registered under.
func (i *Instance) Name() string {
	return i.name
}

// Memory returns the instance's linear memory.
func (i *Instance) Memory() *memory.WazeroMemory {
	return memory.Wazero(i.mod.Memory())
}

// Call invokes an exported function with raw core values.
func (i *Instance) Call(ctx context.Context, name string, params ...uint64) ([]uint64, error) {
	fn := i.mod.ExportedFunction(name)
	if fn == nil {
		return nil, errors.NotFound(errors.PhaseRuntime, "function", name)
	}
	if want := len(fn.Definition().ParamTypes()); want != len(params) {
		return nil, errors.New(errors.PhaseRuntime, errors.KindInvalidArgument).
			Func(name).
			Detail("expected %d arguments, got %d", want, len(params)).
			Build()
	}

	results, err := fn.Call(ctx, params...)
	if err != nil {
		return nil, errors.New(errors.PhaseRuntime, errors.KindInvalidData).
			Func(name).
			Detail("call failed").
			Cause(err).
			Build()
	}
	return results, nil
}

// Run calls the first entry point the guest exports, passing zero for any
// parameters, and returns its result as an exit code. A guest that exits
// through WASI proc_exit reports that code instead.
func (i *Instance) Run(ctx context.Context) (int64, error) {
	entry := i.Entry()
	if entry == "" {
		return 0, errors.NotFound(errors.PhaseRuntime, "entry point", strings.Join(EntryPoints, ", "))
	}

	fn := i.mod.ExportedFunction(entry)
	def := fn.Definition()
	params := make([]uint64, len(def.ParamTypes()))

	Logger().Debug("running entry point", zap.String("instance", i.name), zap.String("entry", entry))

	results, err := fn.Call(ctx, params...)
	if err != nil {
		var exit *sys.ExitError
		if stderrors.As(err, &exit) {
			return int64(exit.ExitCode()), nil
		}
		return 0, errors.New(errors.PhaseRuntime, errors.KindInvalidData).
			Func(entry).
			Detail("entry point trapped").
			Cause(err).
			Build()
	}
	if len(results) == 0 {
		return 0, nil
	}
	if def.ResultTypes()[0] == api.ValueTypeI32 {
		return int64(api.DecodeI32(results[0])), nil
	}
	return int64(results[0]), nil
}

// Entry returns the entry point Run would call, or "".
func (i *Instance) Entry() string {
	exported := i.module.compiled.ExportedFunctions()
	idx := slices.IndexFunc(EntryPoints, func(name string) bool {
		_, ok := exported[name]
		return ok
	})
	if idx < 0 {
		return ""
	}
	return EntryPoints[idx]
}

func (i *Instance) Close(ctx context.Context) error {
	return i.mod.Close(ctx)
}
