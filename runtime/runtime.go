package runtime

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/wasm-libc/errors"
	"github.com/wippyai/wasm-libc/host"
)

// Config holds configuration for runtime creation
type Config struct {
	// Stdout and Stderr receive WASI output. Nil discards it.
	Stdout io.Writer
	Stderr io.Writer

	// MemoryLimitPages sets the maximum memory per instance in pages (64KB each).
	// 0 means default (65536 pages = 4GB).
	MemoryLimitPages uint32

	// EnableWASI serves wasi_snapshot_preview1 imports next to env.
	EnableWASI bool
}

type Runtime struct {
	runtime wazero.Runtime
	env     *host.Env
	cfg     Config
}

// New creates a runtime whose guests are served from env. A nil cfg uses
// defaults; a nil env uses host.NewEnv().
func New(ctx context.Context, cfg *Config, env *host.Env) (*Runtime, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	if env == nil {
		env = host.NewEnv()
	}

	runtimeCfg := wazero.NewRuntimeConfig()
	if cfg.MemoryLimitPages > 0 {
		runtimeCfg = runtimeCfg.WithMemoryLimitPages(cfg.MemoryLimitPages)
	}
	r := wazero.NewRuntimeWithConfig(ctx, runtimeCfg)

	if _, err := host.Instantiate(ctx, r, env); err != nil {
		r.Close(ctx)
		return nil, err
	}

	if cfg.EnableWASI {
		if _, err := instantiateWASI(ctx, r); err != nil {
			r.Close(ctx)
			return nil, errors.Registration(errors.PhaseHost, wasiModuleName, "*", err)
		}
	}

	Logger().Debug("runtime created",
		zap.Uint32("memory_limit_pages", cfg.MemoryLimitPages),
		zap.Bool("wasi", cfg.EnableWASI))

	return &Runtime{runtime: r, env: env, cfg: *cfg}, nil
}

// Env returns the host context guests are served from.
func (r *Runtime) Env() *host.Env {
	return r.env
}

// Close releases all runtime resources, including every open instance.
func (r *Runtime) Close(ctx context.Context) error {
	return r.runtime.Close(ctx)
}

// LoadModule compiles a core WebAssembly module and checks that the runtime
// serves each of its function imports with a matching signature.
func (r *Runtime) LoadModule(ctx context.Context, wasm []byte) (*Module, error) {
	compiled, err := r.runtime.CompileModule(ctx, wasm)
	if err != nil {
		return nil, errors.Load("compile module", err)
	}

	if err := r.checkImports(compiled); err != nil {
		compiled.Close(ctx)
		return nil, err
	}

	Logger().Debug("module loaded",
		zap.Int("imports", len(compiled.ImportedFunctions())),
		zap.Int("exports", len(compiled.ExportedFunctions())))

	return &Module{
		runtime:   r,
		compiled:  compiled,
		hasMemory: len(compiled.ExportedMemories()) > 0,
	}, nil
}

func (r *Runtime) checkImports(compiled wazero.CompiledModule) error {
	var missing []string
	for _, fn := range compiled.ImportedFunctions() {
		modName, name, _ := fn.Import()
		switch {
		case modName == host.ModuleName:
			ex, ok := host.Lookup(name)
			if !ok {
				missing = append(missing, modName+"#"+name)
				continue
			}
			if !sameTypes(ex.Params, fn.ParamTypes()) || !sameTypes(ex.Results, fn.ResultTypes()) {
				return errors.TypeMismatch(errors.PhaseLoad, []string{modName, name},
					signature(ex.Params, ex.Results), signature(fn.ParamTypes(), fn.ResultTypes()))
			}
		case modName == wasiModuleName && r.cfg.EnableWASI:
			// wazero checks these during instantiation
		default:
			missing = append(missing, modName+"#"+name)
		}
	}
	if len(missing) > 0 {
		return errors.NewMissingImportsError(missing)
	}
	return nil
}

func sameTypes(a, b []api.ValueType) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// signature formats a core signature, e.g. "(i32, i32) -> i32".
func signature(params, results []api.ValueType) string {
	return fmt.Sprintf("(%s) -> (%s)", typeList(params), typeList(results))
}

func typeList(types []api.ValueType) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = api.ValueTypeName(t)
	}
	return strings.Join(names, ", ")
}
