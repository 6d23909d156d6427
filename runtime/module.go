package runtime

import (
	"cmp"
	"context"
	"slices"

	"github.com/google/uuid"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/wasm-libc/errors"
)

// Module is a compiled guest whose imports the runtime serves.
type Module struct {
	runtime   *Runtime
	compiled  wazero.CompiledModule
	hasMemory bool
}

// Func describes an exported or imported function.
type Func struct {
	Module  string // import module, empty for exports
	Name    string
	Params  []api.ValueType
	Results []api.ValueType
}

// Exports lists the module's exported functions, sorted by name.
func (m *Module) Exports() []Func {
	defs := m.compiled.ExportedFunctions()
	out := make([]Func, 0, len(defs))
	for name, def := range defs {
		out = append(out, Func{Name: name, Params: def.ParamTypes(), Results: def.ResultTypes()})
	}
	slices.SortFunc(out, func(a, b Func) int {
		return cmp.Compare(a.Name, b.Name)
	})
	return out
}

// Imports lists the module's function imports in declaration order.
func (m *Module) Imports() []Func {
	defs := m.compiled.ImportedFunctions()
	out := make([]Func, 0, len(defs))
	for _, def := range defs {
		mod, name, _ := def.Import()
		out = append(out, Func{Module: mod, Name: name, Params: def.ParamTypes(), Results: def.ResultTypes()})
	}
	return out
}

// Instantiate creates a fresh instance with its own memory. Start functions
// are not run; use Instance.Run.
func (m *Module) Instantiate(ctx context.Context) (*Instance, error) {
	if !m.hasMemory {
		return nil, errors.NotFound(errors.PhaseRuntime, "memory export", "memory")
	}

	name := "guest-" + uuid.NewString()
	cfg := wazero.NewModuleConfig().
		WithName(name).
		WithStartFunctions()
	if m.runtime.cfg.Stdout != nil {
		cfg = cfg.WithStdout(m.runtime.cfg.Stdout)
	}
	if m.runtime.cfg.Stderr != nil {
		cfg = cfg.WithStderr(m.runtime.cfg.Stderr)
	}

	mod, err := m.runtime.runtime.InstantiateModule(ctx, m.compiled, cfg)
	if err != nil {
		return nil, errors.Instantiation(err)
	}

	Logger().Debug("instance created", zap.String("name", name))

	return &Instance{
		module: m,
		mod:    mod,
		name:   name,
	}, nil
}

// Close releases the compiled code. Open instances stay usable.
func (m *Module) Close(ctx context.Context) error {
	return m.compiled.Close(ctx)
}
