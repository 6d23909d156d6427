package runtime

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/goleak"

	"github.com/wippyai/wasm-libc/console"
	"github.com/wippyai/wasm-libc/errors"
	"github.com/wippyai/wasm-libc/host"
	"github.com/wippyai/wasm-libc/internal/probe"
	"github.com/wippyai/wasm-libc/internal/wasmbin"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newRuntime(t *testing.T, cfg *Config, env *host.Env) *Runtime {
	t.Helper()
	ctx := context.Background()
	rt, err := New(ctx, cfg, env)
	require.NoError(t, err)
	t.Cleanup(func() { rt.Close(ctx) })
	return rt
}

func TestRun_Hello(t *testing.T) {
	ctx := context.Background()
	var out bytes.Buffer
	rt := newRuntime(t, nil, host.NewEnv(host.WithConsole(console.New(&out))))

	mod, err := rt.LoadModule(ctx, probe.Hello("Hello, World!\r\n"))
	require.NoError(t, err)
	defer mod.Close(ctx)

	inst, err := mod.Instantiate(ctx)
	require.NoError(t, err)
	defer inst.Close(ctx)

	assert.Equal(t, "efi_main", inst.Entry())
	code, err := inst.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(host.StatusOK), code)
	assert.Equal(t, "Hello, World!\r\n", out.String())
}

func TestRun_EntryOrder(t *testing.T) {
	ctx := context.Background()
	rt := newRuntime(t, nil, nil)

	mod, err := rt.LoadModule(ctx, probe.Build(probe.Guest{Pages: 1, Message: "x", Entry: "main"}))
	require.NoError(t, err)
	inst, err := mod.Instantiate(ctx)
	require.NoError(t, err)
	assert.Equal(t, "main", inst.Entry())

	mod, err = rt.LoadModule(ctx, probe.Forwarder())
	require.NoError(t, err)
	inst, err = mod.Instantiate(ctx)
	require.NoError(t, err)
	assert.Equal(t, "", inst.Entry())

	_, err = inst.Run(ctx)
	assert.Equal(t, errors.KindNotFound, errors.KindOf(err))
}

func TestCall_Forwarded(t *testing.T) {
	ctx := context.Background()
	rt := newRuntime(t, nil, nil)

	mod, err := rt.LoadModule(ctx, probe.Forwarder())
	require.NoError(t, err)
	inst, err := mod.Instantiate(ctx)
	require.NoError(t, err)

	mem := inst.Memory()
	require.NoError(t, mem.Write(0x200, probe.Wide("-0x10")))

	res, err := inst.Call(ctx, "call_atol", 0x200, 0x100)
	require.NoError(t, err)
	assert.Equal(t, int32(host.StatusOK), api.DecodeI32(res[0]))

	v, err := mem.ReadU64(0x100)
	require.NoError(t, err)
	assert.Equal(t, int64(-16), int64(v))

	_, err = inst.Call(ctx, "call_atol", 0x200)
	assert.Equal(t, errors.KindInvalidArgument, errors.KindOf(err))

	_, err = inst.Call(ctx, "nope")
	assert.Equal(t, errors.KindNotFound, errors.KindOf(err))
}

func TestCall_LegacyPrefixScan(t *testing.T) {
	ctx := context.Background()
	rt := newRuntime(t, nil, host.NewEnv(host.WithLegacyPrefixScan(true)))

	mod, err := rt.LoadModule(ctx, probe.Forwarder())
	require.NoError(t, err)
	inst, err := mod.Instantiate(ctx)
	require.NoError(t, err)

	require.NoError(t, inst.Memory().Write(0x200, probe.Wide("10x5")))
	res, err := inst.Call(ctx, "call_atoi", 0x200, 0x100)
	require.NoError(t, err)
	require.Equal(t, int32(host.StatusOK), api.DecodeI32(res[0]))

	v, err := inst.Memory().ReadU32(0x100)
	require.NoError(t, err)
	assert.Equal(t, uint32(5), v)
}

func TestInstantiate_UniqueNames(t *testing.T) {
	ctx := context.Background()
	rt := newRuntime(t, nil, nil)

	mod, err := rt.LoadModule(ctx, probe.Forwarder())
	require.NoError(t, err)

	a, err := mod.Instantiate(ctx)
	require.NoError(t, err)
	b, err := mod.Instantiate(ctx)
	require.NoError(t, err)

	assert.NotEqual(t, a.Name(), b.Name())
	assert.Contains(t, a.Name(), "guest-")

	// instances do not share memory
	require.NoError(t, a.Memory().WriteU32(0x10, 7))
	v, err := b.Memory().ReadU32(0x10)
	require.NoError(t, err)
	assert.Zero(t, v)
}

func TestInstantiate_NoMemory(t *testing.T) {
	ctx := context.Background()
	rt := newRuntime(t, nil, nil)

	mod, err := rt.LoadModule(ctx, probe.Build(probe.Guest{Imports: probe.EnvImports[:1], Forward: true}))
	require.NoError(t, err)

	_, err = mod.Instantiate(ctx)
	assert.Equal(t, errors.KindNotFound, errors.KindOf(err))
}

func TestLoadModule_MissingImports(t *testing.T) {
	ctx := context.Background()
	rt := newRuntime(t, nil, nil)

	guest := probe.Build(probe.Guest{
		Pages: 1,
		Imports: []probe.Func{
			{Name: "printf", Params: []wasmbin.ValType{wasmbin.ValI32}},
			{Name: "atol", Params: []wasmbin.ValType{wasmbin.ValI32, wasmbin.ValI32}, Results: []wasmbin.ValType{wasmbin.ValI32}},
			{Module: "wasi_snapshot_preview1", Name: "fd_write", Params: []wasmbin.ValType{wasmbin.ValI32, wasmbin.ValI32, wasmbin.ValI32, wasmbin.ValI32}, Results: []wasmbin.ValType{wasmbin.ValI32}},
		},
	})

	_, err := rt.LoadModule(ctx, guest)
	var missing *errors.MissingImportsError
	require.ErrorAs(t, err, &missing)
	require.Len(t, missing.Imports, 2)
	assert.Equal(t, "printf", missing.Imports[0].Function)
	assert.Equal(t, "wasi_snapshot_preview1", missing.Imports[1].Namespace)

	withWASI := newRuntime(t, &Config{EnableWASI: true}, nil)
	_, err = withWASI.LoadModule(ctx, guest)
	require.ErrorAs(t, err, &missing)
	assert.Len(t, missing.Imports, 1)
}

func TestLoadModule_TypeMismatch(t *testing.T) {
	ctx := context.Background()
	rt := newRuntime(t, nil, nil)

	guest := probe.Build(probe.Guest{
		Pages: 1,
		Imports: []probe.Func{
			{Name: "strtol", Params: []wasmbin.ValType{wasmbin.ValI32, wasmbin.ValI32}, Results: []wasmbin.ValType{wasmbin.ValI64}},
		},
	})

	_, err := rt.LoadModule(ctx, guest)
	require.Error(t, err)
	assert.Equal(t, errors.KindTypeMismatch, errors.KindOf(err))
	assert.Contains(t, err.Error(), "(i32, i32, i32) -> (i32)")
}

func TestLoadModule_Invalid(t *testing.T) {
	rt := newRuntime(t, nil, nil)
	_, err := rt.LoadModule(context.Background(), []byte("not wasm"))
	require.Error(t, err)
}

func TestRun_ProcExit(t *testing.T) {
	ctx := context.Background()
	rt := newRuntime(t, &Config{EnableWASI: true}, nil)

	m := &wasmbin.Module{Memory: &wasmbin.Limits{Min: 1}}
	exit := m.AddImport("wasi_snapshot_preview1", "proc_exit", wasmbin.FuncType{Params: []wasmbin.ValType{wasmbin.ValI32}})
	start := m.AddFunc(wasmbin.FuncType{}, wasmbin.FuncBody{Code: wasmbin.NewCode().I32Const(3).Call(exit).End()})
	m.Export("memory", wasmbin.KindMemory, 0)
	m.Export("_start", wasmbin.KindFunc, start)

	mod, err := rt.LoadModule(ctx, m.Encode())
	require.NoError(t, err)
	inst, err := mod.Instantiate(ctx)
	require.NoError(t, err)

	code, err := inst.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), code)
}

func TestModule_Listings(t *testing.T) {
	ctx := context.Background()
	rt := newRuntime(t, nil, nil)

	mod, err := rt.LoadModule(ctx, probe.Forwarder())
	require.NoError(t, err)

	imports := mod.Imports()
	require.Len(t, imports, len(probe.EnvImports))
	assert.Equal(t, "env", imports[0].Module)
	assert.Equal(t, "strtol", imports[0].Name)

	var names []string
	for _, f := range mod.Exports() {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{
		"call_atoi", "call_atol", "call_mbtowc", "call_output_string",
		"call_strtol", "call_test_string", "call_wcslen",
	}, names)
}
