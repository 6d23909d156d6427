// Package runtime loads and runs freestanding WebAssembly guests against the
// env host services.
//
// # Quick Start
//
//	ctx := context.Background()
//	env := host.NewEnv(host.WithConsole(console.New(os.Stdout)))
//	rt, err := runtime.New(ctx, nil, env)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer rt.Close(ctx)
//
//	mod, err := rt.LoadModule(ctx, wasmBytes)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	inst, err := mod.Instantiate(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer inst.Close(ctx)
//
//	code, err := inst.Run(ctx)
//
// # Imports
//
// LoadModule rejects a guest before instantiation when it imports something
// the runtime does not serve. Every unresolved import is reported at once in
// an errors.MissingImportsError; an env import with the wrong core signature
// fails with KindTypeMismatch.
//
// With Config.EnableWASI, wasi_snapshot_preview1 is served as well, for guests
// whose toolchain still routes exit or stdio through WASI.
//
// # Entry Points
//
// Run calls the first of efi_main, _start and main that the guest exports.
// Parameters are passed as zero. An i32 result is sign-extended into the
// returned code.
//
// # Thread Safety
//
// Runtime and Module are safe for concurrent use. You can call
// Module.Instantiate() from multiple goroutines concurrently.
//
// Instance is NOT thread-safe. Each goroutine should have its own
// Instance, or access must be synchronized externally.
//
// # Resource Management
//
// Always close instances when done. Closing the Runtime closes every
// instance it created.
package runtime
