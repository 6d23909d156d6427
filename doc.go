// Package wasmlibc provides the numeric and text conversion services a
// freestanding program normally gets from its C library, implemented on the
// host side for WebAssembly guests that ship without one.
//
// A freestanding guest owns nothing but its linear memory. It passes raw,
// NUL-terminated strings to its platform and expects integers or decoded
// characters back. This module supplies both halves: a pure conversion core
// and the platform layer that feeds it bounded slices.
//
// # Architecture Overview
//
//	wasmlibc/          Root package with the Memory and MemorySizer interfaces
//	├── wide/          Wide-string (UTF-16) numeric parsing: strtol, atol, atoi
//	├── multibyte/     Single-scalar UTF-8 to UTF-16 decoding: mbtowc
//	├── memory/        Bounded-slice discovery over guest memory, wazero adapter
//	├── console/       Text output service for wide strings
//	├── host/          Host context (Env) and the "env" import module
//	├── runtime/       Guest loading and execution on wazero
//	├── config/        YAML configuration for the CLI
//	├── errors/        Structured error types
//	└── cmd/wlibc/     Command line runner and inspection tools
//
// # Quick Start
//
// Parse a wide string directly:
//
//	v, err := wide.Atol(utf16.Encode([]rune("0x1A3F")))
//	// v == 6719
//
// Run a guest against the host services:
//
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
// # Thread Safety
//
// The conversion core is pure and safe for concurrent use. Runtime and Module
// are safe for concurrent use. Instance is NOT thread-safe and should be used
// by a single goroutine, or access must be synchronized.
package wasmlibc
