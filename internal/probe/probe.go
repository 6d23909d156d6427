// Package probe assembles small guest modules for exercising the env host
// functions end to end.
package probe

import (
	"encoding/binary"
	"unicode/utf16"

	"github.com/wippyai/wasm-libc/internal/wasmbin"
)

// MessagePtr is where Build places the entry point's message.
const MessagePtr = 1024

// Func is an imported function. An empty Module means "env".
type Func struct {
	Module  string
	Name    string
	Params  []wasmbin.ValType
	Results []wasmbin.ValType
}

func i32s(n int) []wasmbin.ValType {
	out := make([]wasmbin.ValType, n)
	for i := range out {
		out[i] = wasmbin.ValI32
	}
	return out
}

func fn(name string, params int) Func {
	return Func{Name: name, Params: i32s(params), Results: i32s(1)}
}

// EnvImports lists every env function with its guest signature.
var EnvImports = []Func{
	fn("strtol", 3),
	fn("atol", 2),
	fn("atoi", 2),
	fn("mbtowc", 3),
	fn("wcslen", 1),
	fn("output_string", 1),
	fn("test_string", 1),
}

// Guest describes a module to assemble.
type Guest struct {
	Imports []Func

	// Forward exports call_<name> for every import, with the import's
	// signature, passing its arguments straight through.
	Forward bool

	// Pages of exported memory "memory". Zero means no memory at all.
	Pages uint32

	// Message, when set, is stored as a wide string at MessagePtr and an
	// exported Entry function () -> i32 returns output_string's status for it.
	// output_string is imported if Imports lacks it.
	Message string
	Entry   string
}

// Build encodes g.
func Build(g Guest) []byte {
	m := &wasmbin.Module{}

	imports := g.Imports
	outputIdx := -1
	for i, f := range imports {
		if f.Module == "" && f.Name == "output_string" {
			outputIdx = i
		}
	}
	if g.Message != "" && outputIdx < 0 {
		imports = append(append([]Func(nil), imports...), fn("output_string", 1))
		outputIdx = len(imports) - 1
	}

	for _, f := range imports {
		mod := f.Module
		if mod == "" {
			mod = "env"
		}
		m.AddImport(mod, f.Name, wasmbin.FuncType{Params: f.Params, Results: f.Results})
	}

	if g.Pages > 0 {
		m.Memory = &wasmbin.Limits{Min: g.Pages}
		m.Export("memory", wasmbin.KindMemory, 0)
	}

	if g.Forward {
		for i, f := range g.Imports {
			c := wasmbin.NewCode()
			for p := range f.Params {
				c.LocalGet(uint32(p))
			}
			body := c.Call(uint32(i)).End()
			idx := m.AddFunc(wasmbin.FuncType{Params: f.Params, Results: f.Results}, wasmbin.FuncBody{Code: body})
			m.Export("call_"+f.Name, wasmbin.KindFunc, idx)
		}
	}

	if g.Message != "" {
		entry := g.Entry
		if entry == "" {
			entry = "efi_main"
		}
		m.Data = append(m.Data, wasmbin.DataSegment{Offset: MessagePtr, Init: Wide(g.Message)})
		body := wasmbin.NewCode().I32Const(MessagePtr).Call(uint32(outputIdx)).End()
		idx := m.AddFunc(wasmbin.FuncType{Results: i32s(1)}, wasmbin.FuncBody{Code: body})
		m.Export(entry, wasmbin.KindFunc, idx)
	}

	return m.Encode()
}

// Forwarder is a guest with two pages of memory that forwards every env
// function through call_<name>.
func Forwarder() []byte {
	return Build(Guest{Imports: EnvImports, Forward: true, Pages: 2})
}

// Hello is a guest whose efi_main prints message.
func Hello(message string) []byte {
	return Build(Guest{Pages: 1, Message: message})
}

// Wide encodes s as NUL-terminated UTF-16LE.
func Wide(s string) []byte {
	units := utf16.Encode([]rune(s))
	raw := make([]byte, 2*len(units)+2)
	for i, u := range units {
		binary.LittleEndian.PutUint16(raw[2*i:], u)
	}
	return raw
}
