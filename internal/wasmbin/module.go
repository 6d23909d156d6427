// Package wasmbin encodes the small core WebAssembly modules this repository
// needs to build itself: probe guests that forward to host imports.
//
// Only the sections such guests use are supported: types, function imports,
// functions, one memory, exports, code and active data segments.
package wasmbin

const (
	Magic   uint32 = 0x6d736100 // "\0asm"
	Version uint32 = 1

	SectionType     byte = 1
	SectionImport   byte = 2
	SectionFunction byte = 3
	SectionMemory   byte = 5
	SectionExport   byte = 7
	SectionCode     byte = 10
	SectionData     byte = 11

	KindFunc   byte = 0x00
	KindMemory byte = 0x02

	FuncTypeByte byte = 0x60
)

// ValType is a core value type.
type ValType byte

const (
	ValI32 ValType = 0x7F
	ValI64 ValType = 0x7E
	ValF32 ValType = 0x7D
	ValF64 ValType = 0x7C
)

func (v ValType) String() string {
	switch v {
	case ValI32:
		return "i32"
	case ValI64:
		return "i64"
	case ValF32:
		return "f32"
	case ValF64:
		return "f64"
	default:
		return "unknown"
	}
}

// FuncType is a function signature.
type FuncType struct {
	Params  []ValType
	Results []ValType
}

// Import is a function import.
type Import struct {
	Module  string
	Name    string
	TypeIdx uint32
}

// Export names a function or memory.
type Export struct {
	Name string
	Kind byte
	Idx  uint32
}

// Limits bounds a memory in 64KiB pages.
type Limits struct {
	Min uint32
	Max *uint32
}

// LocalEntry declares Count locals of one type.
type LocalEntry struct {
	Count   uint32
	ValType ValType
}

// FuncBody is a function body; Code must end with the end opcode.
type FuncBody struct {
	Locals []LocalEntry
	Code   []byte
}

// DataSegment is an active segment in memory 0.
type DataSegment struct {
	Offset uint32
	Init   []byte
}

// Module is an encodable core module.
type Module struct {
	Memory  *Limits
	Types   []FuncType
	Imports []Import
	Funcs   []uint32 // type indices of defined functions
	Exports []Export
	Code    []FuncBody
	Data    []DataSegment
}

// AddType returns the index of ft, adding it if no equal type exists.
func (m *Module) AddType(ft FuncType) uint32 {
	for i, existing := range m.Types {
		if typesEqual(existing, ft) {
			return uint32(i)
		}
	}
	m.Types = append(m.Types, ft)
	return uint32(len(m.Types) - 1)
}

// AddImport adds a function import and returns its function index.
// All imports must be added before any function is defined.
func (m *Module) AddImport(module, name string, ft FuncType) uint32 {
	m.Imports = append(m.Imports, Import{Module: module, Name: name, TypeIdx: m.AddType(ft)})
	return uint32(len(m.Imports) - 1)
}

// AddFunc defines a function and returns its function index.
func (m *Module) AddFunc(ft FuncType, body FuncBody) uint32 {
	m.Funcs = append(m.Funcs, m.AddType(ft))
	m.Code = append(m.Code, body)
	return uint32(len(m.Imports) + len(m.Funcs) - 1)
}

// Export adds an export entry.
func (m *Module) Export(name string, kind byte, idx uint32) {
	m.Exports = append(m.Exports, Export{Name: name, Kind: kind, Idx: idx})
}

func typesEqual(a, b FuncType) bool {
	if len(a.Params) != len(b.Params) || len(a.Results) != len(b.Results) {
		return false
	}
	for i := range a.Params {
		if a.Params[i] != b.Params[i] {
			return false
		}
	}
	for i := range a.Results {
		if a.Results[i] != b.Results[i] {
			return false
		}
	}
	return true
}

// Encode encodes the module to WebAssembly binary format
func (m *Module) Encode() []byte {
	w := NewWriter()

	w.WriteU32LE(Magic)
	w.WriteU32LE(Version)

	if len(m.Types) > 0 {
		sec := NewWriter()
		sec.WriteU32(uint32(len(m.Types)))
		for _, ft := range m.Types {
			sec.Byte(FuncTypeByte)
			writeValTypes(sec, ft.Params)
			writeValTypes(sec, ft.Results)
		}
		writeSection(w, SectionType, sec.Bytes())
	}

	if len(m.Imports) > 0 {
		sec := NewWriter()
		sec.WriteU32(uint32(len(m.Imports)))
		for _, imp := range m.Imports {
			sec.WriteName(imp.Module)
			sec.WriteName(imp.Name)
			sec.Byte(KindFunc)
			sec.WriteU32(imp.TypeIdx)
		}
		writeSection(w, SectionImport, sec.Bytes())
	}

	if len(m.Funcs) > 0 {
		sec := NewWriter()
		sec.WriteU32(uint32(len(m.Funcs)))
		for _, typeIdx := range m.Funcs {
			sec.WriteU32(typeIdx)
		}
		writeSection(w, SectionFunction, sec.Bytes())
	}

	if m.Memory != nil {
		sec := NewWriter()
		sec.WriteU32(1)
		writeLimits(sec, *m.Memory)
		writeSection(w, SectionMemory, sec.Bytes())
	}

	if len(m.Exports) > 0 {
		sec := NewWriter()
		sec.WriteU32(uint32(len(m.Exports)))
		for _, exp := range m.Exports {
			sec.WriteName(exp.Name)
			sec.Byte(exp.Kind)
			sec.WriteU32(exp.Idx)
		}
		writeSection(w, SectionExport, sec.Bytes())
	}

	if len(m.Code) > 0 {
		sec := NewWriter()
		sec.WriteU32(uint32(len(m.Code)))
		for _, body := range m.Code {
			bodyBuf := NewWriter()
			bodyBuf.WriteU32(uint32(len(body.Locals)))
			for _, local := range body.Locals {
				bodyBuf.WriteU32(local.Count)
				bodyBuf.Byte(byte(local.ValType))
			}
			bodyBuf.WriteBytes(body.Code)
			sec.WriteU32(uint32(bodyBuf.Len()))
			sec.WriteBytes(bodyBuf.Bytes())
		}
		writeSection(w, SectionCode, sec.Bytes())
	}

	if len(m.Data) > 0 {
		sec := NewWriter()
		sec.WriteU32(uint32(len(m.Data)))
		for _, d := range m.Data {
			sec.WriteU32(0) // active, memory 0
			sec.Byte(OpI32Const)
			sec.WriteS64(int64(int32(d.Offset)))
			sec.Byte(OpEnd)
			sec.WriteU32(uint32(len(d.Init)))
			sec.WriteBytes(d.Init)
		}
		writeSection(w, SectionData, sec.Bytes())
	}

	return w.Bytes()
}

func writeSection(w *Writer, id byte, data []byte) {
	w.Byte(id)
	w.WriteU32(uint32(len(data)))
	w.WriteBytes(data)
}

func writeValTypes(w *Writer, types []ValType) {
	w.WriteU32(uint32(len(types)))
	for _, t := range types {
		w.Byte(byte(t))
	}
}

func writeLimits(w *Writer, l Limits) {
	if l.Max != nil {
		w.Byte(0x01)
		w.WriteU32(l.Min)
		w.WriteU32(*l.Max)
		return
	}
	w.Byte(0x00)
	w.WriteU32(l.Min)
}
