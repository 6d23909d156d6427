package wasmbin

import (
	"bytes"
	"testing"
)

func TestWriter_LEB128(t *testing.T) {
	tests := []struct {
		name string
		fn   func(w *Writer)
		want []byte
	}{
		{"u32 zero", func(w *Writer) { w.WriteU32(0) }, []byte{0x00}},
		{"u32 127", func(w *Writer) { w.WriteU32(127) }, []byte{0x7f}},
		{"u32 128", func(w *Writer) { w.WriteU32(128) }, []byte{0x80, 0x01}},
		{"u32 624485", func(w *Writer) { w.WriteU32(624485) }, []byte{0xe5, 0x8e, 0x26}},
		{"s64 -1", func(w *Writer) { w.WriteS64(-1) }, []byte{0x7f}},
		{"s64 63", func(w *Writer) { w.WriteS64(63) }, []byte{0x3f}},
		{"s64 64", func(w *Writer) { w.WriteS64(64) }, []byte{0xc0, 0x00}},
		{"s64 -123456", func(w *Writer) { w.WriteS64(-123456) }, []byte{0xc0, 0xbb, 0x78}},
		{"name", func(w *Writer) { w.WriteName("env") }, []byte{0x03, 'e', 'n', 'v'}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWriter()
			tt.fn(w)
			if !bytes.Equal(w.Bytes(), tt.want) {
				t.Errorf("got %x, want %x", w.Bytes(), tt.want)
			}
		})
	}
}

func TestEncode_MemoryOnly(t *testing.T) {
	m := &Module{Memory: &Limits{Min: 1}}
	m.Export("memory", KindMemory, 0)

	want := []byte{
		0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
		0x05, 0x03, 0x01, 0x00, 0x01,
		0x07, 0x0a, 0x01, 0x06, 'm', 'e', 'm', 'o', 'r', 'y', 0x02, 0x00,
	}
	if got := m.Encode(); !bytes.Equal(got, want) {
		t.Errorf("Encode() = %x\nwant        %x", got, want)
	}
}

func TestModule_Indices(t *testing.T) {
	m := &Module{}
	sig := FuncType{Params: []ValType{ValI32}, Results: []ValType{ValI32}}

	imp0 := m.AddImport("env", "wcslen", sig)
	imp1 := m.AddImport("env", "output_string", sig)
	fn := m.AddFunc(sig, FuncBody{Code: NewCode().LocalGet(0).Call(imp0).End()})

	if imp0 != 0 || imp1 != 1 || fn != 2 {
		t.Errorf("indices = %d, %d, %d; want 0, 1, 2", imp0, imp1, fn)
	}
	if len(m.Types) != 1 {
		t.Errorf("types = %d, want 1 (deduplicated)", len(m.Types))
	}
}

func TestCode(t *testing.T) {
	got := NewCode().LocalGet(1).I32Const(-1).I64Const(5).Call(3).Drop().End()
	want := []byte{OpLocalGet, 0x01, OpI32Const, 0x7f, OpI64Const, 0x05, OpCall, 0x03, OpDrop, OpEnd}
	if !bytes.Equal(got, want) {
		t.Errorf("got %x, want %x", got, want)
	}
}

func TestValType_String(t *testing.T) {
	if ValI32.String() != "i32" || ValI64.String() != "i64" || ValType(0).String() != "unknown" {
		t.Error("unexpected ValType names")
	}
}
