package probe

import (
	"bytes"
	"testing"
)

func TestWide(t *testing.T) {
	got := Wide("A\u20ac")
	want := []byte{'A', 0, 0xAC, 0x20, 0, 0}
	if !bytes.Equal(got, want) {
		t.Errorf("Wide = %x, want %x", got, want)
	}
}

func TestBuild_Header(t *testing.T) {
	for name, bin := range map[string][]byte{
		"forwarder": Forwarder(),
		"hello":     Hello("hi"),
		"empty":     Build(Guest{}),
	} {
		if !bytes.HasPrefix(bin, []byte{0x00, 'a', 's', 'm', 0x01, 0x00, 0x00, 0x00}) {
			t.Errorf("%s: bad header %x", name, bin[:8])
		}
	}
}

func TestBuild_MessageAddsOutputImport(t *testing.T) {
	bin := Build(Guest{Imports: []Func{fn("atol", 2)}, Pages: 1, Message: "x"})
	if !bytes.Contains(bin, []byte("output_string")) {
		t.Error("output_string import missing")
	}
	if !bytes.Contains(bin, []byte("efi_main")) {
		t.Error("efi_main export missing")
	}
	if !bytes.Contains(bin, Wide("x")) {
		t.Error("message data missing")
	}
}
