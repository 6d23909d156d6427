package memory

import (
	"encoding/binary"
	"fmt"

	wasmlibc "github.com/wippyai/wasm-libc"
)

var (
	_ wasmlibc.Memory      = (*Buffer)(nil)
	_ wasmlibc.MemorySizer = (*Buffer)(nil)
)

// Buffer is a Memory backed by a byte slice. Offset 0 is reserved as the null
// pointer, so Put never places data there.
type Buffer struct {
	data []byte
	next uint32
}

// NewBuffer returns a zeroed Buffer of size bytes.
func NewBuffer(size uint32) *Buffer {
	return &Buffer{data: make([]byte, size), next: 8}
}

// Bytes returns the backing slice.
func (b *Buffer) Bytes() []byte {
	return b.data
}

func (b *Buffer) Size() uint32 {
	return uint32(len(b.data))
}

// Put copies data into the next free, 8-byte aligned region and returns its
// offset.
func (b *Buffer) Put(data []byte) (uint32, error) {
	ptr := b.next
	if err := b.Write(ptr, data); err != nil {
		return 0, err
	}
	b.next = (ptr + uint32(len(data)) + 7) &^ 7
	return ptr, nil
}

// PutWide stores units as little-endian code units followed by a NUL unit.
func (b *Buffer) PutWide(units []uint16) (uint32, error) {
	raw := make([]byte, 2*len(units)+2)
	for i, u := range units {
		binary.LittleEndian.PutUint16(raw[2*i:], u)
	}
	return b.Put(raw)
}

// Alloc reserves n zeroed bytes and returns their offset.
func (b *Buffer) Alloc(n uint32) (uint32, error) {
	return b.Put(make([]byte, n))
}

func (b *Buffer) bounds(offset, length uint32) error {
	if uint64(offset)+uint64(length) > uint64(len(b.data)) {
		return fmt.Errorf("out of bounds: offset=%d, length=%d, size=%d", offset, length, len(b.data))
	}
	return nil
}

func (b *Buffer) Read(offset uint32, length uint32) ([]byte, error) {
	if err := b.bounds(offset, length); err != nil {
		return nil, err
	}
	return b.data[offset : offset+length], nil
}

func (b *Buffer) Write(offset uint32, data []byte) error {
	if err := b.bounds(offset, uint32(len(data))); err != nil {
		return err
	}
	copy(b.data[offset:], data)
	return nil
}

func (b *Buffer) ReadU8(offset uint32) (uint8, error) {
	if err := b.bounds(offset, 1); err != nil {
		return 0, err
	}
	return b.data[offset], nil
}

func (b *Buffer) ReadU16(offset uint32) (uint16, error) {
	if err := b.bounds(offset, 2); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b.data[offset:]), nil
}

func (b *Buffer) ReadU32(offset uint32) (uint32, error) {
	if err := b.bounds(offset, 4); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b.data[offset:]), nil
}

func (b *Buffer) ReadU64(offset uint32) (uint64, error) {
	if err := b.bounds(offset, 8); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b.data[offset:]), nil
}

func (b *Buffer) WriteU8(offset uint32, value uint8) error {
	if err := b.bounds(offset, 1); err != nil {
		return err
	}
	b.data[offset] = value
	return nil
}

func (b *Buffer) WriteU16(offset uint32, value uint16) error {
	if err := b.bounds(offset, 2); err != nil {
		return err
	}
	binary.LittleEndian.PutUint16(b.data[offset:], value)
	return nil
}

func (b *Buffer) WriteU32(offset uint32, value uint32) error {
	if err := b.bounds(offset, 4); err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(b.data[offset:], value)
	return nil
}

func (b *Buffer) WriteU64(offset uint32, value uint64) error {
	if err := b.bounds(offset, 8); err != nil {
		return err
	}
	binary.LittleEndian.PutUint64(b.data[offset:], value)
	return nil
}
