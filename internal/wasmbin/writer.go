package wasmbin

import "encoding/binary"

// Writer appends encoded values to a growing byte slice. Unsigned LEB128
// is the same byte layout as a Go uvarint.
type Writer struct {
	b []byte
}

func NewWriter() *Writer {
	return &Writer{}
}

// Bytes returns the encoded bytes. The slice aliases the writer's buffer.
func (w *Writer) Bytes() []byte { return w.b }

func (w *Writer) Len() int { return len(w.b) }

func (w *Writer) Byte(b byte) { w.b = append(w.b, b) }

func (w *Writer) WriteBytes(data []byte) { w.b = append(w.b, data...) }

// WriteU32 writes v as unsigned LEB128.
func (w *Writer) WriteU32(v uint32) {
	w.b = binary.AppendUvarint(w.b, uint64(v))
}

// WriteS64 writes v as signed LEB128. Encoding stops once the remaining
// bits are pure sign extension of bit 6 of the last group.
func (w *Writer) WriteS64(v int64) {
	for {
		group := byte(v) & 0x7f
		v >>= 7
		signBit := group&0x40 != 0
		if (v == 0 && !signBit) || (v == -1 && signBit) {
			w.b = append(w.b, group)
			return
		}
		w.b = append(w.b, group|0x80)
	}
}

// WriteName writes a length-prefixed UTF-8 name.
func (w *Writer) WriteName(s string) {
	w.WriteU32(uint32(len(s)))
	w.b = append(w.b, s...)
}

// WriteU32LE writes v as four little-endian bytes.
func (w *Writer) WriteU32LE(v uint32) {
	w.b = binary.LittleEndian.AppendUint32(w.b, v)
}
