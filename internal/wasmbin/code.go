package wasmbin

// Opcodes used by generated bodies.
const (
	OpEnd      byte = 0x0B
	OpCall     byte = 0x10
	OpDrop     byte = 0x1A
	OpLocalGet byte = 0x20
	OpI32Load  byte = 0x28
	OpI64Load  byte = 0x29
	OpI32Const byte = 0x41
	OpI64Const byte = 0x42
)

// Code assembles a function body.
type Code struct {
	w *Writer
}

// NewCode starts an empty body.
func NewCode() *Code {
	return &Code{w: NewWriter()}
}

func (c *Code) LocalGet(idx uint32) *Code {
	c.w.Byte(OpLocalGet)
	c.w.WriteU32(idx)
	return c
}

func (c *Code) I32Const(v int32) *Code {
	c.w.Byte(OpI32Const)
	c.w.WriteS64(int64(v))
	return c
}

func (c *Code) I64Const(v int64) *Code {
	c.w.Byte(OpI64Const)
	c.w.WriteS64(v)
	return c
}

func (c *Code) Call(funcIdx uint32) *Code {
	c.w.Byte(OpCall)
	c.w.WriteU32(funcIdx)
	return c
}

func (c *Code) Drop() *Code {
	c.w.Byte(OpDrop)
	return c
}

// I32Load loads from the address on the stack plus offset, 4-byte aligned.
func (c *Code) I32Load(offset uint32) *Code {
	c.w.Byte(OpI32Load)
	c.w.WriteU32(2)
	c.w.WriteU32(offset)
	return c
}

// I64Load loads from the address on the stack plus offset, 8-byte aligned.
func (c *Code) I64Load(offset uint32) *Code {
	c.w.Byte(OpI64Load)
	c.w.WriteU32(3)
	c.w.WriteU32(offset)
	return c
}

// End terminates the body and returns its bytes.
func (c *Code) End() []byte {
	c.w.Byte(OpEnd)
	return c.w.Bytes()
}
