package bytecode

import "encoding/binary"

// MaxConstants is the size of a chunk's addressable constant pool.
// OpConstant and the global opcodes carry a single-byte index.
const MaxConstants = 256

// MaxJump is the largest distance a 16-bit jump operand can encode.
const MaxJump = 0xFFFF

// Chunk represents compiled bytecode for one function.
// Code and Lines are parallel: Lines[i] is the source line of Code[i].
type Chunk struct {
	Code      []byte  // Bytecode instructions and operands
	Lines     []int   // Source line for every byte in Code
	Constants []Value // Constant pool referenced by index
}

// NewChunk creates a new empty chunk.
func NewChunk() *Chunk {
	return &Chunk{
		Code:      make([]byte, 0, 64),
		Lines:     make([]int, 0, 64),
		Constants: make([]Value, 0, 8),
	}
}

// Write appends a single byte and records the line it came from.
func (c *Chunk) Write(b byte, line int) int {
	offset := len(c.Code)
	c.Code = append(c.Code, b)
	c.Lines = append(c.Lines, line)
	return offset
}

// WriteOp appends an opcode.
func (c *Chunk) WriteOp(op Opcode, line int) int {
	return c.Write(byte(op), line)
}

// AddConstant appends a value to the pool and returns its index.
// Callers must check the index against MaxConstants before encoding it.
func (c *Chunk) AddConstant(v Value) int {
	c.Constants = append(c.Constants, v)
	return len(c.Constants) - 1
}

// Constant returns the constant at the given index.
// Panics if the index is out of bounds.
func (c *Chunk) Constant(index byte) Value {
	return c.Constants[index]
}

// Line returns the source line for the byte at offset, or 0 when out of range.
func (c *Chunk) Line(offset int) int {
	if offset < 0 || offset >= len(c.Lines) {
		return 0
	}
	return c.Lines[offset]
}

// ReadUint16 decodes a big-endian jump operand starting at offset.
func (c *Chunk) ReadUint16(offset int) uint16 {
	return binary.BigEndian.Uint16(c.Code[offset:])
}

// PutUint16 overwrites two bytes at offset with a big-endian operand.
// Used to backpatch jump placeholders once the target is known.
func (c *Chunk) PutUint16(offset int, v uint16) {
	binary.BigEndian.PutUint16(c.Code[offset:], v)
}

// CodeLen returns the length of the code section.
func (c *Chunk) CodeLen() int {
	return len(c.Code)
}

// ConstantCount returns the number of constants in the pool.
func (c *Chunk) ConstantCount() int {
	return len(c.Constants)
}
