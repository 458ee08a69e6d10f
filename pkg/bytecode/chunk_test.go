package bytecode

import "testing"

func TestNewChunk(t *testing.T) {
	c := NewChunk()

	if c.CodeLen() != 0 {
		t.Errorf("CodeLen() = %d, want 0", c.CodeLen())
	}
	if c.ConstantCount() != 0 {
		t.Errorf("ConstantCount() = %d, want 0", c.ConstantCount())
	}
}

func TestChunkWrite(t *testing.T) {
	c := NewChunk()

	off0 := c.WriteOp(OpNil, 1)
	off1 := c.WriteOp(OpPrint, 1)
	off2 := c.WriteOp(OpReturn, 2)

	if off0 != 0 || off1 != 1 || off2 != 2 {
		t.Errorf("offsets = %d, %d, %d, want 0, 1, 2", off0, off1, off2)
	}
	if len(c.Code) != len(c.Lines) {
		t.Fatalf("len(Code) = %d, len(Lines) = %d, want equal", len(c.Code), len(c.Lines))
	}
	if c.Line(2) != 2 {
		t.Errorf("Line(2) = %d, want 2", c.Line(2))
	}
}

func TestChunkLineOutOfRange(t *testing.T) {
	c := NewChunk()
	c.WriteOp(OpNil, 7)

	if got := c.Line(-1); got != 0 {
		t.Errorf("Line(-1) = %d, want 0", got)
	}
	if got := c.Line(1); got != 0 {
		t.Errorf("Line(1) = %d, want 0", got)
	}
}

func TestChunkAddConstant(t *testing.T) {
	c := NewChunk()

	idx0 := c.AddConstant(NumberValue(1.5))
	idx1 := c.AddConstant(NumberValue(1.5))
	if idx0 != 0 || idx1 != 1 {
		t.Errorf("indices = %d, %d, want 0, 1 (no dedup)", idx0, idx1)
	}
	if got := c.Constant(1); !got.Equal(NumberValue(1.5)) {
		t.Errorf("Constant(1) = %v, want 1.5", got.Number())
	}
}

func TestChunkJumpOperand(t *testing.T) {
	c := NewChunk()
	c.WriteOp(OpJump, 1)
	c.Write(0xFF, 1)
	c.Write(0xFF, 1)

	c.PutUint16(1, 0x1234)

	if c.Code[1] != 0x12 || c.Code[2] != 0x34 {
		t.Errorf("operand bytes = %#x %#x, want big-endian 0x12 0x34", c.Code[1], c.Code[2])
	}
	if got := c.ReadUint16(1); got != 0x1234 {
		t.Errorf("ReadUint16(1) = %#x, want 0x1234", got)
	}
}
