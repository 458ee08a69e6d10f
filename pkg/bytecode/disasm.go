package bytecode

import (
	"fmt"
	"io"
	"strings"
)

// DisassembleChunk writes a human-readable listing of the chunk under a
// "== name ==" header.
func DisassembleChunk(w io.Writer, c *Chunk, name string, heap *Heap) {
	fmt.Fprintf(w, "== %s ==\n", name)
	for offset := 0; offset < len(c.Code); {
		line, next := DisassembleInstruction(c, offset, heap)
		fmt.Fprintln(w, line)
		offset = next
	}
}

// DisassembleFunction lists fn and, after it, every function found in its
// constant pool, depth first.
func DisassembleFunction(w io.Writer, fn *Function, heap *Heap) {
	name := fn.Name
	if fn.IsScript() {
		name = "<script>"
	}
	DisassembleChunk(w, fn.Chunk, name, heap)
	for _, v := range fn.Chunk.Constants {
		if !v.IsObject() {
			continue
		}
		if nested, ok := heap.Function(v.Object()); ok {
			DisassembleFunction(w, nested, heap)
		}
	}
}

// DisassembleInstruction renders the instruction at offset and returns the
// offset of the next instruction. The heap may be nil, in which case
// object constants are shown by handle.
func DisassembleInstruction(c *Chunk, offset int, heap *Heap) (string, int) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%04d ", offset)
	if offset > 0 && c.Line(offset) == c.Line(offset-1) {
		sb.WriteString("   | ")
	} else {
		fmt.Fprintf(&sb, "%4d ", c.Line(offset))
	}

	op := Opcode(c.Code[offset])
	info, ok := GetOpcodeInfo(op)
	if !ok {
		fmt.Fprintf(&sb, "Unknown opcode %d", byte(op))
		return sb.String(), offset + 1
	}
	if offset+info.OperandLen >= len(c.Code) {
		fmt.Fprintf(&sb, "%s <truncated>", info.Name)
		return sb.String(), len(c.Code)
	}

	switch op {
	case OpConstant, OpGetGlobal, OpDefineGlobal, OpSetGlobal:
		idx := c.Code[offset+1]
		fmt.Fprintf(&sb, "%-16s %4d '%s'", info.Name, idx, formatConstant(c, idx, heap))
	case OpGetLocal, OpSetLocal, OpCall:
		fmt.Fprintf(&sb, "%-16s %4d", info.Name, c.Code[offset+1])
	case OpJump, OpJumpIfFalse:
		jump := int(c.ReadUint16(offset + 1))
		fmt.Fprintf(&sb, "%-16s %4d -> %d", info.Name, offset, offset+3+jump)
	case OpLoop:
		jump := int(c.ReadUint16(offset + 1))
		fmt.Fprintf(&sb, "%-16s %4d -> %d", info.Name, offset, offset+3-jump)
	default:
		sb.WriteString(info.Name)
	}
	return sb.String(), offset + op.InstructionLen()
}

func formatConstant(c *Chunk, idx byte, heap *Heap) string {
	if int(idx) >= len(c.Constants) {
		return "<bad constant>"
	}
	v := c.Constants[idx]
	if heap == nil {
		if v.IsObject() {
			return fmt.Sprintf("<obj %d>", v.Object())
		}
		return NewHeap().Format(v)
	}
	s := heap.Format(v)
	// Keep listings one instruction per line
	s = strings.ReplaceAll(s, "\n", "\\n")
	if len(s) > 40 {
		s = s[:37] + "..."
	}
	return s
}

// DisassembleToLines returns the listing as a slice of lines.
func DisassembleToLines(c *Chunk, heap *Heap) []string {
	var lines []string
	for offset := 0; offset < len(c.Code); {
		line, next := DisassembleInstruction(c, offset, heap)
		lines = append(lines, line)
		offset = next
	}
	return lines
}

// InstructionCount returns the number of instructions in the chunk.
// Note: This iterates through all code, so it's O(n).
func InstructionCount(c *Chunk) int {
	count := 0
	for offset := 0; offset < len(c.Code); {
		offset += Opcode(c.Code[offset]).InstructionLen()
		count++
	}
	return count
}
