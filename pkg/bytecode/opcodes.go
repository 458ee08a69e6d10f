package bytecode

import "fmt"

// Opcode represents a bytecode instruction.
// Every opcode is followed by a fixed number of operand bytes given by
// its OpcodeInfo, so a decoder never reads an operand as an opcode.
type Opcode byte

const (
	// ========================================================================
	// Constants and literals
	// ========================================================================

	OpConstant Opcode = iota // Push constant from pool: OpConstant <index:u8>
	OpNil                    // Push nil
	OpTrue                   // Push true
	OpFalse                  // Push false
	OpPop                    // Pop top of stack

	// ========================================================================
	// Variables
	// ========================================================================

	OpGetLocal     // Push local: OpGetLocal <slot:u8>
	OpSetLocal     // Store TOS in local (TOS stays): OpSetLocal <slot:u8>
	OpGetGlobal    // Push global: OpGetGlobal <name:u8>
	OpDefineGlobal // Pop and define global: OpDefineGlobal <name:u8>
	OpSetGlobal    // Store TOS in existing global: OpSetGlobal <name:u8>

	// ========================================================================
	// Comparison and arithmetic
	// ========================================================================

	OpEqual
	OpGreater
	OpLess
	OpAdd // Numbers, or two strings (concatenation)
	OpSubtract
	OpMultiply
	OpDivide
	OpNot
	OpNegate

	// ========================================================================
	// Statements and control flow
	// ========================================================================

	OpPrint
	OpJump        // Unconditional forward jump: OpJump <offset:u16>
	OpJumpIfFalse // Forward jump if TOS is falsey, TOS not popped: OpJumpIfFalse <offset:u16>
	OpLoop        // Backward jump: OpLoop <offset:u16>
	OpCall        // Call callee below args: OpCall <argc:u8>
	OpReturn
)

// OpcodeInfo provides metadata about each opcode for debugging and validation.
type OpcodeInfo struct {
	Name       string // Human-readable name
	OperandLen int    // Number of operand bytes following the opcode
}

// opcodeInfoTable maps opcodes to their metadata.
var opcodeInfoTable = map[Opcode]OpcodeInfo{
	OpConstant: {"OP_CONSTANT", 1},
	OpNil:      {"OP_NIL", 0},
	OpTrue:     {"OP_TRUE", 0},
	OpFalse:    {"OP_FALSE", 0},
	OpPop:      {"OP_POP", 0},

	OpGetLocal:     {"OP_GET_LOCAL", 1},
	OpSetLocal:     {"OP_SET_LOCAL", 1},
	OpGetGlobal:    {"OP_GET_GLOBAL", 1},
	OpDefineGlobal: {"OP_DEFINE_GLOBAL", 1},
	OpSetGlobal:    {"OP_SET_GLOBAL", 1},

	OpEqual:    {"OP_EQUAL", 0},
	OpGreater:  {"OP_GREATER", 0},
	OpLess:     {"OP_LESS", 0},
	OpAdd:      {"OP_ADD", 0},
	OpSubtract: {"OP_SUBTRACT", 0},
	OpMultiply: {"OP_MULTIPLY", 0},
	OpDivide:   {"OP_DIVIDE", 0},
	OpNot:      {"OP_NOT", 0},
	OpNegate:   {"OP_NEGATE", 0},

	OpPrint:       {"OP_PRINT", 0},
	OpJump:        {"OP_JUMP", 2},
	OpJumpIfFalse: {"OP_JUMP_IF_FALSE", 2},
	OpLoop:        {"OP_LOOP", 2},
	OpCall:        {"OP_CALL", 1},
	OpReturn:      {"OP_RETURN", 0},
}

// GetOpcodeInfo returns metadata for an opcode and whether it is defined.
// Unknown opcodes get the name "UNKNOWN(0xNN)".
func GetOpcodeInfo(op Opcode) (OpcodeInfo, bool) {
	if info, ok := opcodeInfoTable[op]; ok {
		return info, true
	}
	return OpcodeInfo{Name: fmt.Sprintf("UNKNOWN(0x%02X)", byte(op))}, false
}

// String returns the human-readable name of an opcode.
func (op Opcode) String() string {
	info, _ := GetOpcodeInfo(op)
	return info.Name
}

// Valid reports whether op is a defined opcode.
func (op Opcode) Valid() bool {
	_, ok := opcodeInfoTable[op]
	return ok
}

// OperandLen returns the number of operand bytes for this opcode.
func (op Opcode) OperandLen() int {
	info, _ := GetOpcodeInfo(op)
	return info.OperandLen
}

// InstructionLen returns the total length of an instruction (1 + operand bytes).
func (op Opcode) InstructionLen() int {
	return 1 + op.OperandLen()
}

// IsJump returns true if this opcode is a jump instruction.
func (op Opcode) IsJump() bool {
	return op == OpJump || op == OpJumpIfFalse || op == OpLoop
}

// OpcodeCount returns the number of defined opcodes.
func OpcodeCount() int {
	return len(opcodeInfoTable)
}
