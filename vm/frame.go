package vm

import "github.com/chazu/lox/pkg/bytecode"

// CallFrame is one active function invocation. Locals live on the shared
// operand stack: slot n of the frame is stack[base+n], and slot 0 holds
// the callee.
type CallFrame struct {
	function *bytecode.Function
	ip       int // offset of the next byte to decode in function.Chunk
	base     int // stack index of slot 0
}

// line returns the source line of the instruction most recently decoded.
func (f *CallFrame) line() int {
	return f.function.Chunk.Line(f.ip - 1)
}

// Function returns the function being executed.
func (f *CallFrame) Function() *bytecode.Function {
	return f.function
}
