package vm

import (
	"fmt"
	"strings"

	"github.com/chazu/lox/pkg/bytecode"
)

// traceInstruction writes the operand stack followed by the instruction
// about to execute.
func (vm *VM) traceInstruction(frame *CallFrame) {
	var sb strings.Builder
	sb.WriteString("          ")
	for _, v := range vm.stack[:vm.sp] {
		fmt.Fprintf(&sb, "[ %s ]", vm.heap.Format(v))
	}
	fmt.Fprintln(vm.cfg.Trace, sb.String())

	if frame.ip < frame.function.Chunk.CodeLen() {
		line, _ := bytecode.DisassembleInstruction(frame.function.Chunk, frame.ip, vm.heap)
		fmt.Fprintln(vm.cfg.Trace, line)
	}
}
