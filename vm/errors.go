package vm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chazu/lox/compiler"
)

// Sentinel errors for matching with errors.Is.
var (
	// ErrCompile matches every *CompileError.
	ErrCompile = errors.New("compile error")
	// ErrRuntime matches every *RuntimeError.
	ErrRuntime = errors.New("runtime error")
	// ErrFault matches every *FaultError.
	ErrFault = errors.New("vm fault")

	// ErrStackExhausted is the fault raised when the operand stack is full.
	ErrStackExhausted = errors.New("operand stack exhausted")
	// ErrUnknownOpcode is the fault raised for a byte that is not an opcode.
	ErrUnknownOpcode = errors.New("unknown opcode")
	// ErrTruncatedCode is the fault raised when decoding runs off the chunk.
	ErrTruncatedCode = errors.New("instruction pointer past end of code")
)

// CompileError reports that source failed to compile. Errors lists every
// diagnostic the compiler recovered from.
type CompileError struct {
	Errors compiler.ErrorList
}

func (e *CompileError) Error() string {
	return e.Errors.Error()
}

func (e *CompileError) Is(target error) bool {
	return target == ErrCompile
}

func (e *CompileError) Unwrap() error {
	return e.Errors
}

// TraceEntry is one active call at the moment a runtime error occurred.
type TraceEntry struct {
	Line     int
	Function string // "script" for the top level
}

func (t TraceEntry) String() string {
	if t.Function == "script" {
		return fmt.Sprintf("[line %d] in script", t.Line)
	}
	return fmt.Sprintf("[line %d] in %s()", t.Line, t.Function)
}

// RuntimeError is a failed runtime check. Trace lists the call stack,
// innermost call first; Line is the line of the faulting instruction.
type RuntimeError struct {
	Message string
	Line    int
	Trace   []TraceEntry
}

func (e *RuntimeError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Message)
	for _, entry := range e.Trace {
		sb.WriteByte('\n')
		sb.WriteString(entry.String())
	}
	return sb.String()
}

func (e *RuntimeError) Is(target error) bool {
	return target == ErrRuntime
}

// FaultError is an implementation-limit failure: the program asked for
// more than the VM can provide, or the bytecode is malformed.
type FaultError struct {
	Err    error // ErrStackExhausted, ErrUnknownOpcode or ErrTruncatedCode
	Detail string
	Line   int
}

func (e *FaultError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("[line %d] fault: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("[line %d] fault: %v: %s", e.Line, e.Err, e.Detail)
}

func (e *FaultError) Is(target error) bool {
	return target == ErrFault
}

func (e *FaultError) Unwrap() error {
	return e.Err
}
