package vm

import (
	"errors"
	"fmt"

	"github.com/tliron/commonlog"

	"github.com/chazu/lox/compiler"
	"github.com/chazu/lox/pkg/bytecode"
)

// State is the lifecycle state of a VM.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateHalted
	StateFaulted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateHalted:
		return "halted"
	case StateFaulted:
		return "faulted"
	default:
		return fmt.Sprintf("State(%d)", s)
	}
}

// VM executes compiled Lox functions.
//
// A VM is not safe for concurrent use. The heap and the global table
// outlive a single Interpret call, so definitions from one call are
// visible to the next (as a REPL needs); the operand stack and frames are
// reset on every call and after every failure.
type VM struct {
	cfg Config

	heap    *bytecode.Heap
	globals map[bytecode.Handle]bytecode.Value

	stack []bytecode.Value // fixed capacity cfg.StackMax
	sp    int              // next free slot

	frames     []CallFrame // fixed capacity cfg.FramesMax
	frameCount int

	state State
	log   commonlog.Logger
}

// NewVM creates a VM with an empty heap and global table.
func NewVM(cfg Config) *VM {
	cfg = cfg.withDefaults()
	return &VM{
		cfg:     cfg,
		heap:    bytecode.NewHeap(),
		globals: make(map[bytecode.Handle]bytecode.Value),
		stack:   make([]bytecode.Value, cfg.StackMax),
		frames:  make([]CallFrame, cfg.FramesMax),
		log:     cfg.Logger,
	}
}

// Heap returns the VM's object heap.
func (vm *VM) Heap() *bytecode.Heap {
	return vm.heap
}

// State returns the lifecycle state.
func (vm *VM) State() State {
	return vm.state
}

// StackDepth returns the number of values on the operand stack.
func (vm *VM) StackDepth() int {
	return vm.sp
}

// Global looks up a global variable by name.
func (vm *VM) Global(name string) (bytecode.Value, bool) {
	v, ok := vm.globals[vm.heap.Intern(name)]
	return v, ok
}

// Format renders a value the way print shows it.
func (vm *VM) Format(v bytecode.Value) string {
	return vm.heap.Format(v)
}

// Compile compiles source against the VM's heap without running it.
func (vm *VM) Compile(source string) (*bytecode.Function, error) {
	fn, err := compiler.Compile(source, vm.heap, compiler.WithLogger(vm.log))
	if err != nil {
		var list compiler.ErrorList
		if errors.As(err, &list) {
			return nil, &CompileError{Errors: list}
		}
		return nil, err
	}
	if vm.cfg.PrintCode {
		bytecode.DisassembleFunction(vm.cfg.Trace, fn, vm.heap)
	}
	return fn, nil
}

// Interpret compiles and runs source. The error is a *CompileError,
// *RuntimeError or *FaultError.
func (vm *VM) Interpret(source string) error {
	fn, err := vm.Compile(source)
	if err != nil {
		vm.log.Debugf("compile failed: %v", err)
		return err
	}
	return vm.Run(fn)
}

// Run executes fn as a top-level script.
func (vm *VM) Run(fn *bytecode.Function) error {
	vm.resetStack()
	vm.state = StateRunning

	handle := vm.heap.AllocFunction(fn)
	vm.stack[vm.sp] = bytecode.ObjectValue(handle)
	vm.sp++
	err := vm.call(fn, 0)
	if err == nil {
		err = vm.run()
	}
	if err != nil {
		vm.state = StateFaulted
		vm.resetStack()
		vm.log.Debugf("execution failed: %v", err)
		return err
	}
	vm.state = StateHalted
	return nil
}

func (vm *VM) resetStack() {
	vm.sp = 0
	vm.frameCount = 0
}

// ---------------------------------------------------------------------------
// Stack
// ---------------------------------------------------------------------------

// stackFault unwinds run when the operand stack is full.
type stackFault struct{}

func (vm *VM) push(v bytecode.Value) {
	if vm.sp >= len(vm.stack) {
		panic(stackFault{})
	}
	vm.stack[vm.sp] = v
	vm.sp++
}

func (vm *VM) pop() bytecode.Value {
	vm.sp--
	return vm.stack[vm.sp]
}

func (vm *VM) peek(distance int) bytecode.Value {
	return vm.stack[vm.sp-1-distance]
}

// ---------------------------------------------------------------------------
// Calls
// ---------------------------------------------------------------------------

func (vm *VM) callValue(callee bytecode.Value, argCount int) error {
	if callee.IsObject() {
		if fn, ok := vm.heap.Function(callee.Object()); ok {
			return vm.call(fn, argCount)
		}
	}
	return vm.runtimeError("Can only call functions and classes.")
}

// call pushes a frame whose slot 0 is the callee and whose slots 1..n are
// the arguments already on the stack.
func (vm *VM) call(fn *bytecode.Function, argCount int) error {
	if argCount != fn.Arity {
		return vm.runtimeError("Expected %d arguments but got %d.", fn.Arity, argCount)
	}
	if vm.frameCount == len(vm.frames) {
		return vm.runtimeError("Stack overflow.")
	}

	vm.frames[vm.frameCount] = CallFrame{
		function: fn,
		ip:       0,
		base:     vm.sp - argCount - 1,
	}
	vm.frameCount++
	return nil
}

// ---------------------------------------------------------------------------
// Errors
// ---------------------------------------------------------------------------

// runtimeError builds a RuntimeError carrying the line of the instruction
// just executed in every active frame, innermost first.
func (vm *VM) runtimeError(format string, args ...any) error {
	err := &RuntimeError{Message: fmt.Sprintf(format, args...)}
	for i := vm.frameCount - 1; i >= 0; i-- {
		frame := &vm.frames[i]
		entry := TraceEntry{
			Line:     frame.line(),
			Function: frame.function.DisplayName(),
		}
		err.Trace = append(err.Trace, entry)
	}
	if len(err.Trace) > 0 {
		err.Line = err.Trace[0].Line
	}
	return err
}

func (vm *VM) fault(cause error, detail string) error {
	err := &FaultError{Err: cause, Detail: detail}
	if vm.frameCount > 0 {
		err.Line = vm.frames[vm.frameCount-1].line()
	}
	return err
}
