package vm

import (
	"fmt"

	"github.com/chazu/lox/pkg/bytecode"
)

// run executes instructions until the outermost frame returns or an
// error is raised.
func (vm *VM) run() (err error) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(stackFault); !ok {
				panic(r)
			}
			err = vm.fault(ErrStackExhausted, fmt.Sprintf("%d values in use", vm.sp))
		}
	}()

	frame := &vm.frames[vm.frameCount-1]

	for {
		if vm.cfg.TraceExecution {
			vm.traceInstruction(frame)
		}

		b, err := vm.readByte(frame)
		if err != nil {
			return err
		}

		switch op := bytecode.Opcode(b); op {
		case bytecode.OpConstant:
			v, err := vm.readConstant(frame)
			if err != nil {
				return err
			}
			vm.push(v)

		case bytecode.OpNil:
			vm.push(bytecode.Nil)
		case bytecode.OpTrue:
			vm.push(bytecode.True)
		case bytecode.OpFalse:
			vm.push(bytecode.False)

		case bytecode.OpPop:
			vm.pop()

		case bytecode.OpGetLocal:
			slot, err := vm.readByte(frame)
			if err != nil {
				return err
			}
			vm.push(vm.stack[frame.base+int(slot)])

		case bytecode.OpSetLocal:
			slot, err := vm.readByte(frame)
			if err != nil {
				return err
			}
			// Assignment is an expression; the value stays on the stack
			vm.stack[frame.base+int(slot)] = vm.peek(0)

		case bytecode.OpGetGlobal:
			name, err := vm.readConstant(frame)
			if err != nil {
				return err
			}
			v, ok := vm.globals[name.Object()]
			if !ok {
				return vm.undefinedVariable(name)
			}
			vm.push(v)

		case bytecode.OpDefineGlobal:
			name, err := vm.readConstant(frame)
			if err != nil {
				return err
			}
			vm.globals[name.Object()] = vm.peek(0)
			vm.pop()

		case bytecode.OpSetGlobal:
			name, err := vm.readConstant(frame)
			if err != nil {
				return err
			}
			if _, ok := vm.globals[name.Object()]; !ok {
				return vm.undefinedVariable(name)
			}
			vm.globals[name.Object()] = vm.peek(0)

		case bytecode.OpEqual:
			b := vm.pop()
			a := vm.pop()
			vm.push(bytecode.BoolValue(a.Equal(b)))

		case bytecode.OpGreater, bytecode.OpLess,
			bytecode.OpSubtract, bytecode.OpMultiply, bytecode.OpDivide:
			if !vm.peek(0).IsNumber() || !vm.peek(1).IsNumber() {
				return vm.runtimeError("Operands must be numbers.")
			}
			b := vm.pop().Number()
			a := vm.pop().Number()
			vm.push(arithmetic(op, a, b))

		case bytecode.OpAdd:
			switch {
			case vm.heap.IsString(vm.peek(0)) && vm.heap.IsString(vm.peek(1)):
				vm.concatenate()
			case vm.peek(0).IsNumber() && vm.peek(1).IsNumber():
				b := vm.pop().Number()
				a := vm.pop().Number()
				vm.push(bytecode.NumberValue(a + b))
			default:
				return vm.runtimeError("Operands must be two numbers or two strings.")
			}

		case bytecode.OpNot:
			vm.push(bytecode.BoolValue(vm.pop().IsFalsey()))

		case bytecode.OpNegate:
			if !vm.peek(0).IsNumber() {
				return vm.runtimeError("Operand must be a number.")
			}
			vm.push(bytecode.NumberValue(-vm.pop().Number()))

		case bytecode.OpPrint:
			fmt.Fprintln(vm.cfg.Stdout, vm.heap.Format(vm.pop()))

		case bytecode.OpJump:
			offset, err := vm.readShort(frame)
			if err != nil {
				return err
			}
			frame.ip += offset

		case bytecode.OpJumpIfFalse:
			offset, err := vm.readShort(frame)
			if err != nil {
				return err
			}
			if vm.peek(0).IsFalsey() {
				frame.ip += offset
			}

		case bytecode.OpLoop:
			offset, err := vm.readShort(frame)
			if err != nil {
				return err
			}
			frame.ip -= offset

		case bytecode.OpCall:
			argCount, err := vm.readByte(frame)
			if err != nil {
				return err
			}
			if err := vm.callValue(vm.peek(int(argCount)), int(argCount)); err != nil {
				return err
			}
			frame = &vm.frames[vm.frameCount-1]

		case bytecode.OpReturn:
			result := vm.pop()
			vm.frameCount--
			if vm.frameCount == 0 {
				// Discard the script function itself
				vm.pop()
				return nil
			}
			vm.sp = frame.base
			vm.push(result)
			frame = &vm.frames[vm.frameCount-1]

		default:
			return vm.fault(ErrUnknownOpcode, fmt.Sprintf("byte 0x%02x at offset %d", b, frame.ip-1))
		}
	}
}

func arithmetic(op bytecode.Opcode, a, b float64) bytecode.Value {
	switch op {
	case bytecode.OpGreater:
		return bytecode.BoolValue(a > b)
	case bytecode.OpLess:
		return bytecode.BoolValue(a < b)
	case bytecode.OpSubtract:
		return bytecode.NumberValue(a - b)
	case bytecode.OpMultiply:
		return bytecode.NumberValue(a * b)
	default:
		return bytecode.NumberValue(a / b)
	}
}

// concatenate replaces the two strings on top of the stack with their
// interned concatenation.
func (vm *VM) concatenate() {
	b, _ := vm.heap.String(vm.pop().Object())
	a, _ := vm.heap.String(vm.pop().Object())
	vm.push(bytecode.ObjectValue(vm.heap.Intern(a + b)))
}

func (vm *VM) undefinedVariable(name bytecode.Value) error {
	s, _ := vm.heap.String(name.Object())
	return vm.runtimeError("Undefined variable '%s'.", s)
}

// ---------------------------------------------------------------------------
// Decoding
// ---------------------------------------------------------------------------

func (vm *VM) readByte(frame *CallFrame) (byte, error) {
	code := frame.function.Chunk.Code
	if frame.ip >= len(code) {
		return 0, vm.fault(ErrTruncatedCode, fmt.Sprintf("offset %d of %d", frame.ip, len(code)))
	}
	b := code[frame.ip]
	frame.ip++
	return b, nil
}

func (vm *VM) readShort(frame *CallFrame) (int, error) {
	hi, err := vm.readByte(frame)
	if err != nil {
		return 0, err
	}
	lo, err := vm.readByte(frame)
	if err != nil {
		return 0, err
	}
	return int(hi)<<8 | int(lo), nil
}

func (vm *VM) readConstant(frame *CallFrame) (bytecode.Value, error) {
	idx, err := vm.readByte(frame)
	if err != nil {
		return bytecode.Nil, err
	}
	chunk := frame.function.Chunk
	if int(idx) >= chunk.ConstantCount() {
		return bytecode.Nil, vm.fault(ErrTruncatedCode, fmt.Sprintf("constant %d of %d", idx, chunk.ConstantCount()))
	}
	return chunk.Constant(idx), nil
}
