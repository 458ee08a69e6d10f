package vm

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/lox/pkg/bytecode"
)

func runtimeErr(t *testing.T, v *testVM, source string) *RuntimeError {
	t.Helper()
	err := v.Interpret(source)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRuntime))
	assert.False(t, errors.Is(err, ErrCompile))

	var re *RuntimeError
	require.True(t, errors.As(err, &re), "error is %T", err)
	return re
}

// ---------------------------------------------------------------------------
// Compile errors
// ---------------------------------------------------------------------------

func TestCompileErrorReportsEveryStatement(t *testing.T) {
	v := newTestVM(Config{})
	err := v.Interpret("print 1 +;\nprint 2;\nvar 3;\n")

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCompile))

	var ce *CompileError
	require.True(t, errors.As(err, &ce))
	require.Len(t, ce.Errors, 2)
	assert.Equal(t, "[line 1] Error at ';': Expect expression.\n"+
		"[line 3] Error at '3': Expect variable name.", err.Error())
	assert.Empty(t, v.out.String(), "nothing runs when compilation fails")
	assert.Equal(t, StateIdle, v.State())
}

func TestConstantPoolLimit(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 257; i++ {
		fmt.Fprintf(&sb, "print %d;\n", i)
	}

	v := newTestVM(Config{})
	err := v.Interpret(sb.String())
	require.True(t, errors.Is(err, ErrCompile))

	var ce *CompileError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, []string{"Too many constants in one chunk."}, ce.Errors.Messages())
}

// ---------------------------------------------------------------------------
// Runtime errors
// ---------------------------------------------------------------------------

func TestRuntimeErrorMessages(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"print 1 - \"a\";", "Operands must be numbers."},
		{"print nil < 1;", "Operands must be numbers."},
		{"print 1 + \"a\";", "Operands must be two numbers or two strings."},
		{"print true + false;", "Operands must be two numbers or two strings."},
		{"print -\"a\";", "Operand must be a number."},
		{"print missing;", "Undefined variable 'missing'."},
		{"missing = 1;", "Undefined variable 'missing'."},
		{"\"text\"();", "Can only call functions and classes."},
		{"nil();", "Can only call functions and classes."},
		{"fun add(a, b) { return a + b; }\nadd(1);", "Expected 2 arguments but got 1."},
		{"fun none() {}\nnone(1, 2);", "Expected 0 arguments but got 2."},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			re := runtimeErr(t, newTestVM(Config{}), tt.src)
			assert.Equal(t, tt.want, re.Message)
		})
	}
}

func TestAssignToUndefinedDoesNotDefine(t *testing.T) {
	v := newTestVM(Config{})
	runtimeErr(t, v, "ghost = 1;")

	_, ok := v.Global("ghost")
	assert.False(t, ok)
}

func TestRuntimeErrorTrace(t *testing.T) {
	src := `fun inner() { return 1 + nil; }
fun outer() {
  return inner();
}
outer();`
	re := runtimeErr(t, newTestVM(Config{}), src)

	assert.Equal(t, "Operands must be two numbers or two strings.", re.Message)
	assert.Equal(t, 1, re.Line)
	assert.Equal(t, []TraceEntry{
		{Line: 1, Function: "inner"},
		{Line: 3, Function: "outer"},
		{Line: 5, Function: "script"},
	}, re.Trace)
	assert.Equal(t, "Operands must be two numbers or two strings.\n"+
		"[line 1] in inner()\n"+
		"[line 3] in outer()\n"+
		"[line 5] in script", re.Error())
}

func TestArityErrorTrace(t *testing.T) {
	src := "fun add(a, b) { return a + b; }\nprint add(1);"
	re := runtimeErr(t, newTestVM(Config{}), src)

	assert.Equal(t, "Expected 2 arguments but got 1.", re.Message)
	assert.Equal(t, []TraceEntry{{Line: 2, Function: "script"}}, re.Trace)
}

func TestStackOverflow(t *testing.T) {
	re := runtimeErr(t, newTestVM(Config{}), "fun f() { f(); }\nf();")

	assert.Equal(t, "Stack overflow.", re.Message)
	require.Len(t, re.Trace, DefaultFramesMax)
	assert.Equal(t, "[line 1] in f()", re.Trace[0].String())
	assert.Equal(t, "[line 2] in script", re.Trace[len(re.Trace)-1].String())
}

func TestFramesMaxIsConfigurable(t *testing.T) {
	src := "fun down(n) { if (n > 0) down(n - 1); }\ndown(5);"

	require.NoError(t, newTestVM(Config{FramesMax: 7}).Interpret(src))

	re := runtimeErr(t, newTestVM(Config{FramesMax: 6}), src)
	assert.Equal(t, "Stack overflow.", re.Message)
	assert.Len(t, re.Trace, 6)
}

// ---------------------------------------------------------------------------
// Faults
// ---------------------------------------------------------------------------

func TestOperandStackExhaustionIsAFault(t *testing.T) {
	v := newTestVM(Config{StackMax: 8})
	err := v.Interpret("print 1 + (2 + (3 + (4 + (5 + (6 + (7 + (8 + 9)))))));")

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFault))
	assert.True(t, errors.Is(err, ErrStackExhausted))
	assert.False(t, errors.Is(err, ErrRuntime))

	var fe *FaultError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, 1, fe.Line)
	assert.Equal(t, StateFaulted, v.State())
	assert.Equal(t, 0, v.StackDepth())

	// The VM stays usable after a fault
	require.NoError(t, v.Interpret("print 1 + 2;"))
	assert.Equal(t, "3\n", v.out.String())
}

func TestUnknownOpcodeIsAFault(t *testing.T) {
	fn := bytecode.NewFunction("")
	fn.Chunk.Write(0xEE, 4)

	v := newTestVM(Config{})
	err := v.Run(fn)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFault))
	assert.True(t, errors.Is(err, ErrUnknownOpcode))
	assert.Equal(t, "[line 4] fault: unknown opcode: byte 0xee at offset 0", err.Error())
}

func TestTruncatedCodeIsAFault(t *testing.T) {
	tests := []struct {
		name  string
		build func(c *bytecode.Chunk)
	}{
		{"missing operand", func(c *bytecode.Chunk) {
			c.WriteOp(bytecode.OpConstant, 1)
		}},
		{"missing return", func(c *bytecode.Chunk) {
			c.WriteOp(bytecode.OpNil, 1)
		}},
		{"constant out of range", func(c *bytecode.Chunk) {
			c.WriteOp(bytecode.OpConstant, 1)
			c.Write(3, 1)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn := bytecode.NewFunction("")
			tt.build(fn.Chunk)

			err := newTestVM(Config{}).Run(fn)
			assert.True(t, errors.Is(err, ErrTruncatedCode), "got %v", err)
			assert.True(t, errors.Is(err, ErrFault))
		})
	}
}
