package bytecode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInternSharesHandles(t *testing.T) {
	h := NewHeap()

	a := h.Intern("hello")
	b := h.Intern("hel" + "lo")
	c := h.Intern("world")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Equal(t, 2, h.Len())

	s, ok := h.String(a)
	require.True(t, ok)
	assert.Equal(t, "hello", s)
}

func TestHeapFunctions(t *testing.T) {
	h := NewHeap()
	fn := NewFunction("add")
	fn.Arity = 2

	handle := h.AllocFunction(fn)

	got, ok := h.Function(handle)
	require.True(t, ok)
	assert.Same(t, fn, got)
	assert.Equal(t, ObjFunction, h.Get(handle).Kind())

	_, ok = h.String(handle)
	assert.False(t, ok)
	assert.False(t, h.IsString(ObjectValue(handle)))
}

func TestHeapLookupOutOfRange(t *testing.T) {
	h := NewHeap()

	_, ok := h.String(99)
	assert.False(t, ok)
	_, ok = h.Function(99)
	assert.False(t, ok)
	assert.False(t, h.IsString(NumberValue(1)))
}

func TestHeapFormat(t *testing.T) {
	h := NewHeap()
	str := h.Intern("text")
	fn := h.AllocFunction(NewFunction("fib"))
	script := h.AllocFunction(NewFunction(""))

	tests := []struct {
		v    Value
		want string
	}{
		{Nil, "nil"},
		{True, "true"},
		{False, "false"},
		{NumberValue(42), "42"},
		{ObjectValue(str), "text"},
		{ObjectValue(fn), "<fn fib>"},
		{ObjectValue(script), "<script>"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, h.Format(tt.v))
	}
}

func TestFunctionNames(t *testing.T) {
	script := NewFunction("")
	assert.True(t, script.IsScript())
	assert.Equal(t, "script", script.DisplayName())

	fn := NewFunction("area")
	assert.False(t, fn.IsScript())
	assert.Equal(t, "area", fn.DisplayName())
	assert.Equal(t, "<fn area>", fn.String())
}
