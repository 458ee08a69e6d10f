package bytecode

import (
	"math"
	"strconv"
)

// ValueKind tags the variant held by a Value.
type ValueKind uint8

const (
	KindNil ValueKind = iota
	KindBool
	KindNumber
	KindObject
)

func (k ValueKind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindObject:
		return "object"
	default:
		return "ValueKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is the unit of data moved on the operand stack and stored in
// constant pools. It is a small tagged union and is always copied by value.
//
// Heap-resident data (strings, functions) is referenced through a Handle;
// the Value never owns the object.
type Value struct {
	kind   ValueKind
	b      bool
	n      float64
	handle Handle
}

// Pre-defined special values
var (
	Nil   = Value{kind: KindNil}
	True  = Value{kind: KindBool, b: true}
	False = Value{kind: KindBool, b: false}
)

// ---------------------------------------------------------------------------
// Constructors
// ---------------------------------------------------------------------------

// BoolValue returns True or False.
func BoolValue(b bool) Value {
	if b {
		return True
	}
	return False
}

// NumberValue wraps a float64.
func NumberValue(n float64) Value {
	return Value{kind: KindNumber, n: n}
}

// ObjectValue wraps a heap handle.
func ObjectValue(h Handle) Value {
	return Value{kind: KindObject, handle: h}
}

// ---------------------------------------------------------------------------
// Type checking and extraction
// ---------------------------------------------------------------------------

// Kind returns the variant tag.
func (v Value) Kind() ValueKind { return v.kind }

func (v Value) IsNil() bool    { return v.kind == KindNil }
func (v Value) IsBool() bool   { return v.kind == KindBool }
func (v Value) IsNumber() bool { return v.kind == KindNumber }
func (v Value) IsObject() bool { return v.kind == KindObject }

// Bool returns the boolean payload. Only meaningful when IsBool.
func (v Value) Bool() bool { return v.b }

// Number returns the numeric payload. Only meaningful when IsNumber.
func (v Value) Number() float64 { return v.n }

// Object returns the heap handle. Only meaningful when IsObject.
func (v Value) Object() Handle { return v.handle }

// IsFalsey reports whether v counts as false in a condition.
// Only nil and false are falsey.
func (v Value) IsFalsey() bool {
	return v.kind == KindNil || (v.kind == KindBool && !v.b)
}

// Equal compares two values. Nil, Bool and Number compare structurally;
// objects compare by handle, which is content equality for strings
// because the heap interns them.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNil:
		return true
	case KindBool:
		return v.b == other.b
	case KindNumber:
		return v.n == other.n
	case KindObject:
		return v.handle == other.handle
	}
	return false
}

// FormatNumber renders a number the way print shows it: the shortest
// decimal form without an exponent.
func FormatNumber(n float64) string {
	switch {
	case math.IsNaN(n):
		return "NaN"
	case math.IsInf(n, 1):
		return "inf"
	case math.IsInf(n, -1):
		return "-inf"
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}
