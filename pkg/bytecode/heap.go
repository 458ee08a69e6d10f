package bytecode

import "fmt"

// Handle addresses an object on a Heap. Handles are stable for the
// heap's lifetime: objects are never moved or freed.
type Handle uint32

// ObjectKind identifies the concrete type of a heap object.
type ObjectKind uint8

const (
	ObjString ObjectKind = iota
	ObjFunction
)

func (k ObjectKind) String() string {
	switch k {
	case ObjString:
		return "string"
	case ObjFunction:
		return "function"
	default:
		return fmt.Sprintf("ObjectKind(%d)", k)
	}
}

// Object is anything that lives on the heap.
type Object interface {
	Kind() ObjectKind
}

// String is an immutable interned string.
type String struct {
	Chars string
}

func (*String) Kind() ObjectKind { return ObjString }

// Heap is an append-only object store.
//
// There is no collector: every allocation lives until the heap is dropped.
// All access goes through Intern, AllocFunction and Get so a collector can
// be added later without changing Value.
type Heap struct {
	objects []Object
	strings map[string]Handle
}

// NewHeap creates an empty heap.
func NewHeap() *Heap {
	return &Heap{
		objects: make([]Object, 0, 256),
		strings: make(map[string]Handle),
	}
}

func (h *Heap) alloc(obj Object) Handle {
	h.objects = append(h.objects, obj)
	return Handle(len(h.objects) - 1)
}

// Intern returns the handle of the string with the given content,
// allocating it on first use. Equal contents always yield the same handle.
func (h *Heap) Intern(s string) Handle {
	if handle, ok := h.strings[s]; ok {
		return handle
	}
	handle := h.alloc(&String{Chars: s})
	h.strings[s] = handle
	return handle
}

// AllocFunction places a finished function on the heap.
func (h *Heap) AllocFunction(fn *Function) Handle {
	return h.alloc(fn)
}

// Get dereferences a handle. Panics on a handle this heap never issued.
func (h *Heap) Get(handle Handle) Object {
	return h.objects[handle]
}

// String returns the content of a string object.
func (h *Heap) String(handle Handle) (string, bool) {
	if int(handle) >= len(h.objects) {
		return "", false
	}
	s, ok := h.objects[handle].(*String)
	if !ok {
		return "", false
	}
	return s.Chars, true
}

// Function returns the function object behind a handle.
func (h *Heap) Function(handle Handle) (*Function, bool) {
	if int(handle) >= len(h.objects) {
		return nil, false
	}
	fn, ok := h.objects[handle].(*Function)
	return fn, ok
}

// IsString reports whether v references a string object.
func (h *Heap) IsString(v Value) bool {
	if !v.IsObject() {
		return false
	}
	_, ok := h.String(v.Object())
	return ok
}

// Len returns the number of objects ever allocated.
func (h *Heap) Len() int {
	return len(h.objects)
}

// Format renders a value the way print shows it.
func (h *Heap) Format(v Value) string {
	switch v.Kind() {
	case KindNil:
		return "nil"
	case KindBool:
		if v.Bool() {
			return "true"
		}
		return "false"
	case KindNumber:
		return FormatNumber(v.Number())
	case KindObject:
		if int(v.Object()) >= len(h.objects) {
			return fmt.Sprintf("<dangling %d>", v.Object())
		}
		switch obj := h.objects[v.Object()].(type) {
		case *String:
			return obj.Chars
		case *Function:
			return obj.String()
		}
	}
	return "<unknown>"
}
