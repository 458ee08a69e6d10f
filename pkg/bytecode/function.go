package bytecode

// Function is a compiled function: its arity, its name and the chunk that
// holds its body. A function with an empty name is a top-level script.
//
// The compiler creates a Function when it finishes the body; it is not
// modified afterwards and may be called any number of times.
type Function struct {
	Arity int
	Name  string
	Chunk *Chunk
}

// NewFunction creates a function with an empty chunk.
func NewFunction(name string) *Function {
	return &Function{
		Name:  name,
		Chunk: NewChunk(),
	}
}

func (*Function) Kind() ObjectKind { return ObjFunction }

// IsScript reports whether fn is the implicit top-level function.
func (fn *Function) IsScript() bool {
	return fn.Name == ""
}

// DisplayName is the name used in stack traces and listings.
func (fn *Function) DisplayName() string {
	if fn.IsScript() {
		return "script"
	}
	return fn.Name
}

func (fn *Function) String() string {
	if fn.IsScript() {
		return "<script>"
	}
	return "<fn " + fn.Name + ">"
}
