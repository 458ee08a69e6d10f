package compiler

import (
	"fmt"

	"github.com/tliron/commonlog"

	"github.com/chazu/lox/pkg/bytecode"
)

// ---------------------------------------------------------------------------
// Compiler: single-pass Lox source to bytecode
// ---------------------------------------------------------------------------

const (
	// MaxLocals is the number of local slots addressable by a one-byte operand.
	MaxLocals = 256
	// MaxParams bounds both parameters and call arguments.
	MaxParams = 255
)

// FunctionKind distinguishes the implicit script from declared functions.
type FunctionKind int

const (
	KindFunction FunctionKind = iota
	KindScript
)

// Local is a compile-time record of a local variable. Depth is -1 between
// declaration and the end of the initializer.
type Local struct {
	Name  string
	Depth int
}

// funcState is the per-function compilation context. Nested function
// declarations push a new state; finishing the body pops it.
type funcState struct {
	function   *bytecode.Function
	kind       FunctionKind
	locals     []Local
	scopeDepth int
}

// Compiler parses tokens and emits bytecode in the same pass.
type Compiler struct {
	scanner  *Scanner
	heap     *bytecode.Heap
	previous Token
	current  Token

	hadError  bool
	panicMode bool
	errors    ErrorList

	states []*funcState

	log commonlog.Logger
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithLogger sets the logger used for compile-time debug output.
func WithLogger(log commonlog.Logger) Option {
	return func(c *Compiler) {
		if log != nil {
			c.log = log
		}
	}
}

// NewCompiler creates a compiler for source that allocates strings and
// functions on heap.
func NewCompiler(source string, heap *bytecode.Heap, opts ...Option) *Compiler {
	c := &Compiler{
		scanner: NewScanner(source),
		heap:    heap,
		log:     commonlog.GetLogger("lox.compiler"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile compiles source into the top-level script function.
// On failure the error is an ErrorList holding every reported error.
func Compile(source string, heap *bytecode.Heap, opts ...Option) (*bytecode.Function, error) {
	return NewCompiler(source, heap, opts...).Compile()
}

// Compile runs the compiler to the end of input.
func (c *Compiler) Compile() (*bytecode.Function, error) {
	c.pushFunction(KindScript, "")
	c.advance()
	for !c.match(TokenEOF) {
		c.declaration()
	}
	fn := c.popFunction()

	if c.hadError {
		c.log.Debugf("compile failed with %d error(s)", len(c.errors))
		return nil, c.errors
	}
	return fn, nil
}

// Errors returns accumulated compile errors.
func (c *Compiler) Errors() ErrorList {
	return c.errors
}

// ---------------------------------------------------------------------------
// Function contexts
// ---------------------------------------------------------------------------

func (c *Compiler) state() *funcState {
	return c.states[len(c.states)-1]
}

func (c *Compiler) currentChunk() *bytecode.Chunk {
	return c.state().function.Chunk
}

func (c *Compiler) pushFunction(kind FunctionKind, name string) {
	st := &funcState{
		function: bytecode.NewFunction(name),
		kind:     kind,
		locals:   make([]Local, 0, 8),
	}
	// Slot 0 holds the callee itself
	st.locals = append(st.locals, Local{Name: "", Depth: 0})
	c.states = append(c.states, st)
}

func (c *Compiler) popFunction() *bytecode.Function {
	c.emitReturn()
	fn := c.state().function
	c.states = c.states[:len(c.states)-1]

	if !c.hadError {
		c.log.Debugf("compiled %s: %d bytes, %d constants",
			fn.DisplayName(), fn.Chunk.CodeLen(), fn.Chunk.ConstantCount())
	}
	return fn
}

// ---------------------------------------------------------------------------
// Token handling
// ---------------------------------------------------------------------------

func (c *Compiler) advance() {
	c.previous = c.current
	for {
		c.current = c.scanner.ScanToken()
		if c.current.Type != TokenError {
			break
		}
		c.errorAtCurrent(c.current.Lexeme)
	}
}

func (c *Compiler) consume(t TokenType, message string) {
	if c.current.Type == t {
		c.advance()
		return
	}
	c.errorAtCurrent(message)
}

func (c *Compiler) check(t TokenType) bool {
	return c.current.Type == t
}

func (c *Compiler) match(t TokenType) bool {
	if !c.check(t) {
		return false
	}
	c.advance()
	return true
}

// ---------------------------------------------------------------------------
// Error reporting
// ---------------------------------------------------------------------------

func (c *Compiler) error(message string) {
	c.errorAt(c.previous, message)
}

func (c *Compiler) errorAtCurrent(message string) {
	c.errorAt(c.current, message)
}

// errorAt records an error unless the compiler is already in panic mode,
// which suppresses cascades until the next statement boundary.
func (c *Compiler) errorAt(tok Token, message string) {
	if c.panicMode {
		return
	}
	c.panicMode = true
	c.hadError = true

	e := &Error{
		Line:    tok.Line,
		Column:  tok.Column,
		Length:  len(tok.Lexeme),
		Message: message,
	}
	switch tok.Type {
	case TokenEOF:
		e.Where = " at end"
	case TokenError:
		// Lexeme holds the scanner message, not source text
		e.Length = 1
	default:
		e.Where = fmt.Sprintf(" at '%s'", tok.Lexeme)
	}
	c.errors = append(c.errors, e)
}

// synchronize discards tokens until a likely statement boundary.
func (c *Compiler) synchronize() {
	c.panicMode = false

	for c.current.Type != TokenEOF {
		if c.previous.Type == TokenSemicolon {
			return
		}
		switch c.current.Type {
		case TokenClass, TokenFun, TokenVar, TokenFor, TokenIf,
			TokenWhile, TokenPrint, TokenReturn:
			return
		}
		c.advance()
	}
}

// ---------------------------------------------------------------------------
// Emission
// ---------------------------------------------------------------------------

func (c *Compiler) emitByte(b byte) {
	c.currentChunk().Write(b, c.previous.Line)
}

func (c *Compiler) emitOp(op bytecode.Opcode) {
	c.emitByte(byte(op))
}

func (c *Compiler) emitOpByte(op bytecode.Opcode, operand byte) {
	c.emitByte(byte(op))
	c.emitByte(operand)
}

func (c *Compiler) emitReturn() {
	c.emitOp(bytecode.OpNil)
	c.emitOp(bytecode.OpReturn)
}

// makeConstant adds v to the pool and returns its one-byte index.
func (c *Compiler) makeConstant(v bytecode.Value) byte {
	idx := c.currentChunk().AddConstant(v)
	if idx >= bytecode.MaxConstants {
		c.error("Too many constants in one chunk.")
		return 0
	}
	return byte(idx)
}

func (c *Compiler) emitConstant(v bytecode.Value) {
	c.emitOpByte(bytecode.OpConstant, c.makeConstant(v))
}

// emitJump writes op with a 0xFFFF placeholder and returns the offset of
// the placeholder for patchJump.
func (c *Compiler) emitJump(op bytecode.Opcode) int {
	c.emitOp(op)
	c.emitByte(0xFF)
	c.emitByte(0xFF)
	return c.currentChunk().CodeLen() - 2
}

// patchJump points the placeholder at offset to the current end of code.
func (c *Compiler) patchJump(offset int) {
	// -2 to skip over the operand itself
	jump := c.currentChunk().CodeLen() - offset - 2
	if jump > bytecode.MaxJump {
		c.error("Too much code to jump over.")
		return
	}
	c.currentChunk().PutUint16(offset, uint16(jump))
}

// emitLoop emits a backward jump to loopStart.
func (c *Compiler) emitLoop(loopStart int) {
	c.emitOp(bytecode.OpLoop)

	offset := c.currentChunk().CodeLen() - loopStart + 2
	if offset > bytecode.MaxJump {
		c.error("Loop body too large.")
	}
	c.emitByte(byte(offset >> 8))
	c.emitByte(byte(offset))
}

// ---------------------------------------------------------------------------
// Scopes and variables
// ---------------------------------------------------------------------------

func (c *Compiler) beginScope() {
	c.state().scopeDepth++
}

// endScope discards the locals of the scope being left, one OpPop each.
func (c *Compiler) endScope() {
	st := c.state()
	st.scopeDepth--
	for len(st.locals) > 0 && st.locals[len(st.locals)-1].Depth > st.scopeDepth {
		c.emitOp(bytecode.OpPop)
		st.locals = st.locals[:len(st.locals)-1]
	}
}

func (c *Compiler) identifierConstant(name Token) byte {
	return c.makeConstant(bytecode.ObjectValue(c.heap.Intern(name.Lexeme)))
}

func (c *Compiler) addLocal(name Token) {
	st := c.state()
	if len(st.locals) == MaxLocals {
		c.error("Too many local variables in function.")
		return
	}
	st.locals = append(st.locals, Local{Name: name.Lexeme, Depth: -1})
}

// declareVariable records a local in the current scope. Globals are late
// bound and need no declaration.
func (c *Compiler) declareVariable() {
	st := c.state()
	if st.scopeDepth == 0 {
		return
	}

	name := c.previous
	for i := len(st.locals) - 1; i >= 0; i-- {
		local := st.locals[i]
		if local.Depth != -1 && local.Depth < st.scopeDepth {
			break
		}
		if local.Name == name.Lexeme {
			c.error("Already a variable with this name in this scope.")
		}
	}
	c.addLocal(name)
}

// parseVariable consumes a variable name and returns its name constant
// (globals) or 0 (locals).
func (c *Compiler) parseVariable(message string) byte {
	c.consume(TokenIdentifier, message)

	c.declareVariable()
	if c.state().scopeDepth > 0 {
		return 0
	}
	return c.identifierConstant(c.previous)
}

func (c *Compiler) markInitialized() {
	st := c.state()
	if st.scopeDepth == 0 {
		return
	}
	st.locals[len(st.locals)-1].Depth = st.scopeDepth
}

func (c *Compiler) defineVariable(global byte) {
	if c.state().scopeDepth > 0 {
		c.markInitialized()
		return
	}
	c.emitOpByte(bytecode.OpDefineGlobal, global)
}

// resolveLocal finds the nearest local named name in the current function.
// Enclosing functions are not searched: names they declare resolve as
// globals at runtime.
func (c *Compiler) resolveLocal(name Token) int {
	st := c.state()
	for i := len(st.locals) - 1; i >= 0; i-- {
		if st.locals[i].Name == name.Lexeme {
			if st.locals[i].Depth == -1 {
				c.error("Can't read local variable in its own initializer.")
			}
			return i
		}
	}
	return -1
}

func (c *Compiler) namedVariable(name Token, canAssign bool) {
	var getOp, setOp bytecode.Opcode
	var arg byte
	if slot := c.resolveLocal(name); slot != -1 {
		arg = byte(slot)
		getOp, setOp = bytecode.OpGetLocal, bytecode.OpSetLocal
	} else {
		arg = c.identifierConstant(name)
		getOp, setOp = bytecode.OpGetGlobal, bytecode.OpSetGlobal
	}

	if canAssign && c.match(TokenEqual) {
		c.expression()
		c.emitOpByte(setOp, arg)
		return
	}
	c.emitOpByte(getOp, arg)
}
