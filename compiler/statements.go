package compiler

import "github.com/chazu/lox/pkg/bytecode"

// ---------------------------------------------------------------------------
// Declarations
// ---------------------------------------------------------------------------

func (c *Compiler) declaration() {
	switch {
	case c.match(TokenFun):
		c.funDeclaration()
	case c.match(TokenVar):
		c.varDeclaration()
	default:
		c.statement()
	}

	if c.panicMode {
		c.synchronize()
	}
}

func (c *Compiler) funDeclaration() {
	global := c.parseVariable("Expect function name.")
	// A function may refer to itself, so it is usable before its body ends
	c.markInitialized()
	c.function(KindFunction)
	c.defineVariable(global)
}

// function compiles a parameter list and body into a new Function and
// emits it as a constant of the enclosing chunk.
func (c *Compiler) function(kind FunctionKind) {
	c.pushFunction(kind, c.previous.Lexeme)
	c.beginScope()

	c.consume(TokenLeftParen, "Expect '(' after function name.")
	if !c.check(TokenRightParen) {
		for {
			fn := c.state().function
			fn.Arity++
			if fn.Arity > MaxParams {
				c.errorAtCurrent("Can't have more than 255 parameters.")
			}
			constant := c.parseVariable("Expect parameter name.")
			c.defineVariable(constant)
			if !c.match(TokenComma) {
				break
			}
		}
	}
	c.consume(TokenRightParen, "Expect ')' after parameters.")
	c.consume(TokenLeftBrace, "Expect '{' before function body.")
	c.block()

	// No endScope: the frame is discarded wholesale on return
	fn := c.popFunction()
	c.emitConstant(bytecode.ObjectValue(c.heap.AllocFunction(fn)))
}

func (c *Compiler) varDeclaration() {
	global := c.parseVariable("Expect variable name.")

	if c.match(TokenEqual) {
		c.expression()
	} else {
		c.emitOp(bytecode.OpNil)
	}
	c.consume(TokenSemicolon, "Expect ';' after variable declaration.")

	c.defineVariable(global)
}

// ---------------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------------

func (c *Compiler) statement() {
	switch {
	case c.match(TokenPrint):
		c.printStatement()
	case c.match(TokenFor):
		c.forStatement()
	case c.match(TokenIf):
		c.ifStatement()
	case c.match(TokenReturn):
		c.returnStatement()
	case c.match(TokenWhile):
		c.whileStatement()
	case c.match(TokenLeftBrace):
		c.beginScope()
		c.block()
		c.endScope()
	default:
		c.expressionStatement()
	}
}

func (c *Compiler) block() {
	for !c.check(TokenRightBrace) && !c.check(TokenEOF) {
		c.declaration()
	}
	c.consume(TokenRightBrace, "Expect '}' after block.")
}

func (c *Compiler) printStatement() {
	c.expression()
	c.consume(TokenSemicolon, "Expect ';' after value.")
	c.emitOp(bytecode.OpPrint)
}

func (c *Compiler) expressionStatement() {
	c.expression()
	c.consume(TokenSemicolon, "Expect ';' after expression.")
	c.emitOp(bytecode.OpPop)
}

func (c *Compiler) returnStatement() {
	if c.state().kind == KindScript {
		c.error("Can't return from top-level code.")
	}

	if c.match(TokenSemicolon) {
		c.emitReturn()
		return
	}
	c.expression()
	c.consume(TokenSemicolon, "Expect ';' after return value.")
	c.emitOp(bytecode.OpReturn)
}

func (c *Compiler) ifStatement() {
	c.consume(TokenLeftParen, "Expect '(' after 'if'.")
	c.expression()
	c.consume(TokenRightParen, "Expect ')' after condition.")

	// JumpIfFalse leaves the condition on the stack; each branch pops it
	thenJump := c.emitJump(bytecode.OpJumpIfFalse)
	c.emitOp(bytecode.OpPop)
	c.statement()

	elseJump := c.emitJump(bytecode.OpJump)
	c.patchJump(thenJump)
	c.emitOp(bytecode.OpPop)

	if c.match(TokenElse) {
		c.statement()
	}
	c.patchJump(elseJump)
}

func (c *Compiler) whileStatement() {
	loopStart := c.currentChunk().CodeLen()
	c.consume(TokenLeftParen, "Expect '(' after 'while'.")
	c.expression()
	c.consume(TokenRightParen, "Expect ')' after condition.")

	exitJump := c.emitJump(bytecode.OpJumpIfFalse)
	c.emitOp(bytecode.OpPop)
	c.statement()
	c.emitLoop(loopStart)

	c.patchJump(exitJump)
	c.emitOp(bytecode.OpPop)
}

// forStatement lowers for (init; cond; incr) body into a scope holding
// init followed by a while loop whose body runs incr after each pass.
func (c *Compiler) forStatement() {
	c.beginScope()
	c.consume(TokenLeftParen, "Expect '(' after 'for'.")
	switch {
	case c.match(TokenSemicolon):
		// No initializer
	case c.match(TokenVar):
		c.varDeclaration()
	default:
		c.expressionStatement()
	}

	loopStart := c.currentChunk().CodeLen()
	exitJump := -1
	if !c.match(TokenSemicolon) {
		c.expression()
		c.consume(TokenSemicolon, "Expect ';' after loop condition.")

		exitJump = c.emitJump(bytecode.OpJumpIfFalse)
		c.emitOp(bytecode.OpPop)
	}

	if !c.match(TokenRightParen) {
		bodyJump := c.emitJump(bytecode.OpJump)
		incrementStart := c.currentChunk().CodeLen()
		c.expression()
		c.emitOp(bytecode.OpPop)
		c.consume(TokenRightParen, "Expect ')' after for clauses.")

		c.emitLoop(loopStart)
		loopStart = incrementStart
		c.patchJump(bodyJump)
	}

	c.statement()
	c.emitLoop(loopStart)

	if exitJump != -1 {
		c.patchJump(exitJump)
		c.emitOp(bytecode.OpPop)
	}
	c.endScope()
}
