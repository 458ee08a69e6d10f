package compiler

import (
	"strconv"

	"github.com/chazu/lox/pkg/bytecode"
)

// ---------------------------------------------------------------------------
// Expressions (Pratt parsing)
// ---------------------------------------------------------------------------

func (c *Compiler) expression() {
	c.parsePrecedence(PrecAssignment)
}

// parsePrecedence parses one prefix construct and then every infix
// operator that binds at least as tightly as prec.
func (c *Compiler) parsePrecedence(prec Precedence) {
	c.advance()
	prefix := getRule(c.previous.Type).prefix
	if prefix == nil {
		c.error("Expect expression.")
		return
	}

	canAssign := prec <= PrecAssignment
	prefix(c, canAssign)

	for prec <= getRule(c.current.Type).precedence {
		c.advance()
		infix := getRule(c.previous.Type).infix
		infix(c, canAssign)
	}

	// An '=' left over here followed something that is not a variable
	if canAssign && c.match(TokenEqual) {
		c.error("Invalid assignment target.")
	}
}

func (c *Compiler) grouping(bool) {
	c.expression()
	c.consume(TokenRightParen, "Expect ')' after expression.")
}

func (c *Compiler) number(bool) {
	n, err := strconv.ParseFloat(c.previous.Lexeme, 64)
	if err != nil {
		c.error("Invalid number literal.")
		return
	}
	c.emitConstant(bytecode.NumberValue(n))
}

func (c *Compiler) str(bool) {
	lexeme := c.previous.Lexeme
	// Trim the surrounding quotes
	h := c.heap.Intern(lexeme[1 : len(lexeme)-1])
	c.emitConstant(bytecode.ObjectValue(h))
}

func (c *Compiler) literal(bool) {
	switch c.previous.Type {
	case TokenFalse:
		c.emitOp(bytecode.OpFalse)
	case TokenNil:
		c.emitOp(bytecode.OpNil)
	case TokenTrue:
		c.emitOp(bytecode.OpTrue)
	}
}

func (c *Compiler) variable(canAssign bool) {
	c.namedVariable(c.previous, canAssign)
}

func (c *Compiler) unary(bool) {
	operator := c.previous.Type

	c.parsePrecedence(PrecUnary)

	switch operator {
	case TokenBang:
		c.emitOp(bytecode.OpNot)
	case TokenMinus:
		c.emitOp(bytecode.OpNegate)
	}
}

func (c *Compiler) binary(bool) {
	operator := c.previous.Type
	rule := getRule(operator)
	c.parsePrecedence(rule.precedence + 1)

	switch operator {
	case TokenBangEqual:
		c.emitOp(bytecode.OpEqual)
		c.emitOp(bytecode.OpNot)
	case TokenEqualEqual:
		c.emitOp(bytecode.OpEqual)
	case TokenGreater:
		c.emitOp(bytecode.OpGreater)
	case TokenGreaterEqual:
		c.emitOp(bytecode.OpLess)
		c.emitOp(bytecode.OpNot)
	case TokenLess:
		c.emitOp(bytecode.OpLess)
	case TokenLessEqual:
		c.emitOp(bytecode.OpGreater)
		c.emitOp(bytecode.OpNot)
	case TokenPlus:
		c.emitOp(bytecode.OpAdd)
	case TokenMinus:
		c.emitOp(bytecode.OpSubtract)
	case TokenStar:
		c.emitOp(bytecode.OpMultiply)
	case TokenSlash:
		c.emitOp(bytecode.OpDivide)
	}
}

// and leaves the left operand on the stack when it is falsey and skips
// the right operand.
func (c *Compiler) and(bool) {
	endJump := c.emitJump(bytecode.OpJumpIfFalse)

	c.emitOp(bytecode.OpPop)
	c.parsePrecedence(PrecAnd)

	c.patchJump(endJump)
}

// or leaves the left operand on the stack when it is truthy.
func (c *Compiler) or(bool) {
	elseJump := c.emitJump(bytecode.OpJumpIfFalse)
	endJump := c.emitJump(bytecode.OpJump)

	c.patchJump(elseJump)
	c.emitOp(bytecode.OpPop)

	c.parsePrecedence(PrecOr)
	c.patchJump(endJump)
}

func (c *Compiler) call(bool) {
	argCount := c.argumentList()
	c.emitOpByte(bytecode.OpCall, argCount)
}

func (c *Compiler) argumentList() byte {
	argCount := 0
	if !c.check(TokenRightParen) {
		for {
			c.expression()
			if argCount == MaxParams {
				c.error("Can't have more than 255 arguments.")
			}
			argCount++
			if !c.match(TokenComma) {
				break
			}
		}
	}
	c.consume(TokenRightParen, "Expect ')' after arguments.")
	return byte(argCount)
}
