package compiler

// Precedence levels, lowest to highest.
type Precedence int

const (
	PrecNone Precedence = iota
	PrecAssignment // =
	PrecOr         // or
	PrecAnd        // and
	PrecEquality   // == !=
	PrecComparison // < > <= >=
	PrecTerm       // + -
	PrecFactor     // * /
	PrecUnary      // ! -
	PrecCall       // ()
	PrecPrimary
)

// parseFn handles one prefix or infix construct. canAssign is true when
// the construct appears where an assignment may follow.
type parseFn func(c *Compiler, canAssign bool)

type parseRule struct {
	prefix     parseFn
	infix      parseFn
	precedence Precedence
}

// rules is indexed by TokenType. It is filled in init because the handlers
// refer back to the table through parsePrecedence.
var rules [tokenTypeCount]parseRule

func init() {
	rules[TokenLeftParen] = parseRule{(*Compiler).grouping, (*Compiler).call, PrecCall}
	rules[TokenMinus] = parseRule{(*Compiler).unary, (*Compiler).binary, PrecTerm}
	rules[TokenPlus] = parseRule{nil, (*Compiler).binary, PrecTerm}
	rules[TokenSlash] = parseRule{nil, (*Compiler).binary, PrecFactor}
	rules[TokenStar] = parseRule{nil, (*Compiler).binary, PrecFactor}
	rules[TokenBang] = parseRule{(*Compiler).unary, nil, PrecNone}
	rules[TokenBangEqual] = parseRule{nil, (*Compiler).binary, PrecEquality}
	rules[TokenEqualEqual] = parseRule{nil, (*Compiler).binary, PrecEquality}
	rules[TokenGreater] = parseRule{nil, (*Compiler).binary, PrecComparison}
	rules[TokenGreaterEqual] = parseRule{nil, (*Compiler).binary, PrecComparison}
	rules[TokenLess] = parseRule{nil, (*Compiler).binary, PrecComparison}
	rules[TokenLessEqual] = parseRule{nil, (*Compiler).binary, PrecComparison}
	rules[TokenIdentifier] = parseRule{(*Compiler).variable, nil, PrecNone}
	rules[TokenString] = parseRule{(*Compiler).str, nil, PrecNone}
	rules[TokenNumber] = parseRule{(*Compiler).number, nil, PrecNone}
	rules[TokenAnd] = parseRule{nil, (*Compiler).and, PrecAnd}
	rules[TokenOr] = parseRule{nil, (*Compiler).or, PrecOr}
	rules[TokenFalse] = parseRule{(*Compiler).literal, nil, PrecNone}
	rules[TokenNil] = parseRule{(*Compiler).literal, nil, PrecNone}
	rules[TokenTrue] = parseRule{(*Compiler).literal, nil, PrecNone}
}

func getRule(t TokenType) *parseRule {
	return &rules[t]
}
