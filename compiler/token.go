package compiler

import (
	"fmt"
	"sort"
)

// ---------------------------------------------------------------------------
// Token types for the Lox scanner
// ---------------------------------------------------------------------------

// TokenType represents the type of a token.
type TokenType int

const (
	// Single-character tokens
	TokenLeftParen TokenType = iota
	TokenRightParen
	TokenLeftBrace
	TokenRightBrace
	TokenComma
	TokenDot
	TokenMinus
	TokenPlus
	TokenSemicolon
	TokenSlash
	TokenStar

	// One or two character tokens
	TokenBang
	TokenBangEqual
	TokenEqual
	TokenEqualEqual
	TokenGreater
	TokenGreaterEqual
	TokenLess
	TokenLessEqual

	// Literals
	TokenIdentifier
	TokenString
	TokenNumber

	// Keywords
	TokenAnd
	TokenClass
	TokenElse
	TokenFalse
	TokenFor
	TokenFun
	TokenIf
	TokenNil
	TokenOr
	TokenPrint
	TokenReturn
	TokenSuper
	TokenThis
	TokenTrue
	TokenVar
	TokenWhile

	// Special tokens
	TokenError
	TokenEOF

	tokenTypeCount
)

var tokenNames = map[TokenType]string{
	TokenLeftParen:    "(",
	TokenRightParen:   ")",
	TokenLeftBrace:    "{",
	TokenRightBrace:   "}",
	TokenComma:        ",",
	TokenDot:          ".",
	TokenMinus:        "-",
	TokenPlus:         "+",
	TokenSemicolon:    ";",
	TokenSlash:        "/",
	TokenStar:         "*",
	TokenBang:         "!",
	TokenBangEqual:    "!=",
	TokenEqual:        "=",
	TokenEqualEqual:   "==",
	TokenGreater:      ">",
	TokenGreaterEqual: ">=",
	TokenLess:         "<",
	TokenLessEqual:    "<=",
	TokenIdentifier:   "IDENTIFIER",
	TokenString:       "STRING",
	TokenNumber:       "NUMBER",
	TokenAnd:          "and",
	TokenClass:        "class",
	TokenElse:         "else",
	TokenFalse:        "false",
	TokenFor:          "for",
	TokenFun:          "fun",
	TokenIf:           "if",
	TokenNil:          "nil",
	TokenOr:           "or",
	TokenPrint:        "print",
	TokenReturn:       "return",
	TokenSuper:        "super",
	TokenThis:         "this",
	TokenTrue:         "true",
	TokenVar:          "var",
	TokenWhile:        "while",
	TokenError:        "ERROR",
	TokenEOF:          "EOF",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Token(%d)", t)
}

// Token represents a lexical token. For TokenError the lexeme holds the
// error message instead of source text.
type Token struct {
	Type   TokenType
	Lexeme string // the raw text
	Line   int    // 1-based
	Column int    // 1-based, in bytes
}

func (t Token) String() string {
	if t.Type == TokenEOF {
		return "EOF"
	}
	if t.Type == TokenError {
		return fmt.Sprintf("ERROR(%s)", t.Lexeme)
	}
	if len(t.Lexeme) > 20 {
		return fmt.Sprintf("%s(%q...)", t.Type, t.Lexeme[:20])
	}
	return fmt.Sprintf("%s(%q)", t.Type, t.Lexeme)
}

// Reserved words mapped to their token types.
var keywords = map[string]TokenType{
	"and":    TokenAnd,
	"class":  TokenClass,
	"else":   TokenElse,
	"false":  TokenFalse,
	"for":    TokenFor,
	"fun":    TokenFun,
	"if":     TokenIf,
	"nil":    TokenNil,
	"or":     TokenOr,
	"print":  TokenPrint,
	"return": TokenReturn,
	"super":  TokenSuper,
	"this":   TokenThis,
	"true":   TokenTrue,
	"var":    TokenVar,
	"while":  TokenWhile,
}

// Keywords returns the reserved words of the language, sorted.
func Keywords() []string {
	words := make([]string, 0, len(keywords))
	for w := range keywords {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}
