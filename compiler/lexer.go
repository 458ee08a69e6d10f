package compiler

// ---------------------------------------------------------------------------
// Scanner: pull-based tokenizer for Lox source
// ---------------------------------------------------------------------------

// Scanner tokenizes Lox source code one token at a time. The compiler
// pulls tokens with ScanToken; no token list is ever materialized.
type Scanner struct {
	input     string
	start     int // offset of the token being scanned
	current   int // offset of the next unread byte
	line      int // current line (1-based)
	lineStart int // offset of the current line's first byte

	tokLine   int // line where the current token started
	tokColumn int // column where the current token started
}

// NewScanner creates a new scanner for the given input.
func NewScanner(input string) *Scanner {
	return &Scanner{
		input: input,
		line:  1,
	}
}

// ScanToken returns the next token. After the end of input it keeps
// returning TokenEOF.
func (s *Scanner) ScanToken() Token {
	s.skipWhitespaceAndComments()
	s.start = s.current
	s.tokLine = s.line
	s.tokColumn = s.start - s.lineStart + 1

	if s.isAtEnd() {
		return s.makeToken(TokenEOF)
	}

	c := s.advance()
	switch {
	case isAlpha(c):
		return s.readIdentifier()
	case isDigit(c):
		return s.readNumber()
	}

	switch c {
	case '(':
		return s.makeToken(TokenLeftParen)
	case ')':
		return s.makeToken(TokenRightParen)
	case '{':
		return s.makeToken(TokenLeftBrace)
	case '}':
		return s.makeToken(TokenRightBrace)
	case ';':
		return s.makeToken(TokenSemicolon)
	case ',':
		return s.makeToken(TokenComma)
	case '.':
		return s.makeToken(TokenDot)
	case '-':
		return s.makeToken(TokenMinus)
	case '+':
		return s.makeToken(TokenPlus)
	case '/':
		return s.makeToken(TokenSlash)
	case '*':
		return s.makeToken(TokenStar)
	case '!':
		return s.makeToken(s.pick('=', TokenBangEqual, TokenBang))
	case '=':
		return s.makeToken(s.pick('=', TokenEqualEqual, TokenEqual))
	case '<':
		return s.makeToken(s.pick('=', TokenLessEqual, TokenLess))
	case '>':
		return s.makeToken(s.pick('=', TokenGreaterEqual, TokenGreater))
	case '"':
		return s.readString()
	}

	return s.errorToken("Unexpected character.")
}

// pick consumes expected if it is next and returns match, else other.
func (s *Scanner) pick(expected byte, match, other TokenType) TokenType {
	if s.isAtEnd() || s.input[s.current] != expected {
		return other
	}
	s.current++
	return match
}

func (s *Scanner) isAtEnd() bool {
	return s.current >= len(s.input)
}

func (s *Scanner) advance() byte {
	c := s.input[s.current]
	s.current++
	return c
}

func (s *Scanner) peek() byte {
	if s.isAtEnd() {
		return 0
	}
	return s.input[s.current]
}

func (s *Scanner) peekNext() byte {
	if s.current+1 >= len(s.input) {
		return 0
	}
	return s.input[s.current+1]
}

// newline records that the byte just consumed was '\n'.
func (s *Scanner) newline() {
	s.line++
	s.lineStart = s.current
}

// skipWhitespaceAndComments skips whitespace and // line comments.
func (s *Scanner) skipWhitespaceAndComments() {
	for {
		switch s.peek() {
		case ' ', '\r', '\t':
			s.current++
		case '\n':
			s.current++
			s.newline()
		case '/':
			if s.peekNext() != '/' {
				return
			}
			// A comment goes until the end of the line
			for s.peek() != '\n' && !s.isAtEnd() {
				s.current++
			}
		default:
			return
		}
	}
}

// readString scans a double-quoted string. Strings may span lines and
// have no escape sequences.
func (s *Scanner) readString() Token {
	for s.peek() != '"' && !s.isAtEnd() {
		if s.advance() == '\n' {
			s.newline()
		}
	}

	if s.isAtEnd() {
		return s.errorToken("Unterminated string.")
	}

	// The closing quote
	s.current++
	return s.makeToken(TokenString)
}

// readNumber scans digits with an optional fractional part.
func (s *Scanner) readNumber() Token {
	for isDigit(s.peek()) {
		s.current++
	}

	// Look for a fractional part
	if s.peek() == '.' && isDigit(s.peekNext()) {
		s.current++
		for isDigit(s.peek()) {
			s.current++
		}
	}

	return s.makeToken(TokenNumber)
}

// readIdentifier scans an identifier or reserved word.
func (s *Scanner) readIdentifier() Token {
	for isAlpha(s.peek()) || isDigit(s.peek()) {
		s.current++
	}
	if typ, ok := keywords[s.input[s.start:s.current]]; ok {
		return s.makeToken(typ)
	}
	return s.makeToken(TokenIdentifier)
}

func (s *Scanner) makeToken(typ TokenType) Token {
	return Token{
		Type:   typ,
		Lexeme: s.input[s.start:s.current],
		Line:   s.tokLine,
		Column: s.tokColumn,
	}
}

func (s *Scanner) errorToken(message string) Token {
	return Token{
		Type:   TokenError,
		Lexeme: message,
		Line:   s.line,
		Column: s.tokColumn,
	}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}
