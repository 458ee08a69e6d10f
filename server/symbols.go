package server

import (
	"fmt"
	"strings"

	"github.com/chazu/lox/compiler"
)

type declKind int

const (
	declVariable declKind = iota
	declFunction
	declParameter
)

// declaration is a name introduced by var, fun or a parameter list.
type declaration struct {
	Name   string
	Kind   declKind
	Line   int
	Params []string // functions only
}

func (d declaration) signature() string {
	return fmt.Sprintf("fun %s(%s)", d.Name, strings.Join(d.Params, ", "))
}

// declarations scans text for declared names in source order. It works on
// tokens alone, so documents that do not compile still yield completions.
func declarations(text string) []declaration {
	var decls []declaration
	scanner := compiler.NewScanner(text)

	next := scanner.ScanToken()
	advance := func() compiler.Token {
		tok := next
		next = scanner.ScanToken()
		return tok
	}

	for next.Type != compiler.TokenEOF {
		tok := advance()
		switch tok.Type {
		case compiler.TokenVar:
			if next.Type == compiler.TokenIdentifier {
				name := advance()
				decls = append(decls, declaration{Name: name.Lexeme, Kind: declVariable, Line: name.Line})
			}

		case compiler.TokenFun:
			if next.Type != compiler.TokenIdentifier {
				continue
			}
			name := advance()
			fn := declaration{Name: name.Lexeme, Kind: declFunction, Line: name.Line}
			var params []declaration
			if next.Type == compiler.TokenLeftParen {
				advance()
				for next.Type == compiler.TokenIdentifier || next.Type == compiler.TokenComma {
					p := advance()
					if p.Type == compiler.TokenIdentifier {
						fn.Params = append(fn.Params, p.Lexeme)
						params = append(params, declaration{Name: p.Lexeme, Kind: declParameter, Line: p.Line})
					}
				}
			}
			decls = append(decls, fn)
			decls = append(decls, params...)
		}
	}
	return decls
}
