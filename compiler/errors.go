package compiler

import (
	"fmt"
	"strings"
)

// Error is a single compile diagnostic.
type Error struct {
	Line    int    // 1-based source line
	Column  int    // 1-based byte column of the offending token
	Length  int    // byte length of the offending lexeme (0 at end of input)
	Where   string // " at 'x'", " at end" or empty for scanner errors
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("[line %d] Error%s: %s", e.Line, e.Where, e.Message)
}

// ErrorList collects every diagnostic reported by one Compile call.
type ErrorList []*Error

func (l ErrorList) Error() string {
	msgs := make([]string, len(l))
	for i, e := range l {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "\n")
}

// Messages returns the bare message of each error, in report order.
func (l ErrorList) Messages() []string {
	msgs := make([]string, len(l))
	for i, e := range l {
		msgs[i] = e.Message
	}
	return msgs
}
