package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/chazu/lox/compiler"
	"github.com/chazu/lox/vm"
)

// report writes err to w and returns it unchanged. Compile errors are
// followed by the offending source line with a caret underneath.
func report(w io.Writer, source string, err error) error {
	if err == nil {
		return nil
	}

	var ce *vm.CompileError
	if !errors.As(err, &ce) {
		fmt.Fprintln(w, err)
		return err
	}
	for _, e := range ce.Errors {
		fmt.Fprintln(w, e)
		fmt.Fprint(w, formatSnippet(source, e))
	}
	return err
}

// formatSnippet renders the source line of e with carets under the
// offending lexeme, or "" when the line is not in source.
func formatSnippet(source string, e *compiler.Error) string {
	lines := strings.Split(source, "\n")
	if e.Line < 1 || e.Line > len(lines) {
		return ""
	}
	linestr := strings.TrimSuffix(lines[e.Line-1], "\r")

	start := min(max(e.Column-1, 0), len(linestr))
	end := min(start+e.Length, len(linestr))

	var pad strings.Builder
	for _, r := range linestr[:start] {
		if r == '\t' {
			pad.WriteByte('\t')
			continue
		}
		pad.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	carets := max(runewidth.StringWidth(linestr[start:end]), 1)

	l := strconv.Itoa(e.Line)
	return fmt.Sprintf("    %s | %s\n    %s   %s%s\n",
		l, linestr, strings.Repeat(" ", len(l)), pad.String(), strings.Repeat("^", carets))
}
