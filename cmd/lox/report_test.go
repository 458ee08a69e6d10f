package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chazu/lox/compiler"
)

func TestFormatSnippet(t *testing.T) {
	tests := []struct {
		name   string
		source string
		err    compiler.Error
		want   string
	}{
		{
			name:   "lexeme",
			source: "var x = 1;\nprint y z;",
			err:    compiler.Error{Line: 2, Column: 9, Length: 1},
			want:   "    2 | print y z;\n                ^\n",
		},
		{
			name:   "multi-byte lexeme",
			source: "print total 1;",
			err:    compiler.Error{Line: 1, Column: 7, Length: 5},
			want:   "    1 | print total 1;\n              ^^^^^\n",
		},
		{
			name:   "wide characters",
			source: "print \"日本\" +;",
			err:    compiler.Error{Line: 1, Column: 17, Length: 1},
			want:   "    1 | print \"日本\" +;\n" + strings.Repeat(" ", 22) + "^\n",
		},
		{
			name:   "tab",
			source: "\tprint ;",
			err:    compiler.Error{Line: 1, Column: 8, Length: 1},
			want:   "    1 | \tprint ;\n        \t      ^\n",
		},
		{
			name:   "end of input",
			source: "print 1",
			err:    compiler.Error{Line: 1, Column: 8, Length: 0},
			want:   "    1 | print 1\n               ^\n",
		},
		{
			name:   "line out of range",
			source: "print 1;",
			err:    compiler.Error{Line: 4, Column: 1, Length: 1},
			want:   "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatSnippet(tt.source, &tt.err))
		})
	}
}

func TestReportPassesErrorThrough(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, report(&buf, "", nil))
	assert.Empty(t, buf.String())

	err := errors.New("boom")
	assert.Equal(t, err, report(&buf, "", err))
	assert.Equal(t, "boom\n", buf.String())
}
