package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScript(t *testing.T, source string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.lox")
	require.NoError(t, os.WriteFile(path, []byte(source), 0644))
	return path
}

func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRunFile(t *testing.T) {
	path := writeScript(t, `
fun add(a, b) { return a + b; }
print add(1, 2);
print "lo" + "x";
`)
	code, stdout, stderr := runCLI(t, "", path)
	assert.Equal(t, exitOK, code)
	assert.Equal(t, "3\nlox\n", stdout)
	assert.Empty(t, stderr)
}

func TestRunFileCompileError(t *testing.T) {
	path := writeScript(t, "print 1 +;\n")
	code, stdout, stderr := runCLI(t, "", path)
	assert.Equal(t, exitDataErr, code)
	assert.Empty(t, stdout)
	assert.Equal(t, "[line 1] Error at ';': Expect expression.\n"+
		"    1 | print 1 +;\n"+
		"                 ^\n", stderr)
}

func TestRunFileRuntimeError(t *testing.T) {
	path := writeScript(t, "print \"before\";\nprint -\"x\";\n")
	code, stdout, stderr := runCLI(t, "", path)
	assert.Equal(t, exitSoftware, code)
	assert.Equal(t, "before\n", stdout)
	assert.Equal(t, "Operand must be a number.\n[line 2] in script\n", stderr)
}

func TestRunFileMissing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.lox")
	code, _, stderr := runCLI(t, "", missing)
	assert.Equal(t, exitIOErr, code)
	assert.Contains(t, stderr, "Could not open file")
}

func TestUsageErrors(t *testing.T) {
	code, _, stderr := runCLI(t, "", "a.lox", "b.lox")
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr, "Usage: lox")

	code, _, _ = runCLI(t, "", "-no-such-flag")
	assert.Equal(t, exitUsage, code)
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "lox.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("[vm]\nframes-max = 4\n"), 0644))

	path := writeScript(t, "fun f(n) { return f(n + 1); }\nf(0);\n")
	code, _, stderr := runCLI(t, "", "-config", cfgPath, path)
	assert.Equal(t, exitSoftware, code)
	assert.True(t, strings.HasPrefix(stderr, "Stack overflow.\n"), stderr)
	assert.Equal(t, 4, strings.Count(stderr, "\n[line"), "three f() frames and the script")
}

func TestInvalidConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "lox.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("[vm]\nstack-max = -1\n"), 0644))

	code, _, stderr := runCLI(t, "", "-config", cfgPath)
	assert.Equal(t, exitConfig, code)
	assert.Contains(t, stderr, "vm.stack-max")
}

func TestPrintCodeFlag(t *testing.T) {
	path := writeScript(t, "print 1;\n")
	code, stdout, stderr := runCLI(t, "", "-print-code", path)
	assert.Equal(t, exitOK, code)
	assert.Equal(t, "1\n", stdout)
	assert.Contains(t, stderr, "== <script> ==")
	assert.Contains(t, stderr, "OP_PRINT")
}

func TestTraceFlag(t *testing.T) {
	path := writeScript(t, "print 1;\n")
	code, _, stderr := runCLI(t, "", "-trace", path)
	assert.Equal(t, exitOK, code)
	assert.Contains(t, stderr, "OP_CONSTANT")
	assert.Contains(t, stderr, "[ <script> ]")
}

func TestREPL(t *testing.T) {
	input := "var a = 1;\nprint a + 1;\nprint b;\nfun twice(x) { return x * 2; }\nprint twice(a);\n"
	code, stdout, stderr := runCLI(t, input)
	assert.Equal(t, exitOK, code)
	assert.Equal(t, "2\n2\n", stdout, "no prompt when stdin is not a terminal")
	assert.Equal(t, "Undefined variable 'b'.\n[line 1] in script\n", stderr)
}

func TestREPLCompileErrorContinues(t *testing.T) {
	code, stdout, stderr := runCLI(t, "print ;\nprint 7;\n")
	assert.Equal(t, exitOK, code)
	assert.Equal(t, "7\n", stdout)
	assert.Contains(t, stderr, "Expect expression.")
}
