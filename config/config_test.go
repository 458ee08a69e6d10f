package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0644))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
[vm]
stack-max = 512
frames-max = 8

[diagnostics]
trace-execution = true
print-code = true

[log]
verbosity = 2
file = "lox.log"
`)

	c, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 512, c.VM.StackMax)
	assert.Equal(t, 8, c.VM.FramesMax)
	assert.True(t, c.Diagnostics.TraceExecution)
	assert.True(t, c.Diagnostics.PrintCode)
	assert.Equal(t, 2, c.Log.Verbosity)
	assert.Equal(t, "lox.log", c.Log.File)
	assert.Equal(t, filepath.Join(dir, FileName), c.Path)
}

func TestLoadKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
[diagnostics]
print-code = true
`)

	c, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 64*256, c.VM.StackMax)
	assert.Equal(t, 64, c.VM.FramesMax)
	assert.True(t, c.Diagnostics.PrintCode)
	assert.False(t, c.Diagnostics.TraceExecution)
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadInvalid(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "[vm\nstack-max = ")

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse error")
}

func TestFindAndLoad(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "[vm]\nframes-max = 3\n")

	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))

	c, err := FindAndLoad(nested)
	require.NoError(t, err)
	assert.Equal(t, 3, c.VM.FramesMax)
	assert.Equal(t, filepath.Join(root, FileName), c.Path)
}

func TestFindAndLoadDefaults(t *testing.T) {
	// Assumes no lox.toml exists above the temp directory
	c, err := FindAndLoad(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"TRACE_EXECUTION": "true",
		"PRINT_CODE":      "nonsense",
	}
	c := Default()
	c.Diagnostics.PrintCode = true
	c.ApplyEnv(func(k string) string { return env[k] })

	assert.True(t, c.Diagnostics.TraceExecution)
	assert.True(t, c.Diagnostics.PrintCode, "unparsable value must not change the setting")

	env["PRINT_CODE"] = "0"
	c.ApplyEnv(func(k string) string { return env[k] })
	assert.False(t, c.Diagnostics.PrintCode)
}

func TestValidate(t *testing.T) {
	require.NoError(t, Default().Validate())

	c := Default()
	c.VM.StackMax = 0
	c.VM.FramesMax = -1
	err := c.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vm.stack-max")
	assert.Contains(t, err.Error(), "vm.frames-max")
}
