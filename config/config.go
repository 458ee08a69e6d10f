// Package config handles lox.toml interpreter configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
)

// FileName is the configuration file looked up by FindAndLoad.
const FileName = "lox.toml"

// Config represents a lox.toml configuration.
type Config struct {
	VM          VM          `toml:"vm"`
	Diagnostics Diagnostics `toml:"diagnostics"`
	Log         Log         `toml:"log"`

	// Path is the file the configuration was read from, empty for defaults.
	Path string `toml:"-"`
}

// VM configures interpreter limits.
type VM struct {
	StackMax  int `toml:"stack-max"`
	FramesMax int `toml:"frames-max"`
}

// Diagnostics configures debugging output.
type Diagnostics struct {
	TraceExecution bool `toml:"trace-execution"`
	PrintCode      bool `toml:"print-code"`
}

// Log configures commonlog.
type Log struct {
	Verbosity int    `toml:"verbosity"`
	File      string `toml:"file"`
}

// Default returns the configuration used when no lox.toml exists.
func Default() *Config {
	return &Config{
		VM: VM{
			StackMax:  64 * 256,
			FramesMax: 64,
		},
	}
}

// LoadFile parses the configuration at path. Keys the file omits keep
// their defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	c := Default()
	if _, err := toml.Decode(string(data), c); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	c.Path, err = filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", path, err)
	}
	return c, nil
}

// Load parses the lox.toml file in dir.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, FileName))
}

// FindAndLoad walks up from startDir to find a lox.toml file and loads it.
// Returns the defaults if none is found.
func FindAndLoad(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, FileName)); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return Default(), nil
		}
		dir = parent
	}
}

// ApplyEnv overrides diagnostics from TRACE_EXECUTION and PRINT_CODE.
// Unset or unparsable values leave the setting alone.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v, ok := envBool(getenv, "TRACE_EXECUTION"); ok {
		c.Diagnostics.TraceExecution = v
	}
	if v, ok := envBool(getenv, "PRINT_CODE"); ok {
		c.Diagnostics.PrintCode = v
	}
}

func envBool(getenv func(string) string, key string) (bool, bool) {
	s := getenv(key)
	if s == "" {
		return false, false
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, false
	}
	return v, true
}

// Validate reports every out-of-range setting.
func (c *Config) Validate() error {
	var errs []error
	if c.VM.StackMax <= 0 {
		errs = append(errs, fmt.Errorf("vm.stack-max must be positive, got %d", c.VM.StackMax))
	}
	if c.VM.FramesMax <= 0 {
		errs = append(errs, fmt.Errorf("vm.frames-max must be positive, got %d", c.VM.FramesMax))
	}
	if c.Log.Verbosity < 0 {
		errs = append(errs, fmt.Errorf("log.verbosity must not be negative, got %d", c.Log.Verbosity))
	}
	return errors.Join(errs...)
}
