package vm

import (
	"io"
	"os"

	"github.com/tliron/commonlog"
)

const (
	// DefaultFramesMax is the default call depth limit.
	DefaultFramesMax = 64
	// DefaultStackMax is the default operand stack capacity: one full
	// frame of locals per possible call depth.
	DefaultStackMax = DefaultFramesMax * 256
)

// Config controls limits, output sinks and diagnostics of a VM.
// Zero fields take their defaults.
type Config struct {
	StackMax  int // operand stack capacity in values
	FramesMax int // maximum number of active calls

	Stdout io.Writer // destination of print statements
	Trace  io.Writer // destination of execution traces and listings

	TraceExecution bool // dump stack and instruction before each dispatch
	PrintCode      bool // list every compiled function before running

	Logger commonlog.Logger
}

func (c Config) withDefaults() Config {
	if c.StackMax <= 0 {
		c.StackMax = DefaultStackMax
	}
	if c.FramesMax <= 0 {
		c.FramesMax = DefaultFramesMax
	}
	if c.Stdout == nil {
		c.Stdout = os.Stdout
	}
	if c.Trace == nil {
		c.Trace = os.Stderr
	}
	if c.Logger == nil {
		c.Logger = commonlog.GetLogger("lox.vm")
	}
	return c
}
