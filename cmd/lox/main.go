// Lox CLI - runs a script file or starts an interactive session
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/tliron/commonlog"

	"github.com/chazu/lox/config"
	"github.com/chazu/lox/server"
	"github.com/chazu/lox/vm"

	_ "github.com/tliron/commonlog/simple"
)

// Exit codes follow sysexits.h.
const (
	exitOK       = 0
	exitUsage    = 64
	exitDataErr  = 65
	exitSoftware = 70
	exitIOErr    = 74
	exitConfig   = 78
)

var log = commonlog.GetLogger("lox.cli")

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// options holds the parsed command line.
type options struct {
	configPath string
	trace      bool
	printCode  bool
	verbosity  int
	logFile    string
	lsp        bool
	script     string

	set map[string]bool // flags given explicitly
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{set: make(map[string]bool)}

	fs := flag.NewFlagSet("lox", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "", "Path to lox.toml (default: search upward from the working directory)")
	fs.BoolVar(&opts.trace, "trace", false, "Trace the stack and each instruction while executing")
	fs.BoolVar(&opts.printCode, "print-code", false, "Disassemble every function after compiling")
	fs.IntVar(&opts.verbosity, "v", 0, "Log verbosity (0 quiet, 1 info, 2 debug)")
	fs.StringVar(&opts.logFile, "log-file", "", "Write logs to this file instead of stderr")
	fs.BoolVar(&opts.lsp, "lsp", false, "Start the language server on stdio")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: lox [options] [script]\n\n")
		fmt.Fprintf(stderr, "Runs a Lox script, or starts a REPL when no script is given.\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) {
		opts.set[f.Name] = true
	})

	switch fs.NArg() {
	case 0:
	case 1:
		opts.script = fs.Arg(0)
	default:
		fs.Usage()
		return nil, errors.New("too many arguments")
	}
	return opts, nil
}

// loadConfig reads lox.toml and layers environment and flag overrides on
// top of it. Flags win.
func loadConfig(opts *options, getenv func(string) string) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if opts.configPath != "" {
		cfg, err = config.LoadFile(opts.configPath)
	} else {
		cfg, err = config.FindAndLoad(".")
	}
	if err != nil {
		return nil, err
	}

	cfg.ApplyEnv(getenv)

	if opts.set["trace"] {
		cfg.Diagnostics.TraceExecution = opts.trace
	}
	if opts.set["print-code"] {
		cfg.Diagnostics.PrintCode = opts.printCode
	}
	if opts.set["v"] {
		cfg.Log.Verbosity = opts.verbosity
	}
	if opts.set["log-file"] {
		cfg.Log.File = opts.logFile
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func vmConfig(cfg *config.Config, stdout, stderr io.Writer) vm.Config {
	return vm.Config{
		StackMax:       cfg.VM.StackMax,
		FramesMax:      cfg.VM.FramesMax,
		Stdout:         stdout,
		Trace:          stderr,
		TraceExecution: cfg.Diagnostics.TraceExecution,
		PrintCode:      cfg.Diagnostics.PrintCode,
	}
}

func configureLogging(cfg *config.Config) {
	var path *string
	if cfg.Log.File != "" {
		path = &cfg.Log.File
	}
	commonlog.Configure(cfg.Log.Verbosity, path)
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	cfg, err := loadConfig(opts, os.Getenv)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitConfig
	}
	configureLogging(cfg)
	if cfg.Path != "" {
		log.Infof("using configuration %s", cfg.Path)
	}

	if opts.lsp {
		if err := server.NewLSP().Run(); err != nil {
			fmt.Fprintf(stderr, "Language server error: %v\n", err)
			return exitSoftware
		}
		return exitOK
	}

	machine := vm.NewVM(vmConfig(cfg, stdout, stderr))

	if opts.script != "" {
		return runFile(machine, opts.script, stderr)
	}
	runREPL(machine, stdin, stdout, stderr, isInteractive(stdin))
	return exitOK
}

func isInteractive(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// runFile interprets a script and maps the outcome to an exit code.
func runFile(machine *vm.VM, path string, stderr io.Writer) int {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Debugf("read %s: %v", path, err)
		fmt.Fprintf(stderr, "Could not open file \"%s\".\n", path)
		return exitIOErr
	}

	source := string(data)
	return exitCode(report(stderr, source, machine.Interpret(source)))
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, vm.ErrCompile):
		return exitDataErr
	default:
		return exitSoftware
	}
}

// runREPL interprets stdin one line at a time on a single VM, so
// definitions carry over between lines. Errors are reported and the
// session continues.
func runREPL(machine *vm.VM, stdin io.Reader, stdout, stderr io.Writer, interactive bool) {
	scanner := bufio.NewScanner(stdin)
	for {
		if interactive {
			fmt.Fprint(stdout, "> ")
		}
		if !scanner.Scan() {
			break
		}

		line := scanner.Text()
		report(stderr, line, machine.Interpret(line))
	}
	if interactive {
		fmt.Fprintln(stdout)
	}
}
