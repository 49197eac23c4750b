// Package cli provides command-line interface functionality for specrun.
package cli

import (
	"fmt"
	"strings"

	"specrun/internal/errors"
	"specrun/internal/logging"
	"specrun/internal/output"

	"go.uber.org/zap"
)

// Version is set at build time.
var Version = "dev"

var out = output.New()

// Run executes the CLI with the given arguments and returns an exit code.
func Run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return errors.ExitSuccess
	}

	switch args[0] {
	case "-h", "--help", "help":
		printUsage()
		return errors.ExitSuccess
	case "--version", "version":
		fmt.Printf("specrun %s\n", Version)
		return errors.ExitSuccess
	}

	opts, remaining, err := parseGlobalFlags(args)
	if err != nil {
		out.ErrorPrefix("%v", err)
		return errors.ExitConfigError
	}
	if len(remaining) == 0 {
		printUsage()
		return errors.ExitSuccess
	}

	out.SetQuiet(opts.Quiet)
	if opts.NoColor {
		out.SetColor(false)
	}

	log, err := logging.New(opts.Debug, opts.LogFile)
	if err != nil {
		out.ErrorPrefix("cannot initialize logging: %v", err)
		return errors.ExitConfigError
	}
	defer func() { _ = log.Sync() }()

	cmd := remaining[0]
	cmdArgs := remaining[1:]

	switch cmd {
	case "run":
		return cmdRun(cmdArgs, opts, log)
	case "check":
		return cmdCheck(cmdArgs, opts)
	case "watch":
		return cmdWatch(cmdArgs, opts, log)
	default:
		out.ErrorPrefix("unknown command %q", cmd)
		out.Hint("run 'specrun help' for usage")
		return errors.ExitConfigError
	}
}

// GlobalOptions holds parsed global flags.
type GlobalOptions struct {
	Quiet   bool
	Debug   bool
	JSON    bool
	NoColor bool
	LogFile string
}

// parseGlobalFlags manually parses global flags from arguments. Flags may
// appear anywhere in the argument list, which the stdlib flag package does
// not support.
func parseGlobalFlags(args []string) (*GlobalOptions, []string, error) {
	opts := &GlobalOptions{}
	var remaining []string

	i := 0
	for i < len(args) {
		arg := args[i]

		switch {
		case arg == "-q" || arg == "--quiet":
			opts.Quiet = true
			i++
		case arg == "--debug":
			opts.Debug = true
			i++
		case arg == "--json":
			opts.JSON = true
			i++
		case arg == "--no-color":
			opts.NoColor = true
			i++
		case arg == "--log-file":
			if i+1 >= len(args) {
				return nil, nil, fmt.Errorf("--log-file requires a value")
			}
			opts.LogFile = args[i+1]
			i += 2
		case strings.HasPrefix(arg, "--log-file="):
			opts.LogFile = strings.TrimPrefix(arg, "--log-file=")
			i++
		case strings.HasPrefix(arg, "-"):
			return nil, nil, fmt.Errorf("unknown flag %q", arg)
		default:
			remaining = append(remaining, arg)
			i++
		}
	}

	if opts.Quiet && opts.Debug {
		return nil, nil, fmt.Errorf("--quiet and --debug are mutually exclusive")
	}

	return opts, remaining, nil
}

func printUsage() {
	w := output.New()

	w.HelpTitle("specrun - declarative behavioral test runner")

	w.HelpSection("Usage:")
	w.HelpUsage("specrun run [path...]     Execute specs from files, directories, or discovery")
	w.HelpUsage("specrun check [path...]   Lint spec and project documents without executing")
	w.HelpUsage("specrun watch [dir]       Re-run specs when their files change")

	const width = 12
	w.HelpSection("Commands:")
	w.HelpCommand("run", "execute specs and report results", width)
	w.HelpCommand("check", "validate documents against the schemas", width)
	w.HelpCommand("watch", "run continuously on file changes", width)
	w.HelpCommand("version", "print the version", width)
	w.HelpCommand("help", "show this help", width)

	w.HelpSection("Flags:")
	w.HelpFlag("-q, --quiet", "suppress progress output", 16)
	w.HelpFlag("--debug", "enable debug logging", 16)
	w.HelpFlag("--json", "emit the report as JSON", 16)
	w.HelpFlag("--no-color", "disable ANSI colors", 16)
	w.HelpFlag("--log-file", "write the diagnostic log to a file", 16)
}

// fatal reports an error and maps it to an exit code.
func fatal(err error, log *zap.Logger) int {
	if log != nil {
		log.Error("run aborted", zap.Error(err))
	}
	out.ErrorPrefix("%v", err)
	return errors.GetExitCode(err)
}
