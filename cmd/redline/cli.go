package main

import (
	"fmt"
	"strings"

	"github.com/mas6y6/REDLINE/internal/config"
)

type Command int

const (
	COMMAND_BUILD Command = iota
	COMMAND_EMIT
	COMMAND_REPL
	COMMAND_HELP
	COMMAND_ENV
)

type CliResult struct {
	Command      Command
	BuildType    config.BuildType
	BuildTypeSet bool
	Path         string
	Output       string
	Verbose      bool
}

var HELP_COMMAND string = `REDLINE - a statically typed, indentation structured language compiled to C++17.

Usage:
  redline <command> [arguments]

Available Commands:
  build [path] [-release] [-debug] [-o dir] [-v]   Generates C++ and compiles it to an executable
      [path]        Source file, or project directory holding redline.proj (defaults to current directory)
      -release      Build in release mode
      -debug        Build in debug mode (default)
      -o dir        Output directory (defaults to the manifest's output, or build/)
      -v            Trace the compilation phases

  emit [path] [-release] [-debug] [-o dir] [-v]    Generates C++ without invoking a C++ compiler

  repl                                             Interactive session printing the C++ of each entry

  env                                              Show environment information

  help                                             Show this help message

Examples:
  redline build                        Build the project in the current directory
  redline build path/to/project        Build the project in the specified directory
  redline build main.rl -release       Build a single file in release mode
  redline emit main.rl -o out          Write the generated C++ to out/
  redline env                          Display environment details
`

func cli(args []string) (CliResult, error) {
	result := CliResult{BuildType: config.DEBUG, Path: "."}

	if len(args) == 0 {
		result.Command = COMMAND_HELP
		return result, nil
	}

	command := args[0]
	switch command {
	case "env":
		result.Command = COMMAND_ENV
		return result, expectNoArgs(command, args[1:])
	case "help", "-h", "-help", "--help":
		result.Command = COMMAND_HELP
		return result, nil
	case "repl":
		result.Command = COMMAND_REPL
		return result, expectNoArgs(command, args[1:])
	case "build":
		result.Command = COMMAND_BUILD
	case "emit":
		result.Command = COMMAND_EMIT
	default:
		return result, fmt.Errorf("unknown command %q, run 'redline help' for usage", command)
	}

	releaseBuildSet, debugBuildSet, pathSet := false, false, false
	rest := args[1:]
	for i := 0; i < len(rest); i++ {
		arg := rest[i]
		switch arg {
		case "-release":
			releaseBuildSet = true
			result.BuildType = config.RELEASE
		case "-debug":
			debugBuildSet = true
			result.BuildType = config.DEBUG
		case "-v":
			result.Verbose = true
		case "-o":
			if i+1 >= len(rest) {
				return result, fmt.Errorf("-o needs a directory")
			}
			i++
			result.Output = rest[i]
		default:
			if strings.HasPrefix(arg, "-") {
				return result, fmt.Errorf("unknown flag %q for %s", arg, command)
			}
			if pathSet {
				return result, fmt.Errorf("%s takes a single path, got %q and %q", command, result.Path, arg)
			}
			pathSet = true
			result.Path = arg
		}
	}
	if releaseBuildSet && debugBuildSet {
		return result, fmt.Errorf("choose either -release or -debug, not both")
	}
	result.BuildTypeSet = releaseBuildSet || debugBuildSet
	return result, nil
}

func expectNoArgs(command string, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("%s takes no arguments, got %q", command, strings.Join(args, " "))
	}
	return nil
}
