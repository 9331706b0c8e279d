package main

import (
	"testing"

	"github.com/mas6y6/REDLINE/internal/config"
)

func TestCli(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected CliResult
	}{
		{
			name:     "no arguments",
			args:     nil,
			expected: CliResult{Command: COMMAND_HELP, BuildType: config.DEBUG, Path: "."},
		},
		{
			name:     "build defaults",
			args:     []string{"build"},
			expected: CliResult{Command: COMMAND_BUILD, BuildType: config.DEBUG, Path: "."},
		},
		{
			name: "build a file in release mode",
			args: []string{"build", "main.rl", "-release", "-v"},
			expected: CliResult{
				Command:      COMMAND_BUILD,
				BuildType:    config.RELEASE,
				BuildTypeSet: true,
				Path:         "main.rl",
				Verbose:      true,
			},
		},
		{
			name: "emit to a directory",
			args: []string{"emit", "-o", "out", "proj"},
			expected: CliResult{
				Command:   COMMAND_EMIT,
				BuildType: config.DEBUG,
				Path:      "proj",
				Output:    "out",
			},
		},
		{
			name:     "env",
			args:     []string{"env"},
			expected: CliResult{Command: COMMAND_ENV, BuildType: config.DEBUG, Path: "."},
		},
		{
			name:     "repl",
			args:     []string{"repl"},
			expected: CliResult{Command: COMMAND_REPL, BuildType: config.DEBUG, Path: "."},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result, err := cli(test.args)
			if err != nil {
				t.Fatal(err)
			}
			if result != test.expected {
				t.Fatalf("expected %+v, got %+v", test.expected, result)
			}
		})
	}
}

func TestCliErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown command", []string{"run"}},
		{"both build types", []string{"build", "-release", "-debug"}},
		{"unknown flag", []string{"build", "-fast"}},
		{"missing output directory", []string{"emit", "-o"}},
		{"two paths", []string{"build", "a.rl", "b.rl"}},
		{"env with arguments", []string{"env", "x"}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if _, err := cli(test.args); err == nil {
				t.Fatalf("expected an error for %v", test.args)
			}
		})
	}
}
