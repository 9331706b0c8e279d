package integration

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mas6y6/REDLINE/internal/compiler"
	"github.com/mas6y6/REDLINE/internal/config"
	"github.com/mas6y6/REDLINE/internal/diagnostics"
	"github.com/mas6y6/REDLINE/internal/testutil"
)

type runResult struct {
	stdout   string
	stderr   string
	exitCode int
}

// compileAndRun compiles the program at path to a native executable and
// runs it.
func compileAndRun(t *testing.T, path string) runResult {
	t.Helper()
	cxx := testutil.CXX(t)

	units, err := compiler.Compile(path, compiler.Options{BuildType: config.DEBUG})
	if err != nil {
		t.Fatalf("unexpected errors: %v", err)
	}

	dir := t.TempDir()
	if err := compiler.WriteUnits(dir, units); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	exe := filepath.Join(dir, "program")
	if err := compiler.BuildExecutable(ctx, cxx, dir, units, exe, config.DEBUG); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, exe)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	result := runResult{}
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			t.Fatal(err)
		}
		result.exitCode = exitErr.ExitCode()
	}
	result.stdout = stdout.String()
	result.stderr = stderr.String()
	return result
}

func compileErrors(t *testing.T, path string) diagnostics.List {
	t.Helper()
	_, err := compiler.Compile(path, compiler.Options{})
	if err == nil {
		t.Fatalf("expected errors, got none")
	}
	diags, ok := compiler.Diagnostics(err)
	if !ok {
		t.Fatalf("expected diagnostics, got %v", err)
	}
	return diags
}

func TestCompileAndRun(t *testing.T) {
	tests := []struct {
		file     string
		expected string
	}{
		{"testdata/hello_world.rl", "Hello, world!\n"},
		{"testdata/sum.rl", "30\n"},
		{"testdata/square.rl", "9\n"},
		{"testdata/fib.rl", "55\n"},
		{"testdata/calculator.rl", "8\n6\n42\n3\n"},
		{"testdata/aliasing.rl", "11\n2\n3\n"},
		{"testdata/collections.rl", "alice=1\nbob=2\n6\n7\n1.5\n"},
		{"testdata/shapes/main.rl", "9\nsquare of area 9\n"},
	}

	for _, test := range tests {
		t.Run(filepath.Base(test.file), func(t *testing.T) {
			result := compileAndRun(t, test.file)
			if result.exitCode != 0 {
				t.Fatalf("exit status %d, stderr: %s", result.exitCode, result.stderr)
			}
			if result.stdout != test.expected {
				t.Errorf("expected %q, got %q", test.expected, result.stdout)
			}
		})
	}
}

func TestRuntimeErrors(t *testing.T) {
	result := compileAndRun(t, "testdata/errors.rl")

	expected := "parse_int: invalid integer 'nope'\ncaught\n"
	if result.stdout != expected {
		t.Errorf("expected %q, got %q", expected, result.stdout)
	}
	if result.exitCode != 1 {
		t.Errorf("expected exit status 1, got %d", result.exitCode)
	}
	if !strings.Contains(result.stderr, "runtime error: integer division by zero") {
		t.Errorf("expected the uncaught error on stderr, got %q", result.stderr)
	}
}

func TestUndefinedVariable(t *testing.T) {
	diags := compileErrors(t, "testdata/errors/undefined_var.rl")
	found := false
	for _, diag := range diags {
		if diag.Kind == diagnostics.SCOPE_ERROR && strings.Contains(diag.Message, "y") {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("expected error about undefined variable 'y', got: %v", diags)
	}
}

func TestTypeMismatch(t *testing.T) {
	diags := compileErrors(t, "testdata/errors/type_mismatch.rl")
	found := false
	for _, diag := range diags {
		if strings.Contains(diag.Message, "string") || strings.Contains(diag.Message, "int") {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("expected error about type mismatch, got: %v", diags)
	}
}

func TestBadSyntax(t *testing.T) {
	diags := compileErrors(t, "testdata/errors/bad_syntax.rl")
	if diags[0].Kind != diagnostics.PARSE_ERROR {
		t.Errorf("expected a ParseError, got %v", diags)
	}
}

func TestPrivateAccess(t *testing.T) {
	diags := compileErrors(t, "testdata/errors/private_access.rl")
	if diags[0].Kind != diagnostics.VISIBILITY_ERROR {
		t.Errorf("expected a VisibilityError, got %v", diags)
	}
}
