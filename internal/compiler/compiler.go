// Package compiler runs the whole pipeline: module resolution, semantic
// checking and C++ generation, then optionally hands the result to a native
// C++ compiler.
package compiler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/mas6y6/REDLINE/internal/codegen/cpp"
	"github.com/mas6y6/REDLINE/internal/config"
	"github.com/mas6y6/REDLINE/internal/diagnostics"
	"github.com/mas6y6/REDLINE/internal/modules"
	"github.com/mas6y6/REDLINE/internal/sema"
)

type Options struct {
	BuildType config.BuildType
	// Logger traces the pipeline phases. Nil disables tracing.
	Logger *log.Logger
	// Runtime replaces the bundled runtime header when non-nil.
	Runtime []byte
}

func (opts Options) logger() *log.Logger {
	if opts.Logger == nil {
		return log.New(io.Discard, "", 0)
	}
	return opts.Logger
}

// Compile compiles the program whose entry module is the file at entry.
// Imports resolve relative to the entry's directory. User errors come back
// as a diagnostics.List.
func Compile(entry string, opts Options) ([]*cpp.Unit, error) {
	return CompileFS(os.DirFS(filepath.Dir(entry)), filepath.Base(entry), opts)
}

// CompileFS is Compile over an arbitrary source tree.
func CompileFS(fsys fs.FS, entry string, opts Options) ([]*cpp.Unit, error) {
	logger := opts.logger()
	collector := diagnostics.New()

	logger.Printf("resolving modules from %s", entry)
	program, err := modules.New(fsys, collector).Resolve(entry)
	if err != nil {
		return nil, failure(collector, err)
	}
	logger.Printf("resolved %d modules", len(program.Modules))

	if err := sema.New(collector).Check(program); err != nil {
		return nil, failure(collector, err)
	}
	logger.Printf("checked %s", program.Entry.Name)

	units, err := cpp.NewCG(program).Generate(opts.BuildType)
	if err != nil {
		return nil, err
	}
	if opts.Runtime != nil {
		units[0] = &cpp.Unit{Name: cpp.RUNTIME_HEADER_NAME, Content: opts.Runtime}
	}
	logger.Printf("generated %d units (%s)", len(units), opts.BuildType)
	return units, nil
}

func failure(collector *diagnostics.Collector, err error) error {
	if errors.Is(err, diagnostics.COMPILER_ERROR_FOUND) && collector.HasErrors() {
		return collector.Err()
	}
	return err
}

// Diagnostics extracts the user diagnostics of a failed compilation.
func Diagnostics(err error) (diagnostics.List, bool) {
	var list diagnostics.List
	if errors.As(err, &list) {
		return list, true
	}
	return nil, false
}

// Report writes every diagnostic of err with its source line, reading the
// sources from fsys. Other errors are written as is.
func Report(w io.Writer, fsys fs.FS, err error) {
	list, ok := Diagnostics(err)
	if !ok {
		fmt.Fprintln(w, err)
		return
	}
	for _, d := range list {
		src, _ := fs.ReadFile(fsys, d.Pos.Filename)
		fmt.Fprintln(w, diagnostics.Render(d, src))
	}
}

// WriteUnits writes the generated units into dir, creating it when needed.
func WriteUnits(dir string, units []*cpp.Unit) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	for _, unit := range units {
		if err := os.WriteFile(filepath.Join(dir, unit.Name), unit.Content, 0644); err != nil {
			return err
		}
	}
	return nil
}

// BuildExecutable compiles and links the definition units found in dir
// into exe with the given C++ compiler.
func BuildExecutable(ctx context.Context, cxx, dir string, units []*cpp.Unit, exe string, buildType config.BuildType) error {
	args := append([]string(nil), buildType.CXXFlags()...)
	args = append(args, "-I", dir)
	for _, unit := range units {
		if strings.HasSuffix(unit.Name, ".cpp") {
			args = append(args, filepath.Join(dir, unit.Name))
		}
	}
	args = append(args, "-o", exe)

	cmd := exec.CommandContext(ctx, cxx, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s failed: %w\n%s", cxx, err, output)
	}
	return nil
}
