// Package testutil builds checked programs from in-memory source trees for
// the tests of the later pipeline stages.
package testutil

import (
	"io/fs"
	"os"
	"os/exec"
	"testing"
	"testing/fstest"

	"github.com/mas6y6/REDLINE/internal/ast"
	"github.com/mas6y6/REDLINE/internal/diagnostics"
	"github.com/mas6y6/REDLINE/internal/modules"
	"github.com/mas6y6/REDLINE/internal/sema"
)

// ENTRY is the entry module of every tree built by Tree.
const ENTRY = "main.rl"

// Tree maps slash-separated file names to sources.
func Tree(files map[string]string) fstest.MapFS {
	fsys := make(fstest.MapFS, len(files))
	for name, src := range files {
		fsys[name] = &fstest.MapFile{Data: []byte(src)}
	}
	return fsys
}

// Source is a tree holding only the entry module.
func Source(src string) fstest.MapFS {
	return Tree(map[string]string{ENTRY: src})
}

// Check resolves the tree from ENTRY and type-checks it.
func Check(fsys fs.FS) (*ast.Program, *diagnostics.Collector, error) {
	collector := diagnostics.New()
	program, err := modules.New(fsys, collector).Resolve(ENTRY)
	if err != nil {
		return nil, collector, err
	}
	if err := sema.New(collector).Check(program); err != nil {
		return nil, collector, err
	}
	return program, collector, nil
}

// MustCheck fails the test on any diagnostic.
func MustCheck(t testing.TB, fsys fs.FS) *ast.Program {
	t.Helper()
	program, collector, err := Check(fsys)
	if err != nil {
		t.Fatalf("unexpected error: %v %v", err, collector.Diags)
	}
	return program
}

// CXX returns a C++17 compiler from RL_CXX or PATH, skipping the test when
// there is none.
func CXX(t testing.TB) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping native compilation in short mode")
	}
	candidates := []string{"c++", "g++", "clang++"}
	if cxx := os.Getenv("RL_CXX"); cxx != "" {
		candidates = append([]string{cxx}, candidates...)
	}
	for _, name := range candidates {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	t.Skip("no C++ compiler found")
	return ""
}
