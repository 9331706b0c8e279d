package modules

import (
	"testing"
	"testing/fstest"

	"github.com/mas6y6/REDLINE/internal/ast"
	"github.com/mas6y6/REDLINE/internal/diagnostics"
	"github.com/mas6y6/REDLINE/internal/lexer/token"
)

func file(src string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte(src)}
}

func moduleNames(modules []*ast.Module) []string {
	names := make([]string, len(modules))
	for i, m := range modules {
		names[i] = m.Name
	}
	return names
}

func TestResolveSingleModule(t *testing.T) {
	fsys := fstest.MapFS{
		"main.rl": file("print(1)\n"),
	}
	collector := diagnostics.New()

	program, err := New(fsys, collector).Resolve("main.rl")
	if err != nil {
		t.Fatalf("unexpected error: %v %v", err, collector.Diags)
	}
	if len(program.Modules) != 1 || program.Modules[0] != program.Entry {
		t.Fatalf("expected only the entry module, got %v", moduleNames(program.Modules))
	}
	if !program.Entry.IsEntry || program.Entry.Name != "main" || program.Entry.Mangled != "main" {
		t.Fatalf("unexpected entry module %+v", program.Entry)
	}
}

func TestResolveTopologicalOrder(t *testing.T) {
	fsys := fstest.MapFS{
		"main.rl":       file("import utils.math\nimport geo\nprint(1)\n"),
		"geo.rl":        file("import utils.math as m\n\npub def area() -> int:\n    return 1\n"),
		"utils/math.rl": file("pub def sq(x: int) -> int:\n    return x * x\n"),
	}
	collector := diagnostics.New()

	program, err := New(fsys, collector).Resolve("main.rl")
	if err != nil {
		t.Fatalf("unexpected error: %v %v", err, collector.Diags)
	}

	expected := []string{"utils.math", "geo", "main"}
	got := moduleNames(program.Modules)
	if len(got) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, got)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Fatalf("expected %v, got %v", expected, got)
		}
	}

	utils := program.Lookup("utils.math")
	if utils.Mangled != "utils_math" || utils.Loc.Path != "utils/math.rl" {
		t.Errorf("unexpected module %+v", utils)
	}
	if program.Entry.Imports[0].Module != utils {
		t.Errorf("expected import to be bound to utils.math")
	}
	if len(program.Lookup("geo").Deps) != 1 {
		t.Errorf("expected geo to depend on utils.math")
	}
}

func TestResolveNestedRoot(t *testing.T) {
	fsys := fstest.MapFS{
		"src/main.rl":      file("import my_lib.io\nprint(1)\n"),
		"src/my_lib/io.rl": file("pub def f():\n    return\n"),
	}
	collector := diagnostics.New()

	program, err := New(fsys, collector).Resolve("src/main.rl")
	if err != nil {
		t.Fatalf("unexpected error: %v %v", err, collector.Diags)
	}
	io := program.Lookup("my_lib.io")
	if io == nil {
		t.Fatalf("expected module my_lib.io, got %v", moduleNames(program.Modules))
	}
	if io.Mangled != "my__lib_io" {
		t.Errorf("expected mangled name my__lib_io, got %s", io.Mangled)
	}
	if io.Loc.Path != "src/my_lib/io.rl" {
		t.Errorf("unexpected path %s", io.Loc.Path)
	}
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name string
		fsys fstest.MapFS
		diag diagnostics.Diag
	}{
		{
			name: "cycle",
			fsys: fstest.MapFS{
				"main.rl": file("import a\nprint(1)\n"),
				"a.rl":    file("import b\n\ndef fa() -> int:\n    return 1\n"),
				"b.rl":    file("import a\n"),
			},
			diag: diagnostics.Diag{
				Kind:    diagnostics.IMPORT_ERROR,
				Pos:     token.Pos{Filename: "b.rl", Line: 1, Column: 1},
				Message: "import cycle: a -> b -> a",
			},
		},
		{
			name: "self import",
			fsys: fstest.MapFS{
				"main.rl": file("import main\n"),
			},
			diag: diagnostics.Diag{
				Kind:    diagnostics.IMPORT_ERROR,
				Pos:     token.Pos{Filename: "main.rl", Line: 1, Column: 1},
				Message: "import cycle: main -> main",
			},
		},
		{
			name: "missing module",
			fsys: fstest.MapFS{
				"main.rl": file("\nimport nope.deep\n"),
			},
			diag: diagnostics.Diag{
				Kind:    diagnostics.IMPORT_ERROR,
				Pos:     token.Pos{Filename: "main.rl", Line: 2, Column: 1},
				Message: "cannot find module 'nope.deep' (looked for nope/deep.rl)",
			},
		},
		{
			name: "statements in imported module",
			fsys: fstest.MapFS{
				"main.rl": file("import lib\n"),
				"lib.rl":  file("def f():\n    return\nval x = 1\n"),
			},
			diag: diagnostics.Diag{
				Kind:    diagnostics.SCOPE_ERROR,
				Pos:     token.Pos{Filename: "lib.rl", Line: 3, Column: 5},
				Message: "top-level statements are only allowed in the entry module, 'lib' is imported",
			},
		},
		{
			name: "parse error in imported module",
			fsys: fstest.MapFS{
				"main.rl": file("import lib\n"),
				"lib.rl":  file("def f(:\n"),
			},
			diag: diagnostics.Diag{
				Kind:    diagnostics.PARSE_ERROR,
				Pos:     token.Pos{Filename: "lib.rl", Line: 1, Column: 7},
				Message: "expected parameter name or ')', not ':'",
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			collector := diagnostics.New()
			program, err := New(test.fsys, collector).Resolve("main.rl")
			if err == nil {
				t.Fatalf("expected an error, got program %v", moduleNames(program.Modules))
			}
			if len(collector.Diags) != 1 {
				t.Fatalf("expected a single diagnostic, got %v", collector.Diags)
			}
			if collector.Diags[0] != test.diag {
				t.Fatalf("\nexpected: %v\ngot:      %v", test.diag, collector.Diags[0])
			}
		})
	}
}

func TestResolveMissingEntry(t *testing.T) {
	_, err := New(fstest.MapFS{}, diagnostics.New()).Resolve("main.rl")
	if err == nil {
		t.Fatal("expected an error for a missing entry file")
	}
}

func TestMangle(t *testing.T) {
	tests := map[string]string{
		"main":       "main",
		"utils.math": "utils_math",
		"my_lib.io":  "my__lib_io",
		"my.lib_io":  "my_lib__io",
	}
	for in, want := range tests {
		if got := Mangle(in); got != want {
			t.Errorf("Mangle(%q) = %q, want %q", in, got, want)
		}
	}
	if got := Namespace("utils_math"); got != "redline::m_utils_math" {
		t.Errorf("unexpected namespace %s", got)
	}
}
