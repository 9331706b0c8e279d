package parser

import (
	"fmt"
	"testing"

	"github.com/mas6y6/REDLINE/internal/ast"
	"github.com/mas6y6/REDLINE/internal/diagnostics"
	"github.com/mas6y6/REDLINE/internal/lexer/token"
)

func parseOK(t *testing.T, src string) *ast.Module {
	t.Helper()
	collector := diagnostics.New()
	module, err := ParseSourceFrom(src, defaultFilename, collector)
	if err != nil {
		t.Fatalf("unexpected error '%v': %v", err, collector.Diags)
	}
	return module
}

func TestFnDecl(t *testing.T) {
	tests := []struct {
		input string
		check func(t *testing.T, node *ast.Node)
	}{
		{
			input: "def do_nothing():\n    return\n",
			check: func(t *testing.T, node *ast.Node) {
				if node.Kind != ast.KIND_FN_DECL {
					t.Fatalf("expected KIND_FN_DECL, got %v", node.Kind)
				}
				fnDecl := node.Node.(*ast.FnDecl)
				if fnDecl.Name.Name() != "do_nothing" {
					t.Errorf("expected name 'do_nothing', got %s", fnDecl.Name.Lexeme)
				}
				if len(fnDecl.Params) != 0 {
					t.Errorf("expected no params, got %v", fnDecl.Params)
				}
				if !fnDecl.RetType.IsVoid() {
					t.Errorf("expected void return type, got %v", fnDecl.RetType)
				}
				if fnDecl.Pub {
					t.Errorf("expected private function")
				}
			},
		},
		{
			input: "pub def add(a: int, b: int) -> int:\n    return a + b\n",
			check: func(t *testing.T, node *ast.Node) {
				fnDecl := node.Node.(*ast.FnDecl)
				if !fnDecl.Pub {
					t.Errorf("expected public function")
				}
				if len(fnDecl.Params) != 2 {
					t.Fatalf("expected 2 params, got %d", len(fnDecl.Params))
				}
				if got := fnDecl.Signature(); got != "(int, int)" {
					t.Errorf("expected signature (int, int), got %s", got)
				}
				if !fnDecl.RetType.Equals(ast.INT_TYPE) {
					t.Errorf("expected int return type, got %v", fnDecl.RetType)
				}
				if len(fnDecl.Block.Statements) != 1 || !fnDecl.Block.Statements[0].IsReturn() {
					t.Errorf("expected a single return statement, got %v", fnDecl.Block.Statements)
				}
			},
		},
		{
			input: "def f(xs: list[int], m: dict[string, list[float]], p: geo.Point) -> list[string]:\n    return []\n",
			check: func(t *testing.T, node *ast.Node) {
				fnDecl := node.Node.(*ast.FnDecl)
				expected := "(list[int], dict[string, list[float]], geo.Point)"
				if got := fnDecl.Signature(); got != expected {
					t.Errorf("expected signature %s, got %s", expected, got)
				}
				if got := fnDecl.RetType.String(); got != "list[string]" {
					t.Errorf("expected list[string] return type, got %s", got)
				}
			},
		},
	}

	for _, test := range tests {
		t.Run(fmt.Sprintf("TestFnDecl(%q)", test.input), func(t *testing.T) {
			module := parseOK(t, test.input)
			if len(module.Body) != 1 {
				t.Fatalf("expected a single node, got %d", len(module.Body))
			}
			test.check(t, module.Body[0])
		})
	}
}

func TestExprPrecedence(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"1 - 2 - 3", "((1 - 2) - 3)"},
		{"(1 + 2) * 3", "((1 + 2) * 3)"},
		{"a or b and c", "(a or (b and c))"},
		{"a and b or c", "((a and b) or c)"},
		{"a == b < c", "(a == (b < c))"},
		{"x % 2 == 0", "((x % 2) == 0)"},
		{"-a * b", "((- a) * b)"},
		{"not a and b", "((not a) and b)"},
		{"!a", "(! a)"},
		{"a.b(1)[2]", "a.b(1)[2]"},
		{"f(1, 2.5, \"s\")", "f(1, 2.5, \"s\")"},
		{"[1, 2, 3]", "[1, 2, 3]"},
		{"{\"a\": 1, \"b\": 2}", "{\"a\": 1, \"b\": 2}"},
		{"new geo.Point(1, 2)", "new geo.Point(2 args)"},
		{"f\"x={x + 1}\"", "f\"x={(x + 1)}\""},
		{"this.x * this.x", "(this.x * this.x)"},
	}

	for _, test := range tests {
		t.Run(fmt.Sprintf("TestExprPrecedence(%q)", test.input), func(t *testing.T) {
			expr, err := ParseExprFrom(test.input, defaultFilename)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := expr.String(); got != test.expected {
				t.Fatalf("expected %s, got %s", test.expected, got)
			}
		})
	}
}

func TestStatements(t *testing.T) {
	src := `var x = 1
x = 2
xs[0] = 3
p.x = 4
if x > 1:
    print(x)
elif x < 0:
    print(0)
else:
    print(1)
while true:
    break
for i in 0..10:
    continue
for v in xs:
    print(v)
try:
    read_file("a")
catch err:
    print(err)
f(
    1,
    2,
)
return
`
	expected := []ast.NodeKind{
		ast.KIND_VAR_STMT,
		ast.KIND_ASSIGN_STMT,
		ast.KIND_INDEX_ASSIGN_STMT,
		ast.KIND_MEMBER_ASSIGN_STMT,
		ast.KIND_COND_STMT,
		ast.KIND_WHILE_LOOP_STMT,
		ast.KIND_RANGE_FOR_STMT,
		ast.KIND_COLLECTION_FOR_STMT,
		ast.KIND_TRY_STMT,
		ast.KIND_EXPR_STMT,
		ast.KIND_RETURN_STMT,
	}

	module := parseOK(t, src)
	if len(module.Body) != len(expected) {
		t.Fatalf("expected %d statements, got %d: %v", len(expected), len(module.Body), module.Body)
	}
	for i, kind := range expected {
		if module.Body[i].Kind != kind {
			t.Errorf("statement %d: expected %v, got %v", i, kind, module.Body[i].Kind)
		}
	}

	cond := module.Body[4].Node.(*ast.CondStmt)
	if len(cond.ElifStmts) != 1 || cond.ElseStmt == nil {
		t.Errorf("expected one elif and an else branch")
	}

	loop := module.Body[6].Node.(*ast.RangeFor)
	if loop.Var.Name() != "i" || loop.Start.String() != "0" || loop.End.String() != "10" {
		t.Errorf("unexpected range loop %v", loop)
	}

	try := module.Body[8].Node.(*ast.TryStmt)
	if try.CatchName == nil || try.CatchName.Name() != "err" {
		t.Errorf("expected catch binding 'err'")
	}

	ret := module.Body[10].Node.(*ast.ReturnStmt)
	if ret.Value != nil {
		t.Errorf("expected bare return, got %v", ret.Value)
	}
}

func TestClassAndImports(t *testing.T) {
	src := `import utils.math as m
import geo

pub class Point:
    x: float = 0.0
    y: float

    def init(x: float):
        this.x = x

    pub def norm() -> float:
        return x * x

class Empty:
    # nothing but a field
    n: int

val p = new Point(3.0)
print(p.norm())
`
	module := parseOK(t, src)

	if len(module.Imports) != 2 {
		t.Fatalf("expected 2 imports, got %d", len(module.Imports))
	}
	first := module.Imports[0]
	if first.PathString() != "utils.math" || first.Binding().Name() != "m" {
		t.Errorf("unexpected import %v", first)
	}
	if module.Imports[1].Binding().Name() != "geo" {
		t.Errorf("expected import to bind its last segment, got %s", module.Imports[1].Binding().Name())
	}

	classes := module.Classes()
	if len(classes) != 2 {
		t.Fatalf("expected 2 classes, got %d", len(classes))
	}

	point := classes[0]
	if !point.Pub || point.Name.Name() != "Point" {
		t.Errorf("expected pub class Point, got %v", point)
	}
	if len(point.Fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(point.Fields))
	}
	if point.Fields[0].Default == nil || point.Fields[1].Default != nil {
		t.Errorf("expected only x to have a default")
	}
	if len(point.Ctors) != 1 || !point.Ctors[0].IsCtor {
		t.Errorf("expected one constructor, got %d", len(point.Ctors))
	}
	if len(point.Methods) != 1 || !point.Methods[0].Pub || point.Methods[0].Class != point {
		t.Errorf("expected pub method norm owned by Point")
	}
	if !classes[1].HasImplicitCtors() {
		t.Errorf("expected Empty to get implicit constructors")
	}

	if len(module.Statements()) != 2 {
		t.Errorf("expected 2 top-level statements, got %d", len(module.Statements()))
	}
}

func TestFString(t *testing.T) {
	expr, err := ParseExprFrom(`f"{a} and {b * 2}!"`, defaultFilename)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fstring := expr.Node.(*ast.FStringExpr)
	if len(fstring.Segments) != 4 {
		t.Fatalf("expected 4 segments, got %d", len(fstring.Segments))
	}
	if fstring.Segments[0].Expr == nil || fstring.Segments[1].Text != " and " {
		t.Errorf("unexpected segments %v", fstring)
	}
	if fstring.Segments[2].Expr.Kind != ast.KIND_BINARY_EXPR {
		t.Errorf("expected binary expression, got %v", fstring.Segments[2].Expr.Kind)
	}
}

func TestParseErrors(t *testing.T) {
	pos := func(line, column int) token.Pos {
		return token.Pos{Filename: defaultFilename, Line: line, Column: column}
	}

	tests := []struct {
		input string
		diag  diagnostics.Diag
	}{
		{
			input: "if x:\nprint(x)\n",
			diag:  diagnostics.Diag{Kind: diagnostics.PARSE_ERROR, Pos: pos(2, 1), Message: "expected an indented block, not identifier 'print'"},
		},
		{
			// unmatched dedent is a lexical error
			input: "while x:\n    a\n  b\n",
			diag:  diagnostics.Diag{Kind: diagnostics.LEX_ERROR, Pos: pos(3, 3), Message: "unindent does not match any outer indentation level"},
		},
		{
			input: "1 = 2\n",
			diag:  diagnostics.Diag{Kind: diagnostics.PARSE_ERROR, Pos: pos(1, 3), Message: "invalid assignment target"},
		},
		{
			input: "val = 3\n",
			diag:  diagnostics.Diag{Kind: diagnostics.PARSE_ERROR, Pos: pos(1, 5), Message: "expected variable name, not '='"},
		},
		{
			input: "def f(a int):\n    return\n",
			diag:  diagnostics.Diag{Kind: diagnostics.PARSE_ERROR, Pos: pos(1, 9), Message: "expected ':' and type for parameter 'a', not 'int'"},
		},
		{
			input: "print(1",
			diag:  diagnostics.Diag{Kind: diagnostics.PARSE_ERROR, Pos: pos(1, 8), Message: "expected ',' or ')', not newline"},
		},
		{
			input: "x = 1 2\n",
			diag:  diagnostics.Diag{Kind: diagnostics.PARSE_ERROR, Pos: pos(1, 7), Message: "expected end of statement, not number 2"},
		},
		{
			input: "class A:\n    1\n",
			diag:  diagnostics.Diag{Kind: diagnostics.PARSE_ERROR, Pos: pos(2, 5), Message: "expected field or method declaration, not number 1"},
		},
		{
			input: "if x:\n    def g():\n        return\n",
			diag:  diagnostics.Diag{Kind: diagnostics.PARSE_ERROR, Pos: pos(2, 5), Message: "'def' is only allowed at module level"},
		},
		{
			input: "print(f\"{1 2}\")\n",
			diag:  diagnostics.Diag{Kind: diagnostics.PARSE_ERROR, Pos: pos(1, 12), Message: "expected '}' after interpolated expression, not number 2"},
		},
		{
			input: "try:\n    a()\nb()\n",
			diag:  diagnostics.Diag{Kind: diagnostics.PARSE_ERROR, Pos: pos(3, 1), Message: "expected 'catch' after try block, not identifier 'b'"},
		},
	}

	for _, test := range tests {
		t.Run(fmt.Sprintf("TestParseErrors(%q)", test.input), func(t *testing.T) {
			collector := diagnostics.New()
			_, err := ParseSourceFrom(test.input, defaultFilename, collector)
			if err == nil {
				t.Fatal("expected to have errors, but got nothing")
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
