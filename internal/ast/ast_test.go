package ast

import (
	"testing"

	"github.com/mas6y6/REDLINE/internal/lexer/token"
)

func classTok(name string) *token.Token {
	return token.New([]byte(name), token.ID, token.NewPosition("test.rl", 1, 1))
}

func TestTypeEquals(t *testing.T) {
	point := &ClassDecl{Name: classTok("Point")}
	other := &ClassDecl{Name: classTok("Point")}

	tests := []struct {
		a, b  *Type
		equal bool
	}{
		{INT_TYPE, INT_TYPE, true},
		{INT_TYPE, FLOAT_TYPE, false},
		{NewListType(INT_TYPE), NewListType(INT_TYPE), true},
		{NewListType(INT_TYPE), NewListType(FLOAT_TYPE), false},
		{NewListType(NewListType(STRING_TYPE)), NewListType(NewListType(STRING_TYPE)), true},
		{NewDictType(STRING_TYPE, INT_TYPE), NewDictType(STRING_TYPE, INT_TYPE), true},
		{NewDictType(STRING_TYPE, INT_TYPE), NewDictType(INT_TYPE, INT_TYPE), false},
		{NewDictType(STRING_TYPE, INT_TYPE), NewListType(INT_TYPE), false},
		{NewInstanceType(point), NewInstanceType(point), true},
		// same name, different declaration
		{NewInstanceType(point), NewInstanceType(other), false},
	}

	for _, test := range tests {
		t.Run(test.a.String()+"=="+test.b.String(), func(t *testing.T) {
			if got := test.a.Equals(test.b); got != test.equal {
				t.Fatalf("expected %v, but got %v", test.equal, got)
			}
		})
	}
}

func TestTypeString(t *testing.T) {
	tests := []struct {
		typ  *Type
		want string
	}{
		{NewListType(INT_TYPE), "list[int]"},
		{NewDictType(STRING_TYPE, NewListType(FLOAT_TYPE)), "dict[string, list[float]]"},
		{NewClassType(classTok("geo"), classTok("Point")), "geo.Point"},
		{NewListType(nil), "list[?]"},
	}
	for _, test := range tests {
		if got := test.typ.String(); got != test.want {
			t.Errorf("expected %q, but got %q", test.want, got)
		}
	}
}

func TestScopeLookup(t *testing.T) {
	module := NewScope(nil, SCOPE_MODULE)
	fn := NewScope(module, SCOPE_FUNCTION)
	loop := NewScope(fn, SCOPE_LOOP)
	block := NewScope(loop, SCOPE_BLOCK)

	outer := &Symbol{Kind: SYMBOL_VAR, Name: "x", Type: INT_TYPE}
	inner := &Symbol{Kind: SYMBOL_VAR, Name: "x", Type: STRING_TYPE}

	if err := module.Insert("x", outer); err != nil {
		t.Fatal(err)
	}
	if err := module.Insert("x", outer); err != ERR_SYMBOL_ALREADY_DEFINED_ON_SCOPE {
		t.Fatalf("expected redefinition error, but got %v", err)
	}
	if err := loop.Insert("x", inner); err != nil {
		t.Fatal(err)
	}

	sym, err := block.LookupAcrossScopes("x")
	if err != nil || sym != inner {
		t.Fatalf("expected inner symbol to shadow outer, got %v (%v)", sym, err)
	}
	if _, err := block.LookupCurrentScope("x"); err != ERR_SYMBOL_NOT_FOUND_ON_SCOPE {
		t.Fatalf("expected x to be missing from the block scope, but got %v", err)
	}
	if !block.InLoop() {
		t.Fatal("expected block nested in a loop to be inside a loop")
	}
	if fn.InLoop() {
		t.Fatal("function scope must not be inside a loop")
	}

	nested := NewScope(NewScope(loop, SCOPE_FUNCTION), SCOPE_BLOCK)
	if nested.InLoop() {
		t.Fatal("loops must not leak through function boundaries")
	}
}

func TestModuleNameFromPath(t *testing.T) {
	tests := map[string]string{
		"main.rl":       "main",
		"utils/math.rl": "utils.math",
		"a/b/c_d.rl":    "a.b.c_d",
	}
	for in, want := range tests {
		if got := ModuleNameFromPath(in); got != want {
			t.Errorf("ModuleNameFromPath(%q) = %q, want %q", in, got, want)
		}
	}
}
