package parser

import (
	"github.com/mas6y6/REDLINE/internal/ast"
	"github.com/mas6y6/REDLINE/internal/diagnostics"
	"github.com/mas6y6/REDLINE/internal/lexer"
	"github.com/mas6y6/REDLINE/internal/lexer/token"
)

const defaultFilename = "test.rl"

func FakeLoc(filename string) *ast.Loc {
	if filename == "" {
		filename = defaultFilename
	}
	return &ast.Loc{Name: filename, Path: filename}
}

func parseExprWith(expr, filename string, collector *diagnostics.Collector) (*ast.Node, error) {
	lex := lexer.New(FakeLoc(filename), []byte(expr), collector)
	tokens, err := lex.Tokenize()
	if err != nil {
		return nil, err
	}

	p := New(tokens, collector)
	exprAst, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	p.skipNewlines()
	if rest := p.cursor.peek(); rest.Kind != token.EOF {
		return nil, p.unexpected(rest, "end of expression")
	}
	return exprAst, nil
}

// ParseSourceFrom parses src as a standalone entry module.
func ParseSourceFrom(src, filename string, collector *diagnostics.Collector) (*ast.Module, error) {
	loc := FakeLoc(filename)
	module := &ast.Module{
		Loc:     loc,
		Name:    ast.ModuleNameFromPath(loc.Path),
		IsEntry: true,
		Src:     []byte(src),
	}
	err := ParseModule(module, collector)
	return module, err
}
