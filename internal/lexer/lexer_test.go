package lexer

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/mas6y6/REDLINE/internal/ast"
	"github.com/mas6y6/REDLINE/internal/diagnostics"
	"github.com/mas6y6/REDLINE/internal/lexer/token"
)

const filename = "test.rl"

func tokenize(t *testing.T, input string) []*token.Token {
	t.Helper()
	collector := diagnostics.New()
	loc := new(ast.Loc)
	loc.Name = filename
	lex := New(loc, []byte(input), collector)

	tokens, err := lex.Tokenize()
	if err != nil {
		t.Fatalf("unexpected error '%v': %v", err, collector.Diags)
	}
	return tokens
}

func kinds(tokens []*token.Token) []token.Kind {
	result := make([]token.Kind, len(tokens))
	for i, tok := range tokens {
		result[i] = tok.Kind
	}
	return result
}

type tokenKindTest struct {
	lexeme string
	kind   token.Kind
}

func TestTokenKinds(t *testing.T) {
	tests := []*tokenKindTest{
		{"val", token.VAL},
		{"var", token.VAR},
		{"def", token.DEF},
		{"pub", token.PUB},
		{"class", token.CLASS},
		{"new", token.NEW},
		{"this", token.THIS},
		{"return", token.RETURN},
		{"if", token.IF},
		{"elif", token.ELIF},
		{"else", token.ELSE},
		{"while", token.WHILE},
		{"for", token.FOR},
		{"in", token.IN},
		{"break", token.BREAK},
		{"continue", token.CONTINUE},
		{"import", token.IMPORT},
		{"as", token.AS},
		{"try", token.TRY},
		{"catch", token.CATCH},
		{"and", token.AND},
		{"or", token.OR},
		{"not", token.NOT},

		{"int", token.INT_TYPE},
		{"float", token.FLOAT_TYPE},
		{"string", token.STRING_TYPE},
		{"bool", token.BOOL_TYPE},
		{"void", token.VOID_TYPE},
		{"list", token.LIST_TYPE},
		{"dict", token.DICT_TYPE},

		{"(", token.OPEN_PAREN},
		{")", token.CLOSE_PAREN},
		{"[", token.OPEN_BRACKET},
		{"]", token.CLOSE_BRACKET},
		{"{", token.OPEN_CURLY},
		{"}", token.CLOSE_CURLY},
		{",", token.COMMA},
		{":", token.COLON},
		{".", token.DOT},
		{"..", token.DOT_DOT},
		{"->", token.ARROW},
		{"=", token.EQUAL},
		{"==", token.EQUAL_EQUAL},
		{"!=", token.BANG_EQUAL},
		{"!", token.BANG},
		{">", token.GREATER},
		{">=", token.GREATER_EQ},
		{"<", token.LESS},
		{"<=", token.LESS_EQ},
		{"+", token.PLUS},
		{"-", token.MINUS},
		{"*", token.STAR},
		{"/", token.SLASH},
		{"%", token.PERCENT},
	}

	for _, test := range tests {
		t.Run(fmt.Sprintf("TestTokenKind(%q)", test.lexeme), func(t *testing.T) {
			tokenResult := tokenize(t, test.lexeme)

			// kind, NEWLINE, EOF
			if len(tokenResult) != 3 {
				t.Fatalf("expected 3 tokens, but got %d: %v", len(tokenResult), kinds(tokenResult))
			}
			if tokenResult[0].Kind != test.kind {
				t.Errorf("expected token to be %q, but got %q", test.kind, tokenResult[0].Kind)
			}
			if tokenResult[1].Kind != token.NEWLINE {
				t.Errorf("expected NEWLINE before EOF, but got %q", tokenResult[1].Kind)
			}
			if tokenResult[2].Kind != token.EOF {
				t.Errorf("expected last token to be EOF, but got %q", tokenResult[2].Kind)
			}
		})
	}
}

type tokenPosTest struct {
	input     string
	positions []token.Pos
}

func TestTokenPos(t *testing.T) {
	tests := []*tokenPosTest{
		{"val x", []token.Pos{
			{Filename: filename, Line: 1, Column: 1},  // val
			{Filename: filename, Line: 1, Column: 5},  // x
			{Filename: filename, Line: 1, Column: 6},  // newline
			{Filename: filename, Line: 1, Column: 6}}, // eof
		},
		{"a\nb", []token.Pos{
			{Filename: filename, Line: 1, Column: 1},  // a
			{Filename: filename, Line: 1, Column: 2},  // \n
			{Filename: filename, Line: 2, Column: 1},  // b
			{Filename: filename, Line: 2, Column: 2},  // newline
			{Filename: filename, Line: 2, Column: 2}}, // eof
		},
		{"if x:\n    y", []token.Pos{
			{Filename: filename, Line: 1, Column: 1},  // if
			{Filename: filename, Line: 1, Column: 4},  // x
			{Filename: filename, Line: 1, Column: 5},  // :
			{Filename: filename, Line: 1, Column: 6},  // \n
			{Filename: filename, Line: 2, Column: 5},  // indent
			{Filename: filename, Line: 2, Column: 5},  // y
			{Filename: filename, Line: 2, Column: 6},  // newline
			{Filename: filename, Line: 2, Column: 6},  // dedent
			{Filename: filename, Line: 2, Column: 6}}, // eof
		},
	}

	for _, test := range tests {
		t.Run(fmt.Sprintf("TestTokenPos(%q)", test.input), func(t *testing.T) {
			tokenResult := tokenize(t, test.input)

			if len(tokenResult) != len(test.positions) {
				t.Fatalf(
					"expected %d tokens, but got %d: %v",
					len(test.positions),
					len(tokenResult),
					kinds(tokenResult),
				)
			}

			for i, expectedPos := range test.positions {
				actualPos := tokenResult[i].Pos
				if expectedPos != actualPos {
					t.Errorf(
						"expected position of '%s' to be %s, but got %s",
						tokenResult[i].Kind,
						expectedPos,
						actualPos,
					)
				}
			}
		})
	}
}

func TestIndentation(t *testing.T) {
	tests := []struct {
		input string
		kinds []token.Kind
	}{
		{
			"if x:\n    y\nz",
			[]token.Kind{
				token.IF, token.ID, token.COLON, token.NEWLINE,
				token.INDENT, token.ID, token.NEWLINE,
				token.DEDENT, token.ID, token.NEWLINE,
				token.EOF,
			},
		},
		{
			"a:\n  b:\n    c\nd",
			[]token.Kind{
				token.ID, token.COLON, token.NEWLINE,
				token.INDENT, token.ID, token.COLON, token.NEWLINE,
				token.INDENT, token.ID, token.NEWLINE,
				token.DEDENT, token.DEDENT, token.ID, token.NEWLINE,
				token.EOF,
			},
		},
		{
			// blank and comment-only lines do not affect indentation
			"a\n\n   # comment\n\nb # trailing\n",
			[]token.Kind{
				token.ID, token.NEWLINE,
				token.ID, token.NEWLINE,
				token.EOF,
			},
		},
		{
			// a tab counts as four columns
			"a:\n\tb\n    c",
			[]token.Kind{
				token.ID, token.COLON, token.NEWLINE,
				token.INDENT, token.ID, token.NEWLINE,
				token.ID, token.NEWLINE,
				token.DEDENT, token.EOF,
			},
		},
		{
			// newlines inside brackets are joined
			"f(1,\n      2)\n",
			[]token.Kind{
				token.ID, token.OPEN_PAREN, token.INTEGER_LITERAL, token.COMMA,
				token.INTEGER_LITERAL, token.CLOSE_PAREN, token.NEWLINE,
				token.EOF,
			},
		},
		{
			"",
			[]token.Kind{token.EOF},
		},
	}

	for _, test := range tests {
		t.Run(fmt.Sprintf("TestIndentation(%q)", test.input), func(t *testing.T) {
			got := kinds(tokenize(t, test.input))
			if !reflect.DeepEqual(got, test.kinds) {
				t.Fatalf("\nexpected: %v\ngot:      %v", test.kinds, got)
			}
		})
	}
}

func TestLiterals(t *testing.T) {
	tests := []struct {
		input  string
		kind   token.Kind
		lexeme string
	}{
		{"42", token.INTEGER_LITERAL, "42"},
		{"1_000", token.INTEGER_LITERAL, "1000"},
		{"3.5", token.FLOAT_LITERAL, "3.5"},
		{".5", token.FLOAT_LITERAL, "0.5"},
		{`"hello"`, token.STRING_LITERAL, "hello"},
		{`"a\tb\n"`, token.STRING_LITERAL, "a\tb\n"},
		{`"say \"hi\" \\"`, token.STRING_LITERAL, `say "hi" \`},
		{"true", token.TRUE_BOOL_LITERAL, ""},
		{"false", token.FALSE_BOOL_LITERAL, ""},
	}

	for _, test := range tests {
		t.Run(fmt.Sprintf("TestLiterals(%q)", test.input), func(t *testing.T) {
			tokenResult := tokenize(t, test.input)
			if tokenResult[0].Kind != test.kind {
				t.Fatalf("expected %q, but got %q", test.kind, tokenResult[0].Kind)
			}
			if test.lexeme != "" && string(tokenResult[0].Lexeme) != test.lexeme {
				t.Fatalf("expected lexeme %q, but got %q", test.lexeme, tokenResult[0].Lexeme)
			}
		})
	}
}

func TestRangeIsNotAFloat(t *testing.T) {
	got := kinds(tokenize(t, "0..10"))
	expected := []token.Kind{
		token.INTEGER_LITERAL, token.DOT_DOT, token.INTEGER_LITERAL, token.NEWLINE, token.EOF,
	}
	if !reflect.DeepEqual(got, expected) {
		t.Fatalf("\nexpected: %v\ngot:      %v", expected, got)
	}
}

func TestFString(t *testing.T) {
	tokenResult := tokenize(t, `f"x={x + 1}!"`)
	tok := tokenResult[0]
	if tok.Kind != token.FSTRING_LITERAL {
		t.Fatalf("expected FSTRING_LITERAL, but got %q", tok.Kind)
	}
	if len(tok.Parts) != 3 {
		t.Fatalf("expected 3 parts, but got %d", len(tok.Parts))
	}

	if tok.Parts[0].IsExpr || tok.Parts[0].Text != "x=" {
		t.Errorf("expected text part \"x=\", but got %+v", tok.Parts[0])
	}

	expr := tok.Parts[1]
	if !expr.IsExpr {
		t.Fatalf("expected second part to be an expression")
	}
	expectedKinds := []token.Kind{token.ID, token.PLUS, token.INTEGER_LITERAL, token.EOF}
	if got := kinds(expr.Tokens); !reflect.DeepEqual(got, expectedKinds) {
		t.Errorf("\nexpected: %v\ngot:      %v", expectedKinds, got)
	}
	expectedPos := token.Pos{Filename: filename, Line: 1, Column: 6}
	if expr.Tokens[0].Pos != expectedPos {
		t.Errorf("expected nested token at %s, but got %s", expectedPos, expr.Tokens[0].Pos)
	}

	if tok.Parts[2].IsExpr || tok.Parts[2].Text != "!" {
		t.Errorf("expected text part \"!\", but got %+v", tok.Parts[2])
	}
}

func TestFStringEscapedBraces(t *testing.T) {
	tok := tokenize(t, `f"{{a}}"`)[0]
	if len(tok.Parts) != 1 || tok.Parts[0].IsExpr || tok.Parts[0].Text != "{a}" {
		t.Fatalf("expected a single literal part \"{a}\", but got %+v", tok.Parts)
	}
}

type lexicalErrorTest struct {
	input string
	diags []diagnostics.Diag
}

func TestLexicalErrors(t *testing.T) {
	pos := func(line, column int) token.Pos {
		return token.Pos{Filename: filename, Line: line, Column: column}
	}

	tests := []lexicalErrorTest{
		{
			input: "?",
			diags: []diagnostics.Diag{
				{Kind: diagnostics.LEX_ERROR, Pos: pos(1, 1), Message: "invalid character '?'"},
			},
		},
		{
			input: "\"Unterminated string literal here",
			diags: []diagnostics.Diag{
				{Kind: diagnostics.LEX_ERROR, Pos: pos(1, 1), Message: "unterminated string literal"},
			},
		},
		{
			input: "\"a\nb\"",
			diags: []diagnostics.Diag{
				{Kind: diagnostics.LEX_ERROR, Pos: pos(1, 1), Message: "unterminated string literal"},
			},
		},
		{
			input: `"a\q"`,
			diags: []diagnostics.Diag{
				{Kind: diagnostics.LEX_ERROR, Pos: pos(1, 3), Message: "invalid escape sequence '\\q'"},
			},
		},
		{
			input: "1.2.3",
			diags: []diagnostics.Diag{
				{Kind: diagnostics.LEX_ERROR, Pos: pos(1, 1), Message: "invalid number: multiple decimal points"},
			},
		},
		{
			input: "99999999999999999999",
			diags: []diagnostics.Diag{
				{Kind: diagnostics.LEX_ERROR, Pos: pos(1, 1), Message: "invalid numeric literal 99999999999999999999"},
			},
		},
		{
			input: "12abc",
			diags: []diagnostics.Diag{
				{Kind: diagnostics.LEX_ERROR, Pos: pos(1, 1), Message: "invalid numeric literal"},
			},
		},
		{
			input: "a:\n    b\n  c",
			diags: []diagnostics.Diag{
				{Kind: diagnostics.LEX_ERROR, Pos: pos(3, 3), Message: "unindent does not match any outer indentation level"},
			},
		},
		{
			input: `f"{x"`,
			diags: []diagnostics.Diag{
				{Kind: diagnostics.LEX_ERROR, Pos: pos(1, 3), Message: "unterminated interpolation in string"},
			},
		},
		{
			input: `f"{ }"`,
			diags: []diagnostics.Diag{
				{Kind: diagnostics.LEX_ERROR, Pos: pos(1, 3), Message: "empty interpolation in string"},
			},
		},
		{
			input: `f"a}"`,
			diags: []diagnostics.Diag{
				{Kind: diagnostics.LEX_ERROR, Pos: pos(1, 4), Message: "single '}' is not allowed in interpolated string"},
			},
		},
		{
			input: `f"abc`,
			diags: []diagnostics.Diag{
				{Kind: diagnostics.LEX_ERROR, Pos: pos(1, 1), Message: "unterminated interpolated string"},
			},
		},
		{
			input: `f"{a ? b}"`,
			diags: []diagnostics.Diag{
				{Kind: diagnostics.LEX_ERROR, Pos: pos(1, 6), Message: "invalid character '?'"},
			},
		},
	}

	for _, test := range tests {
		t.Run(fmt.Sprintf("TestLexicalErrors(%q)", test.input), func(t *testing.T) {
			collector := diagnostics.New()

			src := []byte(test.input)
			loc := new(ast.Loc)
			loc.Name = filename
			lex := New(loc, src, collector)
			_, err := lex.Tokenize()
			if err == nil {
				t.Fatal("expected to have lexical errors, but got nothing")
			}

			if len(test.diags) != len(lex.Collector.Diags) {
				t.Fatalf(
					"expected to have %d diag(s), but got %d: %v",
					len(test.diags),
					len(lex.Collector.Diags),
					lex.Collector.Diags,
				)
			}

			if !reflect.DeepEqual(test.diags, lex.Collector.Diags) {
				t.Fatalf("\nexpected diags: %v\ngot diags: %v\n", test.diags, lex.Collector.Diags)
			}
		})
	}
}
