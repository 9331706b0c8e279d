package token

import "strconv"

type Kind int

const (
	EOF Kind = iota
	INVALID

	// Layout
	NEWLINE
	INDENT
	DEDENT

	// Identifier
	ID

	LITERAL_START // literal delimiter
	INTEGER_LITERAL
	FLOAT_LITERAL
	STRING_LITERAL
	FSTRING_LITERAL
	TRUE_BOOL_LITERAL
	FALSE_BOOL_LITERAL
	LITERAL_END // literal delimiter

	// Keywords
	VAL
	VAR
	DEF
	PUB
	CLASS
	NEW
	THIS
	RETURN
	IF
	ELIF
	ELSE
	WHILE
	FOR
	IN
	BREAK
	CONTINUE
	IMPORT
	AS
	TRY
	CATCH
	AND
	OR
	NOT

	TYPE_START // type keyword delimiter
	INT_TYPE
	FLOAT_TYPE
	STRING_TYPE
	BOOL_TYPE
	VOID_TYPE
	LIST_TYPE
	DICT_TYPE
	TYPE_END // type keyword delimiter

	// (
	OPEN_PAREN
	// )
	CLOSE_PAREN
	// [
	OPEN_BRACKET
	// ]
	CLOSE_BRACKET
	// {
	OPEN_CURLY
	// }
	CLOSE_CURLY

	// ,
	COMMA
	// :
	COLON
	// .
	DOT
	// ..
	DOT_DOT
	// ->
	ARROW

	// =
	EQUAL
	// ==
	EQUAL_EQUAL
	// !=
	BANG_EQUAL
	// !
	BANG

	// >
	GREATER
	// >=
	GREATER_EQ
	// <
	LESS
	// <=
	LESS_EQ

	// +
	PLUS
	// -
	MINUS
	// *
	STAR
	// /
	SLASH
	// %
	PERCENT
)

var KEYWORDS map[string]Kind = map[string]Kind{
	"val":      VAL,
	"var":      VAR,
	"def":      DEF,
	"pub":      PUB,
	"class":    CLASS,
	"new":      NEW,
	"this":     THIS,
	"return":   RETURN,
	"if":       IF,
	"elif":     ELIF,
	"else":     ELSE,
	"while":    WHILE,
	"for":      FOR,
	"in":       IN,
	"break":    BREAK,
	"continue": CONTINUE,
	"import":   IMPORT,
	"as":       AS,
	"try":      TRY,
	"catch":    CATCH,
	"and":      AND,
	"or":       OR,
	"not":      NOT,

	"true":  TRUE_BOOL_LITERAL,
	"false": FALSE_BOOL_LITERAL,

	"int":    INT_TYPE,
	"float":  FLOAT_TYPE,
	"string": STRING_TYPE,
	"bool":   BOOL_TYPE,
	"void":   VOID_TYPE,
	"list":   LIST_TYPE,
	"dict":   DICT_TYPE,
}

var kindNames = map[Kind]string{
	EOF:     "EOF",
	INVALID: "INVALID",
	NEWLINE: "newline",
	INDENT:  "indent",
	DEDENT:  "dedent",
	ID:      "identifier",

	INTEGER_LITERAL:    "integer literal",
	FLOAT_LITERAL:      "float literal",
	STRING_LITERAL:     "string literal",
	FSTRING_LITERAL:    "interpolated string",
	TRUE_BOOL_LITERAL:  "true",
	FALSE_BOOL_LITERAL: "false",

	OPEN_PAREN:    "(",
	CLOSE_PAREN:   ")",
	OPEN_BRACKET:  "[",
	CLOSE_BRACKET: "]",
	OPEN_CURLY:    "{",
	CLOSE_CURLY:   "}",
	COMMA:         ",",
	COLON:         ":",
	DOT:           ".",
	DOT_DOT:       "..",
	ARROW:         "->",
	EQUAL:         "=",
	EQUAL_EQUAL:   "==",
	BANG_EQUAL:    "!=",
	BANG:          "!",
	GREATER:       ">",
	GREATER_EQ:    ">=",
	LESS:          "<",
	LESS_EQ:       "<=",
	PLUS:          "+",
	MINUS:         "-",
	STAR:          "*",
	SLASH:         "/",
	PERCENT:       "%",
}

func init() {
	for lexeme, kind := range KEYWORDS {
		kindNames[kind] = lexeme
	}
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

func (k Kind) IsLiteral() bool {
	return k > LITERAL_START && k < LITERAL_END
}

func (k Kind) IsTypeKeyword() bool {
	return k > TYPE_START && k < TYPE_END
}

// IsKeyword reports whether k is spelled as a reserved word.
func (k Kind) IsKeyword() bool {
	return (k >= VAL && k <= NOT) || k.IsTypeKeyword() ||
		k == TRUE_BOOL_LITERAL || k == FALSE_BOOL_LITERAL
}
