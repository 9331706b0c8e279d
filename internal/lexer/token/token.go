package token

import "fmt"

type Token struct {
	Lexeme []byte
	Kind   Kind
	Pos    Pos

	// Only set for FSTRING_LITERAL.
	Parts []*FStringPart
}

// FStringPart is one segment of an interpolated string: either literal text
// or an embedded expression that was lexed on its own.
type FStringPart struct {
	IsExpr bool
	Text   string
	Tokens []*Token
	Pos    Pos
}

func New(lexeme []byte, kind Kind, position Pos) *Token {
	return &Token{Lexeme: lexeme, Kind: kind, Pos: position}
}

func (token *Token) Name() string {
	switch token.Kind {
	case ID, INTEGER_LITERAL, FLOAT_LITERAL, STRING_LITERAL:
		return string(token.Lexeme)
	}
	return token.Kind.String()
}

func (token *Token) String() string {
	return fmt.Sprintf("%s | %s | %s", string(token.Lexeme), token.Kind, token.Pos)
}
