package parser

import (
	"github.com/mas6y6/REDLINE/internal/lexer/token"
)

// cursor walks a token slice that always ends with EOF. Reading past the end
// keeps returning that EOF token.
type cursor struct {
	offset int
	tokens []*token.Token
}

func newCursor(tokens []*token.Token) *cursor {
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != token.EOF {
		tokens = append(tokens, token.New(nil, token.EOF, token.Pos{}))
	}
	return &cursor{offset: 0, tokens: tokens}
}

func (cursor *cursor) peek() *token.Token {
	return cursor.peekN(0)
}

func (cursor *cursor) peekN(n int) *token.Token {
	index := cursor.offset + n
	if index >= len(cursor.tokens) {
		return cursor.tokens[len(cursor.tokens)-1]
	}
	return cursor.tokens[index]
}

func (cursor *cursor) next() *token.Token {
	token := cursor.peek()
	if !cursor.isOutOfBound() {
		cursor.offset++
	}
	return token
}

func (cursor *cursor) skip() {
	cursor.next()
}

func (cursor *cursor) nextIs(expectedKind token.Kind) bool {
	return cursor.peek().Kind == expectedKind
}

func (cursor *cursor) isOutOfBound() bool {
	return cursor.offset >= len(cursor.tokens)-1
}
