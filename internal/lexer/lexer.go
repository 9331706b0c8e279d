package lexer

import (
	"io/fs"
	"strconv"
	"strings"
	"unicode"

	"github.com/mas6y6/REDLINE/internal/ast"
	"github.com/mas6y6/REDLINE/internal/diagnostics"
	"github.com/mas6y6/REDLINE/internal/lexer/token"
)

const eof = '\000'

// tabWidth is the number of columns a tab counts for when measuring
// indentation.
const tabWidth = 4

type Lexer struct {
	Loc           *ast.Loc
	Collector     *diagnostics.Collector
	StrictNewline bool

	src    []byte
	offset int
	pos    token.Pos

	indents     []int
	nesting     int
	atLineStart bool
	nested      bool
	tokens      []*token.Token
}

func New(loc *ast.Loc, src []byte, collector *diagnostics.Collector) *Lexer {
	lexer := new(Lexer)

	lexer.Loc = loc
	lexer.Collector = collector
	lexer.StrictNewline = true
	lexer.pos = token.NewPosition(loc.Name, 1, 1)
	lexer.src = src
	lexer.offset = 0
	lexer.indents = []int{0}
	lexer.atLineStart = true

	return lexer
}

func NewFromFS(fsys fs.FS, loc *ast.Loc, collector *diagnostics.Collector) (*Lexer, error) {
	src, err := fs.ReadFile(fsys, loc.Path)
	if err != nil {
		return nil, err
	}
	l := New(loc, src, collector)
	return l, nil
}

// newNested returns a lexer over the text of an f-string segment. It starts
// at the segment's position in the enclosing file and never produces layout
// tokens.
func newNested(parent *Lexer, src []byte, start token.Pos) *Lexer {
	lexer := New(parent.Loc, src, parent.Collector)
	lexer.pos = start
	lexer.nested = true
	lexer.nesting = 1
	lexer.StrictNewline = false
	lexer.atLineStart = false
	return lexer
}

func (lex *Lexer) Filename() string { return lex.pos.Filename }

func (lex *Lexer) Source() []byte { return lex.src }

// Tokenize lexes the whole input. The result always ends with EOF; before it
// every open indentation level is closed with a DEDENT. Lexing stops at the
// first error, which is reported to the collector.
func (lex *Lexer) Tokenize() ([]*token.Token, error) {
	for {
		if lex.atLineStart && lex.nesting == 0 {
			if !lex.handleIndentation() {
				return nil, diagnostics.COMPILER_ERROR_FOUND
			}
		}

		tok := lex.next()
		switch tok.Kind {
		case token.INVALID:
			return nil, diagnostics.COMPILER_ERROR_FOUND
		case token.EOF:
			lex.finish(tok)
			return lex.tokens, nil
		case token.NEWLINE:
			lex.atLineStart = true
			if lex.nesting > 0 || lex.lastIsLineBreak() {
				continue
			}
		}
		lex.tokens = append(lex.tokens, tok)
	}
}

func (lex *Lexer) finish(eofTok *token.Token) {
	if !lex.nested {
		if len(lex.tokens) > 0 && !lex.lastIsLineBreak() {
			lex.tokens = append(lex.tokens, token.New(nil, token.NEWLINE, eofTok.Pos))
		}
		for len(lex.indents) > 1 {
			lex.indents = lex.indents[:len(lex.indents)-1]
			lex.tokens = append(lex.tokens, token.New(nil, token.DEDENT, eofTok.Pos))
		}
	}
	lex.tokens = append(lex.tokens, eofTok)
}

func (lex *Lexer) lastIsLineBreak() bool {
	if len(lex.tokens) == 0 {
		return true
	}
	switch lex.tokens[len(lex.tokens)-1].Kind {
	case token.NEWLINE, token.INDENT, token.DEDENT:
		return true
	}
	return false
}

// handleIndentation measures the leading whitespace of the current line and
// emits INDENT/DEDENT tokens against the indentation stack. Blank and
// comment-only lines leave the stack untouched.
func (lex *Lexer) handleIndentation() bool {
	width := 0
	for {
		ch := lex.peekChar()
		if ch == ' ' {
			width++
		} else if ch == '\t' {
			width += tabWidth
		} else if ch != '\r' {
			break
		}
		lex.nextChar()
	}

	switch lex.peekChar() {
	case '\n', '#', eof:
		return true
	}
	lex.atLineStart = false

	pos := lex.pos
	top := lex.indents[len(lex.indents)-1]
	if width > top {
		lex.indents = append(lex.indents, width)
		lex.tokens = append(lex.tokens, token.New(nil, token.INDENT, pos))
		return true
	}
	for width < lex.indents[len(lex.indents)-1] {
		lex.indents = lex.indents[:len(lex.indents)-1]
		lex.tokens = append(lex.tokens, token.New(nil, token.DEDENT, pos))
	}
	if width != lex.indents[len(lex.indents)-1] {
		lex.Collector.Report(
			diagnostics.LEX_ERROR,
			pos,
			"unindent does not match any outer indentation level",
		)
		return false
	}
	return true
}

func (lex *Lexer) next() *token.Token {
	lex.skipWhitespace()
	character := lex.peekChar()

	tok := &token.Token{}
	tok.Kind = token.INVALID

	if character == eof {
		lex.consumeTokenNoLex(tok, token.EOF)
		return tok
	}

	return lex.getToken(tok, character)
}

func (lex *Lexer) getToken(tok *token.Token, ch byte) *token.Token {
	switch ch {
	case '\n':
		lex.consumeTokenNoLex(tok, token.NEWLINE)
		lex.nextChar()
	case '(':
		lex.open(tok, token.OPEN_PAREN)
	case ')':
		lex.close(tok, token.CLOSE_PAREN)
	case '[':
		lex.open(tok, token.OPEN_BRACKET)
	case ']':
		lex.close(tok, token.CLOSE_BRACKET)
	case '{':
		lex.open(tok, token.OPEN_CURLY)
	case '}':
		lex.close(tok, token.CLOSE_CURLY)
	case ',':
		lex.consumeTokenNoLex(tok, token.COMMA)
		lex.nextChar()
	case ':':
		lex.consumeTokenNoLex(tok, token.COLON)
		lex.nextChar()
	case '+':
		lex.consumeTokenNoLex(tok, token.PLUS)
		lex.nextChar()
	case '*':
		lex.consumeTokenNoLex(tok, token.STAR)
		lex.nextChar()
	case '/':
		lex.consumeTokenNoLex(tok, token.SLASH)
		lex.nextChar()
	case '%':
		lex.consumeTokenNoLex(tok, token.PERCENT)
		lex.nextChar()
	case '"':
		lex.getStringLit(tok)
	case '-':
		lex.twoChar(tok, token.MINUS, '>', token.ARROW)
	case '=':
		lex.twoChar(tok, token.EQUAL, '=', token.EQUAL_EQUAL)
	case '!':
		lex.twoChar(tok, token.BANG, '=', token.BANG_EQUAL)
	case '>':
		lex.twoChar(tok, token.GREATER, '=', token.GREATER_EQ)
	case '<':
		lex.twoChar(tok, token.LESS, '=', token.LESS_EQ)
	case '.':
		if isDigit(lex.peekCharAt(1)) {
			lex.getNumberLit(tok)
			break
		}
		lex.twoChar(tok, token.DOT, '.', token.DOT_DOT)
	default:
		if ch == 'f' && lex.peekCharAt(1) == '"' {
			lex.getFStringLit(tok)
		} else if unicode.IsLetter(rune(ch)) || ch == '_' {
			lex.getIdOrKeyword(tok)
		} else if isDigit(ch) {
			lex.getNumberLit(tok)
		} else {
			lex.Collector.Report(diagnostics.LEX_ERROR, lex.pos, "invalid character %q", ch)
		}
	}
	return tok
}

func (lex *Lexer) open(tok *token.Token, kind token.Kind) {
	lex.consumeTokenNoLex(tok, kind)
	lex.nextChar()
	lex.nesting++
	lex.StrictNewline = false
}

func (lex *Lexer) close(tok *token.Token, kind token.Kind) {
	lex.consumeTokenNoLex(tok, kind)
	lex.nextChar()
	if lex.nesting > 0 {
		lex.nesting--
	}
	lex.StrictNewline = lex.nesting == 0
}

func (lex *Lexer) twoChar(tok *token.Token, single token.Kind, second byte, double token.Kind) {
	lex.consumeTokenNoLex(tok, single)
	lex.nextChar()
	if lex.peekChar() == second {
		lex.nextChar()
		tok.Kind = double
	}
}

func (lex *Lexer) getStringLit(tok *token.Token) {
	tok.Pos = lex.pos
	lex.nextChar() // "

	var str []byte
	for {
		ch := lex.peekChar()
		if ch == eof || ch == '\n' {
			lex.Collector.Report(diagnostics.LEX_ERROR, tok.Pos, "unterminated string literal")
			return
		}
		if ch == '"' {
			lex.nextChar()
			break
		}
		if ch == '\\' {
			escape, ok := lex.getEscape()
			if !ok {
				return
			}
			str = append(str, escape)
			continue
		}
		str = append(str, ch)
		lex.nextChar()
	}

	tok.Kind = token.STRING_LITERAL
	tok.Lexeme = str
}

// getEscape consumes a backslash sequence and returns the byte it denotes.
func (lex *Lexer) getEscape() (byte, bool) {
	pos := lex.pos
	lex.nextChar() // \
	escapeSym := lex.peekChar()

	var escape byte
	switch escapeSym {
	case 'n':
		escape = '\n'
	case 't':
		escape = '\t'
	case 'r':
		escape = '\r'
	case '\\':
		escape = '\\'
	case '"':
		escape = '"'
	default:
		lex.Collector.Report(diagnostics.LEX_ERROR, pos, "invalid escape sequence '\\%c'", escapeSym)
		return 0, false
	}
	lex.nextChar()
	return escape, true
}

// getFStringLit lexes f"...". Literal text and {expr} segments are kept
// apart; every expression segment is lexed again by a nested lexer so the
// parser can treat it as an ordinary token stream.
func (lex *Lexer) getFStringLit(tok *token.Token) {
	tok.Pos = lex.pos
	lex.nextChar() // f
	lex.nextChar() // "

	var parts []*token.FStringPart
	var text []byte
	textPos := lex.pos

	flushText := func() {
		if len(text) > 0 {
			parts = append(parts, &token.FStringPart{Text: string(text), Pos: textPos})
		}
		text = nil
	}

	for {
		ch := lex.peekChar()
		switch {
		case ch == eof || ch == '\n':
			lex.Collector.Report(diagnostics.LEX_ERROR, tok.Pos, "unterminated interpolated string")
			return
		case ch == '"':
			lex.nextChar()
			flushText()
			tok.Kind = token.FSTRING_LITERAL
			tok.Parts = parts
			return
		case ch == '\\':
			if len(text) == 0 {
				textPos = lex.pos
			}
			escape, ok := lex.getEscape()
			if !ok {
				return
			}
			text = append(text, escape)
		case ch == '{' && lex.peekCharAt(1) == '{', ch == '}' && lex.peekCharAt(1) == '}':
			if len(text) == 0 {
				textPos = lex.pos
			}
			text = append(text, ch)
			lex.nextChar()
			lex.nextChar()
		case ch == '{':
			flushText()
			part, ok := lex.getInterpolation()
			if !ok {
				return
			}
			parts = append(parts, part)
			textPos = lex.pos
		case ch == '}':
			lex.Collector.Report(diagnostics.LEX_ERROR, lex.pos, "single '}' is not allowed in interpolated string")
			return
		default:
			if len(text) == 0 {
				textPos = lex.pos
			}
			text = append(text, ch)
			lex.nextChar()
		}
	}
}

func (lex *Lexer) getInterpolation() (*token.FStringPart, bool) {
	open := lex.pos
	lex.nextChar() // {
	start := lex.pos
	startOffset := lex.offset

	depth := 0
	for {
		ch := lex.peekChar()
		if ch == eof || ch == '\n' || ch == '"' {
			lex.Collector.Report(diagnostics.LEX_ERROR, open, "unterminated interpolation in string")
			return nil, false
		}
		if ch == '{' {
			depth++
		} else if ch == '}' {
			if depth == 0 {
				break
			}
			depth--
		}
		lex.nextChar()
	}
	src := lex.src[startOffset:lex.offset]
	lex.nextChar() // }

	if strings.TrimSpace(string(src)) == "" {
		lex.Collector.Report(diagnostics.LEX_ERROR, open, "empty interpolation in string")
		return nil, false
	}

	sub := newNested(lex, src, start)
	tokens, err := sub.Tokenize()
	if err != nil {
		return nil, false
	}
	return &token.FStringPart{IsExpr: true, Tokens: tokens, Pos: start}, true
}

func (lex *Lexer) getNumberLit(tok *token.Token) {
	tok.Pos = lex.pos
	numberType := token.INTEGER_LITERAL

	var number []byte
	if lex.peekChar() == '.' {
		number = append(number, '0')
	}

	for {
		ch := lex.peekChar()
		if isDigit(ch) {
			number = append(number, ch)
			lex.nextChar()
			continue
		}
		if ch == '_' && isDigit(lex.peekCharAt(1)) {
			lex.nextChar()
			continue
		}
		if ch == '.' && isDigit(lex.peekCharAt(1)) {
			if numberType == token.FLOAT_LITERAL {
				lex.Collector.Report(diagnostics.LEX_ERROR, tok.Pos, "invalid number: multiple decimal points")
				return
			}
			numberType = token.FLOAT_LITERAL
			number = append(number, ch)
			lex.nextChar()
			continue
		}
		break
	}

	if unicode.IsLetter(rune(lex.peekChar())) || lex.peekChar() == '_' {
		lex.Collector.Report(diagnostics.LEX_ERROR, tok.Pos, "invalid numeric literal")
		return
	}

	var err error
	if numberType == token.FLOAT_LITERAL {
		_, err = strconv.ParseFloat(string(number), 64)
	} else {
		_, err = strconv.ParseInt(string(number), 10, 64)
	}
	if err != nil {
		lex.Collector.Report(diagnostics.LEX_ERROR, tok.Pos, "invalid numeric literal %s", number)
		return
	}

	tok.Kind = numberType
	tok.Lexeme = number
}

func (lex *Lexer) getIdOrKeyword(tok *token.Token) {
	tok.Pos = lex.pos
	identifier := lex.readWhile(
		func(chr byte) bool { return isDigit(chr) || unicode.IsLetter(rune(chr)) || chr == '_' },
	)
	tok.Kind = token.ID
	tok.Lexeme = identifier
	keyword, ok := token.KEYWORDS[string(identifier)]
	if ok {
		tok.Kind = keyword
	}
}

func (lex *Lexer) consumeTokenNoLex(tok *token.Token, kind token.Kind) {
	tok.Lexeme = nil
	tok.Kind = kind
	tok.Pos = lex.pos
}

func (lex *Lexer) skipWhitespace() {
	for {
		lex.readWhile(func(ch byte) bool {
			return ch == ' ' || ch == '\t' || ch == '\r' || (ch == '\n' && !lex.StrictNewline)
		})
		if lex.peekChar() != '#' {
			return
		}
		lex.readWhile(func(ch byte) bool { return ch != '\n' })
	}
}

func (lex *Lexer) readWhile(isValid func(byte) bool) []byte {
	var start, end int
	start = lex.offset

	for {
		character := lex.peekChar()
		if character == eof {
			break
		}

		if isValid(character) {
			lex.nextChar()
		} else {
			break
		}
	}

	end = lex.offset

	return lex.src[start:end]
}

func (lex *Lexer) nextChar() byte {
	if lex.offset >= len(lex.src) {
		return eof
	}
	character := lex.src[lex.offset]
	lex.pos.Move(character)
	lex.offset++
	return character
}

func (lex *Lexer) peekChar() byte {
	return lex.peekCharAt(0)
}

func (lex *Lexer) peekCharAt(n int) byte {
	if lex.offset+n >= len(lex.src) {
		return eof
	}
	return lex.src[lex.offset+n]
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}
