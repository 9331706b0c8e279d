package parser

import (
	"github.com/mas6y6/REDLINE/internal/ast"
	"github.com/mas6y6/REDLINE/internal/diagnostics"
	"github.com/mas6y6/REDLINE/internal/lexer/token"
)

func (p *Parser) parseExpr() (*ast.Node, error) {
	return p.parseLogicalOr()
}

// parseBinary parses one left-associative precedence level.
func (p *Parser) parseBinary(ops map[token.Kind]bool, operand func() (*ast.Node, error)) (*ast.Node, error) {
	lhs, err := operand()
	if err != nil {
		return nil, err
	}

	for {
		next := p.cursor.peek()
		if _, ok := ops[next.Kind]; !ok {
			break
		}
		p.cursor.skip()

		rhs, err := operand()
		if err != nil {
			return nil, err
		}

		l := new(ast.Node)
		l.Kind = ast.KIND_BINARY_EXPR
		l.Node = &ast.BinaryExpr{Left: lhs, Op: next.Kind, OpPos: next.Pos, Right: rhs}
		lhs = l
	}
	return lhs, nil
}

func (p *Parser) parseLogicalOr() (*ast.Node, error) {
	return p.parseBinary(ast.LOGICAL_OR, p.parseLogicalAnd)
}

func (p *Parser) parseLogicalAnd() (*ast.Node, error) {
	return p.parseBinary(ast.LOGICAL_AND, p.parseEquality)
}

func (p *Parser) parseEquality() (*ast.Node, error) {
	return p.parseBinary(ast.EQUALITY, p.parseComparasion)
}

func (p *Parser) parseComparasion() (*ast.Node, error) {
	return p.parseBinary(ast.COMPARASION, p.parseTerm)
}

func (p *Parser) parseTerm() (*ast.Node, error) {
	return p.parseBinary(ast.TERM, p.parseFactor)
}

func (p *Parser) parseFactor() (*ast.Node, error) {
	return p.parseBinary(ast.FACTOR, p.parseUnary)
}

func (p *Parser) parseUnary() (*ast.Node, error) {
	next := p.cursor.peek()
	if _, ok := ast.UNARY[next.Kind]; ok {
		p.cursor.skip()
		rhs, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		unary := new(ast.Node)
		unary.Kind = ast.KIND_UNARY_EXPR
		unary.Node = &ast.UnaryExpr{Op: next.Kind, OpPos: next.Pos, Value: rhs}
		return unary, nil
	}

	return p.parsePostfix()
}

// parsePostfix applies calls, indexing and member access left to right.
func (p *Parser) parsePostfix() (*ast.Node, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for {
		tok := p.cursor.peek()
		switch tok.Kind {
		case token.OPEN_PAREN:
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			call := new(ast.Node)
			call.Kind = ast.KIND_CALL_EXPR
			call.Node = &ast.CallExpr{Callee: expr, Args: args}
			expr = call
		case token.OPEN_BRACKET:
			p.cursor.skip()
			index, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if closing, ok := p.expect(token.CLOSE_BRACKET); !ok {
				return nil, p.unexpected(closing, "']'")
			}
			n := new(ast.Node)
			n.Kind = ast.KIND_INDEX_EXPR
			n.Node = &ast.IndexExpr{Value: expr, Open: tok.Pos, Index: index}
			expr = n
		case token.DOT:
			p.cursor.skip()
			name, ok := p.expect(token.ID)
			if !ok {
				return nil, p.unexpected(name, "member name after '.'")
			}
			n := new(ast.Node)
			n.Kind = ast.KIND_MEMBER_EXPR
			n.Node = &ast.MemberExpr{Object: expr, Name: name}
			expr = n
		default:
			return expr, nil
		}
	}
}

func (p *Parser) parsePrimary() (*ast.Node, error) {
	n := new(ast.Node)

	tok := p.cursor.peek()
	switch tok.Kind {
	case token.ID:
		p.cursor.skip()
		n.Kind = ast.KIND_ID_EXPR
		n.Node = &ast.IdExpr{Name: tok}
		return n, nil
	case token.THIS:
		p.cursor.skip()
		n.Kind = ast.KIND_THIS_EXPR
		n.Node = &ast.ThisExpr{Pos: tok.Pos}
		return n, nil
	case token.OPEN_PAREN:
		p.cursor.skip() // (
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if closing, ok := p.expect(token.CLOSE_PAREN); !ok {
			return nil, p.unexpected(closing, "')'")
		}
		return expr, nil
	case token.OPEN_BRACKET:
		p.cursor.skip() // [
		elems, err := p.parseExprList(token.CLOSE_BRACKET)
		if err != nil {
			return nil, err
		}
		n.Kind = ast.KIND_LIST_EXPR
		n.Node = &ast.ListExpr{Open: tok.Pos, Elems: elems}
		return n, nil
	case token.OPEN_CURLY:
		return p.parseDictLiteral()
	case token.NEW:
		return p.parseNewExpr()
	case token.FSTRING_LITERAL:
		return p.parseFString()
	}

	if tok.Kind.IsLiteral() {
		p.cursor.skip()
		n.Kind = ast.KIND_LITERAL_EXPR
		n.Node = &ast.LiteralExpr{Token: tok, Value: tok.Lexeme}
		return n, nil
	}
	return nil, p.unexpected(tok, "expression")
}

func (p *Parser) parseArgs() ([]*ast.Node, error) {
	p.expect(token.OPEN_PAREN)
	return p.parseExprList(token.CLOSE_PAREN)
}

// parseExprList parses comma separated expressions up to and including end.
// A trailing comma is accepted.
func (p *Parser) parseExprList(end token.Kind) ([]*ast.Node, error) {
	var exprs []*ast.Node
	for !p.cursor.nextIs(end) {
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)

		if p.cursor.nextIs(token.COMMA) {
			p.cursor.skip()
			continue
		}
		if !p.cursor.nextIs(end) {
			return nil, p.unexpected(p.cursor.peek(), "',' or '"+end.String()+"'")
		}
	}
	p.cursor.skip() // end
	return exprs, nil
}

func (p *Parser) parseDictLiteral() (*ast.Node, error) {
	open, _ := p.expect(token.OPEN_CURLY)
	dict := &ast.DictExpr{Open: open.Pos}

	for !p.cursor.nextIs(token.CLOSE_CURLY) {
		key, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if colon, ok := p.expect(token.COLON); !ok {
			return nil, p.unexpected(colon, "':' between dict key and value")
		}
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		dict.Entries = append(dict.Entries, &ast.DictEntry{Key: key, Value: value})

		if p.cursor.nextIs(token.COMMA) {
			p.cursor.skip()
			continue
		}
		if !p.cursor.nextIs(token.CLOSE_CURLY) {
			return nil, p.unexpected(p.cursor.peek(), "',' or '}'")
		}
	}
	p.cursor.skip() // }

	n := new(ast.Node)
	n.Kind = ast.KIND_DICT_EXPR
	n.Node = dict
	return n, nil
}

func (p *Parser) parseNewExpr() (*ast.Node, error) {
	newTok, _ := p.expect(token.NEW)
	newExpr := &ast.NewExpr{New: newTok.Pos}

	name, ok := p.expect(token.ID)
	if !ok {
		return nil, p.unexpected(name, "class name after 'new'")
	}
	newExpr.Name = name

	if p.cursor.nextIs(token.DOT) {
		p.cursor.skip()
		className, ok := p.expect(token.ID)
		if !ok {
			return nil, p.unexpected(className, "class name")
		}
		newExpr.Qualifier = name
		newExpr.Name = className
	}

	if open := p.cursor.peek(); open.Kind != token.OPEN_PAREN {
		return nil, p.unexpected(open, "'(' after class name")
	}
	args, err := p.parseArgs()
	if err != nil {
		return nil, err
	}
	newExpr.Args = args

	n := new(ast.Node)
	n.Kind = ast.KIND_NEW_EXPR
	n.Node = newExpr
	return n, nil
}

// parseFString parses every embedded expression with a fresh parser over the
// tokens the lexer produced for it.
func (p *Parser) parseFString() (*ast.Node, error) {
	tok := p.cursor.next()
	fstring := &ast.FStringExpr{Token: tok}

	for _, part := range tok.Parts {
		if !part.IsExpr {
			fstring.Segments = append(fstring.Segments, &ast.FStringSegment{Text: part.Text})
			continue
		}

		sub := New(part.Tokens, p.collector)
		expr, err := sub.parseExpr()
		if err != nil {
			return nil, err
		}
		if rest := sub.cursor.peek(); rest.Kind != token.EOF {
			return nil, sub.unexpected(rest, "'}' after interpolated expression")
		}
		fstring.Segments = append(fstring.Segments, &ast.FStringSegment{Expr: expr})
	}

	n := new(ast.Node)
	n.Kind = ast.KIND_FSTRING_EXPR
	n.Node = fstring
	return n, nil
}

// Useful for testing
func ParseExprFrom(expr, filename string) (*ast.Node, error) {
	collector := diagnostics.New()
	return parseExprWith(expr, filename, collector)
}
