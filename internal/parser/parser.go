package parser

import (
	"fmt"

	"github.com/mas6y6/REDLINE/internal/ast"
	"github.com/mas6y6/REDLINE/internal/diagnostics"
	"github.com/mas6y6/REDLINE/internal/lexer"
	"github.com/mas6y6/REDLINE/internal/lexer/token"
)

type Parser struct {
	cursor    *cursor
	collector *diagnostics.Collector
}

func New(tokens []*token.Token, collector *diagnostics.Collector) *Parser {
	parser := new(Parser)
	parser.cursor = newCursor(tokens)
	parser.collector = collector
	return parser
}

// ParseModule lexes and parses module.Src, filling in the module's body and
// import list. Lexing and parsing stop at the first error.
func ParseModule(module *ast.Module, collector *diagnostics.Collector) error {
	lex := lexer.New(module.Loc, module.Src, collector)
	tokens, err := lex.Tokenize()
	if err != nil {
		return err
	}
	p := New(tokens, collector)
	return p.ParseFile(module)
}

func (p *Parser) ParseFile(module *ast.Module) error {
	for {
		p.skipNewlines()
		if p.cursor.nextIs(token.EOF) {
			break
		}

		node, err := p.next()
		if err != nil {
			return err
		}

		if node.Kind == ast.KIND_IMPORT_DECL {
			module.Imports = append(module.Imports, node.Node.(*ast.ImportDecl))
		}
		module.Body = append(module.Body, node)
	}
	return nil
}

// next parses one top-level entry: an import, a declaration or a statement.
func (p *Parser) next() (*ast.Node, error) {
	tok := p.cursor.peek()
	switch tok.Kind {
	case token.IMPORT:
		return p.parseImport()
	case token.PUB:
		after := p.cursor.peekN(1)
		switch after.Kind {
		case token.DEF:
			return p.parseFnDecl(nil)
		case token.CLASS:
			return p.parseClassDecl()
		}
		return nil, p.unexpected(after, "'def' or 'class' after 'pub'")
	case token.DEF:
		return p.parseFnDecl(nil)
	case token.CLASS:
		return p.parseClassDecl()
	default:
		return p.parseStmt()
	}
}

func (p *Parser) parseImport() (*ast.Node, error) {
	imp := new(ast.ImportDecl)

	tok, _ := p.expect(token.IMPORT)
	imp.Import = tok.Pos

	for {
		part, ok := p.expect(token.ID)
		if !ok {
			return nil, p.unexpected(part, "module name")
		}
		imp.Path = append(imp.Path, part)

		if !p.cursor.nextIs(token.DOT) {
			break
		}
		p.cursor.skip()
	}

	if p.cursor.nextIs(token.AS) {
		p.cursor.skip()
		alias, ok := p.expect(token.ID)
		if !ok {
			return nil, p.unexpected(alias, "alias name after 'as'")
		}
		imp.Alias = alias
	}

	if err := p.endOfStmt(); err != nil {
		return nil, err
	}

	n := new(ast.Node)
	n.Kind = ast.KIND_IMPORT_DECL
	n.Node = imp
	return n, nil
}

func (p *Parser) parseFnDecl(class *ast.ClassDecl) (*ast.Node, error) {
	fnDecl := new(ast.FnDecl)
	fnDecl.Class = class

	if p.cursor.nextIs(token.PUB) {
		p.cursor.skip()
		fnDecl.Pub = true
	}

	p.expect(token.DEF)

	name, ok := p.expect(token.ID)
	if !ok {
		return nil, p.unexpected(name, "function name")
	}
	fnDecl.Name = name
	fnDecl.IsCtor = class != nil && name.Name() == ast.CTOR_NAME

	params, err := p.parseFunctionParams()
	if err != nil {
		return nil, err
	}
	fnDecl.Params = params

	fnDecl.RetType = ast.VOID_TYPE
	if p.cursor.nextIs(token.ARROW) {
		p.cursor.skip()
		retType, err := p.parseExprType()
		if err != nil {
			return nil, err
		}
		fnDecl.RetType = retType
	}

	block, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	fnDecl.Block = block

	n := new(ast.Node)
	n.Kind = ast.KIND_FN_DECL
	n.Node = fnDecl
	return n, nil
}

func (p *Parser) parseFunctionParams() ([]*ast.Param, error) {
	openParen, ok := p.expect(token.OPEN_PAREN)
	if !ok {
		return nil, p.unexpected(openParen, "'('")
	}

	var params []*ast.Param
	for !p.cursor.nextIs(token.CLOSE_PAREN) {
		name, ok := p.expect(token.ID)
		if !ok {
			return nil, p.unexpected(name, "parameter name or ')'")
		}

		colon, ok := p.expect(token.COLON)
		if !ok {
			return nil, p.unexpected(colon, fmt.Sprintf("':' and type for parameter '%s'", name.Name()))
		}

		paramType, err := p.parseExprType()
		if err != nil {
			return nil, err
		}
		params = append(params, &ast.Param{Name: name, Type: paramType})

		if p.cursor.nextIs(token.COMMA) {
			p.cursor.skip()
			continue
		}
		if !p.cursor.nextIs(token.CLOSE_PAREN) {
			return nil, p.unexpected(p.cursor.peek(), "',' or ')'")
		}
	}
	p.cursor.skip() // )

	return params, nil
}

func (p *Parser) parseClassDecl() (*ast.Node, error) {
	class := new(ast.ClassDecl)

	if p.cursor.nextIs(token.PUB) {
		p.cursor.skip()
		class.Pub = true
	}
	p.expect(token.CLASS)

	name, ok := p.expect(token.ID)
	if !ok {
		return nil, p.unexpected(name, "class name")
	}
	class.Name = name

	if err := p.parseBlockHeader(); err != nil {
		return nil, err
	}

	for !p.cursor.nextIs(token.DEDENT) && !p.cursor.nextIs(token.EOF) {
		tok := p.cursor.peek()
		switch tok.Kind {
		case token.NEWLINE:
			p.cursor.skip()
		case token.PUB, token.DEF:
			n, err := p.parseFnDecl(class)
			if err != nil {
				return nil, err
			}
			method := n.Node.(*ast.FnDecl)
			if method.IsCtor {
				class.Ctors = append(class.Ctors, method)
			} else {
				class.Methods = append(class.Methods, method)
			}
		case token.ID:
			field, err := p.parseField(class)
			if err != nil {
				return nil, err
			}
			class.Fields = append(class.Fields, field)
		default:
			return nil, p.unexpected(tok, "field or method declaration")
		}
	}
	p.expect(token.DEDENT)

	n := new(ast.Node)
	n.Kind = ast.KIND_CLASS_DECL
	n.Node = class
	return n, nil
}

func (p *Parser) parseField(class *ast.ClassDecl) (*ast.Field, error) {
	field := new(ast.Field)
	field.Class = class
	field.Name, _ = p.expect(token.ID)

	colon, ok := p.expect(token.COLON)
	if !ok {
		return nil, p.unexpected(colon, fmt.Sprintf("':' and type for field '%s'", field.Name.Name()))
	}

	fieldType, err := p.parseExprType()
	if err != nil {
		return nil, err
	}
	field.Type = fieldType

	if p.cursor.nextIs(token.EQUAL) {
		p.cursor.skip()
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		field.Default = value
	}

	if err := p.endOfStmt(); err != nil {
		return nil, err
	}
	return field, nil
}

func (p *Parser) parseExprType() (*ast.Type, error) {
	tok := p.cursor.peek()
	switch tok.Kind {
	case token.INT_TYPE, token.FLOAT_TYPE, token.STRING_TYPE, token.BOOL_TYPE, token.VOID_TYPE:
		p.cursor.skip()
		return ast.NewBasicType(tok.Kind), nil
	case token.LIST_TYPE:
		p.cursor.skip()
		if open, ok := p.expect(token.OPEN_BRACKET); !ok {
			return nil, p.unexpected(open, "'[' after 'list'")
		}
		elem, err := p.parseExprType()
		if err != nil {
			return nil, err
		}
		if closing, ok := p.expect(token.CLOSE_BRACKET); !ok {
			return nil, p.unexpected(closing, "']'")
		}
		return ast.NewListType(elem), nil
	case token.DICT_TYPE:
		p.cursor.skip()
		if open, ok := p.expect(token.OPEN_BRACKET); !ok {
			return nil, p.unexpected(open, "'[' after 'dict'")
		}
		key, err := p.parseExprType()
		if err != nil {
			return nil, err
		}
		if comma, ok := p.expect(token.COMMA); !ok {
			return nil, p.unexpected(comma, "',' between dict key and value types")
		}
		value, err := p.parseExprType()
		if err != nil {
			return nil, err
		}
		if closing, ok := p.expect(token.CLOSE_BRACKET); !ok {
			return nil, p.unexpected(closing, "']'")
		}
		return ast.NewDictType(key, value), nil
	case token.ID:
		p.cursor.skip()
		if p.cursor.nextIs(token.DOT) {
			p.cursor.skip()
			name, ok := p.expect(token.ID)
			if !ok {
				return nil, p.unexpected(name, "class name")
			}
			return ast.NewClassType(tok, name), nil
		}
		return ast.NewClassType(nil, tok), nil
	}
	return nil, p.unexpected(tok, "type")
}

func (p *Parser) parseStmt() (*ast.Node, error) {
	n := new(ast.Node)

	tok := p.cursor.peek()
	switch tok.Kind {
	case token.VAL, token.VAR:
		return p.parseVar()
	case token.IF:
		return p.parseCondStmt()
	case token.WHILE:
		return p.parseWhileLoop()
	case token.FOR:
		return p.parseForLoop()
	case token.TRY:
		return p.parseTryStmt()
	case token.BREAK, token.CONTINUE:
		p.cursor.skip()
		n.Kind = ast.KIND_BREAK_STMT
		if tok.Kind == token.CONTINUE {
			n.Kind = ast.KIND_CONTINUE_STMT
		}
		n.Node = &ast.BranchStmt{Pos: tok.Pos}
		return n, p.endOfStmt()
	case token.RETURN:
		p.cursor.skip()
		returnStmt := new(ast.ReturnStmt)
		returnStmt.Return = tok.Pos
		n.Kind = ast.KIND_RETURN_STMT
		n.Node = returnStmt

		if p.atEndOfStmt() {
			return n, p.endOfStmt()
		}
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		returnStmt.Value = value
		return n, p.endOfStmt()
	case token.IMPORT, token.DEF, token.CLASS, token.PUB:
		return nil, p.errorf(tok.Pos, "'%s' is only allowed at module level", tok.Kind)
	case token.INDENT:
		return nil, p.errorf(tok.Pos, "unexpected indentation")
	default:
		return p.parseSimpleStmt()
	}
}

// parseSimpleStmt parses an expression statement or an assignment. The
// target decides between plain, indexed and member assignment.
func (p *Parser) parseSimpleStmt() (*ast.Node, error) {
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	n := new(ast.Node)
	if !p.cursor.nextIs(token.EQUAL) {
		n.Kind = ast.KIND_EXPR_STMT
		n.Node = &ast.ExprStmt{Expr: expr}
		return n, p.endOfStmt()
	}

	equal := p.cursor.next()
	switch expr.Kind {
	case ast.KIND_ID_EXPR:
		n.Kind = ast.KIND_ASSIGN_STMT
	case ast.KIND_INDEX_EXPR:
		n.Kind = ast.KIND_INDEX_ASSIGN_STMT
	case ast.KIND_MEMBER_EXPR:
		n.Kind = ast.KIND_MEMBER_ASSIGN_STMT
	default:
		return nil, p.errorf(equal.Pos, "invalid assignment target")
	}

	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	n.Node = &ast.AssignStmt{Target: expr, Equal: equal.Pos, Value: value}
	return n, p.endOfStmt()
}

func (p *Parser) parseVar() (*ast.Node, error) {
	variable := new(ast.VarStmt)
	keyword := p.cursor.next()
	variable.Mutable = keyword.Kind == token.VAR

	name, ok := p.expect(token.ID)
	if !ok {
		return nil, p.unexpected(name, "variable name")
	}
	variable.Name = name

	if p.cursor.nextIs(token.COLON) {
		p.cursor.skip()
		varType, err := p.parseExprType()
		if err != nil {
			return nil, err
		}
		variable.Type = varType
	}

	equal, ok := p.expect(token.EQUAL)
	if !ok {
		return nil, p.unexpected(equal, fmt.Sprintf("'=' and initializer for '%s'", name.Name()))
	}

	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	variable.Value = value

	n := new(ast.Node)
	n.Kind = ast.KIND_VAR_STMT
	n.Node = variable
	return n, p.endOfStmt()
}

func (p *Parser) parseCondStmt() (*ast.Node, error) {
	ifCond, err := p.parseIfCond(token.IF)
	if err != nil {
		return nil, err
	}

	var elifConds []*ast.IfElifCond
	for p.cursor.nextIs(token.ELIF) {
		elifCond, err := p.parseIfCond(token.ELIF)
		if err != nil {
			return nil, err
		}
		elifConds = append(elifConds, elifCond)
	}

	var elseCond *ast.ElseCond
	if p.cursor.nextIs(token.ELSE) {
		elseTok := p.cursor.next()
		block, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		elseCond = &ast.ElseCond{Else: elseTok.Pos, Block: block}
	}

	n := new(ast.Node)
	n.Kind = ast.KIND_COND_STMT
	n.Node = &ast.CondStmt{IfStmt: ifCond, ElifStmts: elifConds, ElseStmt: elseCond}
	return n, nil
}

func (p *Parser) parseIfCond(keyword token.Kind) (*ast.IfElifCond, error) {
	tok, _ := p.expect(keyword)

	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	block, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.IfElifCond{If: tok.Pos, Expr: expr, Block: block}, nil
}

func (p *Parser) parseWhileLoop() (*ast.Node, error) {
	while, _ := p.expect(token.WHILE)

	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	block, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	n := new(ast.Node)
	n.Kind = ast.KIND_WHILE_LOOP_STMT
	n.Node = &ast.WhileLoop{While: while.Pos, Cond: cond, Block: block}
	return n, nil
}

func (p *Parser) parseForLoop() (*ast.Node, error) {
	forTok, _ := p.expect(token.FOR)

	name, ok := p.expect(token.ID)
	if !ok {
		return nil, p.unexpected(name, "loop variable")
	}

	in, ok := p.expect(token.IN)
	if !ok {
		return nil, p.unexpected(in, "'in'")
	}

	start, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	n := new(ast.Node)
	if p.cursor.nextIs(token.DOT_DOT) {
		p.cursor.skip()
		end, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		block, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		n.Kind = ast.KIND_RANGE_FOR_STMT
		n.Node = &ast.RangeFor{For: forTok.Pos, Var: name, Start: start, End: end, Block: block}
		return n, nil
	}

	block, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	n.Kind = ast.KIND_COLLECTION_FOR_STMT
	n.Node = &ast.CollectionFor{For: forTok.Pos, Var: name, Iterable: start, Block: block}
	return n, nil
}

func (p *Parser) parseTryStmt() (*ast.Node, error) {
	try := new(ast.TryStmt)
	tok, _ := p.expect(token.TRY)
	try.Try = tok.Pos

	block, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	try.Block = block

	catch, ok := p.expect(token.CATCH)
	if !ok {
		return nil, p.unexpected(catch, "'catch' after try block")
	}
	try.Catch = catch.Pos

	if p.cursor.nextIs(token.ID) {
		try.CatchName = p.cursor.next()
	}

	catchBlock, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	try.CatchBlock = catchBlock

	n := new(ast.Node)
	n.Kind = ast.KIND_TRY_STMT
	n.Node = try
	return n, nil
}

// parseBlockHeader consumes the ':' NEWLINE INDENT that opens every block.
func (p *Parser) parseBlockHeader() error {
	colon, ok := p.expect(token.COLON)
	if !ok {
		return p.unexpected(colon, "':'")
	}
	newline, ok := p.expect(token.NEWLINE)
	if !ok {
		return p.unexpected(newline, "newline after ':'")
	}
	indent, ok := p.expect(token.INDENT)
	if !ok {
		return p.unexpected(indent, "an indented block")
	}
	return nil
}

func (p *Parser) parseBlock() (*ast.BlockStmt, error) {
	if err := p.parseBlockHeader(); err != nil {
		return nil, err
	}

	var statements []*ast.Node
	for {
		p.skipNewlines()
		if p.cursor.nextIs(token.DEDENT) || p.cursor.nextIs(token.EOF) {
			break
		}

		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		statements = append(statements, stmt)
	}
	p.expect(token.DEDENT)

	return &ast.BlockStmt{Statements: statements}, nil
}

func (p *Parser) atEndOfStmt() bool {
	switch p.cursor.peek().Kind {
	case token.NEWLINE, token.DEDENT, token.EOF:
		return true
	}
	return false
}

func (p *Parser) endOfStmt() error {
	tok := p.cursor.peek()
	switch tok.Kind {
	case token.NEWLINE:
		p.cursor.skip()
		return nil
	case token.DEDENT, token.EOF:
		return nil
	}
	return p.unexpected(tok, "end of statement")
}

func (p *Parser) skipNewlines() {
	for p.cursor.nextIs(token.NEWLINE) {
		p.cursor.skip()
	}
}

func (p *Parser) expect(expectedKind token.Kind) (*token.Token, bool) {
	tok := p.cursor.peek()
	if tok.Kind != expectedKind {
		return tok, false
	}
	p.cursor.skip()
	return tok, true
}

func (p *Parser) errorf(pos token.Pos, format string, args ...any) error {
	p.collector.Report(diagnostics.PARSE_ERROR, pos, format, args...)
	return diagnostics.COMPILER_ERROR_FOUND
}

func (p *Parser) unexpected(found *token.Token, expected string) error {
	return p.errorf(found.Pos, "expected %s, not %s", expected, describe(found))
}

func describe(tok *token.Token) string {
	switch tok.Kind {
	case token.ID:
		return fmt.Sprintf("identifier '%s'", tok.Name())
	case token.INTEGER_LITERAL, token.FLOAT_LITERAL:
		return fmt.Sprintf("number %s", tok.Name())
	case token.STRING_LITERAL, token.FSTRING_LITERAL:
		return "string literal"
	case token.NEWLINE, token.INDENT, token.DEDENT, token.EOF:
		return tok.Kind.String()
	}
	return fmt.Sprintf("'%s'", tok.Kind)
}
