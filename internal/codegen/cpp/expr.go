package cpp

import (
	"fmt"
	"strings"

	"github.com/mas6y6/REDLINE/internal/ast"
	"github.com/mas6y6/REDLINE/internal/lexer/token"
)

var CPP_OPERATORS = map[token.Kind]string{
	token.PLUS:        "+",
	token.MINUS:       "-",
	token.STAR:        "*",
	token.SLASH:       "/",
	token.PERCENT:     "%",
	token.EQUAL_EQUAL: "==",
	token.BANG_EQUAL:  "!=",
	token.LESS:        "<",
	token.LESS_EQ:     "<=",
	token.GREATER:     ">",
	token.GREATER_EQ:  ">=",
	token.AND:         "&&",
	token.OR:          "||",
}

// convert renders node as a value stored into target, widening int to float
// explicitly so C++ overload selection agrees with the checker.
func (c *cppCodegen) convert(node *ast.Node, target *ast.Type) string {
	if target == nil || target.IsInvalid() {
		return c.expr(node)
	}
	if node.Type.IsEmptyLiteral() {
		return c.typeName(target) + "{}"
	}
	value := c.expr(node)
	if target.Kind == ast.TYPE_FLOAT && node.Type.Kind == ast.TYPE_INT {
		return "static_cast<double>(" + value + ")"
	}
	return value
}

func (c *cppCodegen) convertAll(nodes []*ast.Node, targets []*ast.Type) string {
	parts := make([]string, len(nodes))
	for i, node := range nodes {
		var target *ast.Type
		if i < len(targets) {
			target = targets[i]
		}
		parts[i] = c.convert(node, target)
	}
	return strings.Join(parts, ", ")
}

func (c *cppCodegen) expr(node *ast.Node) string {
	switch expr := node.Node.(type) {
	case *ast.LiteralExpr:
		return c.literal(expr)
	case *ast.IdExpr:
		return c.id(expr)
	case *ast.BinaryExpr:
		return c.binary(expr)
	case *ast.UnaryExpr:
		if expr.Op == token.MINUS {
			return "(-" + c.expr(expr.Value) + ")"
		}
		return "(!" + c.expr(expr.Value) + ")"
	case *ast.CallExpr:
		return c.call(expr)
	case *ast.IndexExpr:
		container := expr.Value.Type
		index := c.expr(expr.Index)
		if container.Kind == ast.TYPE_DICT {
			index = c.convert(expr.Index, container.Key)
		}
		return "rl::at(" + c.expr(expr.Value) + ", " + index + ")"
	case *ast.MemberExpr:
		if expr.Field == nil {
			panic(internalError(fmt.Sprintf("member %s is not a field", expr)))
		}
		return c.object(expr.Object) + "->" + ident(expr.Name.Name())
	case *ast.ListExpr:
		return c.list(expr, node.Type)
	case *ast.DictExpr:
		return c.dict(expr, node.Type)
	case *ast.FStringExpr:
		return c.fstring(expr)
	case *ast.NewExpr:
		return "std::make_shared<" + c.className(expr.Class) + ">(" + c.convertAll(expr.Args, expr.Params) + ")"
	case *ast.ThisExpr:
		return "shared_from_this()"
	}
	panic(internalError(fmt.Sprintf("cannot generate expression %s", node.Kind)))
}

func (c *cppCodegen) literal(literal *ast.LiteralExpr) string {
	switch literal.Token.Kind {
	case token.INTEGER_LITERAL:
		return string(literal.Value) + "LL"
	case token.FLOAT_LITERAL:
		return string(literal.Value)
	case token.STRING_LITERAL:
		return "std::string(" + quote(string(literal.Value)) + ")"
	case token.TRUE_BOOL_LITERAL:
		return "true"
	case token.FALSE_BOOL_LITERAL:
		return "false"
	}
	panic(internalError(fmt.Sprintf("cannot generate literal %s", literal.Token.Kind)))
}

func (c *cppCodegen) id(id *ast.IdExpr) string {
	if id.Sym == nil {
		panic(internalError(fmt.Sprintf("unresolved identifier '%s'", id.Name.Name())))
	}
	switch id.Sym.Kind {
	case ast.SYMBOL_VAR:
		return ident(id.Sym.Name)
	case ast.SYMBOL_FIELD:
		return "this->" + ident(id.Sym.Name)
	}
	panic(internalError(fmt.Sprintf("%s '%s' used as a value", id.Sym.Kind, id.Sym.Name)))
}

// object renders the receiver of a member access. Class values are
// dereferenced through rl::ref, which rejects unset references.
func (c *cppCodegen) object(node *ast.Node) string {
	if node.Kind == ast.KIND_THIS_EXPR {
		return "this"
	}
	return "rl::ref(" + c.expr(node) + ")"
}

func (c *cppCodegen) binary(binary *ast.BinaryExpr) string {
	left, right := c.expr(binary.Left), c.expr(binary.Right)
	bothInt := binary.Left.Type.Kind == ast.TYPE_INT && binary.Right.Type.Kind == ast.TYPE_INT

	switch {
	case binary.Op == token.SLASH && bothInt:
		return "rl::idiv(" + left + ", " + right + ")"
	case binary.Op == token.PERCENT:
		return "rl::imod(" + left + ", " + right + ")"
	}

	op, ok := CPP_OPERATORS[binary.Op]
	if !ok {
		panic(internalError(fmt.Sprintf("cannot generate operator %s", binary.Op)))
	}
	if binary.Left.Type.IsEmptyLiteral() {
		left = c.convert(binary.Left, binary.Right.Type)
	}
	if binary.Right.Type.IsEmptyLiteral() {
		right = c.convert(binary.Right, binary.Left.Type)
	}
	return "(" + left + " " + op + " " + right + ")"
}

func (c *cppCodegen) call(call *ast.CallExpr) string {
	args := c.convertAll(call.Args, call.Params)

	switch call.CallKind {
	case ast.CALL_BUILTIN:
		if call.Builtin.TopOnly {
			return "rl::" + call.Builtin.Name + "(rl_ctx)"
		}
		return "rl::" + call.Builtin.Name + "(" + args + ")"

	case ast.CALL_FUNCTION:
		// Qualified calls rule out argument-dependent lookup into std.
		return namespaceOf(call.Fn.Module) + "::" + ident(call.Fn.Name.Name()) + "(" + args + ")"

	case ast.CALL_METHOD:
		name := ident(call.Fn.Name.Name())
		switch callee := call.Callee.Node.(type) {
		case *ast.IdExpr:
			return "this->" + name + "(" + args + ")"
		case *ast.MemberExpr:
			return c.object(callee.Object) + "->" + name + "(" + args + ")"
		}
	}
	panic(internalError(fmt.Sprintf("unresolved call %s", call)))
}

func (c *cppCodegen) list(list *ast.ListExpr, t *ast.Type) string {
	if t.IsEmptyLiteral() {
		return "std::vector<long long>{}"
	}
	elems := make([]string, len(list.Elems))
	for i, elem := range list.Elems {
		elems[i] = c.convert(elem, t.Elem)
	}
	return c.typeName(t) + "{" + strings.Join(elems, ", ") + "}"
}

func (c *cppCodegen) dict(dict *ast.DictExpr, t *ast.Type) string {
	if t.IsEmptyLiteral() {
		return "std::map<long long, long long>{}"
	}
	entries := make([]string, len(dict.Entries))
	for i, entry := range dict.Entries {
		entries[i] = "{" + c.convert(entry.Key, t.Key) + ", " + c.convert(entry.Value, t.Elem) + "}"
	}
	return c.typeName(t) + "{" + strings.Join(entries, ", ") + "}"
}

func (c *cppCodegen) fstring(fstring *ast.FStringExpr) string {
	var parts []string
	for _, seg := range fstring.Segments {
		if seg.Expr == nil {
			if seg.Text != "" {
				parts = append(parts, "std::string("+quote(seg.Text)+")")
			}
			continue
		}
		parts = append(parts, "rl::str("+c.expr(seg.Expr)+")")
	}
	if len(parts) == 0 {
		return "std::string()"
	}
	return "(" + strings.Join(parts, " + ") + ")"
}
