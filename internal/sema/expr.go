package sema

import (
	"fmt"

	"github.com/mas6y6/REDLINE/internal/ast"
	"github.com/mas6y6/REDLINE/internal/diagnostics"
	"github.com/mas6y6/REDLINE/internal/lexer/token"
)

// checkExpr types node and records the result on it. expected is the type
// the context stores the value into, or nil; it only steers empty and
// nested literals and never changes what is accepted.
func (sema *sema) checkExpr(node *ast.Node, scope *ast.Scope, expected *ast.Type) *ast.Type {
	t := sema.inferExpr(node, scope, expected)
	node.Type = t
	return t
}

func (sema *sema) inferExpr(node *ast.Node, scope *ast.Scope, expected *ast.Type) *ast.Type {
	switch expr := node.Node.(type) {
	case *ast.LiteralExpr:
		return ast.NewBasicType(expr.Token.Kind)
	case *ast.IdExpr:
		return sema.checkId(expr, scope)
	case *ast.BinaryExpr:
		return sema.checkBinary(expr, scope)
	case *ast.UnaryExpr:
		return sema.checkUnary(expr, scope)
	case *ast.CallExpr:
		return sema.checkCall(expr, scope)
	case *ast.IndexExpr:
		return sema.checkIndex(expr, scope)
	case *ast.MemberExpr:
		return sema.checkMember(expr, scope)
	case *ast.ListExpr:
		return sema.checkList(expr, scope, expected)
	case *ast.DictExpr:
		return sema.checkDict(expr, scope, expected)
	case *ast.FStringExpr:
		return sema.checkFString(expr, scope)
	case *ast.NewExpr:
		return sema.checkNew(expr, scope)
	case *ast.ThisExpr:
		class := scope.EnclosingClass()
		if class == nil {
			sema.report(diagnostics.SCOPE_ERROR, expr.Pos, "'this' used outside of a method")
			return ast.INVALID_TYPE
		}
		return ast.NewInstanceType(class)
	}
	panic(fmt.Sprintf("sema: unexpected expression %s", node.Kind))
}

func (sema *sema) checkId(id *ast.IdExpr, scope *ast.Scope) *ast.Type {
	name := id.Name.Name()
	sym, err := scope.LookupAcrossScopes(name)
	if err != nil {
		sema.report(diagnostics.SCOPE_ERROR, id.Name.Pos, "undefined: '%s'", name)
		return ast.INVALID_TYPE
	}
	id.Sym = sym

	switch sym.Kind {
	case ast.SYMBOL_VAR, ast.SYMBOL_FIELD:
		return sym.Type
	case ast.SYMBOL_FUNC:
		sema.report(diagnostics.TYPE_ERROR, id.Name.Pos, "function '%s' must be called", name)
	case ast.SYMBOL_CLASS:
		sema.report(diagnostics.TYPE_ERROR, id.Name.Pos, "class '%s' is not a value, use 'new %s(...)'", name, name)
	case ast.SYMBOL_MODULE:
		sema.report(diagnostics.TYPE_ERROR, id.Name.Pos, "module '%s' is not a value", name)
	}
	return ast.INVALID_TYPE
}

func (sema *sema) checkBinary(binary *ast.BinaryExpr, scope *ast.Scope) *ast.Type {
	left := sema.checkExpr(binary.Left, scope, nil)
	right := sema.checkExpr(binary.Right, scope, nil)
	if left.IsInvalid() || right.IsInvalid() {
		return ast.INVALID_TYPE
	}

	switch binary.Op {
	case token.PLUS:
		if left.Kind == ast.TYPE_STRING && right.Kind == ast.TYPE_STRING {
			return ast.STRING_TYPE
		}
		if left.IsNumeric() && right.IsNumeric() {
			return arithmetic(left, right)
		}
	case token.MINUS, token.STAR, token.SLASH:
		if left.IsNumeric() && right.IsNumeric() {
			return arithmetic(left, right)
		}
	case token.PERCENT:
		if left.Kind == ast.TYPE_INT && right.Kind == ast.TYPE_INT {
			return ast.INT_TYPE
		}
	case token.EQUAL_EQUAL, token.BANG_EQUAL:
		if left.IsNumeric() && right.IsNumeric() {
			return ast.BOOL_TYPE
		}
		if fillEmptyOperand(binary.Left, left, right) || fillEmptyOperand(binary.Right, right, left) {
			return ast.BOOL_TYPE
		}
		if !left.IsVoid() && left.Equals(right) {
			return ast.BOOL_TYPE
		}
	case token.LESS, token.LESS_EQ, token.GREATER, token.GREATER_EQ:
		if left.IsNumeric() && right.IsNumeric() {
			return ast.BOOL_TYPE
		}
		if left.Kind == ast.TYPE_STRING && right.Kind == ast.TYPE_STRING {
			return ast.BOOL_TYPE
		}
	case token.AND, token.OR:
		if left.Kind == ast.TYPE_BOOL && right.Kind == ast.TYPE_BOOL {
			return ast.BOOL_TYPE
		}
	}

	sema.report(
		diagnostics.TYPE_ERROR,
		binary.OpPos,
		"operator '%s' is not defined for %s and %s",
		binary.Op,
		left,
		right,
	)
	return ast.INVALID_TYPE
}

// arithmetic is int when both operands are int and float otherwise.
func arithmetic(left, right *ast.Type) *ast.Type {
	if left.Kind == ast.TYPE_FLOAT || right.Kind == ast.TYPE_FLOAT {
		return ast.FLOAT_TYPE
	}
	return ast.INT_TYPE
}

// fillEmptyOperand gives an empty literal compared against a typed
// collection the type of the other side.
func fillEmptyOperand(operand *ast.Node, t, other *ast.Type) bool {
	if !t.IsEmptyLiteral() || other.IsEmptyLiteral() || t.Kind != other.Kind {
		return false
	}
	operand.Type = other
	return true
}

func (sema *sema) checkUnary(unary *ast.UnaryExpr, scope *ast.Scope) *ast.Type {
	t := sema.checkExpr(unary.Value, scope, nil)
	if t.IsInvalid() {
		return ast.INVALID_TYPE
	}

	switch unary.Op {
	case token.MINUS:
		if t.IsNumeric() {
			return t
		}
	case token.NOT, token.BANG:
		if t.Kind == ast.TYPE_BOOL {
			return ast.BOOL_TYPE
		}
	}
	sema.report(diagnostics.TYPE_ERROR, unary.OpPos, "operator '%s' is not defined for %s", unary.Op, t)
	return ast.INVALID_TYPE
}

func (sema *sema) checkIndex(index *ast.IndexExpr, scope *ast.Scope) *ast.Type {
	container := sema.checkExpr(index.Value, scope, nil)
	if container.IsInvalid() {
		sema.checkExpr(index.Index, scope, nil)
		return ast.INVALID_TYPE
	}

	switch container.Kind {
	case ast.TYPE_LIST, ast.TYPE_STRING:
		t := sema.checkExpr(index.Index, scope, ast.INT_TYPE)
		if !t.IsInvalid() && t.Kind != ast.TYPE_INT {
			sema.report(diagnostics.TYPE_ERROR, index.Index.Pos(), "index must be int, not %s", t)
		}
		if container.Kind == ast.TYPE_STRING {
			return ast.STRING_TYPE
		}
		if container.Elem == nil {
			sema.report(diagnostics.TYPE_ERROR, index.Open, "cannot index an empty literal")
			return ast.INVALID_TYPE
		}
		return container.Elem
	case ast.TYPE_DICT:
		if container.IsEmptyLiteral() {
			sema.checkExpr(index.Index, scope, nil)
			sema.report(diagnostics.TYPE_ERROR, index.Open, "cannot index an empty literal")
			return ast.INVALID_TYPE
		}
		sema.checkValue(index.Index, container.Key, scope)
		return container.Elem
	}

	sema.checkExpr(index.Index, scope, nil)
	sema.report(diagnostics.TYPE_ERROR, index.Open, "cannot index a value of type %s", container)
	return ast.INVALID_TYPE
}

// importedModule returns the module node names when node is a bare
// reference to an import binding.
func (sema *sema) importedModule(node *ast.Node, scope *ast.Scope) *ast.Module {
	id, ok := node.Node.(*ast.IdExpr)
	if !ok {
		return nil
	}
	sym, err := scope.LookupAcrossScopes(id.Name.Name())
	if err != nil || sym.Kind != ast.SYMBOL_MODULE {
		return nil
	}
	id.Sym = sym
	return sym.Module
}

func (sema *sema) checkMember(member *ast.MemberExpr, scope *ast.Scope) *ast.Type {
	name := member.Name.Name()

	if module := sema.importedModule(member.Object, scope); module != nil {
		sym := sema.moduleMember(module, member.Name)
		if sym == nil {
			return ast.INVALID_TYPE
		}
		member.Module = module
		member.Sym = sym
		if sym.Kind == ast.SYMBOL_FUNC {
			sema.report(diagnostics.TYPE_ERROR, member.Name.Pos, "function '%s.%s' must be called", module.Name, name)
		} else {
			sema.report(diagnostics.TYPE_ERROR, member.Name.Pos, "%s '%s.%s' is not a value", sym.Kind, module.Name, name)
		}
		return ast.INVALID_TYPE
	}

	object := sema.checkExpr(member.Object, scope, nil)
	if object.IsInvalid() {
		return ast.INVALID_TYPE
	}
	if object.Kind != ast.TYPE_CLASS {
		sema.report(diagnostics.UNKNOWN_MEMBER_ERROR, member.Name.Pos, "%s has no member '%s'", object, name)
		return ast.INVALID_TYPE
	}

	class := object.Class
	if field := class.LookupField(name); field != nil {
		member.Field = field
		return field.Type
	}
	if len(class.LookupMethods(name)) > 0 {
		sema.report(diagnostics.TYPE_ERROR, member.Name.Pos, "method '%s' of '%s' must be called", name, class.Name.Name())
		return ast.INVALID_TYPE
	}
	sema.report(diagnostics.UNKNOWN_MEMBER_ERROR, member.Name.Pos, "'%s' has no member '%s'", class.Name.Name(), name)
	return ast.INVALID_TYPE
}

func (sema *sema) checkList(list *ast.ListExpr, scope *ast.Scope, expected *ast.Type) *ast.Type {
	if expected != nil && expected.Kind == ast.TYPE_LIST && expected.Elem != nil {
		for _, elem := range list.Elems {
			sema.checkValue(elem, expected.Elem, scope)
		}
		return expected
	}

	elemType, ok := sema.unify(list.Elems, scope, "list elements")
	if !ok {
		return ast.INVALID_TYPE
	}
	return ast.NewListType(elemType)
}

func (sema *sema) checkDict(dict *ast.DictExpr, scope *ast.Scope, expected *ast.Type) *ast.Type {
	if expected != nil && expected.Kind == ast.TYPE_DICT && !expected.IsEmptyLiteral() {
		for _, entry := range dict.Entries {
			sema.checkValue(entry.Key, expected.Key, scope)
			sema.checkValue(entry.Value, expected.Elem, scope)
		}
		return expected
	}

	keys := make([]*ast.Node, len(dict.Entries))
	values := make([]*ast.Node, len(dict.Entries))
	for i, entry := range dict.Entries {
		keys[i], values[i] = entry.Key, entry.Value
	}

	keyType, keysOk := sema.unify(keys, scope, "dict keys")
	valueType, valuesOk := sema.unify(values, scope, "dict values")
	if !keysOk || !valuesOk {
		return ast.INVALID_TYPE
	}
	if keyType != nil && !keyType.IsOrderable() {
		sema.report(diagnostics.TYPE_ERROR, dict.Open, "dict keys must be int, float, string or bool, not %s", keyType)
		return ast.INVALID_TYPE
	}
	return ast.NewDictType(keyType, valueType)
}

// unify computes the common type of the elements of a literal. Mixing int
// and float yields float. It returns a nil type for no elements.
func (sema *sema) unify(elems []*ast.Node, scope *ast.Scope, what string) (*ast.Type, bool) {
	var common *ast.Type
	ok := true

	for _, elem := range elems {
		t := sema.checkExpr(elem, scope, nil)
		if t.IsInvalid() {
			ok = false
			continue
		}
		if common == nil {
			if t.IsVoid() || t.IsEmptyLiteral() {
				sema.report(diagnostics.TYPE_ERROR, elem.Pos(), "cannot infer the type of %s from %s", what, t)
				ok = false
				continue
			}
			common = t
			continue
		}

		switch {
		case common.Equals(t):
		case common.Kind == ast.TYPE_INT && t.Kind == ast.TYPE_FLOAT:
			common = ast.FLOAT_TYPE
		case common.Kind == ast.TYPE_FLOAT && t.Kind == ast.TYPE_INT:
		case t.IsEmptyLiteral() && t.Kind == common.Kind:
			elem.Type = common
		default:
			sema.report(diagnostics.TYPE_ERROR, elem.Pos(), "%s must share one type, found %s and %s", what, common, t)
			ok = false
		}
	}
	return common, ok
}

func (sema *sema) checkFString(fstring *ast.FStringExpr, scope *ast.Scope) *ast.Type {
	for _, segment := range fstring.Segments {
		if segment.Expr == nil {
			continue
		}
		t := sema.checkExpr(segment.Expr, scope, nil)
		if t.IsInvalid() {
			continue
		}
		switch t.Kind {
		case ast.TYPE_INT, ast.TYPE_FLOAT, ast.TYPE_STRING, ast.TYPE_BOOL:
		default:
			sema.report(diagnostics.TYPE_ERROR, segment.Expr.Pos(), "cannot interpolate a value of type %s", t)
		}
	}
	return ast.STRING_TYPE
}
