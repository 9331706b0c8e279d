package sema

import (
	"fmt"

	"github.com/mas6y6/REDLINE/internal/ast"
	"github.com/mas6y6/REDLINE/internal/diagnostics"
)

func (sema *sema) checkBlock(block *ast.BlockStmt, parent *ast.Scope, kind ast.ScopeKind) *ast.Scope {
	scope := ast.NewScope(parent, kind)
	sema.checkStmts(block.Statements, scope)
	return scope
}

func (sema *sema) checkStmts(stmts []*ast.Node, scope *ast.Scope) {
	for _, stmt := range stmts {
		sema.checkStmt(stmt, scope)
	}
}

func (sema *sema) checkStmt(stmt *ast.Node, scope *ast.Scope) {
	switch statement := stmt.Node.(type) {
	case *ast.VarStmt:
		sema.checkVar(statement, scope)
	case *ast.AssignStmt:
		sema.checkAssign(stmt.Kind, statement, scope)
	case *ast.CondStmt:
		sema.checkCondStmt(statement, scope)
	case *ast.WhileLoop:
		sema.checkCondition(statement.Cond, scope)
		sema.checkBlock(statement.Block, scope, ast.SCOPE_LOOP)
	case *ast.RangeFor:
		sema.checkRangeFor(statement, scope)
	case *ast.CollectionFor:
		sema.checkCollectionFor(statement, scope)
	case *ast.BranchStmt:
		if !scope.InLoop() {
			keyword := "break"
			if stmt.Kind == ast.KIND_CONTINUE_STMT {
				keyword = "continue"
			}
			sema.report(diagnostics.SCOPE_ERROR, statement.Pos, "'%s' outside of a loop", keyword)
		}
	case *ast.ReturnStmt:
		sema.checkReturn(statement, scope)
	case *ast.TryStmt:
		sema.checkTry(statement, scope)
	case *ast.ExprStmt:
		sema.checkExpr(statement.Expr, scope, nil)
	default:
		panic(fmt.Sprintf("sema: unexpected statement %s", stmt.Kind))
	}
}

func (sema *sema) checkVar(variable *ast.VarStmt, scope *ast.Scope) {
	var varType *ast.Type

	if variable.Type != nil {
		varType = sema.resolveType(variable.Type, scope, variable.Name.Pos, false)
		if varType.IsInvalid() {
			sema.checkExpr(variable.Value, scope, nil)
		} else {
			sema.checkValue(variable.Value, varType, scope)
		}
	} else {
		varType = sema.checkExpr(variable.Value, scope, nil)
		switch {
		case varType.IsInvalid():
		case varType.IsVoid():
			sema.report(
				diagnostics.TYPE_ERROR,
				variable.Value.Pos(),
				"cannot initialize '%s' with a void value",
				variable.Name.Name(),
			)
			varType = ast.INVALID_TYPE
		case varType.IsEmptyLiteral():
			sema.report(
				diagnostics.TYPE_ERROR,
				variable.Value.Pos(),
				"cannot infer the type of an empty literal, declare the type of '%s'",
				variable.Name.Name(),
			)
			varType = ast.INVALID_TYPE
		}
	}
	variable.Type = varType

	variable.Sym = &ast.Symbol{
		Kind:    ast.SYMBOL_VAR,
		Name:    variable.Name.Name(),
		Type:    varType,
		Mutable: variable.Mutable,
	}
	sema.declare(scope, variable.Name, variable.Sym)
}

// checkValue checks value against the type it is stored into.
func (sema *sema) checkValue(value *ast.Node, target *ast.Type, scope *ast.Scope) {
	valueType := sema.checkExpr(value, scope, target)
	if target.IsInvalid() || valueType.IsInvalid() {
		return
	}
	if !assignable(target, valueType) {
		sema.report(
			diagnostics.TYPE_ERROR,
			value.Pos(),
			"cannot use value of type %s as %s",
			valueType,
			target,
		)
		return
	}
	if valueType.IsEmptyLiteral() {
		value.Type = target
	}
}

// assignable reports whether a value of type value can be stored where
// target is expected. The only conversion is int to float.
func assignable(target, value *ast.Type) bool {
	switch {
	case target.Equals(value):
		return true
	case target.Kind == ast.TYPE_FLOAT && value.Kind == ast.TYPE_INT:
		return true
	case value.IsEmptyLiteral() && value.Kind == target.Kind:
		return true
	}
	return false
}

func (sema *sema) checkAssign(kind ast.NodeKind, assign *ast.AssignStmt, scope *ast.Scope) {
	var targetType *ast.Type
	switch kind {
	case ast.KIND_ASSIGN_STMT:
		targetType = sema.checkAssignName(assign.Target, scope)
	case ast.KIND_INDEX_ASSIGN_STMT:
		targetType = sema.checkAssignIndex(assign.Target, scope)
	case ast.KIND_MEMBER_ASSIGN_STMT:
		targetType = sema.checkAssignMember(assign.Target, scope)
	}

	if targetType.IsInvalid() {
		sema.checkExpr(assign.Value, scope, nil)
		return
	}
	sema.checkValue(assign.Value, targetType, scope)
}

func (sema *sema) checkAssignName(target *ast.Node, scope *ast.Scope) *ast.Type {
	id := target.Node.(*ast.IdExpr)
	name := id.Name.Name()

	sym, err := scope.LookupAcrossScopes(name)
	if err != nil {
		sema.report(diagnostics.SCOPE_ERROR, id.Name.Pos, "undefined: '%s'", name)
		target.Type = ast.INVALID_TYPE
		return ast.INVALID_TYPE
	}
	id.Sym = sym

	switch sym.Kind {
	case ast.SYMBOL_VAR:
		if !sym.Mutable {
			sema.report(diagnostics.MUTABILITY_ERROR, id.Name.Pos, "cannot assign to immutable '%s'", name)
		}
	case ast.SYMBOL_FIELD:
	default:
		sema.report(diagnostics.TYPE_ERROR, id.Name.Pos, "cannot assign to %s '%s'", sym.Kind, name)
		target.Type = ast.INVALID_TYPE
		return ast.INVALID_TYPE
	}
	target.Type = sym.Type
	return sym.Type
}

func (sema *sema) checkAssignIndex(target *ast.Node, scope *ast.Scope) *ast.Type {
	index := target.Node.(*ast.IndexExpr)
	elemType := sema.checkExpr(target, scope, nil)

	container := index.Value.Type
	if container.IsInvalid() {
		return ast.INVALID_TYPE
	}
	if container.Kind == ast.TYPE_STRING {
		sema.report(diagnostics.TYPE_ERROR, index.Open, "cannot assign to a character of a string")
		return ast.INVALID_TYPE
	}
	sema.requireMutable(index.Value)
	return elemType
}

func (sema *sema) checkAssignMember(target *ast.Node, scope *ast.Scope) *ast.Type {
	member := target.Node.(*ast.MemberExpr)
	fieldType := sema.checkExpr(target, scope, nil)
	if member.Field == nil {
		return ast.INVALID_TYPE
	}
	return fieldType
}

// requireMutable reports a MutabilityError when node is rooted in an
// immutable binding. Members and call results are never immutable roots.
func (sema *sema) requireMutable(node *ast.Node) {
	sym := rootBinding(node)
	if sym == nil || sym.Kind != ast.SYMBOL_VAR || sym.Mutable {
		return
	}
	sema.report(diagnostics.MUTABILITY_ERROR, node.Pos(), "cannot modify immutable '%s'", sym.Name)
}

func rootBinding(node *ast.Node) *ast.Symbol {
	switch n := node.Node.(type) {
	case *ast.IdExpr:
		return n.Sym
	case *ast.IndexExpr:
		return rootBinding(n.Value)
	}
	return nil
}

func (sema *sema) checkCondStmt(cond *ast.CondStmt, scope *ast.Scope) {
	sema.checkCondition(cond.IfStmt.Expr, scope)
	sema.checkBlock(cond.IfStmt.Block, scope, ast.SCOPE_BLOCK)

	for _, elif := range cond.ElifStmts {
		sema.checkCondition(elif.Expr, scope)
		sema.checkBlock(elif.Block, scope, ast.SCOPE_BLOCK)
	}

	if cond.ElseStmt != nil {
		sema.checkBlock(cond.ElseStmt.Block, scope, ast.SCOPE_BLOCK)
	}
}

func (sema *sema) checkCondition(expr *ast.Node, scope *ast.Scope) {
	t := sema.checkExpr(expr, scope, ast.BOOL_TYPE)
	if !t.IsInvalid() && t.Kind != ast.TYPE_BOOL {
		sema.report(diagnostics.TYPE_ERROR, expr.Pos(), "condition must be bool, not %s", t)
	}
}

func (sema *sema) checkRangeFor(loop *ast.RangeFor, scope *ast.Scope) {
	for _, bound := range []*ast.Node{loop.Start, loop.End} {
		t := sema.checkExpr(bound, scope, ast.INT_TYPE)
		if !t.IsInvalid() && t.Kind != ast.TYPE_INT {
			sema.report(diagnostics.TYPE_ERROR, bound.Pos(), "range bounds must be int, not %s", t)
		}
	}

	loopScope := ast.NewScope(scope, ast.SCOPE_LOOP)
	loop.Sym = &ast.Symbol{Kind: ast.SYMBOL_VAR, Name: loop.Var.Name(), Type: ast.INT_TYPE}
	sema.declare(loopScope, loop.Var, loop.Sym)
	sema.checkStmts(loop.Block.Statements, loopScope)
}

func (sema *sema) checkCollectionFor(loop *ast.CollectionFor, scope *ast.Scope) {
	iterable := sema.checkExpr(loop.Iterable, scope, nil)

	varType := ast.INVALID_TYPE
	switch {
	case iterable.IsInvalid():
	case iterable.IsEmptyLiteral():
		sema.report(diagnostics.TYPE_ERROR, loop.Iterable.Pos(), "cannot iterate over an empty literal")
	case iterable.Kind == ast.TYPE_LIST:
		varType = iterable.Elem
	case iterable.Kind == ast.TYPE_DICT:
		varType = iterable.Key
	default:
		sema.report(diagnostics.TYPE_ERROR, loop.Iterable.Pos(), "cannot iterate over a value of type %s", iterable)
	}

	loopScope := ast.NewScope(scope, ast.SCOPE_LOOP)
	loop.Sym = &ast.Symbol{Kind: ast.SYMBOL_VAR, Name: loop.Var.Name(), Type: varType}
	sema.declare(loopScope, loop.Var, loop.Sym)
	sema.checkStmts(loop.Block.Statements, loopScope)
}

func (sema *sema) checkReturn(ret *ast.ReturnStmt, scope *ast.Scope) {
	fn := scope.EnclosingFn()
	if fn == nil {
		sema.report(diagnostics.SCOPE_ERROR, ret.Return, "'return' outside of a function")
		if ret.Value != nil {
			sema.checkExpr(ret.Value, scope, nil)
		}
		return
	}

	if ret.Value == nil {
		if !fn.RetType.IsVoid() && !fn.RetType.IsInvalid() {
			sema.report(
				diagnostics.TYPE_ERROR,
				ret.Return,
				"missing return value in function '%s' returning %s",
				fn.Name.Name(),
				fn.RetType,
			)
		}
		return
	}

	if fn.RetType.IsVoid() {
		sema.checkExpr(ret.Value, scope, nil)
		sema.report(
			diagnostics.TYPE_ERROR,
			ret.Value.Pos(),
			"function '%s' does not return a value",
			fn.Name.Name(),
		)
		return
	}
	sema.checkValue(ret.Value, fn.RetType, scope)
}

func (sema *sema) checkTry(try *ast.TryStmt, scope *ast.Scope) {
	sema.checkBlock(try.Block, scope, ast.SCOPE_BLOCK)

	catchScope := ast.NewScope(scope, ast.SCOPE_BLOCK)
	if try.CatchName != nil {
		try.CatchSym = &ast.Symbol{Kind: ast.SYMBOL_VAR, Name: try.CatchName.Name(), Type: ast.STRING_TYPE}
		sema.declare(catchScope, try.CatchName, try.CatchSym)
	}
	sema.checkStmts(try.CatchBlock.Statements, catchScope)
}
