package sema

import (
	"strings"

	"github.com/mas6y6/REDLINE/internal/ast"
	"github.com/mas6y6/REDLINE/internal/diagnostics"
	"github.com/mas6y6/REDLINE/internal/lexer/token"
)

// candidate is one member of an overload set: a user function, a method, a
// constructor (explicit or implicit) or a builtin.
type candidate struct {
	params  []*ast.Type
	ret     *ast.Type
	fn      *ast.FnDecl
	builtin *ast.Builtin
}

// match is a candidate whose type parameters were bound by the arguments.
type match struct {
	*candidate
	params []*ast.Type
	ret    *ast.Type
}

func fnCandidates(fns []*ast.FnDecl) []*candidate {
	cands := make([]*candidate, len(fns))
	for i, fn := range fns {
		cands[i] = &candidate{params: fn.ParamTypes(), ret: fn.RetType, fn: fn}
	}
	return cands
}

func symbolCandidates(sym *ast.Symbol) []*candidate {
	cands := fnCandidates(sym.Funcs)
	for _, builtin := range sym.Builtins {
		cands = append(cands, &candidate{params: builtin.Params, ret: builtin.Ret, builtin: builtin})
	}
	return cands
}

func (sema *sema) checkCall(call *ast.CallExpr, scope *ast.Scope) *ast.Type {
	var (
		name  string
		cands []*candidate
	)

	switch callee := call.Callee.Node.(type) {
	case *ast.IdExpr:
		name = callee.Name.Name()
		sym, err := scope.LookupAcrossScopes(name)
		if err != nil {
			sema.report(diagnostics.SCOPE_ERROR, callee.Name.Pos, "undefined function '%s'", name)
			sema.checkArgs(call.Args, scope)
			return ast.INVALID_TYPE
		}
		callee.Sym = sym
		if sym.Kind != ast.SYMBOL_FUNC {
			sema.report(diagnostics.TYPE_ERROR, callee.Name.Pos, "%s '%s' is not a function", sym.Kind, name)
			sema.checkArgs(call.Args, scope)
			return ast.INVALID_TYPE
		}
		cands = symbolCandidates(sym)

	case *ast.MemberExpr:
		name = callee.Name.Name()
		if module := sema.importedModule(callee.Object, scope); module != nil {
			sym := sema.moduleMember(module, callee.Name)
			if sym == nil {
				sema.checkArgs(call.Args, scope)
				return ast.INVALID_TYPE
			}
			callee.Module = module
			callee.Sym = sym
			if sym.Kind != ast.SYMBOL_FUNC {
				sema.report(
					diagnostics.TYPE_ERROR,
					callee.Name.Pos,
					"%s '%s.%s' is not a function",
					sym.Kind,
					module.Name,
					name,
				)
				sema.checkArgs(call.Args, scope)
				return ast.INVALID_TYPE
			}
			name = module.Name + "." + name
			cands = symbolCandidates(sym)
			break
		}

		methods := sema.checkMethodCallee(callee, scope)
		if methods == nil {
			sema.checkArgs(call.Args, scope)
			return ast.INVALID_TYPE
		}
		cands = fnCandidates(methods)

	default:
		sema.checkExpr(call.Callee, scope, nil)
		sema.report(diagnostics.TYPE_ERROR, call.Callee.Pos(), "expression is not callable")
		sema.checkArgs(call.Args, scope)
		return ast.INVALID_TYPE
	}

	argTypes := sema.checkArgs(call.Args, scope)
	if argTypes == nil {
		return ast.INVALID_TYPE
	}

	m := sema.resolveOverload(call.Callee.Pos(), name, cands, call.Args, argTypes)
	if m == nil {
		return ast.INVALID_TYPE
	}
	call.Params = m.params
	switch {
	case m.builtin != nil:
		call.CallKind = ast.CALL_BUILTIN
		call.Builtin = m.builtin
		sema.checkBuiltinUse(call, scope)
	case m.fn.Class != nil:
		call.CallKind = ast.CALL_METHOD
		call.Fn = m.fn
	default:
		call.CallKind = ast.CALL_FUNCTION
		call.Fn = m.fn
	}
	return m.ret
}

// checkMethodCallee resolves obj.name(...) on a class value to the methods
// named name that are visible from the current module.
func (sema *sema) checkMethodCallee(callee *ast.MemberExpr, scope *ast.Scope) []*ast.FnDecl {
	name := callee.Name.Name()

	object := sema.checkExpr(callee.Object, scope, nil)
	if object.IsInvalid() {
		return nil
	}
	if object.Kind != ast.TYPE_CLASS {
		sema.report(diagnostics.UNKNOWN_MEMBER_ERROR, callee.Name.Pos, "%s has no method '%s'", object, name)
		return nil
	}

	class := object.Class
	methods := class.LookupMethods(name)
	if len(methods) == 0 {
		if class.LookupField(name) != nil {
			sema.report(diagnostics.TYPE_ERROR, callee.Name.Pos, "field '%s' of '%s' is not callable", name, class.Name.Name())
		} else {
			sema.report(diagnostics.UNKNOWN_MEMBER_ERROR, callee.Name.Pos, "'%s' has no member '%s'", class.Name.Name(), name)
		}
		return nil
	}

	if class.Module == sema.module {
		return methods
	}
	var exported []*ast.FnDecl
	for _, method := range methods {
		if method.Pub {
			exported = append(exported, method)
		}
	}
	if len(exported) == 0 {
		sema.report(
			diagnostics.VISIBILITY_ERROR,
			callee.Name.Pos,
			"method '%s' of '%s' is private to module '%s'",
			name,
			class.Name.Name(),
			class.Module.Name,
		)
		return nil
	}
	return exported
}

func (sema *sema) checkNew(newExpr *ast.NewExpr, scope *ast.Scope) *ast.Type {
	class := sema.lookupClass(newExpr.Qualifier, newExpr.Name, scope)
	argTypes := sema.checkArgs(newExpr.Args, scope)
	if class == nil || argTypes == nil {
		return ast.INVALID_TYPE
	}
	newExpr.Class = class

	var cands []*candidate
	if class.HasImplicitCtors() {
		cands = append(cands, &candidate{ret: ast.VOID_TYPE})
		if len(class.Fields) > 0 {
			fieldTypes := make([]*ast.Type, len(class.Fields))
			for i, field := range class.Fields {
				fieldTypes[i] = field.Type
			}
			cands = append(cands, &candidate{params: fieldTypes, ret: ast.VOID_TYPE})
		}
	} else {
		cands = fnCandidates(class.Ctors)
	}

	m := sema.resolveOverload(newExpr.Name.Pos, "new "+class.Name.Name(), cands, newExpr.Args, argTypes)
	if m == nil {
		return ast.INVALID_TYPE
	}
	newExpr.Ctor = m.fn
	newExpr.Params = m.params
	return ast.NewInstanceType(class)
}

// checkArgs types every argument. It returns nil if any of them is invalid
// so that no overload error is reported on top.
func (sema *sema) checkArgs(args []*ast.Node, scope *ast.Scope) []*ast.Type {
	types := make([]*ast.Type, len(args))
	ok := true
	for i, arg := range args {
		types[i] = sema.checkExpr(arg, scope, nil)
		if types[i].IsInvalid() {
			ok = false
		}
	}
	if !ok {
		return nil
	}
	return types
}

// resolveOverload picks the candidate the arguments select: first by arity,
// then by exact parameter types, then allowing int arguments for float
// parameters. More than one survivor of a round is ambiguous.
func (sema *sema) resolveOverload(
	pos token.Pos,
	name string,
	cands []*candidate,
	args []*ast.Node,
	argTypes []*ast.Type,
) *match {
	var sameArity []*candidate
	for _, c := range cands {
		if len(c.params) == len(argTypes) {
			sameArity = append(sameArity, c)
		}
	}

	for _, widen := range []bool{false, true} {
		var found []*match
		for _, c := range sameArity {
			if m := matchCandidate(c, argTypes, widen); m != nil {
				found = append(found, m)
			}
		}

		switch len(found) {
		case 0:
			continue
		case 1:
			for i, arg := range args {
				if arg.Type.IsEmptyLiteral() {
					arg.Type = found[0].params[i]
				}
			}
			return found[0]
		default:
			ambiguous := make([]*candidate, len(found))
			for i, m := range found {
				ambiguous[i] = m.candidate
			}
			sema.report(
				diagnostics.AMBIGUOUS_CALL_ERROR,
				pos,
				"ambiguous call to %s%s, candidates: %s",
				name,
				ast.SignatureString(argTypes),
				describeCandidates(name, ambiguous),
			)
			return nil
		}
	}

	sema.report(
		diagnostics.UNRESOLVED_CALL_ERROR,
		pos,
		"no overload of %s matches %s, candidates: %s",
		name,
		ast.SignatureString(argTypes),
		describeCandidates(name, cands),
	)
	return nil
}

func describeCandidates(name string, cands []*candidate) string {
	parts := make([]string, len(cands))
	for i, c := range cands {
		parts[i] = name + ast.SignatureString(c.params)
	}
	return strings.Join(parts, ", ")
}

func matchCandidate(c *candidate, argTypes []*ast.Type, widen bool) *match {
	bindings := make(map[string]*ast.Type)
	for i, param := range c.params {
		if !matchType(param, argTypes[i], bindings, widen) {
			return nil
		}
	}

	params := make([]*ast.Type, len(c.params))
	for i, param := range c.params {
		t, ok := substitute(param, bindings)
		if !ok {
			return nil
		}
		params[i] = t
	}
	ret, ok := substitute(c.ret, bindings)
	if !ok {
		return nil
	}
	return &match{candidate: c, params: params, ret: ret}
}

// matchType binds type parameters left to right. Widening applies only at
// the top level of an argument, never inside a collection type.
func matchType(param, arg *ast.Type, bindings map[string]*ast.Type, widen bool) bool {
	switch param.Kind {
	case ast.TYPE_PARAM:
		bound, ok := bindings[param.Param]
		if !ok {
			if arg.IsEmptyLiteral() || arg.IsVoid() {
				return false
			}
			bindings[param.Param] = arg
			return true
		}
		return bound.Equals(arg) ||
			(widen && bound.Kind == ast.TYPE_FLOAT && arg.Kind == ast.TYPE_INT) ||
			(arg.IsEmptyLiteral() && arg.Kind == bound.Kind)
	case ast.TYPE_LIST:
		if arg.Kind != ast.TYPE_LIST {
			return false
		}
		return arg.Elem == nil || matchType(param.Elem, arg.Elem, bindings, false)
	case ast.TYPE_DICT:
		if arg.Kind != ast.TYPE_DICT {
			return false
		}
		if arg.IsEmptyLiteral() {
			return true
		}
		return matchType(param.Key, arg.Key, bindings, false) &&
			matchType(param.Elem, arg.Elem, bindings, false)
	case ast.TYPE_FLOAT:
		return arg.Kind == ast.TYPE_FLOAT || (widen && arg.Kind == ast.TYPE_INT)
	}
	return param.Equals(arg)
}

// substitute replaces bound type parameters in t. It fails when one is
// still unbound.
func substitute(t *ast.Type, bindings map[string]*ast.Type) (*ast.Type, bool) {
	switch t.Kind {
	case ast.TYPE_PARAM:
		bound, ok := bindings[t.Param]
		return bound, ok
	case ast.TYPE_LIST:
		elem, ok := substitute(t.Elem, bindings)
		if !ok {
			return nil, false
		}
		if elem == t.Elem {
			return t, true
		}
		return ast.NewListType(elem), true
	case ast.TYPE_DICT:
		key, keyOk := substitute(t.Key, bindings)
		value, valueOk := substitute(t.Elem, bindings)
		if !keyOk || !valueOk {
			return nil, false
		}
		if key == t.Key && value == t.Elem {
			return t, true
		}
		return ast.NewDictType(key, value), true
	}
	return t, true
}

func (sema *sema) checkBuiltinUse(call *ast.CallExpr, scope *ast.Scope) {
	builtin := call.Builtin
	if builtin.Mutates {
		sema.requireMutable(call.Args[0])
	}
	if builtin.TopOnly && !scope.InEntry() {
		sema.report(
			diagnostics.SCOPE_ERROR,
			call.Callee.Pos(),
			"'%s' can only be called from top-level code of the entry module",
			builtin.Name,
		)
	}
	if builtin.Name == "sort" {
		if elem := call.Params[0].Elem; !elem.IsOrderable() {
			sema.report(diagnostics.TYPE_ERROR, call.Args[0].Pos(), "cannot sort a list of %s", elem)
		}
	}
}
