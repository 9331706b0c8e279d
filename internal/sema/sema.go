// Package sema type-checks a resolved program in place: every expression
// gets its Type, every identifier its Symbol and every call the overload it
// binds to.
package sema

import (
	"github.com/mas6y6/REDLINE/internal/ast"
	"github.com/mas6y6/REDLINE/internal/diagnostics"
	"github.com/mas6y6/REDLINE/internal/lexer/token"
)

type sema struct {
	collector *diagnostics.Collector
	universe  *ast.Scope

	// module whose bodies are being checked
	module *ast.Module
}

func New(collector *diagnostics.Collector) *sema {
	return &sema{collector: collector, universe: Universe()}
}

// Check runs three passes over every module: names, then signatures and
// field types, then bodies. Diagnostics are accumulated; the sentinel error
// is returned if any were reported.
func (sema *sema) Check(program *ast.Program) error {
	start := len(sema.collector.Diags)

	for _, module := range program.Modules {
		sema.declareModule(module)
	}
	for _, module := range program.Modules {
		sema.declareSignatures(module)
	}
	for _, module := range program.Modules {
		sema.checkModule(module)
	}

	if len(sema.collector.Diags) > start {
		return diagnostics.COMPILER_ERROR_FOUND
	}
	return nil
}

func (sema *sema) report(kind diagnostics.Kind, pos token.Pos, format string, args ...any) {
	sema.collector.Report(kind, pos, format, args...)
}

func (sema *sema) declareModule(module *ast.Module) {
	module.Scope = ast.NewScope(sema.universe, ast.SCOPE_MODULE)

	for _, imp := range module.Imports {
		binding := imp.Binding()
		sym := &ast.Symbol{
			Kind:   ast.SYMBOL_MODULE,
			Name:   binding.Name(),
			Module: imp.Module,
			Owner:  module,
		}
		if err := module.Scope.Insert(binding.Name(), sym); err != nil {
			existing, _ := module.Scope.LookupCurrentScope(binding.Name())
			if existing.Kind == ast.SYMBOL_MODULE && existing.Module == imp.Module {
				continue
			}
			sema.alreadyDeclared(binding)
		}
	}

	for _, class := range module.Classes() {
		class.Module = module
		class.Scope = ast.NewScope(module.Scope, ast.SCOPE_CLASS)
		class.Scope.Class = class

		sym := &ast.Symbol{
			Kind:   ast.SYMBOL_CLASS,
			Name:   class.Name.Name(),
			Type:   ast.NewInstanceType(class),
			Public: class.Pub,
			Class:  class,
			Owner:  module,
		}
		if err := module.Scope.Insert(class.Name.Name(), sym); err != nil {
			sema.alreadyDeclared(class.Name)
		}
	}

	for _, fn := range module.Functions() {
		fn.Module = module
		sema.declareFunc(module.Scope, fn, module)
	}
}

// declareFunc adds fn to the overload set of its name in scope.
func (sema *sema) declareFunc(scope *ast.Scope, fn *ast.FnDecl, owner *ast.Module) {
	name := fn.Name.Name()
	sym, err := scope.LookupCurrentScope(name)
	if err != nil {
		sym = &ast.Symbol{Kind: ast.SYMBOL_FUNC, Name: name, Owner: owner}
		scope.Insert(name, sym)
	} else if sym.Kind != ast.SYMBOL_FUNC {
		sema.alreadyDeclared(fn.Name)
		return
	}
	sym.Funcs = append(sym.Funcs, fn)
	sym.Public = sym.Public || fn.Pub
}

func (sema *sema) declareSignatures(module *ast.Module) {
	sema.module = module

	for _, class := range module.Classes() {
		for _, field := range class.Fields {
			field.Type = sema.resolveType(field.Type, module.Scope, field.Name.Pos, false)
			sym := &ast.Symbol{
				Kind:    ast.SYMBOL_FIELD,
				Name:    field.Name.Name(),
				Type:    field.Type,
				Mutable: true,
				Field:   field,
				Owner:   module,
			}
			if err := class.Scope.Insert(field.Name.Name(), sym); err != nil {
				sema.alreadyDeclared(field.Name)
			}
		}

		for _, method := range class.Methods {
			method.Module = module
			sema.resolveSignature(method, module.Scope)
			sema.declareFunc(class.Scope, method, module)
		}
		for _, ctor := range class.Ctors {
			ctor.Module = module
			sema.resolveSignature(ctor, module.Scope)
			if !ctor.RetType.IsVoid() {
				sema.report(
					diagnostics.TYPE_ERROR,
					ctor.Name.Pos,
					"constructor of '%s' cannot return a value",
					class.Name.Name(),
				)
			}
		}

		sema.checkOverloadSet(class.Ctors)
		for _, name := range class.Scope.Names() {
			sym, _ := class.Scope.LookupCurrentScope(name)
			if sym.Kind == ast.SYMBOL_FUNC {
				sema.checkOverloadSet(sym.Funcs)
			}
		}
	}

	for _, fn := range module.Functions() {
		sema.resolveSignature(fn, module.Scope)
	}
	for _, name := range module.Scope.Names() {
		sym, _ := module.Scope.LookupCurrentScope(name)
		if sym.Kind == ast.SYMBOL_FUNC {
			sema.checkOverloadSet(sym.Funcs)
		}
	}

	sema.checkExposure(module)
}

// checkExposure reports public declarations whose types name a private
// class of the same module. A public class exposes every member, since
// importers see its whole layout.
func (sema *sema) checkExposure(module *ast.Module) {
	for _, fn := range module.Functions() {
		if fn.Pub {
			sema.checkExposedSignature(fn, "function")
		}
	}

	for _, class := range module.Classes() {
		if !class.Pub {
			continue
		}
		for _, field := range class.Fields {
			sema.checkExposedType(field.Type, field.Name, "field")
		}
		for _, ctor := range class.Ctors {
			sema.checkExposedSignature(ctor, "constructor")
		}
		for _, method := range class.Methods {
			sema.checkExposedSignature(method, "method")
		}
	}
}

func (sema *sema) checkExposedSignature(fn *ast.FnDecl, what string) {
	for _, param := range fn.Params {
		sema.checkExposedType(param.Type, param.Name, what)
	}
	sema.checkExposedType(fn.RetType, fn.Name, what)
}

func (sema *sema) checkExposedType(t *ast.Type, name *token.Token, what string) {
	private := privateClassIn(t, sema.module)
	if private == nil {
		return
	}
	sema.report(
		diagnostics.VISIBILITY_ERROR,
		name.Pos,
		"public %s '%s' exposes private class '%s'",
		what,
		name.Name(),
		private.Name.Name(),
	)
}

func privateClassIn(t *ast.Type, module *ast.Module) *ast.ClassDecl {
	if t.IsInvalid() {
		return nil
	}
	switch t.Kind {
	case ast.TYPE_LIST:
		return privateClassIn(t.Elem, module)
	case ast.TYPE_DICT:
		if class := privateClassIn(t.Key, module); class != nil {
			return class
		}
		return privateClassIn(t.Elem, module)
	case ast.TYPE_CLASS:
		if t.Class != nil && t.Class.Module == module && !t.Class.Pub {
			return t.Class
		}
	}
	return nil
}

func (sema *sema) resolveSignature(fn *ast.FnDecl, scope *ast.Scope) {
	for _, param := range fn.Params {
		param.Type = sema.resolveType(param.Type, scope, param.Name.Pos, false)
	}
	fn.RetType = sema.resolveType(fn.RetType, scope, fn.Name.Pos, true)
}

// checkOverloadSet reports every declaration whose parameter types repeat
// an earlier declaration of the same set.
func (sema *sema) checkOverloadSet(fns []*ast.FnDecl) {
	for j := 1; j < len(fns); j++ {
		for i := 0; i < j; i++ {
			if sameParams(fns[i].ParamTypes(), fns[j].ParamTypes()) {
				sema.report(
					diagnostics.TYPE_ERROR,
					fns[j].Name.Pos,
					"'%s%s' is already declared",
					fns[j].Name.Name(),
					fns[j].Signature(),
				)
				break
			}
		}
	}
}

func sameParams(a, b []*ast.Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].IsInvalid() || b[i].IsInvalid() || !a[i].Equals(b[i]) {
			return false
		}
	}
	return true
}

// resolveType binds class names inside t. It returns INVALID_TYPE, after
// reporting, when t names something that is not a usable type.
func (sema *sema) resolveType(t *ast.Type, scope *ast.Scope, pos token.Pos, allowVoid bool) *ast.Type {
	switch t.Kind {
	case ast.TYPE_VOID:
		if !allowVoid {
			sema.report(diagnostics.TYPE_ERROR, pos, "void is only allowed as a return type")
			return ast.INVALID_TYPE
		}
		return t
	case ast.TYPE_LIST:
		elem := sema.resolveType(t.Elem, scope, pos, false)
		if elem.IsInvalid() {
			return ast.INVALID_TYPE
		}
		t.Elem = elem
		return t
	case ast.TYPE_DICT:
		key := sema.resolveType(t.Key, scope, pos, false)
		value := sema.resolveType(t.Elem, scope, pos, false)
		if key.IsInvalid() || value.IsInvalid() {
			return ast.INVALID_TYPE
		}
		if !key.IsOrderable() {
			sema.report(diagnostics.TYPE_ERROR, pos, "dict keys must be int, float, string or bool, not %s", key)
			return ast.INVALID_TYPE
		}
		t.Key, t.Elem = key, value
		return t
	case ast.TYPE_CLASS:
		class := sema.lookupClass(t.Qualifier, t.Name, scope)
		if class == nil {
			return ast.INVALID_TYPE
		}
		t.Class = class
		return t
	}
	return t
}

func (sema *sema) lookupClass(qualifier, name *token.Token, scope *ast.Scope) *ast.ClassDecl {
	var sym *ast.Symbol
	if qualifier == nil {
		found, err := scope.LookupAcrossScopes(name.Name())
		if err != nil {
			sema.report(diagnostics.SCOPE_ERROR, name.Pos, "undefined type '%s'", name.Name())
			return nil
		}
		sym = found
	} else {
		module := sema.lookupModule(qualifier, scope)
		if module == nil {
			return nil
		}
		sym = sema.moduleMember(module, name)
		if sym == nil {
			return nil
		}
	}

	if sym.Kind != ast.SYMBOL_CLASS {
		sema.report(diagnostics.TYPE_ERROR, name.Pos, "'%s' is a %s, not a class", name.Name(), sym.Kind)
		return nil
	}
	return sym.Class
}

func (sema *sema) lookupModule(name *token.Token, scope *ast.Scope) *ast.Module {
	sym, err := scope.LookupAcrossScopes(name.Name())
	if err != nil {
		sema.report(diagnostics.SCOPE_ERROR, name.Pos, "undefined: '%s'", name.Name())
		return nil
	}
	if sym.Kind != ast.SYMBOL_MODULE {
		sema.report(diagnostics.TYPE_ERROR, name.Pos, "'%s' is a %s, not a module", name.Name(), sym.Kind)
		return nil
	}
	return sym.Module
}

// moduleMember looks name up among the symbols module exports. Overload
// sets are narrowed to their pub members.
func (sema *sema) moduleMember(module *ast.Module, name *token.Token) *ast.Symbol {
	sym, err := module.Scope.LookupCurrentScope(name.Name())
	if err != nil || sym.Kind == ast.SYMBOL_MODULE {
		sema.report(
			diagnostics.SCOPE_ERROR,
			name.Pos,
			"module '%s' has no member '%s'",
			module.Name,
			name.Name(),
		)
		return nil
	}

	switch sym.Kind {
	case ast.SYMBOL_FUNC:
		var exported []*ast.FnDecl
		for _, fn := range sym.Funcs {
			if fn.Pub {
				exported = append(exported, fn)
			}
		}
		if len(exported) == 0 {
			sema.notExported(module, name)
			return nil
		}
		return &ast.Symbol{
			Kind:   ast.SYMBOL_FUNC,
			Name:   sym.Name,
			Public: true,
			Funcs:  exported,
			Owner:  module,
		}
	case ast.SYMBOL_CLASS:
		if !sym.Public {
			sema.notExported(module, name)
			return nil
		}
	}
	return sym
}

func (sema *sema) notExported(module *ast.Module, name *token.Token) {
	sema.report(
		diagnostics.VISIBILITY_ERROR,
		name.Pos,
		"'%s' is private to module '%s'",
		name.Name(),
		module.Name,
	)
}

func (sema *sema) alreadyDeclared(name *token.Token) {
	sema.report(diagnostics.TYPE_ERROR, name.Pos, "'%s' is already declared in this scope", name.Name())
}

// declare inserts a local binding.
func (sema *sema) declare(scope *ast.Scope, name *token.Token, sym *ast.Symbol) {
	if err := scope.Insert(name.Name(), sym); err != nil {
		sema.alreadyDeclared(name)
	}
}

func (sema *sema) checkModule(module *ast.Module) {
	sema.module = module

	for _, class := range module.Classes() {
		for _, field := range class.Fields {
			if field.Default == nil {
				continue
			}
			scope := ast.NewScope(module.Scope, ast.SCOPE_BLOCK)
			sema.checkValue(field.Default, field.Type, scope)
		}
		for _, ctor := range class.Ctors {
			sema.checkFnBody(ctor, class.Scope)
		}
		for _, method := range class.Methods {
			sema.checkFnBody(method, class.Scope)
		}
	}

	for _, fn := range module.Functions() {
		sema.checkFnBody(fn, module.Scope)
	}

	if module.IsEntry {
		entry := ast.NewScope(module.Scope, ast.SCOPE_ENTRY)
		module.EntryScope = entry
		sema.checkStmts(module.Statements(), entry)
	}
}

func (sema *sema) checkFnBody(fn *ast.FnDecl, parent *ast.Scope) {
	scope := ast.NewScope(parent, ast.SCOPE_FUNCTION)
	scope.Fn = fn
	fn.Scope = scope

	for _, param := range fn.Params {
		param.Sym = &ast.Symbol{Kind: ast.SYMBOL_VAR, Name: param.Name.Name(), Type: param.Type}
		if err := scope.Insert(param.Name.Name(), param.Sym); err != nil {
			sema.report(diagnostics.TYPE_ERROR, param.Name.Pos, "duplicate parameter '%s'", param.Name.Name())
		}
	}

	sema.checkStmts(fn.Block.Statements, scope)

	if fn.RetType.IsInvalid() || fn.RetType.IsVoid() {
		return
	}
	if !fn.Block.EndsWithReturn() {
		sema.report(
			diagnostics.TYPE_ERROR,
			fn.Name.Pos,
			"missing return in function '%s' returning %s",
			fn.Name.Name(),
			fn.RetType,
		)
	}
}
