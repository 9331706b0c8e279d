package ast

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ERR_SYMBOL_ALREADY_DEFINED_ON_SCOPE = errors.New("symbol already defined on scope")
	ERR_SYMBOL_NOT_FOUND_ON_SCOPE       = errors.New("symbol not found on scope")
)

type SymbolKind int

const (
	SYMBOL_VAR SymbolKind = iota
	SYMBOL_FIELD
	SYMBOL_FUNC
	SYMBOL_CLASS
	SYMBOL_MODULE
)

func (k SymbolKind) String() string {
	switch k {
	case SYMBOL_VAR:
		return "variable"
	case SYMBOL_FIELD:
		return "field"
	case SYMBOL_FUNC:
		return "function"
	case SYMBOL_CLASS:
		return "class"
	case SYMBOL_MODULE:
		return "module"
	}
	return "symbol"
}

// Builtin is one signature of the standard-library call surface.
type Builtin struct {
	Name    string
	Params  []*Type
	Ret     *Type
	Mutates bool // first argument is modified in place
	TopOnly bool // callable only from top-level code of the entry module
}

// Symbol is the declaration record scopes map names to.
type Symbol struct {
	Kind    SymbolKind
	Name    string
	Type    *Type
	Mutable bool
	Public  bool

	Funcs    []*FnDecl // overload set
	Builtins []*Builtin
	Class    *ClassDecl
	Field    *Field
	Module   *Module

	// Module that declared the symbol; nil for builtins and locals.
	Owner *Module
}

func (sym *Symbol) String() string {
	return fmt.Sprintf("%s %s", sym.Kind, sym.Name)
}

type ScopeKind int

const (
	SCOPE_UNIVERSE ScopeKind = iota
	SCOPE_MODULE
	SCOPE_ENTRY
	SCOPE_CLASS
	SCOPE_FUNCTION
	SCOPE_BLOCK
	SCOPE_LOOP
)

type Scope struct {
	Parent *Scope
	Kind   ScopeKind
	Nodes  map[string]*Symbol

	Class *ClassDecl // SCOPE_CLASS
	Fn    *FnDecl    // SCOPE_FUNCTION
}

func NewScope(parent *Scope, kind ScopeKind) *Scope {
	return &Scope{Parent: parent, Kind: kind, Nodes: make(map[string]*Symbol)}
}

func (scope *Scope) Insert(name string, element *Symbol) error {
	if _, ok := scope.Nodes[name]; ok {
		return ERR_SYMBOL_ALREADY_DEFINED_ON_SCOPE
	}
	scope.Nodes[name] = element
	return nil
}

func (scope *Scope) LookupCurrentScope(name string) (*Symbol, error) {
	if node, ok := scope.Nodes[name]; ok {
		return node, nil
	}
	return nil, ERR_SYMBOL_NOT_FOUND_ON_SCOPE
}

func (scope *Scope) LookupAcrossScopes(name string) (*Symbol, error) {
	if node, ok := scope.Nodes[name]; ok {
		return node, nil
	}
	if scope.Parent == nil {
		return nil, ERR_SYMBOL_NOT_FOUND_ON_SCOPE
	}
	return scope.Parent.LookupAcrossScopes(name)
}

// InLoop reports whether break/continue are valid here. Loops do not leak
// through function boundaries.
func (scope *Scope) InLoop() bool {
	for s := scope; s != nil; s = s.Parent {
		switch s.Kind {
		case SCOPE_LOOP:
			return true
		case SCOPE_FUNCTION, SCOPE_ENTRY, SCOPE_MODULE:
			return false
		}
	}
	return false
}

func (scope *Scope) EnclosingFn() *FnDecl {
	for s := scope; s != nil; s = s.Parent {
		if s.Kind == SCOPE_FUNCTION {
			return s.Fn
		}
	}
	return nil
}

func (scope *Scope) EnclosingClass() *ClassDecl {
	for s := scope; s != nil; s = s.Parent {
		if s.Kind == SCOPE_CLASS {
			return s.Class
		}
	}
	return nil
}

// InEntry reports whether the scope belongs to top-level code of the entry
// module.
func (scope *Scope) InEntry() bool {
	for s := scope; s != nil; s = s.Parent {
		switch s.Kind {
		case SCOPE_ENTRY:
			return true
		case SCOPE_FUNCTION, SCOPE_CLASS, SCOPE_MODULE:
			return false
		}
	}
	return false
}

// Names returns the symbols declared directly in this scope, sorted.
func (scope *Scope) Names() []string {
	names := make([]string, 0, len(scope.Nodes))
	for name := range scope.Nodes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (scope Scope) String() string {
	if scope.Parent == nil {
		return fmt.Sprintf("Scope:\nParent: nil\nCurrent: %v\n", scope.Names())
	}
	return fmt.Sprintf("Scope:\nParent: %v\nCurrent: %v\n", scope.Parent, scope.Names())
}
