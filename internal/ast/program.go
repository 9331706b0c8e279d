package ast

import (
	"fmt"
	"path"
	"strings"
)

type Loc struct {
	Name string // shown in diagnostics
	Dir  string
	Path string // slash-separated path inside the source tree
}

// LocFromPath builds the location of a source file relative to the root of
// the source tree.
func LocFromPath(relPath string) *Loc {
	loc := new(Loc)
	loc.Path = relPath
	loc.Name = relPath
	loc.Dir = path.Dir(relPath)
	return loc
}

func (l Loc) String() string {
	return fmt.Sprintf("Name: %s | Dir: %s | Path: %s", l.Name, l.Dir, l.Path)
}

// Module is one compiled source file.
type Module struct {
	Loc     *Loc
	Name    string // dotted import path, e.g. "utils.math"
	Mangled string // namespace-safe form of Name
	IsEntry bool
	Src     []byte

	Body    []*Node
	Imports []*ImportDecl
	Deps    []*Module

	// Set by sema. EntryScope holds the top-level statements of the entry
	// module.
	Scope      *Scope
	EntryScope *Scope
}

func (m *Module) String() string {
	if m.Name == "" {
		return "Name: <EMPTY>"
	}
	return fmt.Sprintf("Name: %s", m.Name)
}

// Functions returns the module's top-level functions in source order.
func (m *Module) Functions() []*FnDecl {
	var fns []*FnDecl
	for _, node := range m.Body {
		if node.Kind == KIND_FN_DECL {
			fns = append(fns, node.Node.(*FnDecl))
		}
	}
	return fns
}

// Classes returns the module's classes in source order.
func (m *Module) Classes() []*ClassDecl {
	var classes []*ClassDecl
	for _, node := range m.Body {
		if node.Kind == KIND_CLASS_DECL {
			classes = append(classes, node.Node.(*ClassDecl))
		}
	}
	return classes
}

// Statements returns the top-level executable statements.
func (m *Module) Statements() []*Node {
	var stmts []*Node
	for _, node := range m.Body {
		if node.IsStmt() {
			stmts = append(stmts, node)
		}
	}
	return stmts
}

// HasPublicSymbols reports whether the module needs a declaration unit.
func (m *Module) HasPublicSymbols() bool {
	for _, fn := range m.Functions() {
		if fn.Pub {
			return true
		}
	}
	for _, class := range m.Classes() {
		if class.Pub {
			return true
		}
	}
	return false
}

// Program is the resolved import graph of one compilation. Modules are in
// topological order, dependencies first.
type Program struct {
	Entry   *Module
	Modules []*Module
}

func (p *Program) Lookup(name string) *Module {
	for _, m := range p.Modules {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// ModuleNameFromPath turns "utils/math.rl" into "utils.math".
func ModuleNameFromPath(relPath string) string {
	trimmed := strings.TrimSuffix(relPath, path.Ext(relPath))
	return strings.ReplaceAll(trimmed, "/", ".")
}
