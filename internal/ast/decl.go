package ast

import (
	"fmt"
	"strings"

	"github.com/mas6y6/REDLINE/internal/lexer/token"
)

// CTOR_NAME is the method name that declares a constructor.
const CTOR_NAME = "init"

type Param struct {
	Name *token.Token
	Type *Type

	// Set by sema.
	Sym *Symbol
}

func (param *Param) String() string {
	return fmt.Sprintf("%s: %v", param.Name.Name(), param.Type)
}

type FnDecl struct {
	Pub     bool
	Name    *token.Token
	Params  []*Param
	RetType *Type // VOID_TYPE when omitted
	Block   *BlockStmt

	// Owning class for methods and constructors, nil for free functions.
	Class  *ClassDecl
	IsCtor bool

	// Set by the module resolver / sema.
	Module *Module
	Scope  *Scope
}

func (fnDecl *FnDecl) String() string {
	return fmt.Sprintf("def %s%s -> %v", fnDecl.Name.Name(), fnDecl.Signature(), fnDecl.RetType)
}

func (fnDecl *FnDecl) ParamTypes() []*Type {
	types := make([]*Type, len(fnDecl.Params))
	for i, param := range fnDecl.Params {
		types[i] = param.Type
	}
	return types
}

// Signature renders the parameter types, e.g. "(int, string)".
func (fnDecl *FnDecl) Signature() string {
	return SignatureString(fnDecl.ParamTypes())
}

func SignatureString(types []*Type) string {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = t.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

type Field struct {
	Name    *token.Token
	Type    *Type
	Default *Node // optional

	Class *ClassDecl
}

func (field *Field) String() string {
	return fmt.Sprintf("%s: %v", field.Name.Name(), field.Type)
}

type ClassDecl struct {
	Pub     bool
	Name    *token.Token
	Fields  []*Field
	Methods []*FnDecl
	Ctors   []*FnDecl // explicit init methods

	// Set by the module resolver / sema.
	Module *Module
	Scope  *Scope
}

func (class *ClassDecl) String() string {
	return fmt.Sprintf("class %s", class.Name.Name())
}

func (class *ClassDecl) LookupField(name string) *Field {
	for _, field := range class.Fields {
		if field.Name.Name() == name {
			return field
		}
	}
	return nil
}

func (class *ClassDecl) LookupMethods(name string) []*FnDecl {
	var methods []*FnDecl
	for _, method := range class.Methods {
		if method.Name.Name() == name {
			methods = append(methods, method)
		}
	}
	return methods
}

// HasImplicitCtors reports whether the class gets the generated default and
// field-wise constructors because it declares no init method.
func (class *ClassDecl) HasImplicitCtors() bool {
	return len(class.Ctors) == 0
}

type ImportDecl struct {
	Import token.Pos
	Path   []*token.Token
	Alias  *token.Token // optional

	// Set by the module resolver.
	Module *Module
}

func (imp *ImportDecl) String() string {
	s := "import " + imp.PathString()
	if imp.Alias != nil {
		s += " as " + imp.Alias.Name()
	}
	return s
}

// PathString returns the dotted module path, e.g. "utils.math".
func (imp *ImportDecl) PathString() string {
	parts := make([]string, len(imp.Path))
	for i, part := range imp.Path {
		parts[i] = part.Name()
	}
	return strings.Join(parts, ".")
}

// Binding is the name the import introduces in the importing module.
func (imp *ImportDecl) Binding() *token.Token {
	if imp.Alias != nil {
		return imp.Alias
	}
	return imp.Path[len(imp.Path)-1]
}
