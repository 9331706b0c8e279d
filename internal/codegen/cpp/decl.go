package cpp

import (
	"strings"

	"github.com/mas6y6/REDLINE/internal/ast"
)

// generateClassDecls forward-declares classes, then defines them with
// member declarations only. Member bodies come later, once every class and
// function of the unit is declared.
func (c *cppCodegen) generateClassDecls(classes []*ast.ClassDecl) {
	if len(classes) == 0 {
		return
	}
	for _, class := range classes {
		c.out.linef("class %s;", ident(class.Name.Name()))
	}
	c.out.gap()

	for _, class := range classes {
		c.generateClassDef(class)
		c.out.gap()
	}
}

func (c *cppCodegen) generateClassDef(class *ast.ClassDecl) {
	name := ident(class.Name.Name())
	c.out.linef("class %s : public std::enable_shared_from_this<%s> {", name, name)
	c.out.line("public:")
	c.out.indent++

	for _, field := range class.Fields {
		c.out.linef("%s %s;", c.typeName(field.Type), ident(field.Name.Name()))
	}
	c.out.gap()

	for _, params := range ctorParams(class) {
		c.out.linef("%s(%s);", name, c.paramList(params))
	}
	c.out.gap()

	for _, method := range class.Methods {
		c.out.linef("%s;", c.signature(method, ident(method.Name.Name())))
	}

	c.out.indent--
	c.out.line("};")
}

// ctorParams lists the parameter lists of every constructor a class has,
// implicit or declared.
func ctorParams(class *ast.ClassDecl) [][]*ast.Param {
	if !class.HasImplicitCtors() {
		params := make([][]*ast.Param, len(class.Ctors))
		for i, ctor := range class.Ctors {
			params[i] = ctor.Params
		}
		return params
	}

	params := [][]*ast.Param{nil}
	if len(class.Fields) > 0 {
		params = append(params, fieldParams(class))
	}
	return params
}

// fieldParams are the parameters of the field-wise implicit constructor.
func fieldParams(class *ast.ClassDecl) []*ast.Param {
	params := make([]*ast.Param, len(class.Fields))
	for i, field := range class.Fields {
		params[i] = &ast.Param{Name: field.Name, Type: field.Type}
	}
	return params
}

func (c *cppCodegen) signature(fn *ast.FnDecl, name string) string {
	return c.typeName(fn.RetType) + " " + name + "(" + c.paramList(fn.Params) + ")"
}

func (c *cppCodegen) generatePrototypes(fns []*ast.FnDecl) {
	if len(fns) == 0 {
		return
	}
	for _, fn := range fns {
		c.out.linef("%s;", c.signature(fn, ident(fn.Name.Name())))
	}
	c.out.gap()
}

// generateDefinitions emits constructor, method and function bodies in
// source order.
func (c *cppCodegen) generateDefinitions(classes []*ast.ClassDecl, fns []*ast.FnDecl) {
	for _, class := range classes {
		if class.HasImplicitCtors() {
			c.generateImplicitCtors(class)
		}
		for _, ctor := range class.Ctors {
			c.generateCtor(class, ctor)
		}
		for _, method := range class.Methods {
			c.generateFnDef(method, ident(class.Name.Name())+"::"+ident(method.Name.Name()))
		}
	}
	for _, fn := range fns {
		c.generateFnDef(fn, ident(fn.Name.Name()))
	}
}

func (c *cppCodegen) generateImplicitCtors(class *ast.ClassDecl) {
	name := ident(class.Name.Name())
	c.fn = nil

	c.out.linef("%s::%s()%s {}", name, name, c.fieldInits(class))
	c.out.gap()
	if len(class.Fields) == 0 {
		return
	}

	inits := make([]string, len(class.Fields))
	for i, field := range class.Fields {
		fieldName := ident(field.Name.Name())
		inits[i] = fieldName + "(" + fieldName + ")"
	}
	c.out.linef(
		"%s::%s(%s) : %s {}",
		name,
		name,
		c.paramList(fieldParams(class)),
		strings.Join(inits, ", "),
	)
	c.out.gap()
}

func (c *cppCodegen) generateCtor(class *ast.ClassDecl, ctor *ast.FnDecl) {
	name := ident(class.Name.Name())
	c.fn = ctor

	c.out.linef("%s::%s(%s)%s {", name, name, c.paramList(ctor.Params), c.fieldInits(class))
	c.out.indent++
	c.generateStmts(ctor.Block.Statements)
	c.out.indent--
	c.out.line("}")
	c.out.gap()
}

// fieldInits renders the member initializer list giving every field its
// default, or the zero value of its type.
func (c *cppCodegen) fieldInits(class *ast.ClassDecl) string {
	if len(class.Fields) == 0 {
		return ""
	}
	inits := make([]string, len(class.Fields))
	for i, field := range class.Fields {
		value := c.zeroValue(field.Type)
		if field.Default != nil {
			value = c.convert(field.Default, field.Type)
		}
		inits[i] = ident(field.Name.Name()) + "(" + value + ")"
	}
	return " : " + strings.Join(inits, ", ")
}

func (c *cppCodegen) generateFnDef(fn *ast.FnDecl, name string) {
	c.fn = fn
	c.out.linef("%s {", c.signature(fn, name))
	c.out.indent++
	c.generateStmts(fn.Block.Statements)
	c.out.indent--
	c.out.line("}")
	c.out.gap()
}
