package cpp

import (
	"fmt"
	"strings"

	"github.com/mas6y6/REDLINE/internal/ast"
	"github.com/mas6y6/REDLINE/internal/modules"
)

// CPP_RESERVED holds names a REDLINE identifier may spell but the generated
// C++ cannot use as is: keywords, and namespaces the output refers to.
var CPP_RESERVED = map[string]bool{
	"alignas": true, "alignof": true, "and_eq": true, "asm": true, "auto": true,
	"bitand": true, "bitor": true, "bool": true, "case": true, "char": true,
	"char8_t": true, "char16_t": true, "char32_t": true, "class": true, "compl": true,
	"concept": true, "const": true, "consteval": true, "constexpr": true, "constinit": true,
	"const_cast": true, "co_await": true, "co_return": true, "co_yield": true, "decltype": true,
	"default": true, "delete": true, "do": true, "double": true, "dynamic_cast": true,
	"enum": true, "explicit": true, "export": true, "extern": true, "false": true,
	"float": true, "friend": true, "goto": true, "inline": true, "int": true,
	"long": true, "mutable": true, "namespace": true, "noexcept": true, "not_eq": true,
	"nullptr": true, "operator": true, "or_eq": true, "private": true, "protected": true,
	"public": true, "register": true, "reinterpret_cast": true, "requires": true, "short": true,
	"signed": true, "sizeof": true, "static": true, "static_assert": true, "static_cast": true,
	"struct": true, "switch": true, "template": true, "this": true, "thread_local": true,
	"throw": true, "typedef": true, "typeid": true, "typename": true, "union": true,
	"unsigned": true, "using": true, "virtual": true, "void": true, "volatile": true,
	"wchar_t": true, "xor": true, "xor_eq": true, "and": true, "or": true,
	"not": true, "std": true, "rl": true, "redline": true,
	"main": true, "NULL": true, "assert": true,
}

// ident returns the C++ spelling of a REDLINE identifier. Reserved names and
// names in the rl_ space used by generated helpers get a trailing underscore.
func ident(name string) string {
	if CPP_RESERVED[name] || strings.HasPrefix(name, "rl_") {
		return name + "_"
	}
	return name
}

// namespaceOf returns the fully qualified namespace of a module.
func namespaceOf(module *ast.Module) string {
	return "::" + modules.Namespace(module.Mangled)
}

// className spells a class as seen from the module being generated.
func (c *cppCodegen) className(class *ast.ClassDecl) string {
	name := ident(class.Name.Name())
	if class.Module != c.module {
		return namespaceOf(class.Module) + "::" + name
	}
	return name
}

// typeName maps a resolved REDLINE type to its C++ type.
func (c *cppCodegen) typeName(t *ast.Type) string {
	switch t.Kind {
	case ast.TYPE_INT:
		return "long long"
	case ast.TYPE_FLOAT:
		return "double"
	case ast.TYPE_STRING:
		return "std::string"
	case ast.TYPE_BOOL:
		return "bool"
	case ast.TYPE_VOID:
		return "void"
	case ast.TYPE_LIST:
		return "std::vector<" + c.typeName(t.Elem) + ">"
	case ast.TYPE_DICT:
		return "std::map<" + c.typeName(t.Key) + ", " + c.typeName(t.Elem) + ">"
	case ast.TYPE_CLASS:
		return "std::shared_ptr<" + c.className(t.Class) + ">"
	}
	panic(internalError(fmt.Sprintf("cannot generate type %s", t)))
}

// paramDecl renders a parameter: scalars by value, everything else by
// const reference.
func (c *cppCodegen) paramDecl(param *ast.Param) string {
	name := ident(param.Name.Name())
	switch param.Type.Kind {
	case ast.TYPE_INT, ast.TYPE_FLOAT, ast.TYPE_BOOL:
		return c.typeName(param.Type) + " " + name
	}
	return "const " + c.typeName(param.Type) + "& " + name
}

func (c *cppCodegen) paramList(params []*ast.Param) string {
	parts := make([]string, len(params))
	for i, param := range params {
		parts[i] = c.paramDecl(param)
	}
	return strings.Join(parts, ", ")
}

// zeroValue is the initializer of a field declared without a default.
func (c *cppCodegen) zeroValue(t *ast.Type) string {
	switch t.Kind {
	case ast.TYPE_INT:
		return "0LL"
	case ast.TYPE_FLOAT:
		return "0.0"
	case ast.TYPE_STRING:
		return "std::string()"
	case ast.TYPE_BOOL:
		return "false"
	case ast.TYPE_CLASS:
		return "nullptr"
	}
	return c.typeName(t) + "{}"
}

// quote renders s as a C++ string literal. Every byte outside printable
// ASCII is written as an octal escape.
func quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch ch {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			if ch < 0x20 || ch >= 0x7f {
				fmt.Fprintf(&b, `\%03o`, ch)
				continue
			}
			b.WriteByte(ch)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// headerGuard derives the include guard of a module's declaration unit.
func headerGuard(module *ast.Module) string {
	return "REDLINE_" + strings.ToUpper(module.Mangled) + "_HPP"
}
