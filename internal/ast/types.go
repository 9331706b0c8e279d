package ast

import (
	"fmt"
	"strings"

	"github.com/mas6y6/REDLINE/internal/lexer/token"
)

type TypeKind int

const (
	TYPE_INVALID TypeKind = iota
	TYPE_INT
	TYPE_FLOAT
	TYPE_STRING
	TYPE_BOOL
	TYPE_VOID
	TYPE_LIST
	TYPE_DICT
	TYPE_CLASS

	// Placeholder used only by builtin signatures (T, K, V).
	TYPE_PARAM
)

var (
	INVALID_TYPE = &Type{Kind: TYPE_INVALID}
	INT_TYPE     = &Type{Kind: TYPE_INT}
	FLOAT_TYPE   = &Type{Kind: TYPE_FLOAT}
	STRING_TYPE  = &Type{Kind: TYPE_STRING}
	BOOL_TYPE    = &Type{Kind: TYPE_BOOL}
	VOID_TYPE    = &Type{Kind: TYPE_VOID}
)

// Type is the closed set of REDLINE types. Composite types own their
// parameters; class types written in source carry the (optional) module
// qualifier and the name until the semantic pass binds Class.
type Type struct {
	Kind TypeKind

	Elem *Type // list element, dict value
	Key  *Type // dict key

	Qualifier *token.Token
	Name      *token.Token
	Class     *ClassDecl

	Param string
}

func NewBasicType(kind token.Kind) *Type {
	switch kind {
	case token.INT_TYPE, token.INTEGER_LITERAL:
		return INT_TYPE
	case token.FLOAT_TYPE, token.FLOAT_LITERAL:
		return FLOAT_TYPE
	case token.STRING_TYPE, token.STRING_LITERAL, token.FSTRING_LITERAL:
		return STRING_TYPE
	case token.BOOL_TYPE, token.TRUE_BOOL_LITERAL, token.FALSE_BOOL_LITERAL:
		return BOOL_TYPE
	case token.VOID_TYPE:
		return VOID_TYPE
	}
	return INVALID_TYPE
}

func NewListType(elem *Type) *Type {
	return &Type{Kind: TYPE_LIST, Elem: elem}
}

func NewDictType(key, value *Type) *Type {
	return &Type{Kind: TYPE_DICT, Key: key, Elem: value}
}

func NewClassType(qualifier, name *token.Token) *Type {
	return &Type{Kind: TYPE_CLASS, Qualifier: qualifier, Name: name}
}

// NewInstanceType returns the type of values of an already resolved class.
func NewInstanceType(class *ClassDecl) *Type {
	return &Type{Kind: TYPE_CLASS, Name: class.Name, Class: class}
}

func NewTypeParam(name string) *Type {
	return &Type{Kind: TYPE_PARAM, Param: name}
}

func (t *Type) IsInvalid() bool { return t == nil || t.Kind == TYPE_INVALID }
func (t *Type) IsNumeric() bool { return t.Kind == TYPE_INT || t.Kind == TYPE_FLOAT }
func (t *Type) IsVoid() bool    { return t.Kind == TYPE_VOID }

// IsEmptyLiteral reports whether t is the type of a bare [] or {} whose
// element types are still unknown.
func (t *Type) IsEmptyLiteral() bool {
	switch t.Kind {
	case TYPE_LIST:
		return t.Elem == nil
	case TYPE_DICT:
		return t.Key == nil || t.Elem == nil
	}
	return false
}

// IsOrderable reports whether values of t can be compared with < and sorted.
func (t *Type) IsOrderable() bool {
	switch t.Kind {
	case TYPE_INT, TYPE_FLOAT, TYPE_STRING, TYPE_BOOL:
		return true
	}
	return false
}

func (t *Type) ClassName() string {
	if t.Name == nil {
		return ""
	}
	return t.Name.Name()
}

// Equals is structural for composites and nominal for classes.
func (t *Type) Equals(other *Type) bool {
	if t == nil || other == nil {
		return t == other
	}
	if t.Kind != other.Kind {
		return false
	}

	switch t.Kind {
	case TYPE_LIST:
		return t.Elem.Equals(other.Elem)
	case TYPE_DICT:
		return t.Key.Equals(other.Key) && t.Elem.Equals(other.Elem)
	case TYPE_CLASS:
		if t.Class != nil && other.Class != nil {
			return t.Class == other.Class
		}
		return t.String() == other.String()
	case TYPE_PARAM:
		return t.Param == other.Param
	default:
		return true
	}
}

func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case TYPE_INT:
		return "int"
	case TYPE_FLOAT:
		return "float"
	case TYPE_STRING:
		return "string"
	case TYPE_BOOL:
		return "bool"
	case TYPE_VOID:
		return "void"
	case TYPE_LIST:
		if t.Elem == nil {
			return "list[?]"
		}
		return fmt.Sprintf("list[%s]", t.Elem)
	case TYPE_DICT:
		if t.Key == nil || t.Elem == nil {
			return "dict[?, ?]"
		}
		return fmt.Sprintf("dict[%s, %s]", t.Key, t.Elem)
	case TYPE_CLASS:
		var b strings.Builder
		if t.Qualifier != nil {
			b.WriteString(t.Qualifier.Name())
			b.WriteByte('.')
		}
		b.WriteString(t.ClassName())
		return b.String()
	case TYPE_PARAM:
		return t.Param
	}
	return "<invalid>"
}
