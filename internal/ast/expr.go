package ast

import (
	"fmt"
	"strings"

	"github.com/mas6y6/REDLINE/internal/lexer/token"
)

var LOGICAL_OR map[token.Kind]bool = map[token.Kind]bool{
	token.OR: true,
}

var LOGICAL_AND map[token.Kind]bool = map[token.Kind]bool{
	token.AND: true,
}

var EQUALITY map[token.Kind]bool = map[token.Kind]bool{
	token.EQUAL_EQUAL: true,
	token.BANG_EQUAL:  true,
}

var COMPARASION map[token.Kind]bool = map[token.Kind]bool{
	token.GREATER:    true,
	token.GREATER_EQ: true,
	token.LESS:       true,
	token.LESS_EQ:    true,
}

var TERM map[token.Kind]bool = map[token.Kind]bool{
	token.MINUS: true,
	token.PLUS:  true,
}

var FACTOR map[token.Kind]bool = map[token.Kind]bool{
	token.SLASH:   true,
	token.STAR:    true,
	token.PERCENT: true,
}

var UNARY map[token.Kind]bool = map[token.Kind]bool{
	token.NOT:   true,
	token.BANG:  true,
	token.MINUS: true,
}

type LiteralExpr struct {
	Token *token.Token
	Value []byte
}

func (literal *LiteralExpr) String() string {
	if literal.Token.Kind == token.STRING_LITERAL {
		return fmt.Sprintf("%q", literal.Value)
	}
	return literal.Token.Name()
}

type IdExpr struct {
	Name *token.Token

	// Set by sema.
	Sym *Symbol
}

func (idExpr *IdExpr) String() string {
	return idExpr.Name.Name()
}

type BinaryExpr struct {
	Left  *Node
	Op    token.Kind
	OpPos token.Pos
	Right *Node
}

func (binExpr *BinaryExpr) String() string {
	return fmt.Sprintf("(%v %v %v)", binExpr.Left, binExpr.Op, binExpr.Right)
}

type UnaryExpr struct {
	Op    token.Kind
	OpPos token.Pos
	Value *Node
}

func (unary *UnaryExpr) String() string {
	return fmt.Sprintf("(%v %v)", unary.Op, unary.Value)
}

// CallKind says what a call expression was resolved to.
type CallKind int

const (
	CALL_UNRESOLVED CallKind = iota
	CALL_FUNCTION
	CALL_METHOD
	CALL_BUILTIN
)

type CallExpr struct {
	Callee *Node
	Args   []*Node

	// Set by sema. Params are the parameter types of the chosen overload
	// with type parameters substituted; arguments convert to them.
	CallKind CallKind
	Fn       *FnDecl
	Builtin  *Builtin
	Params   []*Type
}

func (call *CallExpr) String() string {
	args := make([]string, len(call.Args))
	for i, arg := range call.Args {
		args[i] = arg.String()
	}
	return fmt.Sprintf("%v(%s)", call.Callee, strings.Join(args, ", "))
}

type IndexExpr struct {
	Value *Node
	Open  token.Pos
	Index *Node
}

func (index *IndexExpr) String() string {
	return fmt.Sprintf("%v[%v]", index.Value, index.Index)
}

type MemberExpr struct {
	Object *Node
	Name   *token.Token

	// Set by sema. Exactly one of these is non-nil for a resolved member,
	// except for methods, which are resolved by the enclosing call.
	Field  *Field
	Module *Module
	Sym    *Symbol
}

func (member *MemberExpr) String() string {
	return fmt.Sprintf("%v.%s", member.Object, member.Name.Name())
}

type ListExpr struct {
	Open  token.Pos
	Elems []*Node
}

func (list *ListExpr) String() string {
	elems := make([]string, len(list.Elems))
	for i, elem := range list.Elems {
		elems[i] = elem.String()
	}
	return "[" + strings.Join(elems, ", ") + "]"
}

type DictEntry struct {
	Key   *Node
	Value *Node
}

type DictExpr struct {
	Open    token.Pos
	Entries []*DictEntry
}

func (dict *DictExpr) String() string {
	entries := make([]string, len(dict.Entries))
	for i, entry := range dict.Entries {
		entries[i] = fmt.Sprintf("%v: %v", entry.Key, entry.Value)
	}
	return "{" + strings.Join(entries, ", ") + "}"
}

// FStringSegment is literal text when Expr is nil.
type FStringSegment struct {
	Text string
	Expr *Node
}

type FStringExpr struct {
	Token    *token.Token
	Segments []*FStringSegment
}

func (f *FStringExpr) String() string {
	var b strings.Builder
	b.WriteString(`f"`)
	for _, seg := range f.Segments {
		if seg.Expr == nil {
			b.WriteString(seg.Text)
		} else {
			fmt.Fprintf(&b, "{%v}", seg.Expr)
		}
	}
	b.WriteByte('"')
	return b.String()
}

type NewExpr struct {
	New       token.Pos
	Qualifier *token.Token
	Name      *token.Token
	Args      []*Node

	// Set by sema. Ctor is nil when an implicit constructor was chosen.
	Class  *ClassDecl
	Ctor   *FnDecl
	Params []*Type
}

func (n *NewExpr) String() string {
	name := n.Name.Name()
	if n.Qualifier != nil {
		name = n.Qualifier.Name() + "." + name
	}
	return fmt.Sprintf("new %s(%d args)", name, len(n.Args))
}

type ThisExpr struct {
	Pos token.Pos
}

func (t *ThisExpr) String() string { return "this" }
