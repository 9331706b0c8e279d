// Package ast defines the abstract syntax tree for REDLINE sources.
package ast

import (
	"fmt"

	"github.com/mas6y6/REDLINE/internal/lexer/token"
)

type NodeKind int

const (
	DECL_START NodeKind = iota // declaration node start delimiter

	KIND_FN_DECL
	KIND_CLASS_DECL
	KIND_IMPORT_DECL

	DECL_END // declaration node end delimiter

	STMT_START // statement node start delimiter
	KIND_VAR_STMT
	KIND_ASSIGN_STMT
	KIND_INDEX_ASSIGN_STMT
	KIND_MEMBER_ASSIGN_STMT
	KIND_COND_STMT
	KIND_WHILE_LOOP_STMT
	KIND_RANGE_FOR_STMT
	KIND_COLLECTION_FOR_STMT
	KIND_BREAK_STMT
	KIND_CONTINUE_STMT
	KIND_RETURN_STMT
	KIND_TRY_STMT
	KIND_EXPR_STMT
	STMT_END // statement node end delimiter

	EXPR_START // expression node start delimiter
	KIND_LITERAL_EXPR
	KIND_ID_EXPR
	KIND_BINARY_EXPR
	KIND_UNARY_EXPR
	KIND_CALL_EXPR
	KIND_INDEX_EXPR
	KIND_MEMBER_EXPR
	KIND_LIST_EXPR
	KIND_DICT_EXPR
	KIND_FSTRING_EXPR
	KIND_NEW_EXPR
	KIND_THIS_EXPR
	EXPR_END // expression node end delimiter
)

var nodeKindNames = map[NodeKind]string{
	KIND_FN_DECL:             "KIND_FN_DECL",
	KIND_CLASS_DECL:          "KIND_CLASS_DECL",
	KIND_IMPORT_DECL:         "KIND_IMPORT_DECL",
	KIND_VAR_STMT:            "KIND_VAR_STMT",
	KIND_ASSIGN_STMT:         "KIND_ASSIGN_STMT",
	KIND_INDEX_ASSIGN_STMT:   "KIND_INDEX_ASSIGN_STMT",
	KIND_MEMBER_ASSIGN_STMT:  "KIND_MEMBER_ASSIGN_STMT",
	KIND_COND_STMT:           "KIND_COND_STMT",
	KIND_WHILE_LOOP_STMT:     "KIND_WHILE_LOOP_STMT",
	KIND_RANGE_FOR_STMT:      "KIND_RANGE_FOR_STMT",
	KIND_COLLECTION_FOR_STMT: "KIND_COLLECTION_FOR_STMT",
	KIND_BREAK_STMT:          "KIND_BREAK_STMT",
	KIND_CONTINUE_STMT:       "KIND_CONTINUE_STMT",
	KIND_RETURN_STMT:         "KIND_RETURN_STMT",
	KIND_TRY_STMT:            "KIND_TRY_STMT",
	KIND_EXPR_STMT:           "KIND_EXPR_STMT",
	KIND_LITERAL_EXPR:        "KIND_LITERAL_EXPR",
	KIND_ID_EXPR:             "KIND_ID_EXPR",
	KIND_BINARY_EXPR:         "KIND_BINARY_EXPR",
	KIND_UNARY_EXPR:          "KIND_UNARY_EXPR",
	KIND_CALL_EXPR:           "KIND_CALL_EXPR",
	KIND_INDEX_EXPR:          "KIND_INDEX_EXPR",
	KIND_MEMBER_EXPR:         "KIND_MEMBER_EXPR",
	KIND_LIST_EXPR:           "KIND_LIST_EXPR",
	KIND_DICT_EXPR:           "KIND_DICT_EXPR",
	KIND_FSTRING_EXPR:        "KIND_FSTRING_EXPR",
	KIND_NEW_EXPR:            "KIND_NEW_EXPR",
	KIND_THIS_EXPR:           "KIND_THIS_EXPR",
}

func (k NodeKind) String() string {
	if name, ok := nodeKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Unknown Node Kind: %d", int(k))
}

// Node is the tagged union every stage switches on. Node.Node holds the
// concrete variant named by Kind. Type is filled in by the semantic pass for
// expression nodes and is nil everywhere else.
type Node struct {
	Kind NodeKind
	Node any
	Type *Type
}

func (n *Node) IsStmt() bool {
	return n.Kind > STMT_START && n.Kind < STMT_END
}

func (n *Node) IsExpr() bool {
	return n.Kind > EXPR_START && n.Kind < EXPR_END
}

func (n *Node) IsDecl() bool {
	return n.Kind > DECL_START && n.Kind < DECL_END
}

func (n *Node) IsId() bool {
	return n.Kind == KIND_ID_EXPR
}

func (n *Node) IsReturn() bool {
	return n.Kind == KIND_RETURN_STMT
}

// Pos returns the position diagnostics about the node point at.
func (n *Node) Pos() token.Pos {
	switch node := n.Node.(type) {
	case *FnDecl:
		return node.Name.Pos
	case *ClassDecl:
		return node.Name.Pos
	case *ImportDecl:
		return node.Import
	case *VarStmt:
		return node.Name.Pos
	case *AssignStmt:
		return node.Target.Pos()
	case *CondStmt:
		return node.IfStmt.If
	case *WhileLoop:
		return node.While
	case *RangeFor:
		return node.For
	case *CollectionFor:
		return node.For
	case *BranchStmt:
		return node.Pos
	case *ReturnStmt:
		return node.Return
	case *TryStmt:
		return node.Try
	case *ExprStmt:
		return node.Expr.Pos()
	case *LiteralExpr:
		return node.Token.Pos
	case *IdExpr:
		return node.Name.Pos
	case *BinaryExpr:
		return node.OpPos
	case *UnaryExpr:
		return node.OpPos
	case *CallExpr:
		return node.Callee.Pos()
	case *IndexExpr:
		return node.Open
	case *MemberExpr:
		return node.Name.Pos
	case *ListExpr:
		return node.Open
	case *DictExpr:
		return node.Open
	case *FStringExpr:
		return node.Token.Pos
	case *NewExpr:
		return node.New
	case *ThisExpr:
		return node.Pos
	}
	return token.Pos{}
}

func (n *Node) String() string {
	if s, ok := n.Node.(fmt.Stringer); ok {
		return s.String()
	}
	return n.Kind.String()
}

// Useful for testing
func NewNode(kind NodeKind, node any) *Node {
	return &Node{Kind: kind, Node: node}
}
