package ast

import (
	"fmt"

	"github.com/mas6y6/REDLINE/internal/lexer/token"
)

type BlockStmt struct {
	Statements []*Node
}

func (block *BlockStmt) String() string {
	return fmt.Sprintf("%v", block.Statements)
}

// EndsWithReturn reports whether every path through the block ends in a
// return statement.
func (block *BlockStmt) EndsWithReturn() bool {
	if block == nil || len(block.Statements) == 0 {
		return false
	}
	last := block.Statements[len(block.Statements)-1]
	switch last.Kind {
	case KIND_RETURN_STMT:
		return true
	case KIND_COND_STMT:
		cond := last.Node.(*CondStmt)
		if cond.ElseStmt == nil || !cond.IfStmt.Block.EndsWithReturn() {
			return false
		}
		for _, elif := range cond.ElifStmts {
			if !elif.Block.EndsWithReturn() {
				return false
			}
		}
		return cond.ElseStmt.Block.EndsWithReturn()
	case KIND_TRY_STMT:
		try := last.Node.(*TryStmt)
		return try.Block.EndsWithReturn() && try.CatchBlock.EndsWithReturn()
	case KIND_WHILE_LOOP_STMT:
		loop := last.Node.(*WhileLoop)
		return isTrueLiteral(loop.Cond) && !loop.Block.breaks()
	}
	return false
}

// breaks reports whether a break in the block leaves the enclosing loop.
// Breaks inside nested loops belong to those loops.
func (block *BlockStmt) breaks() bool {
	if block == nil {
		return false
	}
	for _, stmt := range block.Statements {
		switch stmt.Kind {
		case KIND_BREAK_STMT:
			return true
		case KIND_COND_STMT:
			cond := stmt.Node.(*CondStmt)
			if cond.IfStmt.Block.breaks() {
				return true
			}
			for _, elif := range cond.ElifStmts {
				if elif.Block.breaks() {
					return true
				}
			}
			if cond.ElseStmt != nil && cond.ElseStmt.Block.breaks() {
				return true
			}
		case KIND_TRY_STMT:
			try := stmt.Node.(*TryStmt)
			if try.Block.breaks() || try.CatchBlock.breaks() {
				return true
			}
		}
	}
	return false
}

func isTrueLiteral(expr *Node) bool {
	if expr == nil || expr.Kind != KIND_LITERAL_EXPR {
		return false
	}
	return expr.Node.(*LiteralExpr).Token.Kind == token.TRUE_BOOL_LITERAL
}

type VarStmt struct {
	Mutable bool
	Name    *token.Token
	Type    *Type // nil when inferred from Value
	Value   *Node

	// Set by sema.
	Sym *Symbol
}

func (variable *VarStmt) String() string {
	keyword := "val"
	if variable.Mutable {
		keyword = "var"
	}
	return fmt.Sprintf("%s %s: %v = %v", keyword, variable.Name.Name(), variable.Type, variable.Value)
}

// AssignStmt covers plain, indexed and member assignment; the node kind
// tells which one Target is.
type AssignStmt struct {
	Target *Node
	Equal  token.Pos
	Value  *Node
}

func (assign *AssignStmt) String() string {
	return fmt.Sprintf("%v = %v", assign.Target, assign.Value)
}

type CondStmt struct {
	IfStmt    *IfElifCond
	ElifStmts []*IfElifCond
	ElseStmt  *ElseCond
}

func (condStmt *CondStmt) String() string {
	return fmt.Sprintf("if %v", condStmt.IfStmt.Expr)
}

type IfElifCond struct {
	If    token.Pos
	Expr  *Node
	Block *BlockStmt
}

type ElseCond struct {
	Else  token.Pos
	Block *BlockStmt
}

type WhileLoop struct {
	While token.Pos
	Cond  *Node
	Block *BlockStmt
}

func (while *WhileLoop) String() string {
	return fmt.Sprintf("while %v", while.Cond)
}

// RangeFor iterates Start up to, but not including, End.
type RangeFor struct {
	For   token.Pos
	Var   *token.Token
	Start *Node
	End   *Node
	Block *BlockStmt

	// Set by sema.
	Sym *Symbol
}

func (loop *RangeFor) String() string {
	return fmt.Sprintf("for %s in %v..%v", loop.Var.Name(), loop.Start, loop.End)
}

type CollectionFor struct {
	For      token.Pos
	Var      *token.Token
	Iterable *Node
	Block    *BlockStmt

	// Set by sema.
	Sym *Symbol
}

func (loop *CollectionFor) String() string {
	return fmt.Sprintf("for %s in %v", loop.Var.Name(), loop.Iterable)
}

// BranchStmt is break or continue, depending on the node kind.
type BranchStmt struct {
	Pos token.Pos
}

type ReturnStmt struct {
	Return token.Pos
	Value  *Node // nil for a bare return
}

func (ret *ReturnStmt) String() string {
	return fmt.Sprintf("return %v", ret.Value)
}

type TryStmt struct {
	Try        token.Pos
	Block      *BlockStmt
	Catch      token.Pos
	CatchName  *token.Token // optional
	CatchBlock *BlockStmt

	// Set by sema.
	CatchSym *Symbol
}

func (try *TryStmt) String() string {
	return "try"
}

type ExprStmt struct {
	Expr *Node
}

func (stmt *ExprStmt) String() string {
	return stmt.Expr.String()
}
