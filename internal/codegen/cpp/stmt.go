package cpp

import (
	"fmt"

	"github.com/mas6y6/REDLINE/internal/ast"
)

func (c *cppCodegen) generateStmts(stmts []*ast.Node) {
	for _, stmt := range stmts {
		c.generateStmt(stmt)
	}
}

func (c *cppCodegen) generateBlock(block *ast.BlockStmt) {
	c.out.indent++
	c.generateStmts(block.Statements)
	c.out.indent--
}

func (c *cppCodegen) generateStmt(stmt *ast.Node) {
	switch statement := stmt.Node.(type) {
	case *ast.VarStmt:
		c.generateVar(statement)
	case *ast.AssignStmt:
		c.generateAssign(stmt.Kind, statement)
	case *ast.CondStmt:
		c.generateCond(statement)
	case *ast.WhileLoop:
		c.out.linef("while (%s) {", c.expr(statement.Cond))
		c.generateBlock(statement.Block)
		c.out.line("}")
	case *ast.RangeFor:
		c.generateRangeFor(statement)
	case *ast.CollectionFor:
		c.generateCollectionFor(statement)
	case *ast.BranchStmt:
		if stmt.Kind == ast.KIND_BREAK_STMT {
			c.out.line("break;")
		} else {
			c.out.line("continue;")
		}
	case *ast.ReturnStmt:
		c.generateReturn(statement)
	case *ast.TryStmt:
		c.generateTry(statement)
	case *ast.ExprStmt:
		c.out.linef("%s;", c.expr(statement.Expr))
	default:
		panic(internalError(fmt.Sprintf("cannot generate statement %s", stmt.Kind)))
	}
}

func (c *cppCodegen) generateVar(variable *ast.VarStmt) {
	decl := c.typeName(variable.Type) + " " + ident(variable.Name.Name())
	if !variable.Mutable {
		decl = "const " + decl
	}
	c.out.linef("%s = %s;", decl, c.convert(variable.Value, variable.Type))
}

func (c *cppCodegen) generateAssign(kind ast.NodeKind, assign *ast.AssignStmt) {
	value := c.convert(assign.Value, assign.Target.Type)

	if kind == ast.KIND_INDEX_ASSIGN_STMT {
		index := assign.Target.Node.(*ast.IndexExpr)
		container := index.Value.Type
		if container.Kind == ast.TYPE_DICT {
			// operator[] inserts missing keys; reads go through rl::at.
			c.out.linef(
				"%s[%s] = %s;",
				c.expr(index.Value),
				c.convert(index.Index, container.Key),
				value,
			)
			return
		}
	}
	c.out.linef("%s = %s;", c.expr(assign.Target), value)
}

func (c *cppCodegen) generateCond(cond *ast.CondStmt) {
	c.out.linef("if (%s) {", c.expr(cond.IfStmt.Expr))
	c.generateBlock(cond.IfStmt.Block)
	for _, elif := range cond.ElifStmts {
		c.out.linef("} else if (%s) {", c.expr(elif.Expr))
		c.generateBlock(elif.Block)
	}
	if cond.ElseStmt != nil {
		c.out.line("} else {")
		c.generateBlock(cond.ElseStmt.Block)
	}
	c.out.line("}")
}

// generateRangeFor evaluates both bounds once, before the loop variable is
// in scope.
func (c *cppCodegen) generateRangeFor(loop *ast.RangeFor) {
	c.out.linef(
		"for (long long rl_i = %s, rl_end = %s; rl_i < rl_end; ++rl_i) {",
		c.expr(loop.Start),
		c.expr(loop.End),
	)
	c.out.indent++
	c.out.linef("const long long %s = rl_i;", ident(loop.Var.Name()))
	c.generateStmts(loop.Block.Statements)
	c.out.indent--
	c.out.line("}")
}

// generateCollectionFor iterates a snapshot: the elements of a list, or the
// keys of a dict, present when the loop starts.
func (c *cppCodegen) generateCollectionFor(loop *ast.CollectionFor) {
	snapshot := "rl::items"
	if loop.Iterable.Type.Kind == ast.TYPE_DICT {
		snapshot = "rl::keys"
	}
	c.out.linef("for (const auto& %s : %s(%s)) {", ident(loop.Var.Name()), snapshot, c.expr(loop.Iterable))
	c.generateBlock(loop.Block)
	c.out.line("}")
}

func (c *cppCodegen) generateReturn(ret *ast.ReturnStmt) {
	if ret.Value == nil {
		c.out.line("return;")
		return
	}
	c.out.linef("return %s;", c.convert(ret.Value, c.fn.RetType))
}

func (c *cppCodegen) generateTry(try *ast.TryStmt) {
	c.out.line("try {")
	c.generateBlock(try.Block)

	if try.CatchName == nil {
		c.out.line("} catch (const std::exception&) {")
		c.generateBlock(try.CatchBlock)
		c.out.line("}")
		return
	}

	c.out.line("} catch (const std::exception& rl_err) {")
	c.out.indent++
	c.out.linef("const std::string %s = rl_err.what();", ident(try.CatchName.Name()))
	c.generateStmts(try.CatchBlock.Statements)
	c.out.indent--
	c.out.line("}")
}
