package astbuilder

import (
	"github.com/arnavsurve/kompas/internal/compiler/ast"
	"github.com/arnavsurve/kompas/internal/compiler/parsetree"
	"github.com/arnavsurve/kompas/internal/compiler/token"
)

func (b *builder) buildCompound(n *parsetree.Node) *ast.Block {
	block := ast.New(&ast.Block{Token: n.Child(0).Token})
	list := n.Find(parsetree.StatementList)
	if list == nil {
		b.errorf(n, "compound statement has no statement list")
		return block
	}
	for _, c := range list.FindAll(parsetree.Statement) {
		if s := b.buildStatement(c); s != nil {
			block.Statements = append(block.Statements, s)
		}
	}
	return block
}

// buildStatement returns nil for the empty statement and for malformed
// statements.
func (b *builder) buildStatement(n *parsetree.Node) ast.Statement {
	if n == nil || len(n.Children) == 0 {
		return nil
	}
	c := n.Child(0)
	switch c.Kind {
	case parsetree.AssignmentStatement:
		if s := b.buildAssignment(c); s != nil {
			return s
		}
	case parsetree.IfStatement:
		if s := b.buildIf(c); s != nil {
			return s
		}
	case parsetree.WhileStatement:
		if s := b.buildWhile(c); s != nil {
			return s
		}
	case parsetree.ForStatement:
		if s := b.buildFor(c); s != nil {
			return s
		}
	case parsetree.ProcedureFunctionCall:
		if s := b.buildCall(c); s != nil {
			return s
		}
	case parsetree.CompoundStatement:
		return b.buildCompound(c)
	case parsetree.Missing:
		b.errorf(c, "skipping malformed statement")
	default:
		b.errorf(c, "unexpected %s in statement", c.Label())
	}
	return nil
}

func (b *builder) buildAssignment(n *parsetree.Node) *ast.Assign {
	nameTok, ok := b.identToken(n.Child(0), "assignment target")
	if !ok {
		return nil
	}
	exprs := n.FindAll(parsetree.Expression)

	var target ast.Expression
	if n.Child(1).IsTerminal(token.LBRACKET, "[") {
		if len(exprs) != 2 {
			b.errorf(n, "malformed indexed assignment")
			return nil
		}
		index := b.buildExpression(exprs[0])
		if index == nil {
			return nil
		}
		target = ast.New(&ast.ArrayAccess{Token: nameTok, Name: nameTok.Literal, Index: index})
		exprs = exprs[1:]
	} else {
		target = ast.New(&ast.Var{Token: nameTok, Name: nameTok.Literal})
	}

	if len(exprs) != 1 {
		b.errorf(n, "assignment has no value")
		return nil
	}
	value := b.buildExpression(exprs[0])
	if value == nil {
		return nil
	}

	assignTok := nameTok
	for _, c := range n.Children {
		if c.IsTerminal(token.ASSIGN_OPERATOR, "") {
			assignTok = c.Token
		}
	}
	return ast.New(&ast.Assign{Token: assignTok, Target: target, Value: value})
}

func (b *builder) buildIf(n *parsetree.Node) *ast.If {
	cond := b.buildExpression(n.Find(parsetree.Expression))
	if cond == nil {
		return nil
	}
	stmt := ast.New(&ast.If{Token: n.Child(0).Token, Condition: cond})

	inElse := false
	for _, c := range n.Children {
		switch {
		case c.IsKeyword("selain-itu"):
			inElse = true
		case c.Kind == parsetree.Statement && inElse:
			stmt.Else = b.buildStatement(c)
		case c.Kind == parsetree.Statement:
			stmt.Then = b.buildStatement(c)
		}
	}
	return stmt
}

func (b *builder) buildWhile(n *parsetree.Node) *ast.While {
	cond := b.buildExpression(n.Find(parsetree.Expression))
	if cond == nil {
		return nil
	}
	return ast.New(&ast.While{
		Token:     n.Child(0).Token,
		Condition: cond,
		Body:      b.buildStatement(n.Find(parsetree.Statement)),
	})
}

func (b *builder) buildFor(n *parsetree.Node) *ast.For {
	counterTok, ok := b.identToken(n.Child(1), "loop counter")
	exprs := n.FindAll(parsetree.Expression)
	if !ok || len(exprs) != 2 {
		if ok {
			b.errorf(n, "malformed for statement")
		}
		return nil
	}
	start, end := b.buildExpression(exprs[0]), b.buildExpression(exprs[1])
	if start == nil || end == nil {
		return nil
	}

	stmt := ast.New(&ast.For{
		Token:     n.Child(0).Token,
		Counter:   ast.New(&ast.Var{Token: counterTok, Name: counterTok.Literal}),
		Start:     start,
		End:       end,
		Ascending: true,
		Body:      b.buildStatement(n.Find(parsetree.Statement)),
	})
	for _, c := range n.Children {
		if c.IsKeyword("turun-ke") {
			stmt.Ascending = false
		}
	}
	return stmt
}

func (b *builder) buildCall(n *parsetree.Node) *ast.ProcedureCall {
	nameTok, ok := b.identToken(n.Child(0), "procedure name")
	if !ok {
		return nil
	}
	call := ast.New(&ast.ProcedureCall{Token: nameTok, Name: nameTok.Literal})
	if args := n.Find(parsetree.ParameterList); args != nil {
		for _, e := range args.FindAll(parsetree.Expression) {
			arg := b.buildExpression(e)
			if arg == nil {
				return nil
			}
			call.Args = append(call.Args, arg)
		}
	}
	return call
}
