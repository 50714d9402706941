package astbuilder

import (
	"github.com/arnavsurve/kompas/internal/compiler/ast"
	"github.com/arnavsurve/kompas/internal/compiler/parsetree"
	"github.com/arnavsurve/kompas/internal/compiler/token"
)

func (b *builder) buildExpression(n *parsetree.Node) ast.Expression {
	if n == nil || n.Kind != parsetree.Expression {
		b.errorf(n, "expected expression")
		return nil
	}
	left := b.buildSimpleExpression(n.Child(0))
	if len(n.Children) == 1 || left == nil {
		return left
	}
	if len(n.Children) != 3 {
		b.errorf(n, "malformed relational expression")
		return nil
	}
	right := b.buildSimpleExpression(n.Child(2))
	if right == nil {
		return nil
	}
	op := n.Child(1).Child(0).Token
	return ast.New(&ast.BinOp{Token: op, Op: op.Literal, Left: left, Right: right})
}

// buildSimpleExpression folds term (op term)* left to right. A leading
// sign applies to the first term.
func (b *builder) buildSimpleExpression(n *parsetree.Node) ast.Expression {
	if n == nil || n.Kind != parsetree.SimpleExpression || len(n.Children) == 0 {
		b.errorf(n, "expected simple expression")
		return nil
	}
	children := n.Children
	var sign *token.Token
	if children[0].Kind == parsetree.AdditiveOperator {
		tok := children[0].Child(0).Token
		sign, children = &tok, children[1:]
	}

	left := b.fold(children, b.buildTerm)
	if left == nil || sign == nil {
		return left
	}
	return ast.New(&ast.UnaryOp{Token: *sign, Op: sign.Literal, Operand: left})
}

func (b *builder) buildTerm(n *parsetree.Node) ast.Expression {
	if n == nil || n.Kind != parsetree.Term || len(n.Children) == 0 {
		b.errorf(n, "expected term")
		return nil
	}
	return b.fold(n.Children, b.buildFactor)
}

// fold builds a left-associative chain from operand (operator operand)*.
func (b *builder) fold(children []*parsetree.Node, operand func(*parsetree.Node) ast.Expression) ast.Expression {
	if len(children)%2 == 0 {
		var at *parsetree.Node
		if len(children) > 0 {
			at = children[0]
		}
		b.errorf(at, "operator without operand")
		return nil
	}
	left := operand(children[0])
	if left == nil {
		return nil
	}
	for i := 1; i+1 < len(children); i += 2 {
		right := operand(children[i+1])
		if right == nil {
			return nil
		}
		op := children[i].Child(0).Token
		left = ast.New(&ast.BinOp{Token: op, Op: op.Literal, Left: left, Right: right})
	}
	return left
}

func (b *builder) buildFactor(n *parsetree.Node) ast.Expression {
	if n == nil || n.Kind != parsetree.Factor || len(n.Children) == 0 {
		b.errorf(n, "expected factor")
		return nil
	}
	first := n.Child(0)

	switch {
	case first.Kind == parsetree.ProcedureFunctionCall:
		if call := b.buildCall(first); call != nil {
			return call
		}
		return nil
	case first.Kind == parsetree.Missing:
		b.errorf(first, "missing operand")
		return nil
	case first.IsTerminal(token.IDENTIFIER, ""):
		if len(n.Children) == 1 {
			return ast.New(&ast.Var{Token: first.Token, Name: first.Token.Literal})
		}
		index := b.buildExpression(n.Find(parsetree.Expression))
		if index == nil {
			return nil
		}
		return ast.New(&ast.ArrayAccess{Token: first.Token, Name: first.Token.Literal, Index: index})
	case first.IsTerminal(token.LPARENTHESIS, "("):
		return b.buildExpression(n.Find(parsetree.Expression))
	case first.IsTerminal(token.LOGICAL_OPERATOR, "tidak"):
		operand := b.buildFactor(n.Child(1))
		if operand == nil {
			return nil
		}
		return ast.New(&ast.UnaryOp{Token: first.Token, Op: "tidak", Operand: operand})
	}

	if lit, ok := b.literal(first); ok {
		return lit
	}
	b.errorf(first, "unexpected %s in factor", first.Label())
	return nil
}
