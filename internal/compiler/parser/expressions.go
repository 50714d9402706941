package parser

import (
	"github.com/arnavsurve/kompas/internal/compiler/parsetree"
	"github.com/arnavsurve/kompas/internal/compiler/token"
)

func (p *Parser) parseExpression() *parsetree.Node {
	n := parsetree.NewRule(parsetree.Expression)
	n.Add(p.parseSimpleExpression())
	if p.check(token.RELATIONAL_OPERATOR, "") {
		n.Add(parsetree.NewRule(parsetree.RelationalOperator).Add(p.take()))
		n.Add(p.parseSimpleExpression())
	}
	return n
}

func (p *Parser) isAdditiveOperator() bool {
	return p.check(token.ARITHMETIC_OPERATOR, "+") ||
		p.check(token.ARITHMETIC_OPERATOR, "-") ||
		p.check(token.LOGICAL_OPERATOR, "atau")
}

func (p *Parser) isMultiplicativeOperator() bool {
	return p.check(token.ARITHMETIC_OPERATOR, "*") ||
		p.check(token.ARITHMETIC_OPERATOR, "/") ||
		p.check(token.ARITHMETIC_OPERATOR, "bagi") ||
		p.check(token.ARITHMETIC_OPERATOR, "mod") ||
		p.check(token.LOGICAL_OPERATOR, "dan")
}

// parseSimpleExpression parses an optionally signed chain of terms. A
// leading sign is the first child, wrapped as an <additive-operator>.
func (p *Parser) parseSimpleExpression() *parsetree.Node {
	n := parsetree.NewRule(parsetree.SimpleExpression)
	if p.check(token.ARITHMETIC_OPERATOR, "+") || p.check(token.ARITHMETIC_OPERATOR, "-") {
		n.Add(parsetree.NewRule(parsetree.AdditiveOperator).Add(p.take()))
	}
	n.Add(p.parseTerm())
	for p.isAdditiveOperator() {
		n.Add(parsetree.NewRule(parsetree.AdditiveOperator).Add(p.take()))
		n.Add(p.parseTerm())
	}
	return n
}

func (p *Parser) parseTerm() *parsetree.Node {
	n := parsetree.NewRule(parsetree.Term)
	n.Add(p.parseFactor())
	for p.isMultiplicativeOperator() {
		n.Add(parsetree.NewRule(parsetree.MultiplicativeOperator).Add(p.take()))
		n.Add(p.parseFactor())
	}
	return n
}

func (p *Parser) parseFactor() *parsetree.Node {
	n := parsetree.NewRule(parsetree.Factor)
	switch {
	case p.check(token.IDENTIFIER, ""):
		next := p.peek(1)
		switch next.Type {
		case token.LPARENTHESIS:
			return n.Add(p.parseProcedureCall())
		case token.LBRACKET:
			n.Add(p.take())
			n.Add(p.take())
			n.Add(p.parseExpression())
			n.Add(p.match(token.RBRACKET, "]", "']'"))
			return n
		}
		return n.Add(p.take())
	case p.check(token.NUMBER, ""), p.check(token.STRING_LITERAL, ""),
		p.check(token.CHAR_LITERAL, ""), p.checkKeyword("benar", "salah"):
		return n.Add(p.take())
	case p.check(token.LPARENTHESIS, "("):
		n.Add(p.take())
		n.Add(p.parseExpression())
		n.Add(p.match(token.RPARENTHESIS, ")", "')'"))
		return n
	case p.check(token.LOGICAL_OPERATOR, "tidak"):
		n.Add(p.take())
		n.Add(p.parseFactor())
		return n
	}

	p.guard("expression")
	p.addError(p.curTok, "expected expression, got %s", describe(p.curTok))
	return n.Add(parsetree.NewMissing("factor", p.curTok))
}
