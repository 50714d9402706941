package parser

import (
	"github.com/arnavsurve/kompas/internal/compiler/parsetree"
	"github.com/arnavsurve/kompas/internal/compiler/token"
)

var (
	semicolonTok = token.Token{Type: token.SEMICOLON, Literal: ";"}
	selesaiTok   = token.Token{Type: token.KEYWORD, Literal: "selesai"}
)

func (p *Parser) parseCompoundStatement() *parsetree.Node {
	n := parsetree.NewRule(parsetree.CompoundStatement)
	n.Add(p.matchKeyword("mulai"))
	n.Add(p.parseStatementList())
	n.Add(p.matchKeyword("selesai"))
	return n
}

// parseStatementList parses statements separated by ';'. A token that can
// neither continue nor end the list is reported once and skipped up to the
// next ';' or 'selesai'.
func (p *Parser) parseStatementList() *parsetree.Node {
	n := parsetree.NewRule(parsetree.StatementList)
	n.Add(p.parseStatement())
	for {
		if p.check(token.SEMICOLON, ";") {
			n.Add(p.take())
			n.Add(p.parseStatement())
			continue
		}
		if p.checkKeyword("selesai") || isStreamEnd(p.curTok) {
			return n
		}
		p.addError(p.curTok, "expected ';' or 'selesai', got %s", describe(p.curTok))
		p.skipUntil(semicolonTok, selesaiTok)
	}
}

// parseStatement always returns a <statement> node. The empty statement is
// a <statement> without children.
func (p *Parser) parseStatement() *parsetree.Node {
	n := parsetree.NewRule(parsetree.Statement)
	switch {
	case p.check(token.IDENTIFIER, ""):
		after := p.peekPastBalanced(p.pos+1, token.LBRACKET, token.RBRACKET)
		if p.toks[after].Type == token.ASSIGN_OPERATOR {
			return n.Add(p.parseAssignmentStatement())
		}
		return n.Add(p.parseProcedureCall())
	case p.checkKeyword("jika"):
		return n.Add(p.parseIfStatement())
	case p.checkKeyword("selama"):
		return n.Add(p.parseWhileStatement())
	case p.checkKeyword("untuk"):
		return n.Add(p.parseForStatement())
	case p.checkKeyword("mulai"):
		return n.Add(p.parseCompoundStatement())
	case p.check(token.SEMICOLON, ";"), p.checkKeyword("selesai", "selain-itu"):
		return n
	}

	p.guard("statement")
	p.addError(p.curTok, "expected statement, got %s", describe(p.curTok))
	n.Add(parsetree.NewMissing("statement", p.curTok))
	p.skipUntil(semicolonTok, selesaiTok)
	return n
}

func (p *Parser) parseAssignmentStatement() *parsetree.Node {
	n := parsetree.NewRule(parsetree.AssignmentStatement)
	n.Add(p.match(token.IDENTIFIER, "", "identifier"))
	if p.check(token.LBRACKET, "[") {
		n.Add(p.take())
		n.Add(p.parseExpression())
		n.Add(p.match(token.RBRACKET, "]", "']'"))
	}
	n.Add(p.match(token.ASSIGN_OPERATOR, ":=", "':='"))
	n.Add(p.parseExpression())
	return n
}

// parseIfStatement binds an else branch written directly after the then
// branch, or after a single ';' that is immediately followed by
// 'selain-itu'. Any other ';' ends the if statement.
func (p *Parser) parseIfStatement() *parsetree.Node {
	n := parsetree.NewRule(parsetree.IfStatement)
	n.Add(p.matchKeyword("jika"))
	n.Add(p.parseExpression())
	n.Add(p.matchKeyword("maka"))
	n.Add(p.parseStatement())

	if p.check(token.SEMICOLON, ";") && p.peek(1).IsKeyword("selain-itu") {
		n.Add(p.take())
	}
	if p.checkKeyword("selain-itu") {
		n.Add(p.take())
		n.Add(p.parseStatement())
	}
	return n
}

func (p *Parser) parseWhileStatement() *parsetree.Node {
	n := parsetree.NewRule(parsetree.WhileStatement)
	n.Add(p.matchKeyword("selama"))
	n.Add(p.parseExpression())
	n.Add(p.matchKeyword("lakukan"))
	n.Add(p.parseStatement())
	return n
}

func (p *Parser) parseForStatement() *parsetree.Node {
	n := parsetree.NewRule(parsetree.ForStatement)
	n.Add(p.matchKeyword("untuk"))
	n.Add(p.match(token.IDENTIFIER, "", "loop counter"))
	n.Add(p.match(token.ASSIGN_OPERATOR, ":=", "':='"))
	n.Add(p.parseExpression())
	if p.checkKeyword("ke", "turun-ke") {
		n.Add(p.take())
	} else {
		n.Add(p.match(token.KEYWORD, "ke", "'ke' or 'turun-ke'"))
	}
	n.Add(p.parseExpression())
	n.Add(p.matchKeyword("lakukan"))
	n.Add(p.parseStatement())
	return n
}

// parseProcedureCall parses a call with or without an argument list.
func (p *Parser) parseProcedureCall() *parsetree.Node {
	n := parsetree.NewRule(parsetree.ProcedureFunctionCall)
	n.Add(p.match(token.IDENTIFIER, "", "procedure name"))
	if p.check(token.LPARENTHESIS, "(") {
		n.Add(p.take())
		if !p.check(token.RPARENTHESIS, ")") {
			n.Add(p.parseParameterList())
		}
		n.Add(p.match(token.RPARENTHESIS, ")", "')'"))
	}
	return n
}

func (p *Parser) parseParameterList() *parsetree.Node {
	n := parsetree.NewRule(parsetree.ParameterList)
	n.Add(p.parseExpression())
	for p.check(token.COMMA, ",") {
		n.Add(p.take())
		n.Add(p.parseExpression())
	}
	return n
}
