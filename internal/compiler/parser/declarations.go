package parser

import (
	"github.com/arnavsurve/kompas/internal/compiler/parsetree"
	"github.com/arnavsurve/kompas/internal/compiler/token"
)

// parseDeclarationPart accepts declaration sections in any order until the
// next token cannot start one.
func (p *Parser) parseDeclarationPart() *parsetree.Node {
	n := parsetree.NewRule(parsetree.DeclarationPart)
	for {
		switch {
		case p.checkKeyword("konstanta"):
			n.Add(p.parseConstDeclaration())
		case p.checkKeyword("tipe"):
			n.Add(p.parseTypeDeclaration())
		case p.checkKeyword("variabel"):
			n.Add(p.parseVarDeclaration())
		case p.checkKeyword("prosedur", "fungsi"):
			n.Add(p.parseSubprogramDeclaration())
		default:
			return n
		}
	}
}

// parseDefineOperator accepts ':=' and also '=' as the binding operator of
// constant and type declarations.
func (p *Parser) parseDefineOperator() *parsetree.Node {
	if p.check(token.RELATIONAL_OPERATOR, "=") {
		return p.take()
	}
	return p.match(token.ASSIGN_OPERATOR, ":=", "':='")
}

func (p *Parser) parseConstDeclaration() *parsetree.Node {
	n := parsetree.NewRule(parsetree.ConstDeclaration)
	n.Add(p.matchKeyword("konstanta"))
	for first := true; first || p.check(token.IDENTIFIER, ""); first = false {
		n.Add(p.match(token.IDENTIFIER, "", "constant name"))
		n.Add(p.parseDefineOperator())
		n.Add(p.parseConstant())
		n.Add(p.match(token.SEMICOLON, ";", "';'"))
	}
	return n
}

// parseConstant parses an optionally signed literal or constant name.
func (p *Parser) parseConstant() *parsetree.Node {
	n := parsetree.NewRule(parsetree.Constant)
	if p.check(token.ARITHMETIC_OPERATOR, "+") || p.check(token.ARITHMETIC_OPERATOR, "-") {
		n.Add(p.take())
	}
	switch {
	case p.check(token.NUMBER, ""), p.check(token.STRING_LITERAL, ""),
		p.check(token.CHAR_LITERAL, ""), p.check(token.IDENTIFIER, ""),
		p.checkKeyword("benar", "salah"):
		n.Add(p.take())
	default:
		p.guard("constant value")
		p.addError(p.curTok, "expected constant value, got %s", describe(p.curTok))
		n.Add(parsetree.NewMissing("constant", p.curTok))
	}
	return n
}

func (p *Parser) parseTypeDeclaration() *parsetree.Node {
	n := parsetree.NewRule(parsetree.TypeDeclaration)
	n.Add(p.matchKeyword("tipe"))
	for first := true; first || p.check(token.IDENTIFIER, ""); first = false {
		n.Add(p.match(token.IDENTIFIER, "", "type name"))
		n.Add(p.parseDefineOperator())
		n.Add(p.parseTypeDefinition())
		n.Add(p.match(token.SEMICOLON, ";", "';'"))
	}
	return n
}

// parseTypeDefinition parses either a type or a subrange. An identifier is
// a type reference unless it is followed by '..'.
func (p *Parser) parseTypeDefinition() *parsetree.Node {
	n := parsetree.NewRule(parsetree.TypeDefinition)
	switch {
	case p.curTok.IsTypeKeyword(), p.checkKeyword("larik"):
		n.Add(p.parseType())
	case p.check(token.IDENTIFIER, "") && p.peek(1).Type != token.RANGE_OPERATOR:
		n.Add(p.parseType())
	default:
		n.Add(p.parseRange())
	}
	return n
}

func (p *Parser) parseVarDeclaration() *parsetree.Node {
	n := parsetree.NewRule(parsetree.VarDeclaration)
	n.Add(p.matchKeyword("variabel"))
	for first := true; first || p.check(token.IDENTIFIER, ""); first = false {
		n.Add(p.parseIdentifierList())
		n.Add(p.match(token.COLON, ":", "':'"))
		n.Add(p.parseType())
		n.Add(p.match(token.SEMICOLON, ";", "';'"))
	}
	return n
}

func (p *Parser) parseIdentifierList() *parsetree.Node {
	n := parsetree.NewRule(parsetree.IdentifierList)
	n.Add(p.match(token.IDENTIFIER, "", "identifier"))
	for p.check(token.COMMA, ",") {
		n.Add(p.take())
		n.Add(p.match(token.IDENTIFIER, "", "identifier"))
	}
	return n
}

func (p *Parser) parseType() *parsetree.Node {
	n := parsetree.NewRule(parsetree.Type)
	switch {
	case p.curTok.IsTypeKeyword():
		n.Add(p.take())
	case p.checkKeyword("larik"):
		n.Add(p.parseArrayType())
	case p.check(token.IDENTIFIER, ""):
		n.Add(p.take())
	default:
		p.guard("type")
		p.addError(p.curTok, "expected type, got %s", describe(p.curTok))
		n.Add(parsetree.NewMissing("type", p.curTok))
	}
	return n
}

func (p *Parser) parseArrayType() *parsetree.Node {
	n := parsetree.NewRule(parsetree.ArrayType)
	n.Add(p.matchKeyword("larik"))
	n.Add(p.match(token.LBRACKET, "[", "'['"))
	n.Add(p.parseRange())
	n.Add(p.match(token.RBRACKET, "]", "']'"))
	n.Add(p.matchKeyword("dari"))
	n.Add(p.parseType())
	return n
}

func (p *Parser) parseRange() *parsetree.Node {
	n := parsetree.NewRule(parsetree.Range)
	n.Add(p.parseExpression())
	n.Add(p.match(token.RANGE_OPERATOR, "..", "'..'"))
	n.Add(p.parseExpression())
	return n
}

// --- Subprograms ---

func (p *Parser) parseSubprogramDeclaration() *parsetree.Node {
	n := parsetree.NewRule(parsetree.SubprogramDeclaration)
	if p.checkKeyword("fungsi") {
		return n.Add(p.parseFunctionDeclaration())
	}
	return n.Add(p.parseProcedureDeclaration())
}

func (p *Parser) parseProcedureDeclaration() *parsetree.Node {
	n := parsetree.NewRule(parsetree.ProcedureDeclaration)
	n.Add(p.matchKeyword("prosedur"))
	n.Add(p.match(token.IDENTIFIER, "", "procedure name"))
	if p.check(token.LPARENTHESIS, "(") {
		n.Add(p.parseFormalParameterList())
	}
	n.Add(p.match(token.SEMICOLON, ";", "';'"))
	n.Add(p.parseBlock())
	n.Add(p.match(token.SEMICOLON, ";", "';'"))
	return n
}

func (p *Parser) parseFunctionDeclaration() *parsetree.Node {
	n := parsetree.NewRule(parsetree.FunctionDeclaration)
	n.Add(p.matchKeyword("fungsi"))
	n.Add(p.match(token.IDENTIFIER, "", "function name"))
	if p.check(token.LPARENTHESIS, "(") {
		n.Add(p.parseFormalParameterList())
	}
	n.Add(p.match(token.COLON, ":", "':'"))
	n.Add(p.parseType())
	n.Add(p.match(token.SEMICOLON, ";", "';'"))
	n.Add(p.parseBlock())
	n.Add(p.match(token.SEMICOLON, ";", "';'"))
	return n
}

func (p *Parser) parseFormalParameterList() *parsetree.Node {
	n := parsetree.NewRule(parsetree.FormalParameterList)
	n.Add(p.match(token.LPARENTHESIS, "(", "'('"))
	n.Add(p.parseParameterGroup())
	for p.check(token.SEMICOLON, ";") {
		n.Add(p.take())
		n.Add(p.parseParameterGroup())
	}
	n.Add(p.match(token.RPARENTHESIS, ")", "')'"))
	return n
}

func (p *Parser) parseParameterGroup() *parsetree.Node {
	n := parsetree.NewRule(parsetree.ParameterGroup)
	if p.checkKeyword("variabel") {
		n.Add(p.take())
	}
	n.Add(p.parseIdentifierList())
	n.Add(p.match(token.COLON, ":", "':'"))
	n.Add(p.parseType())
	return n
}

func (p *Parser) parseBlock() *parsetree.Node {
	n := parsetree.NewRule(parsetree.Block)
	n.Add(p.parseDeclarationPart())
	n.Add(p.parseCompoundStatement())
	return n
}
