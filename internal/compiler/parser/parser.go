package parser

import (
	"fmt"

	"github.com/arnavsurve/kompas/internal/compiler/parsetree"
	"github.com/arnavsurve/kompas/internal/compiler/token"
)

// FatalError aborts a parse. It is raised for ERROR tokens and for running
// out of input where a token is still required.
type FatalError struct {
	Tok token.Token
	Msg string
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("%d:%d: Syntax Error: %s", e.Tok.Line, e.Tok.Column, e.Msg)
}

type Parser struct {
	toks   []token.Token
	pos    int
	curTok token.Token
	errors []string
}

// New returns a parser over a token stream. A missing trailing EOF token is
// supplied.
func New(toks []token.Token) *Parser {
	if len(toks) == 0 || !isStreamEnd(toks[len(toks)-1]) {
		eof := token.Token{Type: token.EOF, Line: 1, Column: 1}
		if len(toks) > 0 {
			last := toks[len(toks)-1]
			eof.Line, eof.Column = last.Line, last.Column+len(last.Literal)
		}
		toks = append(toks[:len(toks):len(toks)], eof)
	}
	p := &Parser{toks: toks}
	p.curTok = toks[0]
	return p
}

func isStreamEnd(tok token.Token) bool {
	return tok.Type == token.EOF || tok.Type == token.ERROR
}

// --- Token Handling ---

func (p *Parser) nextToken() {
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	p.curTok = p.toks[p.pos]
}

// peek returns the token n positions ahead of the current one.
func (p *Parser) peek(n int) token.Token {
	i := p.pos + n
	if i >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[i]
}

// peekPastBalanced returns the index just past the bracket group opened at
// index from, or from itself when toks[from] is not the open bracket. An
// unclosed group yields the index of the last token in the stream.
func (p *Parser) peekPastBalanced(from int, open, close token.TokenType) int {
	if from >= len(p.toks) || p.toks[from].Type != open {
		return from
	}
	depth := 0
	for i := from; i < len(p.toks); i++ {
		switch p.toks[i].Type {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return i + 1
			}
		case token.EOF, token.ERROR:
			return i
		}
	}
	return len(p.toks) - 1
}

func (p *Parser) check(typ token.TokenType, lexeme string) bool {
	return p.curTok.Is(typ, lexeme)
}

func (p *Parser) checkKeyword(kws ...string) bool {
	for _, kw := range kws {
		if p.curTok.IsKeyword(kw) {
			return true
		}
	}
	return false
}

// take consumes the current token as a terminal node.
func (p *Parser) take() *parsetree.Node {
	n := parsetree.NewTerminal(p.curTok)
	p.nextToken()
	return n
}

// match consumes a token of the given type (and lexeme, if not empty). On a
// mismatch it records a diagnostic and returns a placeholder without
// consuming anything.
func (p *Parser) match(typ token.TokenType, lexeme, expected string) *parsetree.Node {
	if p.check(typ, lexeme) {
		return p.take()
	}
	p.guard(expected)
	p.addError(p.curTok, "expected %s, got %s", expected, describe(p.curTok))
	return parsetree.NewMissing(expected, p.curTok)
}

func (p *Parser) matchKeyword(kw string) *parsetree.Node {
	return p.match(token.KEYWORD, kw, "'"+kw+"'")
}

// guard aborts the parse when the current token is an ERROR token or the
// end of input.
func (p *Parser) guard(expected string) {
	switch p.curTok.Type {
	case token.ERROR:
		p.fatal(p.curTok, "lexical error at %q", p.curTok.Literal)
	case token.EOF:
		p.fatal(p.curTok, "unexpected end of input, expected %s", expected)
	}
}

// skipUntil advances to the next token matching one of the targets, or to
// the end of the stream.
func (p *Parser) skipUntil(targets ...token.Token) {
	for !isStreamEnd(p.curTok) {
		for _, t := range targets {
			if p.check(t.Type, t.Literal) {
				return
			}
		}
		p.nextToken()
	}
}

// --- Diagnostics ---

func (p *Parser) addError(tok token.Token, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	errMsg := fmt.Sprintf("%d:%d: Syntax Error: %s", tok.Line, tok.Column, msg)
	p.errors = append(p.errors, errMsg)
}

func (p *Parser) fatal(tok token.Token, format string, args ...any) {
	err := &FatalError{Tok: tok, Msg: fmt.Sprintf(format, args...)}
	p.errors = append(p.errors, err.Error())
	panic(err)
}

// Errors returns the syntax diagnostics in the order they were found.
func (p *Parser) Errors() []string {
	return p.errors
}

func describe(tok token.Token) string {
	switch tok.Type {
	case token.EOF:
		return "end of input"
	case token.ERROR:
		return fmt.Sprintf("invalid input %q", tok.Literal)
	}
	return fmt.Sprintf("%s '%s'", tok.Type, tok.Literal)
}

// --- Entry Point ---

// ParseProgram parses a whole program. Mismatched tokens are reported
// through Errors and do not stop the parse; a fatal condition returns the
// partial tree built so far together with a *FatalError.
func (p *Parser) ParseProgram() (root *parsetree.Node, err error) {
	root = parsetree.NewRule(parsetree.Program)
	defer func() {
		if r := recover(); r != nil {
			fe, ok := r.(*FatalError)
			if !ok {
				panic(r)
			}
			err = fe
		}
	}()

	root.Add(p.parseProgramHeader())
	root.Add(p.parseDeclarationPart())
	root.Add(p.parseCompoundStatement())
	root.Add(p.match(token.DOT, ".", "'.'"))

	if p.curTok.Type == token.ERROR {
		p.guard("end of input")
	}
	if p.curTok.Type != token.EOF {
		p.addError(p.curTok, "unexpected %s after end of program", describe(p.curTok))
	}
	return root, nil
}

func (p *Parser) parseProgramHeader() *parsetree.Node {
	n := parsetree.NewRule(parsetree.ProgramHeader)
	n.Add(p.matchKeyword("program"))
	n.Add(p.match(token.IDENTIFIER, "", "program name"))
	n.Add(p.match(token.SEMICOLON, ";", "';'"))
	return n
}
