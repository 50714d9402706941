// Package astbuilder lowers a parse tree into the typed AST. It reads only
// the tree it is given; malformed shapes produce a diagnostic and a nil
// subtree that callers skip.
package astbuilder

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/arnavsurve/kompas/internal/compiler/ast"
	"github.com/arnavsurve/kompas/internal/compiler/parsetree"
	"github.com/arnavsurve/kompas/internal/compiler/token"
)

type builder struct {
	diagnostics []string
}

// Build lowers a <program> tree. The program is nil only when the root
// itself is unusable.
func Build(root *parsetree.Node) (*ast.Program, []string) {
	b := &builder{}
	prog := b.buildProgram(root)
	return prog, b.diagnostics
}

func (b *builder) errorf(at *parsetree.Node, format string, args ...any) {
	line, col := 0, 0
	if at != nil {
		if toks := at.Terminals(); len(toks) > 0 {
			line, col = toks[0].Line, toks[0].Column
		} else {
			line, col = at.Token.Line, at.Token.Column
		}
	}
	msg := fmt.Sprintf(format, args...)
	b.diagnostics = append(b.diagnostics, fmt.Sprintf("%d:%d: AST Error: %s", line, col, msg))
}

func (b *builder) buildProgram(n *parsetree.Node) *ast.Program {
	if n == nil || n.Kind != parsetree.Program {
		b.errorf(n, "expected <program> at the root")
		return nil
	}

	prog := ast.New(&ast.Program{})
	if header := n.Find(parsetree.ProgramHeader); header != nil {
		prog.Token = header.Child(0).Token
		if name := header.Child(1); name.IsTerminal(token.IDENTIFIER, "") {
			prog.Name = name.Token.Literal
		} else {
			b.errorf(header, "program header has no name")
		}
	}
	prog.Declarations = b.buildDeclarations(n.Find(parsetree.DeclarationPart))
	if compound := n.Find(parsetree.CompoundStatement); compound != nil {
		prog.Block = b.buildCompound(compound)
	} else {
		b.errorf(n, "program has no main block")
	}
	return prog
}

// identToken returns the token of an IDENTIFIER terminal, reporting
// placeholders.
func (b *builder) identToken(n *parsetree.Node, what string) (token.Token, bool) {
	if n.IsTerminal(token.IDENTIFIER, "") {
		return n.Token, true
	}
	b.errorf(n, "missing %s", what)
	return token.Token{}, false
}

// --- Numbers ---

func isRealLexeme(lexeme string) bool {
	return strings.ContainsAny(lexeme, ".eE")
}

func (b *builder) numberLiteral(n *parsetree.Node) ast.Expression {
	tok := n.Token
	if isRealLexeme(tok.Literal) {
		v, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			b.errorf(n, "invalid real literal %q", tok.Literal)
			return nil
		}
		return ast.New(&ast.RealLiteral{Token: tok, Value: v})
	}
	v, err := strconv.ParseInt(tok.Literal, 10, 64)
	if err != nil {
		b.errorf(n, "integer literal %q out of range", tok.Literal)
		return nil
	}
	return ast.New(&ast.NumberLiteral{Token: tok, Value: v})
}

// literal lowers a literal terminal, or returns ok=false when n is not one.
func (b *builder) literal(n *parsetree.Node) (ast.Expression, bool) {
	if n == nil || n.Kind != parsetree.Terminal {
		return nil, false
	}
	tok := n.Token
	switch {
	case tok.Type == token.NUMBER:
		return b.numberLiteral(n), true
	case tok.Type == token.STRING_LITERAL:
		return ast.New(&ast.StringLiteral{Token: tok, Value: tok.Literal}), true
	case tok.Type == token.CHAR_LITERAL:
		return ast.New(&ast.CharLiteral{Token: tok, Value: []rune(tok.Literal)[0]}), true
	case tok.IsKeyword("benar"), tok.IsKeyword("salah"):
		return ast.New(&ast.BooleanLiteral{Token: tok, Value: tok.Literal == "benar"}), true
	}
	return nil, false
}
