// Package parsetree holds the concrete syntax tree built by the parser.
// Every matched token and every grammar rule becomes a node.
package parsetree

import (
	"bytes"
	"fmt"

	"github.com/arnavsurve/kompas/internal/compiler/token"
)

type Kind int

const (
	Terminal Kind = iota
	Missing

	Program
	ProgramHeader
	DeclarationPart
	ConstDeclaration
	Constant
	TypeDeclaration
	TypeDefinition
	VarDeclaration
	IdentifierList
	Type
	ArrayType
	Range
	SubprogramDeclaration
	ProcedureDeclaration
	FunctionDeclaration
	FormalParameterList
	ParameterGroup
	Block
	CompoundStatement
	StatementList
	Statement
	AssignmentStatement
	IfStatement
	WhileStatement
	ForStatement
	ProcedureFunctionCall
	ParameterList
	Expression
	SimpleExpression
	Term
	Factor
	RelationalOperator
	AdditiveOperator
	MultiplicativeOperator
)

var ruleTags = map[Kind]string{
	Program:                "program",
	ProgramHeader:          "program-header",
	DeclarationPart:        "declaration-part",
	ConstDeclaration:       "const-declaration",
	Constant:               "constant",
	TypeDeclaration:        "type-declaration",
	TypeDefinition:         "type-definition",
	VarDeclaration:         "var-declaration",
	IdentifierList:         "identifier-list",
	Type:                   "type",
	ArrayType:              "array-type",
	Range:                  "range",
	SubprogramDeclaration:  "subprogram-declaration",
	ProcedureDeclaration:   "procedure-declaration",
	FunctionDeclaration:    "function-declaration",
	FormalParameterList:    "formal-parameter-list",
	ParameterGroup:         "parameter-group",
	Block:                  "block",
	CompoundStatement:      "compound-statement",
	StatementList:          "statement-list",
	Statement:              "statement",
	AssignmentStatement:    "assignment-statement",
	IfStatement:            "if-statement",
	WhileStatement:         "while-statement",
	ForStatement:           "for-statement",
	ProcedureFunctionCall:  "procedure/function-call",
	ParameterList:          "parameter-list",
	Expression:             "expression",
	SimpleExpression:       "simple-expression",
	Term:                   "term",
	Factor:                 "factor",
	RelationalOperator:     "relational-operator",
	AdditiveOperator:       "additive-operator",
	MultiplicativeOperator: "multiplicative-operator",
}

func (k Kind) String() string {
	switch k {
	case Terminal:
		return "terminal"
	case Missing:
		return "missing"
	}
	if tag, ok := ruleTags[k]; ok {
		return tag
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Node is one parse tree node. Terminals carry their token; placeholders
// synthesized during error recovery carry what was expected instead.
type Node struct {
	Kind     Kind
	Token    token.Token
	Expected string
	Children []*Node
}

func NewRule(kind Kind) *Node {
	return &Node{Kind: kind}
}

func NewTerminal(tok token.Token) *Node {
	return &Node{Kind: Terminal, Token: tok}
}

func NewMissing(expected string, at token.Token) *Node {
	return &Node{Kind: Missing, Expected: expected, Token: at}
}

// Add appends non-nil children and returns n.
func (n *Node) Add(children ...*Node) *Node {
	for _, c := range children {
		if c != nil {
			n.Children = append(n.Children, c)
		}
	}
	return n
}

func (n *Node) Label() string {
	switch n.Kind {
	case Terminal:
		return fmt.Sprintf("%s(%s)", n.Token.Type, n.Token.Literal)
	case Missing:
		return fmt.Sprintf("<missing-%s>", n.Expected)
	}
	return "<" + n.Kind.String() + ">"
}

// Child returns the i-th child or nil when out of range.
func (n *Node) Child(i int) *Node {
	if n == nil || i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// Find returns the first direct child of the given kind.
func (n *Node) Find(kind Kind) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Kind == kind {
			return c
		}
	}
	return nil
}

// FindAll returns the direct children of the given kind in order.
func (n *Node) FindAll(kind Kind) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, c := range n.Children {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

func (n *Node) IsTerminal(typ token.TokenType, lexeme string) bool {
	return n != nil && n.Kind == Terminal && n.Token.Is(typ, lexeme)
}

func (n *Node) IsKeyword(kw string) bool {
	return n.IsTerminal(token.KEYWORD, kw)
}

// Terminals returns the leaf tokens under n in source order.
func (n *Node) Terminals() []token.Token {
	var toks []token.Token
	n.Walk(func(c *Node) {
		if c.Kind == Terminal {
			toks = append(toks, c.Token)
		}
	})
	return toks
}

// Walk visits n and its descendants in pre-order.
func (n *Node) Walk(fn func(*Node)) {
	if n == nil {
		return
	}
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// String renders the tree as an indented outline.
func (n *Node) String() string {
	var out bytes.Buffer
	n.write(&out, 0)
	return out.String()
}

func (n *Node) write(out *bytes.Buffer, depth int) {
	if n == nil {
		return
	}
	for i := 0; i < depth; i++ {
		out.WriteString("  ")
	}
	out.WriteString(n.Label())
	out.WriteString("\n")
	for _, c := range n.Children {
		c.write(out, depth+1)
	}
}
