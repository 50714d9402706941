package token

import "fmt"

type TokenType string

const (
	// Words
	KEYWORD    TokenType = "KEYWORD"
	IDENTIFIER TokenType = "IDENTIFIER"

	// Literals
	NUMBER         TokenType = "NUMBER"
	STRING_LITERAL TokenType = "STRING_LITERAL"
	CHAR_LITERAL   TokenType = "CHAR_LITERAL"

	// Operators
	ASSIGN_OPERATOR     TokenType = "ASSIGN_OPERATOR"     // :=
	ARITHMETIC_OPERATOR TokenType = "ARITHMETIC_OPERATOR" // + - * / bagi mod
	RELATIONAL_OPERATOR TokenType = "RELATIONAL_OPERATOR" // = <> < <= > >=
	LOGICAL_OPERATOR    TokenType = "LOGICAL_OPERATOR"    // dan atau tidak
	RANGE_OPERATOR      TokenType = "RANGE_OPERATOR"      // ..

	// Punctuation
	LPARENTHESIS TokenType = "LPARENTHESIS"
	RPARENTHESIS TokenType = "RPARENTHESIS"
	LBRACKET     TokenType = "LBRACKET"
	RBRACKET     TokenType = "RBRACKET"
	COLON        TokenType = "COLON"
	SEMICOLON    TokenType = "SEMICOLON"
	COMMA        TokenType = "COMMA"
	DOT          TokenType = "DOT"

	// Special
	ERROR TokenType = "ERROR"
	EOF   TokenType = "EOF"
)

type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
}

// Is reports whether the token has the given type and, if lexeme is not
// empty, the given lexeme.
func (t Token) Is(typ TokenType, lexeme string) bool {
	if t.Type != typ {
		return false
	}
	return lexeme == "" || t.Literal == lexeme
}

func (t Token) IsKeyword(kw string) bool {
	return t.Type == KEYWORD && t.Literal == kw
}

// IsTypeKeyword reports whether the token names a built-in scalar type.
func (t Token) IsTypeKeyword() bool {
	if t.Type != KEYWORD {
		return false
	}
	switch t.Literal {
	case "integer", "real", "boolean", "char":
		return true
	}
	return false
}

func (t Token) Pos() string {
	return fmt.Sprintf("%d:%d", t.Line, t.Column)
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%s)", t.Type, t.Literal)
}
