package lexer

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/arnavsurve/kompas/internal/compiler/token"
)

func TestNextToken(t *testing.T) {
	input := `program Test;
variabel a, b: integer;
mulai
  a := 1..5;
  jika a <> 3.14 maka b := 'x' selain-itu b := 'it''s';
  untuk a := 10 turun-ke 1 lakukan writeln(a bagi 2 mod 3)
selesai.`

	tests := []struct {
		expectedType    token.TokenType
		expectedLiteral string
	}{
		{token.KEYWORD, "program"},
		{token.IDENTIFIER, "Test"},
		{token.SEMICOLON, ";"},
		{token.KEYWORD, "variabel"},
		{token.IDENTIFIER, "a"},
		{token.COMMA, ","},
		{token.IDENTIFIER, "b"},
		{token.COLON, ":"},
		{token.KEYWORD, "integer"},
		{token.SEMICOLON, ";"},
		{token.KEYWORD, "mulai"},
		{token.IDENTIFIER, "a"},
		{token.ASSIGN_OPERATOR, ":="},
		{token.NUMBER, "1"},
		{token.RANGE_OPERATOR, ".."},
		{token.NUMBER, "5"},
		{token.SEMICOLON, ";"},
		{token.KEYWORD, "jika"},
		{token.IDENTIFIER, "a"},
		{token.RELATIONAL_OPERATOR, "<>"},
		{token.NUMBER, "3.14"},
		{token.KEYWORD, "maka"},
		{token.IDENTIFIER, "b"},
		{token.ASSIGN_OPERATOR, ":="},
		{token.CHAR_LITERAL, "x"},
		{token.KEYWORD, "selain-itu"},
		{token.IDENTIFIER, "b"},
		{token.ASSIGN_OPERATOR, ":="},
		{token.STRING_LITERAL, "it's"},
		{token.SEMICOLON, ";"},
		{token.KEYWORD, "untuk"},
		{token.IDENTIFIER, "a"},
		{token.ASSIGN_OPERATOR, ":="},
		{token.NUMBER, "10"},
		{token.KEYWORD, "turun-ke"},
		{token.NUMBER, "1"},
		{token.KEYWORD, "lakukan"},
		{token.IDENTIFIER, "writeln"},
		{token.LPARENTHESIS, "("},
		{token.IDENTIFIER, "a"},
		{token.ARITHMETIC_OPERATOR, "bagi"},
		{token.NUMBER, "2"},
		{token.ARITHMETIC_OPERATOR, "mod"},
		{token.NUMBER, "3"},
		{token.RPARENTHESIS, ")"},
		{token.KEYWORD, "selesai"},
		{token.DOT, "."},
		{token.EOF, ""},
	}

	l := New(input, nil)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q (%q)", i, tt.expectedType, tok.Type, tok.Literal)
		}
		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q", i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestNumbers(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"42", []string{"42"}},
		{"3.14", []string{"3.14"}},
		{"1.5e3", []string{"1.5e3"}},
		{"2E-4", []string{"2E-4"}},
		{"1..9", []string{"1", "..", "9"}},
		{"7.", []string{"7", "."}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			toks, err := New(tt.input, nil).Tokenize()
			if err != nil {
				t.Fatalf("Tokenize() error = %v", err)
			}
			if len(toks) != len(tt.want)+1 {
				t.Fatalf("expected=%d tokens, got=%d (%v)", len(tt.want)+1, len(toks), toks)
			}
			for i, lit := range tt.want {
				if toks[i].Literal != lit {
					t.Errorf("toks[%d] expected=%q, got=%q", i, lit, toks[i].Literal)
				}
			}
		})
	}
}

func TestKeywordsAreCaseInsensitive(t *testing.T) {
	toks, err := New("MULAI Selesai Dan Foo", nil).Tokenize()
	if err != nil {
		t.Fatalf("Tokenize() error = %v", err)
	}
	want := []token.Token{
		{Type: token.KEYWORD, Literal: "mulai"},
		{Type: token.KEYWORD, Literal: "selesai"},
		{Type: token.LOGICAL_OPERATOR, Literal: "dan"},
		{Type: token.IDENTIFIER, Literal: "Foo"},
	}
	for i, w := range want {
		if toks[i].Type != w.Type || toks[i].Literal != w.Literal {
			t.Errorf("toks[%d] expected=%s, got=%s", i, w, toks[i])
		}
	}
}

func TestHyphenNotKeyword(t *testing.T) {
	toks, err := New("selain - itu", nil).Tokenize()
	if err != nil {
		t.Fatalf("Tokenize() error = %v", err)
	}
	if toks[0].Type != token.IDENTIFIER || toks[1].Literal != "-" || toks[2].Type != token.IDENTIFIER {
		t.Errorf("unexpected tokens: %v", toks)
	}
}

func TestCommentsAndPositions(t *testing.T) {
	input := "{ header }\n(* block\ncomment *) x\n  y"
	toks, err := New(input, nil).Tokenize()
	if err != nil {
		t.Fatalf("Tokenize() error = %v", err)
	}
	if len(toks) != 3 {
		t.Fatalf("expected=3 tokens, got=%d", len(toks))
	}
	if toks[0].Literal != "x" || toks[0].Line != 3 || toks[0].Column != 12 {
		t.Errorf("x at wrong position: %s", toks[0].Pos())
	}
	if toks[1].Literal != "y" || toks[1].Line != 4 || toks[1].Column != 3 {
		t.Errorf("y at wrong position: %s", toks[1].Pos())
	}
}

func TestQuotedLiterals(t *testing.T) {
	tests := []struct {
		input    string
		expType  token.TokenType
		expValue string
	}{
		{"'a'", token.CHAR_LITERAL, "a"},
		{"''''", token.CHAR_LITERAL, "'"},
		{"'é'", token.CHAR_LITERAL, "é"},
		{"'ab'", token.STRING_LITERAL, "ab"},
		{"'héé'", token.STRING_LITERAL, "héé"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tok := New(tt.input, nil).NextToken()
			if tok.Type != tt.expType || tok.Literal != tt.expValue {
				t.Errorf("expected=%s %q, got=%s %q", tt.expType, tt.expValue, tok.Type, tok.Literal)
			}
		})
	}
}

func TestLexicalErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		reason string
	}{
		{"bad char", "a := 1 # 2", "unrecognized character"},
		{"open string", "x := 'abc", "unterminated string"},
		{"open comment", "x { never closed", "unterminated comment"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New(tt.input, nil)
			toks, err := l.Tokenize()
			if err == nil {
				t.Fatalf("expected error, got none")
			}
			var lexErr *Error
			if !errors.As(err, &lexErr) {
				t.Fatalf("error is not *Error. got=%T", err)
			}
			if lexErr.Reason != tt.reason {
				t.Errorf("reason expected=%q, got=%q", tt.reason, lexErr.Reason)
			}
			last := toks[len(toks)-1]
			if last.Type != token.ERROR {
				t.Errorf("last token expected=ERROR, got=%s", last.Type)
			}
			if next := l.NextToken(); next.Type != token.EOF {
				t.Errorf("lexer kept scanning after error, got=%s", next)
			}
		})
	}
}

func TestLoadRules(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	rules := `keywords: [mulai, selesai, selain-itu]
single_char_tokens:
  ".": DOT
`
	if err := os.WriteFile(path, []byte(rules), 0o644); err != nil {
		t.Fatal(err)
	}

	r, err := LoadRules(path)
	if err != nil {
		t.Fatalf("LoadRules() error = %v", err)
	}
	toks, err := New("mulai jika selain-itu.", r).Tokenize()
	if err != nil {
		t.Fatalf("Tokenize() error = %v", err)
	}
	if toks[1].Type != token.IDENTIFIER {
		t.Errorf("jika should be an identifier under custom rules, got=%s", toks[1])
	}
	if toks[2].Type != token.KEYWORD || toks[2].Literal != "selain-itu" {
		t.Errorf("expected selain-itu keyword, got=%s", toks[2])
	}

	if _, err := ParseRules([]byte("keywords: []")); err == nil {
		t.Errorf("expected error for empty keyword list")
	}
	if _, err := LoadRules(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Errorf("expected error for missing file")
	}
}
