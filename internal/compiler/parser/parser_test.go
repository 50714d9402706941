package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/arnavsurve/kompas/internal/compiler/lexer"
	"github.com/arnavsurve/kompas/internal/compiler/parsetree"
	"github.com/arnavsurve/kompas/internal/compiler/token"
)

// --- Test Helper Functions ---

func parse(t *testing.T, input string) (*parsetree.Node, *Parser, error) {
	t.Helper()
	toks, err := lexer.New(input, nil).Tokenize()
	if err != nil && !strings.Contains(input, "#") {
		t.Fatalf("Tokenize() error = %v", err)
	}
	p := New(toks)
	root, perr := p.ParseProgram()
	return root, p, perr
}

// checkParserErrors fails the test if the parser reported any diagnostics.
func checkParserErrors(t *testing.T, p *Parser) {
	t.Helper()
	errors := p.Errors()
	if len(errors) == 0 {
		return
	}

	t.Errorf("Parser has %d errors:", len(errors))
	for i, msg := range errors {
		t.Errorf("   Error %d: %q", i+1, msg)
	}
	t.FailNow()
}

func labels(nodes []*parsetree.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Label()
	}
	return out
}

// --- Tests ---

func TestProgramShape(t *testing.T) {
	input := `program Test; variabel a: integer; mulai a := 5; selesai.`

	root, p, err := parse(t, input)
	if err != nil {
		t.Fatalf("ParseProgram() error = %v", err)
	}
	checkParserErrors(t, p)

	if root.Label() != "<program>" {
		t.Fatalf("root expected=%q, got=%q", "<program>", root.Label())
	}
	want := []string{"<program-header>", "<declaration-part>", "<compound-statement>", "DOT(.)"}
	got := labels(root.Children)
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Fatalf("program children expected=%v, got=%v", want, got)
	}

	header := root.Child(0)
	if name := header.Child(1); name.Token.Literal != "Test" {
		t.Errorf("program name expected=%q, got=%q", "Test", name.Token.Literal)
	}

	stmts := root.Child(2).Find(parsetree.StatementList).FindAll(parsetree.Statement)
	if len(stmts) != 2 {
		t.Fatalf("expected=2 statements (one empty), got=%d", len(stmts))
	}
	if stmts[0].Child(0).Kind != parsetree.AssignmentStatement {
		t.Errorf("first statement expected=assignment, got=%s", stmts[0].Child(0).Label())
	}
	if len(stmts[1].Children) != 0 {
		t.Errorf("trailing statement should be empty, got=%d children", len(stmts[1].Children))
	}
}

func TestAssignmentVersusCall(t *testing.T) {
	input := `program P;
mulai
  arr[i + 1] := 2;
  tulis(arr[1]);
  writeln;
  x := f(1, 2)
selesai.`

	root, p, err := parse(t, input)
	if err != nil {
		t.Fatalf("ParseProgram() error = %v", err)
	}
	checkParserErrors(t, p)

	stmts := root.Child(2).Find(parsetree.StatementList).FindAll(parsetree.Statement)
	wantKinds := []parsetree.Kind{
		parsetree.AssignmentStatement,
		parsetree.ProcedureFunctionCall,
		parsetree.ProcedureFunctionCall,
		parsetree.AssignmentStatement,
	}
	if len(stmts) != len(wantKinds) {
		t.Fatalf("expected=%d statements, got=%d", len(wantKinds), len(stmts))
	}
	for i, k := range wantKinds {
		if got := stmts[i].Child(0).Kind; got != k {
			t.Errorf("stmts[%d] expected=%s, got=%s", i, k, got)
		}
	}

	value := stmts[3].Child(0).Find(parsetree.Expression)
	factor := value.Child(0).Child(0).Child(0)
	if factor.Child(0).Kind != parsetree.ProcedureFunctionCall {
		t.Errorf("f(1, 2) should parse as a call factor, got=%s", factor.Child(0).Label())
	}
}

func TestIfElseBinding(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantElse bool
		wantStmt int
	}{
		{"else after separator", "jika a maka b := 1; selain-itu b := 2", true, 1},
		{"else without separator", "jika a maka b := 1 selain-itu b := 2", true, 1},
		{"no else", "jika a maka b := 1; b := 2", false, 2},
		{"nested binds inner", "jika a maka jika c maka b := 1; selain-itu b := 2", false, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, p, err := parse(t, "program P; mulai "+tt.body+" selesai.")
			if err != nil {
				t.Fatalf("ParseProgram() error = %v", err)
			}
			checkParserErrors(t, p)

			stmts := root.Child(2).Find(parsetree.StatementList).FindAll(parsetree.Statement)
			if len(stmts) != tt.wantStmt {
				t.Fatalf("expected=%d statements, got=%d", tt.wantStmt, len(stmts))
			}
			ifNode := stmts[0].Child(0)
			hasElse := false
			for _, c := range ifNode.Children {
				if c.IsKeyword("selain-itu") {
					hasElse = true
				}
			}
			if hasElse != tt.wantElse {
				t.Errorf("outer if else expected=%v, got=%v\n%s", tt.wantElse, hasElse, ifNode)
			}
		})
	}
}

func TestDeclarations(t *testing.T) {
	input := `program Decl;
konstanta
  N := 10;
  NEG = -3;
tipe
  Vec := larik[1..N] dari integer;
  Idx := 1..5;
  Grid := larik['a'..'c'] dari larik[0..2] dari real;
variabel
  a, b, c: integer;
  v: Vec;
prosedur tukar(variabel x, y: integer; z: real);
variabel t: integer;
mulai
  t := x; x := y; y := t
selesai;
fungsi kuadrat(n: integer): integer;
mulai
  kuadrat := n * n
selesai;
mulai
  a := kuadrat(3)
selesai.`

	root, p, err := parse(t, input)
	if err != nil {
		t.Fatalf("ParseProgram() error = %v", err)
	}
	checkParserErrors(t, p)

	decls := root.Child(1)
	want := []parsetree.Kind{
		parsetree.ConstDeclaration,
		parsetree.TypeDeclaration,
		parsetree.VarDeclaration,
		parsetree.SubprogramDeclaration,
		parsetree.SubprogramDeclaration,
	}
	if len(decls.Children) != len(want) {
		t.Fatalf("expected=%d declaration sections, got=%d", len(want), len(decls.Children))
	}
	for i, k := range want {
		if decls.Children[i].Kind != k {
			t.Errorf("decls[%d] expected=%s, got=%s", i, k, decls.Children[i].Kind)
		}
	}

	typeDefs := decls.Child(1).FindAll(parsetree.TypeDefinition)
	if len(typeDefs) != 3 {
		t.Fatalf("expected=3 type definitions, got=%d", len(typeDefs))
	}
	if typeDefs[1].Child(0).Kind != parsetree.Range {
		t.Errorf("Idx should be a subrange, got=%s", typeDefs[1].Child(0).Label())
	}
	inner := typeDefs[2].Child(0).Child(0).Find(parsetree.Type).Child(0)
	if inner.Kind != parsetree.ArrayType {
		t.Errorf("Grid element should be an array type, got=%s", inner.Label())
	}

	proc := decls.Child(3).Child(0)
	groups := proc.Find(parsetree.FormalParameterList).FindAll(parsetree.ParameterGroup)
	if len(groups) != 2 {
		t.Fatalf("expected=2 parameter groups, got=%d", len(groups))
	}
	if !groups[0].Child(0).IsKeyword("variabel") {
		t.Errorf("first group should be by reference")
	}
}

func TestRecoverFromMismatch(t *testing.T) {
	input := `program P
variabel a: integer;
mulai
  a := 1
  a := 2;
  jika a maka a := (3
selesai.`

	root, p, err := parse(t, input)
	if err != nil {
		t.Fatalf("ParseProgram() should recover, got fatal error %v", err)
	}

	errs := p.Errors()
	if len(errs) != 3 {
		t.Fatalf("expected=3 errors, got=%d: %v", len(errs), errs)
	}
	wantPrefixes := []string{"2:1: Syntax Error: expected ';'", "5:3: Syntax Error: expected ';' or 'selesai'", "7:1: Syntax Error: expected ')'"}
	for i, prefix := range wantPrefixes {
		if !strings.HasPrefix(errs[i], prefix) {
			t.Errorf("errs[%d] expected prefix %q, got=%q", i, prefix, errs[i])
		}
	}

	missing := 0
	root.Walk(func(n *parsetree.Node) {
		if n.Kind == parsetree.Missing {
			missing++
		}
	})
	if missing != 2 {
		t.Errorf("expected=2 placeholder nodes, got=%d", missing)
	}
	if root.Child(0).Child(2).Label() != "<missing-';'>" {
		t.Errorf("header placeholder label wrong, got=%q", root.Child(0).Child(2).Label())
	}
}

func TestFatalConditions(t *testing.T) {
	tests := []struct {
		name  string
		input string
		msg   string
	}{
		{"end of input", "program P; mulai a := 1;", "unexpected end of input"},
		{"lexical error", "program P; mulai a := # selesai.", "lexical error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, _, err := parse(t, tt.input)
			if err == nil {
				t.Fatalf("expected fatal error")
			}
			var fe *FatalError
			if !errors.As(err, &fe) {
				t.Fatalf("error is not *FatalError. got=%T", err)
			}
			if !strings.Contains(err.Error(), tt.msg) {
				t.Errorf("error expected to contain %q, got=%q", tt.msg, err.Error())
			}
			if root == nil || root.Child(0) == nil {
				t.Errorf("partial tree should keep the parsed header")
			}
		})
	}
}

func TestPeekPastBalanced(t *testing.T) {
	toks, _ := lexer.New("a[b[1]] := 2", nil).Tokenize()
	p := New(toks)
	after := p.peekPastBalanced(1, token.LBRACKET, token.RBRACKET)
	if toks[after].Type != token.ASSIGN_OPERATOR {
		t.Errorf("expected index of ':=', got token %s", toks[after])
	}
	if got := p.peekPastBalanced(0, token.LBRACKET, token.RBRACKET); got != 0 {
		t.Errorf("non-bracket start should return from, got=%d", got)
	}

	open, _ := lexer.New("a[1", nil).Tokenize()
	p = New(open)
	if got := p.peekPastBalanced(1, token.LBRACKET, token.RBRACKET); open[got].Type != token.EOF {
		t.Errorf("unclosed group should stop at EOF, got=%s", open[got])
	}
}
