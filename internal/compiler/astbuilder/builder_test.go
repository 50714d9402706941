package astbuilder

import (
	"strings"
	"testing"

	"github.com/arnavsurve/kompas/internal/compiler/ast"
	"github.com/arnavsurve/kompas/internal/compiler/lexer"
	"github.com/arnavsurve/kompas/internal/compiler/parser"
)

func build(t *testing.T, input string) (*ast.Program, []string) {
	t.Helper()
	toks, err := lexer.New(input, nil).Tokenize()
	if err != nil {
		t.Fatalf("Tokenize() error = %v", err)
	}
	root, err := parser.New(toks).ParseProgram()
	if err != nil {
		t.Fatalf("ParseProgram() error = %v", err)
	}
	return Build(root)
}

func checkDiagnostics(t *testing.T, diags []string) {
	t.Helper()
	if len(diags) == 0 {
		return
	}
	for i, d := range diags {
		t.Errorf("   Diagnostic %d: %q", i+1, d)
	}
	t.FailNow()
}

func TestEndToEndShape(t *testing.T) {
	prog, diags := build(t, `program Test; variabel a: integer; mulai a := 5; selesai.`)
	checkDiagnostics(t, diags)

	if prog.Name != "Test" {
		t.Errorf("prog.Name expected=%q, got=%q", "Test", prog.Name)
	}
	if len(prog.Declarations.Items) != 1 {
		t.Fatalf("expected=1 declaration, got=%d", len(prog.Declarations.Items))
	}
	vd, ok := prog.Declarations.Items[0].(*ast.VarDecl)
	if !ok {
		t.Fatalf("declaration is not *ast.VarDecl. got=%T", prog.Declarations.Items[0])
	}
	if len(vd.Names) != 1 || vd.Names[0] != "a" || vd.TypeName != "integer" {
		t.Errorf("VarDecl expected names=[a] type=integer, got names=%v type=%q", vd.Names, vd.TypeName)
	}

	if len(prog.Block.Statements) != 1 {
		t.Fatalf("expected=1 statement, got=%d", len(prog.Block.Statements))
	}
	assign, ok := prog.Block.Statements[0].(*ast.Assign)
	if !ok {
		t.Fatalf("statement is not *ast.Assign. got=%T", prog.Block.Statements[0])
	}
	if target, ok := assign.Target.(*ast.Var); !ok || target.Name != "a" {
		t.Errorf("assign target expected Var(a), got=%s", assign.Target)
	}
	if num, ok := assign.Value.(*ast.NumberLiteral); !ok || num.Value != 5 {
		t.Errorf("assign value expected Number(5), got=%s", assign.Value)
	}

	ast.Inspect(prog, func(n ast.Node) bool {
		d := n.Decorated()
		if d.SymbolIndex != -1 || d.ScopeLevel != -1 || d.DataType != "" {
			t.Errorf("%T starts decorated: %+v", n, *d)
		}
		return true
	})
}

func TestOneDeclarationPerName(t *testing.T) {
	prog, diags := build(t, `program P;
variabel a, b, c: integer; v, w: larik[1..3] dari char;
prosedur p(variabel x, y: integer; z: real);
mulai selesai;
mulai selesai.`)
	checkDiagnostics(t, diags)

	items := prog.Declarations.Items
	if len(items) != 6 {
		t.Fatalf("expected=6 declarations, got=%d", len(items))
	}
	for i, name := range []string{"a", "b", "c", "v", "w"} {
		vd := items[i].(*ast.VarDecl)
		if vd.Name() != name {
			t.Errorf("items[%d] expected=%q, got=%q", i, name, vd.Name())
		}
	}
	v, w := items[3].(*ast.VarDecl), items[4].(*ast.VarDecl)
	if v.ArrayType == nil || w.ArrayType == nil || v.ArrayType == w.ArrayType {
		t.Errorf("each array variable needs its own array type node")
	}

	proc := items[5].(*ast.ProcedureDecl)
	if len(proc.Params) != 3 {
		t.Fatalf("expected=3 params, got=%d", len(proc.Params))
	}
	wantRef := []bool{true, true, false}
	for i, p := range proc.Params {
		if p.ByRef != wantRef[i] {
			t.Errorf("params[%d] ByRef expected=%v, got=%v", i, wantRef[i], p.ByRef)
		}
	}
}

func TestExpressionShapes(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1 - 2 - 3", "((1 - 2) - 3)"},
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"(1 + 2) * 3", "((1 + 2) * 3)"},
		{"-a * b", "(-(a * b))"},
		{"tidak a dan b", "((tidak a) dan b)"},
		{"a < b + 1", "(a < (b + 1))"},
		{"x bagi 2 mod 3", "((x bagi 2) mod 3)"},
		{"arr[i + 1] atau f(1, benar)", "(arr[(i + 1)] atau f(1, benar))"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			prog, diags := build(t, "program P; mulai r := "+tt.input+" selesai.")
			checkDiagnostics(t, diags)
			assign := prog.Block.Statements[0].(*ast.Assign)
			if got := assign.Value.String(); got != tt.expected {
				t.Errorf("expected=%q, got=%q", tt.expected, got)
			}
		})
	}
}

func TestLiteralFolding(t *testing.T) {
	prog, diags := build(t, `program P; mulai writeln(3, 3.0, 2e3, 'c', 'str', benar, salah) selesai.`)
	checkDiagnostics(t, diags)

	call := prog.Block.Statements[0].(*ast.ProcedureCall)
	if len(call.Args) != 7 {
		t.Fatalf("expected=7 args, got=%d", len(call.Args))
	}
	checks := []func(ast.Expression) bool{
		func(e ast.Expression) bool { n, ok := e.(*ast.NumberLiteral); return ok && n.Value == 3 },
		func(e ast.Expression) bool { r, ok := e.(*ast.RealLiteral); return ok && r.Value == 3.0 },
		func(e ast.Expression) bool { r, ok := e.(*ast.RealLiteral); return ok && r.Value == 2000 },
		func(e ast.Expression) bool { c, ok := e.(*ast.CharLiteral); return ok && c.Value == 'c' },
		func(e ast.Expression) bool { s, ok := e.(*ast.StringLiteral); return ok && s.Value == "str" },
		func(e ast.Expression) bool { b, ok := e.(*ast.BooleanLiteral); return ok && b.Value },
		func(e ast.Expression) bool { b, ok := e.(*ast.BooleanLiteral); return ok && !b.Value },
	}
	for i, check := range checks {
		if !check(call.Args[i]) {
			t.Errorf("args[%d] folded wrong: %T %s", i, call.Args[i], call.Args[i])
		}
	}
}

func TestMultiByteCharLiteral(t *testing.T) {
	prog, diags := build(t, `program P; mulai c := 'é' selesai.`)
	checkDiagnostics(t, diags)

	assign := prog.Block.Statements[0].(*ast.Assign)
	c, ok := assign.Value.(*ast.CharLiteral)
	if !ok {
		t.Fatalf("expected *ast.CharLiteral, got=%T", assign.Value)
	}
	if c.Value != 'é' {
		t.Errorf("Value expected=%q, got=%q", 'é', c.Value)
	}
	if c.String() != "'é'" {
		t.Errorf("String() expected='é', got=%s", c.String())
	}
}

func TestTypesAndStatements(t *testing.T) {
	prog, diags := build(t, `program P;
konstanta N := 5; M := -N;
tipe Grid := larik[1..N] dari larik['a'..'c'] dari real; Small := 1..9; Alias := integer;
fungsi f(n: integer): boolean;
mulai f := n > 0 selesai;
mulai
  untuk i := 10 turun-ke 1 lakukan
    mulai
      selama tidak f(i) lakukan i := i - 1
    selesai;
  jika benar maka ; selain-itu writeln
selesai.`)
	checkDiagnostics(t, diags)

	items := prog.Declarations.Items
	if len(items) != 6 {
		t.Fatalf("expected=6 declarations, got=%d", len(items))
	}
	if m := items[1].(*ast.ConstDecl); m.Value.String() != "(-N)" {
		t.Errorf("M value expected=%q, got=%q", "(-N)", m.Value.String())
	}

	grid := items[2].(*ast.TypeDecl)
	if grid.ArrayType == nil || grid.ArrayType.Element == nil {
		t.Fatalf("Grid should be an array of arrays")
	}
	if grid.ArrayType.ElementType != "larik" || grid.ArrayType.Element.ElementType != "real" {
		t.Errorf("element types wrong: %s", grid.ArrayType)
	}
	if small := items[3].(*ast.TypeDecl); !small.IsSubrange() {
		t.Errorf("Small should be a subrange")
	}
	if alias := items[4].(*ast.TypeDecl); alias.TypeName != "integer" {
		t.Errorf("Alias expected=integer, got=%q", alias.TypeName)
	}
	if fn := items[5].(*ast.FunctionDecl); fn.ReturnType != "boolean" || len(fn.Params) != 1 {
		t.Errorf("function signature wrong: %s", fn)
	}

	stmts := prog.Block.Statements
	if len(stmts) != 2 {
		t.Fatalf("expected=2 statements, got=%d", len(stmts))
	}
	loop := stmts[0].(*ast.For)
	if loop.Ascending || loop.Counter.Name != "i" {
		t.Errorf("for loop wrong: %s", loop)
	}
	body, ok := loop.Body.(*ast.Block)
	if !ok || len(body.Statements) != 1 {
		t.Fatalf("for body should be a block with one statement, got=%T", loop.Body)
	}
	if _, ok := body.Statements[0].(*ast.While); !ok {
		t.Errorf("expected while inside loop body, got=%T", body.Statements[0])
	}

	branch := stmts[1].(*ast.If)
	if branch.Then != nil {
		t.Errorf("empty then branch should be nil, got=%s", branch.Then)
	}
	if call, ok := branch.Else.(*ast.ProcedureCall); !ok || call.Name != "writeln" {
		t.Errorf("else branch expected writeln call, got=%v", branch.Else)
	}
}

func TestMalformedSubtreeIsDropped(t *testing.T) {
	toks, err := lexer.New(`program P; mulai a := ; b := 1 selesai.`, nil).Tokenize()
	if err != nil {
		t.Fatal(err)
	}
	p := parser.New(toks)
	root, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("ParseProgram() error = %v", err)
	}
	if len(p.Errors()) == 0 {
		t.Fatalf("expected a syntax error")
	}

	prog, diags := Build(root)
	if len(diags) == 0 {
		t.Fatalf("expected a diagnostic for the missing operand")
	}
	if !strings.Contains(diags[0], "AST Error") {
		t.Errorf("diagnostic format wrong: %q", diags[0])
	}
	if len(prog.Block.Statements) != 1 {
		t.Fatalf("expected only the well-formed statement, got=%d", len(prog.Block.Statements))
	}
	if got := prog.Block.Statements[0].String(); got != "b := 1" {
		t.Errorf("surviving statement expected=%q, got=%q", "b := 1", got)
	}
}

func TestBuildNilRoot(t *testing.T) {
	prog, diags := Build(nil)
	if prog != nil {
		t.Errorf("expected nil program")
	}
	if len(diags) != 1 {
		t.Errorf("expected=1 diagnostic, got=%d", len(diags))
	}
}
