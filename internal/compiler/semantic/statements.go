package semantic

import (
	"github.com/arnavsurve/kompas/internal/compiler/ast"
	"github.com/arnavsurve/kompas/internal/compiler/symbols"
)

func (a *Analyzer) visitBlockStatements(b *ast.Block) {
	a.decorate(b, "", -1)
	for _, s := range b.Statements {
		a.visitStatement(s)
	}
}

func (a *Analyzer) visitStatement(s ast.Statement) {
	switch s := s.(type) {
	case nil:
	case *ast.Block:
		a.visitBlockStatements(s)
	case *ast.Assign:
		a.visitAssign(s)
	case *ast.If:
		a.visitCondition(s.Condition, "if")
		a.decorate(s, "", -1)
		a.visitStatement(s.Then)
		a.visitStatement(s.Else)
	case *ast.While:
		a.visitCondition(s.Condition, "while")
		a.decorate(s, "", -1)
		a.visitStatement(s.Body)
	case *ast.For:
		a.visitFor(s)
	case *ast.ProcedureCall:
		a.visitCall(s, false)
	}
}

func (a *Analyzer) visitCondition(cond ast.Expression, stmt string) {
	typ := a.visitExpression(cond)
	if typ.code != symbols.Boolean {
		a.fail(NonBooleanCondition, tokenOf(cond), "condition of %s statement must be boolean, got %s", stmt, typ)
	}
}

// visitAssign checks the target kind first, then the value, then marks the
// target initialized.
func (a *Analyzer) visitAssign(s *ast.Assign) {
	var (
		target typeInfo
		idx    int
	)
	switch t := s.Target.(type) {
	case *ast.Var:
		target, idx = a.assignTarget(t)
	case *ast.ArrayAccess:
		target, idx = a.visitArrayAccess(t, false)
	default:
		a.fail(TypeMismatch, s.Token, "invalid assignment target %s", s.Target)
	}

	value := a.visitExpression(s.Value)
	if target.code == symbols.Integer && value.code == symbols.Real {
		a.fail(TypeMismatch, s.Token, "cannot assign real value to integer target '%s'", s.Target)
	}
	if !a.assignable(target, value) {
		a.fail(TypeMismatch, s.Token, "cannot assign %s value to %s target '%s'", value, target, s.Target)
	}

	a.entry(idx).Initialized = true
	a.decorate(s, target.String(), idx)
}

// assignTarget resolves a plain variable target. A function name is a
// valid target only inside that function's body, where it sets the result.
func (a *Analyzer) assignTarget(v *ast.Var) (typeInfo, int) {
	idx := a.tables.Lookup(v.Name)
	if idx == 0 {
		a.fail(UndefinedIdentifier, v.Token, "undefined identifier '%s'", v.Name)
	}
	entry := a.entry(idx)
	switch entry.Obj {
	case symbols.ObjVariable:
	case symbols.ObjFunction:
		if !a.insideFunction(idx) {
			a.fail(AssignToConstant, v.Token, "cannot assign to function '%s' outside its body", v.Name)
		}
	default:
		a.fail(AssignToConstant, v.Token, "cannot assign to %s '%s'", entry.Obj, v.Name)
	}

	typ := typeInfo{code: entry.Type}
	if entry.Type == symbols.Array {
		typ.ref = entry.Ref
	}
	a.decorate(v, typ.String(), idx)
	v.ScopeLevel = entry.Lev
	return typ, idx
}

func (a *Analyzer) visitFor(s *ast.For) {
	v := s.Counter
	idx := a.tables.Lookup(v.Name)
	if idx == 0 {
		a.fail(UndefinedIdentifier, v.Token, "undefined identifier '%s'", v.Name)
	}
	entry := a.entry(idx)
	if entry.Obj != symbols.ObjVariable {
		a.fail(InvalidLoopCounter, v.Token, "loop counter '%s' must be a variable, not a %s", v.Name, entry.Obj)
	}
	if !entry.Type.IsOrdinal() {
		a.fail(InvalidLoopCounter, v.Token, "loop counter '%s' must be of ordinal type, got %s", v.Name, entry.Type)
	}
	counter := typeInfo{code: entry.Type}
	a.decorate(v, counter.String(), idx)
	v.ScopeLevel = entry.Lev

	for _, bound := range []ast.Expression{s.Start, s.End} {
		if typ := a.visitExpression(bound); typ.code != counter.code {
			a.fail(TypeMismatch, tokenOf(bound), "loop bound must be %s like counter '%s', got %s", counter, v.Name, typ)
		}
	}

	entry.Initialized = true
	a.decorate(s, "", idx)
	a.visitStatement(s.Body)
}
