package semantic

import (
	"errors"

	"github.com/arnavsurve/kompas/internal/compiler/ast"
	"github.com/arnavsurve/kompas/internal/compiler/scope"
	"github.com/arnavsurve/kompas/internal/compiler/symbols"
	"github.com/arnavsurve/kompas/internal/compiler/token"
)

func (a *Analyzer) visitDeclarations(decls *ast.Declarations) {
	if decls == nil {
		return
	}
	a.decorate(decls, "", -1)
	for _, d := range decls.Items {
		switch d := d.(type) {
		case *ast.ConstDecl:
			a.visitConstDecl(d)
		case *ast.TypeDecl:
			a.visitTypeDecl(d)
		case *ast.VarDecl:
			a.visitVarDecl(d)
		case *ast.ProcedureDecl:
			a.visitSubprogram(d, d.Token, d.Name, d.Params, "", d.Body)
		case *ast.FunctionDecl:
			a.visitSubprogram(d, d.Token, d.Name, d.Params, d.ReturnType, d.Body)
		}
	}
}

// checkUnique reports a name already declared in the current block.
func (a *Analyzer) checkUnique(name string, at token.Token) {
	if a.tables.LookupCurrentScope(name) != 0 {
		a.fail(DuplicateDeclaration, at, "identifier '%s' already declared in this scope", name)
	}
}

// insert enters a name into the current block.
func (a *Analyzer) insert(name string, at token.Token, obj symbols.ObjKind, typ typeInfo, nrm, adr int) int {
	idx, err := a.tables.Insert(name, obj, typ.code, typ.ref, nrm, adr)
	if err != nil {
		var dup *scope.DuplicateError
		if errors.As(err, &dup) {
			a.fail(DuplicateDeclaration, at, "%s", err.Error())
		}
		a.fail(InvalidDeclaration, at, "%s", err.Error())
	}
	a.logger.Debug("insert", "name", name, "index", idx, "obj", obj, "type", typ.code, "level", a.level(), "adr", adr)
	return idx
}

func (a *Analyzer) visitConstDecl(d *ast.ConstDecl) {
	a.checkUnique(d.Name, d.Token)
	c, ok := a.evalConstant(d.Value)
	if !ok {
		a.fail(InvalidDeclaration, d.Token, "value of constant '%s' must be a literal or another constant", d.Name)
	}
	idx := a.insert(d.Name, d.Token, symbols.ObjConstant, c.typ, symbols.Normal, c.ordinal)
	a.entry(idx).Initialized = true
	a.decorate(d, c.typ.String(), idx)
}

func (a *Analyzer) visitTypeDecl(d *ast.TypeDecl) {
	a.checkUnique(d.Name, d.Token)

	var typ typeInfo
	if d.IsSubrange() {
		typ = a.subrangeType(d)
	} else {
		typ = a.resolveType(d.TypeName, d.ArrayType, d.Token)
	}
	idx := a.insert(d.Name, d.Token, symbols.ObjType, typ, symbols.Normal, 0)
	a.entry(idx).Initialized = true
	a.decorate(d, typ.String(), idx)
}

// subrangeType validates lo..hi and yields the bounds' ordinal type.
func (a *Analyzer) subrangeType(d *ast.TypeDecl) typeInfo {
	low, okLow := a.evalConstant(d.Low)
	high, okHigh := a.evalConstant(d.High)
	if !okLow || !okHigh {
		a.fail(InvalidDeclaration, d.Token, "bounds of subrange '%s' must be constants", d.Name)
	}
	if !low.typ.code.IsOrdinal() || low.typ.code != high.typ.code {
		a.fail(TypeMismatch, d.Token, "bounds of subrange '%s' must share one ordinal type, got %s and %s", d.Name, low.typ, high.typ)
	}
	if low.ordinal > high.ordinal {
		a.fail(InvalidDeclaration, d.Token, "subrange '%s' has lower bound %d greater than upper bound %d", d.Name, low.ordinal, high.ordinal)
	}
	return low.typ
}

func (a *Analyzer) visitVarDecl(d *ast.VarDecl) {
	for _, name := range d.Names {
		a.checkUnique(name, d.Token)
		typ := a.resolveType(d.TypeName, d.ArrayType, d.Token)

		block := a.tables.CurrentBlock()
		adr := a.tables.Btab[block].Vsze
		idx := a.insert(name, d.Token, symbols.ObjVariable, typ, symbols.Normal, adr)
		a.tables.Btab[block].Vsze += a.tables.SizeOf(typ.code, typ.ref)
		a.decorate(d, typ.String(), idx)
	}
}

// visitSubprogram enters a procedure (returnType empty) or function into the
// enclosing block, then analyzes its parameters and body in a new block.
func (a *Analyzer) visitSubprogram(d ast.Declaration, at token.Token, name string, params []*ast.Param, returnType string, body *ast.Block) {
	a.checkUnique(name, at)

	obj, result := symbols.ObjProcedure, noType
	if returnType != "" {
		obj = symbols.ObjFunction
		result = a.resolveType(returnType, nil, at)
		if !result.code.IsScalar() {
			a.fail(InvalidDeclaration, at, "function '%s' must return a scalar type, got %s", name, result)
		}
	}

	block := a.tables.NewBlock()
	idx := a.insert(name, at, obj, typeInfo{code: result.code, ref: block}, symbols.Normal, 0)
	a.entry(idx).Initialized = true
	a.decorate(d, dataTypeName(result), idx)

	a.tables.EnterBlock(block)
	a.logger.Debug("enter block", "block", block, "level", a.level(), "owner", name)
	for _, p := range params {
		a.visitParam(block, p)
	}

	if obj == symbols.ObjFunction {
		a.functions = append(a.functions, idx)
	}
	if body != nil {
		a.visitDeclarations(body.Declarations)
		a.visitBlockStatements(body)
	}
	if obj == symbols.ObjFunction {
		a.functions = a.functions[:len(a.functions)-1]
	}
	a.exitBlock(block)
}

func (a *Analyzer) visitParam(block int, p *ast.Param) {
	a.checkUnique(p.Name, p.Token)
	typ := a.resolveType(p.TypeName, p.ArrayType, p.Token)

	nrm, size := symbols.Normal, a.tables.SizeOf(typ.code, typ.ref)
	if p.ByRef {
		nrm, size = symbols.ByReference, symbols.ScalarSize
	}
	idx := a.insert(p.Name, p.Token, symbols.ObjVariable, typ, nrm, a.tables.Btab[block].Psze)
	a.entry(idx).Initialized = true

	b := &a.tables.Btab[block]
	b.Psze += size
	b.Lpar = idx
	a.decorate(p, typ.String(), idx)
}

// dataTypeName is the decoration for a type; no type decorates as empty.
func dataTypeName(t typeInfo) string {
	if t.code == symbols.NoType {
		return ""
	}
	return t.String()
}
