package semantic

import (
	"github.com/arnavsurve/kompas/internal/compiler/ast"
	"github.com/arnavsurve/kompas/internal/compiler/symbols"
	"github.com/arnavsurve/kompas/internal/compiler/token"
)

// visitExpression infers the type of e, records it as e's DataType and
// returns it.
func (a *Analyzer) visitExpression(e ast.Expression) typeInfo {
	switch e := e.(type) {
	case *ast.NumberLiteral:
		a.decorate(e, "integer", -1)
		return integerType
	case *ast.RealLiteral:
		a.decorate(e, "real", -1)
		return realType
	case *ast.StringLiteral:
		a.decorate(e, "string", -1)
		return stringType
	case *ast.CharLiteral:
		a.decorate(e, "char", -1)
		return charType
	case *ast.BooleanLiteral:
		a.decorate(e, "boolean", -1)
		return booleanType
	case *ast.Var:
		return a.visitVar(e)
	case *ast.ArrayAccess:
		typ, _ := a.visitArrayAccess(e, true)
		return typ
	case *ast.ProcedureCall:
		return a.visitCall(e, true)
	case *ast.BinOp:
		return a.visitBinOp(e)
	case *ast.UnaryOp:
		return a.visitUnaryOp(e)
	}
	a.fail(TypeMismatch, tokenOf(e), "unsupported expression %s", e)
	return noType
}

func (a *Analyzer) visitVar(v *ast.Var) typeInfo {
	idx := a.tables.Lookup(v.Name)
	if idx == 0 {
		if builtins[v.Name] {
			a.fail(TypeMismatch, v.Token, "procedure '%s' cannot be used as a value", v.Name)
		}
		a.fail(UndefinedIdentifier, v.Token, "undefined identifier '%s'", v.Name)
	}
	entry := a.entry(idx)

	var typ typeInfo
	switch entry.Obj {
	case symbols.ObjConstant:
		typ = typeInfo{code: entry.Type}
	case symbols.ObjVariable:
		if !entry.Initialized {
			a.fail(UninitializedVariable, v.Token, "variable '%s' might be used before being assigned a value", v.Name)
		}
		typ = typeInfo{code: entry.Type}
		if entry.Type == symbols.Array {
			typ.ref = entry.Ref
		}
	case symbols.ObjFunction:
		// a bare function name is a call without arguments
		if n := len(a.tables.Params(entry.Ref)); n != 0 {
			a.fail(WrongArity, v.Token, "function '%s' expects %d arguments, got 0", v.Name, n)
		}
		typ = typeInfo{code: entry.Type}
	default:
		a.fail(TypeMismatch, v.Token, "%s '%s' cannot be used as a value", entry.Obj, v.Name)
	}

	a.decorate(v, typ.String(), idx)
	v.ScopeLevel = entry.Lev
	return typ
}

// visitCall checks a procedure or function call. asValue requires a
// function. Built-in I/O procedures accept any number of arguments.
func (a *Analyzer) visitCall(c *ast.ProcedureCall, asValue bool) typeInfo {
	idx := a.tables.Lookup(c.Name)
	if idx == 0 {
		if builtins[c.Name] {
			return a.visitBuiltinCall(c, asValue)
		}
		a.fail(UndefinedIdentifier, c.Token, "undefined identifier '%s'", c.Name)
	}

	entry := a.entry(idx)
	if entry.Obj != symbols.ObjProcedure && entry.Obj != symbols.ObjFunction {
		a.fail(NotCallable, c.Token, "'%s' is a %s, not a procedure or function", c.Name, entry.Obj)
	}
	if asValue && entry.Obj != symbols.ObjFunction {
		a.fail(TypeMismatch, c.Token, "procedure '%s' cannot be used as a value", c.Name)
	}

	params := a.tables.Params(entry.Ref)
	if len(c.Args) != len(params) {
		a.fail(WrongArity, c.Token, "%s '%s' expects %d arguments, got %d", entry.Obj, c.Name, len(params), len(c.Args))
	}
	for i, arg := range c.Args {
		a.visitArgument(c, i, arg, a.entry(params[i]))
	}

	result := typeInfo{code: symbols.NoType}
	if entry.Obj == symbols.ObjFunction {
		result.code = entry.Type
	}
	a.decorate(c, dataTypeName(result), idx)
	return result
}

// visitArgument checks one argument against its parameter. Reference
// parameters need a variable of the identical type, which counts as
// assigned afterwards.
func (a *Analyzer) visitArgument(c *ast.ProcedureCall, i int, arg ast.Expression, param *symbols.TabEntry) {
	want := typeInfo{code: param.Type}
	if param.Type == symbols.Array {
		want.ref = param.Ref
	}

	if param.Nrm == symbols.ByReference {
		got, idx := a.visitVariableArgument(c, i, arg)
		if !a.sameType(want, got) {
			a.fail(TypeMismatch, tokenOf(arg), "argument %d of '%s' must be %s, got %s", i+1, c.Name, want, got)
		}
		a.entry(idx).Initialized = true
		return
	}

	got := a.visitExpression(arg)
	if !a.assignable(want, got) {
		a.fail(TypeMismatch, tokenOf(arg), "argument %d of '%s' must be %s, got %s", i+1, c.Name, want, got)
	}
}

// visitVariableArgument resolves an argument that must denote a variable
// without requiring it to hold a value yet.
func (a *Analyzer) visitVariableArgument(c *ast.ProcedureCall, i int, arg ast.Expression) (typeInfo, int) {
	switch v := arg.(type) {
	case *ast.Var:
		idx := a.tables.Lookup(v.Name)
		if idx == 0 {
			a.fail(UndefinedIdentifier, v.Token, "undefined identifier '%s'", v.Name)
		}
		entry := a.entry(idx)
		if entry.Obj != symbols.ObjVariable {
			break
		}
		typ := typeInfo{code: entry.Type}
		if entry.Type == symbols.Array {
			typ.ref = entry.Ref
		}
		a.decorate(v, typ.String(), idx)
		v.ScopeLevel = entry.Lev
		return typ, idx
	case *ast.ArrayAccess:
		return a.visitArrayAccess(v, false)
	}
	a.fail(TypeMismatch, tokenOf(arg), "argument %d of '%s' must be a variable", i+1, c.Name)
	return noType, 0
}

func (a *Analyzer) visitBuiltinCall(c *ast.ProcedureCall, asValue bool) typeInfo {
	if asValue {
		a.fail(TypeMismatch, c.Token, "procedure '%s' cannot be used as a value", c.Name)
	}
	input := c.Name == "read" || c.Name == "readln"
	for i, arg := range c.Args {
		if input {
			_, idx := a.visitVariableArgument(c, i, arg)
			a.entry(idx).Initialized = true
			continue
		}
		a.visitExpression(arg)
	}
	a.decorate(c, "", -1)
	return noType
}

func (a *Analyzer) visitBinOp(e *ast.BinOp) typeInfo {
	left := a.visitExpression(e.Left)
	right := a.visitExpression(e.Right)

	var result typeInfo
	switch e.Op {
	case "+", "-", "*", "/":
		if !left.code.IsNumeric() || !right.code.IsNumeric() {
			a.fail(TypeMismatch, e.Token, "operator '%s' needs numeric operands, got %s and %s", e.Op, left, right)
		}
		result = integerType
		if left.code == symbols.Real || right.code == symbols.Real {
			result = realType
		}
	case "bagi", "mod":
		if left.code != symbols.Integer || right.code != symbols.Integer {
			a.fail(TypeMismatch, e.Token, "operator '%s' needs integer operands, got %s and %s", e.Op, left, right)
		}
		result = integerType
	case "dan", "atau":
		if left.code != symbols.Boolean || right.code != symbols.Boolean {
			a.fail(TypeMismatch, e.Token, "operator '%s' needs boolean operands, got %s and %s", e.Op, left, right)
		}
		result = booleanType
	case "=", "<>", "<", "<=", ">", ">=":
		if !comparableTypes(left, right) {
			a.fail(TypeMismatch, e.Token, "cannot compare %s with %s", left, right)
		}
		result = booleanType
	default:
		a.fail(TypeMismatch, e.Token, "unknown operator '%s'", e.Op)
	}

	a.decorate(e, result.String(), -1)
	return result
}

func (a *Analyzer) visitUnaryOp(e *ast.UnaryOp) typeInfo {
	operand := a.visitExpression(e.Operand)
	switch e.Op {
	case "tidak":
		if operand.code != symbols.Boolean {
			a.fail(TypeMismatch, e.Token, "operator 'tidak' needs a boolean operand, got %s", operand)
		}
	case "-", "+":
		if !operand.code.IsNumeric() {
			a.fail(TypeMismatch, e.Token, "unary '%s' needs a numeric operand, got %s", e.Op, operand)
		}
	default:
		a.fail(TypeMismatch, e.Token, "unknown operator '%s'", e.Op)
	}
	a.decorate(e, operand.String(), -1)
	return operand
}

// tokenOf returns the position token of an expression, if any.
func tokenOf(e ast.Expression) token.Token {
	switch e := e.(type) {
	case *ast.NumberLiteral:
		return e.Token
	case *ast.RealLiteral:
		return e.Token
	case *ast.StringLiteral:
		return e.Token
	case *ast.CharLiteral:
		return e.Token
	case *ast.BooleanLiteral:
		return e.Token
	case *ast.Var:
		return e.Token
	case *ast.ArrayAccess:
		return e.Token
	case *ast.ProcedureCall:
		return e.Token
	case *ast.BinOp:
		return tokenOf(e.Left)
	case *ast.UnaryOp:
		return e.Token
	}
	return token.Token{}
}
