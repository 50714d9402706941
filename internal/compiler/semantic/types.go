package semantic

import (
	"github.com/arnavsurve/kompas/internal/compiler/ast"
	"github.com/arnavsurve/kompas/internal/compiler/symbols"
	"github.com/arnavsurve/kompas/internal/compiler/token"
)

// typeInfo is a resolved type. Ref is the array descriptor for arrays.
type typeInfo struct {
	code symbols.TypeCode
	ref  int
}

var (
	noType      = typeInfo{code: symbols.NoType}
	integerType = typeInfo{code: symbols.Integer}
	realType    = typeInfo{code: symbols.Real}
	booleanType = typeInfo{code: symbols.Boolean}
	charType    = typeInfo{code: symbols.Char}
	stringType  = typeInfo{code: symbols.String}
)

func (t typeInfo) String() string {
	return t.code.String()
}

// sameType is identity; arrays are identical when their descriptors have
// the same shape.
func (a *Analyzer) sameType(x, y typeInfo) bool {
	if x.code != y.code {
		return false
	}
	if x.code != symbols.Array {
		return true
	}
	return a.sameArray(x.ref, y.ref)
}

func (a *Analyzer) sameArray(i, j int) bool {
	if i == j {
		return true
	}
	x, y := a.tables.Atab[i], a.tables.Atab[j]
	if x.Xtyp != y.Xtyp || x.Etyp != y.Etyp || x.Low != y.Low || x.High != y.High {
		return false
	}
	if x.Etyp == symbols.Array {
		return a.sameArray(x.Eref, y.Eref)
	}
	return true
}

// assignable is identity plus widening an integer value into a real target.
func (a *Analyzer) assignable(target, value typeInfo) bool {
	if a.sameType(target, value) {
		return true
	}
	return target.code == symbols.Real && value.code == symbols.Integer
}

// comparableTypes accepts identical scalar types and any integer/real pair.
func comparableTypes(x, y typeInfo) bool {
	if x.code == symbols.Array || y.code == symbols.Array || x.code == symbols.NoType || y.code == symbols.NoType {
		return false
	}
	if x.code == y.code {
		return true
	}
	return x.code.IsNumeric() && y.code.IsNumeric()
}

// resolveType maps a declared type to a type code. Arrays are entered into
// the array table; other names must be scalar keywords or type names.
func (a *Analyzer) resolveType(name string, arr *ast.ArrayType, at token.Token) typeInfo {
	if arr != nil {
		return typeInfo{code: symbols.Array, ref: a.processArrayDeclaration(arr)}
	}
	if code, ok := symbols.ScalarCode(name); ok {
		return typeInfo{code: code}
	}

	idx := a.tables.Lookup(name)
	if idx == 0 {
		a.fail(UndefinedIdentifier, at, "undefined type '%s'", name)
	}
	e := a.entry(idx)
	if e.Obj != symbols.ObjType {
		a.fail(InvalidDeclaration, at, "'%s' is not a type", name)
	}
	return typeInfo{code: e.Type, ref: e.Ref}
}

// constant is the compile-time value of a constant expression.
type constant struct {
	typ     typeInfo
	ordinal int // value for ordinal types
}

// evalConstant folds literals, signed numbers and constant names. ok is
// false when expr is not a compile-time constant. Visited nodes are
// decorated.
func (a *Analyzer) evalConstant(expr ast.Expression) (constant, bool) {
	switch e := expr.(type) {
	case *ast.NumberLiteral:
		a.decorate(e, "integer", -1)
		return constant{typ: integerType, ordinal: int(e.Value)}, true
	case *ast.RealLiteral:
		a.decorate(e, "real", -1)
		return constant{typ: realType}, true
	case *ast.CharLiteral:
		a.decorate(e, "char", -1)
		return constant{typ: charType, ordinal: int(e.Value)}, true
	case *ast.BooleanLiteral:
		a.decorate(e, "boolean", -1)
		v := 0
		if e.Value {
			v = 1
		}
		return constant{typ: booleanType, ordinal: v}, true
	case *ast.StringLiteral:
		a.decorate(e, "string", -1)
		return constant{typ: stringType}, true
	case *ast.UnaryOp:
		if e.Op != "-" && e.Op != "+" {
			return constant{}, false
		}
		c, ok := a.evalConstant(e.Operand)
		if !ok || !c.typ.code.IsNumeric() {
			return constant{}, false
		}
		if e.Op == "-" {
			c.ordinal = -c.ordinal
		}
		a.decorate(e, c.typ.String(), -1)
		return c, true
	case *ast.Var:
		idx := a.tables.Lookup(e.Name)
		if idx == 0 {
			a.fail(UndefinedIdentifier, e.Token, "undefined identifier '%s'", e.Name)
		}
		entry := a.entry(idx)
		if entry.Obj != symbols.ObjConstant {
			return constant{}, false
		}
		a.decorate(e, entry.Type.String(), idx)
		e.ScopeLevel = entry.Lev
		return constant{typ: typeInfo{code: entry.Type}, ordinal: entry.Adr}, true
	}
	return constant{}, false
}
