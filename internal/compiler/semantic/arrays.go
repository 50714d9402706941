package semantic

import (
	"github.com/arnavsurve/kompas/internal/compiler/ast"
	"github.com/arnavsurve/kompas/internal/compiler/symbols"
)

// processArrayDeclaration validates an array type and appends its
// descriptor, returning the descriptor index. Nested element arrays are
// entered first and referenced through eref.
func (a *Analyzer) processArrayDeclaration(arr *ast.ArrayType) int {
	low, okLow := a.evalConstant(arr.Low)
	high, okHigh := a.evalConstant(arr.High)
	if !okLow || !okHigh {
		a.fail(InvalidArrayIndex, arr.Token, "array bounds must be ordinal constants")
	}
	if !low.typ.code.IsOrdinal() || !high.typ.code.IsOrdinal() {
		a.fail(InvalidArrayIndex, arr.Token, "array index type must be ordinal, got %s..%s", low.typ, high.typ)
	}
	if low.typ.code != high.typ.code {
		a.fail(InvalidArrayIndex, arr.Token, "array bounds must share one index type, got %s and %s", low.typ, high.typ)
	}
	if low.ordinal > high.ordinal {
		a.fail(InvalidArrayIndex, arr.Token, "array lower bound %d is greater than upper bound %d", low.ordinal, high.ordinal)
	}

	var elem typeInfo
	if arr.Element != nil {
		elem = typeInfo{code: symbols.Array, ref: a.processArrayDeclaration(arr.Element)}
	} else {
		elem = a.resolveType(arr.ElementType, nil, arr.Token)
	}
	if !elem.code.IsScalar() && elem.code != symbols.Array {
		a.fail(InvalidDeclaration, arr.Token, "array element type must be a scalar type, got %s", elem)
	}

	eref := 0
	if elem.code == symbols.Array {
		eref = elem.ref
	}
	idx, err := a.tables.AddArray(low.typ.code, elem.code, eref, low.ordinal, high.ordinal, a.tables.SizeOf(elem.code, elem.ref))
	if err != nil {
		a.fail(InvalidDeclaration, arr.Token, "%s", err.Error())
	}
	a.logger.Debug("array", "index", idx, "xtyp", low.typ.code, "etyp", elem.code, "low", low.ordinal, "high", high.ordinal)
	a.decorate(arr, "array", idx)
	return idx
}

// visitArrayAccess checks name[index] and returns the element type. Reading
// an element of a never assigned array is an error.
func (a *Analyzer) visitArrayAccess(e *ast.ArrayAccess, reading bool) (typeInfo, int) {
	idx := a.tables.Lookup(e.Name)
	if idx == 0 {
		a.fail(UndefinedIdentifier, e.Token, "undefined identifier '%s'", e.Name)
	}
	entry := a.entry(idx)
	if entry.Type != symbols.Array || (entry.Obj != symbols.ObjVariable && entry.Obj != symbols.ObjConstant) {
		a.fail(NotAnArray, e.Token, "'%s' is not an array", e.Name)
	}
	if reading && !entry.Initialized {
		a.fail(UninitializedVariable, e.Token, "array '%s' might be used before being assigned a value", e.Name)
	}

	desc := a.tables.Atab[entry.Ref]
	indexType := a.visitExpression(e.Index)
	if indexType.code != desc.Xtyp {
		a.fail(InvalidArrayIndex, e.Token, "index of '%s' must be %s, got %s", e.Name, desc.Xtyp, indexType)
	}
	if c, ok := a.evalConstant(e.Index); ok {
		if c.ordinal < desc.Low || c.ordinal > desc.High {
			a.fail(InvalidArrayIndex, e.Token, "index %d out of bounds [%d..%d] for '%s'", c.ordinal, desc.Low, desc.High, e.Name)
		}
	}

	elem := typeInfo{code: desc.Etyp}
	if desc.Etyp == symbols.Array {
		elem.ref = desc.Eref
	}
	a.decorate(e, elem.String(), idx)
	e.ScopeLevel = entry.Lev
	return elem, idx
}
