package scope

import (
	"errors"
	"testing"

	"github.com/arnavsurve/kompas/internal/compiler/symbols"
)

func mustInsert(t *testing.T, tables *Tables, name string, obj symbols.ObjKind, typ symbols.TypeCode) int {
	t.Helper()
	idx, err := tables.Insert(name, obj, typ, 0, symbols.Normal, 0)
	if err != nil {
		t.Fatalf("Insert(%q) error = %v", name, err)
	}
	return idx
}

func TestResetState(t *testing.T) {
	tables := NewTables()
	mustInsert(t, tables, "x", symbols.ObjVariable, symbols.Integer)
	tables.OpenScope()
	if _, err := tables.AddArray(symbols.Integer, symbols.Char, 0, 1, 3, 1); err != nil {
		t.Fatal(err)
	}

	tables.Reset()
	if len(tables.Tab) != 1 || len(tables.Btab) != 1 || len(tables.Atab) != 0 {
		t.Errorf("tables not cleared: tab=%d btab=%d atab=%d", len(tables.Tab), len(tables.Btab), len(tables.Atab))
	}
	if tables.Level != 0 || len(tables.Display) != 1 || tables.Display[0] != 0 {
		t.Errorf("display not reset: level=%d display=%v", tables.Level, tables.Display)
	}
	if tables.Lookup("x") != 0 {
		t.Errorf("x survived reset")
	}
}

func TestInsertLinksChain(t *testing.T) {
	tables := NewTables()
	a := mustInsert(t, tables, "a", symbols.ObjVariable, symbols.Integer)
	b := mustInsert(t, tables, "b", symbols.ObjVariable, symbols.Real)

	if tables.Btab[0].Last != b {
		t.Errorf("btab[0].last expected=%d, got=%d", b, tables.Btab[0].Last)
	}
	if tables.Tab[b].Link != a || tables.Tab[a].Link != 0 {
		t.Errorf("chain wrong: b.link=%d a.link=%d", tables.Tab[b].Link, tables.Tab[a].Link)
	}

	_, err := tables.Insert("a", symbols.ObjVariable, symbols.Char, 0, symbols.Normal, 2)
	var dup *DuplicateError
	if !errors.As(err, &dup) {
		t.Fatalf("expected *DuplicateError, got=%v", err)
	}
	if dup.Existing != a {
		t.Errorf("duplicate should point at %d, got=%d", a, dup.Existing)
	}
	if len(tables.Tab) != 3 {
		t.Errorf("rejected insert must not append, tab has %d rows", len(tables.Tab))
	}
}

func TestShadowingAndDisplay(t *testing.T) {
	tables := NewTables()
	global := mustInsert(t, tables, "x", symbols.ObjVariable, symbols.Integer)

	block := tables.NewBlock()
	tables.EnterBlock(block)
	if tables.Level != 1 || len(tables.Display) != 2 || tables.CurrentBlock() != block {
		t.Fatalf("enter failed: level=%d display=%v", tables.Level, tables.Display)
	}
	local := mustInsert(t, tables, "x", symbols.ObjVariable, symbols.Real)

	if got := tables.Lookup("x"); got != local {
		t.Errorf("inner lookup expected=%d, got=%d", local, got)
	}
	if tables.Tab[local].Lev != 1 {
		t.Errorf("local lev expected=1, got=%d", tables.Tab[local].Lev)
	}
	if got := tables.LookupCurrentScope("y"); got != 0 {
		t.Errorf("missing name should return 0, got=%d", got)
	}

	if err := tables.ExitBlock(); err != nil {
		t.Fatal(err)
	}
	if got := tables.Lookup("x"); got != global {
		t.Errorf("outer lookup expected=%d, got=%d", global, got)
	}
	if len(tables.Display) != tables.Level+1 {
		t.Errorf("display has %d entries at level %d", len(tables.Display), tables.Level)
	}
	if err := tables.ExitBlock(); err == nil {
		t.Errorf("exiting the global block should fail")
	}
}

func TestParamsInDeclarationOrder(t *testing.T) {
	tables := NewTables()
	block := tables.OpenScope()
	p1 := mustInsert(t, tables, "p1", symbols.ObjVariable, symbols.Integer)
	p2 := mustInsert(t, tables, "p2", symbols.ObjVariable, symbols.Real)
	tables.Btab[block].Lpar = p2
	mustInsert(t, tables, "local", symbols.ObjVariable, symbols.Integer)

	params := tables.Params(block)
	if len(params) != 2 || params[0] != p1 || params[1] != p2 {
		t.Errorf("params expected=[%d %d], got=%v", p1, p2, params)
	}
	if got := tables.Params(0); len(got) != 0 {
		t.Errorf("global block has no params, got=%v", got)
	}
}

func TestAddArray(t *testing.T) {
	tests := []struct {
		name    string
		xtyp    symbols.TypeCode
		etyp    symbols.TypeCode
		eref    int
		low     int
		high    int
		elsz    int
		size    int
		wantErr bool
	}{
		{"integer index", symbols.Integer, symbols.Integer, 0, 1, 5, 1, 5, false},
		{"char index", symbols.Char, symbols.Real, 0, 'a', 'c', 1, 3, false},
		{"nested", symbols.Integer, symbols.Array, 0, 0, 3, 5, 20, false},
		{"real index", symbols.Real, symbols.Integer, 0, 1, 5, 1, 0, true},
		{"inverted bounds", symbols.Integer, symbols.Integer, 0, 5, 1, 1, 0, true},
		{"bad element", symbols.Integer, symbols.NoType, 0, 1, 5, 1, 0, true},
		{"missing eref", symbols.Integer, symbols.Array, 9, 1, 5, 1, 0, true},
	}

	tables := NewTables()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, err := tables.AddArray(tt.xtyp, tt.etyp, tt.eref, tt.low, tt.high, tt.elsz)
			if (err != nil) != tt.wantErr {
				t.Fatalf("AddArray() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got := tables.Atab[idx].Size; got != tt.size {
				t.Errorf("size expected=%d, got=%d", tt.size, got)
			}
			if got := tables.SizeOf(symbols.Array, idx); got != tt.size {
				t.Errorf("SizeOf expected=%d, got=%d", tt.size, got)
			}
		})
	}
}
