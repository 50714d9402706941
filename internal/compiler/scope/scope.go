// Package scope keeps the identifier, block and array tables of one
// compilation together with the display stack used to resolve names
// through nested blocks.
package scope

import (
	"fmt"

	"github.com/arnavsurve/kompas/internal/compiler/symbols"
)

// Tables is the symbol table state of one compilation. Tab[0] is reserved
// for the program entry and is never linked into a chain, so index 0 doubles
// as "not found". Btab[0] is the global block.
type Tables struct {
	Tab     []symbols.TabEntry
	Btab    []symbols.BlockEntry
	Atab    []symbols.ArrayEntry
	Display []int
	Level   int
}

func NewTables() *Tables {
	t := &Tables{}
	t.Reset()
	return t
}

// Reset clears every table and returns to the global block.
func (t *Tables) Reset() {
	t.Tab = []symbols.TabEntry{{Obj: symbols.ObjProgram, Nrm: symbols.Normal}}
	t.Btab = []symbols.BlockEntry{{}}
	t.Atab = nil
	t.Display = []int{0}
	t.Level = 0
}

// SetProgram fills the reserved program entry.
func (t *Tables) SetProgram(name string) {
	t.Tab[0] = symbols.TabEntry{Name: name, Obj: symbols.ObjProgram, Nrm: symbols.Normal, Initialized: true}
}

// CurrentBlock returns the block index active at the current level.
func (t *Tables) CurrentBlock() int {
	return t.Display[t.Level]
}

// NewBlock appends an empty block entry without entering it.
func (t *Tables) NewBlock() int {
	t.Btab = append(t.Btab, symbols.BlockEntry{})
	return len(t.Btab) - 1
}

// EnterBlock makes block the active scope one level deeper.
func (t *Tables) EnterBlock(block int) {
	t.Level++
	if t.Level < len(t.Display) {
		t.Display[t.Level] = block
		t.Display = t.Display[:t.Level+1]
	} else {
		t.Display = append(t.Display, block)
	}
}

// ExitBlock returns to the enclosing level. The global level is never
// exited.
func (t *Tables) ExitBlock() error {
	if t.Level == 0 {
		return fmt.Errorf("cannot exit the global block")
	}
	t.Level--
	t.Display = t.Display[:t.Level+1]
	return nil
}

// OpenScope creates a new block and enters it.
func (t *Tables) OpenScope() int {
	b := t.NewBlock()
	t.EnterBlock(b)
	return b
}

func (t *Tables) CloseScope() error {
	return t.ExitBlock()
}

// DuplicateError reports a name already declared in the current block.
type DuplicateError struct {
	Name     string
	Existing int
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("identifier '%s' already declared in this scope", e.Name)
}

// Insert appends an identifier to the current block and links it into the
// block's chain. It fails with a *DuplicateError when the block already has
// an entry with the same name.
func (t *Tables) Insert(name string, obj symbols.ObjKind, typ symbols.TypeCode, ref, nrm, adr int) (int, error) {
	if existing := t.LookupCurrentScope(name); existing != 0 {
		return 0, &DuplicateError{Name: name, Existing: existing}
	}
	block := t.CurrentBlock()
	t.Tab = append(t.Tab, symbols.TabEntry{
		Name: name,
		Link: t.Btab[block].Last,
		Obj:  obj,
		Type: typ,
		Ref:  ref,
		Nrm:  nrm,
		Lev:  t.Level,
		Adr:  adr,
	})
	idx := len(t.Tab) - 1
	t.Btab[block].Last = idx
	return idx, nil
}

// LookupCurrentScope searches only the current block.
func (t *Tables) LookupCurrentScope(name string) int {
	return t.lookupInBlock(t.CurrentBlock(), name)
}

// Lookup searches from the current level outward and returns the first
// match, or 0 when the name is not declared anywhere.
func (t *Tables) Lookup(name string) int {
	for lev := t.Level; lev >= 0; lev-- {
		if idx := t.lookupInBlock(t.Display[lev], name); idx != 0 {
			return idx
		}
	}
	return 0
}

func (t *Tables) lookupInBlock(block int, name string) int {
	for idx := t.Btab[block].Last; idx != 0; idx = t.Tab[idx].Link {
		if t.Tab[idx].Name == name {
			return idx
		}
	}
	return 0
}

// Entry returns a pointer to a table row for in-place updates.
func (t *Tables) Entry(idx int) *symbols.TabEntry {
	return &t.Tab[idx]
}

// Params returns the parameter entries of block in declaration order.
// Parameters are the first entries of their block, so they are the tail of
// the chain starting at lpar.
func (t *Tables) Params(block int) []int {
	var rev []int
	for idx := t.Btab[block].Lpar; idx != 0; idx = t.Tab[idx].Link {
		rev = append(rev, idx)
	}
	params := make([]int, len(rev))
	for i, idx := range rev {
		params[len(rev)-1-i] = idx
	}
	return params
}

// AddArray validates and appends an array descriptor. The size is derived
// from the bounds and the element size.
func (t *Tables) AddArray(xtyp, etyp symbols.TypeCode, eref, low, high, elsz int) (int, error) {
	if !xtyp.IsOrdinal() {
		return -1, fmt.Errorf("array index type must be ordinal, got %s", xtyp)
	}
	if !etyp.IsScalar() && etyp != symbols.Array {
		return -1, fmt.Errorf("array element type must be a scalar or array type, got %s", etyp)
	}
	if etyp == symbols.Array && (eref < 0 || eref >= len(t.Atab)) {
		return -1, fmt.Errorf("array element descriptor %d does not exist", eref)
	}
	if low > high {
		return -1, fmt.Errorf("array lower bound %d is greater than upper bound %d", low, high)
	}
	t.Atab = append(t.Atab, symbols.ArrayEntry{
		Xtyp: xtyp,
		Etyp: etyp,
		Eref: eref,
		Low:  low,
		High: high,
		Elsz: elsz,
		Size: (high - low + 1) * elsz,
	})
	return len(t.Atab) - 1, nil
}

// SizeOf returns the storage size of a value of type typ with auxiliary
// reference ref.
func (t *Tables) SizeOf(typ symbols.TypeCode, ref int) int {
	if typ == symbols.Array && ref >= 0 && ref < len(t.Atab) {
		return t.Atab[ref].Size
	}
	return symbols.ScalarSize
}
