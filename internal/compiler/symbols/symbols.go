package symbols

import "fmt"

// ObjKind is what an identifier denotes.
type ObjKind int

const (
	ObjProgram ObjKind = iota
	ObjConstant
	ObjVariable
	ObjType
	ObjProcedure
	ObjFunction
)

var objNames = [...]string{"program", "constant", "variable", "type", "procedure", "function"}

func (o ObjKind) String() string {
	if int(o) < len(objNames) {
		return objNames[o]
	}
	return fmt.Sprintf("ObjKind(%d)", int(o))
}

func (o ObjKind) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

func (o *ObjKind) UnmarshalText(text []byte) error {
	for i, name := range objNames {
		if name == string(text) {
			*o = ObjKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown object kind %q", text)
}

// TypeCode identifies a type in the identifier and array tables.
type TypeCode int

const (
	NoType TypeCode = iota
	Integer
	Real
	Boolean
	Char
	Array
	String
)

var typeNames = [...]string{"notype", "integer", "real", "boolean", "char", "array", "string"}

func (t TypeCode) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("TypeCode(%d)", int(t))
}

func (t TypeCode) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *TypeCode) UnmarshalText(text []byte) error {
	for i, name := range typeNames {
		if name == string(text) {
			*t = TypeCode(i)
			return nil
		}
	}
	return fmt.Errorf("unknown type code %q", text)
}

// IsOrdinal reports whether values of t are countable: integer, char or
// boolean.
func (t TypeCode) IsOrdinal() bool {
	return t == Integer || t == Char || t == Boolean
}

func (t TypeCode) IsNumeric() bool {
	return t == Integer || t == Real
}

// IsScalar reports whether t may be an array element type.
func (t TypeCode) IsScalar() bool {
	return t == Integer || t == Real || t == Boolean || t == Char
}

// ScalarCode maps a built-in type keyword to its code.
func ScalarCode(name string) (TypeCode, bool) {
	switch name {
	case "integer":
		return Integer, true
	case "real":
		return Real, true
	case "boolean":
		return Boolean, true
	case "char":
		return Char, true
	}
	return NoType, false
}

// Every scalar occupies one storage unit.
const ScalarSize = 1

// Values for the nrm field.
const (
	ByReference = 0
	Normal      = 1
)

// TabEntry is one row of the identifier table. Link chains the entries of
// one block, most recent first; 0 ends the chain.
type TabEntry struct {
	Name        string   `yaml:"name"`
	Link        int      `yaml:"link"`
	Obj         ObjKind  `yaml:"obj"`
	Type        TypeCode `yaml:"type"`
	Ref         int      `yaml:"ref"`
	Nrm         int      `yaml:"nrm"`
	Lev         int      `yaml:"lev"`
	Adr         int      `yaml:"adr"`
	Initialized bool     `yaml:"initialized"`
}

// BlockEntry is one row of the block table.
type BlockEntry struct {
	Last int `yaml:"last"`
	Lpar int `yaml:"lpar"`
	Psze int `yaml:"psze"`
	Vsze int `yaml:"vsze"`
}

// ArrayEntry describes one array type. Eref points at the descriptor of
// the element type when the element is itself an array.
type ArrayEntry struct {
	Xtyp TypeCode `yaml:"xtyp"`
	Etyp TypeCode `yaml:"etyp"`
	Eref int      `yaml:"eref"`
	Low  int      `yaml:"low"`
	High int      `yaml:"high"`
	Elsz int      `yaml:"elsz"`
	Size int      `yaml:"size"`
}
