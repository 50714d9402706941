package ast

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/arnavsurve/kompas/internal/compiler/token"
)

// --- Interfaces ---
type Node interface {
	TokenLiteral() string
	String() string
	Decorated() *Decoration
}

type Statement interface {
	Node
	statementNode()
}

type Expression interface {
	Node
	expressionNode()
}

type Declaration interface {
	Node
	declarationNode()
}

// Decoration is filled in by semantic analysis. SymbolIndex and ScopeLevel
// are -1 until the node is resolved or visited.
type Decoration struct {
	DataType    string
	SymbolIndex int
	ScopeLevel  int
}

func (d *Decoration) Decorated() *Decoration { return d }

// New resets the decoration of n to the unresolved state and returns n.
func New[T Node](n T) T {
	*n.Decorated() = Decoration{SymbolIndex: -1, ScopeLevel: -1}
	return n
}

// --- Program ---
type Program struct {
	Decoration
	Token        token.Token // program
	Name         string
	Declarations *Declarations
	Block        *Block
}

func (p *Program) TokenLiteral() string { return p.Token.Literal }
func (p *Program) String() string {
	var out bytes.Buffer
	out.WriteString("program " + p.Name + ";\n")
	if p.Declarations != nil {
		out.WriteString(p.Declarations.String())
	}
	if p.Block != nil {
		out.WriteString(p.Block.String())
	}
	out.WriteString(".")
	return out.String()
}

type Declarations struct {
	Decoration
	Token token.Token
	Items []Declaration
}

func (d *Declarations) TokenLiteral() string { return d.Token.Literal }
func (d *Declarations) String() string {
	var out bytes.Buffer
	for _, item := range d.Items {
		out.WriteString(item.String())
		out.WriteString("\n")
	}
	return out.String()
}

// Block is a compound statement, optionally preceded by local declarations.
// Nested compound statements are Blocks without declarations.
type Block struct {
	Decoration
	Token        token.Token // mulai
	Declarations *Declarations
	Statements   []Statement
}

func (b *Block) statementNode()       {}
func (b *Block) TokenLiteral() string { return b.Token.Literal }
func (b *Block) String() string {
	var out bytes.Buffer
	if b.Declarations != nil {
		out.WriteString(b.Declarations.String())
	}
	out.WriteString("mulai ")
	parts := make([]string, 0, len(b.Statements))
	for _, s := range b.Statements {
		parts = append(parts, s.String())
	}
	out.WriteString(strings.Join(parts, "; "))
	out.WriteString(" selesai")
	return out.String()
}

// --- Declarations ---

// VarDecl declares one variable. Names always holds exactly one name.
type VarDecl struct {
	Decoration
	Token     token.Token
	Names     []string
	TypeName  string
	ArrayType *ArrayType // set when TypeName is "larik"
}

func (vd *VarDecl) declarationNode()     {}
func (vd *VarDecl) TokenLiteral() string { return vd.Token.Literal }
func (vd *VarDecl) Name() string {
	if len(vd.Names) == 0 {
		return ""
	}
	return vd.Names[0]
}
func (vd *VarDecl) String() string {
	return "variabel " + strings.Join(vd.Names, ", ") + ": " + typeString(vd.TypeName, vd.ArrayType) + ";"
}

type ConstDecl struct {
	Decoration
	Token token.Token
	Name  string
	Value Expression
}

func (cd *ConstDecl) declarationNode()     {}
func (cd *ConstDecl) TokenLiteral() string { return cd.Token.Literal }
func (cd *ConstDecl) String() string {
	value := ""
	if cd.Value != nil {
		value = cd.Value.String()
	}
	return "konstanta " + cd.Name + " := " + value + ";"
}

// TypeDecl names a scalar alias, an array type or a subrange.
type TypeDecl struct {
	Decoration
	Token     token.Token
	Name      string
	TypeName  string     // scalar or alias name; "larik" for arrays; empty for subranges
	ArrayType *ArrayType // array definition
	Low, High Expression // subrange bounds
}

func (td *TypeDecl) declarationNode()     {}
func (td *TypeDecl) TokenLiteral() string { return td.Token.Literal }
func (td *TypeDecl) IsSubrange() bool     { return td.Low != nil && td.High != nil }
func (td *TypeDecl) String() string {
	def := typeString(td.TypeName, td.ArrayType)
	if td.IsSubrange() {
		def = td.Low.String() + ".." + td.High.String()
	}
	return "tipe " + td.Name + " := " + def + ";"
}

// ArrayType is larik[Low..High] dari ElementType. Element is set when the
// element type is itself an array.
type ArrayType struct {
	Decoration
	Token       token.Token // larik
	Low         Expression
	High        Expression
	ElementType string
	Element     *ArrayType
}

func (at *ArrayType) TokenLiteral() string { return at.Token.Literal }
func (at *ArrayType) String() string {
	var out bytes.Buffer
	out.WriteString("larik[")
	if at.Low != nil {
		out.WriteString(at.Low.String())
	}
	out.WriteString("..")
	if at.High != nil {
		out.WriteString(at.High.String())
	}
	out.WriteString("] dari ")
	out.WriteString(typeString(at.ElementType, at.Element))
	return out.String()
}

// Param is one formal parameter.
type Param struct {
	Decoration
	Token     token.Token
	Name      string
	TypeName  string
	ArrayType *ArrayType
	ByRef     bool
}

func (p *Param) TokenLiteral() string { return p.Token.Literal }
func (p *Param) String() string {
	prefix := ""
	if p.ByRef {
		prefix = "variabel "
	}
	return prefix + p.Name + ": " + typeString(p.TypeName, p.ArrayType)
}

type ProcedureDecl struct {
	Decoration
	Token  token.Token // prosedur
	Name   string
	Params []*Param
	Body   *Block
}

func (pd *ProcedureDecl) declarationNode()     {}
func (pd *ProcedureDecl) TokenLiteral() string { return pd.Token.Literal }
func (pd *ProcedureDecl) String() string {
	var out bytes.Buffer
	out.WriteString("prosedur " + pd.Name + paramsString(pd.Params) + ";\n")
	if pd.Body != nil {
		out.WriteString(pd.Body.String())
	}
	out.WriteString(";")
	return out.String()
}

type FunctionDecl struct {
	Decoration
	Token      token.Token // fungsi
	Name       string
	Params     []*Param
	ReturnType string
	Body       *Block
}

func (fd *FunctionDecl) declarationNode()     {}
func (fd *FunctionDecl) TokenLiteral() string { return fd.Token.Literal }
func (fd *FunctionDecl) String() string {
	var out bytes.Buffer
	out.WriteString("fungsi " + fd.Name + paramsString(fd.Params) + ": " + fd.ReturnType + ";\n")
	if fd.Body != nil {
		out.WriteString(fd.Body.String())
	}
	out.WriteString(";")
	return out.String()
}

// --- Statements ---

// Assign -> x := 1 or a[i] := 1. Target is a *Var or an *ArrayAccess.
type Assign struct {
	Decoration
	Token  token.Token // :=
	Target Expression
	Value  Expression
}

func (a *Assign) statementNode()       {}
func (a *Assign) TokenLiteral() string { return a.Token.Literal }
func (a *Assign) String() string {
	return exprString(a.Target) + " := " + exprString(a.Value)
}

type If struct {
	Decoration
	Token     token.Token // jika
	Condition Expression
	Then      Statement
	Else      Statement
}

func (i *If) statementNode()       {}
func (i *If) TokenLiteral() string { return i.Token.Literal }
func (i *If) String() string {
	var out bytes.Buffer
	out.WriteString("jika " + exprString(i.Condition) + " maka ")
	if i.Then != nil {
		out.WriteString(i.Then.String())
	}
	if i.Else != nil {
		out.WriteString(" selain-itu " + i.Else.String())
	}
	return out.String()
}

type While struct {
	Decoration
	Token     token.Token // selama
	Condition Expression
	Body      Statement
}

func (w *While) statementNode()       {}
func (w *While) TokenLiteral() string { return w.Token.Literal }
func (w *While) String() string {
	body := ""
	if w.Body != nil {
		body = w.Body.String()
	}
	return "selama " + exprString(w.Condition) + " lakukan " + body
}

type For struct {
	Decoration
	Token     token.Token // untuk
	Counter   *Var
	Start     Expression
	End       Expression
	Ascending bool // ke; false for turun-ke
	Body      Statement
}

func (f *For) statementNode()       {}
func (f *For) TokenLiteral() string { return f.Token.Literal }
func (f *For) String() string {
	dir := "ke"
	if !f.Ascending {
		dir = "turun-ke"
	}
	body := ""
	if f.Body != nil {
		body = f.Body.String()
	}
	counter := ""
	if f.Counter != nil {
		counter = f.Counter.String()
	}
	return "untuk " + counter + " := " + exprString(f.Start) + " " + dir + " " + exprString(f.End) + " lakukan " + body
}

// ProcedureCall is both a statement and, for functions, an expression.
type ProcedureCall struct {
	Decoration
	Token token.Token // the name
	Name  string
	Args  []Expression
}

func (pc *ProcedureCall) statementNode()       {}
func (pc *ProcedureCall) expressionNode()      {}
func (pc *ProcedureCall) TokenLiteral() string { return pc.Token.Literal }
func (pc *ProcedureCall) String() string {
	args := make([]string, 0, len(pc.Args))
	for _, a := range pc.Args {
		args = append(args, exprString(a))
	}
	return pc.Name + "(" + strings.Join(args, ", ") + ")"
}

// --- Expressions ---

type NumberLiteral struct {
	Decoration
	Token token.Token
	Value int64
}

func (nl *NumberLiteral) expressionNode()      {}
func (nl *NumberLiteral) TokenLiteral() string { return nl.Token.Literal }
func (nl *NumberLiteral) String() string       { return strconv.FormatInt(nl.Value, 10) }

type RealLiteral struct {
	Decoration
	Token token.Token
	Value float64
}

func (rl *RealLiteral) expressionNode()      {}
func (rl *RealLiteral) TokenLiteral() string { return rl.Token.Literal }
func (rl *RealLiteral) String() string       { return rl.Token.Literal }

type StringLiteral struct {
	Decoration
	Token token.Token
	Value string
}

func (sl *StringLiteral) expressionNode()      {}
func (sl *StringLiteral) TokenLiteral() string { return sl.Token.Literal }
func (sl *StringLiteral) String() string       { return quote(sl.Value) }

type CharLiteral struct {
	Decoration
	Token token.Token
	Value rune
}

func (cl *CharLiteral) expressionNode()      {}
func (cl *CharLiteral) TokenLiteral() string { return cl.Token.Literal }
func (cl *CharLiteral) String() string       { return quote(string(cl.Value)) }

type BooleanLiteral struct {
	Decoration
	Token token.Token // benar or salah
	Value bool
}

func (bl *BooleanLiteral) expressionNode()      {}
func (bl *BooleanLiteral) TokenLiteral() string { return bl.Token.Literal }
func (bl *BooleanLiteral) String() string {
	if bl.Value {
		return "benar"
	}
	return "salah"
}

type Var struct {
	Decoration
	Token token.Token
	Name  string
}

func (v *Var) expressionNode()      {}
func (v *Var) TokenLiteral() string { return v.Token.Literal }
func (v *Var) String() string       { return v.Name }

type ArrayAccess struct {
	Decoration
	Token token.Token // the array name
	Name  string
	Index Expression
}

func (aa *ArrayAccess) expressionNode()      {}
func (aa *ArrayAccess) TokenLiteral() string { return aa.Token.Literal }
func (aa *ArrayAccess) String() string       { return aa.Name + "[" + exprString(aa.Index) + "]" }

type BinOp struct {
	Decoration
	Token token.Token // the operator
	Op    string
	Left  Expression
	Right Expression
}

func (bo *BinOp) expressionNode()      {}
func (bo *BinOp) TokenLiteral() string { return bo.Token.Literal }
func (bo *BinOp) String() string {
	return "(" + exprString(bo.Left) + " " + bo.Op + " " + exprString(bo.Right) + ")"
}

type UnaryOp struct {
	Decoration
	Token   token.Token // the operator
	Op      string
	Operand Expression
}

func (uo *UnaryOp) expressionNode()      {}
func (uo *UnaryOp) TokenLiteral() string { return uo.Token.Literal }
func (uo *UnaryOp) String() string {
	sep := ""
	if uo.Op == "tidak" {
		sep = " "
	}
	return "(" + uo.Op + sep + exprString(uo.Operand) + ")"
}

// --- Helpers ---

func exprString(e Expression) string {
	if e == nil {
		return ""
	}
	return e.String()
}

func typeString(name string, arr *ArrayType) string {
	if arr != nil {
		return arr.String()
	}
	return name
}

func paramsString(params []*Param) string {
	if len(params) == 0 {
		return ""
	}
	parts := make([]string, 0, len(params))
	for _, p := range params {
		parts = append(parts, p.String())
	}
	return "(" + strings.Join(parts, "; ") + ")"
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
