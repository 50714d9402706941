// Package dump renders the artifacts of a compilation as plain text or YAML.
// Output depends only on its input, so it can be compared in tests.
package dump

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/lipgloss/tree"

	"github.com/arnavsurve/kompas/internal/compiler/ast"
	"github.com/arnavsurve/kompas/internal/compiler/parsetree"
	"github.com/arnavsurve/kompas/internal/compiler/scope"
	"github.com/arnavsurve/kompas/internal/compiler/token"
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...)
}

// Tokens lists a token stream, one row per token.
func Tokens(toks []token.Token) string {
	t := newTable("#", "TYPE", "LEXEME", "LINE", "COL")
	for i, tok := range toks {
		t.Row(strconv.Itoa(i), string(tok.Type), tok.Literal, strconv.Itoa(tok.Line), strconv.Itoa(tok.Column))
	}
	return t.String()
}

// ParseTree draws the concrete tree with one node per line.
func ParseTree(root *parsetree.Node) string {
	if root == nil {
		return ""
	}
	return parseTreeNode(root).String()
}

func parseTreeNode(n *parsetree.Node) *tree.Tree {
	t := tree.Root(n.Label())
	for _, c := range n.Children {
		if len(c.Children) == 0 {
			t.Child(c.Label())
			continue
		}
		t.Child(parseTreeNode(c))
	}
	return t
}

// AST draws the lowered program with the decoration of every node.
func AST(prog *ast.Program) string {
	if prog == nil {
		return ""
	}
	return astNode(prog).String()
}

func astNode(n ast.Node) *tree.Tree {
	t := tree.Root(astLabel(n))
	for _, c := range ast.Children(n) {
		t.Child(astNode(c))
	}
	return t
}

func astLabel(n ast.Node) string {
	var label string
	switch n := n.(type) {
	case *ast.Program:
		label = "Program " + n.Name
	case *ast.Declarations:
		label = "Declarations"
	case *ast.Block:
		label = "Block"
	case *ast.VarDecl:
		label = fmt.Sprintf("VarDecl %s: %s", n.Name(), n.TypeName)
	case *ast.ConstDecl:
		label = "ConstDecl " + n.Name
	case *ast.TypeDecl:
		label = "TypeDecl " + n.Name
		if n.TypeName != "" {
			label += ": " + n.TypeName
		}
	case *ast.ArrayType:
		label = "ArrayType"
		if n.Element == nil {
			label += " of " + n.ElementType
		}
	case *ast.Param:
		label = fmt.Sprintf("Param %s: %s", n.Name, n.TypeName)
		if n.ByRef {
			label = "Param variabel " + strings.TrimPrefix(label, "Param ")
		}
	case *ast.ProcedureDecl:
		label = "ProcedureDecl " + n.Name
	case *ast.FunctionDecl:
		label = fmt.Sprintf("FunctionDecl %s: %s", n.Name, n.ReturnType)
	case *ast.Assign:
		label = "Assign"
	case *ast.If:
		label = "If"
	case *ast.While:
		label = "While"
	case *ast.For:
		label = "For ke"
		if !n.Ascending {
			label = "For turun-ke"
		}
	case *ast.ProcedureCall:
		label = "Call " + n.Name
	case *ast.Var:
		label = "Var " + n.Name
	case *ast.ArrayAccess:
		label = "ArrayAccess " + n.Name
	case *ast.BinOp:
		label = "BinOp " + n.Op
	case *ast.UnaryOp:
		label = "UnaryOp " + n.Op
	default:
		// literals
		label = fmt.Sprintf("%T %s", n, n.String())
		label = strings.TrimPrefix(label, "*ast.")
	}
	return label + decoration(n.Decorated())
}

func decoration(d *ast.Decoration) string {
	var parts []string
	if d.DataType != "" {
		parts = append(parts, "type="+d.DataType)
	}
	if d.SymbolIndex >= 0 {
		parts = append(parts, "sym="+strconv.Itoa(d.SymbolIndex))
	}
	if d.ScopeLevel >= 0 {
		parts = append(parts, "lev="+strconv.Itoa(d.ScopeLevel))
	}
	if len(parts) == 0 {
		return ""
	}
	return " [" + strings.Join(parts, " ") + "]"
}

// Tables renders tab, btab and atab as three titled tables.
func Tables(t *scope.Tables) string {
	if t == nil {
		return ""
	}

	tab := newTable("IDX", "NAME", "LINK", "OBJ", "TYPE", "REF", "NRM", "LEV", "ADR")
	for i, e := range t.Tab {
		tab.Row(strconv.Itoa(i), e.Name, strconv.Itoa(e.Link), e.Obj.String(), e.Type.String(),
			strconv.Itoa(e.Ref), strconv.Itoa(e.Nrm), strconv.Itoa(e.Lev), strconv.Itoa(e.Adr))
	}

	btab := newTable("IDX", "LAST", "LPAR", "PSZE", "VSZE")
	for i, b := range t.Btab {
		btab.Row(strconv.Itoa(i), strconv.Itoa(b.Last), strconv.Itoa(b.Lpar), strconv.Itoa(b.Psze), strconv.Itoa(b.Vsze))
	}

	atab := newTable("IDX", "XTYP", "ETYP", "EREF", "LOW", "HIGH", "ELSZ", "SIZE")
	for i, a := range t.Atab {
		atab.Row(strconv.Itoa(i), a.Xtyp.String(), a.Etyp.String(), strconv.Itoa(a.Eref),
			strconv.Itoa(a.Low), strconv.Itoa(a.High), strconv.Itoa(a.Elsz), strconv.Itoa(a.Size))
	}

	var out strings.Builder
	out.WriteString("tab\n")
	out.WriteString(tab.String())
	out.WriteString("\n\nbtab\n")
	out.WriteString(btab.String())
	out.WriteString("\n\natab\n")
	out.WriteString(atab.String())
	out.WriteString("\n")
	return out.String()
}
