package ast

// Children returns the direct child nodes of n in source order. Nil
// children are omitted.
func Children(n Node) []Node {
	var out []Node
	add := func(nodes ...Node) {
		for _, c := range nodes {
			if !isNil(c) {
				out = append(out, c)
			}
		}
	}

	switch n := n.(type) {
	case *Program:
		add(n.Declarations, n.Block)
	case *Declarations:
		for _, d := range n.Items {
			add(d)
		}
	case *Block:
		add(n.Declarations)
		for _, s := range n.Statements {
			add(s)
		}
	case *VarDecl:
		add(n.ArrayType)
	case *ConstDecl:
		add(n.Value)
	case *TypeDecl:
		add(n.ArrayType, n.Low, n.High)
	case *ArrayType:
		add(n.Low, n.High, n.Element)
	case *Param:
		add(n.ArrayType)
	case *ProcedureDecl:
		for _, p := range n.Params {
			add(p)
		}
		add(n.Body)
	case *FunctionDecl:
		for _, p := range n.Params {
			add(p)
		}
		add(n.Body)
	case *Assign:
		add(n.Target, n.Value)
	case *If:
		add(n.Condition, n.Then, n.Else)
	case *While:
		add(n.Condition, n.Body)
	case *For:
		add(n.Counter, n.Start, n.End, n.Body)
	case *ProcedureCall:
		for _, a := range n.Args {
			add(a)
		}
	case *ArrayAccess:
		add(n.Index)
	case *BinOp:
		add(n.Left, n.Right)
	case *UnaryOp:
		add(n.Operand)
	}
	return out
}

// Inspect calls fn for n and every descendant in pre-order. Returning false
// from fn skips the children of that node.
func Inspect(n Node, fn func(Node) bool) {
	if isNil(n) || !fn(n) {
		return
	}
	for _, c := range Children(n) {
		Inspect(c, fn)
	}
}

// isNil catches typed nil pointers stored in interface fields.
func isNil(n Node) bool {
	if n == nil {
		return true
	}
	switch v := n.(type) {
	case *Declarations:
		return v == nil
	case *Block:
		return v == nil
	case *ArrayType:
		return v == nil
	case *Var:
		return v == nil
	case *Param:
		return v == nil
	}
	return false
}
