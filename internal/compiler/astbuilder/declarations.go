package astbuilder

import (
	"github.com/arnavsurve/kompas/internal/compiler/ast"
	"github.com/arnavsurve/kompas/internal/compiler/parsetree"
	"github.com/arnavsurve/kompas/internal/compiler/token"
)

func (b *builder) buildDeclarations(n *parsetree.Node) *ast.Declarations {
	decls := ast.New(&ast.Declarations{})
	if n == nil {
		return decls
	}
	if len(n.Children) > 0 {
		decls.Token = n.Terminals()[0]
	}

	for _, section := range n.Children {
		switch section.Kind {
		case parsetree.ConstDeclaration:
			decls.Items = append(decls.Items, b.buildConstSection(section)...)
		case parsetree.TypeDeclaration:
			decls.Items = append(decls.Items, b.buildTypeSection(section)...)
		case parsetree.VarDeclaration:
			decls.Items = append(decls.Items, b.buildVarSection(section)...)
		case parsetree.SubprogramDeclaration:
			if d := b.buildSubprogram(section); d != nil {
				decls.Items = append(decls.Items, d)
			}
		default:
			b.errorf(section, "unexpected %s in declaration part", section.Label())
		}
	}
	return decls
}

// buildConstSection walks NAME op <constant> ';' groups.
func (b *builder) buildConstSection(n *parsetree.Node) []ast.Declaration {
	var out []ast.Declaration
	var name *parsetree.Node
	for _, c := range n.Children[1:] {
		switch {
		case c.Kind == parsetree.Terminal && c.Token.Type == token.IDENTIFIER,
			c.Kind == parsetree.Missing && name == nil:
			name = c
		case c.Kind == parsetree.Constant:
			tok, ok := b.identToken(name, "constant name")
			value := b.buildConstant(c)
			if ok && value != nil {
				out = append(out, ast.New(&ast.ConstDecl{Token: tok, Name: tok.Literal, Value: value}))
			}
			name = nil
		}
	}
	return out
}

// buildConstant lowers a possibly signed literal or constant reference.
// A minus sign becomes a unary operation around the value.
func (b *builder) buildConstant(n *parsetree.Node) ast.Expression {
	var sign *parsetree.Node
	children := n.Children
	if len(children) > 0 && children[0].IsTerminal(token.ARITHMETIC_OPERATOR, "") {
		sign, children = children[0], children[1:]
	}
	if len(children) != 1 {
		b.errorf(n, "malformed constant")
		return nil
	}

	var value ast.Expression
	c := children[0]
	if lit, ok := b.literal(c); ok {
		value = lit
	} else if c.IsTerminal(token.IDENTIFIER, "") {
		value = ast.New(&ast.Var{Token: c.Token, Name: c.Token.Literal})
	} else {
		b.errorf(n, "missing constant value")
		return nil
	}
	if value == nil {
		return nil
	}
	if sign != nil && sign.Token.Literal == "-" {
		return ast.New(&ast.UnaryOp{Token: sign.Token, Op: "-", Operand: value})
	}
	return value
}

func (b *builder) buildTypeSection(n *parsetree.Node) []ast.Declaration {
	var out []ast.Declaration
	var name *parsetree.Node
	for _, c := range n.Children[1:] {
		switch {
		case c.Kind == parsetree.Terminal && c.Token.Type == token.IDENTIFIER,
			c.Kind == parsetree.Missing && name == nil:
			name = c
		case c.Kind == parsetree.TypeDefinition:
			tok, ok := b.identToken(name, "type name")
			if d := b.buildTypeDefinition(c, tok); ok && d != nil {
				out = append(out, d)
			}
			name = nil
		}
	}
	return out
}

func (b *builder) buildTypeDefinition(n *parsetree.Node, name token.Token) *ast.TypeDecl {
	td := ast.New(&ast.TypeDecl{Token: name, Name: name.Literal})
	def := n.Child(0)
	switch {
	case def == nil:
		b.errorf(n, "empty type definition")
		return nil
	case def.Kind == parsetree.Type:
		typeName, arr, ok := b.buildType(def)
		if !ok {
			return nil
		}
		td.TypeName, td.ArrayType = typeName, arr
	case def.Kind == parsetree.Range:
		low, high, ok := b.buildRange(def)
		if !ok {
			return nil
		}
		td.Low, td.High = low, high
	default:
		b.errorf(def, "unexpected %s in type definition", def.Label())
		return nil
	}
	return td
}

// buildVarSection expands every identifier list into one VarDecl per name.
func (b *builder) buildVarSection(n *parsetree.Node) []ast.Declaration {
	var out []ast.Declaration
	var names *parsetree.Node
	for _, c := range n.Children[1:] {
		switch c.Kind {
		case parsetree.IdentifierList:
			names = c
		case parsetree.Type:
			typeName, arr, ok := b.buildType(c)
			if ok && names != nil {
				for i, tok := range b.identifiers(names) {
					if i > 0 && arr != nil {
						_, arr, _ = b.buildType(c)
					}
					out = append(out, ast.New(&ast.VarDecl{
						Token:     tok,
						Names:     []string{tok.Literal},
						TypeName:  typeName,
						ArrayType: arr,
					}))
				}
			}
			names = nil
		}
	}
	return out
}

func (b *builder) identifiers(list *parsetree.Node) []token.Token {
	var out []token.Token
	for _, c := range list.Children {
		if c.IsTerminal(token.IDENTIFIER, "") {
			out = append(out, c.Token)
		} else if c.Kind == parsetree.Missing {
			b.errorf(c, "missing identifier in list")
		}
	}
	return out
}

// buildType returns the type name and, for arrays, the lowered array type.
func (b *builder) buildType(n *parsetree.Node) (string, *ast.ArrayType, bool) {
	c := n.Child(0)
	switch {
	case c == nil || c.Kind == parsetree.Missing:
		b.errorf(n, "missing type")
		return "", nil, false
	case c.Kind == parsetree.ArrayType:
		arr := b.buildArrayType(c)
		if arr == nil {
			return "", nil, false
		}
		return "larik", arr, true
	case c.Kind == parsetree.Terminal:
		return c.Token.Literal, nil, true
	}
	b.errorf(c, "unexpected %s in type", c.Label())
	return "", nil, false
}

func (b *builder) buildArrayType(n *parsetree.Node) *ast.ArrayType {
	arr := ast.New(&ast.ArrayType{Token: n.Child(0).Token})
	rng := n.Find(parsetree.Range)
	elem := n.Find(parsetree.Type)
	if rng == nil || elem == nil {
		b.errorf(n, "malformed array type")
		return nil
	}

	low, high, ok := b.buildRange(rng)
	if !ok {
		return nil
	}
	arr.Low, arr.High = low, high

	elemName, elemArr, ok := b.buildType(elem)
	if !ok {
		return nil
	}
	arr.ElementType, arr.Element = elemName, elemArr
	return arr
}

func (b *builder) buildRange(n *parsetree.Node) (ast.Expression, ast.Expression, bool) {
	exprs := n.FindAll(parsetree.Expression)
	if len(exprs) != 2 {
		b.errorf(n, "malformed range")
		return nil, nil, false
	}
	low, high := b.buildExpression(exprs[0]), b.buildExpression(exprs[1])
	if low == nil || high == nil {
		return nil, nil, false
	}
	return low, high, true
}

// --- Subprograms ---

func (b *builder) buildSubprogram(n *parsetree.Node) ast.Declaration {
	decl := n.Child(0)
	if decl == nil {
		b.errorf(n, "empty subprogram declaration")
		return nil
	}

	nameTok, ok := b.identToken(decl.Child(1), "subprogram name")
	params := b.buildParams(decl.Find(parsetree.FormalParameterList))
	body := decl.Find(parsetree.Block)
	if !ok || body == nil {
		if body == nil {
			b.errorf(decl, "subprogram has no body")
		}
		return nil
	}
	block := b.buildBlock(body)
	if block == nil {
		return nil
	}

	switch decl.Kind {
	case parsetree.ProcedureDeclaration:
		return ast.New(&ast.ProcedureDecl{Token: decl.Child(0).Token, Name: nameTok.Literal, Params: params, Body: block})
	case parsetree.FunctionDeclaration:
		retName, retArr, ok := b.buildType(decl.Find(parsetree.Type))
		if !ok {
			return nil
		}
		if retArr != nil {
			b.errorf(decl, "function %s cannot return an array", nameTok.Literal)
			return nil
		}
		return ast.New(&ast.FunctionDecl{Token: decl.Child(0).Token, Name: nameTok.Literal, Params: params, ReturnType: retName, Body: block})
	}
	b.errorf(decl, "unexpected %s in subprogram declaration", decl.Label())
	return nil
}

// buildParams expands each parameter group into one Param per name.
func (b *builder) buildParams(n *parsetree.Node) []*ast.Param {
	var out []*ast.Param
	for _, group := range n.FindAll(parsetree.ParameterGroup) {
		byRef := group.Child(0).IsKeyword("variabel")
		list := group.Find(parsetree.IdentifierList)
		typeNode := group.Find(parsetree.Type)
		typeName, arr, ok := b.buildType(typeNode)
		if list == nil || !ok {
			continue
		}
		for i, tok := range b.identifiers(list) {
			if i > 0 && arr != nil {
				// each name owns its own array type node
				_, arr, _ = b.buildType(typeNode)
			}
			out = append(out, ast.New(&ast.Param{
				Token:     tok,
				Name:      tok.Literal,
				TypeName:  typeName,
				ArrayType: arr,
				ByRef:     byRef,
			}))
		}
	}
	return out
}

func (b *builder) buildBlock(n *parsetree.Node) *ast.Block {
	compound := n.Find(parsetree.CompoundStatement)
	if compound == nil {
		b.errorf(n, "block has no compound statement")
		return nil
	}
	block := b.buildCompound(compound)
	if block == nil {
		return nil
	}
	block.Declarations = b.buildDeclarations(n.Find(parsetree.DeclarationPart))
	return block
}
