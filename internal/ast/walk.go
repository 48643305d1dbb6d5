package ast

// Walk traverses the AST starting from node, calling fn for each node.
// If fn returns false, Walk stops traversing that branch.
func Walk(node Node, fn func(Node) bool) {
	if node == nil || !fn(node) {
		return
	}

	switch n := node.(type) {
	case *Module:
		for _, member := range n.Members {
			Walk(member, fn)
		}

	case *AttributeAnnot:
		walkExprs(n.Args, fn)

	case *ClassDecl:
		walkAttrs(n.Attrs, fn)
		for _, member := range n.Members {
			Walk(member, fn)
		}

	case *FunDecl:
		walkAttrs(n.Attrs, fn)
		for _, arg := range n.Args {
			Walk(arg, fn)
		}
		if n.Body != nil {
			Walk(n.Body, fn)
		}

	case *ArgDecl:
		walkAttrs(n.Attrs, fn)

	case *CodeBlock:
		for _, stmt := range n.Stmts {
			Walk(stmt, fn)
		}

	case *ValDecl:
		walkAttrs(n.Attrs, fn)
		if n.Value != nil {
			Walk(n.Value, fn)
		}

	case *VarDecl:
		walkAttrs(n.Attrs, fn)
		if n.Value != nil {
			Walk(n.Value, fn)
		}

	case *DiscardStmt:
		Walk(n.X, fn)

	case *ReturnStmt:
		if n.Value != nil {
			Walk(n.Value, fn)
		}

	case *CallExpr:
		walkExprs(n.Args, fn)

	case *UnaryExpr:
		Walk(n.X, fn)

	case *BinaryExpr:
		Walk(n.Left, fn)
		Walk(n.Right, fn)

	case *ReadExpr, *LiteralExpr:
		// leaves
	}
}

func walkAttrs(attrs []*AttributeAnnot, fn func(Node) bool) {
	for _, attr := range attrs {
		Walk(attr, fn)
	}
}

func walkExprs(exprs []Expr, fn func(Node) bool) {
	for _, expr := range exprs {
		Walk(expr, fn)
	}
}
