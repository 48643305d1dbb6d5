package ast

import (
	"strconv"
	"strings"
)

const indentUnit = "    "

// Format renders node as duk source. Binary and unary expressions are fully
// parenthesised, so parsing the output yields a tree equal to node.
func Format(node Node) string {
	var p printer
	p.node(node)
	return p.b.String()
}

type printer struct {
	b     strings.Builder
	depth int
}

func (p *printer) write(s string) { p.b.WriteString(s) }

func (p *printer) newline() {
	p.b.WriteByte('\n')
	p.b.WriteString(strings.Repeat(indentUnit, p.depth))
}

func (p *printer) node(node Node) {
	switch n := node.(type) {
	case *Module:
		for i, member := range n.Members {
			if i > 0 {
				p.write("\n")
				p.newline()
			}
			p.member(member)
		}
		if len(n.Members) > 0 {
			p.write("\n")
		}
	case GroupMember:
		p.member(n)
	case RuntimeStmt:
		p.stmt(n)
	case Expr:
		p.expr(n)
	case *CodeBlock:
		p.block(n)
	case *ArgDecl:
		p.arg(n)
	case *AttributeAnnot:
		p.attr(n)
	}
}

// member renders a declaration followed by the `;` terminator that binding
// declarations need at member level.
func (p *printer) member(m GroupMember) {
	switch n := m.(type) {
	case *FunDecl:
		p.funDecl(n)
	case *ClassDecl:
		p.header(n.Attrs, n.Visibility)
		p.write("class")
		if n.Name != "" {
			p.write(" " + n.Name)
		}
		p.write(" {")
		p.depth++
		for _, member := range n.Members {
			p.newline()
			p.member(member)
		}
		p.depth--
		if len(n.Members) > 0 {
			p.newline()
		}
		p.write("}")
	case *ValDecl:
		p.valDecl(n)
		p.write(";")
	case *VarDecl:
		p.header(n.Attrs, n.Visibility)
		p.write("var " + n.Name + ": " + n.Type)
		if n.Value != nil {
			p.write(" = ")
			p.expr(n.Value)
		}
		p.write(";")
	}
}

func (p *printer) header(attrs []*AttributeAnnot, vis Visibility) {
	for _, attr := range attrs {
		p.attr(attr)
		p.write(" ")
	}
	if kw := vis.Keyword(); kw != "" {
		p.write(kw + " ")
	}
}

func (p *printer) attr(a *AttributeAnnot) {
	p.write("@" + a.Name)
	if len(a.Args) > 0 {
		p.write("(")
		p.exprList(a.Args)
		p.write(")")
	}
}

func (p *printer) funDecl(n *FunDecl) {
	p.header(n.Attrs, n.Visibility)
	p.write("fun")
	if n.Name != "" {
		p.write(" " + n.Name)
	}
	p.write("(")
	for i, arg := range n.Args {
		if i > 0 {
			p.write(", ")
		}
		p.arg(arg)
	}
	p.write(")")
	if n.ReturnType != "" {
		p.write(": " + n.ReturnType)
	}
	p.write(" ")
	p.block(n.Body)
}

func (p *printer) arg(a *ArgDecl) {
	p.header(a.Attrs, Default)
	p.write(a.Name + ": " + a.Type)
}

func (p *printer) block(b *CodeBlock) {
	if b == nil || len(b.Stmts) == 0 {
		p.write("{}")
		return
	}
	p.write("{")
	p.depth++
	for _, stmt := range b.Stmts {
		p.newline()
		p.stmt(stmt)
		p.write(";")
	}
	p.depth--
	p.newline()
	p.write("}")
}

func (p *printer) stmt(s RuntimeStmt) {
	switch n := s.(type) {
	case *ValDecl:
		p.valDecl(n)
	case *DiscardStmt:
		p.expr(n.X)
	case *ReturnStmt:
		p.write("ret")
		if n.Value != nil {
			p.write(" ")
			p.expr(n.Value)
		}
	}
}

func (p *printer) valDecl(n *ValDecl) {
	p.header(n.Attrs, n.Visibility)
	p.write("val " + n.Name)
	if n.Type != "" {
		p.write(": " + n.Type)
	}
	if n.Value != nil {
		p.write(" = ")
		p.expr(n.Value)
	}
}

func (p *printer) exprList(exprs []Expr) {
	for i, e := range exprs {
		if i > 0 {
			p.write(", ")
		}
		p.expr(e)
	}
}

func (p *printer) expr(e Expr) {
	switch n := e.(type) {
	case *ReadExpr:
		p.write(n.Name)
	case *CallExpr:
		p.write(n.Callee + "(")
		p.exprList(n.Args)
		p.write(")")
	case *UnaryExpr:
		p.write("(" + n.Op.Symbol())
		p.expr(n.X)
		p.write(")")
	case *BinaryExpr:
		p.write("(")
		p.expr(n.Left)
		p.write(" " + n.Op.Symbol() + " ")
		p.expr(n.Right)
		p.write(")")
	case *LiteralExpr:
		p.write(FormatLiteral(n))
	}
}

// FormatLiteral renders a literal in its source form.
func FormatLiteral(l *LiteralExpr) string {
	switch l.Kind {
	case IntLit:
		return strconv.FormatInt(l.Int, 10)
	case UIntLit:
		return strconv.FormatUint(l.UInt, 10) + "u"
	case FloatLit:
		s := strconv.FormatFloat(l.Float, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	case StrLit:
		return quote(l.Str)
	default:
		return ""
	}
}

func quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		case 0:
			b.WriteString(`\0`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}
