// Package astdump renders syntax trees as YAML documents.
//
// Every node becomes a mapping whose first key is "kind". Optional parts
// that were omitted in the source are left out of the mapping rather than
// written as null.
package astdump

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/DucktectiveCZ/duklang/internal/ast"
)

// Encode writes n to w as a single YAML document.
func Encode(w io.Writer, n ast.Node) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(Node(n)); err != nil {
		return fmt.Errorf("encode ast: %w", err)
	}
	return enc.Close()
}

// Marshal returns the YAML document for n.
func Marshal(n ast.Node) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, n); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Node builds the YAML tree for n without encoding it.
func Node(n ast.Node) *yaml.Node {
	switch n := n.(type) {
	case nil:
		return scalar("!!null", "null")
	case *ast.Module:
		m := mapping("module")
		m.seq("members", members(n.Members))
		return m.node
	case *ast.AttributeAnnot:
		m := mapping("attribute")
		m.str("name", n.Name)
		m.seq("args", exprs(n.Args))
		return m.node
	case *ast.ClassDecl:
		m := mapping("class")
		m.str("name", n.Name)
		m.header(n.Visibility, n.Attrs)
		m.seq("members", members(n.Members))
		return m.node
	case *ast.FunDecl:
		m := mapping("fun")
		m.str("name", n.Name)
		m.header(n.Visibility, n.Attrs)
		if len(n.Args) > 0 {
			args := make([]*yaml.Node, len(n.Args))
			for i, a := range n.Args {
				args[i] = Node(a)
			}
			m.seq("args", args)
		}
		m.str("return_type", n.ReturnType)
		if n.Body != nil {
			m.set("body", Node(n.Body))
		}
		return m.node
	case *ast.ArgDecl:
		m := mapping("arg")
		m.str("name", n.Name)
		m.str("type", n.Type)
		m.header(ast.Default, n.Attrs)
		return m.node
	case *ast.CodeBlock:
		m := mapping("block")
		stmts := make([]*yaml.Node, len(n.Stmts))
		for i, s := range n.Stmts {
			stmts[i] = Node(s)
		}
		m.set("stmts", sequence(stmts))
		return m.node
	case *ast.ValDecl:
		return binding("val", n.Name, n.Type, n.Value, n.Visibility, n.Attrs)
	case *ast.VarDecl:
		return binding("var", n.Name, n.Type, n.Value, n.Visibility, n.Attrs)
	case *ast.DiscardStmt:
		m := mapping("discard")
		m.set("expr", Node(n.X))
		return m.node
	case *ast.ReturnStmt:
		m := mapping("return")
		if n.Value != nil {
			m.set("value", Node(n.Value))
		}
		return m.node
	case *ast.ReadExpr:
		m := mapping("read")
		m.str("name", n.Name)
		return m.node
	case *ast.CallExpr:
		m := mapping("call")
		m.str("callee", n.Callee)
		m.seq("args", exprs(n.Args))
		return m.node
	case *ast.UnaryExpr:
		m := mapping("unary")
		m.str("op", n.Op.String())
		m.set("operand", Node(n.X))
		return m.node
	case *ast.BinaryExpr:
		m := mapping("binary")
		m.str("op", n.Op.String())
		m.set("left", Node(n.Left))
		m.set("right", Node(n.Right))
		return m.node
	case *ast.LiteralExpr:
		return literal(n)
	default:
		return scalar("!!str", fmt.Sprintf("<%T>", n))
	}
}

func binding(kind, name, typ string, value ast.Expr, vis ast.Visibility, attrs []*ast.AttributeAnnot) *yaml.Node {
	m := mapping(kind)
	m.str("name", name)
	m.str("type", typ)
	if value != nil {
		m.set("value", Node(value))
	}
	m.header(vis, attrs)
	return m.node
}

func literal(n *ast.LiteralExpr) *yaml.Node {
	m := mapping("literal")
	m.set("type", scalar("!!str", n.Kind.String()))

	switch n.Kind {
	case ast.IntLit:
		m.set("value", scalar("!!int", strconv.FormatInt(n.Int, 10)))
	case ast.UIntLit:
		m.set("value", scalar("!!int", strconv.FormatUint(n.UInt, 10)))
	case ast.FloatLit:
		m.set("value", scalar("!!float", formatFloat(n.Float)))
	case ast.StrLit:
		m.set("value", scalar("!!str", n.Str))
	}
	return m.node
}

// formatFloat keeps integral values recognisable as floats to YAML readers.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEIN") {
		s += ".0"
	}
	return s
}

func members(ms []ast.GroupMember) []*yaml.Node {
	out := make([]*yaml.Node, len(ms))
	for i, m := range ms {
		out[i] = Node(m)
	}
	return out
}

func exprs(xs []ast.Expr) []*yaml.Node {
	if len(xs) == 0 {
		return nil
	}
	out := make([]*yaml.Node, len(xs))
	for i, x := range xs {
		out[i] = Node(x)
	}
	return out
}

type mapBuilder struct {
	node *yaml.Node
}

func mapping(kind string) mapBuilder {
	m := mapBuilder{node: &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}}
	m.set("kind", scalar("!!str", kind))
	return m
}

func (m mapBuilder) set(key string, value *yaml.Node) {
	m.node.Content = append(m.node.Content, scalar("!!str", key), value)
}

// str skips empty values.
func (m mapBuilder) str(key, value string) {
	if value != "" {
		m.set(key, scalar("!!str", value))
	}
}

// seq skips nil slices. An empty non-nil slice is written as [].
func (m mapBuilder) seq(key string, items []*yaml.Node) {
	if items != nil {
		m.set(key, sequence(items))
	}
}

func (m mapBuilder) header(vis ast.Visibility, attrs []*ast.AttributeAnnot) {
	if vis != ast.Default {
		m.set("visibility", scalar("!!str", vis.String()))
	}
	if len(attrs) > 0 {
		nodes := make([]*yaml.Node, len(attrs))
		for i, a := range attrs {
			nodes[i] = Node(a)
		}
		m.set("attrs", sequence(nodes))
	}
}

func sequence(items []*yaml.Node) *yaml.Node {
	seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Content: items}
	if len(items) == 0 {
		seq.Style = yaml.FlowStyle
	}
	return seq
}

func scalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}
