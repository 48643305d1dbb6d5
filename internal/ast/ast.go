package ast

// Node is implemented by every AST node.
//
// Nodes carry no source positions; diagnostics take their spans from the
// tokens seen by the parser. Two trees parsed from equivalent source are
// therefore comparable with reflect.DeepEqual.
type Node interface {
	astNode()
}

// GroupMember is a declaration legal at module or class-body level.
type GroupMember interface {
	Node
	groupMember()
}

// RuntimeStmt is a statement legal inside a code block.
type RuntimeStmt interface {
	Node
	runtimeStmt()
}

// Expr represents an expression node.
type Expr interface {
	Node
	exprNode()
}

// Module is a parsed compilation unit.
type Module struct {
	Members []GroupMember
}

// NewModule constructs a module node.
func NewModule(members ...GroupMember) *Module {
	return &Module{Members: members}
}

// AttributeAnnot is an @name or @name(args...) marker on a declaration.
type AttributeAnnot struct {
	Name string
	Args []Expr
}

// NewAttributeAnnot constructs an attribute annotation.
func NewAttributeAnnot(name string, args ...Expr) *AttributeAnnot {
	return &AttributeAnnot{Name: name, Args: args}
}

// ClassDecl represents a class declaration. Name is empty for an anonymous
// class.
type ClassDecl struct {
	Name       string
	Attrs      []*AttributeAnnot
	Visibility Visibility
	Members    []GroupMember
}

// FunDecl represents a function declaration. Name is empty for an anonymous
// function and ReturnType is empty when no return annotation is present.
type FunDecl struct {
	Name       string
	Attrs      []*AttributeAnnot
	Visibility Visibility
	Args       []*ArgDecl
	ReturnType string
	Body       *CodeBlock
}

// ArgDecl is one `name: Type` entry of a function argument list.
type ArgDecl struct {
	Name  string
	Type  string
	Attrs []*AttributeAnnot
}

// NewArgDecl constructs an argument declaration.
func NewArgDecl(name, typ string, attrs ...*AttributeAnnot) *ArgDecl {
	return &ArgDecl{Name: name, Type: typ, Attrs: attrs}
}

// CodeBlock is a brace-delimited statement sequence.
type CodeBlock struct {
	Stmts []RuntimeStmt
}

// NewCodeBlock constructs a code block.
func NewCodeBlock(stmts ...RuntimeStmt) *CodeBlock {
	return &CodeBlock{Stmts: stmts}
}

// ValDecl is an immutable binding. Type and Value are optional; an empty
// Type or a nil Value means the clause was omitted.
type ValDecl struct {
	Name       string
	Type       string
	Value      Expr
	Attrs      []*AttributeAnnot
	Visibility Visibility
}

// VarDecl is a mutable binding. The parser guarantees both Type and Value.
type VarDecl struct {
	Name       string
	Type       string
	Value      Expr
	Attrs      []*AttributeAnnot
	Visibility Visibility
}

// DiscardStmt evaluates an expression and drops its value.
type DiscardStmt struct {
	X Expr
}

// NewDiscardStmt constructs an expression statement.
func NewDiscardStmt(x Expr) *DiscardStmt {
	return &DiscardStmt{X: x}
}

// ReturnStmt leaves the enclosing function. Value is nil for a bare `ret`.
type ReturnStmt struct {
	Value Expr
}

// NewReturnStmt constructs a return statement.
func NewReturnStmt(value Expr) *ReturnStmt {
	return &ReturnStmt{Value: value}
}

// ReadExpr references a variable by name.
type ReadExpr struct {
	Name string
}

// NewRead constructs a variable read.
func NewRead(name string) *ReadExpr {
	return &ReadExpr{Name: name}
}

// CallExpr calls a named function.
type CallExpr struct {
	Callee string
	Args   []Expr
}

// NewCall constructs a call expression.
func NewCall(callee string, args ...Expr) *CallExpr {
	return &CallExpr{Callee: callee, Args: args}
}

// UnaryExpr applies a prefix operator.
type UnaryExpr struct {
	Op UnaryOp
	X  Expr
}

// NewUnary constructs a unary expression.
func NewUnary(op UnaryOp, x Expr) *UnaryExpr {
	return &UnaryExpr{Op: op, X: x}
}

// BinaryExpr applies an infix operator.
type BinaryExpr struct {
	Op    BinOp
	Left  Expr
	Right Expr
}

// NewBinary constructs a binary expression.
func NewBinary(op BinOp, left, right Expr) *BinaryExpr {
	return &BinaryExpr{Op: op, Left: left, Right: right}
}

// LiteralKind distinguishes the literal forms.
type LiteralKind int

const (
	IntLit LiteralKind = iota
	UIntLit
	FloatLit
	StrLit
)

var literalKindNames = [...]string{
	IntLit:   "int",
	UIntLit:  "uint",
	FloatLit: "float",
	StrLit:   "str",
}

func (k LiteralKind) String() string {
	if k >= 0 && int(k) < len(literalKindNames) {
		return literalKindNames[k]
	}
	return "unknown"
}

// LiteralExpr is a constant. Only the field selected by Kind is meaningful.
type LiteralExpr struct {
	Kind  LiteralKind
	Int   int64
	UInt  uint64
	Float float64
	Str   string
}

// NewIntLiteral constructs a signed integer literal.
func NewIntLiteral(v int64) *LiteralExpr { return &LiteralExpr{Kind: IntLit, Int: v} }

// NewUIntLiteral constructs an unsigned integer literal.
func NewUIntLiteral(v uint64) *LiteralExpr { return &LiteralExpr{Kind: UIntLit, UInt: v} }

// NewFloatLiteral constructs a floating-point literal.
func NewFloatLiteral(v float64) *LiteralExpr { return &LiteralExpr{Kind: FloatLit, Float: v} }

// NewStrLiteral constructs a string literal holding the decoded text.
func NewStrLiteral(v string) *LiteralExpr { return &LiteralExpr{Kind: StrLit, Str: v} }

func (*Module) astNode()         {}
func (*AttributeAnnot) astNode() {}
func (*ClassDecl) astNode()      {}
func (*FunDecl) astNode()        {}
func (*ArgDecl) astNode()        {}
func (*CodeBlock) astNode()      {}
func (*ValDecl) astNode()        {}
func (*VarDecl) astNode()        {}
func (*DiscardStmt) astNode()    {}
func (*ReturnStmt) astNode()     {}
func (*ReadExpr) astNode()       {}
func (*CallExpr) astNode()       {}
func (*UnaryExpr) astNode()      {}
func (*BinaryExpr) astNode()     {}
func (*LiteralExpr) astNode()    {}

func (*ClassDecl) groupMember() {}
func (*FunDecl) groupMember()   {}
func (*ValDecl) groupMember()   {}
func (*VarDecl) groupMember()   {}

// ValDecl doubles as the local `let` binding.
func (*ValDecl) runtimeStmt()     {}
func (*DiscardStmt) runtimeStmt() {}
func (*ReturnStmt) runtimeStmt()  {}

func (*ReadExpr) exprNode()    {}
func (*CallExpr) exprNode()    {}
func (*UnaryExpr) exprNode()   {}
func (*BinaryExpr) exprNode()  {}
func (*LiteralExpr) exprNode() {}
