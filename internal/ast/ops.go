package ast

import "fmt"

// BinOp is a binary operator.
type BinOp int

const (
	Add BinOp = iota
	Sub
	Mul
	Div
	Mod
	Equals
	NotEquals
	Greater
	Lower
	GreaterEqual
	LowerEqual
	Assign
)

var binOpSymbols = [...]string{
	Add:          "+",
	Sub:          "-",
	Mul:          "*",
	Div:          "/",
	Mod:          "%",
	Equals:       "==",
	NotEquals:    "!=",
	Greater:      ">",
	Lower:        "<",
	GreaterEqual: ">=",
	LowerEqual:   "<=",
	Assign:       "=",
}

var binOpNames = [...]string{
	Add:          "Add",
	Sub:          "Sub",
	Mul:          "Mul",
	Div:          "Div",
	Mod:          "Mod",
	Equals:       "Equals",
	NotEquals:    "NotEquals",
	Greater:      "Greater",
	Lower:        "Lower",
	GreaterEqual: "GreaterEqual",
	LowerEqual:   "LowerEqual",
	Assign:       "Assign",
}

// Symbol returns the operator's source spelling.
func (op BinOp) Symbol() string {
	if op >= 0 && int(op) < len(binOpSymbols) {
		return binOpSymbols[op]
	}
	return "?"
}

func (op BinOp) String() string {
	if op >= 0 && int(op) < len(binOpNames) {
		return binOpNames[op]
	}
	return fmt.Sprintf("BinOp(%d)", int(op))
}

// UnaryOp is a prefix operator.
type UnaryOp int

const (
	Not UnaryOp = iota
	Positive
	Negative
	BitNot
)

// Symbol returns the operator's source spelling.
func (op UnaryOp) Symbol() string {
	switch op {
	case Not:
		return "!"
	case Positive:
		return "+"
	case Negative:
		return "-"
	case BitNot:
		return "~"
	default:
		return "?"
	}
}

func (op UnaryOp) String() string {
	switch op {
	case Not:
		return "Not"
	case Positive:
		return "Positive"
	case Negative:
		return "Negative"
	case BitNot:
		return "BitNot"
	default:
		return fmt.Sprintf("UnaryOp(%d)", int(op))
	}
}

// Visibility is a declaration's visibility annotation. Default means no
// annotation was written; resolving it to an effective visibility is left to
// later stages.
type Visibility int

const (
	Default Visibility = iota
	Private
	Public
)

// Keyword returns the annotation as written in source, or "" for Default.
func (v Visibility) Keyword() string {
	switch v {
	case Private:
		return "priv"
	case Public:
		return "pub"
	default:
		return ""
	}
}

func (v Visibility) String() string {
	switch v {
	case Private:
		return "private"
	case Public:
		return "public"
	default:
		return "default"
	}
}
