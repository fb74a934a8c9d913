package expr

import (
	"fmt"
	"strings"

	"github.com/vegasq/tabula/scalar"
)

// Node is an immutable expression tree node.
type Node interface {
	// Eval evaluates the node against a table context
	Eval(ctx DataContext) (Result, error)
	// String renders the node back into expression text
	String() string
}

// BinaryOperator is an infix operator
type BinaryOperator int

const (
	OpOr BinaryOperator = iota
	OpXor
	OpAnd
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpIs
	OpIsNot
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpPow
)

var binarySymbols = [...]string{
	OpOr:    "OR",
	OpXor:   "XOR",
	OpAnd:   "AND",
	OpEq:    "==",
	OpNe:    "!=",
	OpLt:    "<",
	OpLe:    "<=",
	OpGt:    ">",
	OpGe:    ">=",
	OpIs:    "IS",
	OpIsNot: "IS NOT",
	OpAdd:   "+",
	OpSub:   "-",
	OpMul:   "*",
	OpDiv:   "/",
	OpMod:   "%",
	OpPow:   "^",
}

func (o BinaryOperator) String() string { return binarySymbols[o] }

// UnaryOperator is a prefix operator
type UnaryOperator int

const (
	OpNot UnaryOperator = iota
	OpNeg
)

func (o UnaryOperator) String() string {
	if o == OpNot {
		return "NOT"
	}
	return "-"
}

// ColumnRef references a table column by exact name
type ColumnRef struct {
	Name string
}

func (c *ColumnRef) String() string { return "[" + c.Name + "]" }

// Literal is a typed constant
type Literal struct {
	Value scalar.Value
}

func (l *Literal) String() string {
	switch l.Value.Type() {
	case scalar.String:
		return "'" + strings.ReplaceAll(l.Value.Str(), "'", `\'`) + "'"
	case scalar.DateTime:
		return "#" + l.Value.String() + "#"
	case scalar.Boolean:
		return strings.ToUpper(l.Value.String())
	}
	return l.Value.String()
}

// NullLiteral is the NULL keyword
type NullLiteral struct{}

func (n *NullLiteral) String() string { return "NULL" }

// UnaryExpr applies a prefix operator
type UnaryExpr struct {
	Operator UnaryOperator
	Operand  Node
}

func (u *UnaryExpr) String() string {
	if u.Operator == OpNot {
		return "NOT " + u.Operand.String()
	}
	return "-" + u.Operand.String()
}

// BinaryExpr applies an infix operator
type BinaryExpr struct {
	Left     Node
	Operator BinaryOperator
	Right    Node
}

func (b *BinaryExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left, b.Operator, b.Right)
}

// FunctionCall calls a registered function
type FunctionCall struct {
	Name string
	Args []Node
}

func (f *FunctionCall) String() string {
	args := make([]string, len(f.Args))
	for i, a := range f.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", strings.ToUpper(f.Name), strings.Join(args, ", "))
}

// InExpr is "probe [NOT] IN (candidates...)"
type InExpr struct {
	Probe      Node
	Candidates []Node
	Negate     bool
}

func (in *InExpr) String() string {
	vals := make([]string, len(in.Candidates))
	for i, v := range in.Candidates {
		vals[i] = v.String()
	}
	op := "IN"
	if in.Negate {
		op = "NOT IN"
	}
	return fmt.Sprintf("(%s %s (%s))", in.Probe, op, strings.Join(vals, ", "))
}

// LikeExpr is "probe [NOT] LIKE|LIKEI pattern"
type LikeExpr struct {
	Probe           Node
	Pattern         Node
	CaseInsensitive bool
	Negate          bool
}

func (l *LikeExpr) String() string {
	op := "LIKE"
	if l.CaseInsensitive {
		op = "LIKEI"
	}
	if l.Negate {
		op = "NOT " + op
	}
	return fmt.Sprintf("(%s %s %s)", l.Probe, op, l.Pattern)
}
