package expr

import (
	"errors"
	"fmt"

	"github.com/vegasq/tabula/column"
	"github.com/vegasq/tabula/errs"
	"github.com/vegasq/tabula/scalar"
)

// DataContext is the table an expression is evaluated against.
type DataContext interface {
	// Column returns the column with the exact name, or an error wrapping
	// errs.ErrColumnNotFound
	Column(name string) (*column.Column, error)
	// RowCount is the length every evaluated column must have
	RowCount() int
}

// Result is what evaluating a node produces: either a column with one
// cell per row, or the NULL literal. The NULL literal carries a negation
// flag so that NOT NULL can be compared like IS NOT NULL.
type Result struct {
	col     *column.Column
	negated bool
}

// ColumnResult wraps a column
func ColumnResult(c *column.Column) Result {
	return Result{col: c}
}

// NullResult is the NULL literal, optionally negated
func NullResult(negated bool) Result {
	return Result{negated: negated}
}

// IsNull reports whether the result is the NULL literal
func (r Result) IsNull() bool { return r.col == nil }

// Negated reports whether a NULL literal result was negated
func (r Result) Negated() bool { return r.negated }

// Column returns the column, or nil for the NULL literal
func (r Result) Column() *column.Column { return r.col }

// Materialize returns the column, turning the NULL literal into an
// all-null column of typ with the given number of rows
func (r Result) Materialize(typ scalar.Type, rows int) *column.Column {
	if r.col != nil {
		return r.col
	}
	return column.Nulls("", typ, rows)
}

// Evaluate parses text and evaluates it against ctx. A NULL literal result
// becomes an all-null Boolean column.
func Evaluate(text string, ctx DataContext) (*column.Column, error) {
	node, err := Parse(text)
	if err != nil {
		return nil, err
	}
	return EvaluateNode(node, ctx)
}

// EvaluateNode evaluates an already parsed tree
func EvaluateNode(node Node, ctx DataContext) (*column.Column, error) {
	res, err := node.Eval(ctx)
	if err != nil {
		return nil, err
	}
	c := res.Materialize(scalar.Boolean, ctx.RowCount())
	if c.Len() != ctx.RowCount() {
		return nil, &errs.EvaluationError{Err: fmt.Errorf("result has %d rows, table has %d", c.Len(), ctx.RowCount())}
	}
	return c, nil
}

func (c *ColumnRef) Eval(ctx DataContext) (Result, error) {
	col, err := ctx.Column(c.Name)
	if err != nil {
		if errors.Is(err, errs.ErrColumnNotFound) {
			return Result{}, err
		}
		return Result{}, fmt.Errorf("%w: %w", errs.ErrColumnNotFound, err)
	}
	return ColumnResult(col), nil
}

func (l *Literal) Eval(ctx DataContext) (Result, error) {
	return ColumnResult(column.Repeat("", l.Value, ctx.RowCount())), nil
}

func (n *NullLiteral) Eval(ctx DataContext) (Result, error) {
	return NullResult(false), nil
}

func (u *UnaryExpr) Eval(ctx DataContext) (Result, error) {
	operand, err := u.Operand.Eval(ctx)
	if err != nil {
		return Result{}, err
	}

	switch u.Operator {
	case OpNot:
		if operand.IsNull() {
			return NullResult(!operand.negated), nil
		}
		c, err := column.Not(operand.col)
		if err != nil {
			return Result{}, err
		}
		return ColumnResult(c), nil
	default:
		if operand.IsNull() {
			return Result{}, errs.Operator("-", "'-' operator is not valid for null")
		}
		c, err := column.Negate(operand.col)
		if err != nil {
			return Result{}, err
		}
		return ColumnResult(c), nil
	}
}

var arithOps = map[BinaryOperator]column.ArithOp{
	OpAdd: column.OpAdd,
	OpSub: column.OpSub,
	OpMul: column.OpMul,
	OpDiv: column.OpDiv,
	OpMod: column.OpMod,
	OpPow: column.OpPow,
}

var compareOps = map[BinaryOperator]column.CompareOp{
	OpEq:    column.OpEq,
	OpNe:    column.OpNe,
	OpLt:    column.OpLt,
	OpLe:    column.OpLe,
	OpGt:    column.OpGt,
	OpGe:    column.OpGe,
	OpIs:    column.OpEq,
	OpIsNot: column.OpNe,
}

var logicalOps = map[BinaryOperator]func(l, r *column.Column) (*column.Column, error){
	OpAnd: column.And,
	OpOr:  column.Or,
	OpXor: column.Xor,
}

func (b *BinaryExpr) Eval(ctx DataContext) (Result, error) {
	left, err := b.Left.Eval(ctx)
	if err != nil {
		return Result{}, err
	}
	right, err := b.Right.Eval(ctx)
	if err != nil {
		return Result{}, err
	}
	return applyBinary(b.Operator, left, right, ctx.RowCount())
}

func applyBinary(op BinaryOperator, left, right Result, rows int) (Result, error) {
	// NULL in a logical operator is an unknown truth value in every row
	if logic, ok := logicalOps[op]; ok {
		c, err := logic(left.Materialize(scalar.Boolean, rows), right.Materialize(scalar.Boolean, rows))
		if err != nil {
			return Result{}, err
		}
		return ColumnResult(c), nil
	}

	if left.IsNull() || right.IsNull() {
		return nullComparison(op, left, right, rows)
	}

	if cmp, ok := compareOps[op]; ok {
		c, err := column.Compare(cmp, left.col, right.col)
		if err != nil {
			return Result{}, err
		}
		return ColumnResult(c), nil
	}

	c, err := column.Arith(arithOps[op], left.col, right.col)
	if err != nil {
		return Result{}, err
	}
	return ColumnResult(c), nil
}

// nullComparison handles an operator with at least one NULL literal side.
// Only equality and IS forms are allowed; they become a null test.
func nullComparison(op BinaryOperator, left, right Result, rows int) (Result, error) {
	var equal bool
	switch op {
	case OpEq, OpIs:
		equal = true
	case OpNe, OpIsNot:
		equal = false
	default:
		return Result{}, errs.Operator(op.String(), "'%s' operator is not valid for null comparison", op)
	}

	if left.IsNull() && right.IsNull() {
		same := left.negated == right.negated
		return ColumnResult(column.Repeat("", scalar.Bool(same == equal), rows)), nil
	}

	null, other := left, right
	if right.IsNull() {
		null, other = right, left
	}
	if null.negated {
		equal = !equal
	}
	if equal {
		return ColumnResult(column.IsNullMask(other.col)), nil
	}
	return ColumnResult(column.IsNotNullMask(other.col)), nil
}

func (f *FunctionCall) Eval(ctx DataContext) (Result, error) {
	fn, ok := GetGlobalRegistry().Get(f.Name)
	if !ok {
		return Result{}, &errs.EvaluationError{Function: f.Name, Err: fmt.Errorf("unknown function '%s'", f.Name)}
	}
	name := fn.Name()

	if n := len(f.Args); n < fn.MinArity() || (fn.MaxArity() >= 0 && n > fn.MaxArity()) {
		return Result{}, errs.Function(name, arityError(fn, n))
	}

	args := make([]Result, len(f.Args))
	for i, a := range f.Args {
		res, err := a.Eval(ctx)
		if err != nil {
			return Result{}, err
		}
		args[i] = res
	}

	res, err := fn.Evaluate(args, ctx.RowCount())
	if err != nil {
		return Result{}, errs.Function(name, err)
	}
	return res, nil
}

func arityError(fn Function, got int) error {
	switch {
	case fn.MinArity() == fn.MaxArity():
		return fmt.Errorf("expected %d args, got %d", fn.MinArity(), got)
	case fn.MaxArity() < 0:
		return fmt.Errorf("expected at least %d args, got %d", fn.MinArity(), got)
	default:
		return fmt.Errorf("expected %d to %d args, got %d", fn.MinArity(), fn.MaxArity(), got)
	}
}

func (in *InExpr) Eval(ctx DataContext) (Result, error) {
	if len(in.Candidates) == 0 {
		return Result{}, errs.Operator("IN", "IN requires at least one value")
	}
	probe, err := in.Probe.Eval(ctx)
	if err != nil {
		return Result{}, err
	}

	rows := ctx.RowCount()
	var acc *column.Column
	for _, cand := range in.Candidates {
		cv, err := cand.Eval(ctx)
		if err != nil {
			return Result{}, err
		}
		eq, err := applyBinary(OpEq, probe, cv, rows)
		if err != nil {
			return Result{}, err
		}
		if acc == nil {
			acc = eq.col
			continue
		}
		if acc, err = column.Or(acc, eq.col); err != nil {
			return Result{}, err
		}
	}

	if in.Negate {
		if acc, err = column.Not(acc); err != nil {
			return Result{}, err
		}
	}
	return ColumnResult(acc), nil
}

func (l *LikeExpr) Eval(ctx DataContext) (Result, error) {
	op := "LIKE"
	if l.CaseInsensitive {
		op = "LIKEI"
	}

	probe, err := l.Probe.Eval(ctx)
	if err != nil {
		return Result{}, err
	}
	pattern, err := l.Pattern.Eval(ctx)
	if err != nil {
		return Result{}, err
	}
	if probe.IsNull() || pattern.IsNull() {
		return Result{}, errs.Operator(op, "'%s' operator is not valid for null", op)
	}
	if probe.col.Type() != scalar.String || pattern.col.Type() != scalar.String {
		return Result{}, errs.Operator(op, "'%s' operator is invalid between columns of type %s and %s",
			op, probe.col.Type(), pattern.col.Type())
	}

	c, err := matchLike(probe.col, pattern.col, l.CaseInsensitive, l.Negate)
	if err != nil {
		return Result{}, errs.Operator(op, "%v", err)
	}
	return ColumnResult(c), nil
}
