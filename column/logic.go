package column

import (
	"github.com/vegasq/tabula/errs"
	"github.com/vegasq/tabula/scalar"
)

type logicOp func(a, b scalar.Value) scalar.Value

func logical(sym string, l, r *Column, f logicOp) (*Column, error) {
	if err := checkLengths(sym, l, r); err != nil {
		return nil, err
	}
	if l.typ != scalar.Boolean || r.typ != scalar.Boolean {
		return nil, invalidOp(sym, l, r)
	}
	out := make([]scalar.Value, l.Len())
	for i := range out {
		out[i] = f(l.values[i], r.values[i])
	}
	return wrap(l.name, scalar.Boolean, out), nil
}

// And is three-valued: false wins over null, null wins over true.
func And(l, r *Column) (*Column, error) {
	return logical("AND", l, r, func(a, b scalar.Value) scalar.Value {
		switch {
		case !a.IsNull() && !a.Bool(), !b.IsNull() && !b.Bool():
			return scalar.Bool(false)
		case a.IsNull() || b.IsNull():
			return scalar.Null(scalar.Boolean)
		}
		return scalar.Bool(true)
	})
}

// Or is three-valued: true wins over null, null wins over false.
func Or(l, r *Column) (*Column, error) {
	return logical("OR", l, r, func(a, b scalar.Value) scalar.Value {
		switch {
		case a.Bool(), b.Bool():
			return scalar.Bool(true)
		case a.IsNull() || b.IsNull():
			return scalar.Null(scalar.Boolean)
		}
		return scalar.Bool(false)
	})
}

// Xor is null whenever either side is null.
func Xor(l, r *Column) (*Column, error) {
	return logical("XOR", l, r, func(a, b scalar.Value) scalar.Value {
		if a.IsNull() || b.IsNull() {
			return scalar.Null(scalar.Boolean)
		}
		return scalar.Bool(a.Bool() != b.Bool())
	})
}

// Not negates a Boolean column; nulls stay null.
func Not(c *Column) (*Column, error) {
	if c.typ != scalar.Boolean {
		return nil, errs.Operator("NOT", "'NOT' operator is invalid for column of type %s", c.typ)
	}
	out := make([]scalar.Value, c.Len())
	for i, v := range c.values {
		if v.IsNull() {
			out[i] = v
			continue
		}
		out[i] = scalar.Bool(!v.Bool())
	}
	return wrap(c.name, scalar.Boolean, out), nil
}

// IsNullMask returns a non-null Boolean column that is true where c is null.
func IsNullMask(c *Column) *Column {
	out := make([]scalar.Value, c.Len())
	for i, v := range c.values {
		out[i] = scalar.Bool(v.IsNull())
	}
	return wrap(c.name, scalar.Boolean, out)
}

// IsNotNullMask is the complement of IsNullMask.
func IsNotNullMask(c *Column) *Column {
	out := make([]scalar.Value, c.Len())
	for i, v := range c.values {
		out[i] = scalar.Bool(!v.IsNull())
	}
	return wrap(c.name, scalar.Boolean, out)
}

// TrueIndices returns the rows where a Boolean column is true. Null counts
// as not true.
func TrueIndices(mask *Column) ([]int, error) {
	if mask.typ != scalar.Boolean {
		return nil, errs.Operator("", "expected a Boolean column, got %s", mask.typ)
	}
	var out []int
	for i, v := range mask.values {
		if v.Bool() {
			out = append(out, i)
		}
	}
	return out, nil
}
