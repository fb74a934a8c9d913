package column

import (
	"github.com/vegasq/tabula/errs"
	"github.com/vegasq/tabula/scalar"
)

// Cast converts every cell to typ. Failures name the column and row.
func (c *Column) Cast(typ scalar.Type) (*Column, error) {
	if c.typ == typ {
		return c, nil
	}
	out := make([]scalar.Value, len(c.values))
	for i, v := range c.values {
		cv, err := scalar.Convert(v, typ)
		if err != nil {
			return nil, errs.WithLocation(err, c.name, i)
		}
		out[i] = cv
	}
	return wrap(c.name, typ, out), nil
}

// Gather builds a column from the given row indices; -1 yields a null.
func (c *Column) Gather(indices []int) *Column {
	out := make([]scalar.Value, len(indices))
	for i, idx := range indices {
		if idx < 0 {
			out[i] = scalar.Null(c.typ)
			continue
		}
		out[i] = c.values[idx]
	}
	return wrap(c.name, c.typ, out)
}

// Slice returns rows [start, end).
func (c *Column) Slice(start, end int) *Column {
	out := make([]scalar.Value, end-start)
	copy(out, c.values[start:end])
	return wrap(c.name, c.typ, out)
}

// Append concatenates columns of the same type after c.
func (c *Column) Append(others ...*Column) (*Column, error) {
	n := len(c.values)
	for _, o := range others {
		if o.typ != c.typ {
			return nil, errs.Argument("append", "column '%s' has type %s, expected %s", o.name, o.typ, c.typ)
		}
		n += len(o.values)
	}
	out := make([]scalar.Value, 0, n)
	out = append(out, c.values...)
	for _, o := range others {
		out = append(out, o.values...)
	}
	return wrap(c.name, c.typ, out), nil
}

// Fill replaces null cells with v converted to the column type.
func (c *Column) Fill(v scalar.Value) (*Column, error) {
	cv, err := scalar.Convert(v, c.typ)
	if err != nil {
		return nil, err
	}
	out := c.Values()
	for i := range out {
		if out[i].IsNull() {
			out[i] = cv
		}
	}
	return wrap(c.name, c.typ, out), nil
}

// cumulative applies step to the running value of each row. With a reset
// column the running value is kept per distinct reset value; rows where the
// input or the reset value is null stay null.
func (c *Column) cumulative(op string, reset *Column, step func(acc, x float64) float64) (*Column, error) {
	if !c.typ.IsNumeric() {
		return nil, errs.Operator(op, "column '%s' must be numeric", c.name)
	}
	if reset != nil && reset.Len() != c.Len() {
		return nil, errs.Argument(op, "input columns must be the same length")
	}

	out := make([]scalar.Value, len(c.values))
	running := make(map[string]float64)
	for i, v := range c.values {
		out[i] = scalar.Null(scalar.Double)
		x, ok := v.Float()
		if !ok {
			continue
		}
		key := ""
		if reset != nil {
			if reset.IsNull(i) {
				continue
			}
			key = reset.values[i].Key()
		}
		acc, seen := running[key]
		if seen {
			acc = step(acc, x)
		} else {
			acc = x
		}
		running[key] = acc
		out[i] = scalar.Float64(acc)
	}
	return wrap(c.name, scalar.Double, out), nil
}

// CumSum returns the running sum, optionally restarted per value of reset.
func (c *Column) CumSum(reset *Column) (*Column, error) {
	return c.cumulative("CUMSUM", reset, func(acc, x float64) float64 { return acc + x })
}

// CumProd returns the running product.
func (c *Column) CumProd(reset *Column) (*Column, error) {
	return c.cumulative("CUMPROD", reset, func(acc, x float64) float64 { return acc * x })
}

// CumMin returns the running minimum.
func (c *Column) CumMin(reset *Column) (*Column, error) {
	return c.cumulative("CUMMIN", reset, func(acc, x float64) float64 { return min(acc, x) })
}

// CumMax returns the running maximum.
func (c *Column) CumMax(reset *Column) (*Column, error) {
	return c.cumulative("CUMMAX", reset, func(acc, x float64) float64 { return max(acc, x) })
}

// Map builds a column of type typ by applying f to every cell. f receives
// null cells too; returning a null value keeps the row null.
func (c *Column) Map(typ scalar.Type, f func(v scalar.Value) (scalar.Value, error)) (*Column, error) {
	out := make([]scalar.Value, len(c.values))
	for i, v := range c.values {
		mv, err := f(v)
		if err != nil {
			return nil, err
		}
		if mv.IsNull() {
			out[i] = scalar.Null(typ)
			continue
		}
		if mv.Type() != typ {
			if mv, err = scalar.Convert(mv, typ); err != nil {
				return nil, errs.WithLocation(err, c.name, i)
			}
		}
		out[i] = mv
	}
	return wrap(c.name, typ, out), nil
}
