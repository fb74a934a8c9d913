// Package aggregate reduces the rows of a column group to a single value.
//
// Reducers are looked up by case-insensitive operation name:
//
//	f, err := aggregate.Lookup("stddev")
//	v, err := f.Apply(col, rows)
//
// Reducers without an "A" suffix skip null cells; first/last/all have "A"
// variants that take null cells into account.
package aggregate

import (
	"math"
	"sort"
	"strings"

	"github.com/vegasq/tabula/column"
	"github.com/vegasq/tabula/errs"
	"github.com/vegasq/tabula/scalar"
)

// Func is a named reducer
type Func struct {
	name   string
	result func(in scalar.Type) scalar.Type
	reduce func(c *column.Column, rows []int) (scalar.Value, error)
}

// Name returns the canonical operation name
func (f Func) Name() string { return f.name }

// ResultType returns the type of the reduced value for an input column type
func (f Func) ResultType(in scalar.Type) scalar.Type { return f.result(in) }

// Apply reduces the given rows of c. A nil rows slice means every row.
func (f Func) Apply(c *column.Column, rows []int) (scalar.Value, error) {
	if rows == nil {
		rows = make([]int, c.Len())
		for i := range rows {
			rows[i] = i
		}
	}
	return f.reduce(c, rows)
}

func double(scalar.Type) scalar.Type    { return scalar.Double }
func int32Type(scalar.Type) scalar.Type { return scalar.Int32 }
func boolean(scalar.Type) scalar.Type   { return scalar.Boolean }
func same(t scalar.Type) scalar.Type    { return t }

var registry = map[string]Func{}

func register(f Func, aliases ...string) {
	registry[f.name] = f
	for _, a := range aliases {
		registry[a] = f
	}
}

func init() {
	register(Func{"sum", double, numeric("sum", sum)})
	register(Func{"product", double, numeric("product", product)}, "prod")
	register(Func{"min", same, extreme(-1)}, "minimum")
	register(Func{"max", same, extreme(1)}, "maximum")
	register(Func{"median", double, numeric("median", median)})
	register(Func{"first", same, pick(true, true)})
	register(Func{"firsta", same, pick(true, false)})
	register(Func{"last", same, pick(false, true)})
	register(Func{"lasta", same, pick(false, false)})
	register(Func{"all", boolean, all(true)})
	register(Func{"alla", boolean, all(false)})
	register(Func{"count", int32Type, count(true)})
	register(Func{"counta", int32Type, count(false)})

	register(Func{"mean", double, moment("mean", (*Moments).Mean)}, "average", "avg")
	register(Func{"var", double, moment("var", sampled((*Moments).Variance, true))}, "variance")
	register(Func{"varp", double, moment("varp", sampled((*Moments).Variance, false))})
	register(Func{"stddev", double, moment("stddev", sampled((*Moments).StdDev, true))}, "std")
	register(Func{"stddevp", double, moment("stddevp", sampled((*Moments).StdDev, false))})
	register(Func{"skew", double, moment("skew", sampled((*Moments).Skewness, true))})
	register(Func{"skewp", double, moment("skewp", sampled((*Moments).Skewness, false))})
	register(Func{"kurt", double, moment("kurt", sampled((*Moments).Kurtosis, true))}, "kurtosis")
	register(Func{"kurtp", double, moment("kurtp", sampled((*Moments).Kurtosis, false))})
}

// Lookup returns the reducer for an operation name (case-insensitive)
func Lookup(name string) (Func, error) {
	f, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Func{}, errs.Argument("aggregate", "unknown aggregation operation '%s'", name)
	}
	return f, nil
}

// Names lists every accepted operation name, aliases included
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// floats collects the non-null cells of a numeric column
func floats(op string, c *column.Column, rows []int) ([]float64, error) {
	if !c.Type().IsNumeric() {
		return nil, errs.Operator(op, "column '%s' is not numeric", c.Name())
	}
	out := make([]float64, 0, len(rows))
	for _, r := range rows {
		if f, ok := c.Value(r).Float(); ok {
			out = append(out, f)
		}
	}
	return out, nil
}

func numeric(op string, f func(xs []float64) (float64, bool)) func(*column.Column, []int) (scalar.Value, error) {
	return func(c *column.Column, rows []int) (scalar.Value, error) {
		xs, err := floats(op, c, rows)
		if err != nil {
			return scalar.Value{}, err
		}
		v, ok := f(xs)
		if !ok {
			return scalar.Null(scalar.Double), nil
		}
		return scalar.Float64(v), nil
	}
}

func sum(xs []float64) (float64, bool) {
	if len(xs) == 0 {
		return 0, false
	}
	total := 0.0
	for _, x := range xs {
		total += x
	}
	return total, true
}

func product(xs []float64) (float64, bool) {
	if len(xs) == 0 {
		return 0, false
	}
	total := 1.0
	for _, x := range xs {
		total *= x
	}
	return total, true
}

func median(xs []float64) (float64, bool) {
	if len(xs) == 0 {
		return 0, false
	}
	sort.Float64s(xs)
	mid := len(xs) / 2
	if len(xs)%2 == 1 {
		return xs[mid], true
	}
	return (xs[mid-1] + xs[mid]) / 2, true
}

func sampled(f func(*Moments, bool) (float64, bool), sample bool) func(*Moments) (float64, bool) {
	return func(m *Moments) (float64, bool) { return f(m, sample) }
}

func moment(op string, stat func(*Moments) (float64, bool)) func(*column.Column, []int) (scalar.Value, error) {
	return numeric(op, func(xs []float64) (float64, bool) {
		var m Moments
		for _, x := range xs {
			m.Add(x)
		}
		return stat(&m)
	})
}

// extreme returns the smallest (sign -1) or largest (sign 1) non-null cell
func extreme(sign int) func(*column.Column, []int) (scalar.Value, error) {
	return func(c *column.Column, rows []int) (scalar.Value, error) {
		best := scalar.Null(c.Type())
		for _, r := range rows {
			v := c.Value(r)
			if v.IsNull() {
				continue
			}
			if c.Type() == scalar.Double || c.Type() == scalar.Float {
				if f, _ := v.Float(); math.IsNaN(f) {
					continue
				}
			}
			if best.IsNull() || scalar.Compare(v, best)*sign > 0 {
				best = v
			}
		}
		return best, nil
	}
}

// pick returns the first or last cell, skipping nulls when skipNulls is set
func pick(first, skipNulls bool) func(*column.Column, []int) (scalar.Value, error) {
	return func(c *column.Column, rows []int) (scalar.Value, error) {
		for k := range rows {
			r := rows[k]
			if !first {
				r = rows[len(rows)-1-k]
			}
			if v := c.Value(r); !skipNulls || !v.IsNull() {
				return v, nil
			}
		}
		return scalar.Null(c.Type()), nil
	}
}

// all is a logical AND over a Boolean column. Skipping nulls it is true
// for an empty set; otherwise a null makes an otherwise true result null.
func all(skipNulls bool) func(*column.Column, []int) (scalar.Value, error) {
	return func(c *column.Column, rows []int) (scalar.Value, error) {
		if c.Type() != scalar.Boolean {
			return scalar.Value{}, errs.Operator("all", "column '%s' is not boolean", c.Name())
		}
		sawNull := false
		for _, r := range rows {
			v := c.Value(r)
			switch {
			case v.IsNull():
				sawNull = true
			case !v.Bool():
				return scalar.Bool(false), nil
			}
		}
		if sawNull && !skipNulls {
			return scalar.Null(scalar.Boolean), nil
		}
		return scalar.Bool(true), nil
	}
}

func count(skipNulls bool) func(*column.Column, []int) (scalar.Value, error) {
	return func(c *column.Column, rows []int) (scalar.Value, error) {
		if !skipNulls {
			return scalar.I32(int32(len(rows))), nil
		}
		n := 0
		for _, r := range rows {
			if !c.IsNull(r) {
				n++
			}
		}
		return scalar.I32(int32(n)), nil
	}
}
