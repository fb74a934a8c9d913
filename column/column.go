// Package column implements the named, fixed-length, typed and nullable
// column that tables are made of, together with its elementwise operations.
//
// Columns are immutable. Every operation returns a new Column and never
// touches its inputs, so a Column can be shared freely between tables and
// goroutines.
package column

import (
	"fmt"
	"strings"

	"github.com/vegasq/tabula/errs"
	"github.com/vegasq/tabula/scalar"
)

// Column is a named sequence of values that all share one scalar type.
type Column struct {
	name   string
	typ    scalar.Type
	values []scalar.Value
}

// New builds a column from values, converting any value whose type differs
// from typ. Conversion failures report the column name and row.
func New(name string, typ scalar.Type, values []scalar.Value) (*Column, error) {
	out := make([]scalar.Value, len(values))
	for i, v := range values {
		if v.IsNull() {
			out[i] = scalar.Null(typ)
			continue
		}
		if v.Type() == typ {
			out[i] = v
			continue
		}
		cv, err := scalar.Convert(v, typ)
		if err != nil {
			return nil, errs.WithLocation(err, name, i)
		}
		out[i] = cv
	}
	return &Column{name: name, typ: typ, values: out}, nil
}

// FromAny converts untyped cells into a column of type typ.
func FromAny(name string, typ scalar.Type, cells []any) (*Column, error) {
	out := make([]scalar.Value, len(cells))
	for i, cell := range cells {
		v, err := scalar.Convert(cell, typ)
		if err != nil {
			return nil, errs.WithLocation(err, name, i)
		}
		out[i] = v
	}
	return &Column{name: name, typ: typ, values: out}, nil
}

// MustFromAny is FromAny for literal data; it panics on conversion failure.
func MustFromAny(name string, typ scalar.Type, cells ...any) *Column {
	c, err := FromAny(name, typ, cells)
	if err != nil {
		panic(err)
	}
	return c
}

// FromGuess picks a type for the cells with scalar.GuessBestType and
// converts them.
func FromGuess(name string, cells []any) (*Column, error) {
	return FromAny(name, scalar.GuessBestType(cells), cells)
}

// Nulls returns a column of n nulls.
func Nulls(name string, typ scalar.Type, n int) *Column {
	values := make([]scalar.Value, n)
	for i := range values {
		values[i] = scalar.Null(typ)
	}
	return &Column{name: name, typ: typ, values: values}
}

// Repeat returns a column holding v n times.
func Repeat(name string, v scalar.Value, n int) *Column {
	values := make([]scalar.Value, n)
	for i := range values {
		values[i] = v
	}
	return &Column{name: name, typ: v.Type(), values: values}
}

// Bools builds a non-null Boolean column.
func Bools(name string, bs ...bool) *Column {
	values := make([]scalar.Value, len(bs))
	for i, b := range bs {
		values[i] = scalar.Bool(b)
	}
	return &Column{name: name, typ: scalar.Boolean, values: values}
}

// Float64s builds a non-null Double column.
func Float64s(name string, fs ...float64) *Column {
	values := make([]scalar.Value, len(fs))
	for i, f := range fs {
		values[i] = scalar.Float64(f)
	}
	return &Column{name: name, typ: scalar.Double, values: values}
}

// Strings builds a non-null String column.
func Strings(name string, ss ...string) *Column {
	values := make([]scalar.Value, len(ss))
	for i, s := range ss {
		values[i] = scalar.Str(s)
	}
	return &Column{name: name, typ: scalar.String, values: values}
}

// Int64s builds a non-null Int64 column.
func Int64s(name string, is ...int64) *Column {
	values := make([]scalar.Value, len(is))
	for i, n := range is {
		values[i] = scalar.I64(n)
	}
	return &Column{name: name, typ: scalar.Int64, values: values}
}

// wrap builds a column around values the caller already typed correctly.
func wrap(name string, typ scalar.Type, values []scalar.Value) *Column {
	return &Column{name: name, typ: typ, values: values}
}

func (c *Column) Name() string      { return c.name }
func (c *Column) Type() scalar.Type { return c.typ }
func (c *Column) Len() int          { return len(c.values) }

// Value returns the cell at row i.
func (c *Column) Value(i int) scalar.Value { return c.values[i] }

// IsNull reports whether the cell at row i is null.
func (c *Column) IsNull(i int) bool { return c.values[i].IsNull() }

// NullCount returns the number of null cells.
func (c *Column) NullCount() int {
	n := 0
	for _, v := range c.values {
		if v.IsNull() {
			n++
		}
	}
	return n
}

// Values returns a copy of the cells.
func (c *Column) Values() []scalar.Value {
	out := make([]scalar.Value, len(c.values))
	copy(out, c.values)
	return out
}

// Any returns the cells as native Go values, nil for null.
func (c *Column) Any() []any {
	out := make([]any, len(c.values))
	for i, v := range c.values {
		out[i] = v.Any()
	}
	return out
}

// Rename returns the same data under a new name.
func (c *Column) Rename(name string) *Column {
	return &Column{name: name, typ: c.typ, values: c.values}
}

// Clone returns an independent copy of the column.
func (c *Column) Clone() *Column {
	return &Column{name: c.name, typ: c.typ, values: c.Values()}
}

// Equal reports whether two columns have the same name, type and cells.
func (c *Column) Equal(o *Column) bool {
	if c.name != o.name || c.typ != o.typ || len(c.values) != len(o.values) {
		return false
	}
	for i := range c.values {
		if !scalar.Equal(c.values[i], o.values[i]) {
			return false
		}
	}
	return true
}

func (c *Column) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (%s) [", c.name, c.typ)
	for i, v := range c.values {
		if i > 0 {
			sb.WriteString(", ")
		}
		if i == 10 {
			fmt.Fprintf(&sb, "... %d more", len(c.values)-i)
			break
		}
		if v.IsNull() {
			sb.WriteString("null")
		} else {
			sb.WriteString(v.String())
		}
	}
	sb.WriteString("]")
	return sb.String()
}
