package table

import (
	"strings"

	"github.com/vegasq/tabula/column"
	"github.com/vegasq/tabula/errs"
	"github.com/vegasq/tabula/expr"
	"github.com/vegasq/tabula/scalar"
)

// AppendColumns evaluates each expression and appends the result under the
// matching name. Expressions may refer to columns appended before them. A
// NULL literal result becomes an all-null Boolean column.
func (t *Table) AppendColumns(names, expressions []string) (*Table, error) {
	if len(names) != len(expressions) {
		return nil, errs.Argument("append", "column names must be same length as column expressions")
	}
	out := t
	for i, name := range names {
		if out.HasColumn(name) {
			return nil, existingColumn("append", name)
		}
		c, err := expr.Evaluate(expressions[i], out)
		if err != nil {
			return nil, err
		}
		if out, err = out.AppendColumn(c.Rename(name)); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// AppendColumn returns a table with c added as the last column.
func (t *Table) AppendColumn(c *column.Column) (*Table, error) {
	if t.HasColumn(c.Name()) {
		return nil, existingColumn("append", c.Name())
	}
	if len(t.columns) > 0 && c.Len() != t.rows {
		return nil, errs.Argument("append", "column '%s' has %d rows, table has %d", c.Name(), c.Len(), t.rows)
	}
	return New(append(t.Columns(), c)...)
}

// AppendColumnFromList appends untyped values as a new column. typeName
// selects the column type; when empty the type is guessed.
func (t *Table) AppendColumnFromList(name string, values []any, typeName string) (*Table, error) {
	if t.HasColumn(name) {
		return nil, existingColumn("append", name)
	}
	if len(t.columns) > 0 && len(values) != t.rows {
		return nil, errs.Argument("append", "list must have same number of rows as table")
	}
	c, err := typedColumn(name, typeName, values)
	if err != nil {
		return nil, err
	}
	return t.AppendColumn(c)
}

// AppendColumnFromMap appends a column named valueColumn holding, for every
// row, the value pairs maps the row's keyColumn cell to. Pair keys are
// converted to the key column type. Rows without a match get
// valueOnMissing, or null when it is nil.
func (t *Table) AppendColumnFromMap(pairs []Pair, keyColumn, valueColumn, valueType string, valueOnMissing any) (*Table, error) {
	keys, err := t.lookup("append", keyColumn)
	if err != nil {
		return nil, err
	}
	if t.HasColumn(valueColumn) {
		return nil, existingColumn("append", valueColumn)
	}
	kc := keys[0]

	values := make([]any, len(pairs))
	for i, p := range pairs {
		values[i] = p.Value
	}
	vc, err := typedColumn(valueColumn, valueType, values)
	if err != nil {
		return nil, err
	}

	lookup := make(map[string]int, len(pairs))
	for i, p := range pairs {
		k, err := scalar.Convert(p.Key, kc.Type())
		if err != nil {
			return nil, errs.Argument("append", "could not convert key '%v' to key column type '%s'", p.Key, kc.Type())
		}
		if k.IsNull() {
			continue
		}
		if _, dup := lookup[k.Key()]; dup {
			return nil, errs.Argument("append", "duplicate key '%v'", p.Key)
		}
		lookup[k.Key()] = i
	}

	rows := make([]int, t.rows)
	for r := range rows {
		rows[r] = -1
		if v := kc.Value(r); !v.IsNull() {
			if i, ok := lookup[v.Key()]; ok {
				rows[r] = i
			}
		}
	}
	out := vc.Gather(rows)
	if !scalar.IsMissing(valueOnMissing) {
		fill, err := scalar.Convert(valueOnMissing, out.Type())
		if err != nil {
			return nil, err
		}
		filled := out.Values()
		for r, i := range rows {
			if i < 0 {
				filled[r] = fill
			}
		}
		if out, err = column.New(valueColumn, out.Type(), filled); err != nil {
			return nil, err
		}
	}
	return t.AppendColumn(out)
}

// DropNullMode selects which rows DropNulls removes.
type DropNullMode int

const (
	DropAll DropNullMode = iota // rows in which every cell is null
	DropAny                     // rows with at least one null cell
)

// ParseDropNullMode accepts "all" and "any", case-insensitively.
func ParseDropNullMode(s string) (DropNullMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "all":
		return DropAll, nil
	case "any":
		return DropAny, nil
	}
	return 0, errs.Argument("drop nulls", "unknown drop null behavior '%s', must be either 'all' or 'any'", s)
}

// DropNulls removes rows that are entirely null (DropAll) or that contain
// any null (DropAny).
func (t *Table) DropNulls(mode DropNullMode) *Table {
	var keep []int
	for r := range t.rows {
		nulls := 0
		for _, c := range t.columns {
			if c.IsNull(r) {
				nulls++
			}
		}
		switch {
		case mode == DropAny && nulls > 0:
		case mode == DropAll && nulls == len(t.columns):
		default:
			keep = append(keep, r)
		}
	}
	return t.gather(keep)
}
