package table

import (
	"fmt"

	"github.com/vegasq/tabula/column"
	"github.com/vegasq/tabula/errs"
	"github.com/vegasq/tabula/scalar"
)

// UnionAll stacks the rows of tables. Every table must have the same set of
// column names; columns are matched by name in the order of the first
// table and converted to its column types.
func UnionAll(tables ...*Table) (*Table, error) {
	if len(tables) == 0 {
		return nil, errs.Argument("union", "must provide at least one table to append rows from")
	}
	first := tables[0]
	for _, t := range tables[1:] {
		if t.ColumnCount() != first.ColumnCount() {
			return nil, errs.Argument("union", "tables have %d and %d columns", first.ColumnCount(), t.ColumnCount())
		}
		for _, name := range t.ColumnNames() {
			if !first.HasColumn(name) {
				return nil, errs.Argument("union", "%s does not exist in every table being unioned", name)
			}
		}
	}

	out := make([]*column.Column, first.ColumnCount())
	for i, c := range first.columns {
		parts := make([]*column.Column, 0, len(tables)-1)
		for _, t := range tables[1:] {
			part, err := t.columns[t.index[c.Name()]].Cast(c.Type())
			if err != nil {
				return nil, err
			}
			parts = append(parts, part)
		}
		merged, err := c.Append(parts...)
		if err != nil {
			return nil, err
		}
		out[i] = merged
	}
	return New(out...)
}

// Union is UnionAll followed by Distinct over every column.
func Union(tables ...*Table) (*Table, error) {
	all, err := UnionAll(tables...)
	if err != nil {
		return nil, err
	}
	return all.Distinct()
}

// UnionSuperset stacks tables whose column sets may differ. The result has
// every column that appears in any table, in order of first appearance;
// cells of tables lacking a column are null. A column present in several
// tables takes the promoted type of all of them, and values that cannot be
// converted to it fail with a conversion error.
func UnionSuperset(tables ...*Table) (*Table, error) {
	if len(tables) == 0 {
		return nil, errs.Argument("union", "must provide at least one table to append rows from")
	}
	var names []string
	types := make(map[string]scalar.Type)
	for _, t := range tables {
		for _, c := range t.columns {
			prev, seen := types[c.Name()]
			if !seen {
				names = append(names, c.Name())
				types[c.Name()] = c.Type()
				continue
			}
			pt, err := scalar.Promote(prev, c.Type())
			if err != nil {
				return nil, fmt.Errorf("%w: column '%s' has incompatible types %s and %s",
					errs.ErrConversion, c.Name(), prev, c.Type())
			}
			types[c.Name()] = pt
		}
	}

	out := make([]*column.Column, len(names))
	for i, name := range names {
		typ := types[name]
		parts := make([]*column.Column, len(tables))
		for j, t := range tables {
			idx, ok := t.index[name]
			if !ok {
				parts[j] = column.Nulls(name, typ, t.rows)
				continue
			}
			part, err := t.columns[idx].Cast(typ)
			if err != nil {
				return nil, err
			}
			parts[j] = part
		}
		merged, err := parts[0].Append(parts[1:]...)
		if err != nil {
			return nil, err
		}
		out[i] = merged
	}
	return New(out...)
}

// Distinct drops every row whose values in the named columns repeat an
// earlier row. With no names every column is compared.
func (t *Table) Distinct(names ...string) (*Table, error) {
	cols := t.columns
	if len(names) > 0 {
		var err error
		if cols, err = t.lookup("distinct", names...); err != nil {
			return nil, err
		}
	}
	_, firsts := partition(cols, t.rows)
	return t.gather(firsts), nil
}
