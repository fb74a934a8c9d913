package table

import (
	"slices"

	"github.com/vegasq/tabula/column"
	"github.com/vegasq/tabula/errs"
	"github.com/vegasq/tabula/scalar"
)

// Project returns the named columns, optionally renamed and converted.
// newNames and newTypes may be nil; otherwise they need one entry per
// current name, and an empty entry keeps the current name or type.
func (t *Table) Project(current, newNames, newTypes []string) (*Table, error) {
	if newNames != nil && len(newNames) != len(current) {
		return nil, errs.Argument("project", "new column names must be same length as current column names")
	}
	if newTypes != nil && len(newTypes) != len(current) {
		return nil, errs.Argument("project", "new column types must be same length as current column names")
	}
	cols, err := t.lookup("project", current...)
	if err != nil {
		return nil, err
	}

	out := make([]*column.Column, len(cols))
	for i, c := range cols {
		if newTypes != nil && newTypes[i] != "" {
			typ, err := scalar.ParseType(newTypes[i])
			if err != nil {
				return nil, errs.Argument("project", "unknown type '%s'", newTypes[i])
			}
			if c, err = c.Cast(typ); err != nil {
				return nil, err
			}
		}
		if newNames != nil && newNames[i] != "" {
			c = c.Rename(newNames[i])
		}
		out[i] = c
	}
	return New(out...)
}

// Select returns the named columns in the given order.
func (t *Table) Select(names ...string) (*Table, error) {
	return t.Project(names, nil, nil)
}

// Drop returns every column except the named ones.
func (t *Table) Drop(names ...string) (*Table, error) {
	if _, err := t.lookup("drop", names...); err != nil {
		return nil, err
	}
	var keep []*column.Column
	for _, c := range t.columns {
		if !slices.Contains(names, c.Name()) {
			keep = append(keep, c)
		}
	}
	return New(keep...)
}

// Rename returns a table with one column renamed.
func (t *Table) Rename(from, to string) (*Table, error) {
	idx, ok := t.index[from]
	if !ok {
		return nil, missingColumn("rename", from)
	}
	if from != to && t.HasColumn(to) {
		return nil, existingColumn("rename", to)
	}
	cols := t.Columns()
	cols[idx] = cols[idx].Rename(to)
	return New(cols...)
}

// Head returns the first n rows, or every row when there are fewer.
func (t *Table) Head(n int) *Table {
	n = min(max(n, 0), t.rows)
	return t.slice(0, n)
}

// Tail returns the last n rows, or every row when there are fewer.
func (t *Table) Tail(n int) *Table {
	n = min(max(n, 0), t.rows)
	return t.slice(t.rows-n, t.rows)
}

func (t *Table) slice(start, end int) *Table {
	cols := make([]*column.Column, len(t.columns))
	for i, c := range t.columns {
		cols[i] = c.Slice(start, end)
	}
	out := mustNew(cols...)
	out.rows = end - start
	return out
}
