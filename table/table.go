// Package table implements the in-memory table: an ordered set of uniquely
// named, equal-length columns, and the algebra over it.
//
// A Table is never modified after it is returned. Filter, Sort, GroupBy,
// Join, Project, Union and the append helpers all build a new Table, so a
// Table can be shared between goroutines without locking.
//
//	t, err := table.Build(grid)
//	a, err := t.Filter("[Region] == 'EU' AND [Units] > 10")
//	g, err := a.GroupBy(table.GroupSpec{
//	    Columns:    []string{"Product"},
//	    Operations: []string{"sum"},
//	    AggColumns: []string{"Units"},
//	})
package table

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vegasq/tabula/column"
	"github.com/vegasq/tabula/errs"
	"github.com/vegasq/tabula/scalar"
)

// Table is an ordered sequence of uniquely named columns of equal length.
// Column names are case-sensitive.
type Table struct {
	columns []*column.Column
	index   map[string]int
	rows    int
}

// New builds a table from columns. Names must be unique and every column
// must have the same length.
func New(columns ...*column.Column) (*Table, error) {
	t := &Table{
		columns: make([]*column.Column, 0, len(columns)),
		index:   make(map[string]int, len(columns)),
	}
	for i, c := range columns {
		if c == nil {
			return nil, errs.Argument("table", "column %d is nil", i)
		}
		if _, dup := t.index[c.Name()]; dup {
			return nil, errs.Argument("table", "duplicate column name '%s'", c.Name())
		}
		if i == 0 {
			t.rows = c.Len()
		} else if c.Len() != t.rows {
			return nil, errs.Argument("table", "column '%s' has %d rows, expected %d", c.Name(), c.Len(), t.rows)
		}
		t.index[c.Name()] = len(t.columns)
		t.columns = append(t.columns, c)
	}
	return t, nil
}

// mustNew is New for column sets that are valid by construction.
func mustNew(columns ...*column.Column) *Table {
	t, err := New(columns...)
	if err != nil {
		panic(err)
	}
	return t
}

func missingColumn(op, name string) error {
	return &errs.ArgumentError{Op: op, Err: fmt.Errorf("%w: '%s'", errs.ErrColumnNotFound, name)}
}

func existingColumn(op, name string) error {
	return errs.Argument(op, "column '%s' already exists in table", name)
}

// Column returns the column with the exact name. The error wraps
// errs.ErrColumnNotFound, which makes Table an expression data context.
func (t *Table) Column(name string) (*column.Column, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, missingColumn("", name)
	}
	return t.columns[i], nil
}

// lookup resolves names for op, failing on the first missing one.
func (t *Table) lookup(op string, names ...string) ([]*column.Column, error) {
	out := make([]*column.Column, len(names))
	for i, name := range names {
		idx, ok := t.index[name]
		if !ok {
			return nil, missingColumn(op, name)
		}
		out[i] = t.columns[idx]
	}
	return out, nil
}

// ColumnAt returns the i-th column.
func (t *Table) ColumnAt(i int) *column.Column { return t.columns[i] }

// RowCount returns the common length of the columns.
func (t *Table) RowCount() int { return t.rows }

// ColumnCount returns the number of columns.
func (t *Table) ColumnCount() int { return len(t.columns) }

// HasColumn reports whether a column with the exact name exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Columns returns the columns in order. The slice is a copy; the columns
// themselves are immutable.
func (t *Table) Columns() []*column.Column {
	out := make([]*column.Column, len(t.columns))
	copy(out, t.columns)
	return out
}

// ColumnNames returns the column names in order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name()
	}
	return names
}

// Types returns the column types in order.
func (t *Table) Types() []scalar.Type {
	types := make([]scalar.Type, len(t.columns))
	for i, c := range t.columns {
		types[i] = c.Type()
	}
	return types
}

// Copy returns a deep copy that shares no storage with t.
func (t *Table) Copy() *Table {
	cols := make([]*column.Column, len(t.columns))
	for i, c := range t.columns {
		cols[i] = c.Clone()
	}
	return mustNew(cols...)
}

// Equal reports whether both tables have the same columns, in the same
// order, with equal names, types and cells.
func (t *Table) Equal(o *Table) bool {
	if o == nil || len(t.columns) != len(o.columns) || t.rows != o.rows {
		return false
	}
	for i, c := range t.columns {
		if !c.Equal(o.columns[i]) {
			return false
		}
	}
	return true
}

func (t *Table) String() string {
	return fmt.Sprintf("table with %d rows and %d columns", t.rows, len(t.columns))
}

// Describe lists the columns with their types, one per line.
func (t *Table) Describe() string {
	var sb strings.Builder
	for _, c := range t.columns {
		fmt.Fprintf(&sb, "%s\t%s\t%d nulls\n", c.Name(), c.Type(), c.NullCount())
	}
	return sb.String()
}

// gather builds a table from the given rows of every column; -1 yields a
// null row.
func (t *Table) gather(rows []int) *Table {
	cols := make([]*column.Column, len(t.columns))
	for i, c := range t.columns {
		cols[i] = c.Gather(rows)
	}
	out := mustNew(cols...)
	out.rows = len(rows)
	return out
}

// Take returns the given rows in the given order.
func (t *Table) Take(rows []int) (*Table, error) {
	for _, r := range rows {
		if r < 0 || r >= t.rows {
			return nil, errs.Argument("take", "row index %d out of range [0, %d)", r, t.rows)
		}
	}
	return t.gather(rows), nil
}

// Row returns the cells of row i.
func (t *Table) Row(i int) []scalar.Value {
	out := make([]scalar.Value, len(t.columns))
	for j, c := range t.columns {
		out[j] = c.Value(i)
	}
	return out
}

func identity(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// rowKey is a composite key over cols that is equal for two rows exactly
// when every cell is equal. Nulls compare equal to each other.
func rowKey(cols []*column.Column, row int) string {
	if len(cols) == 1 {
		return cols[0].Value(row).Key()
	}
	var sb strings.Builder
	for _, c := range cols {
		k := c.Value(row).Key()
		sb.WriteString(strconv.Itoa(len(k)))
		sb.WriteByte(':')
		sb.WriteString(k)
	}
	return sb.String()
}
