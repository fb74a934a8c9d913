package table

import (
	"github.com/vegasq/tabula/column"
	"github.com/vegasq/tabula/errs"
	"github.com/vegasq/tabula/scalar"
)

// Pair is one entry of an ordered key/value mapping.
type Pair struct {
	Key   any
	Value any
}

// Build creates a table from a cell grid whose first row is the header.
// Each column gets the type scalar.GuessBestType picks for its cells, and
// trailing rows that are null in every column are dropped.
func Build(grid [][]any) (*Table, error) {
	if len(grid) == 0 {
		return nil, errs.Argument("build", "grid must contain a header row")
	}
	names, err := headerNames(grid[0])
	if err != nil {
		return nil, err
	}

	cols := make([]*column.Column, len(names))
	for j, name := range names {
		c, err := column.FromGuess(name, gridColumn(grid[1:], j))
		if err != nil {
			return nil, err
		}
		cols[j] = c
	}
	t, err := New(cols...)
	if err != nil {
		return nil, err
	}
	return t.trimNullRows(), nil
}

// BuildWithTypes creates a table from a grid of data rows (no header) with
// explicit column types and names. Cells that cannot be converted fail
// with a ConversionError naming the column and row.
func BuildWithTypes(grid [][]any, types, names []string) (*Table, error) {
	width := gridWidth(grid)
	if len(grid) == 0 {
		width = len(names)
	}
	if len(types) != width {
		return nil, errs.Argument("build", "column types length (%d) must equal the number of grid columns (%d)", len(types), width)
	}
	if len(names) != width {
		return nil, errs.Argument("build", "column names length (%d) must equal the number of grid columns (%d)", len(names), width)
	}

	cols := make([]*column.Column, width)
	for j := range width {
		typ, err := scalar.ParseType(types[j])
		if err != nil {
			return nil, errs.Argument("build", "specified column type '%s' is not valid", types[j])
		}
		c, err := column.FromAny(names[j], typ, gridColumn(grid, j))
		if err != nil {
			return nil, err
		}
		cols[j] = c
	}
	t, err := New(cols...)
	if err != nil {
		return nil, err
	}
	return t.trimNullRows(), nil
}

// BuildFromMap creates a two-column table from ordered pairs. The key type
// is guessed; the value type is valueType when given, guessed otherwise.
func BuildFromMap(pairs []Pair, keyColumn, valueColumn, valueType string) (*Table, error) {
	keys := make([]any, len(pairs))
	values := make([]any, len(pairs))
	for i, p := range pairs {
		keys[i] = p.Key
		values[i] = p.Value
	}
	kc, err := column.FromGuess(keyColumn, keys)
	if err != nil {
		return nil, err
	}
	vc, err := typedColumn(valueColumn, valueType, values)
	if err != nil {
		return nil, err
	}
	t, err := New(kc, vc)
	if err != nil {
		return nil, err
	}
	return t.trimNullRows(), nil
}

// typedColumn converts cells to the named type, or guesses one when the
// name is empty.
func typedColumn(name, typeName string, cells []any) (*column.Column, error) {
	if typeName == "" {
		return column.FromGuess(name, cells)
	}
	typ, err := scalar.ParseType(typeName)
	if err != nil {
		return nil, errs.Argument("build", "specified column type '%s' is not valid", typeName)
	}
	return column.FromAny(name, typ, cells)
}

func headerNames(header []any) ([]string, error) {
	names := make([]string, len(header))
	for j, cell := range header {
		if scalar.IsMissing(cell) {
			return nil, errs.Argument("build", "header cell %d is empty", j)
		}
		v, err := scalar.Convert(cell, scalar.String)
		if err != nil {
			return nil, err
		}
		names[j] = v.Str()
	}
	return names, nil
}

// gridColumn extracts column j; short rows read as missing cells.
func gridColumn(rows [][]any, j int) []any {
	out := make([]any, len(rows))
	for i, row := range rows {
		if j < len(row) {
			out[i] = row[j]
		}
	}
	return out
}

func gridWidth(rows [][]any) int {
	w := 0
	for _, row := range rows {
		w = max(w, len(row))
	}
	return w
}

// trimNullRows drops the trailing rows in which every column is null.
func (t *Table) trimNullRows() *Table {
	end := t.rows
	for end > 0 && t.rowIsNull(end-1) {
		end--
	}
	if end == t.rows {
		return t
	}
	return t.Head(end)
}

func (t *Table) rowIsNull(row int) bool {
	for _, c := range t.columns {
		if !c.IsNull(row) {
			return false
		}
	}
	return true
}
