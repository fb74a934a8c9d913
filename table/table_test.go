package table

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vegasq/tabula/column"
	"github.com/vegasq/tabula/errs"
	"github.com/vegasq/tabula/scalar"
)

func sample(t *testing.T) *Table {
	t.Helper()
	tbl, err := Build([][]any{
		{"Id", "Cat", "V"},
		{1, "A", 10},
		{2, "B", nil},
		{3, "A", 30},
	})
	require.NoError(t, err)
	return tbl
}

func cells(t *testing.T, tbl *Table, name string) []any {
	t.Helper()
	c, err := tbl.Column(name)
	require.NoError(t, err)
	return c.Any()
}

func TestNew(t *testing.T) {
	tbl, err := New(column.Float64s("a", 1, 2), column.Strings("b", "x", "y"))
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.RowCount())
	assert.Equal(t, []string{"a", "b"}, tbl.ColumnNames())
	assert.Equal(t, []scalar.Type{scalar.Double, scalar.String}, tbl.Types())
	assert.Equal(t, "table with 2 rows and 2 columns", tbl.String())

	_, err = New(column.Float64s("a", 1), column.Float64s("a", 2))
	assert.True(t, errors.Is(err, errs.ErrArgument))
	assert.Contains(t, err.Error(), "duplicate column name 'a'")

	_, err = New(column.Float64s("a", 1), column.Float64s("b", 1, 2))
	assert.True(t, errors.Is(err, errs.ErrArgument))

	empty, err := New()
	require.NoError(t, err)
	assert.Equal(t, 0, empty.RowCount())
}

func TestColumnLookup(t *testing.T) {
	tbl := sample(t)
	assert.True(t, tbl.HasColumn("Cat"))
	assert.False(t, tbl.HasColumn("cat"), "names are case-sensitive")

	_, err := tbl.Column("cat")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrColumnNotFound))
	assert.True(t, errors.Is(err, errs.ErrArgument))
}

func TestBuild(t *testing.T) {
	tbl := sample(t)
	assert.Equal(t, []scalar.Type{scalar.Double, scalar.String, scalar.Double}, tbl.Types())
	assert.Equal(t, []any{10.0, nil, 30.0}, cells(t, tbl, "V"))
}

func TestBuild_TrimsTrailingNullRows(t *testing.T) {
	tbl, err := Build([][]any{
		{"a", "b"},
		{1, nil},
		{nil, nil},
		{2, "x"},
		{nil, nil},
		{},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, tbl.RowCount(), "interior null rows stay")
	assert.Equal(t, []any{1.0, nil, 2.0}, cells(t, tbl, "a"))
}

func TestBuild_GuessesMixedAsString(t *testing.T) {
	tbl, err := Build([][]any{{"m"}, {1}, {true}})
	require.NoError(t, err)
	assert.Equal(t, scalar.String, tbl.Types()[0])
}

func TestBuild_Errors(t *testing.T) {
	_, err := Build(nil)
	assert.True(t, errors.Is(err, errs.ErrArgument))

	_, err = Build([][]any{{"a", nil}, {1, 2}})
	assert.True(t, errors.Is(err, errs.ErrArgument))

	_, err = Build([][]any{{"a", "a"}, {1, 2}})
	assert.Contains(t, err.Error(), "duplicate column name")
}

func TestBuildWithTypes(t *testing.T) {
	tbl, err := BuildWithTypes([][]any{
		{"1", "x", "2024-01-02"},
		{2.6, nil, nil},
	}, []string{"int", "string", "datetime"}, []string{"n", "s", "d"})
	require.NoError(t, err)
	assert.Equal(t, []scalar.Type{scalar.Int32, scalar.String, scalar.DateTime}, tbl.Types())
	assert.Equal(t, []any{int32(1), int32(3)}, cells(t, tbl, "n"))

	_, err = BuildWithTypes([][]any{{"x"}}, []string{"int", "int"}, []string{"a", "b"})
	assert.True(t, errors.Is(err, errs.ErrArgument))

	_, err = BuildWithTypes([][]any{{"x"}}, []string{"nope"}, []string{"a"})
	assert.Contains(t, err.Error(), "specified column type 'nope' is not valid")

	_, err = BuildWithTypes([][]any{{1}, {"abc"}}, []string{"double"}, []string{"a"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrConversion))
	assert.Contains(t, err.Error(), "cannot convert value 'abc' into type 'Double' [column 'a', row 1]")
}

func TestBuildFromMap(t *testing.T) {
	tbl, err := BuildFromMap([]Pair{{"a", 1}, {"b", 2}}, "key", "value", "int64")
	require.NoError(t, err)
	assert.Equal(t, []string{"key", "value"}, tbl.ColumnNames())
	assert.Equal(t, []any{int64(1), int64(2)}, cells(t, tbl, "value"))
}

func TestEndToEnd(t *testing.T) {
	tbl := sample(t)

	filtered, err := tbl.Filter("[Cat] == 'A'")
	require.NoError(t, err)
	assert.Equal(t, []any{1.0, 3.0}, cells(t, filtered, "Id"))

	grouped, err := tbl.GroupBy(GroupSpec{
		Columns:    []string{"Cat"},
		Operations: []string{"sum"},
		AggColumns: []string{"V"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Cat", "V.sum"}, grouped.ColumnNames())
	assert.Equal(t, []any{"A", "B"}, cells(t, grouped, "Cat"))
	assert.Equal(t, []any{40.0, nil}, cells(t, grouped, "V.sum"))
}

func TestFilter(t *testing.T) {
	tbl := sample(t)

	out, err := tbl.Filter("[V] > 5")
	require.NoError(t, err)
	assert.Equal(t, []any{1.0, 3.0}, cells(t, out, "Id"), "null comparisons drop the row")

	same, err := tbl.Filter("  ")
	require.NoError(t, err)
	assert.True(t, same.Equal(tbl))

	_, err = tbl.Filter("[V] + 1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrEvaluation))
	assert.Contains(t, err.Error(), "must evaluate to a boolean")

	_, err = tbl.Filter("[V] >")
	assert.True(t, errors.Is(err, errs.ErrSyntax))

	_, err = tbl.Filter("[Missing] == 1")
	assert.True(t, errors.Is(err, errs.ErrColumnNotFound))
}

func TestFilter_NullLiteral(t *testing.T) {
	out, err := sample(t).Filter("[V] IS NULL")
	require.NoError(t, err)
	assert.Equal(t, []any{2.0}, cells(t, out, "Id"))
}

func TestFilterValue(t *testing.T) {
	tbl := sample(t)

	out, err := tbl.FilterValue("Id", "3", true)
	require.NoError(t, err)
	assert.Equal(t, []any{"A"}, cells(t, out, "Cat"))

	out, err = tbl.FilterValue("Cat", "A", false)
	require.NoError(t, err)
	assert.Equal(t, []any{2.0}, cells(t, out, "Id"))

	_, err = tbl.FilterValue("Id", "abc", true)
	assert.Contains(t, err.Error(), "could not convert value 'abc' to type 'Double'")

	_, err = tbl.FilterValue("Id", nil, true)
	assert.True(t, errors.Is(err, errs.ErrArgument))
}

func TestSort_NullPlacement(t *testing.T) {
	tbl, err := New(column.MustFromAny("v", scalar.Int32, 5, nil, 2))
	require.NoError(t, err)

	tests := []struct {
		name       string
		descending bool
		nullsFirst bool
		want       []any
	}{
		{"asc nulls last", false, false, []any{int32(2), int32(5), nil}},
		{"asc nulls first", false, true, []any{nil, int32(2), int32(5)}},
		{"desc nulls last", true, false, []any{int32(5), int32(2), nil}},
		{"desc nulls first", true, true, []any{nil, int32(5), int32(2)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := tbl.Sort([]string{"v"}, []bool{tt.descending}, []bool{tt.nullsFirst})
			require.NoError(t, err)
			assert.Equal(t, tt.want, cells(t, out, "v"))
		})
	}
}

func TestSort_MultiKey(t *testing.T) {
	tbl, err := New(
		column.Strings("k", "b", "a", "b", "a"),
		column.Float64s("v", 1, 2, 3, 4),
	)
	require.NoError(t, err)

	out, err := tbl.Sort([]string{"k", "v"}, []bool{false, true}, nil)
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "a", "b", "b"}, cells(t, out, "k"))
	assert.Equal(t, []any{4.0, 2.0, 3.0, 1.0}, cells(t, out, "v"))
}

func TestSort_Stable(t *testing.T) {
	tbl, err := New(
		column.Strings("k", "x", "y", "x", "y", "x"),
		column.Float64s("id", 0, 1, 2, 3, 4),
	)
	require.NoError(t, err)

	once, err := tbl.Sort([]string{"k"}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []any{0.0, 2.0, 4.0, 1.0, 3.0}, cells(t, once, "id"))

	twice, err := once.Sort([]string{"k"}, nil, nil)
	require.NoError(t, err)
	assert.True(t, once.Equal(twice))

	desc, err := tbl.Sort([]string{"k"}, []bool{true}, nil)
	require.NoError(t, err)
	assert.Equal(t, []any{1.0, 3.0, 0.0, 2.0, 4.0}, cells(t, desc, "id"), "ties keep input order when descending")
}

func TestSort_Errors(t *testing.T) {
	tbl := sample(t)

	_, err := tbl.Sort([]string{"Id"}, []bool{true, false}, nil)
	assert.True(t, errors.Is(err, errs.ErrArgument))

	_, err = tbl.Sort([]string{"Id"}, nil, []bool{})
	assert.True(t, errors.Is(err, errs.ErrArgument))

	_, err = tbl.Sort(nil, nil, nil)
	assert.True(t, errors.Is(err, errs.ErrArgument))

	_, err = tbl.Sort([]string{"nope"}, nil, nil)
	assert.True(t, errors.Is(err, errs.ErrColumnNotFound))
}

func TestGroupBy_CountVsCountA(t *testing.T) {
	tbl, err := New(
		column.Strings("cat", "a", "a", "b", "b", "b"),
		column.MustFromAny("v", scalar.Double, 1, nil, nil, nil, 5),
	)
	require.NoError(t, err)

	out, err := tbl.GroupBy(GroupSpec{
		Columns:     []string{"cat"},
		Operations:  []string{"count", "countA"},
		AggColumns:  []string{"v", "v"},
		OutputNames: []string{"n", "rows"},
	})
	require.NoError(t, err)
	assert.Equal(t, []any{int32(1), int32(1)}, cells(t, out, "n"))
	assert.Equal(t, []any{int32(2), int32(3)}, cells(t, out, "rows"))
}

func TestGroupBy_SingleElementStatistics(t *testing.T) {
	tbl, err := New(column.Strings("g", "x"), column.Float64s("v", 7))
	require.NoError(t, err)

	out, err := tbl.GroupBy(GroupSpec{
		Columns:    []string{"g"},
		Operations: []string{"mean", "var", "varp", "skewp", "kurt"},
		AggColumns: []string{"v", "v", "v", "v", "v"},
	})
	require.NoError(t, err)

	assert.Equal(t, []any{7.0}, cells(t, out, "v.mean"))
	assert.Equal(t, []any{nil}, cells(t, out, "v.var"))
	assert.Equal(t, []any{0.0}, cells(t, out, "v.varp"))
	assert.True(t, math.IsNaN(cells(t, out, "v.skewp")[0].(float64)))
	assert.Equal(t, []any{nil}, cells(t, out, "v.kurt"))
}

func TestGroupBy_DefaultColumns(t *testing.T) {
	out, err := sample(t).GroupBy(GroupSpec{Columns: []string{"Cat"}, Operations: []string{"max"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Cat", "Id.max", "V.max"}, out.ColumnNames())
	assert.Equal(t, []any{3.0, 2.0}, cells(t, out, "Id.max"))
}

func TestGroupBy_MultipleKeysAndNullKey(t *testing.T) {
	tbl, err := New(
		column.MustFromAny("a", scalar.String, "x", nil, "x", nil, "x"),
		column.MustFromAny("b", scalar.Int32, 1, 1, 2, 1, 1),
		column.Float64s("v", 1, 2, 3, 4, 5),
	)
	require.NoError(t, err)

	out, err := tbl.GroupBy(GroupSpec{Columns: []string{"a", "b"}, Operations: []string{"sum"}, AggColumns: []string{"v"}})
	require.NoError(t, err)
	assert.Equal(t, []any{"x", nil, "x"}, cells(t, out, "a"))
	assert.Equal(t, []any{int32(1), int32(1), int32(2)}, cells(t, out, "b"))
	assert.Equal(t, []any{6.0, 6.0, 3.0}, cells(t, out, "v.sum"))
}

func TestGroupBy_KeysWithSeparatorBytes(t *testing.T) {
	tbl, err := New(
		column.Strings("a", "x\x1fString:y", "x"),
		column.Strings("b", "z", "y\x1fString:z"),
		column.Float64s("v", 1, 2),
	)
	require.NoError(t, err)

	out, err := tbl.GroupBy(GroupSpec{Columns: []string{"a", "b"}, Operations: []string{"sum"}, AggColumns: []string{"v"}})
	require.NoError(t, err)
	assert.Equal(t, 2, out.RowCount())
	assert.Equal(t, []any{1.0, 2.0}, cells(t, out, "v.sum"))

	d, err := tbl.Distinct("a", "b")
	require.NoError(t, err)
	assert.Equal(t, 2, d.RowCount())
}

func TestGroupBy_NegativeZeroKey(t *testing.T) {
	tbl, err := New(
		column.Float64s("k", 0, math.Copysign(0, -1)),
		column.Float64s("v", 1, 2),
	)
	require.NoError(t, err)

	out, err := tbl.GroupBy(GroupSpec{Columns: []string{"k"}, Operations: []string{"sum"}, AggColumns: []string{"v"}})
	require.NoError(t, err)
	assert.Equal(t, []any{3.0}, cells(t, out, "v.sum"))
}

func TestGroupBy_Errors(t *testing.T) {
	tbl := sample(t)

	tests := []struct {
		name string
		spec GroupSpec
		want string
	}{
		{"no columns", GroupSpec{Operations: []string{"sum"}}, "at least one group column"},
		{"no operations", GroupSpec{Columns: []string{"Cat"}}, "at least one group by operation"},
		{"ops without columns", GroupSpec{Columns: []string{"Cat"}, Operations: []string{"sum", "max"}}, "only allowed if aggregation columns"},
		{"length mismatch", GroupSpec{Columns: []string{"Cat"}, Operations: []string{"sum", "max"}, AggColumns: []string{"V"}}, "same length"},
		{"names mismatch", GroupSpec{Columns: []string{"Cat"}, Operations: []string{"sum"}, AggColumns: []string{"V"}, OutputNames: []string{"a", "b"}}, "does not match"},
		{"unknown op", GroupSpec{Columns: []string{"Cat"}, Operations: []string{"mode"}, AggColumns: []string{"V"}}, "unknown aggregation operation 'mode'"},
		{"missing column", GroupSpec{Columns: []string{"Nope"}, Operations: []string{"sum"}}, "column not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tbl.GroupBy(tt.spec)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	_, err := tbl.GroupBy(GroupSpec{Columns: []string{"Id"}, Operations: []string{"mean"}, AggColumns: []string{"Cat"}})
	assert.True(t, errors.Is(err, errs.ErrEvaluation))
}

func TestProject_RoundTrip(t *testing.T) {
	tbl := sample(t)
	names := tbl.ColumnNames()

	renamed, err := tbl.Project(names, []string{"Key", "Category", "Value"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Key", "Category", "Value"}, renamed.ColumnNames())

	back, err := renamed.Project(renamed.ColumnNames(), names, nil)
	require.NoError(t, err)
	assert.True(t, back.Equal(tbl))
}

func TestProject_Types(t *testing.T) {
	out, err := sample(t).Project([]string{"V", "Id"}, []string{"", "ident"}, []string{"int64", ""})
	require.NoError(t, err)
	assert.Equal(t, []string{"V", "ident"}, out.ColumnNames())
	assert.Equal(t, []scalar.Type{scalar.Int64, scalar.Double}, out.Types())

	_, err = sample(t).Project([]string{"V"}, []string{"a", "b"}, nil)
	assert.True(t, errors.Is(err, errs.ErrArgument))

	_, err = sample(t).Project([]string{"V"}, nil, []string{"whatever"})
	assert.Contains(t, err.Error(), "unknown type 'whatever'")

	_, err = sample(t).Project([]string{"Cat"}, nil, []string{"double"})
	assert.True(t, errors.Is(err, errs.ErrConversion))
}

func TestSelectDropHeadTail(t *testing.T) {
	tbl := sample(t)

	sel, err := tbl.Select("V", "Id")
	require.NoError(t, err)
	assert.Equal(t, []string{"V", "Id"}, sel.ColumnNames())

	dropped, err := tbl.Drop("Cat")
	require.NoError(t, err)
	assert.Equal(t, []string{"Id", "V"}, dropped.ColumnNames())

	_, err = tbl.Drop("nope")
	assert.True(t, errors.Is(err, errs.ErrColumnNotFound))

	assert.Equal(t, []any{1.0, 2.0}, cells(t, tbl.Head(2), "Id"))
	assert.Equal(t, []any{2.0, 3.0}, cells(t, tbl.Tail(2), "Id"))
	assert.Equal(t, 3, tbl.Head(10).RowCount())
	assert.Equal(t, 0, tbl.Tail(-1).RowCount())

	renamed, err := tbl.Rename("V", "Value")
	require.NoError(t, err)
	assert.Equal(t, []string{"Id", "Cat", "Value"}, renamed.ColumnNames())
	_, err = tbl.Rename("V", "Id")
	assert.True(t, errors.Is(err, errs.ErrArgument))
}

func TestCopy_IsIndependent(t *testing.T) {
	tbl := sample(t)
	cp := tbl.Copy()
	assert.True(t, cp.Equal(tbl))
	assert.NotSame(t, tbl.ColumnAt(0), cp.ColumnAt(0))

	_, err := cp.AppendColumnFromList("extra", []any{1, 2, 3}, "")
	require.NoError(t, err)
	assert.Equal(t, 3, tbl.ColumnCount())
}

func TestTake(t *testing.T) {
	tbl := sample(t)
	out, err := tbl.Take([]int{2, 0})
	require.NoError(t, err)
	assert.Equal(t, []any{3.0, 1.0}, cells(t, out, "Id"))

	_, err = tbl.Take([]int{3})
	assert.True(t, errors.Is(err, errs.ErrArgument))
}
