package table

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vegasq/tabula/column"
	"github.com/vegasq/tabula/errs"
	"github.com/vegasq/tabula/scalar"
)

func joinSides(t *testing.T) (*Table, *Table) {
	t.Helper()
	left, err := New(
		column.MustFromAny("id", scalar.Int32, 1, 2, 2, 3, nil),
		column.Strings("lv", "a", "b", "c", "d", "e"),
	)
	require.NoError(t, err)
	right, err := New(
		column.MustFromAny("id", scalar.Int32, 2, 2, 3, 4, nil),
		column.Strings("rv", "p", "q", "r", "s", "t"),
	)
	require.NoError(t, err)
	return left, right
}

func TestJoin_RowCounts(t *testing.T) {
	left, right := joinSides(t)

	tests := []struct {
		kind JoinType
		want int
	}{
		// 2x2 matches on id 2, 1 on id 3
		{JoinInner, 5},
		// plus left ids 1 and null
		{JoinLeft, 7},
		// plus right ids 4 and null
		{JoinRight, 7},
		{JoinFull, 9},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			out, err := Join(left, right, JoinSpec{Type: tt.kind, On: []string{"id"}})
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.RowCount())
		})
	}
}

func TestJoin_Inner(t *testing.T) {
	left, right := joinSides(t)
	out, err := Join(left, right, JoinSpec{Type: JoinInner, On: []string{"id"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "lv", "rv"}, out.ColumnNames())
	assert.Equal(t, []any{int32(2), int32(2), int32(2), int32(2), int32(3)}, cells(t, out, "id"))
	assert.Equal(t, []any{"b", "b", "c", "c", "d"}, cells(t, out, "lv"))
	assert.Equal(t, []any{"p", "q", "p", "q", "r"}, cells(t, out, "rv"))
}

func TestJoin_Left(t *testing.T) {
	left, right := joinSides(t)
	out, err := Join(left, right, JoinSpec{Type: JoinLeft})
	require.NoError(t, err)

	assert.Equal(t, []any{"a", "b", "b", "c", "c", "d", "e"}, cells(t, out, "lv"))
	assert.Equal(t, []any{nil, "p", "q", "p", "q", "r", nil}, cells(t, out, "rv"))
	assert.Equal(t, []any{int32(1), int32(2), int32(2), int32(2), int32(2), int32(3), nil}, cells(t, out, "id"))
}

func TestJoin_Right(t *testing.T) {
	left, right := joinSides(t)
	out, err := Join(left, right, JoinSpec{Type: JoinRight, On: []string{"id"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"lv", "id", "rv"}, out.ColumnNames())
	assert.Equal(t, []any{int32(2), int32(2), int32(2), int32(2), int32(3), int32(4), nil}, cells(t, out, "id"))
	assert.Equal(t, []any{"b", "c", "b", "c", "d", nil, nil}, cells(t, out, "lv"))
	assert.Equal(t, []any{"p", "p", "q", "q", "r", "s", "t"}, cells(t, out, "rv"))
}

func TestJoin_FullKeepsBothKeys(t *testing.T) {
	left, right := joinSides(t)
	out, err := Join(left, right, JoinSpec{Type: JoinFull, On: []string{"id"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"id.left", "lv", "id.right", "rv"}, out.ColumnNames())
	assert.Equal(t, []any{nil, "s", "t"}, cells(t, out, "rv")[6:])
	assert.Equal(t, []any{nil, nil}, cells(t, out, "lv")[7:])
}

func TestJoin_IncludeDuplicateKeysAndSuffixes(t *testing.T) {
	left, right := joinSides(t)
	out, err := Join(left, right, JoinSpec{
		Type:                 JoinInner,
		On:                   []string{"id"},
		LeftSuffix:           "_l",
		RightSuffix:          "_r",
		IncludeDuplicateKeys: true,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"id_l", "lv", "id_r", "rv"}, out.ColumnNames())

	_, err = Join(left, right, JoinSpec{LeftSuffix: "x", RightSuffix: "x"})
	assert.Contains(t, err.Error(), "suffixes must be unique")
}

func TestJoin_PairedColumnsAndPromotion(t *testing.T) {
	left, err := New(column.MustFromAny("k", scalar.Int32, 1, 2), column.Strings("v", "one", "two"))
	require.NoError(t, err)
	right, err := New(column.Float64s("key", 2, 1, 1), column.Strings("w", "b", "a", "c"))
	require.NoError(t, err)

	out, err := Join(left, right, JoinSpec{Type: JoinInner, On: []string{"k"}, RightOn: []string{"key"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"k", "v", "key", "w"}, out.ColumnNames())
	assert.Equal(t, []scalar.Type{scalar.Int32, scalar.String, scalar.Double, scalar.String}, out.Types())
	assert.Equal(t, []any{"a", "c", "b"}, cells(t, out, "w"))
}

func TestJoin_Errors(t *testing.T) {
	left, err := New(column.Float64s("a", 1))
	require.NoError(t, err)
	right, err := New(column.Float64s("b", 1))
	require.NoError(t, err)

	_, err = Join(left, right, JoinSpec{})
	assert.True(t, errors.Is(err, errs.ErrArgument))
	assert.Contains(t, err.Error(), "cannot find common columns to join on")

	_, err = Join(left, right, JoinSpec{On: []string{"a"}, RightOn: []string{"b", "c"}})
	assert.True(t, errors.Is(err, errs.ErrArgument))

	_, err = Join(left, right, JoinSpec{On: []string{"a"}})
	assert.True(t, errors.Is(err, errs.ErrColumnNotFound))

	flags, err := New(column.Bools("b", true))
	require.NoError(t, err)
	_, err = Join(left, flags, JoinSpec{On: []string{"a"}, RightOn: []string{"b"}})
	assert.Contains(t, err.Error(), "cannot join column 'a' (Double) with column 'b' (Boolean)")
}

func TestParseJoinType(t *testing.T) {
	for in, want := range map[string]JoinType{
		"inner":      JoinInner,
		"LEFT":       JoinLeft,
		"right":      JoinRight,
		"full":       JoinFull,
		"outer":      JoinFull,
		"Full Outer": JoinFull,
	} {
		got, err := ParseJoinType(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseJoinType("cross")
	assert.True(t, errors.Is(err, errs.ErrArgument))
}

func TestUnionAll(t *testing.T) {
	a, err := New(column.Float64s("x", 1, 2), column.Strings("y", "a", "b"))
	require.NoError(t, err)
	b, err := New(column.Strings("y", "b", "c"), column.MustFromAny("x", scalar.Int32, 2, 3))
	require.NoError(t, err)

	out, err := UnionAll(a, b)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, out.ColumnNames())
	assert.Equal(t, []any{1.0, 2.0, 2.0, 3.0}, cells(t, out, "x"))
	assert.Equal(t, []any{"a", "b", "b", "c"}, cells(t, out, "y"))

	dedup, err := Union(a, b)
	require.NoError(t, err)
	assert.Equal(t, []any{1.0, 2.0, 3.0}, cells(t, dedup, "x"))

	c, err := New(column.Float64s("x", 1), column.Strings("z", "q"))
	require.NoError(t, err)
	_, err = UnionAll(a, c)
	assert.Contains(t, err.Error(), "z does not exist in every table being unioned")

	_, err = UnionAll()
	assert.True(t, errors.Is(err, errs.ErrArgument))
}

func TestUnionSuperset(t *testing.T) {
	a, err := New(column.MustFromAny("x", scalar.Int32, 1), column.Strings("y", "a"))
	require.NoError(t, err)
	b, err := New(column.Float64s("x", 2.5), column.Bools("z", true))
	require.NoError(t, err)

	out, err := UnionSuperset(a, b)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y", "z"}, out.ColumnNames())
	assert.Equal(t, []scalar.Type{scalar.Double, scalar.String, scalar.Boolean}, out.Types())
	assert.Equal(t, []any{1.0, 2.5}, cells(t, out, "x"))
	assert.Equal(t, []any{"a", nil}, cells(t, out, "y"))
	assert.Equal(t, []any{nil, true}, cells(t, out, "z"))

	c, err := New(column.Bools("x", false))
	require.NoError(t, err)
	_, err = UnionSuperset(a, c)
	assert.True(t, errors.Is(err, errs.ErrConversion))
}

func TestDistinct(t *testing.T) {
	tbl, err := New(
		column.MustFromAny("a", scalar.String, "x", "x", nil, nil, "y"),
		column.Float64s("b", 1, 2, 3, 4, 5),
	)
	require.NoError(t, err)

	out, err := tbl.Distinct("a")
	require.NoError(t, err)
	assert.Equal(t, []any{1.0, 3.0, 5.0}, cells(t, out, "b"))

	all, err := tbl.Distinct()
	require.NoError(t, err)
	assert.Equal(t, 5, all.RowCount())
}

func TestAppendColumns(t *testing.T) {
	tbl := sample(t)
	out, err := tbl.AppendColumns(
		[]string{"V2", "Big", "Nothing"},
		[]string{"[V] * 2", "[V2] > 30", "NULL"},
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"Id", "Cat", "V", "V2", "Big", "Nothing"}, out.ColumnNames())
	assert.Equal(t, []any{20.0, nil, 60.0}, cells(t, out, "V2"))
	assert.Equal(t, []any{false, nil, true}, cells(t, out, "Big"))
	assert.Equal(t, []any{nil, nil, nil}, cells(t, out, "Nothing"))
	assert.Equal(t, scalar.Boolean, out.Types()[5])
	assert.Equal(t, 3, tbl.ColumnCount(), "source table untouched")

	_, err = tbl.AppendColumns([]string{"V"}, []string{"1"})
	assert.Contains(t, err.Error(), "column 'V' already exists in table")

	_, err = tbl.AppendColumns([]string{"a", "b"}, []string{"1"})
	assert.True(t, errors.Is(err, errs.ErrArgument))
}

func TestAppendColumnFromList(t *testing.T) {
	tbl := sample(t)
	out, err := tbl.AppendColumnFromList("Flag", []any{"true", false, nil}, "")
	require.NoError(t, err)
	assert.Equal(t, []any{true, false, nil}, cells(t, out, "Flag"))

	out, err = tbl.AppendColumnFromList("N", []any{1, 2, 3}, "int16")
	require.NoError(t, err)
	assert.Equal(t, []any{int16(1), int16(2), int16(3)}, cells(t, out, "N"))

	_, err = tbl.AppendColumnFromList("N", []any{1}, "")
	assert.Contains(t, err.Error(), "same number of rows")
}

func TestAppendColumnFromMap(t *testing.T) {
	tbl := sample(t)
	pairs := []Pair{{"A", "alpha"}, {"C", "gamma"}}

	out, err := tbl.AppendColumnFromMap(pairs, "Cat", "Name", "", nil)
	require.NoError(t, err)
	assert.Equal(t, []any{"alpha", nil, "alpha"}, cells(t, out, "Name"))

	out, err = tbl.AppendColumnFromMap(pairs, "Cat", "Name", "", "unknown")
	require.NoError(t, err)
	assert.Equal(t, []any{"alpha", "unknown", "alpha"}, cells(t, out, "Name"))

	byID, err := tbl.AppendColumnFromMap([]Pair{{"3", 300}, {1, 100}}, "Id", "Score", "int32", nil)
	require.NoError(t, err)
	assert.Equal(t, []any{int32(100), nil, int32(300)}, cells(t, byID, "Score"))

	_, err = tbl.AppendColumnFromMap(pairs, "Nope", "Name", "", nil)
	assert.True(t, errors.Is(err, errs.ErrColumnNotFound))

	_, err = tbl.AppendColumnFromMap([]Pair{{"A", 1}, {"A", 2}}, "Cat", "Name", "", nil)
	assert.Contains(t, err.Error(), "duplicate key 'A'")
}

func TestDropNulls(t *testing.T) {
	tbl, err := New(
		column.MustFromAny("a", scalar.Double, 1, nil, nil),
		column.MustFromAny("b", scalar.String, "x", "y", nil),
	)
	require.NoError(t, err)

	assert.Equal(t, 2, tbl.DropNulls(DropAll).RowCount())
	assert.Equal(t, 1, tbl.DropNulls(DropAny).RowCount())

	mode, err := ParseDropNullMode("ANY")
	require.NoError(t, err)
	assert.Equal(t, DropAny, mode)
	_, err = ParseDropNullMode("some")
	assert.True(t, errors.Is(err, errs.ErrArgument))
}

func TestLookupValue(t *testing.T) {
	tbl := sample(t)

	v, err := tbl.LookupValue("Id", 2, "Cat", DuplicateError)
	require.NoError(t, err)
	assert.Equal(t, "B", v.Any())

	_, err = tbl.LookupValue("Cat", "A", "Id", DuplicateError)
	assert.Contains(t, err.Error(), "multiple matches found")

	v, err = tbl.LookupValue("Cat", "A", "Id", DuplicateFirst)
	require.NoError(t, err)
	assert.Equal(t, 1.0, v.Any())

	v, err = tbl.LookupValue("Cat", "A", "Id", DuplicateLast)
	require.NoError(t, err)
	assert.Equal(t, 3.0, v.Any())

	_, err = tbl.LookupValue("Cat", "Z", "Id", DuplicateFirst)
	assert.Contains(t, err.Error(), "no matching rows found")

	_, err = tbl.LookupValue("Id", "abc", "Cat", DuplicateFirst)
	assert.Contains(t, err.Error(), "could not convert value 'abc' to lookup column type 'Double'")
}

func TestToMap(t *testing.T) {
	tbl, err := New(
		column.MustFromAny("k", scalar.String, "a", "b", nil, "a"),
		column.Float64s("v", 1, 2, 3, 4),
	)
	require.NoError(t, err)

	first, err := tbl.ToMap("k", "v", DuplicateFirst)
	require.NoError(t, err)
	assert.Equal(t, []Pair{{"a", 1.0}, {"b", 2.0}}, first)

	last, err := tbl.ToMap("k", "v", DuplicateLast)
	require.NoError(t, err)
	assert.Equal(t, []Pair{{"a", 4.0}, {"b", 2.0}}, last)

	_, err = tbl.ToMap("k", "v", DuplicateError)
	assert.Contains(t, err.Error(), "duplicate key in column k: 'a'")

	policy, err := ParseDuplicatePolicy("Last")
	require.NoError(t, err)
	assert.Equal(t, DuplicateLast, policy)
}

func TestGridRoundTrip(t *testing.T) {
	tbl := sample(t)
	grid := tbl.Grid(true)
	assert.Equal(t, []any{"Id", "Cat", "V"}, grid[0])
	assert.Equal(t, []any{2.0, "B", nil}, grid[2])

	back, err := Build(grid)
	require.NoError(t, err)
	assert.True(t, back.Equal(tbl))

	recs := tbl.Records()
	assert.Equal(t, map[string]any{"Id": 3.0, "Cat": "A", "V": 30.0}, recs[2])
}
