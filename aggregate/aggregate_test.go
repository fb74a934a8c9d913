package aggregate

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

func apply(t *testing.T, op string, c *column.Column) scalar.Value {
	t.Helper()
	f, err := Lookup(op)
	require.NoError(t, err)
	v, err := f.Apply(c, nil)
	require.NoError(t, err)
	return v
}

func TestMoments(t *testing.T) {
	var m Moments
	for _, x := range []float64{2, 4, 4, 4, 5, 5, 7, 9} {
		m.Add(x)
	}

	mean, ok := m.Mean()
	require.True(t, ok)
	assert.InDelta(t, 5.0, mean, 1e-12)

	v, _ := m.Variance(false)
	assert.InDelta(t, 4.0, v, 1e-12)
	v, _ = m.Variance(true)
	assert.InDelta(t, 32.0/7, v, 1e-12)

	sd, _ := m.StdDev(false)
	assert.InDelta(t, 2.0, sd, 1e-12)

	skew, _ := m.Skewness(false)
	assert.InDelta(t, 0.65625, skew, 1e-9)
	skew, _ = m.Skewness(true)
	assert.InDelta(t, 8*math.Sqrt(7)/6*42/math.Pow(32, 1.5), skew, 1e-9)

	kurt, _ := m.Kurtosis(false)
	assert.InDelta(t, -0.21875, kurt, 1e-9)
	kurt, _ = m.Kurtosis(true)
	assert.InDelta(t, 0.940625, kurt, 1e-9)
}

func TestMoments_Degenerate(t *testing.T) {
	var empty Moments
	_, ok := empty.Mean()
	assert.False(t, ok)
	_, ok = empty.Variance(false)
	assert.False(t, ok)

	var one Moments
	one.Add(3)
	mean, _ := one.Mean()
	assert.Equal(t, 3.0, mean)
	_, ok = one.Variance(true)
	assert.False(t, ok, "sample variance of one value is undefined")
	v, ok := one.Variance(false)
	assert.True(t, ok)
	assert.Equal(t, 0.0, v)

	s, ok := one.Skewness(false)
	assert.True(t, ok)
	assert.True(t, math.IsNaN(s), "zero second moment gives NaN")
	_, ok = one.Skewness(true)
	assert.False(t, ok)

	k, ok := one.Kurtosis(false)
	assert.True(t, ok)
	assert.True(t, math.IsNaN(k))

	var three Moments
	for _, x := range []float64{1, 2, 3} {
		three.Add(x)
	}
	_, ok = three.Kurtosis(true)
	assert.False(t, ok, "sample kurtosis needs four values")
	_, ok = three.Skewness(true)
	assert.True(t, ok)
}

func TestReducers(t *testing.T) {
	nums := column.MustFromAny("v", scalar.Int32, 3, nil, 1, 4, nil)

	tests := []struct {
		op   string
		want any
	}{
		{"sum", 8.0},
		{"SUM", 8.0},
		{"product", 12.0},
		{"prod", 12.0},
		{"min", int32(1)},
		{"minimum", int32(1)},
		{"max", int32(4)},
		{"median", 3.0},
		{"mean", 8.0 / 3},
		{"avg", 8.0 / 3},
		{"first", int32(3)},
		{"firsta", int32(3)},
		{"last", int32(4)},
		{"lasta", nil},
		{"count", int32(3)},
		{"counta", int32(5)},
		{"varp", 14.0 / 9},
	}

	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {
			got := apply(t, tt.op, nums)
			if f, ok := tt.want.(float64); ok {
				assert.InDelta(t, f, got.Any(), 1e-12)
				return
			}
			assert.Equal(t, tt.want, got.Any())
		})
	}
}

func TestReducers_ResultTypes(t *testing.T) {
	for op, want := range map[string]scalar.Type{
		"sum":    scalar.Double,
		"count":  scalar.Int32,
		"counta": scalar.Int32,
		"min":    scalar.String,
		"first":  scalar.String,
		"alla":   scalar.Boolean,
		"kurt":   scalar.Double,
	} {
		f, err := Lookup(op)
		require.NoError(t, err)
		assert.Equal(t, want, f.ResultType(scalar.String), op)
	}
}

func TestReducers_FirstLastSkipNulls(t *testing.T) {
	c := column.MustFromAny("s", scalar.String, nil, "a", "b", nil)

	assert.Equal(t, "a", apply(t, "first", c).Any())
	assert.Nil(t, apply(t, "firsta", c).Any())
	assert.Equal(t, "b", apply(t, "last", c).Any())
	assert.Nil(t, apply(t, "lasta", c).Any())
	assert.Equal(t, "a", apply(t, "min", c).Any())
	assert.Equal(t, "b", apply(t, "max", c).Any())
}

func TestReducers_All(t *testing.T) {
	withNull := column.MustFromAny("b", scalar.Boolean, true, nil, true)
	withFalse := column.MustFromAny("b", scalar.Boolean, true, nil, false)

	assert.Equal(t, true, apply(t, "all", withNull).Any())
	assert.Nil(t, apply(t, "alla", withNull).Any())
	assert.Equal(t, false, apply(t, "all", withFalse).Any())
	assert.Equal(t, false, apply(t, "alla", withFalse).Any())

	f, _ := Lookup("all")
	_, err := f.Apply(column.Float64s("x", 1), nil)
	assert.True(t, errors.Is(err, errs.ErrEvaluation))
}

func TestReducers_EmptyAndNull(t *testing.T) {
	allNull := column.Nulls("v", scalar.Double, 3)

	for _, op := range []string{"sum", "product", "median", "mean", "var", "varp", "stddev", "skew", "kurtp", "min", "first"} {
		assert.True(t, apply(t, op, allNull).IsNull(), op)
	}
	assert.Equal(t, int32(0), apply(t, "count", allNull).Any())
	assert.Equal(t, int32(3), apply(t, "counta", allNull).Any())
}

func TestReducers_Subset(t *testing.T) {
	c := column.Float64s("v", 10, 20, 30, 40)
	f, err := Lookup("sum")
	require.NoError(t, err)

	v, err := f.Apply(c, []int{1, 3})
	require.NoError(t, err)
	assert.Equal(t, 60.0, v.Any())
}

func TestReducers_Errors(t *testing.T) {
	_, err := Lookup("nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrArgument))
	assert.Contains(t, err.Error(), "unknown aggregation operation 'nope'")

	f, _ := Lookup("mean")
	_, err = f.Apply(column.Strings("name", "a", "b"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "column 'name' is not numeric")
}

func TestNames(t *testing.T) {
	names := Names()
	assert.Contains(t, names, "kurtosis")
	assert.Contains(t, names, "counta")
	assert.IsIncreasing(t, names)
}
