package expr

import (
	"math"

	"github.com/vegasq/tabula/column"
	"github.com/vegasq/tabula/scalar"
)

// Math Functions

// doubleWise applies f to the float forms of numeric argument columns and
// returns a Double column. A null in any input gives a null cell.
func doubleWise(args []Result, rows int, names []string, f func(xs []float64) float64) (Result, error) {
	cols := make([]*column.Column, len(args))
	for i, a := range args {
		c, err := numericArg(a, rows, names[i])
		if err != nil {
			return Result{}, err
		}
		cols[i] = c
	}
	xs := make([]float64, len(cols))
	return rowWise(rows, scalar.Double, func(i int) (scalar.Value, error) {
		if anyNull(i, cols...) {
			return scalar.Null(scalar.Double), nil
		}
		for k, c := range cols {
			xs[k], _ = c.Value(i).Float()
		}
		return scalar.Float64(f(xs)), nil
	})
}

// AbsFunc returns the absolute value of a number, keeping its type
type AbsFunc struct{}

func (f *AbsFunc) Name() string  { return "ABS" }
func (f *AbsFunc) MinArity() int { return 1 }
func (f *AbsFunc) MaxArity() int { return 1 }
func (f *AbsFunc) Evaluate(args []Result, rows int) (Result, error) {
	c, err := numericArg(args[0], rows, "input")
	if err != nil {
		return Result{}, err
	}
	typ := c.Type()
	out, err := c.Map(typ, func(v scalar.Value) (scalar.Value, error) {
		switch {
		case v.IsNull(), typ.IsUnsigned():
			return v, nil
		case typ == scalar.Decimal:
			d, _ := v.Decimal()
			return scalar.Dec(d.Abs()), nil
		case typ.IsInteger():
			n, _ := v.Int()
			if n < 0 {
				n = -n
			}
			return scalar.I64(n), nil
		}
		x, _ := v.Float()
		return scalar.Float64(math.Abs(x)), nil
	})
	if err != nil {
		return Result{}, err
	}
	return ColumnResult(out), nil
}

// ExpFunc is EXP(x) = e^x, or EXP(base, exponent) = base^exponent
type ExpFunc struct{}

func (f *ExpFunc) Name() string  { return "EXP" }
func (f *ExpFunc) MinArity() int { return 1 }
func (f *ExpFunc) MaxArity() int { return 2 }
func (f *ExpFunc) Evaluate(args []Result, rows int) (Result, error) {
	if len(args) == 1 {
		return doubleWise(args, rows, []string{"exponent"}, func(xs []float64) float64 {
			return math.Exp(xs[0])
		})
	}
	return doubleWise(args, rows, []string{"base", "exponent"}, func(xs []float64) float64 {
		return math.Pow(xs[0], xs[1])
	})
}

// LogFunc is the natural logarithm, or LOG(x, base)
type LogFunc struct{}

func (f *LogFunc) Name() string  { return "LOG" }
func (f *LogFunc) MinArity() int { return 1 }
func (f *LogFunc) MaxArity() int { return 2 }
func (f *LogFunc) Evaluate(args []Result, rows int) (Result, error) {
	if len(args) == 1 {
		return doubleWise(args, rows, []string{"input"}, func(xs []float64) float64 {
			return math.Log(xs[0])
		})
	}
	return doubleWise(args, rows, []string{"input", "base"}, func(xs []float64) float64 {
		return math.Log(xs[0]) / math.Log(xs[1])
	})
}

// RoundFunc rounds half to even: ROUND(x[, digits]). Negative digits round
// to tens, hundreds and so on.
type RoundFunc struct{}

func (f *RoundFunc) Name() string  { return "ROUND" }
func (f *RoundFunc) MinArity() int { return 1 }
func (f *RoundFunc) MaxArity() int { return 2 }
func (f *RoundFunc) Evaluate(args []Result, rows int) (Result, error) {
	if len(args) == 1 {
		return doubleWise(args, rows, []string{"input"}, func(xs []float64) float64 {
			return math.RoundToEven(xs[0])
		})
	}
	return doubleWise(args, rows, []string{"input", "digits"}, func(xs []float64) float64 {
		return roundDigits(xs[0], int(xs[1]))
	})
}

func roundDigits(x float64, digits int) float64 {
	if digits < 0 {
		scale := math.Pow10(-digits)
		return math.RoundToEven(x/scale) * scale
	}
	scale := math.Pow10(digits)
	return math.RoundToEven(x*scale) / scale
}

// CumulativeFunc is one of CUMSUM, CUMPROD, CUMMIN and CUMMAX. An optional
// second argument restarts the running value per distinct group value.
type CumulativeFunc struct {
	name  string
	apply func(c, reset *column.Column) (*column.Column, error)
}

func (f *CumulativeFunc) Name() string  { return f.name }
func (f *CumulativeFunc) MinArity() int { return 1 }
func (f *CumulativeFunc) MaxArity() int { return 2 }
func (f *CumulativeFunc) Evaluate(args []Result, rows int) (Result, error) {
	c, err := numericArg(args[0], rows, "input")
	if err != nil {
		return Result{}, err
	}
	var reset *column.Column
	if len(args) == 2 {
		reset = args[1].Materialize(scalar.String, rows)
	}
	out, err := f.apply(c, reset)
	if err != nil {
		return Result{}, err
	}
	return ColumnResult(out), nil
}
