package expr

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vegasq/tabula/scalar"
)

// FormatFunc renders a value as a string: FORMAT(x, format). Dates take
// .NET-style date formats; numbers take standard formats (F2, N0, P1, E3,
// D5) or custom digit patterns such as "0.00" and "#,##0.0". Strings are
// returned unchanged.
type FormatFunc struct{}

func (f *FormatFunc) Name() string  { return "FORMAT" }
func (f *FormatFunc) MinArity() int { return 2 }
func (f *FormatFunc) MaxArity() int { return 2 }
func (f *FormatFunc) Evaluate(args []Result, rows int) (Result, error) {
	if args[0].IsNull() {
		return ColumnResult(args[0].Materialize(scalar.String, rows)), nil
	}
	input := args[0].col
	format, err := stringArg(args[1], rows, "format")
	if err != nil {
		return Result{}, err
	}

	return rowWise(rows, scalar.String, func(i int) (scalar.Value, error) {
		if input.IsNull(i) {
			return scalar.Null(scalar.String), nil
		}
		v := input.Value(i)
		if format.IsNull(i) {
			return scalar.Str(v.String()), nil
		}
		return scalar.Str(formatValue(v, format.Value(i).Str())), nil
	})
}

func formatValue(v scalar.Value, format string) string {
	switch {
	case v.Type() == scalar.DateTime:
		return v.Time().Format(translateLayout(format))
	case v.Type().IsNumeric():
		if d, ok := v.Decimal(); ok {
			return formatNumber(d, v.Type().IsInteger(), format)
		}
	}
	return v.String()
}

// formatNumber applies a standard or custom numeric format
func formatNumber(d decimal.Decimal, integer bool, format string) string {
	if format == "" {
		return d.String()
	}

	spec := format[0]
	precision, hasPrecision := -1, false
	if p, err := strconv.Atoi(format[1:]); err == nil && len(format) > 1 && p >= 0 {
		precision, hasPrecision = p, true
	}

	if len(format) == 1 || hasPrecision {
		digits := func(def int) int32 {
			if hasPrecision {
				return int32(precision)
			}
			return int32(def)
		}
		switch spec {
		case 'F', 'f':
			return d.StringFixed(digits(2))
		case 'N', 'n':
			return groupThousands(d.StringFixed(digits(2)))
		case 'P', 'p':
			return groupThousands(d.Shift(2).StringFixed(digits(2))) + " %"
		case 'E', 'e':
			f, _ := d.Float64()
			s := strconv.FormatFloat(f, 'e', int(digits(6)), 64)
			if spec == 'E' {
				s = strings.ToUpper(s)
			}
			return s
		case 'D', 'd':
			if integer {
				s := d.Abs().StringFixed(0)
				for len(s) < precision {
					s = "0" + s
				}
				if d.IsNegative() {
					s = "-" + s
				}
				return s
			}
		case 'G', 'g':
			return d.String()
		}
	}

	return formatCustom(d, format)
}

// formatCustom handles patterns built from 0, # , and . placeholders.
// Anything else in the pattern is copied around the number.
func formatCustom(d decimal.Decimal, format string) string {
	first := strings.IndexAny(format, "0#")
	last := strings.LastIndexAny(format, "0#")
	if first < 0 {
		return format
	}
	prefix, pattern, suffix := format[:first], format[first:last+1], format[last+1:]

	intPart, fracPart, _ := strings.Cut(pattern, ".")
	decimals := int32(len(fracPart))
	minInt := strings.Count(intPart, "0")
	grouped := strings.Contains(intPart, ",")

	s := d.Abs().StringFixed(decimals)
	whole, frac, _ := strings.Cut(s, ".")
	// trailing # placeholders are optional digits
	optional := strings.Count(fracPart, "#")
	for optional > 0 && strings.HasSuffix(frac, "0") {
		frac = frac[:len(frac)-1]
		optional--
	}
	if whole == "0" && minInt == 0 {
		whole = ""
	}
	for len(whole) < minInt {
		whole = "0" + whole
	}
	if grouped {
		whole = groupThousands(whole)
	}

	out := whole
	if frac != "" {
		out += "." + frac
	}
	if d.IsNegative() && strings.Trim(out, "0.,") != "" {
		out = "-" + out
	}
	return prefix + out + suffix
}

// groupThousands inserts commas into the integer part of a plain number
func groupThousands(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	whole, frac, hasFrac := strings.Cut(s, ".")
	var b strings.Builder
	for i, ch := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(ch)
	}
	out := sign + b.String()
	if hasFrac {
		out += "." + frac
	}
	return out
}
