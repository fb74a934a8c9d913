package expr

import (
	"fmt"
	"strings"
	"time"

	"github.com/vegasq/tabula/scalar"
)

// Date/Time Functions

// layoutTokens maps .NET-style date format tokens to Go layout elements,
// longest token first
var layoutTokens = []struct {
	token  string
	layout string
}{
	{"yyyy", "2006"},
	{"yy", "06"},
	{"MMMM", "January"},
	{"MMM", "Jan"},
	{"MM", "01"},
	{"M", "1"},
	{"dddd", "Monday"},
	{"ddd", "Mon"},
	{"dd", "02"},
	{"d", "2"},
	{"HH", "15"},
	{"H", "15"},
	{"hh", "03"},
	{"h", "3"},
	{"mm", "04"},
	{"m", "4"},
	{"ss", "05"},
	{"s", "5"},
	{"fff", "000"},
	{"ff", "00"},
	{"f", "0"},
	{"tt", "PM"},
	{"zzz", "-07:00"},
}

// translateLayout converts a .NET-style date format such as
// "yyyy-MM-dd HH:mm:ss" into a Go layout. Text in single quotes is
// copied as is.
func translateLayout(format string) string {
	var b strings.Builder
	for i := 0; i < len(format); {
		if format[i] == '\'' {
			end := strings.IndexByte(format[i+1:], '\'')
			if end < 0 {
				b.WriteString(format[i+1:])
				break
			}
			b.WriteString(format[i+1 : i+1+end])
			i += end + 2
			continue
		}
		matched := false
		for _, t := range layoutTokens {
			if strings.HasPrefix(format[i:], t.token) {
				// fractional seconds need a leading separator in Go layouts
				if t.token[0] == 'f' && (i == 0 || (format[i-1] != '.' && format[i-1] != ',')) {
					continue
				}
				b.WriteString(t.layout)
				i += len(t.token)
				matched = true
				break
			}
		}
		if !matched {
			b.WriteByte(format[i])
			i++
		}
	}
	return b.String()
}

// ToDateFunc parses strings into dates: TODATE(s[, format]). Without a
// format the usual date literal layouts are tried.
type ToDateFunc struct{}

func (f *ToDateFunc) Name() string  { return "TODATE" }
func (f *ToDateFunc) MinArity() int { return 1 }
func (f *ToDateFunc) MaxArity() int { return 2 }
func (f *ToDateFunc) Evaluate(args []Result, rows int) (Result, error) {
	input := args[0].Materialize(scalar.String, rows)
	if input.Type() == scalar.DateTime {
		return ColumnResult(input), nil
	}

	var layouts []string
	if len(args) == 2 {
		format, err := stringArg(args[1], rows, "format")
		if err != nil {
			return Result{}, err
		}
		layouts = make([]string, rows)
		for i := range layouts {
			if !format.IsNull(i) {
				layouts[i] = translateLayout(format.Value(i).Str())
			}
		}
	}

	return rowWise(rows, scalar.DateTime, func(i int) (scalar.Value, error) {
		if input.IsNull(i) || (layouts != nil && layouts[i] == "") {
			return scalar.Null(scalar.DateTime), nil
		}
		s := input.Value(i).String()
		var (
			t   time.Time
			ok  bool
			err error
		)
		if layouts == nil {
			t, ok = scalar.ParseDate(s)
		} else {
			t, err = time.Parse(layouts[i], s)
			ok = err == nil
		}
		if !ok {
			return scalar.Value{}, fmt.Errorf("could not parse value '%s' to a DateTime (row %d)", s, i)
		}
		return scalar.Time(t), nil
	})
}

type dateParts struct {
	year, month, day int
}

// DatePartFunc extracts one calendar field of a date as Int32
type DatePartFunc struct {
	name string
	part func(dateParts) int
}

func (f *DatePartFunc) Name() string  { return f.name }
func (f *DatePartFunc) MinArity() int { return 1 }
func (f *DatePartFunc) MaxArity() int { return 1 }
func (f *DatePartFunc) Evaluate(args []Result, rows int) (Result, error) {
	c := args[0].Materialize(scalar.DateTime, rows)
	if c.Type() != scalar.DateTime {
		cast, err := c.Cast(scalar.DateTime)
		if err != nil {
			return Result{}, fmt.Errorf("input must be a date: %w", err)
		}
		c = cast
	}
	return rowWise(rows, scalar.Int32, func(i int) (scalar.Value, error) {
		if c.IsNull(i) {
			return scalar.Null(scalar.Int32), nil
		}
		t := c.Value(i).Time()
		return scalar.I32(int32(f.part(dateParts{t.Year(), int(t.Month()), t.Day()}))), nil
	})
}
