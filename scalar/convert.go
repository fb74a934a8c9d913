package scalar

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/vegasq/tabula/errs"
)

// charCell carries a Char value through conversion so it is not mistaken
// for an Int32.
type charCell rune

// unwrap reduces v to a plain Go representation. Matrix and slice shaped
// inputs collapse to their first cell; missing markers and null Values
// become nil.
func unwrap(v any) any {
	for {
		switch x := v.(type) {
		case MissingValue:
			return nil
		case Value:
			if x.v != nil && x.typ == Char {
				return charCell(x.v.(rune))
			}
			return x.v
		case [][]any:
			if len(x) == 0 || len(x[0]) == 0 {
				return nil
			}
			v = x[0][0]
		case []any:
			if len(x) == 0 {
				return nil
			}
			v = x[0]
		default:
			return v
		}
	}
}

// Convert coerces v into type t.
//
// nil, Missing and null Values convert to the null of t. Numeric targets go
// through a float64 intermediate; integer targets round half-to-even and fail
// with errs.ErrOverflow when the rounded value does not fit.
func Convert(v any, t Type) (Value, error) {
	if val, ok := v.(Value); ok && val.typ == t {
		return val, nil
	}
	raw := unwrap(v)
	if raw == nil {
		return Null(t), nil
	}

	switch t {
	case Boolean:
		if b, ok := toBoolean(raw); ok {
			return Bool(b), nil
		}
	case Double:
		if f, ok := toFloat(raw); ok {
			return Float64(f), nil
		}
	case Float:
		if f, ok := toFloat(raw); ok {
			if math.Abs(f) > math.MaxFloat32 {
				return Value{}, conversionError(raw, t, errs.ErrOverflow)
			}
			return Float32(float32(f)), nil
		}
	case Decimal:
		if d, ok := toDecimal(raw); ok {
			return Dec(d), nil
		}
	case String:
		return Str(formatAny(raw)), nil
	case DateTime:
		if tm, ok := toTime(raw); ok {
			return Time(tm), nil
		}
	case Char:
		if r, ok := toChar(raw); ok {
			return Rune(r), nil
		}
	case Int32, UInt32, Int64, UInt64, Int16, UInt16, SByte, Byte:
		return toInteger(raw, t)
	}
	return Value{}, conversionError(raw, t, nil)
}

// MustConvert is Convert for values known to convert; it panics otherwise.
func MustConvert(v any, t Type) Value {
	out, err := Convert(v, t)
	if err != nil {
		panic(err)
	}
	return out
}

func conversionError(v any, t Type, cause error) error {
	if c, ok := v.(charCell); ok {
		v = string(rune(c))
	}
	return &errs.ConversionError{Value: v, Type: t.String(), Err: cause}
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	case string:
		return parseFloat(x)
	case charCell:
		return float64(x), true
	}
	return numericFloat(v)
}

// parseFloat accepts invariant-culture numbers, optionally with thousands separators.
// Non-finite results are rejected.
func parseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		if !strings.Contains(s, ",") {
			return 0, false
		}
		f, err = strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
		if err != nil {
			return 0, false
		}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func toBoolean(v any) (bool, bool) {
	switch x := v.(type) {
	case bool:
		return x, true
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "true":
			return true, true
		case "false":
			return false, true
		}
		return false, false
	case charCell, time.Time:
		return false, false
	}
	if f, ok := numericFloat(v); ok {
		return f != 0, true
	}
	return false, false
}

func toDecimal(v any) (decimal.Decimal, bool) {
	switch x := v.(type) {
	case decimal.Decimal:
		return x, true
	case string:
		if d, err := decimal.NewFromString(strings.TrimSpace(x)); err == nil {
			return d, true
		}
	case int64:
		return decimal.NewFromInt(x), true
	case int32:
		return decimal.NewFromInt32(x), true
	case uint64:
		return decimal.RequireFromString(strconv.FormatUint(x, 10)), true
	}
	f, ok := toFloat(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero, false
	}
	return decimal.NewFromFloat(f), true
}

func toTime(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x, true
	case string:
		return ParseDate(x)
	case bool, charCell:
		return time.Time{}, false
	}
	if f, ok := numericFloat(v); ok {
		return FromOADate(f)
	}
	return time.Time{}, false
}

func toChar(v any) (rune, bool) {
	switch x := v.(type) {
	case charCell:
		return rune(x), true
	case string:
		if utf8.RuneCountInString(x) == 1 {
			r, _ := utf8.DecodeRuneInString(x)
			return r, true
		}
		return 0, false
	case bool, time.Time:
		return 0, false
	}
	neg, mag, ok, overflow := integerParts(v)
	if !ok || overflow || neg || mag > utf8.MaxRune {
		return 0, false
	}
	return rune(mag), true
}

// integerParts splits v into sign and magnitude after rounding half-to-even.
func integerParts(v any) (neg bool, mag uint64, ok bool, overflow bool) {
	var i int64
	switch x := v.(type) {
	case int64:
		i = x
	case int32:
		i = int64(x)
	case int16:
		i = int64(x)
	case int8:
		i = int64(x)
	case int:
		i = int64(x)
	case charCell:
		i = int64(x)
	case uint64:
		return false, x, true, false
	case uint32:
		return false, uint64(x), true, false
	case uint16:
		return false, uint64(x), true, false
	case uint8:
		return false, uint64(x), true, false
	case uint:
		return false, uint64(x), true, false
	default:
		f, fok := toFloat(v)
		if !fok || math.IsNaN(f) {
			return false, 0, false, false
		}
		f = math.RoundToEven(f)
		if f < 0 {
			if f < -(1 << 63) {
				return true, 0, true, true
			}
			return true, uint64(-f), true, false
		}
		if f >= (1 << 64) {
			return false, 0, true, true
		}
		return false, uint64(f), true, false
	}
	if i < 0 {
		return true, uint64(-(i + 1)) + 1, true, false
	}
	return false, uint64(i), true, false
}

type intLimits struct {
	maxPos uint64
	maxNeg uint64
}

var integerLimits = map[Type]intLimits{
	SByte:  {math.MaxInt8, 1 << 7},
	Byte:   {math.MaxUint8, 0},
	Int16:  {math.MaxInt16, 1 << 15},
	UInt16: {math.MaxUint16, 0},
	Int32:  {math.MaxInt32, 1 << 31},
	UInt32: {math.MaxUint32, 0},
	Int64:  {math.MaxInt64, 1 << 63},
	UInt64: {math.MaxUint64, 0},
}

func toInteger(v any, t Type) (Value, error) {
	neg, mag, ok, overflow := integerParts(v)
	if !ok {
		return Value{}, conversionError(v, t, nil)
	}
	lim := integerLimits[t]
	if overflow || (neg && mag > lim.maxNeg) || (!neg && mag > lim.maxPos) {
		return Value{}, conversionError(v, t, errs.ErrOverflow)
	}

	var s int64
	if neg {
		s = -int64(mag-1) - 1
	} else if !t.IsUnsigned() {
		s = int64(mag)
	}

	switch t {
	case SByte:
		return I8(int8(s)), nil
	case Byte:
		return U8(uint8(mag)), nil
	case Int16:
		return I16(int16(s)), nil
	case UInt16:
		return U16(uint16(mag)), nil
	case Int32:
		return I32(int32(s)), nil
	case UInt32:
		return U32(uint32(mag)), nil
	case Int64:
		return I64(s), nil
	default:
		return U64(mag), nil
	}
}
