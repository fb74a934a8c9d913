package scalar

import (
	"math"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// MissingValue marks an empty or errored input cell. It never votes when
// guessing a column type and always converts to null.
type MissingValue struct{}

// Missing is the canonical missing-cell marker.
var Missing = MissingValue{}

// IsMissing reports whether v is nil, Missing or a null Value.
func IsMissing(v any) bool {
	switch x := v.(type) {
	case nil, MissingValue:
		return true
	case Value:
		return x.IsNull()
	}
	return false
}

// Value is one typed, possibly null, cell.
//
// The held representation depends on the type: bool, float64, float32,
// decimal.Decimal, string, int32, uint32, int64, uint64, int16, uint16, int8,
// uint8, rune or time.Time. The zero Value is a null Boolean.
type Value struct {
	typ Type
	v   any
}

// Null returns the null value of type t.
func Null(t Type) Value { return Value{typ: t} }

func Bool(b bool) Value           { return Value{typ: Boolean, v: b} }
func Float64(f float64) Value     { return Value{typ: Double, v: f} }
func Float32(f float32) Value     { return Value{typ: Float, v: f} }
func Dec(d decimal.Decimal) Value { return Value{typ: Decimal, v: d} }
func Str(s string) Value          { return Value{typ: String, v: s} }
func I32(i int32) Value           { return Value{typ: Int32, v: i} }
func U32(u uint32) Value          { return Value{typ: UInt32, v: u} }
func I64(i int64) Value           { return Value{typ: Int64, v: i} }
func U64(u uint64) Value          { return Value{typ: UInt64, v: u} }
func I16(i int16) Value           { return Value{typ: Int16, v: i} }
func U16(u uint16) Value          { return Value{typ: UInt16, v: u} }
func I8(i int8) Value             { return Value{typ: SByte, v: i} }
func U8(u uint8) Value            { return Value{typ: Byte, v: u} }
func Rune(r rune) Value           { return Value{typ: Char, v: r} }
func Time(t time.Time) Value      { return Value{typ: DateTime, v: t} }

// Of wraps a native Go value using the Type that matches its representation.
// int and uint map to Int64 and UInt64; []byte maps to String.
// ok is false for unsupported representations.
func Of(x any) (Value, bool) {
	switch v := x.(type) {
	case Value:
		return v, true
	case bool:
		return Bool(v), true
	case float64:
		return Float64(v), true
	case float32:
		return Float32(v), true
	case decimal.Decimal:
		return Dec(v), true
	case string:
		return Str(v), true
	case []byte:
		return Str(string(v)), true
	case int32:
		return I32(v), true
	case uint32:
		return U32(v), true
	case int64:
		return I64(v), true
	case int:
		return I64(int64(v)), true
	case uint64:
		return U64(v), true
	case uint:
		return U64(uint64(v)), true
	case int16:
		return I16(v), true
	case uint16:
		return U16(v), true
	case int8:
		return I8(v), true
	case uint8:
		return U8(v), true
	case time.Time:
		return Time(v), true
	}
	return Value{}, false
}

// Type returns the value's type, which is meaningful even when null.
func (v Value) Type() Type { return v.typ }

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return v.v == nil }

// Any returns the held Go representation, or nil when null.
func (v Value) Any() any { return v.v }

// Bool returns the held boolean; false when null or not Boolean.
func (v Value) Bool() bool {
	b, _ := v.v.(bool)
	return b
}

// Str returns the held string; "" when null or not String.
func (v Value) Str() string {
	s, _ := v.v.(string)
	return s
}

// Time returns the held time; the zero time when null or not DateTime.
func (v Value) Time() time.Time {
	t, _ := v.v.(time.Time)
	return t
}

// Float returns the value as a float64 when it is numeric.
func (v Value) Float() (float64, bool) {
	if v.v == nil || !v.typ.IsNumeric() && v.typ != Char {
		return 0, false
	}
	return numericFloat(v.v)
}

// Int returns the value as an int64 when it is an integer type that fits.
func (v Value) Int() (int64, bool) {
	switch x := v.v.(type) {
	case int64:
		return x, true
	case int32:
		return int64(x), true
	case int16:
		return int64(x), true
	case int8:
		return int64(x), true
	case uint32:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint8:
		return int64(x), true
	case uint64:
		if x > math.MaxInt64 {
			return 0, false
		}
		return int64(x), true
	}
	return 0, false
}

// Decimal returns the value as a decimal when it is numeric.
func (v Value) Decimal() (decimal.Decimal, bool) {
	switch x := v.v.(type) {
	case decimal.Decimal:
		return x, true
	case nil:
		return decimal.Zero, false
	}
	if i, ok := v.Int(); ok {
		return decimal.NewFromInt(i), true
	}
	if f, ok := v.Float(); ok {
		return decimal.NewFromFloat(f), true
	}
	return decimal.Zero, false
}

// String formats the value with the String conversion rules; null is "".
func (v Value) String() string {
	if v.v == nil {
		return ""
	}
	if v.typ == Char {
		return string(v.v.(rune))
	}
	return formatAny(v.v)
}

// Key returns a string that is equal for two values exactly when they are
// equal and of the same type. Nulls of any type share one key.
func (v Value) Key() string {
	if v.v == nil {
		return "\x00"
	}
	var s string
	switch x := v.v.(type) {
	case float64:
		if x == 0 {
			x = 0
		}
		s = strconv.FormatFloat(x, 'g', -1, 64)
	case float32:
		if x == 0 {
			x = 0
		}
		s = strconv.FormatFloat(float64(x), 'g', -1, 32)
	case time.Time:
		s = x.UTC().Format(time.RFC3339Nano)
	case decimal.Decimal:
		s = x.String()
	case rune:
		if v.typ == Char {
			s = string(x)
		} else {
			s = strconv.FormatInt(int64(x), 10)
		}
	default:
		s = formatAny(x)
	}
	return typeNames[v.typ] + ":" + s
}

// numericFloat widens any numeric representation to float64.
func numericFloat(x any) (float64, bool) {
	switch n := x.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case int16:
		return float64(n), true
	case int8:
		return float64(n), true
	case int:
		return float64(n), true
	case uint64:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint:
		return float64(n), true
	case decimal.Decimal:
		return n.InexactFloat64(), true
	}
	return 0, false
}
