package scalar

import (
	"cmp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vegasq/tabula/errs"
)

// GuessType picks the natural type for a single untyped cell and returns the
// converted value. Booleans are tried first, then numbers, then
// date-parseable strings; anything else is a String. ok is false for missing
// cells, which do not vote.
func GuessType(v any) (out Value, t Type, ok bool) {
	raw := unwrap(v)
	if raw == nil {
		return Value{}, 0, false
	}
	switch x := raw.(type) {
	case bool:
		return Bool(x), Boolean, true
	case charCell:
		return Str(string(rune(x))), String, true
	case time.Time:
		return Time(x), DateTime, true
	case string:
		if b, isBool := toBoolean(x); isBool {
			return Bool(b), Boolean, true
		}
		if f, isNum := parseFloat(x); isNum {
			return Float64(f), Double, true
		}
		if tm, isDate := ParseDate(x); isDate {
			return Time(tm), DateTime, true
		}
		return Str(x), String, true
	}
	if f, isNum := numericFloat(raw); isNum {
		return Float64(f), Double, true
	}
	return Str(formatAny(raw)), String, true
}

// GuessBestType decides one type for a whole sequence of untyped cells.
//
// Any cell that can only be a String forces String. Otherwise a single
// family among DateTime, Boolean and Double wins when no other family is
// present; mixtures fall back to String. Missing cells are ignored.
func GuessBestType(values []any) Type {
	var hasDate, hasDouble, hasBool bool
	for _, v := range values {
		_, t, ok := GuessType(v)
		if !ok {
			continue
		}
		switch t {
		case String:
			return String
		case DateTime:
			hasDate = true
		case Double:
			hasDouble = true
		case Boolean:
			hasBool = true
		}
	}
	switch {
	case hasDate && !hasDouble && !hasBool:
		return DateTime
	case hasBool && !hasDate && !hasDouble:
		return Boolean
	case hasDouble && !hasDate && !hasBool:
		return Double
	}
	return String
}

// Promote returns the result type of a binary operation between columns of
// type l and r.
func Promote(l, r Type) (Type, error) {
	if l == r {
		return l, nil
	}
	if l == String || r == String {
		return String, nil
	}
	for _, t := range [...]Type{Boolean, DateTime, Decimal} {
		if l == t || r == t {
			return 0, errs.Operator("", "cannot promote types %s and %s", l, r)
		}
	}
	if l.IsInteger() && r.IsInteger() {
		switch max(l.bits(), r.bits()) {
		case 64:
			return Double, nil
		case 32:
			return Int64, nil
		case 16:
			return Int32, nil
		default:
			return Int16, nil
		}
	}
	return Double, nil
}

// Compare orders two non-null values. Values of the same type compare
// natively (strings ordinally); numeric values of different types compare
// numerically; anything else compares by its string form.
func Compare(a, b Value) int {
	if a.typ == b.typ {
		switch x := a.v.(type) {
		case bool:
			y := b.v.(bool)
			switch {
			case x == y:
				return 0
			case !x:
				return -1
			}
			return 1
		case float64:
			return cmp.Compare(x, b.v.(float64))
		case float32:
			return cmp.Compare(x, b.v.(float32))
		case string:
			return strings.Compare(x, b.v.(string))
		case time.Time:
			return x.Compare(b.v.(time.Time))
		case decimal.Decimal:
			return x.Cmp(b.v.(decimal.Decimal))
		case int64:
			return cmp.Compare(x, b.v.(int64))
		case int32:
			return cmp.Compare(x, b.v.(int32))
		case int16:
			return cmp.Compare(x, b.v.(int16))
		case int8:
			return cmp.Compare(x, b.v.(int8))
		case uint64:
			return cmp.Compare(x, b.v.(uint64))
		case uint32:
			return cmp.Compare(x, b.v.(uint32))
		case uint16:
			return cmp.Compare(x, b.v.(uint16))
		case uint8:
			return cmp.Compare(x, b.v.(uint8))
		}
	}
	if a.typ == Decimal || b.typ == Decimal {
		if da, ok := a.Decimal(); ok {
			if db, ok := b.Decimal(); ok {
				return da.Cmp(db)
			}
		}
	}
	if fa, ok := a.Float(); ok {
		if fb, ok := b.Float(); ok {
			return cmp.Compare(fa, fb)
		}
	}
	return strings.Compare(a.String(), b.String())
}

// Equal reports whether a and b are both null or compare equal.
func Equal(a, b Value) bool {
	if a.IsNull() || b.IsNull() {
		return a.IsNull() && b.IsNull()
	}
	return Compare(a, b) == 0
}
