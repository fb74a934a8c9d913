package column

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/vegasq/tabula/errs"
	"github.com/vegasq/tabula/scalar"
)

// ArithOp is an elementwise arithmetic operator.
type ArithOp int

const (
	OpAdd ArithOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpPow
)

var arithSymbols = [...]string{"+", "-", "*", "/", "%", "^"}

func (o ArithOp) String() string { return arithSymbols[o] }

// CompareOp is an elementwise comparison operator.
type CompareOp int

const (
	OpEq CompareOp = iota
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
)

var compareSymbols = [...]string{"==", "!=", "<", "<=", ">", ">="}

func (o CompareOp) String() string { return compareSymbols[o] }

func invalidOp(op string, l, r *Column) error {
	return errs.Operator(op, "'%s' operator is invalid between columns of type %s and %s", op, l.typ, r.typ)
}

func checkLengths(op string, l, r *Column) error {
	if l.Len() != r.Len() {
		return errs.Operator(op, "column lengths differ (%d and %d)", l.Len(), r.Len())
	}
	return nil
}

// Arith applies op cell by cell after promoting both columns to a common
// type. A null on either side gives a null cell, as does integer or decimal
// division by zero. Adding a String column to anything concatenates.
// Exponentiation always produces Double.
func Arith(op ArithOp, l, r *Column) (*Column, error) {
	sym := op.String()
	if err := checkLengths(sym, l, r); err != nil {
		return nil, err
	}
	if op == OpAdd && (l.typ == scalar.String || r.typ == scalar.String) {
		return Concat(l, r), nil
	}
	pt, err := scalar.Promote(l.typ, r.typ)
	if err != nil || !pt.IsNumeric() {
		return nil, invalidOp(sym, l, r)
	}
	if op == OpPow {
		pt = scalar.Double
	}
	lc, err := l.Cast(pt)
	if err != nil {
		return nil, err
	}
	rc, err := r.Cast(pt)
	if err != nil {
		return nil, err
	}

	out := make([]scalar.Value, l.Len())
	for i := range out {
		a, b := lc.values[i], rc.values[i]
		if a.IsNull() || b.IsNull() {
			out[i] = scalar.Null(pt)
			continue
		}
		out[i] = arithCell(op, pt, a, b)
	}
	return wrap(l.name, pt, out), nil
}

func Add(l, r *Column) (*Column, error) { return Arith(OpAdd, l, r) }
func Sub(l, r *Column) (*Column, error) { return Arith(OpSub, l, r) }
func Mul(l, r *Column) (*Column, error) { return Arith(OpMul, l, r) }
func Div(l, r *Column) (*Column, error) { return Arith(OpDiv, l, r) }
func Mod(l, r *Column) (*Column, error) { return Arith(OpMod, l, r) }
func Pow(l, r *Column) (*Column, error) { return Arith(OpPow, l, r) }

func arithCell(op ArithOp, pt scalar.Type, a, b scalar.Value) scalar.Value {
	switch {
	case pt == scalar.Double:
		fa, _ := a.Float()
		fb, _ := b.Float()
		return scalar.Float64(floatArith(op, fa, fb))
	case pt == scalar.Float:
		fa, _ := a.Float()
		fb, _ := b.Float()
		return scalar.Float32(float32(floatArith(op, fa, fb)))
	case pt == scalar.Decimal:
		da, _ := a.Decimal()
		db, _ := b.Decimal()
		return decimalArith(op, da, db)
	case pt.IsUnsigned():
		x, ok := uintArith(op, uintOf(a), uintOf(b))
		if !ok {
			return scalar.Null(pt)
		}
		return uintValue(pt, x)
	default:
		ia, _ := a.Int()
		ib, _ := b.Int()
		x, ok := intArith(op, ia, ib)
		if !ok {
			return scalar.Null(pt)
		}
		return intValue(pt, x)
	}
}

func floatArith(op ArithOp, a, b float64) float64 {
	switch op {
	case OpAdd:
		return a + b
	case OpSub:
		return a - b
	case OpMul:
		return a * b
	case OpDiv:
		return a / b
	case OpMod:
		return math.Mod(a, b)
	default:
		return math.Pow(a, b)
	}
}

func decimalArith(op ArithOp, a, b decimal.Decimal) scalar.Value {
	switch op {
	case OpAdd:
		return scalar.Dec(a.Add(b))
	case OpSub:
		return scalar.Dec(a.Sub(b))
	case OpMul:
		return scalar.Dec(a.Mul(b))
	case OpDiv:
		if b.IsZero() {
			return scalar.Null(scalar.Decimal)
		}
		return scalar.Dec(a.Div(b))
	case OpMod:
		if b.IsZero() {
			return scalar.Null(scalar.Decimal)
		}
		return scalar.Dec(a.Mod(b))
	default:
		return scalar.Dec(a.Pow(b))
	}
}

func intArith(op ArithOp, a, b int64) (int64, bool) {
	switch op {
	case OpAdd:
		return a + b, true
	case OpSub:
		return a - b, true
	case OpMul:
		return a * b, true
	case OpDiv:
		if b == 0 {
			return 0, false
		}
		return a / b, true
	case OpMod:
		if b == 0 {
			return 0, false
		}
		return a % b, true
	}
	return int64(math.Pow(float64(a), float64(b))), true
}

func uintArith(op ArithOp, a, b uint64) (uint64, bool) {
	switch op {
	case OpAdd:
		return a + b, true
	case OpSub:
		return a - b, true
	case OpMul:
		return a * b, true
	case OpDiv:
		if b == 0 {
			return 0, false
		}
		return a / b, true
	case OpMod:
		if b == 0 {
			return 0, false
		}
		return a % b, true
	}
	return uint64(math.Pow(float64(a), float64(b))), true
}

func uintOf(v scalar.Value) uint64 {
	switch x := v.Any().(type) {
	case uint64:
		return x
	case uint32:
		return uint64(x)
	case uint16:
		return uint64(x)
	case uint8:
		return uint64(x)
	}
	i, _ := v.Int()
	return uint64(i)
}

// intValue narrows x to t, wrapping like an unchecked cast.
func intValue(t scalar.Type, x int64) scalar.Value {
	switch t {
	case scalar.SByte:
		return scalar.I8(int8(x))
	case scalar.Int16:
		return scalar.I16(int16(x))
	case scalar.Int32:
		return scalar.I32(int32(x))
	}
	return scalar.I64(x)
}

func uintValue(t scalar.Type, x uint64) scalar.Value {
	switch t {
	case scalar.Byte:
		return scalar.U8(uint8(x))
	case scalar.UInt16:
		return scalar.U16(uint16(x))
	case scalar.UInt32:
		return scalar.U32(uint32(x))
	}
	return scalar.U64(x)
}

// Concat joins the string forms of two columns; null cells format as "".
func Concat(l, r *Column) *Column {
	out := make([]scalar.Value, l.Len())
	for i := range out {
		out[i] = scalar.Str(l.values[i].String() + r.values[i].String())
	}
	return wrap(l.name, scalar.String, out)
}

// comparisonType picks the type both sides are compared in. A DateTime
// compared with a String compares as dates when every string parses.
func comparisonType(sym string, l, r *Column) (*Column, *Column, error) {
	if l.typ == r.typ {
		return l, r, nil
	}
	if l.typ == scalar.DateTime && r.typ == scalar.String {
		if rc, err := r.Cast(scalar.DateTime); err == nil {
			return l, rc, nil
		}
	}
	if r.typ == scalar.DateTime && l.typ == scalar.String {
		if lc, err := l.Cast(scalar.DateTime); err == nil {
			return lc, r, nil
		}
	}
	pt, err := scalar.Promote(l.typ, r.typ)
	if err != nil {
		return nil, nil, invalidOp(sym, l, r)
	}
	lc, err := l.Cast(pt)
	if err != nil {
		return nil, nil, err
	}
	rc, err := r.Cast(pt)
	if err != nil {
		return nil, nil, err
	}
	return lc, rc, nil
}

// Compare evaluates op cell by cell into a Boolean column. A null on either
// side gives a null cell.
func Compare(op CompareOp, l, r *Column) (*Column, error) {
	sym := op.String()
	if err := checkLengths(sym, l, r); err != nil {
		return nil, err
	}
	lc, rc, err := comparisonType(sym, l, r)
	if err != nil {
		return nil, err
	}

	out := make([]scalar.Value, l.Len())
	for i := range out {
		a, b := lc.values[i], rc.values[i]
		if a.IsNull() || b.IsNull() {
			out[i] = scalar.Null(scalar.Boolean)
			continue
		}
		c := scalar.Compare(a, b)
		var res bool
		switch op {
		case OpEq:
			res = c == 0
		case OpNe:
			res = c != 0
		case OpLt:
			res = c < 0
		case OpLe:
			res = c <= 0
		case OpGt:
			res = c > 0
		case OpGe:
			res = c >= 0
		}
		out[i] = scalar.Bool(res)
	}
	return wrap(l.name, scalar.Boolean, out), nil
}

func Eq(l, r *Column) (*Column, error) { return Compare(OpEq, l, r) }
func Ne(l, r *Column) (*Column, error) { return Compare(OpNe, l, r) }
func Lt(l, r *Column) (*Column, error) { return Compare(OpLt, l, r) }
func Le(l, r *Column) (*Column, error) { return Compare(OpLe, l, r) }
func Gt(l, r *Column) (*Column, error) { return Compare(OpGt, l, r) }
func Ge(l, r *Column) (*Column, error) { return Compare(OpGe, l, r) }

// Negate multiplies every cell by -1. Unsigned columns widen to a signed
// type first.
func Negate(c *Column) (*Column, error) {
	src := c
	switch c.typ {
	case scalar.Byte, scalar.UInt16, scalar.UInt32:
		src, _ = c.Cast(scalar.Int64)
	case scalar.UInt64:
		src, _ = c.Cast(scalar.Double)
	}
	if !src.typ.IsNumeric() {
		return nil, errs.Operator("-", "'-' operator is invalid for column of type %s", c.typ)
	}
	out := make([]scalar.Value, src.Len())
	for i, v := range src.values {
		if v.IsNull() {
			out[i] = v
			continue
		}
		switch src.typ {
		case scalar.Double:
			f, _ := v.Float()
			out[i] = scalar.Float64(-f)
		case scalar.Float:
			f, _ := v.Float()
			out[i] = scalar.Float32(float32(-f))
		case scalar.Decimal:
			d, _ := v.Decimal()
			out[i] = scalar.Dec(d.Neg())
		default:
			n, _ := v.Int()
			out[i] = intValue(src.typ, -n)
		}
	}
	return wrap(c.name, src.typ, out), nil
}
