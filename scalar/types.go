// Package scalar defines the closed set of cell types tabula understands and
// the coercion rules between them.
//
// A Value is a single typed cell that may be null. Every column in a table
// holds values of exactly one Type. Conversion between types follows a fixed
// set of rules: numeric conversions go through a float64 intermediate, integer
// targets round half-to-even and fail on overflow, and strings are parsed with
// invariant formats.
package scalar

import (
	"fmt"
	"strings"

	"github.com/vegasq/tabula/errs"
)

// Type is the closed enumeration of cell types.
type Type int

const (
	Boolean Type = iota
	Double
	Float
	Decimal
	String
	Int32
	UInt32
	Int64
	UInt64
	Int16
	UInt16
	SByte
	Byte
	Char
	DateTime
)

var typeNames = [...]string{
	Boolean:  "Boolean",
	Double:   "Double",
	Float:    "Float",
	Decimal:  "Decimal",
	String:   "String",
	Int32:    "Int32",
	UInt32:   "UInt32",
	Int64:    "Int64",
	UInt64:   "UInt64",
	Int16:    "Int16",
	UInt16:   "UInt16",
	SByte:    "SByte",
	Byte:     "Byte",
	Char:     "Char",
	DateTime: "DateTime",
}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return typeNames[t]
}

// Types lists every Type in declaration order.
func Types() []Type {
	out := make([]Type, len(typeNames))
	for i := range typeNames {
		out[i] = Type(i)
	}
	return out
}

// IsInteger reports whether t is one of the signed or unsigned integer types.
func (t Type) IsInteger() bool {
	switch t {
	case Int32, UInt32, Int64, UInt64, Int16, UInt16, SByte, Byte:
		return true
	}
	return false
}

// IsUnsigned reports whether t is an unsigned integer type.
func (t Type) IsUnsigned() bool {
	switch t {
	case UInt32, UInt64, UInt16, Byte:
		return true
	}
	return false
}

// IsNumeric reports whether arithmetic is defined on t.
func (t Type) IsNumeric() bool {
	switch t {
	case Double, Float, Decimal:
		return true
	}
	return t.IsInteger()
}

// bits returns the storage width of an integer type, 0 for anything else.
func (t Type) bits() int {
	switch t {
	case SByte, Byte:
		return 8
	case Int16, UInt16:
		return 16
	case Int32, UInt32:
		return 32
	case Int64, UInt64:
		return 64
	}
	return 0
}

var typeAliases = map[string]Type{
	"string":   String,
	"str":      String,
	"double":   Double,
	"dbl":      Double,
	"single":   Float,
	"float":    Float,
	"boolean":  Boolean,
	"bool":     Boolean,
	"datetime": DateTime,
	"date":     DateTime,
	"int":      Int32,
	"integer":  Int32,
	"int32":    Int32,
	"uint":     UInt32,
	"uint32":   UInt32,
	"long":     Int64,
	"int64":    Int64,
	"ulong":    UInt64,
	"uint64":   UInt64,
	"short":    Int16,
	"int16":    Int16,
	"ushort":   UInt16,
	"uint16":   UInt16,
	"sbyte":    SByte,
	"int8":     SByte,
	"byte":     Byte,
	"uint8":    Byte,
	"decimal":  Decimal,
	"char":     Char,
}

// ParseType resolves a type name such as "int", "System.Double" or "date".
// Matching is case-insensitive.
func ParseType(name string) (Type, error) {
	key := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(name)), "system.")
	if t, ok := typeAliases[key]; ok {
		return t, nil
	}
	return 0, errs.Argument("", "unknown type '%s'", name)
}
