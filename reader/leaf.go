package reader

import (
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/parquet-go/parquet-go"
	"github.com/shopspring/decimal"

	"github.com/vegasq/tabula/scalar"
)

// julianUnixEpoch is the Julian day number of 1970-01-01, used by INT96
// timestamps.
const julianUnixEpoch = 2440588

// leafColumn accumulates the cells of one parquet leaf column.
type leafColumn struct {
	name     string
	typ      scalar.Type
	repeated bool

	kind      parquet.Kind
	date      bool
	unit      time.Duration // timestamp unit, zero when not a timestamp
	unsigned  bool
	isUUID    bool
	isDecimal bool
	scale     int32

	cells []any
}

func newLeafColumn(name string, leaf parquet.LeafColumn) leafColumn {
	l := leafColumn{
		name:     name,
		repeated: leaf.MaxRepetitionLevel > 0,
		kind:     leaf.Node.Type().Kind(),
	}
	l.typ = l.classify(leaf.Node.Type())
	if l.repeated {
		l.typ = scalar.String
	}
	return l
}

// classify picks the tabula type for a leaf from its logical and physical
// types.
func (l *leafColumn) classify(t parquet.Type) scalar.Type {
	if lt := t.LogicalType(); lt != nil {
		switch {
		case lt.Date != nil:
			l.date = true
			return scalar.DateTime
		case lt.Timestamp != nil:
			switch {
			case lt.Timestamp.Unit.Millis != nil:
				l.unit = time.Millisecond
			case lt.Timestamp.Unit.Micros != nil:
				l.unit = time.Microsecond
			default:
				l.unit = time.Nanosecond
			}
			return scalar.DateTime
		case lt.Decimal != nil:
			l.isDecimal = true
			l.scale = lt.Decimal.Scale
			return scalar.Decimal
		case lt.UUID != nil:
			l.isUUID = true
			return scalar.String
		case lt.Integer != nil:
			l.unsigned = !lt.Integer.IsSigned
			return integerType(lt.Integer.BitWidth, l.unsigned)
		}
	}

	switch l.kind {
	case parquet.Boolean:
		return scalar.Boolean
	case parquet.Int32:
		return scalar.Int32
	case parquet.Int64:
		return scalar.Int64
	case parquet.Int96:
		l.unit = time.Nanosecond
		return scalar.DateTime
	case parquet.Float:
		return scalar.Float
	case parquet.Double:
		return scalar.Double
	default:
		return scalar.String
	}
}

func integerType(bits int8, unsigned bool) scalar.Type {
	switch bits {
	case 8:
		if unsigned {
			return scalar.Byte
		}
		return scalar.SByte
	case 16:
		if unsigned {
			return scalar.UInt16
		}
		return scalar.Int16
	case 32:
		if unsigned {
			return scalar.UInt32
		}
		return scalar.Int32
	default:
		if unsigned {
			return scalar.UInt64
		}
		return scalar.Int64
	}
}

// convert turns a parquet value into a cell for this leaf. Nulls become nil.
func (l *leafColumn) convert(v parquet.Value) (any, error) {
	if v.IsNull() {
		return nil, nil
	}
	switch {
	case l.date:
		return scalar.Time(time.Unix(int64(v.Int32())*86400, 0).UTC()), nil
	case l.kind == parquet.Int96:
		i := v.Int96()
		nanos := int64(i[1])<<32 | int64(i[0])
		days := int64(i[2]) - julianUnixEpoch
		return scalar.Time(time.Unix(days*86400, nanos).UTC()), nil
	case l.unit != 0:
		return scalar.Time(time.Unix(0, v.Int64()*int64(l.unit)).UTC()), nil
	case l.isDecimal:
		return scalar.Dec(l.decimal(v)), nil
	case l.isUUID:
		id, err := uuid.FromBytes(v.ByteArray())
		if err != nil {
			return nil, fmt.Errorf("invalid uuid: %w", err)
		}
		return scalar.Str(id.String()), nil
	}

	switch l.kind {
	case parquet.Boolean:
		return scalar.Bool(v.Boolean()), nil
	case parquet.Int32:
		if l.unsigned {
			return scalar.Convert(uint32(v.Int32()), l.typ)
		}
		return scalar.Convert(v.Int32(), l.typ)
	case parquet.Int64:
		if l.unsigned {
			return scalar.Convert(uint64(v.Int64()), l.typ)
		}
		return scalar.Convert(v.Int64(), l.typ)
	case parquet.Float:
		return scalar.Float32(v.Float()), nil
	case parquet.Double:
		return scalar.Float64(v.Double()), nil
	default:
		return scalar.Str(string(v.ByteArray())), nil
	}
}

// decimal reads an unscaled integer from any of the physical types parquet
// allows for DECIMAL.
func (l *leafColumn) decimal(v parquet.Value) decimal.Decimal {
	switch l.kind {
	case parquet.Int32:
		return decimal.New(int64(v.Int32()), -l.scale)
	case parquet.Int64:
		return decimal.New(v.Int64(), -l.scale)
	}
	b := v.ByteArray()
	n := new(big.Int).SetBytes(b)
	if len(b) > 0 && b[0]&0x80 != 0 {
		n.Sub(n, new(big.Int).Lsh(big.NewInt(1), uint(len(b)*8)))
	}
	return decimal.NewFromBigInt(n, -l.scale)
}
