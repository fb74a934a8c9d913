package output

import (
	"bufio"
	"io"
	"math"

	"github.com/segmentio/encoding/json"

	"github.com/vegasq/tabula/scalar"
	"github.com/vegasq/tabula/table"
)

// JSONFormatter outputs a table as JSON Lines, one object per row with keys
// in column order.
type JSONFormatter struct {
	writer io.Writer
}

// NewJSONFormatter creates a new JSON Lines formatter
func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{writer: w}
}

// SetOutput sets the output writer
func (j *JSONFormatter) SetOutput(w io.Writer) {
	j.writer = w
}

// Format writes the table as JSON Lines (one JSON object per line)
func (j *JSONFormatter) Format(t *table.Table) error {
	cols := t.Columns()
	keys := make([][]byte, len(cols))
	for i, c := range cols {
		k, err := json.Marshal(c.Name())
		if err != nil {
			return err
		}
		keys[i] = k
	}

	w := bufio.NewWriter(j.writer)
	var buf []byte
	for r := range t.RowCount() {
		buf = append(buf[:0], '{')
		for i, c := range cols {
			if i > 0 {
				buf = append(buf, ',')
			}
			buf = append(buf, keys[i]...)
			buf = append(buf, ':')
			v, err := json.Marshal(jsonValue(c.Value(r)))
			if err != nil {
				return err
			}
			buf = append(buf, v...)
		}
		buf = append(buf, '}', '\n')
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	return w.Flush()
}

// jsonValue maps a cell onto something encoding/json can represent. Chars
// become one-character strings and non-finite floats become their text.
func jsonValue(v scalar.Value) any {
	if v.IsNull() {
		return nil
	}
	switch v.Type() {
	case scalar.Char:
		return v.String()
	case scalar.Double, scalar.Float:
		if f, _ := v.Float(); math.IsNaN(f) || math.IsInf(f, 0) {
			return v.String()
		}
	}
	return v.Any()
}
