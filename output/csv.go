package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/vegasq/tabula/scalar"
	"github.com/vegasq/tabula/table"
)

// CSVFormatter outputs a table as CSV with a header row
type CSVFormatter struct {
	writer    io.Writer
	Delimiter rune
}

// NewCSVFormatter creates a new CSV formatter
func NewCSVFormatter(w io.Writer) *CSVFormatter {
	return &CSVFormatter{writer: w, Delimiter: ','}
}

// SetOutput sets the output writer
func (c *CSVFormatter) SetOutput(w io.Writer) {
	c.writer = w
}

// Format writes the table as CSV. Columns keep the table order and nulls
// are written as empty fields.
func (c *CSVFormatter) Format(t *table.Table) error {
	csvWriter := csv.NewWriter(c.writer)
	if c.Delimiter != 0 {
		csvWriter.Comma = c.Delimiter
	}

	if err := csvWriter.Write(t.ColumnNames()); err != nil {
		return err
	}

	cols := t.Columns()
	record := make([]string, len(cols))
	for r := range t.RowCount() {
		for i, col := range cols {
			record[i] = formatValue(col.Value(r))
		}
		if err := csvWriter.Write(record); err != nil {
			return err
		}
	}

	// Flush and check for errors
	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV writer: %w", err)
	}
	return nil
}

// formatValue converts a cell to its CSV text
func formatValue(v scalar.Value) string {
	if v.IsNull() {
		return ""
	}
	s := v.String()
	if v.Type() != scalar.String || s == "" {
		return s
	}
	// Sanitize against CSV injection by prefixing dangerous characters
	// that could trigger formula execution in spreadsheet applications
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '\n', '|':
		return "'" + strings.ReplaceAll(s, "'", "''")
	}
	return s
}
