package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/vegasq/tabula/table"
)

// Formatter defines the interface for output formatters.
//
// Implementers must provide Format to render a table in the target format
// and SetOutput to change the output destination.
type Formatter interface {
	// Format writes the table in the formatter's specific format
	Format(t *table.Table) error

	// SetOutput changes the output writer
	SetOutput(w io.Writer)
}

// Options tune the formatters that support them.
type Options struct {
	// Delimiter separates CSV fields; defaults to ','.
	Delimiter rune
	// MaxWidth truncates pretty cells wider than this many display columns;
	// zero disables truncation.
	MaxWidth int
}

// New returns the formatter for a format name: "csv", "json" (JSON Lines)
// or "table".
func New(name string, w io.Writer, opts Options) (Formatter, error) {
	switch strings.ToLower(name) {
	case "csv":
		f := NewCSVFormatter(w)
		if opts.Delimiter != 0 {
			f.Delimiter = opts.Delimiter
		}
		return f, nil
	case "json", "jsonl":
		return NewJSONFormatter(w), nil
	case "table", "pretty":
		f := NewPrettyFormatter(w)
		f.MaxWidth = opts.MaxWidth
		return f, nil
	}
	return nil, fmt.Errorf("unknown output format %q, must be one of csv, json or table", name)
}
