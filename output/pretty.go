package output

import (
	"fmt"
	"io"

	"github.com/mattn/go-runewidth"
	"github.com/olekukonko/tablewriter"

	"github.com/vegasq/tabula/scalar"
	"github.com/vegasq/tabula/table"
)

// nullText is how the pretty formatter shows a null cell
const nullText = "NULL"

// PrettyFormatter renders a table as an aligned text grid for terminals.
type PrettyFormatter struct {
	writer io.Writer
	// MaxWidth truncates cells wider than this many display columns;
	// zero disables truncation.
	MaxWidth int
	// Footer prints the row count below the grid when set.
	Footer bool
}

// NewPrettyFormatter creates a pretty formatter with a 40 column cell limit
func NewPrettyFormatter(w io.Writer) *PrettyFormatter {
	return &PrettyFormatter{writer: w, MaxWidth: 40, Footer: true}
}

// SetOutput sets the output writer
func (p *PrettyFormatter) SetOutput(w io.Writer) {
	p.writer = w
}

// Format writes the table as a bordered grid. Numeric columns are right
// aligned.
func (p *PrettyFormatter) Format(t *table.Table) error {
	tw := tablewriter.NewWriter(p.writer)
	tw.SetHeader(t.ColumnNames())
	tw.SetAutoFormatHeaders(false)
	tw.SetAutoWrapText(false)

	cols := t.Columns()
	align := make([]int, len(cols))
	for i, c := range cols {
		align[i] = tablewriter.ALIGN_LEFT
		if c.Type().IsNumeric() {
			align[i] = tablewriter.ALIGN_RIGHT
		}
	}
	tw.SetColumnAlignment(align)

	for r := range t.RowCount() {
		row := make([]string, len(cols))
		for i, c := range cols {
			row[i] = p.cell(c.Value(r))
		}
		tw.Append(row)
	}
	tw.Render()

	if p.Footer {
		_, err := fmt.Fprintf(p.writer, "(%d rows)\n", t.RowCount())
		return err
	}
	return nil
}

func (p *PrettyFormatter) cell(v scalar.Value) string {
	if v.IsNull() {
		return nullText
	}
	s := v.String()
	if p.MaxWidth > 0 && runewidth.StringWidth(s) > p.MaxWidth {
		s = runewidth.Truncate(s, p.MaxWidth, "…")
	}
	return s
}
