// Package output provides formatters that write tables in various output
// formats.
//
// # Supported Formats
//
//   - CSV: header row then one record per row; nulls are empty fields
//   - JSON Lines: one JSON object per row, keys in column order
//   - Table: a bordered text grid for terminals
//
// # Basic Usage
//
//	formatter := output.NewJSONFormatter(os.Stdout)
//	if err := formatter.Format(t); err != nil {
//	    log.Fatal(err)
//	}
//
// Select a formatter by name, as the command line does:
//
//	formatter, err := output.New("csv", os.Stdout, output.Options{Delimiter: ';'})
//
// # Type Handling
//
// CSV and pretty output use the String conversion rules of the scalar
// package, so doubles are rounded to six decimals and dates print without
// a time of day when it is midnight. JSON keeps numbers numeric and writes
// dates in RFC 3339. String cells starting with a spreadsheet formula
// character are prefixed with a quote in CSV output.
package output
