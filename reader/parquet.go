package reader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"
	"github.com/segmentio/encoding/json"

	"github.com/vegasq/tabula/column"
	"github.com/vegasq/tabula/scalar"
	"github.com/vegasq/tabula/table"
)

// rowBatch is the number of rows fetched per ReadRows call
const rowBatch = 256

// Reader reads a parquet file into a table.
//
// It maintains both an OS file handle and a parquet file handle to enable
// proper resource cleanup.
type Reader struct {
	file   *os.File
	pqFile *parquet.File
}

// NewReader creates a new parquet reader for the specified file path.
//
// The file is opened and validated as a parquet file. Returns an error if
// the file doesn't exist or is not a valid parquet file.
//
// Example:
//
//	r, err := reader.NewReader("sales.parquet")
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
func NewReader(path string) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	stat, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pqFile, err := parquet.OpenFile(file, stat.Size())
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}

	return &Reader{
		file:   file,
		pqFile: pqFile,
	}, nil
}

// ReadTable reads every row of the file into a table.
//
// Each leaf column of the schema becomes one table column named by its
// dot-separated path. Repeated leaves become String columns holding a JSON
// array per row. The entire file is loaded into memory.
func (r *Reader) ReadTable() (*table.Table, error) {
	schema := r.pqFile.Schema()
	paths := schema.Columns()

	leaves := make([]leafColumn, len(paths))
	for i, path := range paths {
		leaf, ok := schema.Lookup(path...)
		if !ok {
			return nil, fmt.Errorf("column %s missing from schema", strings.Join(path, "."))
		}
		leaves[i] = newLeafColumn(strings.Join(path, "."), leaf)
	}

	pr := parquet.NewReader(r.pqFile)
	defer func() { _ = pr.Close() }()

	rows := make([]parquet.Row, rowBatch)
	for {
		n, err := pr.ReadRows(rows)
		for _, row := range rows[:n] {
			if err := appendRow(leaves, row); err != nil {
				return nil, err
			}
		}
		if err != nil {
			// Use errors.Is for proper EOF detection
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		if n == 0 {
			break
		}
	}

	cols := make([]*column.Column, len(leaves))
	for i, l := range leaves {
		c, err := column.FromAny(l.name, l.typ, l.cells)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", l.name, err)
		}
		cols[i] = c
	}
	return table.New(cols...)
}

// appendRow adds one cell per leaf column from a parquet row.
func appendRow(leaves []leafColumn, row parquet.Row) error {
	var repeated map[int][]any
	for _, v := range row {
		idx := v.Column()
		if idx < 0 || idx >= len(leaves) {
			return fmt.Errorf("value for unknown column index %d", idx)
		}
		l := &leaves[idx]
		cell, err := l.convert(v)
		if err != nil {
			return fmt.Errorf("column %s: %w", l.name, err)
		}
		if !l.repeated {
			l.cells = append(l.cells, cell)
			continue
		}
		if repeated == nil {
			repeated = make(map[int][]any)
		}
		items := repeated[idx]
		if items == nil {
			items = []any{}
		}
		if cell != nil {
			items = append(items, cell.(scalar.Value).Any())
		}
		repeated[idx] = items
	}
	for idx := range leaves {
		l := &leaves[idx]
		if !l.repeated {
			continue
		}
		items, ok := repeated[idx]
		if !ok {
			l.cells = append(l.cells, nil)
			continue
		}
		encoded, err := json.Marshal(items)
		if err != nil {
			return fmt.Errorf("column %s: %w", l.name, err)
		}
		l.cells = append(l.cells, string(encoded))
	}
	return nil
}

// Schema returns the parquet file schema.
//
// The schema contains metadata about the columns, types, and structure
// of the parquet file.
func (r *Reader) Schema() *parquet.Schema {
	return r.pqFile.Schema()
}

// NumRows returns the row count recorded in the file metadata.
func (r *Reader) NumRows() int64 {
	return r.pqFile.NumRows()
}

// Close closes the parquet reader and releases associated resources.
//
// Should be called when done reading to avoid resource leaks. It is safe
// to call Close multiple times.
func (r *Reader) Close() error {
	if r.file != nil {
		err := r.file.Close()
		r.file = nil
		return err
	}
	return nil
}

// ReadParquet reads a single parquet file into a table.
func ReadParquet(path string) (*table.Table, error) {
	r, err := NewReader(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()
	return r.ReadTable()
}

// ReadMultipleFiles reads every parquet file matching a glob pattern into
// one table.
//
// The pattern can include wildcards:
//   - * matches any sequence of non-separator characters
//   - ? matches any single non-separator character
//   - [range] matches any character in range
//
// Files whose columns differ are combined with table.UnionSuperset. When
// the pattern is a glob, a "_file" column records the source path of each
// row; a plain path is read as is.
func ReadMultipleFiles(pattern string) (*table.Table, error) {
	// Check if pattern contains glob wildcards
	if !strings.ContainsAny(pattern, "*?[]") {
		return ReadParquet(pattern)
	}

	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid glob pattern: %w", err)
	}

	if len(matches) == 0 {
		return nil, fmt.Errorf("no files match pattern: %s", pattern)
	}

	// Limit number of files to prevent resource exhaustion
	const maxFiles = 1000
	if len(matches) > maxFiles {
		return nil, fmt.Errorf("glob pattern matched too many files (%d), maximum is %d", len(matches), maxFiles)
	}

	tables := make([]*table.Table, 0, len(matches))
	for _, filePath := range matches {
		t, err := ReadParquet(filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", filePath, err)
		}
		if !t.HasColumn(fileColumn) {
			t, err = t.AppendColumn(column.Repeat(fileColumn, scalar.Str(filePath), t.RowCount()))
			if err != nil {
				return nil, err
			}
		}
		tables = append(tables, t)
	}
	return table.UnionSuperset(tables...)
}

// fileColumn tags rows of multi-file reads with their source path
const fileColumn = "_file"
