package reader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/vegasq/tabula/table"
)

type format int

const (
	formatParquet format = iota
	formatCSV
)

// compression suffixes understood by OpenCSV
var decompressors = map[string]func(io.Reader) (io.ReadCloser, error){
	".gz": func(r io.Reader) (io.ReadCloser, error) {
		return gzip.NewReader(r)
	},
	".zst": func(r io.Reader) (io.ReadCloser, error) {
		d, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return d.IOReadCloser(), nil
	},
	".lz4": func(r io.Reader) (io.ReadCloser, error) {
		return io.NopCloser(lz4.NewReader(r)), nil
	},
	".br": func(r io.Reader) (io.ReadCloser, error) {
		return io.NopCloser(brotli.NewReader(r)), nil
	},
}

// formatOf decides the input format from the file name, ignoring any
// compression suffix.
func formatOf(path string) format {
	name := strings.ToLower(path)
	if _, ok := decompressors[filepath.Ext(name)]; ok {
		name = strings.TrimSuffix(name, filepath.Ext(name))
	}
	switch filepath.Ext(name) {
	case ".csv", ".tsv", ".txt":
		return formatCSV
	}
	return formatParquet
}

// Open reads a parquet or CSV file into a table, choosing the format from
// the extension. Parquet paths may be glob patterns.
func Open(path string) (*table.Table, error) {
	if formatOf(path) == formatCSV {
		return ReadCSV(path, CSVOptions{})
	}
	return ReadMultipleFiles(path)
}

// CSVOptions controls how ReadCSV parses a file.
type CSVOptions struct {
	// Delimiter separates fields; defaults to ',' or '\t' for .tsv files.
	Delimiter rune
	// Types, when set, gives the type of each column; otherwise types are
	// guessed from the cells.
	Types []string
}

// ReadCSV reads a CSV file with a header row into a table. Files ending in
// .gz, .zst, .lz4 or .br are decompressed first. Empty cells and the
// literal "null" become nulls.
func ReadCSV(path string, opts CSVOptions) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var r io.Reader = f
	if open, ok := decompressors[strings.ToLower(filepath.Ext(path))]; ok {
		rc, err := open(f)
		if err != nil {
			return nil, fmt.Errorf("failed to decompress %s: %w", path, err)
		}
		defer func() { _ = rc.Close() }()
		r = rc
	}

	if opts.Delimiter == 0 {
		opts.Delimiter = ','
		if strings.HasSuffix(strings.TrimSuffix(strings.ToLower(path), filepath.Ext(path)), ".tsv") ||
			strings.EqualFold(filepath.Ext(path), ".tsv") {
			opts.Delimiter = '\t'
		}
	}
	t, err := ParseCSV(r, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return t, nil
}

// ParseCSV reads CSV text with a header row into a table.
func ParseCSV(r io.Reader, opts CSVOptions) (*table.Table, error) {
	cr := csv.NewReader(r)
	if opts.Delimiter != 0 {
		cr.Comma = opts.Delimiter
	}
	cr.FieldsPerRecord = -1

	var grid [][]any
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		row := make([]any, len(record))
		for i, cell := range record {
			if cell != "" && !strings.EqualFold(cell, "null") {
				row[i] = cell
			}
		}
		grid = append(grid, row)
	}
	if len(grid) == 0 {
		return nil, errors.New("missing header row")
	}

	if opts.Types == nil {
		return table.Build(grid)
	}
	names := make([]string, len(grid[0]))
	for i, cell := range grid[0] {
		if cell == nil {
			return nil, fmt.Errorf("header cell %d is empty", i)
		}
		names[i] = cell.(string)
	}
	return table.BuildWithTypes(grid[1:], opts.Types, names)
}
