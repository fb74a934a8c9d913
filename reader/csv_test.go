package reader

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vegasq/tabula/scalar"
)

const salesCSV = "region,units,price,shipped\nnorth,3,9.5,2024-01-31\nsouth,,4.25,null\nnorth,1,12,2024-02-01\n"

func TestParseCSV(t *testing.T) {
	tbl, err := ParseCSV(strings.NewReader(salesCSV), CSVOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"region", "units", "price", "shipped"}, tbl.ColumnNames())
	assert.Equal(t, []scalar.Type{scalar.String, scalar.Double, scalar.Double, scalar.DateTime}, tbl.Types())
	assert.Equal(t, []any{3.0, nil, 1.0}, cells(t, tbl, "units"))
	c, err := tbl.Column("shipped")
	require.NoError(t, err)
	assert.True(t, c.IsNull(1))
}

func TestParseCSV_Types(t *testing.T) {
	tbl, err := ParseCSV(strings.NewReader(salesCSV), CSVOptions{
		Types: []string{"string", "int32", "decimal", "string"},
	})
	require.NoError(t, err)

	assert.Equal(t, []scalar.Type{scalar.String, scalar.Int32, scalar.Decimal, scalar.String}, tbl.Types())
	assert.Equal(t, []any{int32(3), nil, int32(1)}, cells(t, tbl, "units"))
}

func TestParseCSV_Delimiter(t *testing.T) {
	tbl, err := ParseCSV(strings.NewReader("a;b\n1;x\n"), CSVOptions{Delimiter: ';'})
	require.NoError(t, err)
	assert.Equal(t, []any{"x"}, cells(t, tbl, "b"))
}

func TestParseCSV_Errors(t *testing.T) {
	_, err := ParseCSV(strings.NewReader(""), CSVOptions{})
	assert.ErrorContains(t, err, "missing header row")

	_, err = ParseCSV(strings.NewReader("a,\n1,2\n"), CSVOptions{Types: []string{"int", "int"}})
	assert.ErrorContains(t, err, "header cell 1 is empty")

	_, err = ParseCSV(strings.NewReader("a\n\"unterminated\n"), CSVOptions{})
	assert.Error(t, err)
}

func compress(t *testing.T, ext string, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	var w io.WriteCloser
	switch ext {
	case ".gz":
		w = gzip.NewWriter(&buf)
	case ".zst":
		zw, err := zstd.NewWriter(&buf)
		require.NoError(t, err)
		w = zw
	case ".lz4":
		w = lz4.NewWriter(&buf)
	case ".br":
		w = brotli.NewWriter(&buf)
	default:
		return data
	}
	_, err := w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestReadCSV_Compressed(t *testing.T) {
	for _, ext := range []string{"", ".gz", ".zst", ".lz4", ".br"} {
		t.Run("csv"+ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "sales.csv"+ext)
			require.NoError(t, os.WriteFile(path, compress(t, ext, []byte(salesCSV)), 0o600))

			tbl, err := Open(path)
			require.NoError(t, err)
			assert.Equal(t, 3, tbl.RowCount())
			assert.Equal(t, []any{"north", "south", "north"}, cells(t, tbl, "region"))
		})
	}
}

func TestReadCSV_TSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales.tsv.gz")
	data := strings.ReplaceAll(salesCSV, ",", "\t")
	require.NoError(t, os.WriteFile(path, compress(t, ".gz", []byte(data)), 0o600))

	tbl, err := ReadCSV(path, CSVOptions{})
	require.NoError(t, err)
	assert.Equal(t, 4, tbl.ColumnCount())
}

func TestReadCSV_CorruptCompression(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales.csv.gz")
	require.NoError(t, os.WriteFile(path, []byte("plain text"), 0o600))

	_, err := ReadCSV(path, CSVOptions{})
	assert.ErrorContains(t, err, "failed to decompress")
}

func TestFormatOf(t *testing.T) {
	tests := []struct {
		path string
		want format
	}{
		{"a.parquet", formatParquet},
		{"data/*.parquet", formatParquet},
		{"a.csv", formatCSV},
		{"A.CSV.GZ", formatCSV},
		{"a.tsv.zst", formatCSV},
		{"a.txt", formatCSV},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, formatOf(tt.path))
		})
	}
}
