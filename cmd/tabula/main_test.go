package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-kit/log"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vegasq/tabula/table"
)

const salesCSV = "region,units,price\nnorth,3,9.5\nsouth,2,4.25\nnorth,1,12\neast,,5\n"

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRunQuery_Pipeline(t *testing.T) {
	path := writeFile(t, t.TempDir(), "sales.csv", salesCSV)

	var buf bytes.Buffer
	err := runQuery(&buf, log.NewNopLogger(), path, queryOptions{
		compute: []string{"total=units * price"},
		filter:  "total IS NOT NULL",
		groupBy: []string{"region"},
		aggs:    []string{"sum:total"},
		sort:    []string{"region"},
		format:  "csv",
	})
	require.NoError(t, err)
	assert.Equal(t, "region,total.sum\nnorth,40.5\nsouth,8.5\n", buf.String())
}

func TestRunQuery_SelectLimitJSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "sales.csv", salesCSV)

	var buf bytes.Buffer
	err := runQuery(&buf, log.NewNopLogger(), path, queryOptions{
		sort:     []string{"units:desc:nullsfirst"},
		selected: []string{"region", "units"},
		limit:    2,
		format:   "json",
	})
	require.NoError(t, err)
	assert.Equal(t, "{\"region\":\"east\",\"units\":null}\n{\"region\":\"north\",\"units\":3}\n", buf.String())
}

func TestRunQuery_Join(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "sales.csv", salesCSV)
	managers := writeFile(t, dir, "managers.csv", "region,manager\nnorth,ann\nsouth,bob\n")

	var buf bytes.Buffer
	err := runQuery(&buf, log.NewNopLogger(), path, queryOptions{
		joinFile:  managers,
		joinKind:  "left",
		on:        []string{"region"},
		selected:  []string{"region", "manager"},
		format:    "csv",
		delimiter: ";",
	})
	require.NoError(t, err)
	assert.Equal(t, "region;manager\nnorth;ann\nsouth;bob\nnorth;ann\neast;\n", buf.String())
}

func TestRunQuery_Parquet(t *testing.T) {
	type row struct {
		Name  string `parquet:"name"`
		Score int64  `parquet:"score"`
	}
	path := filepath.Join(t.TempDir(), "scores.parquet")
	f, err := os.Create(path)
	require.NoError(t, err)
	w := parquet.NewGenericWriter[row](f)
	_, err = w.Write([]row{{"ada", 7}, {"bo", 3}})
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())

	var buf bytes.Buffer
	err = runQuery(&buf, log.NewNopLogger(), path, queryOptions{filter: "score > 5", format: "csv"})
	require.NoError(t, err)
	assert.Equal(t, "name,score\nada,7\n", buf.String())
}

func TestRunQuery_Errors(t *testing.T) {
	path := writeFile(t, t.TempDir(), "sales.csv", salesCSV)
	tests := []struct {
		name string
		opts queryOptions
		want string
	}{
		{"negative limit", queryOptions{limit: -1, format: "csv"}, "--limit must be non-negative"},
		{"bad format", queryOptions{format: "xml"}, "unknown output format"},
		{"bad delimiter", queryOptions{format: "csv", delimiter: ";;"}, "single character"},
		{"bad filter", queryOptions{format: "csv", filter: "units >"}, "syntax"},
		{"bad compute", queryOptions{format: "csv", compute: []string{"nameonly"}}, "expected name=expression"},
		{"bad sort", queryOptions{format: "csv", sort: []string{"units:sideways"}}, "invalid sort option"},
		{"missing column", queryOptions{format: "csv", selected: []string{"nope"}}, "nope"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := runQuery(&bytes.Buffer{}, log.NewNopLogger(), path, tt.opts)
			require.Error(t, err)
			assert.Contains(t, strings.ToLower(err.Error()), strings.ToLower(tt.want))
		})
	}
}

func TestParseSortKeys(t *testing.T) {
	keys, err := parseSortKeys([]string{"a", "b:desc", "c:nullsfirst:desc", "d:asc:nullslast"})
	require.NoError(t, err)
	assert.Equal(t, []table.SortKey{
		{Column: "a"},
		{Column: "b", Descending: true},
		{Column: "c", Descending: true, NullsFirst: true},
		{Column: "d"},
	}, keys)

	_, err = parseSortKeys([]string{":desc"})
	assert.Error(t, err)
}

func TestParseGroup(t *testing.T) {
	tests := []struct {
		name    string
		aggs    []string
		want    table.GroupSpec
		wantErr bool
	}{
		{
			name: "default count",
			want: table.GroupSpec{Columns: []string{"g"}, Operations: []string{"count"}},
		},
		{
			name: "op only",
			aggs: []string{"mean"},
			want: table.GroupSpec{Columns: []string{"g"}, Operations: []string{"mean"}},
		},
		{
			name: "columns without names",
			aggs: []string{"sum:x", "max:y"},
			want: table.GroupSpec{Columns: []string{"g"}, Operations: []string{"sum", "max"}, AggColumns: []string{"x", "y"}},
		},
		{
			name: "partial names",
			aggs: []string{"sum:x:total", "max:y"},
			want: table.GroupSpec{
				Columns:     []string{"g"},
				Operations:  []string{"sum", "max"},
				AggColumns:  []string{"x", "y"},
				OutputNames: []string{"total", "y.max"},
			},
		},
		{name: "mixed", aggs: []string{"sum:x", "count"}, wantErr: true},
		{name: "too many parts", aggs: []string{"sum:x:y:z"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseGroup([]string{"g"}, tt.aggs)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRunSchema(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.csv", salesCSV)
	writeFile(t, dir, "b.csv", salesCSV)

	var buf bytes.Buffer
	require.NoError(t, runSchema(&buf, log.NewNopLogger(), filepath.Join(dir, "*.csv"), "csv"))
	assert.Equal(t, "name,type,physical_type,logical_type,required,repeated\n"+
		"region,String,,,true,false\n"+
		"units,Double,,,false,false\n"+
		"price,Double,,,true,false\n", buf.String())

	err := runSchema(&buf, log.NewNopLogger(), filepath.Join(dir, "*.parquet"), "csv")
	assert.ErrorContains(t, err, "no files match pattern")
}

func TestHistoryFile(t *testing.T) {
	t.Setenv(historyEnv, "/tmp/custom_history")
	assert.Equal(t, "/tmp/custom_history", historyFile())

	t.Setenv(historyEnv, "")
	assert.Equal(t, ".tabula_history", filepath.Base(historyFile()))
}
