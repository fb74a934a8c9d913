package reader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vegasq/tabula/table"
)

func TestExtractSchemaInfo_PrimitiveTypes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales.parquet")
	writeParquet(t, path, sales())

	infos, err := ExtractSchemaInfo(path)
	require.NoError(t, err)
	require.Len(t, infos, 6)

	byName := make(map[string]SchemaInfo)
	for _, info := range infos {
		byName[info.Name] = info
	}

	tests := []struct {
		name     string
		typ      string
		physical string
		required bool
	}{
		{"id", "Int64", "INT64", true},
		{"region", "String", "BYTE_ARRAY", true},
		{"units", "Int32", "INT32", true},
		{"price", "Double", "DOUBLE", true},
		{"paid", "Boolean", "BOOLEAN", true},
		{"note", "String", "BYTE_ARRAY", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, ok := byName[tt.name]
			require.True(t, ok)
			assert.Equal(t, tt.typ, info.Type)
			assert.Equal(t, tt.physical, info.PhysicalType)
			assert.Equal(t, tt.required, info.Required)
			assert.Equal(t, !tt.required, info.Optional)
			assert.False(t, info.Repeated)
		})
	}
	assert.NotEmpty(t, byName["region"].LogicalType)
}

func TestExtractSchemaInfo_NestedAndRepeated(t *testing.T) {
	type address struct {
		City string `parquet:"city"`
	}
	type customer struct {
		Address address  `parquet:"address"`
		Tags    []string `parquet:"tags"`
	}
	path := filepath.Join(t.TempDir(), "customers.parquet")
	writeParquet(t, path, []customer{{Address: address{City: "Oslo"}, Tags: []string{"a"}}})

	infos, err := ExtractSchemaInfo(path)
	require.NoError(t, err)
	require.Len(t, infos, 2)

	assert.Equal(t, "address.city", infos[0].Name)
	assert.False(t, infos[0].Repeated)
	assert.Equal(t, "tags", infos[1].Name)
	assert.True(t, infos[1].Repeated)
	assert.Equal(t, "String", infos[1].Type)
}

func TestExtractSchemaInfo_CSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales.csv")
	require.NoError(t, os.WriteFile(path, []byte("id,region,price\n1,north,9.5\n2,,4\n"), 0o600))

	infos, err := ExtractSchemaInfo(path)
	require.NoError(t, err)
	require.Len(t, infos, 3)

	assert.Equal(t, SchemaInfo{Name: "region", Type: "String", Optional: true}, infos[1])
	assert.Equal(t, "Double", infos[2].Type)
	assert.Empty(t, infos[2].PhysicalType)
}

func TestExtractSchemaInfo_Errors(t *testing.T) {
	_, err := ExtractSchemaInfo(filepath.Join(t.TempDir(), "missing.parquet"))
	assert.ErrorContains(t, err, "failed to open parquet file")

	bogus := filepath.Join(t.TempDir(), "bogus.parquet")
	require.NoError(t, os.WriteFile(bogus, []byte("PAR1 but not really"), 0o600))
	_, err = ExtractSchemaInfo(bogus)
	assert.Error(t, err)
}

func TestTableSchema(t *testing.T) {
	tbl, err := table.Build([][]any{
		{"name", "score"},
		{"ada", 1.5},
		{"bo", nil},
	})
	require.NoError(t, err)

	assert.Equal(t, []SchemaInfo{
		{Name: "name", Type: "String", Required: true},
		{Name: "score", Type: "Double", Optional: true},
	}, TableSchema(tbl))
}

func BenchmarkExtractSchemaInfo(b *testing.B) {
	path := filepath.Join(b.TempDir(), "sales.parquet")
	writeParquet(b, path, sales())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ExtractSchemaInfo(path); err != nil {
			b.Fatal(err)
		}
	}
}
