package reader

import (
	"fmt"
	"strings"

	"github.com/parquet-go/parquet-go"

	"github.com/vegasq/tabula/table"
)

// SchemaInfo represents metadata about a single column of an input file.
//
// Type is the tabula column type the reader produces for the column. The
// parquet fields are empty for CSV inputs.
type SchemaInfo struct {
	Name         string `json:"name"`
	Type         string `json:"type"`
	PhysicalType string `json:"physical_type,omitempty"`
	LogicalType  string `json:"logical_type,omitempty"`
	Required     bool   `json:"required"`
	Optional     bool   `json:"optional"`
	Repeated     bool   `json:"repeated"`
}

// ExtractSchemaInfo extracts schema information from a file.
//
// Parquet files report one entry per leaf column; nested fields use dot
// notation (e.g., "address.street"). Other formats are read in full and
// report the guessed column types.
func ExtractSchemaInfo(path string) ([]SchemaInfo, error) {
	if formatOf(path) != formatParquet {
		t, err := Open(path)
		if err != nil {
			return nil, err
		}
		return TableSchema(t), nil
	}

	reader, err := NewReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer func() { _ = reader.Close() }()

	schema := reader.Schema()
	var schemaInfos []SchemaInfo
	for _, columnPath := range schema.Columns() {
		leaf, ok := schema.Lookup(columnPath...)
		if !ok {
			continue
		}
		schemaInfos = append(schemaInfos, leafInfo(strings.Join(columnPath, "."), leaf))
	}
	return schemaInfos, nil
}

// TableSchema describes the columns of an in-memory table.
func TableSchema(t *table.Table) []SchemaInfo {
	infos := make([]SchemaInfo, t.ColumnCount())
	for i, c := range t.Columns() {
		infos[i] = SchemaInfo{
			Name:     c.Name(),
			Type:     c.Type().String(),
			Optional: c.NullCount() > 0,
			Required: c.NullCount() == 0,
		}
	}
	return infos
}

func leafInfo(name string, leaf parquet.LeafColumn) SchemaInfo {
	l := newLeafColumn(name, leaf)
	node := leaf.Node
	return SchemaInfo{
		Name:         name,
		Type:         l.typ.String(),
		PhysicalType: getPhysicalType(node),
		LogicalType:  getLogicalType(node),
		Required:     node.Required(),
		Optional:     node.Optional(),
		Repeated:     l.repeated,
	}
}

// getPhysicalType returns the physical type name of a parquet node.
func getPhysicalType(node parquet.Node) string {
	if !node.Leaf() {
		return "GROUP"
	}

	switch node.Type().Kind() {
	case parquet.Boolean:
		return "BOOLEAN"
	case parquet.Int32:
		return "INT32"
	case parquet.Int64:
		return "INT64"
	case parquet.Int96:
		return "INT96"
	case parquet.Float:
		return "FLOAT"
	case parquet.Double:
		return "DOUBLE"
	case parquet.ByteArray:
		return "BYTE_ARRAY"
	case parquet.FixedLenByteArray:
		return "FIXED_LEN_BYTE_ARRAY"
	default:
		return "UNKNOWN"
	}
}

// getLogicalType returns the logical type name of a parquet node.
func getLogicalType(node parquet.Node) string {
	if !node.Leaf() {
		return ""
	}

	logicalType := node.Type().LogicalType()
	if logicalType == nil {
		return ""
	}
	return logicalType.String()
}
