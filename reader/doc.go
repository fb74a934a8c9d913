// Package reader loads Apache Parquet and CSV files into tables.
//
// Parquet leaf columns map onto tabula column types: integers keep their
// width and signedness, DATE and TIMESTAMP become DateTime, DECIMAL becomes
// Decimal, and byte arrays become String. Nested fields are named with dot
// notation and repeated fields are rendered as JSON arrays.
//
// # Basic Usage
//
// Reading a single parquet file:
//
//	t, err := reader.ReadParquet("sales.parquet")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(t.Describe())
//
// # Multi-file Operations
//
// Reading multiple files using glob patterns:
//
//	t, err := reader.ReadMultipleFiles("data/*.parquet")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Each row carries a "_file" column with the source file path
//	files, _ := t.Column("_file")
//
// Files with differing columns are combined; columns missing from a file
// are null for its rows.
//
// # CSV
//
// CSV files need a header row. Cell types are guessed unless given:
//
//	t, err := reader.ReadCSV("sales.csv.zst", reader.CSVOptions{
//	    Types: []string{"string", "int", "decimal"},
//	})
//
// Files ending in .gz, .zst, .lz4 or .br are decompressed on the fly.
// Open picks between parquet and CSV from the file extension.
//
// # Schema Introspection
//
//	infos, err := reader.ExtractSchemaInfo("sales.parquet")
//	for _, info := range infos {
//	    fmt.Printf("%s: %s (%s)\n", info.Name, info.Type, info.PhysicalType)
//	}
package reader
