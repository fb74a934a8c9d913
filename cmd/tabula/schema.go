package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/spf13/cobra"

	"github.com/vegasq/tabula/column"
	"github.com/vegasq/tabula/reader"
	"github.com/vegasq/tabula/table"
)

var schemaFormat string

var schemaCmd = &cobra.Command{
	Use:   "schema FILE",
	Short: "Print the column names and types of a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSchema(cmd.OutOrStdout(), logger, args[0], schemaFormat)
	},
}

func init() {
	schemaCmd.Flags().StringVarP(&schemaFormat, "format", "f", "table", "Output format: json (JSON Lines), csv or table")
}

func runSchema(w io.Writer, logger log.Logger, pattern, format string) error {
	formatter, err := newFormatter(format, ",", w)
	if err != nil {
		return err
	}

	// Resolve glob patterns to their first match
	path := pattern
	if strings.ContainsAny(pattern, "*?[]") {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return fmt.Errorf("invalid glob pattern: %w", err)
		}
		if len(matches) == 0 {
			return fmt.Errorf("no files match pattern: %s", pattern)
		}
		path = matches[0]
		if len(matches) > 1 {
			level.Info(logger).Log("msg", "showing schema of first match", "file", path, "matched", len(matches))
		}
	}

	infos, err := reader.ExtractSchemaInfo(path)
	if err != nil {
		return err
	}
	t, err := schemaTable(infos)
	if err != nil {
		return err
	}
	return formatter.Format(t)
}

// schemaTable lays schema entries out as a table, one row per column.
func schemaTable(infos []reader.SchemaInfo) (*table.Table, error) {
	n := len(infos)
	names := make([]string, n)
	types := make([]string, n)
	physical := make([]string, n)
	logical := make([]string, n)
	required := make([]bool, n)
	repeated := make([]bool, n)
	for i, info := range infos {
		names[i] = info.Name
		types[i] = info.Type
		physical[i] = info.PhysicalType
		logical[i] = info.LogicalType
		required[i] = info.Required
		repeated[i] = info.Repeated
	}
	return table.New(
		column.Strings("name", names...),
		column.Strings("type", types...),
		column.Strings("physical_type", physical...),
		column.Strings("logical_type", logical...),
		column.Bools("required", required...),
		column.Bools("repeated", repeated...),
	)
}
