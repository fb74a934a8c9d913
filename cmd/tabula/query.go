package main

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/spf13/cobra"

	"github.com/vegasq/tabula/output"
	"github.com/vegasq/tabula/reader"
	"github.com/vegasq/tabula/table"
)

// queryOptions holds the query command flags.
type queryOptions struct {
	filter    string
	compute   []string
	selected  []string
	sort      []string
	groupBy   []string
	aggs      []string
	joinFile  string
	joinKind  string
	on        []string
	limit     int
	format    string
	delimiter string
}

var queryOpts queryOptions

var queryCmd = &cobra.Command{
	Use:   "query FILE",
	Short: "Run a filter, compute, group, sort pipeline over a file",
	Long: `Load FILE (parquet, parquet glob or CSV) and apply, in order: join,
computed columns, filter, group by, sort, select and limit.`,
	Example: `  tabula query sales.parquet --filter "region == 'north'" --sort units:desc
  tabula query sales.csv --compute "total=units * price" --group-by region --agg sum:total
  tabula query 'data/*.parquet' --join customers.csv --on customer_id --format table`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQuery(cmd.OutOrStdout(), logger, args[0], queryOpts)
	},
}

func init() {
	f := queryCmd.Flags()
	f.StringVar(&queryOpts.filter, "filter", "", "Keep rows where the expression is true")
	f.StringArrayVar(&queryOpts.compute, "compute", nil, "Append a computed column, name=expression (repeatable)")
	f.StringSliceVar(&queryOpts.selected, "select", nil, "Columns to output, in order")
	f.StringArrayVar(&queryOpts.sort, "sort", nil, "Sort key col[:desc][:nullsfirst] (repeatable)")
	f.StringSliceVar(&queryOpts.groupBy, "group-by", nil, "Columns to group by")
	f.StringArrayVar(&queryOpts.aggs, "agg", nil, "Aggregation op[:col[:name]] (repeatable)")
	f.StringVar(&queryOpts.joinFile, "join", "", "File to join with")
	f.StringVar(&queryOpts.joinKind, "join-kind", "inner", "Join kind: inner, left, right or outer")
	f.StringSliceVar(&queryOpts.on, "on", nil, "Join columns; defaults to the common column names")
	f.IntVar(&queryOpts.limit, "limit", 0, "Limit number of rows (0 = unlimited)")
	f.StringVarP(&queryOpts.format, "format", "f", "json", "Output format: json (JSON Lines), csv or table")
	f.StringVar(&queryOpts.delimiter, "delimiter", ",", "CSV output delimiter")
}

func runQuery(w io.Writer, logger log.Logger, path string, opts queryOptions) error {
	if opts.limit < 0 {
		return fmt.Errorf("--limit must be non-negative, got %d", opts.limit)
	}
	formatter, err := newFormatter(opts.format, opts.delimiter, w)
	if err != nil {
		return err
	}

	start := time.Now()
	t, err := reader.Open(path)
	if err != nil {
		return err
	}
	level.Debug(logger).Log("msg", "loaded table", "path", path, "rows", t.RowCount(), "columns", t.ColumnCount(), "duration", time.Since(start))

	if t, err = applyQuery(t, opts, logger); err != nil {
		return err
	}
	return formatter.Format(t)
}

// applyQuery runs every stage of the pipeline that has flags set.
func applyQuery(t *table.Table, opts queryOptions, logger log.Logger) (*table.Table, error) {
	var err error

	if opts.joinFile != "" {
		right, err := reader.Open(opts.joinFile)
		if err != nil {
			return nil, err
		}
		kind, err := table.ParseJoinType(opts.joinKind)
		if err != nil {
			return nil, err
		}
		if t, err = table.Join(t, right, table.JoinSpec{Type: kind, On: opts.on}); err != nil {
			return nil, err
		}
		level.Debug(logger).Log("msg", "joined", "file", opts.joinFile, "kind", kind, "rows", t.RowCount())
	}

	if len(opts.compute) > 0 {
		names, exprs, err := parseComputes(opts.compute)
		if err != nil {
			return nil, err
		}
		if t, err = t.AppendColumns(names, exprs); err != nil {
			return nil, err
		}
	}

	if opts.filter != "" {
		if t, err = t.Filter(opts.filter); err != nil {
			return nil, err
		}
		level.Debug(logger).Log("msg", "filtered", "expr", opts.filter, "rows", t.RowCount())
	}

	if len(opts.groupBy) > 0 || len(opts.aggs) > 0 {
		spec, err := parseGroup(opts.groupBy, opts.aggs)
		if err != nil {
			return nil, err
		}
		if t, err = t.GroupBy(spec); err != nil {
			return nil, err
		}
		level.Debug(logger).Log("msg", "grouped", "groups", t.RowCount())
	}

	if len(opts.sort) > 0 {
		keys, err := parseSortKeys(opts.sort)
		if err != nil {
			return nil, err
		}
		if t, err = t.SortBy(keys...); err != nil {
			return nil, err
		}
	}

	if len(opts.selected) > 0 {
		if t, err = t.Select(opts.selected...); err != nil {
			return nil, err
		}
	}

	if opts.limit > 0 {
		t = t.Head(opts.limit)
	}
	return t, nil
}

func newFormatter(format, delimiter string, w io.Writer) (output.Formatter, error) {
	var opts output.Options
	if delimiter != "" {
		r := []rune(delimiter)
		if len(r) != 1 {
			return nil, fmt.Errorf("--delimiter must be a single character, got %q", delimiter)
		}
		opts.Delimiter = r[0]
	}
	return output.New(format, w, opts)
}

// parseComputes splits name=expression pairs at the first '='.
func parseComputes(specs []string) (names, exprs []string, err error) {
	for _, spec := range specs {
		name, expr, ok := strings.Cut(spec, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" || strings.TrimSpace(expr) == "" {
			return nil, nil, fmt.Errorf("invalid computed column %q, expected name=expression", spec)
		}
		names = append(names, name)
		exprs = append(exprs, expr)
	}
	return names, exprs, nil
}

// parseSortKeys reads col[:desc|asc][:nullsfirst|nullslast] keys.
func parseSortKeys(specs []string) ([]table.SortKey, error) {
	keys := make([]table.SortKey, 0, len(specs))
	for _, spec := range specs {
		parts := strings.Split(spec, ":")
		key := table.SortKey{Column: strings.TrimSpace(parts[0])}
		if key.Column == "" {
			return nil, fmt.Errorf("invalid sort key %q", spec)
		}
		for _, opt := range parts[1:] {
			switch strings.ToLower(strings.TrimSpace(opt)) {
			case "desc":
				key.Descending = true
			case "asc":
				key.Descending = false
			case "nullsfirst":
				key.NullsFirst = true
			case "nullslast":
				key.NullsFirst = false
			default:
				return nil, fmt.Errorf("invalid sort option %q in %q", opt, spec)
			}
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// parseGroup builds a group spec from op[:col[:name]] aggregations. When no
// aggregation names a column, each op applies to every numeric column.
func parseGroup(groupBy, aggs []string) (table.GroupSpec, error) {
	spec := table.GroupSpec{Columns: groupBy}
	if len(aggs) == 0 {
		aggs = []string{"count"}
	}
	withColumns := 0
	for _, agg := range aggs {
		parts := strings.Split(agg, ":")
		if len(parts) > 3 || strings.TrimSpace(parts[0]) == "" {
			return table.GroupSpec{}, fmt.Errorf("invalid aggregation %q, expected op[:col[:name]]", agg)
		}
		spec.Operations = append(spec.Operations, parts[0])
		if len(parts) > 1 {
			withColumns++
			spec.AggColumns = append(spec.AggColumns, parts[1])
			name := ""
			if len(parts) == 3 {
				name = parts[2]
			}
			spec.OutputNames = append(spec.OutputNames, name)
		}
	}
	if withColumns != 0 && withColumns != len(aggs) {
		return table.GroupSpec{}, fmt.Errorf("either every aggregation names a column or none does")
	}
	if !slices.ContainsFunc(spec.OutputNames, func(n string) bool { return n != "" }) {
		spec.OutputNames = nil
	}
	for i, name := range spec.OutputNames {
		if name == "" {
			spec.OutputNames[i] = spec.AggColumns[i] + "." + spec.Operations[i]
		}
	}
	return spec, nil
}
