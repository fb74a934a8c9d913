package main

import (
	"fmt"
	"os"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	logger  log.Logger = log.NewNopLogger()
)

var rootCmd = &cobra.Command{
	Use:   "tabula",
	Short: "Query parquet and CSV files as typed tables",
	Long: `tabula loads parquet and CSV files into typed, nullable columns and
applies filters, computed columns, sorting, grouping, joins and unions.

Use "tabula query" for one-shot pipelines and "tabula shell" to work with
named tables interactively.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = newLogger(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug information to stderr")
	rootCmd.AddCommand(queryCmd, schemaCmd, shellCmd)
}

// newLogger writes logfmt lines to stderr, filtered to info unless debug is
// set.
func newLogger(debug bool) log.Logger {
	l := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	l = log.With(l, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller)
	if debug {
		return level.NewFilter(l, level.AllowDebug())
	}
	return level.NewFilter(l, level.AllowInfo())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
