package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/spf13/cobra"

	"github.com/vegasq/tabula/internal/session"
	"github.com/vegasq/tabula/output"
	"github.com/vegasq/tabula/reader"
	"github.com/vegasq/tabula/table"
)

// historyEnv overrides the shell history file location
const historyEnv = "TABULA_HISTORY"

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Work with named tables interactively",
	Long: `Start an interactive session. Tables are loaded and derived under names;
type "help" for the command list. When stdin is not a terminal the commands
are read from it line by line.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sh := newShell(cmd.OutOrStdout(), logger)
		if stat, err := os.Stdin.Stat(); err == nil && stat.Mode()&os.ModeCharDevice == 0 {
			return sh.runScript(os.Stdin)
		}
		return sh.runInteractive()
	},
}

const shellHelp = `Commands:
  load NAME FILE                       read a parquet, parquet glob or CSV file
  filter DST SRC EXPR                  keep rows where EXPR is true
  compute DST SRC NAME = EXPR          append a computed column
  sort DST SRC col[:desc][:nullsfirst] ...
  group DST SRC cols ops [aggcols]     comma-separated lists
  join DST LEFT RIGHT KIND [cols]      KIND is inner, left, right or outer
  union DST A B ...                    also unionall and superset
  distinct DST SRC [cols]
  dropnulls DST SRC all|any
  project DST SRC old:new[:type] ...
  lookup SRC KEYCOL VALUE VALCOL       print one value
  show NAME [n] | schema NAME | save NAME FILE
  list | drop NAME | help | exit

A DST of "_" stores the result under a generated name.
`

// shell runs commands against a session store.
type shell struct {
	store  *session.Store
	out    io.Writer
	logger log.Logger
	// showRows is the default row count for show
	showRows int
}

func newShell(out io.Writer, logger log.Logger) *shell {
	return &shell{
		store:    session.NewStore(),
		out:      out,
		logger:   logger,
		showRows: 20,
	}
}

func historyFile() string {
	if path := os.Getenv(historyEnv); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".tabula_history")
}

func (s *shell) runInteractive() error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:            "tabula> ",
		HistoryFile:       historyFile(),
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize readline: %w", err)
	}
	defer rl.Close()

	fmt.Fprintln(s.out, `Enter commands, "help" for assistance, or "exit" to quit.`)
	for {
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, readline.ErrInterrupt) {
				return nil
			}
			return err
		}
		quit, err := s.exec(line)
		if err != nil {
			fmt.Fprintf(s.out, "Error: %v\n", err)
		}
		if quit {
			return nil
		}
	}
}

// runScript executes one command per line and stops at the first error.
// Blank lines and lines starting with # are skipped.
func (s *shell) runScript(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		quit, err := s.exec(line)
		if err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
		if quit {
			return nil
		}
	}
	return scanner.Err()
}

// exec runs a single command line. quit reports an exit request.
func (s *shell) exec(line string) (quit bool, err error) {
	cmd, rest := cutWord(strings.TrimSpace(line))
	if cmd == "" {
		return false, nil
	}
	level.Debug(s.logger).Log("msg", "shell command", "cmd", cmd)

	switch strings.ToLower(cmd) {
	case "exit", "quit", `\q`:
		return true, nil
	case "help", `\h`, "?":
		_, err = io.WriteString(s.out, shellHelp)
	case "load":
		err = s.load(rest)
	case "filter":
		err = s.filter(rest)
	case "compute":
		err = s.compute(rest)
	case "sort":
		err = s.sort(rest)
	case "group":
		err = s.group(rest)
	case "join":
		err = s.join(rest)
	case "union", "unionall", "superset":
		err = s.union(strings.ToLower(cmd), rest)
	case "distinct":
		err = s.distinct(rest)
	case "dropnulls":
		err = s.dropNulls(rest)
	case "project":
		err = s.project(rest)
	case "lookup":
		err = s.lookup(rest)
	case "show":
		err = s.show(rest)
	case "schema":
		err = s.schema(rest)
	case "save":
		err = s.save(rest)
	case "list":
		err = s.list()
	case "drop":
		err = s.drop(rest)
	default:
		err = fmt.Errorf("unknown command %q, type help for the command list", cmd)
	}
	return false, err
}

// cutWord splits off the first whitespace-separated word.
func cutWord(s string) (word, rest string) {
	s = strings.TrimSpace(s)
	i := strings.IndexFunc(s, func(r rune) bool { return r == ' ' || r == '\t' })
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimSpace(s[i:])
}

// words splits off n leading words and returns them with the remainder.
func words(s string, n int, usage string) ([]string, string, error) {
	out := make([]string, n)
	for i := range out {
		out[i], s = cutWord(s)
		if out[i] == "" {
			return nil, "", fmt.Errorf("usage: %s", usage)
		}
	}
	return out, s, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (s *shell) put(dst string, t *table.Table) error {
	name, err := s.store.Put(dst, t)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(s.out, "%s: %d rows, %d columns\n", name, t.RowCount(), t.ColumnCount())
	return err
}

func (s *shell) load(args string) error {
	w, path, err := words(args, 1, "load NAME FILE")
	if err != nil || path == "" {
		return errors.New("usage: load NAME FILE")
	}
	t, err := reader.Open(path)
	if err != nil {
		return err
	}
	return s.put(w[0], t)
}

func (s *shell) filter(args string) error {
	w, expr, err := words(args, 2, "filter DST SRC EXPR")
	if err != nil {
		return err
	}
	src, err := s.store.Get(w[1])
	if err != nil {
		return err
	}
	t, err := src.Filter(expr)
	if err != nil {
		return err
	}
	return s.put(w[0], t)
}

func (s *shell) compute(args string) error {
	const usage = "compute DST SRC NAME = EXPR"
	w, rest, err := words(args, 2, usage)
	if err != nil {
		return err
	}
	names, exprs, err := parseComputes([]string{rest})
	if err != nil {
		return fmt.Errorf("usage: %s", usage)
	}
	src, err := s.store.Get(w[1])
	if err != nil {
		return err
	}
	t, err := src.AppendColumns(names, exprs)
	if err != nil {
		return err
	}
	return s.put(w[0], t)
}

func (s *shell) sort(args string) error {
	w, rest, err := words(args, 2, "sort DST SRC col[:desc][:nullsfirst] ...")
	if err != nil {
		return err
	}
	keys, err := parseSortKeys(strings.Fields(rest))
	if err != nil {
		return err
	}
	src, err := s.store.Get(w[1])
	if err != nil {
		return err
	}
	t, err := src.SortBy(keys...)
	if err != nil {
		return err
	}
	return s.put(w[0], t)
}

func (s *shell) group(args string) error {
	w, rest, err := words(args, 4, "group DST SRC cols ops [aggcols]")
	if err != nil {
		return err
	}
	src, err := s.store.Get(w[1])
	if err != nil {
		return err
	}
	t, err := src.GroupBy(table.GroupSpec{
		Columns:    splitList(w[2]),
		Operations: splitList(w[3]),
		AggColumns: splitList(rest),
	})
	if err != nil {
		return err
	}
	return s.put(w[0], t)
}

func (s *shell) join(args string) error {
	w, rest, err := words(args, 4, "join DST LEFT RIGHT KIND [cols]")
	if err != nil {
		return err
	}
	kind, err := table.ParseJoinType(w[3])
	if err != nil {
		return err
	}
	left, err := s.store.Get(w[1])
	if err != nil {
		return err
	}
	right, err := s.store.Get(w[2])
	if err != nil {
		return err
	}
	t, err := table.Join(left, right, table.JoinSpec{Type: kind, On: splitList(rest)})
	if err != nil {
		return err
	}
	return s.put(w[0], t)
}

func (s *shell) union(mode, args string) error {
	dst, rest := cutWord(args)
	names := strings.Fields(rest)
	if dst == "" || len(names) == 0 {
		return fmt.Errorf("usage: %s DST A B ...", mode)
	}
	tables := make([]*table.Table, len(names))
	for i, name := range names {
		t, err := s.store.Get(name)
		if err != nil {
			return err
		}
		tables[i] = t
	}

	var t *table.Table
	var err error
	switch mode {
	case "unionall":
		t, err = table.UnionAll(tables...)
	case "superset":
		t, err = table.UnionSuperset(tables...)
	default:
		t, err = table.Union(tables...)
	}
	if err != nil {
		return err
	}
	return s.put(dst, t)
}

func (s *shell) distinct(args string) error {
	w, rest, err := words(args, 2, "distinct DST SRC [cols]")
	if err != nil {
		return err
	}
	src, err := s.store.Get(w[1])
	if err != nil {
		return err
	}
	t, err := src.Distinct(strings.Fields(rest)...)
	if err != nil {
		return err
	}
	return s.put(w[0], t)
}

func (s *shell) dropNulls(args string) error {
	w, _, err := words(args, 3, "dropnulls DST SRC all|any")
	if err != nil {
		return err
	}
	mode, err := table.ParseDropNullMode(w[2])
	if err != nil {
		return err
	}
	src, err := s.store.Get(w[1])
	if err != nil {
		return err
	}
	return s.put(w[0], src.DropNulls(mode))
}

func (s *shell) project(args string) error {
	w, rest, err := words(args, 2, "project DST SRC old:new[:type] ...")
	if err != nil {
		return err
	}
	specs := strings.Fields(rest)
	if len(specs) == 0 {
		return errors.New("usage: project DST SRC old:new[:type] ...")
	}
	current := make([]string, len(specs))
	names := make([]string, len(specs))
	types := make([]string, len(specs))
	for i, spec := range specs {
		parts := strings.Split(spec, ":")
		if len(parts) > 3 {
			return fmt.Errorf("invalid projection %q", spec)
		}
		current[i] = parts[0]
		if len(parts) > 1 {
			names[i] = parts[1]
		}
		if len(parts) > 2 {
			types[i] = parts[2]
		}
	}
	src, err := s.store.Get(w[1])
	if err != nil {
		return err
	}
	t, err := src.Project(current, names, types)
	if err != nil {
		return err
	}
	return s.put(w[0], t)
}

func (s *shell) lookup(args string) error {
	w, _, err := words(args, 4, "lookup SRC KEYCOL VALUE VALCOL")
	if err != nil {
		return err
	}
	src, err := s.store.Get(w[0])
	if err != nil {
		return err
	}
	v, err := src.LookupValue(w[1], w[2], w[3], table.DuplicateFirst)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(s.out, v.String())
	return err
}

func (s *shell) show(args string) error {
	w, rest, err := words(args, 1, "show NAME [n]")
	if err != nil {
		return err
	}
	n := s.showRows
	if rest != "" {
		if n, err = strconv.Atoi(rest); err != nil || n < 0 {
			return fmt.Errorf("invalid row count %q", rest)
		}
	}
	t, err := s.store.Get(w[0])
	if err != nil {
		return err
	}
	head := t.Head(n)
	f := output.NewPrettyFormatter(s.out)
	f.Footer = false
	if err := f.Format(head); err != nil {
		return err
	}
	_, err = fmt.Fprintf(s.out, "(%d of %d rows)\n", head.RowCount(), t.RowCount())
	return err
}

func (s *shell) schema(args string) error {
	w, _, err := words(args, 1, "schema NAME")
	if err != nil {
		return err
	}
	t, err := s.store.Get(w[0])
	if err != nil {
		return err
	}
	st, err := schemaTable(reader.TableSchema(t))
	if err != nil {
		return err
	}
	f := output.NewPrettyFormatter(s.out)
	f.Footer = false
	return f.Format(st)
}

func (s *shell) save(args string) error {
	w, path, err := words(args, 1, "save NAME FILE")
	if err != nil || path == "" {
		return errors.New("usage: save NAME FILE")
	}
	format := "csv"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonl":
		format = "json"
	case ".txt":
		format = "table"
	}
	t, err := s.store.Get(w[0])
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	formatter, err := output.New(format, f, output.Options{})
	if err != nil {
		_ = f.Close()
		return err
	}
	if err := formatter.Format(t); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	level.Info(s.logger).Log("msg", "saved table", "name", w[0], "path", path, "rows", t.RowCount())
	return nil
}

func (s *shell) list() error {
	for _, name := range s.store.Names() {
		t, err := s.store.Get(name)
		if err != nil {
			continue
		}
		if _, err := fmt.Fprintf(s.out, "%s\t%d rows\t%d columns\n", name, t.RowCount(), t.ColumnCount()); err != nil {
			return err
		}
	}
	return nil
}

func (s *shell) drop(args string) error {
	w, _, err := words(args, 1, "drop NAME")
	if err != nil {
		return err
	}
	if !s.store.Delete(w[0]) {
		return fmt.Errorf("no table named '%s'", w[0])
	}
	return nil
}
