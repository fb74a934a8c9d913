package table

import (
	"strings"

	"github.com/vegasq/tabula/errs"
	"github.com/vegasq/tabula/scalar"
)

// DuplicatePolicy decides what happens when a lookup or conversion to a
// mapping meets more than one row for a key.
type DuplicatePolicy int

const (
	DuplicateError DuplicatePolicy = iota
	DuplicateFirst
	DuplicateLast
)

// ParseDuplicatePolicy accepts "error", "first" and "last",
// case-insensitively.
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error":
		return DuplicateError, nil
	case "first":
		return DuplicateFirst, nil
	case "last":
		return DuplicateLast, nil
	}
	return 0, errs.Argument("lookup", "unknown duplicate key behavior '%s', must be one of 'error', 'first' or 'last'", s)
}

// LookupValue finds the rows whose lookupColumn cell equals value and
// returns their valueColumn cell. value is converted to the lookup column
// type. More than one match is resolved by policy; no match is an error.
func (t *Table) LookupValue(lookupColumn string, value any, valueColumn string, policy DuplicatePolicy) (scalar.Value, error) {
	cols, err := t.lookup("lookup", lookupColumn, valueColumn)
	if err != nil {
		return scalar.Value{}, err
	}
	lc, vc := cols[0], cols[1]
	want, err := scalar.Convert(value, lc.Type())
	if err != nil || want.IsNull() {
		return scalar.Value{}, errs.Argument("lookup", "could not convert value '%v' to lookup column type '%s'", value, lc.Type())
	}

	var matches []int
	for r := range t.rows {
		if v := lc.Value(r); !v.IsNull() && scalar.Compare(v, want) == 0 {
			matches = append(matches, r)
		}
	}
	switch {
	case len(matches) == 0:
		return scalar.Value{}, errs.Argument("lookup", "no matching rows found")
	case len(matches) == 1, policy == DuplicateFirst:
		return vc.Value(matches[0]), nil
	case policy == DuplicateLast:
		return vc.Value(matches[len(matches)-1]), nil
	}
	return scalar.Value{}, errs.Argument("lookup", "multiple matches found")
}

// ToMap returns the keyColumn/valueColumn cells as ordered pairs, skipping
// rows with a null key. Keys keep the position of their first occurrence;
// a repeated key is resolved by policy.
func (t *Table) ToMap(keyColumn, valueColumn string, policy DuplicatePolicy) ([]Pair, error) {
	cols, err := t.lookup("to map", keyColumn, valueColumn)
	if err != nil {
		return nil, err
	}
	kc, vc := cols[0], cols[1]

	var out []Pair
	seen := make(map[string]int)
	for r := range t.rows {
		k := kc.Value(r)
		if k.IsNull() {
			continue
		}
		i, dup := seen[k.Key()]
		switch {
		case !dup:
			seen[k.Key()] = len(out)
			out = append(out, Pair{Key: k.Any(), Value: vc.Value(r).Any()})
		case policy == DuplicateLast:
			out[i].Value = vc.Value(r).Any()
		case policy == DuplicateError:
			return nil, errs.Argument("to map", "duplicate key in column %s: '%s'", keyColumn, k)
		}
	}
	return out, nil
}

// Rows returns the cells row by row as Go values; nulls are nil.
func (t *Table) Rows() [][]any {
	out := make([][]any, t.rows)
	for r := range out {
		row := make([]any, len(t.columns))
		for j, c := range t.columns {
			row[j] = c.Value(r).Any()
		}
		out[r] = row
	}
	return out
}

// Grid is Rows with an optional header row of column names, the inverse of
// Build.
func (t *Table) Grid(includeHeader bool) [][]any {
	rows := t.Rows()
	if !includeHeader {
		return rows
	}
	header := make([]any, len(t.columns))
	for j, c := range t.columns {
		header[j] = c.Name()
	}
	return append([][]any{header}, rows...)
}

// Records returns one map from column name to value per row.
func (t *Table) Records() []map[string]any {
	out := make([]map[string]any, t.rows)
	for r := range out {
		rec := make(map[string]any, len(t.columns))
		for _, c := range t.columns {
			rec[c.Name()] = c.Value(r).Any()
		}
		out[r] = rec
	}
	return out
}
